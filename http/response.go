package http

import (
	"errors"
	"io"
	"net/http"
	"reflect"
	"sync"

	"github.com/wesleyorama2/httpmaster/pkg/jsonpath"
	"github.com/wesleyorama2/httpmaster/pkg/jsonschema"
)

var errBodyClosed = errors.New("response body closed before it was read")

// Response wraps a completed HTTP response. The body is read lazily on
// first access and cached; typed results are cached per target type.
//
// Non-2xx responses are ordinary responses: inspect StatusCode yourself.
type Response struct {
	raw        *http.Response
	serializer *Serializer
	timing     TimingInfo

	bodyOnce sync.Once
	body     []byte
	bodyErr  error
	// release drops the per-call transport once the body is done
	release func()

	typedMu sync.Mutex
	typed   map[reflect.Type]any
}

func newResponse(raw *http.Response, serializer *Serializer, timing TimingInfo) *Response {
	return &Response{
		raw:        raw,
		serializer: serializer,
		timing:     timing,
		typed:      make(map[reflect.Type]any),
	}
}

// StatusCode returns the HTTP status code (e.g., 200, 404, 500).
func (r *Response) StatusCode() int {
	return r.raw.StatusCode
}

// Status returns the HTTP status line text (e.g., "200 OK").
func (r *Response) Status() string {
	return r.raw.Status
}

// Headers returns the response headers.
func (r *Response) Headers() http.Header {
	return r.raw.Header
}

// Header returns the first value of the named response header.
func (r *Response) Header(name string) string {
	return r.raw.Header.Get(name)
}

// Timing returns the request timing up to the response headers.
func (r *Response) Timing() TimingInfo {
	return r.timing
}

// Serializer returns the serializer used by the originating request.
func (r *Response) Serializer() *Serializer {
	return r.serializer
}

// Body returns the full response body. The transport stream is read and
// closed on the first call; later calls return the cached bytes and error.
func (r *Response) Body() ([]byte, error) {
	r.bodyOnce.Do(func() {
		defer r.releaseTransport()
		if r.raw.Body == nil {
			return
		}
		defer r.raw.Body.Close()
		r.body, r.bodyErr = io.ReadAll(r.raw.Body)
	})
	return r.body, r.bodyErr
}

// BodyString returns the response body as text.
func (r *Response) BodyString() (string, error) {
	body, err := r.Body()
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// Close releases the transport stream if the body was never read. Reading
// the body after Close returns an error.
func (r *Response) Close() error {
	var err error
	r.bodyOnce.Do(func() {
		defer r.releaseTransport()
		r.bodyErr = errBodyClosed
		if r.raw.Body != nil {
			err = r.raw.Body.Close()
		}
	})
	return err
}

func (r *Response) releaseTransport() {
	if r.release != nil {
		r.release()
	}
}

// DeserializeInto decodes the body into v, which must be a non-nil pointer.
// The result is not cached.
func (r *Response) DeserializeInto(v any) error {
	body, err := r.BodyString()
	if err != nil {
		return err
	}
	return r.serializer.Unmarshal(body, v)
}

// Extract returns the value at a JSONPath expression such as $.items[0].id.
func (r *Response) Extract(path string) (string, error) {
	body, err := r.BodyString()
	if err != nil {
		return "", err
	}
	return jsonpath.Extract(body, path)
}

// ValidateSchema reports whether the body satisfies a JSON Schema document.
// An error is returned only when the schema or the body cannot be parsed.
func (r *Response) ValidateSchema(schema string) (bool, error) {
	body, err := r.BodyString()
	if err != nil {
		return false, err
	}
	return jsonschema.Validate(body, schema)
}

// ValidateSchemaWithErrors is like ValidateSchema but returns every
// violation found.
func (r *Response) ValidateSchemaWithErrors(schema string) (bool, jsonschema.ValidationErrors) {
	body, err := r.BodyString()
	if err != nil {
		return false, jsonschema.ValidationErrors{err}
	}
	return jsonschema.ValidateWithErrors(body, schema)
}

// IsSuccess returns true if the response status code is in the 2xx range.
func (r *Response) IsSuccess() bool {
	return r.raw.StatusCode >= 200 && r.raw.StatusCode < 300
}

// IsRedirect returns true if the response status code is in the 3xx range.
func (r *Response) IsRedirect() bool {
	return r.raw.StatusCode >= 300 && r.raw.StatusCode < 400
}

// IsClientError returns true if the response status code is in the 4xx range.
func (r *Response) IsClientError() bool {
	return r.raw.StatusCode >= 400 && r.raw.StatusCode < 500
}

// IsServerError returns true if the response status code is in the 5xx range.
func (r *Response) IsServerError() bool {
	return r.raw.StatusCode >= 500 && r.raw.StatusCode < 600
}

// Deserialize decodes the body into T with the response's serializer. The
// decoded value is cached per type: asking for another type parses the body
// again, asking for the same type returns the cached value. Failures are not
// cached.
//
// Maps, slices and pointers in a cached value are shared between calls, so
// mutating them changes what later calls return. Use DeserializeInto for a
// private copy.
//
// Example:
//
//	user, err := http.Deserialize[User](resp)
func Deserialize[T any](r *Response) (T, error) {
	key := reflect.TypeOf((*T)(nil)).Elem()

	r.typedMu.Lock()
	defer r.typedMu.Unlock()

	// entries hold *T so a nil interface result is still a hit
	if cached, ok := r.typed[key]; ok {
		return *cached.(*T), nil
	}

	var zero T
	body, err := r.BodyString()
	if err != nil {
		return zero, err
	}
	out, err := DeserializeString[T](r.serializer, body)
	if err != nil {
		return zero, err
	}
	r.typed[key] = &out
	return out, nil
}

// CanDeserialize reports whether the body decodes into T. It never returns
// an error and never panics; every failure yields false. Nothing is cached.
func CanDeserialize[T any](r *Response) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()

	body, err := r.BodyString()
	if err != nil {
		return false
	}
	_, err = DeserializeString[T](r.serializer, body)
	return err == nil
}
