package http

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultTimeout is the per-request timeout of a new Client.
const DefaultTimeout = 120 * time.Second

const (
	logTimeLayout = "2006-01-02 15:04:05.000"
	emptyBody     = "EMPTY"
)

// Doer sends one prepared request. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// TransportFactory returns a fresh Doer for a single call, configured with
// the client's timeout. The Doer is dropped when the call returns.
type TransportFactory func(timeout time.Duration) Doer

// DefaultTransport returns a new *http.Client with the given timeout and its
// own clone of http.DefaultTransport with keep-alives off, so no connection
// outlives the call. Any idle connection left is closed once the response
// body is read or closed.
func DefaultTransport(timeout time.Duration) Doer {
	base, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		base = &http.Transport{Proxy: http.ProxyFromEnvironment}
	}
	transport := base.Clone()
	transport.DisableKeepAlives = true
	return &http.Client{Timeout: timeout, Transport: transport}
}

// idleCloser is implemented by Doers that pool connections, *http.Client
// among them.
type idleCloser interface {
	CloseIdleConnections()
}

// releaseFunc returns what drops d's connections, or nil when d keeps none.
func releaseFunc(d Doer) func() {
	if c, ok := d.(idleCloser); ok {
		return c.CloseIdleConnections
	}
	return nil
}

// Client is a fluent HTTP client. Mutators change the client in place and
// return it for chaining. Every request works on a snapshot of the
// configuration taken when the call starts, so reconfiguring a client while
// requests are in flight never affects those requests.
type Client struct {
	mu         sync.RWMutex
	headers    []Header
	timeout    time.Duration
	logging    bool
	serializer *Serializer
	sink       Sink
	transport  TransportFactory
	now        func() time.Time
	newID      func() string
}

// ClientOption is a function that configures a Client.
type ClientOption func(*Client)

// NewClient creates a client with no headers, a 120 second timeout, logging
// disabled, the standard JSON backend and a stdout log sink.
//
// Example:
//
//	client := http.NewClient(
//	    http.WithTimeout(30*time.Second),
//	    http.WithHeaders(http.BearerAuthorization(token)),
//	)
func NewClient(options ...ClientOption) *Client {
	client := &Client{
		timeout:    DefaultTimeout,
		serializer: NewSerializer(),
		sink:       StdoutSink(),
		transport:  DefaultTransport,
		now:        time.Now,
		newID:      func() string { return uuid.New().String() },
	}

	for _, option := range options {
		option(client)
	}

	return client
}

// WithTimeout sets the per-request timeout. Zero or negative disables it.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithHeaders adds headers sent with every request.
func WithHeaders(headers ...Header) ClientOption {
	return func(c *Client) {
		c.headers = appendValid(c.headers, headers)
	}
}

// WithLogging turns request/response logging on or off.
func WithLogging(enabled bool) ClientOption {
	return func(c *Client) {
		c.logging = enabled
	}
}

// WithSerializer sets the serializer used for bodies and responses.
func WithSerializer(s *Serializer) ClientOption {
	return func(c *Client) {
		if s != nil {
			c.serializer = s
		}
	}
}

// WithSink sets where log lines go.
func WithSink(sink Sink) ClientOption {
	return func(c *Client) {
		if sink != nil {
			c.sink = sink
		}
	}
}

// WithTransport replaces the factory that creates the per-call transport.
func WithTransport(factory TransportFactory) ClientOption {
	return func(c *Client) {
		if factory != nil {
			c.transport = factory
		}
	}
}

// WithClock replaces the clock used for log timestamps and timing.
func WithClock(now func() time.Time) ClientOption {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

// WithIDGenerator replaces the correlation id generator.
func WithIDGenerator(newID func() string) ClientOption {
	return func(c *Client) {
		if newID != nil {
			c.newID = newID
		}
	}
}

// AddHeaders appends headers to the client. Headers with an empty name are
// dropped. Duplicate names are kept.
func (c *Client) AddHeaders(headers ...Header) *Client {
	c.mu.Lock()
	c.headers = appendValid(c.headers, headers)
	logging, sink := c.logging, c.sink
	c.mu.Unlock()

	if logging {
		for _, h := range headers {
			if h.Name == "" {
				safeLog(sink, fmt.Sprintf("dropped header with empty name (value %q)", h.String()))
			}
		}
	}
	return c
}

// RemoveHeaders removes every header whose name exactly matches one of
// names. The remaining headers keep their order.
func (c *Client) RemoveHeaders(names ...string) *Client {
	c.mu.Lock()
	c.headers = removeHeaders(c.headers, names)
	c.mu.Unlock()
	return c
}

// ClearHeaders removes all headers.
func (c *Client) ClearHeaders() *Client {
	c.mu.Lock()
	c.headers = nil
	c.mu.Unlock()
	return c
}

// SetTimeout sets the per-request timeout. Zero or negative disables it.
func (c *Client) SetTimeout(timeout time.Duration) *Client {
	c.mu.Lock()
	c.timeout = timeout
	c.mu.Unlock()
	return c
}

// SetSerializer replaces the serializer. Responses already returned keep
// the serializer they were created with. A nil serializer is ignored.
func (c *Client) SetSerializer(s *Serializer) *Client {
	if s == nil {
		return c
	}
	c.mu.Lock()
	c.serializer = s
	c.mu.Unlock()
	return c
}

// SetSink replaces the log sink. A nil sink is ignored.
func (c *Client) SetSink(sink Sink) *Client {
	if sink == nil {
		return c
	}
	c.mu.Lock()
	c.sink = sink
	c.mu.Unlock()
	return c
}

// EnableLogging turns on start/finish log lines.
func (c *Client) EnableLogging() *Client {
	c.mu.Lock()
	c.logging = true
	c.mu.Unlock()
	return c
}

// DisableLogging turns off start/finish log lines.
func (c *Client) DisableLogging() *Client {
	c.mu.Lock()
	c.logging = false
	c.mu.Unlock()
	return c
}

// Headers returns a copy of the configured headers.
func (c *Client) Headers() []Header {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]Header(nil), c.headers...)
}

// Timeout returns the per-request timeout.
func (c *Client) Timeout() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.timeout
}

// LoggingEnabled reports whether requests are logged.
func (c *Client) LoggingEnabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.logging
}

// Serializer returns the serializer attached to the client.
func (c *Client) Serializer() *Serializer {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.serializer
}

// Get sends a GET request.
func (c *Client) Get(url string) (*Response, error) {
	return c.Do(context.Background(), MethodGet, url, nil)
}

// Post sends a POST request with body serialized as JSON. A nil body sends
// an empty payload.
func (c *Client) Post(url string, body any) (*Response, error) {
	return c.Do(context.Background(), MethodPost, url, body)
}

// Put sends a PUT request with body serialized as JSON. A nil body sends an
// empty payload.
func (c *Client) Put(url string, body any) (*Response, error) {
	return c.Do(context.Background(), MethodPut, url, body)
}

// Delete sends a DELETE request.
func (c *Client) Delete(url string) (*Response, error) {
	return c.Do(context.Background(), MethodDelete, url, nil)
}

// GetContext is Get bound to ctx.
func (c *Client) GetContext(ctx context.Context, url string) (*Response, error) {
	return c.Do(ctx, MethodGet, url, nil)
}

// PostContext is Post bound to ctx.
func (c *Client) PostContext(ctx context.Context, url string, body any) (*Response, error) {
	return c.Do(ctx, MethodPost, url, body)
}

// PutContext is Put bound to ctx.
func (c *Client) PutContext(ctx context.Context, url string, body any) (*Response, error) {
	return c.Do(ctx, MethodPut, url, body)
}

// DeleteContext is Delete bound to ctx.
func (c *Client) DeleteContext(ctx context.Context, url string) (*Response, error) {
	return c.Do(ctx, MethodDelete, url, nil)
}

// Do performs one request/response cycle and blocks until the response
// headers arrive. Transport failures are returned unmodified; a non-2xx
// status is not an error.
func (c *Client) Do(ctx context.Context, method, url string, body any) (*Response, error) {
	method, err := normalizeMethod(method)
	if err != nil {
		return nil, err
	}
	return c.send(ctx, c.snapshot(), method, url, body)
}

// snapshot is the configuration one request works with.
type snapshot struct {
	headers    []Header
	timeout    time.Duration
	logging    bool
	serializer *Serializer
	sink       Sink
	transport  TransportFactory
	now        func() time.Time
	newID      func() string
}

func (c *Client) snapshot() snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return snapshot{
		headers:    append([]Header(nil), c.headers...),
		timeout:    c.timeout,
		logging:    c.logging,
		serializer: c.serializer,
		sink:       c.sink,
		transport:  c.transport,
		now:        c.now,
		newID:      c.newID,
	}
}

func (c *Client) send(ctx context.Context, s snapshot, method, url string, body any) (resp *Response, err error) {
	if ctx == nil {
		ctx = context.Background()
	}

	id := s.newID()
	start := s.now()

	if s.logging {
		defer func() {
			if err != nil {
				safeLog(s.sink, failureLine(s, id, url, method, err))
			}
		}()
	}

	payload, err := s.serializer.Serialize(body)
	if err != nil {
		return nil, err
	}

	if s.logging {
		safeLog(s.sink, fmt.Sprintf("START REQUEST %s | START DATE = %s | TO %s | METHOD = %s | REQUEST BODY = %s",
			id, start.Format(logTimeLayout), url, method, orEmpty(payload)))
	}

	req, err := buildRequest(ctx, method, url, payload, s.headers)
	if err != nil {
		return nil, err
	}

	timing := newTimingRecorder(start, s.now)
	req = req.WithContext(timing.withTrace(req.Context()))

	doer := s.transport(s.timeout)
	release := releaseFunc(doer)
	raw, err := doer.Do(req)
	if err != nil {
		if release != nil {
			release()
		}
		return nil, err
	}

	resp = newResponse(raw, s.serializer, timing.finish())
	resp.release = release

	if s.logging {
		text, err := resp.BodyString()
		if err != nil {
			return nil, err
		}
		finish := s.now()
		safeLog(s.sink, fmt.Sprintf("FINISH REQUEST %s | FINISH DATE = %s | TO %s | METHOD = %s | TIME = %dms | HTTP CODE = %d RESPONSE BODY = %s",
			id, finish.Format(logTimeLayout), url, method, finish.Sub(start).Milliseconds(), resp.StatusCode(), orEmpty(text)))
	}

	return resp, nil
}

type failureRecord struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func failureLine(s snapshot, id, url, method string, failure error) string {
	text, err := s.serializer.Serialize(failureRecord{
		Type:    fmt.Sprintf("%T", failure),
		Message: failure.Error(),
	})
	if err != nil {
		text = failure.Error()
	}
	return fmt.Sprintf("FINISH REQUEST %s | FINISH DATE = %s | TO %s | METHOD = %s | EXCEPTION = %s",
		id, s.now().Format(logTimeLayout), url, method, text)
}

func orEmpty(s string) string {
	if s == "" {
		return emptyBody
	}
	return s
}

func appendValid(dst, headers []Header) []Header {
	for _, h := range headers {
		if h.Name == "" {
			continue
		}
		dst = append(dst, h)
	}
	return dst
}
