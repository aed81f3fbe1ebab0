package http

import "fmt"

// Well-known header names used by the helper constructors.
const (
	HeaderAuthorization = "Authorization"
	HeaderContentType   = "Content-Type"
	HeaderAccept        = "Accept"
	HeaderUserAgent     = "User-Agent"
)

// Header is a single request header. Value is kept as given and rendered
// with fmt.Sprint when the request is built.
type Header struct {
	Name  string
	Value any
}

// NewHeader creates a header with the given name and value.
func NewHeader(name string, value any) Header {
	return Header{Name: name, Value: value}
}

// String returns the rendered header value.
func (h Header) String() string {
	if h.Value == nil {
		return ""
	}
	return fmt.Sprint(h.Value)
}

// Authorization creates an Authorization header carrying value verbatim.
func Authorization(value string) Header {
	return Header{Name: HeaderAuthorization, Value: value}
}

// BearerAuthorization creates an Authorization header with the Bearer scheme.
//
// Example:
//
//	client.AddHeaders(http.BearerAuthorization(token))
func BearerAuthorization(token string) Header {
	return Header{Name: HeaderAuthorization, Value: "Bearer " + token}
}

// ContentType creates a Content-Type header.
func ContentType(contentType string) Header {
	return Header{Name: HeaderContentType, Value: contentType}
}

// Accept creates an Accept header.
func Accept(mediaType string) Header {
	return Header{Name: HeaderAccept, Value: mediaType}
}

// UserAgent creates a User-Agent header.
func UserAgent(agent string) Header {
	return Header{Name: HeaderUserAgent, Value: agent}
}

// removeHeaders returns the headers whose name matches none of names,
// keeping their original order.
func removeHeaders(headers []Header, names []string) []Header {
	if len(names) == 0 {
		return headers
	}

	drop := make(map[string]struct{}, len(names))
	for _, name := range names {
		drop[name] = struct{}{}
	}

	kept := make([]Header, 0, len(headers))
	for _, h := range headers {
		if _, ok := drop[h.Name]; ok {
			continue
		}
		kept = append(kept, h)
	}
	return kept
}
