package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const jsonContentType = "application/json; charset=utf-8"

// Verbs dispatched by Client.Do.
const (
	MethodGet     = http.MethodGet
	MethodPost    = http.MethodPost
	MethodPut     = http.MethodPut
	MethodDelete  = http.MethodDelete
	MethodPatch   = http.MethodPatch
	MethodHead    = http.MethodHead
	MethodOptions = http.MethodOptions
)

func normalizeMethod(method string) (string, error) {
	method = strings.ToUpper(method)
	switch method {
	case MethodGet, MethodPost, MethodPut, MethodDelete, MethodPatch, MethodHead, MethodOptions:
		return method, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedMethod, method)
}

// carriesContent reports whether the method always sends a JSON content
// part, even an empty one.
func carriesContent(method string) bool {
	return method == MethodPost || method == MethodPut || method == MethodPatch
}

// buildRequest constructs the outgoing request. Every configured header is
// added as its own field, duplicates included.
func buildRequest(ctx context.Context, method, url, payload string, headers []Header) (*http.Request, error) {
	var body io.Reader
	if payload != "" || carriesContent(method) {
		body = strings.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}

	if body != nil && !hasHeader(headers, HeaderContentType) {
		req.Header.Set(HeaderContentType, jsonContentType)
	}
	for _, h := range headers {
		req.Header.Add(h.Name, h.String())
	}

	return req, nil
}

func hasHeader(headers []Header, name string) bool {
	for _, h := range headers {
		if strings.EqualFold(h.Name, name) {
			return true
		}
	}
	return false
}
