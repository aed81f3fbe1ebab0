package cli

import (
	"encoding/json"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captured is what the test server saw of the last request.
type captured struct {
	Method string
	Header nethttp.Header
	Body   string
}

type captureServer struct {
	*httptest.Server
	mu   sync.Mutex
	last captured
}

func (s *captureServer) Last() captured {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

func newCaptureServer(t *testing.T, status int, body string) *captureServer {
	t.Helper()
	s := &captureServer{}
	s.Server = httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		data, _ := io.ReadAll(r.Body)
		s.mu.Lock()
		s.last = captured{Method: r.Method, Header: r.Header.Clone(), Body: string(data)}
		s.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(s.Close)
	return s
}

const userBody = `{"user":{"name":"alice","id":7},"tags":["a","b"]}`

func TestGetCmd(t *testing.T) {
	server := newCaptureServer(t, nethttp.StatusOK, userBody)

	stdout, stderr, err := run(t, "get", server.URL+"/users/7",
		"-H", "Authorization: Bearer token",
		"-H", "X-Trace: a:b")
	require.NoError(t, err)
	assert.Empty(t, stderr)

	last := server.Last()
	assert.Equal(t, nethttp.MethodGet, last.Method)
	assert.Equal(t, "Bearer token", last.Header.Get("Authorization"))
	assert.Equal(t, "a:b", last.Header.Get("X-Trace"))
	assert.Empty(t, last.Body)

	assert.Contains(t, stdout, "▶ REQUEST: GET "+server.URL+"/users/7")
	assert.Contains(t, stdout, "Authorization: Bearer token")
	assert.Contains(t, stdout, "◀ RESPONSE: 200 OK")
	assert.Contains(t, stdout, `"name": "alice"`)
}

func TestGetCmd_Extract(t *testing.T) {
	server := newCaptureServer(t, nethttp.StatusOK, userBody)

	stdout, _, err := run(t, "get", server.URL, "--extract", "user.name", "--extract", "tags.1", "--extract", "missing")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Extracted:")
	assert.Contains(t, stdout, "✓ user.name = alice")
	assert.Contains(t, stdout, "✓ tags.1 = b")
	assert.Contains(t, stdout, "✗ missing:")
}

func TestGetCmd_JSONOutput(t *testing.T) {
	server := newCaptureServer(t, nethttp.StatusCreated, userBody)

	stdout, _, err := run(t, "get", server.URL, "-o", "json")
	require.NoError(t, err)
	assert.NotContains(t, stdout, "REQUEST")

	var data struct {
		StatusCode int            `json:"statusCode"`
		Status     string         `json:"status"`
		Body       map[string]any `json:"body"`
	}
	require.NoError(t, json.NewDecoder(stringsReader(stdout)).Decode(&data))
	assert.Equal(t, nethttp.StatusCreated, data.StatusCode)
	assert.Equal(t, "201 Created", data.Status)
	assert.Equal(t, map[string]any{"name": "alice", "id": float64(7)}, data.Body["user"])
}

func TestGetCmd_YAMLOutput(t *testing.T) {
	server := newCaptureServer(t, nethttp.StatusOK, userBody)

	stdout, _, err := run(t, "get", server.URL, "-o", "yaml")
	require.NoError(t, err)
	assert.Contains(t, stdout, "statusCode: 200")
	assert.Contains(t, stdout, "name: alice")
}

func TestGetCmd_Schema(t *testing.T) {
	server := newCaptureServer(t, nethttp.StatusOK, userBody)
	dir := t.TempDir()

	passing := filepath.Join(dir, "pass.json")
	require.NoError(t, os.WriteFile(passing, []byte(`{
		"type": "object",
		"required": ["user"],
		"properties": {"user": {"type": "object", "required": ["name"]}}
	}`), 0o644))

	stdout, _, err := run(t, "get", server.URL, "--schema", passing)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Schema validation passed")

	failing := filepath.Join(dir, "fail.json")
	require.NoError(t, os.WriteFile(failing, []byte(`{"type": "object", "required": ["account"]}`), 0o644))

	stdout, _, err = run(t, "get", server.URL, "--schema", failing)
	assert.ErrorIs(t, err, errSchemaFailed)
	assert.Contains(t, stdout, "Schema validation failed")

	_, _, err = run(t, "get", server.URL, "--schema", filepath.Join(dir, "absent.json"))
	assert.Error(t, err)
}

func TestGetCmd_Log(t *testing.T) {
	server := newCaptureServer(t, nethttp.StatusOK, `{"ok":true}`)

	_, stderr, err := run(t, "get", server.URL, "--log")
	require.NoError(t, err)
	assert.Contains(t, stderr, "START REQUEST ")
	assert.Contains(t, stderr, "| TO "+server.URL+" | METHOD = GET | REQUEST BODY = EMPTY")
	assert.Contains(t, stderr, "FINISH REQUEST ")
	assert.Contains(t, stderr, `HTTP CODE = 200 RESPONSE BODY = {"ok":true}`)

	_, _, err = run(t, "get", server.URL, "--log", "--log-format", "xml")
	assert.Error(t, err)
}

func TestGetCmd_InvalidInput(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "no URL", args: []string{"get"}},
		{name: "bad header", args: []string{"get", "example.com", "-H", "nocolon"}},
		{name: "bad output", args: []string{"get", "example.com", "-o", "xml"}},
		{name: "bad serializer", args: []string{"get", "example.com", "--serializer", "v3"}},
		{name: "missing host", args: []string{"get", "http:///path"}},
		{name: "missing config", args: []string{"get", "example.com", "--config", "/nonexistent/profile.yaml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := run(t, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestGetCmd_TransportFailure(t *testing.T) {
	server := httptest.NewServer(nethttp.NotFoundHandler())
	url := server.URL
	server.Close()

	_, _, err := run(t, "get", url)
	assert.Error(t, err)
}
