package http

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingBody records how often the transport stream is touched.
type countingBody struct {
	r      io.Reader
	reads  int
	closes int
	err    error
}

func (b *countingBody) Read(p []byte) (int, error) {
	b.reads++
	if b.err != nil {
		return 0, b.err
	}
	return b.r.Read(p)
}

func (b *countingBody) Close() error {
	b.closes++
	return nil
}

func testResponse(status int, body string) (*Response, *countingBody) {
	cb := &countingBody{r: strings.NewReader(body)}
	raw := &http.Response{
		StatusCode: status,
		Status:     http.StatusText(status),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       cb,
	}
	return newResponse(raw, NewSerializer(), TimingInfo{}), cb
}

func TestResponse_BodyIsReadOnce(t *testing.T) {
	resp, cb := testResponse(200, `{"message":"success"}`)

	first, err := resp.BodyString()
	require.NoError(t, err)
	assert.Equal(t, `{"message":"success"}`, first)
	reads := cb.reads
	assert.Equal(t, 1, cb.closes)

	second, err := resp.BodyString()
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, reads, cb.reads)
	assert.Equal(t, 1, cb.closes)
}

func TestResponse_BodyErrorIsCached(t *testing.T) {
	resp, cb := testResponse(200, "")
	cb.err = errors.New("connection reset")

	_, err := resp.BodyString()
	require.Error(t, err)
	reads := cb.reads

	_, err = resp.Body()
	assert.EqualError(t, err, "connection reset")
	assert.Equal(t, reads, cb.reads)
}

func TestResponse_CloseBeforeRead(t *testing.T) {
	resp, cb := testResponse(200, `{}`)

	require.NoError(t, resp.Close())
	assert.Equal(t, 1, cb.closes)
	assert.Equal(t, 0, cb.reads)

	_, err := resp.BodyString()
	assert.Error(t, err)
	assert.False(t, CanDeserialize[map[string]any](resp))
}

func TestResponse_CloseAfterReadIsNoop(t *testing.T) {
	resp, cb := testResponse(200, `{}`)
	_, err := resp.Body()
	require.NoError(t, err)

	require.NoError(t, resp.Close())
	assert.Equal(t, 1, cb.closes)
}

func TestResponse_StatusHelpers(t *testing.T) {
	tests := []struct {
		status                                      int
		success, redirect, clientError, serverError bool
	}{
		{status: 200, success: true},
		{status: 204, success: true},
		{status: 301, redirect: true},
		{status: 404, clientError: true},
		{status: 503, serverError: true},
	}
	for _, tt := range tests {
		resp, _ := testResponse(tt.status, "")
		assert.Equal(t, tt.status, resp.StatusCode())
		assert.Equal(t, tt.success, resp.IsSuccess(), tt.status)
		assert.Equal(t, tt.redirect, resp.IsRedirect(), tt.status)
		assert.Equal(t, tt.clientError, resp.IsClientError(), tt.status)
		assert.Equal(t, tt.serverError, resp.IsServerError(), tt.status)
	}
}

func TestResponse_Headers(t *testing.T) {
	resp, _ := testResponse(200, "")
	assert.Equal(t, "application/json", resp.Header("content-type"))
	assert.Equal(t, []string{"application/json"}, resp.Headers()["Content-Type"])
}

func TestCanDeserialize(t *testing.T) {
	type shape struct {
		X int `json:"x"`
	}

	tests := []struct {
		name string
		body string
		want bool
	}{
		{name: "Well formed", body: `{"x":1}`, want: true},
		{name: "Empty body", body: ``, want: true},
		{name: "Malformed", body: `{"x":`, want: false},
		{name: "Plain text", body: `not found`, want: false},
		{name: "Wrong shape", body: `{"x":"one"}`, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, _ := testResponse(200, tt.body)
			assert.Equal(t, tt.want, CanDeserialize[shape](resp))
		})
	}
}

func TestCanDeserialize_DoesNotCache(t *testing.T) {
	resp, _ := testResponse(200, `{"x":1}`)
	assert.True(t, CanDeserialize[point](resp))
	assert.Empty(t, resp.typed)
}

func TestDeserialize(t *testing.T) {
	resp, _ := testResponse(200, `{"x":1}`)

	got, err := Deserialize[point](resp)
	require.NoError(t, err)
	assert.Equal(t, point{X: 1}, got)
}

func TestDeserialize_Error(t *testing.T) {
	resp, _ := testResponse(404, `not found`)

	_, err := Deserialize[point](resp)
	assert.ErrorIs(t, err, ErrDeserialization)
	assert.Empty(t, resp.typed)
}

func TestDeserialize_CachesPerType(t *testing.T) {
	type withName struct {
		Name string `json:"name"`
	}
	resp, _ := testResponse(200, `{"x":7,"name":"seven"}`)

	p, err := Deserialize[point](resp)
	require.NoError(t, err)
	assert.Equal(t, point{X: 7}, p)

	n, err := Deserialize[withName](resp)
	require.NoError(t, err)
	assert.Equal(t, withName{Name: "seven"}, n)
	assert.Len(t, resp.typed, 2)

	m, err := Deserialize[map[string]any](resp)
	require.NoError(t, err)
	m["added"] = true

	again, err := Deserialize[map[string]any](resp)
	require.NoError(t, err)
	assert.Equal(t, true, again["added"], "cached maps are shared")

	var private map[string]any
	require.NoError(t, resp.DeserializeInto(&private))
	assert.NotContains(t, private, "added")
}

func TestDeserialize_NilInterfaceResultIsCached(t *testing.T) {
	for name, body := range map[string]string{"empty": "", "null": "null"} {
		t.Run(name, func(t *testing.T) {
			resp, _ := testResponse(200, body)

			for i := 0; i < 2; i++ {
				var v any
				assert.NotPanics(t, func() {
					var err error
					v, err = Deserialize[any](resp)
					require.NoError(t, err)
				})
				assert.Nil(t, v)
			}
			assert.Len(t, resp.typed, 1)

			var e error
			assert.NotPanics(t, func() { e, _ = Deserialize[error](resp) })
			assert.Nil(t, e)
			e, _ = Deserialize[error](resp)
			assert.Nil(t, e)
		})
	}
}

func TestResponse_DeserializeInto(t *testing.T) {
	resp, _ := testResponse(200, `{"x":3}`)

	var p point
	require.NoError(t, resp.DeserializeInto(&p))
	assert.Equal(t, 3, p.X)
	assert.Error(t, resp.DeserializeInto(p))
}

func TestResponse_UsesItsSerializer(t *testing.T) {
	resp, _ := testResponse(200, `{"x":1,"extra":true}`)
	resp.serializer = NewSerializer().SetKind(KindV2)
	resp.serializer.SetV2Settings(V2Settings{RejectUnknownMembers: true})

	assert.False(t, CanDeserialize[point](resp))
	assert.Same(t, resp.serializer, resp.Serializer())
}

func TestResponse_Extract(t *testing.T) {
	resp, _ := testResponse(200, `{"items":[{"id":1},{"id":2}]}`)

	id, err := resp.Extract("$.items[1].id")
	require.NoError(t, err)
	assert.Equal(t, "2", id)

	_, err = resp.Extract("$.missing")
	assert.Error(t, err)
}

func TestResponse_ValidateSchema(t *testing.T) {
	const schema = `{"type":"object","required":["id"],"properties":{"id":{"type":"integer"}}}`

	resp, _ := testResponse(200, `{"id":1}`)
	ok, err := resp.ValidateSchema(schema)
	require.NoError(t, err)
	assert.True(t, ok)

	resp, _ = testResponse(200, `{"id":"one"}`)
	ok, errs := resp.ValidateSchemaWithErrors(schema)
	assert.False(t, ok)
	assert.NotEmpty(t, errs)
}
