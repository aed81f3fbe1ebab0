package http

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFuture_Wait(t *testing.T) {
	server := newRecordingServer(t, jsonHandler(http.StatusOK, `{"x":4}`))

	f := NewClient().GetAsync(server.URL)
	resp, err := f.Wait()
	require.NoError(t, err)

	got, err := Deserialize[point](resp)
	require.NoError(t, err)
	assert.Equal(t, 4, got.X)

	select {
	case <-f.Done():
	default:
		t.Fatal("Done not closed after Wait returned")
	}

	again, err := f.Wait()
	require.NoError(t, err)
	assert.Same(t, resp, again)
}

func TestFuture_AllVerbs(t *testing.T) {
	server := newRecordingServer(t, jsonHandler(http.StatusOK, `{}`))
	client := NewClient()

	futures := map[string]*Future{
		http.MethodGet:    client.GetAsync(server.URL),
		http.MethodPost:   client.PostAsync(server.URL, point{X: 1}),
		http.MethodPut:    client.PutAsync(server.URL, nil),
		http.MethodDelete: client.DeleteAsync(server.URL),
	}
	for method, f := range futures {
		resp, err := f.Wait()
		require.NoError(t, err, method)
		assert.Equal(t, http.StatusOK, resp.StatusCode(), method)
	}

	seen := map[string]bool{}
	server.mu.Lock()
	for _, r := range server.requests {
		seen[r.Method] = true
	}
	server.mu.Unlock()
	assert.Len(t, seen, 4)
}

func TestFuture_SnapshotTakenAtCallTime(t *testing.T) {
	release := make(chan struct{})
	var once sync.Once
	server := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		<-release
		w.WriteHeader(http.StatusOK)
	})
	defer once.Do(func() { close(release) })

	client := NewClient().AddHeaders(NewHeader("X-Snapshot", "before"))
	f := client.GetAsync(server.URL)
	client.ClearHeaders().AddHeaders(NewHeader("X-Snapshot", "after"))

	once.Do(func() { close(release) })
	_, err := f.Wait()
	require.NoError(t, err)

	assert.Equal(t, []string{"before"}, server.last(t).Header.Values("X-Snapshot"))
}

func TestFuture_WaitContext(t *testing.T) {
	release := make(chan struct{})
	server := newRecordingServer(t, func(w http.ResponseWriter, r *http.Request) {
		<-release
		w.WriteHeader(http.StatusOK)
	})

	f := NewClient().GetAsync(server.URL)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	resp, err := f.WaitContext(ctx)
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(release)
	resp, err = f.WaitContext(context.Background())
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode())
}

func TestFuture_UnsupportedMethodResolvesImmediately(t *testing.T) {
	f := NewClient().DoAsync(context.Background(), "CONNECT", "http://example.invalid", nil)

	select {
	case <-f.Done():
	case <-time.After(time.Second):
		t.Fatal("future did not resolve")
	}
	_, err := f.Wait()
	assert.ErrorIs(t, err, ErrUnsupportedMethod)
}

func TestFuture_ErrorsAreDelivered(t *testing.T) {
	resp, err := NewClient().PostAsync("http://example.invalid", make(chan int)).Wait()
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrSerialization)
}
