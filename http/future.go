package http

import "context"

// Future is the pending result of an async request.
type Future struct {
	done chan struct{}
	resp *Response
	err  error
}

// Done is closed once the request has finished.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the request finishes and returns its result.
func (f *Future) Wait() (*Response, error) {
	<-f.done
	return f.resp, f.err
}

// WaitContext is like Wait but gives up when ctx is done. The request itself
// keeps running until its own timeout.
func (f *Future) WaitContext(ctx context.Context) (*Response, error) {
	select {
	case <-f.done:
		return f.resp, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// GetAsync runs Get on its own goroutine.
func (c *Client) GetAsync(url string) *Future {
	return c.DoAsync(context.Background(), MethodGet, url, nil)
}

// PostAsync runs Post on its own goroutine.
func (c *Client) PostAsync(url string, body any) *Future {
	return c.DoAsync(context.Background(), MethodPost, url, body)
}

// PutAsync runs Put on its own goroutine.
func (c *Client) PutAsync(url string, body any) *Future {
	return c.DoAsync(context.Background(), MethodPut, url, body)
}

// DeleteAsync runs Delete on its own goroutine.
func (c *Client) DeleteAsync(url string) *Future {
	return c.DoAsync(context.Background(), MethodDelete, url, nil)
}

// DoAsync runs Do on its own goroutine. The configuration is captured before
// DoAsync returns, so later mutations of the client do not affect the request.
func (c *Client) DoAsync(ctx context.Context, method, url string, body any) *Future {
	f := &Future{done: make(chan struct{})}

	method, err := normalizeMethod(method)
	if err != nil {
		f.err = err
		close(f.done)
		return f
	}

	s := c.snapshot()
	go func() {
		defer close(f.done)
		f.resp, f.err = c.send(ctx, s, method, url, body)
	}()
	return f
}
