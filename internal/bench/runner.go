package bench

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/wesleyorama2/httpmaster/http"
)

// Options controls a benchmark run.
type Options struct {
	// Requests is the total number of GET requests to send
	Requests int
	// Concurrency is the maximum number of requests in flight
	Concurrency int
	// Rate caps request starts per second; zero leaves them unpaced
	Rate float64
}

// Validate checks the options.
func (o Options) Validate() error {
	if o.Requests < 1 {
		return fmt.Errorf("requests must be at least 1, got %d", o.Requests)
	}
	if o.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1, got %d", o.Concurrency)
	}
	if o.Rate < 0 {
		return fmt.Errorf("rate must not be negative, got %g", o.Rate)
	}
	return nil
}

// Run sends opts.Requests GETs to url through client.GetAsync with at most
// opts.Concurrency in flight and, when opts.Rate is set, at most opts.Rate
// starts per second. Each latency covers the full body read.
// Cancelling ctx stops new requests; those in flight are still recorded.
func Run(ctx context.Context, client *http.Client, url string, opts Options) (Summary, error) {
	if err := opts.Validate(); err != nil {
		return Summary{}, err
	}

	var pacer *Pacer
	if opts.Rate > 0 {
		pacer = NewPacer(opts.Rate)
	}

	recorder := NewRecorder()
	slots := make(chan struct{}, opts.Concurrency)
	var wg sync.WaitGroup
	start := time.Now()

submit:
	for i := 0; i < opts.Requests; i++ {
		if ctx.Err() != nil {
			break
		}
		select {
		case <-ctx.Done():
			break submit
		case slots <- struct{}{}:
		}
		if pacer != nil {
			if err := pacer.Wait(ctx); err != nil {
				<-slots
				break
			}
		}

		sent := time.Now()
		future := client.GetAsync(url)

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() { <-slots }()

			resp, err := future.Wait()
			if err != nil {
				recorder.RecordFailure()
				return
			}
			body, err := resp.Body()
			if err != nil {
				recorder.RecordFailure()
				return
			}
			recorder.RecordResponse(time.Since(sent), resp.StatusCode(), int64(len(body)))
		}()
	}

	wg.Wait()
	return recorder.Summary(time.Since(start)), ctx.Err()
}
