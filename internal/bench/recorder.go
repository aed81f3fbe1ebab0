// Package bench fires repeated GET requests through the async client API
// and summarizes their latency.
package bench

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// Histogram range: 1 microsecond to 1 hour, 3 significant figures.
const (
	histogramMin     = 1
	histogramMax     = 3_600_000_000
	histogramSigFigs = 3
)

// Recorder collects latencies and status codes.
//
// # Thread Safety
//
// Recorder is safe for concurrent use. Counters use atomic operations and
// the histogram and status map are guarded by mu.
type Recorder struct {
	mu       sync.Mutex
	hist     *hdrhistogram.Histogram
	statuses map[int]int64

	total  atomic.Int64
	failed atomic.Int64
	bytes  atomic.Int64
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		hist:     hdrhistogram.New(histogramMin, histogramMax, histogramSigFigs),
		statuses: make(map[int]int64),
	}
}

// RecordResponse records a completed request.
func (r *Recorder) RecordResponse(latency time.Duration, status int, size int64) {
	r.total.Add(1)
	r.bytes.Add(size)

	micros := latency.Microseconds()
	if micros < histogramMin {
		micros = histogramMin
	}

	r.mu.Lock()
	// values above the range are clamped rather than dropped
	if err := r.hist.RecordValue(micros); err != nil {
		_ = r.hist.RecordValue(histogramMax)
	}
	r.statuses[status]++
	r.mu.Unlock()
}

// RecordFailure records a request that produced no response.
func (r *Recorder) RecordFailure() {
	r.total.Add(1)
	r.failed.Add(1)
}

// Summary is a point-in-time view of a Recorder.
type Summary struct {
	Total    int64         `json:"total" yaml:"total"`
	Failed   int64         `json:"failed" yaml:"failed"`
	Bytes    int64         `json:"bytes" yaml:"bytes"`
	Elapsed  time.Duration `json:"elapsedNs" yaml:"elapsedNs"`
	Min      time.Duration `json:"minNs" yaml:"minNs"`
	Mean     time.Duration `json:"meanNs" yaml:"meanNs"`
	P50      time.Duration `json:"p50Ns" yaml:"p50Ns"`
	P90      time.Duration `json:"p90Ns" yaml:"p90Ns"`
	P99      time.Duration `json:"p99Ns" yaml:"p99Ns"`
	Max      time.Duration `json:"maxNs" yaml:"maxNs"`
	Statuses map[int]int64 `json:"statuses" yaml:"statuses"`
}

// RequestsPerSecond returns throughput over Elapsed.
func (s Summary) RequestsPerSecond() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.Total) / s.Elapsed.Seconds()
}

// StatusCodes returns the recorded status codes in ascending order.
func (s Summary) StatusCodes() []int {
	codes := make([]int, 0, len(s.Statuses))
	for code := range s.Statuses {
		codes = append(codes, code)
	}
	sort.Ints(codes)
	return codes
}

// Summary returns the current totals. Latency fields stay zero until at
// least one response was recorded.
func (r *Recorder) Summary(elapsed time.Duration) Summary {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := Summary{
		Total:    r.total.Load(),
		Failed:   r.failed.Load(),
		Bytes:    r.bytes.Load(),
		Elapsed:  elapsed,
		Statuses: make(map[int]int64, len(r.statuses)),
	}
	for code, n := range r.statuses {
		s.Statuses[code] = n
	}

	if r.hist.TotalCount() == 0 {
		return s
	}
	s.Min = micros(r.hist.Min())
	s.Mean = time.Duration(r.hist.Mean() * float64(time.Microsecond))
	s.P50 = micros(r.hist.ValueAtQuantile(50))
	s.P90 = micros(r.hist.ValueAtQuantile(90))
	s.P99 = micros(r.hist.ValueAtQuantile(99))
	s.Max = micros(r.hist.Max())
	return s
}

func micros(v int64) time.Duration {
	return time.Duration(v) * time.Microsecond
}
