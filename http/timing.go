package http

import (
	"context"
	"crypto/tls"
	"net/http/httptrace"
	"sync"
	"time"
)

// TimingInfo stores the phases of a single request up to the arrival of
// the response headers. Phases that did not happen (for example TLS on a
// plain connection or DNS on a reused one) stay zero.
type TimingInfo struct {
	StartTime        time.Time
	DNSLookupTime    time.Duration
	TCPConnectTime   time.Duration
	TLSHandshakeTime time.Duration
	// TimeToFirstByte is measured from the end of the last completed
	// connection phase, or from StartTime when the connection was reused.
	TimeToFirstByte time.Duration
	// TotalTime runs from StartTime until the response headers were read.
	TotalTime time.Duration
}

// Milliseconds returns TotalTime in whole milliseconds.
func (t TimingInfo) Milliseconds() int64 {
	return t.TotalTime.Milliseconds()
}

// timingRecorder collects httptrace callbacks. Callbacks may fire from
// transport goroutines, so every field is guarded by mu.
type timingRecorder struct {
	mu           sync.Mutex
	info         TimingInfo
	dnsStart     time.Time
	connectStart time.Time
	tlsStart     time.Time
	lastPhaseEnd time.Time
	now          func() time.Time
}

func newTimingRecorder(start time.Time, now func() time.Time) *timingRecorder {
	return &timingRecorder{
		info:         TimingInfo{StartTime: start},
		lastPhaseEnd: start,
		now:          now,
	}
}

func (t *timingRecorder) withTrace(ctx context.Context) context.Context {
	trace := &httptrace.ClientTrace{
		DNSStart: func(httptrace.DNSStartInfo) {
			t.mu.Lock()
			t.dnsStart = t.now()
			t.mu.Unlock()
		},
		DNSDone: func(httptrace.DNSDoneInfo) {
			t.mu.Lock()
			end := t.now()
			t.info.DNSLookupTime = end.Sub(t.dnsStart)
			t.lastPhaseEnd = end
			t.mu.Unlock()
		},
		ConnectStart: func(string, string) {
			t.mu.Lock()
			if t.connectStart.IsZero() {
				t.connectStart = t.now()
			}
			t.mu.Unlock()
		},
		ConnectDone: func(_, _ string, err error) {
			if err != nil {
				return
			}
			t.mu.Lock()
			end := t.now()
			t.info.TCPConnectTime = end.Sub(t.connectStart)
			t.lastPhaseEnd = end
			t.mu.Unlock()
		},
		TLSHandshakeStart: func() {
			t.mu.Lock()
			t.tlsStart = t.now()
			t.mu.Unlock()
		},
		TLSHandshakeDone: func(_ tls.ConnectionState, err error) {
			if err != nil {
				return
			}
			t.mu.Lock()
			end := t.now()
			t.info.TLSHandshakeTime = end.Sub(t.tlsStart)
			t.lastPhaseEnd = end
			t.mu.Unlock()
		},
		GotFirstResponseByte: func() {
			t.mu.Lock()
			t.info.TimeToFirstByte = t.now().Sub(t.lastPhaseEnd)
			t.mu.Unlock()
		},
	}
	return httptrace.WithClientTrace(ctx, trace)
}

func (t *timingRecorder) finish() TimingInfo {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.info.TotalTime = t.now().Sub(t.info.StartTime)
	return t.info
}
