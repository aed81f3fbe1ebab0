package http

import (
	"io"
	"os"
	"sync"

	"go.uber.org/zap"
)

// Sink receives formatted log lines. Implementations must be safe for
// concurrent use because async requests log from their own goroutines.
type Sink interface {
	Log(line string)
}

// SinkFunc adapts a plain function to Sink.
type SinkFunc func(line string)

func (f SinkFunc) Log(line string) {
	f(line)
}

// DiscardSink drops every line.
var DiscardSink Sink = SinkFunc(func(string) {})

type writerSink struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterSink writes each line to w followed by a newline. Write errors
// are dropped.
func NewWriterSink(w io.Writer) Sink {
	return &writerSink{w: w}
}

// StdoutSink returns a sink writing to standard output.
func StdoutSink() Sink {
	return NewWriterSink(os.Stdout)
}

func (s *writerSink) Log(line string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, _ = io.WriteString(s.w, line+"\n")
}

type zapSink struct {
	l *zap.Logger
}

// NewZapSink emits each line as an info entry on l.
func NewZapSink(l *zap.Logger) Sink {
	return &zapSink{l: l}
}

func (s *zapSink) Log(line string) {
	s.l.Info(line)
}

// safeLog hands line to sink and swallows any panic raised by it, so a
// broken sink can never replace the error being reported.
func safeLog(sink Sink, line string) {
	if sink == nil {
		return
	}
	defer func() {
		_ = recover()
	}()
	sink.Log(line)
}
