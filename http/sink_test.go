package http

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestWriterSink(t *testing.T) {
	var buf bytes.Buffer
	sink := NewWriterSink(&buf)

	sink.Log("first")
	sink.Log("second")

	assert.Equal(t, "first\nsecond\n", buf.String())
}

func TestWriterSink_Concurrent(t *testing.T) {
	var buf bytes.Buffer
	sink := NewWriterSink(&buf)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sink.Log("line")
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, bytes.Count(buf.Bytes(), []byte("line\n")))
}

func TestZapSink(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	sink := NewZapSink(zap.New(core))

	sink.Log("START REQUEST abc")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "START REQUEST abc", entries[0].Message)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
}

func TestSafeLog(t *testing.T) {
	assert.NotPanics(t, func() {
		safeLog(SinkFunc(func(string) { panic("boom") }), "line")
	})
	assert.NotPanics(t, func() {
		safeLog(nil, "line")
	})

	var got string
	safeLog(SinkFunc(func(line string) { got = line }), "hello")
	assert.Equal(t, "hello", got)
}

func TestDiscardSink(t *testing.T) {
	assert.NotPanics(t, func() { DiscardSink.Log("ignored") })
}
