package logging

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedLogger() (Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return NewLoggerFromCore(core), logs
}

func TestNewLogger_JSONFormat(t *testing.T) {
	l, err := NewLogger(LogConfig{Level: LevelInfo, Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, l)
}

func TestNewLogger_ConsoleFormat(t *testing.T) {
	l, err := NewLogger(LogConfig{Level: LevelDebug, Format: "console", OutputPaths: []string{"stderr"}})
	require.NoError(t, err)
	assert.NotNil(t, l)
}

func TestNewLogger_BadOutputPath(t *testing.T) {
	l, err := NewLogger(LogConfig{OutputPaths: []string{"/nonexistent-dir/riskradar/out.log"}})
	assert.Error(t, err)
	assert.Nil(t, l)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warn"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("verbose"))
}

func TestFields_AreTyped(t *testing.T) {
	l, logs := newObservedLogger()
	l.Info("batch done",
		String("stage", "enrich"),
		Int("events", 5),
		Int64("tokens", 1200),
		Float64("score", 0.85),
		Bool("fallback", false),
		Duration("latency", 250*time.Millisecond),
		Err(errors.New("boom")),
	)

	require.Equal(t, 1, logs.Len())
	ctx := logs.All()[0].ContextMap()
	assert.Equal(t, "enrich", ctx["stage"])
	assert.Equal(t, int64(5), ctx["events"])
	assert.Equal(t, int64(1200), ctx["tokens"])
	assert.Equal(t, 0.85, ctx["score"])
	assert.Equal(t, false, ctx["fallback"])
	assert.Equal(t, 250*time.Millisecond, ctx["latency"])
	assert.Equal(t, "boom", ctx["error"])
}

func TestErr_Nil(t *testing.T) {
	assert.Equal(t, "<nil>", Err(nil).Value)
}

func TestWithContext_AddsRequestID(t *testing.T) {
	l, logs := newObservedLogger()
	ctx := ContextWithRequestID(context.Background(), "req-42")

	l.WithContext(ctx).Warn("slow geocode")
	l.WithContext(context.Background()).Warn("no id")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "req-42", entries[0].ContextMap()["request_id"])
	_, ok := entries[1].ContextMap()["request_id"]
	assert.False(t, ok)
}

func TestNamedAndWith(t *testing.T) {
	l, logs := newObservedLogger()
	l.Named("gateway").With(String("model", "llama3.1-8b")).Debug("call")

	entry := logs.All()[0]
	assert.Equal(t, "gateway", entry.LoggerName)
	assert.Equal(t, "llama3.1-8b", entry.ContextMap()["model"])
}

func TestNopLogger_AllMethodsNoOp(t *testing.T) {
	l := NewNopLogger()
	l.Debug("msg")
	l.Info("msg")
	l.Warn("msg")
	l.Error("msg")
	assert.Equal(t, l, l.With(String("k", "v")))
	assert.Equal(t, l, l.WithContext(context.Background()))
	assert.Equal(t, l, l.Named("x"))
	assert.NoError(t, l.Sync())
}

func TestDefault_SetAndGet(t *testing.T) {
	orig := Default()
	t.Cleanup(func() { SetDefault(orig) })

	l, _ := newObservedLogger()
	SetDefault(nil)
	assert.Equal(t, orig, Default())
	SetDefault(l)
	assert.Equal(t, l, Default())
}

//Personal.AI order the ending
