package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"":        Info,
		"debug":   Debug,
		" WARN ":  Warn,
		"warning": Warn,
		"error":   Error,
		"bogus":   Info,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLevel(in), "input %q", in)
	}
}

func TestParseFormat(t *testing.T) {
	assert.Equal(t, FormatJSON, ParseFormat("JSON"))
	assert.Equal(t, FormatText, ParseFormat(""))
	assert.Equal(t, FormatText, ParseFormat("yaml"))
}

func TestZapLogger_WithAndFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := FromZap(zap.New(core)).With(map[string]any{"request_id": "r-1"})

	l.Warn("oracle call failed", map[string]any{
		"candidate_id": "pet-1",
		"error":        errors.New("boom"),
		"":             "ignored",
	})

	entries := logs.All()
	require.Len(t, entries, 1)
	e := entries[0]
	assert.Equal(t, "oracle call failed", e.Message)
	assert.Equal(t, zapcore.WarnLevel, e.Level)

	ctx := e.ContextMap()
	assert.Equal(t, "r-1", ctx["request_id"])
	assert.Equal(t, "pet-1", ctx["candidate_id"])
	assert.Equal(t, "boom", ctx["error"])
	assert.NotContains(t, ctx, "")
}

func TestNop_DoesNotPanic(t *testing.T) {
	l := Nop()
	l.With(map[string]any{"a": 1}).Info("x", nil)
	_ = l.Sync()
}
