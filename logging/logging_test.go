package logging

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLoggerLevelsAndFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewDefaultLoggerWithOutput(&buf, false)

	logger.Debug("hidden at info level")
	assert.Empty(t, buf.String())

	scoped := logger.WithFields(Fields{"component": "energy_analyzer"})
	scoped.Info("frames computed", Fields{"frames": 42})

	out := buf.String()
	assert.Contains(t, out, "level=info")
	assert.Contains(t, out, "frames computed")
	assert.Contains(t, out, "component=energy_analyzer")
	assert.Contains(t, out, "frames=42")

	buf.Reset()
	logger.SetLevel(DebugLevel)
	scoped.Debug("now visible")
	assert.Contains(t, buf.String(), "now visible")
}

func TestDefaultLoggerError(t *testing.T) {
	var buf bytes.Buffer
	logger := NewDefaultLoggerWithOutput(&buf, false)

	logger.Error(errors.New("boom"), "analysis failed")
	assert.Contains(t, buf.String(), "level=error")
	assert.Contains(t, buf.String(), "error=boom")
}

func TestWithContextFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewDefaultLoggerWithOutput(&buf, false)

	ctx := ContextWithFields(context.Background(), Fields{"analysis_id": "abc"})
	ctx = ContextWithFields(ctx, Fields{"file": "clip.wav"})

	fields, ok := FieldsFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "abc", fields["analysis_id"])

	logger.WithContext(ctx).Info("started")
	assert.Contains(t, buf.String(), "analysis_id=abc")
	assert.Contains(t, buf.String(), "file=clip.wav")
}

func TestParseLevel(t *testing.T) {
	level, ok := ParseLevel("WARNING")
	assert.True(t, ok)
	assert.Equal(t, WarnLevel, level)

	level, ok = ParseLevel("verbose")
	assert.False(t, ok)
	assert.Equal(t, InfoLevel, level)
	assert.Equal(t, "DEBUG", DebugLevel.String())
}

func TestSetGlobalLoggerNil(t *testing.T) {
	previous := GetGlobalLogger()
	t.Cleanup(func() { SetGlobalLogger(previous) })

	SetGlobalLogger(nil)
	_, isNoop := GetGlobalLogger().(*NoOpLogger)
	assert.True(t, isNoop)

	// must not panic
	Info("ignored")
	WithFields(Fields{"a": 1}).Warn("ignored")
}

func TestDisableColors(t *testing.T) {
	previous := GetGlobalLogger()
	t.Cleanup(func() { SetGlobalLogger(previous) })

	var buf bytes.Buffer
	SetGlobalLogger(NewDefaultLoggerWithOutput(&buf, true))

	Info("colored")
	assert.Contains(t, buf.String(), "\x1b[")

	buf.Reset()
	DisableColors()
	Info("plain")
	assert.Contains(t, buf.String(), "level=info")
	assert.NotContains(t, buf.String(), "\x1b[")
}
