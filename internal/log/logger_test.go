package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestLoggerTagsComponent(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelDebug, Format: FormatJSON, Component: ComponentLedger, Output: &buf})

	l.Info("saved", NewFields().WithOperation(OpCreate).WithCount(2).ToSlice()...)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "saved", rec["msg"])
	assert.Equal(t, ComponentLedger, rec[FieldComponent])
	assert.Equal(t, OpCreate, rec[FieldOperation])
	assert.EqualValues(t, 2, rec[FieldCount])
}

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelWarn, Output: &buf})
	l.Info("hidden")
	assert.Empty(t, buf.String())
	storageLogger := l.WithComponent(ComponentStorage)
	assert.Equal(t, ComponentStorage, storageLogger.Component())
	assert.Equal(t, ComponentApp, l.Component())
	storageLogger.Warn("shown")
	assert.Contains(t, buf.String(), "component=storage")
}

func TestWithErrorSkipsNil(t *testing.T) {
	f := NewFields().WithError(nil, ErrorTypeInternal)
	assert.Empty(t, f)
	f = NewFields().WithError(errors.New("boom"), ErrorTypeDatabase)
	assert.Equal(t, "boom", f[FieldError])
	assert.Equal(t, ErrorTypeDatabase, f[FieldErrorType])
}
