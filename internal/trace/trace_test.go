package trace

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	applog "finance/internal/log"
)

func TestRunIDRoundTrip(t *testing.T) {
	assert.Empty(t, RunIDFrom(context.Background()))

	ctx := WithRunID(context.Background(), "abc")
	assert.Equal(t, "abc", RunIDFrom(ctx))
}

func TestNewRunIDIsUnique(t *testing.T) {
	a, b := NewRunID(), NewRunID()
	assert.NotEqual(t, a, b)
	assert.Len(t, a, 36)
}

func TestStartTagsLogs(t *testing.T) {
	var buf bytes.Buffer
	logger := applog.New(applog.Config{Level: slog.LevelDebug, Format: applog.FormatText, Output: &buf})

	ctx, runLogger, done := Start(context.Background(), logger, "finance tx add")
	id := RunIDFrom(ctx)
	require.NotEmpty(t, id)

	runLogger.InfoContext(ctx, "inside")
	done(errors.New("boom"))

	out := buf.String()
	assert.Contains(t, out, "Command started")
	assert.Contains(t, out, "Command failed")
	assert.Contains(t, out, "boom")
	assert.Equal(t, 3, bytes.Count(buf.Bytes(), []byte("run_id="+id)))
}

func TestStartKeepsExistingRunID(t *testing.T) {
	logger := applog.New(applog.Config{Output: &bytes.Buffer{}})
	ctx, _, done := Start(WithRunID(context.Background(), "fixed"), logger, "finance version")
	done(nil)
	assert.Equal(t, "fixed", RunIDFrom(ctx))
}
