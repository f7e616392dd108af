package logger

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(Config{Level: "loud"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestNewWritesToOutputPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.log")

	l, err := New(Config{Level: "debug", Encoding: "console", OutputPaths: []string{path}})
	require.NoError(t, err)

	l.Debug("reindexed", zap.Int("rows", 15))
	require.NoError(t, l.Sync())
	assert.FileExists(t, path)
}

func TestWithContextAddsFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	globalLogger = zap.New(core)
	t.Cleanup(func() { globalLogger = nil })

	ctx := context.WithValue(context.Background(), FrameKey, "prices")
	ctx = context.WithValue(ctx, CommandKey, "align")

	WithContext(ctx).Info("loaded")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "prices", fields["frame"])
	assert.Equal(t, "align", fields["command"])
}
