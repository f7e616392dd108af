package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colframe/colframe/pkg/config"
	"github.com/colframe/colframe/pkg/testutil"
)

func TestParseProfileTypes(t *testing.T) {
	assert.Equal(t, []string{"cpu", "memory", "block", "mutex", "goroutine"}, parseProfileTypes("all"))
	assert.Equal(t, []string{"cpu", "memory"}, parseProfileTypes("cpu, mem, heap"))
	assert.Empty(t, parseProfileTypes(""))
}

func TestRunWorkloadTraced(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	tr, err := newTracing(ctx, dir, 1)
	require.NoError(t, err)

	cfg := config.NewConfig()
	cfg.RandGen.Rows = 200
	rounds, err := runWorkload(ctx, cfg, testutil.TestLogger(t), tr)
	require.NoError(t, err)
	assert.Positive(t, rounds)

	require.NoError(t, tr.shutdown(context.Background()))

	traces, err := os.ReadFile(filepath.Join(dir, "traces.json"))
	require.NoError(t, err)
	assert.Contains(t, string(traces), `"Name":"reindex_view"`)
}

func TestTracingDisabled(t *testing.T) {
	dir := t.TempDir()

	tr, err := newTracing(context.Background(), dir, 0)
	require.NoError(t, err)
	require.NoError(t, tr.shutdown(context.Background()))

	_, err = os.Stat(filepath.Join(dir, "traces.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestSampleResources(t *testing.T) {
	usage, err := sampleResources()
	require.NoError(t, err)
	assert.Positive(t, usage.Goroutines)
	assert.Positive(t, usage.HeapAlloc)
	assert.Len(t, usage.fields(), 7)
}
