package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stwidget/timetable-engine/internal/adapters/out/logger"
	"github.com/stwidget/timetable-engine/internal/core/domain"
)

type countingReloader struct {
	calls atomic.Int32
}

func (r *countingReloader) Reload(ctx context.Context) (*domain.AppConfig, error) {
	r.calls.Add(1)
	return domain.DefaultConfig(), nil
}

func writeConfigFile(t *testing.T, path string) {
	t.Helper()
	data, err := domain.DefaultConfig().SerializeBytes()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func waitForCalls(t *testing.T, reloader *countingReloader, want int32) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if reloader.calls.Load() >= want {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("reload not observed, got %d calls", reloader.calls.Load())
}

func TestWatcherReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.json")
	writeConfigFile(t, configPath)

	log, err := logger.NewConsoleLogger("UTC")
	require.NoError(t, err)

	reloader := &countingReloader{}
	w, err := NewConfigWatcher(configPath, reloader, log)
	require.NoError(t, err)
	w.debounce = 50 * time.Millisecond

	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	writeConfigFile(t, configPath)
	waitForCalls(t, reloader, 1)
}

func TestWatcherSurvivesAtomicRename(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.json")
	writeConfigFile(t, configPath)

	log, err := logger.NewConsoleLogger("UTC")
	require.NoError(t, err)

	reloader := &countingReloader{}
	w, err := NewConfigWatcher(configPath, reloader, log)
	require.NoError(t, err)
	w.debounce = 50 * time.Millisecond

	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	// Write a sibling temp file and rename it over the config, the same
	// dance the file store does on every save.
	tmpPath := filepath.Join(dir, "config.json.tmp")
	writeConfigFile(t, tmpPath)
	require.NoError(t, os.Rename(tmpPath, configPath))
	waitForCalls(t, reloader, 1)
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.json")
	writeConfigFile(t, configPath)

	log, err := logger.NewConsoleLogger("UTC")
	require.NoError(t, err)

	reloader := &countingReloader{}
	w, err := NewConfigWatcher(configPath, reloader, log)
	require.NoError(t, err)
	w.debounce = 50 * time.Millisecond

	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	writeConfigFile(t, filepath.Join(dir, "unrelated.json"))
	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, int32(0), reloader.calls.Load())
}
