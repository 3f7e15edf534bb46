package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stwidget/timetable-engine/internal/core/domain"
	"github.com/stwidget/timetable-engine/internal/core/ports/out"
)

// ConfigReloader is the slice of the config use case the watcher needs.
type ConfigReloader interface {
	Reload(ctx context.Context) (*domain.AppConfig, error)
}

// ConfigWatcher reloads the live config when the document changes on
// disk, so edits made by another tool (or a restored backup copied in
// manually) show up without a restart.
type ConfigWatcher struct {
	configPath string
	reloader   ConfigReloader
	watcher    *fsnotify.Watcher
	logger     out.LoggerPort
	reloadChan chan struct{}
	stopChan   chan struct{}
	debounce   time.Duration
}

func NewConfigWatcher(configPath string, reloader ConfigReloader, logger out.LoggerPort) (*ConfigWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watcher.init.failed: %w", err)
	}

	absPath, err := filepath.Abs(configPath)
	if err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watcher.resolve_path.failed: %w", err)
	}

	return &ConfigWatcher{
		configPath: absPath,
		reloader:   reloader,
		watcher:    watcher,
		logger:     logger.WithModule("ConfigWatcher"),
		reloadChan: make(chan struct{}, 1),
		stopChan:   make(chan struct{}),
		debounce:   500 * time.Millisecond,
	}, nil
}

func (w *ConfigWatcher) Start(ctx context.Context) error {
	// Watching the directory survives the atomic rename dance that
	// replaces the file on every save.
	if err := w.watcher.Add(filepath.Dir(w.configPath)); err != nil {
		return fmt.Errorf("watcher.add.failed: %w", err)
	}

	w.logger.Info("watcher.started", out.LogFields{
		"path": w.configPath,
	})

	go w.watchLoop(ctx)
	go w.reloadLoop(ctx)
	return nil
}

func (w *ConfigWatcher) Stop() error {
	close(w.stopChan)
	return w.watcher.Close()
}

func (w *ConfigWatcher) watchLoop(ctx context.Context) {
	configFile := filepath.Base(w.configPath)

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopChan:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != configFile {
				continue
			}

			if event.Op.Has(fsnotify.Write) || event.Op.Has(fsnotify.Create) || event.Op.Has(fsnotify.Rename) {
				w.triggerReload()
			} else if event.Op.Has(fsnotify.Remove) {
				w.logger.Warn("watcher.config_removed", out.LogFields{
					"path": event.Name,
				})
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("watcher.error", out.LogFields{
				"error": err.Error(),
			})
		}
	}
}

func (w *ConfigWatcher) triggerReload() {
	select {
	case w.reloadChan <- struct{}{}:
	default:
		// A reload is already pending.
	}
}

func (w *ConfigWatcher) reloadLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopChan:
			return
		case <-w.reloadChan:
			// Editors and the engine's own atomic save both produce
			// bursts of events; let them settle before re-reading.
			time.Sleep(w.debounce)
			w.drainPending()

			if _, err := w.reloader.Reload(ctx); err != nil {
				w.logger.Error("watcher.reload.failed", out.LogFields{
					"error": err.Error(),
				})
			}
		}
	}
}

func (w *ConfigWatcher) drainPending() {
	select {
	case <-w.reloadChan:
	default:
	}
}
