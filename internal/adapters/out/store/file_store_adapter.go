package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/stwidget/timetable-engine/internal/config"
	"github.com/stwidget/timetable-engine/internal/core/domain"
	"github.com/stwidget/timetable-engine/internal/core/ports/out"
)

// FileStoreAdapter persists the configuration document as one JSON file.
// Writes go through a temp file and rename so a crash never leaves a
// half-written config behind.
type FileStoreAdapter struct {
	configPath string
	backupDir  string
	logger     out.LoggerPort
	mu         sync.Mutex
}

func NewFileStoreAdapter(cfg *config.Config, logger out.LoggerPort) *FileStoreAdapter {
	return &FileStoreAdapter{
		configPath: cfg.Store.ConfigFile,
		backupDir:  cfg.Store.BackupDir,
		logger:     logger.WithModule("FileStoreAdapter"),
	}
}

// ConfigPath exposes the watched file location for the fsnotify adapter.
func (a *FileStoreAdapter) ConfigPath() string {
	return a.configPath
}

func (a *FileStoreAdapter) Load(ctx context.Context) (*domain.AppConfig, bool, bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	data, err := os.ReadFile(a.configPath)
	if errors.Is(err, os.ErrNotExist) {
		cfg := domain.DefaultConfig()
		if err := a.save(cfg); err != nil {
			return nil, false, false, err
		}
		return cfg, true, false, nil
	}
	if err != nil {
		return nil, false, false, fmt.Errorf("config.load.read_failed: %w", err)
	}

	cfg, err := domain.ParseConfigBytes(data)
	if err == nil {
		return cfg, false, false, nil
	}

	// Corrupt document: keep the evidence, then start over from defaults.
	a.logger.Warn("store.load.corrupt", out.LogFields{
		"path":  a.configPath,
		"error": err.Error(),
	})
	if moveErr := a.quarantine(); moveErr != nil {
		return nil, false, false, moveErr
	}

	cfg = domain.DefaultConfig()
	if err := a.save(cfg); err != nil {
		return nil, false, false, err
	}
	return cfg, false, true, nil
}

func (a *FileStoreAdapter) Save(ctx context.Context, cfg *domain.AppConfig) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.save(cfg)
}

func (a *FileStoreAdapter) save(cfg *domain.AppConfig) error {
	data, err := cfg.SerializeBytes()
	if err != nil {
		return fmt.Errorf("config.save.serialize_failed: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(a.configPath), 0o755); err != nil {
		return fmt.Errorf("config.save.mkdir_failed: %w", err)
	}

	tmpPath := a.configPath + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("config.save.write_failed: %w", err)
	}
	if err := os.Rename(tmpPath, a.configPath); err != nil {
		return fmt.Errorf("config.save.rename_failed: %w", err)
	}

	a.logger.Debug("store.save.ok", out.LogFields{
		"path":  a.configPath,
		"bytes": len(data),
	})
	return nil
}

func (a *FileStoreAdapter) quarantine() error {
	if err := os.MkdirAll(a.backupDir, 0o755); err != nil {
		return fmt.Errorf("config.quarantine.mkdir_failed: %w", err)
	}

	stamp := time.Now().Format("20060102_150405")
	target := filepath.Join(a.backupDir, "corrupted_config_"+stamp+".json")
	if err := os.Rename(a.configPath, target); err != nil {
		return fmt.Errorf("config.quarantine.move_failed: %w", err)
	}

	a.logger.Warn("store.quarantine.moved", out.LogFields{
		"from": a.configPath,
		"to":   target,
	})
	return nil
}

func (a *FileStoreAdapter) CreateBackup(ctx context.Context, name string) (out.BackupInfo, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	now := time.Now()
	if name == "" {
		name = "backup_" + now.Format("20060102_150405")
	}
	if !backupNameOK(name) {
		return out.BackupInfo{}, fmt.Errorf("config.backup.bad_name: %q", name)
	}

	data, err := os.ReadFile(a.configPath)
	if err != nil {
		return out.BackupInfo{}, fmt.Errorf("config.backup.read_failed: %w", err)
	}

	if err := os.MkdirAll(a.backupDir, 0o755); err != nil {
		return out.BackupInfo{}, fmt.Errorf("config.backup.mkdir_failed: %w", err)
	}
	target := filepath.Join(a.backupDir, name+".json")
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return out.BackupInfo{}, fmt.Errorf("config.backup.write_failed: %w", err)
	}

	a.logger.Info("store.backup.created", out.LogFields{
		"name": name,
		"path": target,
	})
	return out.BackupInfo{Name: name, CreatedAt: now.Format(time.RFC3339)}, nil
}

func (a *FileStoreAdapter) ListBackups(ctx context.Context) ([]out.BackupInfo, error) {
	entries, err := os.ReadDir(a.backupDir)
	if errors.Is(err, os.ErrNotExist) {
		return []out.BackupInfo{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config.backup.list_failed: %w", err)
	}

	backups := make([]out.BackupInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		info := out.BackupInfo{Name: strings.TrimSuffix(entry.Name(), ".json")}
		if fi, err := entry.Info(); err == nil {
			info.CreatedAt = fi.ModTime().Format(time.RFC3339)
		}
		backups = append(backups, info)
	}

	// Newest first.
	sort.Slice(backups, func(i, j int) bool {
		return backups[i].CreatedAt > backups[j].CreatedAt
	})
	return backups, nil
}

func (a *FileStoreAdapter) RestoreBackup(ctx context.Context, name string) (*domain.AppConfig, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !backupNameOK(name) {
		return nil, fmt.Errorf("config.restore.bad_name: %q", name)
	}

	data, err := os.ReadFile(filepath.Join(a.backupDir, name+".json"))
	if err != nil {
		return nil, fmt.Errorf("config.restore.read_failed: %w", err)
	}

	// A backup must parse before it may clobber the live document.
	cfg, err := domain.ParseConfigBytes(data)
	if err != nil {
		return nil, fmt.Errorf("config.restore.invalid_backup: %w", err)
	}

	if err := a.save(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func backupNameOK(name string) bool {
	return name != "" && !strings.ContainsAny(name, `/\`) && name != "." && name != ".."
}
