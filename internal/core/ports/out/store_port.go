package out

import (
	"context"

	"github.com/stwidget/timetable-engine/internal/core/domain"
)

type BackupInfo struct {
	Name      string `json:"name"`
	CreatedAt string `json:"createdAt"`
}

// ConfigStorePort owns the configuration document on disk. Load never
// fails on a missing or corrupt file: it bootstraps or falls back to the
// default config and reports what happened through the flags.
type ConfigStorePort interface {
	// Load reads and parses the persisted document.
	// created is true when a new default file was written,
	// recovered is true when a corrupt file was moved aside and replaced.
	Load(ctx context.Context) (cfg *domain.AppConfig, created bool, recovered bool, err error)

	// Save atomically replaces the whole document. No partial updates.
	Save(ctx context.Context, cfg *domain.AppConfig) error

	CreateBackup(ctx context.Context, name string) (BackupInfo, error)
	ListBackups(ctx context.Context) ([]BackupInfo, error)
	RestoreBackup(ctx context.Context, name string) (*domain.AppConfig, error)
}
