package in

import (
	"context"

	"github.com/stwidget/timetable-engine/internal/core/domain"
	"github.com/stwidget/timetable-engine/internal/core/ports/out"
)

type ConfigUseCase interface {
	// Current returns the live config. Callers must treat it as read-only.
	Current(ctx context.Context) *domain.AppConfig

	// Replace validates a raw document, persists it atomically and swaps
	// the live config. The old instance stays valid for in-flight queries.
	Replace(ctx context.Context, raw map[string]any) (*domain.AppConfig, error)

	// Reset persists and swaps in the default config.
	Reset(ctx context.Context) (*domain.AppConfig, error)

	// Reload re-reads the persisted document, for external file edits.
	Reload(ctx context.Context) (*domain.AppConfig, error)

	// ThemeTokens resolves the effective theme token set.
	ThemeTokens(ctx context.Context) map[string]string

	CreateBackup(ctx context.Context, name string) (out.BackupInfo, error)
	ListBackups(ctx context.Context) ([]out.BackupInfo, error)
	RestoreBackup(ctx context.Context, name string) (*domain.AppConfig, error)
}
