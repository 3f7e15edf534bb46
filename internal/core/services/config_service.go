package services

import (
	"context"
	"sync"

	"github.com/stwidget/timetable-engine/internal/core/domain"
	"github.com/stwidget/timetable-engine/internal/core/ports/out"
)

// ConfigService owns the live configuration. Swaps are copy-on-write:
// queries hold whatever instance they grabbed, edits install a fresh
// instance behind the mutex, and in-flight readers are never torn.
type ConfigService struct {
	storePort out.ConfigStorePort
	cachePort out.CachePort
	logger    out.LoggerPort

	mu      sync.RWMutex
	current *domain.AppConfig
}

func NewConfigService(
	storePort out.ConfigStorePort,
	cachePort out.CachePort,
	logger out.LoggerPort,
) *ConfigService {
	return &ConfigService{
		storePort: storePort,
		cachePort: cachePort,
		logger:    logger.WithModule("ConfigService"),
	}
}

// Bootstrap loads the persisted document once at process start.
func (s *ConfigService) Bootstrap(ctx context.Context) error {
	cfg, created, recovered, err := s.storePort.Load(ctx)
	if err != nil {
		return err
	}

	if created {
		s.logger.Info("config.bootstrap.created_default", out.LogFields{})
	}
	if recovered {
		s.logger.Warn("config.bootstrap.recovered", out.LogFields{
			"message": "persisted config was corrupt, replaced with defaults",
		})
	}
	s.logger.Info("config.bootstrap.loaded", out.LogFields{
		"revision": cfg.Revision,
		"days":     len(cfg.Days),
		"periods":  len(cfg.Periods),
	})

	s.install(ctx, cfg)
	return nil
}

func (s *ConfigService) Current(ctx context.Context) *domain.AppConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

func (s *ConfigService) Replace(ctx context.Context, raw map[string]any) (*domain.AppConfig, error) {
	cfg, err := domain.ParseConfig(raw)
	if err != nil {
		s.logger.Warn("config.replace.rejected", out.LogFields{
			"error": err.Error(),
		})
		return nil, err
	}

	if err := s.storePort.Save(ctx, cfg); err != nil {
		s.logger.Error("config.replace.save_failed", out.LogFields{
			"error": err.Error(),
		})
		return nil, err
	}

	s.install(ctx, cfg)
	s.logger.Info("config.replace.applied", out.LogFields{
		"revision": cfg.Revision,
	})
	return cfg, nil
}

func (s *ConfigService) Reset(ctx context.Context) (*domain.AppConfig, error) {
	cfg := domain.DefaultConfig()
	if err := s.storePort.Save(ctx, cfg); err != nil {
		s.logger.Error("config.reset.save_failed", out.LogFields{
			"error": err.Error(),
		})
		return nil, err
	}

	s.install(ctx, cfg)
	s.logger.Info("config.reset.applied", out.LogFields{
		"revision": cfg.Revision,
	})
	return cfg, nil
}

func (s *ConfigService) Reload(ctx context.Context) (*domain.AppConfig, error) {
	cfg, _, recovered, err := s.storePort.Load(ctx)
	if err != nil {
		s.logger.Error("config.reload.failed", out.LogFields{
			"error": err.Error(),
		})
		return nil, err
	}
	if recovered {
		s.logger.Warn("config.reload.recovered", out.LogFields{})
	}

	s.install(ctx, cfg)
	s.logger.Info("config.reload.applied", out.LogFields{
		"revision": cfg.Revision,
	})
	return cfg, nil
}

func (s *ConfigService) ThemeTokens(ctx context.Context) map[string]string {
	return domain.ComputeThemeTokens(s.Current(ctx))
}

func (s *ConfigService) CreateBackup(ctx context.Context, name string) (out.BackupInfo, error) {
	return s.storePort.CreateBackup(ctx, name)
}

func (s *ConfigService) ListBackups(ctx context.Context) ([]out.BackupInfo, error) {
	return s.storePort.ListBackups(ctx)
}

func (s *ConfigService) RestoreBackup(ctx context.Context, name string) (*domain.AppConfig, error) {
	cfg, err := s.storePort.RestoreBackup(ctx, name)
	if err != nil {
		s.logger.Error("config.restore.failed", out.LogFields{
			"name":  name,
			"error": err.Error(),
		})
		return nil, err
	}

	s.install(ctx, cfg)
	s.logger.Info("config.restore.applied", out.LogFields{
		"name":     name,
		"revision": cfg.Revision,
	})
	return cfg, nil
}

func (s *ConfigService) install(ctx context.Context, cfg *domain.AppConfig) {
	s.mu.Lock()
	s.current = cfg
	s.mu.Unlock()

	// Revision-keyed entries for the old config are now unreachable,
	// drop them instead of waiting for LRU pressure.
	if s.cachePort != nil {
		s.cachePort.Purge(ctx)
	}
}
