package cache

import (
	"context"
	"sync"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/stwidget/timetable-engine/internal/config"
	"github.com/stwidget/timetable-engine/internal/core/domain"
	"github.com/stwidget/timetable-engine/internal/core/ports/out"
)

type dayKey struct {
	revision uuid.UUID
	dayID    string
}

// DayScheduleCacheAdapter memoizes resolved per-day period windows.
// Keys carry the config revision, so entries for a replaced config can
// never be served by accident.
type DayScheduleCacheAdapter struct {
	cache  *lru.Cache[dayKey, []domain.PeriodWindow]
	mu     sync.RWMutex
	logger out.LoggerPort
}

func NewDayScheduleCacheAdapter(cfg *config.Config, logger out.LoggerPort) (*DayScheduleCacheAdapter, error) {
	if !cfg.Cache.Enabled {
		logger.Info("cache.disabled", out.LogFields{})
		return nil, nil
	}

	cache, err := lru.New[dayKey, []domain.PeriodWindow](cfg.Cache.DaysSize)
	if err != nil {
		logger.Error("cache.init.failed", out.LogFields{
			"error": err.Error(),
			"size":  cfg.Cache.DaysSize,
		})
		return nil, err
	}

	return &DayScheduleCacheAdapter{
		cache:  cache,
		logger: logger.WithModule("DayScheduleCacheAdapter"),
	}, nil
}

func (c *DayScheduleCacheAdapter) GetDaySchedule(ctx context.Context, revision uuid.UUID, dayID string) ([]domain.PeriodWindow, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	windows, exists := c.cache.Get(dayKey{revision: revision, dayID: dayID})
	if !exists {
		c.logger.Debug("cache.get.miss", out.LogFields{
			"revision": revision,
			"dayId":    dayID,
		})
		return nil, false
	}

	c.logger.Debug("cache.get.hit", out.LogFields{
		"revision": revision,
		"dayId":    dayID,
		"windows":  len(windows),
	})
	return windows, true
}

func (c *DayScheduleCacheAdapter) StoreDaySchedule(ctx context.Context, revision uuid.UUID, dayID string, windows []domain.PeriodWindow) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache.Add(dayKey{revision: revision, dayID: dayID}, windows)
}

func (c *DayScheduleCacheAdapter) Purge(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache.Purge()
	c.logger.Debug("cache.purged", out.LogFields{})
}
