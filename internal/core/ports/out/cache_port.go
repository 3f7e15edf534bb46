package out

import (
	"context"

	"github.com/google/uuid"
	"github.com/stwidget/timetable-engine/internal/core/domain"
)

// CachePort keeps resolved day schedules keyed by config revision, so a
// config swap naturally invalidates every cached day.
type CachePort interface {
	GetDaySchedule(ctx context.Context, revision uuid.UUID, dayID string) ([]domain.PeriodWindow, bool)
	StoreDaySchedule(ctx context.Context, revision uuid.UUID, dayID string, windows []domain.PeriodWindow)
	Purge(ctx context.Context)
}
