package in

import (
	"context"

	"github.com/stwidget/timetable-engine/internal/core/domain"
	"github.com/stwidget/timetable-engine/internal/core/json_types"
)

type ScheduleUseCase interface {
	// DayStatus answers current/next/break-next for one day at one instant.
	DayStatus(ctx context.Context, dayID string, at json_types.TimeOfDay) domain.DayStatus

	// DaySchedule returns the effective period windows for one day,
	// in declaration order.
	DaySchedule(ctx context.Context, dayID string) []domain.PeriodWindow
}
