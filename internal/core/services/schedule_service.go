package services

import (
	"context"

	"github.com/stwidget/timetable-engine/internal/core/domain"
	"github.com/stwidget/timetable-engine/internal/core/json_types"
	"github.com/stwidget/timetable-engine/internal/core/ports/in"
	"github.com/stwidget/timetable-engine/internal/core/ports/out"
	"github.com/stwidget/timetable-engine/internal/core/services/schedule_evaluator"
)

// ScheduleService fronts the pure evaluator with the live config and an
// optional day-schedule cache.
type ScheduleService struct {
	configUseCase in.ConfigUseCase
	cachePort     out.CachePort
	logger        out.LoggerPort
}

func NewScheduleService(
	configUseCase in.ConfigUseCase,
	cachePort out.CachePort,
	logger out.LoggerPort,
) *ScheduleService {
	return &ScheduleService{
		configUseCase: configUseCase,
		cachePort:     cachePort,
		logger:        logger.WithModule("ScheduleService"),
	}
}

func (s *ScheduleService) DaySchedule(ctx context.Context, dayID string) []domain.PeriodWindow {
	cfg := s.configUseCase.Current(ctx)

	if s.cachePort != nil {
		if windows, ok := s.cachePort.GetDaySchedule(ctx, cfg.Revision, dayID); ok {
			return windows
		}
	}

	windows := schedule_evaluator.EffectivePeriodTimes(cfg, dayID)
	if s.cachePort != nil && windows != nil {
		s.cachePort.StoreDaySchedule(ctx, cfg.Revision, dayID, windows)
	}
	return windows
}

func (s *ScheduleService) DayStatus(ctx context.Context, dayID string, at json_types.TimeOfDay) domain.DayStatus {
	cfg := s.configUseCase.Current(ctx)

	status := domain.DayStatus{
		DayID: dayID,
		At:    at,
	}

	if current, ok := schedule_evaluator.CurrentPeriod(cfg, dayID, at); ok {
		status.InClass = true
		status.CurrentPeriodID = current
		status.CurrentSubject = cfg.Subject(dayID, current)
	}

	if next, ok := schedule_evaluator.NextPeriod(cfg, dayID, at); ok {
		status.NextPeriodID = next
		status.NextSubject = cfg.Subject(dayID, next)
	}

	if breakNext, ok := schedule_evaluator.BreakNextPeriod(cfg, dayID, at); ok {
		status.InBreak = true
		status.BreakNextPeriodID = breakNext
	}

	s.logger.Debug("schedule.status.evaluated", out.LogFields{
		"dayId":   dayID,
		"at":      at.String(),
		"current": status.CurrentPeriodID,
		"next":    status.NextPeriodID,
	})
	return status
}
