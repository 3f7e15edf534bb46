package schedule_evaluator

import (
	"github.com/stwidget/timetable-engine/internal/core/domain"
	"github.com/stwidget/timetable-engine/internal/core/json_types"
)

// NotifierState is the caller-held memory between evaluations. The
// evaluator itself stays stateless; the poller threads this through.
type NotifierState struct {
	LastStartedPeriodID string
	LastWarnedPeriodID  string
}

// CheckTransitions decides which notification events the instant "now"
// produces, given what was already announced. Events only fire for
// cells that have a subject; an empty cell changes state silently so
// the same period is not re-announced later.
func CheckTransitions(
	cfg *domain.AppConfig,
	dayID string,
	now json_types.TimeOfDay,
	state NotifierState,
	warningMinutes int,
) ([]domain.TransitionEvent, NotifierState) {
	var events []domain.TransitionEvent

	if current, ok := CurrentPeriod(cfg, dayID, now); ok && current != state.LastStartedPeriodID {
		state.LastStartedPeriodID = current
		if subject := cfg.Subject(dayID, current); subject != "" {
			events = append(events, domain.TransitionEvent{
				Type:        domain.TransitionPeriodStarted,
				DayID:       dayID,
				PeriodID:    current,
				PeriodLabel: periodLabel(cfg, current),
				Subject:     subject,
				At:          now,
			})
		}
	}

	if warningMinutes <= 0 {
		return events, state
	}

	next, ok := NextPeriod(cfg, dayID, now)
	if !ok || next == state.LastWarnedPeriodID {
		return events, state
	}
	start, ok := NextPeriodStart(cfg, dayID, next)
	if !ok {
		return events, state
	}

	minutesUntil := start.MinuteOfDay() - now.MinuteOfDay()
	if minutesUntil <= 0 || minutesUntil > warningMinutes {
		return events, state
	}

	state.LastWarnedPeriodID = next
	if subject := cfg.Subject(dayID, next); subject != "" {
		events = append(events, domain.TransitionEvent{
			Type:         domain.TransitionPeriodUpcoming,
			DayID:        dayID,
			PeriodID:     next,
			PeriodLabel:  periodLabel(cfg, next),
			Subject:      subject,
			At:           now,
			MinutesUntil: minutesUntil,
		})
	}
	return events, state
}

func periodLabel(cfg *domain.AppConfig, periodID string) string {
	if p, ok := cfg.PeriodByID(periodID); ok {
		return p.Label
	}
	return periodID
}
