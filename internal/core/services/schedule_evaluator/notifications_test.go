package schedule_evaluator

import (
	"testing"

	"github.com/stwidget/timetable-engine/internal/core/domain"
)

func notifierConfig() *domain.AppConfig {
	cfg := twoPeriodConfig()
	cfg.TimeOverrides = domain.TimeOverrides{}
	cfg.Timetable = domain.Timetable{
		"mon": {"1": "국어", "2": "수학"},
	}
	return cfg
}

func TestCheckTransitionsPeriodStartedOnce(t *testing.T) {
	cfg := notifierConfig()
	state := NotifierState{}

	events, state := CheckTransitions(cfg, "mon", at("09:00"), state, 0)
	if len(events) != 1 || events[0].Type != domain.TransitionPeriodStarted {
		t.Fatalf("expected one period_started event, got %+v", events)
	}
	if events[0].PeriodID != "1" || events[0].Subject != "국어" {
		t.Errorf("event = %+v, want period 1 / 국어", events[0])
	}

	// Same period on the next tick stays quiet.
	events, state = CheckTransitions(cfg, "mon", at("09:01"), state, 0)
	if len(events) != 0 {
		t.Errorf("repeat tick produced events: %+v", events)
	}

	// Next period fires again.
	events, _ = CheckTransitions(cfg, "mon", at("09:55"), state, 0)
	if len(events) != 1 || events[0].PeriodID != "2" {
		t.Errorf("expected period_started for 2, got %+v", events)
	}
}

func TestCheckTransitionsEmptySubjectStaysSilent(t *testing.T) {
	cfg := notifierConfig()
	cfg.Timetable = domain.Timetable{}

	events, state := CheckTransitions(cfg, "mon", at("09:00"), state0(), 0)
	if len(events) != 0 {
		t.Errorf("empty cell must not announce, got %+v", events)
	}
	// But the state advanced, so filling the subject later doesn't
	// retroactively announce the same period.
	if state.LastStartedPeriodID != "1" {
		t.Errorf("state = %+v, want LastStartedPeriodID=1", state)
	}
}

func TestCheckTransitionsUpcomingWarning(t *testing.T) {
	cfg := notifierConfig()
	state := NotifierState{LastStartedPeriodID: "1"}

	// 09:51, period 2 starts 09:55: inside a 5-minute window.
	events, state := CheckTransitions(cfg, "mon", at("09:51"), state, 5)
	if len(events) != 1 || events[0].Type != domain.TransitionPeriodUpcoming {
		t.Fatalf("expected period_upcoming, got %+v", events)
	}
	if events[0].PeriodID != "2" || events[0].MinutesUntil != 4 {
		t.Errorf("event = %+v, want period 2 in 4 minutes", events[0])
	}

	// Warned once, not every tick.
	events, _ = CheckTransitions(cfg, "mon", at("09:52"), state, 5)
	if len(events) != 0 {
		t.Errorf("repeat warning produced events: %+v", events)
	}
}

func TestCheckTransitionsWarningWindowBounds(t *testing.T) {
	cfg := notifierConfig()

	// Too early: period 2 starts 09:55, 09:45 is 10 minutes out. The
	// 09:45 instant is also still inside period 1 so no start either.
	events, _ := CheckTransitions(cfg, "mon", at("09:45"), NotifierState{LastStartedPeriodID: "1"}, 5)
	if len(events) != 0 {
		t.Errorf("outside warning window, got %+v", events)
	}

	// Disabled window never warns.
	events, _ = CheckTransitions(cfg, "mon", at("09:51"), NotifierState{LastStartedPeriodID: "1"}, 0)
	if len(events) != 0 {
		t.Errorf("warningMinutes=0 must not warn, got %+v", events)
	}
}

func TestCheckTransitionsUnknownDay(t *testing.T) {
	cfg := notifierConfig()

	events, state := CheckTransitions(cfg, "sun", at("09:00"), state0(), 5)
	if len(events) != 0 {
		t.Errorf("unknown day produced events: %+v", events)
	}
	if state != state0() {
		t.Errorf("unknown day mutated state: %+v", state)
	}
}

func state0() NotifierState {
	return NotifierState{}
}
