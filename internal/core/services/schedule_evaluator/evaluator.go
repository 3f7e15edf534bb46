// Package schedule_evaluator answers time-of-day queries against a
// validated configuration. Every function is pure: the caller supplies
// "now", nothing here reads a clock or mutates the config.
package schedule_evaluator

import (
	"sort"

	"github.com/stwidget/timetable-engine/internal/core/domain"
	"github.com/stwidget/timetable-engine/internal/core/json_types"
)

// EffectivePeriodTimes resolves each period's start/end for one day,
// applying per-day overrides where present. Windows come back in the
// configuration's declaration order, not sorted by time.
//
// A day id absent from cfg.Days yields an empty result, which makes all
// queries below answer "no match". The UI probes weekends this way
// without special-casing.
func EffectivePeriodTimes(cfg *domain.AppConfig, dayID string) []domain.PeriodWindow {
	if !cfg.HasDay(dayID) {
		return nil
	}

	overrides := cfg.TimeOverrides[dayID]
	windows := make([]domain.PeriodWindow, 0, len(cfg.Periods))
	for _, p := range cfg.Periods {
		window := domain.PeriodWindow{
			PeriodID: p.ID,
			Label:    p.Label,
			Start:    p.Start,
			End:      p.End,
		}
		if ov, ok := overrides[p.ID]; ok {
			window.Start = ov.Start
			window.End = ov.End
		}
		windows = append(windows, window)
	}
	return windows
}

// CurrentPeriod returns the first period in declaration order whose
// effective window contains now, bounds inclusive on both ends. When
// windows overlap (a configuration smell, not an error) the earlier
// declared period wins, deterministically.
func CurrentPeriod(cfg *domain.AppConfig, dayID string, now json_types.TimeOfDay) (string, bool) {
	for _, w := range EffectivePeriodTimes(cfg, dayID) {
		if contains(w, now) {
			return w.PeriodID, true
		}
	}
	return "", false
}

// NextPeriod returns the period with the earliest effective start
// strictly after now, independent of declaration order. No such period
// means now is at or past the day's last start.
func NextPeriod(cfg *domain.AppConfig, dayID string, now json_types.TimeOfDay) (string, bool) {
	windows := EffectivePeriodTimes(cfg, dayID)
	candidates := make([]domain.PeriodWindow, len(windows))
	copy(candidates, windows)

	// Stable keeps declaration order among equal starts.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Start.Before(candidates[j].Start)
	})

	for _, w := range candidates {
		if now.Before(w.Start) {
			return w.PeriodID, true
		}
	}
	return "", false
}

// BreakNextPeriod reports the upcoming period while now sits strictly
// between two declaration-adjacent periods: end(i) < now < start(i+1).
// Exactly at either bound is "in class" per the inclusive containment
// rule, so both comparisons stay strict. Only the first matching pair
// counts.
func BreakNextPeriod(cfg *domain.AppConfig, dayID string, now json_types.TimeOfDay) (string, bool) {
	windows := EffectivePeriodTimes(cfg, dayID)
	for i := 0; i+1 < len(windows); i++ {
		if windows[i].End.Before(now) && now.Before(windows[i+1].Start) {
			return windows[i+1].PeriodID, true
		}
	}
	return "", false
}

// NextPeriodStart resolves the effective start of a specific period,
// for warning-window arithmetic.
func NextPeriodStart(cfg *domain.AppConfig, dayID, periodID string) (json_types.TimeOfDay, bool) {
	for _, w := range EffectivePeriodTimes(cfg, dayID) {
		if w.PeriodID == periodID {
			return w.Start, true
		}
	}
	return json_types.TimeOfDay{}, false
}

func contains(w domain.PeriodWindow, now json_types.TimeOfDay) bool {
	return !now.Before(w.Start) && !now.After(w.End)
}
