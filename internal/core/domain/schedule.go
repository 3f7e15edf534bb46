package domain

import "github.com/stwidget/timetable-engine/internal/core/json_types"

// PeriodWindow is a period's effective start/end on one day, after any
// override has been applied. Slices of windows keep declaration order.
type PeriodWindow struct {
	PeriodID string               `json:"periodId"`
	Label    string               `json:"label"`
	Start    json_types.TimeOfDay `json:"start"`
	End      json_types.TimeOfDay `json:"end"`
}

// DayStatus is the point-in-time answer for one day. Period id fields
// are empty when there is no match; ids themselves are never empty by
// validation, so the sentinel is unambiguous.
type DayStatus struct {
	DayID   string               `json:"dayId"`
	At      json_types.TimeOfDay `json:"at"`
	InClass bool                 `json:"inClass"`
	InBreak bool                 `json:"inBreak"`

	CurrentPeriodID string `json:"currentPeriodId,omitempty"`
	CurrentSubject  string `json:"currentSubject,omitempty"`

	NextPeriodID string `json:"nextPeriodId,omitempty"`
	NextSubject  string `json:"nextSubject,omitempty"`

	// Set while inside a break window between two declaration-adjacent
	// periods; the overlay pre-highlights this period's border.
	BreakNextPeriodID string `json:"breakNextPeriodId,omitempty"`
}

type TransitionEventType string

const (
	// A new period's interval now contains the clock.
	TransitionPeriodStarted TransitionEventType = "period_started"
	// The next period starts within the warning window.
	TransitionPeriodUpcoming TransitionEventType = "period_upcoming"
)

// TransitionEvent is what the poller hands to notification collaborators
// when consecutive evaluations disagree.
type TransitionEvent struct {
	Type         TransitionEventType  `json:"type"`
	DayID        string               `json:"dayId"`
	PeriodID     string               `json:"periodId"`
	PeriodLabel  string               `json:"periodLabel"`
	Subject      string               `json:"subject"`
	At           json_types.TimeOfDay `json:"at"`
	MinutesUntil int                  `json:"minutesUntil,omitempty"`
}
