package domain

import (
	"github.com/google/uuid"
	"github.com/stwidget/timetable-engine/internal/core/json_types"
)

// SchemaVersion is the only configuration document version this build understands.
const SchemaVersion = 2

type Day struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

type Period struct {
	ID    string               `json:"id"`
	Label string               `json:"label"`
	Start json_types.TimeOfDay `json:"start"`
	End   json_types.TimeOfDay `json:"end"`
}

// TimeOverride replaces a period's default start/end on one specific day.
type TimeOverride struct {
	Start json_types.TimeOfDay `json:"start"`
	End   json_types.TimeOfDay `json:"end"`
}

// TimeOverrides is keyed day id -> period id.
type TimeOverrides map[string]map[string]TimeOverride

// Timetable holds free-form subject labels, day id -> period id -> subject.
// It is presentational data and is never validated against days/periods.
type Timetable map[string]map[string]string

type UIPosition struct {
	X          int            `json:"x"`
	Y          int            `json:"y"`
	Width      int            `json:"width"`
	Height     int            `json:"height"`
	Lock       bool           `json:"lock"`
	ScreenInfo map[string]any `json:"screen_info"`
}

type UIConfig struct {
	Position UIPosition `json:"position"`
}

type ThemeConfig struct {
	Preset string            `json:"preset"`
	Tokens map[string]string `json:"tokens"`
}

type UpdateConfig struct {
	AutoCheck bool `json:"auto_check"`
}

// AppConfig is the aggregate the evaluator queries. Treat it as
// copy-on-write: edits go through Clone, never in place, so a concurrent
// query never observes a half-updated configuration.
type AppConfig struct {
	SchemaVersion int           `json:"schema_version"`
	Locale        string        `json:"locale"`
	Days          []Day         `json:"days"`
	Periods       []Period      `json:"periods"`
	TimeOverrides TimeOverrides `json:"time_overrides"`
	Timetable     Timetable     `json:"timetable"`
	UI            UIConfig      `json:"ui"`
	Theme         ThemeConfig   `json:"theme"`
	Update        UpdateConfig  `json:"update"`

	// Revision changes whenever a distinct config instance is produced.
	// Cache adapters key derived data on it. Not part of the document.
	Revision uuid.UUID `json:"-"`
}

func (c *AppConfig) HasDay(dayID string) bool {
	for _, d := range c.Days {
		if d.ID == dayID {
			return true
		}
	}
	return false
}

func (c *AppConfig) PeriodByID(periodID string) (Period, bool) {
	for _, p := range c.Periods {
		if p.ID == periodID {
			return p, true
		}
	}
	return Period{}, false
}

// Subject returns the timetable label for a cell, empty when unset.
func (c *AppConfig) Subject(dayID, periodID string) string {
	row, ok := c.Timetable[dayID]
	if !ok {
		return ""
	}
	return row[periodID]
}

// Clone deep-copies the aggregate and stamps a fresh revision.
func (c *AppConfig) Clone() *AppConfig {
	clone := *c

	clone.Days = make([]Day, len(c.Days))
	copy(clone.Days, c.Days)

	clone.Periods = make([]Period, len(c.Periods))
	copy(clone.Periods, c.Periods)

	clone.TimeOverrides = make(TimeOverrides, len(c.TimeOverrides))
	for dayID, perDay := range c.TimeOverrides {
		inner := make(map[string]TimeOverride, len(perDay))
		for periodID, ov := range perDay {
			inner[periodID] = ov
		}
		clone.TimeOverrides[dayID] = inner
	}

	clone.Timetable = make(Timetable, len(c.Timetable))
	for dayID, perDay := range c.Timetable {
		inner := make(map[string]string, len(perDay))
		for periodID, subject := range perDay {
			inner[periodID] = subject
		}
		clone.Timetable[dayID] = inner
	}

	if c.UI.Position.ScreenInfo != nil {
		clone.UI.Position.ScreenInfo = make(map[string]any, len(c.UI.Position.ScreenInfo))
		for k, v := range c.UI.Position.ScreenInfo {
			clone.UI.Position.ScreenInfo[k] = v
		}
	}

	if c.Theme.Tokens != nil {
		clone.Theme.Tokens = make(map[string]string, len(c.Theme.Tokens))
		for k, v := range c.Theme.Tokens {
			clone.Theme.Tokens[k] = v
		}
	}

	clone.Revision = uuid.New()
	return &clone
}
