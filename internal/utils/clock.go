package utils

import (
	"time"

	"github.com/stwidget/timetable-engine/internal/core/json_types"
)

var weekdayIDs = map[time.Weekday]string{
	time.Monday:    "mon",
	time.Tuesday:   "tue",
	time.Wednesday: "wed",
	time.Thursday:  "thu",
	time.Friday:    "fri",
	time.Saturday:  "sat",
	time.Sunday:    "sun",
}

// DayIDFor maps a wall-clock instant onto the conventional day ids the
// default config uses. Configs with custom day sets simply won't match
// and get the "no such day" answer.
func DayIDFor(t time.Time) string {
	return weekdayIDs[t.Weekday()]
}

// TimeOfDayFor truncates an instant to the engine's minute resolution.
func TimeOfDayFor(t time.Time) json_types.TimeOfDay {
	return json_types.TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}
}

// LoadLocation resolves the configured timezone, falling back to the
// system's local zone on failure.
func LoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.Local
	}
	return loc
}
