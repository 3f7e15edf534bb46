package json_types

import (
	"encoding/json"
	"fmt"
	"regexp"
)

// Pattern for wall-clock times, zero-padded hour optional: "9:05" and "09:05" both pass.
var timeOfDayPattern = regexp.MustCompile(`^([01]?\d|2[0-3]):[0-5]\d$`)

// TimeOfDay is a minute-resolution wall-clock time within a single day.
// It always marshals zero-padded ("09:05") regardless of the input form.
type TimeOfDay struct {
	Hour   int
	Minute int
}

func ParseTimeOfDay(str string) (TimeOfDay, error) {
	if !timeOfDayPattern.MatchString(str) {
		return TimeOfDay{}, fmt.Errorf("invalid time of day: %q", str)
	}

	var h, m int
	fmt.Sscanf(str, "%d:%d", &h, &m)
	return TimeOfDay{Hour: h, Minute: m}, nil
}

// MustTimeOfDay is for literals in defaults and tests.
func MustTimeOfDay(str string) TimeOfDay {
	t, err := ParseTimeOfDay(str)
	if err != nil {
		panic(err)
	}
	return t
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// MinuteOfDay maps the time onto [0, 1439] for ordering.
func (t TimeOfDay) MinuteOfDay() int {
	return t.Hour*60 + t.Minute
}

func (t TimeOfDay) Before(other TimeOfDay) bool {
	return t.MinuteOfDay() < other.MinuteOfDay()
}

func (t TimeOfDay) After(other TimeOfDay) bool {
	return t.MinuteOfDay() > other.MinuteOfDay()
}

func (t TimeOfDay) Equal(other TimeOfDay) bool {
	return t.MinuteOfDay() == other.MinuteOfDay()
}

// AddMinutes shifts the time, clamping to the bounds of the day.
func (t TimeOfDay) AddMinutes(delta int) TimeOfDay {
	m := t.MinuteOfDay() + delta
	if m < 0 {
		m = 0
	}
	if m > 23*60+59 {
		m = 23*60 + 59
	}
	return TimeOfDay{Hour: m / 60, Minute: m % 60}
}

func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("time of day must be a string: %w", err)
	}

	parsed, err := ParseTimeOfDay(str)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}
