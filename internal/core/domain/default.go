package domain

import (
	"github.com/google/uuid"
	"github.com/stwidget/timetable-engine/internal/core/json_types"
)

// DefaultConfig is the bootstrap schedule written on first start:
// Mon-Fri, seven periods, Korean school hours.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		SchemaVersion: SchemaVersion,
		Locale:        "ko-KR",
		Days: []Day{
			{ID: "mon", Label: "월"},
			{ID: "tue", Label: "화"},
			{ID: "wed", Label: "수"},
			{ID: "thu", Label: "목"},
			{ID: "fri", Label: "금"},
		},
		Periods: []Period{
			{ID: "1", Label: "1", Start: json_types.MustTimeOfDay("09:00"), End: json_types.MustTimeOfDay("09:45")},
			{ID: "2", Label: "2", Start: json_types.MustTimeOfDay("09:55"), End: json_types.MustTimeOfDay("10:40")},
			{ID: "3", Label: "3", Start: json_types.MustTimeOfDay("10:50"), End: json_types.MustTimeOfDay("11:35")},
			{ID: "4", Label: "4", Start: json_types.MustTimeOfDay("11:45"), End: json_types.MustTimeOfDay("12:30")},
			{ID: "5", Label: "5", Start: json_types.MustTimeOfDay("13:30"), End: json_types.MustTimeOfDay("14:15")},
			{ID: "6", Label: "6", Start: json_types.MustTimeOfDay("14:25"), End: json_types.MustTimeOfDay("15:10")},
			{ID: "7", Label: "7", Start: json_types.MustTimeOfDay("15:20"), End: json_types.MustTimeOfDay("16:05")},
		},
		TimeOverrides: TimeOverrides{},
		Timetable:     Timetable{},
		UI:            defaultUIConfig(),
		Theme:         defaultThemeConfig(),
		Update:        defaultUpdateConfig(),
		Revision:      uuid.New(),
	}
}

func defaultUIConfig() UIConfig {
	return UIConfig{
		Position: UIPosition{X: 80, Y: 60, Width: 520, Height: 360},
	}
}

func defaultThemeConfig() ThemeConfig {
	return ThemeConfig{
		Preset: "light",
		Tokens: map[string]string{},
	}
}

func defaultUpdateConfig() UpdateConfig {
	return UpdateConfig{AutoCheck: true}
}
