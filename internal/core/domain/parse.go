package domain

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/stwidget/timetable-engine/internal/core/json_types"
)

// ParseConfigBytes decodes a raw configuration document. A payload that is
// not a JSON object fails with ConfigFormatError before any field checks.
func ParseConfigBytes(data []byte) (*AppConfig, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &ConfigFormatError{Reason: err.Error()}
	}
	return ParseConfig(raw)
}

// ParseConfig validates an untyped nested mapping into an AppConfig.
// Unknown keys are ignored, missing sub-objects fall back to defaults,
// and every structural violation comes back as a typed error. The input
// is never mutated.
func ParseConfig(raw map[string]any) (*AppConfig, error) {
	if raw == nil {
		return nil, &ConfigFormatError{Reason: "config must be an object"}
	}

	version, err := intField(raw, "schema_version", SchemaVersion)
	if err != nil {
		return nil, err
	}
	if version != SchemaVersion {
		return nil, &UnsupportedSchemaError{Version: version}
	}

	cfg := &AppConfig{
		SchemaVersion: version,
		Locale:        stringField(raw, "locale", "ko-KR"),
		Revision:      uuid.New(),
	}

	if cfg.Days, err = parseDays(raw["days"]); err != nil {
		return nil, err
	}
	if cfg.Periods, err = parsePeriods(raw["periods"]); err != nil {
		return nil, err
	}
	if cfg.TimeOverrides, err = parseTimeOverrides(raw["time_overrides"], cfg.Days, cfg.Periods); err != nil {
		return nil, err
	}
	if cfg.Timetable, err = parseTimetable(raw["timetable"]); err != nil {
		return nil, err
	}

	cfg.UI = parseUI(raw["ui"])
	cfg.Theme = parseTheme(raw["theme"])
	cfg.Update = parseUpdate(raw["update"])

	return cfg, nil
}

// Serialize is the structural inverse of ParseConfig: for any config the
// parser accepted, parsing the serialized form yields an equal config.
// Time strings come out zero-padded even when the input was not.
func (c *AppConfig) Serialize() map[string]any {
	days := make([]any, 0, len(c.Days))
	for _, d := range c.Days {
		days = append(days, map[string]any{"id": d.ID, "label": d.Label})
	}

	periods := make([]any, 0, len(c.Periods))
	for _, p := range c.Periods {
		periods = append(periods, map[string]any{
			"id":    p.ID,
			"label": p.Label,
			"start": p.Start.String(),
			"end":   p.End.String(),
		})
	}

	overrides := make(map[string]any, len(c.TimeOverrides))
	for dayID, perDay := range c.TimeOverrides {
		inner := make(map[string]any, len(perDay))
		for periodID, ov := range perDay {
			inner[periodID] = map[string]any{
				"start": ov.Start.String(),
				"end":   ov.End.String(),
			}
		}
		overrides[dayID] = inner
	}

	timetable := make(map[string]any, len(c.Timetable))
	for dayID, perDay := range c.Timetable {
		inner := make(map[string]any, len(perDay))
		for periodID, subject := range perDay {
			inner[periodID] = subject
		}
		timetable[dayID] = inner
	}

	var screenInfo any
	if c.UI.Position.ScreenInfo != nil {
		screenInfo = c.UI.Position.ScreenInfo
	}

	tokens := make(map[string]any, len(c.Theme.Tokens))
	for k, v := range c.Theme.Tokens {
		tokens[k] = v
	}

	return map[string]any{
		"schema_version": c.SchemaVersion,
		"locale":         c.Locale,
		"days":           days,
		"periods":        periods,
		"time_overrides": overrides,
		"timetable":      timetable,
		"ui": map[string]any{
			"position": map[string]any{
				"x":           c.UI.Position.X,
				"y":           c.UI.Position.Y,
				"width":       c.UI.Position.Width,
				"height":      c.UI.Position.Height,
				"lock":        c.UI.Position.Lock,
				"screen_info": screenInfo,
			},
		},
		"theme": map[string]any{
			"preset": c.Theme.Preset,
			"tokens": tokens,
		},
		"update": map[string]any{
			"auto_check": c.Update.AutoCheck,
		},
	}
}

// SerializeBytes renders the document as indented JSON, the on-disk form.
func (c *AppConfig) SerializeBytes() ([]byte, error) {
	return json.MarshalIndent(c.Serialize(), "", "  ")
}

func parseDays(raw any) ([]Day, error) {
	items, err := listField(raw, "days")
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, newValidationError("days", "must not be empty")
	}

	days := make([]Day, 0, len(items))
	seen := make(map[string]bool, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, newValidationError(fmt.Sprintf("days[%d]", i), "must be an object")
		}

		day := Day{
			ID:    strings.TrimSpace(stringField(obj, "id", "")),
			Label: strings.TrimSpace(stringField(obj, "label", "")),
		}
		if day.ID == "" {
			return nil, newValidationError(fmt.Sprintf("days[%d].id", i), "must not be empty")
		}
		if seen[day.ID] {
			return nil, newValidationError(fmt.Sprintf("days[%d].id", i), "duplicate day id %q", day.ID)
		}
		seen[day.ID] = true
		days = append(days, day)
	}
	return days, nil
}

func parsePeriods(raw any) ([]Period, error) {
	items, err := listField(raw, "periods")
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, newValidationError("periods", "must not be empty")
	}

	periods := make([]Period, 0, len(items))
	seen := make(map[string]bool, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, newValidationError(fmt.Sprintf("periods[%d]", i), "must be an object")
		}

		period := Period{
			ID:    strings.TrimSpace(stringField(obj, "id", "")),
			Label: strings.TrimSpace(stringField(obj, "label", "")),
		}
		if period.ID == "" {
			return nil, newValidationError(fmt.Sprintf("periods[%d].id", i), "must not be empty")
		}
		if seen[period.ID] {
			return nil, newValidationError(fmt.Sprintf("periods[%d].id", i), "duplicate period id %q", period.ID)
		}
		seen[period.ID] = true

		if period.Start, err = timeField(obj, "start", fmt.Sprintf("periods[%d].start", i)); err != nil {
			return nil, err
		}
		if period.End, err = timeField(obj, "end", fmt.Sprintf("periods[%d].end", i)); err != nil {
			return nil, err
		}
		// start >= end is deliberately not rejected; the evaluator's
		// inclusive containment just never matches an inverted window.
		periods = append(periods, period)
	}
	return periods, nil
}

func parseTimeOverrides(raw any, days []Day, periods []Period) (TimeOverrides, error) {
	if raw == nil {
		return TimeOverrides{}, nil
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, newValidationError("time_overrides", "must be an object")
	}

	dayIDs := make(map[string]bool, len(days))
	for _, d := range days {
		dayIDs[d.ID] = true
	}
	periodIDs := make(map[string]bool, len(periods))
	for _, p := range periods {
		periodIDs[p.ID] = true
	}

	overrides := make(TimeOverrides, len(obj))
	for dayID, perDayRaw := range obj {
		if !dayIDs[dayID] {
			return nil, newValidationError("time_overrides", "references unknown day id %q", dayID)
		}
		perDayObj, ok := perDayRaw.(map[string]any)
		if !ok {
			return nil, newValidationError("time_overrides."+dayID, "must be an object of period overrides")
		}

		perDay := make(map[string]TimeOverride, len(perDayObj))
		for periodID, ovRaw := range perDayObj {
			field := "time_overrides." + dayID + "." + periodID
			if !periodIDs[periodID] {
				return nil, newValidationError("time_overrides."+dayID, "references unknown period id %q", periodID)
			}
			ovObj, ok := ovRaw.(map[string]any)
			if !ok {
				return nil, newValidationError(field, "must be an object with start/end")
			}

			var ov TimeOverride
			var err error
			if ov.Start, err = timeField(ovObj, "start", field+".start"); err != nil {
				return nil, err
			}
			if ov.End, err = timeField(ovObj, "end", field+".end"); err != nil {
				return nil, err
			}
			perDay[periodID] = ov
		}
		overrides[dayID] = perDay
	}
	return overrides, nil
}

func parseTimetable(raw any) (Timetable, error) {
	if raw == nil {
		return Timetable{}, nil
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, newValidationError("timetable", "must be an object")
	}

	// Free-form by design: cells for unknown days/periods are kept as-is
	// so an edit that removes a day does not destroy its subjects.
	timetable := make(Timetable, len(obj))
	for dayID, perDayRaw := range obj {
		perDayObj, ok := perDayRaw.(map[string]any)
		if !ok {
			return nil, newValidationError("timetable."+dayID, "must be an object of subjects")
		}
		perDay := make(map[string]string, len(perDayObj))
		for periodID, subject := range perDayObj {
			perDay[periodID] = fmt.Sprintf("%v", subject)
		}
		timetable[dayID] = perDay
	}
	return timetable, nil
}

// Sub-configs below are best effort: wrong-typed values fall back to
// defaults instead of failing the whole document.

func parseUI(raw any) UIConfig {
	ui := defaultUIConfig()
	obj, ok := raw.(map[string]any)
	if !ok {
		return ui
	}
	pos, ok := obj["position"].(map[string]any)
	if !ok {
		return ui
	}

	ui.Position.X = intOr(pos["x"], ui.Position.X)
	ui.Position.Y = intOr(pos["y"], ui.Position.Y)
	ui.Position.Width = intOr(pos["width"], ui.Position.Width)
	ui.Position.Height = intOr(pos["height"], ui.Position.Height)
	ui.Position.Lock = boolOr(pos["lock"], ui.Position.Lock)
	if info, ok := pos["screen_info"].(map[string]any); ok {
		ui.Position.ScreenInfo = info
	}
	return ui
}

func parseTheme(raw any) ThemeConfig {
	theme := defaultThemeConfig()
	obj, ok := raw.(map[string]any)
	if !ok {
		return theme
	}

	if preset, ok := obj["preset"].(string); ok && preset != "" {
		theme.Preset = preset
	}
	if tokens, ok := obj["tokens"].(map[string]any); ok {
		for k, v := range tokens {
			theme.Tokens[k] = fmt.Sprintf("%v", v)
		}
	}
	return theme
}

func parseUpdate(raw any) UpdateConfig {
	update := defaultUpdateConfig()
	if obj, ok := raw.(map[string]any); ok {
		update.AutoCheck = boolOr(obj["auto_check"], update.AutoCheck)
	}
	return update
}

func stringField(obj map[string]any, key, fallback string) string {
	if s, ok := obj[key].(string); ok {
		return s
	}
	return fallback
}

func intField(obj map[string]any, key string, fallback int) (int, error) {
	v, exists := obj[key]
	if !exists || v == nil {
		return fallback, nil
	}
	switch n := v.(type) {
	case float64:
		return int(n), nil
	case int:
		return n, nil
	default:
		return 0, newValidationError(key, "must be a number")
	}
}

func listField(raw any, field string) ([]any, error) {
	if raw == nil {
		return nil, newValidationError(field, "must not be empty")
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, newValidationError(field, "must be an array")
	}
	return items, nil
}

func timeField(obj map[string]any, key, field string) (json_types.TimeOfDay, error) {
	str, ok := obj[key].(string)
	if !ok {
		return json_types.TimeOfDay{}, newValidationError(field, "must be a HH:MM string")
	}
	t, err := json_types.ParseTimeOfDay(str)
	if err != nil {
		return json_types.TimeOfDay{}, newValidationError(field, "malformed time %q (want HH:MM)", str)
	}
	return t, nil
}

func intOr(v any, fallback int) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	default:
		return fallback
	}
}

func boolOr(v any, fallback bool) bool {
	if b, ok := v.(bool); ok {
		return b
	}
	return fallback
}
