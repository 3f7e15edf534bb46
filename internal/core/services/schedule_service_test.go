package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stwidget/timetable-engine/internal/adapters/out/logger"
	"github.com/stwidget/timetable-engine/internal/core/domain"
	"github.com/stwidget/timetable-engine/internal/core/json_types"
	"github.com/stwidget/timetable-engine/internal/core/ports/out"
)

func testLogger(t *testing.T) out.LoggerPort {
	t.Helper()
	log, err := logger.NewConsoleLogger("UTC")
	require.NoError(t, err)
	return log
}

func at(s string) json_types.TimeOfDay {
	return json_types.MustTimeOfDay(s)
}

func newTestScheduleService(t *testing.T, cache out.CachePort) (*ScheduleService, *ConfigService) {
	t.Helper()
	configSvc := NewConfigService(&memStore{}, cache, testLogger(t))
	require.NoError(t, configSvc.Bootstrap(context.Background()))
	return NewScheduleService(configSvc, cache, testLogger(t)), configSvc
}

func TestDayStatusInClass(t *testing.T) {
	svc, configSvc := newTestScheduleService(t, nil)
	ctx := context.Background()

	raw := domain.DefaultConfig().Serialize()
	raw["timetable"] = map[string]any{
		"mon": map[string]any{"1": "국어", "2": "수학"},
	}
	_, err := configSvc.Replace(ctx, raw)
	require.NoError(t, err)

	status := svc.DayStatus(ctx, "mon", at("09:20"))
	assert.True(t, status.InClass)
	assert.False(t, status.InBreak)
	assert.Equal(t, "1", status.CurrentPeriodID)
	assert.Equal(t, "국어", status.CurrentSubject)
	assert.Equal(t, "2", status.NextPeriodID)
	assert.Equal(t, "수학", status.NextSubject)
	assert.Empty(t, status.BreakNextPeriodID)
}

func TestDayStatusInBreak(t *testing.T) {
	svc, _ := newTestScheduleService(t, nil)
	ctx := context.Background()

	// Default schedule: period 1 ends 09:45, period 2 starts 09:55.
	status := svc.DayStatus(ctx, "mon", at("09:50"))
	assert.False(t, status.InClass)
	assert.True(t, status.InBreak)
	assert.Empty(t, status.CurrentPeriodID)
	assert.Equal(t, "2", status.NextPeriodID)
	assert.Equal(t, "2", status.BreakNextPeriodID)
}

func TestDayStatusAfterSchool(t *testing.T) {
	svc, _ := newTestScheduleService(t, nil)
	ctx := context.Background()

	status := svc.DayStatus(ctx, "mon", at("18:00"))
	assert.False(t, status.InClass)
	assert.False(t, status.InBreak)
	assert.Empty(t, status.CurrentPeriodID)
	assert.Empty(t, status.NextPeriodID)
}

func TestDayStatusUnknownDay(t *testing.T) {
	svc, _ := newTestScheduleService(t, nil)
	ctx := context.Background()

	status := svc.DayStatus(ctx, "sun", at("09:20"))
	assert.False(t, status.InClass)
	assert.False(t, status.InBreak)
	assert.Empty(t, status.CurrentPeriodID)
	assert.Empty(t, status.NextPeriodID)
	assert.Empty(t, status.BreakNextPeriodID)
}

func TestDayScheduleUsesCache(t *testing.T) {
	cache := newMemCache()
	svc, configSvc := newTestScheduleService(t, cache)
	ctx := context.Background()

	first := svc.DaySchedule(ctx, "mon")
	require.Len(t, first, 7)

	revision := configSvc.Current(ctx).Revision
	cached, ok := cache.GetDaySchedule(ctx, revision, "mon")
	require.True(t, ok)
	assert.Equal(t, first, cached)

	// Second call serves the cached windows.
	second := svc.DaySchedule(ctx, "mon")
	assert.Equal(t, first, second)
}

func TestDayScheduleUnknownDayNotCached(t *testing.T) {
	cache := newMemCache()
	svc, configSvc := newTestScheduleService(t, cache)
	ctx := context.Background()

	windows := svc.DaySchedule(ctx, "sun")
	assert.Nil(t, windows)

	revision := configSvc.Current(ctx).Revision
	_, ok := cache.GetDaySchedule(ctx, revision, "sun")
	assert.False(t, ok)
}

func TestDayScheduleAppliesOverrides(t *testing.T) {
	svc, configSvc := newTestScheduleService(t, nil)
	ctx := context.Background()

	raw := domain.DefaultConfig().Serialize()
	raw["time_overrides"] = map[string]any{
		"tue": map[string]any{
			"1": map[string]any{"start": "10:00", "end": "10:45"},
		},
	}
	_, err := configSvc.Replace(ctx, raw)
	require.NoError(t, err)

	windows := svc.DaySchedule(ctx, "tue")
	require.Len(t, windows, 7)
	assert.Equal(t, "10:00", windows[0].Start.String())

	windows = svc.DaySchedule(ctx, "mon")
	assert.Equal(t, "09:00", windows[0].Start.String())
}
