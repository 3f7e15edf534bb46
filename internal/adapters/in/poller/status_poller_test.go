package poller

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stwidget/timetable-engine/internal/adapters/out/logger"
	"github.com/stwidget/timetable-engine/internal/config"
	"github.com/stwidget/timetable-engine/internal/core/domain"
	"github.com/stwidget/timetable-engine/internal/core/ports/out"
)

type staticProvider struct {
	cfg *domain.AppConfig
}

func (p *staticProvider) Current(ctx context.Context) *domain.AppConfig {
	return p.cfg
}

type recordingPublisher struct {
	events []domain.TransitionEvent
}

func (r *recordingPublisher) PublishTransition(ctx context.Context, event domain.TransitionEvent) error {
	r.events = append(r.events, event)
	return nil
}

func (r *recordingPublisher) Close() error { return nil }

func newTestPoller(t *testing.T, publisher *recordingPublisher) *StatusPoller {
	t.Helper()

	appCfg := domain.DefaultConfig()
	appCfg.Timetable = domain.Timetable{
		"mon": {"1": "국어", "2": "수학"},
	}

	cfg := &config.Config{}
	cfg.App.Timezone = "Asia/Seoul"
	cfg.Poller.IntervalSecs = 60
	cfg.Poller.WarningMinutes = 5

	log, err := logger.NewConsoleLogger("UTC")
	require.NoError(t, err)

	// Keep the interface nil when no publisher is wired, a typed nil
	// would slip past the poller's nil check.
	var publisherPort out.EventPublisherPort
	if publisher != nil {
		publisherPort = publisher
	}

	return NewStatusPoller(&staticProvider{cfg: appCfg}, publisherPort, cfg, log)
}

// monday returns a Monday instant in KST.
func monday(t *testing.T, hour, minute int) time.Time {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Seoul")
	require.NoError(t, err)
	// 2026-01-05 is a Monday.
	return time.Date(2026, 1, 5, hour, minute, 0, 0, loc)
}

func TestTickPublishesPeriodStartOnce(t *testing.T) {
	publisher := &recordingPublisher{}
	p := newTestPoller(t, publisher)
	ctx := context.Background()

	p.Tick(ctx, monday(t, 9, 0))
	require.Len(t, publisher.events, 1)
	assert.Equal(t, domain.TransitionPeriodStarted, publisher.events[0].Type)
	assert.Equal(t, "1", publisher.events[0].PeriodID)
	assert.Equal(t, "mon", publisher.events[0].DayID)

	// Same period next minute: nothing new.
	p.Tick(ctx, monday(t, 9, 1))
	assert.Len(t, publisher.events, 1)
}

func TestTickWarnsBeforeNextPeriod(t *testing.T) {
	publisher := &recordingPublisher{}
	p := newTestPoller(t, publisher)
	ctx := context.Background()

	p.Tick(ctx, monday(t, 9, 0))
	// 09:51 is 4 minutes before period 2 at 09:55.
	p.Tick(ctx, monday(t, 9, 51))

	require.Len(t, publisher.events, 2)
	assert.Equal(t, domain.TransitionPeriodUpcoming, publisher.events[1].Type)
	assert.Equal(t, "2", publisher.events[1].PeriodID)
	assert.Equal(t, 4, publisher.events[1].MinutesUntil)
}

func TestTickResetsStateOnNewDay(t *testing.T) {
	publisher := &recordingPublisher{}
	p := newTestPoller(t, publisher)
	ctx := context.Background()

	p.Tick(ctx, monday(t, 9, 0))
	require.Len(t, publisher.events, 1)

	// Next Monday, same period id announces again.
	nextWeek := monday(t, 9, 0).AddDate(0, 0, 7)
	p.Tick(ctx, monday(t, 9, 0).AddDate(0, 0, 1)) // Tuesday, no timetable entry
	p.Tick(ctx, nextWeek)
	assert.Len(t, publisher.events, 2)
}

func TestTickWithoutPublisher(t *testing.T) {
	p := newTestPoller(t, nil)

	// Must not panic with a nil publisher.
	p.Tick(context.Background(), monday(t, 9, 0))
}
