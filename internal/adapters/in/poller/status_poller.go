package poller

import (
	"context"
	"time"

	"github.com/stwidget/timetable-engine/internal/config"
	"github.com/stwidget/timetable-engine/internal/core/domain"
	"github.com/stwidget/timetable-engine/internal/core/ports/out"
	"github.com/stwidget/timetable-engine/internal/core/services/schedule_evaluator"
	"github.com/stwidget/timetable-engine/internal/utils"
)

// ConfigProvider is the slice of the config use case the poller needs.
type ConfigProvider interface {
	Current(ctx context.Context) *domain.AppConfig
}

// StatusPoller is the thin scheduling loop: it re-evaluates today's
// status on a fixed interval, remembers what it already announced, and
// hands transition events to the publisher. The evaluator itself stays
// pure; all clock access lives here.
type StatusPoller struct {
	configProvider ConfigProvider
	publisherPort  out.EventPublisherPort
	logger         out.LoggerPort
	location       *time.Location
	interval       time.Duration
	warningMins    int

	state schedule_evaluator.NotifierState
	// Announced state is per day; a date change resets it.
	stateDayID string

	stopChan chan struct{}
}

func NewStatusPoller(
	configProvider ConfigProvider,
	publisherPort out.EventPublisherPort,
	cfg *config.Config,
	logger out.LoggerPort,
) *StatusPoller {
	return &StatusPoller{
		configProvider: configProvider,
		publisherPort:  publisherPort,
		logger:         logger.WithModule("StatusPoller"),
		location:       utils.LoadLocation(cfg.App.Timezone),
		interval:       cfg.PollInterval(),
		warningMins:    cfg.Poller.WarningMinutes,
		stopChan:       make(chan struct{}),
	}
}

func (p *StatusPoller) Start(ctx context.Context) {
	go p.loop(ctx)
	p.logger.Info("poller.started", out.LogFields{
		"interval":       p.interval.String(),
		"warningMinutes": p.warningMins,
	})
}

func (p *StatusPoller) Stop() {
	close(p.stopChan)
}

func (p *StatusPoller) loop(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.Tick(ctx, time.Now().In(p.location))

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.stopChan:
			return
		case now := <-ticker.C:
			p.Tick(ctx, now.In(p.location))
		}
	}
}

// Tick runs one evaluation round. Exported so tests can drive the
// poller with synthetic instants instead of a ticker.
func (p *StatusPoller) Tick(ctx context.Context, now time.Time) {
	dayID := utils.DayIDFor(now)
	if dayID != p.stateDayID {
		p.state = schedule_evaluator.NotifierState{}
		p.stateDayID = dayID
	}

	cfg := p.configProvider.Current(ctx)
	at := utils.TimeOfDayFor(now)

	events, state := schedule_evaluator.CheckTransitions(cfg, dayID, at, p.state, p.warningMins)
	p.state = state

	for _, event := range events {
		p.logger.Info("poller.transition", out.LogFields{
			"type":     string(event.Type),
			"dayId":    event.DayID,
			"periodId": event.PeriodID,
			"subject":  event.Subject,
		})

		if p.publisherPort == nil {
			continue
		}
		if err := p.publisherPort.PublishTransition(ctx, event); err != nil {
			p.logger.Error("poller.publish.failed", out.LogFields{
				"error": err.Error(),
			})
		}
	}
}
