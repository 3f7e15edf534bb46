package events

import (
	"context"
	"encoding/json"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stwidget/timetable-engine/internal/config"
	"github.com/stwidget/timetable-engine/internal/core/domain"
	"github.com/stwidget/timetable-engine/internal/core/ports/out"
)

// AmqpPublisher pushes period transition events to a topic exchange so
// external notification collaborators (toasts, bots) can subscribe
// without the engine knowing about them.
type AmqpPublisher struct {
	conn       *amqp.Connection
	channel    *amqp.Channel
	exchange   string
	routingKey string
	logger     out.LoggerPort
}

func NewAmqpPublisher(cfg *config.Config, logger out.LoggerPort) (*AmqpPublisher, error) {
	if !cfg.AMQP.Enabled {
		logger.Info("amqp.disabled", out.LogFields{
			"message": "AMQP is disabled, transition events stay local",
		})
		return nil, nil
	}

	conn, err := amqp.Dial(cfg.AMQP.URL)
	if err != nil {
		logger.Error("amqp.connect.failed", out.LogFields{
			"error": err.Error(),
			"url":   cfg.AMQP.URL,
		})
		return nil, err
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		logger.Error("amqp.channel.failed", out.LogFields{
			"error": err.Error(),
		})
		return nil, err
	}

	if err := channel.ExchangeDeclare(cfg.AMQP.Exchange, "topic", true, false, false, false, nil); err != nil {
		channel.Close()
		conn.Close()
		logger.Error("amqp.exchange.declare_failed", out.LogFields{
			"error":    err.Error(),
			"exchange": cfg.AMQP.Exchange,
		})
		return nil, err
	}

	return &AmqpPublisher{
		conn:       conn,
		channel:    channel,
		exchange:   cfg.AMQP.Exchange,
		routingKey: cfg.AMQP.RoutingKey,
		logger:     logger.WithModule("AmqpPublisher"),
	}, nil
}

func (p *AmqpPublisher) PublishTransition(ctx context.Context, event domain.TransitionEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	err = p.channel.PublishWithContext(ctx, p.exchange, p.routingKey, false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
	if err != nil {
		p.logger.Error("amqp.publish.failed", out.LogFields{
			"error": err.Error(),
			"type":  string(event.Type),
		})
		return err
	}

	p.logger.Debug("amqp.publish.ok", out.LogFields{
		"type":     string(event.Type),
		"periodId": event.PeriodID,
	})
	return nil
}

func (p *AmqpPublisher) Close() error {
	if p == nil || p.channel == nil {
		return nil
	}
	if err := p.channel.Close(); err != nil {
		return err
	}
	return p.conn.Close()
}
