package out

import (
	"context"

	"github.com/stwidget/timetable-engine/internal/core/domain"
)

// EventPublisherPort delivers period transition events to external
// notification collaborators. Delivery is fire-and-forget from the
// engine's point of view.
type EventPublisherPort interface {
	PublishTransition(ctx context.Context, event domain.TransitionEvent) error
	Close() error
}
