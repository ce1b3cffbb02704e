package listeners

import (
	"context"

	"go.uber.org/zap"

	"equipment-rental/internal/entities"
	"equipment-rental/internal/events"
	"equipment-rental/internal/repositories"
	"equipment-rental/pkg/eventbus"
)

// ActivityListener stores every recorded user action in the activity log.
type ActivityListener struct {
	activityRepo repositories.ActivityLogRepositoryInterface
	logger       *zap.Logger
}

func NewActivityListener(activityRepo repositories.ActivityLogRepositoryInterface, logger *zap.Logger) *ActivityListener {
	return &ActivityListener{activityRepo: activityRepo, logger: logger}
}

func (l *ActivityListener) Register(bus *eventbus.Bus) {
	bus.Subscribe(events.ActivityRecorded, l.handleActivityRecorded)
	l.logger.Info("ActivityListener subscribed", zap.String("event", events.ActivityRecorded))
}

func (l *ActivityListener) handleActivityRecorded(ctx context.Context, event eventbus.Event) error {
	e, ok := event.(events.ActivityRecordedEvent)
	if !ok {
		return nil
	}
	return l.activityRepo.Create(ctx, &entities.ActivityLog{
		UserID:      e.ActorID,
		Action:      e.Action,
		EntityType:  e.EntityType,
		EntityID:    e.EntityID,
		Description: e.Description,
	})
}
