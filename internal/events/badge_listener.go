package events

import (
	"context"

	"go.uber.org/zap"
)

// BadgeGranter re-evaluates a user's badge conditions and grants any
// newly met ones. Implementations must be idempotent.
type BadgeGranter interface {
	EvaluateAndGrant(ctx context.Context, userID int64) error
}

// RegisterBadgeListener wires badge evaluation onto the activity events.
// Evaluation failures are logged and swallowed: badge grants are a side
// effect and must never fail the triggering operation.
func RegisterBadgeListener(bus EventBus, granter BadgeGranter, logger *zap.Logger) {
	handler := EventHandlerFunc{
		ID: "badge-evaluator",
		Func: func(ctx context.Context, event Event) error {
			if err := granter.EvaluateAndGrant(ctx, event.GetUserID()); err != nil {
				logger.Error("Badge evaluation failed",
					zap.Int64("user_id", event.GetUserID()),
					zap.String("event_type", event.GetEventType()),
					zap.Error(err),
				)
			}
			return nil
		},
	}
	bus.Subscribe(EventTypeMissionCompleted, handler)
	bus.Subscribe(EventTypeOpinionCreated, handler)
}
