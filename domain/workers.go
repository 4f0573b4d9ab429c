package domain

import "context"

// EngagementEvent is a primary engagement action that may produce a notification
type EngagementEvent struct {
	Type        NotificationType
	ActorID     int64
	RecipientID int64
	ItemID      int64
	// Summary is a short description of the target, e.g. the recipe title
	Summary string
}

// SelfEngagement reports whether the actor acted on their own item
func (e EngagementEvent) SelfEngagement() bool {
	return e.ActorID == e.RecipientID
}

func (e EngagementEvent) NaturalKey() string {
	return Notification{Type: e.Type, ActorID: e.ActorID, RecipientID: e.RecipientID, ItemID: e.ItemID}.NaturalKey()
}

// EventEmitter hands events to the fan-out path. Emit never blocks.
type EventEmitter interface {
	Emit(event EngagementEvent)
}

// EventDeliverer turns one event into a stored notification
type EventDeliverer interface {
	Deliver(ctx context.Context, event EngagementEvent) error
}

type FanoutWorker interface {
	EventEmitter
	Start(ctx context.Context)
}
