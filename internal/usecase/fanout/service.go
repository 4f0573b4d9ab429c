package fanout

import (
	"context"
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/Guyuepp/recipe-engagement/domain"
)

const anonymousActor = "Someone"

// Service turns engagement events into stored notifications.
type Service struct {
	users         domain.UserRepository
	notifications domain.NotificationUsecase
}

var _ domain.EventDeliverer = (*Service)(nil)

func NewService(users domain.UserRepository, notifications domain.NotificationUsecase) *Service {
	return &Service{
		users:         users,
		notifications: notifications,
	}
}

func (s *Service) actorName(ctx context.Context, actorID int64) string {
	u, err := s.users.GetByID(ctx, actorID)
	if err != nil {
		logrus.Debugf("no display name for user %d: %v", actorID, err)
		return anonymousActor
	}
	if u.Name != "" {
		return u.Name
	}
	if u.Username != "" {
		return u.Username
	}
	return anonymousActor
}

func render(event domain.EngagementEvent, actor string) (title, body string) {
	switch event.Type {
	case domain.NotificationLike:
		title = fmt.Sprintf("%s liked your recipe", actor)
		if event.Summary != "" {
			body = fmt.Sprintf("%s liked %q", actor, event.Summary)
		}
	case domain.NotificationComment:
		title = fmt.Sprintf("%s commented on your recipe", actor)
		body = event.Summary
	}
	return title, body
}

// Deliver is a no-op for self-engagement.
func (s *Service) Deliver(ctx context.Context, event domain.EngagementEvent) error {
	if event.SelfEngagement() {
		return nil
	}
	if !event.Type.Valid() {
		return domain.ErrBadParamInput
	}

	actor := s.actorName(ctx, event.ActorID)
	title, body := render(event, actor)

	n := &domain.Notification{
		RecipientID: event.RecipientID,
		ActorID:     event.ActorID,
		Type:        event.Type,
		ItemID:      event.ItemID,
		Title:       title,
		Body:        body,
		Payload: map[string]string{
			"item_id":    strconv.FormatInt(event.ItemID, 10),
			"actor_name": actor,
		},
	}
	return s.notifications.Add(ctx, n)
}
