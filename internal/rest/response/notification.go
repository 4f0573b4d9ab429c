package response

import (
	"time"

	"github.com/Guyuepp/recipe-engagement/domain"
)

type Notification struct {
	ID        int64             `json:"id"`
	Type      string            `json:"type"`
	ActorID   int64             `json:"actor_id"`
	ItemID    int64             `json:"item_id"`
	Title     string            `json:"title"`
	Body      string            `json:"body,omitempty"`
	Payload   map[string]string `json:"payload,omitempty"`
	CreatedAt string            `json:"created_at"`
	Read      bool              `json:"read"`
}

type NotificationList struct {
	Notifications []Notification `json:"notifications"`
	UnreadCount   int64          `json:"unread_count"`
}

type UnreadCount struct {
	UnreadCount int64 `json:"unread_count"`
}

func NewNotificationFromDomain(n *domain.Notification) Notification {
	return Notification{
		ID:        n.ID,
		Type:      string(n.Type),
		ActorID:   n.ActorID,
		ItemID:    n.ItemID,
		Title:     n.Title,
		Body:      n.Body,
		Payload:   n.Payload,
		CreatedAt: n.CreatedAt.Format(time.RFC3339),
		Read:      n.Read,
	}
}

func NewNotificationList(list []domain.Notification, unread int64) NotificationList {
	res := NotificationList{
		Notifications: make([]Notification, len(list)),
		UnreadCount:   unread,
	}
	for i := range list {
		res.Notifications[i] = NewNotificationFromDomain(&list[i])
	}
	return res
}
