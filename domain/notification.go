package domain

import (
	"context"
	"fmt"
	"time"
)

// DefaultNotificationRetention is the per-user cap when none is configured
const DefaultNotificationRetention = 100

type NotificationType string

const (
	NotificationLike    NotificationType = "like"
	NotificationComment NotificationType = "comment"
)

func (t NotificationType) Valid() bool {
	switch t {
	case NotificationLike, NotificationComment:
		return true
	default:
		return false
	}
}

// NotificationFilter selects which notifications List returns
type NotificationFilter string

const (
	FilterAll    NotificationFilter = "all"
	FilterUnread NotificationFilter = "unread"
	FilterRead   NotificationFilter = "read"
)

// ParseNotificationFilter maps "" to FilterAll and rejects unknown values
func ParseNotificationFilter(s string) (NotificationFilter, error) {
	switch NotificationFilter(s) {
	case "", FilterAll:
		return FilterAll, nil
	case FilterUnread:
		return FilterUnread, nil
	case FilterRead:
		return FilterRead, nil
	default:
		return "", ErrBadParamInput
	}
}

// Match reports whether n passes the filter
func (f NotificationFilter) Match(n Notification) bool {
	switch f {
	case FilterUnread:
		return !n.Read
	case FilterRead:
		return n.Read
	default:
		return true
	}
}

// Notification is a user-facing entry in the recipient's feed
type Notification struct {
	ID          int64             `json:"id"`
	RecipientID int64             `json:"recipient_id" validate:"gt=0"`
	ActorID     int64             `json:"actor_id" validate:"gt=0,nefield=RecipientID"`
	Type        NotificationType  `json:"type" validate:"required,oneof=like comment"`
	ItemID      int64             `json:"item_id" validate:"gt=0"`
	Title       string            `json:"title" validate:"required"`
	Body        string            `json:"body"`
	Payload     map[string]string `json:"payload,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	Read        bool              `json:"read"`
}

// NaturalKey identifies the single active notification for an
// (type, actor, recipient, item) tuple
func (n Notification) NaturalKey() string {
	return fmt.Sprintf("%s:%d:%d:%d", n.Type, n.ActorID, n.RecipientID, n.ItemID)
}

// NotificationRepository persists notifications partitioned by recipient.
type NotificationRepository interface {
	// Upsert stores n, replacing any entry with the same natural key and moving it to
	// newest. Afterwards at most retention entries remain for the recipient; the oldest
	// go first. n.ID and n.CreatedAt are filled in.
	Upsert(ctx context.Context, n *Notification, retention int) error

	// List returns newest first. limit <= 0 means no limit.
	List(ctx context.Context, userID int64, filter NotificationFilter, limit int) ([]Notification, error)

	MarkAllRead(ctx context.Context, userID int64) (int, error)

	// MarkRead returns ErrNotFound if id is not in userID's feed.
	MarkRead(ctx context.Context, userID, id int64) error

	// Delete returns ErrNotFound if id is not in userID's feed.
	Delete(ctx context.Context, userID, id int64) error

	// UnreadCount is computed from the stored entries on every call.
	UnreadCount(ctx context.Context, userID int64) (int64, error)
}

// NotificationSubscriber is invoked synchronously after each successful Add
type NotificationSubscriber func(n Notification) error

type NotificationUsecase interface {
	Add(ctx context.Context, n *Notification) error
	List(ctx context.Context, userID int64, filter NotificationFilter, limit int) ([]Notification, error)
	MarkAllRead(ctx context.Context, userID int64) (int, error)
	MarkRead(ctx context.Context, userID, id int64) error
	Delete(ctx context.Context, userID, id int64) error
	UnreadCount(ctx context.Context, userID int64) (int64, error)
	Subscribe(fn NotificationSubscriber) (unsubscribe func(), err error)
}
