// Package memory keeps notifications in process memory, partitioned by recipient.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Guyuepp/recipe-engagement/domain"
)

// feed is one recipient's notifications, oldest first
type feed struct {
	mu      sync.Mutex
	entries []*domain.Notification
	byKey   map[string]*domain.Notification
	byID    map[int64]*domain.Notification
}

func newFeed() *feed {
	return &feed{
		byKey: make(map[string]*domain.Notification),
		byID:  make(map[int64]*domain.Notification),
	}
}

func (f *feed) remove(n *domain.Notification) {
	idx := slices.Index(f.entries, n)
	if idx >= 0 {
		f.entries = slices.Delete(f.entries, idx, idx+1)
	}
	delete(f.byKey, n.NaturalKey())
	delete(f.byID, n.ID)
}

type notificationRepository struct {
	seq   atomic.Int64
	feeds sync.Map // recipient id -> *feed
}

var _ domain.NotificationRepository = (*notificationRepository)(nil)

func NewNotificationRepository() *notificationRepository {
	return &notificationRepository{}
}

func (r *notificationRepository) feed(userID int64) *feed {
	if f, ok := r.feeds.Load(userID); ok {
		return f.(*feed)
	}
	f, _ := r.feeds.LoadOrStore(userID, newFeed())
	return f.(*feed)
}

// lookup never creates a partition, so reads for unknown users leave nothing behind.
func (r *notificationRepository) lookup(userID int64) (*feed, bool) {
	f, ok := r.feeds.Load(userID)
	if !ok {
		return nil, false
	}
	return f.(*feed), true
}

func clone(n *domain.Notification) domain.Notification {
	c := *n
	if n.Payload != nil {
		c.Payload = maps.Clone(n.Payload)
	}
	return c
}

func (r *notificationRepository) Upsert(_ context.Context, n *domain.Notification, retention int) error {
	if retention <= 0 {
		retention = domain.DefaultNotificationRetention
	}

	f := r.feed(n.RecipientID)
	f.mu.Lock()
	defer f.mu.Unlock()

	n.CreatedAt = time.Now()
	n.Read = false

	if existing, ok := f.byKey[n.NaturalKey()]; ok {
		n.ID = existing.ID
		f.remove(existing)
	} else {
		n.ID = r.seq.Add(1)
	}

	stored := clone(n)
	f.entries = append(f.entries, &stored)
	f.byKey[stored.NaturalKey()] = &stored
	f.byID[stored.ID] = &stored

	for len(f.entries) > retention {
		f.remove(f.entries[0])
	}
	return nil
}

func (r *notificationRepository) List(_ context.Context, userID int64, filter domain.NotificationFilter, limit int) ([]domain.Notification, error) {
	f, ok := r.lookup(userID)
	if !ok {
		return []domain.Notification{}, nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	res := make([]domain.Notification, 0, len(f.entries))
	for i := len(f.entries) - 1; i >= 0; i-- {
		n := f.entries[i]
		if !filter.Match(*n) {
			continue
		}
		res = append(res, clone(n))
		if limit > 0 && len(res) == limit {
			break
		}
	}
	return res, nil
}

func (r *notificationRepository) MarkAllRead(_ context.Context, userID int64) (int, error) {
	f, ok := r.lookup(userID)
	if !ok {
		return 0, nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	updated := 0
	for _, n := range f.entries {
		if !n.Read {
			n.Read = true
			updated++
		}
	}
	return updated, nil
}

func (r *notificationRepository) MarkRead(_ context.Context, userID, id int64) error {
	f, ok := r.lookup(userID)
	if !ok {
		return domain.ErrNotFound
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	n, ok := f.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	n.Read = true
	return nil
}

func (r *notificationRepository) Delete(_ context.Context, userID, id int64) error {
	f, ok := r.lookup(userID)
	if !ok {
		return domain.ErrNotFound
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	n, ok := f.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	f.remove(n)
	return nil
}

func (r *notificationRepository) UnreadCount(_ context.Context, userID int64) (int64, error) {
	f, ok := r.lookup(userID)
	if !ok {
		return 0, nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	var unread int64
	for _, n := range f.entries {
		if !n.Read {
			unread++
		}
	}
	return unread, nil
}
