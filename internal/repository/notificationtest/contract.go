// Package notificationtest holds the behavioural suite every
// domain.NotificationRepository implementation must pass.
package notificationtest

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Guyuepp/recipe-engagement/domain"
)

// Factory returns a fresh, empty repository
type Factory func(t *testing.T) domain.NotificationRepository

func newNotification(recipient, actor, item int64, typ domain.NotificationType) *domain.Notification {
	return &domain.Notification{
		RecipientID: recipient,
		ActorID:     actor,
		Type:        typ,
		ItemID:      item,
		Title:       "New " + string(typ),
		Body:        fmt.Sprintf("user %d on item %d", actor, item),
	}
}

func Run(t *testing.T, factory Factory) {
	t.Run("newest first", func(t *testing.T) {
		repo := factory(t)
		ctx := context.Background()
		for item := int64(1); item <= 3; item++ {
			require.NoError(t, repo.Upsert(ctx, newNotification(1, 2, item, domain.NotificationLike), 10))
		}

		list, err := repo.List(ctx, 1, domain.FilterAll, 0)
		require.NoError(t, err)
		require.Len(t, list, 3)
		assert.Equal(t, []int64{3, 2, 1}, []int64{list[0].ItemID, list[1].ItemID, list[2].ItemID})
		assert.NotZero(t, list[0].ID)
		assert.False(t, list[0].CreatedAt.IsZero())
	})

	t.Run("upsert coalesces on natural key", func(t *testing.T) {
		repo := factory(t)
		ctx := context.Background()

		first := newNotification(1, 2, 7, domain.NotificationLike)
		require.NoError(t, repo.Upsert(ctx, first, 10))
		require.NoError(t, repo.Upsert(ctx, newNotification(1, 3, 8, domain.NotificationLike), 10))
		_, err := repo.MarkAllRead(ctx, 1)
		require.NoError(t, err)

		again := newNotification(1, 2, 7, domain.NotificationLike)
		again.Body = "refreshed"
		require.NoError(t, repo.Upsert(ctx, again, 10))
		assert.Equal(t, first.ID, again.ID)

		list, err := repo.List(ctx, 1, domain.FilterAll, 0)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, int64(7), list[0].ItemID, "refreshed entry moves to newest")
		assert.Equal(t, "refreshed", list[0].Body)
		assert.False(t, list[0].Read)

		unread, err := repo.UnreadCount(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(1), unread)
	})

	t.Run("different type is a different key", func(t *testing.T) {
		repo := factory(t)
		ctx := context.Background()
		require.NoError(t, repo.Upsert(ctx, newNotification(1, 2, 7, domain.NotificationLike), 10))
		require.NoError(t, repo.Upsert(ctx, newNotification(1, 2, 7, domain.NotificationComment), 10))

		list, err := repo.List(ctx, 1, domain.FilterAll, 0)
		require.NoError(t, err)
		assert.Len(t, list, 2)
	})

	t.Run("retention evicts oldest first", func(t *testing.T) {
		repo := factory(t)
		ctx := context.Background()
		for item := int64(1); item <= 5; item++ {
			require.NoError(t, repo.Upsert(ctx, newNotification(1, 2, item, domain.NotificationLike), 3))
		}

		list, err := repo.List(ctx, 1, domain.FilterAll, 0)
		require.NoError(t, err)
		require.Len(t, list, 3)
		assert.Equal(t, []int64{5, 4, 3}, []int64{list[0].ItemID, list[1].ItemID, list[2].ItemID})

		// an evicted key starts a fresh entry
		require.NoError(t, repo.Upsert(ctx, newNotification(1, 2, 1, domain.NotificationLike), 3))
		list, err = repo.List(ctx, 1, domain.FilterAll, 0)
		require.NoError(t, err)
		require.Len(t, list, 3)
		assert.Equal(t, int64(1), list[0].ItemID)
		assert.Equal(t, int64(4), list[2].ItemID)
	})

	t.Run("filters and limit", func(t *testing.T) {
		repo := factory(t)
		ctx := context.Background()
		for item := int64(1); item <= 4; item++ {
			require.NoError(t, repo.Upsert(ctx, newNotification(1, 2, item, domain.NotificationLike), 10))
		}
		list, err := repo.List(ctx, 1, domain.FilterAll, 0)
		require.NoError(t, err)
		require.NoError(t, repo.MarkRead(ctx, 1, list[0].ID))

		unread, err := repo.List(ctx, 1, domain.FilterUnread, 0)
		require.NoError(t, err)
		assert.Len(t, unread, 3)

		read, err := repo.List(ctx, 1, domain.FilterRead, 0)
		require.NoError(t, err)
		require.Len(t, read, 1)
		assert.Equal(t, int64(4), read[0].ItemID)

		limited, err := repo.List(ctx, 1, domain.FilterUnread, 2)
		require.NoError(t, err)
		require.Len(t, limited, 2)
		assert.Equal(t, int64(3), limited[0].ItemID)
	})

	t.Run("mark all read and unread count", func(t *testing.T) {
		repo := factory(t)
		ctx := context.Background()
		for item := int64(1); item <= 3; item++ {
			require.NoError(t, repo.Upsert(ctx, newNotification(1, 2, item, domain.NotificationLike), 10))
		}
		require.NoError(t, repo.Upsert(ctx, newNotification(9, 2, 1, domain.NotificationLike), 10))

		n, err := repo.MarkAllRead(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, 3, n)

		unread, err := repo.UnreadCount(ctx, 1)
		require.NoError(t, err)
		assert.Zero(t, unread)

		other, err := repo.UnreadCount(ctx, 9)
		require.NoError(t, err)
		assert.Equal(t, int64(1), other, "other recipients are untouched")

		n, err = repo.MarkAllRead(ctx, 1)
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("delete is scoped to the recipient", func(t *testing.T) {
		repo := factory(t)
		ctx := context.Background()
		n := newNotification(1, 2, 7, domain.NotificationLike)
		require.NoError(t, repo.Upsert(ctx, n, 10))

		assert.ErrorIs(t, repo.Delete(ctx, 2, n.ID), domain.ErrNotFound)
		assert.ErrorIs(t, repo.MarkRead(ctx, 2, n.ID), domain.ErrNotFound)
		require.NoError(t, repo.Delete(ctx, 1, n.ID))
		assert.ErrorIs(t, repo.Delete(ctx, 1, n.ID), domain.ErrNotFound)

		list, err := repo.List(ctx, 1, domain.FilterAll, 0)
		require.NoError(t, err)
		assert.Empty(t, list)

		// deleted key is free again
		again := newNotification(1, 2, 7, domain.NotificationLike)
		require.NoError(t, repo.Upsert(ctx, again, 10))
		assert.NotEqual(t, n.ID, again.ID)
	})

	t.Run("empty feed", func(t *testing.T) {
		repo := factory(t)
		list, err := repo.List(context.Background(), 42, domain.FilterAll, 0)
		require.NoError(t, err)
		assert.Empty(t, list)
		unread, err := repo.UnreadCount(context.Background(), 42)
		require.NoError(t, err)
		assert.Zero(t, unread)
	})

	t.Run("concurrent upserts stay within retention", func(t *testing.T) {
		repo := factory(t)
		ctx := context.Background()
		var wg sync.WaitGroup
		for actor := int64(2); actor < 42; actor++ {
			wg.Add(1)
			go func(actor int64) {
				defer wg.Done()
				assert.NoError(t, repo.Upsert(ctx, newNotification(1, actor, 7, domain.NotificationLike), 25))
			}(actor)
		}
		wg.Wait()

		list, err := repo.List(ctx, 1, domain.FilterAll, 0)
		require.NoError(t, err)
		assert.Len(t, list, 25)
		unread, err := repo.UnreadCount(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(25), unread)
	})
}
