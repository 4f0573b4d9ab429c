package like_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Guyuepp/recipe-engagement/domain"
	"github.com/Guyuepp/recipe-engagement/internal/mocks"
	"github.com/Guyuepp/recipe-engagement/internal/usecase/like"
)

// memStore mirrors the mysql store's semantics with a mutex.
type memStore struct {
	mu     sync.Mutex
	counts map[int64]int64
	likes  map[[2]int64]bool
}

func newMemStore(items ...int64) *memStore {
	s := &memStore{counts: map[int64]int64{}, likes: map[[2]int64]bool{}}
	for _, id := range items {
		s.counts[id] = 0
	}
	return s
}

func (s *memStore) AddLike(_ context.Context, l domain.Like) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.counts[l.ItemID]; !ok {
		return 0, domain.ErrNotFound
	}
	k := [2]int64{l.ItemID, l.UserID}
	if s.likes[k] {
		return 0, domain.ErrConflict
	}
	s.likes[k] = true
	s.counts[l.ItemID]++
	return s.counts[l.ItemID], nil
}

func (s *memStore) RemoveLike(_ context.Context, itemID, userID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.counts[itemID]; !ok {
		return 0, domain.ErrNotFound
	}
	k := [2]int64{itemID, userID}
	if !s.likes[k] {
		return 0, domain.ErrConflict
	}
	delete(s.likes, k)
	if s.counts[itemID] > 0 {
		s.counts[itemID]--
	}
	return s.counts[itemID], nil
}

func (s *memStore) HasLiked(_ context.Context, itemID, userID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.likes[[2]int64{itemID, userID}], nil
}

type nopEmitter struct{}

func (nopEmitter) Emit(domain.EngagementEvent) {}

func newDeps(item domain.Item) (*mocks.ItemRepository, *mocks.BloomRepository) {
	items := new(mocks.ItemRepository)
	items.On("GetByID", mock.Anything, item.ID).Return(item, nil)
	bloom := new(mocks.BloomRepository)
	bloom.On("Exists", mock.Anything, item.ID).Return(true, nil)
	return items, bloom
}

func TestAdd(t *testing.T) {
	item := domain.Item{ID: 1, OwnerID: 9, Title: "Shakshuka"}

	t.Run("success emits like event", func(t *testing.T) {
		items, bloom := newDeps(item)
		emitter := new(mocks.EventEmitter)
		emitter.On("Emit", domain.EngagementEvent{
			Type:        domain.NotificationLike,
			ActorID:     2,
			RecipientID: 9,
			ItemID:      1,
			Summary:     "Shakshuka",
		}).Once()

		svc := like.NewService(items, newMemStore(1), bloom, emitter)
		res, err := svc.Add(context.TODO(), 1, 2)

		require.NoError(t, err)
		assert.Equal(t, domain.LikeResult{LikesCount: 1, UserHasLiked: true}, res)
		emitter.AssertExpectations(t)
	})

	t.Run("second add conflicts and leaves count", func(t *testing.T) {
		items, bloom := newDeps(item)
		store := newMemStore(1)
		svc := like.NewService(items, store, bloom, nopEmitter{})

		_, err := svc.Add(context.TODO(), 1, 2)
		require.NoError(t, err)
		_, err = svc.Add(context.TODO(), 1, 2)

		assert.ErrorIs(t, err, domain.ErrConflict)
		assert.Equal(t, int64(1), store.counts[1])
	})

	t.Run("owner liking own item does not notify", func(t *testing.T) {
		items, bloom := newDeps(item)
		emitter := new(mocks.EventEmitter)

		svc := like.NewService(items, newMemStore(1), bloom, emitter)
		_, err := svc.Add(context.TODO(), 1, 9)

		require.NoError(t, err)
		emitter.AssertNotCalled(t, "Emit", mock.Anything)
	})

	t.Run("bloom negative short-circuits", func(t *testing.T) {
		items := new(mocks.ItemRepository)
		bloom := new(mocks.BloomRepository)
		bloom.On("Exists", mock.Anything, int64(5)).Return(false, nil).Once()

		svc := like.NewService(items, newMemStore(), bloom, nopEmitter{})
		_, err := svc.Add(context.TODO(), 5, 2)

		assert.ErrorIs(t, err, domain.ErrNotFound)
		items.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("bloom error falls through to lookup", func(t *testing.T) {
		items := new(mocks.ItemRepository)
		items.On("GetByID", mock.Anything, int64(1)).Return(item, nil).Once()
		bloom := new(mocks.BloomRepository)
		bloom.On("Exists", mock.Anything, int64(1)).Return(false, errors.New("redis down")).Once()

		svc := like.NewService(items, newMemStore(1), bloom, nopEmitter{})
		_, err := svc.Add(context.TODO(), 1, 2)

		require.NoError(t, err)
	})

	t.Run("invalid ids", func(t *testing.T) {
		svc := like.NewService(new(mocks.ItemRepository), newMemStore(), new(mocks.BloomRepository), nopEmitter{})

		_, err := svc.Add(context.TODO(), 0, 2)
		assert.ErrorIs(t, err, domain.ErrBadParamInput)
		_, err = svc.Add(context.TODO(), 1, -1)
		assert.ErrorIs(t, err, domain.ErrBadParamInput)
	})

	t.Run("unknown store error is transient", func(t *testing.T) {
		items, bloom := newDeps(item)
		store := new(mocks.EngagementStore)
		store.On("AddLike", mock.Anything, mock.AnythingOfType("domain.Like")).Return(int64(0), errors.New("broken pipe")).Once()

		svc := like.NewService(items, store, bloom, nopEmitter{})
		_, err := svc.Add(context.TODO(), 1, 2)

		assert.ErrorIs(t, err, domain.ErrTransient)
	})
}

func TestRemove(t *testing.T) {
	item := domain.Item{ID: 1, OwnerID: 9, Title: "Dal"}

	t.Run("like then unlike restores count", func(t *testing.T) {
		items, bloom := newDeps(item)
		emitter := new(mocks.EventEmitter)
		emitter.On("Emit", mock.Anything).Once()
		svc := like.NewService(items, newMemStore(1), bloom, emitter)

		_, err := svc.Add(context.TODO(), 1, 2)
		require.NoError(t, err)
		res, err := svc.Remove(context.TODO(), 1, 2)

		require.NoError(t, err)
		assert.Equal(t, domain.LikeResult{LikesCount: 0, UserHasLiked: false}, res)
		emitter.AssertNumberOfCalls(t, "Emit", 1)
	})

	t.Run("unlike without like conflicts and never underflows", func(t *testing.T) {
		items, bloom := newDeps(item)
		store := newMemStore(1)
		svc := like.NewService(items, store, bloom, nopEmitter{})

		_, err := svc.Remove(context.TODO(), 1, 2)

		assert.ErrorIs(t, err, domain.ErrConflict)
		assert.Equal(t, int64(0), store.counts[1])
	})

	t.Run("missing item", func(t *testing.T) {
		items := new(mocks.ItemRepository)
		items.On("GetByID", mock.Anything, int64(3)).Return(domain.Item{}, domain.ErrNotFound).Once()
		bloom := new(mocks.BloomRepository)
		bloom.On("Exists", mock.Anything, int64(3)).Return(true, nil).Once()

		svc := like.NewService(items, newMemStore(), bloom, nopEmitter{})
		_, err := svc.Remove(context.TODO(), 3, 2)

		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestToggle(t *testing.T) {
	item := domain.Item{ID: 1, OwnerID: 9}
	items, bloom := newDeps(item)
	svc := like.NewService(items, newMemStore(1), bloom, nopEmitter{})

	res, err := svc.Toggle(context.TODO(), 1, 2, false)
	require.NoError(t, err)
	assert.True(t, res.UserHasLiked)

	res, err = svc.Toggle(context.TODO(), 1, 2, true)
	require.NoError(t, err)
	assert.False(t, res.UserHasLiked)
	assert.Equal(t, int64(0), res.LikesCount)
}

// memStore serialises with a mutex. In production the count is kept exact by
// mysql: AddLike inserts the row and bumps likes_count with
// gorm.Expr("likes_count + ?") inside one transaction, and the unique
// (item_id, user_id) index rejects duplicates.
func TestAdd_ConcurrentDistinctUsers(t *testing.T) {
	item := domain.Item{ID: 1, OwnerID: 1000}
	items, bloom := newDeps(item)
	store := newMemStore(1)
	svc := like.NewService(items, store, bloom, nopEmitter{})

	const users = 50
	var wg sync.WaitGroup
	errs := make(chan error, users)
	for u := int64(1); u <= users; u++ {
		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()
			if _, err := svc.Add(context.Background(), 1, userID); err != nil {
				errs <- err
			}
		}(u)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("unexpected error: %v", err)
	}
	assert.Equal(t, int64(users), store.counts[1])
}
