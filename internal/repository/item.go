package repository

import (
	"context"
	"errors"
	"strconv"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/Guyuepp/recipe-engagement/domain"
)

// itemRepository coordinates the item cache and the database
type itemRepository struct {
	db           domain.ItemDBRepository
	cache        domain.ItemCache
	rebuildGroup singleflight.Group
}

var _ domain.ItemRepository = (*itemRepository)(nil)

// NewItemRepository creates the coordinating repository
func NewItemRepository(db domain.ItemDBRepository, cache domain.ItemCache) *itemRepository {
	return &itemRepository{
		db:    db,
		cache: cache,
	}
}

// GetByID reads through the cache. Concurrent misses for the same id share one db query.
// Counters in the returned item may be stale; stats go through StatsRepository.
func (r *itemRepository) GetByID(ctx context.Context, id int64) (domain.Item, error) {
	it, err := r.cache.GetItem(ctx, id)
	if err == nil {
		return it, nil
	}
	if !errors.Is(err, domain.ErrCacheMiss) {
		logrus.Warnf("item cache get failed, id: %d, err: %v", id, err)
	}

	res, err, _ := r.rebuildGroup.Do("item:"+strconv.FormatInt(id, 10), func() (any, error) {
		it, err := r.db.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}

		if err := r.cache.SetItem(ctx, &it); err != nil {
			logrus.Warnf("failed to set item cache, id: %d, err: %v", id, err)
		}
		return it, nil
	})
	if err != nil {
		return domain.Item{}, err
	}

	return res.(domain.Item), nil
}

// Store creates an item
func (r *itemRepository) Store(ctx context.Context, it *domain.Item) error {
	return r.db.Store(ctx, it)
}

// Delete removes an item and evicts its cache entry
func (r *itemRepository) Delete(ctx context.Context, id int64) error {
	if err := r.db.Delete(ctx, id); err != nil {
		return err
	}

	if err := r.cache.DeleteItem(ctx, id); err != nil {
		logrus.Warnf("failed to delete item cache, id: %d, err: %v", id, err)
	}
	return nil
}

func (r *itemRepository) FetchIDs(ctx context.Context, cursor, limit int64) ([]int64, error) {
	return r.db.FetchIDs(ctx, cursor, limit)
}
