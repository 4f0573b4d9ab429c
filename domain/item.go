package domain

import (
	"context"
	"time"
)

// Item is the shared recipe that users like and comment on
type Item struct {
	ID            int64     `json:"id"`
	OwnerID       int64     `json:"owner_id"`
	Title         string    `json:"title"`
	LikesCount    int64     `json:"likes_count"`
	CommentsCount int64     `json:"comments_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ItemDBRepository is the persistence contract for items.
// Counters are never written through it; see EngagementStore.
type ItemDBRepository interface {
	// GetByID returns ErrNotFound if the item doesn't exist.
	GetByID(ctx context.Context, id int64) (Item, error)
	Store(ctx context.Context, it *Item) error
	// Delete removes the item and its like rows. Returns ErrNotFound if absent.
	Delete(ctx context.Context, id int64) error
	// FetchIDs pages through item ids greater than cursor, ascending.
	FetchIDs(ctx context.Context, cursor, limit int64) ([]int64, error)
}

// ItemCache caches item metadata. Counters are not cached.
type ItemCache interface {
	GetItem(ctx context.Context, id int64) (Item, error)
	SetItem(ctx context.Context, it *Item) error
	DeleteItem(ctx context.Context, id int64) error
}

// ItemRepository coordinates ItemDBRepository and ItemCache.
type ItemRepository interface {
	GetByID(ctx context.Context, id int64) (Item, error)
	Store(ctx context.Context, it *Item) error
	Delete(ctx context.Context, id int64) error
	FetchIDs(ctx context.Context, cursor, limit int64) ([]int64, error)
}

type ItemUsecase interface {
	GetByID(ctx context.Context, id int64) (Item, error)
	Store(ctx context.Context, it *Item) error
	// Delete removes the item if userID owns it, ErrForbidden otherwise.
	Delete(ctx context.Context, id int64, userID int64) error
	InitBloomFilter(ctx context.Context) error
}
