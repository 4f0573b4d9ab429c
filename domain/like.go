package domain

import (
	"context"
	"time"
)

// Like is a single (item, user) like row. Its existence is the only
// source of truth for "has liked".
type Like struct {
	ItemID    int64
	UserID    int64
	CreatedAt time.Time
}

// LikeResult is the authoritative state returned by every ledger write
type LikeResult struct {
	LikesCount   int64 `json:"likes_count"`
	UserHasLiked bool  `json:"user_has_liked"`
}

// EngagementStore is the single mutator of like rows and item counters.
// All counter changes are atomic at the storage layer.
type EngagementStore interface {
	// AddLike inserts the row and increments the counter in one step.
	// Returns ErrConflict if the row already exists, ErrNotFound if the item is missing.
	AddLike(ctx context.Context, like Like) (likesCount int64, err error)

	// RemoveLike deletes the row and decrements the counter, floored at 0.
	// Returns ErrConflict if there was no row, ErrNotFound if the item is missing.
	RemoveLike(ctx context.Context, itemID, userID int64) (likesCount int64, err error)

	HasLiked(ctx context.Context, itemID, userID int64) (bool, error)
}

type LikeUsecase interface {
	Add(ctx context.Context, itemID, userID int64) (LikeResult, error)
	Remove(ctx context.Context, itemID, userID int64) (LikeResult, error)
	// Toggle removes when currentlyLiked, adds otherwise. The flag only picks
	// the action; the store decides the outcome.
	Toggle(ctx context.Context, itemID, userID int64, currentlyLiked bool) (LikeResult, error)
}
