package domain

import "context"

// MaxStatsBatch caps the number of ids accepted by one stats request
const MaxStatsBatch = 100

// ItemStats is the per-item engagement summary
type ItemStats struct {
	LikesCount    int64 `json:"likes_count"`
	UserHasLiked  bool  `json:"user_has_liked"`
	CommentsCount int64 `json:"comments_count"`
}

// StatsRepository reads engagement counters.
type StatsRepository interface {
	// GetStatsBatch answers all ids in one round trip. Missing items are absent from the map.
	GetStatsBatch(ctx context.Context, itemIDs []int64, userID int64) (map[int64]ItemStats, error)
	// GetStats answers a single id. Returns ErrNotFound if the item is missing.
	GetStats(ctx context.Context, itemID int64, userID int64) (ItemStats, error)
}

type StatsUsecase interface {
	// GetStats always returns an entry for every requested id.
	GetStats(ctx context.Context, itemIDs []int64, userID int64) (map[int64]ItemStats, error)
}
