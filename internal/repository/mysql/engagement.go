package mysql

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Guyuepp/recipe-engagement/domain"
	"github.com/Guyuepp/recipe-engagement/internal/repository/mysql/model"
)

// engagementRepository owns the likes table and the items counters
type engagementRepository struct {
	DB *gorm.DB
}

var (
	_ domain.EngagementStore = (*engagementRepository)(nil)
	_ domain.StatsRepository = (*engagementRepository)(nil)
)

func NewEngagementRepository(db *gorm.DB) *engagementRepository {
	return &engagementRepository{db}
}

func (m *engagementRepository) AddLike(ctx context.Context, like domain.Like) (int64, error) {
	var it model.Item
	err := m.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := model.NewLikeFromDomain(like)
		if row.CreatedAt.IsZero() {
			row.CreatedAt = time.Now()
		}

		result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrConflict
		}

		result = tx.Model(&model.Item{}).
			Where("id = ?", like.ItemID).
			UpdateColumn("likes_count", gorm.Expr("likes_count + ?", 1))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrNotFound
		}

		return tx.Select("id", "likes_count").Where("id = ?", like.ItemID).Take(&it).Error
	})
	if err != nil {
		return 0, translateError(err)
	}
	return it.LikesCount, nil
}

func (m *engagementRepository) RemoveLike(ctx context.Context, itemID, userID int64) (int64, error) {
	var it model.Item
	err := m.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("item_id = ? AND user_id = ?", itemID, userID).Delete(&model.Like{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			var n int64
			if err := tx.Model(&model.Item{}).Where("id = ?", itemID).Count(&n).Error; err != nil {
				return err
			}
			if n == 0 {
				return domain.ErrNotFound
			}
			return domain.ErrConflict
		}

		err := tx.Model(&model.Item{}).
			Where("id = ?", itemID).
			UpdateColumn("likes_count", gorm.Expr("CASE WHEN likes_count > 0 THEN likes_count - 1 ELSE 0 END")).
			Error
		if err != nil {
			return err
		}

		return tx.Select("id", "likes_count").Where("id = ?", itemID).Take(&it).Error
	})
	if err != nil {
		return 0, translateError(err)
	}
	return it.LikesCount, nil
}

func (m *engagementRepository) HasLiked(ctx context.Context, itemID, userID int64) (bool, error) {
	var n int64
	err := m.DB.WithContext(ctx).
		Model(&model.Like{}).
		Where("item_id = ? AND user_id = ?", itemID, userID).
		Count(&n).Error
	if err != nil {
		return false, translateError(err)
	}
	return n > 0, nil
}

// GetStatsBatch reads the counters and the caller's like rows with two IN queries
// issued concurrently.
func (m *engagementRepository) GetStatsBatch(ctx context.Context, itemIDs []int64, userID int64) (map[int64]domain.ItemStats, error) {
	res := make(map[int64]domain.ItemStats, len(itemIDs))
	if len(itemIDs) == 0 {
		return res, nil
	}

	var (
		items []model.Item
		liked []int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return m.DB.WithContext(gctx).
			Select("id", "likes_count", "comments_count").
			Where("id IN ?", itemIDs).
			Find(&items).Error
	})
	if userID > 0 {
		g.Go(func() error {
			return m.DB.WithContext(gctx).
				Model(&model.Like{}).
				Where("user_id = ? AND item_id IN ?", userID, itemIDs).
				Pluck("item_id", &liked).Error
		})
	}
	if err := g.Wait(); err != nil {
		return nil, translateError(err)
	}

	likedSet := make(map[int64]struct{}, len(liked))
	for _, id := range liked {
		likedSet[id] = struct{}{}
	}
	for _, it := range items {
		_, ok := likedSet[it.ID]
		res[it.ID] = domain.ItemStats{
			LikesCount:    it.LikesCount,
			CommentsCount: it.CommentsCount,
			UserHasLiked:  ok,
		}
	}
	return res, nil
}

func (m *engagementRepository) GetStats(ctx context.Context, itemID int64, userID int64) (domain.ItemStats, error) {
	var it model.Item
	err := m.DB.WithContext(ctx).
		Select("id", "likes_count", "comments_count").
		Where("id = ?", itemID).
		Take(&it).Error
	if err != nil {
		return domain.ItemStats{}, translateError(err)
	}

	res := domain.ItemStats{
		LikesCount:    it.LikesCount,
		CommentsCount: it.CommentsCount,
	}
	if userID > 0 {
		liked, err := m.HasLiked(ctx, itemID, userID)
		if err != nil {
			return domain.ItemStats{}, err
		}
		res.UserHasLiked = liked
	}
	return res, nil
}
