package mysql

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Guyuepp/recipe-engagement/domain"
	"github.com/Guyuepp/recipe-engagement/internal/repository"
	"github.com/Guyuepp/recipe-engagement/internal/repository/mysql/model"
)

type commentRepository struct {
	DB *gorm.DB
}

var _ domain.CommentRepository = (*commentRepository)(nil)

func NewCommentRepository(db *gorm.DB) *commentRepository {
	return &commentRepository{
		DB: db,
	}
}

// Store inserts the comment and bumps items.comments_count in the same transaction
func (c *commentRepository) Store(ctx context.Context, comment *domain.Comment) error {
	row := model.NewCommentFromDomain(comment)
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now()
	}

	err := c.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.Item{}).
			Where("id = ?", comment.ItemID).
			UpdateColumn("comments_count", gorm.Expr("comments_count + ?", 1))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return tx.Create(row).Error
	})
	if err != nil {
		return translateError(err)
	}

	comment.ID = row.ID
	comment.CreatedAt = row.CreatedAt
	return nil
}

func (c *commentRepository) Delete(ctx context.Context, commentID int64, userID int64) error {
	err := c.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.Comment
		if err := tx.Select("id", "item_id", "user_id").Where("id = ?", commentID).Take(&existing).Error; err != nil {
			return err
		}
		if existing.UserID != userID {
			return domain.ErrForbidden
		}

		result := tx.Where("id = ? AND user_id = ?", commentID, userID).Delete(&model.Comment{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrNotFound
		}

		return tx.Model(&model.Item{}).
			Where("id = ?", existing.ItemID).
			UpdateColumn("comments_count", gorm.Expr("CASE WHEN comments_count > 0 THEN comments_count - 1 ELSE 0 END")).
			Error
	})
	return translateError(err)
}

func (c *commentRepository) GetByID(ctx context.Context, id int64) (domain.Comment, error) {
	var comment model.Comment
	if err := c.DB.WithContext(ctx).First(&comment, "id = ?", id).Error; err != nil {
		return domain.Comment{}, translateError(err)
	}
	return comment.ToDomain(), nil
}

// FetchByItem returns comments newest first, older than the cursor
func (c *commentRepository) FetchByItem(ctx context.Context, itemID int64, cursor string, limit int64) ([]domain.Comment, error) {
	query := c.DB.WithContext(ctx).Where("item_id = ?", itemID)
	if cursor != "" {
		decodedCursor, err := repository.DecodeCursor(cursor)
		if err != nil {
			return nil, domain.ErrBadParamInput
		}
		query = query.Where("created_at < ?", decodedCursor)
	}

	repository.PageVerify(&limit)
	var comments []model.Comment
	err := query.Order("created_at DESC").Limit(int(limit)).Find(&comments).Error
	if err != nil {
		return nil, translateError(err)
	}

	res := make([]domain.Comment, 0, len(comments))
	for i := range comments {
		res = append(res, comments[i].ToDomain())
	}
	return res, nil
}
