package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/Guyuepp/recipe-engagement/domain"
	"github.com/Guyuepp/recipe-engagement/internal/repository/mysql/model"
)

type itemRepository struct {
	DB *gorm.DB
}

// mysql层只负责数据库操作
var _ domain.ItemDBRepository = (*itemRepository)(nil)

// NewItemDBRepository 创建数据库操作层
func NewItemDBRepository(db *gorm.DB) *itemRepository {
	return &itemRepository{db}
}

func (m *itemRepository) GetByID(ctx context.Context, id int64) (res domain.Item, err error) {
	var it model.Item
	err = m.DB.WithContext(ctx).First(&it, "id = ?", id).Error
	if err != nil {
		return res, translateError(err)
	}
	res = it.ToDomain()
	return
}

func (m *itemRepository) Store(ctx context.Context, it *domain.Item) error {
	itemModel := model.NewItemFromDomain(it)
	if err := m.DB.WithContext(ctx).Create(itemModel).Error; err != nil {
		return translateError(err)
	}
	it.ID = itemModel.ID
	it.CreatedAt = itemModel.CreatedAt
	it.UpdatedAt = itemModel.UpdatedAt
	return nil
}

// Delete removes the item together with its like rows and comments
func (m *itemRepository) Delete(ctx context.Context, id int64) error {
	err := m.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&model.Item{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrNotFound
		}

		if err := tx.Where("item_id = ?", id).Delete(&model.Like{}).Error; err != nil {
			return err
		}
		return tx.Where("item_id = ?", id).Delete(&model.Comment{}).Error
	})
	return translateError(err)
}

func (m *itemRepository) FetchIDs(ctx context.Context, cursor, limit int64) (ids []int64, err error) {
	err = m.DB.WithContext(ctx).
		Model(&model.Item{}).
		Where("id > ?", cursor).
		Order("id").
		Limit(int(limit)).
		Pluck("id", &ids).Error
	return ids, translateError(err)
}
