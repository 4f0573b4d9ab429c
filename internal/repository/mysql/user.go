package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/Guyuepp/recipe-engagement/domain"
	"github.com/Guyuepp/recipe-engagement/internal/repository/mysql/model"
)

// userRepository only reads; accounts are owned elsewhere.
type userRepository struct {
	DB *gorm.DB
}

var _ domain.UserRepository = (*userRepository)(nil)

func NewUserRepository(db *gorm.DB) *userRepository {
	return &userRepository{DB: db}
}

func (m *userRepository) GetByID(ctx context.Context, id int64) (domain.User, error) {
	var u model.User
	err := m.DB.WithContext(ctx).Where("id = ?", id).Take(&u).Error
	if err != nil {
		return domain.User{}, translateError(err)
	}
	return u.ToDomain(), nil
}

// GetByIDs skips unknown ids; results follow the order of ids.
func (m *userRepository) GetByIDs(ctx context.Context, ids []int64) ([]domain.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var rows []model.User
	if err := m.DB.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, translateError(err)
	}

	byID := make(map[int64]domain.User, len(rows))
	for i := range rows {
		byID[rows[i].ID] = rows[i].ToDomain()
	}
	res := make([]domain.User, 0, len(rows))
	for _, id := range ids {
		if u, ok := byID[id]; ok {
			res = append(res, u)
			delete(byID, id)
		}
	}
	return res, nil
}
