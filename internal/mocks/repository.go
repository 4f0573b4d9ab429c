// Package mocks holds testify mocks of the domain interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/Guyuepp/recipe-engagement/domain"
)

type ItemDBRepository struct{ mock.Mock }

func (m *ItemDBRepository) GetByID(ctx context.Context, id int64) (domain.Item, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Item), args.Error(1)
}

func (m *ItemDBRepository) Store(ctx context.Context, it *domain.Item) error {
	return m.Called(ctx, it).Error(0)
}

func (m *ItemDBRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *ItemDBRepository) FetchIDs(ctx context.Context, cursor, limit int64) ([]int64, error) {
	args := m.Called(ctx, cursor, limit)
	ids, _ := args.Get(0).([]int64)
	return ids, args.Error(1)
}

type ItemCache struct{ mock.Mock }

func (m *ItemCache) GetItem(ctx context.Context, id int64) (domain.Item, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Item), args.Error(1)
}

func (m *ItemCache) SetItem(ctx context.Context, it *domain.Item) error {
	return m.Called(ctx, it).Error(0)
}

func (m *ItemCache) DeleteItem(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type ItemRepository struct{ mock.Mock }

func (m *ItemRepository) GetByID(ctx context.Context, id int64) (domain.Item, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Item), args.Error(1)
}

func (m *ItemRepository) Store(ctx context.Context, it *domain.Item) error {
	return m.Called(ctx, it).Error(0)
}

func (m *ItemRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *ItemRepository) FetchIDs(ctx context.Context, cursor, limit int64) ([]int64, error) {
	args := m.Called(ctx, cursor, limit)
	ids, _ := args.Get(0).([]int64)
	return ids, args.Error(1)
}

type EngagementStore struct{ mock.Mock }

func (m *EngagementStore) AddLike(ctx context.Context, like domain.Like) (int64, error) {
	args := m.Called(ctx, like)
	return args.Get(0).(int64), args.Error(1)
}

func (m *EngagementStore) RemoveLike(ctx context.Context, itemID, userID int64) (int64, error) {
	args := m.Called(ctx, itemID, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *EngagementStore) HasLiked(ctx context.Context, itemID, userID int64) (bool, error) {
	args := m.Called(ctx, itemID, userID)
	return args.Bool(0), args.Error(1)
}

type BloomRepository struct{ mock.Mock }

func (m *BloomRepository) Add(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *BloomRepository) Exists(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *BloomRepository) BulkAdd(ctx context.Context, ids []int64) error {
	return m.Called(ctx, ids).Error(0)
}

type StatsRepository struct{ mock.Mock }

func (m *StatsRepository) GetStatsBatch(ctx context.Context, itemIDs []int64, userID int64) (map[int64]domain.ItemStats, error) {
	args := m.Called(ctx, itemIDs, userID)
	res, _ := args.Get(0).(map[int64]domain.ItemStats)
	return res, args.Error(1)
}

func (m *StatsRepository) GetStats(ctx context.Context, itemID int64, userID int64) (domain.ItemStats, error) {
	args := m.Called(ctx, itemID, userID)
	return args.Get(0).(domain.ItemStats), args.Error(1)
}

type CommentRepository struct{ mock.Mock }

func (m *CommentRepository) Store(ctx context.Context, c *domain.Comment) error {
	return m.Called(ctx, c).Error(0)
}

func (m *CommentRepository) Delete(ctx context.Context, commentID int64, userID int64) error {
	return m.Called(ctx, commentID, userID).Error(0)
}

func (m *CommentRepository) GetByID(ctx context.Context, id int64) (domain.Comment, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Comment), args.Error(1)
}

func (m *CommentRepository) FetchByItem(ctx context.Context, itemID int64, cursor string, limit int64) ([]domain.Comment, error) {
	args := m.Called(ctx, itemID, cursor, limit)
	res, _ := args.Get(0).([]domain.Comment)
	return res, args.Error(1)
}

type UserRepository struct{ mock.Mock }

func (m *UserRepository) GetByID(ctx context.Context, id int64) (domain.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *UserRepository) GetByIDs(ctx context.Context, ids []int64) ([]domain.User, error) {
	args := m.Called(ctx, ids)
	res, _ := args.Get(0).([]domain.User)
	return res, args.Error(1)
}
