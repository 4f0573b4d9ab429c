package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/Guyuepp/recipe-engagement/domain"
)

type EventEmitter struct{ mock.Mock }

func (m *EventEmitter) Emit(event domain.EngagementEvent) {
	m.Called(event)
}

type EventDeliverer struct{ mock.Mock }

func (m *EventDeliverer) Deliver(ctx context.Context, event domain.EngagementEvent) error {
	return m.Called(ctx, event).Error(0)
}

type ItemUsecase struct{ mock.Mock }

func (m *ItemUsecase) GetByID(ctx context.Context, id int64) (domain.Item, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Item), args.Error(1)
}

func (m *ItemUsecase) Store(ctx context.Context, it *domain.Item) error {
	return m.Called(ctx, it).Error(0)
}

func (m *ItemUsecase) Delete(ctx context.Context, id int64, userID int64) error {
	return m.Called(ctx, id, userID).Error(0)
}

func (m *ItemUsecase) InitBloomFilter(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type LikeUsecase struct{ mock.Mock }

func (m *LikeUsecase) Add(ctx context.Context, itemID, userID int64) (domain.LikeResult, error) {
	args := m.Called(ctx, itemID, userID)
	return args.Get(0).(domain.LikeResult), args.Error(1)
}

func (m *LikeUsecase) Remove(ctx context.Context, itemID, userID int64) (domain.LikeResult, error) {
	args := m.Called(ctx, itemID, userID)
	return args.Get(0).(domain.LikeResult), args.Error(1)
}

func (m *LikeUsecase) Toggle(ctx context.Context, itemID, userID int64, currentlyLiked bool) (domain.LikeResult, error) {
	args := m.Called(ctx, itemID, userID, currentlyLiked)
	return args.Get(0).(domain.LikeResult), args.Error(1)
}

type StatsUsecase struct{ mock.Mock }

func (m *StatsUsecase) GetStats(ctx context.Context, itemIDs []int64, userID int64) (map[int64]domain.ItemStats, error) {
	args := m.Called(ctx, itemIDs, userID)
	res, _ := args.Get(0).(map[int64]domain.ItemStats)
	return res, args.Error(1)
}

type CommentUsecase struct{ mock.Mock }

func (m *CommentUsecase) Create(ctx context.Context, c *domain.Comment) error {
	return m.Called(ctx, c).Error(0)
}

func (m *CommentUsecase) Delete(ctx context.Context, commentID int64, userID int64) error {
	return m.Called(ctx, commentID, userID).Error(0)
}

func (m *CommentUsecase) FetchByItem(ctx context.Context, itemID int64, cursor string, limit int64) ([]domain.Comment, string, error) {
	args := m.Called(ctx, itemID, cursor, limit)
	res, _ := args.Get(0).([]domain.Comment)
	return res, args.String(1), args.Error(2)
}

type NotificationUsecase struct{ mock.Mock }

func (m *NotificationUsecase) Add(ctx context.Context, n *domain.Notification) error {
	return m.Called(ctx, n).Error(0)
}

func (m *NotificationUsecase) List(ctx context.Context, userID int64, filter domain.NotificationFilter, limit int) ([]domain.Notification, error) {
	args := m.Called(ctx, userID, filter, limit)
	res, _ := args.Get(0).([]domain.Notification)
	return res, args.Error(1)
}

func (m *NotificationUsecase) MarkAllRead(ctx context.Context, userID int64) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

func (m *NotificationUsecase) MarkRead(ctx context.Context, userID, id int64) error {
	return m.Called(ctx, userID, id).Error(0)
}

func (m *NotificationUsecase) Delete(ctx context.Context, userID, id int64) error {
	return m.Called(ctx, userID, id).Error(0)
}

func (m *NotificationUsecase) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *NotificationUsecase) Subscribe(fn domain.NotificationSubscriber) (func(), error) {
	args := m.Called(fn)
	unsub, _ := args.Get(0).(func())
	return unsub, args.Error(1)
}
