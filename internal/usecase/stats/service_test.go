package stats_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Guyuepp/recipe-engagement/domain"
	"github.com/Guyuepp/recipe-engagement/internal/mocks"
	"github.com/Guyuepp/recipe-engagement/internal/usecase/stats"
)

func TestGetStats(t *testing.T) {
	t.Run("batch path", func(t *testing.T) {
		repo := new(mocks.StatsRepository)
		repo.On("GetStatsBatch", mock.Anything, []int64{1, 2, 3}, int64(7)).Return(map[int64]domain.ItemStats{
			1: {LikesCount: 4, UserHasLiked: true},
			3: {LikesCount: 1, CommentsCount: 2},
		}, nil).Once()

		svc := stats.NewService(repo)
		res, err := svc.GetStats(context.TODO(), []int64{1, 2, 3, 1}, 7)

		require.NoError(t, err)
		require.Len(t, res, 3)
		assert.Equal(t, domain.ItemStats{LikesCount: 4, UserHasLiked: true}, res[1])
		assert.Equal(t, domain.ItemStats{}, res[2])
		assert.Equal(t, int64(2), res[3].CommentsCount)
		repo.AssertNotCalled(t, "GetStats", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("batch failure degrades per item", func(t *testing.T) {
		repo := new(mocks.StatsRepository)
		repo.On("GetStatsBatch", mock.Anything, []int64{1, 2, 3}, int64(0)).Return(nil, errors.New("too many connections")).Once()
		repo.On("GetStats", mock.Anything, int64(1), int64(0)).Return(domain.ItemStats{LikesCount: 10}, nil).Once()
		repo.On("GetStats", mock.Anything, int64(2), int64(0)).Return(domain.ItemStats{}, errors.New("timeout")).Once()
		repo.On("GetStats", mock.Anything, int64(3), int64(0)).Return(domain.ItemStats{LikesCount: 3}, nil).Once()

		svc := stats.NewService(repo)
		res, err := svc.GetStats(context.TODO(), []int64{1, 2, 3}, 0)

		require.NoError(t, err)
		assert.Len(t, res, 3)
		assert.Equal(t, int64(10), res[1].LikesCount)
		assert.Equal(t, domain.ItemStats{}, res[2])
		assert.Equal(t, int64(3), res[3].LikesCount)
		repo.AssertExpectations(t)
	})

	t.Run("everything down still answers every id", func(t *testing.T) {
		repo := new(mocks.StatsRepository)
		repo.On("GetStatsBatch", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("down")).Once()
		repo.On("GetStats", mock.Anything, mock.Anything, mock.Anything).Return(domain.ItemStats{}, errors.New("down"))

		svc := stats.NewService(repo)
		res, err := svc.GetStats(context.TODO(), []int64{4, 5}, 1)

		require.NoError(t, err)
		assert.Equal(t, map[int64]domain.ItemStats{4: {}, 5: {}}, res)
	})

	t.Run("empty request", func(t *testing.T) {
		repo := new(mocks.StatsRepository)
		res, err := stats.NewService(repo).GetStats(context.TODO(), nil, 1)

		require.NoError(t, err)
		assert.Empty(t, res)
		repo.AssertNotCalled(t, "GetStatsBatch", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("invalid ids", func(t *testing.T) {
		svc := stats.NewService(new(mocks.StatsRepository))

		_, err := svc.GetStats(context.TODO(), []int64{1, 0}, 1)
		assert.ErrorIs(t, err, domain.ErrBadParamInput)
	})

	t.Run("too many ids", func(t *testing.T) {
		ids := make([]int64, domain.MaxStatsBatch+1)
		for i := range ids {
			ids[i] = int64(i + 1)
		}
		_, err := stats.NewService(new(mocks.StatsRepository)).GetStats(context.TODO(), ids, 1)
		assert.ErrorIs(t, err, domain.ErrBadParamInput)
	})
}
