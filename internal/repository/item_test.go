package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/go-faker/faker/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Guyuepp/recipe-engagement/domain"
	"github.com/Guyuepp/recipe-engagement/internal/mocks"
	"github.com/Guyuepp/recipe-engagement/internal/repository"
)

func TestItemRepository_GetByID(t *testing.T) {
	var mockItem domain.Item
	require.NoError(t, faker.FakeData(&mockItem))
	mockItem.ID = 7

	t.Run("cache hit", func(t *testing.T) {
		db := new(mocks.ItemDBRepository)
		cache := new(mocks.ItemCache)
		cache.On("GetItem", mock.Anything, int64(7)).Return(mockItem, nil).Once()

		repo := repository.NewItemRepository(db, cache)
		it, err := repo.GetByID(context.TODO(), 7)

		require.NoError(t, err)
		assert.Equal(t, mockItem, it)
		db.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("cache miss loads db and fills cache", func(t *testing.T) {
		db := new(mocks.ItemDBRepository)
		cache := new(mocks.ItemCache)
		cache.On("GetItem", mock.Anything, int64(7)).Return(domain.Item{}, domain.ErrCacheMiss).Once()
		db.On("GetByID", mock.Anything, int64(7)).Return(mockItem, nil).Once()
		cache.On("SetItem", mock.Anything, mock.AnythingOfType("*domain.Item")).Return(nil).Once()

		repo := repository.NewItemRepository(db, cache)
		it, err := repo.GetByID(context.TODO(), 7)

		require.NoError(t, err)
		assert.Equal(t, mockItem, it)
		db.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("cache error still falls back to db", func(t *testing.T) {
		db := new(mocks.ItemDBRepository)
		cache := new(mocks.ItemCache)
		cache.On("GetItem", mock.Anything, int64(7)).Return(domain.Item{}, errors.New("conn refused")).Once()
		db.On("GetByID", mock.Anything, int64(7)).Return(mockItem, nil).Once()
		cache.On("SetItem", mock.Anything, mock.Anything).Return(errors.New("conn refused")).Once()

		repo := repository.NewItemRepository(db, cache)
		it, err := repo.GetByID(context.TODO(), 7)

		require.NoError(t, err)
		assert.Equal(t, mockItem.ID, it.ID)
	})

	t.Run("not found", func(t *testing.T) {
		db := new(mocks.ItemDBRepository)
		cache := new(mocks.ItemCache)
		cache.On("GetItem", mock.Anything, int64(7)).Return(domain.Item{}, domain.ErrCacheMiss).Once()
		db.On("GetByID", mock.Anything, int64(7)).Return(domain.Item{}, domain.ErrNotFound).Once()

		repo := repository.NewItemRepository(db, cache)
		_, err := repo.GetByID(context.TODO(), 7)

		assert.ErrorIs(t, err, domain.ErrNotFound)
		cache.AssertNotCalled(t, "SetItem", mock.Anything, mock.Anything)
	})
}

func TestItemRepository_Delete(t *testing.T) {
	db := new(mocks.ItemDBRepository)
	cache := new(mocks.ItemCache)
	db.On("Delete", mock.Anything, int64(3)).Return(nil).Once()
	cache.On("DeleteItem", mock.Anything, int64(3)).Return(nil).Once()

	repo := repository.NewItemRepository(db, cache)
	require.NoError(t, repo.Delete(context.TODO(), 3))

	db.AssertExpectations(t)
	cache.AssertExpectations(t)
}
