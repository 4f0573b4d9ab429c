package mysql

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sqlmock "gopkg.in/DATA-DOG/go-sqlmock.v1"

	"github.com/Guyuepp/recipe-engagement/domain"
)

func TestItemRepository_GetByID(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewItemDBRepository(db)

	now := time.Now()
	mock.ExpectQuery("SELECT \\* FROM `items` WHERE id = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id", "title", "likes_count", "comments_count", "updated_at", "created_at"}).
			AddRow(1, 2, "Pasta", 5, 1, now, now))

	it, err := repo.GetByID(context.TODO(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), it.OwnerID)
	assert.Equal(t, int64(5), it.LikesCount)

	mock.ExpectQuery("SELECT \\* FROM `items` WHERE id = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	_, err = repo.GetByID(context.TODO(), 2)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestItemRepository_Store(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewItemDBRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `items`").WillReturnResult(sqlmock.NewResult(12, 1))
	mock.ExpectCommit()

	it := &domain.Item{OwnerID: 2, Title: "Soup", LikesCount: 99}
	require.NoError(t, repo.Store(context.TODO(), it))
	assert.Equal(t, int64(12), it.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestItemRepository_Delete(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewItemDBRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `items`").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	assert.ErrorIs(t, repo.Delete(context.TODO(), 8), domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
