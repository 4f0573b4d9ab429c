package rest_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Guyuepp/recipe-engagement/domain"
	"github.com/Guyuepp/recipe-engagement/internal/mocks"
	"github.com/Guyuepp/recipe-engagement/internal/rest"
)

func engagementRouter(likes *mocks.LikeUsecase, stats *mocks.StatsUsecase) *gin.Engine {
	h := rest.NewEngagementHandler(likes, stats)
	r := gin.New()
	r.POST("/engagement/:item_id/like", h.Like)
	r.DELETE("/engagement/:item_id/like", h.Unlike)
	r.POST("/engagement/:item_id/toggle", h.Toggle)
	r.GET("/engagement/stats", h.GetStats)
	return r
}

func TestLike(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		likes := new(mocks.LikeUsecase)
		likes.On("Add", mock.Anything, int64(3), int64(7)).Return(domain.LikeResult{LikesCount: 5, UserHasLiked: true}, nil).Once()

		rec := do(t, engagementRouter(likes, nil), http.MethodPost, "/engagement/3/like", map[string]int64{"user_id": 7})

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.JSONEq(t, `{"likes_count":5,"user_has_liked":true}`, rec.Body.String())
	})

	statuses := map[error]int{
		domain.ErrConflict:      http.StatusConflict,
		domain.ErrNotFound:      http.StatusNotFound,
		domain.ErrBadParamInput: http.StatusBadRequest,
		domain.ErrTransient:     http.StatusServiceUnavailable,
	}
	for err, code := range statuses {
		t.Run(err.Error(), func(t *testing.T) {
			likes := new(mocks.LikeUsecase)
			likes.On("Add", mock.Anything, int64(3), int64(7)).Return(domain.LikeResult{}, err).Once()

			rec := do(t, engagementRouter(likes, nil), http.MethodPost, "/engagement/3/like", map[string]int64{"user_id": 7})

			assert.Equal(t, code, rec.Code)
		})
	}

	t.Run("missing user", func(t *testing.T) {
		likes := new(mocks.LikeUsecase)
		rec := do(t, engagementRouter(likes, nil), http.MethodPost, "/engagement/3/like", map[string]int64{})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		likes.AssertNotCalled(t, "Add", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestUnlike(t *testing.T) {
	likes := new(mocks.LikeUsecase)
	likes.On("Remove", mock.Anything, int64(3), int64(7)).Return(domain.LikeResult{LikesCount: 4}, nil).Once()

	rec := do(t, engagementRouter(likes, nil), http.MethodDelete, "/engagement/3/like?user_id=7", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"likes_count":4,"user_has_liked":false}`, rec.Body.String())
}

func TestToggle(t *testing.T) {
	likes := new(mocks.LikeUsecase)
	likes.On("Toggle", mock.Anything, int64(3), int64(7), true).Return(domain.LikeResult{LikesCount: 0}, nil).Once()

	rec := do(t, engagementRouter(likes, nil), http.MethodPost, "/engagement/3/toggle",
		map[string]any{"user_id": 7, "currently_liked": true})

	assert.Equal(t, http.StatusOK, rec.Code)
	likes.AssertExpectations(t)
}

func TestGetStats(t *testing.T) {
	t.Run("keyed by id", func(t *testing.T) {
		stats := new(mocks.StatsUsecase)
		stats.On("GetStats", mock.Anything, []int64{1, 2}, int64(0)).Return(map[int64]domain.ItemStats{
			1: {LikesCount: 3},
			2: {},
		}, nil).Once()

		rec := do(t, engagementRouter(nil, stats), http.MethodGet, "/engagement/stats?item_ids=1,2", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		var body map[string]domain.ItemStats
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Len(t, body, 2)
		assert.Equal(t, int64(3), body["1"].LikesCount)
	})

	t.Run("bad id", func(t *testing.T) {
		rec := do(t, engagementRouter(nil, new(mocks.StatsUsecase)), http.MethodGet, "/engagement/stats?item_ids=1,x", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
