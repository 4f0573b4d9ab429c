package rest

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Guyuepp/recipe-engagement/domain"
	"github.com/Guyuepp/recipe-engagement/internal/rest/request"
	"github.com/Guyuepp/recipe-engagement/internal/rest/response"
)

// EngagementHandler serves the like ledger and batch stats.
type EngagementHandler struct {
	Likes domain.LikeUsecase
	Stats domain.StatsUsecase
}

func NewEngagementHandler(likes domain.LikeUsecase, stats domain.StatsUsecase) *EngagementHandler {
	return &EngagementHandler{
		Likes: likes,
		Stats: stats,
	}
}

func (h *EngagementHandler) Like(c *gin.Context) {
	itemID, ok := pathID(c, "item_id")
	if !ok {
		return
	}
	var req request.User
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	res, err := h.Likes.Add(c.Request.Context(), itemID, req.UserID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *EngagementHandler) Unlike(c *gin.Context) {
	itemID, ok := pathID(c, "item_id")
	if !ok {
		return
	}
	userID, ok := queryUserID(c)
	if !ok {
		return
	}

	res, err := h.Likes.Remove(c.Request.Context(), itemID, userID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *EngagementHandler) Toggle(c *gin.Context) {
	itemID, ok := pathID(c, "item_id")
	if !ok {
		return
	}
	var req request.Toggle
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	res, err := h.Likes.Toggle(c.Request.Context(), itemID, req.UserID, req.CurrentlyLiked)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// GetStats answers ?item_ids=1,2,3&user_id=7. user_id may be omitted for
// anonymous viewers.
func (h *EngagementHandler) GetStats(c *gin.Context) {
	var ids []int64
	for _, part := range strings.Split(c.Query("item_ids"), ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			badRequest(c, domain.ErrBadParamInput)
			return
		}
		ids = append(ids, id)
	}

	var userID int64
	if s := c.Query("user_id"); s != "" {
		var err error
		if userID, err = strconv.ParseInt(s, 10, 64); err != nil {
			badRequest(c, domain.ErrBadParamInput)
			return
		}
	}

	stats, err := h.Stats.GetStats(c.Request.Context(), ids, userID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.NewStatsFromDomain(stats))
}
