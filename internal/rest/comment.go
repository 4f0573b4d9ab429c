package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Guyuepp/recipe-engagement/domain"
	"github.com/Guyuepp/recipe-engagement/internal/repository"
	"github.com/Guyuepp/recipe-engagement/internal/rest/request"
	"github.com/Guyuepp/recipe-engagement/internal/rest/response"
)

type CommentHandler struct {
	Service domain.CommentUsecase
}

func NewCommentHandler(svc domain.CommentUsecase) *CommentHandler {
	return &CommentHandler{
		Service: svc,
	}
}

func (h *CommentHandler) CreateComment(c *gin.Context) {
	itemID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req request.Comment
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	comment := req.ToDomain(itemID)
	if err := h.Service.Create(c.Request.Context(), &comment); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.NewCommentFromDomain(&comment))
}

func (h *CommentHandler) DeleteComment(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	userID, ok := queryUserID(c)
	if !ok {
		return
	}

	if err := h.Service.Delete(c.Request.Context(), id, userID); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CommentHandler) FetchCommentsByItem(c *gin.Context) {
	itemID, ok := pathID(c, "id")
	if !ok {
		return
	}
	num, err := strconv.ParseInt(c.Query("num"), 10, 64)
	if err != nil {
		num = repository.DefaultPageNum
	}

	comments, nextCursor, err := h.Service.FetchByItem(c.Request.Context(), itemID, c.Query("cursor"), num)
	if err != nil {
		abortWithError(c, err)
		return
	}

	res := make([]response.Comment, len(comments))
	for i := range comments {
		res[i] = response.NewCommentFromDomain(&comments[i])
	}
	c.Header("X-Cursor", nextCursor)
	c.JSON(http.StatusOK, gin.H{"comments": res, "next_cursor": nextCursor})
}
