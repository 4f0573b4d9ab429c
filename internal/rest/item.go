package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Guyuepp/recipe-engagement/domain"
	"github.com/Guyuepp/recipe-engagement/internal/rest/request"
	"github.com/Guyuepp/recipe-engagement/internal/rest/response"
)

// ItemHandler represent the httphandler for recipe items
type ItemHandler struct {
	Service domain.ItemUsecase
}

func NewItemHandler(svc domain.ItemUsecase) *ItemHandler {
	return &ItemHandler{
		Service: svc,
	}
}

// GetByID will get item by given id
func (h *ItemHandler) GetByID(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	it, err := h.Service.GetByID(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.NewItemFromDomain(&it))
}

// Store will store the item by given request body
func (h *ItemHandler) Store(c *gin.Context) {
	var req request.Item
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	it := req.ToDomain()
	if err := h.Service.Store(c.Request.Context(), &it); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.NewItemFromDomain(&it))
}

// Delete will delete the item by given param
func (h *ItemHandler) Delete(c *gin.Context) {
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
