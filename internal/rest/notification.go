package rest

import (
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Guyuepp/recipe-engagement/domain"
	"github.com/Guyuepp/recipe-engagement/internal/rest/request"
	"github.com/Guyuepp/recipe-engagement/internal/rest/response"
)

const streamKeepAlive = 25 * time.Second

type NotificationHandler struct {
	Service domain.NotificationUsecase

	hub         *badgeHub
	unsubscribe func()
	closeOnce   sync.Once
}

// NewNotificationHandler registers one subscriber on svc that feeds every
// open badge stream. Call Close to release it and end open streams.
func NewNotificationHandler(svc domain.NotificationUsecase) (*NotificationHandler, error) {
	hub := newBadgeHub()
	unsub, err := svc.Subscribe(hub.notify)
	if err != nil {
		return nil, err
	}
	return &NotificationHandler{
		Service:     svc,
		hub:         hub,
		unsubscribe: unsub,
	}, nil
}

func (h *NotificationHandler) Close() {
	h.closeOnce.Do(func() {
		h.unsubscribe()
		h.hub.close()
	})
}

func (h *NotificationHandler) List(c *gin.Context) {
	userID, ok := queryUserID(c)
	if !ok {
		return
	}
	filter, err := domain.ParseNotificationFilter(c.Query("filter"))
	if err != nil {
		badRequest(c, err)
		return
	}
	limit := 0
	if s := c.Query("limit"); s != "" {
		if limit, err = strconv.Atoi(s); err != nil || limit < 0 {
			badRequest(c, domain.ErrBadParamInput)
			return
		}
	}

	ctx := c.Request.Context()
	list, err := h.Service.List(ctx, userID, filter, limit)
	if err != nil {
		abortWithError(c, err)
		return
	}
	unread, err := h.Service.UnreadCount(ctx, userID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.NewNotificationList(list, unread))
}

func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	userID, ok := queryUserID(c)
	if !ok {
		return
	}

	n, err := h.Service.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.UnreadCount{UnreadCount: n})
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	var req request.User
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	n, err := h.Service.MarkAllRead(c.Request.Context(), req.UserID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": n})
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req request.User
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.Service.MarkRead(c.Request.Context(), req.UserID, id); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *NotificationHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	userID, ok := queryUserID(c)
	if !ok {
		return
	}

	if err := h.Service.Delete(c.Request.Context(), userID, id); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Stream pushes the unread badge as server-sent events: once on connect and
// again after every notification added for the user.
func (h *NotificationHandler) Stream(c *gin.Context) {
	userID, ok := queryUserID(c)
	if !ok {
		return
	}

	wake, stop := h.hub.listen(userID)
	defer stop()

	ctx := c.Request.Context()
	push := func() bool {
		n, err := h.Service.UnreadCount(ctx, userID)
		if err != nil {
			logrus.Warnf("badge stream for user %d: %v", userID, err)
			return ctx.Err() == nil
		}
		c.SSEvent("unread", response.UnreadCount{UnreadCount: n})
		return true
	}

	if !push() {
		return
	}
	c.Writer.Flush()

	keepAlive := time.NewTicker(streamKeepAlive)
	defer keepAlive.Stop()

	c.Stream(func(_ io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case <-h.hub.done:
			return false
		case <-wake:
			return push()
		case <-keepAlive.C:
			c.SSEvent("ping", "")
			return true
		}
	})
}
