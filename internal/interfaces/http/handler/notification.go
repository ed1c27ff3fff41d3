package handler

import (
	"github.com/gin-gonic/gin"
	notificationapp "github.com/halmarket/backend/internal/application/notification"
)

// NotificationHandler handles regulatory notification queue endpoints
type NotificationHandler struct {
	BaseHandler
	sync *notificationapp.SyncService
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(sync *notificationapp.SyncService) *NotificationHandler {
	return &NotificationHandler{sync: sync}
}

// ListDead lists terminally failed notifications awaiting manual retry
// GET /api/v1/notifications/dead
func (h *NotificationHandler) ListDead(c *gin.Context) {
	dead, err := h.sync.ListDead(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dead)
}

// Retry puts a terminally failed notification back in the queue
// POST /api/v1/notifications/:id/retry
func (h *NotificationHandler) Retry(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "invalid notification ID")
		return
	}

	n, err := h.sync.Retry(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, n)
}

// GetByDocument retrieves the queue entry for one document
// GET /api/v1/documents/:id/notification
func (h *NotificationHandler) GetByDocument(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "invalid document ID")
		return
	}

	n, err := h.sync.GetByDocument(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, n)
}
