package handlers

import (
	"errors"
	"net/http"
	"strconv"

	notificationRepo "evently/database/repository/notification"
	"evently/models"
	"evently/utils"

	"github.com/gin-gonic/gin"
)

// NotificationHandler exposes the per-recipient "my notifications" surface.
type NotificationHandler struct {
	Repo notificationRepo.NotificationRepository
}

func NewNotificationHandler(repo notificationRepo.NotificationRepository) *NotificationHandler {
	return &NotificationHandler{Repo: repo}
}

// MyNotificationsHandler handles GET /api/notifications/me with pagination.
func (h *NotificationHandler) MyNotificationsHandler(c *gin.Context) {
	participantID := c.GetString("participantID")
	if participantID == "" {
		utils.JSONError(c, http.StatusUnauthorized, "missing participant identity", "")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	items, total, err := h.Repo.ListByParticipant(c.Request.Context(), participantID, page, limit)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to list notifications", err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":       items,
		"pagination": models.NewPagination(page, limit, total),
	})
}

// MarkReadHandler handles PUT /api/notifications/:id/read.
func (h *NotificationHandler) MarkReadHandler(c *gin.Context) {
	participantID := c.GetString("participantID")
	if participantID == "" {
		utils.JSONError(c, http.StatusUnauthorized, "missing participant identity", "")
		return
	}

	err := h.Repo.MarkRead(c.Request.Context(), c.Param("id"), participantID)
	if err != nil {
		if errors.Is(err, notificationRepo.ErrNotFound) {
			utils.JSONError(c, http.StatusNotFound, "notification not found", c.Param("id"))
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to mark notification read", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// UnreadCountHandler handles GET /api/notifications/unread-count.
func (h *NotificationHandler) UnreadCountHandler(c *gin.Context) {
	participantID := c.GetString("participantID")
	if participantID == "" {
		utils.JSONError(c, http.StatusUnauthorized, "missing participant identity", "")
		return
	}

	count, err := h.Repo.CountUnread(c.Request.Context(), participantID)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to count unread notifications", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread": count})
}
