package notification

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/lagishetty/theater-booking-backend/middleware"
)

type Handler struct {
	Service Service
}

func NewHandler(s Service) *Handler {
	return &Handler{Service: s}
}

type sendNotificationReq struct {
	Channel    string   `json:"channel" binding:"required"`
	Subject    string   `json:"subject"`
	Body       string   `json:"body" binding:"required"`
	Recipients []string `json:"recipients" binding:"required"`
}

// SendNotification godoc
// @Summary Send an ad-hoc broadcast over email or push
// @Tags notifications
// @Security BearerAuth
// @Router /notifications/send [post]
func (h *Handler) SendNotification(c *gin.Context) {
	userID := middleware.GetUserIDFromContext(c)
	if userID == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req sendNotificationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ip := middleware.GetIPFromContext(c)
	if err := h.Service.SendNotification(c.Request.Context(), *userID, req.Channel, req.Subject, req.Body, req.Recipients, ip); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"recipients": len(req.Recipients)}, "success": true})
}

// GetNotificationLogs godoc
// @Summary List outbound notification attempts
// @Tags notifications
// @Security BearerAuth
// @Router /notifications/logs [get]
func (h *Handler) GetNotificationLogs(c *gin.Context) {
	var bookingID *uint
	if raw := c.Query("bookingId"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid bookingId"})
			return
		}
		u := uint(id)
		bookingID = &u
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	logs, err := h.Service.ListNotificationLogs(c.Request.Context(), bookingID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch notification logs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": logs, "success": true})
}

// ListInApp godoc
// @Summary List the caller's bell notifications
// @Tags notifications
// @Security BearerAuth
// @Router /notifications/in-app [get]
func (h *Handler) ListInApp(c *gin.Context) {
	userID := middleware.GetUserIDFromContext(c)
	if userID == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	items, err := h.Service.ListInAppByUser(c.Request.Context(), *userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch notifications"})
		return
	}

	unread, err := h.Service.UnreadCount(c.Request.Context(), *userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count unread notifications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"notifications": items, "unreadCount": unread}, "success": true})
}

// MarkInAppAsRead godoc
// @Summary Mark one bell notification as read
// @Tags notifications
// @Security BearerAuth
// @Router /notifications/in-app/{id}/read [put]
func (h *Handler) MarkInAppAsRead(c *gin.Context) {
	userID := middleware.GetUserIDFromContext(c)
	if userID == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid notification id"})
		return
	}

	if err := h.Service.MarkInAppAsRead(c.Request.Context(), uint(id), *userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to mark notification as read"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"id": id}, "success": true})
}

type deviceTokenReq struct {
	DeviceToken string `json:"deviceToken" binding:"required"`
	DeviceType  string `json:"deviceType"`
	DeviceName  string `json:"deviceName"`
}

// RegisterDeviceToken godoc
// @Summary Register a device for push notifications
// @Tags notifications
// @Security BearerAuth
// @Router /notifications/device-tokens [post]
func (h *Handler) RegisterDeviceToken(c *gin.Context) {
	userID := middleware.GetUserIDFromContext(c)
	if userID == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req deviceTokenReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Service.RegisterDeviceToken(c.Request.Context(), *userID, req.DeviceToken, req.DeviceType, req.DeviceName); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": gin.H{"registered": true}, "success": true})
}

// RemoveDeviceToken godoc
// @Summary Deactivate a push device token
// @Tags notifications
// @Security BearerAuth
// @Router /notifications/device-tokens [delete]
func (h *Handler) RemoveDeviceToken(c *gin.Context) {
	userID := middleware.GetUserIDFromContext(c)
	if userID == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req struct {
		DeviceToken string `json:"deviceToken" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Service.RemoveDeviceToken(c.Request.Context(), *userID, req.DeviceToken); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to remove device token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"removed": true}, "success": true})
}
