package catalog

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lagishetty/theater-booking-backend/middleware"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// GetPackages handles GET /packages
// @Summary List theater packages
// @Tags Catalog
// @Produce json
// @Success 200 {object} gin.H
// @Router /api/v1/packages [get]
func (h *Handler) GetPackages(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"data":    h.service.Packages(c.Request.Context()),
		"success": true,
	})
}

// GetSlots handles GET /packages/:slotType/slots
// @Summary List show windows for a package
// @Tags Catalog
// @Produce json
// @Param slotType path string true "Package slot type (deluxe/rolexe)"
// @Success 200 {object} gin.H
// @Failure 400 {object} gin.H
// @Router /api/v1/packages/{slotType}/slots [get]
func (h *Handler) GetSlots(c *gin.Context) {
	slotType := c.Param("slotType")

	slots, err := h.service.Slots(c.Request.Context(), slotType)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":    slots,
		"success": true,
	})
}

// ListOverrides handles GET /admin/slots/overrides?date=YYYY-MM-DD
// @Summary List slot overrides for a date (Admin)
// @Tags Catalog
// @Produce json
// @Param date query string true "Event date (YYYY-MM-DD)"
// @Success 200 {object} gin.H
// @Failure 400 {object} gin.H
// @Router /api/v1/admin/slots/overrides [get]
func (h *Handler) ListOverrides(c *gin.Context) {
	date := c.Query("date")
	if _, err := time.Parse("2006-01-02", date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format. Use YYYY-MM-DD"})
		return
	}

	overrides, err := h.service.ListOverrides(c.Request.Context(), date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch slot overrides"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":    overrides,
		"success": true,
	})
}

type setSlotStatusReq struct {
	EventDate string `json:"eventDate" binding:"required" example:"2026-09-15"`
	SlotType  string `json:"slotType" binding:"required" example:"deluxe"`
	SlotID    int    `json:"slotId" binding:"required" example:"3"`
	Disabled  *bool  `json:"disabled" binding:"required"`
}

// SetSlotStatus handles PUT /admin/slots/status
// @Summary Disable or enable a catalog slot for a date (Admin)
// @Tags Catalog
// @Accept json
// @Produce json
// @Param request body setSlotStatusReq true "Override request"
// @Success 200 {object} gin.H
// @Failure 400 {object} gin.H
// @Router /api/v1/admin/slots/status [put]
func (h *Handler) SetSlotStatus(c *gin.Context) {
	var req setSlotStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := time.Parse("2006-01-02", req.EventDate); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid eventDate format. Use YYYY-MM-DD"})
		return
	}

	userID := middleware.GetUserIDFromContext(c)
	ip := middleware.GetIPFromContext(c)

	err := h.service.SetSlotStatus(c.Request.Context(), req.EventDate, req.SlotType, req.SlotID, *req.Disabled, userID, ip)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Slot status updated",
		"success": true,
	})
}
