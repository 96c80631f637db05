package availability

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// CheckAvailability handles GET /availability?date=YYYY-MM-DD&slotType=deluxe
// @Summary Check slot availability for a date
// @Tags Availability
// @Produce json
// @Param date query string true "Event date (YYYY-MM-DD)"
// @Param slotType query string true "Package slot type (deluxe/rolexe)"
// @Success 200 {object} gin.H
// @Failure 400 {object} gin.H
// @Failure 500 {object} gin.H
// @Router /api/v1/availability [get]
func (h *Handler) CheckAvailability(c *gin.Context) {
	date := c.Query("date")
	slotType := c.Query("slotType")

	if date == "" || slotType == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date and slotType are required"})
		return
	}

	statuses, err := h.service.Check(c.Request.Context(), date, slotType, time.Now())
	if err != nil {
		if err.Error() == "invalid slot type" {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check availability"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":    statuses,
		"success": true,
	})
}
