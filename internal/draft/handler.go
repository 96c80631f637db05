package draft

import (
	"errors"
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

func respondDraft(c *gin.Context, d *BookingDraft, err error) {
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidDate),
			errors.Is(err, ErrInvalidSlotType),
			errors.Is(err, ErrNoPackageSelected),
			errors.Is(err, ErrSlotNotBookable),
			errors.Is(err, ErrTooManySelections),
			errors.Is(err, ErrTooManyPeople),
			errors.Is(err, ErrUnknownAddon):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update booking draft"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":    d,
		"success": true,
	})
}

// GetDraft handles GET /draft
// @Summary Get the current booking draft for this session
// @Tags Draft
// @Produce json
// @Success 200 {object} gin.H
// @Router /api/v1/draft [get]
func (h *Handler) GetDraft(c *gin.Context) {
	d, err := h.service.Get(c.Request.Context(), middleware.GetSessionID(c))
	respondDraft(c, d, err)
}

type selectDateReq struct {
	Date string `json:"date" binding:"required" example:"2026-09-15"`
}

// SelectDate handles POST /draft/date
// @Summary Pick the event date (resets package and slot)
// @Tags Draft
// @Accept json
// @Produce json
// @Param request body selectDateReq true "Date selection"
// @Success 200 {object} gin.H
// @Failure 400 {object} gin.H
// @Router /api/v1/draft/date [post]
func (h *Handler) SelectDate(c *gin.Context) {
	var req selectDateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	d, err := h.service.SelectDate(c.Request.Context(), middleware.GetSessionID(c), req.Date)
	respondDraft(c, d, err)
}

type selectPackageReq struct {
	SlotType string `json:"slotType" binding:"required" example:"deluxe"`
}

// SelectPackage handles POST /draft/package
// @Summary Pick the theater package
// @Tags Draft
// @Accept json
// @Produce json
// @Param request body selectPackageReq true "Package selection"
// @Success 200 {object} gin.H
// @Failure 400 {object} gin.H
// @Router /api/v1/draft/package [post]
func (h *Handler) SelectPackage(c *gin.Context) {
	var req selectPackageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	d, err := h.service.SelectPackage(c.Request.Context(), middleware.GetSessionID(c), req.SlotType)
	respondDraft(c, d, err)
}

type selectSlotReq struct {
	SlotID int `json:"slotId" binding:"required" example:"3"`
}

// SelectSlot handles POST /draft/slot
// @Summary Stage a show window for checkout
// @Tags Draft
// @Accept json
// @Produce json
// @Param request body selectSlotReq true "Slot selection"
// @Success 200 {object} gin.H
// @Failure 400 {object} gin.H
// @Router /api/v1/draft/slot [post]
func (h *Handler) SelectSlot(c *gin.Context) {
	var req selectSlotReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	d, err := h.service.SelectSlot(c.Request.Context(), middleware.GetSessionID(c), req.SlotID, time.Now())
	respondDraft(c, d, err)
}

type setDetailsReq struct {
	BookingName      string   `json:"bookingName" binding:"required" example:"Priya's 25th"`
	People           int      `json:"people" binding:"required" example:"4"`
	WhatsApp         string   `json:"whatsapp" binding:"required" example:"9876543210"`
	Email            string   `json:"email" binding:"required,email" example:"priya@gmail.com"`
	WantDecoration   bool     `json:"wantDecoration" example:"true"`
	Occasion         string   `json:"occasion" example:"birthday"`
	ExtraDecorations []string `json:"extraDecorations" example:"rose-heart,fog-entry"`
}

// SetDetails handles POST /draft/details
// @Summary Record party details; the server reprices the draft
// @Tags Draft
// @Accept json
// @Produce json
// @Param request body setDetailsReq true "Party details"
// @Success 200 {object} gin.H
// @Failure 400 {object} gin.H
// @Router /api/v1/draft/details [post]
func (h *Handler) SetDetails(c *gin.Context) {
	var req setDetailsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	d, err := h.service.SetDetails(c.Request.Context(), middleware.GetSessionID(c), DetailsInput{
		BookingName:      req.BookingName,
		People:           req.People,
		WhatsApp:         req.WhatsApp,
		Email:            req.Email,
		WantDecoration:   req.WantDecoration,
		Occasion:         req.Occasion,
		ExtraDecorations: req.ExtraDecorations,
	})
	respondDraft(c, d, err)
}

type acceptTermsReq struct {
	Accepted *bool `json:"accepted" binding:"required"`
}

// AcceptTerms handles POST /draft/terms
// @Summary Record terms acceptance for this draft
// @Tags Draft
// @Accept json
// @Produce json
// @Param request body acceptTermsReq true "Terms acceptance"
// @Success 200 {object} gin.H
// @Failure 400 {object} gin.H
// @Router /api/v1/draft/terms [post]
func (h *Handler) AcceptTerms(c *gin.Context) {
	var req acceptTermsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	d, err := h.service.AcceptTerms(c.Request.Context(), middleware.GetSessionID(c), *req.Accepted)
	respondDraft(c, d, err)
}

// ClearDraft handles DELETE /draft
// @Summary Discard the current booking draft
// @Tags Draft
// @Produce json
// @Success 200 {object} gin.H
// @Router /api/v1/draft [delete]
func (h *Handler) ClearDraft(c *gin.Context) {
	if err := h.service.Clear(c.Request.Context(), middleware.GetSessionID(c)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear booking draft"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Draft cleared",
		"success": true,
	})
}
