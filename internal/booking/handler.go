package booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/lagishetty/theater-booking-backend/internal/catalog"
	"github.com/lagishetty/theater-booking-backend/middleware"
)

type Handler struct {
	Service Service
}

func NewHandler(s Service) *Handler {
	return &Handler{Service: s}
}

// GetPaymentState godoc
// @Summary Current payment coordinator state for this session
// @Tags bookings
// @Router /bookings/state [get]
func (h *Handler) GetPaymentState(c *gin.Context) {
	sessionID := middleware.GetSessionID(c)

	st, err := h.Service.GetSessionState(c.Request.Context(), sessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read payment state"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": st, "success": true})
}

// CreateOrder godoc
// @Summary Open a payment order for the staged booking
// @Tags bookings
// @Router /bookings/order [post]
func (h *Handler) CreateOrder(c *gin.Context) {
	sessionID := middleware.GetSessionID(c)
	ip := middleware.GetIPFromContext(c)

	resp, err := h.Service.CreateOrder(c.Request.Context(), sessionID, ip)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidState):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, ErrNoSlotSelected), errors.Is(err, ErrTermsNotAccepted):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, ErrGateway):
			c.JSON(http.StatusBadGateway, gin.H{"error": "payment order could not be created, please try again"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create order"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp, "success": true})
}

// DismissPayment godoc
// @Summary Abandon the open payment window, keeping the draft
// @Tags bookings
// @Router /bookings/order/dismiss [post]
func (h *Handler) DismissPayment(c *gin.Context) {
	sessionID := middleware.GetSessionID(c)
	ip := middleware.GetIPFromContext(c)

	if err := h.Service.Dismiss(c.Request.Context(), sessionID, ip); err != nil {
		if errors.Is(err, ErrInvalidState) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to dismiss payment"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"state": StateIdle}, "success": true})
}

// VerifyPayment godoc
// @Summary Verify the checkout callback and confirm the booking
// @Tags bookings
// @Router /bookings/verify [post]
func (h *Handler) VerifyPayment(c *gin.Context) {
	sessionID := middleware.GetSessionID(c)
	ip := middleware.GetIPFromContext(c)

	var req VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	b, err := h.Service.VerifyAndConfirm(c.Request.Context(), sessionID, req, ip)
	if err != nil {
		var esc *EscalationError
		switch {
		case errors.As(err, &esc):
			// payment captured, record not saved - the client shows the
			// payment id and offers a retry
			c.JSON(http.StatusConflict, gin.H{
				"error":     esc.Error(),
				"paymentId": esc.PaymentID,
				"retryable": true,
			})
		case errors.Is(err, ErrVerification):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, ErrInvalidState):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "payment verification failed"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": b, "success": true})
}

// ------------------------------
// Admin endpoints
// ------------------------------

func slotTypeParam(c *gin.Context) (string, bool) {
	slotType := c.Param("slotType")
	if !catalog.IsValidSlotType(slotType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid slot type"})
		return "", false
	}
	return slotType, true
}

func filterFromQuery(c *gin.Context) BookingFilter {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	return BookingFilter{
		EventDate: c.Query("date"),
		FromDate:  c.Query("from"),
		ToDate:    c.Query("to"),
		Search:    c.Query("search"),
		Limit:     limit,
		Offset:    offset,
	}
}

// ListBookings godoc
// @Summary List bookings for a package
// @Tags bookings
// @Security BearerAuth
// @Router /admin/bookings/{slotType} [get]
func (h *Handler) ListBookings(c *gin.Context) {
	slotType, ok := slotTypeParam(c)
	if !ok {
		return
	}

	bookings, total, err := h.Service.ListBookings(c.Request.Context(), slotType, filterFromQuery(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch bookings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"bookings": bookings, "total": total}, "success": true})
}

// GetBooking godoc
// @Summary Fetch one booking
// @Tags bookings
// @Security BearerAuth
// @Router /admin/bookings/{slotType}/{id} [get]
func (h *Handler) GetBooking(c *gin.Context) {
	slotType, ok := slotTypeParam(c)
	if !ok {
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}

	b, err := h.Service.GetBooking(c.Request.Context(), slotType, uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": b, "success": true})
}

// OfflineBook godoc
// @Summary Record a desk booking without online payment
// @Tags bookings
// @Security BearerAuth
// @Router /admin/bookings/offline [post]
func (h *Handler) OfflineBook(c *gin.Context) {
	userID := middleware.GetUserIDFromContext(c)
	ip := middleware.GetIPFromContext(c)

	var in OfflineBookingInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	b, err := h.Service.OfflineBook(c.Request.Context(), in, userID, ip)
	if err != nil {
		if errors.Is(err, ErrSlotTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": b, "success": true})
}

// ExportBookings godoc
// @Summary Export bookings as csv, excel or pdf
// @Tags bookings
// @Security BearerAuth
// @Router /admin/bookings/{slotType}/export [get]
func (h *Handler) ExportBookings(c *gin.Context) {
	slotType, ok := slotTypeParam(c)
	if !ok {
		return
	}

	format := c.DefaultQuery("format", "csv")

	data, filename, contentType, err := h.Service.ExportBookings(c.Request.Context(), slotType, format, filterFromQuery(c))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, contentType, data)
}

// Receipt godoc
// @Summary Download the PDF receipt for a booking
// @Tags bookings
// @Security BearerAuth
// @Router /admin/bookings/{slotType}/{id}/receipt [get]
func (h *Handler) Receipt(c *gin.Context) {
	slotType, ok := slotTypeParam(c)
	if !ok {
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}

	data, filename, contentType, err := h.Service.Receipt(c.Request.Context(), slotType, uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, contentType, data)
}
