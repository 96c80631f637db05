package booking

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"gorm.io/datatypes"

	"github.com/lagishetty/theater-booking-backend/config"
	"github.com/lagishetty/theater-booking-backend/internal/auditlog"
	"github.com/lagishetty/theater-booking-backend/internal/catalog"
	"github.com/lagishetty/theater-booking-backend/internal/draft"
	"github.com/lagishetty/theater-booking-backend/internal/notification"
	"github.com/lagishetty/theater-booking-backend/utils"
)

// advanceSurchargeRate is the processing surcharge applied to the base
// advance collected online.
const advanceSurchargeRate = 0.02

type Service interface {
	// Checkout flow (session scoped)
	GetSessionState(ctx context.Context, sessionID string) (SessionState, error)
	CreateOrder(ctx context.Context, sessionID, ip string) (*CreateOrderResponse, error)
	Dismiss(ctx context.Context, sessionID, ip string) error
	VerifyAndConfirm(ctx context.Context, sessionID string, req VerifyPaymentRequest, ip string) (*Booking, error)

	// Admin operations
	OfflineBook(ctx context.Context, in OfflineBookingInput, userID *uint, ip string) (*Booking, error)
	ListBookings(ctx context.Context, slotType string, filter BookingFilter) ([]Booking, int64, error)
	GetBooking(ctx context.Context, slotType string, id uint) (*Booking, error)
	ExportBookings(ctx context.Context, slotType, format string, filter BookingFilter) ([]byte, string, string, error)
	Receipt(ctx context.Context, slotType string, id uint) ([]byte, string, string, error)
}

type service struct {
	cfg        *config.Config
	repo       Repository
	states     StateStore
	gateway    PaymentGateway
	draftSvc   draft.Service
	dispatcher notification.Dispatcher
	auditSvc   auditlog.Service
}

func NewService(
	cfg *config.Config,
	repo Repository,
	states StateStore,
	gateway PaymentGateway,
	draftSvc draft.Service,
	dispatcher notification.Dispatcher,
	auditSvc auditlog.Service,
) Service {
	return &service{
		cfg:        cfg,
		repo:       repo,
		states:     states,
		gateway:    gateway,
		draftSvc:   draftSvc,
		dispatcher: dispatcher,
		auditSvc:   auditSvc,
	}
}

// advanceAmount is the online advance: base plus surcharge, rounded to
// paise precision. Base 1000 yields 1020.
func (s *service) advanceAmount() float64 {
	return math.Round(s.cfg.AdvanceBaseAmount*(1+advanceSurchargeRate)*100) / 100
}

func (s *service) audit(ctx context.Context, bookingID *uint, action string, details map[string]interface{}, ip, status string) {
	if s.auditSvc == nil {
		return
	}
	if err := s.auditSvc.LogAction(ctx, nil, bookingID, action, details, ip, status); err != nil {
		fmt.Printf("⚠️ Audit log failed for %s: %v\n", action, err)
	}
}

func (s *service) GetSessionState(ctx context.Context, sessionID string) (SessionState, error) {
	return s.states.Get(ctx, sessionID)
}

// CreateOrder opens a payment order for the session's staged booking.
// Retrying after a failed order or a failed payment is allowed; a
// confirmed session rolls back to IDLE first so the customer can book
// again.
func (s *service) CreateOrder(ctx context.Context, sessionID, ip string) (*CreateOrderResponse, error) {
	st, err := s.states.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if st.State == StateConfirmed {
		if st.State, err = Transition(st.State, EventReset); err != nil {
			return nil, err
		}
	}

	next, err := Transition(st.State, EventBeginOrder)
	if err != nil {
		return nil, err
	}

	d, err := s.draftSvc.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if d == nil || !d.HasStagedSlot() {
		return nil, ErrNoSlotSelected
	}
	if !d.TermsAccepted {
		return nil, ErrTermsNotAccepted
	}

	st.State = next
	st.OrderID = ""
	if err := s.states.Save(ctx, sessionID, st); err != nil {
		return nil, err
	}

	advance := s.advanceAmount()
	amountPaise := int(math.Round(advance * 100))
	receipt := fmt.Sprintf("bk_%s_%d", d.Date, d.Slot.ID)
	notes := map[string]interface{}{
		"bookingName": d.BookingName,
		"eventDate":   d.Date,
		"slotType":    d.SlotType,
		"slotId":      d.Slot.ID,
	}

	orderID, err := s.gateway.CreateOrder(amountPaise, receipt, notes)
	if err != nil {
		st.State, _ = Transition(st.State, EventOrderFailure)
		if saveErr := s.states.Save(ctx, sessionID, st); saveErr != nil {
			fmt.Printf("⚠️ Failed to persist order failure state: %v\n", saveErr)
		}
		s.audit(ctx, nil, "ORDER_CREATE_FAILED", map[string]interface{}{
			"eventDate": d.Date,
			"slotType":  d.SlotType,
			"slotId":    d.Slot.ID,
			"error":     err.Error(),
		}, ip, "FAILURE")
		return nil, fmt.Errorf("%w: %v", ErrGateway, err)
	}

	st.State, _ = Transition(st.State, EventOrderSuccess)
	st.State, _ = Transition(st.State, EventOpenPayment)
	st.OrderID = orderID
	st.AdvanceAmount = advance
	if err := s.states.Save(ctx, sessionID, st); err != nil {
		return nil, err
	}

	s.audit(ctx, nil, "ORDER_CREATED", map[string]interface{}{
		"orderId":   orderID,
		"eventDate": d.Date,
		"slotType":  d.SlotType,
		"slotId":    d.Slot.ID,
		"advance":   advance,
	}, ip, "SUCCESS")

	return &CreateOrderResponse{
		OrderID:     orderID,
		Amount:      advance,
		Currency:    "INR",
		RazorpayKey: s.cfg.RazorpayKey,
	}, nil
}

// Dismiss handles the customer closing the payment window. The draft
// survives; only the payment attempt is abandoned.
func (s *service) Dismiss(ctx context.Context, sessionID, ip string) error {
	st, err := s.states.Get(ctx, sessionID)
	if err != nil {
		return err
	}

	next, err := Transition(st.State, EventDismiss)
	if err != nil {
		return err
	}

	if err := s.states.Save(ctx, sessionID, SessionState{State: next}); err != nil {
		return err
	}

	s.audit(ctx, nil, "PAYMENT_DISMISSED", map[string]interface{}{
		"orderId": st.OrderID,
	}, ip, "SUCCESS")
	return nil
}

// verifySignature checks the checkout callback against our gateway
// secret: HMAC-SHA256 over "orderID|paymentID", hex encoded.
func (s *service) verifySignature(orderID, paymentID, signature string) bool {
	mac := hmac.New(sha256.New, []byte(s.cfg.RazorpaySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// VerifyAndConfirm validates the payment callback, writes the booking
// and fans out confirmations. If money was captured but the booking
// row could not be written, the session stays in PAYMENT_VERIFYING and
// the caller gets an EscalationError carrying the payment id.
func (s *service) VerifyAndConfirm(ctx context.Context, sessionID string, req VerifyPaymentRequest, ip string) (*Booking, error) {
	st, err := s.states.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	next, err := Transition(st.State, EventBeginVerify)
	if err != nil {
		return nil, err
	}
	st.State = next
	if err := s.states.Save(ctx, sessionID, st); err != nil {
		return nil, err
	}

	fail := func(reason string) (*Booking, error) {
		st.State, _ = Transition(st.State, EventVerifyFailure)
		if saveErr := s.states.Save(ctx, sessionID, st); saveErr != nil {
			fmt.Printf("⚠️ Failed to persist verification failure state: %v\n", saveErr)
		}
		s.audit(ctx, nil, "PAYMENT_VERIFY_FAILED", map[string]interface{}{
			"orderId":   req.OrderID,
			"paymentId": req.PaymentID,
			"reason":    reason,
		}, ip, "FAILURE")
		return nil, &VerificationError{PaymentID: req.PaymentID, Reason: reason}
	}

	if st.OrderID == "" || st.OrderID != req.OrderID {
		return fail("order id does not match this session")
	}
	if !s.verifySignature(req.OrderID, req.PaymentID, req.RazorpaySig) {
		return fail("signature mismatch")
	}

	payment, err := s.gateway.FetchPayment(req.PaymentID)
	if err != nil {
		return fail(fmt.Sprintf("payment lookup failed: %v", err))
	}
	if payment.Status != "captured" {
		return fail(fmt.Sprintf("payment not captured (status=%s)", payment.Status))
	}

	d, err := s.draftSvc.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if d == nil || !d.HasStagedSlot() {
		return fail("booking draft expired")
	}

	extras, _ := json.Marshal(d.ExtraDecorations)
	advance := st.AdvanceAmount
	if advance == 0 {
		advance = s.advanceAmount()
	}

	b := &Booking{
		BookingName:      d.BookingName,
		People:           d.People,
		WhatsApp:         d.WhatsApp,
		Email:            d.Email,
		WantDecoration:   d.WantDecoration,
		Occasion:         d.Occasion,
		ExtraDecorations: datatypes.JSON(extras),
		EventDate:        d.Date,
		SlotType:         d.SlotType,
		SlotID:           d.Slot.ID,
		SlotTime:         SlotWindow(*d.Slot),
		TotalAmount:      d.TotalAmount,
		AdvanceAmount:    advance,
		RemainingAmount:  math.Round((d.TotalAmount-advance)*100) / 100,
		Status:           StatusBooked,
		PaymentStatus:    PaymentPartial,
		RazorpayOrderID:  req.OrderID,
		RazorpayPaymentID: req.PaymentID,
	}

	if err := s.repo.Create(ctx, b); err != nil {
		if err == ErrSlotTaken {
			// Someone else took the slot between selection and payment.
			// Money is captured, flag it for manual reconciliation.
			s.audit(ctx, nil, "BOOKING_SLOT_CONFLICT", map[string]interface{}{
				"paymentId": req.PaymentID,
				"eventDate": d.Date,
				"slotId":    d.Slot.ID,
			}, ip, "FAILURE")
			return nil, &EscalationError{PaymentID: req.PaymentID, Err: err}
		}

		// Session stays in PAYMENT_VERIFYING so the client can retry
		// the save without paying again. Draft is kept.
		s.audit(ctx, nil, "BOOKING_PERSIST_FAILED", map[string]interface{}{
			"paymentId": req.PaymentID,
			"eventDate": d.Date,
			"slotId":    d.Slot.ID,
			"error":     err.Error(),
		}, ip, "FAILURE")
		return nil, &EscalationError{PaymentID: req.PaymentID, Err: err}
	}

	st.State, _ = Transition(st.State, EventVerifySuccess)
	if err := s.states.Save(ctx, sessionID, st); err != nil {
		fmt.Printf("⚠️ Booking %d saved but state update failed: %v\n", b.ID, err)
	}

	ev := notification.BookingEvent{
		BookingID:       b.ID,
		BookingName:     b.BookingName,
		EventDate:       b.EventDate,
		SlotType:        b.SlotType,
		SlotTime:        b.SlotTime,
		People:          b.People,
		Email:           b.Email,
		WhatsApp:        b.WhatsApp,
		Occasion:        b.Occasion,
		TotalAmount:     b.TotalAmount,
		AdvanceAmount:   b.AdvanceAmount,
		RemainingAmount: b.RemainingAmount,
		PaymentID:       b.RazorpayPaymentID,
		PaymentStatus:   b.PaymentStatus,
	}
	if s.dispatcher != nil {
		s.dispatcher.DispatchBookingConfirmed(ctx, ev)
	}

	if err := utils.PublishEvent(ctx, fmt.Sprintf("booking-%d", b.ID), ev); err != nil {
		fmt.Printf("⚠️ Booking event publish failed for booking %d: %v\n", b.ID, err)
	}

	if err := s.draftSvc.Clear(ctx, sessionID); err != nil {
		fmt.Printf("⚠️ Failed to clear draft for session %s: %v\n", sessionID, err)
	}

	s.audit(ctx, &b.ID, "BOOKING_CONFIRMED", map[string]interface{}{
		"paymentId": req.PaymentID,
		"eventDate": b.EventDate,
		"slotType":  b.SlotType,
		"slotId":    b.SlotID,
		"total":     b.TotalAmount,
	}, ip, "SUCCESS")

	return b, nil
}

// OfflineBook records a walk-in or phone booking taken at the desk.
func (s *service) OfflineBook(ctx context.Context, in OfflineBookingInput, userID *uint, ip string) (*Booking, error) {
	pkg, ok := catalog.PackageByType(in.SlotType)
	if !ok {
		return nil, fmt.Errorf("unknown slot type %q", in.SlotType)
	}
	slot, ok := catalog.SlotByID(in.SlotType, in.SlotID)
	if !ok {
		return nil, fmt.Errorf("no slot %d for %s", in.SlotID, in.SlotType)
	}
	if _, err := time.Parse("2006-01-02", in.EventDate); err != nil {
		return nil, fmt.Errorf("invalid event date %q", in.EventDate)
	}
	if in.People < 1 || in.People > pkg.MaxPeople {
		return nil, fmt.Errorf("party size must be between 1 and %d", pkg.MaxPeople)
	}

	total := in.TotalAmount
	if total == 0 {
		total = pkg.BasePrice
	}

	extras, _ := json.Marshal(in.ExtraDecorations)
	b := &Booking{
		BookingName:      in.BookingName,
		People:           in.People,
		WhatsApp:         in.WhatsApp,
		Email:            in.Email,
		WantDecoration:   in.WantDecoration,
		Occasion:         in.Occasion,
		ExtraDecorations: datatypes.JSON(extras),
		EventDate:        in.EventDate,
		SlotType:         in.SlotType,
		SlotID:           slot.ID,
		SlotTime:         SlotWindow(slot),
		TotalAmount:      total,
		AdvanceAmount:    in.AdvanceAmount,
		RemainingAmount:  math.Round((total-in.AdvanceAmount)*100) / 100,
		Status:           StatusBooked,
		PaymentStatus:    PaymentOffline,
	}

	if err := s.repo.Create(ctx, b); err != nil {
		s.audit(ctx, nil, "OFFLINE_BOOKING_FAILED", map[string]interface{}{
			"eventDate": in.EventDate,
			"slotType":  in.SlotType,
			"slotId":    in.SlotID,
			"error":     err.Error(),
		}, ip, "FAILURE")
		return nil, err
	}

	if s.auditSvc != nil {
		details := map[string]interface{}{
			"eventDate": b.EventDate,
			"slotType":  b.SlotType,
			"slotId":    b.SlotID,
			"total":     b.TotalAmount,
		}
		if err := s.auditSvc.LogAction(ctx, userID, &b.ID, "OFFLINE_BOOKING_CREATED", details, ip, "SUCCESS"); err != nil {
			fmt.Printf("⚠️ Audit log failed for offline booking: %v\n", err)
		}
	}

	return b, nil
}

func (s *service) ListBookings(ctx context.Context, slotType string, filter BookingFilter) ([]Booking, int64, error) {
	return s.repo.List(ctx, slotType, filter)
}

func (s *service) GetBooking(ctx context.Context, slotType string, id uint) (*Booking, error) {
	return s.repo.GetByID(ctx, slotType, id)
}

func (s *service) ExportBookings(ctx context.Context, slotType, format string, filter BookingFilter) ([]byte, string, string, error) {
	filter.Limit = exportLimit
	bookings, _, err := s.repo.List(ctx, slotType, filter)
	if err != nil {
		return nil, "", "", err
	}
	return exportBookings(bookings, slotType, format)
}

func (s *service) Receipt(ctx context.Context, slotType string, id uint) ([]byte, string, string, error) {
	b, err := s.repo.GetByID(ctx, slotType, id)
	if err != nil {
		return nil, "", "", err
	}
	return receiptPDF(b)
}
