package booking

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/lagishetty/theater-booking-backend/config"
	"github.com/lagishetty/theater-booking-backend/internal/catalog"
	"github.com/lagishetty/theater-booking-backend/internal/draft"
	"github.com/lagishetty/theater-booking-backend/internal/notification"
)

const testSecret = "test-secret"

// ------------------------------
// mocks
// ------------------------------

type memoryStateStore struct {
	states map[string]SessionState
}

func newMemoryStateStore() *memoryStateStore {
	return &memoryStateStore{states: map[string]SessionState{}}
}

func (m *memoryStateStore) Get(_ context.Context, sessionID string) (SessionState, error) {
	if st, ok := m.states[sessionID]; ok {
		return st, nil
	}
	return SessionState{State: StateIdle}, nil
}

func (m *memoryStateStore) Save(_ context.Context, sessionID string, st SessionState) error {
	m.states[sessionID] = st
	return nil
}

type mockGateway struct {
	orderID     string
	orderErr    error
	orderCalls  int
	payment     PaymentFetch
	paymentErr  error
	fetchCalls  int
	lastAmount  int
	lastReceipt string
}

func (m *mockGateway) CreateOrder(amountPaise int, receipt string, _ map[string]interface{}) (string, error) {
	m.orderCalls++
	m.lastAmount = amountPaise
	m.lastReceipt = receipt
	if m.orderErr != nil {
		return "", m.orderErr
	}
	return m.orderID, nil
}

func (m *mockGateway) FetchPayment(string) (PaymentFetch, error) {
	m.fetchCalls++
	if m.paymentErr != nil {
		return PaymentFetch{}, m.paymentErr
	}
	return m.payment, nil
}

type mockRepo struct {
	createErr error
	created   []*Booking
}

func (m *mockRepo) Create(_ context.Context, b *Booking) error {
	if m.createErr != nil {
		return m.createErr
	}
	b.ID = uint(len(m.created) + 1)
	m.created = append(m.created, b)
	return nil
}

func (m *mockRepo) BookedSlotIDs(context.Context, string, string) ([]int, error) { return nil, nil }
func (m *mockRepo) GetByID(context.Context, string, uint) (*Booking, error) {
	return nil, errors.New("not found")
}
func (m *mockRepo) List(context.Context, string, BookingFilter) ([]Booking, int64, error) {
	return nil, 0, nil
}

type stubDraftSvc struct {
	draft   *draft.BookingDraft
	cleared bool
}

func (s *stubDraftSvc) Get(context.Context, string) (*draft.BookingDraft, error) {
	return s.draft, nil
}
func (s *stubDraftSvc) SelectDate(context.Context, string, string) (*draft.BookingDraft, error) {
	return nil, nil
}
func (s *stubDraftSvc) SelectPackage(context.Context, string, string) (*draft.BookingDraft, error) {
	return nil, nil
}
func (s *stubDraftSvc) SelectSlot(context.Context, string, int, time.Time) (*draft.BookingDraft, error) {
	return nil, nil
}
func (s *stubDraftSvc) SetDetails(context.Context, string, draft.DetailsInput) (*draft.BookingDraft, error) {
	return nil, nil
}
func (s *stubDraftSvc) AcceptTerms(context.Context, string, bool) (*draft.BookingDraft, error) {
	return nil, nil
}
func (s *stubDraftSvc) Clear(context.Context, string) error {
	s.cleared = true
	return nil
}

type recordingDispatcher struct {
	events []notification.BookingEvent
}

func (d *recordingDispatcher) DispatchBookingConfirmed(_ context.Context, ev notification.BookingEvent) {
	d.events = append(d.events, ev)
}

// ------------------------------
// helpers
// ------------------------------

func readyDraft() *draft.BookingDraft {
	slot, _ := catalog.SlotByID(catalog.SlotTypeDeluxe, 4)
	return &draft.BookingDraft{
		SchemaVersion:  draft.SchemaVersion,
		Date:           "2025-11-20",
		SlotType:       catalog.SlotTypeDeluxe,
		Slot:           &slot,
		StagedCount:    1,
		BookingName:    "Ravi",
		People:         4,
		WhatsApp:       "9876543210",
		Email:          "ravi@example.com",
		WantDecoration: true,
		Occasion:       "birthday",
		TotalAmount:    3097,
		TermsAccepted:  true,
	}
}

func signFor(orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(testSecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

type fixture struct {
	svc      Service
	states   *memoryStateStore
	gateway  *mockGateway
	repo     *mockRepo
	drafts   *stubDraftSvc
	dispatch *recordingDispatcher
}

func newFixture(gw *mockGateway, repo *mockRepo, d *draft.BookingDraft) *fixture {
	cfg := &config.Config{
		RazorpayKey:       "rzp_test_key",
		RazorpaySecret:    testSecret,
		AdvanceBaseAmount: 1000,
	}
	states := newMemoryStateStore()
	drafts := &stubDraftSvc{draft: d}
	dispatch := &recordingDispatcher{}
	svc := NewService(cfg, repo, states, gw, drafts, dispatch, nil)
	return &fixture{svc: svc, states: states, gateway: gw, repo: repo, drafts: drafts, dispatch: dispatch}
}

const session = "sess-1"

// ------------------------------
// order creation
// ------------------------------

func TestCreateOrderAppliesSurcharge(t *testing.T) {
	f := newFixture(&mockGateway{orderID: "order_1"}, &mockRepo{}, readyDraft())

	resp, err := f.svc.CreateOrder(context.Background(), session, "1.2.3.4")
	assert.NoError(t, err)
	assert.Equal(t, "order_1", resp.OrderID)
	assert.Equal(t, 1020.0, resp.Amount)
	assert.Equal(t, 102000, f.gateway.lastAmount)
	assert.Equal(t, "INR", resp.Currency)
	assert.Equal(t, "rzp_test_key", resp.RazorpayKey)

	st, _ := f.states.Get(context.Background(), session)
	assert.Equal(t, StatePaymentOpen, st.State)
	assert.Equal(t, "order_1", st.OrderID)
	assert.Equal(t, 1020.0, st.AdvanceAmount)
}

func TestCreateOrderRequiresTermsAndSlot(t *testing.T) {
	t.Run("no staged slot", func(t *testing.T) {
		d := readyDraft()
		d.Slot = nil
		f := newFixture(&mockGateway{orderID: "order_1"}, &mockRepo{}, d)

		_, err := f.svc.CreateOrder(context.Background(), session, "")
		assert.ErrorIs(t, err, ErrNoSlotSelected)
		assert.Zero(t, f.gateway.orderCalls)
	})

	t.Run("terms not accepted", func(t *testing.T) {
		d := readyDraft()
		d.TermsAccepted = false
		f := newFixture(&mockGateway{orderID: "order_1"}, &mockRepo{}, d)

		_, err := f.svc.CreateOrder(context.Background(), session, "")
		assert.ErrorIs(t, err, ErrTermsNotAccepted)
	})
}

func TestCreateOrderGatewayFailureIsRetryable(t *testing.T) {
	gw := &mockGateway{orderErr: errors.New("gateway down")}
	f := newFixture(gw, &mockRepo{}, readyDraft())

	_, err := f.svc.CreateOrder(context.Background(), session, "")
	assert.ErrorIs(t, err, ErrGateway)
	assert.Empty(t, f.repo.created)

	st, _ := f.states.Get(context.Background(), session)
	assert.Equal(t, StateOrderFailed, st.State)

	// retry succeeds from ORDER_FAILED without a reset
	gw.orderErr = nil
	gw.orderID = "order_2"
	resp, err := f.svc.CreateOrder(context.Background(), session, "")
	assert.NoError(t, err)
	assert.Equal(t, "order_2", resp.OrderID)
}

func TestCreateOrderRejectedMidFlight(t *testing.T) {
	f := newFixture(&mockGateway{orderID: "order_1"}, &mockRepo{}, readyDraft())
	f.states.states[session] = SessionState{State: StatePaymentVerifying}

	_, err := f.svc.CreateOrder(context.Background(), session, "")
	assert.ErrorIs(t, err, ErrInvalidState)
}

// ------------------------------
// dismiss
// ------------------------------

func TestDismissKeepsDraftAndResetsState(t *testing.T) {
	f := newFixture(&mockGateway{orderID: "order_1"}, &mockRepo{}, readyDraft())

	_, err := f.svc.CreateOrder(context.Background(), session, "")
	assert.NoError(t, err)

	assert.NoError(t, f.svc.Dismiss(context.Background(), session, ""))

	st, _ := f.states.Get(context.Background(), session)
	assert.Equal(t, StateIdle, st.State)
	assert.False(t, f.drafts.cleared)
}

func TestDismissFromIdleRejected(t *testing.T) {
	f := newFixture(&mockGateway{}, &mockRepo{}, readyDraft())
	assert.ErrorIs(t, f.svc.Dismiss(context.Background(), session, ""), ErrInvalidState)
}

// ------------------------------
// verification
// ------------------------------

func openPayment(t *testing.T, f *fixture) string {
	t.Helper()
	resp, err := f.svc.CreateOrder(context.Background(), session, "")
	assert.NoError(t, err)
	return resp.OrderID
}

func TestVerifyAndConfirmHappyPath(t *testing.T) {
	gw := &mockGateway{orderID: "order_1", payment: PaymentFetch{Status: "captured", AmountPaise: 102000}}
	f := newFixture(gw, &mockRepo{}, readyDraft())
	orderID := openPayment(t, f)

	b, err := f.svc.VerifyAndConfirm(context.Background(), session, VerifyPaymentRequest{
		OrderID:     orderID,
		PaymentID:   "pay_1",
		RazorpaySig: signFor(orderID, "pay_1"),
	}, "")
	assert.NoError(t, err)

	assert.Equal(t, StatusBooked, b.Status)
	assert.Equal(t, PaymentPartial, b.PaymentStatus)
	assert.Equal(t, 1020.0, b.AdvanceAmount)
	assert.Equal(t, 2077.0, b.RemainingAmount)
	assert.Equal(t, "7:00 PM - 9:30 PM", b.SlotTime)
	assert.Equal(t, "pay_1", b.RazorpayPaymentID)

	st, _ := f.states.Get(context.Background(), session)
	assert.Equal(t, StateConfirmed, st.State)

	assert.True(t, f.drafts.cleared)
	assert.Len(t, f.dispatch.events, 1)
	assert.Equal(t, b.ID, f.dispatch.events[0].BookingID)
}

func TestVerifySignatureMismatchFailsPayment(t *testing.T) {
	gw := &mockGateway{orderID: "order_1", payment: PaymentFetch{Status: "captured"}}
	f := newFixture(gw, &mockRepo{}, readyDraft())
	orderID := openPayment(t, f)

	_, err := f.svc.VerifyAndConfirm(context.Background(), session, VerifyPaymentRequest{
		OrderID:     orderID,
		PaymentID:   "pay_1",
		RazorpaySig: "bogus",
	}, "")
	assert.ErrorIs(t, err, ErrVerification)
	assert.Zero(t, gw.fetchCalls, "payment must not be fetched on a bad signature")
	assert.Empty(t, f.repo.created)

	st, _ := f.states.Get(context.Background(), session)
	assert.Equal(t, StatePaymentFailed, st.State)

	// the draft survives so the customer can retry the whole payment
	assert.False(t, f.drafts.cleared)
}

func TestVerifyUncapturedPaymentFails(t *testing.T) {
	gw := &mockGateway{orderID: "order_1", payment: PaymentFetch{Status: "authorized"}}
	f := newFixture(gw, &mockRepo{}, readyDraft())
	orderID := openPayment(t, f)

	_, err := f.svc.VerifyAndConfirm(context.Background(), session, VerifyPaymentRequest{
		OrderID:     orderID,
		PaymentID:   "pay_1",
		RazorpaySig: signFor(orderID, "pay_1"),
	}, "")
	assert.ErrorIs(t, err, ErrVerification)
}

func TestVerifyPersistFailureEscalatesWithPaymentID(t *testing.T) {
	gw := &mockGateway{orderID: "order_1", payment: PaymentFetch{Status: "captured"}}
	repo := &mockRepo{createErr: errors.New("db down")}
	f := newFixture(gw, repo, readyDraft())
	orderID := openPayment(t, f)

	req := VerifyPaymentRequest{
		OrderID:     orderID,
		PaymentID:   "pay_esc",
		RazorpaySig: signFor(orderID, "pay_esc"),
	}

	_, err := f.svc.VerifyAndConfirm(context.Background(), session, req, "")

	var esc *EscalationError
	assert.ErrorAs(t, err, &esc)
	assert.Equal(t, "pay_esc", esc.PaymentID)
	assert.Contains(t, err.Error(), "pay_esc")

	// draft kept, session stays verifying so the save can be retried
	assert.False(t, f.drafts.cleared)
	st, _ := f.states.Get(context.Background(), session)
	assert.Equal(t, StatePaymentVerifying, st.State)

	// retry after the store recovers
	repo.createErr = nil
	b, err := f.svc.VerifyAndConfirm(context.Background(), session, req, "")
	assert.NoError(t, err)
	assert.Equal(t, "pay_esc", b.RazorpayPaymentID)
}

func TestVerifySlotConflictEscalates(t *testing.T) {
	gw := &mockGateway{orderID: "order_1", payment: PaymentFetch{Status: "captured"}}
	repo := &mockRepo{createErr: ErrSlotTaken}
	f := newFixture(gw, repo, readyDraft())
	orderID := openPayment(t, f)

	_, err := f.svc.VerifyAndConfirm(context.Background(), session, VerifyPaymentRequest{
		OrderID:     orderID,
		PaymentID:   "pay_dup",
		RazorpaySig: signFor(orderID, "pay_dup"),
	}, "")

	var esc *EscalationError
	assert.ErrorAs(t, err, &esc)
	assert.ErrorIs(t, esc.Err, ErrSlotTaken)
	assert.Equal(t, "pay_dup", esc.PaymentID)
}

func TestVerifyWrongOrderIDRejected(t *testing.T) {
	gw := &mockGateway{orderID: "order_1", payment: PaymentFetch{Status: "captured"}}
	f := newFixture(gw, &mockRepo{}, readyDraft())
	openPayment(t, f)

	_, err := f.svc.VerifyAndConfirm(context.Background(), session, VerifyPaymentRequest{
		OrderID:     "order_other",
		PaymentID:   "pay_1",
		RazorpaySig: signFor("order_other", "pay_1"),
	}, "")
	assert.ErrorIs(t, err, ErrVerification)
}

// ------------------------------
// offline bookings
// ------------------------------

func TestOfflineBook(t *testing.T) {
	repo := &mockRepo{}
	f := newFixture(&mockGateway{}, repo, nil)

	b, err := f.svc.OfflineBook(context.Background(), OfflineBookingInput{
		BookingName: "Desk Walk-in",
		People:      3,
		EventDate:   "2025-12-01",
		SlotType:    catalog.SlotTypeRolexe,
		SlotID:      2,
		TotalAmount: 3499,
	}, nil, "")
	assert.NoError(t, err)

	assert.Equal(t, PaymentOffline, b.PaymentStatus)
	assert.Equal(t, "1:00 PM - 3:30 PM", b.SlotTime)
	assert.Equal(t, 3499.0, b.RemainingAmount)
	assert.Len(t, repo.created, 1)
}

func TestOfflineBookValidation(t *testing.T) {
	f := newFixture(&mockGateway{}, &mockRepo{}, nil)

	_, err := f.svc.OfflineBook(context.Background(), OfflineBookingInput{
		BookingName: "x", People: 2, EventDate: "2025-12-01", SlotType: "vip", SlotID: 1,
	}, nil, "")
	assert.Error(t, err)

	_, err = f.svc.OfflineBook(context.Background(), OfflineBookingInput{
		BookingName: "x", People: 99, EventDate: "2025-12-01", SlotType: catalog.SlotTypeDeluxe, SlotID: 1,
	}, nil, "")
	assert.Error(t, err)

	_, err = f.svc.OfflineBook(context.Background(), OfflineBookingInput{
		BookingName: "x", People: 2, EventDate: "01-12-2025", SlotType: catalog.SlotTypeDeluxe, SlotID: 1,
	}, nil, "")
	assert.Error(t, err)
}
