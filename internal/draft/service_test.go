package draft

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lagishetty/theater-booking-backend/internal/availability"
	"github.com/lagishetty/theater-booking-backend/internal/catalog"
)

type memoryStore struct {
	drafts map[string]*BookingDraft
}

func newMemoryStore() *memoryStore {
	return &memoryStore{drafts: make(map[string]*BookingDraft)}
}

func (m *memoryStore) Get(ctx context.Context, sessionID string) (*BookingDraft, error) {
	if d, ok := m.drafts[sessionID]; ok {
		cp := *d
		return &cp, nil
	}
	return nil, nil
}

func (m *memoryStore) Save(ctx context.Context, sessionID string, d *BookingDraft) error {
	cp := *d
	m.drafts[sessionID] = &cp
	return nil
}

func (m *memoryStore) Delete(ctx context.Context, sessionID string) error {
	delete(m.drafts, sessionID)
	return nil
}

type stubAvailability struct {
	unavailable map[int]string // slot id -> reason
}

func (s *stubAvailability) Check(ctx context.Context, eventDate, slotType string, now time.Time) ([]availability.SlotStatus, error) {
	var out []availability.SlotStatus
	for _, slot := range catalog.SlotsFor(slotType) {
		st := availability.SlotStatus{Slot: slot, Bookable: true}
		if reason, ok := s.unavailable[slot.ID]; ok {
			st.Bookable = false
			st.Reason = reason
		}
		out = append(out, st)
	}
	return out, nil
}

func newTestService(unavailable map[int]string) (Service, *memoryStore) {
	store := newMemoryStore()
	svc := NewService(store, &stubAvailability{unavailable: unavailable})
	return svc, store
}

const session = "test-session"

var testNow = time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)

func stageSlot(t *testing.T, svc Service) {
	t.Helper()
	ctx := context.Background()
	_, err := svc.SelectDate(ctx, session, "2026-09-15")
	require.NoError(t, err)
	_, err = svc.SelectPackage(ctx, session, catalog.SlotTypeDeluxe)
	require.NoError(t, err)
	_, err = svc.SelectSlot(ctx, session, 3, testNow)
	require.NoError(t, err)
}

func TestSelectDateValidation(t *testing.T) {
	svc, _ := newTestService(nil)

	_, err := svc.SelectDate(context.Background(), session, "15-09-2026")
	assert.ErrorIs(t, err, ErrInvalidDate)

	d, err := svc.SelectDate(context.Background(), session, "2026-09-15")
	require.NoError(t, err)
	assert.Equal(t, "2026-09-15", d.Date)
	assert.Equal(t, SchemaVersion, d.SchemaVersion)
}

func TestSelectDateResetsDownstreamKeepsContacts(t *testing.T) {
	svc, _ := newTestService(nil)
	ctx := context.Background()

	stageSlot(t, svc)
	_, err := svc.SetDetails(ctx, session, DetailsInput{
		BookingName: "Priya's 25th",
		People:      4,
		WhatsApp:    "9876543210",
		Email:       "priya@gmail.com",
	})
	require.NoError(t, err)
	_, err = svc.AcceptTerms(ctx, session, true)
	require.NoError(t, err)

	d, err := svc.SelectDate(ctx, session, "2026-09-20")
	require.NoError(t, err)

	assert.Equal(t, "2026-09-20", d.Date)
	assert.Empty(t, d.SlotType)
	assert.Nil(t, d.Slot)
	assert.Zero(t, d.StagedCount)
	assert.Zero(t, d.TotalAmount)
	assert.False(t, d.TermsAccepted)

	// Contact fields survive the reset
	assert.Equal(t, "priya@gmail.com", d.Email)
	assert.Equal(t, "9876543210", d.WhatsApp)
	assert.Equal(t, "Priya's 25th", d.BookingName)
}

func TestSelectPackageRequiresDate(t *testing.T) {
	svc, _ := newTestService(nil)

	_, err := svc.SelectPackage(context.Background(), session, catalog.SlotTypeDeluxe)
	assert.ErrorIs(t, err, ErrNoPackageSelected)

	_, err = svc.SelectDate(context.Background(), session, "2026-09-15")
	require.NoError(t, err)
	_, err = svc.SelectPackage(context.Background(), session, "premium")
	assert.ErrorIs(t, err, ErrInvalidSlotType)
}

func TestSelectSlotReplacesPrior(t *testing.T) {
	svc, _ := newTestService(nil)
	ctx := context.Background()

	stageSlot(t, svc)
	d, err := svc.SelectSlot(ctx, session, 5, testNow)
	require.NoError(t, err)

	assert.Equal(t, 5, d.Slot.ID)
	assert.Equal(t, "10:00 PM", d.Slot.StartTime)
	assert.Equal(t, 2, d.StagedCount)
}

func TestSelectSlotCap(t *testing.T) {
	svc, _ := newTestService(nil)
	ctx := context.Background()

	stageSlot(t, svc)
	_, err := svc.SelectSlot(ctx, session, 4, testNow)
	require.NoError(t, err)

	_, err = svc.SelectSlot(ctx, session, 5, testNow)
	assert.ErrorIs(t, err, ErrTooManySelections)
}

func TestSelectSlotRejectsUnbookable(t *testing.T) {
	svc, _ := newTestService(map[int]string{2: availability.ReasonBooked})
	ctx := context.Background()

	_, err := svc.SelectDate(ctx, session, "2026-09-15")
	require.NoError(t, err)
	_, err = svc.SelectPackage(ctx, session, catalog.SlotTypeDeluxe)
	require.NoError(t, err)

	_, err = svc.SelectSlot(ctx, session, 2, testNow)
	assert.ErrorIs(t, err, ErrSlotNotBookable)

	_, err = svc.SelectSlot(ctx, session, 99, testNow)
	assert.ErrorIs(t, err, ErrSlotNotBookable)
}

func TestSetDetailsRepricesFromCatalog(t *testing.T) {
	svc, _ := newTestService(nil)
	ctx := context.Background()

	stageSlot(t, svc)

	d, err := svc.SetDetails(ctx, session, DetailsInput{
		BookingName:      "Arjun's Party",
		People:           4,
		WhatsApp:         "9876543210",
		Email:            "arjun@gmail.com",
		WantDecoration:   true,
		Occasion:         "birthday",
		ExtraDecorations: []string{"rose-heart", "fog-entry"},
	})
	require.NoError(t, err)

	pkg, _ := catalog.PackageByType(catalog.SlotTypeDeluxe)
	assert.Equal(t, pkg.BasePrice+349+599, d.TotalAmount)
}

func TestSetDetailsValidation(t *testing.T) {
	svc, _ := newTestService(nil)
	ctx := context.Background()

	_, err := svc.SetDetails(ctx, session, DetailsInput{People: 2})
	assert.ErrorIs(t, err, ErrNoPackageSelected)

	stageSlot(t, svc)

	_, err = svc.SetDetails(ctx, session, DetailsInput{People: 7})
	assert.ErrorIs(t, err, ErrTooManyPeople)

	_, err = svc.SetDetails(ctx, session, DetailsInput{People: 2, ExtraDecorations: []string{"unicorn"}})
	assert.ErrorIs(t, err, ErrUnknownAddon)
}

func TestClearRemovesDraft(t *testing.T) {
	svc, store := newTestService(nil)
	ctx := context.Background()

	stageSlot(t, svc)
	require.NoError(t, svc.Clear(ctx, session))

	assert.Empty(t, store.drafts)

	d, err := svc.Get(ctx, session)
	require.NoError(t, err)
	assert.False(t, d.HasStagedSlot())
}
