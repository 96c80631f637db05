package availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lagishetty/theater-booking-backend/internal/catalog"
)

type stubBooked struct {
	ids []int
	err error
}

func (s *stubBooked) BookedSlotIDs(ctx context.Context, eventDate, slotType string) ([]int, error) {
	return s.ids, s.err
}

type stubOverrides struct {
	disabled []int
}

func (s *stubOverrides) UpsertOverride(ctx context.Context, o *catalog.SlotOverride) error {
	return nil
}

func (s *stubOverrides) ListOverridesByDate(ctx context.Context, eventDate string) ([]catalog.SlotOverride, error) {
	return nil, nil
}

func (s *stubOverrides) DisabledSlotIDs(ctx context.Context, eventDate, slotType string) ([]int, error) {
	return s.disabled, nil
}

func newService(booked []int, disabled []int) Service {
	catalogSvc := catalog.NewService(&stubOverrides{disabled: disabled}, nil)
	return NewService(catalogSvc, &stubBooked{ids: booked})
}

func TestCheckMarksBookedSlots(t *testing.T) {
	svc := newService([]int{2, 4}, nil)

	statuses, err := svc.Check(context.Background(), "2026-10-01", catalog.SlotTypeDeluxe, mustTime(t, "2026-09-15 11:00"))
	require.NoError(t, err)
	require.Len(t, statuses, 5)

	// Catalog order preserved
	for i, st := range statuses {
		assert.Equal(t, i+1, st.Slot.ID)
	}

	assert.True(t, statuses[0].Bookable)
	assert.False(t, statuses[1].Bookable)
	assert.Equal(t, ReasonBooked, statuses[1].Reason)
	assert.False(t, statuses[3].Bookable)
	assert.Equal(t, ReasonBooked, statuses[3].Reason)
	assert.True(t, statuses[4].Bookable)
}

func TestCheckMarksPassedSlotsForToday(t *testing.T) {
	svc := newService(nil, nil)
	now := mustTime(t, "2026-09-15 14:30") // 2:30 PM

	statuses, err := svc.Check(context.Background(), "2026-09-15", catalog.SlotTypeDeluxe, now)
	require.NoError(t, err)

	assert.Equal(t, ReasonPassed, statuses[0].Reason) // 10:00 AM
	assert.Equal(t, ReasonPassed, statuses[1].Reason) // 01:00 PM
	assert.True(t, statuses[2].Bookable)              // 4:00 PM
	assert.True(t, statuses[3].Bookable)
	assert.True(t, statuses[4].Bookable)
}

func TestCheckFutureDateNeverPassed(t *testing.T) {
	svc := newService(nil, nil)
	now := mustTime(t, "2026-09-15 23:00")

	statuses, err := svc.Check(context.Background(), "2026-09-16", catalog.SlotTypeDeluxe, now)
	require.NoError(t, err)

	for _, st := range statuses {
		assert.True(t, st.Bookable)
		assert.Empty(t, st.Reason)
	}
}

func TestCheckMalformedDateNeverPassed(t *testing.T) {
	svc := newService(nil, nil)
	now := mustTime(t, "2026-09-15 23:00")

	statuses, err := svc.Check(context.Background(), "15-09-2026", catalog.SlotTypeDeluxe, now)
	require.NoError(t, err)

	for _, st := range statuses {
		assert.NotEqual(t, ReasonPassed, st.Reason)
	}
}

func TestCheckDisabledWinsOverBooked(t *testing.T) {
	svc := newService([]int{3}, []int{3})

	statuses, err := svc.Check(context.Background(), "2026-10-01", catalog.SlotTypeRolexe, mustTime(t, "2026-09-15 09:00"))
	require.NoError(t, err)

	assert.False(t, statuses[2].Bookable)
	assert.Equal(t, ReasonDisabled, statuses[2].Reason)
}

func TestCheckInvalidSlotType(t *testing.T) {
	svc := newService(nil, nil)

	_, err := svc.Check(context.Background(), "2026-10-01", "premium", time.Now())
	assert.Error(t, err)
}

func TestSlotStartPassed(t *testing.T) {
	now := mustTime(t, "2026-09-15 13:00")

	assert.True(t, slotStartPassed("10:00 AM", now))
	assert.True(t, slotStartPassed("01:00 PM", now)) // boundary: start == now
	assert.True(t, slotStartPassed("1:00 PM", now))
	assert.False(t, slotStartPassed("4:00 PM", now))
	assert.False(t, slotStartPassed("garbage", now))
}

func mustTime(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02 15:04", value)
	require.NoError(t, err)
	return parsed
}
