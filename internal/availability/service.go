package availability

import (
	"context"
	"errors"
	"time"

	"github.com/lagishetty/theater-booking-backend/internal/catalog"
)

// Reason codes for slots that cannot be booked
const (
	ReasonBooked   = "booked"
	ReasonPassed   = "passed"
	ReasonDisabled = "disabled"
)

// SlotStatus is one catalog slot annotated with bookability for a date
type SlotStatus struct {
	Slot     catalog.TimeSlot `json:"slot"`
	Bookable bool             `json:"bookable"`
	Reason   string           `json:"reason,omitempty"` // ""|"booked"|"passed"|"disabled"
}

// BookedLookup reports the slot IDs already booked for a date. The
// booking repository implements it.
type BookedLookup interface {
	BookedSlotIDs(ctx context.Context, eventDate, slotType string) ([]int, error)
}

type Service interface {
	Check(ctx context.Context, eventDate, slotType string, now time.Time) ([]SlotStatus, error)
}

type service struct {
	catalogSvc catalog.Service
	booked     BookedLookup
}

func NewService(catalogSvc catalog.Service, booked BookedLookup) Service {
	return &service{
		catalogSvc: catalogSvc,
		booked:     booked,
	}
}

// Check returns every catalog slot for the package in catalog order,
// each marked bookable or carrying the reason it is not. A slot that is
// both booked and in the past reports "booked"; disabled wins over both.
func (s *service) Check(ctx context.Context, eventDate, slotType string, now time.Time) ([]SlotStatus, error) {
	slots := catalog.SlotsFor(slotType)
	if slots == nil {
		return nil, errors.New("invalid slot type")
	}

	bookedIDs, err := s.booked.BookedSlotIDs(ctx, eventDate, slotType)
	if err != nil {
		return nil, err
	}
	bookedSet := make(map[int]bool, len(bookedIDs))
	for _, id := range bookedIDs {
		bookedSet[id] = true
	}

	disabledIDs, err := s.catalogSvc.DisabledSlotIDs(ctx, eventDate, slotType)
	if err != nil {
		return nil, err
	}
	disabledSet := make(map[int]bool, len(disabledIDs))
	for _, id := range disabledIDs {
		disabledSet[id] = true
	}

	// A slot only counts as passed when the requested date parses and is
	// today; a malformed or future date never hides slots.
	isToday := false
	if parsed, err := time.Parse("2006-01-02", eventDate); err == nil {
		isToday = parsed.Year() == now.Year() && parsed.YearDay() == now.YearDay()
	}

	statuses := make([]SlotStatus, 0, len(slots))
	for _, slot := range slots {
		status := SlotStatus{Slot: slot, Bookable: true}

		switch {
		case disabledSet[slot.ID]:
			status.Bookable = false
			status.Reason = ReasonDisabled
		case bookedSet[slot.ID]:
			status.Bookable = false
			status.Reason = ReasonBooked
		case isToday && slotStartPassed(slot.StartTime, now):
			status.Bookable = false
			status.Reason = ReasonPassed
		}

		statuses = append(statuses, status)
	}

	return statuses, nil
}

// slotStartPassed reports whether the 12-hour slot start label is at or
// before the wall-clock time of now.
func slotStartPassed(startTime string, now time.Time) bool {
	parsed, err := parseClock(startTime)
	if err != nil {
		return false
	}

	slotMinutes := parsed.Hour()*60 + parsed.Minute()
	nowMinutes := now.Hour()*60 + now.Minute()
	return slotMinutes <= nowMinutes
}

func parseClock(label string) (time.Time, error) {
	// Catalog labels carry both zero-padded and bare hours
	if t, err := time.Parse("03:04 PM", label); err == nil {
		return t, nil
	}
	return time.Parse("3:04 PM", label)
}
