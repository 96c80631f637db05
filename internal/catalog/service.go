package catalog

import (
	"context"
	"errors"

	"github.com/lagishetty/theater-booking-backend/internal/auditlog"
)

type Service interface {
	Packages(ctx context.Context) []Package
	Slots(ctx context.Context, slotType string) ([]TimeSlot, error)
	ListOverrides(ctx context.Context, eventDate string) ([]SlotOverride, error)
	SetSlotStatus(ctx context.Context, eventDate, slotType string, slotID int, disabled bool, userID *uint, ip string) error
	DisabledSlotIDs(ctx context.Context, eventDate, slotType string) ([]int, error)
}

type service struct {
	repo     Repository
	auditSvc auditlog.Service
}

func NewService(repo Repository, auditSvc auditlog.Service) Service {
	return &service{
		repo:     repo,
		auditSvc: auditSvc,
	}
}

func (s *service) Packages(ctx context.Context) []Package {
	return Packages()
}

func (s *service) Slots(ctx context.Context, slotType string) ([]TimeSlot, error) {
	slots := SlotsFor(slotType)
	if slots == nil {
		return nil, errors.New("invalid slot type")
	}
	return slots, nil
}

func (s *service) ListOverrides(ctx context.Context, eventDate string) ([]SlotOverride, error) {
	return s.repo.ListOverridesByDate(ctx, eventDate)
}

// SetSlotStatus closes or reopens a catalog slot for a date. Existing
// bookings on the slot are never touched.
func (s *service) SetSlotStatus(ctx context.Context, eventDate, slotType string, slotID int, disabled bool, userID *uint, ip string) error {
	if _, ok := SlotByID(slotType, slotID); !ok {
		s.auditSvc.LogAction(ctx, userID, nil, "SLOT_STATUS_UPDATE_FAILED", map[string]interface{}{
			"reason":     "unknown slot",
			"event_date": eventDate,
			"slot_type":  slotType,
			"slot_id":    slotID,
		}, ip, "failure")
		return errors.New("unknown slot")
	}

	override := &SlotOverride{
		EventDate: eventDate,
		SlotType:  slotType,
		SlotID:    slotID,
		Disabled:  disabled,
	}

	if err := s.repo.UpsertOverride(ctx, override); err != nil {
		s.auditSvc.LogAction(ctx, userID, nil, "SLOT_STATUS_UPDATE_FAILED", map[string]interface{}{
			"event_date": eventDate,
			"slot_type":  slotType,
			"slot_id":    slotID,
			"error":      err.Error(),
		}, ip, "failure")
		return err
	}

	action := "SLOT_DISABLED"
	if !disabled {
		action = "SLOT_ENABLED"
	}

	s.auditSvc.LogAction(ctx, userID, nil, action, map[string]interface{}{
		"event_date": eventDate,
		"slot_type":  slotType,
		"slot_id":    slotID,
	}, ip, "success")

	return nil
}

func (s *service) DisabledSlotIDs(ctx context.Context, eventDate, slotType string) ([]int, error) {
	return s.repo.DisabledSlotIDs(ctx, eventDate, slotType)
}
