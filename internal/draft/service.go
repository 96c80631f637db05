package draft

import (
	"context"
	"errors"
	"time"

	"github.com/lagishetty/theater-booking-backend/internal/availability"
	"github.com/lagishetty/theater-booking-backend/internal/catalog"
)

var (
	ErrInvalidDate       = errors.New("invalid date, expected YYYY-MM-DD")
	ErrInvalidSlotType   = errors.New("invalid slot type")
	ErrNoPackageSelected = errors.New("select a date and package first")
	ErrSlotNotBookable   = errors.New("slot is not available for booking")
	ErrTooManySelections = errors.New("too many slot selections, start over to pick again")
	ErrTooManyPeople     = errors.New("party size exceeds the package limit")
	ErrUnknownAddon      = errors.New("unknown extra decoration")
)

// Selections staged beyond this count block checkout until the draft
// is reset, mirroring the front-desk rule of one party per show.
const maxStagedSelections = 2

type DetailsInput struct {
	BookingName      string
	People           int
	WhatsApp         string
	Email            string
	WantDecoration   bool
	Occasion         string
	ExtraDecorations []string
}

type Service interface {
	Get(ctx context.Context, sessionID string) (*BookingDraft, error)
	SelectDate(ctx context.Context, sessionID, date string) (*BookingDraft, error)
	SelectPackage(ctx context.Context, sessionID, slotType string) (*BookingDraft, error)
	SelectSlot(ctx context.Context, sessionID string, slotID int, now time.Time) (*BookingDraft, error)
	SetDetails(ctx context.Context, sessionID string, in DetailsInput) (*BookingDraft, error)
	AcceptTerms(ctx context.Context, sessionID string, accepted bool) (*BookingDraft, error)
	Clear(ctx context.Context, sessionID string) error
}

type service struct {
	store   Store
	availSvc availability.Service
}

func NewService(store Store, availSvc availability.Service) Service {
	return &service{
		store:   store,
		availSvc: availSvc,
	}
}

func (s *service) load(ctx context.Context, sessionID string) (*BookingDraft, error) {
	d, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if d == nil {
		d = NewDraft()
	}
	return d, nil
}

func (s *service) Get(ctx context.Context, sessionID string) (*BookingDraft, error) {
	return s.load(ctx, sessionID)
}

// SelectDate starts or restarts a selection. Everything downstream of
// the date resets; contact fields survive so returning visitors don't
// retype them.
func (s *service) SelectDate(ctx context.Context, sessionID, date string) (*BookingDraft, error) {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, ErrInvalidDate
	}

	d, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	d.Date = date
	d.SlotType = ""
	d.Slot = nil
	d.StagedCount = 0
	d.TotalAmount = 0
	d.TermsAccepted = false

	if err := s.store.Save(ctx, sessionID, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *service) SelectPackage(ctx context.Context, sessionID, slotType string) (*BookingDraft, error) {
	if !catalog.IsValidSlotType(slotType) {
		return nil, ErrInvalidSlotType
	}

	d, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if d.Date == "" {
		return nil, ErrNoPackageSelected
	}

	if d.SlotType != slotType {
		d.Slot = nil
		d.TotalAmount = 0
	}
	d.SlotType = slotType

	if err := s.store.Save(ctx, sessionID, d); err != nil {
		return nil, err
	}
	return d, nil
}

// SelectSlot stages a show window for checkout. A new selection
// replaces the previous one; the replaced slot still counts against
// the per-draft cap.
func (s *service) SelectSlot(ctx context.Context, sessionID string, slotID int, now time.Time) (*BookingDraft, error) {
	d, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if d.Date == "" || d.SlotType == "" {
		return nil, ErrNoPackageSelected
	}
	if d.StagedCount >= maxStagedSelections {
		return nil, ErrTooManySelections
	}

	statuses, err := s.availSvc.Check(ctx, d.Date, d.SlotType, now)
	if err != nil {
		return nil, err
	}

	var chosen *availability.SlotStatus
	for i := range statuses {
		if statuses[i].Slot.ID == slotID {
			chosen = &statuses[i]
			break
		}
	}
	if chosen == nil || !chosen.Bookable {
		return nil, ErrSlotNotBookable
	}

	slot := chosen.Slot
	d.Slot = &slot
	d.StagedCount++

	if err := s.store.Save(ctx, sessionID, d); err != nil {
		return nil, err
	}
	return d, nil
}

// SetDetails records the party details and reprices the draft from the
// catalog. Client-supplied totals are ignored.
func (s *service) SetDetails(ctx context.Context, sessionID string, in DetailsInput) (*BookingDraft, error) {
	d, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !d.HasStagedSlot() {
		return nil, ErrNoPackageSelected
	}

	pkg, ok := catalog.PackageByType(d.SlotType)
	if !ok {
		return nil, ErrInvalidSlotType
	}
	if in.People < 1 || in.People > pkg.MaxPeople {
		return nil, ErrTooManyPeople
	}

	total := pkg.BasePrice
	for _, name := range in.ExtraDecorations {
		price, ok := catalog.AddonPrice(name)
		if !ok {
			return nil, ErrUnknownAddon
		}
		total += price
	}

	d.BookingName = in.BookingName
	d.People = in.People
	d.WhatsApp = in.WhatsApp
	d.Email = in.Email
	d.WantDecoration = in.WantDecoration
	d.Occasion = in.Occasion
	d.ExtraDecorations = in.ExtraDecorations
	d.TotalAmount = total

	if err := s.store.Save(ctx, sessionID, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *service) AcceptTerms(ctx context.Context, sessionID string, accepted bool) (*BookingDraft, error) {
	d, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !d.HasStagedSlot() {
		return nil, ErrNoPackageSelected
	}

	d.TermsAccepted = accepted

	if err := s.store.Save(ctx, sessionID, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *service) Clear(ctx context.Context, sessionID string) error {
	return s.store.Delete(ctx, sessionID)
}
