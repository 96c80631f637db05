package booking

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
)

// BookingFilter narrows admin booking listings
type BookingFilter struct {
	EventDate string
	FromDate  string
	ToDate    string
	Search    string // matches booking name, email, whatsapp
	Limit     int
	Offset    int
}

type Repository interface {
	Create(ctx context.Context, b *Booking) error
	BookedSlotIDs(ctx context.Context, eventDate, slotType string) ([]int, error)
	GetByID(ctx context.Context, slotType string, id uint) (*Booking, error)
	List(ctx context.Context, slotType string, filter BookingFilter) ([]Booking, int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// Create writes the booking into its package table. A second booking
// on the same (event_date, slot_id) trips the unique index and maps to
// ErrSlotTaken.
func (r *repository) Create(ctx context.Context, b *Booking) error {
	table, err := TableFor(b.SlotType)
	if err != nil {
		return err
	}

	err = r.db.WithContext(ctx).Table(table).Create(b).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "duplicate key") {
			return ErrSlotTaken
		}
		return err
	}
	return nil
}

// BookedSlotIDs returns the slot IDs taken on a date for a package
func (r *repository) BookedSlotIDs(ctx context.Context, eventDate, slotType string) ([]int, error) {
	table, err := TableFor(slotType)
	if err != nil {
		return nil, err
	}

	var ids []int
	err = r.db.WithContext(ctx).
		Table(table).
		Where("event_date = ? AND status = ?", eventDate, StatusBooked).
		Pluck("slot_id", &ids).Error
	return ids, err
}

func (r *repository) GetByID(ctx context.Context, slotType string, id uint) (*Booking, error) {
	table, err := TableFor(slotType)
	if err != nil {
		return nil, err
	}

	var b Booking
	if err := r.db.WithContext(ctx).Table(table).First(&b, id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

// List returns bookings for a package with filters and pagination
func (r *repository) List(ctx context.Context, slotType string, filter BookingFilter) ([]Booking, int64, error) {
	table, err := TableFor(slotType)
	if err != nil {
		return nil, 0, err
	}

	query := r.db.WithContext(ctx).Table(table)

	if filter.EventDate != "" {
		query = query.Where("event_date = ?", filter.EventDate)
	}
	if filter.FromDate != "" {
		query = query.Where("event_date >= ?", filter.FromDate)
	}
	if filter.ToDate != "" {
		query = query.Where("event_date <= ?", filter.ToDate)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("booking_name ILIKE ? OR email ILIKE ? OR whats_app ILIKE ?", like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	var bookings []Booking
	err = query.Order("event_date DESC, slot_id").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&bookings).Error
	if err != nil {
		return nil, 0, err
	}

	return bookings, total, nil
}
