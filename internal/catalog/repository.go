package catalog

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	UpsertOverride(ctx context.Context, override *SlotOverride) error
	ListOverridesByDate(ctx context.Context, eventDate string) ([]SlotOverride, error)
	DisabledSlotIDs(ctx context.Context, eventDate, slotType string) ([]int, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// UpsertOverride inserts or updates the override for (date, slotType, slotID)
func (r *repository) UpsertOverride(ctx context.Context, override *SlotOverride) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "event_date"}, {Name: "slot_type"}, {Name: "slot_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"disabled", "updated_at"}),
		}).
		Create(override).Error
}

// ListOverridesByDate returns all overrides recorded for a date
func (r *repository) ListOverridesByDate(ctx context.Context, eventDate string) ([]SlotOverride, error) {
	var overrides []SlotOverride
	err := r.db.WithContext(ctx).
		Where("event_date = ?", eventDate).
		Order("slot_type, slot_id").
		Find(&overrides).Error
	return overrides, err
}

// DisabledSlotIDs returns catalog slot IDs closed for the date and slot type
func (r *repository) DisabledSlotIDs(ctx context.Context, eventDate, slotType string) ([]int, error) {
	var ids []int
	err := r.db.WithContext(ctx).
		Model(&SlotOverride{}).
		Where("event_date = ? AND slot_type = ? AND disabled = ?", eventDate, slotType, true).
		Pluck("slot_id", &ids).Error
	return ids, err
}
