package catalog

import (
	"time"
)

// TimeSlot is one bookable show window within a day
type TimeSlot struct {
	ID        int    `json:"id"`
	StartTime string `json:"time"`     // 12-hour clock, e.g. "10:00 AM"
	EndTime   string `json:"end_time"` // e.g. "12:30 PM"
}

// Package is a theater configuration customers pick before a slot
type Package struct {
	SlotType          string  `json:"slot_type"` // "deluxe" / "rolexe"
	Name              string  `json:"name"`
	BasePrice         float64 `json:"base_price"` // per show, in INR
	MaxPeople         int     `json:"max_people"`
	DecorationIncluded bool   `json:"decoration_included"`
}

// SlotOverride represents the slot_overrides table. Admins use it to
// close a catalog slot for a specific date (maintenance, private events).
type SlotOverride struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	EventDate string    `gorm:"size:10;not null;index:idx_override_slot,unique" json:"event_date"` // YYYY-MM-DD
	SlotType  string    `gorm:"size:20;not null;index:idx_override_slot,unique" json:"slot_type"`
	SlotID    int       `gorm:"not null;index:idx_override_slot,unique" json:"slot_id"`
	Disabled  bool      `gorm:"not null;default:true" json:"disabled"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName overrides table name for SlotOverride
func (SlotOverride) TableName() string {
	return "slot_overrides"
}
