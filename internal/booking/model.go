package booking

import (
	"fmt"
	"time"

	"gorm.io/datatypes"

	"github.com/lagishetty/theater-booking-backend/internal/catalog"
)

// Booking statuses
const (
	StatusBooked = "booked"
)

// Payment statuses
const (
	PaymentPartial   = "partial"   // advance collected online, balance due at the venue
	PaymentCompleted = "completed" // settled in full
	PaymentOffline   = "offline"   // recorded at the desk, no online payment
)

// Booking represents one confirmed show reservation. Records are
// partitioned per package into deluxe_bookings / rolexe_bookings.
type Booking struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	BookingName      string         `gorm:"size:255;not null" json:"booking_name"`
	People           int            `gorm:"not null" json:"people"`
	WhatsApp         string         `gorm:"size:15" json:"whatsapp"`
	Email            string         `gorm:"size:255" json:"email"`
	WantDecoration   bool           `json:"want_decoration"`
	Occasion         string         `gorm:"size:100" json:"occasion"`
	ExtraDecorations datatypes.JSON `gorm:"type:jsonb" json:"extra_decorations"`

	EventDate string `gorm:"size:10;not null;index:idx_event_slot,unique" json:"event_date"` // YYYY-MM-DD
	SlotType  string `gorm:"size:20;not null" json:"slot_type"`
	SlotID    int    `gorm:"not null;index:idx_event_slot,unique" json:"slot_id"`
	SlotTime  string `gorm:"size:30" json:"slot_time"` // printed window, e.g. "7:00 PM - 9:30 PM"

	TotalAmount     float64 `gorm:"not null" json:"total_amount"`
	AdvanceAmount   float64 `json:"advance_amount"`
	RemainingAmount float64 `json:"remaining_amount"`

	Status        string `gorm:"size:20;not null;default:booked" json:"status"`
	PaymentStatus string `gorm:"size:20;not null" json:"payment_status"` // partial/completed/offline

	RazorpayOrderID   string `gorm:"size:64" json:"razorpay_order_id"`
	RazorpayPaymentID string `gorm:"size:64;index" json:"razorpay_payment_id"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableFor returns the booking table for a package slot type
func TableFor(slotType string) (string, error) {
	switch slotType {
	case catalog.SlotTypeDeluxe:
		return "deluxe_bookings", nil
	case catalog.SlotTypeRolexe:
		return "rolexe_bookings", nil
	default:
		return "", fmt.Errorf("no booking table for slot type %q", slotType)
	}
}

// SlotWindow formats a catalog slot the way it appears on receipts
func SlotWindow(slot catalog.TimeSlot) string {
	return fmt.Sprintf("%s - %s", slot.StartTime, slot.EndTime)
}
