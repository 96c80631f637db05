package draft

import (
	"encoding/json"

	"github.com/lagishetty/theater-booking-backend/internal/catalog"
)

// SchemaVersion marks the draft wire format. Bumping it invalidates
// every draft still sitting in redis, which is the intended migration
// path: stale drafts are discarded, not converted.
const SchemaVersion = 1

// BookingDraft is the in-progress selection for one visitor session.
// It lives in redis until the booking confirms or the session resets.
type BookingDraft struct {
	SchemaVersion int `json:"schemaVersion"`

	// Selection
	Date        string            `json:"date"` // YYYY-MM-DD
	SlotType    string            `json:"slotType"`
	Slot        *catalog.TimeSlot `json:"slot,omitempty"`
	StagedCount int               `json:"stagedCount"` // slot selections made on this draft

	// Details
	BookingName      string   `json:"bookingName"`
	People           int      `json:"people"`
	WhatsApp         string   `json:"whatsapp"`
	Email            string   `json:"email"`
	WantDecoration   bool     `json:"wantDecoration"`
	Occasion         string   `json:"occasion"`
	ExtraDecorations []string `json:"extraDecorations"`
	TotalAmount      float64  `json:"totalAmount"`

	TermsAccepted bool `json:"termsAccepted"`
}

// NewDraft returns an empty draft at the current schema version
func NewDraft() *BookingDraft {
	return &BookingDraft{SchemaVersion: SchemaVersion}
}

// decodeDraft parses a stored draft payload. It returns ok=false for
// payloads that are corrupt or written under a different schema
// version; callers treat those as "no draft".
func decodeDraft(payload []byte) (*BookingDraft, bool) {
	var d BookingDraft
	if err := json.Unmarshal(payload, &d); err != nil {
		return nil, false
	}
	if d.SchemaVersion != SchemaVersion {
		return nil, false
	}
	return &d, true
}

// HasStagedSlot reports whether a show window is staged for checkout
func (d *BookingDraft) HasStagedSlot() bool {
	return d != nil && d.Slot != nil && d.Date != "" && d.SlotType != ""
}
