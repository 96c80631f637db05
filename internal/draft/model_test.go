package draft

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lagishetty/theater-booking-backend/internal/catalog"
)

func TestDecodeDraftRoundTrip(t *testing.T) {
	original := NewDraft()
	original.Date = "2025-11-20"
	original.SlotType = catalog.SlotTypeDeluxe
	original.Slot = &catalog.TimeSlot{ID: 4, StartTime: "7:00 PM", EndTime: "9:30 PM"}
	original.BookingName = "Asha"
	original.People = 4
	original.TotalAmount = 3097
	original.TermsAccepted = true

	payload, err := json.Marshal(original)
	assert.NoError(t, err)

	decoded, ok := decodeDraft(payload)
	assert.True(t, ok)
	assert.Equal(t, original, decoded)
}

func TestDecodeDraftDiscardsOtherSchemaVersions(t *testing.T) {
	stale := NewDraft()
	stale.SchemaVersion = SchemaVersion + 1
	stale.Date = "2025-11-20"

	payload, err := json.Marshal(stale)
	assert.NoError(t, err)

	decoded, ok := decodeDraft(payload)
	assert.False(t, ok)
	assert.Nil(t, decoded)
}

func TestDecodeDraftDiscardsCorruptPayload(t *testing.T) {
	decoded, ok := decodeDraft([]byte("{not json"))
	assert.False(t, ok)
	assert.Nil(t, decoded)
}
