package notification

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

type memoryLogRepo struct {
	mu   sync.Mutex
	logs []NotificationLog
}

func (m *memoryLogRepo) CreateNotificationLog(_ context.Context, log *NotificationLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	log.ID = uint(len(m.logs) + 1)
	m.logs = append(m.logs, *log)
	return nil
}

func (m *memoryLogRepo) UpdateNotificationLog(context.Context, *NotificationLog) error { return nil }
func (m *memoryLogRepo) ListNotificationLogs(context.Context, *uint, int) ([]NotificationLog, error) {
	return nil, nil
}
func (m *memoryLogRepo) CreateInApp(context.Context, *InAppNotification) error { return nil }
func (m *memoryLogRepo) ListInAppByUser(context.Context, uint, int) ([]InAppNotification, error) {
	return nil, nil
}
func (m *memoryLogRepo) MarkInAppAsRead(context.Context, uint, uint) error    { return nil }
func (m *memoryLogRepo) CountUnread(context.Context, uint) (int64, error)     { return 0, nil }
func (m *memoryLogRepo) SaveDeviceToken(context.Context, *FCMDeviceToken) error { return nil }
func (m *memoryLogRepo) GetUserDeviceTokens(context.Context, uint) ([]string, error) {
	return nil, nil
}
func (m *memoryLogRepo) GetDeviceTokensByRole(context.Context, []string) ([]string, error) {
	return nil, nil
}
func (m *memoryLogRepo) RemoveDeviceToken(context.Context, uint, string) error { return nil }

func (m *memoryLogRepo) byChannel(channel string) *NotificationLog {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.logs {
		if m.logs[i].Channel == channel {
			return &m.logs[i]
		}
	}
	return nil
}

func testEvent() BookingEvent {
	return BookingEvent{
		BookingID:       42,
		BookingName:     "Ravi",
		EventDate:       "2025-11-20",
		SlotType:        "deluxe",
		SlotTime:        "10:00 AM - 12:30 PM",
		People:          4,
		Email:           "ravi@example.com",
		WhatsApp:        "9876543210",
		Occasion:        "birthday",
		TotalAmount:     3097,
		AdvanceAmount:   1020,
		RemainingAmount: 2077,
		PaymentID:       "pay_test123",
	}
}

func TestDispatcherFansOutToRelays(t *testing.T) {
	var mu sync.Mutex
	bodies := map[string][]byte{}

	handler := func(name string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			body, _ := io.ReadAll(r.Body)
			mu.Lock()
			bodies[name] = body
			mu.Unlock()
			w.WriteHeader(http.StatusOK)
		}
	}

	sheetSrv := httptest.NewServer(handler("sheet"))
	defer sheetSrv.Close()
	formSrv := httptest.NewServer(handler("form"))
	defer formSrv.Close()
	waSrv := httptest.NewServer(handler("whatsapp"))
	defer waSrv.Close()

	repo := &memoryLogRepo{}
	d := &dispatcher{
		repo: repo,
		channels: []bookingChannel{
			&sheetChannel{url: sheetSrv.URL},
			&formRelayChannel{url: formSrv.URL},
			&whatsAppChannel{url: waSrv.URL},
		},
	}

	d.DispatchBookingConfirmed(context.Background(), testEvent())

	mu.Lock()
	defer mu.Unlock()

	var sheetPayload struct {
		Data []map[string]interface{} `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(bodies["sheet"], &sheetPayload))
	assert.Len(t, sheetPayload.Data, 1)
	assert.Equal(t, "Ravi", sheetPayload.Data[0]["bookingName"])
	assert.Equal(t, "pay_test123", sheetPayload.Data[0]["paymentId"])

	var formPayload map[string]interface{}
	assert.NoError(t, json.Unmarshal(bodies["form"], &formPayload))
	assert.Equal(t, "2025-11-20", formPayload["date"])
	assert.Equal(t, "deluxe", formPayload["slotType"])

	var waPayload map[string]interface{}
	assert.NoError(t, json.Unmarshal(bodies["whatsapp"], &waPayload))
	assert.Equal(t, "+919876543210", waPayload["to"])
	assert.Equal(t, "10:00 AM - 12:30 PM", waPayload["time"])

	assert.Len(t, repo.logs, 3)
	for _, log := range repo.logs {
		assert.Equal(t, "sent", log.Status)
		assert.Equal(t, uint(42), *log.BookingID)
	}
}

func TestDispatcherChannelFailureIsLoggedNotFatal(t *testing.T) {
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer failing.Close()

	ok := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer ok.Close()

	repo := &memoryLogRepo{}
	d := &dispatcher{
		repo: repo,
		channels: []bookingChannel{
			&sheetChannel{url: failing.URL},
			&whatsAppChannel{url: ok.URL},
		},
	}

	// must not panic or error out even when a channel fails
	d.DispatchBookingConfirmed(context.Background(), testEvent())

	sheetLog := repo.byChannel("sheet")
	assert.NotNil(t, sheetLog)
	assert.Equal(t, "failed", sheetLog.Status)
	assert.NotNil(t, sheetLog.Error)

	waLog := repo.byChannel("whatsapp")
	assert.NotNil(t, waLog)
	assert.Equal(t, "sent", waLog.Status)
}

func TestWhatsAppChannelSkipsEmptyNumber(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	ch := &whatsAppChannel{url: srv.URL}
	ev := testEvent()
	ev.WhatsApp = ""

	assert.NoError(t, ch.SendBooking(context.Background(), ev))
	assert.False(t, called)
}
