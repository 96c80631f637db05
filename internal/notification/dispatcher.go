package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"gorm.io/datatypes"

	"github.com/lagishetty/theater-booking-backend/config"
)

// BookingEvent carries everything the outbound channels need about a
// freshly confirmed booking.
type BookingEvent struct {
	BookingID       uint    `json:"booking_id"`
	BookingName     string  `json:"booking_name"`
	EventDate       string  `json:"event_date"`
	SlotType        string  `json:"slot_type"`
	SlotTime        string  `json:"slot_time"`
	People          int     `json:"people"`
	Email           string  `json:"email"`
	WhatsApp        string  `json:"whatsapp"`
	Occasion        string  `json:"occasion"`
	TotalAmount     float64 `json:"total_amount"`
	AdvanceAmount   float64 `json:"advance_amount"`
	RemainingAmount float64 `json:"remaining_amount"`
	PaymentID       string  `json:"payment_id"`
	PaymentStatus   string  `json:"payment_status"`
}

// bookingChannel is one outbound leg of the confirmation fan-out
type bookingChannel interface {
	Name() string
	SendBooking(ctx context.Context, ev BookingEvent) error
}

// Dispatcher fans a confirmed booking out to every configured channel.
// Delivery is best effort: all channels run concurrently, failures are
// logged and never bubble into the booking flow.
type Dispatcher interface {
	DispatchBookingConfirmed(ctx context.Context, ev BookingEvent)
}

type dispatcher struct {
	repo     Repository
	channels []bookingChannel
}

func NewDispatcher(cfg *config.Config, repo Repository) Dispatcher {
	d := &dispatcher{repo: repo}

	d.channels = append(d.channels, &emailBookingChannel{sender: NewEmailSender(cfg)})
	if cfg.SheetLogURL != "" {
		d.channels = append(d.channels, &sheetChannel{url: cfg.SheetLogURL})
	}
	if cfg.FormRelayURL != "" {
		d.channels = append(d.channels, &formRelayChannel{url: cfg.FormRelayURL})
	}
	if cfg.WhatsAppRelayURL != "" {
		d.channels = append(d.channels, &whatsAppChannel{url: cfg.WhatsAppRelayURL})
	}

	return d
}

func (d *dispatcher) DispatchBookingConfirmed(ctx context.Context, ev BookingEvent) {
	var wg sync.WaitGroup

	for _, ch := range d.channels {
		wg.Add(1)
		go func(ch bookingChannel) {
			defer wg.Done()

			err := ch.SendBooking(ctx, ev)
			d.logDelivery(ctx, ch.Name(), ev, err)

			if err != nil {
				fmt.Printf("❌ %s notification failed for booking %d: %v\n", ch.Name(), ev.BookingID, err)
			} else {
				fmt.Printf("✅ %s notification sent for booking %d\n", ch.Name(), ev.BookingID)
			}
		}(ch)
	}

	wg.Wait()
}

func (d *dispatcher) logDelivery(ctx context.Context, channel string, ev BookingEvent, sendErr error) {
	recipients, _ := json.Marshal([]string{recipientFor(channel, ev)})

	log := &NotificationLog{
		BookingID:  &ev.BookingID,
		Channel:    channel,
		Subject:    "Booking Confirmation",
		Body:       confirmationMessage(ev),
		Recipients: datatypes.JSON(recipients),
		Status:     "sent",
	}
	if sendErr != nil {
		errMsg := sendErr.Error()
		log.Status = "failed"
		log.Error = &errMsg
	}

	if err := d.repo.CreateNotificationLog(ctx, log); err != nil {
		fmt.Printf("❌ Failed to record notification log: %v\n", err)
	}
}

func recipientFor(channel string, ev BookingEvent) string {
	switch channel {
	case "email":
		return ev.Email
	case "whatsapp":
		return "+91" + ev.WhatsApp
	default:
		return channel
	}
}

func confirmationMessage(ev BookingEvent) string {
	return fmt.Sprintf(
		"Your theater booking is confirmed! %s on %s, %s. Party of %d. Advance paid: ₹%.2f, balance at the venue: ₹%.2f.",
		ev.BookingName, ev.EventDate, ev.SlotTime, ev.People, ev.AdvanceAmount, ev.RemainingAmount,
	)
}

// ------------------------------
// Email
// ------------------------------

type emailBookingChannel struct {
	sender *EmailSender
}

func (c *emailBookingChannel) Name() string { return "email" }

func (c *emailBookingChannel) SendBooking(ctx context.Context, ev BookingEvent) error {
	if ev.Email == "" {
		return nil
	}
	return c.sender.Send([]string{ev.Email}, "Booking Confirmation", confirmationMessage(ev))
}

// ------------------------------
// HTTP relay channels
// ------------------------------

var relayClient = &http.Client{Timeout: 10 * time.Second}

func postJSON(ctx context.Context, url string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := relayClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("relay returned status %d", resp.StatusCode)
	}
	return nil
}

// sheetChannel appends a row to the office booking register
type sheetChannel struct {
	url string
}

func (c *sheetChannel) Name() string { return "sheet" }

func (c *sheetChannel) SendBooking(ctx context.Context, ev BookingEvent) error {
	row := map[string]interface{}{
		"bookingName": ev.BookingName,
		"date":        ev.EventDate,
		"slotType":    ev.SlotType,
		"time":        ev.SlotTime,
		"people":      ev.People,
		"email":       ev.Email,
		"whatsapp":    ev.WhatsApp,
		"occasion":    ev.Occasion,
		"total":       ev.TotalAmount,
		"advance":     ev.AdvanceAmount,
		"remaining":   ev.RemainingAmount,
		"paymentId":   ev.PaymentID,
	}

	return postJSON(ctx, c.url, map[string]interface{}{
		"data": []map[string]interface{}{row},
	})
}

// formRelayChannel posts the office copy through the form backend
type formRelayChannel struct {
	url string
}

func (c *formRelayChannel) Name() string { return "form" }

func (c *formRelayChannel) SendBooking(ctx context.Context, ev BookingEvent) error {
	return postJSON(ctx, c.url, map[string]interface{}{
		"bookingName": ev.BookingName,
		"date":        ev.EventDate,
		"slot":        ev.SlotTime,
		"slotType":    ev.SlotType,
		"people":      ev.People,
		"email":       ev.Email,
		"whatsapp":    ev.WhatsApp,
		"occasion":    ev.Occasion,
		"totalAmount": ev.TotalAmount,
		"paymentId":   ev.PaymentID,
	})
}

// whatsAppChannel pushes the customer confirmation through the
// WhatsApp gateway
type whatsAppChannel struct {
	url string
}

func (c *whatsAppChannel) Name() string { return "whatsapp" }

func (c *whatsAppChannel) SendBooking(ctx context.Context, ev BookingEvent) error {
	if ev.WhatsApp == "" {
		return nil
	}

	return postJSON(ctx, c.url, map[string]interface{}{
		"to":      "+91" + ev.WhatsApp,
		"date":    ev.EventDate,
		"time":    ev.SlotTime,
		"message": confirmationMessage(ev),
	})
}
