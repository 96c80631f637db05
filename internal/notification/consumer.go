package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/lagishetty/theater-booking-backend/internal/auth"
	"github.com/lagishetty/theater-booking-backend/utils"
)

// StartKafkaConsumer tails the booking-events topic and turns each
// confirmed booking into bell notifications plus a push for the staff
// devices. Runs until ctx is cancelled.
func StartKafkaConsumer(ctx context.Context, svc Service, authRepo auth.Repository) {
	reader := utils.NewEventReader("notification-workers")

	go func() {
		defer reader.Close()
		fmt.Println("✅ Notification consumer started")

		for {
			msg, err := reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				fmt.Printf("❌ Kafka read failed: %v\n", err)
				continue
			}

			var ev BookingEvent
			if err := json.Unmarshal(msg.Value, &ev); err != nil {
				fmt.Printf("⚠️ Skipping unreadable booking event (key=%s): %v\n", string(msg.Key), err)
				continue
			}

			handleBookingEvent(ctx, svc, authRepo, ev)
		}
	}()
}

func handleBookingEvent(ctx context.Context, svc Service, authRepo auth.Repository, ev BookingEvent) {
	title := "New Booking Confirmed"
	message := fmt.Sprintf("%s booked the %s slot (%s) on %s for %d guests.",
		ev.BookingName, ev.SlotType, ev.SlotTime, ev.EventDate, ev.People)

	staff, err := authRepo.ListStaff()
	if err != nil {
		fmt.Printf("❌ Failed to list staff for booking alert: %v\n", err)
	} else {
		for _, u := range staff {
			if err := svc.CreateInAppNotification(ctx, u.ID, title, message, "booking"); err != nil {
				fmt.Printf("⚠️ In-app notification failed for user %d: %v\n", u.ID, err)
			}
		}
	}

	if err := svc.SendPushToAdmins(ctx, title, message); err != nil {
		fmt.Printf("⚠️ Push to staff devices failed: %v\n", err)
	}
}
