package notification

import (
	"context"
	"fmt"
	"log"

	"firebase.google.com/go/v4/messaging"

	"github.com/lagishetty/theater-booking-backend/utils"
)

// FCMChannel implements the Channel interface for Firebase Cloud Messaging
type FCMChannel struct {
	ctx context.Context
}

// NewFCMChannel returns a push channel backed by the shared Firebase
// client from utils.InitFirebase. When Firebase is not configured the
// channel stays usable and Send reports the missing client.
func NewFCMChannel() *FCMChannel {
	if !utils.IsFCMEnabled() {
		log.Println("⚠️ FCM push channel disabled:", utils.GetInitError())
	}
	return &FCMChannel{ctx: context.Background()}
}

// Send implements Channel. Recipients are FCM device tokens, subject is
// the notification title.
func (f *FCMChannel) Send(recipients []string, subject, body string) error {
	client := utils.GetFCMClient()
	if client == nil {
		return fmt.Errorf("FCM client not initialized")
	}

	if len(recipients) == 0 {
		return fmt.Errorf("no FCM tokens provided")
	}

	if len(recipients) == 1 {
		return f.sendSingle(client, recipients[0], subject, body)
	}
	return f.sendMulticast(client, recipients, subject, body)
}

func (f *FCMChannel) sendSingle(client *messaging.Client, token, title, body string) error {
	message := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				Sound:        "default",
				ChannelID:    "booking_notifications",
				Priority:     messaging.PriorityHigh,
				DefaultSound: true,
			},
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Sound: "default",
					Badge: intPtr(1),
				},
			},
		},
		Webpush: &messaging.WebpushConfig{
			Notification: &messaging.WebpushNotification{
				Title: title,
				Body:  body,
				Icon:  "/icon-192x192.png",
			},
		},
	}

	response, err := client.Send(f.ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send FCM message: %v", err)
	}

	log.Printf("✅ FCM message sent: %s\n", response)
	return nil
}

func (f *FCMChannel) sendMulticast(client *messaging.Client, tokens []string, title, body string) error {
	// FCM allows max 500 tokens per multicast
	batchSize := 500
	var failedTokens []string
	successCount := 0

	for i := 0; i < len(tokens); i += batchSize {
		end := i + batchSize
		if end > len(tokens) {
			end = len(tokens)
		}

		batch := tokens[i:end]
		message := &messaging.MulticastMessage{
			Tokens: batch,
			Notification: &messaging.Notification{
				Title: title,
				Body:  body,
			},
			Android: &messaging.AndroidConfig{
				Priority: "high",
				Notification: &messaging.AndroidNotification{
					Sound:        "default",
					ChannelID:    "booking_notifications",
					Priority:     messaging.PriorityHigh,
					DefaultSound: true,
				},
			},
			APNS: &messaging.APNSConfig{
				Payload: &messaging.APNSPayload{
					Aps: &messaging.Aps{
						Sound: "default",
						Badge: intPtr(1),
					},
				},
			},
			Webpush: &messaging.WebpushConfig{
				Notification: &messaging.WebpushNotification{
					Title: title,
					Body:  body,
					Icon:  "/icon-192x192.png",
				},
			},
		}

		response, err := client.SendMulticast(f.ctx, message)
		if err != nil {
			log.Printf("❌ FCM multicast batch failed: %v\n", err)
			failedTokens = append(failedTokens, batch...)
			continue
		}

		successCount += response.SuccessCount
		log.Printf("✅ FCM multicast: %d/%d messages sent\n", response.SuccessCount, len(batch))

		if response.FailureCount > 0 {
			for idx, resp := range response.Responses {
				if !resp.Success {
					failedTokens = append(failedTokens, batch[idx])
				}
			}
		}
	}

	if len(failedTokens) > 0 {
		return fmt.Errorf("failed to send to %d/%d tokens", len(failedTokens), len(tokens))
	}

	log.Printf("✅ All FCM messages sent: %d tokens\n", successCount)
	return nil
}

func intPtr(i int) *int {
	return &i
}

// SendToTopic broadcasts to every device subscribed to an FCM topic.
func (f *FCMChannel) SendToTopic(topic, title, body string) error {
	client := utils.GetFCMClient()
	if client == nil {
		return fmt.Errorf("FCM client not initialized")
	}

	message := &messaging.Message{
		Topic: topic,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Android: &messaging.AndroidConfig{
			Priority: "high",
		},
	}

	response, err := client.Send(f.ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send topic message: %v", err)
	}

	log.Printf("✅ FCM topic message sent: %s\n", response)
	return nil
}

// SubscribeToTopic subscribes device tokens to a topic.
func (f *FCMChannel) SubscribeToTopic(tokens []string, topic string) error {
	client := utils.GetFCMClient()
	if client == nil {
		return fmt.Errorf("FCM client not initialized")
	}

	response, err := client.SubscribeToTopic(f.ctx, tokens, topic)
	if err != nil {
		return fmt.Errorf("failed to subscribe to topic: %v", err)
	}

	log.Printf("✅ Subscribed %d tokens to topic '%s' (failures: %d)\n",
		response.SuccessCount, topic, response.FailureCount)
	return nil
}
