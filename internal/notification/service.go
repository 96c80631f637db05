package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"github.com/lagishetty/theater-booking-backend/config"
	"github.com/lagishetty/theater-booking-backend/internal/auditlog"
	"github.com/lagishetty/theater-booking-backend/middleware"
	"github.com/lagishetty/theater-booking-backend/utils"
)

type Service interface {
	// Admin broadcasts
	SendNotification(ctx context.Context, senderID uint, channel, subject, body string, recipients []string, ip string) error
	SendPushToAdmins(ctx context.Context, title, message string) error
	ListNotificationLogs(ctx context.Context, bookingID *uint, limit int) ([]NotificationLog, error)

	// In-app notifications
	CreateInAppNotification(ctx context.Context, userID uint, title, message, category string) error
	ListInAppByUser(ctx context.Context, userID uint, limit int) ([]InAppNotification, error)
	MarkInAppAsRead(ctx context.Context, id uint, userID uint) error
	UnreadCount(ctx context.Context, userID uint) (int64, error)

	// FCM device tokens
	RegisterDeviceToken(ctx context.Context, userID uint, deviceToken, deviceType, deviceName string) error
	RemoveDeviceToken(ctx context.Context, userID uint, deviceToken string) error
}

type service struct {
	repo     Repository
	auditSvc auditlog.Service
	email    *EmailSender
	push     *FCMChannel
}

func NewService(cfg *config.Config, repo Repository, auditSvc auditlog.Service) Service {
	return &service{
		repo:     repo,
		auditSvc: auditSvc,
		email:    NewEmailSender(cfg),
		push:     NewFCMChannel(),
	}
}

// channelFor resolves the transport for an admin broadcast.
func (s *service) channelFor(name string) (Channel, error) {
	switch name {
	case "email":
		return s.email, nil
	case "push":
		return s.push, nil
	default:
		return nil, fmt.Errorf("unsupported channel: %s", name)
	}
}

// SendNotification delivers an ad-hoc admin broadcast and records the
// attempt in notification_logs.
func (s *service) SendNotification(ctx context.Context, senderID uint, channel, subject, body string, recipients []string, ip string) error {
	transport, err := s.channelFor(channel)
	if err != nil {
		return err
	}
	if len(recipients) == 0 {
		return fmt.Errorf("no recipients provided")
	}

	recJSON, _ := json.Marshal(recipients)
	log := &NotificationLog{
		Channel:    channel,
		Subject:    subject,
		Body:       body,
		Recipients: datatypes.JSON(recJSON),
		Status:     "pending",
	}
	if err := s.repo.CreateNotificationLog(ctx, log); err != nil {
		return fmt.Errorf("failed to record notification: %w", err)
	}

	sendErr := transport.Send(recipients, subject, body)
	if sendErr != nil {
		errMsg := sendErr.Error()
		log.Status = "failed"
		log.Error = &errMsg
		fmt.Printf("❌ Broadcast via %s failed: %v\n", channel, sendErr)
	} else {
		log.Status = "sent"
		fmt.Printf("✅ Broadcast via %s sent to %d recipients\n", channel, len(recipients))
	}

	if err := s.repo.UpdateNotificationLog(ctx, log); err != nil {
		fmt.Printf("⚠️ Failed to update notification log %d: %v\n", log.ID, err)
	}

	if s.auditSvc != nil {
		status := "SUCCESS"
		if sendErr != nil {
			status = "FAILURE"
		}
		details := map[string]interface{}{
			"channel":        channel,
			"subject":        subject,
			"recipientCount": len(recipients),
		}
		if err := s.auditSvc.LogAction(ctx, &senderID, nil, "NOTIFICATION_SENT", details, ip, status); err != nil {
			fmt.Printf("⚠️ Audit log failed for broadcast: %v\n", err)
		}
	}

	return sendErr
}

// SendPushToAdmins pushes a booking alert to every active admin and
// staff device. Best effort.
func (s *service) SendPushToAdmins(ctx context.Context, title, message string) error {
	tokens, err := s.repo.GetDeviceTokensByRole(ctx, []string{middleware.RoleAdmin, middleware.RoleStaff})
	if err != nil {
		return fmt.Errorf("failed to load admin device tokens: %w", err)
	}
	if len(tokens) == 0 {
		fmt.Println("⚠️ No admin devices registered for push")
		return nil
	}
	return s.push.Send(tokens, title, message)
}

func (s *service) ListNotificationLogs(ctx context.Context, bookingID *uint, limit int) ([]NotificationLog, error) {
	return s.repo.ListNotificationLogs(ctx, bookingID, limit)
}

// ------------------------------
// In-app notifications
// ------------------------------

// CreateInAppNotification stores a bell notification and publishes it on
// the user's redis channel so open admin sessions update live.
func (s *service) CreateInAppNotification(ctx context.Context, userID uint, title, message, category string) error {
	n := &InAppNotification{
		UserID:   userID,
		Title:    title,
		Message:  message,
		Category: category,
	}
	if err := s.repo.CreateInApp(ctx, n); err != nil {
		return fmt.Errorf("failed to create in-app notification: %w", err)
	}

	if utils.RedisClient != nil {
		payload, _ := json.Marshal(n)
		channel := fmt.Sprintf("notifications:user:%d", userID)
		if err := utils.RedisClient.Publish(ctx, channel, payload).Err(); err != nil {
			fmt.Printf("⚠️ Redis publish failed for %s: %v\n", channel, err)
		}
	}

	return nil
}

func (s *service) ListInAppByUser(ctx context.Context, userID uint, limit int) ([]InAppNotification, error) {
	return s.repo.ListInAppByUser(ctx, userID, limit)
}

func (s *service) MarkInAppAsRead(ctx context.Context, id uint, userID uint) error {
	return s.repo.MarkInAppAsRead(ctx, id, userID)
}

func (s *service) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	return s.repo.CountUnread(ctx, userID)
}

// ------------------------------
// FCM device tokens
// ------------------------------

func (s *service) RegisterDeviceToken(ctx context.Context, userID uint, deviceToken, deviceType, deviceName string) error {
	if deviceToken == "" {
		return fmt.Errorf("device token is required")
	}

	token := &FCMDeviceToken{
		UserID:      userID,
		DeviceToken: deviceToken,
		DeviceType:  deviceType,
		DeviceName:  deviceName,
		IsActive:    true,
	}
	if err := s.repo.SaveDeviceToken(ctx, token); err != nil {
		return fmt.Errorf("failed to save device token: %w", err)
	}

	fmt.Printf("✅ Device token registered for user %d (%s)\n", userID, deviceType)
	return nil
}

func (s *service) RemoveDeviceToken(ctx context.Context, userID uint, deviceToken string) error {
	return s.repo.RemoveDeviceToken(ctx, userID, deviceToken)
}
