package notification

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	// Delivery logs
	CreateNotificationLog(ctx context.Context, log *NotificationLog) error
	UpdateNotificationLog(ctx context.Context, log *NotificationLog) error
	ListNotificationLogs(ctx context.Context, bookingID *uint, limit int) ([]NotificationLog, error)

	// In-app notifications
	CreateInApp(ctx context.Context, n *InAppNotification) error
	ListInAppByUser(ctx context.Context, userID uint, limit int) ([]InAppNotification, error)
	MarkInAppAsRead(ctx context.Context, id uint, userID uint) error
	CountUnread(ctx context.Context, userID uint) (int64, error)

	// FCM device tokens
	SaveDeviceToken(ctx context.Context, token *FCMDeviceToken) error
	GetUserDeviceTokens(ctx context.Context, userID uint) ([]string, error)
	GetDeviceTokensByRole(ctx context.Context, roleNames []string) ([]string, error)
	RemoveDeviceToken(ctx context.Context, userID uint, deviceToken string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// ------------------------------
// Delivery logs
// ------------------------------

func (r *repository) CreateNotificationLog(ctx context.Context, log *NotificationLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *repository) UpdateNotificationLog(ctx context.Context, log *NotificationLog) error {
	return r.db.WithContext(ctx).
		Model(&NotificationLog{}).
		Where("id = ?", log.ID).
		Updates(log).Error
}

func (r *repository) ListNotificationLogs(ctx context.Context, bookingID *uint, limit int) ([]NotificationLog, error) {
	var logs []NotificationLog
	q := r.db.WithContext(ctx).Model(&NotificationLog{})
	if bookingID != nil {
		q = q.Where("booking_id = ?", *bookingID)
	}
	if limit <= 0 {
		limit = 50
	}
	err := q.Order("created_at DESC").Limit(limit).Find(&logs).Error
	return logs, err
}

// ------------------------------
// In-app notifications
// ------------------------------

func (r *repository) CreateInApp(ctx context.Context, n *InAppNotification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *repository) ListInAppByUser(ctx context.Context, userID uint, limit int) ([]InAppNotification, error) {
	var items []InAppNotification
	if limit <= 0 {
		limit = 20
	}
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&items).Error
	return items, err
}

func (r *repository) MarkInAppAsRead(ctx context.Context, id uint, userID uint) error {
	return r.db.WithContext(ctx).
		Model(&InAppNotification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true).Error
}

func (r *repository) CountUnread(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&InAppNotification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

// ------------------------------
// FCM device tokens
// ------------------------------

// SaveDeviceToken creates or refreshes a device token
func (r *repository) SaveDeviceToken(ctx context.Context, token *FCMDeviceToken) error {
	var existing FCMDeviceToken
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND device_token = ?", token.UserID, token.DeviceToken).
		First(&existing).Error

	if err == gorm.ErrRecordNotFound {
		token.LastUsedAt = time.Now()
		return r.db.WithContext(ctx).Create(token).Error
	}
	if err != nil {
		return err
	}

	existing.IsActive = true
	existing.LastUsedAt = time.Now()
	existing.DeviceType = token.DeviceType
	existing.DeviceName = token.DeviceName

	return r.db.WithContext(ctx).Save(&existing).Error
}

func (r *repository) GetUserDeviceTokens(ctx context.Context, userID uint) ([]string, error) {
	var tokens []string
	err := r.db.WithContext(ctx).
		Model(&FCMDeviceToken{}).
		Where("user_id = ? AND is_active = ?", userID, true).
		Pluck("device_token", &tokens).Error
	return tokens, err
}

// GetDeviceTokensByRole gets active tokens for users holding any of the
// given roles. Used to push booking alerts to the admin panel.
func (r *repository) GetDeviceTokensByRole(ctx context.Context, roleNames []string) ([]string, error) {
	var tokens []string

	query := `
		SELECT DISTINCT fdt.device_token
		FROM fcm_device_tokens fdt
		INNER JOIN users u ON fdt.user_id = u.id
		INNER JOIN user_roles r ON u.role_id = r.id
		WHERE fdt.is_active = true
		AND r.role_name IN (?)
	`

	err := r.db.WithContext(ctx).Raw(query, roleNames).Scan(&tokens).Error
	return tokens, err
}

// RemoveDeviceToken deactivates a specific device token
func (r *repository) RemoveDeviceToken(ctx context.Context, userID uint, deviceToken string) error {
	return r.db.WithContext(ctx).
		Model(&FCMDeviceToken{}).
		Where("user_id = ? AND device_token = ?", userID, deviceToken).
		Update("is_active", false).Error
}
