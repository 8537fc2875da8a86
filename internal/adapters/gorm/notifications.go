package gorm

import (
	"context"
	"errors"

	"device-io/internal/core/notifications"

	"gorm.io/gorm"
)

const defaultListLimit = 50

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *notifications.Notification) error {
	n.IsRead = false
	return r.db.WithContext(ctx).Create(n).Error
}

// ListByUser returns newest first.
func (r *NotificationRepository) ListByUser(ctx context.Context, userID uint, f notifications.ListFilter) ([]notifications.Notification, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if f.UnreadOnly {
		q = q.Where("is_read = ?", false)
	}
	var out []notifications.Notification
	err := q.Order("created_at DESC").Order("id DESC").Limit(limit).Find(&out).Error
	return out, err
}

func (r *NotificationRepository) CountUnread(ctx context.Context, userID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&notifications.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&n).Error
	return n, err
}

func (r *NotificationRepository) SetRead(ctx context.Context, userID, id uint, read bool) (*notifications.Notification, error) {
	res := r.db.WithContext(ctx).
		Model(&notifications.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", read)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, notifications.ErrNotFound
	}

	var n notifications.Notification
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&n).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notifications.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID uint) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&notifications.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}
