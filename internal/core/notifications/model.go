package notifications

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("notification not found")

// Notification is the persisted, user-facing record of an alert. It is
// written once and afterwards only its read flag changes.
type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id" example:"11"`
	UserID    uint      `gorm:"index;not null" json:"user_id" example:"42"`
	DeviceID  *uint     `gorm:"index" json:"device_id,omitempty" example:"7"`
	Message   string    `gorm:"type:text;not null" json:"message" example:"[TIMEOUT] device offline"`
	IsRead    bool      `gorm:"not null" json:"is_read"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

type ListFilter struct {
	UnreadOnly bool
	Limit      int
}

// Store is the persistence surface for notifications.
type Store interface {
	Create(ctx context.Context, n *Notification) error
	ListByUser(ctx context.Context, userID uint, f ListFilter) ([]Notification, error)
	CountUnread(ctx context.Context, userID uint) (int64, error)
	// SetRead flips the read flag of one of userID's notifications.
	// ErrNotFound when the id does not exist or belongs to someone else.
	SetRead(ctx context.Context, userID, id uint, read bool) (*Notification, error)
	MarkAllRead(ctx context.Context, userID uint) (int64, error)
}
