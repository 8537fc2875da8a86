package users

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("user not found")

// User is the owner side of a device. Only the fields alert delivery needs
// are mapped here.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id" example:"42"`
	Username  string    `gorm:"size:64;uniqueIndex;not null" json:"username" example:"jdoe"`
	Email     string    `gorm:"size:255" json:"email" example:"jdoe@example.com"`
	CreatedAt time.Time `json:"created_at"`
}
