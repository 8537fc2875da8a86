package devices

import (
	"errors"
	"time"
)

// ErrNotFound is returned by lookups when no device matches.
var ErrNotFound = errors.New("device not found")

// Device represents a single physical device addressed by its MAC.
// It includes GORM tags for database mapping and JSON tags for API responses.
type Device struct {
	ID           uint      `gorm:"primaryKey" json:"id" example:"7"`
	MAC          string    `gorm:"column:mac_address;size:17;uniqueIndex;not null" json:"mac_address" example:"AA:BB:CC:DD:EE:FF"`
	Name         string    `gorm:"size:128" json:"name" example:"living-room-plug"`
	UserID       uint      `gorm:"index;not null" json:"user_id" example:"42"`
	DeviceTypeID uint      `gorm:"not null" json:"device_type_id" example:"1"`
	IsActive     bool      `gorm:"not null" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

// DeviceType names a hardware family. Which commands it accepts is decided
// by the capability Registry, not by the row itself.
type DeviceType struct {
	ID   uint   `gorm:"primaryKey" json:"id" example:"1"`
	Name string `gorm:"size:64;uniqueIndex;not null" json:"name" example:"pzem-relay"`
}

// Label is how the device is presented to humans: its name when set, the MAC otherwise.
func (d Device) Label() string {
	if d.Name != "" {
		return d.Name
	}
	return d.MAC
}
