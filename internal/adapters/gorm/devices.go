package gorm

import (
	"context"
	"errors"

	"device-io/internal/core/devices"
	"device-io/internal/core/users"

	"gorm.io/gorm"
)

type DeviceRepository struct {
	db *gorm.DB
}

func NewDeviceRepository(db *gorm.DB) *DeviceRepository {
	return &DeviceRepository{db: db}
}

// ByMAC expects mac in canonical form.
func (r *DeviceRepository) ByMAC(ctx context.Context, mac string) (*devices.Device, error) {
	var d devices.Device
	err := r.db.WithContext(ctx).Where("mac_address = ?", mac).First(&d).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, devices.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) ByID(ctx context.Context, id uint) (*users.User, error) {
	var u users.User
	err := r.db.WithContext(ctx).First(&u, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, users.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
