package gorm

import (
	"fmt"

	"device-io/internal/core/devices"
	"device-io/internal/core/notifications"
	"device-io/internal/core/users"

	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlog "gorm.io/gorm/logger"
)

// New opens the relational store and, when migrate is set, creates the
// tables this service reads and writes.
func New(dsn string, migrate bool, lg zerolog.Logger) (*gorm.DB, error) {
	// Configure GORM's logger to use Zerolog
	gormLogger := gormlog.New(
		&lg,
		gormlog.Config{
			SlowThreshold:             0,
			LogLevel:                  gormlog.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("gorm open: %w", err)
	}

	if migrate {
		if err := db.AutoMigrate(
			&users.User{},
			&devices.DeviceType{},
			&devices.Device{},
			&notifications.Notification{},
		); err != nil {
			return nil, fmt.Errorf("gorm migrate: %w", err)
		}
		lg.Info().Msg("database migration successful")
	}

	return db, nil
}
