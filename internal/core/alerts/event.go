package alerts

import (
	"errors"
	"fmt"
	"strings"

	"device-io/internal/core/devices"
)

var (
	ErrInvalidEvent  = errors.New("invalid alert event")
	ErrResolution    = errors.New("alert resolution failure")
	ErrEmailDelivery = errors.New("email delivery failure")
)

type ErrorType string

const (
	TypeTimeout     ErrorType = "TIMEOUT"
	TypeOffline     ErrorType = "OFFLINE"
	TypeError       ErrorType = "ERROR"
	TypeWarning     ErrorType = "WARNING"
	TypeCritical    ErrorType = "CRITICAL"
	TypeMaintenance ErrorType = "MAINTENANCE"
)

var errorTypes = []ErrorType{TypeTimeout, TypeOffline, TypeError, TypeWarning, TypeCritical, TypeMaintenance}

func (t ErrorType) Valid() bool {
	for _, v := range errorTypes {
		if t == v {
			return true
		}
	}
	return false
}

// Event is a fault reported by a device.
type Event struct {
	MAC       string    `json:"mac" example:"CC:DB:A7:2F:AE:B0"`
	ErrorType ErrorType `json:"error_type" example:"TIMEOUT" enums:"TIMEOUT,OFFLINE,ERROR,WARNING,CRITICAL,MAINTENANCE"`
	Message   string    `json:"message" example:"device offline"`
}

// Normalize canonicalizes the MAC and rejects events that cannot be processed.
func (e *Event) Normalize() error {
	mac, err := devices.NormalizeMAC(e.MAC)
	if err != nil {
		return fmt.Errorf("%w: mac %q", ErrInvalidEvent, e.MAC)
	}
	e.MAC = mac
	e.ErrorType = ErrorType(strings.ToUpper(strings.TrimSpace(string(e.ErrorType))))
	if !e.ErrorType.Valid() {
		return fmt.Errorf("%w: error_type %q", ErrInvalidEvent, e.ErrorType)
	}
	e.Message = strings.TrimSpace(e.Message)
	if e.Message == "" {
		return fmt.Errorf("%w: empty message", ErrInvalidEvent)
	}
	return nil
}

// NotificationMessage is the text persisted for the alert.
func (e Event) NotificationMessage() string {
	return "[" + string(e.ErrorType) + "] " + e.Message
}

// Result reports what ingestion did. Failures are described, never raised.
type Result struct {
	Success        bool   `json:"success"`
	MAC            string `json:"mac,omitempty"`
	NotificationID *uint  `json:"notification_id,omitempty"`
	DeviceID       *uint  `json:"device_id,omitempty"`
	UserID         *uint  `json:"user_id,omitempty"`
	EmailSent      *bool  `json:"email_sent,omitempty"`
	Error          string `json:"error,omitempty"`
}
