package commands

import "errors"

var (
	ErrDeviceNotFound     = errors.New("device not found")
	ErrAccessDenied       = errors.New("device belongs to another user")
	ErrCapabilityMismatch = errors.New("device type does not support this command")
	ErrInvalidAction      = errors.New("invalid command action")
	ErrBrokerUnavailable  = errors.New("broker unavailable")
)
