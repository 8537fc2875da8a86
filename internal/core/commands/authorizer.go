package commands

import (
	"context"
	"errors"
	"fmt"

	"device-io/internal/core/devices"
)

type DeviceFinder interface {
	ByMAC(ctx context.Context, mac string) (*devices.Device, error)
}

// Authorizer checks that a user may send a given kind of command to a device.
type Authorizer struct {
	devices  DeviceFinder
	registry *devices.Registry
}

func NewAuthorizer(finder DeviceFinder, registry *devices.Registry) *Authorizer {
	return &Authorizer{devices: finder, registry: registry}
}

// Authorize resolves mac and returns the device when userID owns it and its
// type carries the capability k requires. It has no side effects.
func (a *Authorizer) Authorize(ctx context.Context, mac string, userID uint, k Kind) (*devices.Device, error) {
	dev, err := a.devices.ByMAC(ctx, mac)
	if errors.Is(err, devices.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrDeviceNotFound, mac)
	}
	if err != nil {
		return nil, fmt.Errorf("lookup device %s: %w", mac, err)
	}
	if dev.UserID != userID {
		return nil, ErrAccessDenied
	}
	if !a.registry.Supports(dev.DeviceTypeID, k.Capability()) {
		return nil, fmt.Errorf("%w: device type %d lacks %s", ErrCapabilityMismatch, dev.DeviceTypeID, k.Capability())
	}
	return dev, nil
}
