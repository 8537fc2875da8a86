package commands

import (
	"fmt"
	"strings"

	"device-io/internal/core/devices"
)

// Kind selects the command family and with it the capability a device must have.
type Kind string

const (
	KindRelay Kind = "RELAY"
	KindIR    Kind = "IR"
)

const (
	ActionOn  = "ON"
	ActionOff = "OFF"
)

func (k Kind) Capability() devices.Capability {
	if k == KindIR {
		return devices.CapabilityInfrared
	}
	return devices.CapabilityRelay
}

// Request is a caller-facing command: ON/OFF for relays, a raw code for IR.
type Request struct {
	Kind   Kind
	Action string
}

func (r Request) Validate() error {
	switch r.Kind {
	case KindRelay:
		if r.Action != ActionOn && r.Action != ActionOff {
			return fmt.Errorf("%w: relay action must be ON or OFF, got %q", ErrInvalidAction, r.Action)
		}
	case KindIR:
		if strings.TrimSpace(r.Action) == "" {
			return fmt.Errorf("%w: empty IR code", ErrInvalidAction)
		}
	default:
		return fmt.Errorf("%w: unknown command kind %q", ErrInvalidAction, r.Kind)
	}
	return nil
}
