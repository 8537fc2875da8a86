package devices

import (
	"fmt"
	"sort"
	"strconv"
)

// Capability is the class of command a device type can execute.
type Capability string

const (
	CapabilityRelay    Capability = "RELAY_CONTROL"
	CapabilityInfrared Capability = "INFRARED_EMITTER"
)

func ParseCapability(s string) (Capability, error) {
	switch c := Capability(s); c {
	case CapabilityRelay, CapabilityInfrared:
		return c, nil
	}
	return "", fmt.Errorf("unknown capability %q", s)
}

// Registry joins device types to capabilities.
type Registry struct {
	byType map[uint]Capability
}

func NewRegistry(byType map[uint]Capability) *Registry {
	m := make(map[uint]Capability, len(byType))
	for id, c := range byType {
		m[id] = c
	}
	return &Registry{byType: m}
}

// ParseRegistry builds a Registry from the string map carried in config,
// e.g. {"1":"RELAY_CONTROL","2":"INFRARED_EMITTER"}.
func ParseRegistry(raw map[string]string) (*Registry, error) {
	m := make(map[uint]Capability, len(raw))
	for k, v := range raw {
		id, err := strconv.ParseUint(k, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("device type id %q: %w", k, err)
		}
		c, err := ParseCapability(v)
		if err != nil {
			return nil, fmt.Errorf("device type %d: %w", id, err)
		}
		m[uint(id)] = c
	}
	return &Registry{byType: m}, nil
}

func (r *Registry) Capability(deviceTypeID uint) (Capability, bool) {
	c, ok := r.byType[deviceTypeID]
	return c, ok
}

func (r *Registry) Supports(deviceTypeID uint, c Capability) bool {
	got, ok := r.byType[deviceTypeID]
	return ok && got == c
}

// TypesFor lists the device types carrying capability c, ascending.
func (r *Registry) TypesFor(c Capability) []uint {
	var out []uint
	for id, got := range r.byType {
		if got == c {
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
