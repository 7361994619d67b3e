package device

import "time"

// State is arbitrary structured device state as reported by firmware,
// stored as a JSON object column.
type State map[string]any

// Device represents a provisioned device and its last observed condition.
// This matches the database schema in migrations/20260820_120000_initial_schema.up.sql.
type Device struct {
	// Identity
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`

	// Status is the online/reported flag from the device's most recent
	// status message.
	Status bool `json:"status"`

	// KeyMaterial is the per-device secret used to derive the AES key.
	// It is never transmitted and never included in API responses.
	KeyMaterial string `json:"-"`

	// LastKnownState is the merged view of the device's reported state.
	LastKnownState State `json:"last_known_state"`

	// FirmwareVersion is set from telemetry/firmwareVersion messages.
	FirmwareVersion *string `json:"firmware_version,omitempty"`

	// Timestamps
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DeepCopy creates a complete independent copy of the Device.
// The state map is cloned so modifications to the copy do not affect the
// original. Essential for the read-merge-write path, where the merged
// state is built on a copy before being written back.
func (d *Device) DeepCopy() *Device {
	if d == nil {
		return nil
	}

	cpy := *d
	cpy.LastKnownState = deepCopyMap(d.LastKnownState)

	// Pointer fields (*string) don't need deep copy because strings are
	// immutable in Go.

	return &cpy
}

// deepCopyMap creates a deep copy of a map[string]any.
// Nested maps and slices are recursively copied.
func deepCopyMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	cpy := make(map[string]any, len(m))
	for k, v := range m {
		cpy[k] = deepCopyValue(v)
	}
	return cpy
}

// deepCopyValue recursively copies a value, handling nested maps and slices.
func deepCopyValue(v any) any {
	if v == nil {
		return nil
	}
	switch val := v.(type) {
	case map[string]any:
		return deepCopyMap(val)
	case []any:
		cpy := make([]any, len(val))
		for i, elem := range val {
			cpy[i] = deepCopyValue(elem)
		}
		return cpy
	default:
		// Primitives (string, bool, float64, etc.) are safe to copy by value.
		return v
	}
}
