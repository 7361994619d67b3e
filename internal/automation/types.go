package automation

import "time"

// Command is a named instruction understood by device firmware, published
// to the device over the encrypted channel when a rule fires.
type Command struct {
	// Name identifies the command (e.g., "setLed").
	Name string `json:"name"`

	// Payload holds structured command parameters.
	Payload map[string]any `json:"payload,omitempty"`
}

// Rule is an automation rule held in memory by the Engine.
//
// The trigger condition is a comparison over inbound payload fields
// (e.g., "payload.temperature > 28"). When it matches, Command is
// published to ActionDeviceID.
type Rule struct {
	// Identity
	ID   string `json:"id"`
	Name string `json:"name"`

	// Condition is the trigger expression in its textual form.
	Condition string `json:"condition"`

	// Action
	ActionDeviceID string  `json:"action_device_id"`
	Command        Command `json:"command"`

	// CreatedAt is when the rule was added to the engine.
	CreatedAt time.Time `json:"created_at"`
}
