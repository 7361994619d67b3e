package automation

import (
	"fmt"

	"github.com/google/uuid"
)

// Validation constants.
const (
	maxNameLength      = 100
	maxPayloadKeys     = 20
	maxConditionLength = 200
)

// ValidateRule performs structural validation on a rule.
// Returns an error describing the first validation failure found.
// Condition syntax is checked separately by ParseCondition.
func ValidateRule(r *Rule) error {
	if r == nil {
		return ErrInvalidRule
	}
	if r.ID == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidRule)
	}
	if r.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidRule)
	}
	if len(r.Name) > maxNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidRule, maxNameLength)
	}
	if r.Condition == "" {
		return fmt.Errorf("%w: condition is required", ErrInvalidRule)
	}
	if len(r.Condition) > maxConditionLength {
		return fmt.Errorf("%w: condition exceeds %d characters", ErrInvalidRule, maxConditionLength)
	}
	if r.ActionDeviceID == "" {
		return fmt.Errorf("%w: action device id is required", ErrInvalidRule)
	}
	if r.Command.Name == "" {
		return fmt.Errorf("%w: command name is required", ErrInvalidRule)
	}
	if len(r.Command.Payload) > maxPayloadKeys {
		return fmt.Errorf("%w: command payload exceeds %d keys", ErrInvalidRule, maxPayloadKeys)
	}
	return nil
}

// GenerateID creates a new UUID for a rule.
func GenerateID() string {
	return uuid.New().String()
}
