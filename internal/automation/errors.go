package automation

import "errors"

// Domain errors for the automation package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, automation.ErrInvalidCondition) {
//	    // reject the rule
//	}
var (
	// ErrInvalidRule is returned when rule validation fails.
	ErrInvalidRule = errors.New("automation: invalid rule")

	// ErrInvalidCondition is returned when a trigger condition cannot be parsed.
	ErrInvalidCondition = errors.New("automation: invalid condition")
)
