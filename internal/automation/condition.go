package automation

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Comparison operators supported by the condition grammar.
const (
	OpGreater = ">"
	OpLess    = "<"
	OpEqual   = "==="
)

// Comparison is a parsed trigger condition of the form
// "payload.<field> <op> <value>".
//
// The grammar is deliberately narrow: a single comparison, numeric
// coercion on both sides, no boolean connectives. Richer conditions are
// out of scope for the rule language, not an oversight.
type Comparison struct {
	// Field is the payload key the condition reads.
	Field string

	// Operator is one of OpGreater, OpLess, OpEqual.
	Operator string

	// literal is the right-hand side as written. Coercion to a number
	// happens at evaluation time; a non-numeric literal never matches.
	literal string
}

const payloadPrefix = "payload."

// ParseCondition parses a condition expression into a Comparison.
//
// The expression must be three whitespace-separated tokens: a field
// reference prefixed "payload.", an operator, and a literal. Structural
// failures are reported here so malformed rules are rejected when added
// rather than silently never firing.
func ParseCondition(expr string) (*Comparison, error) {
	tokens := strings.Fields(expr)
	if len(tokens) != 3 {
		return nil, fmt.Errorf("%w: expected \"payload.<field> <op> <value>\", got %q", ErrInvalidCondition, expr)
	}

	ref, op, literal := tokens[0], tokens[1], tokens[2]

	if !strings.HasPrefix(ref, payloadPrefix) {
		return nil, fmt.Errorf("%w: left side must reference payload.<field>, got %q", ErrInvalidCondition, ref)
	}
	field := strings.TrimPrefix(ref, payloadPrefix)
	if field == "" || strings.Contains(field, ".") {
		return nil, fmt.Errorf("%w: invalid field reference %q", ErrInvalidCondition, ref)
	}

	switch op {
	case OpGreater, OpLess, OpEqual:
	default:
		return nil, fmt.Errorf("%w: unsupported operator %q", ErrInvalidCondition, op)
	}

	return &Comparison{Field: field, Operator: op, literal: literal}, nil
}

// Evaluate reports whether the comparison matches the payload.
//
// Both sides are coerced to float64. An absent field, a non-numeric
// payload value, or a non-numeric literal all evaluate to false rather
// than erroring.
func (c *Comparison) Evaluate(payload map[string]any) bool {
	raw, ok := payload[c.Field]
	if !ok {
		return false
	}

	left, ok := toFloat64(raw)
	if !ok {
		return false
	}
	right, err := strconv.ParseFloat(c.literal, 64)
	if err != nil {
		return false
	}

	switch c.Operator {
	case OpGreater:
		return left > right
	case OpLess:
		return left < right
	case OpEqual:
		return left == right
	default:
		return false
	}
}

// toFloat64 coerces a decoded JSON value to a float64.
func toFloat64(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case json.Number:
		f, err := val.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(val, 64)
		return f, err == nil
	default:
		return 0, false
	}
}
