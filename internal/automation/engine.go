package automation

import (
	"context"
	"sync"
	"time"
)

// Logger is the interface the engine needs from the logging package.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// CommandPublisher is the interface the engine needs for executing rule
// actions. The messaging package provides the implementation.
type CommandPublisher interface {
	// PublishCommand encrypts and publishes a command to a device.
	PublishCommand(ctx context.Context, deviceID, commandName string, payload map[string]any) error
}

// activeRule pairs a rule with its condition parsed once at add time.
type activeRule struct {
	rule      Rule
	condition *Comparison
}

// Engine holds the active automation rules and evaluates them against
// inbound device events.
//
// Rules are kept in insertion order and evaluated in that order; there is
// no priority concept, so insertion order is the documented tie-breaker.
// Re-adding an existing ID replaces the rule in place, keeping its
// position.
//
// Thread Safety: all methods are safe for concurrent use. Evaluate takes
// a read lock, so rule mutation never tears a running evaluation.
type Engine struct {
	mu        sync.RWMutex
	rules     []activeRule
	positions map[string]int // rule ID -> index into rules

	publisher CommandPublisher
	logger    Logger
}

// NewEngine creates a rule engine that dispatches matched actions through
// the given publisher.
func NewEngine(publisher CommandPublisher, logger Logger) *Engine {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Engine{
		positions: make(map[string]int),
		publisher: publisher,
		logger:    logger,
	}
}

// AddRule inserts a rule, or replaces the existing rule with the same ID.
//
// The trigger condition is parsed here; a rule whose condition does not
// parse is rejected with ErrInvalidCondition and never enters the active
// set. Replacement keeps the original position in evaluation order and
// logs a warning.
func (e *Engine) AddRule(rule Rule) error {
	if err := ValidateRule(&rule); err != nil {
		return err
	}

	condition, err := ParseCondition(rule.Condition)
	if err != nil {
		return err
	}

	if rule.CreatedAt.IsZero() {
		rule.CreatedAt = time.Now().UTC()
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if pos, exists := e.positions[rule.ID]; exists {
		e.logger.Warn("replacing existing rule",
			"rule_id", rule.ID,
			"rule_name", rule.Name,
		)
		e.rules[pos] = activeRule{rule: rule, condition: condition}
		return nil
	}

	e.positions[rule.ID] = len(e.rules)
	e.rules = append(e.rules, activeRule{rule: rule, condition: condition})

	e.logger.Info("rule added",
		"rule_id", rule.ID,
		"rule_name", rule.Name,
		"condition", rule.Condition,
		"action_device_id", rule.ActionDeviceID,
	)
	return nil
}

// RemoveRule removes a rule by ID. Removing an absent ID is a no-op with
// a warning.
func (e *Engine) RemoveRule(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	pos, exists := e.positions[id]
	if !exists {
		e.logger.Warn("remove requested for unknown rule", "rule_id", id)
		return
	}

	e.rules = append(e.rules[:pos], e.rules[pos+1:]...)
	delete(e.positions, id)
	for i := pos; i < len(e.rules); i++ {
		e.positions[e.rules[i].rule.ID] = i
	}

	e.logger.Info("rule removed", "rule_id", id)
}

// Rules returns the active rules in evaluation order.
func (e *Engine) Rules() []Rule {
	e.mu.RLock()
	defer e.mu.RUnlock()

	rules := make([]Rule, len(e.rules))
	for i, ar := range e.rules {
		rules[i] = ar.rule
	}
	return rules
}

// Evaluate runs every active rule against an inbound payload from the
// given device and dispatches matched actions.
//
// Rules are independent: a failed action is logged and evaluation
// continues with the remaining rules. Evaluate never returns an error to
// the inbound path.
func (e *Engine) Evaluate(ctx context.Context, deviceID string, payload map[string]any) {
	e.mu.RLock()
	// Snapshot under the read lock; dispatch happens outside it so a
	// slow publish does not block rule mutation.
	active := make([]activeRule, len(e.rules))
	copy(active, e.rules)
	e.mu.RUnlock()

	for _, ar := range active {
		if !ar.condition.Evaluate(payload) {
			continue
		}

		e.logger.Info("rule matched",
			"rule_id", ar.rule.ID,
			"rule_name", ar.rule.Name,
			"source_device_id", deviceID,
			"action_device_id", ar.rule.ActionDeviceID,
			"command", ar.rule.Command.Name,
		)

		err := e.publisher.PublishCommand(ctx, ar.rule.ActionDeviceID, ar.rule.Command.Name, ar.rule.Command.Payload)
		if err != nil {
			e.logger.Error("rule action failed",
				"rule_id", ar.rule.ID,
				"action_device_id", ar.rule.ActionDeviceID,
				"error", err,
			)
		}
	}
}
