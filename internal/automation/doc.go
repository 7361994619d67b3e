// Package automation provides the rule engine for Home Control Hub.
//
// Rules watch the decrypted payloads of inbound device messages and fire
// commands at target devices when a trigger condition matches. The rule
// set lives in memory for the process lifetime: rules are loaded from
// configuration at startup and can be added or removed at runtime.
//
// # Condition Language
//
// A trigger condition is a single comparison over a payload field:
//
//	payload.temperature > 28
//	payload.humidity < 40
//	payload.door === 1
//
// Operators are >, < and ===; both sides are coerced to float64. A
// condition whose field is absent or whose value is non-numeric evaluates
// to false. The grammar is intentionally this narrow.
//
// # Key Types
//
//   - Rule: id, name, condition, target device and command
//   - Command: named instruction plus structured payload
//   - Engine: thread-safe rule set with insertion-order evaluation
//   - Comparison: a parsed condition
//
// # Usage
//
//	engine := automation.NewEngine(publisher, log)
//
//	err := engine.AddRule(automation.Rule{
//	    ID:             automation.GenerateID(),
//	    Name:           "heat warning",
//	    Condition:      "payload.temperature > 28",
//	    ActionDeviceID: "fan-01",
//	    Command:        automation.Command{Name: "setLed", Payload: map[string]any{"on": true}},
//	})
//
//	// From the message router, after a successful state merge:
//	engine.Evaluate(ctx, deviceID, payload)
//
// # Thread Safety
//
// Engine is safe for concurrent use. Evaluation snapshots the rule set
// under a read lock, so AddRule/RemoveRule never tear a running
// evaluation. Matched actions dispatch outside the lock.
package automation
