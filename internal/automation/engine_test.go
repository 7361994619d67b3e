package automation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
)

// ─── Mock Dependencies ──────────────────────────────────────────────────────

// mockPublisher captures published commands.
type mockPublisher struct {
	mu       sync.Mutex
	commands []publishedCommand
	failFor  string // device ID to fail on (for error testing)
}

type publishedCommand struct {
	DeviceID    string
	CommandName string
	Payload     map[string]any
}

func newMockPublisher() *mockPublisher {
	return &mockPublisher{}
}

func (m *mockPublisher) PublishCommand(_ context.Context, deviceID, commandName string, payload map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failFor != "" && deviceID == m.failFor {
		return errors.New("publish failed")
	}

	m.commands = append(m.commands, publishedCommand{
		DeviceID:    deviceID,
		CommandName: commandName,
		Payload:     payload,
	})
	return nil
}

func (m *mockPublisher) getCommands() []publishedCommand {
	m.mu.Lock()
	defer m.mu.Unlock()
	cpy := make([]publishedCommand, len(m.commands))
	copy(cpy, m.commands)
	return cpy
}

// ─── Helpers ────────────────────────────────────────────────────────────────

func setupEngine(t *testing.T) (*Engine, *mockPublisher) {
	t.Helper()
	publisher := newMockPublisher()
	return NewEngine(publisher, noopLogger{}), publisher
}

func testRule(id, condition string) Rule {
	return Rule{
		ID:             id,
		Name:           "rule " + id,
		Condition:      condition,
		ActionDeviceID: "fan-01",
		Command:        Command{Name: "setLed", Payload: map[string]any{"on": true}},
	}
}

// ─── Tests ──────────────────────────────────────────────────────────────────

func TestEngine_Evaluate_RuleMatch(t *testing.T) {
	tests := []struct {
		name        string
		payload     map[string]any
		wantPublish bool
	}{
		{"above threshold", map[string]any{"temperature": float64(30)}, true},
		{"below threshold", map[string]any{"temperature": float64(20)}, false},
		{"non-numeric value", map[string]any{"temperature": "warm"}, false},
		{"field absent", map[string]any{"humidity": float64(99)}, false},
		{"numeric string coerced", map[string]any{"temperature": "30"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, publisher := setupEngine(t)
			if err := engine.AddRule(testRule("r1", "payload.temperature > 28")); err != nil {
				t.Fatalf("AddRule() error = %v", err)
			}

			engine.Evaluate(context.Background(), "sensor-01", tt.payload)

			commands := publisher.getCommands()
			if tt.wantPublish {
				if len(commands) != 1 {
					t.Fatalf("published %d commands, want 1", len(commands))
				}
				if commands[0].DeviceID != "fan-01" || commands[0].CommandName != "setLed" {
					t.Errorf("published (%s, %s), want (fan-01, setLed)", commands[0].DeviceID, commands[0].CommandName)
				}
			} else if len(commands) != 0 {
				t.Fatalf("published %d commands, want 0", len(commands))
			}
		})
	}
}

func TestEngine_Evaluate_Operators(t *testing.T) {
	tests := []struct {
		name      string
		condition string
		payload   map[string]any
		want      bool
	}{
		{"less than match", "payload.humidity < 40", map[string]any{"humidity": float64(35)}, true},
		{"less than no match", "payload.humidity < 40", map[string]any{"humidity": float64(40)}, false},
		{"equality match", "payload.door === 1", map[string]any{"door": float64(1)}, true},
		{"equality no match", "payload.door === 1", map[string]any{"door": float64(0)}, false},
		{"greater boundary", "payload.temperature > 28", map[string]any{"temperature": float64(28)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, publisher := setupEngine(t)
			if err := engine.AddRule(testRule("r1", tt.condition)); err != nil {
				t.Fatalf("AddRule() error = %v", err)
			}

			engine.Evaluate(context.Background(), "sensor-01", tt.payload)

			if got := len(publisher.getCommands()) == 1; got != tt.want {
				t.Errorf("matched = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEngine_AddRule_InvalidCondition(t *testing.T) {
	engine, _ := setupEngine(t)

	tests := []struct {
		name      string
		condition string
	}{
		{"empty tokens", "payload.temperature >"},
		{"no payload prefix", "temperature > 28"},
		{"bad operator", "payload.temperature >= 28"},
		{"nested field", "payload.env.temperature > 28"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := engine.AddRule(testRule("r1", tt.condition))
			if !errors.Is(err, ErrInvalidCondition) {
				t.Errorf("AddRule() error = %v, want ErrInvalidCondition", err)
			}
		})
	}

	if len(engine.Rules()) != 0 {
		t.Errorf("invalid rules entered the active set")
	}
}

func TestEngine_AddRule_Validation(t *testing.T) {
	engine, _ := setupEngine(t)

	tests := []struct {
		name   string
		mutate func(*Rule)
	}{
		{"missing id", func(r *Rule) { r.ID = "" }},
		{"missing name", func(r *Rule) { r.Name = "" }},
		{"missing condition", func(r *Rule) { r.Condition = "" }},
		{"missing action device", func(r *Rule) { r.ActionDeviceID = "" }},
		{"missing command name", func(r *Rule) { r.Command.Name = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := testRule("r1", "payload.temperature > 28")
			tt.mutate(&rule)
			if err := engine.AddRule(rule); !errors.Is(err, ErrInvalidRule) {
				t.Errorf("AddRule() error = %v, want ErrInvalidRule", err)
			}
		})
	}
}

func TestEngine_AddRule_ReplaceKeepsPosition(t *testing.T) {
	engine, publisher := setupEngine(t)

	for i := 1; i <= 3; i++ {
		rule := testRule(fmt.Sprintf("r%d", i), "payload.temperature > 28")
		rule.ActionDeviceID = fmt.Sprintf("dev-%d", i)
		if err := engine.AddRule(rule); err != nil {
			t.Fatalf("AddRule() error = %v", err)
		}
	}

	// Replace the middle rule; it must keep its slot.
	replacement := testRule("r2", "payload.temperature > 28")
	replacement.ActionDeviceID = "dev-2-replaced"
	if err := engine.AddRule(replacement); err != nil {
		t.Fatalf("AddRule() replace error = %v", err)
	}

	rules := engine.Rules()
	if len(rules) != 3 {
		t.Fatalf("rule count = %d after replace, want 3", len(rules))
	}
	if rules[1].ID != "r2" || rules[1].ActionDeviceID != "dev-2-replaced" {
		t.Errorf("rules[1] = (%s, %s), want (r2, dev-2-replaced)", rules[1].ID, rules[1].ActionDeviceID)
	}

	engine.Evaluate(context.Background(), "sensor-01", map[string]any{"temperature": float64(30)})

	commands := publisher.getCommands()
	if len(commands) != 3 {
		t.Fatalf("published %d commands, want 3", len(commands))
	}
	// Insertion order preserved.
	want := []string{"dev-1", "dev-2-replaced", "dev-3"}
	for i, cmd := range commands {
		if cmd.DeviceID != want[i] {
			t.Errorf("commands[%d].DeviceID = %s, want %s", i, cmd.DeviceID, want[i])
		}
	}
}

func TestEngine_RemoveRule(t *testing.T) {
	engine, publisher := setupEngine(t)

	for i := 1; i <= 3; i++ {
		rule := testRule(fmt.Sprintf("r%d", i), "payload.temperature > 28")
		rule.ActionDeviceID = fmt.Sprintf("dev-%d", i)
		if err := engine.AddRule(rule); err != nil {
			t.Fatalf("AddRule() error = %v", err)
		}
	}

	engine.RemoveRule("r2")
	// Absent ID is a warned no-op.
	engine.RemoveRule("r2")

	rules := engine.Rules()
	if len(rules) != 2 {
		t.Fatalf("rule count = %d after remove, want 2", len(rules))
	}

	engine.Evaluate(context.Background(), "sensor-01", map[string]any{"temperature": float64(30)})

	commands := publisher.getCommands()
	if len(commands) != 2 {
		t.Fatalf("published %d commands, want 2", len(commands))
	}
	if commands[0].DeviceID != "dev-1" || commands[1].DeviceID != "dev-3" {
		t.Errorf("remaining order = [%s, %s], want [dev-1, dev-3]", commands[0].DeviceID, commands[1].DeviceID)
	}
}

func TestEngine_Evaluate_PartialFailure(t *testing.T) {
	engine, publisher := setupEngine(t)
	publisher.failFor = "broken-device"

	failing := testRule("r1", "payload.temperature > 28")
	failing.ActionDeviceID = "broken-device"
	if err := engine.AddRule(failing); err != nil {
		t.Fatalf("AddRule() error = %v", err)
	}
	if err := engine.AddRule(testRule("r2", "payload.temperature > 28")); err != nil {
		t.Fatalf("AddRule() error = %v", err)
	}

	// First rule's failure must not block the second.
	engine.Evaluate(context.Background(), "sensor-01", map[string]any{"temperature": float64(30)})

	commands := publisher.getCommands()
	if len(commands) != 1 {
		t.Fatalf("published %d commands, want 1", len(commands))
	}
	if commands[0].DeviceID != "fan-01" {
		t.Errorf("DeviceID = %s, want fan-01", commands[0].DeviceID)
	}
}

func TestEngine_ConcurrentAddEvaluate(t *testing.T) {
	engine, _ := setupEngine(t)

	if err := engine.AddRule(testRule("seed", "payload.temperature > 28")); err != nil {
		t.Fatalf("AddRule() error = %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			rule := testRule(fmt.Sprintf("r%d", n), "payload.temperature > 28")
			if err := engine.AddRule(rule); err != nil {
				t.Errorf("AddRule() error = %v", err)
			}
		}(i)
		go func() {
			defer wg.Done()
			engine.Evaluate(context.Background(), "sensor-01", map[string]any{"temperature": float64(30)})
		}()
	}
	wg.Wait()

	if len(engine.Rules()) != 11 {
		t.Errorf("rule count = %d, want 11", len(engine.Rules()))
	}
}
