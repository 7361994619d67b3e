package automation

import (
	"errors"
	"strings"
	"testing"
)

func validRule() Rule {
	return Rule{
		ID:             "r1",
		Name:           "heat warning",
		Condition:      "payload.temperature > 28",
		ActionDeviceID: "fan-01",
		Command:        Command{Name: "setLed", Payload: map[string]any{"on": true}},
	}
}

func TestValidateRule(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Rule)
		wantErr bool
	}{
		{"valid rule", func(r *Rule) {}, false},
		{"valid without payload", func(r *Rule) { r.Command.Payload = nil }, false},
		{"missing id", func(r *Rule) { r.ID = "" }, true},
		{"missing name", func(r *Rule) { r.Name = "" }, true},
		{"name too long", func(r *Rule) { r.Name = strings.Repeat("x", maxNameLength+1) }, true},
		{"missing condition", func(r *Rule) { r.Condition = "" }, true},
		{"condition too long", func(r *Rule) { r.Condition = "payload.x > " + strings.Repeat("1", maxConditionLength) }, true},
		{"missing action device", func(r *Rule) { r.ActionDeviceID = "" }, true},
		{"missing command name", func(r *Rule) { r.Command.Name = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := validRule()
			tt.mutate(&rule)

			err := ValidateRule(&rule)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidRule) {
					t.Errorf("ValidateRule() error = %v, want ErrInvalidRule", err)
				}
			} else if err != nil {
				t.Errorf("ValidateRule() error = %v, want nil", err)
			}
		})
	}
}

func TestValidateRule_Nil(t *testing.T) {
	if err := ValidateRule(nil); !errors.Is(err, ErrInvalidRule) {
		t.Errorf("ValidateRule(nil) error = %v, want ErrInvalidRule", err)
	}
}

func TestGenerateID(t *testing.T) {
	id1 := GenerateID()
	id2 := GenerateID()

	if id1 == "" {
		t.Error("GenerateID returned empty string")
	}
	if id1 == id2 {
		t.Error("GenerateID returned duplicate IDs")
	}
	if len(id1) != 36 {
		t.Errorf("GenerateID length = %d, want 36", len(id1))
	}
}
