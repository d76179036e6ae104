package prompt

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestValidateCode(t *testing.T) {
	tests := []struct {
		input string
		ok    bool
	}{
		{"123456", true},
		{"012345", true},
		{"12345", false},
		{"1234567", false},
		{"12a456", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := ValidateCode(tt.input)
			if (err == nil) != tt.ok {
				t.Errorf("ValidateCode(%q) = %v, want ok=%v", tt.input, err, tt.ok)
			}
		})
	}
}

func typeString(m tea.Model, s string) tea.Model {
	for _, r := range s {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func TestModel_SubmitValid(t *testing.T) {
	var m tea.Model = newModel("Enter two-factor sign in code", false, ValidateCode)
	m = typeString(m, "012345")
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	fm := m.(model)
	if fm.outcome != outcomeSubmitted {
		t.Fatalf("expected submitted, got %v", fm.outcome)
	}
	if fm.value() != "012345" {
		t.Errorf("expected 012345, got %q", fm.value())
	}
	if cmd == nil {
		t.Error("expected quit command")
	}
}

func TestModel_RejectsInvalidCode(t *testing.T) {
	var m tea.Model = newModel("code", false, ValidateCode)
	m = typeString(m, "123")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	fm := m.(model)
	if fm.outcome != outcomePending {
		t.Errorf("expected prompt to stay open, got %v", fm.outcome)
	}
	if fm.errorMsg == "" {
		t.Error("expected validation message")
	}
}

func TestModel_EscSkips(t *testing.T) {
	var m tea.Model = newModel("Enter email", false, nil)
	m = typeString(m, "me@example.com")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})

	fm := m.(model)
	if fm.outcome != outcomeSkipped || fm.value() != "" {
		t.Errorf("expected skipped with empty value, got %v %q", fm.outcome, fm.value())
	}
}

func TestModel_CtrlCInterrupts(t *testing.T) {
	var m tea.Model = newModel("Enter password", true, nil)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})

	if m.(model).outcome != outcomeInterrupted {
		t.Error("expected interrupted")
	}
}
