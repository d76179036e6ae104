package prompt

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// outcome of a finished prompt
type outcome int

const (
	outcomePending outcome = iota
	outcomeSubmitted
	outcomeSkipped
	outcomeInterrupted
)

// model is the Bubbletea model for a single-line question
type model struct {
	message  string
	input    textinput.Model
	validate func(string) error

	outcome  outcome
	errorMsg string
}

func newModel(message string, masked bool, validate func(string) error) model {
	in := textinput.New()
	in.Prompt = "› "
	in.CharLimit = 256
	in.Width = 40
	if masked {
		in.EchoMode = textinput.EchoPassword
		in.EchoCharacter = '•'
	}
	in.Focus()

	return model{
		message:  message,
		input:    in,
		validate: validate,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, key.NewBinding(key.WithKeys("ctrl+c"))):
			m.outcome = outcomeInterrupted
			return m, tea.Quit

		case key.Matches(msg, key.NewBinding(key.WithKeys("esc"))):
			m.outcome = outcomeSkipped
			return m, tea.Quit

		case key.Matches(msg, key.NewBinding(key.WithKeys("enter"))):
			if m.validate != nil {
				if err := m.validate(m.input.Value()); err != nil {
					m.errorMsg = err.Error()
					return m, nil
				}
			}
			m.outcome = outcomeSubmitted
			return m, tea.Quit
		}

		m.errorMsg = ""
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// value returns the submitted answer
func (m model) value() string {
	if m.outcome != outcomeSubmitted {
		return ""
	}
	return m.input.Value()
}
