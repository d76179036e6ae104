// Package prompt asks the operator for credentials on the terminal.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
)

// ErrInterrupted is returned when the operator aborts a prompt with ctrl+c
var ErrInterrupted = errors.New("prompt interrupted")

// Prompter asks questions. An empty answer with a nil error means the
// operator skipped the question.
type Prompter interface {
	Text(ctx context.Context, message string) (string, error)
	Password(ctx context.Context, message string) (string, error)
	Code(ctx context.Context, message string) (string, error)
}

// ValidateCode accepts exactly six digits. Leading zeros are significant.
func ValidateCode(s string) error {
	if len(s) != 6 {
		return errors.New("the code must be 6 digits")
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return errors.New("the code must be 6 digits")
		}
	}
	return nil
}

// Terminal prompts on the controlling terminal with Bubbletea
type Terminal struct {
	in  io.Reader
	out io.Writer
}

// Compiletime check
var _ Prompter = (*Terminal)(nil)

// NewTerminal creates a prompter on stdin, rendering to stderr
func NewTerminal() *Terminal {
	return &Terminal{in: os.Stdin, out: os.Stderr}
}

// Interactive reports whether stdin is attached to a terminal
func Interactive() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func (t *Terminal) Text(ctx context.Context, message string) (string, error) {
	return t.ask(ctx, newModel(message, false, nil))
}

func (t *Terminal) Password(ctx context.Context, message string) (string, error) {
	return t.ask(ctx, newModel(message, true, nil))
}

func (t *Terminal) Code(ctx context.Context, message string) (string, error) {
	return t.ask(ctx, newModel(message, false, ValidateCode))
}

func (t *Terminal) ask(ctx context.Context, m model) (string, error) {
	p := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithInput(t.in),
		tea.WithOutput(t.out),
	)

	final, err := p.Run()
	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	if err != nil {
		return "", fmt.Errorf("run prompt: %w", err)
	}

	fm, ok := final.(model)
	if !ok {
		return "", fmt.Errorf("unexpected prompt model %T", final)
	}
	if fm.outcome == outcomeInterrupted {
		return "", ErrInterrupted
	}
	return fm.value(), nil
}

// None never asks; every question counts as skipped. Used without a terminal.
type None struct{}

// Compiletime check
var _ Prompter = None{}

func (None) Text(context.Context, string) (string, error)     { return "", nil }
func (None) Password(context.Context, string) (string, error) { return "", nil }
func (None) Code(context.Context, string) (string, error)     { return "", nil }
