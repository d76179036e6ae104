// Package notify delivers run summaries and failures to the operator.
package notify

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"os/exec"
	"regexp"
	"strings"

	"github.com/elsanchez/free-games-claimer/internal/domain"
)

// Notifier sends an HTML-ish message
type Notifier interface {
	Notify(ctx context.Context, message string) error
}

// runner executes an external command; replaced in tests
type runner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// Apprise sends through the apprise CLI to every configured URL
type Apprise struct {
	urls  []string
	title string
	run   runner
}

// NewApprise creates an apprise notifier; urls are apprise service URLs
func NewApprise(urls []string, title string) *Apprise {
	return &Apprise{urls: urls, title: title, run: execRunner}
}

// CheckInstalled verifies the apprise CLI is on PATH when it will be needed
func (a *Apprise) CheckInstalled() error {
	if len(a.urls) == 0 {
		return nil
	}
	if _, err := exec.LookPath("apprise"); err != nil {
		return fmt.Errorf("apprise not found in PATH: %w", err)
	}
	return nil
}

func (a *Apprise) Notify(ctx context.Context, message string) error {
	if len(a.urls) == 0 {
		return nil
	}

	args := []string{"-vv", "-i", "html", "-b", message}
	if a.title != "" {
		args = append(args, "-t", a.title)
	}
	args = append(args, a.urls...)

	if out, err := a.run(ctx, "apprise", args...); err != nil {
		return fmt.Errorf("apprise failed: %w\nOutput: %s", err, out)
	}
	return nil
}

// Desktop shows a desktop notification with notify-send
type Desktop struct {
	title string
	run   runner
}

// NewDesktop creates a desktop notifier
func NewDesktop(title string) *Desktop {
	if title == "" {
		title = "free-games-claimer"
	}
	return &Desktop{title: title, run: execRunner}
}

func (d *Desktop) Notify(ctx context.Context, message string) error {
	if out, err := d.run(ctx, "notify-send", d.title, PlainText(message)); err != nil {
		return fmt.Errorf("notify-send failed: %w\nOutput: %s", err, out)
	}
	return nil
}

// Log writes notifications to the log; always part of the chain so nothing is lost
type Log struct{}

func (Log) Notify(ctx context.Context, message string) error {
	slog.Info("notification", "message", PlainText(message))
	return nil
}

// Multi fans a message out to several notifiers
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, message string) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, message); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

var (
	brTag  = regexp.MustCompile(`(?i)<br\s*/?>`)
	anyTag = regexp.MustCompile(`<[^>]*>`)
)

// PlainText strips markup, turning <br> into newlines
func PlainText(message string) string {
	s := brTag.ReplaceAllString(message, "\n")
	s = anyTag.ReplaceAllString(s, "")
	return html.UnescapeString(s)
}

// GameList renders the run summary, one offer per line
func GameList(items []domain.NotifyItem) string {
	lines := make([]string, 0, len(items))
	for _, it := range items {
		lines = append(lines, fmt.Sprintf(`- <a href="%s">%s</a> (%s)`,
			html.EscapeString(it.URL), html.EscapeString(it.Title), itemStatus(it)))
	}
	return strings.Join(lines, "<br>")
}

// itemStatus links code-bearing offers to their redeem page
func itemStatus(it domain.NotifyItem) string {
	status := html.EscapeString(it.Status)
	if it.Code == "" {
		return status
	}
	if it.RedeemURL != "" {
		status = fmt.Sprintf(`<a href="%s">%s</a>`, html.EscapeString(it.RedeemURL), status)
	}
	status = fmt.Sprintf("%s %s", status, html.EscapeString(it.Code))
	if it.Store != "" {
		status += " on " + html.EscapeString(it.Store)
	}
	return status
}
