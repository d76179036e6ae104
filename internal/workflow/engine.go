// Package workflow drives the Prime Gaming claim hub: it signs in, claims the
// in-catalog games, then claims external offers one at a time and redeems
// their codes where a store strategy exists.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/pquerna/otp/totp"

	"github.com/elsanchez/free-games-claimer/internal/browser"
	"github.com/elsanchez/free-games-claimer/internal/domain"
	"github.com/elsanchez/free-games-claimer/internal/notify"
	"github.com/elsanchez/free-games-claimer/internal/prompt"
	"github.com/elsanchez/free-games-claimer/internal/screenshot"
)

var (
	// ErrLoginFailed is returned when the sign-in page reports an error after
	// the credentials were submitted
	ErrLoginFailed = errors.New("login failed")

	// ErrLoginUnavailable is returned when a login is required but neither
	// credentials nor a visible browser are available
	ErrLoginUnavailable = errors.New("login required but no credentials and browser is headless")
)

// Config holds the options the claim run depends on
type Config struct {
	Email    string
	Password string
	OTPKey   string

	Headless bool
	DryRun   bool
	Redeem   bool

	Timeout      time.Duration
	LoginTimeout time.Duration
}

// Engine runs the claim state machine on a browser session
type Engine struct {
	cfg      Config
	session  browser.Session
	prompter prompt.Prompter
	notifier notify.Notifier
	shots    screenshot.Archive

	now func() time.Time
	otp func(secret string, t time.Time) (string, error)
}

// NewEngine wires the collaborators of a claim run
func NewEngine(cfg Config, session browser.Session, prompter prompt.Prompter, notifier notify.Notifier, shots screenshot.Archive) *Engine {
	return &Engine{
		cfg:      cfg,
		session:  session,
		prompter: prompter,
		notifier: notifier,
		shots:    shots,
		now:      time.Now,
		otp:      totp.GenerateCode,
	}
}

// Result is what a run produced. It is returned even when the run fails so
// the caller can still report partial progress.
type Result struct {
	User  string
	Items []domain.NotifyItem
}

// run is the state of a single pass over the claim hub
type run struct {
	*Engine

	page    browser.Page
	lib     domain.Library
	user    string
	account domain.AccountRecord
	items   []domain.NotifyItem

	// titles of external offers visited during this run
	visited map[string]bool
}

// Run signs in and claims everything claimable. New claim entries are added
// to lib; existing entries are never modified.
func (e *Engine) Run(ctx context.Context, lib domain.Library) (*Result, error) {
	page, err := e.session.Page(ctx)
	if err != nil {
		return &Result{}, fmt.Errorf("open page: %w", err)
	}

	e.session.SetTimeout(e.cfg.Timeout)

	r := &run{
		Engine:  e,
		page:    page,
		lib:     lib,
		visited: make(map[string]bool),
	}

	err = r.loop(ctx)
	return &Result{User: r.user, Items: r.items}, err
}

func (r *run) loop(ctx context.Context) error {
	state := StateLoading
	for state != StateDone {
		slog.Debug("workflow state", "state", state)

		next, err := r.step(ctx, state)
		if err != nil {
			return err
		}
		state = next
	}
	return r.finish(ctx)
}

func (r *run) step(ctx context.Context, state State) (State, error) {
	switch state {
	case StateLoading:
		return r.load(ctx)
	case StateLoginLoop:
		return r.login(ctx)
	case StateSignedIn:
		return r.signedIn(ctx)
	case StateClaimInternal:
		return r.claimInternal(ctx)
	case StateClaimExternal:
		return r.claimExternal(ctx)
	default:
		return StateDone, fmt.Errorf("unknown state %v", state)
	}
}

// notify sends a message that must not abort the run
func (r *run) notify(ctx context.Context, message string) {
	if err := r.notifier.Notify(context.WithoutCancel(ctx), message); err != nil {
		slog.Warn("failed to send notification", "error", err)
	}
}

// screenshot captures selector (or the page) and archives it under name
func (r *run) screenshot(ctx context.Context, selector string, fullPage bool, name string) error {
	png, err := r.page.Screenshot(ctx, selector, fullPage)
	if err != nil {
		return fmt.Errorf("take screenshot: %w", err)
	}
	loc, err := r.shots.Save(ctx, name, png)
	if err != nil {
		slog.Warn("failed to store screenshot", "name", name, "error", err)
	}
	if loc != "" {
		slog.Debug("saved screenshot", "location", loc)
	}
	return nil
}
