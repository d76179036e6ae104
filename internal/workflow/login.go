package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// load opens the hub and decides whether a login is needed
func (r *run) load(ctx context.Context) (State, error) {
	if err := r.page.Goto(ctx, URLClaim); err != nil {
		return StateDone, err
	}

	// the page is only usable once one of the two shows up
	_, err := firstOf(ctx,
		func(ctx context.Context) error { return r.page.WaitVisible(ctx, selSignIn) },
		func(ctx context.Context) error { return r.page.WaitVisible(ctx, selUser) },
	)
	if err != nil {
		return StateDone, fmt.Errorf("wait for claim hub: %w", err)
	}

	if n, _ := r.page.Count(ctx, selCookieBanner); n > 0 {
		if err := r.page.Click(ctx, selCookieBanner); err != nil {
			slog.Debug("could not accept cookies", "error", err)
		}
	}

	n, err := r.page.Count(ctx, selSignIn)
	if err != nil {
		return StateDone, err
	}
	if n > 0 {
		return StateLoginLoop, nil
	}
	return StateSignedIn, nil
}

// login performs one sign-in attempt and goes back to loading the hub
func (r *run) login(ctx context.Context) (State, error) {
	slog.Warn("not signed in anymore")
	if err := r.page.Click(ctx, selSignIn); err != nil {
		return StateDone, err
	}

	r.session.SetTimeout(r.cfg.LoginTimeout)
	defer r.session.SetTimeout(r.cfg.Timeout)
	slog.Info("waiting for login", "timeout", r.cfg.LoginTimeout)

	email, password, err := r.credentials(ctx)
	if err != nil {
		return StateDone, err
	}

	if email == "" || password == "" {
		return r.manualLogin(ctx)
	}

	if err := r.submitLogin(ctx, email, password); err != nil {
		return StateDone, err
	}
	return StateLoading, nil
}

// credentials prefers configured values and falls back to prompting
func (r *run) credentials(ctx context.Context) (string, string, error) {
	if r.cfg.Email != "" && r.cfg.Password != "" {
		slog.Info("using email and password from environment")
	} else {
		slog.Info("press ESC to skip the prompts if you want to login in the browser (not possible in headless mode)")
	}

	email := r.cfg.Email
	if email == "" {
		var err error
		if email, err = r.prompter.Text(ctx, "Enter email"); err != nil {
			return "", "", fmt.Errorf("prompt for email: %w", err)
		}
	}
	if email == "" {
		return "", "", nil
	}

	password := r.cfg.Password
	if password == "" {
		var err error
		if password, err = r.prompter.Password(ctx, "Enter password"); err != nil {
			return "", "", fmt.Errorf("prompt for password: %w", err)
		}
	}
	return email, password, nil
}

// manualLogin leaves the login to the operator in the visible browser
func (r *run) manualLogin(ctx context.Context) (State, error) {
	r.notify(ctx, "prime-gaming: no longer signed in and not enough options set for automatic login.")
	if r.cfg.Headless {
		slog.Error("run with SHOW=1 to login in the opened browser")
		return StateDone, ErrLoginUnavailable
	}

	slog.Info("waiting for you to login in the browser")
	r.session.SetTimeout(0)
	if err := r.page.WaitURL(ctx, isSignedInURL); err != nil {
		return StateDone, fmt.Errorf("wait for manual login: %w", err)
	}
	return StateLoading, nil
}

// submitLogin fills the login form and waits until the hub reports a signed
// in session. A login error or an MFA challenge is handled by watchers that
// race the wait and are cancelled once it resolves.
func (r *run) submitLogin(ctx context.Context, email, password string) error {
	if err := r.page.Fill(ctx, selEmail, email); err != nil {
		return err
	}
	if err := r.page.Fill(ctx, selPassword, password); err != nil {
		return err
	}
	if err := r.page.Check(ctx, selRememberMe); err != nil {
		return err
	}
	if err := r.page.Click(ctx, selSubmit); err != nil {
		return err
	}

	wctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	var wg sync.WaitGroup
	for _, watch := range []func(context.Context) error{r.watchLoginError, r.watchMFA} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := watch(wctx); err != nil {
				cancel(err)
			}
		}()
	}

	err := r.page.WaitURL(wctx, isSignedInURL)
	cause := context.Cause(wctx)
	cancel(nil)
	wg.Wait()

	if err == nil {
		return nil
	}
	if cause != nil && !errors.Is(cause, context.Canceled) {
		return cause
	}
	return fmt.Errorf("wait for sign in: %w", err)
}

// watchLoginError reports ErrLoginFailed when the sign-in page shows an error
func (r *run) watchLoginError(ctx context.Context) error {
	if err := r.page.WaitURL(ctx, isLoginURL); err != nil {
		return nil
	}
	if err := r.page.WaitVisible(ctx, selLoginAlert); err != nil {
		return nil
	}
	msg, err := r.page.InnerText(ctx, selLoginAlert)
	if err != nil || strings.TrimSpace(msg) == "" || ctx.Err() != nil {
		return nil
	}
	msg = strings.TrimSpace(msg)

	slog.Error("login error", "error", msg)
	r.notify(ctx, "prime-gaming: login: "+msg)
	return fmt.Errorf("%w: %s", ErrLoginFailed, msg)
}

// watchMFA answers the one-time password challenge
func (r *run) watchMFA(ctx context.Context) error {
	if err := r.page.WaitURL(ctx, isMFAURL); err != nil {
		return nil
	}
	slog.Info("two-step verification: enter the one time password, e.g. generated by your authenticator app")

	if err := r.page.Check(ctx, selRememberDevice); err != nil {
		return nil
	}

	code, err := r.otpCode(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return err
	}
	if code == "" {
		slog.Info("no code given, waiting for it to be entered in the browser")
		return nil
	}

	if err := r.page.Type(ctx, selOTP, code); err != nil {
		return nil
	}
	if err := r.page.Click(ctx, selSubmit); err != nil {
		return nil
	}
	return nil
}

// otpCode derives the code from the TOTP seed or asks for it
func (r *run) otpCode(ctx context.Context) (string, error) {
	if r.cfg.OTPKey != "" {
		code, err := r.otp(r.cfg.OTPKey, r.now())
		if err != nil {
			return "", fmt.Errorf("generate otp code: %w", err)
		}
		return code, nil
	}

	code, err := r.prompter.Code(ctx, "Enter two-factor sign in code")
	if err != nil {
		return "", fmt.Errorf("prompt for otp code: %w", err)
	}
	return code, nil
}
