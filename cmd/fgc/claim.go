package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/elsanchez/free-games-claimer/internal/browser"
	"github.com/elsanchez/free-games-claimer/internal/config"
	"github.com/elsanchez/free-games-claimer/internal/cookies"
	"github.com/elsanchez/free-games-claimer/internal/domain"
	"github.com/elsanchez/free-games-claimer/internal/notify"
	"github.com/elsanchez/free-games-claimer/internal/prompt"
	"github.com/elsanchez/free-games-claimer/internal/repository"
	"github.com/elsanchez/free-games-claimer/internal/repository/jsonfile"
	"github.com/elsanchez/free-games-claimer/internal/repository/sqlite"
	"github.com/elsanchez/free-games-claimer/internal/scheduler"
	"github.com/elsanchez/free-games-claimer/internal/screenshot"
	"github.com/elsanchez/free-games-claimer/internal/workflow"
)

var claimCmd = &cobra.Command{
	Use:   "claim",
	Short: "Claim the free games (default command)",
	Long: `Claim the free games once, or every LOOP interval when LOOP is set.

Example:
  fgc claim --show
  LOOP=6h fgc claim`,
	RunE: runClaim,
}

func init() {
	rootCmd.AddCommand(claimCmd)
}

func runClaim(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if cfg.Loop > 0 {
		return scheduler.Loop(ctx, cfg.Loop, claimOnce)
	}
	return claimOnce(ctx)
}

// claimOnce performs one claim run. The claims and the summary are written
// out however the run ends.
func claimOnce(ctx context.Context) error {
	slog.Info("started checking prime-gaming", "dry_run", cfg.DryRun, "redeem", cfg.Redeem)

	repo, err := openRepository(cfg)
	if err != nil {
		return err
	}
	defer repo.Close()

	lib, err := repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("load claims: %w", err)
	}

	notifier := newNotifier(cfg)

	shots, err := newArchive(ctx, cfg)
	if err != nil {
		return err
	}

	session, err := browser.Launch(browserOptions(cfg))
	if err != nil {
		return err
	}
	defer func() {
		if err := session.Close(); err != nil {
			slog.Warn("failed to close browser", "error", err)
		}
	}()

	if cfg.CookiesBrowser != "" {
		res, err := cookies.NewCookieImporter().Import(ctx, session, cookies.ImportOptions{Browser: cfg.CookiesBrowser})
		if err != nil {
			slog.Warn("could not import browser cookies", "browser", cfg.CookiesBrowser, "error", err)
		} else {
			slog.Info("imported browser cookies", "browser", cfg.CookiesBrowser, "count", res.Count)
		}
	}

	engine := workflow.NewEngine(workflowConfig(cfg), session, newPrompter(), notifier, shots)
	res, runErr := engine.Run(ctx, lib)

	return finalize(ctx, repo, lib, notifier, res, runErr)
}

// finalize persists the library and sends the run summary. A failure is
// reported unless the operator interrupted the run or the login step already
// notified about it.
func finalize(ctx context.Context, repo repository.ClaimRepository, lib domain.Library, n notify.Notifier, res *workflow.Result, runErr error) error {
	fctx := context.WithoutCancel(ctx)
	var errs []error

	if runErr != nil {
		errs = append(errs, runErr)
		notified := errors.Is(runErr, workflow.ErrLoginFailed) || errors.Is(runErr, workflow.ErrLoginUnavailable)
		if !notified && !interrupted(ctx, runErr) {
			if err := n.Notify(fctx, "prime-gaming failed: "+firstLine(runErr.Error())); err != nil {
				slog.Warn("failed to send failure notification", "error", err)
			}
		}
	}

	if err := repo.Save(fctx, lib); err != nil {
		errs = append(errs, fmt.Errorf("save claims: %w", err))
	}

	if res != nil && len(res.Items) > 0 {
		if err := n.Notify(fctx, "prime-gaming:<br>"+notify.GameList(res.Items)); err != nil {
			slog.Warn("failed to send summary", "error", err)
		}
	}

	return errors.Join(errs...)
}

func openRepository(c *config.Config) (repository.ClaimRepository, error) {
	if c.Store == config.StoreSQLite {
		db, err := sqlite.NewDatabase(c.DataDir)
		if err != nil {
			return nil, fmt.Errorf("open claims database: %w", err)
		}
		return db, nil
	}
	s := jsonfile.NewStore(filepath.Join(c.DataDir, jsonfile.FileName))
	slog.Debug("using claims file", "path", s.Path())
	return s, nil
}

func newNotifier(c *config.Config) notify.Notifier {
	apprise := notify.NewApprise(c.NotifyURLs, c.NotifyTitle)
	if err := apprise.CheckInstalled(); err != nil {
		slog.Warn("notifications will fail", "error", err)
	}

	m := notify.Multi{notify.Log{}, apprise}
	if c.NotifyDesktop {
		m = append(m, notify.NewDesktop("prime-gaming"))
	}
	return m
}

func newArchive(ctx context.Context, c *config.Config) (screenshot.Archive, error) {
	local := screenshot.NewDir(c.ScreenshotsDir)
	if !c.S3.Enabled() {
		return local, nil
	}

	remote, err := screenshot.NewS3(ctx, screenshot.S3Options{
		Bucket:          c.S3.Bucket,
		Prefix:          c.S3.Prefix,
		Endpoint:        c.S3.Endpoint,
		Region:          c.S3.Region,
		AccessKeyID:     c.S3.AccessKeyID,
		SecretAccessKey: c.S3.SecretAccessKey,
	})
	if err != nil {
		return nil, err
	}
	return screenshot.Multi{local, remote}, nil
}

func newPrompter() prompt.Prompter {
	if prompt.Interactive() {
		return prompt.NewTerminal()
	}
	return prompt.None{}
}

func browserOptions(c *config.Config) browser.Options {
	return browser.Options{
		ProfileDir: c.BrowserDir,
		Headless:   c.Headless(),
		Width:      c.Width,
		Height:     c.Height,
		Timeout:    c.Timeout,
		Debug:      c.Debug,
	}
}

func workflowConfig(c *config.Config) workflow.Config {
	return workflow.Config{
		Email:        c.Email,
		Password:     c.Password,
		OTPKey:       c.OTPKey,
		Headless:     c.Headless(),
		DryRun:       c.DryRun,
		Redeem:       c.Redeem,
		Timeout:      c.Timeout,
		LoginTimeout: c.LoginTimeout,
	}
}
