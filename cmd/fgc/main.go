package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/elsanchez/free-games-claimer/internal/config"
	"github.com/elsanchez/free-games-claimer/internal/prompt"
)

const version = "0.1.0"

// Process exit codes
const (
	exitOK        = 0
	exitFailure   = 1
	exitInterrupt = 130
)

var (
	cfg *config.Config

	flagShow   bool
	flagDryRun bool
	flagRedeem bool
	flagDebug  bool
)

var rootCmd = &cobra.Command{
	Use:   "fgc",
	Short: "Claim free games on Prime Gaming",
	Long: `fgc signs into Prime Gaming, claims the free in-catalog games, claims
external offers and redeems their codes on the stores it knows.

Configuration is read from the environment and an optional env file
(FGC_ENV_FILE, default data/config.env or .env). Without a subcommand
fgc runs a claim.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	RunE:              runClaim,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("fgc v%s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagShow, "show", false, "Show the browser window (SHOW)")
	rootCmd.PersistentFlags().BoolVar(&flagDryRun, "dry-run", false, "Only list offers, claim nothing (DRYRUN)")
	rootCmd.PersistentFlags().BoolVar(&flagRedeem, "redeem", false, "Redeem codes on external stores (PG_REDEEM)")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Debug logging, no timeouts (DEBUG)")

	rootCmd.AddCommand(versionCmd)
}

func main() {
	os.Exit(execute())
}

func execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	code := exitCode(ctx, err)
	switch code {
	case exitInterrupt:
		slog.Warn("interrupted")
	case exitFailure:
		slog.Error("fgc failed", "error", err)
	}
	return code
}

// setup loads the configuration and the logger shared by every command
func setup(cmd *cobra.Command, args []string) error {
	c, err := config.Load()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("show") {
		c.Show = flagShow
	}
	if flags.Changed("dry-run") {
		c.DryRun = flagDryRun
	}
	if flags.Changed("redeem") {
		c.Redeem = flagRedeem
	}
	if flags.Changed("debug") {
		c.Debug = flagDebug
	}
	cfg = c

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler).With("run", uuid.NewString()))
	return nil
}

// exitCode maps the outcome of a command to the process status
func exitCode(ctx context.Context, err error) int {
	switch {
	case err == nil:
		return exitOK
	case interrupted(ctx, err):
		return exitInterrupt
	default:
		return exitFailure
	}
}

// interrupted reports whether err stems from the operator stopping the run.
// ctx is only cancelled by a signal, and the signal also reaches the browser,
// so whatever error the driver returned afterwards counts as an interrupt.
func interrupted(ctx context.Context, err error) bool {
	return errors.Is(err, prompt.ErrInterrupted) || ctx.Err() != nil
}

// firstLine keeps notifications short
func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
