package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"swiftcheck/internal/cli"
	"swiftcheck/internal/cli/commands"
	"swiftcheck/internal/config"
	"swiftcheck/internal/logging"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	// Create initial config with defaults; file and env values are layered in
	// before any command runs.
	cfg := config.New()

	// Create flags struct (will be populated by command flags)
	var flags cli.Flags

	var logger *zap.Logger

	// Create root command
	rootCmd := &cobra.Command{
		Use:   "swiftcheck",
		Short: "Data-driven E2E checks for Singlish to Sinhala transliteration",
		Long: `Replays a table of Singlish inputs against a live transliteration page in a real browser,
compares the rendered Sinhala output with the expected value and reports a verdict per case.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load(".", flags.ConfigFile)
			if err != nil {
				return err
			}
			*cfg = *loaded

			logger, err = logging.New(flags.Verbose)
			if err != nil {
				return err
			}
			zap.ReplaceGlobals(logger)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	// Create commands with dependencies
	cmds := commands.NewCommands(cfg)

	// Register all commands
	cmds.Register(rootCmd, &flags, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		if !errors.Is(err, cli.ErrCasesFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
