package commands

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"swiftcheck/internal/cases"
	"swiftcheck/internal/config"
)

// QuarantineCommand handles the quarantine subcommands
type QuarantineCommand struct {
	config *config.Config
}

// NewQuarantineCommand creates a new QuarantineCommand
func NewQuarantineCommand(cfg *config.Config) *QuarantineCommand {
	return &QuarantineCommand{config: cfg}
}

// List prints quarantined cases
func (qc *QuarantineCommand) List(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	store, err := openHistory(ctx, qc.config, zap.L())
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.Quarantined(ctx)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		color.Green("No quarantined cases")
		return nil
	}
	for _, e := range entries {
		fmt.Printf("%s  %s  %s\n", color.YellowString(e.CaseID), e.CreatedAt.Format("2006-01-02"), e.Reason)
	}
	return nil
}

// Add quarantines a case: quarantine add <id> [reason...]
func (qc *QuarantineCommand) Add(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	id := args[0]
	reason := strings.Join(args[1:], " ")
	if reason == "" {
		reason = "manual"
	}

	if catalog, err := cases.Load(qc.config.GetCasesPath(), qc.config.PathsToIgnore); err == nil {
		if _, ok := catalog.Get(id); !ok {
			color.Yellow("Warning: %s is not in the case table", id)
		}
	}

	store, err := openHistory(ctx, qc.config, zap.L())
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Quarantine(ctx, id, reason); err != nil {
		return err
	}
	color.Green("✓ Quarantined %s", id)
	return nil
}

// Release removes a case from quarantine
func (qc *QuarantineCommand) Release(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	store, err := openHistory(ctx, qc.config, zap.L())
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Release(ctx, args[0]); err != nil {
		return err
	}
	color.Green("✓ Released %s", args[0])
	return nil
}

// Flaky prints cases whose verdict changed across recent runs
func (qc *QuarantineCommand) Flaky(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	store, err := openHistory(ctx, qc.config, zap.L())
	if err != nil {
		return err
	}
	defer store.Close()

	window, _ := cmd.Flags().GetInt("window")
	ids, err := store.Flaky(ctx, window)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		color.Green("No flaky cases in the last %d run(s)", window)
		return nil
	}
	color.Yellow("%d case(s) changed verdict in the last %d run(s):", len(ids), window)
	for _, id := range ids {
		fmt.Printf("  %s\n", id)
	}
	return nil
}
