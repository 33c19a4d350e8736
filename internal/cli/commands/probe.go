package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"swiftcheck/internal/cases"
	"swiftcheck/internal/cli"
	"swiftcheck/internal/config"
	"swiftcheck/internal/domain"
	"swiftcheck/internal/execution"
	"swiftcheck/internal/storage"
	"swiftcheck/internal/ui"
)

// ProbeCommand handles the probe command
type ProbeCommand struct {
	config  *config.Config
	filter  *cases.Filter
	storage storage.Storage
}

// NewProbeCommand creates a new ProbeCommand
func NewProbeCommand(cfg *config.Config, filter *cases.Filter, st storage.Storage) *ProbeCommand {
	return &ProbeCommand{config: cfg, filter: filter, storage: st}
}

// Execute submits every transliteration case twice on one session and
// reports cases whose output does not round-trip
func (pc *ProbeCommand) Execute(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := zap.L()

	catalog, err := selectCases(pc.config, pc.filter, pc.storage)
	if err != nil {
		return err
	}
	catalog = catalog.Subset(func(tc domain.TestCase) bool {
		return tc.Kind() == domain.ActionTransliterate
	})
	if catalog.Len() == 0 {
		color.Yellow("No cases to probe")
		return nil
	}

	factory, _, err := sessionFactory(pc.config, logger)
	if err != nil {
		return err
	}
	defer factory.Close()

	session, err := factory.NewSession(ctx)
	if err != nil {
		return fmt.Errorf("open session: %w", err)
	}
	defer session.Close()

	bar := ui.NewProgressBar(catalog.Len(), "Probing cases")
	var stable, unstable int
	probe := execution.NewProbe(logger)
	probe.OnResult(func(r execution.ProbeResult) {
		if r.Stable {
			stable++
		} else {
			unstable++
		}
		bar.Update(stable, unstable, 0)
	})

	results := probe.Run(ctx, session, catalog.Slice())
	bar.Finish()

	for _, r := range results {
		if r.Stable {
			fmt.Printf("%s %s\n", color.GreenString("✓"), r.Case.ID)
			continue
		}
		fmt.Printf("%s %s  %s\n", color.RedString("✗"), r.Case.ID, r.Reason)
	}
	fmt.Println()

	ids := execution.Unstable(results)
	if len(ids) == 0 {
		color.Green("✓ All %d probed case(s) round-trip", len(results))
		return nil
	}
	color.Red("✗ %d of %d probed case(s) are unstable", len(ids), len(results))

	if pc.config.Flags.Quarantine {
		store, err := openHistory(ctx, pc.config, logger)
		if err != nil {
			return fmt.Errorf("open history: %w", err)
		}
		defer store.Close()
		for _, r := range results {
			if r.Stable {
				continue
			}
			if err := store.Quarantine(ctx, r.Case.ID, "probe: "+r.Reason); err != nil {
				return err
			}
		}
		color.Yellow("Quarantined %d case(s)", len(ids))
	}
	return cli.ErrCasesFailed
}
