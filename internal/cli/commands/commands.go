package commands

import (
	"swiftcheck/internal/cases"
	"swiftcheck/internal/cli"
	"swiftcheck/internal/config"
	"swiftcheck/internal/storage"
	"swiftcheck/internal/ui"
	"swiftcheck/internal/verify"

	"github.com/spf13/cobra"
)

// Commands holds all CLI commands
type Commands struct {
	Run        *RunCommand
	List       *ListCommand
	Validate   *ValidateCommand
	Probe      *ProbeCommand
	Failures   *FailuresCommand
	Migrate    *MigrateCommand
	Quarantine *QuarantineCommand
}

// NewCommands creates all commands with dependencies
func NewCommands(cfg *config.Config) *Commands {
	// Initialize dependencies
	filter := cases.NewFilter()
	verifier := verify.NewExact()
	jsonStorage := storage.NewJSONStorage(cfg)
	formatter := ui.NewFormatter(cfg)
	failuresViewer := ui.NewFailuresViewer(jsonStorage)

	return &Commands{
		Run:        NewRunCommand(cfg, filter, verifier, jsonStorage, formatter, failuresViewer),
		List:       NewListCommand(cfg, filter, formatter, jsonStorage),
		Validate:   NewValidateCommand(cfg),
		Probe:      NewProbeCommand(cfg, filter, jsonStorage),
		Failures:   NewFailuresCommand(cfg, jsonStorage, failuresViewer, formatter),
		Migrate:    NewMigrateCommand(cfg),
		Quarantine: NewQuarantineCommand(cfg),
	}
}

// applyFlags returns a PreRunE that copies parsed flags into the config
func applyFlags(flags *cli.Flags, cfg *config.Config) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if !cmd.Flags().Changed("headless") {
			flags.Headless = cfg.Browser.Headless
		}
		cfg.ApplyFlags(flags.ToConfigFlags())
		return nil
	}
}

// Register registers all commands with cobra
func (c *Commands) Register(rootCmd *cobra.Command, flags *cli.Flags, cfg *config.Config) {
	rootCmd.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flags.ConfigFile, "config", "", "Path to a YAML config file (default ./"+config.DefaultConfigFile+" when present)")

	// Run command
	runCmd := &cobra.Command{
		Use:     "run",
		Short:   "Run transliteration cases against the target page",
		Long:    "Replay every case in the table against the page, verify the rendered output and report verdicts. Exits 1 unless every case passes.",
		RunE:    c.Run.Execute,
		PreRunE: applyFlags(flags, cfg),
	}
	runCmd.Flags().StringVarP(&flags.CategoryFilter, "filter", "f", "", "Run only this category; exact unless the pattern has wildcards (e.g. 'Neg_Fun', 'Pos_*')")
	runCmd.Flags().StringVar(&flags.IDFilter, "id", "", "Run only case ids matching the pattern; a plain pattern matches as a substring (e.g. 'Pos_Fun_00*')")
	runCmd.Flags().StringVarP(&flags.ReportPath, "report", "r", "", "Write a report file (.json, .yaml/.yml, anything else is text)")
	runCmd.Flags().StringVarP(&flags.CasesPath, "cases", "c", "", "Case table file or directory of *.cases.yaml files (default: built-in table)")
	runCmd.Flags().IntVarP(&flags.Sessions, "sessions", "s", 0, "Number of isolated browser sessions (default from config: 1)")
	runCmd.Flags().IntVar(&flags.Retries, "retries", -1, "Retries for transient adapter errors (default from config: 1)")
	runCmd.Flags().DurationVar(&flags.SubmitTimeout, "timeout", 0, "Bound for a single submit or reset (default from config: 15s)")
	runCmd.Flags().DurationVar(&flags.RunTimeout, "run-timeout", 0, "Bound for the whole run; unfinished cases become run_aborted errors")
	runCmd.Flags().BoolVar(&flags.FailFast, "fail-fast", false, "Stop on the first case that does not pass")
	runCmd.Flags().StringVar(&flags.ReplayPath, "replay", "", "Answer from a recording file instead of a live browser")
	runCmd.Flags().StringVar(&flags.RecordPath, "record", "", "Save every submitted input and its output to a recording file")
	runCmd.Flags().BoolVar(&flags.Headless, "headless", true, "Run Chrome headless")
	runCmd.Flags().StringVar(&flags.URL, "url", "", "Target page URL (default "+config.DefaultTargetURL+")")
	runCmd.Flags().BoolVar(&flags.OnlyFailed, "failed", false, "Run only cases that did not pass in the last run")
	runCmd.Flags().BoolVar(&flags.OpenFailures, "open-failures", false, "Open the failures viewer when the run has failing cases")
	rootCmd.AddCommand(runCmd)

	// List command
	listCmd := &cobra.Command{
		Use:     "list",
		Short:   "List the case table",
		Long:    "Load, validate and list cases grouped by category without contacting the target",
		RunE:    c.List.Execute,
		PreRunE: applyFlags(flags, cfg),
	}
	listCmd.Flags().StringVarP(&flags.CategoryFilter, "filter", "f", "", "List only this category; exact unless the pattern has wildcards")
	listCmd.Flags().StringVar(&flags.IDFilter, "id", "", "List only case ids matching the pattern")
	listCmd.Flags().StringVarP(&flags.CasesPath, "cases", "c", "", "Case table file or directory")
	listCmd.Flags().BoolVar(&flags.OnlyFailed, "failed", false, "List only cases that did not pass in the last run")
	listCmd.Flags().BoolVar(&flags.ShowIO, "io", false, "Show input and expected output for each case")
	rootCmd.AddCommand(listCmd)

	// Validate command
	validateCmd := &cobra.Command{
		Use:     "validate",
		Short:   "Validate the case table",
		Long:    "Check ids, inputs and expected values of the case table. Duplicate ids and empty fields are reported with their source.",
		RunE:    c.Validate.Execute,
		PreRunE: applyFlags(flags, cfg),
	}
	validateCmd.Flags().StringVarP(&flags.CasesPath, "cases", "c", "", "Case table file or directory")
	rootCmd.AddCommand(validateCmd)

	// Probe command
	probeCmd := &cobra.Command{
		Use:     "probe",
		Short:   "Check that outputs round-trip",
		Long:    "Submit each case, read it back, reset twice and resubmit. Cases whose output changes are reported as unstable.",
		RunE:    c.Probe.Execute,
		PreRunE: applyFlags(flags, cfg),
	}
	probeCmd.Flags().StringVarP(&flags.CategoryFilter, "filter", "f", "", "Probe only this category; exact unless the pattern has wildcards")
	probeCmd.Flags().StringVar(&flags.IDFilter, "id", "", "Probe only case ids matching the pattern")
	probeCmd.Flags().StringVarP(&flags.CasesPath, "cases", "c", "", "Case table file or directory")
	probeCmd.Flags().BoolVar(&flags.Quarantine, "quarantine", false, "Quarantine unstable cases in the history store")
	probeCmd.Flags().StringVar(&flags.ReplayPath, "replay", "", "Answer from a recording file instead of a live browser")
	probeCmd.Flags().BoolVar(&flags.Headless, "headless", true, "Run Chrome headless")
	probeCmd.Flags().StringVar(&flags.URL, "url", "", "Target page URL")
	probeCmd.Flags().DurationVar(&flags.SubmitTimeout, "timeout", 0, "Bound for a single submit or reset")
	rootCmd.AddCommand(probeCmd)

	// Failures command
	failuresCmd := &cobra.Command{
		Use:   "failures",
		Short: "View failing cases interactively",
		Long:  "Browse failing and errored cases from the last run. R marks a case as reviewed.",
		RunE:  c.Failures.Execute,
	}
	rootCmd.AddCommand(failuresCmd)

	// Migrate command
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create the history database schema",
		Long:  "Create the runs, verdicts and quarantine tables in the configured history database (sqlite or mysql)",
		RunE:  c.Migrate.Execute,
	}
	rootCmd.AddCommand(migrateCmd)

	// Quarantine commands
	quarantineCmd := &cobra.Command{
		Use:   "quarantine",
		Short: "Manage quarantined cases",
		Long:  "Quarantined cases still run and count toward the exit code; their verdicts are tagged in reports.",
	}
	quarantineCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List quarantined cases",
		Args:  cobra.NoArgs,
		RunE:  c.Quarantine.List,
	})
	quarantineCmd.AddCommand(&cobra.Command{
		Use:   "add <id> [reason...]",
		Short: "Quarantine a case",
		Args:  cobra.MinimumNArgs(1),
		RunE:  c.Quarantine.Add,
	})
	quarantineCmd.AddCommand(&cobra.Command{
		Use:   "release <id>",
		Short: "Release a case from quarantine",
		Args:  cobra.ExactArgs(1),
		RunE:  c.Quarantine.Release,
	})
	flakyCmd := &cobra.Command{
		Use:   "flaky",
		Short: "List cases whose verdict changed across recent runs",
		Args:  cobra.NoArgs,
		RunE:  c.Quarantine.Flaky,
	}
	flakyCmd.Flags().Int("window", 5, "Number of recent runs to compare")
	quarantineCmd.AddCommand(flakyCmd)
	rootCmd.AddCommand(quarantineCmd)
}
