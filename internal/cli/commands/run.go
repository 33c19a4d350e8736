package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"swiftcheck/internal/adapter"
	"swiftcheck/internal/cases"
	"swiftcheck/internal/cli"
	"swiftcheck/internal/config"
	"swiftcheck/internal/domain"
	"swiftcheck/internal/execution"
	"swiftcheck/internal/storage"
	"swiftcheck/internal/ui"
	"swiftcheck/internal/verify"
)

// RunCommand handles the run command
type RunCommand struct {
	config    *config.Config
	filter    *cases.Filter
	verifier  verify.Verifier
	storage   storage.Storage
	formatter *ui.Formatter
	viewer    ui.Viewer
}

// NewRunCommand creates a new RunCommand
func NewRunCommand(
	cfg *config.Config,
	filter *cases.Filter,
	verifier verify.Verifier,
	st storage.Storage,
	formatter *ui.Formatter,
	viewer ui.Viewer,
) *RunCommand {
	return &RunCommand{
		config:    cfg,
		filter:    filter,
		verifier:  verifier,
		storage:   st,
		formatter: formatter,
		viewer:    viewer,
	}
}

// Execute runs the command
func (rc *RunCommand) Execute(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := zap.L()

	// A schema error stops here, before any session is opened.
	catalog, err := selectCases(rc.config, rc.filter, rc.storage)
	if err != nil {
		return err
	}
	if catalog.Len() == 0 {
		color.Yellow("No cases to execute")
		return nil
	}

	factory, recorder, err := sessionFactory(rc.config, logger)
	if err != nil {
		return err
	}
	defer factory.Close()

	report, err := rc.execute(ctx, factory, catalog.Slice(), logger)
	if err != nil {
		return err
	}

	if recorder != nil {
		if err := recorder.Recording().Save(rc.config.Flags.RecordPath); err != nil {
			return fmt.Errorf("failed to save recording: %w", err)
		}
	}
	if err := rc.storage.Save(report); err != nil {
		return fmt.Errorf("failed to save results: %w", err)
	}
	if path := rc.config.Flags.ReportPath; path != "" {
		if err := storage.WriteReport(path, report); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}
	rc.saveHistory(ctx, report, logger)

	rc.formatter.PrintReport(report)

	if len(report.Problems()) == 0 {
		return nil
	}
	if rc.config.Flags.OpenFailures && rc.viewer != nil {
		if err := rc.viewer.View(report); err != nil {
			return err
		}
	}
	return cli.ErrCasesFailed
}

// execute runs cases on the worker pool and builds the report
func (rc *RunCommand) execute(ctx context.Context, factory adapter.Factory, cs []domain.TestCase, logger *zap.Logger) (*domain.Report, error) {
	runner := execution.NewRunner(rc.config, rc.verifier, logger)
	pool := execution.NewWorkerPool(rc.config, factory, runner, execution.NewRoundRobinScheduler(), logger)
	pool.SetQuarantined(rc.quarantined(ctx, logger))
	pool.SetProgress(ui.NewProgressBar(len(cs), "Running cases"))

	started := time.Now()
	rr, duration, err := pool.Execute(ctx, cs)
	if err != nil {
		return nil, err
	}

	sessions := rc.config.Sessions
	if sessions > len(cs) {
		sessions = len(cs)
	}
	meta := domain.ReportMeta{
		RunID:           uuid.NewString(),
		Target:          rc.config.Target.URL,
		Duration:        duration.Round(time.Millisecond).String(),
		DurationSeconds: duration.Seconds(),
		Sessions:        sessions,
		Timestamp:       started.Format(time.RFC3339),
	}
	if rc.config.Flags.ReplayPath != "" {
		meta.Target = "replay:" + rc.config.Flags.ReplayPath
	}
	return domain.BuildReport(meta, rr), nil
}

// quarantined reads quarantined ids; history is optional for a run
func (rc *RunCommand) quarantined(ctx context.Context, logger *zap.Logger) []string {
	store, err := openHistory(ctx, rc.config, logger)
	if err != nil {
		logger.Debug("history unavailable", zap.Error(err))
		return nil
	}
	defer store.Close()

	ids, err := store.QuarantinedIDs(ctx)
	if err != nil {
		logger.Warn("failed to read quarantine", zap.Error(err))
		return nil
	}
	return ids
}

func (rc *RunCommand) saveHistory(ctx context.Context, report *domain.Report, logger *zap.Logger) {
	store, err := openHistory(ctx, rc.config, logger)
	if err != nil {
		logger.Debug("history unavailable", zap.Error(err))
		return
	}
	defer store.Close()

	if err := store.SaveRun(ctx, report); err != nil {
		logger.Warn("failed to save run history", zap.Error(err))
	}
}
