package commands

import (
	"github.com/spf13/cobra"

	"swiftcheck/internal/config"
	"swiftcheck/internal/storage"
	"swiftcheck/internal/ui"
)

// FailuresCommand handles the failures command
type FailuresCommand struct {
	config    *config.Config
	storage   storage.Storage
	viewer    ui.Viewer
	formatter *ui.Formatter
}

// NewFailuresCommand creates a new FailuresCommand
func NewFailuresCommand(cfg *config.Config, st storage.Storage, viewer ui.Viewer, formatter *ui.Formatter) *FailuresCommand {
	return &FailuresCommand{
		config:    cfg,
		storage:   st,
		viewer:    viewer,
		formatter: formatter,
	}
}

// Execute opens the viewer over the last run, or prints its summary when
// every case passed
func (fc *FailuresCommand) Execute(cmd *cobra.Command, args []string) error {
	report, err := fc.storage.Load()
	if err != nil {
		return err
	}

	if len(report.Problems()) == 0 {
		return fc.formatter.PrintLastRun(fc.storage)
	}
	return fc.viewer.View(report)
}
