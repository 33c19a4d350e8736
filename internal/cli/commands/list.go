package commands

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"swiftcheck/internal/cases"
	"swiftcheck/internal/config"
	"swiftcheck/internal/storage"
	"swiftcheck/internal/ui"
)

// ListCommand handles the list command
type ListCommand struct {
	config    *config.Config
	filter    *cases.Filter
	formatter *ui.Formatter
	storage   storage.Storage
}

// NewListCommand creates a new ListCommand
func NewListCommand(
	cfg *config.Config,
	filter *cases.Filter,
	formatter *ui.Formatter,
	st storage.Storage,
) *ListCommand {
	return &ListCommand{
		config:    cfg,
		filter:    filter,
		formatter: formatter,
		storage:   st,
	}
}

// Execute runs the command
func (lc *ListCommand) Execute(cmd *cobra.Command, args []string) error {
	catalog, err := selectCases(lc.config, lc.filter, lc.storage)
	if err != nil {
		return err
	}

	if catalog.Len() == 0 {
		color.Yellow("No cases found")
		return nil
	}

	lc.formatter.PrintCaseList(catalog.Slice(), lc.config.Flags.ShowIO, failedSet(lc.storage))
	return nil
}
