package commands

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"swiftcheck/internal/cases"
	"swiftcheck/internal/config"
)

// ValidateCommand handles the validate command
type ValidateCommand struct {
	config *config.Config
}

// NewValidateCommand creates a new ValidateCommand
func NewValidateCommand(cfg *config.Config) *ValidateCommand {
	return &ValidateCommand{config: cfg}
}

// Execute loads and validates the case table without touching the target
func (vc *ValidateCommand) Execute(cmd *cobra.Command, args []string) error {
	path := vc.config.GetCasesPath()
	catalog, err := cases.Load(path, vc.config.PathsToIgnore)
	if err != nil {
		return err
	}

	source := path
	if source == "" {
		source = "built-in table"
	}
	color.Green("✓ %d case(s) in %d categor(ies) are valid (%s)", catalog.Len(), len(catalog.Categories()), source)
	return nil
}
