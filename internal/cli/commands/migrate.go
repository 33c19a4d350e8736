package commands

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"swiftcheck/internal/config"
	"swiftcheck/internal/history"
)

// MigrateCommand handles the migrate command
type MigrateCommand struct {
	config *config.Config
}

// NewMigrateCommand creates a new MigrateCommand
func NewMigrateCommand(cfg *config.Config) *MigrateCommand {
	return &MigrateCommand{config: cfg}
}

// Execute creates the history schema
func (mc *MigrateCommand) Execute(cmd *cobra.Command, args []string) error {
	store, err := history.Open(cmd.Context(), mc.config.History.Driver, mc.config.GetHistoryDSN(), zap.L())
	if err != nil {
		return err
	}
	defer store.Close()

	var m history.Migrator = store
	if err := m.Migrate(cmd.Context()); err != nil {
		return err
	}
	color.Green("✓ History schema ready (%s)", mc.config.History.Driver)
	return nil
}
