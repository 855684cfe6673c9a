package root

import (
	"github.com/spf13/cobra"
)

// rootCmd is the base command for the CopTrack operator CLI. Subcommands are attached in wire.go.
var rootCmd = &cobra.Command{
	Use:   "coptrack",
	Short: "CopTrack operator CLI",
	Long: "Operator utilities for CopTrack: snapshot seeding, export and migration, station status and session tokens.\n" +
		"Every command reads the snapshot backend from SNAPSHOT_BACKEND and its companion variables.",
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

// Root returns the mutable root command for wiring from subpackages.
func Root() *cobra.Command {
	return rootCmd
}
