// Package commands implements the fleecedump CLI subcommands.
package commands

import "github.com/spf13/cobra"

// rootCmd is the base command when fleecedump is called with no subcommand.
var rootCmd = &cobra.Command{
	Use:   "fleecedump",
	Short: "Inspect Fleece-encoded binary files",
	Long: `fleecedump decodes and prints Fleece-encoded buffers for debugging.

Use "fleecedump [command] --help" for more information about a command.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Called once from main.main.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(keysCmd)
}
