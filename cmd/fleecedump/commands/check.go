package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/scigolib/fleece"
)

var checkCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "Validate a Fleece file without printing its contents",
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	if _, err := fleece.Decode(data); err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d bytes)\n", args[0], len(data))
	return nil
}
