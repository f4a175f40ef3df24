package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/scigolib/fleece"
)

var dumpUnchecked bool

var dumpCmd = &cobra.Command{
	Use:   "dump <file>",
	Short: "Decode a Fleece file and print its tree",
	Args:  cobra.ExactArgs(1),
	RunE:  runDump,
}

func init() {
	dumpCmd.Flags().BoolVar(&dumpUnchecked, "unchecked", false, "skip validation (only safe on trusted input)")
}

func runDump(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	var root fleece.Value
	if dumpUnchecked {
		root = fleece.DecodeUnchecked(data)
	} else {
		root, err = fleece.Decode(data)
		if err != nil {
			return fmt.Errorf("decoding %s: %w", args[0], err)
		}
	}

	fmt.Fprint(cmd.OutOrStdout(), root.String())
	return nil
}
