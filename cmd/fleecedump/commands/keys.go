package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/scigolib/fleece"
)

var keysStateFile string

var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Print a SharedKeys table loaded from its state bytes",
	Long: `Print the id -> key assignments of a SharedKeys table previously
serialized with SharedKeys.StateBytes (a Fleece array of strings in
assignment order). There is no way to recover a table purely from a
Fleece file encoded with it, since Short key ids are only meaningful
relative to the table that assigned them; the state bytes must be
stored and loaded alongside the file.`,
	RunE: runKeys,
}

func init() {
	keysCmd.Flags().StringVar(&keysStateFile, "state", "", "path to a file holding SharedKeys.StateBytes output")
	_ = keysCmd.MarkFlagRequired("state")
}

func runKeys(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(keysStateFile)
	if err != nil {
		return fmt.Errorf("reading %s: %w", keysStateFile, err)
	}

	sk, err := fleece.FromStateBytes(data)
	if err != nil {
		return fmt.Errorf("decoding shared keys state: %w", err)
	}

	out := cmd.OutOrStdout()
	for id := uint16(0); id < uint16(sk.Len()); id++ {
		key, ok := sk.Decode(id)
		if !ok {
			continue
		}
		fmt.Fprintf(out, "%d: %s\n", id, key)
	}
	return nil
}
