// Command fleecedump decodes and prints Fleece-encoded files.
package main

import (
	"fmt"
	"os"

	"github.com/scigolib/fleece/cmd/fleecedump/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
