// Command strparse parses strings with character state machines.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/strparse/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		// Commands print their own output; errors not reported yet (flag
		// parsing, ExitErrors without output) are printed here.
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
