// td is a command-line client for Todoist built around a locally
// synchronized cache.
package main

import (
	"fmt"
	"os"

	"github.com/tdcli/td/internal/api"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "td: %v\n", err)
		os.Exit(api.ExitCode(err))
	}
}
