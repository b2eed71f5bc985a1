// Command unihan imports the Unihan database into SQLite and queries it.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/unihan/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		if !cli.IsReported(err) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(cli.GetExitCode(err))
	}
}
