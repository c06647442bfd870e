// Command eventchain validates chain definitions and walks them offline.
package main

import (
	"fmt"
	"os"

	"github.com/randalmurphal/eventchain/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
