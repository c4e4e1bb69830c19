package main

import (
	"os"

	"github.com/spf13/cobra"
)

// version is set via ldflags during build
var version = "dev"

func init() {
	// Subcommands are listed in prompt.Commands() order.
	cobra.EnableCommandSorting = false
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
