package main

import (
	"os"

	"github.com/rdelorme/vaultlens/cmd/vaultlens/commands"
)

// main is the entry point for the vaultlens CLI.
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
