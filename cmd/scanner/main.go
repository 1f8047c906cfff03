package main

import (
	"os"

	"github.com/coinscan/backend/cmd/scanner/commands"
)

// main is the entry point for the coinscan CLI
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
