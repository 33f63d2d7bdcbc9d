package main

import (
	"os"

	"github.com/aadjones/pumpkin-stats/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
