package main

import (
	"os"

	"github.com/alperekinci99/typefetch-cli/internal/cli/commands"
	"github.com/alperekinci99/typefetch-cli/internal/cli/ui"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		ui.NewPrinter(os.Stderr, false).Error(err)
		os.Exit(1)
	}
}
