package main

import (
	"os"

	"github.com/eyildirim82/Finansal-Y-netim-Sistemi-sub002/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
