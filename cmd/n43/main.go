package main

import (
	"os"

	"github.com/MrJamesThe3rd/norma43/cmd/n43/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
