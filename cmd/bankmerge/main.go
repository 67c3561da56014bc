package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/bankmerge-dev/bankmerge/internal/commands"
)

func main() {
	// A missing .env file is fine; it only supplies optional overrides
	// like BANKMERGE_CONFIG.
	_ = godotenv.Load()

	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
