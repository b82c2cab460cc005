// ABOUTME: Entry point for the quill binary.
// ABOUTME: Loads .env if present and executes the root Cobra command.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

func main() {
	// Best-effort: a missing .env is fine.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
