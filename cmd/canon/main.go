// Package main is the entry point for the canon CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/thoreinstein/canon/cmd/canon/commands"
	"github.com/thoreinstein/canon/internal/errors"
)

func main() {
	// A .env next to the project supplies CANON_EVALUATOR_API_KEY; it is
	// optional.
	_ = godotenv.Load()

	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)

		var exitErr *errors.ExitError
		if errors.As(err, &exitErr) {
			if exitErr.Suggestion != "" {
				fmt.Fprintf(os.Stderr, "Hint: %s\n", exitErr.Suggestion)
			}
			os.Exit(exitErr.Code)
		}
		os.Exit(errors.ExitSystem)
	}
}
