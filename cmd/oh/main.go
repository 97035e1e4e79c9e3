// Package main is the entry point for the open-house sign-in CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/huepham/openhouse/internal/cli"
)

func main() {
	// Optional .env for server URL and token overrides.
	_ = godotenv.Load()

	if err := cli.NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
