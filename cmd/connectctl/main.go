// Package main is the entry point for the connectctl CLI.
package main

import (
	"os"

	"github.com/lilykang127/connect-ltv/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
