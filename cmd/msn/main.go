// Package main is the entry point for the msn CLI tool.
package main

import (
	"os"

	"github.com/aidanlsb/mission/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
