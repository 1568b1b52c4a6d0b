// Package main provides the bookcatalog command.
package main

import (
	"os"

	"github.com/leapstack-labs/bookcatalog/internal/cli"
)

func main() {
	os.Exit(cli.ExitCode(cli.Execute()))
}
