// Package main provides the leapdoi command.
package main

import (
	"os"

	"github.com/leapstack-labs/leapdoi/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
