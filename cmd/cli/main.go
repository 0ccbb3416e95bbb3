// Package main is the entry point for the cloudprice CLI.
package main

import (
	"os"

	"cloudprice/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
