// Package main is the entry point for the lens CLI binary.
package main

import (
	"os"

	cli "lens-engine/pkg/cli"
)

func main() {
	os.Exit(cli.Execute())
}
