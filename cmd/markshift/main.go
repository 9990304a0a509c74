// Package main is the entry point for the markshift CLI.
package main

import (
	"os"

	"github.com/jmylchreest/markshift/cmd/markshift/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
