// Package main is the entry point for the terrenos server.
package main

import (
	"os"

	"github.com/donaldgifford/terrenos/cmd/terrenos/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
