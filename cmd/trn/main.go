// Package main is the entry point for the trn CLI client.
package main

import (
	"github.com/donaldgifford/terrenos/cmd/trn/cmd"
)

func main() {
	cmd.Execute()
}
