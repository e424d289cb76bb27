// Command docgen writes the markdown command reference for the terrenos
// server and the trn client.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	server "github.com/donaldgifford/terrenos/cmd/terrenos/cmd"
	client "github.com/donaldgifford/terrenos/cmd/trn/cmd"
)

func main() {
	output := flag.String("output", "docs/cli", "root directory for the generated markdown")
	flag.Parse()

	trees := map[string]*cobra.Command{
		"terrenos": server.Root(),
		"trn":      client.Root(),
	}
	for name, root := range trees {
		dir := filepath.Join(*output, name)
		if err := generate(root, dir); err != nil {
			slog.Error("generating docs", "binary", name, "error", err)
			os.Exit(1)
		}
		fmt.Printf("docgen: %s reference written to %s/\n", name, dir)
	}
}

func generate(root *cobra.Command, dir string) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	root.DisableAutoGenTag = true
	return doc.GenMarkdownTree(root, dir)
}
