package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/srcmap/srcmap/pkg/lang"
)

func cmdLanguages(args []string) error {
	if hasFlag(args, "--help") || hasFlag(args, "-h") {
		fmt.Println(`srcmap languages - List supported languages

Usage:
  srcmap languages`)
		return nil
	}

	registry, err := lang.NewRegistry()
	if err != nil {
		return fmt.Errorf("building language registry: %w", err)
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Language", "Extensions", "Import Key")
	for _, p := range registry.Profiles() {
		if err := table.Append([]string{p.Name, strings.Join(p.Extensions, " "), p.ImportKey}); err != nil {
			return err
		}
	}
	return table.Render()
}
