package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/srcmap/srcmap/pkg/config"
	"github.com/srcmap/srcmap/pkg/ignore"
	"github.com/srcmap/srcmap/pkg/index"
	"github.com/srcmap/srcmap/pkg/lang"
	"github.com/srcmap/srcmap/pkg/store"
)

func printScanUsage() {
	fmt.Println(`srcmap scan - Index a source tree

Usage:
  srcmap scan [root] [options]

The root defaults to the configured root (current directory). The index is
written as a JSON document mapping each file path to its includes/imports,
functions, and classes.

Options:
  --output=PATH    Index document path (default repo_structure.json)
  --workers=N      Extraction worker count (default: one per CPU)
  --config=PATH    Explicit config file (default: srcmap.json if present)
  --store          Also persist records to the bbolt store
  --quiet          Suppress the summary line

Configuration may also come from srcmap.json or SRCMAP_* environment
variables; flags take precedence.`)
}

func cmdScan(args []string) error {
	if hasFlag(args, "--help") || hasFlag(args, "-h") {
		printScanUsage()
		return nil
	}

	cfg, err := config.Load(parseFlag(args, "--config="))
	if err != nil {
		return err
	}

	// Positional root overrides config.
	for _, arg := range args {
		if !strings.HasPrefix(arg, "--") {
			cfg.Root = arg
			break
		}
	}
	if out := parseFlag(args, "--output="); out != "" {
		cfg.Output = out
	}
	if w := parseFlag(args, "--workers="); w != "" {
		n, err := strconv.Atoi(w)
		if err != nil {
			return fmt.Errorf("invalid --workers value %q", w)
		}
		cfg.Workers = n
	}
	if hasFlag(args, "--store") {
		cfg.Store.Enabled = true
	}
	quiet := hasFlag(args, "--quiet")

	registry, err := lang.NewRegistry()
	if err != nil {
		return fmt.Errorf("building language registry: %w", err)
	}

	matcher, err := ignore.New(cfg.Root, cfg.IgnoreFile)
	if err != nil {
		return fmt.Errorf("loading ignore rules: %w", err)
	}

	scanner := index.NewScanner(registry, matcher, cfg.Workers)
	idx, err := scanner.Scan(cfg.Root)
	if err != nil {
		if errors.Is(err, index.ErrNoFiles) {
			return fmt.Errorf("%w under %s (check the root and recognized extensions)", err, cfg.Root)
		}
		return err
	}

	if err := index.Write(idx, cfg.Output); err != nil {
		return err
	}

	if cfg.Store.Enabled {
		s, err := store.Open(cfg.Store.Path)
		if err != nil {
			return fmt.Errorf("opening record store: %w", err)
		}
		defer s.Close()
		if _, err := s.SaveIndex(cfg.Root, idx); err != nil {
			return fmt.Errorf("persisting records: %w", err)
		}
	}

	if !quiet {
		if n := idx.ErrorCount(); n > 0 {
			fmt.Printf("Analyzed %d files (%d with errors), wrote %s\n", len(idx), n, cfg.Output)
		} else {
			fmt.Printf("Analyzed %d files, wrote %s\n", len(idx), cfg.Output)
		}
	}
	return nil
}
