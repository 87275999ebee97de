package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/srcmap/srcmap/pkg/config"
	"github.com/srcmap/srcmap/pkg/store"
)

// openStore resolves the store path from config/flags and opens it.
func openStore(args []string) (*store.Store, error) {
	cfg, err := config.Load(parseFlag(args, "--config="))
	if err != nil {
		return nil, err
	}
	if p := parseFlag(args, "--db="); p != "" {
		cfg.Store.Path = p
	}
	return store.Open(cfg.Store.Path)
}

func cmdStats(args []string) error {
	if hasFlag(args, "--help") || hasFlag(args, "-h") {
		fmt.Println(`srcmap stats - Show persisted scan statistics

Usage:
  srcmap stats [--db=PATH]

Reads the record store written by 'srcmap scan --store'.`)
		return nil
	}

	s, err := openStore(args)
	if err != nil {
		return fmt.Errorf("opening record store: %w", err)
	}
	defer s.Close()

	runs, err := s.Runs()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No scans persisted yet (run 'srcmap scan --store')")
		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Run", "Root", "Files", "Errors", "Created")
	for _, run := range runs {
		if err := table.Append([]string{
			run.ID,
			run.Root,
			strconv.Itoa(run.Files),
			strconv.Itoa(run.Errors),
			run.CreatedAt.Format("2006-01-02 15:04:05"),
		}); err != nil {
			return err
		}
	}
	return table.Render()
}

func cmdRecord(args []string) error {
	if hasFlag(args, "--help") || hasFlag(args, "-h") || len(args) == 0 {
		fmt.Println(`srcmap record - Show the stored record for one file

Usage:
  srcmap record <path> [--db=PATH]`)
		return nil
	}

	var path string
	for _, arg := range args {
		if !strings.HasPrefix(arg, "--") {
			path = arg
			break
		}
	}
	if path == "" {
		return fmt.Errorf("file path is required")
	}

	s, err := openStore(args)
	if err != nil {
		return fmt.Errorf("opening record store: %w", err)
	}
	defer s.Close()

	record, err := s.Record(path)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("no record for %s", path)
		}
		return err
	}

	data, err := json.MarshalIndent(record, "", "    ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
