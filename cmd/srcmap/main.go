// Package main provides the CLI for srcmap.
package main

import (
	"fmt"
	"os"

	"github.com/srcmap/srcmap/internal/version"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	if err := runCommand(cmd, args); err != nil {
		fatal("%v", err)
	}
}

func runCommand(cmd string, args []string) error {
	switch cmd {
	case "scan":
		return cmdScan(args)
	case "languages":
		return cmdLanguages(args)
	case "stats":
		return cmdStats(args)
	case "record":
		return cmdRecord(args)
	case "help", "-h", "--help":
		printUsage()
		return nil
	case "version", "-v", "--version":
		return cmdVersion(args)
	default:
		return fmt.Errorf("unknown command: %s", cmd)
	}
}

func cmdVersion(args []string) error {
	for _, arg := range args {
		if arg == "--json" {
			fmt.Println(version.JSON())
			return nil
		}
	}
	fmt.Println(version.String())
	return nil
}

func printUsage() {
	fmt.Println(`srcmap - structural source indexer

Walks a source tree, parses each recognized file with a tree-sitter
grammar, and writes a deterministic JSON index of every file's
includes/imports, function definitions, and class/struct definitions.

Usage:
  srcmap <command> [arguments]

Commands:
  scan       Index a source tree and write the JSON index
  languages  List supported languages and extensions
  stats      Show statistics from the persisted record store
  record     Show the stored record for one file
  version    Show version information
  help       Show this help

Run 'srcmap <command> --help' for command-specific options.`)
}
