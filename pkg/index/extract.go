package index

import (
	"bytes"
	"fmt"

	"github.com/srcmap/srcmap/pkg/lang"
)

// ErrEmptyFile is the reason recorded for empty or whitespace-only files.
// Modeled as a record-level error, not a run failure.
const ErrEmptyFile = "empty file"

// Extract parses one file's bytes and runs every category query from the
// profile against the resulting tree. It always returns a record: any
// failure during parse or query execution is captured on the record so a
// single bad file never aborts the scan.
//
// Empty or whitespace-only content short-circuits before any parse is
// attempted.
func Extract(profile *lang.Profile, path string, content []byte) *FileRecord {
	if len(bytes.TrimSpace(content)) == 0 {
		return ErrorRecord(path, profile.ImportKey, ErrEmptyFile)
	}

	tree, err := profile.Parse(content)
	if err != nil {
		return ErrorRecord(path, profile.ImportKey, fmt.Sprintf("parse failed: %v", err))
	}
	defer tree.Close()
	root := tree.RootNode()

	record := NewFileRecord(path, profile.ImportKey)

	raw := profile.Captures(lang.CategoryImports, root, content)
	for i, v := range raw {
		raw[i] = TrimIncludeDelims(v)
	}
	record.Imports = Normalize(raw)
	record.Functions = Normalize(profile.Captures(lang.CategoryFunctions, root, content))
	record.Classes = Normalize(profile.Captures(lang.CategoryClasses, root, content))

	return record
}
