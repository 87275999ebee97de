// Package index implements the srcmap extraction pipeline: per-file
// structural extraction, normalization, directory scanning, and the
// deterministic JSON index writer.
package index

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// FileRecord is the per-file structural summary stored in the output index.
//
// The import list serializes under the profile's import key ("includes" for
// the C family, "imports" otherwise). The three category lists are always
// present in the JSON record, deduplicated and sorted; "error" appears only
// when extraction failed, in which case all lists are empty.
type FileRecord struct {
	Path      string
	Imports   []string
	Functions []string
	Classes   []string
	Error     string

	importKey string
}

// NewFileRecord creates an empty record for a file. importKey is the JSON
// key for the import category.
func NewFileRecord(path, importKey string) *FileRecord {
	return &FileRecord{Path: path, importKey: importKey}
}

// ErrorRecord creates a record carrying a failure reason and empty
// category lists. Failure and partial success are never mixed.
func ErrorRecord(path, importKey, reason string) *FileRecord {
	return &FileRecord{Path: path, importKey: importKey, Error: reason}
}

// ImportKey returns the JSON key the import list serializes under.
func (r *FileRecord) ImportKey() string {
	return r.importKey
}

// MarshalJSON emits the record with a fixed field order: import list,
// functions, classes, then error (omitted when empty). Field order plus
// the sorted category lists make record serialization deterministic.
// Output is compact; document-level indentation is applied by Encode.
func (r *FileRecord) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	writeList := func(key string, values []string) error {
		if values == nil {
			values = []string{}
		}
		data, err := json.Marshal(values)
		if err != nil {
			return err
		}
		keyData, err := json.Marshal(key)
		if err != nil {
			return err
		}
		buf.Write(keyData)
		buf.WriteByte(':')
		buf.Write(data)
		return nil
	}

	importKey := r.importKey
	if importKey == "" {
		importKey = "imports"
	}
	if err := writeList(importKey, r.Imports); err != nil {
		return nil, err
	}
	buf.WriteByte(',')
	if err := writeList("functions", r.Functions); err != nil {
		return nil, err
	}
	buf.WriteByte(',')
	if err := writeList("classes", r.Classes); err != nil {
		return nil, err
	}

	if r.Error != "" {
		errData, err := json.Marshal(r.Error)
		if err != nil {
			return nil, err
		}
		buf.WriteString(`,"error":`)
		buf.Write(errData)
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a record serialized by MarshalJSON, accepting
// either "includes" or "imports" as the import key.
func (r *FileRecord) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	if raw, ok := fields["includes"]; ok {
		r.importKey = "includes"
		if err := json.Unmarshal(raw, &r.Imports); err != nil {
			return fmt.Errorf("decoding includes: %w", err)
		}
	} else if raw, ok := fields["imports"]; ok {
		r.importKey = "imports"
		if err := json.Unmarshal(raw, &r.Imports); err != nil {
			return fmt.Errorf("decoding imports: %w", err)
		}
	}
	if raw, ok := fields["functions"]; ok {
		if err := json.Unmarshal(raw, &r.Functions); err != nil {
			return fmt.Errorf("decoding functions: %w", err)
		}
	}
	if raw, ok := fields["classes"]; ok {
		if err := json.Unmarshal(raw, &r.Classes); err != nil {
			return fmt.Errorf("decoding classes: %w", err)
		}
	}
	if raw, ok := fields["error"]; ok {
		if err := json.Unmarshal(raw, &r.Error); err != nil {
			return fmt.Errorf("decoding error: %w", err)
		}
	}
	return nil
}

// RepoIndex maps file paths (relative to the scan root, forward slashes)
// to their records. It is built incrementally by the scanner and never
// mutated after the scan completes.
type RepoIndex map[string]*FileRecord

// ErrorCount returns the number of records carrying an error.
func (idx RepoIndex) ErrorCount() int {
	n := 0
	for _, rec := range idx {
		if rec.Error != "" {
			n++
		}
	}
	return n
}
