package index

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Encode serializes the index as an indented JSON document with stable key
// ordering (encoding/json sorts map keys), so repeated runs on an unchanged
// tree produce byte-identical output.
func Encode(idx RepoIndex) ([]byte, error) {
	data, err := json.MarshalIndent(idx, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("encoding index: %w", err)
	}
	return append(data, '\n'), nil
}

// Write serializes the index to path. The document is written to a
// temporary file in the destination directory and renamed into place, so a
// failed write never leaves a truncated index behind; the in-memory index
// is untouched either way.
func Write(idx RepoIndex, path string) error {
	data, err := Encode(idx)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".srcmap-*.json")
	if err != nil {
		return fmt.Errorf("writing index: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing index: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("writing index: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("writing index: %w", err)
	}
	return nil
}
