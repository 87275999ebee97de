package store

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/srcmap/srcmap/pkg/index"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), ".srcmap", "records.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testIndex() index.RepoIndex {
	a := index.NewFileRecord("a.cpp", "includes")
	a.Imports = []string{"a.h"}
	a.Functions = []string{"doWork"}

	b := index.NewFileRecord("sub/b.py", "imports")
	b.Imports = []string{"os"}
	b.Classes = []string{"B"}

	bad := index.ErrorRecord("bad.cpp", "includes", "empty file")

	return index.RepoIndex{"a.cpp": a, "sub/b.py": b, "bad.cpp": bad}
}

func TestOpenCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deep", "nested", "records.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	s.Close()
}

func TestSaveIndexAndRecord(t *testing.T) {
	s := openTestStore(t)

	run, err := s.SaveIndex("/src/project", testIndex())
	if err != nil {
		t.Fatalf("SaveIndex: %v", err)
	}
	if run.ID == "" {
		t.Error("run ID must be assigned")
	}
	if run.Root != "/src/project" {
		t.Errorf("Root = %q; want /src/project", run.Root)
	}
	if run.Files != 3 || run.Errors != 1 {
		t.Errorf("Files/Errors = %d/%d; want 3/1", run.Files, run.Errors)
	}
	if run.CreatedAt.IsZero() {
		t.Error("CreatedAt must be set")
	}

	rec, err := s.Record("a.cpp")
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if rec.Path != "a.cpp" {
		t.Errorf("Path = %q; want a.cpp", rec.Path)
	}
	if want := []string{"a.h"}; !reflect.DeepEqual(rec.Imports, want) {
		t.Errorf("Imports = %v; want %v", rec.Imports, want)
	}
	if rec.ImportKey() != "includes" {
		t.Errorf("ImportKey = %q; want includes", rec.ImportKey())
	}

	bad, err := s.Record("bad.cpp")
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if bad.Error != "empty file" {
		t.Errorf("Error = %q; want empty file", bad.Error)
	}
}

func TestRecordNotFound(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.Record("nope.cpp"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Record = %v; want ErrNotFound", err)
	}
}

func TestPathsSorted(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.SaveIndex("/src", testIndex()); err != nil {
		t.Fatalf("SaveIndex: %v", err)
	}

	paths, err := s.Paths()
	if err != nil {
		t.Fatalf("Paths: %v", err)
	}
	// bbolt iterates keys in byte order.
	if want := []string{"a.cpp", "bad.cpp", "sub/b.py"}; !reflect.DeepEqual(paths, want) {
		t.Errorf("Paths = %v; want %v", paths, want)
	}
}

func TestSaveIndexReplacesPreviousRecords(t *testing.T) {
	s := openTestStore(t)

	if _, err := s.SaveIndex("/src", testIndex()); err != nil {
		t.Fatalf("first SaveIndex: %v", err)
	}

	// A second scan that no longer sees a.cpp.
	smaller := index.RepoIndex{
		"only.go": index.NewFileRecord("only.go", "imports"),
	}
	if _, err := s.SaveIndex("/src", smaller); err != nil {
		t.Fatalf("second SaveIndex: %v", err)
	}

	if _, err := s.Record("a.cpp"); !errors.Is(err, ErrNotFound) {
		t.Errorf("stale record survived a re-save: %v", err)
	}
	paths, err := s.Paths()
	if err != nil {
		t.Fatalf("Paths: %v", err)
	}
	if want := []string{"only.go"}; !reflect.DeepEqual(paths, want) {
		t.Errorf("Paths = %v; want %v", paths, want)
	}
}

func TestLatestRunAndRuns(t *testing.T) {
	s := openTestStore(t)

	if _, err := s.LatestRun(); !errors.Is(err, ErrNotFound) {
		t.Errorf("LatestRun on empty store = %v; want ErrNotFound", err)
	}

	first, err := s.SaveIndex("/src", testIndex())
	if err != nil {
		t.Fatalf("SaveIndex: %v", err)
	}
	second, err := s.SaveIndex("/src", testIndex())
	if err != nil {
		t.Fatalf("SaveIndex: %v", err)
	}

	latest, err := s.LatestRun()
	if err != nil {
		t.Fatalf("LatestRun: %v", err)
	}
	if latest.ID != second.ID {
		t.Errorf("LatestRun = %s; want %s", latest.ID, second.ID)
	}

	runs, err := s.Runs()
	if err != nil {
		t.Fatalf("Runs: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("got %d runs; want 2", len(runs))
	}
	// ULID keys keep runs in creation order.
	if runs[0].ID != first.ID || runs[1].ID != second.ID {
		t.Errorf("runs out of order: %s, %s", runs[0].ID, runs[1].ID)
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := s.SaveIndex("/src", testIndex()); err != nil {
		t.Fatalf("SaveIndex: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	rec, err := s.Record("a.cpp")
	if err != nil {
		t.Fatalf("Record after reopen: %v", err)
	}
	if want := []string{"doWork"}; !reflect.DeepEqual(rec.Functions, want) {
		t.Errorf("Functions = %v; want %v", rec.Functions, want)
	}
}
