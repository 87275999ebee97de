package index

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/srcmap/srcmap/pkg/ignore"
	"github.com/srcmap/srcmap/pkg/lang"
)

// ErrNoFiles is returned when a scan discovers no files with a recognized
// extension, usually a misconfigured root.
var ErrNoFiles = errors.New("no source files analyzed")

// Scanner walks a root directory, extracts every recognized file, and
// aggregates the records into a RepoIndex.
//
// Known limitation: symlink loops are not detected beyond what
// filepath.WalkDir provides (WalkDir does not follow symlinks, so a
// symlinked directory is simply not descended into).
type Scanner struct {
	registry *lang.Registry
	matcher  *ignore.Matcher
	workers  int
}

// NewScanner creates a scanner over the given registry and ignore matcher.
// workers bounds the extraction pool; values < 1 mean runtime.NumCPU().
func NewScanner(registry *lang.Registry, matcher *ignore.Matcher, workers int) *Scanner {
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	if matcher == nil {
		matcher = ignore.NewEmpty()
	}
	return &Scanner{registry: registry, matcher: matcher, workers: workers}
}

// candidate is one discovered file awaiting extraction.
type candidate struct {
	rel     string
	abs     string
	profile *lang.Profile
}

// Scan discovers and extracts every recognized file under root. Each file
// produces exactly one record whether or not extraction succeeded; only
// walk-level failures (unreadable root) or an empty discovery set return an
// error. Record keys are root-relative, forward-slash paths.
func (s *Scanner) Scan(root string) (RepoIndex, error) {
	candidates, err := s.discover(root)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, ErrNoFiles
	}

	idx := make(RepoIndex, len(candidates))
	var mu sync.Mutex

	g := new(errgroup.Group)
	g.SetLimit(s.workers)
	for _, c := range candidates {
		g.Go(func() error {
			record := s.extractOne(c)
			mu.Lock()
			idx[c.rel] = record
			mu.Unlock()
			return nil
		})
	}
	// Workers never return errors: per-file failures live on the records.
	_ = g.Wait()

	return idx, nil
}

// discover enumerates candidate files under root in a stable order,
// pruning ignored directories and filtering by recognized extension.
// Files with unrecognized extensions are skipped silently, never recorded.
func (s *Scanner) discover(root string) ([]candidate, error) {
	var out []candidate

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if path == root {
				return walkErr
			}
			// Unreadable subtree: skip it rather than aborting the walk.
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if rel != "." && s.matcher.ShouldIgnore(rel, true) {
				return filepath.SkipDir
			}
			return nil
		}
		if s.matcher.ShouldIgnore(rel, false) {
			return nil
		}

		profile, ok := s.registry.ForExtension(filepath.Ext(d.Name()))
		if !ok {
			return nil
		}
		out = append(out, candidate{rel: rel, abs: path, profile: profile})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}

	return out, nil
}

// extractOne reads and extracts a single candidate. Read failures become
// error records, preserving the one-record-per-file invariant.
func (s *Scanner) extractOne(c candidate) *FileRecord {
	content, err := os.ReadFile(c.abs)
	if err != nil {
		return ErrorRecord(c.rel, c.profile.ImportKey, fmt.Sprintf("read failed: %v", err))
	}
	record := Extract(c.profile, c.rel, content)
	return record
}
