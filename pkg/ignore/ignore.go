// Package ignore provides gitignore-compatible file matching for srcmap.
//
// It loads patterns from a project's .srcmapignore file (if present), merges
// them with built-in defaults for build artifacts and common non-source
// directories, and exposes a single ShouldIgnore method used by the scanner.
//
// Pattern syntax mirrors .gitignore:
//
//	# comment
//	*.pb.go             match files by extension
//	vendor/             match directories by name (trailing slash)
//	**/testdata/        match at any depth
//	!important.cpp      negate a previous pattern
//	/rootonly           anchored to scan root (leading slash)
package ignore

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Matcher tests whether a path should be ignored.
type Matcher struct {
	rules []rule
}

type rule struct {
	pattern  string
	negation bool
	dirOnly  bool
	anchored bool // pattern contains '/' (other than trailing), so it matches from the root
}

// BuiltinDefaults are patterns applied even when no .srcmapignore file
// exists. They cover version control internals and the build/dependency
// directories of the languages srcmap parses.
var BuiltinDefaults = []string{
	// Version control
	".git/",
	".svn/",
	".hg/",

	// srcmap internal
	".srcmap/",

	// Node / JavaScript / TypeScript
	"node_modules/",
	"dist/",
	"coverage/",

	// Python
	"__pycache__/",
	".venv/",
	"venv/",
	"*.egg-info/",
	"site-packages/",

	// Go
	"vendor/",

	// Rust
	"target/",

	// Java
	"build/",
	".gradle/",
	"out/",

	// C / C++
	"cmake-build-*/",
	".cmake/",
	".deps/",
	"Debug/",
	"Release/",

	// IDE / editor / OS artefacts
	".idea/",
	".vscode/",
	".DS_Store",
}

// New creates a Matcher from built-in defaults plus an optional ignore file
// located at <root>/<name> (conventionally ".srcmapignore"). A missing file
// is not an error; the defaults still apply.
func New(root, name string) (*Matcher, error) {
	m := NewFromDefaults()
	if name == "" {
		name = ".srcmapignore"
	}
	if err := m.loadFile(filepath.Join(root, name)); err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	return m, nil
}

// NewFromDefaults creates a Matcher using only built-in defaults.
func NewFromDefaults() *Matcher {
	m := &Matcher{}
	for _, p := range BuiltinDefaults {
		m.rules = append(m.rules, parsePattern(p))
	}
	return m
}

// NewEmpty creates a Matcher with no rules at all; nothing is ignored.
// Use this in tests that need to scan normally-excluded paths.
func NewEmpty() *Matcher {
	return &Matcher{}
}

// ShouldIgnore reports whether the given path (relative to the scan root,
// forward slashes) should be ignored. isDir must be true when path refers
// to a directory. Rules evaluate in order; the last matching rule wins.
func (m *Matcher) ShouldIgnore(path string, isDir bool) bool {
	path = filepath.ToSlash(path)
	path = strings.TrimSuffix(path, "/")

	if path == "" || path == "." {
		return false
	}

	ignored := false
	matched := false
	for _, r := range m.rules {
		if r.dirOnly && !isDir {
			continue
		}
		if r.match(path) {
			ignored = !r.negation
			matched = true
		}
	}

	if ignored {
		return true
	}
	// A negation that matched this exact path overrides any parent rule.
	if matched {
		return false
	}

	// For files, an ignored ancestor directory ignores the file too. The
	// walk usually prunes such directories first, but callers can hand in
	// bare file paths.
	if !isDir {
		parts := strings.Split(path, "/")
		for i := 1; i < len(parts); i++ {
			if m.ShouldIgnore(strings.Join(parts[:i], "/"), true) {
				return true
			}
		}
	}

	return false
}

// loadFile reads patterns from an ignore file.
func (m *Matcher) loadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		m.rules = append(m.rules, parsePattern(line))
	}
	return scanner.Err()
}

// parsePattern converts a gitignore-style pattern string into a rule.
func parsePattern(pattern string) rule {
	r := rule{}

	if strings.HasPrefix(pattern, "!") {
		r.negation = true
		pattern = pattern[1:]
	}
	if strings.HasSuffix(pattern, "/") {
		r.dirOnly = true
		pattern = strings.TrimSuffix(pattern, "/")
	}
	if strings.HasPrefix(pattern, "/") {
		r.anchored = true
		pattern = strings.TrimPrefix(pattern, "/")
	}
	// A pattern containing a slash anywhere is anchored to the root per
	// gitignore rules; slash-free patterns match basenames at any depth.
	if !r.anchored && strings.Contains(pattern, "/") {
		r.anchored = true
	}

	r.pattern = pattern
	return r
}

// match tests whether a rule matches the given path (relative, forward
// slashes, no trailing slash).
func (r *rule) match(path string) bool {
	if r.anchored {
		ok, _ := doublestar.Match(r.pattern, path)
		return ok
	}

	// Unanchored: match the basename, or the pattern at any depth.
	if ok, _ := doublestar.Match(r.pattern, basename(path)); ok {
		return true
	}
	ok, _ := doublestar.Match("**/"+r.pattern, path)
	return ok
}

// basename returns the last path component.
func basename(path string) string {
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[i+1:]
	}
	return path
}
