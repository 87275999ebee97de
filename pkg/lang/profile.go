// Package lang provides the language profile registry and the tree-sitter
// grammar/query engine behind srcmap.
//
// A profile bundles a language's grammar, its recognized file extensions,
// and one compiled query per extraction category. All profiles are built
// once by NewRegistry; query compilation failures and duplicate extension
// claims are configuration errors surfaced there, never during a scan.
package lang

import (
	"fmt"
	"sort"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

// Category identifies one extraction category. The set is closed.
type Category string

const (
	// CategoryImports covers include/import statements. Its JSON key is
	// profile-specific: "includes" for the C family, "imports" elsewhere.
	CategoryImports Category = "imports"

	// CategoryFunctions covers function and method definitions.
	CategoryFunctions Category = "functions"

	// CategoryClasses covers class/struct definitions.
	CategoryClasses Category = "classes"
)

// Categories is the fixed extraction order: import list first, then
// functions, then classes. Output field order follows it.
var Categories = []Category{CategoryImports, CategoryFunctions, CategoryClasses}

// CompiledQuery is one category's compiled pattern plus the set of capture
// indexes whose matches belong to the category. Immutable after compilation.
type CompiledQuery struct {
	query  *tree_sitter.Query
	wanted map[uint32]bool
}

// Profile is the immutable per-language bundle of grammar, extensions, and
// compiled queries. Profiles are shared across workers; all methods are safe
// for concurrent use (each call owns its parser and cursor).
type Profile struct {
	Name       string
	ImportKey  string
	Extensions []string

	language *tree_sitter.Language
	queries  map[Category]*CompiledQuery
}

// Parse parses source bytes into a concrete syntax tree. Parsing is total:
// malformed input yields a best-effort tree containing error nodes, never a
// failure. The caller must Close the returned tree.
func (p *Profile) Parse(source []byte) (*tree_sitter.Tree, error) {
	parser := tree_sitter.NewParser()
	defer parser.Close()
	if err := parser.SetLanguage(p.language); err != nil {
		return nil, fmt.Errorf("set language %q: %w", p.Name, err)
	}
	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, fmt.Errorf("parse returned no tree for language %q", p.Name)
	}
	return tree, nil
}

// Captures runs the category's compiled query against root and returns the
// text of every capture belonging to the category, in match order. Partial
// or empty results are valid: queries simply match whatever nodes exist in
// the (possibly broken) tree.
func (p *Profile) Captures(cat Category, root *tree_sitter.Node, source []byte) []string {
	cq, ok := p.queries[cat]
	if !ok {
		return nil
	}

	cursor := tree_sitter.NewQueryCursor()
	defer cursor.Close()

	var out []string
	matches := cursor.Matches(cq.query, root, source)
	for match := matches.Next(); match != nil; match = matches.Next() {
		for _, capture := range match.Captures {
			if !cq.wanted[capture.Index] {
				continue
			}
			out = append(out, nodeText(&capture.Node, source))
		}
	}
	return out
}

// nodeText returns the exact byte span of a node decoded as UTF-8, with
// invalid sequences replaced by U+FFFD.
func nodeText(node *tree_sitter.Node, source []byte) string {
	start := node.StartByte()
	end := node.EndByte()
	if end > uint(len(source)) {
		end = uint(len(source))
	}
	if start > end {
		return ""
	}
	return strings.ToValidUTF8(string(source[start:end]), "�")
}

// Registry maps file extensions to language profiles. It is constructed
// once at startup and immutably shared; pass it by reference into workers.
type Registry struct {
	profiles map[string]*Profile
	byExt    map[string]*Profile
}

// NewRegistry builds every profile: loads the compiled-in grammars and
// compiles all category queries. Any failure here is a configuration bug
// (bad pattern, duplicate extension claim) and aborts startup.
func NewRegistry() (*Registry, error) {
	r := &Registry{
		profiles: make(map[string]*Profile, len(profileSpecs)),
		byExt:    make(map[string]*Profile),
	}

	for _, spec := range profileSpecs {
		profile, err := compileProfile(spec)
		if err != nil {
			return nil, err
		}
		r.profiles[profile.Name] = profile

		for _, ext := range spec.extensions {
			if claimed, dup := r.byExt[ext]; dup {
				return nil, fmt.Errorf("extension %q claimed by both %q and %q", ext, claimed.Name, profile.Name)
			}
			r.byExt[ext] = profile
		}
	}

	return r, nil
}

// compileProfile loads the grammar and compiles each category query.
func compileProfile(spec profileSpec) (*Profile, error) {
	language, err := loadGrammar(spec.name)
	if err != nil {
		return nil, fmt.Errorf("profile %q: %w", spec.name, err)
	}

	profile := &Profile{
		Name:       spec.name,
		ImportKey:  spec.importKey,
		Extensions: append([]string(nil), spec.extensions...),
		language:   language,
		queries:    make(map[Category]*CompiledQuery, len(spec.queries)),
	}

	for _, cat := range Categories {
		qs, ok := spec.queries[cat]
		if !ok {
			return nil, fmt.Errorf("profile %q: missing %s query", spec.name, cat)
		}
		query, qErr := tree_sitter.NewQuery(language, qs.pattern)
		if qErr != nil {
			return nil, fmt.Errorf("profile %q: compiling %s query: %s", spec.name, cat, qErr.Message)
		}

		wanted := make(map[uint32]bool)
		for i, captureName := range query.CaptureNames() {
			for _, want := range qs.captures {
				if captureName == want {
					wanted[uint32(i)] = true
				}
			}
		}
		profile.queries[cat] = &CompiledQuery{query: query, wanted: wanted}
	}

	return profile, nil
}

// ForExtension returns the profile claiming the given extension (with
// leading dot, e.g. ".cpp"). The second return is false for unsupported
// extensions; such files are skipped, not recorded.
func (r *Registry) ForExtension(ext string) (*Profile, bool) {
	p, ok := r.byExt[strings.ToLower(ext)]
	return p, ok
}

// Get returns the profile with the given language name, or nil.
func (r *Registry) Get(name string) *Profile {
	return r.profiles[name]
}

// Profiles returns all profiles sorted by language name.
func (r *Registry) Profiles() []*Profile {
	out := make([]*Profile, 0, len(r.profiles))
	for _, p := range r.profiles {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Extensions returns every recognized extension, sorted.
func (r *Registry) Extensions() []string {
	out := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}
