package lang

import (
	"unsafe"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	// Compiled-in grammar bindings (8 languages).
	tree_sitter_c "github.com/tree-sitter/tree-sitter-c/bindings/go"
	tree_sitter_cpp "github.com/tree-sitter/tree-sitter-cpp/bindings/go"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"
	tree_sitter_java "github.com/tree-sitter/tree-sitter-java/bindings/go"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	tree_sitter_rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// grammarProvider returns the raw grammar pointer exposed by a binding.
type grammarProvider func() unsafe.Pointer

// grammars maps language names to their compiled-in grammar providers.
// Each binding exposes a function returning unsafe.Pointer; the Language
// object is constructed once per profile at registry build time.
var grammars = map[string]grammarProvider{
	"c":          tree_sitter_c.Language,
	"cpp":        tree_sitter_cpp.Language,
	"go":         tree_sitter_go.Language,
	"java":       tree_sitter_java.Language,
	"javascript": tree_sitter_javascript.Language,
	"python":     tree_sitter_python.Language,
	"rust":       tree_sitter_rust.Language,
	// TypeScript uses LanguageTypescript() not Language(), so wrap it.
	"typescript": func() unsafe.Pointer {
		return tree_sitter_typescript.LanguageTypescript()
	},
}

// loadGrammar constructs the tree-sitter Language for a compiled-in grammar.
func loadGrammar(name string) (*tree_sitter.Language, error) {
	provider, ok := grammars[name]
	if !ok {
		return nil, &ErrGrammarNotFound{Name: name}
	}
	lang := tree_sitter.NewLanguage(provider())
	if lang == nil {
		return nil, &ErrGrammarNotFound{Name: name}
	}
	return lang, nil
}

// ErrGrammarNotFound indicates a profile references a grammar that is not
// compiled into the binary.
type ErrGrammarNotFound struct {
	Name string
}

func (e *ErrGrammarNotFound) Error() string {
	return "grammar not found: " + e.Name
}
