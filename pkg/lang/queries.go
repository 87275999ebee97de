package lang

// querySpec is the source form of one category query: the tree-sitter
// pattern plus the capture names whose matches feed the category list.
// Captures outside that list (structural anchors) are ignored at runtime.
type querySpec struct {
	pattern  string
	captures []string
}

// profileSpec is the source form of one language profile. Extension sets
// must be disjoint across specs; NewRegistry rejects duplicates.
type profileSpec struct {
	name       string
	importKey  string // JSON key for the import category: "includes" or "imports"
	extensions []string
	queries    map[Category]querySpec
}

// profileSpecs defines every language srcmap understands. The category set
// is closed: includes/imports, functions, classes. Headers and SWIG
// interface files (.h, .i) parse with the C++ grammar.
var profileSpecs = []profileSpec{
	{
		name:       "cpp",
		importKey:  "includes",
		extensions: []string{".cpp", ".cc", ".cxx", ".h", ".hpp", ".hh", ".hxx", ".i"},
		queries: map[Category]querySpec{
			CategoryImports: {
				pattern: `
(preproc_include path: (string_literal) @path)
(preproc_include path: (system_lib_string) @path)
`,
				captures: []string{"path"},
			},
			CategoryFunctions: {
				pattern: `
(function_definition declarator: (function_declarator declarator: (identifier) @name))
(function_definition declarator: (identifier) @name)
`,
				captures: []string{"name"},
			},
			CategoryClasses: {
				pattern: `
(class_specifier name: (type_identifier) @name)
(struct_specifier name: (type_identifier) @name)
`,
				captures: []string{"name"},
			},
		},
	},
	{
		name:       "c",
		importKey:  "includes",
		extensions: []string{".c"},
		queries: map[Category]querySpec{
			CategoryImports: {
				pattern: `
(preproc_include path: (string_literal) @path)
(preproc_include path: (system_lib_string) @path)
`,
				captures: []string{"path"},
			},
			CategoryFunctions: {
				pattern:  `(function_definition declarator: (function_declarator declarator: (identifier) @name))`,
				captures: []string{"name"},
			},
			CategoryClasses: {
				pattern:  `(struct_specifier name: (type_identifier) @name)`,
				captures: []string{"name"},
			},
		},
	},
	{
		name:       "python",
		importKey:  "imports",
		extensions: []string{".py", ".pyw", ".pyi"},
		queries: map[Category]querySpec{
			CategoryImports: {
				pattern: `
(import_statement name: (dotted_name) @module)
(import_statement name: (aliased_import name: (dotted_name) @module))
(import_from_statement module_name: (dotted_name) @module)
`,
				captures: []string{"module"},
			},
			CategoryFunctions: {
				pattern:  `(function_definition name: (identifier) @name)`,
				captures: []string{"name"},
			},
			CategoryClasses: {
				pattern:  `(class_definition name: (identifier) @name)`,
				captures: []string{"name"},
			},
		},
	},
	{
		name:       "go",
		importKey:  "imports",
		extensions: []string{".go"},
		queries: map[Category]querySpec{
			CategoryImports: {
				pattern:  `(import_spec path: (interpreted_string_literal) @path)`,
				captures: []string{"path"},
			},
			CategoryFunctions: {
				pattern: `
(function_declaration name: (identifier) @name)
(method_declaration name: (field_identifier) @name)
`,
				captures: []string{"name"},
			},
			CategoryClasses: {
				pattern:  `(type_declaration (type_spec name: (type_identifier) @name type: (struct_type)))`,
				captures: []string{"name"},
			},
		},
	},
	{
		name:       "javascript",
		importKey:  "imports",
		extensions: []string{".js", ".jsx", ".mjs", ".cjs"},
		queries: map[Category]querySpec{
			CategoryImports: {
				// Capture the inner string_fragment so quoting style never
				// reaches the output.
				pattern:  `(import_statement source: (string (string_fragment) @path))`,
				captures: []string{"path"},
			},
			CategoryFunctions: {
				pattern: `
(function_declaration name: (identifier) @name)
(method_definition name: (property_identifier) @name)
`,
				captures: []string{"name"},
			},
			CategoryClasses: {
				pattern:  `(class_declaration name: (identifier) @name)`,
				captures: []string{"name"},
			},
		},
	},
	{
		name:       "typescript",
		importKey:  "imports",
		extensions: []string{".ts", ".tsx"},
		queries: map[Category]querySpec{
			CategoryImports: {
				pattern:  `(import_statement source: (string (string_fragment) @path))`,
				captures: []string{"path"},
			},
			CategoryFunctions: {
				pattern: `
(function_declaration name: (identifier) @name)
(method_definition name: (property_identifier) @name)
`,
				captures: []string{"name"},
			},
			CategoryClasses: {
				pattern: `
(class_declaration name: (type_identifier) @name)
(interface_declaration name: (type_identifier) @name)
`,
				captures: []string{"name"},
			},
		},
	},
	{
		name:       "java",
		importKey:  "imports",
		extensions: []string{".java"},
		queries: map[Category]querySpec{
			CategoryImports: {
				pattern:  `(import_declaration (scoped_identifier) @path)`,
				captures: []string{"path"},
			},
			CategoryFunctions: {
				pattern:  `(method_declaration name: (identifier) @name)`,
				captures: []string{"name"},
			},
			CategoryClasses: {
				pattern: `
(class_declaration name: (identifier) @name)
(interface_declaration name: (identifier) @name)
`,
				captures: []string{"name"},
			},
		},
	},
	{
		name:       "rust",
		importKey:  "imports",
		extensions: []string{".rs"},
		queries: map[Category]querySpec{
			CategoryImports: {
				pattern: `
(use_declaration argument: (scoped_identifier) @path)
(use_declaration argument: (identifier) @path)
`,
				captures: []string{"path"},
			},
			CategoryFunctions: {
				pattern:  `(function_item name: (identifier) @name)`,
				captures: []string{"name"},
			},
			CategoryClasses: {
				pattern: `
(struct_item name: (type_identifier) @name)
(enum_item name: (type_identifier) @name)
`,
				captures: []string{"name"},
			},
		},
	},
}
