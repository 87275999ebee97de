package index

import (
	"sort"
	"strings"
)

// Normalize removes duplicates (exact string equality) and returns the
// remaining values in ascending lexicographic order. It is pure and
// idempotent: the output for a given multiset of inputs is identical
// regardless of capture order, which is what makes the final index
// reproducible across unordered traversals.
func Normalize(values []string) []string {
	if len(values) == 0 {
		return []string{}
	}

	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// TrimIncludeDelims strips quote and angle-bracket delimiters from the
// edges of a captured include/import path, normalizing `"foo/bar.h"` and
// `<foo/bar.h>` to `foo/bar.h`.
func TrimIncludeDelims(s string) string {
	return strings.Trim(s, `"<>`)
}
