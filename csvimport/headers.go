// Package csvimport turns task CSV exports from other tools into create
// requests for the task service, resolving loose column names and
// workspace references along the way.
package csvimport

import (
	"sort"
	"strings"

	"github.com/jinzhu/inflection"

	"github.com/taskql/taskql/fuzzy"
	"github.com/taskql/taskql/mapping"
)

const maxHeaderDistance = 2

// normalizeHeader folds a raw CSV header to the lookup form: lowercase,
// trimmed, inner whitespace and dashes collapsed to underscores.
func normalizeHeader(raw string) string {
	h := strings.ToLower(strings.TrimSpace(raw))
	h = strings.ReplaceAll(h, "-", " ")
	return strings.Join(strings.Fields(h), "_")
}

// ResolveHeader maps a raw CSV header to a canonical field name.
// Lookup order: direct field name, alias table, singularized alias.
// When nothing matches, the second return carries the closest known
// header for a diagnostic, or "" when no spelling is close enough.
func ResolveHeader(raw string) (field string, suggestion string, ok bool) {
	h := normalizeHeader(raw)
	if h == "" {
		return "", "", false
	}
	if mapping.IsField(h) {
		return h, "", true
	}
	if f, ok := mapping.ColumnAliases[h]; ok {
		return f, "", true
	}
	singular := inflection.Singular(h)
	if f, ok := mapping.ColumnAliases[singular]; ok {
		return f, "", true
	}

	candidates := make([]string, 0, len(mapping.ColumnAliases))
	for alias := range mapping.ColumnAliases {
		candidates = append(candidates, alias)
	}
	sort.Strings(candidates)
	return "", fuzzy.Closest(singular, candidates, maxHeaderDistance), false
}
