package csvimport

import (
	"strings"

	"github.com/taskql/taskql/fuzzy"
	"github.com/taskql/taskql/service"
)

const maxRefDistance = 2

// resolveRef matches a CSV value against workspace entities by name.
// Exact match first, then case-insensitive, then Levenshtein within
// maxRefDistance. Returns the canonical name.
func resolveRef(name string, refs []service.NamedRef) (string, bool) {
	for _, ref := range refs {
		if ref.Name == name {
			return ref.Name, true
		}
	}
	lower := strings.ToLower(name)
	for _, ref := range refs {
		if strings.ToLower(ref.Name) == lower {
			return ref.Name, true
		}
	}

	candidates := make([]string, len(refs))
	for i, ref := range refs {
		candidates[i] = strings.ToLower(ref.Name)
	}
	closest := fuzzy.Closest(lower, candidates, maxRefDistance)
	if closest == "" {
		return "", false
	}
	for _, ref := range refs {
		if strings.ToLower(ref.Name) == closest {
			return ref.Name, true
		}
	}
	return "", false
}

// resolveChoice matches a CSV value against a fixed vocabulary such as
// statuses or sizes, case-insensitively.
func resolveChoice(value string, choices []string) (string, bool) {
	for _, choice := range choices {
		if choice == value {
			return choice, true
		}
	}
	lower := strings.ToLower(value)
	for _, choice := range choices {
		if strings.ToLower(choice) == lower {
			return choice, true
		}
	}
	return "", false
}
