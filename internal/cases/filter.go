package cases

import (
	"path/filepath"
	"strings"

	"swiftcheck/internal/domain"
)

// Filter filters cases by category or id pattern
type Filter struct{}

// NewFilter creates a new Filter
func NewFilter() *Filter {
	return &Filter{}
}

// ByCategory keeps cases whose category matches pattern. A plain pattern
// names one category exactly ("Pos_Fun" never selects "Pos_UI"); use
// wildcards for groups ("Pos_*", "*_Fun").
func (f *Filter) ByCategory(c *Catalog, pattern string) *Catalog {
	if pattern == "" {
		return c
	}
	wild := strings.ContainsAny(pattern, "*?")
	return c.Subset(func(tc domain.TestCase) bool {
		cat := string(tc.Category())
		if !wild {
			return cat == pattern
		}
		return Match(cat, pattern)
	})
}

// ByID keeps cases whose id matches pattern (e.g. "*_0001")
func (f *Filter) ByID(c *Catalog, pattern string) *Catalog {
	if pattern == "" {
		return c
	}
	return c.Subset(func(tc domain.TestCase) bool {
		return Match(tc.ID, pattern)
	})
}

// ByIDs keeps the listed ids
func (f *Filter) ByIDs(c *Catalog, ids []string) *Catalog {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	return c.Subset(func(tc domain.TestCase) bool {
		return want[tc.ID]
	})
}

// Match reports whether name matches pattern using wildcard matching.
// Supports patterns like "Pos_*" or "*Fun*"; a pattern without wildcards is a substring match.
func Match(name, pattern string) bool {
	if pattern == "" {
		return true
	}

	// Try to match using filepath.Match (supports * and ? wildcards)
	matched, err := filepath.Match(pattern, name)
	if err == nil && matched {
		return true
	}

	// If pattern contains wildcards but filepath.Match didn't match,
	// try a more flexible substring match for patterns like "*Fun*"
	if strings.Contains(pattern, "*") {
		// Remove wildcards and check if the remaining parts are in the name
		hasNonEmptyPart := false
		for _, part := range strings.Split(pattern, "*") {
			if part == "" {
				continue
			}
			hasNonEmptyPart = true
			if !strings.Contains(name, part) {
				return false
			}
		}
		return hasNonEmptyPart
	}

	// If no wildcards, do a simple contains check
	if !strings.Contains(pattern, "?") {
		return strings.Contains(name, pattern)
	}
	return false
}
