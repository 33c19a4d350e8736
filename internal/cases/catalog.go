package cases

import (
	"iter"

	"swiftcheck/internal/domain"
)

// Catalog is an immutable, validated sequence of cases
type Catalog struct {
	cases []domain.TestCase
}

// NewCatalog validates cases and stamps their table index
func NewCatalog(cases []domain.TestCase) (*Catalog, error) {
	if err := ValidateAll(cases); err != nil {
		return nil, err
	}
	owned := make([]domain.TestCase, len(cases))
	for i, tc := range cases {
		tc.Index = i
		tc.Tags = append([]string(nil), tc.Tags...)
		owned[i] = tc
	}
	return &Catalog{cases: owned}, nil
}

// All iterates the cases in table order. The sequence is restartable.
func (c *Catalog) All() iter.Seq[domain.TestCase] {
	return func(yield func(domain.TestCase) bool) {
		for _, tc := range c.cases {
			if !yield(tc) {
				return
			}
		}
	}
}

// Len returns the number of cases
func (c *Catalog) Len() int { return len(c.cases) }

// Slice returns a copy of the cases
func (c *Catalog) Slice() []domain.TestCase {
	out := make([]domain.TestCase, len(c.cases))
	copy(out, c.cases)
	return out
}

// Get looks up a case by id
func (c *Catalog) Get(id string) (domain.TestCase, bool) {
	for _, tc := range c.cases {
		if tc.ID == id {
			return tc, true
		}
	}
	return domain.TestCase{}, false
}

// Subset keeps cases for which keep returns true. Table indices are preserved.
func (c *Catalog) Subset(keep func(domain.TestCase) bool) *Catalog {
	var out []domain.TestCase
	for _, tc := range c.cases {
		if keep(tc) {
			out = append(out, tc)
		}
	}
	return &Catalog{cases: out}
}

// Categories returns the distinct categories in table order
func (c *Catalog) Categories() []domain.Category {
	seen := make(map[domain.Category]bool)
	var out []domain.Category
	for _, tc := range c.cases {
		cat := tc.Category()
		if !seen[cat] {
			seen[cat] = true
			out = append(out, cat)
		}
	}
	return out
}
