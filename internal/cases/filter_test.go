package cases

import (
	"testing"

	"swiftcheck/internal/domain"
)

func catalogOf(t *testing.T, ids ...string) *Catalog {
	t.Helper()
	var cs []domain.TestCase
	for _, id := range ids {
		cs = append(cs, domain.TestCase{ID: id, Input: "x", Expected: "y"})
	}
	c, err := NewCatalog(cs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return c
}

func TestFilter_ByCategory(t *testing.T) {
	filter := NewFilter()
	all := catalogOf(t, "Pos_Fun_0001", "Pos_Fun_0002", "Neg_Fun_0001", "Pos_UI_0001")

	tests := []struct {
		name     string
		pattern  string
		expected int // Expected number of matches
	}{
		{name: "empty pattern returns all", pattern: "", expected: 4},
		{name: "exact category", pattern: "Pos_Fun", expected: 2},
		{name: "wildcard prefix", pattern: "Pos_*", expected: 3},
		{name: "wildcard substring", pattern: "*Fun*", expected: 3},
		{name: "plain pattern is exact", pattern: "Neg", expected: 0},
		{name: "plain pattern does not span classes", pattern: "Fun", expected: 0},
		{name: "suffix wildcard spans classes", pattern: "*_Fun", expected: 3},
		{name: "no matches", pattern: "*Perf*", expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := filter.ByCategory(all, tt.pattern)
			if result.Len() != tt.expected {
				t.Errorf("expected %d matches, got %d", tt.expected, result.Len())
			}
		})
	}
}

func TestFilter_ByID(t *testing.T) {
	filter := NewFilter()
	all := catalogOf(t, "Pos_Fun_0001", "Pos_Fun_0002", "Neg_Fun_0001", "Neg_Fun_01")

	tests := []struct {
		name     string
		pattern  string
		expected int
	}{
		{name: "suffix wildcard", pattern: "*_0001", expected: 2},
		{name: "single char wildcard", pattern: "Neg_Fun_0?", expected: 1},
		{name: "substring", pattern: "Fun_000", expected: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := filter.ByID(all, tt.pattern)
			if result.Len() != tt.expected {
				t.Errorf("expected %d matches, got %d", tt.expected, result.Len())
			}
		})
	}
}

func TestFilter_PreservesTableIndex(t *testing.T) {
	all := catalogOf(t, "Pos_Fun_0001", "Neg_Fun_0001", "Pos_Fun_0002")
	sub := NewFilter().ByCategory(all, "Pos_Fun").Slice()

	if len(sub) != 2 {
		t.Fatalf("expected 2 cases, got %d", len(sub))
	}
	if sub[0].Index != 0 || sub[1].Index != 2 {
		t.Errorf("expected indices 0 and 2, got %d and %d", sub[0].Index, sub[1].Index)
	}
}

func TestFilter_ByIDs(t *testing.T) {
	all := catalogOf(t, "A_1", "A_2", "B_1")
	result := NewFilter().ByIDs(all, []string{"B_1", "A_1", "missing"})
	if result.Len() != 2 {
		t.Errorf("expected 2 matches, got %d", result.Len())
	}
}
