package domain

import "strings"

// Action is what a test case does against the target page
type Action string

const (
	// ActionTransliterate types the input and reads the rendered output
	ActionTransliterate Action = "transliterate"
	// ActionClear types the input, presses clear and reads both surfaces back
	ActionClear Action = "clear"
)

// TagAspirational marks an expected value that documents a known limitation
// of the system under test. It is reported, never used to relax a check.
const TagAspirational = "aspirational"

// TestCase represents a single fixture row
type TestCase struct {
	ID          string   `yaml:"id" json:"id"`
	Input       string   `yaml:"input" json:"input"`
	Expected    string   `yaml:"expected" json:"expected"`
	Description string   `yaml:"description" json:"description"`
	Action      Action   `yaml:"action,omitempty" json:"action,omitempty"`
	Tags        []string `yaml:"tags,omitempty" json:"tags,omitempty"`

	// Index is the position in the loaded table, used to restore order.
	Index int `yaml:"-" json:"-"`
}

// Kind returns the action, defaulting to transliterate
func (tc TestCase) Kind() Action {
	if tc.Action == "" {
		return ActionTransliterate
	}
	return tc.Action
}

// Category derives the case group from the id prefix (Pos_Fun_0001 -> Pos_Fun)
func (tc TestCase) Category() Category {
	i := strings.LastIndex(tc.ID, "_")
	if i <= 0 {
		return Category(tc.ID)
	}
	return Category(tc.ID[:i])
}

// HasTag reports whether the case carries the given tag
func (tc TestCase) HasTag(tag string) bool {
	for _, t := range tc.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// Category groups cases by id prefix
type Category string

// Class is the coarse grouping of a category
type Class string

const (
	ClassPositive Class = "positive"
	ClassNegative Class = "negative"
	ClassUI       Class = "ui"
	ClassOther    Class = "other"
)

// Class maps Pos_UI* to ui, Pos_* to positive and Neg_* to negative
func (c Category) Class() Class {
	s := strings.ToLower(string(c))
	switch {
	case strings.HasPrefix(s, "pos_ui"):
		return ClassUI
	case strings.HasPrefix(s, "pos"):
		return ClassPositive
	case strings.HasPrefix(s, "neg"):
		return ClassNegative
	default:
		return ClassOther
	}
}
