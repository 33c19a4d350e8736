// Package verify decides pass or fail for a case from its expected and actual output.
package verify

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"

	"swiftcheck/internal/domain"
)

// Verifier checks actual output against the expected value
type Verifier interface {
	Check(expected, actual string) domain.Verdict
	CheckSurfaces(s domain.Surfaces) domain.Verdict
}

// Exact compares after trimming leading and trailing whitespace only.
// Internal whitespace, line breaks and code points are compared verbatim.
type Exact struct{}

// NewExact creates a new Exact verifier
func NewExact() *Exact {
	return &Exact{}
}

// Check returns Pass on exact trimmed equality, otherwise Fail with a diff
func (v *Exact) Check(expected, actual string) domain.Verdict {
	return Check(expected, actual)
}

// CheckSurfaces requires both surfaces to be empty after a clear
func (v *Exact) CheckSurfaces(s domain.Surfaces) domain.Verdict {
	return CheckSurfaces(s)
}

// Check is the pure comparison used by Exact. Trimming applies to the
// comparison and diff only; the verdict keeps both values as given.
func Check(expected, actual string) domain.Verdict {
	exp := strings.TrimSpace(expected)
	act := strings.TrimSpace(actual)
	if exp == act {
		return domain.Pass(expected, actual)
	}
	v := domain.Fail(expected, actual, Diff(exp, act))
	v.Detail = firstDifference(exp, act)
	return v
}

// CheckSurfaces passes when input and output both read back empty
func CheckSurfaces(s domain.Surfaces) domain.Verdict {
	in := strings.TrimSpace(s.Input)
	out := strings.TrimSpace(s.Output)
	if in == "" && out == "" {
		return domain.Pass("", "")
	}

	var dirty []string
	if in != "" {
		dirty = append(dirty, fmt.Sprintf("input surface not empty: %q", in))
	}
	if out != "" {
		dirty = append(dirty, fmt.Sprintf("output surface not empty: %q", out))
	}
	v := domain.Fail("", s.Output, Diff("", out))
	v.Detail = strings.Join(dirty, "; ")
	return v
}

// Diff renders a line-oriented diff of expected (-) against actual (+)
func Diff(expected, actual string) string {
	return cmp.Diff(strings.Split(expected, "\n"), strings.Split(actual, "\n"))
}

// firstDifference describes the first rune where the strings diverge
func firstDifference(expected, actual string) string {
	offset := 0
	for len(expected) > 0 && len(actual) > 0 {
		er, esize := utf8.DecodeRuneInString(expected)
		ar, asize := utf8.DecodeRuneInString(actual)
		if er != ar {
			return fmt.Sprintf("first difference at rune %d: expected %q (%U), got %q (%U)", offset, er, er, ar, ar)
		}
		expected = expected[esize:]
		actual = actual[asize:]
		offset++
	}
	if len(expected) > 0 {
		return fmt.Sprintf("actual ends at rune %d, missing %q", offset, expected)
	}
	return fmt.Sprintf("expected ends at rune %d, got extra %q", offset, actual)
}
