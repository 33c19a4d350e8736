package verify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swiftcheck/internal/domain"
)

func TestCheck(t *testing.T) {
	tests := []struct {
		name     string
		expected string
		actual   string
		status   domain.Status
	}{
		{"exact sinhala", "පොතක් කියවන්න අසයි.", "පොතක් කියවන්න අසයි.", domain.StatusPass},
		{"url passthrough", "https://www.facebook.com/", "https://www.facebook.com/", domain.StatusPass},
		{"outer whitespace trimmed", "මම ගෙදර යනවා", "  මම ගෙදර යනවා\n", domain.StatusPass},
		{"multi-line preserved", "අපි එන්නම්.\nඔයා ඉන්න.", "අපි එන්නම්.\nඔයා ඉන්න.", domain.StatusPass},
		{"line break is significant", "අපි එන්නම්.\nඔයා ඉන්න.", "අපි එන්නම්. ඔයා ඉන්න.", domain.StatusFail},
		{"internal whitespace is significant", "මම ගෙදර", "මම  ගෙදර", domain.StatusFail},
		{"casing mismatch", "මම ගෙදර යනවා", "MAMA ගෙදර YAනවාA", domain.StatusFail},
		{"partial match is not allowed", "Rs. 4500 ක් වුණා.", "Rs. 4500 ක්", domain.StatusFail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Check(tt.expected, tt.actual)
			assert.Equal(t, tt.status, v.Status)
			if tt.status == domain.StatusFail {
				assert.NotEmpty(t, v.Diff)
				assert.NotEmpty(t, v.Detail)
			} else {
				assert.Empty(t, v.Diff)
			}
		})
	}
}

func TestCheck_CasingScenarioDiff(t *testing.T) {
	v := Check("මම ගෙදර යනවා", "MAMA ගෙදර YAnavaA")

	require.Equal(t, domain.StatusFail, v.Status)
	assert.Contains(t, v.Diff, "MAMA")
	assert.Contains(t, v.Diff, "මම")
	assert.Contains(t, v.Detail, "rune 0")
}

func TestCheck_IsDeterministic(t *testing.T) {
	pairs := [][2]string{
		{"a", "a"},
		{"මම", "MAMA"},
		{"x\ny", "x\nz"},
	}
	first := make([]domain.Verdict, len(pairs))
	for i, p := range pairs {
		first[i] = Check(p[0], p[1])
	}
	// reversed order, repeated
	for round := 0; round < 3; round++ {
		for i := len(pairs) - 1; i >= 0; i-- {
			assert.Equal(t, first[i], Check(pairs[i][0], pairs[i][1]))
		}
	}
}

func TestCheck_KeepsVerbatimValues(t *testing.T) {
	pass := Check("ඔය", "  ඔය\n")
	assert.Equal(t, domain.StatusPass, pass.Status)
	assert.Equal(t, "ඔය", pass.Expected)
	assert.Equal(t, "  ඔය\n", pass.Actual)

	fail := Check("මම", " Mම ")
	require.Equal(t, domain.StatusFail, fail.Status)
	assert.Equal(t, " Mම ", fail.Actual)
	assert.Contains(t, fail.Detail, "rune 0")
}

func TestCheck_FirstDifferenceLengths(t *testing.T) {
	assert.Contains(t, Check("abc", "ab").Detail, "missing")
	assert.Contains(t, Check("ab", "abc").Detail, "extra")
}

func TestCheckSurfaces(t *testing.T) {
	v := NewExact()

	assert.Equal(t, domain.StatusPass, v.CheckSurfaces(domain.Surfaces{}).Status)
	assert.Equal(t, domain.StatusPass, v.CheckSurfaces(domain.Surfaces{Input: " ", Output: "\n"}).Status)

	dirty := v.CheckSurfaces(domain.Surfaces{Input: "mama", Output: "මම"})
	require.Equal(t, domain.StatusFail, dirty.Status)
	assert.Contains(t, dirty.Detail, "input surface")
	assert.Contains(t, dirty.Detail, "output surface")
}
