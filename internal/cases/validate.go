package cases

import (
	"errors"
	"fmt"
	"strings"

	"swiftcheck/internal/domain"
)

// SchemaError reports malformed fixture data. It is fatal at load time.
type SchemaError struct {
	CaseID string
	Field  string
	Reason string
	Source string
}

func (e *SchemaError) Error() string {
	var b strings.Builder
	b.WriteString("schema error")
	if e.Source != "" {
		fmt.Fprintf(&b, " in %s", e.Source)
	}
	if e.CaseID != "" {
		fmt.Fprintf(&b, ": case %q", e.CaseID)
	}
	fmt.Fprintf(&b, ": %s %s", e.Field, e.Reason)
	return b.String()
}

// IsSchemaError reports whether err carries a SchemaError
func IsSchemaError(err error) bool {
	var se *SchemaError
	return errors.As(err, &se)
}

// Validate checks a single case
func Validate(tc domain.TestCase) error {
	if strings.TrimSpace(tc.ID) == "" {
		return &SchemaError{CaseID: tc.ID, Field: "id", Reason: "is required"}
	}
	if tc.Input == "" {
		return &SchemaError{CaseID: tc.ID, Field: "input", Reason: "is required"}
	}
	switch tc.Kind() {
	case domain.ActionTransliterate:
		if tc.Expected == "" {
			return &SchemaError{CaseID: tc.ID, Field: "expected", Reason: "may only be empty for clear cases"}
		}
	case domain.ActionClear:
	default:
		return &SchemaError{CaseID: tc.ID, Field: "action", Reason: fmt.Sprintf("unknown action %q", tc.Action)}
	}
	return nil
}

// ValidateAll checks every case and rejects duplicate ids.
// All problems are joined; errors.As finds the first SchemaError.
func ValidateAll(cases []domain.TestCase) error {
	var errs []error
	seen := make(map[string]int, len(cases))
	for i, tc := range cases {
		if err := Validate(tc); err != nil {
			errs = append(errs, err)
			continue
		}
		if prev, ok := seen[tc.ID]; ok {
			errs = append(errs, &SchemaError{
				CaseID: tc.ID,
				Field:  "id",
				Reason: fmt.Sprintf("duplicated (rows %d and %d)", prev+1, i+1),
			})
			continue
		}
		seen[tc.ID] = i
	}
	return errors.Join(errs...)
}
