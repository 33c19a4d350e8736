package domain

import "time"

// Status is the terminal state of a case execution
type Status string

const (
	StatusPending Status = "pending"
	StatusPass    Status = "pass"
	StatusFail    Status = "fail"
	StatusError   Status = "error"
)

// Cause values for StatusError verdicts that do not come from the adapter
const (
	CauseRunAborted = "run_aborted"
	CauseSession    = "session_unavailable"
)

// Verdict is the outcome of checking one case
type Verdict struct {
	Status   Status        `json:"status"`
	Expected string        `json:"expected"`
	Actual   string        `json:"actual"`
	Diff     string        `json:"diff,omitempty"`  // Fail only
	Cause    string        `json:"cause,omitempty"` // Error only
	Detail   string        `json:"detail,omitempty"`
	Attempts int           `json:"attempts"`
	Duration time.Duration `json:"duration"`
}

// Pass builds a passing verdict
func Pass(expected, actual string) Verdict {
	return Verdict{Status: StatusPass, Expected: expected, Actual: actual}
}

// Fail builds a mismatch verdict
func Fail(expected, actual, diff string) Verdict {
	return Verdict{Status: StatusFail, Expected: expected, Actual: actual, Diff: diff}
}

// Errored builds an error verdict for adapter or environment failures
func Errored(expected, cause, detail string) Verdict {
	return Verdict{Status: StatusError, Expected: expected, Cause: cause, Detail: detail}
}

// Surfaces is what the page currently shows in its input and output regions
type Surfaces struct {
	Input  string `json:"input"`
	Output string `json:"output"`
}
