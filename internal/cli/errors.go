package cli

import "errors"

// ErrCasesFailed is returned when at least one case failed or errored.
// main maps it to exit status 1 without printing an error banner.
var ErrCasesFailed = errors.New("one or more cases did not pass")
