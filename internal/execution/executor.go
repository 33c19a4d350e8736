package execution

import (
	"context"
	"time"

	"swiftcheck/internal/domain"
)

// Executor runs cases and returns one verdict per case
type Executor interface {
	Execute(ctx context.Context, cases []domain.TestCase) (*domain.RunResult, time.Duration, error)
}

// Progress receives running totals while a run executes
type Progress interface {
	Update(passed, failed, errored int)
	Finish()
}
