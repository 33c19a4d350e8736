package execution

import (
	"context"
	"time"

	"go.uber.org/zap"

	"swiftcheck/internal/adapter"
	"swiftcheck/internal/config"
	"swiftcheck/internal/domain"
	"swiftcheck/internal/verify"
)

// CauseAdapter is the error cause for adapter failures of unknown kind
const CauseAdapter = "adapter_error"

// Runner executes a single case against an adapter session
type Runner struct {
	config   *config.Config
	verifier verify.Verifier
	logger   *zap.Logger
}

// NewRunner creates a new Runner
func NewRunner(cfg *config.Config, verifier verify.Verifier, logger *zap.Logger) *Runner {
	if verifier == nil {
		verifier = verify.NewExact()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{config: cfg, verifier: verifier, logger: logger.Named("runner")}
}

// RunCase drives one case from pending to a terminal verdict. Adapter
// failures are retried up to the configured retry count with a reset in
// between; mismatches are final on the first attempt.
func (r *Runner) RunCase(ctx context.Context, a adapter.Adapter, tc domain.TestCase) domain.CaseResult {
	start := time.Now()
	log := r.logger.With(zap.String("case", tc.ID))

	var verdict domain.Verdict
	attempts := 0
	for {
		if ctx.Err() != nil {
			verdict = domain.Errored(tc.Expected, domain.CauseRunAborted, ctx.Err().Error())
			break
		}
		attempts++

		v, err := r.attempt(ctx, a, tc)
		if err == nil {
			verdict = v
			break
		}

		if ctx.Err() != nil || !adapter.IsTransient(err) || attempts > r.config.Retries {
			verdict = r.errorVerdict(ctx, tc, err)
			verdict.Actual = v.Actual
			break
		}

		log.Warn("attempt failed, retrying",
			zap.Int("attempt", attempts),
			zap.Error(err))
	}

	verdict.Attempts = attempts
	verdict.Duration = time.Since(start)

	log.Debug("case finished",
		zap.String("status", string(verdict.Status)),
		zap.Int("attempts", attempts),
		zap.Duration("duration", verdict.Duration))

	return domain.CaseResult{Case: tc, Verdict: verdict}
}

// attempt resets the session and runs the case once. A returned error is an
// adapter failure; the verdict may still carry the last observed output.
func (r *Runner) attempt(ctx context.Context, a adapter.Adapter, tc domain.TestCase) (domain.Verdict, error) {
	if err := a.Reset(ctx); err != nil {
		return domain.Verdict{}, err
	}

	out, err := a.Submit(ctx, tc.Input)
	if err != nil {
		return domain.Verdict{Actual: out}, err
	}

	if tc.Kind() == domain.ActionClear {
		// Clear only errors when the control is unreachable; dirty
		// surfaces are judged below.
		if err := a.Clear(ctx); err != nil {
			return domain.Verdict{Actual: out}, err
		}
		s, err := a.Read(ctx)
		if err != nil {
			return domain.Verdict{}, err
		}
		return r.verifier.CheckSurfaces(s), nil
	}

	return r.verifier.Check(tc.Expected, out), nil
}

func (r *Runner) errorVerdict(ctx context.Context, tc domain.TestCase, err error) domain.Verdict {
	if ctx.Err() != nil {
		return domain.Errored(tc.Expected, domain.CauseRunAborted, err.Error())
	}
	if kind, ok := adapter.KindOf(err); ok {
		return domain.Errored(tc.Expected, string(kind), err.Error())
	}
	return domain.Errored(tc.Expected, CauseAdapter, err.Error())
}
