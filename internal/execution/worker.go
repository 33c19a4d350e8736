package execution

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"swiftcheck/internal/adapter"
	"swiftcheck/internal/config"
	"swiftcheck/internal/domain"
)

// WorkerPool runs cases across isolated adapter sessions. Each session is
// owned by exactly one worker, so a session never sees two cases at once.
type WorkerPool struct {
	config      *config.Config
	factory     adapter.Factory
	runner      *Runner
	scheduler   Scheduler
	progress    Progress
	logger      *zap.Logger
	quarantined map[string]bool
	onResult    func(domain.CaseResult)
}

// NewWorkerPool creates a new WorkerPool
func NewWorkerPool(cfg *config.Config, factory adapter.Factory, runner *Runner, scheduler Scheduler, logger *zap.Logger) *WorkerPool {
	if scheduler == nil {
		scheduler = NewRoundRobinScheduler()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WorkerPool{
		config:    cfg,
		factory:   factory,
		runner:    runner,
		scheduler: scheduler,
		logger:    logger.Named("pool"),
	}
}

// SetProgress sets the progress sink for the worker pool
func (wp *WorkerPool) SetProgress(progress Progress) {
	wp.progress = progress
}

// SetQuarantined marks ids whose results are tagged as quarantined
func (wp *WorkerPool) SetQuarantined(ids []string) {
	wp.quarantined = make(map[string]bool, len(ids))
	for _, id := range ids {
		wp.quarantined[id] = true
	}
}

// OnResult registers a callback invoked after each verdict is recorded
func (wp *WorkerPool) OnResult(fn func(domain.CaseResult)) {
	wp.onResult = fn
}

// Execute runs every case and returns a finalized result with exactly one
// verdict per case. Cases never started because of fail-fast or the run
// timeout are recorded as run_aborted errors.
func (wp *WorkerPool) Execute(ctx context.Context, cases []domain.TestCase) (*domain.RunResult, time.Duration, error) {
	rr := domain.NewRunResult(cases)
	if len(cases) == 0 {
		rr.Finalize()
		return rr, 0, nil
	}

	startTime := time.Now()

	runCtx := ctx
	if wp.config.RunTimeout > 0 {
		var cancelTimeout context.CancelFunc
		runCtx, cancelTimeout = context.WithTimeout(ctx, wp.config.RunTimeout)
		defer cancelTimeout()
	}
	runCtx, abort := context.WithCancelCause(runCtx)
	defer abort(nil)

	sessionCount := wp.config.Sessions
	if sessionCount <= 0 {
		sessionCount = 1
	}
	if sessionCount > len(cases) {
		sessionCount = len(cases)
	}
	shards := wp.scheduler.Schedule(cases, sessionCount)

	sessions, sessionErrs := wp.openSessions(runCtx, len(shards))
	defer func() {
		for _, s := range sessions {
			if s != nil {
				_ = s.Close()
			}
		}
	}()

	var mu sync.Mutex
	var passed, failed, errored int
	record := func(res domain.CaseResult) {
		res.Quarantined = wp.quarantined[res.Case.ID]
		if err := rr.Record(res); err != nil {
			wp.logger.Error("record verdict", zap.Error(err))
			return
		}

		mu.Lock()
		switch res.Verdict.Status {
		case domain.StatusPass:
			passed++
		case domain.StatusFail:
			failed++
		default:
			errored++
		}
		if wp.progress != nil {
			wp.progress.Update(passed, failed, errored)
		}
		if wp.onResult != nil {
			wp.onResult(res)
		}
		mu.Unlock()

		if wp.config.Flags.FailFast && res.Verdict.Status != domain.StatusPass {
			abort(errFailFast)
		}
	}

	var wg sync.WaitGroup
	for i, shard := range shards {
		wg.Add(1)
		go func(sessionID int, shard []domain.TestCase) {
			defer wg.Done()

			if err := sessionErrs[sessionID]; err != nil {
				for _, tc := range shard {
					record(domain.CaseResult{
						Case:    tc,
						Verdict: domain.Errored(tc.Expected, domain.CauseSession, err.Error()),
					})
				}
				return
			}

			for _, tc := range shard {
				if runCtx.Err() != nil {
					return
				}
				record(wp.runner.RunCase(runCtx, sessions[sessionID], tc))
			}
		}(i, shard)
	}
	wg.Wait()

	if pending := rr.Pending(); len(pending) > 0 {
		reason := abortReason(runCtx)
		wp.logger.Info("run aborted", zap.Int("pending", len(pending)), zap.String("reason", reason))
		for _, tc := range pending {
			record(domain.CaseResult{
				Case:    tc,
				Verdict: domain.Errored(tc.Expected, domain.CauseRunAborted, reason),
			})
		}
	}

	rr.Finalize()
	if wp.progress != nil {
		wp.progress.Finish()
	}
	return rr, time.Since(startTime), nil
}

// openSessions opens one adapter per shard concurrently. A failed session is
// reported by position and does not stop the others.
func (wp *WorkerPool) openSessions(ctx context.Context, n int) ([]adapter.Adapter, []error) {
	sessions := make([]adapter.Adapter, n)
	errs := make([]error, n)

	var g errgroup.Group
	for i := 0; i < n; i++ {
		g.Go(func() error {
			s, err := wp.factory.NewSession(ctx)
			if err != nil {
				wp.logger.Warn("session unavailable", zap.Int("session", i), zap.Error(err))
				errs[i] = err
				return nil
			}
			sessions[i] = s
			return nil
		})
	}
	_ = g.Wait()
	return sessions, errs
}

var errFailFast = errors.New("fail-fast: earlier case did not pass")

func abortReason(ctx context.Context) string {
	if cause := context.Cause(ctx); cause != nil {
		if errors.Is(cause, context.DeadlineExceeded) {
			return "run timeout exceeded"
		}
		return cause.Error()
	}
	return "run aborted"
}

var _ Executor = (*WorkerPool)(nil)
