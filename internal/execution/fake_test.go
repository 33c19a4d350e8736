package execution

import (
	"context"
	"errors"
	"sync"
	"time"

	"swiftcheck/internal/adapter"
	"swiftcheck/internal/domain"
)

// fakeAdapter is a scripted in-memory page
type fakeAdapter struct {
	mu       sync.Mutex
	outputs  map[string]string
	errs     map[string][]error
	delay    time.Duration
	sticky   bool // the clear control leaves the output behind
	surfaces domain.Surfaces
	submits  []string
	resets   int
	clears   int
	closed   bool
}

func newFakeAdapter(outputs map[string]string) *fakeAdapter {
	return &fakeAdapter{outputs: outputs, errs: make(map[string][]error)}
}

func (f *fakeAdapter) failNext(input string, errs ...error) *fakeAdapter {
	f.errs[input] = append(f.errs[input], errs...)
	return f
}

func (f *fakeAdapter) Submit(ctx context.Context, input string) (string, error) {
	if f.delay > 0 {
		select {
		case <-ctx.Done():
			return "", &adapter.Error{Kind: adapter.KindTimedOut, Op: "submit", Err: ctx.Err()}
		case <-time.After(f.delay):
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.submits = append(f.submits, input)
	if q := f.errs[input]; len(q) > 0 {
		f.errs[input] = q[1:]
		return "", q[0]
	}
	f.surfaces = domain.Surfaces{Input: input, Output: f.outputs[input]}
	return f.surfaces.Output, nil
}

// Reset mirrors the live session: a no-op on an empty page, and a timeout
// when the clear control leaves output behind.
func (f *fakeAdapter) Reset(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return &adapter.Error{Kind: adapter.KindTimedOut, Op: "reset", Err: err}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resets++
	if f.surfaces == (domain.Surfaces{}) {
		return nil
	}
	f.press()
	if f.surfaces.Output != "" {
		return &adapter.Error{Kind: adapter.KindTimedOut, Op: "reset", Err: context.DeadlineExceeded}
	}
	return nil
}

func (f *fakeAdapter) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return &adapter.Error{Kind: adapter.KindTimedOut, Op: "clear", Err: err}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clears++
	f.press()
	return nil
}

func (f *fakeAdapter) press() {
	f.surfaces.Input = ""
	if !f.sticky {
		f.surfaces.Output = ""
	}
}

func (f *fakeAdapter) Read(ctx context.Context) (domain.Surfaces, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.surfaces, nil
}

func (f *fakeAdapter) Close() error {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	return nil
}

// fakeFactory hands out adapters built by newAdapter; sessions listed in
// failSessions fail to open
type fakeFactory struct {
	mu           sync.Mutex
	newAdapter   func() *fakeAdapter
	failSessions map[int]bool
	opened       int
	adapters     []*fakeAdapter
}

func (f *fakeFactory) NewSession(ctx context.Context) (adapter.Adapter, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := f.opened
	f.opened++
	if f.failSessions[n] {
		return nil, &adapter.Error{Kind: adapter.KindNavigationFailed, Op: "navigate", Err: errors.New("connection refused")}
	}
	a := f.newAdapter()
	f.adapters = append(f.adapters, a)
	return a, nil
}

func (f *fakeFactory) Close() error { return nil }

func (f *fakeFactory) allClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.adapters {
		a.mu.Lock()
		closed := a.closed
		a.mu.Unlock()
		if !closed {
			return false
		}
	}
	return true
}

// recordingProgress captures the last update
type recordingProgress struct {
	mu                      sync.Mutex
	passed, failed, errored int
	updates                 int
	finished                bool
}

func (p *recordingProgress) Update(passed, failed, errored int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.passed, p.failed, p.errored = passed, failed, errored
	p.updates++
}

func (p *recordingProgress) Finish() {
	p.mu.Lock()
	p.finished = true
	p.mu.Unlock()
}
