package adapter

import (
	"context"
	"errors"
	"time"
)

// Sampler reads the current value of a surface
type Sampler func(ctx context.Context) (string, error)

// Policy controls WaitStable
type Policy struct {
	// Interval between samples
	Interval time.Duration
	// Samples is the number of equal consecutive reads that count as stable
	Samples int
	// Timeout bounds the whole wait
	Timeout time.Duration
	// Baseline is the value seen before the stimulus
	Baseline string
	// RequireChange ignores samples equal to Baseline until the value has moved once
	RequireChange bool
	// SettleFallback returns the last sample after this long when the value
	// never moved from Baseline. Zero disables it.
	SettleFallback time.Duration
}

func (p Policy) normalized() Policy {
	if p.Interval <= 0 {
		p.Interval = 100 * time.Millisecond
	}
	if p.Samples <= 0 {
		p.Samples = 3
	}
	if p.Timeout <= 0 {
		p.Timeout = 10 * time.Second
	}
	return p
}

// WaitStable polls sample until it returns the same value Samples times in a
// row, bounded by Timeout. A failed sample counts as unstable and polling
// goes on. Exceeding the bound is a KindTimedOut error that carries the last
// observed value and wraps the last sampler error, if the final sample failed.
func WaitStable(ctx context.Context, sample Sampler, p Policy) (string, error) {
	p = p.normalized()
	ctx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()

	ticker := time.NewTicker(p.Interval)
	defer ticker.Stop()

	start := time.Now()
	moved := !p.RequireChange
	var last string
	var lastErr error
	streak := 0

	for {
		v, err := sample(ctx)
		if err != nil {
			streak = 0
			lastErr = err
			if ctx.Err() != nil {
				return last, timedOut(ctx, lastErr)
			}
			select {
			case <-ctx.Done():
				return last, timedOut(ctx, lastErr)
			case <-ticker.C:
			}
			continue
		}
		lastErr = nil

		if !moved && v != p.Baseline {
			moved = true
		}
		switch {
		case moved:
			if streak > 0 && v == last {
				streak++
			} else {
				streak = 1
			}
			last = v
			if streak >= p.Samples {
				return v, nil
			}
		case p.SettleFallback > 0 && time.Since(start) >= p.SettleFallback:
			return v, nil
		default:
			last = v
		}

		select {
		case <-ctx.Done():
			return last, timedOut(ctx, nil)
		case <-ticker.C:
		}
	}
}

func timedOut(ctx context.Context, lastErr error) *Error {
	if lastErr != nil {
		return newError(KindTimedOut, "wait", "", errors.Join(ctx.Err(), lastErr))
	}
	return newError(KindTimedOut, "wait", "", ctx.Err())
}

// WaitFor polls cond until it reports true, bounded by timeout. Like
// WaitStable it keeps polling through cond errors.
func WaitFor(ctx context.Context, interval, timeout time.Duration, cond func(ctx context.Context) (bool, error)) error {
	p := Policy{Interval: interval, Timeout: timeout}.normalized()
	ctx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()

	ticker := time.NewTicker(p.Interval)
	defer ticker.Stop()

	var lastErr error
	for {
		ok, err := cond(ctx)
		if err != nil {
			lastErr = err
			if ctx.Err() != nil {
				return timedOut(ctx, lastErr)
			}
		} else {
			if ok {
				return nil
			}
			lastErr = nil
		}
		select {
		case <-ctx.Done():
			return timedOut(ctx, lastErr)
		case <-ticker.C:
		}
	}
}
