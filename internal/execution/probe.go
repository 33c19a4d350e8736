package execution

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"swiftcheck/internal/adapter"
	"swiftcheck/internal/domain"
)

// ProbeResult is the round-trip outcome for one case
type ProbeResult struct {
	Case   domain.TestCase
	First  string
	Second string
	Stable bool
	Reason string
	Err    error
}

// Probe checks that the target answers the same input the same way twice
// and that a reset leaves both surfaces empty.
type Probe struct {
	logger   *zap.Logger
	onResult func(ProbeResult)
}

// NewProbe creates a new Probe
func NewProbe(logger *zap.Logger) *Probe {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Probe{logger: logger.Named("probe")}
}

// OnResult registers a callback invoked after each case is probed
func (p *Probe) OnResult(fn func(ProbeResult)) {
	p.onResult = fn
}

// Run probes cases in order on a single session
func (p *Probe) Run(ctx context.Context, a adapter.Adapter, cases []domain.TestCase) []ProbeResult {
	results := make([]ProbeResult, 0, len(cases))
	for _, tc := range cases {
		if ctx.Err() != nil {
			break
		}
		res := p.probe(ctx, a, tc)
		if !res.Stable {
			p.logger.Info("unstable case", zap.String("case", tc.ID), zap.String("reason", res.Reason))
		}
		if p.onResult != nil {
			p.onResult(res)
		}
		results = append(results, res)
	}
	return results
}

func (p *Probe) probe(ctx context.Context, a adapter.Adapter, tc domain.TestCase) ProbeResult {
	res := ProbeResult{Case: tc}
	fail := func(err error) ProbeResult {
		res.Err = err
		res.Reason = err.Error()
		return res
	}

	if err := a.Reset(ctx); err != nil {
		return fail(err)
	}
	first, err := a.Submit(ctx, tc.Input)
	if err != nil {
		return fail(err)
	}
	res.First = first

	shown, err := a.Read(ctx)
	if err != nil {
		return fail(err)
	}
	if strings.TrimSpace(shown.Output) != strings.TrimSpace(first) {
		res.Reason = fmt.Sprintf("output changed after submit returned: %q then %q", first, shown.Output)
		return res
	}

	// Two clears in a row must leave the same empty page as one.
	for i := 0; i < 2; i++ {
		if err := a.Clear(ctx); err != nil {
			return fail(err)
		}
	}
	cleared, err := a.Read(ctx)
	if err != nil {
		return fail(err)
	}
	if strings.TrimSpace(cleared.Input) != "" || strings.TrimSpace(cleared.Output) != "" {
		res.Reason = fmt.Sprintf("clear left input %q output %q", cleared.Input, cleared.Output)
		return res
	}

	second, err := a.Submit(ctx, tc.Input)
	if err != nil {
		return fail(err)
	}
	res.Second = second
	if strings.TrimSpace(first) != strings.TrimSpace(second) {
		res.Reason = fmt.Sprintf("resubmit rendered %q, first run rendered %q", second, first)
		return res
	}

	res.Stable = true
	return res
}

// Unstable returns the ids of cases that did not round-trip
func Unstable(results []ProbeResult) []string {
	var ids []string
	for _, r := range results {
		if !r.Stable {
			ids = append(ids, r.Case.ID)
		}
	}
	return ids
}
