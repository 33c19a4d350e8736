package domain

import (
	"fmt"
	"sort"
	"sync"
)

// CaseResult pairs a case with its verdict
type CaseResult struct {
	Case        TestCase
	Verdict     Verdict
	Quarantined bool
}

// Counts is a pass/fail/error tally
type Counts struct {
	Pass  int `json:"pass"`
	Fail  int `json:"fail"`
	Error int `json:"error"`
}

// Total returns the number of counted verdicts
func (c Counts) Total() int { return c.Pass + c.Fail + c.Error }

func (c *Counts) add(s Status) {
	switch s {
	case StatusPass:
		c.Pass++
	case StatusFail:
		c.Fail++
	case StatusError:
		c.Error++
	}
}

// Summary aggregates counts overall and per category
type Summary struct {
	Total      Counts
	Categories map[Category]Counts
}

// SortedCategories returns category names in a stable order
func (s Summary) SortedCategories() []Category {
	out := make([]Category, 0, len(s.Categories))
	for c := range s.Categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// RunResult maps each case id to exactly one verdict for a single run.
// Safe for concurrent Record calls; read-only after Finalize.
type RunResult struct {
	mu        sync.Mutex
	cases     map[string]TestCase
	results   map[string]CaseResult
	finalized bool
}

// NewRunResult creates an empty result for the given cases
func NewRunResult(cases []TestCase) *RunResult {
	rr := &RunResult{
		cases:   make(map[string]TestCase, len(cases)),
		results: make(map[string]CaseResult, len(cases)),
	}
	for _, tc := range cases {
		rr.cases[tc.ID] = tc
	}
	return rr
}

// Record stores the verdict for a case. Each id is recorded exactly once.
func (rr *RunResult) Record(res CaseResult) error {
	rr.mu.Lock()
	defer rr.mu.Unlock()

	if rr.finalized {
		return fmt.Errorf("run result finalized: cannot record %s", res.Case.ID)
	}
	if _, ok := rr.cases[res.Case.ID]; !ok {
		return fmt.Errorf("unknown case %s", res.Case.ID)
	}
	if _, ok := rr.results[res.Case.ID]; ok {
		return fmt.Errorf("case %s already recorded", res.Case.ID)
	}
	rr.results[res.Case.ID] = res
	return nil
}

// Recorded reports whether a verdict exists for id
func (rr *RunResult) Recorded(id string) bool {
	rr.mu.Lock()
	defer rr.mu.Unlock()
	_, ok := rr.results[id]
	return ok
}

// Pending returns cases without a verdict, in table order
func (rr *RunResult) Pending() []TestCase {
	rr.mu.Lock()
	defer rr.mu.Unlock()

	var out []TestCase
	for id, tc := range rr.cases {
		if _, ok := rr.results[id]; !ok {
			out = append(out, tc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}

// Finalize makes the result read-only
func (rr *RunResult) Finalize() {
	rr.mu.Lock()
	rr.finalized = true
	rr.mu.Unlock()
}

// Finalized reports whether Finalize was called
func (rr *RunResult) Finalized() bool {
	rr.mu.Lock()
	defer rr.mu.Unlock()
	return rr.finalized
}

// Get returns the result for id
func (rr *RunResult) Get(id string) (CaseResult, bool) {
	rr.mu.Lock()
	defer rr.mu.Unlock()
	res, ok := rr.results[id]
	return res, ok
}

// Len returns the number of recorded verdicts
func (rr *RunResult) Len() int {
	rr.mu.Lock()
	defer rr.mu.Unlock()
	return len(rr.results)
}

// Ordered returns recorded results sorted by original table index
func (rr *RunResult) Ordered() []CaseResult {
	rr.mu.Lock()
	defer rr.mu.Unlock()

	out := make([]CaseResult, 0, len(rr.results))
	for _, res := range rr.results {
		out = append(out, res)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Case.Index < out[j].Case.Index })
	return out
}

// Summary tallies verdicts overall and by category
func (rr *RunResult) Summary() Summary {
	rr.mu.Lock()
	defer rr.mu.Unlock()

	s := Summary{Categories: make(map[Category]Counts)}
	for _, res := range rr.results {
		s.Total.add(res.Verdict.Status)
		cat := res.Case.Category()
		c := s.Categories[cat]
		c.add(res.Verdict.Status)
		s.Categories[cat] = c
	}
	return s
}

// Failed reports whether any case failed or errored
func (rr *RunResult) Failed() bool {
	sum := rr.Summary()
	return sum.Total.Fail > 0 || sum.Total.Error > 0
}
