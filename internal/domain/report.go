package domain

// ReportMeta contains metadata about a run
type ReportMeta struct {
	RunID           string  `json:"run_id" yaml:"run_id"`
	Target          string  `json:"target" yaml:"target"`
	TotalCases      int     `json:"total_cases" yaml:"total_cases"`
	Passed          int     `json:"passed" yaml:"passed"`
	Failed          int     `json:"failed" yaml:"failed"`
	Errored         int     `json:"errored" yaml:"errored"`
	Duration        string  `json:"duration" yaml:"duration"`
	DurationSeconds float64 `json:"duration_seconds" yaml:"duration_seconds"`
	Sessions        int     `json:"sessions" yaml:"sessions"`
	Timestamp       string  `json:"timestamp" yaml:"timestamp"`
}

// CategoryCount is one row of the per-category summary
type CategoryCount struct {
	Category string `json:"category" yaml:"category"`
	Class    string `json:"class" yaml:"class"`
	Pass     int    `json:"pass" yaml:"pass"`
	Fail     int    `json:"fail" yaml:"fail"`
	Error    int    `json:"error" yaml:"error"`
}

// ReportEntry is the serialized form of one case result
type ReportEntry struct {
	ID          string   `json:"id" yaml:"id"`
	Description string   `json:"description" yaml:"description"`
	Category    string   `json:"category" yaml:"category"`
	Input       string   `json:"input" yaml:"input"`
	Expected    string   `json:"expected" yaml:"expected"`
	Actual      string   `json:"actual" yaml:"actual"`
	Verdict     Status   `json:"verdict" yaml:"verdict"`
	Diff        string   `json:"diff,omitempty" yaml:"diff,omitempty"`
	Cause       string   `json:"cause,omitempty" yaml:"cause,omitempty"`
	Detail      string   `json:"detail,omitempty" yaml:"detail,omitempty"`
	Attempts    int      `json:"attempts" yaml:"attempts"`
	DurationMs  int64    `json:"duration_ms" yaml:"duration_ms"`
	Tags        []string `json:"tags,omitempty" yaml:"tags,omitempty"`
	Quarantined bool     `json:"quarantined,omitempty" yaml:"quarantined,omitempty"`
	Reviewed    bool     `json:"reviewed,omitempty" yaml:"reviewed,omitempty"` // Set from the failures viewer
}

// Report is the complete output structure for a run
type Report struct {
	Meta       ReportMeta      `json:"meta" yaml:"meta"`
	Categories []CategoryCount `json:"categories" yaml:"categories"`
	Cases      []ReportEntry   `json:"cases" yaml:"cases"`
}

// Problems returns entries whose verdict is not pass
func (r *Report) Problems() []int {
	var idx []int
	for i, e := range r.Cases {
		if e.Verdict != StatusPass {
			idx = append(idx, i)
		}
	}
	return idx
}

// NewEntry converts a case result into its serialized form
func NewEntry(res CaseResult) ReportEntry {
	return ReportEntry{
		ID:          res.Case.ID,
		Description: res.Case.Description,
		Category:    string(res.Case.Category()),
		Input:       res.Case.Input,
		Expected:    res.Case.Expected,
		Actual:      res.Verdict.Actual,
		Verdict:     res.Verdict.Status,
		Diff:        res.Verdict.Diff,
		Cause:       res.Verdict.Cause,
		Detail:      res.Verdict.Detail,
		Attempts:    res.Verdict.Attempts,
		DurationMs:  res.Verdict.Duration.Milliseconds(),
		Tags:        res.Case.Tags,
		Quarantined: res.Quarantined,
	}
}

// BuildReport assembles a report from a finalized run
func BuildReport(meta ReportMeta, rr *RunResult) *Report {
	sum := rr.Summary()
	meta.TotalCases = sum.Total.Total()
	meta.Passed = sum.Total.Pass
	meta.Failed = sum.Total.Fail
	meta.Errored = sum.Total.Error

	report := &Report{Meta: meta}
	for _, cat := range sum.SortedCategories() {
		c := sum.Categories[cat]
		report.Categories = append(report.Categories, CategoryCount{
			Category: string(cat),
			Class:    string(cat.Class()),
			Pass:     c.Pass,
			Fail:     c.Fail,
			Error:    c.Error,
		})
	}
	for _, res := range rr.Ordered() {
		report.Cases = append(report.Cases, NewEntry(res))
	}
	return report
}
