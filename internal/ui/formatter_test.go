package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"swiftcheck/internal/config"
	"swiftcheck/internal/domain"
)

func testReport() *domain.Report {
	cases := []domain.TestCase{
		{ID: "Pos_Fun_0001", Input: "mama gedhara yanavaa", Expected: "මම ගෙදර යනවා", Index: 0},
		{ID: "Neg_Fun_0001", Input: "Mama", Expected: "මම", Index: 1},
		{ID: "Pos_UI_0001", Input: "mama", Action: domain.ActionClear, Index: 2},
	}
	rr := domain.NewRunResult(cases)
	_ = rr.Record(domain.CaseResult{Case: cases[0], Verdict: domain.Pass(cases[0].Expected, cases[0].Expected)})
	_ = rr.Record(domain.CaseResult{Case: cases[1], Verdict: domain.Fail("මම", "Mම", "diff")})
	_ = rr.Record(domain.CaseResult{Case: cases[2], Verdict: domain.Errored("", "timed_out", "reset")})
	rr.Finalize()
	return domain.BuildReport(domain.ReportMeta{RunID: "run-1", Sessions: 1}, rr)
}

func newTestFormatter(buf *bytes.Buffer) *Formatter {
	color.NoColor = true
	f := NewFormatter(config.New())
	f.SetOutput(buf)
	return f
}

func TestPrintReport(t *testing.T) {
	var buf bytes.Buffer
	newTestFormatter(&buf).PrintReport(testReport())
	out := buf.String()

	assert.Less(t, strings.Index(out, "Pos_Fun_0001"), strings.Index(out, "Neg_Fun_0001"))
	assert.Contains(t, out, "Verdict : FAIL")
	assert.Contains(t, out, "Cause   : timed_out")
	assert.Contains(t, out, "Neg_Fun (negative)")
	assert.Contains(t, out, "1 failed, 1 errored of 3 cases")
	assert.Contains(t, out, "Pos_UI_0001 [timed_out]")
}

func TestPrintSummaryAllPassed(t *testing.T) {
	cases := []domain.TestCase{{ID: "Pos_Fun_0001", Input: "a", Expected: "අ"}}
	rr := domain.NewRunResult(cases)
	_ = rr.Record(domain.CaseResult{Case: cases[0], Verdict: domain.Pass("අ", "අ")})
	rr.Finalize()

	var buf bytes.Buffer
	newTestFormatter(&buf).PrintSummary(domain.BuildReport(domain.ReportMeta{}, rr))
	assert.Contains(t, buf.String(), "All 1 cases passed")
}

func TestPrintCaseList(t *testing.T) {
	cases := []domain.TestCase{
		{ID: "Pos_Fun_0001", Input: "a", Expected: "අ", Description: "single vowel"},
		{ID: "Pos_Fun_0002", Input: "ma", Expected: "ම", Tags: []string{domain.TagAspirational}},
		{ID: "Neg_Fun_0001", Input: "Ma", Expected: "ම"},
	}

	var buf bytes.Buffer
	newTestFormatter(&buf).PrintCaseList(cases, false, map[string]struct{}{"Neg_Fun_0001": {}})
	out := buf.String()

	assert.Contains(t, out, "Found 3 case(s) in 2 categor(ies)")
	assert.Contains(t, out, "├── Pos_Fun (2)")
	assert.Contains(t, out, "└── Neg_Fun (1)")
	assert.Contains(t, out, "Pos_Fun_0001  single vowel")
	assert.Contains(t, out, "[aspirational]")
	assert.Contains(t, out, "Neg_Fun_0001 [F]")
}

func TestFormatEntryDetails(t *testing.T) {
	e := domain.ReportEntry{ID: "Neg_Fun_0001", Input: "Mama", Expected: "මම", Actual: "Mම", Verdict: domain.StatusFail, Diff: "[-] x"}
	out := formatEntryDetails(e)
	assert.Contains(t, out, "Mismatch")
	assert.Contains(t, out, "Mම")
	assert.NotContains(t, out, "\n[-] x", "diff must be escaped for tview")
}
