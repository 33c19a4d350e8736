package domain

import (
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleCases() []TestCase {
	return []TestCase{
		{ID: "Pos_Fun_0001", Input: "a", Expected: "A", Index: 0},
		{ID: "Pos_Fun_0002", Input: "b", Expected: "B", Index: 1},
		{ID: "Neg_Fun_0001", Input: "c", Expected: "C", Index: 2},
		{ID: "Pos_UI_0001", Input: "d", Action: ActionClear, Index: 3},
	}
}

func TestRunResult_RecordOnce(t *testing.T) {
	cases := sampleCases()
	rr := NewRunResult(cases)

	require.NoError(t, rr.Record(CaseResult{Case: cases[0], Verdict: Pass("A", "A")}))
	assert.Error(t, rr.Record(CaseResult{Case: cases[0], Verdict: Pass("A", "A")}), "second record must fail")
	assert.Error(t, rr.Record(CaseResult{Case: TestCase{ID: "nope"}}), "unknown id must fail")

	rr.Finalize()
	assert.True(t, rr.Finalized())
	assert.Error(t, rr.Record(CaseResult{Case: cases[1], Verdict: Pass("B", "B")}), "record after finalize must fail")
	assert.Equal(t, 1, rr.Len())
}

func TestRunResult_OrderedRestoresTableOrder(t *testing.T) {
	cases := sampleCases()
	rr := NewRunResult(cases)

	// complete in reverse, concurrently
	var wg sync.WaitGroup
	for i := len(cases) - 1; i >= 0; i-- {
		wg.Add(1)
		go func(tc TestCase) {
			defer wg.Done()
			_ = rr.Record(CaseResult{Case: tc, Verdict: Pass(tc.Expected, tc.Expected)})
		}(cases[i])
	}
	wg.Wait()

	ordered := rr.Ordered()
	require.Len(t, ordered, len(cases))
	for i, res := range ordered {
		assert.Equal(t, cases[i].ID, res.Case.ID)
	}
}

func TestRunResult_Pending(t *testing.T) {
	cases := sampleCases()
	rr := NewRunResult(cases)
	require.NoError(t, rr.Record(CaseResult{Case: cases[1], Verdict: Pass("B", "B")}))

	pending := rr.Pending()
	require.Len(t, pending, 3)
	assert.Equal(t, "Pos_Fun_0001", pending[0].ID)
	assert.Equal(t, "Neg_Fun_0001", pending[1].ID)
	assert.Equal(t, "Pos_UI_0001", pending[2].ID)
}

func TestRunResult_SummaryByCategory(t *testing.T) {
	cases := sampleCases()
	rr := NewRunResult(cases)
	require.NoError(t, rr.Record(CaseResult{Case: cases[0], Verdict: Pass("A", "A")}))
	require.NoError(t, rr.Record(CaseResult{Case: cases[1], Verdict: Fail("B", "b", "-B\n+b")}))
	require.NoError(t, rr.Record(CaseResult{Case: cases[2], Verdict: Errored("C", "timed_out", "")}))
	require.NoError(t, rr.Record(CaseResult{Case: cases[3], Verdict: Pass("", "")}))

	sum := rr.Summary()
	assert.Equal(t, Counts{Pass: 2, Fail: 1, Error: 1}, sum.Total)
	assert.Equal(t, Counts{Pass: 1, Fail: 1}, sum.Categories["Pos_Fun"])
	assert.Equal(t, Counts{Error: 1}, sum.Categories["Neg_Fun"])
	assert.Equal(t, Counts{Pass: 1}, sum.Categories["Pos_UI"])
	assert.Equal(t, []Category{"Neg_Fun", "Pos_Fun", "Pos_UI"}, sum.SortedCategories())
	assert.True(t, rr.Failed())
}

func TestRunResult_ShuffledRecordingGivesSameVerdicts(t *testing.T) {
	cases := sampleCases()
	verdictFor := func(tc TestCase) Verdict {
		if tc.ID == "Pos_Fun_0002" {
			return Fail(tc.Expected, "x", "diff")
		}
		return Pass(tc.Expected, tc.Expected)
	}

	straight := NewRunResult(cases)
	for _, tc := range cases {
		require.NoError(t, straight.Record(CaseResult{Case: tc, Verdict: verdictFor(tc)}))
	}

	shuffled := append([]TestCase(nil), cases...)
	rand.New(rand.NewSource(7)).Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	other := NewRunResult(shuffled)
	for _, tc := range shuffled {
		require.NoError(t, other.Record(CaseResult{Case: tc, Verdict: verdictFor(tc)}))
	}

	for _, tc := range cases {
		a, _ := straight.Get(tc.ID)
		b, _ := other.Get(tc.ID)
		assert.Equal(t, a.Verdict.Status, b.Verdict.Status, tc.ID)
	}
}

func TestBuildReport(t *testing.T) {
	cases := sampleCases()
	rr := NewRunResult(cases)
	for _, tc := range cases {
		require.NoError(t, rr.Record(CaseResult{Case: tc, Verdict: Pass(tc.Expected, tc.Expected)}))
	}
	rr.Finalize()

	report := BuildReport(ReportMeta{RunID: "r1", Sessions: 1}, rr)
	assert.Equal(t, 4, report.Meta.TotalCases)
	assert.Equal(t, 4, report.Meta.Passed)
	require.Len(t, report.Cases, 4)
	assert.Equal(t, "Pos_Fun_0001", report.Cases[0].ID)
	assert.Equal(t, "Pos_Fun", report.Cases[0].Category)
	require.Len(t, report.Categories, 3)
	assert.Equal(t, "ui", report.Categories[2].Class)
	assert.Empty(t, report.Problems())
}
