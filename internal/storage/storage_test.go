package storage

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"swiftcheck/internal/config"
	"swiftcheck/internal/domain"
)

func sampleReport() *domain.Report {
	cases := []domain.TestCase{
		{ID: "Pos_Fun_0001", Input: "mama gedhara yanavaa", Expected: "මම ගෙදර යනවා", Index: 0},
		{ID: "Neg_Fun_0001", Input: "Mama", Expected: "මම", Index: 1},
	}
	rr := domain.NewRunResult(cases)
	_ = rr.Record(domain.CaseResult{Case: cases[0], Verdict: domain.Pass(cases[0].Expected, cases[0].Expected)})
	_ = rr.Record(domain.CaseResult{Case: cases[1], Verdict: domain.Fail("මම", "Mම", "-මම\n+Mම"), Quarantined: true})
	rr.Finalize()
	return domain.BuildReport(domain.ReportMeta{RunID: "run-1", Target: "https://example.test", Duration: "1s"}, rr)
}

func TestJSONStorageRoundTrip(t *testing.T) {
	cfg := config.New()
	cfg.ProjectPath = t.TempDir()
	st := NewJSONStorage(cfg)

	report := sampleReport()
	require.NoError(t, st.Save(report))

	loaded, err := st.Load()
	require.NoError(t, err)
	assert.Equal(t, report.Meta, loaded.Meta)
	require.Len(t, loaded.Cases, 2)
	assert.Equal(t, "Neg_Fun_0001", loaded.Cases[1].ID)
	assert.True(t, loaded.Cases[1].Quarantined)

	ids, err := st.FailedIDs()
	require.NoError(t, err)
	assert.Equal(t, []string{"Neg_Fun_0001"}, ids)
}

func TestJSONStorageLoadMissing(t *testing.T) {
	cfg := config.New()
	cfg.ProjectPath = t.TempDir()
	_, err := NewJSONStorage(cfg).Load()
	assert.Error(t, err)
}

func TestWriteReport(t *testing.T) {
	dir := t.TempDir()
	report := sampleReport()

	t.Run("json", func(t *testing.T) {
		path := filepath.Join(dir, "out", "report.json")
		require.NoError(t, WriteReport(path, report))
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		var got domain.Report
		require.NoError(t, json.Unmarshal(data, &got))
		assert.Equal(t, 1, got.Meta.Passed)
		assert.Equal(t, 1, got.Meta.Failed)
	})

	t.Run("yaml", func(t *testing.T) {
		path := filepath.Join(dir, "report.yml")
		require.NoError(t, WriteReport(path, report))
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		var got domain.Report
		require.NoError(t, yaml.Unmarshal(data, &got))
		assert.Len(t, got.Cases, 2)
		assert.Equal(t, domain.StatusFail, got.Cases[1].Verdict)
	})

	t.Run("text", func(t *testing.T) {
		path := filepath.Join(dir, "report.txt")
		require.NoError(t, WriteReport(path, report))
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "Pos_Fun_0001")
		assert.Contains(t, string(data), "FAIL (quarantined)")
	})
}

func TestWriteTextKeepsTableOrder(t *testing.T) {
	var buf bytes.Buffer
	WriteText(&buf, sampleReport())
	out := buf.String()
	assert.Less(t, strings.Index(out, "Pos_Fun_0001"), strings.Index(out, "Neg_Fun_0001"))
	assert.Contains(t, out, "Expected: මම")
}
