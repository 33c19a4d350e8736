package history

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"swiftcheck/internal/domain"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()
	s, err := Open(ctx, DriverSQLite, filepath.Join(t.TempDir(), "db", "history.db"), zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(ctx))
	return s
}

func report(runID string, statuses map[string]domain.Status) *domain.Report {
	r := &domain.Report{Meta: domain.ReportMeta{RunID: runID, Target: "https://example.test", Timestamp: "2026-01-01T00:00:00Z"}}
	for _, id := range []string{"Neg_Fun_0001", "Pos_Fun_0001", "Pos_Fun_0002"} {
		st, ok := statuses[id]
		if !ok {
			st = domain.StatusPass
		}
		r.Cases = append(r.Cases, domain.ReportEntry{ID: id, Verdict: st, Attempts: 1})
		switch st {
		case domain.StatusPass:
			r.Meta.Passed++
		case domain.StatusFail:
			r.Meta.Failed++
		default:
			r.Meta.Errored++
		}
	}
	r.Meta.TotalCases = len(r.Cases)
	return r
}

func TestMigrateIsIdempotent(t *testing.T) {
	s := openTestStore(t)
	assert.NoError(t, s.Migrate(context.Background()))
}

func TestSaveRunAndFlaky(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	runs := []map[string]domain.Status{
		{},
		{"Pos_Fun_0002": domain.StatusFail},
		{"Neg_Fun_0001": domain.StatusError, "Pos_Fun_0002": domain.StatusFail},
	}
	for i, statuses := range runs {
		require.NoError(t, s.SaveRun(ctx, report(fmt.Sprintf("run-%d", i), statuses)))
	}

	flaky, err := s.Flaky(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"Neg_Fun_0001", "Pos_Fun_0002"}, flaky)

	// The last two runs agree on Pos_Fun_0002.
	flaky, err = s.Flaky(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"Neg_Fun_0001"}, flaky)

	flaky, err = s.Flaky(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, flaky)
}

func TestSaveRunDuplicateID(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	require.NoError(t, s.SaveRun(ctx, report("run-1", nil)))
	assert.Error(t, s.SaveRun(ctx, report("run-1", nil)))
}

func TestQuarantine(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	require.NoError(t, s.Quarantine(ctx, "Pos_Fun_0002", "renders late"))
	require.NoError(t, s.Quarantine(ctx, "Neg_Fun_0001", "unstable"))
	require.NoError(t, s.Quarantine(ctx, "Pos_Fun_0002", "probe drift"))

	entries, err := s.Quarantined(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Neg_Fun_0001", entries[0].CaseID)
	assert.Equal(t, "probe drift", entries[1].Reason)
	assert.False(t, entries[1].CreatedAt.IsZero())

	require.NoError(t, s.Release(ctx, "Neg_Fun_0001"))
	require.NoError(t, s.Release(ctx, "unknown"))

	ids, err := s.QuarantinedIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Pos_Fun_0002"}, ids)
}

func TestOpenErrors(t *testing.T) {
	ctx := context.Background()
	_, err := Open(ctx, "postgres", "dsn", nil)
	assert.Error(t, err)

	_, err = Open(ctx, DriverSQLite, "", nil)
	assert.Error(t, err)

	_, err = Open(ctx, DriverMySQL, "root@tcp(127.0.0.1:3306)/", nil)
	assert.Error(t, err)
}

func TestIsValidDatabaseName(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"swiftcheck_history", true},
		{"", false},
		{"history`; DROP", false},
		{"a'b", false},
		{string(make([]byte, 65)), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isValidDatabaseName(tt.name); got != tt.want {
				t.Errorf("isValidDatabaseName(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}
