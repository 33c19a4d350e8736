package adapter

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swiftcheck/internal/domain"
)

func TestReplaySubmit(t *testing.T) {
	ctx := context.Background()
	r := NewReplay([]Response{
		{Input: "mama gedhara yanavaa", Output: "මම ගෙදර යනවා"},
	})

	out, err := r.Submit(ctx, "mama gedhara yanavaa")
	require.NoError(t, err)
	assert.Equal(t, "මම ගෙදර යනවා", out)

	s, err := r.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.Surfaces{Input: "mama gedhara yanavaa", Output: "මම ගෙදර යනවා"}, s)
}

func TestReplayUnknownInput(t *testing.T) {
	r := NewReplay(nil)
	_, err := r.Submit(context.Background(), "unknown")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotRecorded))
	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, KindTimedOut, kind)
}

func TestReplayResetClearsSurfaces(t *testing.T) {
	ctx := context.Background()
	r := NewReplay([]Response{{Input: "mama gedhara yanavaa", Output: "මම ගෙදර යනවා"}})

	_, err := r.Submit(ctx, "mama gedhara yanavaa")
	require.NoError(t, err)

	// Resetting twice must behave like resetting once.
	require.NoError(t, r.Reset(ctx))
	require.NoError(t, r.Reset(ctx))

	s, err := r.Read(ctx)
	require.NoError(t, err)
	assert.Empty(t, s.Input)
	assert.Empty(t, s.Output)
}

func TestReplayClearEmptiesSurfaces(t *testing.T) {
	ctx := context.Background()
	r := NewReplay([]Response{{Input: "api", Output: "අපි"}})

	_, err := r.Submit(ctx, "api")
	require.NoError(t, err)
	require.NoError(t, r.Clear(ctx))

	s, err := r.Read(ctx)
	require.NoError(t, err)
	assert.Empty(t, s.Input)
	assert.Empty(t, s.Output)
}

func TestReplayHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := NewReplay(nil)
	_, err := r.Submit(ctx, "x")
	assert.True(t, IsTransient(err))
	assert.True(t, IsTransient(r.Reset(ctx)))
	assert.True(t, IsTransient(r.Clear(ctx)))
}

func TestReplayFactorySessionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	f := NewReplayFactory(&Recording{Responses: []Response{{Input: "a", Output: "අ"}}})

	s1, err := f.NewSession(ctx)
	require.NoError(t, err)
	s2, err := f.NewSession(ctx)
	require.NoError(t, err)

	_, err = s1.Submit(ctx, "a")
	require.NoError(t, err)

	got, err := s2.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.Surfaces{}, got)
}

func TestRecorderRoundTrip(t *testing.T) {
	ctx := context.Background()
	inner := NewReplayFactory(&Recording{Responses: []Response{
		{Input: "a", Output: "අ"},
		{Input: "ma", Output: "ම"},
	}})
	f := NewRecordingFactory(inner, "https://example.test")

	s, err := f.NewSession(ctx)
	require.NoError(t, err)
	_, err = s.Submit(ctx, "a")
	require.NoError(t, err)
	_, err = s.Submit(ctx, "missing")
	require.Error(t, err)
	_, err = s.Submit(ctx, "ma")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "rec", "session.yaml")
	require.NoError(t, f.Recording().Save(path))

	loaded, err := LoadRecording(path)
	require.NoError(t, err)
	assert.Equal(t, "https://example.test", loaded.Target)
	assert.Equal(t, []Response{{Input: "a", Output: "අ"}, {Input: "ma", Output: "ම"}}, loaded.Responses)
}

func TestLoadRecordingMissing(t *testing.T) {
	_, err := LoadRecording(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
