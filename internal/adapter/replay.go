package adapter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"swiftcheck/internal/domain"
)

// Response is one recorded input/output pair
type Response struct {
	Input  string `yaml:"input"`
	Output string `yaml:"output"`
}

// Recording is the on-disk form of captured responses
type Recording struct {
	Target    string     `yaml:"target,omitempty"`
	Responses []Response `yaml:"responses"`
}

// LoadRecording reads a recording file
func LoadRecording(path string) (*Recording, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read recording: %w", err)
	}
	var rec Recording
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parse recording %s: %w", path, err)
	}
	return &rec, nil
}

// Save writes the recording as YAML
func (r *Recording) Save(path string) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal recording: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create recording dir: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Replay answers from recorded responses. It keeps page-like surface state so
// clear cases behave as they do against the live page.
type Replay struct {
	mu        sync.Mutex
	responses map[string]string
	surfaces  domain.Surfaces
}

// NewReplay creates a replay adapter over recorded responses; later duplicates win
func NewReplay(responses []Response) *Replay {
	m := make(map[string]string, len(responses))
	for _, r := range responses {
		m[r.Input] = r.Output
	}
	return &Replay{responses: m}
}

// Submit returns the recorded output for input
func (r *Replay) Submit(ctx context.Context, input string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", newError(KindTimedOut, "submit", "", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.surfaces.Input = input
	out, ok := r.responses[input]
	if !ok {
		r.surfaces.Output = ""
		return "", newError(KindTimedOut, "submit", "", ErrNotRecorded)
	}
	r.surfaces.Output = out
	return out, nil
}

// Reset empties both surfaces
func (r *Replay) Reset(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return newError(KindTimedOut, "reset", "", err)
	}
	r.mu.Lock()
	r.surfaces = domain.Surfaces{}
	r.mu.Unlock()
	return nil
}

// Clear behaves like the page's clear control: both surfaces empty
func (r *Replay) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return newError(KindTimedOut, "clear", "", err)
	}
	r.mu.Lock()
	r.surfaces = domain.Surfaces{}
	r.mu.Unlock()
	return nil
}

// Read returns the current surfaces
func (r *Replay) Read(ctx context.Context) (domain.Surfaces, error) {
	if err := ctx.Err(); err != nil {
		return domain.Surfaces{}, newError(KindTimedOut, "read", "", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.surfaces, nil
}

// Close is a no-op
func (r *Replay) Close() error { return nil }

// ReplayFactory hands out independent replay sessions over one recording
type ReplayFactory struct {
	responses []Response
}

// NewReplayFactory creates a factory from a recording
func NewReplayFactory(rec *Recording) *ReplayFactory {
	return &ReplayFactory{responses: rec.Responses}
}

// NewSession returns a fresh replay adapter
func (f *ReplayFactory) NewSession(ctx context.Context) (Adapter, error) {
	return NewReplay(f.responses), nil
}

// Close is a no-op
func (f *ReplayFactory) Close() error { return nil }

// Recorder wraps an adapter and captures every successful submit
type Recorder struct {
	Adapter
	mu        sync.Mutex
	responses []Response
}

// NewRecorder wraps a
func NewRecorder(a Adapter) *Recorder {
	return &Recorder{Adapter: a}
}

// Submit forwards to the wrapped adapter and records the pair
func (r *Recorder) Submit(ctx context.Context, input string) (string, error) {
	out, err := r.Adapter.Submit(ctx, input)
	if err == nil {
		r.mu.Lock()
		r.responses = append(r.responses, Response{Input: input, Output: out})
		r.mu.Unlock()
	}
	return out, err
}

// Responses returns the captured pairs
func (r *Recorder) Responses() []Response {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Response(nil), r.responses...)
}

// RecordingFactory wraps every session of an inner factory in a Recorder
type RecordingFactory struct {
	inner  Factory
	target string

	mu        sync.Mutex
	recorders []*Recorder
}

// NewRecordingFactory wraps inner
func NewRecordingFactory(inner Factory, target string) *RecordingFactory {
	return &RecordingFactory{inner: inner, target: target}
}

// NewSession opens an inner session and records it
func (f *RecordingFactory) NewSession(ctx context.Context) (Adapter, error) {
	a, err := f.inner.NewSession(ctx)
	if err != nil {
		return nil, err
	}
	rec := NewRecorder(a)
	f.mu.Lock()
	f.recorders = append(f.recorders, rec)
	f.mu.Unlock()
	return rec, nil
}

// Recording merges what every session captured
func (f *RecordingFactory) Recording() *Recording {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec := &Recording{Target: f.target}
	for _, r := range f.recorders {
		rec.Responses = append(rec.Responses, r.Responses()...)
	}
	return rec
}

// Close closes the inner factory
func (f *RecordingFactory) Close() error { return f.inner.Close() }

var (
	_ Adapter = (*Replay)(nil)
	_ Adapter = (*Recorder)(nil)
	_ Factory = (*ReplayFactory)(nil)
	_ Factory = (*RecordingFactory)(nil)
	_ Factory = (*Browser)(nil)
	_ Adapter = (*Session)(nil)
)
