package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// --- Mock implementations ---

type countingPoller struct {
	name  string
	calls atomic.Int32
	err   error
}

func (p *countingPoller) Name() string { return p.name }

func (p *countingPoller) Poll(_ context.Context) error {
	p.calls.Add(1)
	return p.err
}

// orderRecordingPoller appends its name to recorder.order on each Poll call.
type orderRecordingPoller struct {
	name     string
	recorder *orderRecorder
}

type orderRecorder struct {
	mu    sync.Mutex
	order []string
}

func (p *orderRecordingPoller) Name() string { return p.name }

func (p *orderRecordingPoller) Poll(_ context.Context) error {
	p.recorder.mu.Lock()
	p.recorder.order = append(p.recorder.order, p.name)
	p.recorder.mu.Unlock()
	return nil
}

type cleanupStore struct {
	cleanups  atomic.Int32
	retention time.Duration
}

func (s *cleanupStore) HasSeen(_ string) (bool, error)  { return false, nil }
func (s *cleanupStore) MarkSeen(_ string) error         { return nil }
func (s *cleanupStore) IsSeeded(_ string) (bool, error) { return false, nil }
func (s *cleanupStore) MarkSeeded(_ string) error       { return nil }

func (s *cleanupStore) Cleanup(d time.Duration) error {
	s.cleanups.Add(1)
	s.retention = d
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func runFor(t *testing.T, s *Scheduler, d time.Duration) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.Run(ctx)
	}()
	time.Sleep(d)
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected nil error on cancel, got: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not return within 2s after cancel")
	}
}

// --- Tests ---

func TestRun_CancelReturnsPromptly(t *testing.T) {
	p := &countingPoller{name: "go"}
	s := NewScheduler([]Poller{p}, time.Hour, time.Minute, nil, discardLogger())
	runFor(t, s, 100*time.Millisecond)
}

func TestRun_PollsEveryInterval(t *testing.T) {
	p := &countingPoller{name: "go"}
	s := NewScheduler([]Poller{p}, 100*time.Millisecond, 0, nil, discardLogger())

	// Allow time for at least two full passes (poll → interval → poll).
	runFor(t, s, 250*time.Millisecond)

	if got := p.calls.Load(); got < 2 {
		t.Errorf("poll calls = %d, want >= 2", got)
	}
}

func TestRunOnce_ErrorDoesNotStopOthers(t *testing.T) {
	failing := &countingPoller{name: "failing", err: errors.New("search failed")}
	healthy := &countingPoller{name: "healthy"}

	s := NewScheduler([]Poller{failing, healthy}, time.Hour, 0, nil, discardLogger())
	s.RunOnce(context.Background())

	if failing.calls.Load() != 1 || healthy.calls.Load() != 1 {
		t.Errorf("calls: failing=%d healthy=%d, want 1 each", failing.calls.Load(), healthy.calls.Load())
	}
}

func TestRunOnce_PauseBetweenSearches(t *testing.T) {
	a := &countingPoller{name: "a"}
	b := &countingPoller{name: "b"}
	s := NewScheduler([]Poller{a, b}, time.Hour, 50*time.Millisecond, nil, discardLogger())

	start := time.Now()
	s.RunOnce(context.Background())
	if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
		t.Errorf("elapsed %v: expected >= 50ms pause between searches", elapsed)
	}
}

func TestRunOnce_OrderPreserved(t *testing.T) {
	rec := &orderRecorder{}
	s := NewScheduler([]Poller{
		&orderRecordingPoller{name: "s1", recorder: rec},
		&orderRecordingPoller{name: "s2", recorder: rec},
		&orderRecordingPoller{name: "s3", recorder: rec},
	}, time.Hour, 0, nil, discardLogger())

	s.RunOnce(context.Background())

	want := []string{"s1", "s2", "s3"}
	if len(rec.order) != len(want) {
		t.Fatalf("poll order = %v, want %v", rec.order, want)
	}
	for i := range want {
		if rec.order[i] != want[i] {
			t.Errorf("poll order = %v, want %v", rec.order, want)
			break
		}
	}
}

func TestRunOnce_CancelledSkipsPollers(t *testing.T) {
	p := &countingPoller{name: "go"}
	s := NewScheduler([]Poller{p}, time.Hour, 0, nil, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s.RunOnce(ctx)

	if p.calls.Load() != 0 {
		t.Errorf("poll calls = %d, want 0 after cancel", p.calls.Load())
	}
}

func TestRunOnce_CleansUpStore(t *testing.T) {
	store := &cleanupStore{}
	s := NewScheduler([]Poller{&countingPoller{name: "go"}}, time.Hour, 0, store, discardLogger())

	s.RunOnce(context.Background())

	if store.cleanups.Load() != 1 {
		t.Errorf("cleanups = %d, want 1", store.cleanups.Load())
	}
	if store.retention != SeenRetention {
		t.Errorf("retention = %v, want %v", store.retention, SeenRetention)
	}
}
