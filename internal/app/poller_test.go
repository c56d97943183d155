package app

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/five82/timekeep/internal/action"
)

func TestCalculateBackoff(t *testing.T) {
	baseInterval := 2 * time.Second

	tests := []struct {
		name     string
		failures int
		want     time.Duration
	}{
		{"zero failures", 0, 2 * time.Second},
		{"negative failures", -1, 2 * time.Second},
		{"one failure", 1, 4 * time.Second},
		{"two failures", 2, 8 * time.Second},
		{"three failures", 3, 16 * time.Second},
		{"four failures capped", 4, 30 * time.Second}, // Would be 32s, capped to 30s
		{"many failures capped", 10, 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calculateBackoff(tt.failures, baseInterval)
			if got != tt.want {
				t.Errorf("calculateBackoff(%d, %v) = %v, want %v", tt.failures, baseInterval, got, tt.want)
			}
		})
	}
}

func TestCalculateBackoff_MaxCap(t *testing.T) {
	baseInterval := 2 * time.Second
	for failures := 0; failures <= 100; failures++ {
		got := calculateBackoff(failures, baseInterval)
		if got > maxBackoff {
			t.Errorf("calculateBackoff(%d, %v) = %v, exceeds maxBackoff %v", failures, baseInterval, got, maxBackoff)
		}
	}
}

type scriptedLoader struct {
	calls atomic.Int32
	err   func(call int32) error
}

func (l *scriptedLoader) LoadEntries() <-chan error {
	n := l.calls.Add(1)
	done := make(chan error, 1)
	if l.err != nil {
		done <- l.err(n)
	} else {
		done <- nil
	}
	return done
}

func waitForCalls(t *testing.T, l *scriptedLoader, want int32) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for l.calls.Load() < want {
		if time.Now().After(deadline) {
			t.Fatalf("loader called %d times, want at least %d", l.calls.Load(), want)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestStartPoller_ReloadsUntilCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	loader := &scriptedLoader{}

	StartPoller(ctx, loader, 5*time.Millisecond)
	waitForCalls(t, loader, 3)
	cancel()

	time.Sleep(20 * time.Millisecond)
	settled := loader.calls.Load()
	time.Sleep(30 * time.Millisecond)
	if got := loader.calls.Load(); got != settled {
		t.Fatalf("poller kept loading after cancel: %d -> %d", settled, got)
	}
}

func TestStartPoller_SupersededIsNotAFailure(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	loader := &scriptedLoader{err: func(int32) error { return action.ErrSuperseded }}
	StartPoller(ctx, loader, 5*time.Millisecond)

	// With backoff, six calls at a 5ms base would take well over 300ms.
	start := time.Now()
	waitForCalls(t, loader, 6)
	if elapsed := time.Since(start); elapsed > 250*time.Millisecond {
		t.Fatalf("superseded loads appear to back off (took %v)", elapsed)
	}
}

func TestStartPoller_DisabledInterval(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	loader := &scriptedLoader{err: func(int32) error { return errors.New("boom") }}
	StartPoller(ctx, loader, 0)
	time.Sleep(20 * time.Millisecond)
	if got := loader.calls.Load(); got != 0 {
		t.Fatalf("disabled poller called loader %d times", got)
	}
}

func TestPollOnce_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	blocked := loaderFunc(func() <-chan error { return make(chan error) })
	if err := pollOnce(ctx, blocked); !errors.Is(err, context.Canceled) {
		t.Fatalf("pollOnce() = %v, want context.Canceled", err)
	}
}

type loaderFunc func() <-chan error

func (f loaderFunc) LoadEntries() <-chan error { return f() }
