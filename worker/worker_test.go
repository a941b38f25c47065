package worker

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/getsentry/sentry-go"
)

var testLog = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestTickOrder(t *testing.T) {
	q := NewTickQueue(testLog)

	var order []int
	for i := 0; i < 3; i++ {
		q.Submit(Func(func() { order = append(order, i) }))
	}
	if n := q.Tick(); n != 3 {
		t.Fatalf("expected 3 tasks to run, got %d", n)
	}
	for i, v := range order {
		if v != i {
			t.Fatalf("expected submission order, got %v", order)
		}
	}
}

func TestSubmitDuringTick(t *testing.T) {
	q := NewTickQueue(testLog)

	runs := 0
	var chain Func
	chain = func() {
		runs++
		if runs < 3 {
			q.Submit(chain)
		}
	}
	q.Submit(chain)

	for tick := 1; tick <= 3; tick++ {
		if n := q.Tick(); n != 1 {
			t.Fatalf("tick %d: expected exactly one task, got %d", tick, n)
		}
		if runs != tick {
			t.Fatalf("tick %d: task resubmitted during a tick ran on the same tick (runs=%d)", tick, runs)
		}
	}
	if q.Tick() != 0 || q.Pending() != 0 {
		t.Fatalf("expected the chain to be finished")
	}
	if q.CurrentTick() != 4 || q.Ran() != 3 {
		t.Fatalf("unexpected counters: tick=%d ran=%d", q.CurrentTick(), q.Ran())
	}
}

func TestPanicRecovery(t *testing.T) {
	q := NewTickQueue(testLog)

	ran := false
	q.Submit(Func(func() { panic("boom") }))
	q.Submit(Func(func() { ran = true }))
	if n := q.Tick(); n != 2 {
		t.Fatalf("expected 2 tasks, got %d", n)
	}
	if !ran {
		t.Fatalf("task after a panicking task did not run")
	}
}

// stallingTransport holds every flush until released.
type stallingTransport struct {
	flushing chan struct{}
	release  chan struct{}
}

func (s *stallingTransport) Configure(sentry.ClientOptions) {}
func (s *stallingTransport) SendEvent(*sentry.Event)        {}

func (s *stallingTransport) Flush(timeout time.Duration) bool {
	select {
	case s.flushing <- struct{}{}:
	default:
	}
	select {
	case <-s.release:
	case <-time.After(timeout):
	}
	return true
}

func TestPanicReportDoesNotStallTick(t *testing.T) {
	tr := &stallingTransport{flushing: make(chan struct{}, 1), release: make(chan struct{})}
	client, err := sentry.NewClient(sentry.ClientOptions{Transport: tr})
	if err != nil {
		t.Fatalf("unable to create sentry client: %v", err)
	}
	hub := sentry.CurrentHub()
	prev := hub.Client()
	hub.BindClient(client)
	defer hub.BindClient(prev)
	defer close(tr.release)

	q := NewTickQueue(testLog)
	q.Submit(Func(func() { panic("boom") }))

	start := time.Now()
	q.Tick()
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("tick with a panicking task took %v", elapsed)
	}

	select {
	case <-tr.flushing:
	case <-time.After(5 * time.Second):
		t.Fatalf("panic report was never flushed")
	}
}

func TestClose(t *testing.T) {
	q := NewTickQueue(testLog)
	q.Submit(Func(func() { t.Fatalf("dropped task ran") }))
	q.Close()

	if q.Submit(Func(func() {})) {
		t.Fatalf("closed queue accepted a task")
	}
	if q.Submit(nil) {
		t.Fatalf("queue accepted a nil task")
	}
	if q.Tick() != 0 {
		t.Fatalf("closed queue ran tasks")
	}
}

func TestRun(t *testing.T) {
	q := NewTickQueue(testLog)
	done := make(chan struct{})
	q.Submit(Func(func() { close(done) }))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go q.Run(ctx, time.Millisecond)

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("task did not run within 5 seconds")
	}
}
