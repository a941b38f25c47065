package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/oomph-ac/knockback/oerror"
	"go.uber.org/atomic"
)

// Task is a unit of deferred work. A task carries all of its state explicitly so it can be
// resubmitted with updated fields instead of capturing it in a closure.
type Task interface {
	Run()
}

// Func adapts a plain function to a Task.
type Func func()

// Run ...
func (f Func) Run() { f() }

// Scheduler accepts tasks to be run on a later tick of the simulation thread.
type Scheduler interface {
	// Submit schedules t to run on the next tick. It returns false if the task was dropped.
	Submit(t Task) bool
}

// TickQueue is a single-threaded Scheduler. Tasks may be submitted from any goroutine, but they
// only ever run on the goroutine calling Tick. Tasks submitted while a tick is running are
// deferred to the following tick.
type TickQueue struct {
	log *slog.Logger

	mu      sync.Mutex
	pending []Task
	closed  bool

	tick atomic.Uint64
	ran  atomic.Uint64
}

// NewTickQueue creates an empty TickQueue.
func NewTickQueue(log *slog.Logger) *TickQueue {
	if log == nil {
		log = slog.Default()
	}
	return &TickQueue{log: log}
}

// Submit ...
func (q *TickQueue) Submit(t Task) bool {
	if t == nil {
		return false
	}
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}
	q.pending = append(q.pending, t)
	return true
}

// Tick runs every task submitted before this call, in submission order, and returns how many
// ran. A panicking task is reported and does not prevent the remaining tasks from running.
func (q *TickQueue) Tick() int {
	q.mu.Lock()
	batch := q.pending
	q.pending = nil
	q.mu.Unlock()

	q.tick.Inc()
	for _, t := range batch {
		q.run(t)
	}
	q.ran.Add(uint64(len(batch)))
	return len(batch)
}

// Pending returns the amount of tasks waiting for the next tick.
func (q *TickQueue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// CurrentTick returns the amount of ticks that have run so far.
func (q *TickQueue) CurrentTick() uint64 {
	return q.tick.Load()
}

// Ran returns the total amount of tasks that have run.
func (q *TickQueue) Ran() uint64 {
	return q.ran.Load()
}

// Run calls Tick every interval until ctx is cancelled or the queue is closed.
func (q *TickQueue) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if q.Closed() {
				return
			}
			q.Tick()
		}
	}
}

// Close stops accepting tasks and drops everything still pending.
func (q *TickQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if dropped := len(q.pending); dropped > 0 {
		q.log.Debug("dropping pending tasks on close", "count", dropped)
	}
	q.closed = true
	q.pending = nil
}

// Closed returns true if the queue was closed.
func (q *TickQueue) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

func (q *TickQueue) run(t Task) {
	defer Recover(q.log)
	t.Run()
}

// Recover recovers a panic, logs it and reports it to sentry. It must be deferred directly. The
// report is flushed in the background so the ticking goroutine is never held up.
func Recover(log *slog.Logger) {
	if err := recover(); err != nil {
		log.Error("task panic", "err", err)
		hub := sentry.CurrentHub().Clone()
		hub.ConfigureScope(func(scope *sentry.Scope) {
			scope.SetTag("component", "knockback")
		})

		hub.Recover(oerror.New("%v", err))
		go hub.Flush(time.Second * 5)
	}
}
