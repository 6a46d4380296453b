// ============================================================================
// Executor Façade
// ============================================================================
//
// Package: internal/executor
// File: executor.go
//
// Composes the RunnerRegistry and Timer behind a single public surface:
// create runner, post, post-delayed, post-repeated, cancel. post-delayed
// and post-repeated wrap the caller's work so the timer only ever
// decides WHEN; the target pool decides HOW-MANY-AT-A-TIME. This
// indirection is what keeps a slow callback from starving timer
// scheduling.
//
// ============================================================================

package executor

import (
	"fmt"
	"sync"
	"time"

	"github.com/ChuLiYu/executorcore/internal/metrics"
)

// Executor is the public entry point for submitting and scheduling work.
type Executor struct {
	registry *registry
	timer    *Timer

	timerOnce sync.Once
	collector *metrics.Collector
}

// newExecutor constructs an Executor from cfg. The Timer is constructed
// but not started: it is lazily started on first use of PostDelayed or
// PostRepeated.
func newExecutor(cfg Config, collector *metrics.Collector) *Executor {
	return &Executor{
		registry:  newRegistry(cfg.poolSize(), collector),
		timer:     NewTimer(cfg.timerPoolSize(), collector),
		collector: collector,
	}
}

// CreateRunner allocates a new tagged WorkerPool and returns its tag.
func (e *Executor) CreateRunner() RunnerTag {
	return e.registry.addRunner()
}

// Post submits work to the pool named by tag for immediate execution.
// It returns ErrUnknownRunnerTag if tag was never issued, or whatever
// error the pool's Submit returns (ErrNotRunning if it has been stopped).
func (e *Executor) Post(tag RunnerTag, work WorkItem) error {
	pool, ok := e.registry.getRunner(tag)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownRunnerTag, tag)
	}
	return pool.Submit(work)
}

// SubmitWithResult submits fn to the pool named by tag and returns a
// Future that becomes ready with fn's return value, or with ErrWorkFault
// wrapping a recovered panic. Go has no generic methods, so this is a
// package-level function rather than a method on Executor.
func SubmitWithResult[T any](e *Executor, tag RunnerTag, fn func() (T, error)) (*Future[T], error) {
	pool, ok := e.registry.getRunner(tag)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownRunnerTag, tag)
	}
	return submitWithResult(pool, fn)
}

// PostDelayed schedules work to run once, after delay, on the pool named
// by tag. The tag is resolved eagerly: an unknown tag fails at
// submission time rather than silently failing when the timer fires.
func (e *Executor) PostDelayed(tag RunnerTag, work WorkItem, delay time.Duration) error {
	if _, ok := e.registry.getRunner(tag); !ok {
		return fmt.Errorf("%w: %d", ErrUnknownRunnerTag, tag)
	}
	e.ensureTimerStarted()
	e.timer.PostDelayed(e.repost(tag, work), delay)
	return nil
}

// PostRepeated schedules work to run every interval, count times total,
// on the pool named by tag. It returns the RepeatID a later
// CancelRepeated call uses. The tag is resolved eagerly, as in
// PostDelayed.
func (e *Executor) PostRepeated(tag RunnerTag, work WorkItem, interval time.Duration, count uint64) (RepeatID, error) {
	if _, ok := e.registry.getRunner(tag); !ok {
		return 0, fmt.Errorf("%w: %d", ErrUnknownRunnerTag, tag)
	}
	e.ensureTimerStarted()
	return e.timer.PostRepeated(e.repost(tag, work), interval, count), nil
}

// CancelRepeated cancels a repeated schedule. Cancelling an unknown or
// already-terminated id is a silent no-op.
func (e *Executor) CancelRepeated(id RepeatID) {
	e.timer.CancelRepeated(id)
}

// Shutdown stops the Timer and every pool the registry owns. It is
// called once, transitively, by Context teardown.
func (e *Executor) Shutdown() {
	e.timer.Stop()
	e.registry.shutdown()
}

// repost builds the wrapper work item the timer actually schedules: on
// fire, it re-posts the caller's work to tag's pool. The timer thread
// never executes user work directly — it only ever calls this wrapper,
// which in turn only ever enqueues.
func (e *Executor) repost(tag RunnerTag, work WorkItem) WorkItem {
	return func() {
		_ = e.Post(tag, work)
	}
}

func (e *Executor) ensureTimerStarted() {
	e.timerOnce.Do(func() {
		e.timer.Start()
	})
}
