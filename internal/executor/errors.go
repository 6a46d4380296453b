// Package executor implements the task-execution core: worker pools, a
// deadline-ordered timer, and the runner registry that ties the two
// together behind a single façade.
package executor

import "errors"

var (
	// ErrUnknownRunnerTag is returned when a call names a RunnerTag the
	// registry never issued.
	ErrUnknownRunnerTag = errors.New("executor: unknown runner tag")

	// ErrNotRunning is returned by Submit when the target pool has not
	// been started yet, or has already been stopped. The two states are
	// observably identical to a caller: no future dequeue will happen.
	ErrNotRunning = errors.New("executor: worker pool not running")

	// ErrWorkFault wraps a panic recovered from a user-supplied callable
	// submitted through SubmitWithResult. It never escapes a worker
	// goroutine; it is only ever visible through a Future.
	ErrWorkFault = errors.New("executor: work item faulted")
)
