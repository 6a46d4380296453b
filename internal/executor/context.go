// ============================================================================
// Context - Process-Wide Singleton
// ============================================================================
//
// Package: internal/executor
// File: context.go
//
// One Executor is owned for the life of the process, constructed lazily
// on first access. There is no explicit re-initialisation operation —
// Configure, if used at all, must be called before the first call to
// Instance.
//
// ============================================================================

package executor

import (
	"sync"

	"github.com/ChuLiYu/executorcore/internal/metrics"
)

// Context owns the single process-wide Executor.
type Context struct {
	executor  *Executor
	collector *metrics.Collector
}

var (
	instanceOnce sync.Once
	instance     *Context

	pendingMu  sync.Mutex
	pendingCfg = DefaultConfig()
)

// Configure sets the Config used to build the singleton Executor. It has
// an effect only if called before the first call to Instance; Instance
// constructs the singleton exactly once and Configure cannot reach back
// in to change it afterward.
func Configure(cfg Config) {
	pendingMu.Lock()
	pendingCfg = cfg
	pendingMu.Unlock()
}

// Instance returns the process-wide Context, constructing it (with
// whatever Config was last passed to Configure, or DefaultConfig) on the
// first call.
func Instance() *Context {
	instanceOnce.Do(func() {
		pendingMu.Lock()
		cfg := pendingCfg
		pendingMu.Unlock()
		instance = newContext(cfg)
	})
	return instance
}

func newContext(cfg Config) *Context {
	var collector *metrics.Collector
	if cfg.Metrics.Enabled {
		collector = metrics.NewCollector(nil)
	}
	return &Context{
		executor:  newExecutor(cfg, collector),
		collector: collector,
	}
}

// Executor returns the Context's owned Executor.
func (c *Context) Executor() *Executor {
	return c.executor
}

// CreateRunner delegates to the owned Executor.
func (c *Context) CreateRunner() RunnerTag {
	return c.executor.CreateRunner()
}

// Collector returns the Context's metrics collector, or nil if metrics
// were not enabled in its Config.
func (c *Context) Collector() *metrics.Collector {
	return c.collector
}

// Shutdown tears down the owned Executor: its Timer and every
// WorkerPool it manages. It is safe to call at process teardown.
func (c *Context) Shutdown() {
	c.executor.Shutdown()
}
