// ============================================================================
// Runner Registry - Tagged Collection of Independent Worker Pools
// ============================================================================
//
// Package: internal/executor
// File: registry.go
//
// A monotonic tag counter plus a map from tag to owned pool. Once a tag
// is published its pool is live until the registry itself is torn down;
// pools are never silently replaced.
//
// ============================================================================

package executor

import (
	"sync"

	"github.com/ChuLiYu/executorcore/internal/metrics"
)

// RunnerTag opaquely names a WorkerPool within a process. Values are
// unique and issued strictly monotonically starting at 1; 0 is never
// issued and can be used by callers as an explicit "no runner" sentinel.
type RunnerTag uint64

// registry maps RunnerTag to an owned Pool.
type registry struct {
	mu        sync.RWMutex
	nextTag   uint64
	pools     map[RunnerTag]*Pool
	poolSize  int
	collector *metrics.Collector
}

func newRegistry(poolSize int, collector *metrics.Collector) *registry {
	if poolSize < 1 {
		poolSize = DefaultPoolSize()
	}
	return &registry{
		pools:     make(map[RunnerTag]*Pool),
		poolSize:  poolSize,
		collector: collector,
	}
}

// addRunner allocates the next tag, constructs and starts a pool at the
// registry's default size, stores it under the tag, and returns the tag.
func (r *registry) addRunner() RunnerTag {
	pool := NewPool(r.poolSize)

	r.mu.Lock()
	r.nextTag++
	tag := RunnerTag(r.nextTag)
	pool.tag = tag
	pool.collector = r.collector
	pool.Start()
	r.pools[tag] = pool
	r.mu.Unlock()

	return tag
}

// getRunner resolves tag to its pool. The bool return is false if the
// tag was never issued by this registry.
func (r *registry) getRunner(tag RunnerTag) (*Pool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.pools[tag]
	return p, ok
}

// shutdown stops every pool the registry owns.
func (r *registry) shutdown() {
	r.mu.RLock()
	pools := make([]*Pool, 0, len(r.pools))
	for _, p := range r.pools {
		pools = append(pools, p)
	}
	r.mu.RUnlock()

	for _, p := range pools {
		p.Stop()
	}
}
