package executor

// ============================================================================
// Timer Test File
// Purpose: verify deadline ordering, repeated-fire counting, and
// tombstone cancellation semantics.
// ============================================================================

import (
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChuLiYu/executorcore/internal/metrics"
)

// TestTimerStartStop tests the lifecycle flags.
func TestTimerStartStop(t *testing.T) {
	timer := NewTimer(1, nil)

	ok := timer.Start()
	assert.True(t, ok)

	ok = timer.Start()
	assert.False(t, ok, "second Start should report already running")

	timer.Stop()
}

// TestStopBeforeTimerStart tests that stopping a never-started timer is a
// no-op.
func TestStopBeforeTimerStart(t *testing.T) {
	timer := NewTimer(1, nil)
	assert.NotPanics(t, func() {
		timer.Stop()
	})
}

// TestPostDelayedFiresOnce tests a one-shot delayed schedule.
func TestPostDelayedFiresOnce(t *testing.T) {
	timer := NewTimer(2, nil)
	require.True(t, timer.Start())
	defer timer.Stop()

	var fires atomic.Int64
	done := make(chan struct{})
	timer.PostDelayed(func() {
		fires.Add(1)
		close(done)
	}, 10*time.Millisecond)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("delayed work never fired")
	}

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int64(1), fires.Load())
}

// TestPostDelayedOrdersByDeadline tests that two entries posted out of
// deadline order still fire in deadline order.
func TestPostDelayedOrdersByDeadline(t *testing.T) {
	timer := NewTimer(2, nil)
	require.True(t, timer.Start())
	defer timer.Stop()

	var mu sync.Mutex
	var order []string
	var wg sync.WaitGroup
	wg.Add(2)

	timer.PostDelayed(func() {
		mu.Lock()
		order = append(order, "late")
		mu.Unlock()
		wg.Done()
	}, 60*time.Millisecond)

	timer.PostDelayed(func() {
		mu.Lock()
		order = append(order, "early")
		mu.Unlock()
		wg.Done()
	}, 10*time.Millisecond)

	waitTimeout(t, &wg, time.Second)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, order, 2)
	assert.Equal(t, []string{"early", "late"}, order)
}

// TestPostRepeatedFiresCountTimes tests that a repeated schedule fires
// exactly count times.
func TestPostRepeatedFiresCountTimes(t *testing.T) {
	timer := NewTimer(2, nil)
	require.True(t, timer.Start())
	defer timer.Stop()

	var fires atomic.Int64
	var wg sync.WaitGroup
	wg.Add(3)

	timer.PostRepeated(func() {
		fires.Add(1)
		wg.Done()
	}, 10*time.Millisecond, 3)

	waitTimeout(t, &wg, time.Second)

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int64(3), fires.Load())
}

// TestPostRepeatedZeroCountNeverFires tests the count == 0 boundary: an id
// is allocated but nothing is scheduled.
func TestPostRepeatedZeroCountNeverFires(t *testing.T) {
	timer := NewTimer(2, nil)
	require.True(t, timer.Start())
	defer timer.Stop()

	var fires atomic.Int64
	id := timer.PostRepeated(func() {
		fires.Add(1)
	}, 5*time.Millisecond, 0)

	assert.NotEqual(t, RepeatID(0), id)

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int64(0), fires.Load())
}

// TestCancelRepeatedStopsFutureFires tests that cancelling a repeated
// schedule before it exhausts its count suppresses remaining fires; at
// most one fire already handed off before the cancel may still land.
func TestCancelRepeatedStopsFutureFires(t *testing.T) {
	timer := NewTimer(2, nil)
	require.True(t, timer.Start())
	defer timer.Stop()

	var fires atomic.Int64
	id := timer.PostRepeated(func() {
		fires.Add(1)
	}, 15*time.Millisecond, 100)

	time.Sleep(40 * time.Millisecond)
	timer.CancelRepeated(id)

	seenAtCancel := fires.Load()
	time.Sleep(80 * time.Millisecond)
	final := fires.Load()
	assert.GreaterOrEqual(t, final, seenAtCancel)
	assert.LessOrEqual(t, final, seenAtCancel+1, "at most one in-flight fire may occur after cancellation")
}

// TestCancelRepeatedUnknownIDIsNoOp tests that cancelling an id never
// issued, or id 0, does not panic.
func TestCancelRepeatedUnknownIDIsNoOp(t *testing.T) {
	timer := NewTimer(1, nil)
	require.True(t, timer.Start())
	defer timer.Stop()

	assert.NotPanics(t, func() {
		timer.CancelRepeated(0)
		timer.CancelRepeated(RepeatID(999))
	})
}

// TestCancelRepeatedObservesMetric tests that cancelling a live repeated
// schedule records a cancellation, but cancelling an unknown id does not.
func TestCancelRepeatedObservesMetric(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector := metrics.NewCollector(reg)

	timer := NewTimer(1, collector)
	require.True(t, timer.Start())
	defer timer.Stop()

	id := timer.PostRepeated(func() {}, time.Hour, 5)
	timer.CancelRepeated(id)
	timer.CancelRepeated(RepeatID(12345))

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	collector.Handler().ServeHTTP(rec, req)

	assert.Contains(t, rec.Body.String(), "executor_timer_cancellations_total 1")
}

// TestTimerNeverRunsWorkInline tests that dispatched work actually runs on
// the helper pool's goroutine, not the scheduler's, by checking that a
// slow first fire does not delay a later fire's wall-clock deadline.
func TestTimerNeverRunsWorkInline(t *testing.T) {
	timer := NewTimer(2, nil)
	require.True(t, timer.Start())
	defer timer.Stop()

	blocker := make(chan struct{})
	timer.PostDelayed(func() {
		<-blocker
	}, 5*time.Millisecond)

	secondFired := make(chan struct{})
	start := time.Now()
	timer.PostDelayed(func() {
		close(secondFired)
	}, 15*time.Millisecond)

	select {
	case <-secondFired:
	case <-time.After(time.Second):
		t.Fatal("second fire was starved by the first, still-blocked fire")
	}
	assert.Less(t, time.Since(start), 200*time.Millisecond)

	close(blocker)
}

func waitTimeout(t *testing.T, wg *sync.WaitGroup, timeout time.Duration) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeout):
		t.Fatal("timed out waiting for expected fires")
	}
}
