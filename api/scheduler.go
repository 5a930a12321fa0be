/*
scheduler.go - History retention scheduler

PURPOSE:
  Periodically deletes saved calculations older than the retention
  window, so that the history store does not grow without bound.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Runs once immediately on Start
  - Records each pass as a retention run when the store keeps a run log
  - Purges expired entries of a process-local result cache

CONFIGURATION:
  - MaxAge:        How long calculations are kept (0 disables pruning)
  - CheckInterval: How often to prune (default: 1 hour)
  - Enabled:       Whether scheduler is active (default: true)

USAGE:
  scheduler := NewRetentionScheduler(store, 90*24*time.Hour)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - handlers.go: ListRetentionRuns endpoint (runs and next_run)
  - history/history.go: Store.DeleteBefore
*/
package api

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/warp/finance-engine/history"
	"github.com/warp/finance-engine/store/sqlite"
)

// purger is implemented by caches that drop expired entries on demand.
type purger interface {
	Purge() int
}

// RetentionScheduler prunes old calculations on a ticker.
type RetentionScheduler struct {
	Store         history.Store
	Runs          RunLog
	Cache         purger
	MaxAge        time.Duration
	CheckInterval time.Duration
	Enabled       bool

	now    func() time.Time
	ticker *time.Ticker
	stop   chan bool
	next   atomic.Int64
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewRetentionScheduler creates a scheduler pruning store entries older
// than maxAge. If store keeps a run log, runs are recorded there.
func NewRetentionScheduler(store history.Store, maxAge time.Duration) *RetentionScheduler {
	rs := &RetentionScheduler{
		Store:         store,
		MaxAge:        maxAge,
		CheckInterval: 1 * time.Hour,
		Enabled:       maxAge > 0,
		now:           time.Now,
		stop:          make(chan bool),
	}
	if runs, ok := store.(RunLog); ok {
		rs.Runs = runs
	}
	return rs
}

// Start begins the scheduler.
func (rs *RetentionScheduler) Start() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if !rs.Enabled {
		log.Println("[Retention] Disabled, not starting")
		return
	}
	if rs.ticker != nil {
		return
	}

	rs.ticker = time.NewTicker(rs.CheckInterval)
	rs.stop = make(chan bool)
	rs.scheduleNext()
	rs.wg.Add(1)

	go rs.run()

	log.Printf("[Retention] Started: keeping %v, check interval %v", rs.MaxAge, rs.CheckInterval)
}

// Stop stops the scheduler and waits for an in-flight pass.
func (rs *RetentionScheduler) Stop() {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if rs.ticker != nil {
		rs.ticker.Stop()
		close(rs.stop)
		rs.wg.Wait()
		rs.ticker = nil
		rs.next.Store(0)
		log.Println("[Retention] Stopped")
	}
}

func (rs *RetentionScheduler) run() {
	defer rs.wg.Done()

	// Run immediately on start
	rs.prune(context.Background())

	for {
		select {
		case <-rs.ticker.C:
			rs.scheduleNext()
			rs.prune(context.Background())
		case <-rs.stop:
			return
		}
	}
}

// RunNow triggers an immediate pass and returns the number of removed
// calculations.
func (rs *RetentionScheduler) RunNow(ctx context.Context) (int, error) {
	return rs.prune(ctx)
}

func (rs *RetentionScheduler) prune(ctx context.Context) (int, error) {
	started := rs.now().UTC()
	cutoff := started.Add(-rs.MaxAge)

	run := sqlite.RetentionRun{
		ID:        history.NewID(started),
		Cutoff:    cutoff,
		StartedAt: started,
	}
	rs.record(ctx, run)

	removed, err := rs.Store.DeleteBefore(ctx, cutoff)
	completed := rs.now().UTC()
	run.CompletedAt = &completed
	if err != nil {
		run.Error = err.Error()
		rs.record(ctx, run)
		log.Printf("[Retention] Error pruning calculations: %v", err)
		return 0, fmt.Errorf("retention pass failed: %w", err)
	}
	run.Removed = removed
	rs.record(ctx, run)

	if rs.Cache != nil {
		if n := rs.Cache.Purge(); n > 0 {
			log.Printf("[Retention] Purged %d expired cache entries", n)
		}
	}
	if removed > 0 {
		log.Printf("[Retention] Removed %d calculations created before %s", removed, cutoff.Format(time.RFC3339))
	}
	return removed, nil
}

func (rs *RetentionScheduler) record(ctx context.Context, run sqlite.RetentionRun) {
	if rs.Runs == nil {
		return
	}
	if err := rs.Runs.SaveRetentionRun(ctx, run); err != nil {
		log.Printf("[Retention] Failed to record run %s: %v", run.ID, err)
	}
}

func (rs *RetentionScheduler) scheduleNext() {
	rs.next.Store(rs.now().Add(rs.CheckInterval).UnixNano())
}

// NextRunTime returns when the next scheduled pass will occur, or the zero
// time when the scheduler is not running.
func (rs *RetentionScheduler) NextRunTime() time.Time {
	n := rs.next.Load()
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n).UTC()
}
