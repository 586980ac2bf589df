package api

import (
	"context"
	"runtime"
	"sync/atomic"
	"time"
)

// WorkerPool bounds concurrent request processing. Fast slots serve cheap
// requests (health, legal moves); slow slots serve anything that builds a
// move tree (search, best, streamed search).
type WorkerPool struct {
	fastSem    chan struct{}
	slowSem    chan struct{}
	queuedFast int64
	queuedSlow int64
	activeFast int64
	activeSlow int64
	totalFast  int64
	totalSlow  int64
}

// PoolConfig configures the worker pool.
type PoolConfig struct {
	MaxFastWorkers int // Max concurrent move listings (default: 100)
	MaxSlowWorkers int // Max concurrent searches (default: number of CPUs)
}

// DefaultPoolConfig returns a PoolConfig with sensible defaults.
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		MaxFastWorkers: 100,
		MaxSlowWorkers: runtime.NumCPU(),
	}
}

// NewWorkerPool creates a new worker pool with the given configuration.
// Non-positive limits fall back to the defaults.
func NewWorkerPool(config PoolConfig) *WorkerPool {
	defaults := DefaultPoolConfig()
	if config.MaxFastWorkers <= 0 {
		config.MaxFastWorkers = defaults.MaxFastWorkers
	}
	if config.MaxSlowWorkers <= 0 {
		config.MaxSlowWorkers = defaults.MaxSlowWorkers
	}

	return &WorkerPool{
		fastSem: make(chan struct{}, config.MaxFastWorkers),
		slowSem: make(chan struct{}, config.MaxSlowWorkers),
	}
}

func acquire(ctx context.Context, sem chan struct{}, queued, active *int64) error {
	atomic.AddInt64(queued, 1)
	defer atomic.AddInt64(queued, -1)

	select {
	case sem <- struct{}{}:
		atomic.AddInt64(active, 1)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func tryAcquire(sem chan struct{}, active *int64) bool {
	select {
	case sem <- struct{}{}:
		atomic.AddInt64(active, 1)
		return true
	default:
		return false
	}
}

func release(sem chan struct{}, active, total *int64) {
	atomic.AddInt64(active, -1)
	atomic.AddInt64(total, 1)
	<-sem
}

// AcquireFast waits for a fast slot or until ctx is done.
func (p *WorkerPool) AcquireFast(ctx context.Context) error {
	return acquire(ctx, p.fastSem, &p.queuedFast, &p.activeFast)
}

// ReleaseFast releases a fast slot.
func (p *WorkerPool) ReleaseFast() {
	release(p.fastSem, &p.activeFast, &p.totalFast)
}

// AcquireSlow waits for a search slot or until ctx is done.
func (p *WorkerPool) AcquireSlow(ctx context.Context) error {
	return acquire(ctx, p.slowSem, &p.queuedSlow, &p.activeSlow)
}

// ReleaseSlow releases a search slot.
func (p *WorkerPool) ReleaseSlow() {
	release(p.slowSem, &p.activeSlow, &p.totalSlow)
}

// TryAcquireFast takes a fast slot only if one is free.
func (p *WorkerPool) TryAcquireFast() bool {
	return tryAcquire(p.fastSem, &p.activeFast)
}

// TryAcquireSlow takes a search slot only if one is free.
func (p *WorkerPool) TryAcquireSlow() bool {
	return tryAcquire(p.slowSem, &p.activeSlow)
}

// AcquireSlowWithTimeout waits at most timeout for a search slot.
func (p *WorkerPool) AcquireSlowWithTimeout(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return p.AcquireSlow(ctx)
}

// PoolStats is a snapshot of pool usage.
type PoolStats struct {
	ActiveFast int64 `json:"active_fast"`
	ActiveSlow int64 `json:"active_slow"`
	QueuedFast int64 `json:"queued_fast"`
	QueuedSlow int64 `json:"queued_slow"`
	TotalFast  int64 `json:"total_fast"`
	TotalSlow  int64 `json:"total_slow"`
	MaxFast    int   `json:"max_fast"`
	MaxSlow    int   `json:"max_slow"`
}

// Stats returns current pool statistics.
func (p *WorkerPool) Stats() PoolStats {
	return PoolStats{
		ActiveFast: atomic.LoadInt64(&p.activeFast),
		ActiveSlow: atomic.LoadInt64(&p.activeSlow),
		QueuedFast: atomic.LoadInt64(&p.queuedFast),
		QueuedSlow: atomic.LoadInt64(&p.queuedSlow),
		TotalFast:  atomic.LoadInt64(&p.totalFast),
		TotalSlow:  atomic.LoadInt64(&p.totalSlow),
		MaxFast:    cap(p.fastSem),
		MaxSlow:    cap(p.slowSem),
	}
}
