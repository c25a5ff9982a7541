package refresh

import (
	"context"
	"sync"
	"time"

	"github.com/yourorg/lead-scout/internal/models"
)

// Job asks for the cached search under Key to be recomputed.
type Job struct {
	Key     string
	Filters models.SearchFilters
	Merge   bool
}

// Refresher runs jobs on a fixed worker pool. At most one job per key is
// queued or running at a time; jobs beyond capacity are dropped.
type Refresher struct {
	ch      chan Job
	inFly   sync.Map // key -> struct{}
	do      func(ctx context.Context, j Job)
	base    context.Context
	timeout time.Duration
	wg      sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

func New(capacity int, workerCount int, timeout time.Duration, do func(ctx context.Context, j Job)) *Refresher {
	return NewContext(context.Background(), capacity, workerCount, timeout, do)
}

// NewContext is New with job contexts derived from base, so cancelling base
// cancels running jobs.
func NewContext(base context.Context, capacity int, workerCount int, timeout time.Duration, do func(ctx context.Context, j Job)) *Refresher {
	if capacity <= 0 {
		capacity = 256
	}
	if workerCount <= 0 {
		workerCount = 2
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	r := &Refresher{ch: make(chan Job, capacity), do: do, base: base, timeout: timeout}
	r.wg.Add(workerCount)
	for i := 0; i < workerCount; i++ {
		go r.worker()
	}
	return r
}

// Enqueue reports whether the job was accepted. Jobs are refused after Close.
func (r *Refresher) Enqueue(j Job) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return false
	}
	if _, exists := r.inFly.LoadOrStore(j.Key, struct{}{}); exists {
		return false
	}
	select {
	case r.ch <- j:
		return true
	default:
		r.inFly.Delete(j.Key)
		return false
	}
}

// Close stops accepting work and waits for running jobs.
func (r *Refresher) Close() {
	r.mu.Lock()
	if !r.closed {
		r.closed = true
		close(r.ch)
	}
	r.mu.Unlock()
	r.wg.Wait()
}

func (r *Refresher) worker() {
	defer r.wg.Done()
	for j := range r.ch {
		func() {
			ctx, cancel := context.WithTimeout(r.base, r.timeout)
			defer func() {
				r.inFly.Delete(j.Key)
				cancel()
			}()
			if r.do != nil {
				r.do(ctx, j)
			}
		}()
	}
}
