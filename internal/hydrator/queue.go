package hydrator

import (
	"context"
	"errors"
	"time"

	"github.com/yourorg/lead-scout/internal/models"
	"github.com/yourorg/lead-scout/internal/refresh"
)

// ZipQueue runs on-demand zip sweeps on one worker. Sweeps are cancelled when
// the context given to NewZipQueue ends, and Close waits for them. A zip that
// is already queued or running is not queued again.
type ZipQueue struct {
	pool *refresh.Refresher
}

func NewZipQueue(ctx context.Context, j *SweepJob, timeout time.Duration) *ZipQueue {
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	run := func(ctx context.Context, job refresh.Job) {
		zip := job.Filters.Zip()
		if err := j.RunZip(ctx, zip); err != nil && !errors.Is(err, context.Canceled) {
			j.Log.Warn().Err(err).Str("zip", zip).Msg("hydrate: sweep failed")
		}
	}
	return &ZipQueue{pool: refresh.NewContext(ctx, 16, 1, timeout, run)}
}

// EnqueueZip reports whether the sweep was accepted.
func (q *ZipQueue) EnqueueZip(zip string) bool {
	return q.pool.Enqueue(refresh.Job{Key: "zip:" + zip, Filters: models.SearchFilters{ZipCodes: []string{zip}}})
}

func (q *ZipQueue) Close() {
	q.pool.Close()
}
