package thing

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/taibuivan/meeple/internal/platform/constants"
	"github.com/taibuivan/meeple/pkg/pointer"
	"github.com/taibuivan/meeple/pkg/slice"
)

// Scheduler fetches needed ids upstream in fixed-size chunks and persists
// every Thing it receives.
type Scheduler struct {
	upstream       Upstream
	repository     Repository
	logger         *slog.Logger
	concurrency    int64
	batchSize      int
	persistTimeout time.Duration
}

// NewScheduler builds a scheduler allowing at most concurrency upstream
// calls in flight per [Scheduler.Run].
func NewScheduler(upstream Upstream, repository Repository, concurrency int, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		upstream:       upstream,
		repository:     repository,
		logger:         logger,
		concurrency:    int64(max(concurrency, 1)),
		batchSize:      constants.ThingBatchSize,
		persistTimeout: constants.PersistTimeout,
	}
}

/*
Run fetches ids in consecutive chunks and returns every Thing obtained, in
completion order.

Each call gets its own gate, so concurrent callers do not share a budget.
A chunk that fails is logged and dropped; the others still contribute.
Persistence failures are logged and swallowed so that fetched Things are
always returned. Cancelling ctx stops chunks that are still waiting for the
gate or sleeping between retries, while Things already fetched are stored
on a detached context.
*/
func (scheduler *Scheduler) Run(ctx context.Context, ids []string) []Thing {
	chunks := slice.Chunk(ids, scheduler.batchSize)
	if len(chunks) == 0 {
		return []Thing{}
	}

	gate := semaphore.NewWeighted(scheduler.concurrency)

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		fetched = make([]Thing, 0, len(ids))
	)

	for index, chunk := range chunks {
		wg.Add(1)
		go func(index int, chunk []string) {
			defer wg.Done()

			if err := gate.Acquire(ctx, 1); err != nil {
				scheduler.logger.Warn("thing_chunk_abandoned",
					slog.Int("chunk", index),
					slog.Int("size", len(chunk)),
					slog.Any("error", err),
				)
				return
			}
			defer gate.Release(1)

			things, err := scheduler.upstream.FetchThings(ctx, chunk)
			if err != nil {
				scheduler.logger.Warn("thing_chunk_failed",
					slog.Int("chunk", index),
					slog.Any("ids", chunk),
					slog.Any("error", err),
				)
				return
			}

			for i := range things {
				scheduler.persist(ctx, &things[i])
			}

			mu.Lock()
			fetched = append(fetched, things...)
			mu.Unlock()
		}(index, chunk)
	}

	wg.Wait()
	return fetched
}

// persist stores one Thing on a context detached from the caller's
// cancellation and logs, rather than returns, any failure.
func (scheduler *Scheduler) persist(ctx context.Context, parsed *Thing) {
	persistCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), scheduler.persistTimeout)
	defer cancel()

	id, stored, err := scheduler.repository.Store(persistCtx, parsed)
	if err != nil {
		scheduler.logger.Error("thing_persist_failed",
			slog.String("bgg_id", parsed.BggID),
			slog.Any("error", err),
		)
		return
	}

	if !stored {
		scheduler.logger.Debug("thing_already_stored", slog.String("bgg_id", parsed.BggID))
		return
	}

	scheduler.logger.Debug("thing_stored",
		slog.String("bgg_id", parsed.BggID),
		slog.Int64("id", id),
		slog.String("name", pointer.Val(parsed.Name)),
	)
}
