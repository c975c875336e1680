package ordering

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/autochef0332/autochef/internal/core/domain"
	"github.com/autochef0332/autochef/internal/pkg/metrics"
)

const defaultWorkers = 8

// BatchWriter fans a reorder out to a bounded set of workers. Every write is
// independent: a failed write neither stops nor undoes the others.
type BatchWriter struct {
	workers int
	log     zerolog.Logger
}

// NewBatchWriter creates a BatchWriter with numWorkers workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewBatchWriter(numWorkers int, log zerolog.Logger) *BatchWriter {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	return &BatchWriter{workers: numWorkers, log: log}
}

// Run applies write to every assignment. Once dispatched, the batch ignores caller
// cancellation so a disconnect cannot abort it half way. It returns a
// *domain.PartialBatchError listing the failed ids, in input order, when any write failed.
func (b *BatchWriter) Run(ctx context.Context, entity string, batch []Assignment, write func(ctx context.Context, a Assignment) error) error {
	if len(batch) == 0 {
		return nil
	}
	ctx = context.WithoutCancel(ctx)
	start := time.Now()

	jobs := make(chan int, len(batch))
	for i := range batch {
		jobs <- i
	}
	close(jobs)

	errs := make([]error, len(batch))
	var wg sync.WaitGroup
	for w := 0; w < min(b.workers, len(batch)); w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for i := range jobs {
				if err := write(ctx, batch[i]); err != nil {
					errs[i] = err
					metrics.ReorderWritesTotal.WithLabelValues(entity, "error").Inc()
					b.log.Error().Err(err).
						Str("entity", entity).
						Str("id", batch[i].ID).
						Int("position", batch[i].Position).
						Int("worker_id", workerID).
						Msg("position write failed")
					continue
				}
				metrics.ReorderWritesTotal.WithLabelValues(entity, "ok").Inc()
			}
		}(w)
	}
	wg.Wait()
	metrics.ReorderDuration.WithLabelValues(entity).Observe(time.Since(start).Seconds())

	var failed []domain.FailedWrite
	for i, err := range errs {
		if err != nil {
			failed = append(failed, domain.FailedWrite{ID: batch[i].ID, Err: err})
		}
	}
	if len(failed) == 0 {
		return nil
	}
	metrics.PartialBatchesTotal.WithLabelValues(entity).Inc()
	return &domain.PartialBatchError{Entity: entity, Total: len(batch), Failed: failed}
}
