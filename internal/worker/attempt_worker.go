package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/shailesh1606/TestMocker/internal/config"
	"github.com/shailesh1606/TestMocker/internal/model"
	"github.com/shailesh1606/TestMocker/internal/repository"
)

const (
	AttemptBatchSize    = 50
	AttemptBatchTimeout = 2 * time.Second
	AttemptPollTimeout  = 1 * time.Second
)

// AttemptWorker consumes persist_attempts_queue and inserts attempt records
// into PostgreSQL in batches. Submission only enqueues; this worker is the
// sole writer of the attempts table.
type AttemptWorker struct {
	repo *repository.AttemptRepository
	rdb  *redis.Client
	log  zerolog.Logger
}

// NewAttemptWorker creates a new AttemptWorker.
func NewAttemptWorker(repo *repository.AttemptRepository, rdb *redis.Client, log zerolog.Logger) *AttemptWorker {
	return &AttemptWorker{
		repo: repo,
		rdb:  rdb,
		log:  log.With().Str("component", "attempt_worker").Logger(),
	}
}

// Start begins the worker loop. Call in a goroutine; it drains the pending
// batch on shutdown.
func (w *AttemptWorker) Start(ctx context.Context) {
	w.log.Info().Msg("AttemptWorker started")

	batch := make([]*model.Attempt, 0, AttemptBatchSize)
	lastFlush := time.Now()

	for {
		if len(batch) > 0 &&
			(len(batch) >= AttemptBatchSize || time.Since(lastFlush) >= AttemptBatchTimeout) {

			w.flushSafe(ctx, batch)
			batch = batch[:0]
			lastFlush = time.Now()
		}

		select {
		case <-ctx.Done():
			w.log.Info().Msg("Shutdown requested. Flushing remaining batch...")
			w.flushSafe(context.Background(), batch)
			w.drain(context.Background())
			w.log.Info().Msg("AttemptWorker stopped")
			return

		default:
			item, err := w.rdb.BLPop(ctx, AttemptPollTimeout, config.WorkerKey.PersistAttemptsQueue).Result()
			if err != nil {
				if err != redis.Nil && ctx.Err() == nil {
					w.log.Error().Err(err).Msg("BLPop error")
				}
				continue
			}

			if len(item) < 2 {
				continue
			}

			var a model.Attempt
			if err := json.Unmarshal([]byte(item[1]), &a); err != nil {
				w.log.Error().Err(err).Msg("Invalid JSON payload")
				continue
			}

			batch = append(batch, &a)
		}
	}
}

// flushSafe bulk-inserts a batch, falling back to per-row inserts and a
// requeue when the bulk path fails.
func (w *AttemptWorker) flushSafe(ctx context.Context, batch []*model.Attempt) {
	if len(batch) == 0 {
		return
	}

	if err := w.repo.BulkInsert(ctx, batch); err != nil {
		w.log.Warn().Err(err).Msg("Bulk attempt insert failed, using fallback")

		for _, a := range batch {
			if err := w.repo.Insert(ctx, a); err != nil {
				w.log.Error().Err(err).
					Str("attempt_id", a.AttemptID.String()).
					Int("question_index", a.QuestionIndex).
					Msg("Insert failed — requeueing")
				raw, _ := json.Marshal(a)
				w.rdb.RPush(ctx, config.WorkerKey.PersistAttemptsQueue, raw)
			}
		}
		return
	}

	w.log.Debug().Int("count", len(batch)).Msg("Attempt batch persisted")
}

// drain empties whatever is left in the queue before shutdown.
func (w *AttemptWorker) drain(ctx context.Context) {
	drained := 0
	for {
		item, err := w.rdb.LPop(ctx, config.WorkerKey.PersistAttemptsQueue).Result()
		if err != nil {
			break
		}

		var a model.Attempt
		if err := json.Unmarshal([]byte(item), &a); err != nil {
			w.log.Error().Err(err).Msg("Drain unmarshal error")
			continue
		}

		if err := w.repo.Insert(ctx, &a); err != nil {
			w.log.Error().Err(err).Msg("Drain insert error")
			w.rdb.RPush(ctx, config.WorkerKey.PersistAttemptsQueue, item)
			break
		}
		drained++
	}

	if drained > 0 {
		w.log.Info().Int("count", drained).Msg("Drained remaining attempts")
	}
}
