package coordinator

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/delcain/drawsync/pkg/caixa"
	"github.com/delcain/drawsync/pkg/draw"
	"github.com/delcain/drawsync/pkg/observability"
	"github.com/delcain/drawsync/pkg/store"
)

// Summary is the result of one acquisition run.
type Summary struct {
	// Acquired is the number of records fetched, validated and appended.
	Acquired int `json:"acquired"`
	// Missing lists draw numbers that could not be acquired: exhausted
	// retries, malformed payloads, or draws the source no longer reports.
	Missing []int `json:"missing,omitempty"`
}

// Service acquires a contiguous range of draws in batches.
type Service interface {
	// Run fetches the inclusive range [lo, hi], appending each completed
	// batch to the store in ascending order. Cancellation is honored
	// between batches: the in-flight batch finishes, its results are made
	// durable, and the context error is returned alongside the partial
	// summary.
	Run(ctx context.Context, lo, hi int) (*Summary, error)
}

type service struct {
	log    logrus.FieldLogger
	cfg    *Config
	client caixa.Client
	store  *store.Store
}

// NewService creates an acquisition coordinator
func NewService(log logrus.FieldLogger, cfg *Config, client caixa.Client, st *store.Store) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &service{
		log:    log.WithField("service", "coordinator"),
		cfg:    cfg,
		client: client,
		store:  st,
	}, nil
}

// fetchResult associates a draw number with its fetch outcome so the
// logical ordering survives out-of-order completion.
type fetchResult struct {
	number int
	record *draw.Record
	err    error
}

func (s *service) Run(ctx context.Context, lo, hi int) (*Summary, error) {
	summary := &Summary{}

	if lo > hi {
		return summary, nil
	}

	totalBatches := (hi - lo + s.cfg.BatchSize) / s.cfg.BatchSize
	sinceCheckpoint := 0

	s.log.WithFields(logrus.Fields{
		"lo":          lo,
		"hi":          hi,
		"batches":     totalBatches,
		"concurrency": s.cfg.Concurrency,
	}).Info("Starting acquisition run")

	var runErr error

	for start, batchNum := lo, 1; start <= hi; start, batchNum = start+s.cfg.BatchSize, batchNum+1 {
		if err := ctx.Err(); err != nil {
			runErr = err

			break
		}

		end := start + s.cfg.BatchSize - 1
		if end > hi {
			end = hi
		}

		// Cancellation is honored between batches only: the in-flight
		// batch runs to completion so its results can be made durable
		// before the run exits.
		records, missing := s.fetchBatch(context.WithoutCancel(ctx), start, end)

		if err := s.store.Append(records); err != nil {
			// An invariant violation here means a bug or tampered state;
			// surface it instead of carrying on.
			return summary, err
		}

		summary.Acquired += len(records)
		summary.Missing = append(summary.Missing, missing...)
		sinceCheckpoint += len(records)

		if len(missing) == 0 {
			observability.RecordBatch("complete")
		} else {
			observability.RecordBatch("partial")
		}

		s.log.WithFields(logrus.Fields{
			"batch":    batchNum,
			"batches":  totalBatches,
			"range_lo": start,
			"range_hi": end,
			"acquired": len(records),
			"missing":  len(missing),
		}).Info("Batch acquired")

		if s.cfg.CheckpointInterval > 0 && sinceCheckpoint >= s.cfg.CheckpointInterval {
			if err := s.store.WriteCheckpoint(); err != nil {
				return summary, err
			}

			sinceCheckpoint = 0
		}
	}

	// Make the final partial progress durable before reporting
	// cancellation, so nothing already fetched is ever discarded.
	if s.cfg.CheckpointInterval > 0 && sinceCheckpoint > 0 {
		if err := s.store.WriteCheckpoint(); err != nil {
			return summary, err
		}
	}

	sort.Ints(summary.Missing)
	observability.MissingDraws.Set(float64(len(summary.Missing)))

	s.log.WithFields(logrus.Fields{
		"acquired": summary.Acquired,
		"missing":  len(summary.Missing),
	}).Info("Acquisition run finished")

	return summary, runErr
}

// fetchBatch dispatches up to Concurrency parallel fetches over [start, end]
// and restores ascending order before returning. A failed draw number is
// isolated: it is reported in missing and never blocks the rest.
func (s *service) fetchBatch(ctx context.Context, start, end int) ([]draw.Record, []int) {
	count := end - start + 1

	jobs := make(chan int)
	results := make(chan fetchResult, count)

	workers := s.cfg.Concurrency
	if workers > count {
		workers = count
	}

	var wg sync.WaitGroup

	for range workers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for number := range jobs {
				rec, err := s.fetchWithRetry(ctx, number)
				results <- fetchResult{number: number, record: rec, err: err}
			}
		}()
	}

	for number := start; number <= end; number++ {
		jobs <- number
	}

	close(jobs)
	wg.Wait()
	close(results)

	records := make([]draw.Record, 0, count)

	var missing []int

	for res := range results {
		switch {
		case res.err == nil:
			records = append(records, *res.record)
		case errors.Is(res.err, context.Canceled), errors.Is(res.err, context.DeadlineExceeded):
			// Not attempted to completion; the next run picks it up.
		case errors.Is(res.err, caixa.ErrNotFound):
			s.log.WithField("number", res.number).Debug("Draw not yet published remotely")

			missing = append(missing, res.number)
		default:
			s.log.WithError(res.err).WithField("number", res.number).Warn("Giving up on draw")

			missing = append(missing, res.number)
		}
	}

	sort.Slice(records, func(i, j int) bool { return records[i].Number < records[j].Number })
	sort.Ints(missing)

	return records, missing
}
