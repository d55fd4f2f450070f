// Package enrich fetches display titles for schedule records under a fixed
// concurrency bound.
//
// Workers only fetch. Each result travels back to the goroutine that called
// Enrich, which is the single place titles are written and the onEach
// callback runs, so callers never see concurrent callback invocations.
package enrich

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/JakeFAU/holodule/internal/clock/system"
	"github.com/JakeFAU/holodule/internal/metrics"
	"github.com/JakeFAU/holodule/internal/queue/memory"
	"github.com/JakeFAU/holodule/internal/schedule"
)

const (
	// DefaultConcurrency caps simultaneous title fetches when none is configured.
	DefaultConcurrency = 10
	// DefaultFailedSentinel is stored as the title of records whose fetch failed.
	DefaultFailedSentinel = "[failed to fetch]"
)

// Config controls Scheduler behavior.
type Config struct {
	Concurrency    int
	FailedSentinel string
}

// Summary counts the outcome of one Enrich call.
type Summary struct {
	Total   int
	Fetched int
	Failed  int
	Skipped int
}

// Scheduler runs a TitleFetcher over records with bounded concurrency.
type Scheduler struct {
	fetcher schedule.TitleFetcher
	clock   schedule.Clock
	cfg     Config
	logger  *zap.Logger
}

type job struct {
	index  int
	record *schedule.Record
}

type result struct {
	index    int
	title    string
	err      error
	duration time.Duration
}

// New constructs a Scheduler. A nil clock falls back to the system clock and a
// nil logger to a no-op logger.
func New(fetcher schedule.TitleFetcher, clock schedule.Clock, cfg Config, logger *zap.Logger) *Scheduler {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConcurrency
	}
	if cfg.FailedSentinel == "" {
		cfg.FailedSentinel = DefaultFailedSentinel
	}
	if clock == nil {
		clock = system.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		fetcher: fetcher,
		clock:   clock,
		cfg:     cfg,
		logger:  logger,
	}
}

// Enrich fetches a title for every unfetched record and blocks until each
// fetch has resolved. Records that already carry a resolved title are
// skipped. onEach, when non-nil, is called once per record right after its
// title changes, always from the calling goroutine.
//
// ctx is handed to every fetch; canceling it makes outstanding fetches fail
// rather than abandoning them, so every submitted record still resolves.
func (s *Scheduler) Enrich(
	ctx context.Context,
	records []*schedule.Record,
	onEach func(*schedule.Record),
) Summary {
	summary := Summary{Total: len(records)}

	pending := memory.NewQueue[job](len(records))
	queued := 0
	for i, rec := range records {
		if rec.Title().State != schedule.TitleUnfetched {
			summary.Skipped++
			continue
		}
		// The queue holds every record, so this never blocks.
		if err := pending.Enqueue(context.Background(), job{index: i, record: rec}); err != nil {
			s.logger.Error("enqueue title fetch", zap.String("url", rec.SourceURL), zap.Error(err))
			continue
		}
		queued++
	}
	pending.Close()
	if queued == 0 {
		return summary
	}

	workers := min(s.cfg.Concurrency, queued)
	s.logger.Debug("title fetches queued",
		zap.Int("queued", pending.Len()),
		zap.Int("skipped", summary.Skipped),
		zap.Int("workers", workers),
	)
	results := make(chan result, workers)
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.work(ctx, pending, results)
		}()
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	for res := range results {
		rec := records[res.index]
		if res.err != nil {
			s.logger.Debug("title fetch failed",
				zap.String("url", rec.SourceURL),
				zap.Duration("duration", res.duration),
				zap.Error(res.err),
			)
			rec.MarkFailed(s.cfg.FailedSentinel)
			summary.Failed++
		} else {
			s.logger.Debug("title fetched",
				zap.String("url", rec.SourceURL),
				zap.Duration("duration", res.duration),
			)
			rec.MarkFetched(res.title)
			summary.Fetched++
		}
		if onEach != nil {
			onEach(rec)
		}
	}
	return summary
}

func (s *Scheduler) work(ctx context.Context, pending *memory.Queue[job], results chan<- result) {
	for {
		j, err := pending.Dequeue(context.Background())
		if err != nil {
			return
		}
		title, elapsed, err := s.fetchOne(ctx, j.record.SourceURL)
		results <- result{index: j.index, title: title, err: err, duration: elapsed}
	}
}

func (s *Scheduler) fetchOne(ctx context.Context, url string) (title string, elapsed time.Duration, err error) {
	metrics.IncInFlight()
	start := s.clock.Now()
	defer func() {
		if p := recover(); p != nil {
			title, err = "", fmt.Errorf("%w: panic: %v", schedule.ErrFetch, p)
		}
		metrics.DecInFlight()
		outcome := metrics.ResultFetched
		if err != nil {
			outcome = metrics.ResultFailed
		}
		elapsed = s.clock.Now().Sub(start)
		metrics.ObserveTitleFetch(url, outcome, elapsed)
	}()
	title, err = s.fetcher.FetchTitle(ctx, url)
	return title, 0, err
}
