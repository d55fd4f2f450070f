// Package app wires the schedule pipeline: fetch the schedule page, extract
// records, render them, and optionally enrich them with titles while
// re-rendering after each completion.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/JakeFAU/holodule/internal/clock/system"
	"github.com/JakeFAU/holodule/internal/config"
	"github.com/JakeFAU/holodule/internal/enrich"
	collyfetcher "github.com/JakeFAU/holodule/internal/fetcher/colly"
	"github.com/JakeFAU/holodule/internal/id/uuid"
	"github.com/JakeFAU/holodule/internal/metrics"
	"github.com/JakeFAU/holodule/internal/presenter"
	"github.com/JakeFAU/holodule/internal/schedule"
	"github.com/JakeFAU/holodule/internal/title"
)

// ErrSourceFetch reports that the schedule page itself could not be fetched.
// It is the only failure that aborts a run.
var ErrSourceFetch = errors.New("fetch schedule page")

// App holds the collaborators for one schedule run.
type App struct {
	cfg       config.Config
	logger    *zap.Logger
	pages     schedule.PageFetcher
	extractor schedule.Extractor
	titles    schedule.TitleFetcher
	clock     schedule.Clock
	ids       schedule.IDGenerator
	out       io.Writer
	presenter *presenter.Presenter
}

// Option overrides a collaborator, mainly for tests.
type Option func(*App)

// WithPageFetcher replaces the colly page fetcher. Unless WithTitleFetcher is
// also given, titles are fetched through it too.
func WithPageFetcher(f schedule.PageFetcher) Option {
	return func(a *App) { a.pages = f }
}

// WithTitleFetcher replaces the title fetcher.
func WithTitleFetcher(f schedule.TitleFetcher) Option {
	return func(a *App) { a.titles = f }
}

// WithExtractor replaces the pattern extractor.
func WithExtractor(e schedule.Extractor) Option {
	return func(a *App) { a.extractor = e }
}

// WithOutput redirects rendered output away from stdout.
func WithOutput(w io.Writer) Option {
	return func(a *App) { a.out = w }
}

// WithIDGenerator replaces the run ID generator.
func WithIDGenerator(g schedule.IDGenerator) Option {
	return func(a *App) { a.ids = g }
}

// New builds an App from cfg. A nil logger falls back to a no-op logger.
func New(cfg config.Config, logger *zap.Logger, opts ...Option) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &App{cfg: cfg, logger: logger}
	for _, opt := range opts {
		opt(a)
	}
	if a.pages == nil {
		a.pages = collyfetcher.New(collyfetcher.Config{
			UserAgent: cfg.HTTP.UserAgent,
			Timeout:   cfg.FetchTimeout(),
		})
	}
	if a.extractor == nil {
		a.extractor = schedule.NewPatternExtractor(cfg.Schedule.LiveMarker)
	}
	if a.titles == nil {
		a.titles = title.NewFetcher(a.pages, cfg.Title.Suffix)
	}
	if a.clock == nil {
		a.clock = system.New()
	}
	if a.ids == nil {
		a.ids = uuid.New()
	}
	if a.out == nil {
		a.out = os.Stdout
	}
	a.presenter = presenter.New(a.out, presenter.Config{
		URLPrefix:  cfg.Presenter.URLPrefix,
		ShowTitles: cfg.Enrich.Enabled,
		Pending:    cfg.Presenter.Pending,
		Failed:     cfg.Enrich.FailedSentinel,
		Color:      cfg.Presenter.Color,
	})
	return a
}

// Run fetches, extracts, filters and renders the schedule. With enrichment
// enabled it then fetches titles and re-renders after every completion.
// Title failures never fail the run.
func (a *App) Run(ctx context.Context) error {
	runID, err := a.ids.NewID()
	if err != nil {
		a.logger.Warn("run id unavailable", zap.Error(err))
	}
	logger := a.logger.With(zap.String("run_id", runID))

	page, err := a.pages.Fetch(ctx, a.cfg.Schedule.URL)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrSourceFetch, a.cfg.Schedule.URL, err)
	}

	records := a.extractor.Extract(page)
	live := len(schedule.FilterLive(records))
	metrics.ObserveExtraction(len(records), live)
	logger.Info("schedule extracted",
		zap.String("url", a.cfg.Schedule.URL),
		zap.Int("records", len(records)),
		zap.Int("live", live),
	)
	if !a.cfg.Display.All {
		records = schedule.FilterLive(records)
	}

	if err := a.presenter.Render(records); err != nil {
		return err
	}
	if !a.cfg.Enrich.Enabled {
		return nil
	}

	scheduler := enrich.New(a.titles, a.clock, enrich.Config{
		Concurrency:    a.cfg.Enrich.Concurrency,
		FailedSentinel: a.cfg.Enrich.FailedSentinel,
	}, logger.Named("enrich"))

	// onEach runs on this goroutine only, so renderErr needs no lock.
	var renderErr error
	summary := scheduler.Enrich(ctx, records, func(*schedule.Record) {
		if err := a.presenter.Render(records); err != nil && renderErr == nil {
			renderErr = err
		}
	})
	fields := []zap.Field{
		zap.Int("records", summary.Total),
		zap.Int("fetched", summary.Fetched),
		zap.Int("failed", summary.Failed),
		zap.Int("skipped", summary.Skipped),
	}
	if stats, err := metrics.SnapshotTitleFetches(nil); err != nil {
		logger.Warn("title fetch metrics unavailable", zap.Error(err))
	} else {
		fields = append(fields,
			zap.Float64("title_fetches_fetched_total", stats.Fetched),
			zap.Float64("title_fetches_failed_total", stats.Failed),
			zap.Uint64("title_fetch_duration_count", stats.DurationCount),
			zap.Float64("title_fetch_duration_seconds_sum", stats.DurationSeconds),
		)
	}
	logger.Info("enrichment finished", fields...)
	return renderErr
}
