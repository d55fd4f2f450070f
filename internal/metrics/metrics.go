// Package metrics exposes Prometheus collectors for schedule extraction and
// title enrichment.
package metrics

import (
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Title fetch results used as the "result" label.
const (
	ResultFetched = "fetched"
	ResultFailed  = "failed"
)

const (
	titleFetchesName       = "holodule_title_fetches_total"
	titleFetchDurationName = "holodule_title_fetch_duration_seconds"
)

var (
	recordsExtractedTotal     *prometheus.CounterVec
	titleFetchesTotal         *prometheus.CounterVec
	titleFetchDurationSeconds *prometheus.HistogramVec
	titleFetchesInFlight      prometheus.Gauge

	once sync.Once
)

// Init initializes the Prometheus metrics collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		recordsExtractedTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "holodule_records_extracted_total",
				Help: "Total number of schedule records extracted, labeled by liveness.",
			},
			[]string{"live"},
		)

		titleFetchesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: titleFetchesName,
				Help: "Total number of title fetches, labeled by site and result.",
			},
			[]string{"site", "result"},
		)

		titleFetchDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    titleFetchDurationName,
				Help:    "Histogram of title fetch latencies, labeled by site.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
			},
			[]string{"site"},
		)

		titleFetchesInFlight = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "holodule_title_fetches_in_flight",
				Help: "Number of title fetches currently running.",
			},
		)
	})
}

// SanitizeSite sanitizes a URL to extract a lowercase hostname.
// It returns "unknown" if the URL is invalid.
func SanitizeSite(rawURL string) string {
	if !strings.HasPrefix(rawURL, "http") {
		rawURL = "http://" + rawURL
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return "unknown"
	}
	return strings.ToLower(u.Hostname())
}

// ObserveExtraction records the outcome of one extractor run.
func ObserveExtraction(total, live int) {
	Init()
	if live > 0 {
		recordsExtractedTotal.WithLabelValues("true").Add(float64(live))
	}
	if rest := total - live; rest > 0 {
		recordsExtractedTotal.WithLabelValues("false").Add(float64(rest))
	}
}

// ObserveTitleFetch records one completed title fetch.
func ObserveTitleFetch(rawURL, result string, duration time.Duration) {
	Init()
	site := SanitizeSite(rawURL)
	titleFetchesTotal.WithLabelValues(site, result).Inc()
	titleFetchDurationSeconds.WithLabelValues(site).Observe(duration.Seconds())
}

// IncInFlight increments the in-flight title fetch gauge.
func IncInFlight() {
	Init()
	titleFetchesInFlight.Inc()
}

// DecInFlight decrements the in-flight title fetch gauge.
func DecInFlight() {
	Init()
	titleFetchesInFlight.Dec()
}

// TitleFetchStats is a point-in-time read of the title fetch collectors,
// summed across sites.
type TitleFetchStats struct {
	Fetched         float64
	Failed          float64
	DurationCount   uint64
	DurationSeconds float64
}

// SnapshotTitleFetches gathers from g and totals the title fetch counters and
// latency histogram. A nil gatherer reads the default registry.
func SnapshotTitleFetches(g prometheus.Gatherer) (TitleFetchStats, error) {
	Init()
	if g == nil {
		g = prometheus.DefaultGatherer
	}
	families, err := g.Gather()
	if err != nil {
		return TitleFetchStats{}, fmt.Errorf("gather metrics: %w", err)
	}

	var stats TitleFetchStats
	for _, mf := range families {
		switch mf.GetName() {
		case titleFetchesName:
			for _, m := range mf.GetMetric() {
				for _, l := range m.GetLabel() {
					if l.GetName() != "result" {
						continue
					}
					switch l.GetValue() {
					case ResultFetched:
						stats.Fetched += m.GetCounter().GetValue()
					case ResultFailed:
						stats.Failed += m.GetCounter().GetValue()
					}
				}
			}
		case titleFetchDurationName:
			for _, m := range mf.GetMetric() {
				stats.DurationCount += m.GetHistogram().GetSampleCount()
				stats.DurationSeconds += m.GetHistogram().GetSampleSum()
			}
		}
	}
	return stats, nil
}
