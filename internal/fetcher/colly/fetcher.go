// Package collyfetcher implements schedule.PageFetcher using gocolly.
package collyfetcher

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gocolly/colly/v2"
)

// ErrUnexpectedStatus is returned when the server answers with a non-2xx status.
var ErrUnexpectedStatus = errors.New("unexpected status")

const defaultTimeout = 15 * time.Second

// Config controls collector behavior.
type Config struct {
	UserAgent string
	Timeout   time.Duration
}

// Fetcher performs single GET requests through a Colly collector. It is safe
// for concurrent use; every call runs on its own clone of the base collector.
type Fetcher struct {
	baseCollector *colly.Collector
}

type collectorHooks interface {
	OnResponse(colly.ResponseCallback)
	OnError(colly.ErrorCallback)
}

// New builds a Fetcher. Clones share the base collector's HTTP backend, so the
// transport, timeout and user agent are fixed here and never touched per call.
func New(cfg Config) *Fetcher {
	c := colly.NewCollector(colly.Async(false))
	c.AllowURLRevisit = true
	c.IgnoreRobotsTxt = true
	if cfg.UserAgent != "" {
		c.UserAgent = cfg.UserAgent
	}
	c.WithTransport(newHTTPTransport())
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	c.SetRequestTimeout(timeout)

	return &Fetcher{baseCollector: c}
}

// Fetch retrieves url once and returns the body as text. Transport failures
// and non-2xx responses are returned as errors; nothing is retried.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	var (
		body     string
		fetchErr error
	)
	collector := f.baseCollector.Clone()
	configureCollectorHooks(collector, &body, &fetchErr)

	if err := runCollector(ctx, collector, url, &fetchErr); err != nil {
		return "", err
	}
	return body, nil
}

func configureCollectorHooks(hooks collectorHooks, body *string, fetchErr *error) {
	hooks.OnResponse(func(r *colly.Response) {
		if r.StatusCode < http.StatusOK || r.StatusCode >= http.StatusMultipleChoices {
			*fetchErr = fmt.Errorf("%w: %d", ErrUnexpectedStatus, r.StatusCode)
			return
		}
		*body = string(r.Body)
	})

	hooks.OnError(func(r *colly.Response, err error) {
		if r != nil && r.StatusCode != 0 &&
			(r.StatusCode < http.StatusOK || r.StatusCode >= http.StatusMultipleChoices) {
			*fetchErr = fmt.Errorf("%w: %d", ErrUnexpectedStatus, r.StatusCode)
			return
		}
		*fetchErr = err
	})
}

func runCollector(ctx context.Context, collector *colly.Collector, url string, fetchErr *error) error {
	done := make(chan error, 1)
	go func() {
		done <- collector.Visit(url)
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("colly fetch canceled: %w", ctx.Err())
	case err := <-done:
		if *fetchErr != nil {
			return fmt.Errorf("colly response failed: %w", *fetchErr)
		}
		if err != nil {
			return fmt.Errorf("colly visit failed: %w", err)
		}
		return nil
	}
}

func newHTTPTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   15 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   16,
		IdleConnTimeout:       90 * time.Second,
	}
}
