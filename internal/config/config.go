// Package config loads and validates holodule configuration via Viper.
//
// Values come from built-in defaults and bound command-line flags only; no
// config file or environment variables are read.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

// Keys bound to command-line flags.
const (
	KeyShowAll      = "display.all"
	KeyEnrichTitles = "enrich.enabled"
)

// Config captures all configuration knobs loaded via Viper.
type Config struct {
	Schedule  ScheduleConfig  `mapstructure:"schedule"`
	Display   DisplayConfig   `mapstructure:"display"`
	Enrich    EnrichConfig    `mapstructure:"enrich"`
	Title     TitleConfig     `mapstructure:"title"`
	Presenter PresenterConfig `mapstructure:"presenter"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// ScheduleConfig locates the schedule page and describes its markup.
type ScheduleConfig struct {
	URL        string `mapstructure:"url"`
	LiveMarker string `mapstructure:"live_marker"`
}

// DisplayConfig selects which records are shown.
type DisplayConfig struct {
	All bool `mapstructure:"all"`
}

// EnrichConfig governs title enrichment.
type EnrichConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	Concurrency    int    `mapstructure:"concurrency"`
	FailedSentinel string `mapstructure:"failed_sentinel"`
}

// TitleConfig controls title post-processing.
type TitleConfig struct {
	Suffix string `mapstructure:"suffix"`
}

// PresenterConfig controls terminal output.
type PresenterConfig struct {
	URLPrefix string `mapstructure:"url_prefix"`
	Pending   string `mapstructure:"pending"`
	Color     bool   `mapstructure:"color"`
}

// HTTPConfig configures the page fetcher.
type HTTPConfig struct {
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	UserAgent      string `mapstructure:"user_agent"`
}

// LoggingConfig toggles zap development features and verbosity.
type LoggingConfig struct {
	Development bool   `mapstructure:"development"`
	Level       string `mapstructure:"level"`
}

// Load builds a Config from v, which normally carries the bound flags. A nil
// v yields the defaults.
func Load(v *viper.Viper) (Config, error) {
	if v == nil {
		v = viper.New()
	}
	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("schedule.url", "https://schedule.hololive.tv/")
	v.SetDefault("schedule.live_marker", "red solid")
	v.SetDefault(KeyShowAll, false)
	v.SetDefault(KeyEnrichTitles, false)
	v.SetDefault("enrich.concurrency", 10)
	v.SetDefault("enrich.failed_sentinel", "[failed to fetch]")
	v.SetDefault("title.suffix", " - YouTube")
	v.SetDefault("presenter.url_prefix", "https://www.youtube.com/watch?v=")
	v.SetDefault("presenter.pending", "fetching..")
	v.SetDefault("presenter.color", true)
	v.SetDefault("http.timeout_seconds", 15)
	v.SetDefault("http.user_agent", "holodule/0.1")
	v.SetDefault("logging.development", false)
	v.SetDefault("logging.level", "warn")
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Schedule.URL == "" {
		return errors.New("schedule.url must be set")
	}
	if u, err := url.Parse(c.Schedule.URL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("schedule.url %q is not an absolute URL", c.Schedule.URL)
	}
	if c.Schedule.LiveMarker == "" {
		return errors.New("schedule.live_marker must be set")
	}
	if c.Enrich.Concurrency <= 0 {
		return errors.New("enrich.concurrency must be > 0")
	}
	if c.HTTP.TimeoutSeconds <= 0 {
		return errors.New("http.timeout_seconds must be > 0")
	}
	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	return nil
}

// FetchTimeout converts the HTTP timeout into a duration.
func (c Config) FetchTimeout() time.Duration {
	return time.Duration(c.HTTP.TimeoutSeconds) * time.Second
}
