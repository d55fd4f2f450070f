// Package presenter renders schedule records as aligned, colorized terminal
// lines.
package presenter

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/JakeFAU/holodule/internal/schedule"
)

const (
	// DefaultURLPrefix is stripped from source URLs to keep lines short.
	DefaultURLPrefix = "https://www.youtube.com/watch?v="
	// DefaultPending is shown while a title has not been fetched yet.
	DefaultPending = "fetching.."
	// DefaultFailed is shown for failed titles that carry no sentinel text.
	DefaultFailed = "[failed to fetch]"

	startWidth     = 6
	performerWidth = 15
	liveBadge      = " streaming "
)

var (
	startColors   = text.Colors{text.FgMagenta}
	nameColors    = text.Colors{text.Bold}
	badgeColors   = text.Colors{text.FgBlack, text.BgHiGreen}
	titleColors   = text.Colors{text.FgYellow}
	failedColors  = text.Colors{text.FgRed}
	pendingColors = text.Colors{text.Faint}
)

// Config controls the rendered layout.
type Config struct {
	// URLPrefix is removed from the front of every source URL.
	URLPrefix string
	// ShowTitles adds the title column.
	ShowTitles bool
	Pending    string
	Failed     string
	// Color enables ANSI styling.
	Color bool
}

// Presenter writes full renderings of a record list. Render is serialized, so
// it may be called from several goroutines against a list whose titles are
// still changing.
type Presenter struct {
	mu  sync.Mutex
	w   io.Writer
	cfg Config
}

// New creates a Presenter writing to w.
func New(w io.Writer, cfg Config) *Presenter {
	if cfg.Pending == "" {
		cfg.Pending = DefaultPending
	}
	if cfg.Failed == "" {
		cfg.Failed = DefaultFailed
	}
	return &Presenter{w: w, cfg: cfg}
}

// Render writes one line per record, in slice order, preceded by a carriage
// return so a terminal redraw starts at column zero.
func (p *Presenter) Render(records []*schedule.Record) error {
	var buf bytes.Buffer
	buf.WriteByte('\r')
	for _, rec := range records {
		buf.WriteString(p.FormatLine(rec))
		buf.WriteByte('\n')
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if _, err := p.w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("render schedule: %w", err)
	}
	return nil
}

// FormatLine formats a single record without a trailing newline.
func (p *Presenter) FormatLine(rec *schedule.Record) string {
	badge := strings.Repeat(" ", len(liveBadge))
	if rec.IsLive {
		badge = p.paint(badgeColors, liveBadge)
	}
	fields := []string{
		p.paint(startColors, text.AlignLeft.Apply(rec.StartTime, startWidth)),
		p.paint(nameColors, text.AlignLeft.Apply(rec.PerformerName, performerWidth)),
		badge,
		strings.TrimPrefix(rec.SourceURL, p.cfg.URLPrefix),
	}
	if p.cfg.ShowTitles {
		fields = append(fields, p.formatTitle(rec.Title()))
	}
	return strings.Join(fields, " ")
}

func (p *Presenter) formatTitle(t schedule.Title) string {
	switch t.State {
	case schedule.TitleFetched:
		return p.paint(titleColors, t.Text)
	case schedule.TitleFailed:
		if t.Text == "" {
			return p.paint(failedColors, p.cfg.Failed)
		}
		return p.paint(failedColors, t.Text)
	default:
		return p.paint(pendingColors, p.cfg.Pending)
	}
}

func (p *Presenter) paint(colors text.Colors, s string) string {
	if !p.cfg.Color || s == "" {
		return s
	}
	return colors.Sprint(s)
}
