// Package title resolves the display title of a broadcast page.
package title

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/JakeFAU/holodule/internal/schedule"
)

// DefaultSuffix is the site branding appended to video page titles.
const DefaultSuffix = " - YouTube"

var titlePattern = regexp.MustCompile(`<title>([\s\S]*?)</title>`)

// Fetcher implements schedule.TitleFetcher on top of a page fetcher.
type Fetcher struct {
	pages  schedule.PageFetcher
	suffix string
}

// NewFetcher creates a Fetcher that strips suffix from every title.
func NewFetcher(pages schedule.PageFetcher, suffix string) *Fetcher {
	return &Fetcher{pages: pages, suffix: suffix}
}

// FetchTitle downloads url once and returns its cleaned title. Any retrieval
// failure is reported as schedule.ErrFetch. A page without a title yields "".
func (f *Fetcher) FetchTitle(ctx context.Context, url string) (string, error) {
	page, err := f.pages.Fetch(ctx, url)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", schedule.ErrFetch, url, err)
	}
	return StripSuffix(ExtractTitle(page), f.suffix), nil
}

// ExtractTitle returns the text between the first <title> and the closing tag
// after it. Tags are matched case-sensitively.
func ExtractTitle(page string) string {
	m := titlePattern.FindStringSubmatch(page)
	if m == nil {
		return ""
	}
	return m[1]
}

// StripSuffix trims whitespace and removes a trailing branding suffix.
func StripSuffix(title, suffix string) string {
	title = strings.TrimSpace(title)
	if suffix != "" {
		title = strings.TrimSpace(strings.TrimSuffix(title, suffix))
	}
	return title
}
