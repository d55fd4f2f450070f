package schedule

import (
	"context"
	"errors"
	"time"
)

// ErrFetch marks a failed title retrieval. Enrichment absorbs it per record.
var ErrFetch = errors.New("title fetch failed")

// PageFetcher performs a single GET and returns the response body as text.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// TitleFetcher resolves the display title behind a record's source URL.
type TitleFetcher interface {
	FetchTitle(ctx context.Context, url string) (string, error)
}

// Extractor turns raw schedule markup into ordered records.
type Extractor interface {
	Extract(page string) []*Record
}

// ExtractorFunc adapts a plain function to the Extractor interface.
type ExtractorFunc func(page string) []*Record

// Extract calls f(page).
func (f ExtractorFunc) Extract(page string) []*Record {
	return f(page)
}

// Clock returns the current time (useful for testing).
type Clock interface {
	Now() time.Time
}

// IDGenerator produces run IDs.
type IDGenerator interface {
	NewID() (string, error)
}
