package schedule

import "sync"

// TitleState describes the enrichment lifecycle of a record's title.
type TitleState int

// Title states. A title only ever moves out of TitleUnfetched.
const (
	TitleUnfetched TitleState = iota
	TitleFetched
	TitleFailed
)

// String returns the lowercase name of the state.
func (s TitleState) String() string {
	switch s {
	case TitleUnfetched:
		return "unfetched"
	case TitleFetched:
		return "fetched"
	case TitleFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Title is a point-in-time view of a record's enrichment slot. Text holds the
// fetched title when State is TitleFetched and the failure sentinel when State
// is TitleFailed.
type Title struct {
	State TitleState
	Text  string
}

// Record is one broadcast entry extracted from the schedule page.
//
// The identity fields are set once by the extractor and never change. The
// title slot is guarded so a renderer may read it while enrichment writes it.
type Record struct {
	PerformerName string
	SourceURL     string
	StartTime     string
	IsLive        bool

	mu    sync.RWMutex
	title Title
}

// NewRecord builds a record with an unfetched title.
func NewRecord(performer, sourceURL, start string, live bool) *Record {
	return &Record{
		PerformerName: performer,
		SourceURL:     sourceURL,
		StartTime:     start,
		IsLive:        live,
	}
}

// Title returns the current title slot.
func (r *Record) Title() Title {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.title
}

// MarkFetched stores a fetched title. It reports false, leaving the record
// untouched, when the title has already been resolved.
func (r *Record) MarkFetched(text string) bool {
	return r.resolve(Title{State: TitleFetched, Text: text})
}

// MarkFailed stores the failure sentinel. It reports false when the title has
// already been resolved.
func (r *Record) MarkFailed(sentinel string) bool {
	return r.resolve(Title{State: TitleFailed, Text: sentinel})
}

func (r *Record) resolve(t Title) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.title.State != TitleUnfetched {
		return false
	}
	r.title = t
	return true
}
