package schedule

import (
	"regexp"
	"strings"
)

// DefaultLiveMarker is the style token the schedule page puts on blocks that
// are currently broadcasting.
const DefaultLiveMarker = "red solid"

// PatternV1 matches one thumbnail block of the schedule page. Each match
// yields the performer, the video URL and the start time shown in the
// 17px-high label. The whole match is the span searched for the live marker.
const PatternV1 = `thumbnail"[\s\S]+?` +
	`event_category':'(?P<member>.+?)'[\s\S]+?` +
	`'event_label':'(?P<url>.+?)'[\s\S]+?` +
	`height:17px;">\s+(?P<start>\S+)\s+</`

// PatternExtractor extracts records with a fixed regular expression. Swap the
// pattern when the page markup changes; nothing else depends on its shape.
type PatternExtractor struct {
	re         *regexp.Regexp
	liveMarker string
	member     int
	url        int
	start      int
}

// NewPatternExtractor builds an extractor for PatternV1.
func NewPatternExtractor(liveMarker string) *PatternExtractor {
	return newPatternExtractor(regexp.MustCompile(PatternV1), liveMarker)
}

// CompilePatternExtractor builds an extractor for a custom pattern. The
// pattern should declare the named groups member, url and start; missing
// groups extract as empty strings.
func CompilePatternExtractor(pattern, liveMarker string) (*PatternExtractor, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	return newPatternExtractor(re, liveMarker), nil
}

func newPatternExtractor(re *regexp.Regexp, liveMarker string) *PatternExtractor {
	if liveMarker == "" {
		liveMarker = DefaultLiveMarker
	}
	return &PatternExtractor{
		re:         re,
		liveMarker: liveMarker,
		member:     re.SubexpIndex("member"),
		url:        re.SubexpIndex("url"),
		start:      re.SubexpIndex("start"),
	}
}

// Extract returns one record per match in document order. Malformed input
// never fails; the worst case is an empty slice.
func (e *PatternExtractor) Extract(page string) []*Record {
	matches := e.re.FindAllStringSubmatchIndex(page, -1)
	records := make([]*Record, 0, len(matches))
	for _, loc := range matches {
		span := group(page, loc, 0)
		records = append(records, NewRecord(
			group(page, loc, e.member),
			group(page, loc, e.url),
			group(page, loc, e.start),
			strings.Contains(span, e.liveMarker),
		))
	}
	return records
}

// group returns the text of submatch i, or "" when the group is absent or did
// not participate in the match.
func group(page string, loc []int, i int) string {
	if i < 0 || 2*i+1 >= len(loc) {
		return ""
	}
	from, to := loc[2*i], loc[2*i+1]
	if from < 0 || to < 0 {
		return ""
	}
	return page[from:to]
}
