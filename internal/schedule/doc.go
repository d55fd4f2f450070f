// Package schedule defines the broadcast schedule records shared across the
// extraction, enrichment, and presentation stages, together with the
// pattern-based extractor that produces them from raw schedule markup.
package schedule
