// Package enrich layers community annotations onto extracted streams.
//
// This package enables annotate to:
// - Decorate one stream with its rating counts and skip segments
// - Decorate a whole listing with a bounded number of workers
// - Keep the primary item intact whatever the annotation services do
package enrich

import (
	"github.com/gauthierbraillon/annotate/internal/dislike"
	"github.com/gauthierbraillon/annotate/internal/sponsorblock"
	"github.com/gauthierbraillon/annotate/internal/stream"
)

// Item is a stream together with whatever annotations could be gathered.
type Item struct {
	Stream   stream.Info            `json:"stream"`
	Rating   *dislike.RatingInfo    `json:"rating,omitempty"`
	Segments []sponsorblock.Segment `json:"segments"`
	// SegmentsErr is set only when the segment service answered with a
	// category or action this client does not know.
	SegmentsErr error `json:"-"`
}

// HasAnnotations reports whether any annotation was found.
func (i Item) HasAnnotations() bool {
	return i.Rating != nil || len(i.Segments) > 0
}

// Options selects which services an Enricher consults.
type Options struct {
	Segments sponsorblock.Settings
	Rating   dislike.Settings
}
