package enrich

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/gauthierbraillon/annotate/internal/dislike"
	"github.com/gauthierbraillon/annotate/internal/sponsorblock"
	"github.com/gauthierbraillon/annotate/internal/stream"
	"github.com/gauthierbraillon/annotate/internal/transport"
)

const defaultWorkers = 4

// EnricherOption configures the Enricher.
type EnricherOption func(*Enricher)

// WithLogger sets the logger passed down to both annotation clients.
func WithLogger(logger *slog.Logger) EnricherOption {
	return func(e *Enricher) {
		e.logger = logger
	}
}

// Enricher decorates streams with ratings and segments.
type Enricher struct {
	segments *sponsorblock.Client
	ratings  *dislike.Client
	options  Options
	logger   *slog.Logger
}

// New creates an Enricher whose clients share d.
func New(d transport.Downloader, options Options, opts ...EnricherOption) *Enricher {
	e := &Enricher{
		options: options,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(e)
	}

	e.segments = sponsorblock.NewClient(d, sponsorblock.WithLogger(e.logger))
	e.ratings = dislike.NewClient(d, dislike.WithLogger(e.logger))
	return e
}

// Decorate runs the rating lookup and the segment fetch for s concurrently.
func (e *Enricher) Decorate(ctx context.Context, s stream.Info) Item {
	item := Item{Stream: s, Segments: []sponsorblock.Segment{}}

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		item.Rating = e.ratings.FetchRatingInfo(ctx, s, e.options.Rating)
	}()

	go func() {
		defer wg.Done()
		segs, err := e.segments.FetchSegments(ctx, s, e.options.Segments)
		if err != nil {
			e.logger.Warn("segment response rejected", "video", s.ID, "error", err)
			item.SegmentsErr = err
			return
		}
		item.Segments = segs
	}()

	wg.Wait()
	return item
}

// DecorateAll decorates every stream using at most workers goroutines
// (workers <= 0 picks a small default). The result keeps the input order.
func (e *Enricher) DecorateAll(ctx context.Context, streams []stream.Info, workers int) []Item {
	if workers <= 0 {
		workers = defaultWorkers
	}

	items := make([]Item, len(streams))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers && w < len(streams); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				items[i] = e.Decorate(ctx, streams[i])
			}
		}()
	}

	for i := range streams {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return items
}
