package dislike

import (
	"context"
	"io"
	"log/slog"
	"net/url"

	"github.com/gauthierbraillon/annotate/internal/jsonnav"
	"github.com/gauthierbraillon/annotate/internal/stream"
	"github.com/gauthierbraillon/annotate/internal/transport"
)

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithLogger sets the logger that records swallowed failures.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// Client fetches rating counts through a Downloader.
type Client struct {
	downloader transport.Downloader
	logger     *slog.Logger
}

// NewClient creates a rating client on top of d.
func NewClient(d transport.Downloader, opts ...ClientOption) *Client {
	c := &Client{
		downloader: d,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// FetchRatingInfo returns the community counts for s. It returns nil when
// no lookup could be made or the lookup failed.
func (c *Client) FetchRatingInfo(ctx context.Context, s stream.Info, settings Settings) *RatingInfo {
	if !s.Supported() || settings.APIURL == "" {
		return nil
	}

	reqURL := settings.APIURL + "votes?videoId=" + url.QueryEscape(s.ID)

	resp, err := transport.Get(ctx, c.downloader, reqURL)
	if err != nil {
		c.logger.Debug("rating lookup failed", "video", s.ID, "error", err)
		return nil
	}
	if !resp.OK() {
		c.logger.Debug("rating lookup rejected", "video", s.ID, "status", resp.StatusCode)
		return nil
	}

	obj, err := jsonnav.ParseObject(resp.Body)
	if err != nil {
		c.logger.Debug("rating response unreadable", "video", s.ID, "error", err)
		return nil
	}

	return &RatingInfo{
		Likes:     obj.Int64("likes", 0),
		Dislikes:  obj.Int64("dislikes", 0),
		Rating:    obj.Float64("rating", 0),
		ViewCount: obj.Int64("viewCount", 0),
		Deleted:   obj.Bool("deleted", false),
	}
}
