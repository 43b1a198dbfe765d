// Package sponsorblock retrieves and submits crowd-sourced timeline segments.
//
// Lookups are routed by a 4-character SHA-256 prefix of the video id, so the
// service only learns a bucket shared by many videos; the client filters the
// bucket down to the requested video. Every call here is best-effort: failures
// yield empty results, except an unknown category or action in a response,
// which is reported as a parsing error.
package sponsorblock

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gauthierbraillon/annotate/internal/jsonnav"
	"github.com/gauthierbraillon/annotate/internal/stream"
	"github.com/gauthierbraillon/annotate/internal/transport"
)

// userAgentParam is sent as a query parameter, not as a header.
const userAgentParam = "Mozilla/5.0"

const actionTypesParam = `["skip","poi"]`

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithLogger sets the logger that records swallowed failures.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// Client talks to a SponsorBlock-compatible API through a Downloader.
type Client struct {
	downloader transport.Downloader
	logger     *slog.Logger
}

// NewClient creates a segment client on top of d.
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

// Outcome reports what happened to a submission or vote.
type Outcome struct {
	// Sent is false when nothing reached the server.
	Sent       bool
	StatusCode int
}

// OK reports a request the server accepted.
func (o Outcome) OK() bool {
	return o.Sent && o.StatusCode >= 200 && o.StatusCode < 300
}

// HashPrefix returns the routing prefix for videoID.
func HashPrefix(videoID string) string {
	sum := sha256.Sum256([]byte(videoID))
	return hex.EncodeToString(sum[:])[:4]
}

// FetchSegments returns the segments of s in the enabled categories. The
// returned slice is never nil.
func (c *Client) FetchSegments(ctx context.Context, s stream.Info, settings Settings) ([]Segment, error) {
	if !s.Supported() || settings.APIURL == "" {
		return []Segment{}, nil
	}

	cats := settings.Categories()
	if len(cats) == 0 {
		return []Segment{}, nil
	}

	reqURL := settings.APIURL + "skipSegments/" + HashPrefix(s.ID) +
		"?categories=" + url.QueryEscape(EncodeCategories(cats)) +
		"&actionTypes=" + url.QueryEscape(actionTypesParam) +
		"&userAgent=" + userAgentParam

	resp, err := transport.Get(ctx, c.downloader, reqURL)
	if err != nil {
		c.logger.Debug("segment lookup failed", "video", s.ID, "error", err)
		return []Segment{}, nil
	}
	if !resp.OK() {
		c.logger.Debug("segment lookup rejected", "video", s.ID, "status", resp.StatusCode)
		return []Segment{}, nil
	}

	records, err := jsonnav.ParseArray(resp.Body)
	if err != nil {
		c.logger.Debug("segment response unreadable", "video", s.ID, "error", err)
		return []Segment{}, nil
	}

	return parseSegments(records, s.ID)
}

func parseSegments(records jsonnav.Array, videoID string) ([]Segment, error) {
	result := []Segment{}

	for _, record := range records.Objects() {
		if record.String("videoID", "") != videoID {
			continue
		}

		for _, entry := range record.Array("segments").Objects() {
			bounds := entry.Array("segment")
			if len(bounds) < 2 {
				continue
			}

			category, err := ParseCategory(entry.String("category", ""))
			if err != nil {
				return nil, fmt.Errorf("segment of %s: %w", videoID, err)
			}
			action, err := ParseAction(entry.String("actionType", ""))
			if err != nil {
				return nil, fmt.Errorf("segment of %s: %w", videoID, err)
			}

			result = append(result, NewSegment(
				entry.String("UUID", ""),
				bounds.Float64(0, 0)*1000,
				bounds.Float64(1, 0)*1000,
				category,
				action,
			))
		}
	}

	return result, nil
}

// SubmitSegment proposes seg for s. Pending segments and unsupported
// origins are not sent.
func (c *Client) SubmitSegment(ctx context.Context, s stream.Info, seg Segment, apiURL string) Outcome {
	if seg.Category == CategoryPending || !s.Supported() || apiURL == "" {
		return Outcome{}
	}

	userID, err := NewUserID()
	if err != nil {
		c.logger.Debug("could not generate user id", "error", err)
		return Outcome{}
	}

	start := seg.StartMillis / 1000
	end := seg.EndMillis / 1000
	if seg.Category == CategoryHighlight {
		end = start
	}

	q := url.Values{}
	q.Set("videoID", s.ID)
	q.Set("startTime", formatSeconds(start))
	q.Set("endTime", formatSeconds(end))
	q.Set("category", string(seg.Category))
	q.Set("userID", userID)
	q.Set("userAgent", userAgentParam)
	q.Set("actionType", string(actionFor(seg.Category)))

	return c.post(ctx, apiURL+"skipSegments?"+q.Encode())
}

// VoteOnSegment casts vote on the segment identified by uuid.
func (c *Client) VoteOnSegment(ctx context.Context, uuid, apiURL string, vote Vote) Outcome {
	if uuid == "" || apiURL == "" {
		return Outcome{}
	}

	userID, err := NewUserID()
	if err != nil {
		c.logger.Debug("could not generate user id", "error", err)
		return Outcome{}
	}

	q := url.Values{}
	q.Set("UUID", uuid)
	q.Set("userID", userID)
	q.Set("type", strconv.Itoa(int(vote)))

	return c.post(ctx, apiURL+"voteOnSponsorTime?"+q.Encode())
}

func (c *Client) post(ctx context.Context, reqURL string) Outcome {
	resp, err := transport.Post(ctx, c.downloader, reqURL, nil, []byte{})
	if err != nil {
		var challenge *transport.ChallengeError
		if errors.As(err, &challenge) {
			return Outcome{Sent: true, StatusCode: http.StatusTooManyRequests}
		}
		c.logger.Debug("segment submission failed", "error", err)
		return Outcome{}
	}
	return Outcome{Sent: true, StatusCode: resp.StatusCode}
}

func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
