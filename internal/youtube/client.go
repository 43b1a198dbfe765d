package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/gauthierbraillon/annotate/internal/jsonnav"
	"github.com/gauthierbraillon/annotate/internal/listing"
	"github.com/gauthierbraillon/annotate/internal/transport"
)

const (
	defaultBaseURL = "https://www.youtube.com"

	clientName    = "WEB"
	clientVersion = "2.20250122.04.00"

	trendingBrowseID = "FEtrending"
	// VideosTabParams selects the "Videos" tab of the trending kiosk.
	VideosTabParams = "4gIOGgxtb3N0X3BvcHVsYXI%3D"
)

// ClientOption configures the TrendingExtractor.
type ClientOption func(*TrendingExtractor)

// WithBaseURL sets a custom base URL (useful for testing).
func WithBaseURL(url string) ClientOption {
	return func(e *TrendingExtractor) {
		e.baseURL = url
	}
}

// WithLocalization sets the interface language and content country.
func WithLocalization(l Localization) ClientOption {
	return func(e *TrendingExtractor) {
		e.localization = l
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(e *TrendingExtractor) {
		e.logger = logger
	}
}

// TrendingExtractor reads the trending kiosk. It implements
// listing.Extractor[StreamItem]; a fetched extractor keeps the raw page so
// Name and InitialPage can be read in any order afterwards.
type TrendingExtractor struct {
	downloader   transport.Downloader
	baseURL      string
	localization Localization
	logger       *slog.Logger

	initialData jsonnav.Object
}

// NewTrendingExtractor creates an unfetched extractor on top of d.
func NewTrendingExtractor(d transport.Downloader, opts ...ClientOption) *TrendingExtractor {
	e := &TrendingExtractor{
		downloader:   d,
		baseURL:      defaultBaseURL,
		localization: DefaultLocalization,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Fetch posts the browse request and caches the response tree. A 429 is
// returned as transport.ErrChallenge so callers can back off.
func (e *TrendingExtractor) Fetch(ctx context.Context) error {
	body, err := json.Marshal(newBrowseBody(e.localization, trendingBrowseID, VideosTabParams))
	if err != nil {
		return fmt.Errorf("failed to encode browse request: %w", err)
	}

	data, err := e.doBrowse(ctx, body)
	if err != nil {
		return err
	}

	obj, err := jsonnav.ParseObject(data)
	if err != nil {
		return fmt.Errorf("failed to parse trending response: %w", err)
	}

	e.initialData = obj
	e.logger.Debug("trending page fetched", "hl", e.localization.code(), "gl", e.localization.Country)
	return nil
}

// Name returns the kiosk title, trying each known header layout in turn.
func (e *TrendingExtractor) Name() (string, error) {
	if e.initialData == nil {
		return "", listing.ErrNotFetched
	}

	header := e.initialData.Object("header")
	variants := []struct {
		renderer string
		key      string
	}{
		{"feedTabbedHeaderRenderer", "title"},
		{"c4TabbedHeaderRenderer", "title"},
		{"pageHeaderRenderer", "pageTitle"},
	}

	for _, v := range variants {
		if !header.Has(v.renderer) {
			continue
		}
		if name := textAtKey(header.Object(v.renderer), v.key); name != "" {
			return name, nil
		}
	}

	return "", jsonnav.Errorf("header", "could not get trending name")
}

// InitialPage extracts the items of the selected tab in document order.
// Trending has no continuation, so the page never carries a cursor.
func (e *TrendingExtractor) InitialPage() (listing.Page[StreamItem], error) {
	if e.initialData == nil {
		return listing.Page[StreamItem]{}, listing.ErrNotFetched
	}

	tab, err := e.selectedTab()
	if err != nil {
		return listing.Page[StreamItem]{}, err
	}

	view := ViewDefault
	if tab.Path("endpoint", "browseEndpoint").String("params", "") == VideosTabParams {
		view = ViewVideos
	}

	renderers, err := videoRenderers(tab.Object("content"), view)
	if err != nil {
		return listing.Page[StreamItem]{}, err
	}

	collector := listing.NewCollector[StreamItem]()
	for _, r := range renderers {
		collector.Commit(NewVideoRendererExtractor(r))
	}

	return collector.Page(nil), nil
}

// PageAt always returns an empty page.
func (e *TrendingExtractor) PageAt(ctx context.Context, cursor *listing.Cursor) (listing.Page[StreamItem], error) {
	return listing.EmptyPage[StreamItem](), nil
}

func (e *TrendingExtractor) selectedTab() (jsonnav.Object, error) {
	tabs := e.initialData.Path("contents", "twoColumnBrowseResultsRenderer").Array("tabs")
	for _, t := range tabs.Objects() {
		tab := t.Object("tabRenderer")
		if tab.Bool("selected", false) && tab.Has("content") {
			return tab, nil
		}
	}
	return nil, jsonnav.Errorf("tabs", "could not get \"Now\" or \"Videos\" trending tab")
}

func (e *TrendingExtractor) doBrowse(ctx context.Context, body []byte) ([]byte, error) {
	header := http.Header{}
	header.Set("Content-Type", "application/json")
	header.Set("Accept-Language", e.localization.code())
	header.Set("Origin", defaultBaseURL)
	header.Set("Referer", defaultBaseURL)
	header.Set("X-YouTube-Client-Name", "1")
	header.Set("X-YouTube-Client-Version", clientVersion)

	url := e.baseURL + "/youtubei/v1/browse?prettyPrint=false"

	resp, err := transport.Post(ctx, e.downloader, url, header, body)
	if err != nil {
		return nil, fmt.Errorf("YouTube browse request failed: %w", err)
	}

	if !resp.OK() {
		return nil, handleAPIError(resp.StatusCode)
	}

	return resp.Body, nil
}

// Browse request body (private - implementation detail)

type browseBody struct {
	Context  browseContext `json:"context"`
	BrowseID string        `json:"browseId"`
	Params   string        `json:"params,omitempty"`
}

type browseContext struct {
	Client struct {
		HL               string `json:"hl"`
		GL               string `json:"gl"`
		ClientName       string `json:"clientName"`
		ClientVersion    string `json:"clientVersion"`
		OriginalURL      string `json:"originalUrl"`
		Platform         string `json:"platform"`
		UTCOffsetMinutes int    `json:"utcOffsetMinutes"`
	} `json:"client"`
	Request struct {
		InternalExperimentFlags []string `json:"internalExperimentFlags"`
		UseSSL                  bool     `json:"useSsl"`
	} `json:"request"`
	User struct {
		LockedSafetyMode bool `json:"lockedSafetyMode"`
	} `json:"user"`
}

func newBrowseBody(l Localization, browseID, params string) browseBody {
	var b browseBody
	b.BrowseID = browseID
	b.Params = params
	b.Context.Client.HL = l.code()
	b.Context.Client.GL = l.Country
	b.Context.Client.ClientName = clientName
	b.Context.Client.ClientVersion = clientVersion
	b.Context.Client.OriginalURL = defaultBaseURL
	b.Context.Client.Platform = "DESKTOP"
	b.Context.Request.InternalExperimentFlags = []string{}
	b.Context.Request.UseSSL = true
	return b
}

func handleAPIError(statusCode int) error {
	switch statusCode {
	case http.StatusForbidden:
		return fmt.Errorf("YouTube browse access denied (status %d)", statusCode)
	case http.StatusNotFound:
		return fmt.Errorf("YouTube browse endpoint not found (status %d)", statusCode)
	case http.StatusServiceUnavailable:
		return fmt.Errorf("YouTube temporarily unavailable - please try again in a few minutes")
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusGatewayTimeout:
		return fmt.Errorf("YouTube server error (status %d) - please try again later", statusCode)
	default:
		return fmt.Errorf("YouTube browse error (status %d)", statusCode)
	}
}
