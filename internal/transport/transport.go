// Package transport performs the HTTP exchanges the extractors depend on.
//
// Extractors only see the Downloader interface, so tests and callers can
// swap the network for anything that speaks Request/Response.
package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// ErrChallenge matches a *ChallengeError via errors.Is.
var ErrChallenge = errors.New("rate limited or challenged by server")

// ChallengeError is returned when the server answers HTTP 429, which the
// platform uses both for rate limiting and for anti-bot challenges.
type ChallengeError struct {
	URL string
}

func (e *ChallengeError) Error() string {
	return fmt.Sprintf("challenge requested by server (HTTP 429) for %s", e.URL)
}

func (e *ChallengeError) Is(target error) bool {
	return target == ErrChallenge
}

// Request describes one outgoing call.
type Request struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

// Response is a fully read server reply.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	// URL is the final URL after redirects.
	URL string
}

// OK reports a 2xx status.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Downloader executes requests. Implementations return *ChallengeError for
// HTTP 429 and a wrapped I/O error for transport failures; any other status
// is returned as a Response.
type Downloader interface {
	Execute(ctx context.Context, req Request) (*Response, error)
}

// Get is a convenience for a GET without extra headers.
func Get(ctx context.Context, d Downloader, url string) (*Response, error) {
	return d.Execute(ctx, Request{Method: http.MethodGet, URL: url})
}

// Post is a convenience for a POST with the given headers and body.
func Post(ctx context.Context, d Downloader, url string, header http.Header, body []byte) (*Response, error) {
	return d.Execute(ctx, Request{Method: http.MethodPost, URL: url, Header: header, Body: body})
}
