// Package stream holds the primary item that augmentation decorates.
package stream

import "net/url"

const (
	supportedScheme = "https"
	supportedHost   = "www.youtube.com"

	// SupportedOrigin is the only origin the annotation services index.
	SupportedOrigin = supportedScheme + "://" + supportedHost
)

// Info is already-extracted stream metadata.
type Info struct {
	ID   string `json:"id"`
	URL  string `json:"url"`
	Name string `json:"name,omitempty"`
}

// FromVideoID builds the canonical watch URL for a platform video id.
func FromVideoID(id string) Info {
	return Info{
		ID:  id,
		URL: SupportedOrigin + "/watch?v=" + url.QueryEscape(id),
	}
}

// Supported reports whether the stream belongs to the supported origin. The
// scheme and host must match exactly; a host that merely starts with the
// origin's host does not count.
func (i Info) Supported() bool {
	if i.ID == "" {
		return false
	}
	u, err := url.Parse(i.URL)
	if err != nil {
		return false
	}
	return u.Scheme == supportedScheme && u.Host == supportedHost
}
