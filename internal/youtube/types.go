// Package youtube extracts listings from YouTube's internal browse endpoint.
//
// This package enables annotate to:
// - Fetch the trending kiosk with a locale-aware browse request
// - Recognise the grid and shelf layouts the page arrives in
// - Normalise videoRenderer nodes into StreamItem values
package youtube

// Thumbnail is one rendition of an item's preview image.
type Thumbnail struct {
	URL    string `json:"url"`
	Width  int64  `json:"width"`
	Height int64  `json:"height"`
}

// StreamItem is a normalised video entry of a listing. DurationSeconds is -1
// for live streams and unknown lengths, and ViewCount is -1 when the page
// shows no count.
type StreamItem struct {
	ID                string      `json:"id"`
	Name              string      `json:"name"`
	URL               string      `json:"url"`
	UploaderName      string      `json:"uploader_name"`
	UploaderURL       string      `json:"uploader_url,omitempty"`
	UploaderVerified  bool        `json:"uploader_verified"`
	Thumbnails        []Thumbnail `json:"thumbnails"`
	DurationSeconds   int64       `json:"duration_seconds"`
	ViewCount         int64       `json:"view_count"`
	TextualUploadDate string      `json:"textual_upload_date,omitempty"`
	ShortForm         bool        `json:"short_form"`
}

// Localization selects the interface language and content country.
type Localization struct {
	Language string
	Country  string
}

// DefaultLocalization is used when none is configured.
var DefaultLocalization = Localization{Language: "en", Country: "US"}

// code renders the hl value, e.g. "en-GB".
func (l Localization) code() string {
	if l.Country == "" {
		return l.Language
	}
	return l.Language + "-" + l.Country
}
