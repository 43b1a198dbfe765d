package youtube

import (
	"strconv"
	"strings"

	"github.com/gauthierbraillon/annotate/internal/jsonnav"
)

const watchURLPrefix = "https://www.youtube.com/watch?v="

// VideoRendererExtractor normalises one videoRenderer node.
type VideoRendererExtractor struct {
	renderer jsonnav.Object
}

// NewVideoRendererExtractor wraps a videoRenderer node.
func NewVideoRendererExtractor(renderer jsonnav.Object) *VideoRendererExtractor {
	return &VideoRendererExtractor{renderer: renderer}
}

// Extract builds the StreamItem. Only the video id is required.
func (e *VideoRendererExtractor) Extract() (StreamItem, error) {
	r := e.renderer

	id, err := r.RequireString("videoId")
	if err != nil {
		return StreamItem{}, err
	}

	owner := r.Object("ownerText")
	if len(owner.Array("runs")) == 0 {
		owner = r.Object("longBylineText")
	}

	return StreamItem{
		ID:                id,
		Name:              textFromObject(r.Object("title")),
		URL:               watchURLPrefix + id,
		UploaderName:      textFromObject(owner),
		UploaderURL:       uploaderURL(owner),
		UploaderVerified:  verified(r.Array("ownerBadges")),
		Thumbnails:        thumbnails(r.Path("thumbnail").Array("thumbnails")),
		DurationSeconds:   parseDuration(textFromObject(r.Object("lengthText"))),
		ViewCount:         parseViewCount(textFromObject(r.Object("viewCountText"))),
		TextualUploadDate: textFromObject(r.Object("publishedTimeText")),
		ShortForm:         r.Path("navigationEndpoint").Has("reelWatchEndpoint"),
	}, nil
}

func uploaderURL(owner jsonnav.Object) string {
	runs := owner.Array("runs").Objects()
	if len(runs) == 0 {
		return ""
	}
	browseID := runs[0].Path("navigationEndpoint", "browseEndpoint").String("browseId", "")
	if browseID == "" {
		return ""
	}
	return "https://www.youtube.com/channel/" + browseID
}

func verified(badges jsonnav.Array) bool {
	for _, b := range badges.Objects() {
		style := b.Object("metadataBadgeRenderer").String("style", "")
		if style == "BADGE_STYLE_TYPE_VERIFIED" || style == "BADGE_STYLE_TYPE_VERIFIED_ARTIST" {
			return true
		}
	}
	return false
}

func thumbnails(arr jsonnav.Array) []Thumbnail {
	out := make([]Thumbnail, 0, len(arr))
	for _, t := range arr.Objects() {
		u := t.String("url", "")
		if u == "" {
			continue
		}
		if strings.HasPrefix(u, "//") {
			u = "https:" + u
		}
		out = append(out, Thumbnail{
			URL:    u,
			Width:  t.Int64("width", 0),
			Height: t.Int64("height", 0),
		})
	}
	return out
}

// parseDuration converts "1:02:03", "2:03" or "45" to seconds, or -1.
func parseDuration(s string) int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return -1
	}

	var total int64
	for _, part := range strings.Split(s, ":") {
		n, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil || n < 0 {
			return -1
		}
		total = total*60 + n
	}
	return total
}

// parseViewCount keeps the digits of "1,234,567 views"; text without digits
// ("No views") is zero and an absent text is -1.
func parseViewCount(s string) int64 {
	if strings.TrimSpace(s) == "" {
		return -1
	}

	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
	if digits == "" {
		return 0
	}

	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return -1
	}
	return n
}
