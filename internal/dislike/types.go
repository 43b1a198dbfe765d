// Package dislike looks up community rating counts for a stream.
//
// This package enables annotate to:
// - Restore public dislike counts from a ReturnYouTubeDislike-style service
// - Layer them onto an already-extracted stream without ever failing it
package dislike

// DefaultAPIURL is the public ReturnYouTubeDislike instance.
const DefaultAPIURL = "https://returnyoutubedislikeapi.com/"

// Settings points at the rating service. APIURL must end with a slash.
type Settings struct {
	APIURL string
}

// RatingInfo is a snapshot of one lookup.
type RatingInfo struct {
	Likes     int64   `json:"likes"`
	Dislikes  int64   `json:"dislikes"`
	Rating    float64 `json:"rating"`
	ViewCount int64   `json:"view_count"`
	Deleted   bool    `json:"deleted"`
}
