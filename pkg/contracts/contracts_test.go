// Package contracts tests pin the wire shapes of the annotation services.
//
// Each contract below is a verbatim-shaped response of a public service.
// The schema tests check the documented field types; the integration tests
// feed the same payloads to the real clients.
package contracts

import (
	"testing"

	"github.com/gauthierbraillon/annotate/internal/jsonnav"
	"github.com/gauthierbraillon/annotate/internal/sponsorblock"
)

// SkipSegmentsContract is a GET /api/skipSegments/{prefix} response: one
// record per video in the hash bucket.
const SkipSegmentsContract = `[
  {
    "videoID": "dQw4w9WgXcQ",
    "hash": "5f6b0b4e201f2a7e66927abb5cadeec81624dcc8efe6644b78aa182213f653a2",
    "segments": [
      {"category": "sponsor", "actionType": "skip", "segment": [0.0, 10.5], "UUID": "1a2b3c", "videoDuration": 212.1, "locked": 1, "votes": 12, "description": ""},
      {"category": "poi_highlight", "actionType": "poi", "segment": [43.0, 43.0], "UUID": "4d5e6f", "videoDuration": 212.1, "locked": 0, "votes": 3, "description": ""}
    ]
  },
  {
    "videoID": "someOtherId",
    "hash": "5f6b000000000000000000000000000000000000000000000000000000000000",
    "segments": [
      {"category": "intro", "actionType": "skip", "segment": [1.0, 4.0], "UUID": "7a8b9c", "videoDuration": 60.0, "locked": 0, "votes": 0, "description": ""}
    ]
  }
]`

// VotesContract is a GET /votes?videoId= response.
const VotesContract = `{
  "id": "dQw4w9WgXcQ",
  "dateCreated": "2021-11-15T02:57:43.123447Z",
  "likes": 16420000,
  "dislikes": 421337,
  "rating": 4.8,
  "viewCount": 1500000000,
  "deleted": false
}`

// BrowseTrendingContract is the part of a browse FEtrending response the
// extractor reads.
const BrowseTrendingContract = `{
  "responseContext": {"serviceTrackingParams": []},
  "header": {"feedTabbedHeaderRenderer": {"title": {"runs": [{"text": "Trending"}]}}},
  "contents": {"twoColumnBrowseResultsRenderer": {"tabs": [
    {"tabRenderer": {
      "selected": true,
      "endpoint": {"browseEndpoint": {"browseId": "FEtrending", "params": "4gIOGgxtb3N0X3BvcHVsYXI%3D"}},
      "content": {"sectionListRenderer": {"contents": [
        {"itemSectionRenderer": {"contents": [{"shelfRenderer": {
          "content": {"expandedShelfContentsRenderer": {"items": [
            {"videoRenderer": {
              "videoId": "dQw4w9WgXcQ",
              "title": {"runs": [{"text": "Rick Astley - Never Gonna Give You Up"}]},
              "ownerText": {"runs": [{"text": "Rick Astley", "navigationEndpoint": {"browseEndpoint": {"browseId": "UCuAXFkgsw1L7xaCfnd5JJOw"}}}]},
              "lengthText": {"simpleText": "3:33"},
              "viewCountText": {"simpleText": "1,500,000,000 views"},
              "publishedTimeText": {"simpleText": "14 years ago"}
            }}
          ]}}
        }}]}}
      ]}}
    }}
  ]}}
}`

// TestSkipSegmentsContract_FieldTypes checks the fields the segment engine reads.
func TestSkipSegmentsContract_FieldTypes(t *testing.T) {
	records, err := jsonnav.ParseArray([]byte(SkipSegmentsContract))
	if err != nil {
		t.Fatalf("contract should be a JSON array: %v", err)
	}

	for i, record := range records.Objects() {
		if _, err := record.RequireString("videoID"); err != nil {
			t.Errorf("record %d: %v", i, err)
		}
		segments, err := record.RequireArray("segments")
		if err != nil {
			t.Fatalf("record %d: %v", i, err)
		}

		for j, seg := range segments.Objects() {
			if _, err := seg.RequireString("UUID"); err != nil {
				t.Errorf("record %d segment %d: %v", i, j, err)
			}
			category, _ := seg.RequireString("category")
			if _, err := sponsorblock.ParseCategory(category); err != nil {
				t.Errorf("record %d segment %d: %v", i, j, err)
			}
			action, _ := seg.RequireString("actionType")
			if _, err := sponsorblock.ParseAction(action); err != nil {
				t.Errorf("record %d segment %d: %v", i, j, err)
			}
			bounds := seg.Array("segment")
			if len(bounds) != 2 || bounds.Float64(0, -1) < 0 || bounds.Float64(1, -1) < bounds.Float64(0, -1) {
				t.Errorf("record %d segment %d: segment should be an ordered [start, end] pair, got %v", i, j, bounds)
			}
		}
	}
}

// TestSkipSegmentsContract_BucketMatchesHashPrefix checks every record shares
// the prefix the request was routed by.
func TestSkipSegmentsContract_BucketMatchesHashPrefix(t *testing.T) {
	records, _ := jsonnav.ParseArray([]byte(SkipSegmentsContract))
	prefix := sponsorblock.HashPrefix("dQw4w9WgXcQ")

	for _, record := range records.Objects() {
		hash := record.String("hash", "")
		if len(hash) < len(prefix) || hash[:len(prefix)] != prefix {
			t.Errorf("record %q is outside bucket %q", record.String("videoID", ""), prefix)
		}
	}
}

// TestVotesContract_FieldTypes checks the counts are numbers and deleted is a bool.
func TestVotesContract_FieldTypes(t *testing.T) {
	obj, err := jsonnav.ParseObject([]byte(VotesContract))
	if err != nil {
		t.Fatalf("contract should be a JSON object: %v", err)
	}

	for _, field := range []string{"likes", "dislikes", "rating", "viewCount"} {
		if _, err := obj.RequireFloat64(field); err != nil {
			t.Errorf("%s: %v", field, err)
		}
	}
	if v, ok := obj["deleted"].(bool); !ok || v {
		t.Errorf("deleted should be a false boolean, got %v", obj["deleted"])
	}
}

// TestBrowseTrendingContract_HasSelectedTab checks the navigation path the
// extractor relies on.
func TestBrowseTrendingContract_HasSelectedTab(t *testing.T) {
	obj, err := jsonnav.ParseObject([]byte(BrowseTrendingContract))
	if err != nil {
		t.Fatalf("contract should be a JSON object: %v", err)
	}

	tabs := obj.Path("contents", "twoColumnBrowseResultsRenderer").Array("tabs").Objects()
	if len(tabs) == 0 {
		t.Fatal("contract should have tabs")
	}
	tab := tabs[0].Object("tabRenderer")
	if !tab.Bool("selected", false) {
		t.Error("first tab should be selected")
	}
	if _, err := tab.RequireObject("content"); err != nil {
		t.Error(err)
	}
}
