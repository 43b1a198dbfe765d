package sponsorblock

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/gauthierbraillon/annotate/internal/jsonnav"
)

// DefaultAPIURL is the public SponsorBlock instance.
const DefaultAPIURL = "https://sponsor.ajay.app/api/"

// Settings selects the categories to request and the service to ask.
// APIURL must end with a slash; paths are appended to it verbatim.
type Settings struct {
	APIURL string

	Sponsor     bool
	Intro       bool
	Outro       bool
	Interaction bool
	Highlight   bool
	SelfPromo   bool
	NonMusic    bool
	Preview     bool
	Filler      bool
}

// Categories returns the enabled categories in request order.
func (s Settings) Categories() []Category {
	enabled := []bool{
		s.Sponsor,
		s.Intro,
		s.Outro,
		s.Interaction,
		s.Highlight,
		s.SelfPromo,
		s.NonMusic,
		s.Preview,
		s.Filler,
	}

	out := make([]Category, 0, len(AllCategories))
	for i, c := range AllCategories {
		if enabled[i] {
			out = append(out, c)
		}
	}
	return out
}

// Enable switches on category c. Unknown categories are rejected.
func (s *Settings) Enable(c Category) error {
	switch c {
	case CategorySponsor:
		s.Sponsor = true
	case CategoryIntro:
		s.Intro = true
	case CategoryOutro:
		s.Outro = true
	case CategoryInteraction:
		s.Interaction = true
	case CategoryHighlight:
		s.Highlight = true
	case CategorySelfPromo:
		s.SelfPromo = true
	case CategoryNonMusic:
		s.NonMusic = true
	case CategoryPreview:
		s.Preview = true
	case CategoryFiller:
		s.Filler = true
	default:
		return fmt.Errorf("cannot enable category %q", c)
	}
	return nil
}

// EncodeCategories renders categories as the JSON array the API expects.
// Category names are plain ASCII, so Go quoting yields valid JSON strings.
func EncodeCategories(cats []Category) string {
	quoted := make([]string, len(cats))
	for i, c := range cats {
		quoted[i] = strconv.Quote(string(c))
	}
	return "[" + strings.Join(quoted, ",") + "]"
}

// DecodeCategories parses a JSON array of API names.
func DecodeCategories(s string) ([]Category, error) {
	var names []string
	if err := json.Unmarshal([]byte(strings.TrimSpace(s)), &names); err != nil {
		return nil, &jsonnav.ParsingError{Key: "categories", Reason: err.Error()}
	}

	out := make([]Category, 0, len(names))
	for _, n := range names {
		c, err := ParseCategory(n)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}
