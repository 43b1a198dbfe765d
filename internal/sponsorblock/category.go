package sponsorblock

import "github.com/gauthierbraillon/annotate/internal/jsonnav"

// Category is the kind of content a segment marks.
type Category string

// API names as used on the wire.
const (
	CategorySponsor     Category = "sponsor"
	CategoryIntro       Category = "intro"
	CategoryOutro       Category = "outro"
	CategoryInteraction Category = "interaction"
	CategoryHighlight   Category = "poi_highlight"
	CategorySelfPromo   Category = "selfpromo"
	CategoryNonMusic    Category = "music_offtopic"
	CategoryPreview     Category = "preview"
	CategoryFiller      Category = "filler"

	// CategoryPending marks a segment the user is still drawing. It is never sent.
	CategoryPending Category = "pending"
)

// AllCategories lists the requestable categories in their fixed request order.
var AllCategories = []Category{
	CategorySponsor,
	CategoryIntro,
	CategoryOutro,
	CategoryInteraction,
	CategoryHighlight,
	CategorySelfPromo,
	CategoryNonMusic,
	CategoryPreview,
	CategoryFiller,
}

// ParseCategory maps an API name to a Category. Unknown names fail closed,
// since HIGHLIGHT changes how a segment is built.
func ParseCategory(name string) (Category, error) {
	switch c := Category(name); c {
	case CategorySponsor, CategoryIntro, CategoryOutro, CategoryInteraction,
		CategoryHighlight, CategorySelfPromo, CategoryNonMusic, CategoryPreview, CategoryFiller:
		return c, nil
	}
	return "", jsonnav.Errorf("category", "unknown segment category %q", name)
}

// Action is what a player should do with a segment.
type Action string

const (
	ActionSkip Action = "skip"
	// ActionPOI marks a point of interest rather than a range.
	ActionPOI Action = "poi"
)

// ParseAction maps an API name to an Action, failing closed.
func ParseAction(name string) (Action, error) {
	switch a := Action(name); a {
	case ActionSkip, ActionPOI:
		return a, nil
	}
	return "", jsonnav.Errorf("actionType", "unknown segment action %q", name)
}

// actionFor returns the action a submission of category c carries.
func actionFor(c Category) Action {
	if c == CategoryHighlight {
		return ActionPOI
	}
	return ActionSkip
}

// Vote is a vote type accepted by voteOnSponsorTime.
type Vote int

const (
	VoteDown Vote = 0
	VoteUp   Vote = 1
	VoteUndo Vote = 20
)
