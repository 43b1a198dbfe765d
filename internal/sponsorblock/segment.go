package sponsorblock

// highlightWidthMillis is the display width given to point-in-time highlights.
const highlightWidthMillis = 1000

// Segment is one crowd-sourced interval of a video. Times are milliseconds.
type Segment struct {
	UUID        string    `json:"uuid"`
	StartMillis float64   `json:"start_millis"`
	EndMillis   float64   `json:"end_millis"`
	Category    Category  `json:"category"`
	Action      Action    `json:"action"`
	Chain       []Segment `json:"chain,omitempty"`
}

// NewSegment builds a segment. Highlights carry equal start and end on the
// wire, so their end is set one second after the start to stay visible.
func NewSegment(uuid string, startMillis, endMillis float64, category Category, action Action) Segment {
	if category == CategoryHighlight {
		endMillis = startMillis + highlightWidthMillis
	}
	return Segment{
		UUID:        uuid,
		StartMillis: startMillis,
		EndMillis:   endMillis,
		Category:    category,
		Action:      action,
		Chain:       []Segment{},
	}
}

// ChainStart is the start of the first chained segment, or the segment's own start.
func (s Segment) ChainStart() float64 {
	if len(s.Chain) == 0 {
		return s.StartMillis
	}
	return s.Chain[0].StartMillis
}

// ChainEnd is the furthest end among the segment and its chain. Members are
// ordered by start, so a nested segment may end before an earlier one.
func (s Segment) ChainEnd() float64 {
	end := s.EndMillis
	for _, c := range s.Chain {
		if c.EndMillis > end {
			end = c.EndMillis
		}
	}
	return end
}
