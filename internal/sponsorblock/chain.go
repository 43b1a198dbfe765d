package sponsorblock

import "sort"

// MergeChains groups segments whose intervals overlap or touch into chains.
// FetchSegments never calls it; it serves presentation layers that draw one
// region per chain.
//
// The result holds one head segment per connected component, ordered by
// start. A component of two or more segments carries all of its members,
// head included, in Chain, and the head's EndMillis is widened to the
// furthest member end. A lone segment keeps an empty Chain. The input is
// not modified.
func MergeChains(segments []Segment) []Segment {
	if len(segments) == 0 {
		return []Segment{}
	}

	sorted := make([]Segment, len(segments))
	for i, s := range segments {
		s.Chain = nil
		sorted[i] = s
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartMillis < sorted[j].StartMillis
	})

	var out []Segment
	group := []Segment{sorted[0]}
	groupEnd := sorted[0].EndMillis

	flush := func() {
		head := group[0]
		if len(group) > 1 {
			head.Chain = group
			head.EndMillis = groupEnd
		} else {
			head.Chain = []Segment{}
		}
		out = append(out, head)
	}

	for _, s := range sorted[1:] {
		if s.StartMillis <= groupEnd {
			group = append(group, s)
			if s.EndMillis > groupEnd {
				groupEnd = s.EndMillis
			}
			continue
		}
		flush()
		group = []Segment{s}
		groupEnd = s.EndMillis
	}
	flush()

	return out
}
