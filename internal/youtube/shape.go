package youtube

import "github.com/gauthierbraillon/annotate/internal/jsonnav"

// Shape is the container layout of a tab's content node.
type Shape int

const (
	ShapeUnknown Shape = iota
	// ShapeRichGrid is a richGridRenderer of richItemRenderer cells.
	ShapeRichGrid
	// ShapeSectionList is a sectionListRenderer of shelves.
	ShapeSectionList
)

func (s Shape) String() string {
	switch s {
	case ShapeRichGrid:
		return "richGridRenderer"
	case ShapeSectionList:
		return "sectionListRenderer"
	}
	return "unknown"
}

// View is the caller intent used to pick shelves in a section list.
type View int

const (
	// ViewDefault keeps shelves without a title; titled shelves hold shorts
	// and "recently trending" rows.
	ViewDefault View = iota
	// ViewVideos keeps only the first shelf.
	ViewVideos
)

// ClassifyContent decides the layout of content once, returning the
// container node to read from.
func ClassifyContent(content jsonnav.Object) (Shape, jsonnav.Object) {
	switch {
	case content.Has("richGridRenderer"):
		return ShapeRichGrid, content.Object("richGridRenderer")
	case content.Has("sectionListRenderer"):
		return ShapeSectionList, content.Object("sectionListRenderer")
	}
	return ShapeUnknown, jsonnav.Object{}
}

// videoRenderers returns the videoRenderer nodes of content in document order.
func videoRenderers(content jsonnav.Object, view View) ([]jsonnav.Object, error) {
	shape, node := ClassifyContent(content)

	switch shape {
	case ShapeRichGrid:
		return gridRenderers(node), nil
	case ShapeSectionList:
		shelves := selectShelves(sectionShelves(node), view)
		if len(shelves) == 0 {
			return nil, jsonnav.Errorf("shelfRenderer", "no shelf matches the requested view")
		}
		var out []jsonnav.Object
		for _, shelf := range shelves {
			items := shelf.Path("content", "expandedShelfContentsRenderer").Array("items")
			for _, item := range items.Objects() {
				if item.Has("videoRenderer") {
					out = append(out, item.Object("videoRenderer"))
				}
			}
		}
		return out, nil
	}

	return nil, jsonnav.Errorf("content", "unrecognised content layout")
}

func gridRenderers(grid jsonnav.Object) []jsonnav.Object {
	var out []jsonnav.Object
	for _, cell := range grid.Array("contents").Objects() {
		if !cell.Has("richItemRenderer") {
			continue
		}
		content := cell.Path("richItemRenderer", "content")
		if content.Has("videoRenderer") {
			out = append(out, content.Object("videoRenderer"))
		}
	}
	return out
}

func sectionShelves(list jsonnav.Object) []jsonnav.Object {
	var shelves []jsonnav.Object
	for _, section := range list.Array("contents").Objects() {
		for _, c := range section.Object("itemSectionRenderer").Array("contents").Objects() {
			if c.Has("shelfRenderer") {
				shelves = append(shelves, c.Object("shelfRenderer"))
			}
		}
	}
	return shelves
}

// selectShelves applies the view. Only one shelf is expected to match; for
// ViewVideos the first wins and the rest are ignored.
func selectShelves(shelves []jsonnav.Object, view View) []jsonnav.Object {
	if view == ViewVideos {
		if len(shelves) == 0 {
			return nil
		}
		return shelves[:1]
	}

	var out []jsonnav.Object
	for _, s := range shelves {
		if !s.Has("title") {
			out = append(out, s)
		}
	}
	return out
}
