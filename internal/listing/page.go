// Package listing collects items from paginated browse-style endpoints.
//
// An Extractor fetches one listing and exposes its pages; a Session walks
// them in order until no continuation cursor is returned.
package listing

import "errors"

var (
	// ErrNotFetched is returned when page data is read before Fetch.
	ErrNotFetched = errors.New("listing not fetched yet")
	// ErrExhausted is returned when a session has no further pages.
	ErrExhausted = errors.New("listing has no more pages")
)

// Cursor is an opaque continuation token. Callers pass it back verbatim.
type Cursor struct {
	URL  string
	ID   string
	Body []byte
}

// Page is one page of normalised items. Errors holds per-item failures that
// did not stop the page from being built.
type Page[T any] struct {
	Items      []T
	NextCursor *Cursor
	Errors     []error
}

// HasNext reports whether another page can be requested.
func (p Page[T]) HasNext() bool {
	return p.NextCursor != nil
}

// EmptyPage is a page with no items and no continuation.
func EmptyPage[T any]() Page[T] {
	return Page[T]{Items: []T{}, Errors: []error{}}
}

// ItemExtractor turns one raw item node into T.
type ItemExtractor[T any] interface {
	Extract() (T, error)
}

// Collector accumulates items in commit order.
type Collector[T any] struct {
	items  []T
	errors []error
}

// NewCollector creates an empty collector.
func NewCollector[T any]() *Collector[T] {
	return &Collector[T]{
		items:  []T{},
		errors: []error{},
	}
}

// Commit extracts one item. A failing item is recorded and skipped.
func (c *Collector[T]) Commit(e ItemExtractor[T]) {
	item, err := e.Extract()
	if err != nil {
		c.errors = append(c.errors, err)
		return
	}
	c.items = append(c.items, item)
}

// Items returns the collected items.
func (c *Collector[T]) Items() []T {
	return c.items
}

// Errors returns the recorded item failures.
func (c *Collector[T]) Errors() []error {
	return c.errors
}

// Page builds a page from the collected items.
func (c *Collector[T]) Page(next *Cursor) Page[T] {
	return Page[T]{
		Items:      c.items,
		NextCursor: next,
		Errors:     c.errors,
	}
}
