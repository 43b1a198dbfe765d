package listing

import (
	"context"
	"fmt"
)

// Extractor is a listing that can be fetched and paged through.
type Extractor[T any] interface {
	// Fetch downloads the initial page and keeps its raw tree.
	Fetch(ctx context.Context) error
	// InitialPage builds items from the fetched tree. It returns
	// ErrNotFetched before Fetch succeeds.
	InitialPage() (Page[T], error)
	// PageAt requests the page behind cursor.
	PageAt(ctx context.Context, cursor *Cursor) (Page[T], error)
}

// State is the lifecycle position of a Session.
type State int

const (
	StateUnfetched State = iota
	StateFetched
	StateExhausted
)

func (s State) String() string {
	switch s {
	case StateUnfetched:
		return "unfetched"
	case StateFetched:
		return "fetched"
	case StateExhausted:
		return "exhausted"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Session walks an Extractor page by page. It is not safe for concurrent use.
type Session[T any] struct {
	extractor Extractor[T]
	state     State
	next      *Cursor
}

// NewSession starts an unfetched session over e.
func NewSession[T any](e Extractor[T]) *Session[T] {
	return &Session[T]{extractor: e}
}

// State returns the current lifecycle state.
func (s *Session[T]) State() State {
	return s.state
}

// Next returns the following page: the initial page on the first call, then
// one page per cursor. It returns ErrExhausted once no cursor is left.
func (s *Session[T]) Next(ctx context.Context) (Page[T], error) {
	var (
		page Page[T]
		err  error
	)

	switch s.state {
	case StateUnfetched:
		if err := s.extractor.Fetch(ctx); err != nil {
			return Page[T]{}, err
		}
		page, err = s.extractor.InitialPage()
	case StateFetched:
		page, err = s.extractor.PageAt(ctx, s.next)
	default:
		return Page[T]{}, ErrExhausted
	}

	if err != nil {
		return Page[T]{}, err
	}

	s.next = page.NextCursor
	if s.next == nil {
		s.state = StateExhausted
	} else {
		s.state = StateFetched
	}
	return page, nil
}

// Collect walks pages until the session is exhausted or limit items are
// gathered (limit <= 0 means no limit). Item errors from all pages are
// returned alongside the items.
func (s *Session[T]) Collect(ctx context.Context, limit int) ([]T, []error, error) {
	items := []T{}
	var itemErrs []error

	for s.state != StateExhausted {
		page, err := s.Next(ctx)
		if err != nil {
			return items, itemErrs, err
		}
		items = append(items, page.Items...)
		itemErrs = append(itemErrs, page.Errors...)

		if limit > 0 && len(items) >= limit {
			return items[:limit], itemErrs, nil
		}
	}

	return items, itemErrs, nil
}
