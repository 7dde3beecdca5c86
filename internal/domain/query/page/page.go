package page

import (
	"errors"
	"fmt"
)

// ErrInvalidWindow signals a negative offset or limit.
var ErrInvalidWindow = errors.New("invalid page window")

// Window is a zero-based, limit-sized slice of an ordered sequence.
type Window struct {
	offset int
	limit  int
}

// New validates and creates a Window.
func New(offset, limit int) (Window, error) {
	if offset < 0 || limit < 0 {
		return Window{}, fmt.Errorf("%w: offset=%d limit=%d", ErrInvalidWindow, offset, limit)
	}
	return Window{offset: offset, limit: limit}, nil
}

// Offset returns the index of the first item.
func (w Window) Offset() int { return w.offset }

// Limit returns the maximum number of items.
func (w Window) Limit() int { return w.limit }

// Slice returns items[offset : offset+limit] clamped to the bounds of items.
// A window starting past the end yields an empty slice.
func Slice[T any](items []T, w Window) []T {
	start := w.offset
	if start > len(items) {
		start = len(items)
	}
	end := len(items)
	if w.limit < end-start {
		end = start + w.limit
	}
	return items[start:end]
}
