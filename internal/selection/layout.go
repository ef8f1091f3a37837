package selection

import (
	"errors"
	"fmt"
)

// ErrInvalidGeometry is returned by ComputeLayout when the options and the
// terminal width leave no room for a single cell.
var ErrInvalidGeometry = errors.New("invalid grid geometry")

// Layout is the grid geometry of one session. It is computed once from the
// terminal width at session start.
type Layout struct {
	Width    int // terminal width
	ItemLen  int // columns occupied by one cell, gap included
	Usable   int // columns available for the label
	Columns  int
	PageSize int
	Count    int
}

// ComputeLayout derives the grid geometry for count items on a terminal of
// the given width.
func ComputeLayout(opts *Options, width, count int) (Layout, error) {
	if width <= 0 {
		return Layout{}, fmt.Errorf("%w: terminal width %d", ErrInvalidGeometry, width)
	}
	if count <= 0 {
		return Layout{}, fmt.Errorf("%w: no items", ErrInvalidGeometry)
	}

	itemLen := width
	if opts.Column > 0 {
		itemLen = width / opts.Column
	}
	if opts.MaxLength > 0 && itemLen > opts.MaxLength {
		itemLen = opts.MaxLength
	}
	if opts.MinLength > 0 && itemLen < opts.MinLength {
		itemLen = opts.MinLength
	}
	if itemLen < 1 {
		return Layout{}, fmt.Errorf("%w: item length %d", ErrInvalidGeometry, itemLen)
	}

	columns := width / itemLen
	if opts.Column > 0 && columns > opts.Column {
		columns = opts.Column
	}
	if columns < 1 {
		return Layout{}, fmt.Errorf("%w: item length %d exceeds width %d", ErrInvalidGeometry, itemLen, width)
	}

	pageSize := count
	if opts.MaxRow > 0 {
		pageSize = opts.MaxRow * columns
	}

	return Layout{
		Width:    width,
		ItemLen:  itemLen,
		Usable:   max(1, itemLen-1),
		Columns:  columns,
		PageSize: pageSize,
		Count:    count,
	}, nil
}

// Paged reports whether the items span more than one page.
func (l Layout) Paged() bool {
	return l.PageSize < l.Count
}

// Rows returns the height of the grid band. It is the same for every page
// so the footer does not move when paging.
func (l Layout) Rows() int {
	visible := min(l.Count, l.PageSize)
	return (visible + l.Columns - 1) / l.Columns
}

// PageOffset returns the offset of the page containing index.
func (l Layout) PageOffset(index int) int {
	return index / l.PageSize * l.PageSize
}

// LastPageOffset returns the offset of the final page.
func (l Layout) LastPageOffset() int {
	return l.PageOffset(l.Count - 1)
}

// PageEnd returns the exclusive end index of the page starting at offset.
func (l Layout) PageEnd(offset int) int {
	return min(offset+l.PageSize, l.Count)
}

// Cell returns the column and the band-relative row of index on the page
// starting at offset.
func (l Layout) Cell(index, offset int) (col, row int) {
	k := index - offset
	return (k % l.Columns) * l.ItemLen, k / l.Columns
}

// InPage reports whether index is visible on the page starting at offset.
func (l Layout) InPage(index, offset int) bool {
	return index >= offset && index < offset+l.PageSize
}
