// Package vterm is an in-memory terminal: a growable grid of colored cells
// with a scripted keyboard. It backs tests and the Bubble Tea front-end.
package vterm

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/pengelbrecht/gridselect/internal/keys"
	"github.com/pengelbrecht/gridselect/internal/selection"
)

// Cell is one character position.
type Cell struct {
	Rune rune
	FG   lipgloss.Color
	BG   lipgloss.Color

	// Cont marks the right half of a double-width rune.
	Cont bool
}

// Screen implements selection.Terminal in memory.
//
// Rows grow on demand like a console scroll-back buffer. Writing past the
// right margin wraps. Screen is not safe for concurrent use.
type Screen struct {
	width  int
	height int

	// MaxRows caps buffer growth. Zero means unlimited.
	MaxRows int

	// NoCursor makes Cursor and SetCursor fail with
	// selection.ErrUnsupported, like a redirected stream.
	NoCursor bool

	// SizeErr, when set, is returned by Size.
	SizeErr error

	rows     [][]Cell
	col, row int
	keys     []keys.Event
	lines    []string
	resets   int
}

// New creates an empty screen of the given size.
func New(width, height int) *Screen {
	return &Screen{width: width, height: height}
}

// Resize changes the reported size. Existing content is kept.
func (s *Screen) Resize(width, height int) {
	s.width, s.height = width, height
}

// Type queues key presses for ReadKey.
func (s *Screen) Type(events ...keys.Event) {
	s.keys = append(s.keys, events...)
}

// TypeLine queues lines for ReadLine.
func (s *Screen) TypeLine(lines ...string) {
	s.lines = append(s.lines, lines...)
}

// Write implements selection.Terminal.
func (s *Screen) Write(text string, fg, bg lipgloss.Color) {
	for _, r := range text {
		switch r {
		case '\n':
			s.newline()
		case '\r':
			s.col = 0
		default:
			s.put(r, fg, bg)
		}
	}
}

// WriteLine implements selection.Terminal.
func (s *Screen) WriteLine(text string, fg, bg lipgloss.Color) {
	s.Write(text, fg, bg)
	s.newline()
}

// ReadKey returns the next queued key, or io.EOF when none are left.
func (s *Screen) ReadKey() (keys.Event, error) {
	if len(s.keys) == 0 {
		return keys.Event{}, io.EOF
	}
	ev := s.keys[0]
	s.keys = s.keys[1:]
	return ev, nil
}

// ReadLine returns the next queued line and echoes it like a cooked tty.
func (s *Screen) ReadLine() (string, error) {
	if len(s.lines) == 0 {
		return "", io.EOF
	}
	line := s.lines[0]
	s.lines = s.lines[1:]
	s.WriteLine(line, "", "")
	return line, nil
}

// Cursor implements selection.Terminal.
func (s *Screen) Cursor() (int, int, error) {
	if s.NoCursor {
		return 0, 0, selection.ErrUnsupported
	}
	return s.col, s.row, nil
}

// SetCursor implements selection.Terminal. Rows past the end of the buffer
// are added unless that would exceed MaxRows.
func (s *Screen) SetCursor(col, row int) error {
	if s.NoCursor {
		return selection.ErrUnsupported
	}
	if col < 0 || row < 0 || (s.width > 0 && col > s.width) {
		return fmt.Errorf("%w: %d,%d", selection.ErrOutOfRange, col, row)
	}
	if s.MaxRows > 0 && row >= s.MaxRows {
		return fmt.Errorf("%w: row %d beyond buffer of %d rows", selection.ErrOutOfRange, row, s.MaxRows)
	}
	s.grow(row)
	s.col, s.row = col, row
	return nil
}

// Size implements selection.Terminal.
func (s *Screen) Size() (int, int, error) {
	if s.SizeErr != nil {
		return 0, 0, s.SizeErr
	}
	return s.width, s.height, nil
}

// ResetColor implements selection.Terminal.
func (s *Screen) ResetColor() {
	s.resets++
}

// Resets returns how often ResetColor was called.
func (s *Screen) Resets() int {
	return s.resets
}

// Pending returns the number of queued keys not yet read.
func (s *Screen) Pending() int {
	return len(s.keys)
}

func (s *Screen) put(r rune, fg, bg lipgloss.Color) {
	w := runewidth.RuneWidth(r)
	if w == 0 {
		return
	}
	// a zero width screen stands for redirected output and never wraps
	if s.width > 0 && s.col+w > s.width {
		s.newline()
	}
	s.grow(s.row)
	line := s.rows[s.row]
	for len(line) < s.col+w {
		line = append(line, Cell{Rune: ' '})
	}
	line[s.col] = Cell{Rune: r, FG: fg, BG: bg}
	if w == 2 {
		line[s.col+1] = Cell{FG: fg, BG: bg, Cont: true}
	}
	s.rows[s.row] = line
	s.col += w
}

func (s *Screen) newline() {
	s.col = 0
	s.row++
	if s.MaxRows > 0 && s.row >= s.MaxRows {
		// scroll: the oldest row leaves the buffer
		s.rows = s.rows[1:]
		s.row = s.MaxRows - 1
	}
	s.grow(s.row)
}

func (s *Screen) grow(row int) {
	for len(s.rows) <= row {
		s.rows = append(s.rows, nil)
	}
}

// Rows returns the number of rows in the buffer.
func (s *Screen) Rows() int {
	return len(s.rows)
}

// Cell returns the cell at col,row. Untouched cells are blank.
func (s *Screen) Cell(col, row int) Cell {
	if row < 0 || row >= len(s.rows) || col < 0 || col >= len(s.rows[row]) {
		return Cell{Rune: ' '}
	}
	return s.rows[row][col]
}

// Line returns the text of a row without trailing blanks.
func (s *Screen) Line(row int) string {
	if row < 0 || row >= len(s.rows) {
		return ""
	}
	var sb strings.Builder
	for _, c := range s.rows[row] {
		if c.Cont {
			continue
		}
		if c.Rune == 0 {
			sb.WriteRune(' ')
			continue
		}
		sb.WriteRune(c.Rune)
	}
	return strings.TrimRight(sb.String(), " ")
}

// Text returns all rows joined by newlines, without trailing blank rows.
func (s *Screen) Text() string {
	lines := make([]string, len(s.rows))
	for i := range s.rows {
		lines[i] = s.Line(i)
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}

// Snapshot returns a copy of the buffer padded to the screen width.
func (s *Screen) Snapshot() [][]Cell {
	snap := make([][]Cell, len(s.rows))
	for r := range s.rows {
		line := make([]Cell, s.width)
		for c := range line {
			line[c] = s.Cell(c, r)
		}
		snap[r] = line
	}
	return snap
}

// Position is a cell coordinate.
type Position struct {
	Col, Row int
}

// Diff returns the positions whose cells differ between two snapshots.
func Diff(before, after [][]Cell) []Position {
	var changed []Position
	rows := max(len(before), len(after))
	for r := 0; r < rows; r++ {
		var a, b []Cell
		if r < len(before) {
			a = before[r]
		}
		if r < len(after) {
			b = after[r]
		}
		cols := max(len(a), len(b))
		for c := 0; c < cols; c++ {
			if cellAt(a, c) != cellAt(b, c) {
				changed = append(changed, Position{Col: c, Row: r})
			}
		}
	}
	return changed
}

func cellAt(line []Cell, col int) Cell {
	if col < len(line) {
		return line[col]
	}
	return Cell{Rune: ' '}
}
