package selection

import (
	"errors"

	"github.com/charmbracelet/lipgloss"

	"github.com/pengelbrecht/gridselect/internal/keys"
)

var (
	// ErrUnsupported is returned by a Terminal when a capability such as
	// cursor positioning is not available (redirected or headless output).
	ErrUnsupported = errors.New("terminal capability not supported")

	// ErrOutOfRange is returned by SetCursor when the target cannot be
	// addressed even after growing the buffer.
	ErrOutOfRange = errors.New("cursor position out of range")
)

// Terminal is the set of console primitives a selection session needs.
//
// A session assumes exclusive ownership of the terminal from Start until it
// reaches a terminal state: callers must not interleave their own writes
// (including log output) with a running session.
//
// Write and WriteLine are best effort and never fail; an empty color means
// the terminal default. Cursor coordinates are zero based (col, row).
type Terminal interface {
	Write(text string, fg, bg lipgloss.Color)
	WriteLine(text string, fg, bg lipgloss.Color)

	// ReadKey blocks until a key is pressed. The key is not echoed.
	ReadKey() (keys.Event, error)

	// ReadLine blocks until a full line of text is entered.
	ReadLine() (string, error)

	Cursor() (col, row int, err error)

	// SetCursor moves the cursor, growing the buffer if row lies past its
	// end. It returns ErrOutOfRange if the position cannot be reached.
	SetCursor(col, row int) error

	Size() (width, height int, err error)
	ResetColor()
}
