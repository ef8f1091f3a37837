// Package console implements selection.Terminal on a real ANSI terminal.
//
// The cursor position is tracked logically from everything written, with
// rows counted from where the console was opened. Rows below the lowest row
// drawn so far are reached by emitting line feeds, which scrolls the screen
// the way a console buffer grows. Rows that have scrolled off the top of the
// viewport cannot be addressed.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/pengelbrecht/gridselect/internal/keys"
	"github.com/pengelbrecht/gridselect/internal/logutil"
	"github.com/pengelbrecht/gridselect/internal/selection"
)

// ErrNotTerminal is returned by Size when the output is not a terminal.
var ErrNotTerminal = errors.New("output is not a terminal")

// Console is a terminal opened for one or more selection sessions.
type Console struct {
	in     io.Reader
	out    io.Writer
	reader *bufio.Reader
	logger *slog.Logger

	inFd, outFd int
	inTTY       bool
	outTTY      bool
	state       *term.State
	closeIn     io.Closer

	renderer *lipgloss.Renderer

	fixedWidth, fixedHeight int
	width, height           int

	col, row int
	bottom   int
}

// Option configures a Console.
type Option func(*Console)

// WithSize reports a fixed size instead of querying the output. It also
// enables cursor tracking on outputs that are not terminals.
func WithSize(width, height int) Option {
	return func(c *Console) {
		c.fixedWidth, c.fixedHeight = width, height
	}
}

// WithLogger sets the logger for terminal diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *Console) {
		c.logger = l
	}
}

// Open returns a console drawing on out, usually os.Stdout. Keys are read
// from stdin, or from the controlling terminal when stdin is redirected
// (items piped in). Input is switched to raw mode until Close.
func Open(out *os.File, opts ...Option) (*Console, error) {
	var in io.Reader = os.Stdin
	var closer io.Closer
	if !isTerminal(os.Stdin.Fd()) {
		if tty, err := os.Open("/dev/tty"); err == nil {
			in, closer = tty, tty
		}
	}

	c := New(in, out, opts...)
	c.closeIn = closer
	if err := c.makeRaw(); err != nil {
		_ = c.Close()
		return nil, err
	}
	return c, nil
}

// New returns a console on arbitrary streams. Raw mode is not entered; call
// Open for an interactive terminal.
func New(in io.Reader, out io.Writer, opts ...Option) *Console {
	c := &Console{
		in:     in,
		out:    out,
		reader: bufio.NewReader(in),
		logger: logutil.Discard(),
		inFd:   -1,
		outFd:  -1,
	}
	for _, o := range opts {
		o(c)
	}

	if f, ok := in.(*os.File); ok {
		c.inFd = int(f.Fd())
		c.inTTY = isTerminal(f.Fd())
	}
	if f, ok := out.(*os.File); ok {
		c.outFd = int(f.Fd())
		c.outTTY = isTerminal(f.Fd())
	}
	c.renderer = lipgloss.NewRenderer(out)
	c.width, c.height = c.fixedWidth, c.fixedHeight
	return c
}

func isTerminal(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func (c *Console) makeRaw() error {
	if !c.inTTY {
		return nil
	}
	state, err := term.MakeRaw(c.inFd)
	if err != nil {
		return fmt.Errorf("enter raw mode: %w", err)
	}
	c.state = state
	return nil
}

// Close restores the terminal mode and releases the input.
func (c *Console) Close() error {
	var err error
	if c.state != nil {
		err = term.Restore(c.inFd, c.state)
		c.state = nil
	}
	if c.closeIn != nil {
		if cerr := c.closeIn.Close(); err == nil {
			err = cerr
		}
		c.closeIn = nil
	}
	return err
}

func (c *Console) tracking() bool {
	return c.outTTY || c.fixedWidth > 0
}

// Size implements selection.Terminal.
func (c *Console) Size() (int, int, error) {
	if c.fixedWidth > 0 {
		return c.fixedWidth, c.fixedHeight, nil
	}
	if !c.outTTY {
		return 0, 0, ErrNotTerminal
	}
	w, h, err := term.GetSize(c.outFd)
	if err != nil {
		return 0, 0, fmt.Errorf("get terminal size: %w", err)
	}
	c.width, c.height = w, h
	return w, h, nil
}

// Write implements selection.Terminal.
func (c *Console) Write(text string, fg, bg lipgloss.Color) {
	if text == "" {
		return
	}
	lines := strings.Split(text, "\n")
	var sb strings.Builder
	for i, line := range lines {
		if i > 0 {
			sb.WriteString(c.newline())
		}
		sb.WriteString(c.styled(line, fg, bg))
		c.advance(line)
	}
	c.emit(sb.String())
}

// WriteLine implements selection.Terminal.
func (c *Console) WriteLine(text string, fg, bg lipgloss.Color) {
	c.Write(text, fg, bg)
	c.emit(c.newline())
}

// ResetColor implements selection.Terminal.
func (c *Console) ResetColor() {
	c.emit(colorReset)
}

// Cursor implements selection.Terminal.
func (c *Console) Cursor() (int, int, error) {
	if !c.tracking() {
		return 0, 0, selection.ErrUnsupported
	}
	return c.col, c.row, nil
}

// SetCursor implements selection.Terminal.
func (c *Console) SetCursor(col, row int) error {
	if !c.tracking() {
		return selection.ErrUnsupported
	}
	if col < 0 || row < 0 || (c.width > 0 && col > c.width) {
		return fmt.Errorf("%w: %d,%d", selection.ErrOutOfRange, col, row)
	}
	if c.height > 0 && row <= c.bottom-c.height {
		return fmt.Errorf("%w: row %d scrolled out of view", selection.ErrOutOfRange, row)
	}

	var sb strings.Builder
	switch {
	case row > c.bottom:
		// grow: walk to the bottom, then feed new lines
		sb.WriteString(cursorDown(c.bottom - c.row))
		sb.WriteString(strings.Repeat("\r\n", row-c.bottom))
		c.bottom = row
	case row > c.row:
		sb.WriteString(cursorDown(row - c.row))
	case row < c.row:
		sb.WriteString(cursorUp(c.row - row))
	}
	sb.WriteString("\r")
	sb.WriteString(cursorRight(col))
	c.col, c.row = col, row
	c.emit(sb.String())
	return nil
}

// ReadKey implements selection.Terminal.
func (c *Console) ReadKey() (keys.Event, error) {
	for {
		b, err := c.reader.ReadByte()
		if err != nil {
			return keys.Event{}, err
		}

		buf := []byte{b}
		switch {
		case b == 0x1b:
			// the rest of an escape sequence arrives in the same read
			n := min(c.reader.Buffered(), 31)
			rest, _ := c.reader.Peek(n)
			buf = append(buf, rest...)
		case b >= 0xc0:
			for len(buf) < utf8Len(b) {
				next, err := c.reader.ReadByte()
				if err != nil {
					return keys.Event{}, err
				}
				buf = append(buf, next)
			}
		}

		ev, used := keys.Parse(buf)
		if b == 0x1b && used > 1 {
			_, _ = c.reader.Discard(used - 1)
		}
		if ev.Key == keys.KeyNone {
			c.logger.Debug("console: ignored input", "bytes", fmt.Sprintf("%q", buf[:max(used, 1)]))
			continue
		}
		return ev, nil
	}
}

// ReadLine implements selection.Terminal. The terminal is returned to
// cooked mode for the read so the line is echoed and editable.
func (c *Console) ReadLine() (string, error) {
	if c.state != nil {
		if err := term.Restore(c.inFd, c.state); err != nil {
			return "", fmt.Errorf("leave raw mode: %w", err)
		}
		defer func() {
			if state, err := term.MakeRaw(c.inFd); err == nil {
				c.state = state
			}
		}()
	}

	line, err := c.reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	line = strings.TrimRight(line, "\r\n")

	if c.inTTY {
		// the terminal echoed the line and the enter key
		c.advance(line)
		c.col = 0
		c.row++
		c.bottom = max(c.bottom, c.row)
	}
	return line, nil
}

func (c *Console) newline() string {
	c.col = 0
	c.row++
	c.bottom = max(c.bottom, c.row)
	if c.state != nil || c.fixedWidth > 0 {
		return "\r\n"
	}
	return "\n"
}

// advance moves the logical cursor over text, wrapping at the margin the
// way the terminal does.
func (c *Console) advance(text string) {
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if c.width > 0 && c.col+w > c.width {
			c.col = 0
			c.row++
		}
		c.col += w
	}
	c.bottom = max(c.bottom, c.row)
}

func (c *Console) styled(text string, fg, bg lipgloss.Color) string {
	if text == "" || (fg == "" && bg == "") {
		return text
	}
	style := c.renderer.NewStyle()
	if fg != "" {
		style = style.Foreground(fg)
	}
	if bg != "" {
		style = style.Background(bg)
	}
	return style.Render(text)
}

func (c *Console) emit(s string) {
	if s == "" {
		return
	}
	if _, err := io.WriteString(c.out, s); err != nil {
		c.logger.Debug("console: write failed", "error", err)
	}
}

func utf8Len(lead byte) int {
	switch {
	case lead >= 0xf0:
		return 4
	case lead >= 0xe0:
		return 3
	default:
		return 2
	}
}
