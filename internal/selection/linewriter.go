package selection

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/emirpasic/gods/lists/arraylist"
	"github.com/mattn/go-runewidth"
)

type segment struct {
	text   string
	fg, bg lipgloss.Color
}

// LineWriter writes colored text to a Terminal and remembers where its own
// output ended. Before writing again it moves the cursor back there if
// something else moved it in between.
//
// With buffering enabled, writes are held until Flush so they can still be
// revised with Backspace.
type LineWriter struct {
	term     Terminal
	buffered bool
	pending  *arraylist.List

	col, row int
	known    bool
}

// NewLineWriter creates an unbuffered writer on t.
func NewLineWriter(t Terminal) *LineWriter {
	return &LineWriter{
		term:    t,
		pending: arraylist.New(),
	}
}

// SetBuffered switches buffering on or off. Switching it off flushes.
func (w *LineWriter) SetBuffered(buffered bool) {
	if w.buffered && !buffered {
		w.Flush()
	}
	w.buffered = buffered
}

// Buffered reports whether writes are currently deferred.
func (w *LineWriter) Buffered() bool {
	return w.buffered
}

// Reset drops pending output and takes the current cursor position as the
// end of this writer's output.
func (w *LineWriter) Reset() {
	w.pending.Clear()
	w.known = false
	w.sync()
}

// Position returns where the writer's last output ended.
func (w *LineWriter) Position() (col, row int, ok bool) {
	return w.col, w.row, w.known
}

// Write writes text, or queues it when buffered.
func (w *LineWriter) Write(text string, fg, bg lipgloss.Color) {
	if text == "" {
		return
	}
	if w.buffered {
		w.pending.Add(segment{text: text, fg: fg, bg: bg})
		return
	}
	w.restore()
	w.term.Write(text, fg, bg)
	w.sync()
}

// WriteLine writes text followed by a line break. Pending output is
// flushed first.
func (w *LineWriter) WriteLine(text string, fg, bg lipgloss.Color) {
	if w.buffered {
		w.pending.Add(segment{text: text, fg: fg, bg: bg})
		w.Flush()
		w.term.WriteLine("", "", "")
		w.sync()
		return
	}
	w.restore()
	w.term.WriteLine(text, fg, bg)
	w.sync()
}

// Backspace removes the last n cells of output. Pending text is trimmed
// first; anything beyond that is erased from the terminal.
func (w *LineWriter) Backspace(n int) {
	for n > 0 && w.pending.Size() > 0 {
		last := w.pending.Size() - 1
		v, _ := w.pending.Get(last)
		seg := v.(segment)
		runes := []rune(seg.text)
		for n > 0 && len(runes) > 0 {
			n -= max(1, runewidth.RuneWidth(runes[len(runes)-1]))
			runes = runes[:len(runes)-1]
		}
		if len(runes) == 0 {
			w.pending.Remove(last)
			continue
		}
		seg.text = string(runes)
		w.pending.Set(last, seg)
	}

	if n <= 0 || !w.known {
		return
	}

	w.restore()
	col := max(0, w.col-n)
	erase := w.col - col
	if erase == 0 {
		return
	}
	if err := w.term.SetCursor(col, w.row); err != nil {
		return
	}
	w.term.Write(strings.Repeat(" ", erase), "", "")
	_ = w.term.SetCursor(col, w.row)
	w.col = col
}

// Flush writes all pending output.
func (w *LineWriter) Flush() {
	if w.pending.Size() == 0 {
		return
	}
	w.restore()
	for _, v := range w.pending.Values() {
		seg := v.(segment)
		w.term.Write(seg.text, seg.fg, seg.bg)
	}
	w.pending.Clear()
	w.sync()
}

// ClearPending drops pending output without writing it.
func (w *LineWriter) ClearPending() {
	w.pending.Clear()
}

// Pending returns the text waiting to be flushed.
func (w *LineWriter) Pending() string {
	var sb strings.Builder
	for _, v := range w.pending.Values() {
		sb.WriteString(v.(segment).text)
	}
	return sb.String()
}

// restore moves the cursor back to the end of this writer's output if
// another writer moved it.
func (w *LineWriter) restore() {
	if !w.known {
		return
	}
	col, row, err := w.term.Cursor()
	if err != nil || (col == w.col && row == w.row) {
		return
	}
	_ = w.term.SetCursor(w.col, w.row)
}

func (w *LineWriter) sync() {
	col, row, err := w.term.Cursor()
	if err != nil {
		w.known = false
		return
	}
	w.col, w.row, w.known = col, row, true
}
