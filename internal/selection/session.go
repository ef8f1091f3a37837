package selection

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/pengelbrecht/gridselect/internal/keys"
	"github.com/pengelbrecht/gridselect/internal/logutil"
)

// Step tells the driver of a session what to do next.
type Step int

const (
	// StepContinue means the session waits for the next key.
	StepContinue Step = iota

	// StepDone means the session reached a terminal state; see Result.
	StepDone

	// StepReadLine means the session wrote a prompt and needs a line of
	// text, passed back through SubmitText.
	StepReadLine
)

func (s Step) String() string {
	switch s {
	case StepDone:
		return "done"
	case StepReadLine:
		return "read-line"
	default:
		return "continue"
	}
}

type lineRequest uint8

const (
	lineNone lineRequest = iota
	lineFallback
	lineManual
)

// SessionOption customizes a Session.
type SessionOption func(*sessionConfig)

type sessionConfig struct {
	logger    *slog.Logger
	fitHeight bool
}

// WithLogger sets the logger used for degradation diagnostics.
func WithLogger(l *slog.Logger) SessionOption {
	return func(c *sessionConfig) {
		c.logger = l
	}
}

// WithFitHeight pages a grid taller than the terminal when MaxRow is unset,
// so that the whole band and its footer stay on screen.
func WithFitHeight() SessionOption {
	return func(c *sessionConfig) {
		c.fitHeight = true
	}
}

// Session is one interactive selection from first render to result.
//
// Drivers call Start once, then feed keys to HandleKey until it returns
// StepDone. When a step is StepReadLine the driver collects a line of text
// and hands it to SubmitText. Select wraps this in a blocking loop.
type Session[T any] struct {
	term    Terminal
	opts    *Options
	items   []Item[T]
	hotkeys map[rune]int
	logger  *slog.Logger

	fitHeight bool

	layout   Layout
	selected int
	previous int
	offset   int
	top      int

	anchorCol, anchorRow int
	echo                 *LineWriter
	echoed               int
	footerRows           int
	showTips             bool
	rendered             bool

	request lineRequest
	result  *Result[T]
}

// NewSession prepares a session over the visible items of data. A nil opts
// uses DefaultOptions.
func NewSession[T any](t Terminal, data *Data[T], opts *Options, options ...SessionOption) *Session[T] {
	cfg := sessionConfig{logger: logutil.Discard()}
	for _, o := range options {
		o(&cfg)
	}
	if opts == nil {
		opts = DefaultOptions()
	}

	items := data.Visible()
	return &Session[T]{
		term:      t,
		opts:      opts,
		items:     items,
		hotkeys:   hotkeyIndex(items),
		logger:    cfg.logger,
		fitHeight: cfg.fitHeight,
		echo:      NewLineWriter(t),
		showTips:  true,
	}
}

// Select runs a blocking selection session on t.
//
// The only error returned is a fatal one: the terminal could not address a
// cursor position needed to draw the grid. Every other condition is
// reported through the result's InputType.
func Select[T any](t Terminal, data *Data[T], opts *Options, options ...SessionOption) (Result[T], error) {
	return NewSession(t, data, opts, options...).Run()
}

// Run drives the session to completion by reading from its terminal.
func (s *Session[T]) Run() (Result[T], error) {
	step, err := s.Start()
	for err == nil {
		switch step {
		case StepDone:
			return s.Result(), nil
		case StepReadLine:
			line, rerr := s.term.ReadLine()
			step = s.SubmitText(line, rerr)
			continue
		}

		ev, rerr := s.term.ReadKey()
		if rerr != nil {
			if !errors.Is(rerr, io.EOF) {
				s.logger.Debug("selection: read key failed", "error", rerr)
			} else {
				s.logger.Debug("selection: input closed")
			}
			step = s.finish(canceledResult[T]())
			continue
		}
		step, err = s.HandleKey(ev)
	}
	return s.Result(), err
}

// Start probes the terminal, computes the layout and draws the first page.
func (s *Session[T]) Start() (Step, error) {
	if s.result != nil {
		return StepDone, nil
	}
	if len(s.items) == 0 {
		s.logger.Debug("selection: nothing to select")
		return s.finish(canceledResult[T]()), nil
	}

	width, height, err := s.term.Size()
	if err != nil || width <= 0 {
		s.logger.Debug("selection: terminal width unavailable", "width", width, "error", err)
		return s.notSupported(), nil
	}
	col, row, err := s.term.Cursor()
	if err != nil {
		s.logger.Debug("selection: cursor positioning unavailable", "error", err)
		return s.notSupported(), nil
	}

	layout, err := s.computeLayout(width, height)
	if err != nil {
		s.logger.Debug("selection: cannot lay out grid", "error", err)
		return s.finish(canceledResult[T]()), nil
	}
	s.layout = layout
	s.logger.Debug("selection: layout",
		"width", layout.Width, "item_len", layout.ItemLen, "columns", layout.Columns,
		"page_size", layout.PageSize, "count", layout.Count)

	if col > 0 {
		s.term.WriteLine("", "", "")
		if col, row, err = s.term.Cursor(); err != nil {
			return s.notSupported(), nil
		}
	}
	s.top = row

	if err := s.render(); err != nil {
		return s.fail(err)
	}
	return StepContinue, nil
}

// computeLayout lays out the grid and, with WithFitHeight, caps the rows
// per page so that the band and the footer fit in height rows.
func (s *Session[T]) computeLayout(width, height int) (Layout, error) {
	layout, err := ComputeLayout(s.opts, width, len(s.items))
	if err != nil || !s.fitHeight || s.opts.MaxRow > 0 || height <= 0 {
		return layout, err
	}
	if layout.Rows()+s.opts.footerRows(false) <= height {
		return layout, nil
	}

	opts := s.opts.Clone()
	opts.MaxRow = max(1, height-opts.footerRows(true))
	s.opts = opts
	s.logger.Debug("selection: paging to fit terminal", "height", height, "max_row", opts.MaxRow)
	return ComputeLayout(s.opts, width, len(s.items))
}

// HandleKey applies one key press.
func (s *Session[T]) HandleKey(ev keys.Event) (Step, error) {
	if s.result != nil {
		return StepDone, nil
	}
	if s.request != lineNone {
		return StepReadLine, nil
	}

	act := resolve(ev, func(r rune) bool {
		_, ok := s.hotkeys[r]
		return ok
	})
	logutil.Trace(s.logger, "selection: key", "key", ev.String(), "action", act.String(), "selected", s.selected)

	var err error
	switch act {
	case actSelect:
		return s.finish(selectedResult(s.items, s.selected)), nil
	case actManual:
		if s.opts.ManualQuestion == "" {
			return s.finish(canceledResult[T]()), nil
		}
		return s.manual()
	case actCancel:
		return s.finish(canceledResult[T]()), nil
	case actHelp:
		if i, ok := s.hotkeys['?']; ok {
			return s.finish(selectedResult(s.items, i)), nil
		}
		s.showTips = !s.showTips
		err = s.render()
	case actToggleTips:
		s.showTips = !s.showTips
		err = s.render()
	case actResetRefresh:
		s.previous, s.selected, s.offset = s.selected, 0, 0
		err = s.render()
	case actRefresh:
		err = s.render()
	case actPagePrev:
		s.offset = max(0, s.offset-s.layout.PageSize)
		s.previous, s.selected = s.selected, s.offset
		err = s.render()
	case actPageNext:
		s.offset = min(s.offset+s.layout.PageSize, s.layout.LastPageOffset())
		s.previous, s.selected = s.selected, s.offset
		err = s.render()
	case actPageTop:
		err = s.change(s.offset + s.column())
	case actPageBottom:
		err = s.change(s.pageBottom())
	case actUp:
		err = s.change(s.selected - s.layout.Columns)
	case actDown:
		err = s.change(s.selected + s.layout.Columns)
	case actLeft:
		err = s.change(s.selected - 1)
	case actRight:
		err = s.change(s.selected + 1)
	case actRowStart:
		err = s.change(s.selected - s.column())
	case actFirst:
		err = s.change(0)
	case actRowEnd:
		err = s.change(min(s.selected-s.column()+s.layout.Columns-1, len(s.items)-1))
	case actLast:
		err = s.change(len(s.items) - 1)
	case actHotkey:
		return s.finish(selectedResult(s.items, s.hotkeys[ev.Rune])), nil
	default:
		err = s.echoValue()
	}

	if err != nil {
		return s.fail(err)
	}
	return StepContinue, nil
}

// SubmitText completes a StepReadLine. err is the error of the line read,
// if any.
func (s *Session[T]) SubmitText(text string, err error) Step {
	request := s.request
	s.request = lineNone

	switch request {
	case lineFallback:
		if err != nil {
			s.logger.Debug("selection: fallback read failed", "error", err)
			return s.finish(notSupportedResult[T]())
		}
		return s.finish(typedResult[T](text))
	case lineManual:
		if err != nil {
			s.logger.Debug("selection: manual read failed", "error", err)
			return s.finish(canceledResult[T]())
		}
		return s.finish(typedResult[T](text))
	}

	if s.result != nil {
		return StepDone
	}
	return StepContinue
}

// Result returns the outcome. It is only meaningful once a step returned
// StepDone.
func (s *Session[T]) Result() Result[T] {
	if s.result == nil {
		return canceledResult[T]()
	}
	return *s.result
}

// Done reports whether the session reached a terminal state.
func (s *Session[T]) Done() bool {
	return s.result != nil
}

// Selected returns the index of the focused item.
func (s *Session[T]) Selected() int {
	return s.selected
}

// Offset returns the index of the first item on the current page.
func (s *Session[T]) Offset() int {
	return s.offset
}

// Layout returns the grid geometry computed by Start.
func (s *Session[T]) Layout() Layout {
	return s.layout
}

// TipsVisible reports whether the tips line is shown.
func (s *Session[T]) TipsVisible() bool {
	return s.showTips
}

// change moves the focus to index. Out of range targets are ignored.
// Within the current page only the two affected cells are repainted;
// crossing a page boundary repaints the page that contains index.
func (s *Session[T]) change(index int) error {
	if index < 0 || index >= len(s.items) || index == s.selected {
		return nil
	}
	s.previous, s.selected = s.selected, index

	if !s.layout.InPage(index, s.offset) {
		s.offset = s.layout.PageOffset(index)
		return s.render()
	}

	if err := s.drawCell(s.previous); err != nil {
		return err
	}
	if err := s.drawCell(s.selected); err != nil {
		return err
	}
	return s.echoValue()
}

// column returns the focused item's column within its row.
func (s *Session[T]) column() int {
	return (s.selected - s.offset) % s.layout.Columns
}

// pageBottom returns the item in the last row of the current page that
// shares the focused item's column, or the row above it when the last row
// is too short.
func (s *Session[T]) pageBottom() int {
	last := s.layout.PageEnd(s.offset) - 1
	lastRow := (last - s.offset) / s.layout.Columns
	index := s.offset + lastRow*s.layout.Columns + s.column()
	if index > last {
		index -= s.layout.Columns
	}
	return index
}

func (s *Session[T]) notSupported() Step {
	if s.opts.QuestionWhenNotSupported == "" {
		return s.finish(notSupportedResult[T]())
	}
	s.term.Write(s.opts.QuestionWhenNotSupported, s.opts.QuestionForegroundColor, s.opts.QuestionBackgroundColor)
	s.request = lineFallback
	return StepReadLine
}

// manual abandons the grid and asks for free text below it.
func (s *Session[T]) manual() (Step, error) {
	if err := s.moveTo(0, s.anchorRow+1); err != nil {
		return s.fail(err)
	}
	s.term.Write(s.opts.ManualQuestion, s.opts.QuestionForegroundColor, s.opts.QuestionBackgroundColor)
	s.request = lineManual
	return StepReadLine, nil
}

func (s *Session[T]) finish(r Result[T]) Step {
	if s.result != nil {
		return StepDone
	}
	s.result = &r

	if s.rendered && s.request == lineNone && r.InputType != Typed {
		if col, row, ok := s.echo.Position(); ok {
			_ = s.term.SetCursor(col, row)
		}
		s.term.WriteLine("", "", "")
	}
	s.term.ResetColor()
	s.logger.Debug("selection: done", "input_type", r.InputType, "index", r.Index)
	return StepDone
}

func (s *Session[T]) fail(err error) (Step, error) {
	s.finish(canceledResult[T]())
	return StepDone, fmt.Errorf("selection: %w", err)
}

func (s *Session[T]) moveTo(col, row int) error {
	if err := s.term.SetCursor(col, row); err != nil {
		return fmt.Errorf("move cursor to %d,%d: %w", col, row, err)
	}
	return nil
}
