package selection

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// render repaints the whole page: grid band, paging tips, tips and the
// question, then records the input anchor and echoes the current value.
func (s *Session[T]) render() error {
	l := s.layout
	rows := l.Rows()

	blank := strings.Repeat(" ", l.Columns*l.ItemLen)
	for r := 0; r < rows; r++ {
		if err := s.moveTo(0, s.top+r); err != nil {
			return err
		}
		s.term.Write(blank, "", "")
	}

	end := l.PageEnd(s.offset)
	for i := s.offset; i < end; i++ {
		if err := s.drawCell(i); err != nil {
			return err
		}
	}

	var footer []footerLine
	if l.Paged() && s.opts.PagingTips != "" {
		footer = append(footer, footerLine{s.pagingText(), s.opts.PagingForegroundColor, s.opts.PagingBackgroundColor})
	}
	if s.showTips && s.opts.Tips != "" {
		footer = append(footer, footerLine{s.opts.Tips, s.opts.TipsForegroundColor, s.opts.TipsBackgroundColor})
	}

	row := s.top + rows
	// One extra line for the question, plus whatever an earlier frame
	// drew below the grid.
	clearRows := max(len(footer)+1, s.footerRows)
	for r := 0; r < clearRows; r++ {
		if err := s.clearLine(row + r); err != nil {
			return err
		}
	}
	for _, line := range footer {
		if err := s.moveTo(0, row); err != nil {
			return err
		}
		s.term.Write(s.fit(line.text, l.Width-1), line.fg, line.bg)
		row++
	}
	s.footerRows = len(footer) + 1

	if err := s.moveTo(0, row); err != nil {
		return err
	}
	if s.opts.Question != "" {
		s.term.Write(s.fit(s.opts.Question, l.Width-1), s.opts.QuestionForegroundColor, s.opts.QuestionBackgroundColor)
	}
	s.anchorCol, s.anchorRow = 0, row
	if col, r, err := s.term.Cursor(); err == nil {
		s.anchorCol, s.anchorRow = col, r
	}

	s.echo.Reset()
	s.echoed = 0
	s.rendered = true
	return s.echoValue()
}

type footerLine struct {
	text   string
	fg, bg lipgloss.Color
}

// drawCell paints one grid cell using the style that matches its current
// selection state. The cell always ends up exactly ItemLen columns wide.
func (s *Session[T]) drawCell(index int) error {
	l := s.layout
	col, r := l.Cell(index, s.offset)
	if err := s.moveTo(col, s.top+r); err != nil {
		return err
	}

	style := s.opts.itemStyle(index == s.selected)
	label := runewidth.FillRight(s.fit(style.prefix+s.items[index].DisplayName(), l.Usable), l.Usable)
	s.term.Write(label, style.fg, style.bg)

	// Pad whatever the terminal did not advance, which covers the gap
	// column and labels the terminal measured narrower than we did.
	want := col + l.ItemLen
	if got, _, err := s.term.Cursor(); err == nil && got < want {
		s.term.Write(strings.Repeat(" ", want-got), "", "")
	}
	return nil
}

// echoValue shows the value of the focused item after the question and
// parks the cursor on the input anchor.
func (s *Session[T]) echoValue() error {
	if s.opts.Question == "" {
		return s.moveTo(s.anchorCol, s.anchorRow)
	}

	value := s.fit(s.items[s.selected].Value, s.layout.Width-s.anchorCol-1)
	s.echo.SetBuffered(true)
	s.echo.Backspace(s.echoed)
	s.echo.Write(value, s.opts.DefaultValueForegroundColor, s.opts.DefaultValueBackgroundColor)
	s.echo.SetBuffered(false)
	s.echoed = runewidth.StringWidth(value)

	return s.moveTo(s.anchorCol, s.anchorRow)
}

func (s *Session[T]) clearLine(row int) error {
	if err := s.moveTo(0, row); err != nil {
		return err
	}
	s.term.Write(strings.Repeat(" ", max(0, s.layout.Width-1)), "", "")
	return nil
}

func (s *Session[T]) pagingText() string {
	end := s.layout.PageEnd(s.offset)
	r := strings.NewReplacer(
		"{from}", strconv.Itoa(s.offset+1),
		"{end}", strconv.Itoa(end),
		"{count}", strconv.Itoa(end-s.offset),
		"{size}", strconv.Itoa(s.layout.PageSize),
		"{total}", strconv.Itoa(s.layout.Count),
	)
	return r.Replace(s.opts.PagingTips)
}

// fit truncates text to at most width terminal columns.
func (s *Session[T]) fit(text string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(text, width, "")
}
