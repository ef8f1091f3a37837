package vterm

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Render returns up to n rows starting at from as a styled string, one
// line per row. Runs of cells sharing colors are styled together.
func (s *Screen) Render(from, n int) string {
	if from < 0 {
		from = 0
	}
	var lines []string
	for r := from; r < from+n && r < len(s.rows); r++ {
		lines = append(lines, renderRow(s.rows[r]))
	}
	return strings.Join(lines, "\n")
}

// View renders the last height rows of the buffer, following the cursor
// the way a terminal viewport does.
func (s *Screen) View() string {
	from := 0
	if len(s.rows) > s.height {
		from = len(s.rows) - s.height
	}
	if s.row < from {
		from = s.row
	}
	return s.Render(from, s.height)
}

func renderRow(row []Cell) string {
	var sb strings.Builder
	var run strings.Builder
	var fg, bg lipgloss.Color

	flush := func() {
		if run.Len() == 0 {
			return
		}
		text := run.String()
		if fg == "" && bg == "" {
			sb.WriteString(text)
		} else {
			style := lipgloss.NewStyle()
			if fg != "" {
				style = style.Foreground(fg)
			}
			if bg != "" {
				style = style.Background(bg)
			}
			sb.WriteString(style.Render(text))
		}
		run.Reset()
	}

	for _, c := range row {
		if c.Cont {
			continue
		}
		if c.FG != fg || c.BG != bg {
			flush()
			fg, bg = c.FG, c.BG
		}
		if c.Rune == 0 {
			run.WriteRune(' ')
		} else {
			run.WriteRune(c.Rune)
		}
	}
	flush()
	return sb.String()
}
