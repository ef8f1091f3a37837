package selection

import (
	"github.com/charmbracelet/lipgloss"
)

// Options configures layout, text and colors of a selection grid.
// Zero values mean "unset": no bound, no text, terminal default color.
type Options struct {
	// MinLength and MaxLength bound the width of one grid cell.
	MinLength int `yaml:"min_length,omitempty" json:"min_length,omitempty"`
	MaxLength int `yaml:"max_length,omitempty" json:"max_length,omitempty"`

	// Column caps the number of columns. When set the terminal width is
	// split evenly between them.
	Column int `yaml:"column,omitempty" json:"column,omitempty"`

	// MaxRow enables paging with at most MaxRow rows per page.
	MaxRow int `yaml:"max_row,omitempty" json:"max_row,omitempty"`

	Question                 string `yaml:"question,omitempty" json:"question,omitempty"`
	ManualQuestion           string `yaml:"manual_question,omitempty" json:"manual_question,omitempty"`
	QuestionWhenNotSupported string `yaml:"question_when_not_supported,omitempty" json:"question_when_not_supported,omitempty"`
	Tips                     string `yaml:"tips,omitempty" json:"tips,omitempty"`

	// PagingTips supports the {from}, {end}, {count}, {size} and {total}
	// placeholders.
	PagingTips string `yaml:"paging_tips,omitempty" json:"paging_tips,omitempty"`

	Prefix         string `yaml:"prefix,omitempty" json:"prefix,omitempty"`
	SelectedPrefix string `yaml:"selected_prefix,omitempty" json:"selected_prefix,omitempty"`

	ForegroundColor             lipgloss.Color `yaml:"foreground,omitempty" json:"foreground,omitempty"`
	BackgroundColor             lipgloss.Color `yaml:"background,omitempty" json:"background,omitempty"`
	SelectedForegroundColor     lipgloss.Color `yaml:"selected_foreground,omitempty" json:"selected_foreground,omitempty"`
	SelectedBackgroundColor     lipgloss.Color `yaml:"selected_background,omitempty" json:"selected_background,omitempty"`
	QuestionForegroundColor     lipgloss.Color `yaml:"question_foreground,omitempty" json:"question_foreground,omitempty"`
	QuestionBackgroundColor     lipgloss.Color `yaml:"question_background,omitempty" json:"question_background,omitempty"`
	TipsForegroundColor         lipgloss.Color `yaml:"tips_foreground,omitempty" json:"tips_foreground,omitempty"`
	TipsBackgroundColor         lipgloss.Color `yaml:"tips_background,omitempty" json:"tips_background,omitempty"`
	PagingForegroundColor       lipgloss.Color `yaml:"paging_foreground,omitempty" json:"paging_foreground,omitempty"`
	PagingBackgroundColor       lipgloss.Color `yaml:"paging_background,omitempty" json:"paging_background,omitempty"`
	DefaultValueForegroundColor lipgloss.Color `yaml:"default_value_foreground,omitempty" json:"default_value_foreground,omitempty"`
	DefaultValueBackgroundColor lipgloss.Color `yaml:"default_value_background,omitempty" json:"default_value_background,omitempty"`
}

// DefaultOptions returns the options used when none are given: an inverted
// highlight bar, a short prompt and key tips.
func DefaultOptions() *Options {
	return &Options{
		Question:                    "> ",
		Tips:                        "Tips: Arrows to move, Enter to select, Esc to cancel, F12 to hide tips.",
		PagingTips:                  "{from}-{end} of {total} (PgUp/PgDn to turn pages)",
		SelectedForegroundColor:     lipgloss.Color("0"),
		SelectedBackgroundColor:     lipgloss.Color("7"),
		QuestionForegroundColor:     lipgloss.Color("7"),
		TipsForegroundColor:         lipgloss.Color("8"),
		PagingForegroundColor:       lipgloss.Color("8"),
		DefaultValueForegroundColor: lipgloss.Color("6"),
	}
}

// Clone returns a copy of o. A nil receiver yields DefaultOptions.
func (o *Options) Clone() *Options {
	if o == nil {
		return DefaultOptions()
	}
	c := *o
	return &c
}

// footerRows counts the rows drawn below the grid: the paging tips when
// paged, the tips and the question line.
func (o *Options) footerRows(paged bool) int {
	n := 1
	if paged && o.PagingTips != "" {
		n++
	}
	if o.Tips != "" {
		n++
	}
	return n
}

type cellStyle struct {
	prefix string
	fg, bg lipgloss.Color
}

func (o *Options) itemStyle(selected bool) cellStyle {
	if selected {
		return cellStyle{prefix: o.SelectedPrefix, fg: o.SelectedForegroundColor, bg: o.SelectedBackgroundColor}
	}
	return cellStyle{prefix: o.Prefix, fg: o.ForegroundColor, bg: o.BackgroundColor}
}
