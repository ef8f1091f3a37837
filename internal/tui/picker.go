// Package tui hosts a selection session inside a Bubble Tea program. The
// session draws on an in-memory screen that the model renders as its view.
package tui

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pengelbrecht/gridselect/internal/logutil"
	"github.com/pengelbrecht/gridselect/internal/selection"
	"github.com/pengelbrecht/gridselect/internal/vterm"
)

// ErrInputCanceled is passed to the session when a text prompt is
// abandoned with Esc or Ctrl+C.
var ErrInputCanceled = errors.New("input canceled")

var (
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7F849C"))
	inputStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
)

// Picker is the Bubble Tea model for one selection.
type Picker[T any] struct {
	data   *selection.Data[T]
	opts   *selection.Options
	logger *slog.Logger

	screen  *vterm.Screen
	session *selection.Session[T]
	step    selection.Step
	started bool
	err     error

	input    textinput.Model
	help     help.Model
	keys     KeyMap
	showHelp bool

	width  int
	height int
}

// PickerOption customizes a Picker.
type PickerOption func(*pickerConfig)

type pickerConfig struct {
	logger   *slog.Logger
	showHelp bool
}

// WithLogger sets the logger handed to the session.
func WithLogger(l *slog.Logger) PickerOption {
	return func(c *pickerConfig) {
		c.logger = l
	}
}

// WithHelp toggles the key help footer.
func WithHelp(show bool) PickerOption {
	return func(c *pickerConfig) {
		c.showHelp = show
	}
}

// NewPicker creates a picker over data. The session starts once the first
// window size is known.
func NewPicker[T any](data *selection.Data[T], opts *selection.Options, options ...PickerOption) Picker[T] {
	cfg := pickerConfig{logger: logutil.Discard(), showHelp: true}
	for _, o := range options {
		o(&cfg)
	}

	ti := textinput.New()
	ti.Prompt = ""
	ti.TextStyle = inputStyle

	h := help.New()
	h.Styles.ShortKey = footerStyle.Bold(true)
	h.Styles.ShortDesc = footerStyle
	h.Styles.ShortSeparator = footerStyle

	return Picker[T]{
		data:     data,
		opts:     opts,
		logger:   cfg.logger,
		input:    ti,
		help:     h,
		keys:     DefaultKeyMap(),
		showHelp: cfg.showHelp,
	}
}

// Init implements tea.Model.
func (p Picker[T]) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (p Picker[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		p.height = msg.Height
		p.help.Width = msg.Width
		if !p.started {
			return p.start()
		}
		// the grid keeps the width it started with
		w, _, _ := p.screen.Size()
		p.screen.Resize(w, p.screenHeight())

	case tea.KeyMsg:
		if !p.started || p.session.Done() {
			return p, nil
		}
		if p.step == selection.StepReadLine {
			return p.updateInput(msg)
		}
		ev, ok := toEvent(msg)
		if !ok {
			return p, nil
		}
		p.step, p.err = p.session.HandleKey(ev)
		return p.advance()
	}
	return p, nil
}

func (p Picker[T]) start() (tea.Model, tea.Cmd) {
	p.screen = vterm.New(p.width, p.screenHeight())
	p.session = selection.NewSession(p.screen, p.data, p.opts,
		selection.WithLogger(p.logger), selection.WithFitHeight())
	p.started = true
	p.step, p.err = p.session.Start()
	return p.advance()
}

func (p Picker[T]) advance() (tea.Model, tea.Cmd) {
	switch {
	case p.err != nil || p.step == selection.StepDone:
		return p, tea.Quit
	case p.step == selection.StepReadLine:
		p.input.Reset()
		cmd := p.input.Focus()
		return p, cmd
	}
	return p, nil
}

func (p Picker[T]) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		value := p.input.Value()
		p.screen.WriteLine(value, "", "")
		p.input.Blur()
		p.step = p.session.SubmitText(value, nil)
		return p.advance()
	case tea.KeyEsc, tea.KeyCtrlC:
		p.input.Blur()
		p.step = p.session.SubmitText("", ErrInputCanceled)
		return p.advance()
	}

	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

func (p Picker[T]) screenHeight() int {
	if p.showHelp {
		return max(1, p.height-1)
	}
	return max(1, p.height)
}

// View implements tea.Model.
func (p Picker[T]) View() string {
	if !p.started {
		return ""
	}
	if p.session.Done() {
		// leave nothing behind; the caller prints the result
		return ""
	}

	var sb strings.Builder
	sb.WriteString(p.screen.View())
	if p.step == selection.StepReadLine {
		sb.WriteString(p.input.View())
	}
	if p.showHelp {
		sb.WriteString("\n")
		sb.WriteString(p.help.View(p.keys))
	}
	return sb.String()
}

// Result returns the outcome of the session and the fatal error, if any.
func (p Picker[T]) Result() (selection.Result[T], error) {
	if !p.started {
		return selection.Result[T]{Index: -1, InputType: selection.Canceled}, p.err
	}
	return p.session.Result(), p.err
}

// Run shows a picker and blocks until it finishes.
func Run[T any](data *selection.Data[T], opts *selection.Options, options []PickerOption, programOpts ...tea.ProgramOption) (selection.Result[T], error) {
	final, err := tea.NewProgram(NewPicker(data, opts, options...), programOpts...).Run()
	if err != nil {
		return selection.Result[T]{Index: -1, InputType: selection.Canceled}, err
	}
	return final.(Picker[T]).Result()
}
