package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pengelbrecht/gridselect/internal/keys"
)

// KeyMap documents the picker's key bindings for the help footer. The
// bindings themselves are resolved by the selection session.
type KeyMap struct {
	Move    key.Binding
	Page    key.Binding
	Jump    key.Binding
	Select  key.Binding
	Manual  key.Binding
	Cancel  key.Binding
	Tips    key.Binding
	Refresh key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Move: key.NewBinding(
			key.WithKeys("up", "down", "left", "right"),
			key.WithHelp("←↑↓→", "move"),
		),
		Page: key.NewBinding(
			key.WithKeys("pgup", "pgdown"),
			key.WithHelp("PgUp/PgDn", "page"),
		),
		Jump: key.NewBinding(
			key.WithKeys("home", "end", "ctrl+home", "ctrl+end"),
			key.WithHelp("Home/End", "row start/end"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "select"),
		),
		Manual: key.NewBinding(
			key.WithKeys("backspace", "delete"),
			key.WithHelp("bksp", "type a value"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc", "ctrl+c"),
			key.WithHelp("esc", "cancel"),
		),
		Tips: key.NewBinding(
			key.WithKeys("f1", "f12"),
			key.WithHelp("F12", "tips"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("f5"),
			key.WithHelp("F5", "redraw"),
		),
	}
}

// ShortHelp returns a short help string for the footer.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Move, k.Select, k.Cancel, k.Tips}
}

// FullHelp returns all key bindings for the help overlay.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Move, k.Page, k.Jump},
		{k.Select, k.Manual, k.Cancel},
		{k.Tips, k.Refresh},
	}
}

// teaKeys maps Bubble Tea key types onto engine keys.
var teaKeys = map[tea.KeyType]keys.Event{
	tea.KeyEnter:      keys.Press(keys.KeyEnter),
	tea.KeyTab:        keys.Press(keys.KeyTab),
	tea.KeyBackspace:  keys.Press(keys.KeyBackspace),
	tea.KeyDelete:     keys.Press(keys.KeyDelete),
	tea.KeyEsc:        keys.Press(keys.KeyEscape),
	tea.KeyCtrlC:      keys.CtrlPress(keys.KeyBreak),
	tea.KeySpace:      keys.Rune(' '),
	tea.KeyInsert:     keys.Press(keys.KeyInsert),
	tea.KeyUp:         keys.Press(keys.KeyUp),
	tea.KeyDown:       keys.Press(keys.KeyDown),
	tea.KeyLeft:       keys.Press(keys.KeyLeft),
	tea.KeyRight:      keys.Press(keys.KeyRight),
	tea.KeyCtrlUp:     keys.CtrlPress(keys.KeyUp),
	tea.KeyCtrlDown:   keys.CtrlPress(keys.KeyDown),
	tea.KeyCtrlLeft:   keys.CtrlPress(keys.KeyLeft),
	tea.KeyCtrlRight:  keys.CtrlPress(keys.KeyRight),
	tea.KeyHome:       keys.Press(keys.KeyHome),
	tea.KeyEnd:        keys.Press(keys.KeyEnd),
	tea.KeyCtrlHome:   keys.CtrlPress(keys.KeyHome),
	tea.KeyCtrlEnd:    keys.CtrlPress(keys.KeyEnd),
	tea.KeyPgUp:       keys.Press(keys.KeyPageUp),
	tea.KeyPgDown:     keys.Press(keys.KeyPageDown),
	tea.KeyCtrlPgUp:   keys.CtrlPress(keys.KeyPageUp),
	tea.KeyCtrlPgDown: keys.CtrlPress(keys.KeyPageDown),
	tea.KeyF1:         keys.Press(keys.KeyF1),
	tea.KeyF2:         keys.Press(keys.KeyF2),
	tea.KeyF3:         keys.Press(keys.KeyF3),
	tea.KeyF4:         keys.Press(keys.KeyF4),
	tea.KeyF5:         keys.Press(keys.KeyF5),
	tea.KeyF6:         keys.Press(keys.KeyF6),
	tea.KeyF7:         keys.Press(keys.KeyF7),
	tea.KeyF8:         keys.Press(keys.KeyF8),
	tea.KeyF9:         keys.Press(keys.KeyF9),
	tea.KeyF10:        keys.Press(keys.KeyF10),
	tea.KeyF11:        keys.Press(keys.KeyF11),
	tea.KeyF12:        keys.Press(keys.KeyF12),
}

// toEvent converts a Bubble Tea key message. Messages with no engine
// equivalent report false.
func toEvent(msg tea.KeyMsg) (keys.Event, bool) {
	var ev keys.Event
	if msg.Type == tea.KeyRunes {
		if len(msg.Runes) != 1 {
			return keys.Event{}, false
		}
		ev = keys.Rune(msg.Runes[0])
	} else {
		mapped, ok := teaKeys[msg.Type]
		if !ok {
			return keys.Event{}, false
		}
		ev = mapped
	}
	if msg.Alt {
		ev.Mod |= keys.ModAlt
	}
	return ev, true
}
