// Package keys defines terminal key events and decodes them from raw tty input.
package keys

import (
	"strings"
)

// Key identifies a logical key. Printable characters use KeyRune and carry
// the character in Event.Rune.
type Key uint8

const (
	KeyNone Key = iota
	KeyRune

	KeyEnter
	KeyTab
	KeyBackspace
	KeyDelete
	KeyClear
	KeyEscape
	KeyPause
	KeyBreak // Ctrl+C
	KeySpace
	KeyInsert

	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown

	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
)

var keyNames = map[Key]string{
	KeyNone:      "none",
	KeyRune:      "rune",
	KeyEnter:     "enter",
	KeyTab:       "tab",
	KeyBackspace: "backspace",
	KeyDelete:    "delete",
	KeyClear:     "clear",
	KeyEscape:    "esc",
	KeyPause:     "pause",
	KeyBreak:     "break",
	KeySpace:     "space",
	KeyInsert:    "insert",
	KeyUp:        "up",
	KeyDown:      "down",
	KeyLeft:      "left",
	KeyRight:     "right",
	KeyHome:      "home",
	KeyEnd:       "end",
	KeyPageUp:    "pgup",
	KeyPageDown:  "pgdown",
	KeyF1:        "f1",
	KeyF2:        "f2",
	KeyF3:        "f3",
	KeyF4:        "f4",
	KeyF5:        "f5",
	KeyF6:        "f6",
	KeyF7:        "f7",
	KeyF8:        "f8",
	KeyF9:        "f9",
	KeyF10:       "f10",
	KeyF11:       "f11",
	KeyF12:       "f12",
}

// String returns the lower-case key name.
func (k Key) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	return "unknown"
}

// Modifier is a bitmask of held modifier keys.
type Modifier uint8

const (
	ModNone  Modifier = 0
	ModShift Modifier = 1 << 0
	ModAlt   Modifier = 1 << 1
	ModCtrl  Modifier = 1 << 2
)

// Has reports whether all bits of m2 are set in m.
func (m Modifier) Has(m2 Modifier) bool {
	return m&m2 == m2
}

// Event is a single decoded key press.
type Event struct {
	Key  Key
	Rune rune
	Mod  Modifier
}

// Ctrl reports whether the Ctrl modifier was held.
func (e Event) Ctrl() bool {
	return e.Mod.Has(ModCtrl)
}

// Printable reports whether the event carries a character that can be
// matched against a hotkey.
func (e Event) Printable() bool {
	return (e.Key == KeyRune || e.Key == KeySpace) && e.Rune != 0 && !e.Ctrl()
}

// String formats the event the way key bindings are usually written,
// e.g. "ctrl+pgdown", "alt+x", "q".
func (e Event) String() string {
	var sb strings.Builder
	if e.Mod.Has(ModCtrl) {
		sb.WriteString("ctrl+")
	}
	if e.Mod.Has(ModAlt) {
		sb.WriteString("alt+")
	}
	if e.Mod.Has(ModShift) {
		sb.WriteString("shift+")
	}
	if e.Key == KeyRune {
		sb.WriteRune(e.Rune)
	} else {
		sb.WriteString(e.Key.String())
	}
	return sb.String()
}

// Rune returns a printable key event for r.
func Rune(r rune) Event {
	if r == ' ' {
		return Event{Key: KeySpace, Rune: ' '}
	}
	return Event{Key: KeyRune, Rune: r}
}

// Press returns an event for a named key without modifiers.
func Press(k Key) Event {
	return Event{Key: k}
}

// CtrlPress returns an event for a named key with Ctrl held.
func CtrlPress(k Key) Event {
	return Event{Key: k, Mod: ModCtrl}
}
