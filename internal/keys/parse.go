package keys

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	charNull      = 0x00
	charCtrlC     = 0x03
	charBackspace = 0x7f
	charCtrlH     = 0x08
	charTab       = 0x09
	charCtrlJ     = 0x0a
	charEnter     = 0x0d
	charEsc       = 0x1b
	charSpace     = 0x20
)

// csiFinal maps the final byte of a CSI sequence (ESC [ ... X) to a key.
var csiFinal = map[byte]Key{
	'A': KeyUp,
	'B': KeyDown,
	'C': KeyRight,
	'D': KeyLeft,
	'E': KeyClear, // keypad 5 without num lock
	'G': KeyClear,
	'H': KeyHome,
	'F': KeyEnd,
	'P': KeyF1,
	'Q': KeyF2,
	'R': KeyF3,
	'S': KeyF4,
	'Z': KeyTab, // shift+tab, modifier added below
}

// csiTilde maps the numeric parameter of ESC [ n ~ sequences to a key.
var csiTilde = map[int]Key{
	1:  KeyHome,
	2:  KeyInsert,
	3:  KeyDelete,
	4:  KeyEnd,
	5:  KeyPageUp,
	6:  KeyPageDown,
	7:  KeyHome,
	8:  KeyEnd,
	11: KeyF1,
	12: KeyF2,
	13: KeyF3,
	14: KeyF4,
	15: KeyF5,
	17: KeyF6,
	18: KeyF7,
	19: KeyF8,
	20: KeyF9,
	21: KeyF10,
	23: KeyF11,
	24: KeyF12,
}

// ss3Final maps ESC O X sequences (application cursor mode) to a key.
var ss3Final = map[byte]Key{
	'A': KeyUp,
	'B': KeyDown,
	'C': KeyRight,
	'D': KeyLeft,
	'H': KeyHome,
	'F': KeyEnd,
	'E': KeyClear,
	'P': KeyF1,
	'Q': KeyF2,
	'R': KeyF3,
	'S': KeyF4,
}

// linuxFn maps the Linux console's ESC [ [ X function keys.
var linuxFn = map[byte]Key{
	'A': KeyF1,
	'B': KeyF2,
	'C': KeyF3,
	'D': KeyF4,
	'E': KeyF5,
}

// Parse decodes the first key in b and returns it together with the number
// of bytes consumed. Unknown sequences are consumed and reported as KeyNone.
// A lone ESC byte is an Escape key press; callers that read in chunks
// should only pass a lone ESC when no more input is pending.
func Parse(b []byte) (Event, int) {
	if len(b) == 0 {
		return Event{}, 0
	}

	switch c := b[0]; {
	case c == charEsc:
		return parseEscape(b)
	case c == charEnter || c == charCtrlJ:
		return Event{Key: KeyEnter}, 1
	case c == charTab:
		return Event{Key: KeyTab}, 1
	case c == charBackspace || c == charCtrlH:
		return Event{Key: KeyBackspace}, 1
	case c == charCtrlC:
		return Event{Key: KeyBreak, Mod: ModCtrl}, 1
	case c == charNull:
		return Event{Key: KeySpace, Rune: ' ', Mod: ModCtrl}, 1
	case c == charSpace:
		return Event{Key: KeySpace, Rune: ' '}, 1
	case c < charSpace:
		if c <= 0x1a {
			return Event{Key: KeyRune, Rune: rune('a' + c - 1), Mod: ModCtrl}, 1
		}
		return Event{}, 1
	}

	r, size := utf8.DecodeRune(b)
	if r == utf8.RuneError && size <= 1 {
		return Event{}, 1
	}
	return Event{Key: KeyRune, Rune: r}, size
}

func parseEscape(b []byte) (Event, int) {
	if len(b) == 1 {
		return Event{Key: KeyEscape}, 1
	}

	switch b[1] {
	case '[':
		return parseCSI(b)
	case 'O':
		if len(b) < 3 {
			return Event{Key: KeyEscape}, 1
		}
		if k, ok := ss3Final[b[2]]; ok {
			return Event{Key: k}, 3
		}
		return Event{}, 3
	case charEsc:
		return Event{Key: KeyEscape}, 1
	}

	ev, n := Parse(b[1:])
	if ev.Key == KeyNone {
		return Event{Key: KeyEscape}, 1
	}
	ev.Mod |= ModAlt
	return ev, n + 1
}

func parseCSI(b []byte) (Event, int) {
	if len(b) >= 4 && b[2] == '[' {
		if k, ok := linuxFn[b[3]]; ok {
			return Event{Key: k}, 4
		}
		return Event{}, 4
	}

	i := 2
	for i < len(b) && b[i] >= 0x30 && b[i] <= 0x3f {
		i++
	}
	if i >= len(b) {
		// truncated sequence, nothing sensible to report
		return Event{}, len(b)
	}

	final := b[i]
	params := strings.Split(string(b[2:i]), ";")
	n := i + 1

	var mod Modifier
	if len(params) > 1 {
		mod = parseModifier(params[1])
	}

	if final == '~' {
		code, err := strconv.Atoi(params[0])
		if err != nil {
			return Event{}, n
		}
		if k, ok := csiTilde[code]; ok {
			return Event{Key: k, Mod: mod}, n
		}
		// bracketed paste markers and other private codes are ignored
		return Event{}, n
	}

	k, ok := csiFinal[final]
	if !ok {
		return Event{}, n
	}
	if final == 'Z' {
		mod |= ModShift
	}
	return Event{Key: k, Mod: mod}, n
}

// parseModifier decodes an xterm modifier parameter (1 + bitmask).
func parseModifier(p string) Modifier {
	v, err := strconv.Atoi(p)
	if err != nil || v < 2 {
		return ModNone
	}
	bits := v - 1
	var mod Modifier
	if bits&1 != 0 {
		mod |= ModShift
	}
	if bits&2 != 0 {
		mod |= ModAlt
	}
	if bits&4 != 0 {
		mod |= ModCtrl
	}
	return mod
}

// ParseAll decodes every key in b. Trailing bytes of an unfinished
// sequence are decoded as far as possible.
func ParseAll(b []byte) []Event {
	var events []Event
	for len(b) > 0 {
		ev, n := Parse(b)
		if n == 0 {
			break
		}
		if ev.Key != KeyNone {
			events = append(events, ev)
		}
		b = b[n:]
	}
	return events
}
