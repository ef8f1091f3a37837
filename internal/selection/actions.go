package selection

import (
	"github.com/pengelbrecht/gridselect/internal/keys"
)

// action is what a key press asks the session to do.
type action uint8

const (
	actEcho action = iota
	actSelect
	actManual
	actCancel
	actHelp
	actToggleTips
	actRefresh
	actResetRefresh
	actPagePrev
	actPageNext
	actPageTop
	actPageBottom
	actUp
	actDown
	actLeft
	actRight
	actRowStart
	actFirst
	actRowEnd
	actLast
	actHotkey
)

var actionNames = [...]string{
	actEcho:         "echo",
	actSelect:       "select",
	actManual:       "manual",
	actCancel:       "cancel",
	actHelp:         "help",
	actToggleTips:   "toggle-tips",
	actRefresh:      "refresh",
	actResetRefresh: "reset-refresh",
	actPagePrev:     "page-prev",
	actPageNext:     "page-next",
	actPageTop:      "page-top",
	actPageBottom:   "page-bottom",
	actUp:           "up",
	actDown:         "down",
	actLeft:         "left",
	actRight:        "right",
	actRowStart:     "row-start",
	actFirst:        "first",
	actRowEnd:       "row-end",
	actLast:         "last",
	actHotkey:       "hotkey",
}

func (a action) String() string {
	if int(a) < len(actionNames) {
		return actionNames[a]
	}
	return "unknown"
}

// ctrlMatch says how the Ctrl modifier takes part in matching a binding.
type ctrlMatch uint8

const (
	anyCtrl ctrlMatch = iota
	noCtrl
	withCtrl
)

func (m ctrlMatch) matches(ctrl bool) bool {
	switch m {
	case noCtrl:
		return !ctrl
	case withCtrl:
		return ctrl
	default:
		return true
	}
}

type transition struct {
	keys []keys.Key
	ctrl ctrlMatch
	act  action
}

// transitions is evaluated top to bottom; the first matching row wins.
// Printable hotkeys and the space bar are resolved after the table.
var transitions = []transition{
	{[]keys.Key{keys.KeyEnter}, anyCtrl, actSelect},
	{[]keys.Key{keys.KeyBackspace, keys.KeyDelete, keys.KeyClear}, anyCtrl, actManual},
	{[]keys.Key{keys.KeyEscape, keys.KeyPause, keys.KeyBreak}, anyCtrl, actCancel},
	{[]keys.Key{keys.KeyF1}, anyCtrl, actHelp},
	{[]keys.Key{keys.KeyF12}, anyCtrl, actToggleTips},
	{[]keys.Key{keys.KeyF5}, withCtrl, actResetRefresh},
	{[]keys.Key{keys.KeyF5}, noCtrl, actRefresh},
	{[]keys.Key{keys.KeyPageUp}, noCtrl, actPagePrev},
	{[]keys.Key{keys.KeyPageDown}, noCtrl, actPageNext},
	{[]keys.Key{keys.KeyPageUp}, withCtrl, actPageTop},
	{[]keys.Key{keys.KeyPageDown}, withCtrl, actPageBottom},
	{[]keys.Key{keys.KeyUp}, anyCtrl, actUp},
	{[]keys.Key{keys.KeyDown}, anyCtrl, actDown},
	{[]keys.Key{keys.KeyLeft}, anyCtrl, actLeft},
	{[]keys.Key{keys.KeyRight}, anyCtrl, actRight},
	{[]keys.Key{keys.KeyHome}, noCtrl, actRowStart},
	{[]keys.Key{keys.KeyHome}, withCtrl, actFirst},
	{[]keys.Key{keys.KeyEnd}, noCtrl, actRowEnd},
	{[]keys.Key{keys.KeyEnd}, withCtrl, actLast},
}

// resolve maps a key event to an action. hasHotkey reports whether a
// printable character is bound to an item.
func resolve(ev keys.Event, hasHotkey func(rune) bool) action {
	for _, t := range transitions {
		if !t.ctrl.matches(ev.Ctrl()) {
			continue
		}
		for _, k := range t.keys {
			if k == ev.Key {
				return t.act
			}
		}
	}

	if ev.Printable() && hasHotkey(ev.Rune) {
		return actHotkey
	}
	if ev.Key == keys.KeySpace {
		return actSelect
	}
	return actEcho
}
