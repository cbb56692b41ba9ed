// Package keys classifies key presses for the console's submit shortcut.
package keys

import (
	"strconv"
	"strings"
)

// KeyEnter is the activation key name
const KeyEnter = "Enter"

// Event is a single key press with its modifier state
type Event struct {
	Key   string
	Ctrl  bool
	Meta  bool
	Alt   bool
	Shift bool
}

// PrimaryModifierHeld reports whether the platform's primary modifier is
// held: Command (Meta) on darwin, Control everywhere else.
func PrimaryModifierHeld(ev Event, platform string) bool {
	if platform == "darwin" {
		return ev.Meta
	}
	return ev.Ctrl
}

// IsSubmit reports whether ev is the submit chord (primary modifier + Enter)
func IsSubmit(ev Event, platform string) bool {
	return ev.Key == KeyEnter && PrimaryModifierHeld(ev, platform)
}

// modifier bits as encoded by xterm and the kitty keyboard protocol (value-1)
const (
	modShift = 1 << iota
	modAlt
	modCtrl
	modSuper
	modHyper
	modMeta
)

// Decode parses a terminal escape sequence for a modified Enter key. It
// understands xterm modifyOtherKeys ("ESC[27;<mod>;13~") and CSI u
// ("ESC[13;<mod>u").
func Decode(seq string) (Event, bool) {
	body, ok := strings.CutPrefix(seq, "\x1b[")
	if !ok {
		return Event{}, false
	}

	var code, mods string
	switch {
	case strings.HasSuffix(body, "~"):
		parts := strings.Split(strings.TrimSuffix(body, "~"), ";")
		if len(parts) != 3 || parts[0] != "27" {
			return Event{}, false
		}
		mods, code = parts[1], parts[2]
	case strings.HasSuffix(body, "u"):
		parts := strings.Split(strings.TrimSuffix(body, "u"), ";")
		if len(parts) != 2 {
			return Event{}, false
		}
		code, mods = parts[0], parts[1]
	default:
		return Event{}, false
	}

	if code != "13" {
		return Event{}, false
	}
	m, err := strconv.Atoi(mods)
	if err != nil || m < 1 {
		return Event{}, false
	}
	bits := m - 1

	return Event{
		Key:   KeyEnter,
		Shift: bits&modShift != 0,
		Alt:   bits&modAlt != 0,
		Ctrl:  bits&modCtrl != 0,
		Meta:  bits&(modSuper|modMeta) != 0,
	}, true
}

// SplitTrailing separates a trailing key sequence from a line of input.
// ok is false when the line does not end in a recognised sequence.
func SplitTrailing(line string) (text string, ev Event, ok bool) {
	idx := strings.LastIndex(line, "\x1b[")
	if idx < 0 {
		return line, Event{}, false
	}
	ev, ok = Decode(line[idx:])
	if !ok {
		return line, Event{}, false
	}
	return line[:idx], ev, true
}
