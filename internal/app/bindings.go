// Package app runs the viewer inside an ebiten window: it turns ebiten input
// into widget events and bound actions, and replays the widget tree's draw
// commands onto the screen.
package app

import (
	"sort"
	"strings"
)

// Chord is one key or mouse input together with the modifiers held with it.
type Chord struct {
	Name  string
	Shift bool
	Ctrl  bool
	Alt   bool
}

// ParseChord parses a binding string like "Shift+KeyB" or "Ctrl+WheelUp".
func ParseChord(s string) (Chord, bool) {
	parts := strings.Split(s, "+")
	c := Chord{Name: parts[len(parts)-1]}
	if c.Name == "" {
		return Chord{}, false
	}
	for _, mod := range parts[:len(parts)-1] {
		switch strings.ToLower(mod) {
		case "shift":
			c.Shift = true
		case "ctrl":
			c.Ctrl = true
		case "alt":
			c.Alt = true
		default:
			return Chord{}, false
		}
	}
	return c, true
}

// Modifiers returns the held modifiers as names.
func (c Chord) Modifiers() []string {
	var mods []string
	if c.Shift {
		mods = append(mods, "Shift")
	}
	if c.Ctrl {
		mods = append(mods, "Ctrl")
	}
	if c.Alt {
		mods = append(mods, "Alt")
	}
	return mods
}

func (c Chord) String() string {
	return strings.Join(append(c.Modifiers(), c.Name), "+")
}

// Bindings resolves chords to action names. Modifiers must match exactly, so
// "KeyA" does not fire while Shift is held.
type Bindings struct {
	actions map[Chord]string
}

// NewBindings indexes an action-to-inputs map such as Config.Keybindings.
// Unparseable entries are skipped; when two actions claim one chord the
// alphabetically first action wins.
func NewBindings(bindings map[string][]string) *Bindings {
	names := make([]string, 0, len(bindings))
	for name := range bindings {
		names = append(names, name)
	}
	sort.Strings(names)

	b := &Bindings{actions: make(map[Chord]string)}
	for _, action := range names {
		for _, s := range bindings[action] {
			c, ok := ParseChord(s)
			if !ok {
				continue
			}
			if _, taken := b.actions[c]; !taken {
				b.actions[c] = action
			}
		}
	}
	return b
}

// Lookup returns the action bound to c.
func (b *Bindings) Lookup(c Chord) (string, bool) {
	action, ok := b.actions[c]
	return action, ok
}
