package app

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/nekomimist/nvpix/internal/config"
	"github.com/nekomimist/nvpix/internal/ui"
)

// input is one normalized event plus the binding chords it may trigger when no
// widget handles it, most specific first.
type input struct {
	ev     ui.Event
	chords []Chord
}

// dispatcher delivers events to the widget tree.
type dispatcher interface {
	Dispatch(ev ui.Event) bool
}

// actor runs bound actions and user commands.
type actor interface {
	Action(name string) bool
	RunCommand(c config.Command) error
}

// clickTracker counts presses of the same button within the double click
// window. The second press reports 2 and restarts the count.
type clickTracker struct {
	interval time.Duration
	last     time.Time
	button   ui.MouseButton
	count    int
}

func (t *clickTracker) press(b ui.MouseButton, now time.Time) int {
	if t.count > 0 && b == t.button && now.Sub(t.last) <= t.interval {
		t.count++
	} else {
		t.count = 1
		t.button = b
	}
	t.last = now
	if t.count == 2 {
		t.count = 0
		return 2
	}
	return 1
}

// InputHandler polls ebiten once per frame and routes what it finds: widgets
// see every event first and bindings only get what they leave unhandled.
type InputHandler struct {
	keys     *Bindings
	mouse    *Bindings
	commands map[Chord][]config.Command

	settings config.MouseSettings
	clicks   clickTracker

	cursor    ui.Point
	hasCursor bool
	keyBuf    []ebiten.Key
}

// NewInputHandler creates an InputHandler for the configured bindings.
func NewInputHandler(cfg config.Config) *InputHandler {
	return &InputHandler{
		keys:     NewBindings(cfg.Keybindings),
		mouse:    NewBindings(cfg.Mousebindings),
		commands: indexCommands(cfg.Commands),
		settings: cfg.Mouse,
		clicks:   clickTracker{interval: cfg.Mouse.DoubleClickInterval()},
	}
}

// HandleInput processes all input for the current frame.
// Returns true if any input was processed, false otherwise
func (h *InputHandler) HandleInput(d dispatcher, a actor, now time.Time) bool {
	processed := false
	for _, in := range h.poll(now) {
		processed = h.route(d, a, in) || processed
	}
	return processed
}

// indexCommands maps each input chord to the commands it launches.
func indexCommands(commands []config.Command) map[Chord][]config.Command {
	index := make(map[Chord][]config.Command)
	for _, cmd := range commands {
		for _, s := range cmd.Input {
			if c, ok := ParseChord(s); ok {
				index[c] = append(index[c], cmd)
			}
		}
	}
	return index
}

// route hands in to the widgets, falling back to user commands and the bound
// action. A key may launch commands and run an action at once.
func (h *InputHandler) route(d dispatcher, a actor, in input) bool {
	if d.Dispatch(in.ev) {
		return true
	}
	launched := false
	if in.ev.Kind == ui.EventKey {
		for _, c := range in.chords {
			for _, cmd := range h.commands[c] {
				a.RunCommand(cmd)
				launched = true
			}
		}
	}
	for _, c := range in.chords {
		var action string
		var ok bool
		if in.ev.Kind == ui.EventKey {
			action, ok = h.keys.Lookup(c)
		} else {
			action, ok = h.mouse.Lookup(c)
		}
		if ok {
			return a.Action(action) || launched
		}
	}
	return launched
}

// modifiers returns a chord carrying the modifier keys currently held.
func modifiers() Chord {
	return Chord{
		Shift: ebiten.IsKeyPressed(ebiten.KeyShift),
		Ctrl:  ebiten.IsKeyPressed(ebiten.KeyControl),
		Alt:   ebiten.IsKeyPressed(ebiten.KeyAlt),
	}
}

func (h *InputHandler) poll(now time.Time) []input {
	var out []input
	mods := modifiers()

	x, y := ebiten.CursorPosition()
	pos := ui.Point{X: float64(x), Y: float64(y)}
	if !h.hasCursor || pos != h.cursor {
		h.cursor, h.hasCursor = pos, true
		out = append(out, input{ev: ui.Event{Kind: ui.EventPointerMove, Pos: pos}})
	}

	for _, m := range mouseButtons {
		if inpututil.IsMouseButtonJustPressed(m.ebiten) {
			clicks := h.clicks.press(m.button, now)
			out = append(out, input{
				ev:     ui.Event{Kind: ui.EventPointerPress, Pos: pos, Button: m.button, Clicks: clicks, Modifiers: mods.Modifiers()},
				chords: pressChords(m.button, clicks, mods),
			})
		}
		if inpututil.IsMouseButtonJustReleased(m.ebiten) {
			out = append(out, input{ev: ui.Event{Kind: ui.EventPointerRelease, Pos: pos, Button: m.button}})
		}
	}

	if wx, wy := ebiten.Wheel(); wx != 0 || wy != 0 {
		dx := wx * h.settings.WheelSensitivity
		dy := wy * h.settings.WheelSensitivity
		out = append(out, input{
			ev:     ui.Event{Kind: ui.EventScroll, Pos: pos, DX: dx, DY: dy, Modifiers: mods.Modifiers()},
			chords: wheelChords(dx, dy, h.settings.WheelInverted, mods),
		})
	}

	h.keyBuf = inpututil.AppendJustPressedKeys(h.keyBuf[:0])
	for _, key := range h.keyBuf {
		name, ok := keyNames[key]
		if !ok {
			continue
		}
		c := mods
		c.Name = name
		out = append(out, input{
			ev:     ui.Event{Kind: ui.EventKey, Key: name, Modifiers: c.Modifiers()},
			chords: []Chord{c},
		})
	}
	return out
}

// pressChords returns the chords a button press may trigger. A double click
// tries its own binding before the single click one.
func pressChords(b ui.MouseButton, clicks int, mods Chord) []Chord {
	name := buttonName(b)
	if name == "" {
		return nil
	}
	single := mods
	single.Name = name
	if clicks < 2 {
		return []Chord{single}
	}
	double := mods
	double.Name = "Double" + name
	return []Chord{double, single}
}

// wheelChords maps a scroll to wheel chords, vertical first.
func wheelChords(dx, dy float64, inverted bool, mods Chord) []Chord {
	if inverted {
		dy = -dy
	}
	var chords []Chord
	add := func(name string) {
		c := mods
		c.Name = name
		chords = append(chords, c)
	}
	switch {
	case dy > 0:
		add("WheelUp")
	case dy < 0:
		add("WheelDown")
	}
	switch {
	case dx > 0:
		add("WheelRight")
	case dx < 0:
		add("WheelLeft")
	}
	return chords
}
