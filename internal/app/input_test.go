package app

import (
	"reflect"
	"testing"
	"time"

	"github.com/nekomimist/nvpix/internal/config"
	"github.com/nekomimist/nvpix/internal/ui"
)

type fakeDispatcher struct {
	handled bool
	events  []ui.Event
}

func (d *fakeDispatcher) Dispatch(ev ui.Event) bool {
	d.events = append(d.events, ev)
	return d.handled
}

type fakeActor struct {
	actions  []string
	commands []string
}

func (a *fakeActor) Action(name string) bool {
	a.actions = append(a.actions, name)
	return true
}

func (a *fakeActor) RunCommand(c config.Command) error {
	a.commands = append(a.commands, c.Program)
	return nil
}

func TestClickTracker(t *testing.T) {
	base := time.Now()
	tr := clickTracker{interval: 300 * time.Millisecond}

	tests := []struct {
		name   string
		button ui.MouseButton
		at     time.Duration
		want   int
	}{
		{"First press", ui.ButtonLeft, 0, 1},
		{"Second press in time", ui.ButtonLeft, 200 * time.Millisecond, 2},
		{"Third press starts over", ui.ButtonLeft, 300 * time.Millisecond, 1},
		{"Other button", ui.ButtonRight, 350 * time.Millisecond, 1},
		{"Too slow", ui.ButtonRight, 800 * time.Millisecond, 1},
		{"Double right", ui.ButtonRight, 900 * time.Millisecond, 2},
	}
	for _, tt := range tests {
		if got := tr.press(tt.button, base.Add(tt.at)); got != tt.want {
			t.Errorf("%s: clicks = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestPressChords(t *testing.T) {
	shift := Chord{Shift: true}
	got := pressChords(ui.ButtonMiddle, 2, shift)
	want := []Chord{
		{Name: "DoubleMiddleClick", Shift: true},
		{Name: "MiddleClick", Shift: true},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("double click chords = %v, want %v", got, want)
	}
	if got := pressChords(ui.ButtonBack, 1, Chord{}); !reflect.DeepEqual(got, []Chord{{Name: "Back"}}) {
		t.Errorf("back chords = %v", got)
	}
}

func TestWheelChords(t *testing.T) {
	tests := []struct {
		name     string
		dx, dy   float64
		inverted bool
		want     []string
	}{
		{"Up", 0, 1, false, []string{"WheelUp"}},
		{"Down", 0, -2, false, []string{"WheelDown"}},
		{"Inverted", 0, 1, true, []string{"WheelDown"}},
		{"Diagonal", -1, 1, false, []string{"WheelUp", "WheelLeft"}},
		{"Right", 0.5, 0, false, []string{"WheelRight"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var names []string
			for _, c := range wheelChords(tt.dx, tt.dy, tt.inverted, Chord{}) {
				names = append(names, c.Name)
			}
			if !reflect.DeepEqual(names, tt.want) {
				t.Errorf("wheelChords = %v, want %v", names, tt.want)
			}
		})
	}
}

func TestRouteWidgetsFirst(t *testing.T) {
	h := NewInputHandler(config.Default())
	key := input{
		ev:     ui.Event{Kind: ui.EventKey, Key: "ArrowRight"},
		chords: []Chord{{Name: "ArrowRight"}},
	}

	d := &fakeDispatcher{handled: true}
	a := &fakeActor{}
	if !h.route(d, a, key) {
		t.Error("handled event not reported")
	}
	if len(a.actions) != 0 {
		t.Errorf("binding fired although a widget handled the key: %v", a.actions)
	}

	d.handled = false
	if !h.route(d, a, key) {
		t.Error("bound key not reported")
	}
	if !reflect.DeepEqual(a.actions, []string{config.ActionNext}) {
		t.Errorf("actions = %v", a.actions)
	}
}

func TestRouteFallsBackToSingleClick(t *testing.T) {
	cfg := config.Default()
	cfg.Mousebindings = map[string][]string{
		config.ActionFit:        {"RightClick"},
		config.ActionFullscreen: {"DoubleMiddleClick"},
	}
	h := NewInputHandler(cfg)
	d := &fakeDispatcher{}
	a := &fakeActor{}

	h.route(d, a, input{
		ev:     ui.Event{Kind: ui.EventPointerPress, Button: ui.ButtonRight, Clicks: 2},
		chords: pressChords(ui.ButtonRight, 2, Chord{}),
	})
	h.route(d, a, input{
		ev:     ui.Event{Kind: ui.EventPointerPress, Button: ui.ButtonMiddle, Clicks: 2},
		chords: pressChords(ui.ButtonMiddle, 2, Chord{}),
	})
	h.route(d, a, input{
		ev:     ui.Event{Kind: ui.EventPointerPress, Button: ui.ButtonMiddle, Clicks: 1},
		chords: pressChords(ui.ButtonMiddle, 1, Chord{}),
	})

	want := []string{config.ActionFit, config.ActionFullscreen}
	if !reflect.DeepEqual(a.actions, want) {
		t.Errorf("actions = %v, want %v", a.actions, want)
	}
	if len(d.events) != 3 {
		t.Errorf("widgets saw %d events, want 3", len(d.events))
	}
}

func TestRouteRunsCommands(t *testing.T) {
	cfg := config.Default()
	cfg.Commands = []config.Command{
		{Input: []string{"Ctrl+KeyG"}, Program: "gimp"},
		{Input: []string{"KeyD", "Ctrl+KeyG"}, Program: "sync"},
	}
	h := NewInputHandler(cfg)
	d := &fakeDispatcher{}
	a := &fakeActor{}

	key := func(c Chord) input {
		return input{ev: ui.Event{Kind: ui.EventKey, Key: c.Name, Modifiers: c.Modifiers()}, chords: []Chord{c}}
	}
	if !h.route(d, a, key(Chord{Name: "KeyG", Ctrl: true})) {
		t.Error("command chord not reported handled")
	}
	if !reflect.DeepEqual(a.commands, []string{"gimp", "sync"}) || len(a.actions) != 0 {
		t.Errorf("commands %v actions %v", a.commands, a.actions)
	}

	a.commands = nil
	h.route(d, a, key(Chord{Name: "KeyD"}))
	if !reflect.DeepEqual(a.commands, []string{"sync"}) || !reflect.DeepEqual(a.actions, []string{config.ActionNext}) {
		t.Errorf("shared chord: commands %v actions %v", a.commands, a.actions)
	}

	a.commands = nil
	d.handled = true
	h.route(d, a, key(Chord{Name: "KeyG", Ctrl: true}))
	if len(a.commands) != 0 {
		t.Error("command ran although a widget took the key")
	}
}

func TestLeftClickBindingFires(t *testing.T) {
	cfg := config.Default()
	cfg.Mousebindings = map[string][]string{config.ActionNext: {"LeftClick"}}
	h := NewInputHandler(cfg)
	a := &fakeActor{}
	h.route(&fakeDispatcher{}, a, input{
		ev:     ui.Event{Kind: ui.EventPointerPress, Button: ui.ButtonLeft, Clicks: 1},
		chords: pressChords(ui.ButtonLeft, 1, Chord{}),
	})
	if !reflect.DeepEqual(a.actions, []string{config.ActionNext}) {
		t.Errorf("actions = %v", a.actions)
	}
}
