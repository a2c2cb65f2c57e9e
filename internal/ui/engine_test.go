package ui

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/nekomimist/nvpix/internal/viewport"
)

// recorderNode is a fixed-size node recording the events it sees.
type recorderNode struct {
	Base
	size     Size
	mask     EventMask
	consume  bool
	events   []EventKind
	paintOut bool
}

func newRecorder(w, h float64, consume bool, kinds ...EventKind) *recorderNode {
	return &recorderNode{size: Size{W: w, H: h}, mask: MaskOf(kinds...), consume: consume}
}

func (p *recorderNode) Measure(c Constraints) Size { return c.Constrain(p.size) }
func (p *recorderNode) Interests() EventMask       { return p.mask }
func (p *recorderNode) HandleEvent(ev *Event) bool {
	p.events = append(p.events, ev.Kind)
	return p.consume
}
func (p *recorderNode) Paint(pt *Painter) {
	b := p.Bounds()
	pt.FillRect(b, color.RGBA{1, 2, 3, 255})
	if p.paintOut {
		pt.FillRect(Rect{X: b.X + b.W + 50, Y: b.Y, W: 10, H: 10}, color.RGBA{9, 9, 9, 255})
	}
}

func TestRedrawOnlyWhenDirty(t *testing.T) {
	label := NewLabel("hello")
	e := NewEngine(NewContainer(Vertical).Add(label))
	e.SetSize(200, 100)

	if !e.NeedsRedraw() {
		t.Fatal("new engine should need a redraw")
	}
	e.Redraw()
	if e.NeedsRedraw() {
		t.Fatal("redraw should clear the dirty flag")
	}

	label.SetText("hello")
	if e.NeedsRedraw() {
		t.Error("setting the same text should not dirty the engine")
	}
	label.SetText("world")
	if !e.NeedsRedraw() {
		t.Error("changing the text should dirty the engine")
	}
	e.Redraw()
	e.SetSize(200, 100)
	if e.NeedsRedraw() {
		t.Error("same size should not dirty the engine")
	}
	e.SetSize(300, 100)
	if !e.NeedsRedraw() {
		t.Error("resize should dirty the engine")
	}
}

func TestContainerLayout(t *testing.T) {
	top := newRecorder(50, 20, false)
	fill := newRecorder(10, 10, false)
	bottom := newRecorder(50, 30, false)
	root := NewContainer(Vertical)
	root.Padding = 5
	root.Spacing = 2
	root.Add(top).AddFlex(fill, 1).Add(bottom)

	e := NewEngine(root)
	e.SetSize(100, 200)
	e.Redraw()

	tests := []struct {
		name string
		node Node
		want Rect
	}{
		{"top", top, Rect{X: 5, Y: 5, W: 90, H: 20}},
		{"flex", fill, Rect{X: 5, Y: 27, W: 90, H: 136}},
		{"bottom", bottom, Rect{X: 5, Y: 165, W: 90, H: 30}},
	}
	for _, tt := range tests {
		if got := tt.node.Bounds(); got != tt.want {
			t.Errorf("%s bounds = %+v, want %+v", tt.name, got, tt.want)
		}
	}
}

func TestHorizontalMeasure(t *testing.T) {
	row := NewContainer(Horizontal)
	row.Spacing = 4
	row.Add(newRecorder(10, 5, false)).Add(newRecorder(20, 8, false))

	got := row.Measure(Loose(Size{W: 1000, H: 1000}))
	if got != (Size{W: 34, H: 8}) {
		t.Errorf("measure = %+v, want 34x8", got)
	}
}

func TestOverlayAlignment(t *testing.T) {
	back := newRecorder(0, 0, false)
	bar := newRecorder(10, 24, false)
	root := NewContainer(Overlay)
	root.AddAligned(back, AlignFill).AddAligned(bar, AlignBottom)

	e := NewEngine(root)
	e.SetSize(300, 200)
	e.Redraw()

	if back.Bounds() != (Rect{W: 300, H: 200}) {
		t.Errorf("fill child = %+v", back.Bounds())
	}
	if bar.Bounds() != (Rect{Y: 176, W: 300, H: 24}) {
		t.Errorf("bottom child = %+v", bar.Bounds())
	}
}

func TestPaintClipsToNodeBounds(t *testing.T) {
	child := newRecorder(20, 20, false)
	child.paintOut = true
	root := NewContainer(Horizontal).Add(child)

	e := NewEngine(root)
	e.SetSize(200, 100)
	cmds := e.Redraw()

	depth, fills := 0, 0
	for _, c := range cmds {
		switch c.Kind {
		case CmdPushClip:
			depth++
		case CmdPopClip:
			depth--
		case CmdFillRect:
			fills++
			if c.Color == (color.RGBA{9, 9, 9, 255}) {
				t.Error("command outside the node bounds was not clipped")
			}
		}
	}
	if depth != 0 {
		t.Errorf("unbalanced clip stack: %d", depth)
	}
	if fills != 1 {
		t.Errorf("fills = %d, want 1", fills)
	}
}

func TestEventsSkipSiblingsAndDeafNodes(t *testing.T) {
	inner := newRecorder(50, 50, false, EventPointerPress)
	deaf := newRecorder(50, 50, true)
	row := NewContainer(Horizontal)
	row.Add(inner).Add(deaf)

	under := newRecorder(0, 0, true, EventPointerPress, EventScroll)
	root := NewContainer(Overlay)
	root.AddAligned(under, AlignFill).AddAligned(row, AlignFill)

	e := NewEngine(root)
	e.SetSize(100, 50)
	e.Redraw()

	if e.Dispatch(Event{Kind: EventPointerPress, Pos: Point{X: 10, Y: 10}}) {
		t.Error("press not consumed on the hit path should be unhandled")
	}
	if len(inner.events) != 1 {
		t.Errorf("inner saw %v", inner.events)
	}

	if e.Dispatch(Event{Kind: EventScroll, Pos: Point{X: 60, Y: 10}, DY: 1}) {
		t.Error("scroll over the row should not reach the node underneath")
	}
	if len(deaf.events) != 0 {
		t.Error("node without interest received an event")
	}
	if len(under.events) != 0 {
		t.Error("node outside the hit path received an event")
	}
}

func TestEventsBubbleUpTheHitPath(t *testing.T) {
	leaf := newRecorder(20, 20, false, EventScroll)
	mid := NewContainer(Vertical)
	mid.Add(leaf)
	handler := &scrollContainer{Container: NewContainer(Vertical)}
	handler.Add(mid)

	e := NewEngine(handler)
	e.SetSize(100, 100)
	e.Redraw()

	if !e.Dispatch(Event{Kind: EventScroll, Pos: Point{X: 5, Y: 5}, DY: 1}) {
		t.Fatal("scroll should bubble to the interested ancestor")
	}
	if len(leaf.events) != 1 || handler.scrolls != 1 {
		t.Errorf("leaf saw %v, ancestor handled %d", leaf.events, handler.scrolls)
	}
}

type scrollContainer struct {
	*Container
	scrolls int
}

func (s *scrollContainer) Interests() EventMask { return MaskOf(EventScroll) }
func (s *scrollContainer) HandleEvent(ev *Event) bool {
	s.scrolls++
	return true
}

func TestButtonClickAndCapture(t *testing.T) {
	clicks := 0
	btn := NewButton("next", func() { clicks++ })
	root := NewContainer(Horizontal).Add(btn)
	e := NewEngine(root)
	e.SetSize(200, 50)
	e.Redraw()

	inside := Point{X: 5, Y: 5}
	outside := Point{X: 150, Y: 5}

	e.Dispatch(Event{Kind: EventPointerPress, Pos: inside})
	e.Dispatch(Event{Kind: EventPointerRelease, Pos: inside})
	if clicks != 1 {
		t.Fatalf("clicks = %d, want 1", clicks)
	}

	e.Dispatch(Event{Kind: EventPointerPress, Pos: inside})
	if !e.Dispatch(Event{Kind: EventPointerMove, Pos: outside}) {
		t.Error("captured move should be delivered to the button")
	}
	e.Dispatch(Event{Kind: EventPointerRelease, Pos: outside})
	if clicks != 1 {
		t.Errorf("release outside the button should not click, clicks = %d", clicks)
	}
}

func TestHoverLeaveInvalidates(t *testing.T) {
	btn := NewButton("b", nil)
	other := newRecorder(50, 20, false)
	root := NewContainer(Horizontal).Add(btn).Add(other)
	e := NewEngine(root)
	e.SetSize(200, 20)
	e.Redraw()

	e.Dispatch(Event{Kind: EventPointerMove, Pos: Point{X: 2, Y: 2}})
	if !btn.hovered || !e.NeedsRedraw() {
		t.Fatal("hover should mark the button and dirty the engine")
	}
	e.Redraw()

	e.Dispatch(Event{Kind: EventPointerMove, Pos: Point{X: btn.Bounds().W + 5, Y: 2}})
	if btn.hovered {
		t.Error("button still hovered after the pointer left")
	}
	if !e.NeedsRedraw() {
		t.Error("leaving should dirty the engine")
	}
}

func TestSliderFocusAndKeys(t *testing.T) {
	var got float64
	s := NewSlider(0, 1, 0.5, func(v float64) { got = v })
	s.Step = 0.25
	root := NewContainer(Horizontal).Add(s)
	e := NewEngine(root)
	e.SetSize(300, 40)
	e.Redraw()

	if e.Dispatch(Event{Kind: EventKey, Key: "ArrowRight"}) {
		t.Error("keys without focus should not be handled")
	}

	track := s.track()
	e.Dispatch(Event{Kind: EventPointerPress, Pos: Point{X: track.X + track.W/4, Y: track.Y}})
	e.Dispatch(Event{Kind: EventPointerRelease, Pos: Point{X: track.X + track.W/4, Y: track.Y}})
	if e.Focus() != Node(s) {
		t.Fatal("pressing the slider should focus it")
	}
	if got != 0.25 {
		t.Errorf("value after press = %v, want 0.25", got)
	}

	if !e.Dispatch(Event{Kind: EventKey, Key: "ArrowRight"}) || s.Value() != 0.5 {
		t.Errorf("arrow key value = %v, want 0.5", s.Value())
	}
	if e.Dispatch(Event{Kind: EventKey, Key: "KeyQ"}) {
		t.Error("unrelated key should fall through")
	}
}

func TestSliderLogScale(t *testing.T) {
	s := NewSlider(0.1, 10, 1, nil)
	s.Log = true
	if f := s.fraction(); f < 0.499 || f > 0.501 {
		t.Errorf("fraction of 1 on [0.1, 10] = %v, want 0.5", f)
	}
	if v := s.valueAt(1); math.Abs(v-10) > 1e-9 {
		t.Errorf("valueAt(1) = %v", v)
	}
}

func TestHiddenNodesAreSkipped(t *testing.T) {
	hidden := newRecorder(40, 40, true, EventPointerPress)
	root := NewContainer(Overlay)
	root.AddAligned(hidden, AlignFill)
	e := NewEngine(root)
	e.SetSize(40, 40)

	hidden.SetVisible(false)
	cmds := e.Redraw()
	for _, c := range cmds {
		if c.Kind == CmdFillRect {
			t.Error("hidden node was painted")
		}
	}
	if e.Dispatch(Event{Kind: EventPointerPress, Pos: Point{X: 5, Y: 5}}) {
		t.Error("hidden node received a press")
	}
}

func TestPictureZoomAndPan(t *testing.T) {
	ctrl := viewport.New(0.1, 10)
	pic := NewPicture(ctrl)
	transforms := 0
	pic.OnTransform = func() { transforms++ }
	root := NewContainer(Overlay)
	root.AddAligned(pic, AlignFill)
	e := NewEngine(root)
	e.SetSize(200, 100)
	e.Redraw()

	pic.SetFrame(image.NewRGBA(image.Rect(0, 0, 100, 50)), true)
	e.Redraw()
	if ctrl.Scale() != 2 {
		t.Fatalf("fit scale = %v, want 2", ctrl.Scale())
	}
	if r := pic.ImageRect(); r != (Rect{W: 200, H: 100}) {
		t.Errorf("image rect = %+v", r)
	}

	e.Dispatch(Event{Kind: EventScroll, Pos: Point{X: 100, Y: 50}, DY: 1})
	if ctrl.Scale() != 2.5 || ctrl.Mode() != viewport.ModeManual {
		t.Errorf("scale after scroll = %v", ctrl.Scale())
	}

	before := ctrl.Transform()
	e.Dispatch(Event{Kind: EventPointerPress, Pos: Point{X: 100, Y: 50}})
	e.Dispatch(Event{Kind: EventPointerMove, Pos: Point{X: 101, Y: 50}})
	if ctrl.Transform() != before {
		t.Error("movement under the drag threshold should not pan")
	}
	e.Dispatch(Event{Kind: EventPointerMove, Pos: Point{X: 110, Y: 50}})
	e.Dispatch(Event{Kind: EventPointerRelease, Pos: Point{X: 110, Y: 50}})
	if got := ctrl.Transform().TX; got != before.TX+9 {
		t.Errorf("TX = %v, want %v", got, before.TX+9)
	}
	if transforms != 2 {
		t.Errorf("OnTransform calls = %d, want 2", transforms)
	}

	e.Dispatch(Event{Kind: EventPointerPress, Pos: Point{X: 100, Y: 50}, Clicks: 2})
	if ctrl.Mode() != viewport.ModeFit {
		t.Error("double click in manual mode should fit")
	}
}

func TestMeasureText(t *testing.T) {
	if s := MeasureText("abc"); s != (Size{W: 21, H: LineHeight}) {
		t.Errorf("MeasureText = %+v", s)
	}
	if s := MeasureText("a\nbcdx"); s != (Size{W: 28, H: 2 * LineHeight}) {
		t.Errorf("multi-line MeasureText = %+v", s)
	}
}

func TestPictureLeavesClicksToBindings(t *testing.T) {
	ctrl := viewport.New(0.1, 10)
	pic := NewPicture(ctrl)
	root := NewContainer(Overlay)
	root.AddAligned(pic, AlignFill)
	e := NewEngine(root)
	e.SetSize(200, 100)
	pic.SetFrame(image.NewRGBA(image.Rect(0, 0, 400, 200)), true)
	e.Redraw()

	if e.Dispatch(Event{Kind: EventPointerPress, Pos: Point{X: 50, Y: 50}, Button: ButtonLeft, Clicks: 1}) {
		t.Error("single left press was consumed")
	}
	if e.Dispatch(Event{Kind: EventPointerRelease, Pos: Point{X: 50, Y: 50}, Button: ButtonLeft}) {
		t.Error("release of a click was consumed")
	}

	ctrl.ZoomTo(2, 100, 50)
	before := ctrl.Transform()
	e.Dispatch(Event{Kind: EventPointerPress, Pos: Point{X: 50, Y: 50}, Button: ButtonLeft, Clicks: 1})
	if !e.Dispatch(Event{Kind: EventPointerMove, Pos: Point{X: 60, Y: 50}}) {
		t.Error("drag was not taken")
	}
	// Captured: the pointer may leave the picture while dragging.
	if !e.Dispatch(Event{Kind: EventPointerMove, Pos: Point{X: 300, Y: 50}}) {
		t.Error("drag lost outside the picture")
	}
	if !e.Dispatch(Event{Kind: EventPointerRelease, Pos: Point{X: 300, Y: 50}, Button: ButtonLeft}) {
		t.Error("end of drag not taken")
	}
	if ctrl.Transform() == before {
		t.Error("drag did not pan")
	}
	if e.Dispatch(Event{Kind: EventPointerMove, Pos: Point{X: 70, Y: 50}}) {
		t.Error("move after release was taken")
	}

	if !e.Dispatch(Event{Kind: EventPointerPress, Pos: Point{X: 50, Y: 50}, Button: ButtonLeft, Clicks: 2}) {
		t.Error("double click not taken")
	}
}

func TestPictureSmoothing(t *testing.T) {
	ctrl := viewport.New(0.1, 10)
	pic := NewPicture(ctrl)
	pic.SetFrame(image.NewRGBA(image.Rect(0, 0, 10, 10)), true)
	ctrl.Resize(100, 100)
	ctrl.Fit()

	tests := []struct {
		smoothing Smoothing
		scale     float64
		want      Filter
	}{
		{SmoothAuto, 1, FilterLinear},
		{SmoothAuto, 4, FilterNearest},
		{SmoothOn, 4, FilterLinear},
		{SmoothOff, 1, FilterNearest},
	}
	for _, tt := range tests {
		pic.SetSmoothing(tt.smoothing)
		ctrl.ZoomTo(tt.scale, 0, 0)
		if got := pic.Filter(); got != tt.want {
			t.Errorf("%s at %v: filter = %v, want %v", tt.smoothing, tt.scale, got, tt.want)
		}
	}
}
