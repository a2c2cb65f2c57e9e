package ui

// Engine owns the widget tree and the surface it is drawn on. It redraws only
// after a node, an event or a resize marked it dirty. All methods must be
// called from the UI thread.
type Engine struct {
	root  Node
	size  Size
	dirty bool

	focus   Node
	hover   Node
	capture Node
	pressed bool
}

// NewEngine creates an engine drawing root.
func NewEngine(root Node) *Engine {
	e := &Engine{root: root, dirty: true}
	e.attach(root)
	return e
}

// Size returns the surface size.
func (e *Engine) Size() Size { return e.size }

// SetSize resizes the surface and notifies nodes interested in resizes.
func (e *Engine) SetSize(w, h float64) {
	s := Size{W: w, H: h}
	if s == e.size {
		return
	}
	e.size = s
	e.dirty = true
	ev := &Event{Kind: EventResize, Size: s}
	walk(e.root, func(n Node) {
		if n.Interests().Has(EventResize) {
			n.HandleEvent(ev)
		}
	})
}

// Invalidate marks the surface dirty.
func (e *Engine) Invalidate() { e.dirty = true }

// NeedsRedraw reports whether Redraw would produce a new frame.
func (e *Engine) NeedsRedraw() bool { return e.dirty }

// Redraw runs the measure, layout and paint passes and returns the commands
// for one frame.
func (e *Engine) Redraw() []DrawCommand {
	e.attach(e.root)
	full := Rect{W: e.size.W, H: e.size.H}
	e.root.Measure(Tight(e.size))
	e.root.Layout(full)

	p := NewPainter(e.size)
	paint(e.root, p)
	e.dirty = false
	return p.Commands()
}

func paint(n Node, p *Painter) {
	if !visible(n) {
		return
	}
	p.PushClip(n.Bounds())
	n.Paint(p)
	for _, child := range n.Children() {
		paint(child, p)
	}
	p.PopClip()
}

// Focus returns the node receiving key events first, if any.
func (e *Engine) Focus() Node { return e.focus }

// SetFocus moves keyboard focus to n, or clears it when n is nil.
func (e *Engine) SetFocus(n Node) {
	if n != nil && !n.Focusable() {
		return
	}
	if e.focus == n {
		return
	}
	if b, ok := e.focus.(interface{ Blur() }); ok {
		b.Blur()
	}
	e.focus = n
	e.dirty = true
}

// Dispatch delivers ev and reports whether a node consumed it. Pointer events
// go to the deepest visible node under the pointer, or to the node that
// consumed the last press until the matching release; key events go to the
// focused node. Unhandled events bubble up to ancestors, skipping nodes that
// did not declare interest.
func (e *Engine) Dispatch(ev Event) bool {
	switch ev.Kind {
	case EventResize:
		e.SetSize(ev.Size.W, ev.Size.H)
		return true
	case EventKey:
		if e.focus == nil {
			return false
		}
		return bubble(pathTo(e.root, e.focus), &ev)
	}

	if e.capture != nil && (ev.Kind == EventPointerMove || ev.Kind == EventPointerRelease) {
		target := e.capture
		if ev.Kind == EventPointerRelease {
			e.capture = nil
			e.pressed = false
		}
		return bubble(pathTo(e.root, target), &ev)
	}

	path := hitPath(e.root, ev.Pos)
	if ev.Kind == EventPointerMove {
		e.updateHover(path)
	}
	if ev.Kind == EventPointerPress {
		e.SetFocus(focusable(path))
	}

	handled, by := deliver(path, &ev)
	switch ev.Kind {
	case EventPointerPress:
		e.pressed = true
		if handled {
			e.capture = by
		}
	case EventPointerMove:
		// A node that takes over a drag keeps the pointer until release.
		if handled && e.pressed {
			e.capture = by
		}
	case EventPointerRelease:
		e.pressed = false
	}
	return handled
}

func (e *Engine) updateHover(path []Node) {
	var deepest Node
	if len(path) > 0 {
		deepest = path[len(path)-1]
	}
	if deepest == e.hover {
		return
	}
	if e.hover != nil && e.hover.Interests().Has(EventPointerLeave) {
		e.hover.HandleEvent(&Event{Kind: EventPointerLeave})
	}
	e.hover = deepest
}

func (e *Engine) attach(n Node) {
	walk(n, func(n Node) {
		if a, ok := n.(attachable); ok {
			a.attach(e)
		}
	})
}

func bubble(path []Node, ev *Event) bool {
	handled, _ := deliver(path, ev)
	return handled
}

// deliver offers ev to the nodes of path from the deepest one up.
func deliver(path []Node, ev *Event) (bool, Node) {
	for i := len(path) - 1; i >= 0; i-- {
		n := path[i]
		if !n.Interests().Has(ev.Kind) {
			continue
		}
		if n.HandleEvent(ev) {
			return true, n
		}
	}
	return false, nil
}

// hitPath returns the chain from root to the deepest visible node containing
// pos. Later children are on top and are tested first.
func hitPath(root Node, pos Point) []Node {
	if !visible(root) || !root.Bounds().Contains(pos) {
		return nil
	}
	path := []Node{root}
	n := root
	for {
		children := n.Children()
		var next Node
		for i := len(children) - 1; i >= 0; i-- {
			c := children[i]
			if visible(c) && c.Bounds().Contains(pos) {
				next = c
				break
			}
		}
		if next == nil {
			return path
		}
		path = append(path, next)
		n = next
	}
}

// pathTo returns the chain from root to target, or nil if target is not in the tree.
func pathTo(root, target Node) []Node {
	if root == target {
		return []Node{root}
	}
	for _, c := range root.Children() {
		if sub := pathTo(c, target); sub != nil {
			return append([]Node{root}, sub...)
		}
	}
	return nil
}

func focusable(path []Node) Node {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i].Focusable() {
			return path[i]
		}
	}
	return nil
}

func walk(n Node, fn func(Node)) {
	fn(n)
	for _, c := range n.Children() {
		walk(c, fn)
	}
}
