package ui

// Node is one element of the widget tree. Parents own their children; a node
// appears in the tree at most once.
type Node interface {
	// Measure reports the size the node wants within c. Containers measure
	// their children first.
	Measure(c Constraints) Size
	// Layout assigns the node its final bounds and positions its children.
	Layout(bounds Rect)
	Bounds() Rect
	// Paint emits the node's own commands; the engine paints children after it.
	Paint(p *Painter)
	Children() []Node
	Interests() EventMask
	// HandleEvent returns true when the event was consumed.
	HandleEvent(ev *Event) bool
	Focusable() bool
}

// Invalidator receives redraw requests from nodes.
type Invalidator interface {
	Invalidate()
}

// attachable is implemented by nodes embedding Base.
type attachable interface {
	attach(inv Invalidator)
}

// hideable is implemented by nodes embedding Base.
type hideable interface {
	Visible() bool
}

// Base provides the bookkeeping shared by all nodes. Embed it and override
// what differs.
type Base struct {
	bounds Rect
	inv    Invalidator
	hidden bool
}

func (b *Base) attach(inv Invalidator) { b.inv = inv }

// Invalidate asks the engine to redraw.
func (b *Base) Invalidate() {
	if b.inv != nil {
		b.inv.Invalidate()
	}
}

func (b *Base) Measure(c Constraints) Size { return c.Min }

func (b *Base) Layout(bounds Rect) { b.bounds = bounds }

func (b *Base) Bounds() Rect { return b.bounds }

func (b *Base) Paint(p *Painter) {}

func (b *Base) Children() []Node { return nil }

func (b *Base) Interests() EventMask { return 0 }

func (b *Base) HandleEvent(ev *Event) bool { return false }

func (b *Base) Focusable() bool { return false }

// Visible reports whether the node takes part in layout, paint and hit testing.
func (b *Base) Visible() bool { return !b.hidden }

// SetVisible shows or hides the node.
func (b *Base) SetVisible(v bool) {
	if b.hidden == !v {
		return
	}
	b.hidden = !v
	b.Invalidate()
}

func visible(n Node) bool {
	if h, ok := n.(hideable); ok {
		return h.Visible()
	}
	return true
}
