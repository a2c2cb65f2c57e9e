package ui

import (
	"image/color"
	"math"
)

// Direction controls how a Container arranges its children.
type Direction int

const (
	Vertical Direction = iota
	Horizontal
	// Overlay stacks children on top of each other, each positioned by its Align.
	Overlay
)

// Align positions a child inside an Overlay container.
type Align int

const (
	AlignFill Align = iota
	AlignTop
	AlignBottom
	AlignCenter
)

type slot struct {
	node  Node
	flex  float64
	align Align
	size  Size
}

// Container arranges children in a row, a column or on top of each other.
type Container struct {
	Base
	Direction  Direction
	Padding    float64
	Spacing    float64
	Background color.RGBA

	slots []slot
}

// NewContainer creates an empty container.
func NewContainer(dir Direction) *Container {
	return &Container{Direction: dir}
}

// Add appends a child taking its measured size.
func (c *Container) Add(n Node) *Container {
	return c.add(slot{node: n})
}

// AddFlex appends a child sharing the leftover space along the main axis in
// proportion to flex.
func (c *Container) AddFlex(n Node, flex float64) *Container {
	return c.add(slot{node: n, flex: flex})
}

// AddAligned appends a child positioned by align in an Overlay container.
func (c *Container) AddAligned(n Node, align Align) *Container {
	return c.add(slot{node: n, align: align})
}

func (c *Container) add(s slot) *Container {
	c.slots = append(c.slots, s)
	c.Invalidate()
	return c
}

func (c *Container) Children() []Node {
	nodes := make([]Node, len(c.slots))
	for i, s := range c.slots {
		nodes[i] = s.node
	}
	return nodes
}

func (c *Container) Measure(cons Constraints) Size {
	inner := Size{
		W: math.Max(0, cons.Max.W-2*c.Padding),
		H: math.Max(0, cons.Max.H-2*c.Padding),
	}
	var main, cross float64
	n := 0
	for i := range c.slots {
		s := &c.slots[i]
		if !visible(s.node) {
			s.size = Size{}
			continue
		}
		s.size = s.node.Measure(Loose(inner))
		n++
		switch c.Direction {
		case Vertical:
			main += s.size.H
			cross = math.Max(cross, s.size.W)
		case Horizontal:
			main += s.size.W
			cross = math.Max(cross, s.size.H)
		default:
			main = math.Max(main, s.size.H)
			cross = math.Max(cross, s.size.W)
		}
	}
	if n > 1 && c.Direction != Overlay {
		main += c.Spacing * float64(n-1)
	}

	want := Size{W: cross, H: main}
	if c.Direction == Horizontal {
		want = Size{W: main, H: cross}
	}
	want.W += 2 * c.Padding
	want.H += 2 * c.Padding
	return cons.Constrain(want)
}

func (c *Container) Layout(bounds Rect) {
	c.Base.Layout(bounds)
	inner := bounds.Inset(c.Padding)
	if c.Direction == Overlay {
		c.layoutOverlay(inner)
		return
	}

	vertical := c.Direction == Vertical
	total := inner.W
	if vertical {
		total = inner.H
	}
	var fixed, flex float64
	n := 0
	for _, s := range c.slots {
		if !visible(s.node) {
			continue
		}
		n++
		if s.flex > 0 {
			flex += s.flex
		} else if vertical {
			fixed += s.size.H
		} else {
			fixed += s.size.W
		}
	}
	if n > 1 {
		fixed += c.Spacing * float64(n-1)
	}
	leftover := math.Max(0, total-fixed)

	pos := inner.X
	if vertical {
		pos = inner.Y
	}
	for _, s := range c.slots {
		if !visible(s.node) {
			continue
		}
		extent := s.size.W
		if vertical {
			extent = s.size.H
		}
		if s.flex > 0 {
			extent = leftover * s.flex / flex
		}
		if vertical {
			s.node.Layout(Rect{X: inner.X, Y: pos, W: inner.W, H: extent})
		} else {
			s.node.Layout(Rect{X: pos, Y: inner.Y, W: extent, H: inner.H})
		}
		pos += extent + c.Spacing
	}
}

func (c *Container) layoutOverlay(inner Rect) {
	for _, s := range c.slots {
		if !visible(s.node) {
			continue
		}
		r := inner
		switch s.align {
		case AlignTop:
			r.H = math.Min(s.size.H, inner.H)
		case AlignBottom:
			r.H = math.Min(s.size.H, inner.H)
			r.Y = inner.Y + inner.H - r.H
		case AlignCenter:
			r.W = math.Min(s.size.W, inner.W)
			r.H = math.Min(s.size.H, inner.H)
			r.X = inner.X + (inner.W-r.W)/2
			r.Y = inner.Y + (inner.H-r.H)/2
		}
		s.node.Layout(r)
	}
}

func (c *Container) Paint(p *Painter) {
	if c.Background.A > 0 {
		p.FillRect(c.Bounds(), c.Background)
	}
}
