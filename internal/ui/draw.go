package ui

import (
	"image"
	"image/color"
)

// CommandKind tags a DrawCommand.
type CommandKind int

const (
	CmdFillRect CommandKind = iota
	CmdImage
	CmdText
	CmdPushClip
	CmdPopClip
)

// Filter selects how images are resampled when scaled.
type Filter int

const (
	FilterLinear Filter = iota
	FilterNearest
)

// DrawCommand is one instruction for a render surface. Only the fields of
// its kind are set.
type DrawCommand struct {
	Kind   CommandKind
	Rect   Rect // fill area, image destination, text origin, or clip
	Color  color.RGBA
	Image  *image.RGBA
	Filter Filter
	Text   string
}

// Painter collects draw commands, keeping a stack of clip rectangles.
// Commands entirely outside the current clip are dropped.
type Painter struct {
	cmds  []DrawCommand
	clips []Rect
}

// NewPainter starts painting a surface of the given size.
func NewPainter(size Size) *Painter {
	return &Painter{clips: []Rect{{W: size.W, H: size.H}}}
}

// Commands returns the recorded commands.
func (p *Painter) Commands() []DrawCommand {
	return p.cmds
}

// Clip returns the current clip rectangle.
func (p *Painter) Clip() Rect {
	return p.clips[len(p.clips)-1]
}

// PushClip narrows the clip to r.
func (p *Painter) PushClip(r Rect) {
	c := p.Clip().Intersect(r)
	p.clips = append(p.clips, c)
	p.cmds = append(p.cmds, DrawCommand{Kind: CmdPushClip, Rect: c})
}

// PopClip restores the previous clip.
func (p *Painter) PopClip() {
	if len(p.clips) <= 1 {
		return
	}
	p.clips = p.clips[:len(p.clips)-1]
	p.cmds = append(p.cmds, DrawCommand{Kind: CmdPopClip})
}

func (p *Painter) visible(r Rect) bool {
	return !p.Clip().Intersect(r).Empty()
}

// FillRect fills r with c.
func (p *Painter) FillRect(r Rect, c color.RGBA) {
	if !p.visible(r) {
		return
	}
	p.cmds = append(p.cmds, DrawCommand{Kind: CmdFillRect, Rect: r, Color: c})
}

// Image draws img scaled into dst.
func (p *Painter) Image(img *image.RGBA, dst Rect, filter Filter) {
	if img == nil || !p.visible(dst) {
		return
	}
	p.cmds = append(p.cmds, DrawCommand{Kind: CmdImage, Rect: dst, Image: img, Filter: filter})
}

// Text draws s with its top-left corner at (x, y).
func (p *Painter) Text(s string, x, y float64, c color.RGBA) {
	if s == "" {
		return
	}
	size := MeasureText(s)
	r := Rect{X: x, Y: y, W: size.W, H: size.H}
	if !p.visible(r) {
		return
	}
	p.cmds = append(p.cmds, DrawCommand{Kind: CmdText, Rect: r, Color: c, Text: s})
}
