package ui

import "image/color"

// Button colors
var (
	buttonColor        = color.RGBA{60, 60, 60, 220}
	buttonHoverColor   = color.RGBA{90, 90, 90, 230}
	buttonPressedColor = color.RGBA{120, 120, 160, 240}
	buttonTextColor    = color.RGBA{255, 255, 255, 255}
)

// Button runs OnClick when pressed and released over it.
type Button struct {
	Base
	label   string
	OnClick func()

	hovered bool
	pressed bool
}

// NewButton creates a button with a text label.
func NewButton(label string, onClick func()) *Button {
	return &Button{label: label, OnClick: onClick}
}

func (b *Button) Label() string { return b.label }

// SetLabel changes the caption.
func (b *Button) SetLabel(s string) {
	if s == b.label {
		return
	}
	b.label = s
	b.Invalidate()
}

func (b *Button) Measure(c Constraints) Size {
	s := MeasureText(b.label)
	return c.Constrain(Size{W: s.W + 16, H: s.H + 10})
}

func (b *Button) Interests() EventMask {
	return MaskOf(EventPointerMove, EventPointerLeave, EventPointerPress, EventPointerRelease)
}

func (b *Button) HandleEvent(ev *Event) bool {
	switch ev.Kind {
	case EventPointerMove:
		b.setHovered(b.Bounds().Contains(ev.Pos))
		return b.pressed
	case EventPointerLeave:
		b.setHovered(false)
		return true
	case EventPointerPress:
		if ev.Button != ButtonLeft {
			return false
		}
		b.pressed = true
		b.Invalidate()
		return true
	case EventPointerRelease:
		if !b.pressed {
			return false
		}
		b.pressed = false
		b.Invalidate()
		if b.Bounds().Contains(ev.Pos) && b.OnClick != nil {
			b.OnClick()
		}
		return true
	}
	return false
}

func (b *Button) setHovered(h bool) {
	if b.hovered != h {
		b.hovered = h
		b.Invalidate()
	}
}

func (b *Button) Paint(p *Painter) {
	r := b.Bounds()
	bg := buttonColor
	switch {
	case b.pressed:
		bg = buttonPressedColor
	case b.hovered:
		bg = buttonHoverColor
	}
	p.FillRect(r, bg)
	s := MeasureText(b.label)
	p.Text(b.label, r.X+(r.W-s.W)/2, r.Y+(r.H-s.H)/2, buttonTextColor)
}
