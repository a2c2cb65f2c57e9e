package ui

import "image/color"

// Label shows one or more lines of text.
type Label struct {
	Base
	text       string
	Color      color.RGBA
	Background color.RGBA
	Padding    float64
	Centered   bool
}

// NewLabel creates a white label.
func NewLabel(text string) *Label {
	return &Label{text: text, Color: color.RGBA{255, 255, 255, 255}, Padding: 4}
}

func (l *Label) Text() string { return l.text }

// SetText changes the text, invalidating only when it differs.
func (l *Label) SetText(s string) {
	if s == l.text {
		return
	}
	l.text = s
	l.Invalidate()
}

func (l *Label) Measure(c Constraints) Size {
	s := MeasureText(l.text)
	return c.Constrain(Size{W: s.W + 2*l.Padding, H: s.H + 2*l.Padding})
}

func (l *Label) Paint(p *Painter) {
	b := l.Bounds()
	if l.Background.A > 0 {
		p.FillRect(b, l.Background)
	}
	x, y := b.X+l.Padding, b.Y+l.Padding
	if l.Centered {
		s := MeasureText(l.text)
		x = b.X + (b.W-s.W)/2
		y = b.Y + (b.H-s.H)/2
	}
	p.Text(l.text, x, y, l.Color)
}
