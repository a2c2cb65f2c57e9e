package ui

import (
	"image/color"
	"math"
)

var (
	sliderTrackColor = color.RGBA{80, 80, 80, 220}
	sliderFillColor  = color.RGBA{100, 160, 255, 230}
	sliderThumbColor = color.RGBA{230, 230, 230, 255}
	sliderFocusColor = color.RGBA{255, 255, 100, 255}
)

// Slider picks a value in [Min, Max] by dragging or, when focused, with the
// arrow keys. Values are mapped logarithmically when Log is set.
type Slider struct {
	Base
	Min, Max float64
	Step     float64
	Log      bool
	Width    float64
	OnChange func(v float64)

	value    float64
	dragging bool
	focused  bool
}

// NewSlider creates a slider over [min, max].
func NewSlider(min, max, value float64, onChange func(float64)) *Slider {
	s := &Slider{Min: min, Max: max, Step: 0.05, Width: 120, OnChange: onChange}
	s.value = s.clamp(value)
	return s
}

func (s *Slider) Value() float64 { return s.value }

// SetValue moves the thumb without calling OnChange.
func (s *Slider) SetValue(v float64) {
	v = s.clamp(v)
	if v != s.value {
		s.value = v
		s.Invalidate()
	}
}

func (s *Slider) clamp(v float64) float64 {
	return math.Max(s.Min, math.Min(s.Max, v))
}

// fraction maps the value onto [0, 1] along the track.
func (s *Slider) fraction() float64 {
	if s.Max <= s.Min {
		return 0
	}
	if s.Log && s.Min > 0 {
		return math.Log(s.value/s.Min) / math.Log(s.Max/s.Min)
	}
	return (s.value - s.Min) / (s.Max - s.Min)
}

func (s *Slider) valueAt(f float64) float64 {
	f = math.Max(0, math.Min(1, f))
	if s.Log && s.Min > 0 {
		return s.Min * math.Pow(s.Max/s.Min, f)
	}
	return s.Min + f*(s.Max-s.Min)
}

func (s *Slider) set(v float64) {
	v = s.clamp(v)
	if v == s.value {
		return
	}
	s.value = v
	s.Invalidate()
	if s.OnChange != nil {
		s.OnChange(v)
	}
}

func (s *Slider) Measure(c Constraints) Size {
	return c.Constrain(Size{W: s.Width, H: LineHeight + 10})
}

func (s *Slider) Focusable() bool { return true }

func (s *Slider) Interests() EventMask {
	return MaskOf(EventPointerPress, EventPointerMove, EventPointerRelease, EventKey)
}

func (s *Slider) HandleEvent(ev *Event) bool {
	switch ev.Kind {
	case EventPointerPress:
		if ev.Button != ButtonLeft {
			return false
		}
		s.dragging = true
		s.setFocused(true)
		s.set(s.valueAt(s.trackFraction(ev.Pos.X)))
		return true
	case EventPointerMove:
		if !s.dragging {
			return false
		}
		s.set(s.valueAt(s.trackFraction(ev.Pos.X)))
		return true
	case EventPointerRelease:
		if !s.dragging {
			return false
		}
		s.dragging = false
		return true
	case EventKey:
		switch ev.Key {
		case "ArrowLeft", "ArrowDown":
			s.set(s.valueAt(s.fraction() - s.Step))
			return true
		case "ArrowRight", "ArrowUp":
			s.set(s.valueAt(s.fraction() + s.Step))
			return true
		}
	}
	return false
}

// Blur drops the focus highlight.
func (s *Slider) Blur() { s.setFocused(false) }

func (s *Slider) setFocused(f bool) {
	if s.focused != f {
		s.focused = f
		s.Invalidate()
	}
}

func (s *Slider) track() Rect {
	b := s.Bounds()
	return Rect{X: b.X + 6, Y: b.Y + b.H/2 - 2, W: math.Max(0, b.W-12), H: 4}
}

func (s *Slider) trackFraction(x float64) float64 {
	t := s.track()
	if t.W <= 0 {
		return 0
	}
	return (x - t.X) / t.W
}

func (s *Slider) Paint(p *Painter) {
	t := s.track()
	p.FillRect(t, sliderTrackColor)
	filled := t
	filled.W = t.W * s.fraction()
	p.FillRect(filled, sliderFillColor)

	b := s.Bounds()
	thumb := Rect{X: t.X + filled.W - 4, Y: b.Y + 3, W: 8, H: b.H - 6}
	if s.focused {
		p.FillRect(thumb.Inset(-1), sliderFocusColor)
	}
	p.FillRect(thumb, sliderThumbColor)
}
