package ui

import (
	"image"
	"image/color"
	"math"

	"github.com/nekomimist/nvpix/internal/viewport"
)

// Smoothing selects how a Picture resamples its frame.
type Smoothing int

const (
	// SmoothAuto smooths until a raster pixel covers nearestScale screen pixels.
	SmoothAuto Smoothing = iota
	SmoothOn
	SmoothOff
)

func (s Smoothing) String() string {
	switch s {
	case SmoothOn:
		return "on"
	case SmoothOff:
		return "off"
	}
	return "auto"
}

const nearestScale = 3

// Picture shows one frame through a viewport controller. Dragging pans,
// scrolling zooms around the pointer and a double click toggles between fit
// and 1:1. A single left press is left unhandled so bindings can use it; the
// picture takes the pointer once the press turns into a drag.
type Picture struct {
	Base
	Background    color.RGBA
	ZoomStep      float64
	DragThreshold float64
	WheelInverted bool
	Smoothing     Smoothing
	// OnTransform runs after any change of the transform caused by input.
	OnTransform func()

	ctrl  *viewport.Controller
	frame *image.RGBA

	dragging bool
	panning  bool
	start    Point
	last     Point
}

// NewPicture creates a picture driven by ctrl.
func NewPicture(ctrl *viewport.Controller) *Picture {
	return &Picture{
		ctrl:          ctrl,
		ZoomStep:      1.25,
		DragThreshold: 3,
	}
}

// Viewport returns the controller of the picture.
func (p *Picture) Viewport() *viewport.Controller { return p.ctrl }

// Frame returns the image being shown.
func (p *Picture) Frame() *image.RGBA { return p.frame }

// SetFrame replaces the shown image, refitting the viewport to its size when
// refit is set.
func (p *Picture) SetFrame(img *image.RGBA, refit bool) {
	if img == p.frame {
		return
	}
	p.frame = img
	if img != nil && refit {
		b := img.Bounds()
		p.ctrl.SetImageSize(float64(b.Dx()), float64(b.Dy()))
	}
	p.Invalidate()
}

// Changed redraws after the controller was modified from outside.
func (p *Picture) Changed() {
	p.Invalidate()
}

func (p *Picture) Measure(c Constraints) Size {
	return c.Max
}

func (p *Picture) Layout(bounds Rect) {
	p.Base.Layout(bounds)
	p.ctrl.Resize(bounds.W, bounds.H)
}

func (p *Picture) Interests() EventMask {
	return MaskOf(EventPointerPress, EventPointerMove, EventPointerRelease, EventScroll)
}

func (p *Picture) local(pos Point) (float64, float64) {
	b := p.Bounds()
	return pos.X - b.X, pos.Y - b.Y
}

func (p *Picture) HandleEvent(ev *Event) bool {
	switch ev.Kind {
	case EventPointerPress:
		if ev.Button != ButtonLeft {
			return false
		}
		p.dragging, p.panning = true, false
		p.start, p.last = ev.Pos, ev.Pos
		if ev.Clicks >= 2 {
			x, y := p.local(ev.Pos)
			if p.ctrl.Mode() == viewport.ModeFit {
				p.ctrl.Set1to1(x, y)
			} else {
				p.ctrl.Fit()
			}
			p.transformed()
			return true
		}
		return false

	case EventPointerMove:
		if !p.dragging {
			return false
		}
		if !p.panning && math.Hypot(ev.Pos.X-p.start.X, ev.Pos.Y-p.start.Y) > p.DragThreshold {
			p.panning = true
		}
		if p.panning {
			p.ctrl.Pan(ev.Pos.X-p.last.X, ev.Pos.Y-p.last.Y)
			p.transformed()
		}
		p.last = ev.Pos
		return p.panning

	case EventPointerRelease:
		if !p.dragging || ev.Button != ButtonLeft {
			return false
		}
		handled := p.panning
		p.dragging, p.panning = false, false
		return handled

	case EventScroll:
		dy := ev.DY
		if p.WheelInverted {
			dy = -dy
		}
		if dy == 0 || p.frame == nil {
			return false
		}
		x, y := p.local(ev.Pos)
		p.ctrl.Zoom(math.Pow(p.ZoomStep, dy), x, y)
		p.transformed()
		return true
	}
	return false
}

func (p *Picture) transformed() {
	p.Invalidate()
	if p.OnTransform != nil {
		p.OnTransform()
	}
}

// ImageRect returns where the frame is drawn, in surface coordinates.
func (p *Picture) ImageRect() Rect {
	if p.frame == nil {
		return Rect{}
	}
	b := p.Bounds()
	t := p.ctrl.Transform()
	size := p.frame.Bounds().Size()
	return Rect{
		X: b.X + t.TX,
		Y: b.Y + t.TY,
		W: float64(size.X) * t.Scale,
		H: float64(size.Y) * t.Scale,
	}
}

func (p *Picture) Paint(pt *Painter) {
	if p.Background.A > 0 {
		pt.FillRect(p.Bounds(), p.Background)
	}
	if p.frame == nil {
		return
	}
	pt.Image(p.frame, p.ImageRect(), p.Filter())
}

// Filter returns the resampling filter the current smoothing mode selects.
func (p *Picture) Filter() Filter {
	switch p.Smoothing {
	case SmoothOn:
		return FilterLinear
	case SmoothOff:
		return FilterNearest
	}
	if p.ctrl.PixelScale() >= nearestScale {
		return FilterNearest
	}
	return FilterLinear
}

// SetSmoothing changes the smoothing mode and redraws.
func (p *Picture) SetSmoothing(s Smoothing) {
	if s == p.Smoothing {
		return
	}
	p.Smoothing = s
	p.Invalidate()
}
