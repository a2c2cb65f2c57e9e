// Package viewport maps image pixels to view coordinates under pan and zoom.
package viewport

import "math"

// Mode tells whether the transform follows the viewport size.
type Mode int

const (
	// ModeFit recomputes the fit scale whenever the viewport or image changes.
	ModeFit Mode = iota
	// ModeManual keeps the user's zoom and pan.
	ModeManual
)

// Transform maps a pixel p of the shown raster to view point p*Scale + (TX, TY).
type Transform struct {
	Scale  float64
	TX, TY float64
}

// Controller owns the transform of the displayed image. The shown raster may
// hold unit pixels per image pixel (a sharper rasterization of a vector
// image); zoom limits, fit and 1:1 are always in image pixels, so the image
// scale Scale() stays in [min, max]. On each axis where the scaled image is
// larger than the view it covers the view edge to edge; where it is smaller
// it is centred.
type Controller struct {
	t          Transform
	mode       Mode
	viewW      float64
	viewH      float64
	imgW, imgH float64
	unit       float64
	minScale   float64
	maxScale   float64
}

// New creates a controller with the given zoom range.
func New(minScale, maxScale float64) *Controller {
	if minScale <= 0 {
		minScale = 0.1
	}
	if maxScale < minScale {
		maxScale = minScale
	}
	return &Controller{
		t:        Transform{Scale: 1},
		unit:     1,
		minScale: minScale,
		maxScale: maxScale,
	}
}

// Transform returns the raster-to-view transform used for drawing.
func (c *Controller) Transform() Transform { return c.t }

// Scale returns the on-screen size of one image pixel.
func (c *Controller) Scale() float64 { return c.t.Scale * c.unit }

// PixelScale returns the on-screen size of one raster pixel.
func (c *Controller) PixelScale() float64 { return c.t.Scale }

// Unit returns the raster pixels per image pixel.
func (c *Controller) Unit() float64 { return c.unit }

func (c *Controller) Mode() Mode { return c.mode }

// Limits returns the zoom range in image pixels.
func (c *Controller) Limits() (min, max float64) { return c.minScale, c.maxScale }

// ImageSize returns the size of the raster being viewed.
func (c *Controller) ImageSize() (w, h float64) { return c.imgW, c.imgH }

// Resize sets the view size, refitting in fit mode and re-clamping otherwise.
func (c *Controller) Resize(w, h float64) {
	if w == c.viewW && h == c.viewH {
		return
	}
	c.viewW, c.viewH = w, h
	if c.mode == ModeFit {
		c.fit(math.Inf(1))
		return
	}
	c.clamp()
}

// SetImageSize switches to a new image, one raster pixel per image pixel,
// and fits it.
func (c *Controller) SetImageSize(w, h float64) {
	c.imgW, c.imgH = w, h
	c.unit = 1
	c.Fit()
}

// Rescale replaces the raster with a resampled version of itself, factor times
// larger, keeping what is on screen unchanged.
func (c *Controller) Rescale(w, h, factor float64) {
	c.imgW, c.imgH = w, h
	if factor > 0 && !math.IsInf(factor, 0) {
		c.t.Scale /= factor
		c.unit *= factor
	}
	c.t.Scale = c.clampPixelScale(c.t.Scale)
	c.clamp()
}

// FitScale returns the image scale at which the image's longer axis
// (relative to the view) exactly fills the view.
func (c *Controller) FitScale() float64 {
	if c.imgW <= 0 || c.imgH <= 0 || c.viewW <= 0 || c.viewH <= 0 {
		return 1
	}
	return math.Min(c.viewW/c.imgW, c.viewH/c.imgH) * c.unit
}

// Fit scales the whole image into the view and centres it.
func (c *Controller) Fit() {
	c.fit(math.Inf(1))
}

// FitBest fits the image but never enlarges it beyond 1:1.
func (c *Controller) FitBest() {
	c.fit(1)
}

func (c *Controller) fit(limit float64) {
	c.mode = ModeFit
	c.t.Scale = c.clampScale(math.Min(c.FitScale(), limit)) / c.unit
	c.clamp()
}

// Set1to1 shows the image at its native size around the view point (px, py).
func (c *Controller) Set1to1(px, py float64) {
	c.ZoomTo(1, px, py)
}

// Zoom multiplies the scale by factor keeping the image point under (px, py) fixed.
func (c *Controller) Zoom(factor, px, py float64) {
	if factor <= 0 {
		return
	}
	c.ZoomTo(c.Scale()*factor, px, py)
}

// ZoomTo sets the image scale, clamped to the configured range, around (px, py).
func (c *Controller) ZoomTo(scale, px, py float64) {
	ix, iy := c.ViewToImage(px, py)
	c.mode = ModeManual
	c.t.Scale = c.clampScale(scale) / c.unit
	c.t.TX = px - ix*c.t.Scale
	c.t.TY = py - iy*c.t.Scale
	c.clamp()
}

// Pan moves the image by (dx, dy) view pixels.
func (c *Controller) Pan(dx, dy float64) {
	c.mode = ModeManual
	c.t.TX += dx
	c.t.TY += dy
	c.clamp()
}

// ImageToView converts a raster point into view coordinates.
func (c *Controller) ImageToView(x, y float64) (float64, float64) {
	return x*c.t.Scale + c.t.TX, y*c.t.Scale + c.t.TY
}

// ViewToImage converts a view point into raster coordinates.
func (c *Controller) ViewToImage(x, y float64) (float64, float64) {
	return (x - c.t.TX) / c.t.Scale, (y - c.t.TY) / c.t.Scale
}

// clampScale clamps an image scale to [min, max].
func (c *Controller) clampScale(s float64) float64 {
	if math.IsNaN(s) || s <= 0 {
		return c.minScale
	}
	return math.Max(c.minScale, math.Min(c.maxScale, s))
}

// clampPixelScale clamps a raster scale so the image scale stays in [min, max].
func (c *Controller) clampPixelScale(s float64) float64 {
	return c.clampScale(s*c.unit) / c.unit
}

func (c *Controller) clamp() {
	c.t.TX = clampAxis(c.t.TX, c.imgW*c.t.Scale, c.viewW)
	c.t.TY = clampAxis(c.t.TY, c.imgH*c.t.Scale, c.viewH)
}

func clampAxis(offset, scaled, view float64) float64 {
	if scaled <= view {
		return (view - scaled) / 2
	}
	return math.Max(view-scaled, math.Min(0, offset))
}
