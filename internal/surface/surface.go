// Package surface replays the draw commands produced by the widget engine onto
// a concrete render target.
package surface

import (
	"image"
	"math"

	"github.com/nekomimist/nvpix/internal/ui"
)

// Surface consumes one frame of draw commands.
type Surface interface {
	Render(cmds []ui.DrawCommand)
}

// textAscent is the distance from the top of a text line to its baseline.
const textAscent = 10

// pixelRect returns the smallest pixel rectangle covering r.
func pixelRect(r ui.Rect) image.Rectangle {
	return image.Rect(
		int(math.Floor(r.X)),
		int(math.Floor(r.Y)),
		int(math.Ceil(r.X+r.W)),
		int(math.Ceil(r.Y+r.H)),
	)
}

// clipStack mirrors the painter's clip rectangles in pixel coordinates.
type clipStack struct {
	rects []image.Rectangle
}

func (c *clipStack) reset(bounds image.Rectangle) {
	c.rects = append(c.rects[:0], bounds)
}

func (c *clipStack) top() image.Rectangle {
	return c.rects[len(c.rects)-1]
}

func (c *clipStack) push(r ui.Rect) image.Rectangle {
	clip := c.top().Intersect(pixelRect(r))
	c.rects = append(c.rects, clip)
	return clip
}

// pop removes the innermost clip; the surface bounds are never removed.
func (c *clipStack) pop() {
	if len(c.rects) > 1 {
		c.rects = c.rects[:len(c.rects)-1]
	}
}
