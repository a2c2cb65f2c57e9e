// Package decode turns encoded image bytes into frame sequences ready for display.
package decode

import (
	"image"
	"time"
)

// DefaultMinFrameDuration is the shortest frame an animation plays. Frames
// with a zero or missing delay get it, and so do positive delays below it:
// a 10ms GIF frame is shown for 20ms.
const DefaultMinFrameDuration = 20 * time.Millisecond

// DefaultMaxBytes bounds the decoded RGBA size of one image, all frames
// together, when Options.MaxBytes is not set.
const DefaultMaxBytes = 512 << 20

// MaxRasterSide caps either side of a rasterized vector image.
const MaxRasterSide = 16384

// Frame is one decoded bitmap. Image holds premultiplied RGBA.
type Frame struct {
	Image    *image.RGBA
	Duration time.Duration // zero for static images
}

// FrameSequence is an immutable, non-empty list of frames.
type FrameSequence struct {
	Frames      []Frame
	LoopForever bool
	// Vector is set for images rasterized from a vector source; RasterScale is
	// the factor applied to the intrinsic size.
	Vector      bool
	RasterScale float64
}

// Static wraps a single image into a sequence.
func Static(img *image.RGBA) *FrameSequence {
	return &FrameSequence{Frames: []Frame{{Image: img}}}
}

func (s *FrameSequence) Len() int {
	return len(s.Frames)
}

// IsAnimated reports whether the sequence has more than one frame.
func (s *FrameSequence) IsAnimated() bool {
	return len(s.Frames) > 1
}

// Size returns the pixel size of the first frame.
func (s *FrameSequence) Size() image.Point {
	if len(s.Frames) == 0 || s.Frames[0].Image == nil {
		return image.Point{}
	}
	return s.Frames[0].Image.Bounds().Size()
}

// Cost approximates the memory held by the sequence in bytes.
func (s *FrameSequence) Cost() int64 {
	var total int64
	for _, f := range s.Frames {
		if f.Image == nil {
			continue
		}
		b := f.Image.Bounds()
		total += 4 * int64(b.Dx()) * int64(b.Dy())
	}
	return total
}
