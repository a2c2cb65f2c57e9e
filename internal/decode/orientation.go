package decode

import (
	"bytes"
	"image"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
)

// Orientation is the EXIF orientation code, 1 through 8.
type Orientation int

const (
	OrientationIdentity   Orientation = 1
	OrientationFlipH      Orientation = 2
	OrientationRotate180  Orientation = 3
	OrientationFlipV      Orientation = 4
	OrientationTranspose  Orientation = 5
	OrientationRotate90   Orientation = 6 // clockwise
	OrientationTransverse Orientation = 7
	OrientationRotate270  Orientation = 8 // clockwise
)

// ReadOrientation extracts the orientation tag from data. Missing or broken
// metadata yields identity.
func ReadOrientation(data []byte) (o Orientation) {
	o = OrientationIdentity
	defer func() {
		if recover() != nil {
			o = OrientationIdentity
		}
	}()

	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return
	}
	v, err := tag.Int(0)
	if err != nil || v < 1 || v > 8 {
		return
	}
	return Orientation(v)
}

// Normalize returns seq with every frame transformed by o. The input is never
// modified; identity and unknown codes return seq itself.
func Normalize(seq *FrameSequence, o Orientation) *FrameSequence {
	if seq == nil || o <= OrientationIdentity || o > OrientationRotate270 {
		return seq
	}
	out := &FrameSequence{
		Frames:      make([]Frame, len(seq.Frames)),
		LoopForever: seq.LoopForever,
		Vector:      seq.Vector,
		RasterScale: seq.RasterScale,
	}
	for i, f := range seq.Frames {
		out.Frames[i] = Frame{Image: orient(f.Image, o), Duration: f.Duration}
	}
	return out
}

func orient(img *image.RGBA, o Orientation) *image.RGBA {
	var res *image.NRGBA
	switch o {
	case OrientationFlipH:
		res = imaging.FlipH(img)
	case OrientationRotate180:
		res = imaging.Rotate180(img)
	case OrientationFlipV:
		res = imaging.FlipV(img)
	case OrientationTranspose:
		res = imaging.Transpose(img)
	case OrientationRotate90:
		res = imaging.Rotate270(img)
	case OrientationTransverse:
		res = imaging.Transverse(img)
	case OrientationRotate270:
		res = imaging.Rotate90(img)
	default:
		return img
	}
	return toRGBA(res)
}
