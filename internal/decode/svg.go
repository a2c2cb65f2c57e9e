package decode

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// SVGDecoder rasterizes SVG documents at their intrinsic size times Options.ScaleHint.
type SVGDecoder struct{}

func (d *SVGDecoder) Name() string { return "svg" }

func (d *SVGDecoder) Extensions() []string { return []string{".svg"} }

func (d *SVGDecoder) Sniff(head []byte) bool {
	trimmed := bytes.TrimLeft(head, " \t\r\n\xef\xbb\xbf")
	if !bytes.HasPrefix(trimmed, []byte("<")) {
		return false
	}
	return bytes.Contains(bytes.ToLower(head), []byte("<svg"))
}

func (d *SVGDecoder) Decode(data []byte, opts Options) (*FrameSequence, error) {
	opts = opts.withDefaults()
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data), oksvg.WarnErrorMode)
	if err != nil {
		return nil, err
	}
	vw, vh := icon.ViewBox.W, icon.ViewBox.H
	if vw <= 0 || vh <= 0 {
		return nil, errors.New("svg has no usable viewBox")
	}

	scale := opts.ScaleHint
	if longest := math.Max(vw, vh) * scale; longest > MaxRasterSide {
		scale = MaxRasterSide / math.Max(vw, vh)
	}
	if fit := math.Sqrt(float64(opts.MaxBytes) / (4 * (vw + 1) * (vh + 1))); scale > fit {
		scale = fit
	}
	w := int(math.Ceil(vw * scale))
	h := int(math.Ceil(vh * scale))
	if w < 1 || h < 1 {
		return nil, fmt.Errorf("svg raster size %dx%d too small", w, h)
	}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	icon.SetTarget(0, 0, float64(w), float64(h))
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	raster := rasterx.NewDasher(w, h, scanner)
	icon.Draw(raster, 1.0)

	return &FrameSequence{
		Frames:      []Frame{{Image: img}},
		Vector:      true,
		RasterScale: scale,
	}, nil
}

// NeedsRerasterize reports whether a vector sequence displayed at viewScale
// (screen pixels per raster pixel) has been magnified past threshold and can
// still be rendered larger.
func NeedsRerasterize(seq *FrameSequence, viewScale, threshold float64) bool {
	if seq == nil || !seq.Vector || viewScale <= threshold {
		return false
	}
	size := seq.Size()
	return size.X < MaxRasterSide && size.Y < MaxRasterSide
}
