package decode

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"time"

	"golang.org/x/image/draw"
)

// GIFDecoder decodes animated and still GIF files, compositing frames according
// to their disposal method.
type GIFDecoder struct{}

func (d *GIFDecoder) Name() string { return "gif" }

func (d *GIFDecoder) Extensions() []string { return []string{".gif"} }

func (d *GIFDecoder) Sniff(head []byte) bool {
	return bytes.HasPrefix(head, []byte("GIF87a")) || bytes.HasPrefix(head, []byte("GIF89a"))
}

func (d *GIFDecoder) Decode(data []byte, opts Options) (*FrameSequence, error) {
	opts = opts.withDefaults()
	cfg, err := gif.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if err := checkSize(cfg.Width, cfg.Height, 1, opts.MaxBytes); err != nil {
		return nil, err
	}
	g, err := gif.DecodeAll(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if len(g.Image) == 0 {
		return nil, errors.New("gif has no frames")
	}

	width, height := g.Config.Width, g.Config.Height
	if width <= 0 || height <= 0 {
		b := g.Image[0].Bounds()
		width, height = b.Max.X, b.Max.Y
	}
	if width <= 0 || height <= 0 {
		return nil, errors.New("gif has empty logical screen")
	}
	if err := checkSize(width, height, len(g.Image), opts.MaxBytes); err != nil {
		return nil, err
	}

	canvas := image.NewRGBA(image.Rect(0, 0, width, height))
	prev := image.NewRGBA(canvas.Bounds())
	bg := backgroundColor(g)
	frames := make([]Frame, 0, len(g.Image))

	for i, frame := range g.Image {
		disposal := byte(gif.DisposalNone)
		if i < len(g.Disposal) {
			disposal = g.Disposal[i]
		}
		if disposal == gif.DisposalPrevious {
			copy(prev.Pix, canvas.Pix)
		}

		draw.Draw(canvas, frame.Bounds(), frame, frame.Bounds().Min, draw.Over)

		snapshot := image.NewRGBA(canvas.Bounds())
		copy(snapshot.Pix, canvas.Pix)
		frames = append(frames, Frame{Image: snapshot, Duration: frameDelay(g, i, opts.MinFrameDuration)})

		switch disposal {
		case gif.DisposalBackground:
			draw.Draw(canvas, frame.Bounds(), &image.Uniform{C: bg}, image.Point{}, draw.Src)
		case gif.DisposalPrevious:
			copy(canvas.Pix, prev.Pix)
		}
	}

	if len(frames) == 1 {
		return Static(frames[0].Image), nil
	}
	return &FrameSequence{
		Frames: frames,
		// LoopCount -1 plays once; 0 and explicit repeat counts keep looping.
		LoopForever: g.LoopCount >= 0,
	}, nil
}

func frameDelay(g *gif.GIF, idx int, minDelay time.Duration) time.Duration {
	var delay time.Duration
	if idx < len(g.Delay) {
		delay = time.Duration(g.Delay[idx]) * 10 * time.Millisecond
	}
	if delay < minDelay {
		return minDelay
	}
	return delay
}

func backgroundColor(g *gif.GIF) color.Color {
	pal, ok := g.Config.ColorModel.(color.Palette)
	if !ok || len(pal) == 0 {
		return color.Transparent
	}
	idx := int(g.BackgroundIndex)
	if idx >= len(pal) {
		return color.Transparent
	}
	return pal[idx]
}
