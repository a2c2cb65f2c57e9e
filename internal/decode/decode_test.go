package decode

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"testing"
	"time"
)

var (
	red  = color.RGBA{255, 0, 0, 255}
	blue = color.RGBA{0, 0, 255, 255}
)

func encodePNG(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func encodeGIF(t *testing.T, delays []int, loopCount int) []byte {
	t.Helper()
	pal := color.Palette{red, blue}
	g := &gif.GIF{LoopCount: loopCount}
	for i, d := range delays {
		r := image.Rect(0, 0, 4, 4)
		if i > 0 {
			r = image.Rect(2, 2, 4, 4)
		}
		frame := image.NewPaletted(r, pal)
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				frame.SetColorIndex(x, y, uint8(i%2))
			}
		}
		g.Image = append(g.Image, frame)
		g.Delay = append(g.Delay, d)
		g.Disposal = append(g.Disposal, gif.DisposalNone)
	}
	g.Config = image.Config{ColorModel: pal, Width: 4, Height: 4}
	var buf bytes.Buffer
	if err := gif.EncodeAll(&buf, g); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

const testSVG = `<?xml version="1.0"?>
<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 40 20" width="40" height="20">
  <rect x="0" y="0" width="40" height="20" fill="#ff0000"/>
</svg>`

func TestRegistrySelect(t *testing.T) {
	reg := DefaultRegistry()
	tests := []struct {
		name     string
		filename string
		data     []byte
		want     string
	}{
		{"png by content", "x.bin", encodePNG(t, 2, 2, red), "raster"},
		{"gif by content despite extension", "x.png", encodeGIF(t, []int{0}, 0), "gif"},
		{"svg by content", "x", []byte(testSVG), "svg"},
		{"extension fallback", "x.jpg", []byte("garbage"), "raster"},
		{"unknown", "x.txt", []byte("garbage"), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := reg.Select(tt.filename, tt.data)
			got := ""
			if d != nil {
				got = d.Name()
			}
			if got != tt.want {
				t.Errorf("Select = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRegistryErrors(t *testing.T) {
	reg := DefaultRegistry()

	_, err := reg.Decode("notes.txt", []byte("hello"), Options{})
	if !errors.Is(err, ErrUnsupported) || KindOf(err) != KindUnsupported {
		t.Errorf("expected unsupported, got %v", err)
	}

	_, err = reg.Decode("broken.png", []byte("\x89PNG\r\n\x1a\ntruncated"), Options{})
	if !errors.Is(err, ErrMalformed) || KindOf(err) != KindMalformed {
		t.Errorf("expected malformed, got %v", err)
	}
	if errors.Is(err, ErrUnsupported) {
		t.Error("malformed error should not match ErrUnsupported")
	}
}

func TestRasterDecode(t *testing.T) {
	seq, err := DefaultRegistry().Decode("a.png", encodePNG(t, 3, 2, blue), Options{})
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if seq.Len() != 1 || seq.IsAnimated() {
		t.Fatalf("expected a static sequence, got %d frames", seq.Len())
	}
	if seq.Size() != image.Pt(3, 2) {
		t.Errorf("Size = %v", seq.Size())
	}
	if seq.Cost() != 4*3*2 {
		t.Errorf("Cost = %d", seq.Cost())
	}
	if got := seq.Frames[0].Image.RGBAAt(1, 1); got != blue {
		t.Errorf("pixel = %v, want blue", got)
	}
}

func TestGIFDecode(t *testing.T) {
	tests := []struct {
		name      string
		delays    []int
		loopCount int
		wantDur   []time.Duration
		wantLoop  bool
	}{
		{"clamps zero delay", []int{0, 5}, 0, []time.Duration{20 * time.Millisecond, 50 * time.Millisecond}, true},
		{"plays once", []int{10, 10}, -1, []time.Duration{100 * time.Millisecond, 100 * time.Millisecond}, false},
		{"repeat count loops", []int{1, 1}, 3, []time.Duration{20 * time.Millisecond, 20 * time.Millisecond}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seq, err := DefaultRegistry().Decode("anim.gif", encodeGIF(t, tt.delays, tt.loopCount), Options{})
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if seq.Len() != len(tt.wantDur) {
				t.Fatalf("got %d frames", seq.Len())
			}
			for i, d := range tt.wantDur {
				if seq.Frames[i].Duration != d {
					t.Errorf("frame %d duration = %v, want %v", i, seq.Frames[i].Duration, d)
				}
			}
			if seq.LoopForever != tt.wantLoop {
				t.Errorf("LoopForever = %v, want %v", seq.LoopForever, tt.wantLoop)
			}
		})
	}
}

func TestGIFCompositesFrames(t *testing.T) {
	seq, err := DefaultRegistry().Decode("anim.gif", encodeGIF(t, []int{10, 10}, 0), Options{})
	if err != nil {
		t.Fatal(err)
	}
	second := seq.Frames[1].Image
	if got := second.RGBAAt(0, 0); got != red {
		t.Errorf("untouched area should keep the first frame, got %v", got)
	}
	if got := second.RGBAAt(3, 3); got != blue {
		t.Errorf("updated area should show the second frame, got %v", got)
	}
	if seq.Frames[0].Image.RGBAAt(3, 3) != red {
		t.Error("first frame was modified by compositing")
	}
}

func TestGIFSingleFrameIsStatic(t *testing.T) {
	seq, err := DefaultRegistry().Decode("still.gif", encodeGIF(t, []int{10}, 0), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if seq.IsAnimated() || seq.Frames[0].Duration != 0 || seq.LoopForever {
		t.Errorf("single frame gif should be static: %+v", seq)
	}
}

func TestCustomMinFrameDuration(t *testing.T) {
	seq, err := DefaultRegistry().Decode("anim.gif", encodeGIF(t, []int{0, 0}, 0), Options{MinFrameDuration: 40 * time.Millisecond})
	if err != nil {
		t.Fatal(err)
	}
	if seq.Frames[0].Duration != 40*time.Millisecond {
		t.Errorf("duration = %v, want 40ms", seq.Frames[0].Duration)
	}
}

func TestSizeLimit(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		data     []byte
		maxBytes int64
		wantErr  bool
	}{
		{"png under limit", "a.png", encodePNG(t, 16, 16, red), 16 * 16 * 4, false},
		{"png over limit", "a.png", encodePNG(t, 16, 16, red), 16*16*4 - 1, true},
		{"gif frames add up", "anim.gif", encodeGIF(t, []int{10, 10, 10}, 0), 3 * 4 * 4 * 4, false},
		{"gif over limit", "anim.gif", encodeGIF(t, []int{10, 10, 10}, 0), 3*4*4*4 - 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DefaultRegistry().Decode(tt.file, tt.data, Options{MaxBytes: tt.maxBytes})
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("Decode failed: %v", err)
				}
				return
			}
			if !errors.Is(err, ErrTooLarge) || KindOf(err) != KindMalformed {
				t.Errorf("err = %v, want a malformed ErrTooLarge", err)
			}
		})
	}
}

func TestGIFFrameBombRejected(t *testing.T) {
	// Tiny frames on a large logical screen compress to almost nothing.
	pal := color.Palette{red, blue}
	g := &gif.GIF{Config: image.Config{ColorModel: pal, Width: 1024, Height: 1024}}
	for i := 0; i < 64; i++ {
		g.Image = append(g.Image, image.NewPaletted(image.Rect(0, 0, 1, 1), pal))
		g.Delay = append(g.Delay, 10)
		g.Disposal = append(g.Disposal, gif.DisposalNone)
	}
	var buf bytes.Buffer
	if err := gif.EncodeAll(&buf, g); err != nil {
		t.Fatal(err)
	}
	_, err := DefaultRegistry().Decode("bomb.gif", buf.Bytes(), Options{MaxBytes: 64 << 20})
	if !errors.Is(err, ErrTooLarge) {
		t.Errorf("err = %v, want ErrTooLarge", err)
	}
}

func TestSVGShrinksToSizeLimit(t *testing.T) {
	seq, err := DefaultRegistry().Decode("icon.svg", []byte(testSVG), Options{ScaleHint: 100, MaxBytes: 1 << 20})
	if err != nil {
		t.Fatal(err)
	}
	if seq.Cost() > 1<<20 || seq.RasterScale >= 100 {
		t.Errorf("raster scale %v costs %d bytes", seq.RasterScale, seq.Cost())
	}
}

func TestSVGDecode(t *testing.T) {
	seq, err := DefaultRegistry().Decode("icon.svg", []byte(testSVG), Options{ScaleHint: 2})
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if !seq.Vector || seq.RasterScale != 2 {
		t.Errorf("Vector = %v, RasterScale = %v", seq.Vector, seq.RasterScale)
	}
	if seq.Size() != image.Pt(80, 40) {
		t.Errorf("Size = %v, want 80x40", seq.Size())
	}
	if c := seq.Frames[0].Image.RGBAAt(40, 20); c.R < 200 || c.A < 200 {
		t.Errorf("center pixel = %v, want red", c)
	}
}

func TestNeedsRerasterizeAtCap(t *testing.T) {
	wide := &FrameSequence{
		Frames: []Frame{{Image: image.NewRGBA(image.Rect(0, 0, MaxRasterSide, 1))}},
		Vector: true,
	}
	if NeedsRerasterize(wide, 4, 1.5) {
		t.Error("raster at the size cap should not ask for re-rasterization")
	}
}

func TestNeedsRerasterize(t *testing.T) {
	vector := &FrameSequence{Frames: []Frame{{Image: image.NewRGBA(image.Rect(0, 0, 10, 10))}}, Vector: true, RasterScale: 1}
	raster := Static(image.NewRGBA(image.Rect(0, 0, 10, 10)))

	tests := []struct {
		name  string
		seq   *FrameSequence
		scale float64
		want  bool
	}{
		{"vector below threshold", vector, 1.2, false},
		{"vector above threshold", vector, 2, true},
		{"raster never", raster, 8, false},
		{"nil", nil, 8, false},
	}
	for _, tt := range tests {
		if got := NeedsRerasterize(tt.seq, tt.scale, 1.5); got != tt.want {
			t.Errorf("%s: got %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestPlaceholder(t *testing.T) {
	img := Placeholder(0, 0, "/tmp/broken.png", "malformed")
	if img.Bounds().Size() != image.Pt(400, 300) {
		t.Errorf("default size = %v", img.Bounds().Size())
	}
	if got := img.RGBAAt(1, 1); got != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("border pixel = %v", got)
	}
	if got := img.RGBAAt(200, 280); got != (color.RGBA{120, 30, 30, 255}) {
		t.Errorf("background pixel = %v", got)
	}
}
