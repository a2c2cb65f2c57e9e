package surface

import (
	"image"
	"strings"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/nekomimist/nvpix/internal/ui"
)

// Software renders into an in-memory gg context. It backs headless use such
// as tests and snapshots.
type Software struct {
	dc    *gg.Context
	face  text.Face
	clips clipStack
}

// NewSoftware creates a w x h surface.
func NewSoftware(w, h int) (*Software, error) {
	src, err := text.NewFontSource(goregular.TTF)
	if err != nil {
		return nil, err
	}
	s := &Software{
		dc:   gg.NewContext(w, h),
		face: src.Face(11),
	}
	s.dc.SetFont(s.face)
	return s, nil
}

// Resize replaces the backing context when the size changed.
func (s *Software) Resize(w, h int) {
	if w == s.dc.Width() && h == s.dc.Height() {
		return
	}
	_ = s.dc.Close()
	s.dc = gg.NewContext(w, h)
	s.dc.SetFont(s.face)
}

// Image returns the pixels of the last frame.
func (s *Software) Image() image.Image {
	return s.dc.Image()
}

// SavePNG writes the last frame to path.
func (s *Software) SavePNG(path string) error {
	return s.dc.SavePNG(path)
}

// Close releases the context.
func (s *Software) Close() error {
	return s.dc.Close()
}

// Render clears the surface to black and replays cmds.
func (s *Software) Render(cmds []ui.DrawCommand) {
	dc := s.dc
	dc.ResetClip()
	dc.ClearWithColor(gg.Black)
	s.clips.reset(image.Rect(0, 0, dc.Width(), dc.Height()))

	for _, cmd := range cmds {
		switch cmd.Kind {
		case ui.CmdPushClip:
			clip := s.clips.push(cmd.Rect)
			dc.Push()
			dc.ClipRect(float64(clip.Min.X), float64(clip.Min.Y), float64(clip.Dx()), float64(clip.Dy()))
		case ui.CmdPopClip:
			s.clips.pop()
			dc.Pop()
		case ui.CmdFillRect:
			dc.SetColor(cmd.Color)
			dc.DrawRectangle(cmd.Rect.X, cmd.Rect.Y, cmd.Rect.W, cmd.Rect.H)
			_ = dc.Fill()
		case ui.CmdImage:
			s.drawImage(cmd)
		case ui.CmdText:
			dc.SetColor(cmd.Color)
			for i, line := range strings.Split(cmd.Text, "\n") {
				dc.DrawString(line, cmd.Rect.X, cmd.Rect.Y+textAscent+float64(i*ui.LineHeight))
			}
		}
	}
}

// drawImage scales the visible part of the image itself, since gg blits
// ignore the clip and always filter bilinearly.
func (s *Software) drawImage(cmd ui.DrawCommand) {
	dst := pixelRect(cmd.Rect)
	visible := dst.Intersect(s.clips.top())
	if visible.Empty() {
		return
	}

	var scaler xdraw.Scaler = xdraw.ApproxBiLinear
	if cmd.Filter == ui.FilterNearest {
		scaler = xdraw.NearestNeighbor
	}
	tmp := image.NewRGBA(image.Rect(0, 0, visible.Dx(), visible.Dy()))
	scaler.Scale(tmp, dst.Sub(visible.Min), cmd.Image, cmd.Image.Bounds(), xdraw.Src, nil)
	s.dc.DrawImage(gg.ImageBufFromImage(tmp), float64(visible.Min.X), float64(visible.Min.Y))
}
