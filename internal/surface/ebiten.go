package surface

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/image/font/basicfont"

	"github.com/nekomimist/nvpix/internal/ui"
)

// Ebiten renders onto the screen image handed to ebiten's Draw. Frames are
// uploaded as textures once and kept in a small LRU keyed by the frame.
type Ebiten struct {
	target   *ebiten.Image
	textures *lru.Cache[*image.RGBA, *ebiten.Image]
	face     text.Face
	clips    clipStack
}

// NewEbiten creates a surface caching up to textures uploaded frames.
func NewEbiten(textures int) (*Ebiten, error) {
	cache, err := lru.NewWithEvict[*image.RGBA, *ebiten.Image](textures, func(_ *image.RGBA, img *ebiten.Image) {
		img.Deallocate()
	})
	if err != nil {
		return nil, err
	}
	return &Ebiten{
		textures: cache,
		face:     text.NewGoXFace(basicfont.Face7x13),
	}, nil
}

// SetTarget selects the image the next Render draws on.
func (e *Ebiten) SetTarget(screen *ebiten.Image) {
	e.target = screen
}

// Purge drops every uploaded texture.
func (e *Ebiten) Purge() {
	e.textures.Purge()
}

// Render clears the target and replays cmds.
func (e *Ebiten) Render(cmds []ui.DrawCommand) {
	if e.target == nil {
		return
	}
	e.target.Fill(color.Black)
	e.clips.reset(e.target.Bounds())

	for _, cmd := range cmds {
		switch cmd.Kind {
		case ui.CmdPushClip:
			e.clips.push(cmd.Rect)
		case ui.CmdPopClip:
			e.clips.pop()
		case ui.CmdFillRect:
			dst := e.clipped()
			if dst == nil {
				continue
			}
			vector.DrawFilledRect(dst, float32(cmd.Rect.X), float32(cmd.Rect.Y),
				float32(cmd.Rect.W), float32(cmd.Rect.H), cmd.Color, false)
		case ui.CmdImage:
			e.drawImage(cmd)
		case ui.CmdText:
			dst := e.clipped()
			if dst == nil {
				continue
			}
			op := &text.DrawOptions{}
			op.GeoM.Translate(cmd.Rect.X, cmd.Rect.Y)
			op.ColorScale.ScaleWithColor(cmd.Color)
			op.LineSpacing = ui.LineHeight
			text.Draw(dst, cmd.Text, e.face, op)
		}
	}
}

// clipped returns the target restricted to the current clip, or nil when
// nothing is visible.
func (e *Ebiten) clipped() *ebiten.Image {
	clip := e.clips.top()
	if clip.Empty() {
		return nil
	}
	return e.target.SubImage(clip).(*ebiten.Image)
}

func (e *Ebiten) drawImage(cmd ui.DrawCommand) {
	dst := e.clipped()
	if dst == nil {
		return
	}
	tex, ok := e.textures.Get(cmd.Image)
	if !ok {
		tex = ebiten.NewImageFromImage(cmd.Image)
		e.textures.Add(cmd.Image, tex)
	}

	b := cmd.Image.Bounds()
	op := &ebiten.DrawImageOptions{}
	op.Filter = ebiten.FilterLinear
	if cmd.Filter == ui.FilterNearest {
		op.Filter = ebiten.FilterNearest
	}
	op.GeoM.Scale(cmd.Rect.W/float64(b.Dx()), cmd.Rect.H/float64(b.Dy()))
	op.GeoM.Translate(cmd.Rect.X, cmd.Rect.Y)
	dst.DrawImage(tex, op)
}
