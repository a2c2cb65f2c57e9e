package decode

import (
	"image"
	"image/color"
	"path/filepath"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Placeholder renders the frame shown in place of an image that failed to load.
func Placeholder(width, height int, filename, message string) *image.RGBA {
	// Default size if not specified
	if width <= 0 || height <= 0 {
		width, height = 400, 300
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.RGBA{120, 30, 30, 255}}, image.Point{}, draw.Src)

	// White border
	white := &image.Uniform{C: color.RGBA{255, 255, 255, 255}}
	for _, r := range []image.Rectangle{
		image.Rect(0, 0, width, 3),
		image.Rect(0, height-3, width, height),
		image.Rect(0, 0, 3, height),
		image.Rect(width-3, 0, width, height),
	} {
		draw.Draw(img, r, white, image.Point{}, draw.Src)
	}

	face := basicfont.Face7x13
	maxChars := (width - 20) / face.Advance
	lines := []string{
		"ERROR",
		"File: " + filepath.Base(filename),
		"Reason: " + message,
	}
	drawer := &font.Drawer{Dst: img, Src: white, Face: face}
	for i, line := range lines {
		if maxChars > 3 && len(line) > maxChars {
			line = line[:maxChars-3] + "..."
		}
		drawer.Dot = fixed.P(10, 24+i*20)
		drawer.DrawString(line)
	}
	return img
}
