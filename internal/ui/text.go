package ui

import (
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// LineHeight is the height of one line of text.
const LineHeight = 13

var face font.Face = basicfont.Face7x13

// MeasureText returns the size of s, which may span several lines.
func MeasureText(s string) Size {
	if s == "" {
		return Size{}
	}
	lines := strings.Split(s, "\n")
	var w float64
	for _, line := range lines {
		if lw := float64(font.MeasureString(face, line).Ceil()); lw > w {
			w = lw
		}
	}
	return Size{W: w, H: float64(len(lines) * LineHeight)}
}
