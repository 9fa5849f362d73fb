// Package card draws a geometry test card with vector graphics.
package card

import (
	"image"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"
)

// Draw renders a test card of the given size: a grid, a centred circle,
// corner markers and a caption. Circles that come out as ellipses and
// markers that are cut off show scaling and overscan problems.
func Draw(width, height int, caption string) image.Image {
	dc := gg.NewContext(width, height)
	w, h := float64(width), float64(height)

	dc.SetRGB(0.1, 0.1, 0.1)
	dc.Clear()

	// Grid
	step := w / 16
	dc.SetRGB(0.6, 0.6, 0.6)
	dc.SetLineWidth(1)
	for x := step; x < w; x += step {
		dc.DrawLine(x, 0, x, h)
	}
	for y := step; y < h; y += step {
		dc.DrawLine(0, y, w, y)
	}
	dc.Stroke()

	// Circle
	r := h * 0.4
	dc.SetRGB(1, 1, 1)
	dc.SetLineWidth(2)
	dc.DrawCircle(w/2, h/2, r)
	dc.Stroke()

	// Primary wedges inside the circle
	colors := [][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	for i, c := range colors {
		a0 := gg.Radians(float64(i) * 120)
		dc.MoveTo(w/2, h/2)
		dc.DrawArc(w/2, h/2, r*0.6, a0, a0+gg.Radians(120))
		dc.ClosePath()
		dc.SetRGB(c[0], c[1], c[2])
		dc.Fill()
	}

	// Corner markers
	m := step / 2
	dc.SetRGB(1, 1, 0)
	for _, p := range [][2]float64{{0, 0}, {w - m, 0}, {0, h - m}, {w - m, h - m}} {
		dc.DrawRectangle(p[0], p[1], m, m)
	}
	dc.Fill()

	if caption != "" {
		dc.SetFontFace(basicfont.Face7x13)
		dc.SetRGB(1, 1, 1)
		dc.DrawStringAnchored(caption, w/2, h-step, 0.5, 0.5)
	}

	return dc.Image()
}
