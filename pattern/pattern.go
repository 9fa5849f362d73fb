// Package pattern fills framebuffers with test images. It only depends on
// dvi, so firmware can link it; image files are handled by pattern/picture.
package pattern

import "github.com/user-none/emdvi/dvi"

// Colour bars at 75% intensity, left to right.
var barColors = [8][3]uint8{
	{192, 192, 192}, // Gray
	{192, 192, 0},   // Yellow
	{0, 192, 192},   // Cyan
	{0, 192, 0},     // Green
	{192, 0, 192},   // Magenta
	{192, 0, 0},     // Red
	{0, 0, 192},     // Blue
	{0, 0, 0},       // Black
}

// Bars fills fb with eight vertical colour bars.
func Bars(fb dvi.FrameBuffer) {
	barWidth := fb.Width / len(barColors)
	if barWidth == 0 {
		barWidth = 1
	}
	for y := 0; y < fb.Height; y++ {
		row := fb.Row(y)
		for x := range row {
			idx := x / barWidth
			if idx >= len(barColors) {
				idx = len(barColors) - 1
			}
			c := barColors[idx]
			row[x] = dvi.RGB565(c[0], c[1], c[2])
		}
	}
}

// Ramp fills fb with horizontal ramps of red, green, blue and gray, one
// quarter of the height each.
func Ramp(fb dvi.FrameBuffer) {
	band := fb.Height / 4
	if band == 0 {
		band = 1
	}
	for y := 0; y < fb.Height; y++ {
		row := fb.Row(y)
		for x := range row {
			v := uint8(x * 255 / max(fb.Width-1, 1))
			var c uint16
			switch y / band {
			case 0:
				c = dvi.RGB565(v, 0, 0)
			case 1:
				c = dvi.RGB565(0, v, 0)
			case 2:
				c = dvi.RGB565(0, 0, v)
			default:
				c = dvi.RGB565(v, v, v)
			}
			row[x] = c
		}
	}
}

// Checker fills fb with white and black squares of the given size.
func Checker(fb dvi.FrameBuffer, size int) {
	if size <= 0 {
		size = 1
	}
	for y := 0; y < fb.Height; y++ {
		row := fb.Row(y)
		for x := range row {
			if (x/size+y/size)&1 == 0 {
				row[x] = 0xffff
			} else {
				row[x] = 0
			}
		}
	}
}
