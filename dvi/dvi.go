// Package dvi drives a DVI/HDMI-compatible video signal from an RGB565
// framebuffer. Each scanline is encoded into TMDS symbols for three data
// lanes and handed to a chained transfer engine which feeds one serializer
// per lane, while a fourth pin pair carries the pixel clock.
//
// The package holds the hardware independent parts: symbol tables, the
// line encoder, transfer chains, the per-line state machine and the
// lifecycle controller. Register level bindings live in dvi/rp2040 and a
// software model of the hardware lives in the sim package.
package dvi

import (
	"errors"
	"fmt"
)

const (
	Name    = "emdvi"
	Version = "0.1.0"
)

// Lane identifies one TMDS data lane.
type Lane int

// Lane 0 also carries HSYNC and VSYNC during blanking.
const (
	LaneBlue Lane = iota
	LaneGreen
	LaneRed

	Lanes = 3
)

var (
	ErrProfile     = errors.New("dvi: invalid timing profile")
	ErrFrameBuffer = errors.New("dvi: invalid framebuffer")
	ErrChain       = errors.New("dvi: invalid transfer chain")
)

// FrameBuffer is a row-major RGB565 image owned by the main program.
// The engine only ever reads it.
type FrameBuffer struct {
	Pix    []uint16
	Stride int // pixels per row in Pix
	Width  int
	Height int
}

// NewFrameBuffer allocates a zeroed framebuffer of the given size.
func NewFrameBuffer(width, height int) FrameBuffer {
	return FrameBuffer{
		Pix:    make([]uint16, width*height),
		Stride: width,
		Width:  width,
		Height: height,
	}
}

// Row returns the visible pixels of row y.
func (fb FrameBuffer) Row(y int) []uint16 {
	off := y * fb.Stride
	return fb.Pix[off : off+fb.Width : off+fb.Width]
}

// Fill sets every visible pixel to c.
func (fb FrameBuffer) Fill(c uint16) {
	for y := 0; y < fb.Height; y++ {
		row := fb.Row(y)
		for x := range row {
			row[x] = c
		}
	}
}

// Validate checks that fb can feed the profile p.
func (fb FrameBuffer) Validate(p Profile) error {
	if fb.Width != p.Width() {
		return fmt.Errorf("%w: width %d, profile needs %d", ErrFrameBuffer, fb.Width, p.Width())
	}
	if fb.Height < p.Rows() {
		return fmt.Errorf("%w: height %d, profile needs %d rows", ErrFrameBuffer, fb.Height, p.Rows())
	}
	if fb.Stride < fb.Width {
		return fmt.Errorf("%w: stride %d shorter than width %d", ErrFrameBuffer, fb.Stride, fb.Width)
	}
	need := (fb.Height-1)*fb.Stride + fb.Width
	if len(fb.Pix) < need {
		return fmt.Errorf("%w: %d pixels, need %d", ErrFrameBuffer, len(fb.Pix), need)
	}
	return nil
}

// RGB565 packs 8-bit components into a framebuffer pixel.
func RGB565(r, g, b uint8) uint16 {
	return uint16(r>>3)<<11 | uint16(g>>2)<<5 | uint16(b>>3)
}
