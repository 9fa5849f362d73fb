// Package ebiten provides an Ebiten-specific wrapper for the monitor.
package ebiten

import (
	"log/slog"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/user-none/emdvi/dvi"
	"github.com/user-none/emdvi/sim"
)

// Emulator wraps sim.Monitor with Ebiten-specific functionality
type Emulator struct {
	*sim.Monitor

	width     int                     // decoded words per line
	shown     uint64                  // sequence of the frame in offscreen
	offscreen *ebiten.Image           // Offscreen buffer for native resolution rendering
	drawOpts  ebiten.DrawImageOptions // Pre-allocated draw options to avoid per-frame allocation
}

// NewEmulator creates a monitor for profile p with Ebiten rendering.
// img is optional encoded image data.
func NewEmulator(p dvi.Profile, img []byte, log *slog.Logger) (*Emulator, error) {
	m, err := sim.NewMonitor(p, img, log)
	if err != nil {
		return nil, err
	}

	return &Emulator{
		Monitor: m,
		width:   p.Width(),
	}, nil
}

// Layout implements ebiten.Game.
func (e *Emulator) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}

// DrawCachedFramebuffer renders pre-cached pixel data to the screen.
// The emulation goroutine writes pixels to a shared framebuffer and the
// Ebiten Draw() thread renders them; seq identifies the frame so an
// unchanged frame is not uploaded again. Each decoded word spans two pixel
// clocks, so the image is stretched to twice its width.
func (e *Emulator) DrawCachedFramebuffer(screen *ebiten.Image, pixels []byte, stride, activeHeight int, seq uint64) {
	if activeHeight == 0 || stride == 0 {
		return
	}

	requiredLen := stride * activeHeight
	if len(pixels) < requiredLen {
		return
	}

	// Create or resize offscreen buffer if needed
	if e.offscreen == nil || e.offscreen.Bounds().Dy() != activeHeight {
		e.offscreen = ebiten.NewImage(e.width, activeHeight)
		e.shown = 0
	}

	if seq != e.shown {
		e.offscreen.WritePixels(pixels[:requiredLen])
		e.shown = seq
	}

	// Calculate scaling to fit window while preserving aspect ratio
	screenW, screenH := screen.Bounds().Dx(), screen.Bounds().Dy()
	nativeW := float64(e.width * 2)
	nativeH := float64(activeHeight)

	scaleX := float64(screenW) / nativeW
	scaleY := float64(screenH) / nativeH
	scale := scaleX
	if scaleY < scaleX {
		scale = scaleY
	}

	scaledW := nativeW * scale
	scaledH := nativeH * scale
	offsetX := (float64(screenW) - scaledW) / 2
	offsetY := (float64(screenH) - scaledH) / 2

	e.drawOpts = ebiten.DrawImageOptions{}
	e.drawOpts.GeoM.Scale(scale*2, scale)
	e.drawOpts.GeoM.Translate(offsetX, offsetY)
	e.drawOpts.Filter = ebiten.FilterNearest
	screen.DrawImage(e.offscreen, &e.drawOpts)
}
