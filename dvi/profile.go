package dvi

import "fmt"

// Profile holds the timing constants of one video mode. Horizontal values
// are in pixel clocks, vertical values in lines. The framebuffer is half
// the active resolution in both directions: every source pixel is sent as
// two pixel clocks and every source row as two lines.
type Profile struct {
	Name string

	HActive int // visible pixel clocks per line
	HFront  int // front porch
	HSync   int // sync pulse
	HBack   int // back porch

	VActive int // visible lines
	VFront  int // front porch
	VSync   int // sync pulse
	VBack   int // back porch

	PixelClockHz int
	SysClockHz   int // system clock the serializers run from
	FPS          int
}

// 640x480@60: pixel clock 25.2 MHz, bit clock 252 MHz, 800x525 total.
var DVI640x480 = Profile{
	Name:         "640x480@60",
	HActive:      640,
	HFront:       16,
	HSync:        96,
	HBack:        48,
	VActive:      480,
	VFront:       10,
	VSync:        2,
	VBack:        33,
	PixelClockHz: 25200000,
	SysClockHz:   252000000,
	FPS:          60,
}

// HTotal returns the pixel clocks per line.
func (p Profile) HTotal() int {
	return p.HActive + p.HFront + p.HSync + p.HBack
}

// VTotal returns the lines per frame.
func (p Profile) VTotal() int {
	return p.VActive + p.VFront + p.VSync + p.VBack
}

// Words returns the lane words needed for the active part of a line.
// One word holds two 10-bit symbols.
func (p Profile) Words() int {
	return p.HActive / 2
}

// LineWords returns the lane words per complete line.
func (p Profile) LineWords() int {
	return p.HTotal() / 2
}

// Width returns the framebuffer width in pixels.
func (p Profile) Width() int {
	return p.HActive / 2
}

// Rows returns how many framebuffer rows one frame consumes.
func (p Profile) Rows() int {
	return (p.VActive + 1) / 2
}

// Validate reports whether the profile can be turned into transfer chains.
func (p Profile) Validate() error {
	h := []struct {
		name string
		v    int
	}{
		{"active", p.HActive},
		{"front porch", p.HFront},
		{"sync", p.HSync},
		{"back porch", p.HBack},
	}
	for _, f := range h {
		if f.v <= 0 || f.v%2 != 0 {
			return fmt.Errorf("%w: horizontal %s %d must be positive and even", ErrProfile, f.name, f.v)
		}
	}
	// Pixels are read in pairs.
	if p.HActive%4 != 0 {
		return fmt.Errorf("%w: horizontal active %d must be a multiple of 4", ErrProfile, p.HActive)
	}
	if p.VActive <= 0 || p.VSync <= 0 {
		return fmt.Errorf("%w: vertical active %d and sync %d must be positive", ErrProfile, p.VActive, p.VSync)
	}
	if p.VFront < 0 || p.VBack < 0 {
		return fmt.Errorf("%w: vertical porches must not be negative", ErrProfile)
	}
	return nil
}

// Band is the vertical region a line belongs to.
type Band int

const (
	BandVSync Band = iota
	BandBlank
	BandActive
)

func (b Band) String() string {
	switch b {
	case BandVSync:
		return "vsync"
	case BandBlank:
		return "blank"
	case BandActive:
		return "active"
	}
	return fmt.Sprintf("Band(%d)", int(b))
}

// Classify returns the band of line and, for active lines, the position
// within the active area. Lines are counted from the start of vertical sync:
// sync, back porch, active, front porch.
func Classify(p Profile, line int) (Band, int) {
	l := line - p.VSync
	if l < 0 {
		return BandVSync, 0
	}
	l -= p.VBack
	if l < 0 || l >= p.VActive {
		return BandBlank, 0
	}
	return BandActive, l
}
