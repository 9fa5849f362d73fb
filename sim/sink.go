package sim

import (
	"image"

	"github.com/user-none/emdvi/dvi"
)

// Compile-time interface check.
var _ Output = (*Sink)(nil)

// SinkStats counts what the sink saw on the wire.
type SinkStats struct {
	Frames      uint64 // complete frames between two vsync pulses
	Lines       uint64 // lines carrying pixel data
	BadSymbols  uint64 // pairs whose halves disagree
	ShortLines  uint64 // pixel lines of the wrong length
	BadFrames   uint64 // frames with the wrong number of pixel lines
	DarkSymbols uint64 // data on the sync lane while other lanes idle
}

// Sink is a TMDS receiver. It recovers sync from lane 0 control symbols,
// decodes data periods and assembles frames. One lane word is one pixel
// of the output image; each word spans two pixel clocks.
type Sink struct {
	width, height int

	front, back *image.RGBA
	x, y        int
	hsync       bool
	vsync       bool
	ready       bool

	stats SinkStats
}

// NewSink returns a sink for frames of width words by height lines.
func NewSink(width, height int) *Sink {
	r := image.Rect(0, 0, width, height)
	return &Sink{
		width:  width,
		height: height,
		front:  image.NewRGBA(r),
		back:   image.NewRGBA(r),
	}
}

// Push consumes one word per lane.
func (s *Sink) Push(w [dvi.Lanes]uint32) {
	lo := w[dvi.LaneBlue] & 0x3ff
	if c, ok := dvi.ControlOf(lo); ok {
		hs, vs := c.HSync(), c.VSync()
		if hs && !s.hsync {
			s.endLine()
		}
		if vs && !s.vsync {
			s.endFrame()
		}
		s.hsync, s.vsync = hs, vs
		return
	}

	var rgb [dvi.Lanes]uint8
	for lane := range w {
		v0, ok0 := dvi.DecodeSymbol(w[lane])
		v1, ok1 := dvi.DecodeSymbol(w[lane] >> 10)
		if !ok0 || !ok1 {
			// Lanes 1 and 2 idle: a dark line.
			s.stats.DarkSymbols++
			return
		}
		if v0>>2 != v1>>2 {
			s.stats.BadSymbols++
		}
		rgb[lane] = v0
	}

	if s.x < s.width && s.y < s.height {
		i := s.back.PixOffset(s.x, s.y)
		s.back.Pix[i+0] = rgb[dvi.LaneRed]
		s.back.Pix[i+1] = rgb[dvi.LaneGreen]
		s.back.Pix[i+2] = rgb[dvi.LaneBlue]
		s.back.Pix[i+3] = 0xff
	}
	s.x++
}

func (s *Sink) endLine() {
	if s.x == 0 {
		return
	}
	if s.x != s.width {
		s.stats.ShortLines++
	}
	s.stats.Lines++
	s.y++
	s.x = 0
}

func (s *Sink) endFrame() {
	s.endLine()
	if s.y == 0 {
		return
	}
	if s.y != s.height {
		s.stats.BadFrames++
	}
	s.stats.Frames++
	s.front, s.back = s.back, s.front
	s.ready = true
	s.y = 0
}

// Frame returns the last complete frame, or nil before the first one.
func (s *Sink) Frame() *image.RGBA {
	if !s.ready {
		return nil
	}
	return s.front
}

// Stats returns the sink counters.
func (s *Sink) Stats() SinkStats {
	return s.stats
}
