package sim

import (
	"testing"

	"github.com/user-none/emdvi/dvi"
)

func expand565(c uint16) (r, g, b uint8) {
	return uint8(c>>11) << 3, uint8(c>>5&0x3f) << 2, uint8(c&0x1f) << 3
}

// checkFrame compares a decoded frame against the framebuffer it was sent
// from. Every source row appears on two consecutive lines.
func checkFrame(t *testing.T, s *Sink, fb dvi.FrameBuffer, lines int) {
	t.Helper()
	f := s.Frame()
	if f == nil {
		t.Fatal("no frame decoded")
	}
	for y := 0; y < lines; y++ {
		row := fb.Row(y / 2)
		for x, c := range row {
			r, g, b := expand565(c)
			i := f.PixOffset(x, y)
			if f.Pix[i] != r || f.Pix[i+1] != g || f.Pix[i+2] != b {
				t.Fatalf("pixel %d,%d: %v, want %d %d %d", x, y, f.Pix[i:i+3], r, g, b)
			}
		}
	}
}

func TestSink_DecodesFrames(t *testing.T) {
	p := makeTestProfile()
	s := NewSink(p.Width(), p.VActive)
	e, c, fb := makeTestEngine(t, p, s)
	for y := 0; y < fb.Height; y++ {
		for x := range fb.Row(y) {
			fb.Row(y)[x] = uint16(0x1234*(y+1) + 0x0841*x)
		}
	}
	c.Initialize()

	e.Run(3 * p.LineWords() * p.VTotal())

	st := s.Stats()
	if st.Frames < 2 {
		t.Fatalf("%d frames decoded", st.Frames)
	}
	if st.BadFrames != 0 || st.ShortLines != 0 || st.BadSymbols != 0 {
		t.Errorf("signal errors: %+v", st)
	}
	checkFrame(t, s, fb, p.VActive)
}

func TestSink_DVI640x480(t *testing.T) {
	p := dvi.DVI640x480
	s := NewSink(p.Width(), p.VActive)
	e, c, fb := makeTestEngine(t, p, s)
	for y := 0; y < fb.Height; y++ {
		for x := range fb.Row(y) {
			fb.Row(y)[x] = dvi.RGB565(uint8(x), uint8(y), uint8(x^y))
		}
	}
	c.Initialize()

	e.Run(2 * p.LineWords() * p.VTotal())

	st := s.Stats()
	if st.Frames == 0 || st.BadFrames != 0 || st.ShortLines != 0 {
		t.Fatalf("stats %+v", st)
	}
	if st.Lines%uint64(p.VActive) != 0 {
		t.Errorf("%d pixel lines is not a whole number of frames", st.Lines)
	}
	if u := e.Stats().Underruns; u != 0 {
		t.Errorf("%d underruns", u)
	}
	checkFrame(t, s, fb, p.VActive)
}

func TestSink_NoFrameBeforeSync(t *testing.T) {
	s := NewSink(4, 4)
	if s.Frame() != nil {
		t.Error("frame available before any signal")
	}
	blank := dvi.DataSymbol(0)
	for i := 0; i < 8; i++ {
		s.Push([dvi.Lanes]uint32{blank, blank, blank})
	}
	if s.Frame() != nil {
		t.Error("frame available without vertical sync")
	}
}

func TestSink_DarkWhenColourLanesIdle(t *testing.T) {
	s := NewSink(4, 4)
	idle := dvi.CtrlSymbol(dvi.CtrlNone)
	s.Push([dvi.Lanes]uint32{dvi.DataSymbol(0), idle, idle})
	st := s.Stats()
	if st.DarkSymbols != 1 || st.Lines != 0 {
		t.Errorf("stats %+v", st)
	}
}

func TestSink_ShortLineAndBadFrame(t *testing.T) {
	s := NewSink(4, 2)
	px := [dvi.Lanes]uint32{dvi.DataSymbol(1), dvi.DataSymbol(2), dvi.DataSymbol(3)}
	hs := [dvi.Lanes]uint32{dvi.CtrlSymbol(dvi.CtrlHSync)}
	none := [dvi.Lanes]uint32{dvi.CtrlSymbol(dvi.CtrlNone)}
	vs := [dvi.Lanes]uint32{dvi.CtrlSymbol(dvi.CtrlVSync)}

	s.Push(vs)
	s.Push(none)
	for i := 0; i < 3; i++ {
		s.Push(px)
	}
	s.Push(hs)
	s.Push(none)
	s.Push(vs)

	st := s.Stats()
	if st.ShortLines != 1 {
		t.Errorf("ShortLines %d, want 1", st.ShortLines)
	}
	if st.Frames != 1 || st.BadFrames != 1 {
		t.Errorf("Frames %d BadFrames %d, want 1 and 1", st.Frames, st.BadFrames)
	}
}
