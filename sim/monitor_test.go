package sim

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	emucore "github.com/user-none/eblitui/api"
	"github.com/user-none/emdvi/dvi"
)

func newTestMonitor(t *testing.T, img []byte) *Monitor {
	t.Helper()
	m, err := NewMonitor(dvi.DVI640x480, img, nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(m.Close)
	return m
}

func encodePNG(t *testing.T, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 32, 24))
	for y := 0; y < 24; y++ {
		for x := 0; x < 32; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestMonitor_ShowsPattern(t *testing.T) {
	m := newTestMonitor(t, nil)
	if m.Pattern() != PatternBars {
		t.Fatalf("pattern %q, want %q", m.Pattern(), PatternBars)
	}

	m.RunFrame()
	m.RunFrame()

	fb := m.FrameBuffer()
	pix := m.GetFramebuffer()
	stride := m.GetFramebufferStride()
	for _, y := range []int{0, 1, 100, 479} {
		for _, x := range []int{0, 50, 319} {
			r, g, b := expand565(fb.Row(y / 2)[x])
			i := y*stride + x*4
			if pix[i] != r || pix[i+1] != g || pix[i+2] != b {
				t.Errorf("pixel %d,%d: %v, want %d %d %d", x, y, pix[i:i+3], r, g, b)
			}
		}
	}
	if st := m.Sink().Stats(); st.BadFrames != 0 || st.BadSymbols != 0 {
		t.Errorf("sink stats %+v", st)
	}
}

func TestMonitor_StartTogglesOutput(t *testing.T) {
	m := newTestMonitor(t, nil)
	m.RunFrame()
	m.RunFrame()

	m.SetInput(0, 1<<ButtonStart)
	if m.Output() {
		t.Fatal("output still on after Start")
	}
	for _, v := range m.GetFramebuffer() {
		if v != 0 {
			t.Fatal("framebuffer not blank without signal")
		}
	}
	if n := m.Engine().Run(100); n != 0 {
		t.Errorf("engine emitted %d words with output off", n)
	}

	// Holding the button does nothing; a new press turns output back on.
	m.SetInput(0, 1<<ButtonStart)
	if m.Output() {
		t.Error("held button toggled output")
	}
	m.SetInput(0, 0)
	m.SetInput(0, 1<<ButtonStart)
	if !m.Output() {
		t.Error("output not restored")
	}
}

func TestMonitor_PatternButtons(t *testing.T) {
	m := newTestMonitor(t, nil)
	names := m.Patterns()

	m.SetInput(0, 1<<ButtonA)
	if m.Pattern() != names[1] {
		t.Errorf("after A: %q, want %q", m.Pattern(), names[1])
	}
	m.SetInput(0, 0)
	m.SetInput(0, 1<<emucore.ButtonLeft)
	m.SetInput(0, 0)
	m.SetInput(0, 1<<emucore.ButtonLeft)
	if want := names[len(names)-1]; m.Pattern() != want {
		t.Errorf("after two lefts: %q, want %q", m.Pattern(), want)
	}

	m.SetInput(1, 0)
	m.SetInput(1, 1<<emucore.ButtonRight)
	if want := names[len(names)-1]; m.Pattern() != want {
		t.Error("second player changed the pattern")
	}
}

func TestMonitor_SetOption(t *testing.T) {
	m := newTestMonitor(t, nil)

	m.SetOption("pattern", PatternChecker)
	if m.Pattern() != PatternChecker {
		t.Errorf("pattern %q", m.Pattern())
	}
	if m.FrameBuffer().Row(0)[0] != 0xffff {
		t.Error("checker not drawn")
	}

	m.SetOption("pattern", "nonsense")
	if m.Pattern() != PatternChecker {
		t.Error("unknown pattern replaced the current one")
	}

	m.SetOption("output", "false")
	if m.Output() {
		t.Error("output still on")
	}
	m.SetOption("output", "true")
	if !m.Output() {
		t.Error("output still off")
	}
}

func TestMonitor_ImagePattern(t *testing.T) {
	m := newTestMonitor(t, encodePNG(t, color.RGBA{B: 255, A: 255}))
	if m.Pattern() != PatternImage {
		t.Fatalf("pattern %q, want %q", m.Pattern(), PatternImage)
	}
	if got := m.FrameBuffer().Row(100)[100]; got != 0x001f {
		t.Errorf("pixel 0x%04x, want 0x001f", got)
	}
}

func TestMonitor_RejectsBadImage(t *testing.T) {
	if _, err := NewMonitor(dvi.DVI640x480, []byte("garbage"), nil); err == nil {
		t.Error("expected an error")
	}
}

func TestMonitor_Timing(t *testing.T) {
	m := newTestMonitor(t, nil)
	tm := m.GetTiming()
	if tm.FPS != 60 || tm.Scanlines != 525 {
		t.Errorf("timing %+v", tm)
	}
	if m.GetActiveHeight() != 480 || m.GetFramebufferStride() != 320*4 {
		t.Error("wrong frame geometry")
	}
	if m.GetAudioSamples() != nil {
		t.Error("unexpected audio")
	}
}

func TestMonitor_SerializeRoundTrip(t *testing.T) {
	m := newTestMonitor(t, nil)
	m.SetPattern(PatternRamp)
	m.SetOutput(false)

	data, err := m.Serialize()
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != m.SerializeSize() {
		t.Fatalf("size %d, want %d", len(data), m.SerializeSize())
	}

	other := newTestMonitor(t, nil)
	if err := other.Deserialize(data); err != nil {
		t.Fatal(err)
	}
	if other.Pattern() != PatternRamp {
		t.Errorf("pattern %q", other.Pattern())
	}
	if other.Output() {
		t.Error("output restored on")
	}
}

func TestMonitor_VerifyState(t *testing.T) {
	m := newTestMonitor(t, nil)
	data, err := m.Serialize()
	if err != nil {
		t.Fatal(err)
	}

	if err := m.VerifyState(data[:10]); err == nil {
		t.Error("short state accepted")
	}

	bad := append([]byte(nil), data...)
	bad[0] = 'x'
	if err := m.VerifyState(bad); err == nil {
		t.Error("bad magic accepted")
	}

	bad = append([]byte(nil), data...)
	bad[len(bad)-1] ^= 0xff
	if err := m.VerifyState(bad); err == nil {
		t.Error("corrupted body accepted")
	}

	img := newTestMonitor(t, encodePNG(t, color.White))
	if err := img.VerifyState(data); err == nil {
		t.Error("state from another image accepted")
	}
}
