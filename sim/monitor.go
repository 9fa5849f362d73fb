package sim

import (
	"fmt"
	"hash/crc32"
	"image"
	"io"
	"log/slog"
	"time"

	emucore "github.com/user-none/eblitui/api"
	"github.com/user-none/emdvi/dvi"
	"github.com/user-none/emdvi/pattern"
	"github.com/user-none/emdvi/pattern/card"
	"github.com/user-none/emdvi/pattern/picture"
)

// Compile-time interface checks.
var (
	_ emucore.Emulator   = (*Monitor)(nil)
	_ emucore.SaveStater = (*Monitor)(nil)
)

// Button bits beyond the d-pad.
const (
	ButtonA     = 4
	ButtonStart = 7
)

// Pattern names accepted by SetPattern.
const (
	PatternBars    = "bars"
	PatternRamp    = "ramp"
	PatternChecker = "checker"
	PatternCard    = "card"
	PatternImage   = "image"
)

// Monitor is a complete simulated display chain: a framebuffer driven by
// a dvi.Controller through the software engine into a TMDS sink. The
// frames it exposes are what the sink decoded, not the framebuffer.
type Monitor struct {
	profile dvi.Profile
	fb      dvi.FrameBuffer
	engine  *Engine
	sink    *Sink
	ctrl    *dvi.Controller
	log     *slog.Logger

	region   emucore.Region
	source   image.Image
	crc      uint32
	patterns []string
	pattern  int
	output   bool
	buttons  uint32

	blank []byte
}

// NewMonitor builds a monitor for profile p. image is optional encoded
// image data shown as the "image" pattern; without it the monitor starts
// with colour bars. Output is started before NewMonitor returns.
func NewMonitor(p dvi.Profile, img []byte, log *slog.Logger) (*Monitor, error) {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	m := &Monitor{
		profile:  p,
		fb:       dvi.NewFrameBuffer(p.Width(), p.Rows()),
		log:      log,
		region:   emucore.RegionNTSC,
		crc:      crc32.ChecksumIEEE(img),
		patterns: []string{PatternBars, PatternRamp, PatternChecker, PatternCard},
		blank:    make([]byte, p.Width()*p.VActive*4),
	}
	if len(img) > 0 {
		src, err := picture.Decode(img)
		if err != nil {
			return nil, err
		}
		m.source = src
		m.patterns = append([]string{PatternImage}, m.patterns...)
	}

	m.sink = NewSink(p.Width(), p.VActive)
	m.engine = NewEngine(m.sink, log)
	ctrl, err := dvi.NewController(p, m.fb, m.engine, [2]dvi.Interp{dvi.NewSoftInterp(), dvi.NewSoftInterp()}, dvi.Options{
		Logger: log,
		Idle:   func() { time.Sleep(time.Millisecond) },
	})
	if err != nil {
		return nil, fmt.Errorf("creating controller: %w", err)
	}
	m.ctrl = ctrl

	m.drawPattern()
	m.SetOutput(true)
	return m, nil
}

// Patterns returns the selectable pattern names.
func (m *Monitor) Patterns() []string {
	return m.patterns
}

// Pattern returns the current pattern name.
func (m *Monitor) Pattern() string {
	return m.patterns[m.pattern]
}

// SetPattern selects a pattern by name.
func (m *Monitor) SetPattern(name string) error {
	for i, n := range m.patterns {
		if n == name {
			m.pattern = i
			m.drawPattern()
			return nil
		}
	}
	return fmt.Errorf("sim: unknown pattern %q", name)
}

func (m *Monitor) stepPattern(d int) {
	n := len(m.patterns)
	m.pattern = ((m.pattern+d)%n + n) % n
	m.drawPattern()
}

func (m *Monitor) drawPattern() {
	switch m.patterns[m.pattern] {
	case PatternImage:
		picture.ToRGB565(m.source, m.fb)
	case PatternRamp:
		pattern.Ramp(m.fb)
	case PatternChecker:
		pattern.Checker(m.fb, 16)
	case PatternCard:
		picture.ToRGB565(card.Draw(m.fb.Width*2, m.fb.Height*2, m.profile.Name), m.fb)
	default:
		pattern.Bars(m.fb)
	}
	m.log.Debug("sim: pattern drawn", "pattern", m.patterns[m.pattern])
}

// FrameBuffer returns the source framebuffer.
func (m *Monitor) FrameBuffer() dvi.FrameBuffer {
	return m.fb
}

// Controller returns the output controller.
func (m *Monitor) Controller() *dvi.Controller {
	return m.ctrl
}

// Engine returns the simulated transfer hardware.
func (m *Monitor) Engine() *Engine {
	return m.engine
}

// Sink returns the receiver.
func (m *Monitor) Sink() *Sink {
	return m.sink
}

// Output reports whether the signal is on.
func (m *Monitor) Output() bool {
	return m.output
}

// SetOutput starts or stops the video signal.
func (m *Monitor) SetOutput(on bool) {
	if on == m.output {
		return
	}
	if on {
		m.ctrl.Start()
	} else {
		m.ctrl.Stop()
	}
	m.output = on
}

// RunFrame plays one frame worth of pixel clocks.
func (m *Monitor) RunFrame() {
	m.engine.Run(m.profile.LineWords() * m.profile.VTotal())
}

// SetInput handles button edges: Start toggles the signal, A and
// left/right change the pattern.
func (m *Monitor) SetInput(player int, buttons uint32) {
	if player != 0 {
		return
	}
	pressed := buttons &^ m.buttons
	m.buttons = buttons

	if pressed&(1<<ButtonStart) != 0 {
		m.SetOutput(!m.output)
	}
	if pressed&(1<<ButtonA) != 0 || pressed&(1<<emucore.ButtonRight) != 0 {
		m.stepPattern(1)
	}
	if pressed&(1<<emucore.ButtonLeft) != 0 {
		m.stepPattern(-1)
	}
}

// GetFramebuffer returns RGBA pixels of the last decoded frame, or black
// while there is no signal.
func (m *Monitor) GetFramebuffer() []byte {
	f := m.sink.Frame()
	if f == nil || !m.output {
		return m.blank
	}
	return f.Pix
}

// GetFramebufferStride returns the bytes per row.
func (m *Monitor) GetFramebufferStride() int {
	return m.profile.Width() * 4
}

// GetActiveHeight returns the decoded lines per frame.
func (m *Monitor) GetActiveHeight() int {
	return m.profile.VActive
}

// GetRegion returns the region setting. DVI timing does not depend on it.
func (m *Monitor) GetRegion() emucore.Region {
	return m.region
}

// SetRegion stores the region setting.
func (m *Monitor) SetRegion(region emucore.Region) {
	m.region = region
}

// GetTiming returns the frame rate and total lines of the profile.
func (m *Monitor) GetTiming() emucore.Timing {
	return emucore.Timing{
		FPS:       m.profile.FPS,
		Scanlines: m.profile.VTotal(),
	}
}

// GetAudioSamples returns nothing; the signal carries no audio.
func (m *Monitor) GetAudioSamples() []int16 {
	return nil
}

// SetOption applies a core option change identified by key.
func (m *Monitor) SetOption(key string, value string) {
	switch key {
	case "output":
		m.SetOutput(value == "true")
	case "pattern":
		if err := m.SetPattern(value); err != nil {
			m.log.Warn("sim: option ignored", "key", key, "value", value, "err", err)
		}
	}
}

// Close stops the signal.
func (m *Monitor) Close() {
	m.SetOutput(false)
}
