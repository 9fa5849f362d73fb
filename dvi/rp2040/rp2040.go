//go:build tinygo && rp2040

// Package rp2040 drives DVI output from an RP2040: three PIO state machines
// serialize the TMDS lanes, a PWM slice generates the pixel clock, and six
// DMA channels run the transfer chains. The system clock must be 252 MHz.
package rp2040

//go:generate pioasm -o go serializer.pio serializer_pio.go

import (
	"errors"
	"machine"
	"runtime/interrupt"

	pio "github.com/tinygo-org/pio/rp2-pio"

	"github.com/user-none/emdvi/dvi"
)

// Compile-time interface check.
var _ dvi.Hardware = (*Hardware)(nil)

var (
	errClockPin     = errors.New("rp2040: clock pin must be even")
	errStateMachine = errors.New("rp2040: state machine already claimed")
	errDMAChannel   = errors.New("rp2040: DMA channels out of range")
)

// Config selects the peripherals and pins used for output. Every lane and
// the clock use a pair of consecutive pins, positive first.
type Config struct {
	PIO          *pio.PIO
	StateMachine uint8 // first of three consecutive state machines
	DMAChannel   uint8 // first of six consecutive DMA channels
	Clock        machine.Pin
	Data         [dvi.Lanes]machine.Pin
}

// DefaultConfig uses the PicoDVI sock pinout.
func DefaultConfig() Config {
	return Config{
		PIO:   pio.PIO0,
		Clock: machine.GPIO14,
		Data:  [dvi.Lanes]machine.Pin{machine.GPIO12, machine.GPIO18, machine.GPIO16},
	}
}

// Hardware implements dvi.Hardware on the RP2040.
type Hardware struct {
	cfg    Config
	sm     [dvi.Lanes]pio.StateMachine
	offset uint8
	loaded bool

	clock pwmSlice

	dma dmaLanes
	irq interrupt.Interrupt
}

// New claims the state machines named by cfg.
func New(cfg Config) (*Hardware, error) {
	if cfg.Clock&1 != 0 {
		return nil, errClockPin
	}
	if int(cfg.DMAChannel)+2*dvi.Lanes > dmaChannels {
		return nil, errDMAChannel
	}
	if int(cfg.StateMachine)+dvi.Lanes > 4 {
		return nil, errStateMachine
	}

	h := &Hardware{
		cfg:   cfg,
		clock: pwmSlices[(cfg.Clock>>1)&7],
	}
	for lane := range h.sm {
		sm := cfg.PIO.StateMachine(cfg.StateMachine + uint8(lane))
		if !sm.TryClaim() {
			for _, claimed := range h.sm[:lane] {
				claimed.Unclaim()
			}
			return nil, errStateMachine
		}
		h.sm[lane] = sm
	}
	h.dma = newDMALanes(cfg.DMAChannel)
	return h, nil
}

// Units returns the two SIO interpolators of the calling core.
func Units() [2]dvi.Interp {
	return [2]dvi.Interp{&interps[0], &interps[1]}
}

// smMask returns the PIO CTRL bits of the lane state machines.
func (h *Hardware) smMask() uint32 {
	return uint32(1<<dvi.Lanes-1) << h.cfg.StateMachine
}

// ConfigureSerializer loads the serializer program and sets up one state
// machine per lane. Serializers stay disabled until EnableOutput.
func (h *Hardware) ConfigureSerializer(p dvi.Profile) {
	if !h.loaded {
		off, err := h.cfg.PIO.AddProgram(serializerInstructions, serializerOrigin)
		if err != nil {
			// Offset 0 is required; a conflicting program is a build error.
			panic(err)
		}
		h.offset = off
		h.loaded = true
	}

	for lane, sm := range h.sm {
		pin := h.cfg.Data[lane]
		for _, pp := range [2]machine.Pin{pin, pin + 1} {
			pp.Configure(machine.PinConfig{Mode: h.cfg.PIO.PinMode()})
			configurePad(pp)
		}
		// Idle the pair at 0/1 until the first word arrives.
		sm.SetPinsMasked(1<<(pin+1), 3<<pin)
		sm.SetPindirsConsecutive(pin, 2, true)

		cfg := serializerProgramDefaultConfig(h.offset)
		cfg.SetSidesetPins(pin)
		cfg.SetFIFOJoin(pio.FifoJoinTx)
		cfg.SetClkDivIntFrac(1, 0)
		cfg.SetOutShift(true, true, 20)
		sm.Init(h.offset, cfg)
	}
}

// ConfigureClock sets the clock slice to one period per ten system clocks,
// with channel A inverted to form the differential pair.
func (h *Hardware) ConfigureClock(p dvi.Profile) {
	ch, err := h.clock.Channel(h.cfg.Clock)
	if err != nil {
		panic(err)
	}
	if _, err := h.clock.Channel(h.cfg.Clock + 1); err != nil {
		panic(err)
	}
	configurePad(h.cfg.Clock)
	configurePad(h.cfg.Clock + 1)

	h.clock.Enable(false)
	h.clock.SetTop(9)
	h.clock.Set(ch, 5)
	h.clock.Set(ch^1, 5)
	h.clock.SetInverting(ch, true)
	h.clock.SetInverting(ch^1, false)
}

// Critical runs f with interrupts disabled.
func (h *Hardware) Critical(f func()) {
	mask := interrupt.Disable()
	f()
	interrupt.Restore(mask)
}

// EnableOutput starts the pixel clock and all serializers.
func (h *Hardware) EnableOutput() {
	h.clock.Enable(true)
	mask := h.smMask()
	h.cfg.PIO.HW().CTRL.SetBits(mask | mask<<8)
}

// DisableOutput stops the serializers and the pixel clock.
func (h *Hardware) DisableOutput() {
	h.cfg.PIO.HW().CTRL.ClearBits(h.smMask())
	h.clock.Enable(false)
}

// ResetSerializer returns the state machines and program memory.
func (h *Hardware) ResetSerializer() {
	for _, sm := range h.sm {
		sm.SetEnabled(false)
		sm.ClearFIFOs()
		sm.Restart()
	}
	if h.loaded {
		h.cfg.PIO.ClearProgramSection(h.offset, uint8(len(serializerInstructions)))
		h.loaded = false
	}
}
