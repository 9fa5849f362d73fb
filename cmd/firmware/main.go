//go:build tinygo && rp2040

// Command firmware shows test patterns on a DVI display attached to an
// RP2040. Build with: tinygo flash -target pico ./cmd/firmware
package main

import (
	"machine"
	"time"

	"github.com/user-none/emdvi/dvi"
	"github.com/user-none/emdvi/dvi/rp2040"
	"github.com/user-none/emdvi/pattern"
)

func main() {
	p := dvi.DVI640x480
	if f := machine.CPUFrequency(); f != uint32(p.SysClockHz) {
		println("emdvi: system clock is", f, "Hz, output needs", p.SysClockHz)
	}

	fb := dvi.NewFrameBuffer(p.Width(), p.Rows())
	pattern.Bars(fb)

	hw, err := rp2040.New(rp2040.DefaultConfig())
	if err != nil {
		println("emdvi:", err.Error())
		return
	}
	// The output context shares core 0 with this loop; the line interrupt
	// preempts both.
	ctrl, err := dvi.NewController(p, fb, hw, rp2040.Units(), dvi.Options{
		Idle: func() { time.Sleep(10 * time.Millisecond) },
	})
	if err != nil {
		println("emdvi:", err.Error())
		return
	}
	ctrl.Start()

	draw := []func(dvi.FrameBuffer){
		pattern.Bars,
		pattern.Ramp,
		func(fb dvi.FrameBuffer) { pattern.Checker(fb, 16) },
	}
	for i := 1; ; i++ {
		time.Sleep(5 * time.Second)
		draw[i%len(draw)](fb)
		d := ctrl.Machine().Diagnostics()
		if d.Enabled() {
			println("emdvi: in", d.In.Load(), "out", d.Out.Load(), "polls", d.Polls.Load())
		}
	}
}
