//go:build tinygo && rp2040

package rp2040

import (
	"device/rp"
	"machine"
	"runtime/volatile"
	"unsafe"
)

// pwmSlice is the part of a TinyGo PWM group used for the pixel clock.
type pwmSlice interface {
	Channel(pin machine.Pin) (uint8, error)
	Set(channel uint8, value uint32)
	SetTop(top uint32)
	SetInverting(channel uint8, inverting bool)
	Enable(enable bool)
}

var pwmSlices = [8]pwmSlice{
	machine.PWM0, machine.PWM1, machine.PWM2, machine.PWM3,
	machine.PWM4, machine.PWM5, machine.PWM6, machine.PWM7,
}

// Pad control bits.
const (
	padSlewFast = 1 << 0
	padPullDown = 1 << 2
	padPullUp   = 1 << 3
	padDrive    = 3 << 4 // 0 = 2 mA
	padInput    = 1 << 6
	padOutDis   = 1 << 7
)

// pads overlays the GPIO pad registers that follow VOLTAGE_SELECT.
var pads = (*[30]volatile.Register32)(unsafe.Add(unsafe.Pointer(rp.PADS_BANK0), 4))

// configurePad sets 2 mA drive, slow slew, no pulls and disables the input.
func configurePad(pin machine.Pin) {
	pads[pin].ClearBits(padSlewFast | padPullDown | padPullUp | padDrive | padInput | padOutDis)
}
