//go:build tinygo && rp2040

package rp2040

import (
	"device/rp"
	"runtime/volatile"
	"unsafe"

	"github.com/user-none/emdvi/dvi"
)

// Compile-time interface check.
var _ dvi.Interp = (*interp)(nil)

// One SIO interpolator. See rp.SIO_Type INTERP0_*.
type interpHW struct {
	ACCUM0     volatile.Register32
	ACCUM1     volatile.Register32
	BASE0      volatile.Register32
	BASE1      volatile.Register32
	BASE2      volatile.Register32
	POP_LANE0  volatile.Register32
	POP_LANE1  volatile.Register32
	POP_FULL   volatile.Register32
	PEEK_LANE0 volatile.Register32
	PEEK_LANE1 volatile.Register32
	PEEK_FULL  volatile.Register32
	CTRL_LANE0 volatile.Register32
	CTRL_LANE1 volatile.Register32
	ACCUM0_ADD volatile.Register32
	ACCUM1_ADD volatile.Register32
	BASE_1AND0 volatile.Register32
}

// interp adapts an interpolator to dvi.Interp. The registers are per core,
// so a unit is only meaningful on the core that uses it.
type interp struct {
	hw *interpHW
}

var interps = [2]interp{
	{hw: (*interpHW)(unsafe.Add(unsafe.Pointer(rp.SIO), 0x080))},
	{hw: (*interpHW)(unsafe.Add(unsafe.Pointer(rp.SIO), 0x0c0))},
}

var interpResetCtrl = dvi.InterpConfig{MaskMSB: 31}.Word()

func (it *interp) Save(s *dvi.InterpState) {
	s.Accum[0] = it.hw.ACCUM0.Get()
	s.Accum[1] = it.hw.ACCUM1.Get()
	s.Base[0] = it.hw.BASE0.Get()
	s.Base[1] = it.hw.BASE1.Get()
	s.Base[2] = it.hw.BASE2.Get()
	s.Ctrl[0] = it.hw.CTRL_LANE0.Get()
	s.Ctrl[1] = it.hw.CTRL_LANE1.Get()
}

func (it *interp) Restore(s *dvi.InterpState) {
	it.hw.ACCUM0.Set(s.Accum[0])
	it.hw.ACCUM1.Set(s.Accum[1])
	it.hw.BASE0.Set(s.Base[0])
	it.hw.BASE1.Set(s.Base[1])
	it.hw.BASE2.Set(s.Base[2])
	it.hw.CTRL_LANE0.Set(s.Ctrl[0])
	it.hw.CTRL_LANE1.Set(s.Ctrl[1])
}

func (it *interp) Reset() {
	it.hw.ACCUM0.Set(0)
	it.hw.ACCUM1.Set(0)
	it.hw.BASE0.Set(0)
	it.hw.BASE1.Set(0)
	it.hw.BASE2.Set(0)
	it.hw.CTRL_LANE0.Set(interpResetCtrl)
	it.hw.CTRL_LANE1.Set(interpResetCtrl)
}

func (it *interp) Configure(lane int, c dvi.InterpConfig) {
	if lane == 0 {
		it.hw.CTRL_LANE0.Set(c.Word())
	} else {
		it.hw.CTRL_LANE1.Set(c.Word())
	}
}

//go:nosplit
func (it *interp) Lookup(v uint32) (uint32, uint32) {
	it.hw.ACCUM0.Set(v)
	return it.hw.PEEK_LANE0.Get(), it.hw.PEEK_LANE1.Get()
}
