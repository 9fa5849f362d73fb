package dvi

// InterpConfig configures one lane of an interpolator unit.
type InterpConfig struct {
	Shift      uint8 // logical right shift applied to the lane input
	MaskLSB    uint8
	MaskMSB    uint8
	CrossInput bool // lane 1 reads accumulator 0 instead of accumulator 1
}

// Word returns the control register encoding of c.
func (c InterpConfig) Word() uint32 {
	w := uint32(c.Shift&31) | uint32(c.MaskLSB&31)<<5 | uint32(c.MaskMSB&31)<<10
	if c.CrossInput {
		w |= 1 << 16
	}
	return w
}

// InterpState is a snapshot of an interpolator unit.
type InterpState struct {
	Accum [2]uint32
	Base  [3]uint32
	Ctrl  [2]uint32
}

// Interp is one hardware interpolator unit: two lanes that shift and mask
// an accumulator and add a base. Units are shared by everything running
// on the same core, so users must save and restore them.
type Interp interface {
	Save(s *InterpState)
	Restore(s *InterpState)
	// Reset loads the power-on state.
	Reset()
	Configure(lane int, c InterpConfig)
	// Lookup loads v into accumulator 0 and returns both lane results.
	Lookup(v uint32) (uint32, uint32)
}

// interpDefaultCtrl is the power-on control word: full mask, no shift.
const interpDefaultCtrl = 31 << 10

// SoftInterp is a software interpolator unit.
type SoftInterp struct {
	accum [2]uint32
	base  [3]uint32
	ctrl  [2]uint32
}

// NewSoftInterp returns a unit in its power-on state.
func NewSoftInterp() *SoftInterp {
	it := &SoftInterp{}
	it.Reset()
	return it
}

func (it *SoftInterp) Save(s *InterpState) {
	s.Accum = it.accum
	s.Base = it.base
	s.Ctrl = it.ctrl
}

func (it *SoftInterp) Restore(s *InterpState) {
	it.accum = s.Accum
	it.base = s.Base
	it.ctrl = s.Ctrl
}

func (it *SoftInterp) Reset() {
	it.accum = [2]uint32{}
	it.base = [3]uint32{}
	it.ctrl = [2]uint32{interpDefaultCtrl, interpDefaultCtrl}
}

func (it *SoftInterp) Configure(lane int, c InterpConfig) {
	it.ctrl[lane] = c.Word()
}

func (it *SoftInterp) Lookup(v uint32) (uint32, uint32) {
	it.accum[0] = v
	in1 := it.accum[1]
	if it.ctrl[1]&(1<<16) != 0 {
		in1 = it.accum[0]
	}
	return it.base[0] + laneResult(it.ctrl[0], it.accum[0]), it.base[1] + laneResult(it.ctrl[1], in1)
}

func laneResult(ctrl, in uint32) uint32 {
	shift := ctrl & 31
	lsb := (ctrl >> 5) & 31
	msb := (ctrl >> 10) & 31
	mask := uint32(0xffffffff) >> (31 - msb) &^ (1<<lsb - 1)
	return in >> shift & mask
}

// interpGuard saves both units on acquire and restores them on release.
type interpGuard struct {
	units [2]Interp
	saved [2]InterpState
}

func (g *interpGuard) acquire() {
	g.units[0].Save(&g.saved[0])
	g.units[1].Save(&g.saved[1])
	g.units[0].Reset()
	g.units[1].Reset()
}

func (g *interpGuard) release() {
	g.units[1].Restore(&g.saved[1])
	g.units[0].Restore(&g.saved[0])
}
