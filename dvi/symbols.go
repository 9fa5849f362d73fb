package dvi

import "fmt"

// ControlSymbol names the fixed words sent while blanking.
type ControlSymbol int

const (
	CtrlNone ControlSymbol = iota
	CtrlHSync
	CtrlVSync
	CtrlHSyncVSync
	CtrlBlank // balanced black data pair
	numCtrl
)

func (c ControlSymbol) String() string {
	switch c {
	case CtrlNone:
		return "none"
	case CtrlHSync:
		return "hsync"
	case CtrlVSync:
		return "vsync"
	case CtrlHSyncVSync:
		return "hsync+vsync"
	case CtrlBlank:
		return "blank"
	}
	return fmt.Sprintf("ControlSymbol(%d)", int(c))
}

// HSync reports whether the symbol asserts horizontal sync.
func (c ControlSymbol) HSync() bool { return c == CtrlHSync || c == CtrlHSyncVSync }

// VSync reports whether the symbol asserts vertical sync.
func (c ControlSymbol) VSync() bool { return c == CtrlVSync || c == CtrlHSyncVSync }

// TMDS control periods encode C1:C0. Sync is active low, so an idle line
// sends C1=C0=1.
var ctrlCodes = [4]uint32{
	0b00: 0x354,
	0b01: 0x0ab,
	0b10: 0x154,
	0b11: 0x2ab,
}

// Both tables are read by the transfer engine straight from memory, so
// they stay package variables rather than constants.
var (
	ctrlSyms [numCtrl]uint32
	dataSyms [64]uint32
)

// blankIndex is the data table entry holding the black pair.
const blankIndex = 0

// grayIndex is the mid-gray entry used to prefill line buffers.
const grayIndex = 32

func init() {
	for c := CtrlNone; c < CtrlBlank; c++ {
		var code uint32
		if !c.HSync() {
			code |= 1 // C0
		}
		if !c.VSync() {
			code |= 2 // C1
		}
		sym := ctrlCodes[code]
		ctrlSyms[c] = sym<<10 | sym
	}
	for i := range dataSyms {
		cnt := 0
		lo := tmdsEncode(uint8(i<<2), &cnt)
		hi := tmdsEncode(uint8(i<<2|1), &cnt)
		dataSyms[i] = lo | hi<<10
	}
	ctrlSyms[CtrlBlank] = dataSyms[blankIndex]
}

// CtrlSymbol returns the word sent for control symbol c.
func CtrlSymbol(c ControlSymbol) uint32 {
	return ctrlSyms[c]
}

// DataSymbol returns the balanced symbol pair for a 6-bit colour index.
func DataSymbol(index int) uint32 {
	return dataSyms[index&63]
}

// DecodeSymbol decodes one 10-bit data symbol. ok is false for the four
// control codes, which carry no data.
func DecodeSymbol(sym uint32) (uint8, bool) {
	sym &= 0x3ff
	if _, isCtrl := ControlOf(sym); isCtrl {
		return 0, false
	}
	return tmdsDecode(sym), true
}

// ControlOf identifies a 10-bit control code.
func ControlOf(sym uint32) (ControlSymbol, bool) {
	switch sym & 0x3ff {
	case 0x2ab:
		return CtrlNone, true
	case 0x154:
		return CtrlHSync, true
	case 0x0ab:
		return CtrlVSync, true
	case 0x354:
		return CtrlHSyncVSync, true
	}
	return 0, false
}

// ctrlSource returns a one-word view of a control symbol for use as a
// repeating transfer source.
func ctrlSource(c ControlSymbol) []uint32 {
	return ctrlSyms[c : c+1 : c+1]
}
