package dvi

import (
	"math/bits"
	"testing"
)

func TestCtrlSymbol_Words(t *testing.T) {
	tests := []struct {
		c    ControlSymbol
		want uint32
	}{
		{CtrlNone, 0xaaeab},
		{CtrlHSync, 0x55154},
		{CtrlVSync, 0x2acab},
		{CtrlHSyncVSync, 0xd5354},
		{CtrlBlank, 0x7fd00},
	}
	for _, tt := range tests {
		if got := CtrlSymbol(tt.c); got != tt.want {
			t.Errorf("%s: got 0x%05x, want 0x%05x", tt.c, got, tt.want)
		}
	}
}

func TestDataSymbol_KnownEntries(t *testing.T) {
	if got := DataSymbol(0); got != 0x7fd00 {
		t.Errorf("index 0: got 0x%05x, want 0x7fd00", got)
	}
	if got := DataSymbol(grayIndex); got != 0x5fd80 {
		t.Errorf("index 32: got 0x%05x, want 0x5fd80", got)
	}
}

func TestDataSymbol_PairsAreBalanced(t *testing.T) {
	for i := 0; i < 64; i++ {
		w := DataSymbol(i)
		if w>>20 != 0 {
			t.Fatalf("index %d: bits above 20 set in 0x%08x", i, w)
		}
		if n := bits.OnesCount32(w); n != 10 {
			t.Errorf("index %d: pair 0x%05x has %d ones, want 10", i, w, n)
		}
	}
}

func TestDataSymbol_DecodesToIndex(t *testing.T) {
	for i := 0; i < 64; i++ {
		w := DataSymbol(i)
		for half, sym := range []uint32{w & 0x3ff, w >> 10} {
			v, ok := DecodeSymbol(sym)
			if !ok {
				t.Fatalf("index %d half %d: 0x%03x decoded as control", i, half, sym)
			}
			if int(v>>2) != i {
				t.Errorf("index %d half %d: decoded %d", i, half, v)
			}
		}
	}
}

func TestDataSymbol_MasksIndex(t *testing.T) {
	if DataSymbol(64+5) != DataSymbol(5) {
		t.Error("index is not reduced to 6 bits")
	}
}

func TestControlOf_RecognisesSyncCodes(t *testing.T) {
	for c := CtrlNone; c < CtrlBlank; c++ {
		w := CtrlSymbol(c)
		if w&0x3ff != w>>10 {
			t.Errorf("%s: halves differ in 0x%05x", c, w)
		}
		got, ok := ControlOf(w & 0x3ff)
		if !ok || got != c {
			t.Errorf("%s: ControlOf = %s, %v", c, got, ok)
		}
		if _, ok := DecodeSymbol(w); ok {
			t.Errorf("%s: decoded as data", c)
		}
	}
	if _, ok := ControlOf(CtrlSymbol(CtrlBlank) & 0x3ff); ok {
		t.Error("blank pair recognised as control")
	}
}

func TestTMDS_RoundTrip(t *testing.T) {
	cnt := 0
	for pass := 0; pass < 2; pass++ {
		for d := 0; d < 256; d++ {
			sym := tmdsEncode(uint8(d), &cnt)
			if got := tmdsDecode(sym); got != uint8(d) {
				t.Fatalf("d=%d: encoded 0x%03x decoded %d", d, sym, got)
			}
		}
	}
}
