package dvi

import (
	"errors"
	"testing"
)

func segmentCounts(c *Chain) []int {
	var n []int
	for _, s := range c.Segments {
		n = append(n, s.Count)
	}
	return n
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestBuildChains_640x480Shapes(t *testing.T) {
	p := DVI640x480
	lb := NewLineBuffers(p.Words())
	cs, err := BuildChains(p, lb)
	if err != nil {
		t.Fatal(err)
	}

	sync := []int{8, 48, 24, 320}
	quiet := []int{80, 320}

	for _, set := range [][Lanes]*Chain{cs.VSync, cs.Blank, cs.Active[0], cs.Active[1]} {
		if got := segmentCounts(set[LaneBlue]); !equalInts(got, sync) {
			t.Errorf("%s lane 0 counts %v, want %v", set[0].Category, got, sync)
		}
		for _, lane := range []Lane{LaneGreen, LaneRed} {
			if got := segmentCounts(set[lane]); !equalInts(got, quiet) {
				t.Errorf("%s lane %d counts %v, want %v", set[lane].Category, lane, got, quiet)
			}
			if set[lane].Lane != lane {
				t.Errorf("chain tagged lane %d, stored for lane %d", set[lane].Lane, lane)
			}
		}
		for i, s := range set[LaneBlue].Segments {
			if s.IRQ != (i == 2) {
				t.Errorf("%s lane 0 segment %d IRQ=%v", set[0].Category, i, s.IRQ)
			}
		}
	}

	if len(cs.All) != 12 {
		t.Errorf("%d chains, want 12", len(cs.All))
	}
	for i, c := range cs.All {
		if c.ID != i {
			t.Errorf("chain %d has ID %d", i, c.ID)
		}
	}
}

func TestBuildChains_SyncSymbols(t *testing.T) {
	p := DVI640x480
	cs, err := BuildChains(p, NewLineBuffers(p.Words()))
	if err != nil {
		t.Fatal(err)
	}

	check := func(name string, c *Chain, want []ControlSymbol) {
		t.Helper()
		for i, sym := range want {
			s := c.Segments[i]
			if s.Ring != patternRing || len(s.Source) != 1 || s.Source[0] != CtrlSymbol(sym) {
				t.Errorf("%s segment %d: want repeated %s", name, i, sym)
			}
		}
	}
	check("vsync", cs.VSync[LaneBlue], []ControlSymbol{CtrlVSync, CtrlHSyncVSync, CtrlVSync, CtrlVSync})
	check("blank", cs.Blank[LaneBlue], []ControlSymbol{CtrlNone, CtrlHSync, CtrlNone, CtrlBlank})
	check("active", cs.Active[0][LaneBlue], []ControlSymbol{CtrlNone, CtrlHSync, CtrlNone})
	check("vsync lane 1", cs.VSync[LaneGreen], []ControlSymbol{CtrlNone, CtrlNone})
	check("blank lane 2", cs.Blank[LaneRed], []ControlSymbol{CtrlNone, CtrlNone})
}

func TestBuildChains_ActiveReadsLineBuffer(t *testing.T) {
	p := DVI640x480
	lb := NewLineBuffers(p.Words())
	cs, err := BuildChains(p, lb)
	if err != nil {
		t.Fatal(err)
	}
	for buf := 0; buf < 2; buf++ {
		for lane := Lane(0); lane < Lanes; lane++ {
			c := cs.Active[buf][lane]
			last := c.Segments[len(c.Segments)-1]
			if &last.Source[0] != &lb.Lane(lane, buf)[0] {
				t.Errorf("buffer %d lane %d does not read its line buffer", buf, lane)
			}
			if last.Ring != 0 {
				t.Errorf("buffer %d lane %d line segment wraps", buf, lane)
			}
			if c.Buffer != buf {
				t.Errorf("buffer %d lane %d tagged %d", buf, lane, c.Buffer)
			}
		}
	}
}

func TestBuildChains_RejectsOddTiming(t *testing.T) {
	p := DVI640x480
	p.HSync = 95
	_, err := BuildChains(p, NewLineBuffers(p.Words()))
	if !errors.Is(err, ErrProfile) {
		t.Errorf("got %v, want ErrProfile", err)
	}
}

func TestBuildChains_RejectsLineBufferSize(t *testing.T) {
	p := DVI640x480
	_, err := BuildChains(p, NewLineBuffers(p.Words()-1))
	if !errors.Is(err, ErrProfile) {
		t.Errorf("got %v, want ErrProfile", err)
	}
}

func TestChain_Validate(t *testing.T) {
	tests := []struct {
		name string
		seg  Segment
	}{
		{"zero count", Segment{Source: []uint32{1}, Count: 0}},
		{"short source", Segment{Source: []uint32{1, 2}, Count: 3}},
		{"ring size", Segment{Source: []uint32{1, 2}, Count: 3, Ring: patternRing}},
	}
	for _, tt := range tests {
		c := &Chain{Segments: []Segment{tt.seg}}
		if err := c.Validate(); !errors.Is(err, ErrChain) {
			t.Errorf("%s: got %v, want ErrChain", tt.name, err)
		}
	}
	if err := (&Chain{}).Validate(); !errors.Is(err, ErrChain) {
		t.Errorf("empty chain: got %v", err)
	}
}
