package dvi

import (
	"fmt"
	"sync"
)

// makeTestProfile returns a tiny mode: 4 active words per line and the
// given vertical layout.
func makeTestProfile(vsync, vback, vactive, vfront int) Profile {
	return Profile{
		Name:    "test",
		HActive: 8,
		HFront:  2,
		HSync:   2,
		HBack:   2,
		VActive: vactive,
		VFront:  vfront,
		VSync:   vsync,
		VBack:   vback,
		FPS:     60,
	}
}

func makeTestUnits() [2]Interp {
	return [2]Interp{NewSoftInterp(), NewSoftInterp()}
}

// mockEngine is a TransferEngine whose data channels always report the
// active segment as loaded, after an optional number of busy polls.
type mockEngine struct {
	words  uint32
	busy   int
	polls  int
	acks   int
	rearms [Lanes][]*Chain
}

func (e *mockEngine) SegmentCount(lane Lane) uint32 {
	e.polls++
	if e.busy > 0 {
		e.busy--
		return 0
	}
	return e.words
}

func (e *mockEngine) Rearm(lane Lane, c *Chain) {
	e.rearms[lane] = append(e.rearms[lane], c)
}

func (e *mockEngine) Acknowledge() {
	e.acks++
}

// spyEncoder records every Encode call together with the machine state
// at the time of the call.
type spyEncoder struct {
	m     *Machine
	calls []encodeCall
}

type encodeCall struct {
	row, buf  int
	committed int
}

func (s *spyEncoder) Encode(row, buf int) {
	c := encodeCall{row: row, buf: buf, committed: -1}
	if s.m != nil {
		c.committed = s.m.State().Committed
	}
	s.calls = append(s.calls, c)
}

func makeTestMachine(p Profile) (*Machine, *mockEngine, *spyEncoder) {
	lb := NewLineBuffers(p.Words())
	cs, err := BuildChains(p, lb)
	if err != nil {
		panic(err)
	}
	eng := &mockEngine{words: uint32(p.Words())}
	enc := &spyEncoder{}
	m := NewMachine(p, eng, enc, cs)
	enc.m = m
	return m, eng, enc
}

// mockHardware records the order of lifecycle calls.
type mockHardware struct {
	mockEngine

	mu      sync.Mutex
	ops     []string
	service func()
	first   [Lanes]*Chain
}

func (h *mockHardware) op(format string, args ...any) {
	h.mu.Lock()
	h.ops = append(h.ops, fmt.Sprintf(format, args...))
	h.mu.Unlock()
}

func (h *mockHardware) Ops() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.ops...)
}

func (h *mockHardware) ConfigureSerializer(p Profile) { h.op("serializer") }
func (h *mockHardware) ConfigureClock(p Profile)      { h.op("clock") }

func (h *mockHardware) ConfigureTransfers(cs *Chains, first [Lanes]*Chain, service func()) {
	h.first = first
	h.service = service
	h.op("transfers")
}

func (h *mockHardware) StartTransfers() { h.op("start") }

func (h *mockHardware) Critical(f func()) {
	h.op("critical")
	f()
}

func (h *mockHardware) EnableOutput()  { h.op("enable") }
func (h *mockHardware) DisableOutput() { h.op("disable") }

func (h *mockHardware) Abort(ch Channel) {
	kind := "data"
	if ch.Kind == ControlChannel {
		kind = "control"
	}
	h.op("abort %s%d", kind, ch.Lane)
}

func (h *mockHardware) DisableInterrupt() { h.op("irq off") }
func (h *mockHardware) ResetSerializer()  { h.op("reset") }
