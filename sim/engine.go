// Package sim models the video output hardware in software: chained
// transfer channels, serializers and a pixel clock feeding a TMDS sink.
package sim

import (
	"io"
	"log/slog"
	"sync"

	"github.com/user-none/emdvi/dvi"
)

// Compile-time interface check.
var _ dvi.Hardware = (*Engine)(nil)

// Output receives one word per lane for every two pixel clocks.
type Output interface {
	Push(w [dvi.Lanes]uint32)
}

// EngineStats counts events seen by the engine.
type EngineStats struct {
	Words     uint64 // word clocks emitted
	IRQs      uint64 // line interrupts delivered
	Underruns uint64 // chain ends reached without a re-arm
}

// laneChannels is the control/data channel pair of one lane.
type laneChannels struct {
	chain  *dvi.Chain // chain the data channel is running
	seg    int
	pos    int
	loaded uint32

	// next is the chain the control channel reads once chain completes.
	next *dvi.Chain

	dataOn, ctrlOn bool
}

func (l *laneChannels) load(c *dvi.Chain) {
	l.chain = c
	l.seg = 0
	l.pos = 0
	l.loaded = uint32(c.Segments[0].Count)
}

func (l *laneChannels) word() uint32 {
	s := &l.chain.Segments[l.seg]
	if s.Ring != 0 {
		return s.Source[l.pos%(1<<(s.Ring-2))]
	}
	return s.Source[l.pos]
}

// Engine implements dvi.Hardware. Time advances only through Run, which
// holds the engine lock and calls the line service synchronously, so the
// TransferEngine methods used by the service do not lock.
type Engine struct {
	mu  sync.Mutex
	out Output
	log *slog.Logger

	lanes   [dvi.Lanes]laneChannels
	service func()

	irqEnabled bool
	irqPending bool
	started    bool
	clockOn    bool
	serialOn   bool
	serialCfg  bool
	clockCfg   bool

	aborts []dvi.Channel
	stats  EngineStats
}

// NewEngine returns an idle engine writing to out.
func NewEngine(out Output, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Engine{out: out, log: log}
}

// Run advances the pixel clock by n word periods and returns how many
// were emitted. Nothing is emitted while output is disabled.
func (e *Engine) Run(n int) int {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.runnable() {
		return 0
	}
	for i := 0; i < n; i++ {
		e.tick()
		if !e.runnable() {
			return i + 1
		}
	}
	return n
}

func (e *Engine) runnable() bool {
	return e.started && e.clockOn && e.serialOn && e.serialCfg && e.clockCfg
}

func (e *Engine) tick() {
	var w [dvi.Lanes]uint32
	for i := range e.lanes {
		w[i] = e.lanes[i].word()
	}
	e.out.Push(w)
	e.stats.Words++

	for i := range e.lanes {
		l := &e.lanes[i]
		l.pos++
		seg := l.chain.Segments[l.seg]
		if l.pos < seg.Count {
			continue
		}
		// The line interrupt is routed from the sync lane only.
		if seg.IRQ && i == int(dvi.LaneBlue) {
			e.irqPending = true
		}
		if l.seg+1 < len(l.chain.Segments) {
			l.seg++
			l.pos = 0
			l.loaded = uint32(l.chain.Segments[l.seg].Count)
			continue
		}
		next := l.next
		if next == nil {
			e.stats.Underruns++
			next = l.chain
		}
		l.next = nil
		l.load(next)
	}

	if e.irqPending && e.irqEnabled && e.service != nil {
		e.stats.IRQs++
		e.service()
	}
}

// Stats returns a copy of the engine counters.
func (e *Engine) Stats() EngineStats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stats
}

// Aborts returns the channels aborted so far, in order.
func (e *Engine) Aborts() []dvi.Channel {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]dvi.Channel(nil), e.aborts...)
}

// Running reports whether the engine is producing output.
func (e *Engine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.runnable()
}

// SegmentCount is called from the line service with the lock held.
func (e *Engine) SegmentCount(lane dvi.Lane) uint32 {
	return e.lanes[lane].loaded
}

// Rearm is called from the line service with the lock held.
func (e *Engine) Rearm(lane dvi.Lane, c *dvi.Chain) {
	e.lanes[lane].next = c
}

// Acknowledge is called from the line service with the lock held.
func (e *Engine) Acknowledge() {
	e.irqPending = false
}

func (e *Engine) ConfigureSerializer(p dvi.Profile) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.serialCfg = true
	e.log.Debug("sim: serializers configured", "lanes", dvi.Lanes, "bits", 20)
}

func (e *Engine) ConfigureClock(p dvi.Profile) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.clockCfg = true
	e.log.Debug("sim: pixel clock configured", "hz", p.PixelClockHz)
}

func (e *Engine) ConfigureTransfers(cs *dvi.Chains, first [dvi.Lanes]*dvi.Chain, service func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.lanes {
		e.lanes[i] = laneChannels{next: first[i]}
	}
	e.service = service
	e.irqEnabled = true
	e.irqPending = false
	e.aborts = e.aborts[:0]
	e.log.Debug("sim: transfers configured", "chains", len(cs.All))
}

func (e *Engine) StartTransfers() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.lanes {
		l := &e.lanes[i]
		l.load(l.next)
		l.next = nil
		l.dataOn = true
		l.ctrlOn = true
	}
	e.started = true
}

// Critical runs f. Each engine call already excludes Run.
func (e *Engine) Critical(f func()) {
	f()
}

func (e *Engine) EnableOutput() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.clockOn = true
	e.serialOn = true
}

func (e *Engine) DisableOutput() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.clockOn = false
	e.serialOn = false
}

func (e *Engine) Abort(ch dvi.Channel) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.aborts = append(e.aborts, ch)
	l := &e.lanes[ch.Lane]
	if ch.Kind == dvi.DataChannel {
		l.dataOn = false
	} else {
		l.ctrlOn = false
	}
	for i := range e.lanes {
		if e.lanes[i].dataOn || e.lanes[i].ctrlOn {
			return
		}
	}
	e.started = false
}

func (e *Engine) DisableInterrupt() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.irqEnabled = false
	e.irqPending = false
}

func (e *Engine) ResetSerializer() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.serialCfg = false
	e.log.Debug("sim: serializers reset", "words", e.stats.Words)
}
