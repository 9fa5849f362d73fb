package dvi

import (
	"fmt"
	"log/slog"
	"runtime"
	"sync/atomic"
)

// Requests polled by the output context.
const (
	reqNone int32 = iota
	reqInit
	reqTerm
	reqExit
)

// Options tunes a Controller. The zero value is usable.
type Options struct {
	Logger *slog.Logger
	// Idle is called while the output context has nothing to do.
	// Defaults to runtime.Gosched; firmware should pass a sleep so the
	// main program keeps the core.
	Idle func()
	// Micros is the clock used for diagnostics.
	Micros func() uint32
}

// Controller owns the video output: it prepares the engine, starts and
// stops it, and runs the output context that services start and stop
// requests.
type Controller struct {
	p      Profile
	hw     Hardware
	lb     *LineBuffers
	chains *Chains
	m      *Machine
	log    *slog.Logger
	idle   func()

	req  atomic.Int32
	done chan struct{}
}

// NewController prepares output of fb with profile p. The transfer chains
// are built here, once, and never change afterwards.
func NewController(p Profile, fb FrameBuffer, hw Hardware, units [2]Interp, opts Options) (*Controller, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := fb.Validate(p); err != nil {
		return nil, err
	}

	lb := NewLineBuffers(p.Words())
	cs, err := BuildChains(p, lb)
	if err != nil {
		return nil, fmt.Errorf("building chains for %s: %w", p.Name, err)
	}

	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	idle := opts.Idle
	if idle == nil {
		idle = runtime.Gosched
	}

	m := NewMachine(p, hw, NewEncoder(fb, lb, units), cs)
	if opts.Micros != nil {
		m.micros = opts.Micros
	}

	return &Controller{
		p:      p,
		hw:     hw,
		lb:     lb,
		chains: cs,
		m:      m,
		log:    log,
		idle:   idle,
	}, nil
}

// Machine returns the line state machine.
func (c *Controller) Machine() *Machine {
	return c.m
}

// Chains returns the transfer chains.
func (c *Controller) Chains() *Chains {
	return c.chains
}

// LineBuffers returns the encoded line storage.
func (c *Controller) LineBuffers() *LineBuffers {
	return c.lb
}

// Initialize arms the hardware and starts output. It must run on the
// context that will take the line interrupt.
func (c *Controller) Initialize() {
	c.lb.Fill(DataSymbol(grayIndex))
	c.m.Reset()

	c.hw.ConfigureSerializer(c.p)
	c.hw.ConfigureClock(c.p)
	c.hw.ConfigureTransfers(c.chains, c.m.Next(), c.m.Service)
	c.hw.StartTransfers()

	// Clock and serializers must start on the same cycle.
	c.hw.Critical(c.hw.EnableOutput)

	c.log.Info("dvi: output started", "mode", c.p.Name, "words", c.p.Words(), "lines", c.p.VTotal())
}

// Terminate stops output and releases the hardware.
func (c *Controller) Terminate() {
	c.hw.DisableOutput()

	// A control channel may reload its data channel while being aborted,
	// so each data channel is aborted again after its control channel.
	for lane := Lane(0); lane < Lanes; lane++ {
		c.hw.Abort(Channel{Lane: lane, Kind: DataChannel})
		c.hw.Abort(Channel{Lane: lane, Kind: ControlChannel})
		c.hw.Abort(Channel{Lane: lane, Kind: DataChannel})
	}

	c.hw.DisableInterrupt()
	c.hw.ResetSerializer()

	st := c.m.State()
	c.log.Info("dvi: output stopped", "frame", st.Frame, "line", st.Line)
}

// Start launches the output context and waits until it has initialized
// the engine.
func (c *Controller) Start() {
	c.done = make(chan struct{})
	c.req.Store(reqInit)
	go c.run()
	c.wait()
}

// Stop terminates output and ends the output context. The request flag is
// clear again when Stop returns, so Start can follow at once.
func (c *Controller) Stop() {
	c.request(reqTerm)
	c.req.Store(reqExit)
	<-c.done
	c.req.Store(reqNone)
}

func (c *Controller) request(r int32) {
	c.req.Store(r)
	c.wait()
}

func (c *Controller) wait() {
	for c.req.Load() != reqNone {
		runtime.Gosched()
	}
}

// run is the output context. The line interrupt is routed by Initialize
// on whatever core or thread runs it; LockOSThread keeps that fixed on
// hosted builds and does nothing on TinyGo, where the goroutine may share
// a core with the main program.
func (c *Controller) run() {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	defer close(c.done)

	for {
		switch c.req.Load() {
		case reqInit:
			c.Initialize()
		case reqTerm:
			c.Terminate()
		case reqExit:
			return
		default:
			c.idle()
			continue
		}
		c.req.Store(reqNone)
	}
}
