package ui

import (
	"sync"
	"sync/atomic"

	"github.com/user-none/emdvi/dvi"
)

// SharedInput holds the button bitmask written by the Ebiten thread
// and read by the simulation goroutine.
type SharedInput struct {
	buttons atomic.Uint32
}

// Set stores the current button bitmask.
func (si *SharedInput) Set(buttons uint32) {
	si.buttons.Store(buttons)
}

// Read returns the current button bitmask.
func (si *SharedInput) Read() uint32 {
	return si.buttons.Load()
}

// SharedFramebuffer hands decoded frames from the simulation goroutine to
// Draw with three buffers: the writer fills back, publishes it as ready,
// and the reader takes ready as front. Neither side waits on the other.
type SharedFramebuffer struct {
	mu     sync.Mutex
	back   []byte // owned by the writer
	ready  []byte // last published frame
	front  []byte // owned by the reader
	fresh  bool
	stride int
	height int
	seq    uint64
}

// NewSharedFramebuffer creates a framebuffer for the decoded frames of p.
func NewSharedFramebuffer(p dvi.Profile) *SharedFramebuffer {
	n := p.Width() * p.VActive * 4
	return &SharedFramebuffer{
		back:  make([]byte, n),
		ready: make([]byte, n),
		front: make([]byte, n),
	}
}

// Update publishes one decoded frame. Rows past the buffer are dropped.
func (sf *SharedFramebuffer) Update(pixels []byte, stride, height int) {
	if stride <= 0 {
		return
	}
	n := min(stride*height, len(sf.back), len(pixels))
	copy(sf.back[:n], pixels[:n])

	sf.mu.Lock()
	sf.back, sf.ready = sf.ready, sf.back
	sf.fresh = true
	sf.stride = stride
	sf.height = n / stride
	sf.seq++
	sf.mu.Unlock()
}

// Read returns the latest frame and its sequence number. The pixels stay
// valid until the next Read. A zero sequence means no frame yet.
func (sf *SharedFramebuffer) Read() (pixels []byte, stride, height int, seq uint64) {
	sf.mu.Lock()
	defer sf.mu.Unlock()
	if sf.fresh {
		sf.ready, sf.front = sf.front, sf.ready
		sf.fresh = false
	}
	return sf.front, sf.stride, sf.height, sf.seq
}

// EmuControl coordinates pause, resume and stop between the Ebiten thread
// and the simulation goroutine.
type EmuControl struct {
	mu       sync.Mutex
	cond     *sync.Cond
	pauseReq bool
	paused   bool
	stopped  bool
}

// NewEmuControl creates a new control in the running state.
func NewEmuControl() *EmuControl {
	ec := &EmuControl{}
	ec.cond = sync.NewCond(&ec.mu)
	return ec
}

// RequestPause asks the simulation goroutine to pause and blocks until it
// has stopped between frames (or exited).
func (ec *EmuControl) RequestPause() {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	if ec.stopped {
		return
	}
	ec.pauseReq = true
	for !ec.paused && !ec.stopped {
		ec.cond.Wait()
	}
}

// RequestResume lets a paused simulation goroutine continue.
func (ec *EmuControl) RequestResume() {
	ec.mu.Lock()
	ec.pauseReq = false
	ec.mu.Unlock()
	ec.cond.Broadcast()
}

// CheckPause is called by the simulation goroutine between frames. It
// blocks while a pause is requested. Returns false once stopped.
func (ec *EmuControl) CheckPause() bool {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	for ec.pauseReq && !ec.stopped {
		if !ec.paused {
			ec.paused = true
			ec.cond.Broadcast()
		}
		ec.cond.Wait()
	}
	ec.paused = false
	return !ec.stopped
}

// Stop makes CheckPause return false and releases any waiter.
func (ec *EmuControl) Stop() {
	ec.mu.Lock()
	ec.stopped = true
	ec.pauseReq = false
	ec.mu.Unlock()
	ec.cond.Broadcast()
}

// IsPaused reports whether the simulation goroutine is parked in CheckPause.
func (ec *EmuControl) IsPaused() bool {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	return ec.paused
}
