package dvi

import (
	"sync/atomic"
	"time"
)

// Diagnostics samples the line service on active lines 100 to 102.
// Values are microseconds. Recording is compiled in with -tags dvitime.
type Diagnostics struct {
	In   atomic.Uint32 // service time on a line that encodes
	Out  atomic.Uint32 // gap until the next service
	In2  atomic.Uint32 // service time on a line that only toggles buffers
	Out2 atomic.Uint32 // gap until the service after that
	// Polls counts spins waiting for a data channel to load its segment.
	Polls atomic.Uint64

	mark uint32
}

// Enabled reports whether the counters are recorded in this build.
func (d *Diagnostics) Enabled() bool {
	return diagEnabled
}

func (d *Diagnostics) record(pos int, t1, t2 uint32) {
	switch pos {
	case 100:
		d.In.Store(t2 - t1)
		d.mark = t2
	case 101:
		d.Out.Store(t1 - d.mark)
		d.In2.Store(t2 - t1)
		d.mark = t2
	case 102:
		d.Out2.Store(t1 - d.mark)
	}
}

var epoch = time.Now()

func defaultMicros() uint32 {
	return uint32(time.Since(epoch).Microseconds())
}
