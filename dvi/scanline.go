package dvi

// ScanState is the position of the output in the frame.
type ScanState struct {
	Line  int // 0 <= Line < VTotal, counted from the start of vertical sync
	Frame uint32
	// Buffer is the line buffer the encoder fills next.
	Buffer int
	// Committed is the line buffer of the last chain handed to the
	// transfer engine, or -1 when that chain sends no buffer.
	Committed int
}

// Machine runs once per line from the line interrupt. It re-arms the
// transfer engine with the chains for the following line and prepares
// line buffers ahead of transmission.
type Machine struct {
	p      Profile
	eng    TransferEngine
	enc    LineEncoder
	chains *Chains

	words uint32
	total int

	state ScanState
	next  [Lanes]*Chain

	diag   *Diagnostics
	micros func() uint32
}

// NewMachine returns a machine in its reset state.
func NewMachine(p Profile, eng TransferEngine, enc LineEncoder, cs *Chains) *Machine {
	m := &Machine{
		p:      p,
		eng:    eng,
		enc:    enc,
		chains: cs,
		words:  uint32(p.Words()),
		total:  p.VTotal(),
		diag:   &Diagnostics{},
		micros: defaultMicros,
	}
	m.Reset()
	return m
}

// Reset returns to line 0 of frame 0 with vertical sync chains queued.
func (m *Machine) Reset() {
	m.state = ScanState{Committed: -1}
	m.next = m.chains.VSync
}

// Next returns the chains queued for the next line.
func (m *Machine) Next() [Lanes]*Chain {
	return m.next
}

// State returns a copy of the scan state.
func (m *Machine) State() ScanState {
	return m.state
}

// Diagnostics returns the timing counters of the service routine.
func (m *Machine) Diagnostics() *Diagnostics {
	return m.diag
}

// Service handles one line interrupt. The chains chosen here are started by
// the engine when the line after the current one begins.
func (m *Machine) Service() {
	var t1 uint32
	if diagEnabled {
		t1 = m.micros()
	}

	m.eng.Acknowledge()

	// The control channel has loaded the active segment once the data
	// channel reports its count; only then is it safe to move its read
	// pointer.
	for lane := Lane(0); lane < Lanes; lane++ {
		for m.eng.SegmentCount(lane) != m.words {
			if diagEnabled {
				m.diag.Polls.Add(1)
			}
		}
		m.eng.Rearm(lane, m.next[lane])
	}

	s := &m.state
	s.Line++
	if s.Line >= m.total {
		s.Line = 0
		s.Frame++
	}

	band, pos := Classify(m.p, s.Line)
	switch band {
	case BandVSync:
		m.next = m.chains.VSync
		s.Committed = -1
	case BandBlank:
		m.next = m.chains.Blank
		s.Committed = -1
	default:
		buf := s.Buffer
		if pos&1 == 0 {
			m.enc.Encode(pos/2, buf)
		} else {
			s.Buffer = buf ^ 1
		}
		m.next = m.chains.Active[buf]
		s.Committed = buf
	}

	if diagEnabled && band == BandActive {
		m.diag.record(pos, t1, m.micros())
	}
}
