package dvi

// LineBuffers holds two encoded lines for every lane. While the transfer
// engine drains one buffer of a lane the encoder fills the other.
type LineBuffers struct {
	words int
	mem   []uint32
}

// NewLineBuffers allocates buffers for lines of the given word count.
func NewLineBuffers(words int) *LineBuffers {
	return &LineBuffers{
		words: words,
		mem:   make([]uint32, Lanes*2*words),
	}
}

// Words returns the words per buffer.
func (lb *LineBuffers) Words() int {
	return lb.words
}

// Lane returns buffer buf (0 or 1) of a lane.
func (lb *LineBuffers) Lane(lane Lane, buf int) []uint32 {
	off := (int(lane)*2 + buf) * lb.words
	return lb.mem[off : off+lb.words : off+lb.words]
}

// Fill writes w into every buffer.
func (lb *LineBuffers) Fill(w uint32) {
	for i := range lb.mem {
		lb.mem[i] = w
	}
}

// LineEncoder turns one framebuffer row into lane buffer buf.
type LineEncoder interface {
	Encode(row, buf int)
}

// channel describes where a colour component sits in an RGB565 pixel.
type channel struct {
	lsb, msb int
	pre      int // left shift applied to the input word before lookup
}

var (
	chanRed   = channel{lsb: 11, msb: 15}
	chanGreen = channel{lsb: 5, msb: 10}
	chanBlue  = channel{lsb: 0, msb: 4, pre: 3}
)

const (
	pixelBits  = 16
	indexShift = 2 // lane results are byte offsets into the symbol table
	indexBits  = 6
	indexMSB   = indexShift + indexBits - 1
)

// config returns the interpolator setup that turns the component of the
// first (lane 0) or second (lane 1) pixel of a word into a table offset.
// The component's top bit lands on indexMSB; narrower components leave
// the low index bits clear.
func (c channel) config(lane int) InterpConfig {
	shift := c.msb + 1 + c.pre - indexBits - indexShift
	if lane == 1 {
		shift += pixelBits
	}
	return InterpConfig{
		Shift:      uint8(shift),
		MaskLSB:    uint8(indexMSB - (c.msb - c.lsb)),
		MaskMSB:    indexMSB,
		CrossInput: lane == 1,
	}
}

func (c channel) setup(it Interp) {
	it.Configure(0, c.config(0))
	it.Configure(1, c.config(1))
}

// Encoder converts framebuffer rows into TMDS lane words. Each source
// pixel becomes one word holding its balanced symbol pair, so every pixel
// spans two pixel clocks.
type Encoder struct {
	fb    FrameBuffer
	lb    *LineBuffers
	guard interpGuard
}

// NewEncoder returns an encoder reading fb and writing lb. units are the
// two interpolators of the core that runs the service routine.
func NewEncoder(fb FrameBuffer, lb *LineBuffers, units [2]Interp) *Encoder {
	return &Encoder{
		fb:    fb,
		lb:    lb,
		guard: interpGuard{units: units},
	}
}

// Encode writes row into buffer buf of all three lanes. The interpolators
// are returned to their previous state before Encode returns.
func (e *Encoder) Encode(row, buf int) {
	e.guard.acquire()
	defer e.guard.release()

	src := e.fb.Row(row)
	u0, u1 := e.guard.units[0], e.guard.units[1]

	chanRed.setup(u0)
	chanGreen.setup(u1)
	encodePair(src, e.lb.Lane(LaneRed, buf), e.lb.Lane(LaneGreen, buf), u0, u1)

	chanBlue.setup(u0)
	encodeShifted(src, e.lb.Lane(LaneBlue, buf), u0, chanBlue.pre)
}

func encodePair(src []uint16, dstA, dstB []uint32, a, b Interp) {
	for x := 0; x+1 < len(src); x += 2 {
		v := uint32(src[x]) | uint32(src[x+1])<<16
		o0, o1 := a.Lookup(v)
		dstA[x] = dataSyms[o0>>indexShift]
		dstA[x+1] = dataSyms[o1>>indexShift]
		o0, o1 = b.Lookup(v)
		dstB[x] = dataSyms[o0>>indexShift]
		dstB[x+1] = dataSyms[o1>>indexShift]
	}
}

func encodeShifted(src []uint16, dst []uint32, it Interp, pre int) {
	for x := 0; x+1 < len(src); x += 2 {
		v := uint32(src[x]) | uint32(src[x+1])<<16
		o0, o1 := it.Lookup(v << pre)
		dst[x] = dataSyms[o0>>indexShift]
		dst[x+1] = dataSyms[o1>>indexShift]
	}
}
