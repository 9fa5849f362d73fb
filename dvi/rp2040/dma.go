//go:build tinygo && rp2040

package rp2040

import (
	"device/rp"
	"runtime/interrupt"
	"runtime/volatile"
	"unsafe"

	"github.com/user-none/emdvi/dvi"
)

const dmaChannels = 12

// Single DMA channel. See rp.DMA_Type.
type dmaChannelHW struct {
	READ_ADDR   volatile.Register32
	WRITE_ADDR  volatile.Register32
	TRANS_COUNT volatile.Register32
	CTRL_TRIG   volatile.Register32
	AL1_CTRL    volatile.Register32
	_           [11]volatile.Register32 // other aliases
}

// Per channel debug registers at DMA+0x800.
type dmaDebugHW struct {
	CTDREQ volatile.Register32
	// TCR reads the count the channel reloads on its next trigger.
	TCR volatile.Register32
	_   [14]volatile.Register32
}

var (
	dmaHW    = (*[dmaChannels]dmaChannelHW)(unsafe.Pointer(rp.DMA))
	dmaDebug = (*[dmaChannels]dmaDebugHW)(unsafe.Add(unsafe.Pointer(rp.DMA), 0x800))
)

const (
	dmaSize32     = 2
	dmaTREQForce  = 0x3f
	dmaRingSize16 = 4
)

// dmaCtrl builds a CTRL_TRIG value.
type dmaCtrl uint32

func newDMACtrl(chainTo uint8, treq uint32) dmaCtrl {
	c := dmaCtrl(rp.DMA_CH0_CTRL_TRIG_EN |
		rp.DMA_CH0_CTRL_TRIG_INCR_READ |
		dmaSize32<<rp.DMA_CH0_CTRL_TRIG_DATA_SIZE_Pos)
	c |= dmaCtrl(uint32(chainTo) << rp.DMA_CH0_CTRL_TRIG_CHAIN_TO_Pos)
	c |= dmaCtrl(treq << rp.DMA_CH0_CTRL_TRIG_TREQ_SEL_Pos)
	return c
}

func (c dmaCtrl) ring(write bool, sizeBits uint32) dmaCtrl {
	c |= dmaCtrl(sizeBits << rp.DMA_CH0_CTRL_TRIG_RING_SIZE_Pos)
	if write {
		c |= rp.DMA_CH0_CTRL_TRIG_RING_SEL | rp.DMA_CH0_CTRL_TRIG_INCR_WRITE
	}
	return c
}

func (c dmaCtrl) quiet(q bool) dmaCtrl {
	if q {
		c |= rp.DMA_CH0_CTRL_TRIG_IRQ_QUIET
	}
	return c
}

// dmaLanes is the control/data channel pair of every lane. A control block
// is the four alias 0 registers of the data channel; the control channel
// copies one block per segment and the data channel chains back to it.
type dmaLanes struct {
	base uint8

	// blocks holds the lowered chains by Chain.ID; addr is the address of
	// each chain's first block.
	blocks [][]uint32
	addr   []uint32
	chains *dvi.Chains
}

func newDMALanes(base uint8) dmaLanes {
	return dmaLanes{base: base}
}

func (d *dmaLanes) ctrlIndex(lane dvi.Lane) uint8 { return d.base + uint8(lane)*2 }
func (d *dmaLanes) dataIndex(lane dvi.Lane) uint8 { return d.base + uint8(lane)*2 + 1 }

func (d *dmaLanes) ctrl(lane dvi.Lane) *dmaChannelHW { return &dmaHW[d.ctrlIndex(lane)] }
func (d *dmaLanes) data(lane dvi.Lane) *dmaChannelHW { return &dmaHW[d.dataIndex(lane)] }

func ptr32(p unsafe.Pointer) uint32 {
	return uint32(uintptr(p))
}

// lower converts every chain into control blocks.
func (h *Hardware) lower(cs *dvi.Chains) {
	d := &h.dma
	d.chains = cs
	d.blocks = make([][]uint32, len(cs.All))
	d.addr = make([]uint32, len(cs.All))

	for _, c := range cs.All {
		sm := h.sm[c.Lane]
		txf := ptr32(unsafe.Pointer(sm.TxReg()))
		dreq := uint32(sm.PIO().BlockIndex())*8 + uint32(sm.StateMachineIndex())

		b := make([]uint32, 0, 4*len(c.Segments))
		for _, s := range c.Segments {
			ctrl := newDMACtrl(d.ctrlIndex(c.Lane), dreq).
				ring(false, uint32(s.Ring)).
				quiet(!s.IRQ)
			b = append(b, ptr32(unsafe.Pointer(&s.Source[0])), txf, uint32(s.Count), uint32(ctrl))
		}
		d.blocks[c.ID] = b
		d.addr[c.ID] = ptr32(unsafe.Pointer(&b[0]))
	}
}

// ConfigureTransfers lowers the chains, points each control channel at the
// first chain of its lane and routes the line interrupt to service.
func (h *Hardware) ConfigureTransfers(cs *dvi.Chains, first [dvi.Lanes]*dvi.Chain, service func()) {
	if h.dma.chains != cs {
		h.lower(cs)
	}
	d := &h.dma

	for lane := dvi.Lane(0); lane < dvi.Lanes; lane++ {
		ctrl := newDMACtrl(d.ctrlIndex(lane), dmaTREQForce).ring(true, dmaRingSize16)
		ch := d.ctrl(lane)
		ch.READ_ADDR.Set(d.addr[first[lane].ID])
		ch.WRITE_ADDR.Set(ptr32(unsafe.Pointer(&d.data(lane).READ_ADDR)))
		ch.TRANS_COUNT.Set(4)
		ch.AL1_CTRL.Set(uint32(ctrl))
	}

	lineService = service
	sync := uint32(1) << d.dataIndex(dvi.LaneBlue)
	rp.DMA.INTS1.Set(sync)
	rp.DMA.INTE1.SetBits(sync)
	h.irq = interrupt.New(rp.IRQ_DMA_IRQ_1, dmaLine)
	h.irq.SetPriority(0)
	h.irq.Enable()
}

// StartTransfers triggers all control channels together.
func (h *Hardware) StartTransfers() {
	var mask uint32
	for lane := dvi.Lane(0); lane < dvi.Lanes; lane++ {
		mask |= 1 << h.dma.ctrlIndex(lane)
	}
	rp.DMA.MULTI_CHAN_TRIGGER.Set(mask)
}

// SegmentCount reads the reload count of the lane's data channel.
//
//go:nosplit
func (h *Hardware) SegmentCount(lane dvi.Lane) uint32 {
	return dmaDebug[h.dma.dataIndex(lane)].TCR.Get()
}

// Rearm sets the control channel read pointer without triggering it.
//
//go:nosplit
func (h *Hardware) Rearm(lane dvi.Lane, c *dvi.Chain) {
	h.dma.ctrl(lane).READ_ADDR.Set(h.dma.addr[c.ID])
}

//go:nosplit
func (h *Hardware) Acknowledge() {
	rp.DMA.INTS1.Set(1 << h.dma.dataIndex(dvi.LaneBlue))
}

// Abort stops a channel and waits for in-flight transfers to drain.
func (h *Hardware) Abort(ch dvi.Channel) {
	idx := h.dma.dataIndex(ch.Lane)
	if ch.Kind == dvi.ControlChannel {
		idx = h.dma.ctrlIndex(ch.Lane)
	}
	mask := uint32(1) << idx
	rp.DMA.CHAN_ABORT.Set(mask)
	for rp.DMA.CHAN_ABORT.Get()&mask != 0 {
	}
}

// DisableInterrupt masks the line interrupt and clears it.
func (h *Hardware) DisableInterrupt() {
	sync := uint32(1) << h.dma.dataIndex(dvi.LaneBlue)
	rp.DMA.INTE1.ClearBits(sync)
	rp.DMA.INTS1.Set(sync)
	h.irq.Disable()
	lineService = nil
}

// lineService is the handler installed by ConfigureTransfers.
var lineService func()

//go:nosplit
func dmaLine(interrupt.Interrupt) {
	if s := lineService; s != nil {
		s()
	}
}
