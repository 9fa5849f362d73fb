package dvi

import "math/bits"

// tmdsEncode runs the DVI 8b/10b encoder on d with running disparity *cnt.
// Bit 0 of the result is transmitted first.
func tmdsEncode(d uint8, cnt *int) uint32 {
	n1 := bits.OnesCount8(d)
	xnor := n1 > 4 || (n1 == 4 && d&1 == 0)

	qm := uint32(d & 1)
	prev := qm
	for i := 1; i < 8; i++ {
		b := uint32(d>>i) & 1
		q := prev ^ b
		if xnor {
			q ^= 1
		}
		qm |= q << i
		prev = q
	}
	if !xnor {
		qm |= 1 << 8
	}

	ones := bits.OnesCount32(qm & 0xff)
	diff := ones - (8 - ones)
	q8 := int(qm>>8) & 1

	var out uint32
	switch {
	case *cnt == 0 || diff == 0:
		if q8 == 1 {
			out = qm
			*cnt += diff
		} else {
			out = 1<<9 | qm&0x100 | ^qm&0xff
			*cnt -= diff
		}
	case (*cnt > 0 && diff > 0) || (*cnt < 0 && diff < 0):
		out = 1<<9 | qm&0x100 | ^qm&0xff
		*cnt += 2*q8 - diff
	default:
		out = qm
		*cnt += diff - 2*(1-q8)
	}
	return out & 0x3ff
}

// tmdsDecode inverts tmdsEncode for data symbols.
func tmdsDecode(sym uint32) uint8 {
	q := sym & 0xff
	if sym&(1<<9) != 0 {
		q = ^q & 0xff
	}
	d := q & 1
	for i := 1; i < 8; i++ {
		b := (q>>i ^ q>>(i-1)) & 1
		if sym&(1<<8) == 0 {
			b ^= 1
		}
		d |= b << i
	}
	return uint8(d)
}
