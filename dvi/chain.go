package dvi

import "fmt"

// Category tells which kind of line a chain transmits.
type Category int

const (
	CategoryVSync Category = iota
	CategoryBlank
	CategoryActive
)

func (c Category) String() string {
	switch c {
	case CategoryVSync:
		return "vsync"
	case CategoryBlank:
		return "blank"
	case CategoryActive:
		return "active"
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

// patternRing wraps reads of a one-word source (log2 of 4 bytes).
const patternRing = 2

// Segment is one transfer descriptor: Count words copied from Source to a
// lane serializer.
type Segment struct {
	Source []uint32
	Count  int
	// Ring is log2 of the read wrap size in bytes; 0 reads Source linearly.
	Ring uint8
	// IRQ raises the line interrupt when the segment completes.
	IRQ bool
}

// Chain is the sequence of segments that makes up one line of one lane.
type Chain struct {
	ID       int // index in Chains.All
	Lane     Lane
	Category Category
	Buffer   int // line buffer for active chains, -1 otherwise
	Segments []Segment
}

// Words returns the total words the chain transmits.
func (c *Chain) Words() int {
	n := 0
	for _, s := range c.Segments {
		n += s.Count
	}
	return n
}

// Validate checks every segment against its source.
func (c *Chain) Validate() error {
	if len(c.Segments) == 0 {
		return fmt.Errorf("%w: %s chain for lane %d is empty", ErrChain, c.Category, c.Lane)
	}
	for i, s := range c.Segments {
		if s.Count <= 0 {
			return fmt.Errorf("%w: %s lane %d segment %d has count %d", ErrChain, c.Category, c.Lane, i, s.Count)
		}
		if s.Ring != 0 {
			if len(s.Source) != 1<<(s.Ring-2) {
				return fmt.Errorf("%w: %s lane %d segment %d ring of %d bytes over %d words",
					ErrChain, c.Category, c.Lane, i, 1<<s.Ring, len(s.Source))
			}
			continue
		}
		if len(s.Source) < s.Count {
			return fmt.Errorf("%w: %s lane %d segment %d reads %d words from %d",
				ErrChain, c.Category, c.Lane, i, s.Count, len(s.Source))
		}
	}
	return nil
}

// Chains holds every chain the engine will ever run. It is built once and
// never modified, so the transfer engine may keep pointers into it.
type Chains struct {
	VSync  [Lanes]*Chain
	Blank  [Lanes]*Chain
	Active [2][Lanes]*Chain
	All    []*Chain
}

// BuildChains builds the vertical sync, blank and two active chain sets
// for p. Active chains read from lb.
func BuildChains(p Profile, lb *LineBuffers) (*Chains, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if lb.Words() != p.Words() {
		return nil, fmt.Errorf("%w: line buffers hold %d words, profile needs %d", ErrProfile, lb.Words(), p.Words())
	}

	front := p.HFront / 2
	sync := p.HSync / 2
	back := p.HBack / 2
	active := p.Words()
	porch := front + sync + back

	pattern := func(c ControlSymbol, n int, irq bool) Segment {
		return Segment{Source: ctrlSource(c), Count: n, Ring: patternRing, IRQ: irq}
	}

	cs := &Chains{}
	add := func(c *Chain) *Chain {
		c.ID = len(cs.All)
		cs.All = append(cs.All, c)
		return c
	}
	quiet := func(cat Category, lane Lane, buf int, last Segment) *Chain {
		return add(&Chain{
			Lane:     lane,
			Category: cat,
			Buffer:   buf,
			Segments: []Segment{pattern(CtrlNone, porch, false), last},
		})
	}

	cs.VSync[LaneBlue] = add(&Chain{
		Lane:     LaneBlue,
		Category: CategoryVSync,
		Buffer:   -1,
		Segments: []Segment{
			pattern(CtrlVSync, front, false),
			pattern(CtrlHSyncVSync, sync, false),
			pattern(CtrlVSync, back, true),
			pattern(CtrlVSync, active, false),
		},
	})
	cs.Blank[LaneBlue] = add(&Chain{
		Lane:     LaneBlue,
		Category: CategoryBlank,
		Buffer:   -1,
		Segments: []Segment{
			pattern(CtrlNone, front, false),
			pattern(CtrlHSync, sync, false),
			pattern(CtrlNone, back, true),
			pattern(CtrlBlank, active, false),
		},
	})
	for _, lane := range []Lane{LaneGreen, LaneRed} {
		cs.VSync[lane] = quiet(CategoryVSync, lane, -1, pattern(CtrlNone, active, false))
		cs.Blank[lane] = quiet(CategoryBlank, lane, -1, pattern(CtrlNone, active, false))
	}

	for buf := 0; buf < 2; buf++ {
		cs.Active[buf][LaneBlue] = add(&Chain{
			Lane:     LaneBlue,
			Category: CategoryActive,
			Buffer:   buf,
			Segments: []Segment{
				pattern(CtrlNone, front, false),
				pattern(CtrlHSync, sync, false),
				pattern(CtrlNone, back, true),
				{Source: lb.Lane(LaneBlue, buf), Count: active},
			},
		})
		for _, lane := range []Lane{LaneGreen, LaneRed} {
			cs.Active[buf][lane] = quiet(CategoryActive, lane, buf,
				Segment{Source: lb.Lane(lane, buf), Count: active})
		}
	}

	want := p.LineWords()
	for _, c := range cs.All {
		if err := c.Validate(); err != nil {
			return nil, err
		}
		if n := c.Words(); n != want {
			return nil, fmt.Errorf("%w: %s lane %d chain sends %d words per line, want %d",
				ErrChain, c.Category, c.Lane, n, want)
		}
	}
	return cs, nil
}
