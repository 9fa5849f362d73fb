package dvi

// ChannelKind distinguishes the two transfer channels of a lane.
type ChannelKind int

const (
	// DataChannel copies segment words to the lane serializer.
	DataChannel ChannelKind = iota
	// ControlChannel loads the next segment descriptor into the data channel.
	ControlChannel
)

// Channel names one transfer channel.
type Channel struct {
	Lane Lane
	Kind ChannelKind
}

// TransferEngine is the part of the transfer hardware the line service
// touches. It is called from interrupt context and must not block.
type TransferEngine interface {
	// SegmentCount returns the word count of the segment currently loaded
	// into the lane's data channel.
	SegmentCount(lane Lane) uint32
	// Rearm points the lane's control channel at the chain to run after
	// the current one.
	Rearm(lane Lane, c *Chain)
	// Acknowledge clears the line interrupt.
	Acknowledge()
}

// Hardware is everything the lifecycle controller needs from the target.
type Hardware interface {
	TransferEngine

	ConfigureSerializer(p Profile)
	ConfigureClock(p Profile)
	// ConfigureTransfers prepares every chain of cs, arms the control
	// channels with first and routes the line interrupt to service.
	ConfigureTransfers(cs *Chains, first [Lanes]*Chain, service func())
	// StartTransfers starts all channels at once. Nothing is sent until
	// output is enabled.
	StartTransfers()
	// Critical runs f with interrupts masked.
	Critical(f func())
	// EnableOutput starts the pixel clock and all serializers together.
	EnableOutput()
	DisableOutput()
	Abort(ch Channel)
	// DisableInterrupt masks the line interrupt and clears any pending one.
	DisableInterrupt()
	ResetSerializer()
}
