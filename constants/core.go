package constants

// DefaultTickRate is the simulation step rate in Hz, one step per display frame
const DefaultTickRate = 60

// MaxTickRate bounds the configurable step rate; the driver sleeps at least 1ms per tick
const MaxTickRate = 1000

// Event Queue Limits
const (
	// EventQueueSize is the fixed capacity of the event ring buffer
	EventQueueSize = 256

	// EventBufferMask is the bitmask for fast modulo operations (256 - 1)
	EventBufferMask = 255
)

// RenderQueueSize is the snapshot hand-off buffer between driver and UI goroutine
const RenderQueueSize = 1

// InputQueueSize buffers terminal events between the poller and the UI loop
const InputQueueSize = 256
