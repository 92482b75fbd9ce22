package probe

// Capability is a seat input capability.
type Capability uint32

// Seat capabilities, matching wl_seat.capability bit values.
const (
	CapabilityPointer  Capability = 1
	CapabilityKeyboard Capability = 2
	CapabilityTouch    Capability = 4
)

// String returns the capability name.
func (c Capability) String() string {
	switch c {
	case CapabilityPointer:
		return "pointer"
	case CapabilityKeyboard:
		return "keyboard"
	case CapabilityTouch:
		return "touch"
	default:
		return "unknown"
	}
}

// Event is one inbound compositor event, already translated from the wire.
// The concrete types below are the only implementations.
type Event interface {
	isEvent()
}

// Configure is the layer surface's layout confirmation.
type Configure struct {
	Width  int32
	Height int32
}

// CapabilityAdded reports that the seat gained an input capability.
type CapabilityAdded struct {
	Capability Capability
}

// CapabilityRemoved reports that the seat lost an input capability.
type CapabilityRemoved struct {
	Capability Capability
}

// PointerEvent is a single pointer position report in surface coordinates.
type PointerEvent struct {
	X float64
	Y float64
}

// PointerFrame is a batch of coalesced pointer events ending at a frame
// boundary.
type PointerFrame struct {
	Events []PointerEvent
}

// Closed reports that the compositor closed the layer surface.
type Closed struct{}

// DisplayError is a fatal wl_display.error sent by the compositor. ObjectID is
// zero when the offending object is unknown to the client.
type DisplayError struct {
	ObjectID uint32
	Code     uint32
	Message  string
}

func (Configure) isEvent()         {}
func (CapabilityAdded) isEvent()   {}
func (CapabilityRemoved) isEvent() {}
func (PointerFrame) isEvent()      {}
func (Closed) isEvent()            {}
func (DisplayError) isEvent()      {}
