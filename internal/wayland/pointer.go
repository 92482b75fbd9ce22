package wayland

import "github.com/jmylchreest/wltrans/internal/probe"

// seatFrameVersion is the first wl_seat version with wl_pointer.frame.
const seatFrameVersion = 5

// pointerBatcher groups pointer positions up to a frame boundary. Without
// frame support every position is its own batch.
type pointerBatcher struct {
	frames  bool
	pending []probe.PointerEvent
}

func (p *pointerBatcher) add(x, y float64) (probe.PointerFrame, bool) {
	p.pending = append(p.pending, probe.PointerEvent{X: x, Y: y})
	if p.frames {
		return probe.PointerFrame{}, false
	}
	return p.flush()
}

func (p *pointerBatcher) flush() (probe.PointerFrame, bool) {
	if len(p.pending) == 0 {
		return probe.PointerFrame{}, false
	}
	frame := probe.PointerFrame{Events: p.pending}
	p.pending = nil
	return frame, true
}

func (p *pointerBatcher) reset() {
	p.pending = nil
}

// capabilityChanges diffs two wl_seat capability masks.
func capabilityChanges(prev, next uint32) []probe.Event {
	var events []probe.Event
	for _, c := range []probe.Capability{probe.CapabilityPointer, probe.CapabilityKeyboard, probe.CapabilityTouch} {
		had := prev&uint32(c) != 0
		has := next&uint32(c) != 0
		switch {
		case has && !had:
			events = append(events, probe.CapabilityAdded{Capability: c})
		case had && !has:
			events = append(events, probe.CapabilityRemoved{Capability: c})
		}
	}
	return events
}
