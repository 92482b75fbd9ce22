package layershell

import (
	"github.com/rajveermalviya/go-wayland/wayland/client"
)

const (
	surfaceOpSetSize                  = 0
	surfaceOpSetAnchor                = 1
	surfaceOpSetExclusiveZone         = 2
	surfaceOpSetKeyboardInteractivity = 4
	surfaceOpAckConfigure             = 6
	surfaceOpDestroy                  = 7
)

const (
	surfaceEvConfigure = 0
	surfaceEvClosed    = 1
)

// ConfigureEvent asks the client to resize the surface.
type ConfigureEvent struct {
	Serial uint32
	Width  uint32
	Height uint32
}

// ClosedEvent tells the client the surface will no longer be shown.
type ClosedEvent struct{}

// Surface is a zwlr_layer_surface_v1 object.
type Surface struct {
	client.BaseProxy

	configureHandler func(ConfigureEvent)
	closedHandler    func(ClosedEvent)
}

var _ client.Dispatcher = (*Surface)(nil)

// NewSurface creates a layer surface proxy registered with ctx.
func NewSurface(ctx *client.Context) *Surface {
	s := &Surface{}
	ctx.Register(s)
	return s
}

// SetConfigureHandler sets the handler for configure events.
func (s *Surface) SetConfigureHandler(f func(ConfigureEvent)) {
	s.configureHandler = f
}

// SetClosedHandler sets the handler for closed events.
func (s *Surface) SetClosedHandler(f func(ClosedEvent)) {
	s.closedHandler = f
}

func (s *Surface) send(opcode uint16, m *message) error {
	return s.Context().WriteMsg(m.encode(s.ID(), opcode), nil)
}

// SetSize requests a size; zero on an axis means the compositor decides,
// which requires anchoring both opposite edges on that axis.
func (s *Surface) SetSize(width, height uint32) error {
	var m message
	m.putUint32(width)
	m.putUint32(height)
	return s.send(surfaceOpSetSize, &m)
}

// SetAnchor attaches the surface to the given output edges.
func (s *Surface) SetAnchor(anchor Anchor) error {
	var m message
	m.putUint32(uint32(anchor))
	return s.send(surfaceOpSetAnchor, &m)
}

// SetExclusiveZone reserves screen space along the anchored edge.
func (s *Surface) SetExclusiveZone(zone int32) error {
	var m message
	m.putInt32(zone)
	return s.send(surfaceOpSetExclusiveZone, &m)
}

// SetKeyboardInteractivity sets how the surface receives keyboard focus.
func (s *Surface) SetKeyboardInteractivity(mode KeyboardInteractivity) error {
	var m message
	m.putUint32(uint32(mode))
	return s.send(surfaceOpSetKeyboardInteractivity, &m)
}

// AckConfigure acknowledges a configure event. It must be sent before the
// next commit that applies the configured size.
func (s *Surface) AckConfigure(serial uint32) error {
	var m message
	m.putUint32(serial)
	return s.send(surfaceOpAckConfigure, &m)
}

// Destroy destroys the layer surface. The underlying wl_surface is not
// destroyed.
func (s *Surface) Destroy() error {
	defer s.Context().Unregister(s)
	var m message
	return s.send(surfaceOpDestroy, &m)
}

// Dispatch implements the go-wayland dispatcher.
func (s *Surface) Dispatch(opcode uint32, fd int, data []byte) {
	switch opcode {
	case surfaceEvConfigure:
		if s.configureHandler == nil {
			return
		}
		e, ok := decodeConfigure(data)
		if !ok {
			return
		}
		s.configureHandler(e)
	case surfaceEvClosed:
		if s.closedHandler == nil {
			return
		}
		s.closedHandler(ClosedEvent{})
	}
}

func decodeConfigure(data []byte) (ConfigureEvent, bool) {
	var e ConfigureEvent
	var ok bool
	if e.Serial, ok = readUint32(data, 0); !ok {
		return e, false
	}
	if e.Width, ok = readUint32(data, 4); !ok {
		return e, false
	}
	if e.Height, ok = readUint32(data, 8); !ok {
		return e, false
	}
	return e, true
}
