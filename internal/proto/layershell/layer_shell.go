package layershell

import (
	"github.com/rajveermalviya/go-wayland/wayland/client"
)

// ShellInterfaceName is the registry name of the layer shell global.
const ShellInterfaceName = "zwlr_layer_shell_v1"

// Layer is the stacking layer of a layer surface.
type Layer uint32

// LayerOverlay stacks above fullscreen windows. Lower layers are not needed.
const LayerOverlay Layer = 3

// Anchor is a bitmask of output edges a layer surface is attached to.
type Anchor uint32

const (
	AnchorTop    Anchor = 1
	AnchorBottom Anchor = 2
	AnchorLeft   Anchor = 4
	AnchorRight  Anchor = 8

	AnchorAll = AnchorTop | AnchorBottom | AnchorLeft | AnchorRight
)

// KeyboardInteractivity controls keyboard focus for a layer surface.
type KeyboardInteractivity uint32

// KeyboardInteractivityExclusive grabs keyboard focus while the surface is
// mapped on the top or overlay layer.
const KeyboardInteractivityExclusive KeyboardInteractivity = 1

const (
	shellOpGetLayerSurface = 0
	shellOpDestroy         = 1
)

// Shell is a bound zwlr_layer_shell_v1 global.
type Shell struct {
	client.BaseProxy
}

var _ client.Dispatcher = (*Shell)(nil)

// NewShell creates a layer shell proxy registered with ctx. It must be bound
// through the registry before use.
func NewShell(ctx *client.Context) *Shell {
	s := &Shell{}
	ctx.Register(s)
	return s
}

// GetLayerSurface assigns the layer surface role to surface. A nil output lets
// the compositor pick one, normally the focused output.
func (s *Shell) GetLayerSurface(surface *client.Surface, output *client.Output, layer Layer, namespace string) (*Surface, error) {
	id := NewSurface(s.Context())

	var outputID uint32
	if output != nil {
		outputID = output.ID()
	}

	req := getLayerSurfaceRequest(s.ID(), id.ID(), surface.ID(), outputID, layer, namespace)
	if err := s.Context().WriteMsg(req, nil); err != nil {
		return nil, err
	}
	return id, nil
}

// Destroy destroys the shell object. Requires protocol version 3.
func (s *Shell) Destroy() error {
	defer s.Context().Unregister(s)
	var m message
	return s.Context().WriteMsg(m.encode(s.ID(), shellOpDestroy), nil)
}

// Dispatch implements the go-wayland dispatcher. The shell has no events.
func (s *Shell) Dispatch(opcode uint32, fd int, data []byte) {}

func getLayerSurfaceRequest(sender, id, surface, output uint32, layer Layer, namespace string) []byte {
	var m message
	m.putUint32(id)
	m.putUint32(surface)
	m.putUint32(output)
	m.putUint32(uint32(layer))
	m.putString(namespace)
	return m.encode(sender, shellOpGetLayerSurface)
}
