package wayland

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/rajveermalviya/go-wayland/wayland/client"

	"github.com/jmylchreest/wltrans/internal/probe"
	"github.com/jmylchreest/wltrans/internal/proto/layershell"
)

// DefaultNamespace is the layer-shell namespace used when none is configured.
const DefaultNamespace = "wltrans-probe"

// Registry interface names of the core globals.
const (
	compositorInterface = "wl_compositor"
	shmInterface        = "wl_shm"
	seatInterface       = "wl_seat"
)

// Highest protocol versions the backend knows how to use.
const (
	maxCompositorVersion = 4
	maxShmVersion        = 1
	maxSeatVersion       = 5
	maxLayerShellVersion = 4
)

// Versions that introduced requests the backend uses conditionally.
const (
	compositorDamageBufferVersion = 4
	seatPointerReleaseVersion     = 3
	seatReleaseVersion            = 5
	layerShellDestroyVersion      = 3
)

// Options configures the probe overlay.
type Options struct {
	// Namespace is the layer-shell namespace of the overlay.
	Namespace string
	// ExclusiveZone reserves screen space so normal windows stay clear of
	// the overlay while it is mapped. It is sent as given; zero reserves
	// nothing.
	ExclusiveZone int32
	Logger        *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.Namespace == "" {
		o.Namespace = DefaultNamespace
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// Backend is a live probe connection. It implements probe.Backend and is
// used from a single goroutine.
type Backend struct {
	opts   Options
	logger *slog.Logger

	display  *client.Display
	ctx      *client.Context
	registry *client.Registry

	compositor        *client.Compositor
	compositorVersion uint32
	shm               *client.Shm
	seat              *client.Seat
	seatVersion       uint32
	seatCaps          uint32
	layerShell        *layershell.Shell
	layerShellVersion uint32

	surface      *client.Surface
	layerSurface *layershell.Surface
	pointer      *client.Pointer
	batch        pointerBatcher
	lastX, lastY float64
	hasPosition  bool

	shmFile *shmFile
	pool    *client.ShmPool
	buffer  *client.Buffer
	frameCb *client.Callback
	pending []probe.Event
	closed  bool
}

var _ probe.Backend = (*Backend)(nil)

// Open connects to the compositor named by the environment, binds the
// required globals and maps nothing yet: the overlay is created and committed
// without a buffer so the compositor answers with a configure.
func Open(opts Options) (*Backend, error) {
	opts = opts.withDefaults()
	b := &Backend{opts: opts, logger: opts.Logger}

	display, err := client.Connect("")
	if err != nil {
		return nil, &probe.ConnectError{Err: err}
	}
	b.display = display
	b.ctx = display.Context()

	display.SetErrorHandler(func(e client.DisplayErrorEvent) {
		var objectID uint32
		if e.ObjectId != nil {
			objectID = e.ObjectId.ID()
		}
		b.pending = append(b.pending, probe.DisplayError{ObjectID: objectID, Code: e.Code, Message: e.Message})
	})

	if err := b.bindGlobals(); err != nil {
		b.Close()
		return nil, err
	}

	if err := b.createOverlay(); err != nil {
		b.Close()
		return nil, fmt.Errorf("create overlay: %w", err)
	}

	return b, nil
}

func (b *Backend) bindGlobals() error {
	registry, err := b.display.GetRegistry()
	if err != nil {
		return fmt.Errorf("get registry: %w", err)
	}
	b.registry = registry
	registry.SetGlobalHandler(b.handleGlobal)

	if err := b.roundtrip(); err != nil {
		return fmt.Errorf("roundtrip after registry: %w", err)
	}

	switch {
	case b.compositor == nil:
		return &probe.MissingGlobalError{Interface: compositorInterface}
	case b.shm == nil:
		return &probe.MissingGlobalError{Interface: shmInterface}
	case b.seat == nil:
		return &probe.MissingGlobalError{Interface: seatInterface}
	case b.layerShell == nil:
		return &probe.MissingGlobalError{Interface: layershell.ShellInterfaceName}
	}

	// A pending display error means the compositor already gave up on us.
	for _, ev := range b.pending {
		if de, ok := ev.(probe.DisplayError); ok {
			return &probe.ProtocolError{ObjectID: de.ObjectID, Code: de.Code, Message: de.Message}
		}
	}
	return nil
}

func (b *Backend) handleGlobal(e client.RegistryGlobalEvent) {
	switch e.Interface {
	case compositorInterface:
		if b.compositor != nil {
			return
		}
		comp := client.NewCompositor(b.ctx)
		version := min(e.Version, maxCompositorVersion)
		if err := b.registry.Bind(e.Name, e.Interface, version, comp); err != nil {
			b.logger.Warn("failed to bind compositor", "error", err)
			return
		}
		b.compositor = comp
		b.compositorVersion = version

	case shmInterface:
		if b.shm != nil {
			return
		}
		shm := client.NewShm(b.ctx)
		if err := b.registry.Bind(e.Name, e.Interface, min(e.Version, maxShmVersion), shm); err != nil {
			b.logger.Warn("failed to bind shm", "error", err)
			return
		}
		b.shm = shm

	case seatInterface:
		// Only the first seat is used.
		if b.seat != nil {
			return
		}
		seat := client.NewSeat(b.ctx)
		version := min(e.Version, maxSeatVersion)
		seat.SetCapabilitiesHandler(func(ev client.SeatCapabilitiesEvent) {
			caps := uint32(ev.Capabilities)
			b.pending = append(b.pending, capabilityChanges(b.seatCaps, caps)...)
			b.seatCaps = caps
		})
		if err := b.registry.Bind(e.Name, e.Interface, version, seat); err != nil {
			b.logger.Warn("failed to bind seat", "error", err)
			return
		}
		b.seat = seat
		b.seatVersion = version
		b.batch.frames = version >= seatFrameVersion

	case layershell.ShellInterfaceName:
		if b.layerShell != nil {
			return
		}
		ls := layershell.NewShell(b.ctx)
		version := min(e.Version, maxLayerShellVersion)
		if err := b.registry.Bind(e.Name, e.Interface, version, ls); err != nil {
			b.logger.Warn("failed to bind layer shell", "error", err)
			return
		}
		b.layerShell = ls
		b.layerShellVersion = version
	}
}

// roundtrip blocks until the compositor processed every request sent so far.
func (b *Backend) roundtrip() error {
	cb, err := b.display.Sync()
	if err != nil {
		return fmt.Errorf("sync: %w", err)
	}

	done := false
	cb.SetDoneHandler(func(client.CallbackDoneEvent) {
		done = true
	})

	for !done {
		if err := b.ctx.Dispatch(); err != nil {
			return fmt.Errorf("dispatch: %w", err)
		}
	}
	return nil
}

func (b *Backend) createOverlay() error {
	surface, err := b.compositor.CreateSurface()
	if err != nil {
		return fmt.Errorf("create surface: %w", err)
	}
	b.surface = surface

	layerSurf, err := b.layerShell.GetLayerSurface(surface, nil, layershell.LayerOverlay, b.opts.Namespace)
	if err != nil {
		return fmt.Errorf("get layer surface: %w", err)
	}
	b.layerSurface = layerSurf

	layerSurf.SetConfigureHandler(func(e layershell.ConfigureEvent) {
		if err := layerSurf.AckConfigure(e.Serial); err != nil {
			b.logger.Error("ack configure failed", "error", err)
		}
		b.pending = append(b.pending, probe.Configure{Width: int32(e.Width), Height: int32(e.Height)})
	})
	layerSurf.SetClosedHandler(func(layershell.ClosedEvent) {
		b.pending = append(b.pending, probe.Closed{})
	})

	// A zero size on both axes lets the compositor size the surface to the
	// output, which is what the configure reports back.
	if err := layerSurf.SetSize(0, 0); err != nil {
		return fmt.Errorf("set size: %w", err)
	}
	if err := layerSurf.SetAnchor(layershell.AnchorAll); err != nil {
		return fmt.Errorf("set anchor: %w", err)
	}
	if err := layerSurf.SetKeyboardInteractivity(layershell.KeyboardInteractivityExclusive); err != nil {
		return fmt.Errorf("set keyboard interactivity: %w", err)
	}
	if err := layerSurf.SetExclusiveZone(b.opts.ExclusiveZone); err != nil {
		return fmt.Errorf("set exclusive zone: %w", err)
	}

	if err := surface.Commit(); err != nil {
		return fmt.Errorf("surface commit: %w", err)
	}

	b.logger.Debug("overlay surface committed", "namespace", b.opts.Namespace)
	return nil
}

// Receive implements probe.Backend. Events queued by earlier callbacks are
// returned first; otherwise one message is read from the socket.
func (b *Backend) Receive() ([]probe.Event, error) {
	if len(b.pending) == 0 {
		if err := b.ctx.Dispatch(); err != nil {
			return nil, err
		}
	}
	events := b.pending
	b.pending = nil
	return events, nil
}

// Paint implements probe.Surface.
func (b *Backend) Paint(width, height int32) error {
	stride, size, err := bufferLayout(width, height)
	if err != nil {
		return &probe.PaintError{Width: width, Height: height, Err: err}
	}

	file, err := newShmFile(b.opts.Namespace, int(size))
	if err != nil {
		return &probe.PaintError{Width: width, Height: height, Err: err}
	}
	b.shmFile = file

	pool, err := b.shm.CreatePool(file.Fd(), size)
	if err != nil {
		return &probe.PaintError{Width: width, Height: height, Err: fmt.Errorf("create pool: %w", err)}
	}
	b.pool = pool

	buffer, err := pool.CreateBuffer(0, width, height, stride, uint32(client.ShmFormatArgb8888))
	if err != nil {
		return &probe.PaintError{Width: width, Height: height, Err: fmt.Errorf("create buffer: %w", err)}
	}
	b.buffer = buffer

	if b.compositorVersion >= compositorDamageBufferVersion {
		err = b.surface.DamageBuffer(0, 0, width, height)
	} else {
		err = b.surface.Damage(0, 0, width, height)
	}
	if err != nil {
		return &probe.PaintError{Width: width, Height: height, Err: fmt.Errorf("damage: %w", err)}
	}

	frameCb, err := b.surface.Frame()
	if err != nil {
		return &probe.PaintError{Width: width, Height: height, Err: fmt.Errorf("frame: %w", err)}
	}
	b.frameCb = frameCb

	if err := b.surface.Attach(buffer, 0, 0); err != nil {
		return &probe.PaintError{Width: width, Height: height, Err: fmt.Errorf("attach: %w", err)}
	}
	if err := b.surface.Commit(); err != nil {
		return &probe.PaintError{Width: width, Height: height, Err: fmt.Errorf("commit: %w", err)}
	}

	b.logger.Debug("overlay painted", "width", width, "height", height)
	return nil
}

// BindPointer implements probe.Seat.
func (b *Backend) BindPointer() error {
	if b.pointer != nil {
		return nil
	}
	pointer, err := b.seat.GetPointer()
	if err != nil {
		return err
	}

	pointer.SetEnterHandler(func(e client.PointerEnterEvent) {
		b.queuePointer(e.SurfaceX, e.SurfaceY)
	})
	pointer.SetMotionHandler(func(e client.PointerMotionEvent) {
		b.queuePointer(e.SurfaceX, e.SurfaceY)
	})
	// Events without coordinates still count as pointer activity and report
	// the last known position.
	pointer.SetButtonHandler(func(client.PointerButtonEvent) {
		b.queueLastPosition()
	})
	pointer.SetAxisHandler(func(client.PointerAxisEvent) {
		b.queueLastPosition()
	})
	pointer.SetLeaveHandler(func(client.PointerLeaveEvent) {
		b.queueLastPosition()
	})
	pointer.SetFrameHandler(func(client.PointerFrameEvent) {
		if frame, ok := b.batch.flush(); ok {
			b.pending = append(b.pending, frame)
		}
	})

	b.pointer = pointer
	return nil
}

func (b *Backend) queuePointer(x, y float64) {
	b.lastX, b.lastY, b.hasPosition = x, y, true
	if frame, ok := b.batch.add(x, y); ok {
		b.pending = append(b.pending, frame)
	}
}

// queueLastPosition queues the last reported position, or the surface origin
// when the pointer never reported one.
func (b *Backend) queueLastPosition() {
	if !b.hasPosition {
		b.logger.Debug("pointer event before any position, using origin")
	}
	b.queuePointer(b.lastX, b.lastY)
}

// ReleasePointer implements probe.Seat.
func (b *Backend) ReleasePointer() error {
	if b.pointer == nil {
		return nil
	}
	pointer := b.pointer
	b.pointer = nil
	b.batch.reset()
	b.lastX, b.lastY, b.hasPosition = 0, 0, false

	if b.seatVersion < seatPointerReleaseVersion {
		return nil
	}
	return pointer.Release()
}

// Close tears down the overlay, the bound globals and the connection.
func (b *Backend) Close() error {
	if b.closed {
		return nil
	}
	b.closed = true

	var errs []error
	if b.pointer != nil && b.seatVersion >= seatPointerReleaseVersion {
		errs = append(errs, b.pointer.Release())
	}
	if b.layerSurface != nil {
		errs = append(errs, b.layerSurface.Destroy())
	}
	if b.surface != nil {
		errs = append(errs, b.surface.Destroy())
	}
	if b.buffer != nil {
		errs = append(errs, b.buffer.Destroy())
	}
	if b.pool != nil {
		errs = append(errs, b.pool.Destroy())
	}
	if b.shmFile != nil {
		errs = append(errs, b.shmFile.Close())
	}
	if b.layerShell != nil && b.layerShellVersion >= layerShellDestroyVersion {
		errs = append(errs, b.layerShell.Destroy())
	}
	if b.seat != nil && b.seatVersion >= seatReleaseVersion {
		errs = append(errs, b.seat.Release())
	}
	if b.ctx != nil {
		errs = append(errs, b.ctx.Close())
	}
	return errors.Join(errs...)
}

// CollectEnvInfo runs one complete probe session: connect, capture, tear
// down.
func CollectEnvInfo(opts Options) (probe.EnvInfo, error) {
	opts = opts.withDefaults()

	b, err := Open(opts)
	if err != nil {
		return probe.EnvInfo{}, err
	}
	defer func() {
		if err := b.Close(); err != nil {
			opts.Logger.Debug("probe teardown", "error", err)
		}
	}()

	return probe.Collect(b, opts.Logger)
}
