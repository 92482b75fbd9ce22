package probe

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
)

// State is the capture state machine's position.
type State int

const (
	StateInitializing State = iota
	StateAwaitingConfigure
	StateAwaitingPointerEvent
	StateDone
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateAwaitingConfigure:
		return "awaiting-configure"
	case StateAwaitingPointerEvent:
		return "awaiting-pointer-event"
	case StateDone:
		return "done"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// EnvInfo is the environment state captured by a session.
type EnvInfo struct {
	MonitorWidth  int32 `json:"monitor_width" yaml:"monitor_width"`
	MonitorHeight int32 `json:"monitor_height" yaml:"monitor_height"`
	PointerX      int32 `json:"pointer_x" yaml:"pointer_x"`
	PointerY      int32 `json:"pointer_y" yaml:"pointer_y"`
}

// Surface is the overlay surface driven by the session.
type Surface interface {
	// Paint gives the overlay minimal buffer content of the given size so the
	// compositor maps it and starts routing input to it.
	Paint(width, height int32) error
}

// Seat binds and releases the pointer-input object.
type Seat interface {
	BindPointer() error
	ReleasePointer() error
}

// Session holds the mutable state of one probe. It is not safe for
// concurrent use; all mutation happens inside Dispatch.
type Session struct {
	surface Surface
	seat    Seat
	logger  *slog.Logger

	info           EnvInfo
	dispatched     int
	configured     bool
	firstConfigure bool
	pointerBound   bool
	terminal       bool
}

// NewSession creates a session in its initial state.
func NewSession(surface Surface, seat Seat, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		surface:        surface,
		seat:           seat,
		logger:         logger,
		firstConfigure: true,
	}
}

// Dispatch applies one event to the session. A non-nil error is fatal and
// the session must not be used afterwards.
func (s *Session) Dispatch(ev Event) error {
	s.dispatched++
	switch e := ev.(type) {
	case Configure:
		return s.handleConfigure(e)
	case CapabilityAdded:
		return s.handleCapabilityAdded(e)
	case CapabilityRemoved:
		return s.handleCapabilityRemoved(e)
	case PointerFrame:
		s.handlePointerFrame(e)
		return nil
	case Closed:
		if !s.terminal {
			return ErrSurfaceClosed
		}
		return nil
	case DisplayError:
		return &ProtocolError{ObjectID: e.ObjectID, Code: e.Code, Message: e.Message}
	default:
		s.logger.Debug("ignoring unknown probe event", "event", fmt.Sprintf("%T", ev))
		return nil
	}
}

func (s *Session) handleConfigure(e Configure) error {
	s.info.MonitorWidth = e.Width
	s.info.MonitorHeight = e.Height
	s.configured = true

	s.logger.Debug("overlay configured", "width", e.Width, "height", e.Height)

	if !s.firstConfigure {
		return nil
	}
	s.firstConfigure = false

	if err := s.surface.Paint(e.Width, e.Height); err != nil {
		var paintErr *PaintError
		if errors.As(err, &paintErr) {
			return err
		}
		return &PaintError{Width: e.Width, Height: e.Height, Err: err}
	}
	return nil
}

func (s *Session) handleCapabilityAdded(e CapabilityAdded) error {
	if e.Capability != CapabilityPointer || s.pointerBound {
		return nil
	}
	if err := s.seat.BindPointer(); err != nil {
		return fmt.Errorf("bind pointer: %w", err)
	}
	s.pointerBound = true
	s.logger.Debug("pointer bound")
	return nil
}

func (s *Session) handleCapabilityRemoved(e CapabilityRemoved) error {
	if e.Capability != CapabilityPointer || !s.pointerBound {
		return nil
	}
	s.pointerBound = false
	if err := s.seat.ReleasePointer(); err != nil {
		return fmt.Errorf("release pointer: %w", err)
	}
	s.logger.Debug("pointer released")
	return nil
}

func (s *Session) handlePointerFrame(e PointerFrame) {
	if s.terminal || len(e.Events) == 0 {
		return
	}
	last := e.Events[len(e.Events)-1]
	s.info.PointerX = truncate(last.X)
	s.info.PointerY = truncate(last.Y)
	s.terminal = true

	s.logger.Debug("pointer captured", "x", s.info.PointerX, "y", s.info.PointerY, "batch", len(e.Events))
}

// State reports the session's current state.
func (s *Session) State() State {
	switch {
	case s.terminal:
		return StateDone
	case s.dispatched == 0:
		return StateInitializing
	case s.configured && s.pointerBound:
		return StateAwaitingPointerEvent
	default:
		return StateAwaitingConfigure
	}
}

// Terminal reports whether the session captured a pointer position.
func (s *Session) Terminal() bool {
	return s.terminal
}

// PointerBound reports whether a pointer-input object is currently bound.
func (s *Session) PointerBound() bool {
	return s.pointerBound
}

// Info returns a copy of the captured state.
func (s *Session) Info() EnvInfo {
	return s.info
}

// truncate converts a surface coordinate to whole pixels, rounding toward zero.
func truncate(v float64) int32 {
	switch {
	case math.IsNaN(v):
		return 0
	case v >= math.MaxInt32:
		return math.MaxInt32
	case v <= math.MinInt32:
		return math.MinInt32
	default:
		return int32(v)
	}
}
