package probe

import (
	"errors"
	"fmt"
)

// ErrSurfaceClosed is returned when the compositor closes the overlay before
// a pointer position was captured.
var ErrSurfaceClosed = errors.New("overlay surface was closed unexpectedly")

// ConnectError is returned when no display server could be reached.
type ConnectError struct {
	Err error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("connect to wayland display: %v", e.Err)
}

func (e *ConnectError) Unwrap() error {
	return e.Err
}

// MissingGlobalError is returned when the compositor does not advertise a
// global the session cannot work without.
type MissingGlobalError struct {
	Interface string
}

func (e *MissingGlobalError) Error() string {
	return fmt.Sprintf("compositor does not advertise required global %s", e.Interface)
}

// PaintError is returned when the overlay could not be given buffer content.
type PaintError struct {
	Width  int32
	Height int32
	Err    error
}

func (e *PaintError) Error() string {
	return fmt.Sprintf("paint overlay %dx%d: %v", e.Width, e.Height, e.Err)
}

func (e *PaintError) Unwrap() error {
	return e.Err
}

// ProtocolError wraps a fatal error reported by the compositor.
type ProtocolError struct {
	ObjectID uint32
	Code     uint32
	Message  string
}

func (e *ProtocolError) Error() string {
	if e.ObjectID == 0 {
		return fmt.Sprintf("wayland protocol error (code %d): %s", e.Code, e.Message)
	}
	return fmt.Sprintf("wayland protocol error on object %d (code %d): %s", e.ObjectID, e.Code, e.Message)
}

// IsFatal reports whether err is one of the session's fatal conditions.
// Every error the probe returns is fatal; this exists so callers can tell
// probe failures apart from their own.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	var (
		connErr    *ConnectError
		missingErr *MissingGlobalError
		paintErr   *PaintError
		protoErr   *ProtocolError
	)
	return errors.Is(err, ErrSurfaceClosed) ||
		errors.As(err, &connErr) ||
		errors.As(err, &missingErr) ||
		errors.As(err, &paintErr) ||
		errors.As(err, &protoErr)
}
