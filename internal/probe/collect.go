package probe

import (
	"fmt"
	"log/slog"
)

// Backend is the compositor connection seen by the capture loop.
type Backend interface {
	Surface
	Seat

	// Receive blocks until the compositor delivered at least one message and
	// returns the events decoded from it, in order. The returned slice may be
	// empty when the message carried nothing the session cares about.
	Receive() ([]Event, error)
}

// Collect drives a session against b until the first pointer position is
// captured or a fatal condition occurs. There is no timeout: the overlay holds
// exclusive input, so the next pointer movement ends the session.
func Collect(b Backend, logger *slog.Logger) (EnvInfo, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := NewSession(b, b, logger)

	for {
		events, err := b.Receive()
		if err != nil {
			return EnvInfo{}, fmt.Errorf("receive: %w", err)
		}

		for _, ev := range events {
			if err := s.Dispatch(ev); err != nil {
				logger.Debug("probe session failed",
					"state", s.State().String(), "pointer_bound", s.PointerBound(), "error", err)
				return EnvInfo{}, err
			}
			if s.Terminal() {
				break
			}
		}

		if s.Terminal() {
			return s.Info(), nil
		}
	}
}
