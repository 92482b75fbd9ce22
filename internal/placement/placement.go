// Package placement computes where the translation popup goes relative to
// the captured pointer position.
package placement

import "github.com/jmylchreest/wltrans/internal/probe"

// DefaultDivisor sizes the popup to a quarter of the monitor on each axis.
const DefaultDivisor = 4

// Margins are layer-shell margins for a surface anchored to all four edges.
type Margins struct {
	Top    int
	Right  int
	Bottom int
	Left   int
}

// PopupSize returns the popup's maximum width and height for the monitor.
// Divisors below 1 fall back to DefaultDivisor.
func PopupSize(env probe.EnvInfo, divisor int) (width, height int) {
	if divisor < 1 {
		divisor = DefaultDivisor
	}
	return int(env.MonitorWidth) / divisor, int(env.MonitorHeight) / divisor
}

// Calculate places a width x height box with its corner at the pointer.
// The box opens right and down when it fits, opens left or up when it would
// overflow, and shrinks when it fits on neither side.
func Calculate(env probe.EnvInfo, width, height int) Margins {
	var m Margins
	m.Left, m.Right = axis(int(env.MonitorWidth), int(env.PointerX), width)
	m.Top, m.Bottom = axis(int(env.MonitorHeight), int(env.PointerY), height)
	return m
}

// axis returns the near and far margins along one axis.
func axis(monitor, pos, size int) (near, far int) {
	switch {
	case monitor-pos >= size:
		return pos, monitor - pos - size
	case pos < size:
		return pos, 0
	default:
		return pos - size, monitor - pos
	}
}
