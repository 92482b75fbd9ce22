// Package wayland connects the display probe to a running Wayland
// compositor. It binds the globals the probe needs, creates the full-screen
// overlay layer surface and translates protocol callbacks into probe events.
package wayland
