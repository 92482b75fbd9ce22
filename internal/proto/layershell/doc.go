// Package layershell binds the wlr-layer-shell-unstable-v1 protocol
// (zwlr_layer_shell_v1 and zwlr_layer_surface_v1) on top of the go-wayland
// client runtime.
package layershell
