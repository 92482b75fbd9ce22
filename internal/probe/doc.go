// Package probe implements the display-probe session: a single-shot state
// machine that consumes compositor events until it has learned the output
// size and the current pointer position.
//
// The session never talks to the compositor directly. A Backend delivers
// batches of events and performs the few requests the state machine needs
// (painting the overlay once, binding and releasing the pointer), which keeps
// the protocol ordering rules testable without a running compositor.
package probe
