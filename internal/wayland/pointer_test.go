package wayland

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/wltrans/internal/probe"
)

func TestPointerBatcher_WithFrames(t *testing.T) {
	b := pointerBatcher{frames: true}

	_, ok := b.add(1, 2)
	assert.False(t, ok)
	_, ok = b.add(3, 4)
	assert.False(t, ok)

	frame, ok := b.flush()
	require.True(t, ok)
	assert.Equal(t, []probe.PointerEvent{{X: 1, Y: 2}, {X: 3, Y: 4}}, frame.Events)

	_, ok = b.flush()
	assert.False(t, ok, "frame without positions yields nothing")
}

func TestPointerBatcher_WithoutFrames(t *testing.T) {
	b := pointerBatcher{}

	frame, ok := b.add(10, 20)
	require.True(t, ok)
	assert.Equal(t, []probe.PointerEvent{{X: 10, Y: 20}}, frame.Events)
	assert.Empty(t, b.pending)
}

func TestPointerBatcher_Reset(t *testing.T) {
	b := pointerBatcher{frames: true}
	b.add(1, 1)
	b.reset()

	_, ok := b.flush()
	assert.False(t, ok)
}

func TestCapabilityChanges(t *testing.T) {
	pointer := uint32(probe.CapabilityPointer)
	keyboard := uint32(probe.CapabilityKeyboard)

	tests := []struct {
		name       string
		prev, next uint32
		want       []probe.Event
	}{
		{"none", 0, 0, nil},
		{"pointer added", 0, pointer, []probe.Event{probe.CapabilityAdded{Capability: probe.CapabilityPointer}}},
		{"pointer removed", pointer | keyboard, keyboard, []probe.Event{probe.CapabilityRemoved{Capability: probe.CapabilityPointer}}},
		{"swap", pointer, keyboard, []probe.Event{
			probe.CapabilityRemoved{Capability: probe.CapabilityPointer},
			probe.CapabilityAdded{Capability: probe.CapabilityKeyboard},
		}},
		{"unchanged", pointer | keyboard, pointer | keyboard, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, capabilityChanges(tt.prev, tt.next))
		})
	}
}
