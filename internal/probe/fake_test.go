package probe

import "errors"

// fakeBackend replays scripted event batches and records requests.
type fakeBackend struct {
	batches [][]Event

	paints    [][2]int32
	binds     int
	releases  int
	paintErr  error
	bindErr   error
	received  int
	exhausted bool
}

var errScriptExhausted = errors.New("script exhausted")

func (f *fakeBackend) Receive() ([]Event, error) {
	if f.received >= len(f.batches) {
		f.exhausted = true
		return nil, errScriptExhausted
	}
	batch := f.batches[f.received]
	f.received++
	return batch, nil
}

func (f *fakeBackend) Paint(width, height int32) error {
	f.paints = append(f.paints, [2]int32{width, height})
	return f.paintErr
}

func (f *fakeBackend) BindPointer() error {
	f.binds++
	return f.bindErr
}

func (f *fakeBackend) ReleasePointer() error {
	f.releases++
	return nil
}

func pointerAt(x, y float64) PointerFrame {
	return PointerFrame{Events: []PointerEvent{{X: x, Y: y}}}
}
