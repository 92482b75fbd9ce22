package placement

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jmylchreest/wltrans/internal/probe"
)

func env(w, h, x, y int32) probe.EnvInfo {
	return probe.EnvInfo{MonitorWidth: w, MonitorHeight: h, PointerX: x, PointerY: y}
}

func TestPopupSize(t *testing.T) {
	w, h := PopupSize(env(1920, 1080, 0, 0), 4)
	assert.Equal(t, 480, w)
	assert.Equal(t, 270, h)

	w, h = PopupSize(env(1920, 1080, 0, 0), 0)
	assert.Equal(t, 480, w, "invalid divisor uses default")
	assert.Equal(t, 270, h)

	w, h = PopupSize(env(1920, 1080, 0, 0), 2)
	assert.Equal(t, 960, w)
	assert.Equal(t, 540, h)
}

func TestCalculate(t *testing.T) {
	tests := []struct {
		name string
		env  probe.EnvInfo
		w, h int
		want Margins
	}{
		{
			name: "fits right and down",
			env:  env(1920, 1080, 640, 400),
			w:    480, h: 270,
			want: Margins{Top: 400, Right: 800, Bottom: 410, Left: 640},
		},
		{
			name: "opens left and up near bottom right",
			env:  env(1920, 1080, 1800, 1000),
			w:    480, h: 270,
			want: Margins{Top: 730, Right: 120, Bottom: 80, Left: 1320},
		},
		{
			name: "exact fit to the right edge",
			env:  env(1000, 1000, 500, 500),
			w:    500, h: 500,
			want: Margins{Top: 500, Right: 0, Bottom: 0, Left: 500},
		},
		{
			name: "shrinks when neither side fits",
			env:  env(100, 100, 40, 30),
			w:    80, h: 90,
			want: Margins{Top: 30, Right: 0, Bottom: 0, Left: 40},
		},
		{
			name: "pointer at origin",
			env:  env(1920, 1080, 0, 0),
			w:    480, h: 270,
			want: Margins{Top: 0, Right: 1440, Bottom: 810, Left: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Calculate(tt.env, tt.w, tt.h))
		})
	}
}

func TestCalculate_MarginsNeverNegative(t *testing.T) {
	const mw, mh = 800, 600
	for x := int32(0); x <= mw; x += 50 {
		for y := int32(0); y <= mh; y += 50 {
			m := Calculate(env(mw, mh, x, y), 200, 150)
			assert.GreaterOrEqual(t, m.Top, 0)
			assert.GreaterOrEqual(t, m.Right, 0)
			assert.GreaterOrEqual(t, m.Bottom, 0)
			assert.GreaterOrEqual(t, m.Left, 0)
		}
	}
}
