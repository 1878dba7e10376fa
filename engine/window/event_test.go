package window

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePointer(t *testing.T) {
	tests := []struct {
		name string
		x, y float32
		w, h int
		want Pointer
	}{
		{"top-left", 0, 0, 800, 600, Pointer{X: 0, Y: 0, U: 0, V: 0, CX: -0.5, CY: 0.5}},
		{"center", 400, 300, 800, 600, Pointer{X: 400, Y: 300, U: 0.5, V: 0.5, CX: 0, CY: 0}},
		{"bottom-right", 800, 600, 800, 600, Pointer{X: 800, Y: 600, U: 1, V: 1, CX: 0.5, CY: -0.5}},
		{"degenerate surface", 10, 10, 0, 600, Pointer{X: 10, Y: 10, U: 0.5, V: 0.5, CX: 0, CY: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizePointer(tt.x, tt.y, tt.w, tt.h)
			assert.InDelta(t, tt.want.U, got.U, 1e-6)
			assert.InDelta(t, tt.want.V, got.V, 1e-6)
			assert.InDelta(t, tt.want.CX, got.CX, 1e-6)
			assert.InDelta(t, tt.want.CY, got.CY, 1e-6)
			assert.Equal(t, tt.want.X, got.X)
			assert.Equal(t, tt.want.Y, got.Y)
		})
	}
}

func TestEventKindString(t *testing.T) {
	assert.Equal(t, "pointer-move", EventPointerMove.String())
	assert.Equal(t, "unknown", EventKind(99).String())
}
