package viewport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResizeNotifiesObservers(t *testing.T) {
	v := NewViewport(WithSize(800, 600))

	var gotW, gotH int
	v.OnResize(func(width, height int, _ float32) {
		gotW, gotH = width, height
	})

	require.NoError(t, v.Resize(1024, 768))
	assert.Equal(t, 1024, gotW)
	assert.Equal(t, 768, gotH)
	assert.InDelta(t, 1024.0/768.0, v.Aspect(), 1e-6)
}

func TestResizeRejectsNonPositive(t *testing.T) {
	v := NewViewport(WithSize(800, 600))
	called := false
	v.OnResize(func(int, int, float32) { called = true })

	for _, dims := range [][2]int{{0, 600}, {800, 0}, {-1, -1}} {
		err := v.Resize(dims[0], dims[1])
		assert.ErrorIs(t, err, ErrInvalidViewport)
	}
	assert.False(t, called)
	assert.Equal(t, 800, v.Width())
	assert.Equal(t, 600, v.Height())
}

func TestPixelRatioIsCapped(t *testing.T) {
	v := NewViewport(WithSize(100, 50), WithDevicePixelRatio(3))
	assert.Equal(t, float32(3), v.DevicePixelRatio())
	assert.Equal(t, float32(2), v.PixelRatio())

	w, h := v.BufferSize()
	assert.Equal(t, 200, w)
	assert.Equal(t, 100, h)

	require.NoError(t, v.SetDevicePixelRatio(1.5))
	w, h = v.BufferSize()
	assert.Equal(t, 150, w)
	assert.Equal(t, 75, h)

	assert.ErrorIs(t, v.SetDevicePixelRatio(0), ErrInvalidViewport)
}

func TestUncappedPixelRatio(t *testing.T) {
	v := NewViewport(WithDevicePixelRatio(3), WithMaxPixelRatio(0))
	assert.Equal(t, float32(3), v.PixelRatio())
}
