package renderer

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/Carmen-Shannon/oxy-lessons/engine/camera"
	"github.com/Carmen-Shannon/oxy-lessons/engine/entity"
	"github.com/Carmen-Shannon/oxy-lessons/engine/geometry"
	"github.com/Carmen-Shannon/oxy-lessons/engine/light"
	"github.com/Carmen-Shannon/oxy-lessons/engine/material"
	"github.com/Carmen-Shannon/oxy-lessons/engine/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCamera() camera.Camera {
	return camera.NewPerspective(75, 800.0/600.0, 0.1, 100, camera.WithPosition(0, 0, 3))
}

func TestResizeSetsBufferSize(t *testing.T) {
	b := NewSoftwareBackend(WithSize(800, 600, 1))
	t.Cleanup(func() { _ = b.Close() })

	w, h := b.Size()
	assert.Equal(t, []int{800, 600}, []int{w, h})

	require.NoError(t, b.Resize(1024, 768, 1))
	w, h = b.Size()
	assert.Equal(t, []int{1024, 768}, []int{w, h})

	require.NoError(t, b.Resize(400, 300, 2))
	w, h = b.Size()
	assert.Equal(t, []int{800, 600}, []int{w, h})
}

func TestResizeRejectsInvalidSizes(t *testing.T) {
	b := NewSoftwareBackend(WithSize(320, 240, 1))
	t.Cleanup(func() { _ = b.Close() })

	for _, tc := range []struct {
		w, h  int
		ratio float32
	}{
		{0, 240, 1},
		{320, -1, 1},
		{320, 240, 0},
	} {
		assert.ErrorIs(t, b.Resize(tc.w, tc.h, tc.ratio), ErrInvalidSize)
	}
	w, h := b.Size()
	assert.Equal(t, []int{320, 240}, []int{w, h})
}

func TestRenderDrawsVisibleMeshAndCullsTheRest(t *testing.T) {
	b := NewSoftwareBackend(WithSize(160, 120, 1))
	t.Cleanup(func() { _ = b.Close() })

	s := scene.NewScene("test")
	require.NoError(t, s.SetBackgroundHex("#000000"))
	red := material.NewBasic(material.WithColorHex("#ff0000"))
	front := entity.NewMesh(geometry.NewBox(1, 1, 1, 1, 1, 1), red)
	behind := entity.NewMesh(geometry.NewBox(1, 1, 1, 1, 1, 1), red, entity.WithPosition(0, 0, 10))
	require.NoError(t, s.Add(front, behind))

	require.NoError(t, b.Render(s.Snapshot(), newTestCamera()))

	stats := b.Stats()
	assert.Equal(t, 1, stats.Drawables)
	assert.Equal(t, 1, stats.Culled)
	// two front-facing triangles of the +Z face
	assert.Equal(t, 2, stats.Triangles)

	img := b.Image()
	center := img.RGBAAt(80, 60)
	assert.Greater(t, center.R, uint8(200))
	assert.Less(t, center.G, uint8(40))
	corner := img.RGBAAt(2, 2)
	assert.Equal(t, uint8(0), corner.R)
}

func TestWireframeDrawsEdges(t *testing.T) {
	b := NewSoftwareBackend(WithSize(160, 120, 1))
	t.Cleanup(func() { _ = b.Close() })

	s := scene.NewScene("test")
	m := material.NewBasic(material.WithWireframe(true))
	require.NoError(t, s.Add(entity.NewMesh(geometry.NewBox(1, 1, 1, 1, 1, 1), m)))
	require.NoError(t, b.Render(s.Snapshot(), newTestCamera()))

	assert.Zero(t, b.Stats().Triangles)
	assert.Positive(t, b.Stats().Lines)
}

func TestStandardMaterialIsLit(t *testing.T) {
	render := func(lights ...light.Light) uint8 {
		b := NewSoftwareBackend(WithSize(160, 120, 1))
		defer b.Close()
		s := scene.NewScene("lit")
		require.NoError(t, s.Add(entity.NewMesh(geometry.NewBox(1, 1, 1, 1, 1, 1), material.NewStandard())))
		for _, l := range lights {
			require.NoError(t, s.Add(l))
		}
		require.NoError(t, b.Render(s.Snapshot(), newTestCamera()))
		return b.Image().RGBAAt(80, 60).R
	}

	dark := render()
	lit := render(light.NewAmbient(light.WithIntensity(1)))
	assert.Less(t, dark, uint8(10))
	assert.Greater(t, lit, uint8(200))
}

func TestAdditivePointsAccumulate(t *testing.T) {
	b := NewSoftwareBackend(WithSize(64, 64, 1))
	t.Cleanup(func() { _ = b.Close() })

	// three points at the same spot, each contributing a third of the light
	positions := []float32{0, 0, 0, 0, 0, 0, 0, 0, 0}
	colors := []float32{1, 1, 1, 1, 1, 1, 1, 1, 1}
	m := material.NewPoints(
		material.WithSize(4),
		material.WithSizeAttenuation(false),
		material.WithTransparent(true),
		material.WithOpacity(0.2),
		material.WithBlending(material.BlendingAdditive),
		material.WithVertexColors(true),
	)
	s := scene.NewScene("points")
	require.NoError(t, s.SetBackgroundHex("#000000"))
	require.NoError(t, s.Add(entity.NewMesh(geometry.NewPoints(positions, colors), m)))

	require.NoError(t, b.Render(s.Snapshot(), newTestCamera()))
	assert.Equal(t, 3, b.Stats().Points)
	c := b.Image().RGBAAt(32, 32)
	// 3 * 0.2 of white added to black
	assert.InDelta(t, 153, int(c.R), 3)
}

func TestEncodePNG(t *testing.T) {
	b := NewSoftwareBackend(WithSize(32, 16, 1))
	t.Cleanup(func() { _ = b.Close() })
	require.NoError(t, b.Render(scene.NewScene("empty").Snapshot(), newTestCamera()))

	var buf bytes.Buffer
	require.NoError(t, b.EncodePNG(&buf))
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 32, img.Bounds().Dx())
	assert.Equal(t, 16, img.Bounds().Dy())
}

func TestClosedBackendRejectsWork(t *testing.T) {
	b := NewSoftwareBackend()
	require.NoError(t, b.Close())
	require.NoError(t, b.Close())
	assert.ErrorIs(t, b.Render(scene.NewScene("x").Snapshot(), newTestCamera()), ErrClosed)
	assert.ErrorIs(t, b.Resize(10, 10, 1), ErrClosed)
}

func TestParseBackendType(t *testing.T) {
	bt, err := ParseBackendType("WGPU")
	require.NoError(t, err)
	assert.Equal(t, BackendTypeWGPU, bt)
	bt, err = ParseBackendType("")
	require.NoError(t, err)
	assert.Equal(t, BackendTypeSoftware, bt)
	_, err = ParseBackendType("vulkan")
	assert.Error(t, err)
}

func TestNewWGPURequiresSurface(t *testing.T) {
	_, err := New(BackendTypeWGPU)
	assert.ErrorIs(t, err, errNoSurface)
	b, err := New(BackendTypeSoftware, WithSize(10, 10, 1))
	require.NoError(t, err)
	assert.NoError(t, b.Close())
}
