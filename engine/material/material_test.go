package material

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-lessons/engine/texture"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	std := NewStandard()
	assert.Equal(t, KindStandard, std.Kind())
	assert.Equal(t, "#ffffff", std.ColorHex())
	assert.Equal(t, float32(1), std.Opacity())
	assert.Equal(t, float32(1), std.Roughness())
	assert.Zero(t, std.Metalness())
	assert.True(t, std.DepthWrite())
	assert.True(t, std.DepthTest())
	assert.Equal(t, BlendingNormal, std.Blending())

	pts := NewPoints()
	assert.Equal(t, float32(1), pts.Size())
	assert.True(t, pts.SizeAttenuation())
}

func TestColorHexConvertsThroughLinearSpace(t *testing.T) {
	m := NewBasic(WithColorHex("#A778D8"))
	assert.Equal(t, "#a778d8", m.ColorHex())

	// the stored value is linear, darker than the sRGB encoding
	c := m.Color()
	assert.InDelta(t, 0.3864, c.R, 1e-3)

	require.NoError(t, m.SetColorHex("ff0000"))
	assert.Equal(t, "#ff0000", m.ColorHex())

	assert.Error(t, m.SetColorHex("not a color"))
	assert.Equal(t, "#ff0000", m.ColorHex())
}

func TestParticleMaterialOptions(t *testing.T) {
	alpha := texture.New("particles/2.png")
	m := NewPoints(
		WithSize(0.03),
		WithSizeAttenuation(true),
		WithTransparent(true),
		WithAlphaMap(alpha),
		WithDepthWrite(false),
		WithBlending(BlendingAdditive),
		WithVertexColors(true),
	)

	assert.Equal(t, float32(0.03), m.Size())
	assert.True(t, m.Transparent())
	assert.Same(t, alpha, m.AlphaMap())
	assert.False(t, m.DepthWrite())
	assert.Equal(t, BlendingAdditive, m.Blending())
	assert.True(t, m.VertexColors())
}

func TestSettersClamp(t *testing.T) {
	m := NewStandard(WithRoughness(0.4))
	assert.InDelta(t, 0.4, m.Roughness(), 1e-6)

	m.SetOpacity(2)
	assert.Equal(t, float32(1), m.Opacity())
	m.SetMetalness(-1)
	assert.Zero(t, m.Metalness())
	m.SetSize(-3)
	assert.Equal(t, float32(1), m.Size())
}
