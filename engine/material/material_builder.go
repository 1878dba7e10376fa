package material

import (
	"github.com/Carmen-Shannon/oxy-lessons/common"
	"github.com/Carmen-Shannon/oxy-lessons/engine/texture"
)

// MaterialBuilderOption is a function that configures a Material during construction.
type MaterialBuilderOption func(*material)

// WithName sets the material name.
func WithName(name string) MaterialBuilderOption {
	return func(m *material) {
		m.name = name
	}
}

// WithColor sets the linear base color.
//
// Parameters:
//   - c: the linear color
//
// Returns:
//   - MaterialBuilderOption: a function that applies the color option
func WithColor(c common.Color) MaterialBuilderOption {
	return func(m *material) {
		m.color = c
	}
}

// WithColorHex sets the base color from an sRGB hex string. Invalid strings keep the default.
//
// Parameters:
//   - hex: the sRGB hex string, e.g. "#ff0000"
//
// Returns:
//   - MaterialBuilderOption: a function that applies the color option
func WithColorHex(hex string) MaterialBuilderOption {
	return func(m *material) {
		_ = m.color.SetHex(hex)
	}
}

// WithWireframe draws edges only.
func WithWireframe(enabled bool) MaterialBuilderOption {
	return func(m *material) {
		m.wireframe = enabled
	}
}

// WithTransparent enables alpha blending using Opacity and the alpha map.
func WithTransparent(enabled bool) MaterialBuilderOption {
	return func(m *material) {
		m.transparent = enabled
	}
}

// WithOpacity sets the surface alpha, clamped to [0, 1].
func WithOpacity(opacity float32) MaterialBuilderOption {
	return func(m *material) {
		m.opacity = common.Clamp(opacity, 0, 1)
	}
}

// WithDepthWrite enables or disables depth buffer writes.
func WithDepthWrite(enabled bool) MaterialBuilderOption {
	return func(m *material) {
		m.depthWrite = enabled
	}
}

// WithDepthTest enables or disables the depth test.
func WithDepthTest(enabled bool) MaterialBuilderOption {
	return func(m *material) {
		m.depthTest = enabled
	}
}

// WithBlending sets the blend mode.
func WithBlending(b Blending) MaterialBuilderOption {
	return func(m *material) {
		m.blending = b
	}
}

// WithVertexColors multiplies the base color by the geometry's color attribute.
func WithVertexColors(enabled bool) MaterialBuilderOption {
	return func(m *material) {
		m.vertexColors = enabled
	}
}

// WithRoughness sets the standard material roughness.
//
// Parameters:
//   - v: roughness in [0, 1]
//
// Returns:
//   - MaterialBuilderOption: a function that applies the roughness option
func WithRoughness(v float32) MaterialBuilderOption {
	return func(m *material) {
		m.roughness = common.Clamp(v, 0, 1)
	}
}

// WithMetalness sets the standard material metalness.
//
// Parameters:
//   - v: metalness in [0, 1]
//
// Returns:
//   - MaterialBuilderOption: a function that applies the metalness option
func WithMetalness(v float32) MaterialBuilderOption {
	return func(m *material) {
		m.metalness = common.Clamp(v, 0, 1)
	}
}

// WithSize sets the point sprite size.
func WithSize(v float32) MaterialBuilderOption {
	return func(m *material) {
		if v >= 0 {
			m.size = v
		}
	}
}

// WithSizeAttenuation makes point size shrink with distance from the camera.
func WithSizeAttenuation(enabled bool) MaterialBuilderOption {
	return func(m *material) {
		m.sizeAttenuation = enabled
	}
}

// WithMap sets the color map.
func WithMap(t texture.Texture) MaterialBuilderOption {
	return func(m *material) {
		m.colorMap = t
	}
}

// WithAlphaMap sets the alpha map.
func WithAlphaMap(t texture.Texture) MaterialBuilderOption {
	return func(m *material) {
		m.alphaMap = t
	}
}
