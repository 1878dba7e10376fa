package material

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-lessons/common"
	"github.com/Carmen-Shannon/oxy-lessons/engine/texture"
)

// Kind selects the shading model.
type Kind int

const (
	// KindBasic is unlit: the surface shows its color (and map) regardless of lights.
	KindBasic Kind = iota
	// KindStandard is lit with a roughness/metalness model.
	KindStandard
	// KindPoints draws each vertex as a square sprite.
	KindPoints
)

func (k Kind) String() string {
	switch k {
	case KindStandard:
		return "standard"
	case KindPoints:
		return "points"
	default:
		return "basic"
	}
}

// Blending selects how a fragment is combined with the color already in the target.
type Blending int

const (
	// BlendingNormal is source-over alpha blending.
	BlendingNormal Blending = iota
	// BlendingAdditive adds the source color, scaled by alpha, to the target.
	BlendingAdditive
)

// material is the implementation of the Material interface.
type material struct {
	mu *sync.Mutex

	name            string
	kind            Kind
	color           common.Color
	wireframe       bool
	transparent     bool
	opacity         float32
	depthWrite      bool
	depthTest       bool
	blending        Blending
	vertexColors    bool
	roughness       float32
	metalness       float32
	size            float32
	sizeAttenuation bool
	colorMap        texture.Texture
	alphaMap        texture.Texture
}

// Material is a surface description referenced by entities. Colors are stored in
// linear space; ColorHex and SetColorHex convert to and from sRGB hex strings.
type Material interface {
	// Name returns the material name.
	Name() string

	// Kind returns the shading model.
	Kind() Kind

	// Color returns the linear base color.
	//
	// Returns:
	//   - common.Color: the linear color
	Color() common.Color

	// SetColor assigns a linear base color.
	//
	// Parameters:
	//   - c: the linear color
	SetColor(c common.Color)

	// ColorHex returns the base color as an sRGB hex string.
	//
	// Returns:
	//   - string: e.g. "#a778d8"
	ColorHex() string

	// SetColorHex parses an sRGB hex string and stores it as linear color.
	// The color is unchanged on error.
	//
	// Parameters:
	//   - hex: the sRGB hex string
	//
	// Returns:
	//   - error: error if hex is not a valid color
	SetColorHex(hex string) error

	Wireframe() bool
	SetWireframe(enabled bool)
	Transparent() bool
	SetTransparent(enabled bool)

	// Opacity returns the surface alpha in [0, 1]. It only has an effect when Transparent is set.
	Opacity() float32

	// SetOpacity clamps and stores the surface alpha.
	//
	// Parameters:
	//   - opacity: the alpha, clamped to [0, 1]
	SetOpacity(opacity float32)

	DepthWrite() bool
	SetDepthWrite(enabled bool)
	DepthTest() bool
	SetDepthTest(enabled bool)
	Blending() Blending
	SetBlending(b Blending)
	VertexColors() bool
	SetVertexColors(enabled bool)

	// Roughness returns the standard material roughness in [0, 1].
	Roughness() float32
	SetRoughness(v float32)
	// Metalness returns the standard material metalness in [0, 1].
	Metalness() float32
	SetMetalness(v float32)

	// Size returns the point sprite size in world units (or pixels without attenuation).
	Size() float32
	SetSize(v float32)
	// SizeAttenuation reports whether point size shrinks with distance.
	SizeAttenuation() bool
	SetSizeAttenuation(enabled bool)

	// Map returns the color map, or nil.
	Map() texture.Texture
	SetMap(t texture.Texture)
	// AlphaMap returns the alpha map (its green channel scales opacity), or nil.
	AlphaMap() texture.Texture
	SetAlphaMap(t texture.Texture)
}

var _ Material = &material{}

func newMaterial(kind Kind, options ...MaterialBuilderOption) Material {
	m := &material{
		mu:              &sync.Mutex{},
		name:            kind.String(),
		kind:            kind,
		color:           common.White,
		opacity:         1,
		depthWrite:      true,
		depthTest:       true,
		roughness:       1,
		size:            1,
		sizeAttenuation: true,
	}
	for _, option := range options {
		option(m)
	}
	return m
}

// NewBasic creates an unlit material.
//
// Parameters:
//   - options: functional options to configure the material
//
// Returns:
//   - Material: the material
func NewBasic(options ...MaterialBuilderOption) Material {
	return newMaterial(KindBasic, options...)
}

// NewStandard creates a lit roughness/metalness material. Roughness defaults to 1, metalness to 0.
//
// Parameters:
//   - options: functional options to configure the material
//
// Returns:
//   - Material: the material
func NewStandard(options ...MaterialBuilderOption) Material {
	return newMaterial(KindStandard, options...)
}

// NewPoints creates a point sprite material. Size defaults to 1 with attenuation on.
//
// Parameters:
//   - options: functional options to configure the material
//
// Returns:
//   - Material: the material
func NewPoints(options ...MaterialBuilderOption) Material {
	return newMaterial(KindPoints, options...)
}

func (m *material) Name() string { return m.name }

func (m *material) Kind() Kind { return m.kind }

func (m *material) Color() common.Color {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.color
}

func (m *material) SetColor(c common.Color) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.color = c
}

func (m *material) ColorHex() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.color.Hex()
}

func (m *material) SetColorHex(hex string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.color.SetHex(hex)
}

func (m *material) Wireframe() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.wireframe
}

func (m *material) SetWireframe(enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.wireframe = enabled
}

func (m *material) Transparent() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.transparent
}

func (m *material) SetTransparent(enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transparent = enabled
}

func (m *material) Opacity() float32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.opacity
}

func (m *material) SetOpacity(opacity float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.opacity = common.Clamp(opacity, 0, 1)
}

func (m *material) DepthWrite() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.depthWrite
}

func (m *material) SetDepthWrite(enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.depthWrite = enabled
}

func (m *material) DepthTest() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.depthTest
}

func (m *material) SetDepthTest(enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.depthTest = enabled
}

func (m *material) Blending() Blending {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.blending
}

func (m *material) SetBlending(b Blending) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blending = b
}

func (m *material) VertexColors() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.vertexColors
}

func (m *material) SetVertexColors(enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vertexColors = enabled
}

func (m *material) Roughness() float32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.roughness
}

func (m *material) SetRoughness(v float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.roughness = common.Clamp(v, 0, 1)
}

func (m *material) Metalness() float32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.metalness
}

func (m *material) SetMetalness(v float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.metalness = common.Clamp(v, 0, 1)
}

func (m *material) Size() float32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.size
}

func (m *material) SetSize(v float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v >= 0 {
		m.size = v
	}
}

func (m *material) SizeAttenuation() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sizeAttenuation
}

func (m *material) SetSizeAttenuation(enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sizeAttenuation = enabled
}

func (m *material) Map() texture.Texture {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.colorMap
}

func (m *material) SetMap(t texture.Texture) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.colorMap = t
}

func (m *material) AlphaMap() texture.Texture {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.alphaMap
}

func (m *material) SetAlphaMap(t texture.Texture) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.alphaMap = t
}
