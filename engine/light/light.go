package light

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-lessons/common"
	"github.com/Carmen-Shannon/oxy-lessons/engine/entity"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Kind identifies the kind of light source.
type Kind int

const (
	// KindAmbient lights every surface uniformly from all directions.
	KindAmbient Kind = iota

	// KindHemisphere blends a sky color and a ground color by how much a surface faces up.
	KindHemisphere

	// KindDirectional represents a light whose rays are parallel, travelling from its
	// position toward its target. Used for large distant sources like the sun.
	KindDirectional

	// KindPoint emits in all directions from a position and fades with distance.
	KindPoint

	// KindSpot emits in a cone from a position toward its target. Attenuates with both
	// distance and angle from the cone axis, softened by the penumbra.
	KindSpot

	// KindRectArea emits from a rectangle facing its target. Only lit materials react to it.
	KindRectArea
)

func (k Kind) String() string {
	switch k {
	case KindHemisphere:
		return "hemisphere"
	case KindDirectional:
		return "directional"
	case KindPoint:
		return "point"
	case KindSpot:
		return "spot"
	case KindRectArea:
		return "rect-area"
	default:
		return "ambient"
	}
}

// lightImpl is the implementation of the Light interface.
type lightImpl struct {
	entity.Entity

	mu *sync.Mutex

	kind        Kind
	color       common.Color
	groundColor common.Color
	intensity   float32
	distance    float32
	decay       float32
	angle       float32
	penumbra    float32
	width       float32
	height      float32
	target      entity.Entity
	enabled     bool
}

// Light is a scene entity with no shape that contributes color to lit surfaces.
// Lights are created once at scene setup and mutated by the parameter panel.
// Kind-specific properties return their stored value even when the kind ignores them.
type Light interface {
	entity.Entity

	// Kind returns the kind of light source.
	//
	// Returns:
	//   - Kind: ambient, hemisphere, directional, point, spot or rect-area
	Kind() Kind

	// Color returns the linear light color (the sky color for hemisphere lights).
	//
	// Returns:
	//   - common.Color: the linear color
	Color() common.Color

	// SetColor assigns a linear light color.
	//
	// Parameters:
	//   - c: the linear color
	SetColor(c common.Color)

	// ColorHex returns the light color as an sRGB hex string.
	ColorHex() string

	// SetColorHex parses an sRGB hex string and stores it as linear color.
	//
	// Parameters:
	//   - hex: the sRGB hex string
	//
	// Returns:
	//   - error: error if hex is not a valid color; the color is unchanged
	SetColorHex(hex string) error

	// GroundColor returns the hemisphere ground color.
	GroundColor() common.Color

	// SetGroundColorHex sets the hemisphere ground color from an sRGB hex string.
	//
	// Parameters:
	//   - hex: the sRGB hex string
	//
	// Returns:
	//   - error: error if hex is not a valid color
	SetGroundColorHex(hex string) error

	// Intensity returns the scalar intensity multiplier.
	Intensity() float32

	// SetIntensity sets the scalar intensity multiplier. Negative values are ignored.
	//
	// Parameters:
	//   - intensity: the intensity value
	SetIntensity(intensity float32)

	// Distance returns the cutoff distance of point and spot lights. Zero means no cutoff.
	Distance() float32
	SetDistance(distance float32)

	// Decay returns the distance falloff exponent of point and spot lights.
	Decay() float32
	SetDecay(decay float32)

	// Angle returns the spot cone half-angle in radians, at most pi/2.
	Angle() float32
	SetAngle(radians float32)

	// Penumbra returns the fraction of the spot cone that fades out, in [0, 1].
	Penumbra() float32
	SetPenumbra(penumbra float32)

	// Size returns the rect-area light width and height.
	Size() (width, height float32)
	SetSize(width, height float32)

	// Target returns the entity directional, spot and rect-area lights point at.
	// It starts at the origin and may be moved or added to the scene like any entity.
	//
	// Returns:
	//   - entity.Entity: the target
	Target() entity.Entity

	// Direction returns the normalized world-space direction light travels, from the
	// light toward its target. Zero for lights without a direction.
	//
	// Returns:
	//   - mgl32.Vec3: the direction
	Direction() mgl32.Vec3

	// Enabled reports whether the light contributes to shading.
	Enabled() bool
	SetEnabled(enabled bool)

	// Contribution evaluates the light arriving at a surface point.
	//
	// Parameters:
	//   - p: world-space surface position
	//   - n: normalized world-space surface normal
	//
	// Returns:
	//   - common.Color: the linear irradiance, already scaled by intensity and color
	Contribution(p, n mgl32.Vec3) common.Color
}

var _ Light = &lightImpl{}

func newLight(kind Kind, opts ...LightBuilderOption) Light {
	l := &lightImpl{
		Entity:      entity.New(entity.WithName(kind.String() + "-light")),
		mu:          &sync.Mutex{},
		kind:        kind,
		color:       common.White,
		groundColor: common.White,
		intensity:   1,
		decay:       2,
		angle:       math32.Pi / 3,
		width:       10,
		height:      10,
		target:      entity.New(entity.WithName("light-target")),
		enabled:     true,
	}
	if kind == KindDirectional || kind == KindHemisphere {
		l.SetPosition(0, 1, 0)
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// NewAmbient creates a light that brightens every surface equally.
//
// Parameters:
//   - opts: variadic list of LightBuilderOption functions to configure the light
//
// Returns:
//   - Light: a new ambient light
func NewAmbient(opts ...LightBuilderOption) Light {
	return newLight(KindAmbient, opts...)
}

// NewHemisphere creates a sky/ground gradient light. The light's position gives the sky direction.
//
// Parameters:
//   - opts: variadic list of LightBuilderOption functions to configure the light
//
// Returns:
//   - Light: a new hemisphere light
func NewHemisphere(opts ...LightBuilderOption) Light {
	return newLight(KindHemisphere, opts...)
}

// NewDirectional creates a parallel-ray light shining from its position toward its target.
//
// Parameters:
//   - opts: variadic list of LightBuilderOption functions to configure the light
//
// Returns:
//   - Light: a new directional light
func NewDirectional(opts ...LightBuilderOption) Light {
	return newLight(KindDirectional, opts...)
}

// NewPoint creates a light that shines from a point in all directions.
//
// Parameters:
//   - opts: variadic list of LightBuilderOption functions to configure the light
//
// Returns:
//   - Light: a new point light
func NewPoint(opts ...LightBuilderOption) Light {
	return newLight(KindPoint, opts...)
}

// NewSpot creates a cone light aimed at its target.
//
// Parameters:
//   - opts: variadic list of LightBuilderOption functions to configure the light
//
// Returns:
//   - Light: a new spot light
func NewSpot(opts ...LightBuilderOption) Light {
	return newLight(KindSpot, opts...)
}

// NewRectArea creates a rectangular emitter facing its target.
//
// Parameters:
//   - opts: variadic list of LightBuilderOption functions to configure the light
//
// Returns:
//   - Light: a new rect-area light
func NewRectArea(opts ...LightBuilderOption) Light {
	return newLight(KindRectArea, opts...)
}

func (l *lightImpl) Kind() Kind {
	return l.kind
}

func (l *lightImpl) Color() common.Color {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.color
}

func (l *lightImpl) SetColor(c common.Color) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.color = c
}

func (l *lightImpl) ColorHex() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.color.Hex()
}

func (l *lightImpl) SetColorHex(hex string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.color.SetHex(hex)
}

func (l *lightImpl) GroundColor() common.Color {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.groundColor
}

func (l *lightImpl) SetGroundColorHex(hex string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.groundColor.SetHex(hex)
}

func (l *lightImpl) Intensity() float32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.intensity
}

func (l *lightImpl) SetIntensity(intensity float32) {
	if intensity < 0 || !common.Finite(intensity) {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.intensity = intensity
}

func (l *lightImpl) Distance() float32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.distance
}

func (l *lightImpl) SetDistance(distance float32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.distance = max(distance, 0)
}

func (l *lightImpl) Decay() float32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.decay
}

func (l *lightImpl) SetDecay(decay float32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.decay = max(decay, 0)
}

func (l *lightImpl) Angle() float32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.angle
}

func (l *lightImpl) SetAngle(radians float32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.angle = common.Clamp(radians, 0, math32.Pi/2)
}

func (l *lightImpl) Penumbra() float32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.penumbra
}

func (l *lightImpl) SetPenumbra(penumbra float32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.penumbra = common.Clamp(penumbra, 0, 1)
}

func (l *lightImpl) Size() (width, height float32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.width, l.height
}

func (l *lightImpl) SetSize(width, height float32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.width, l.height = max(width, 0), max(height, 0)
}

func (l *lightImpl) Target() entity.Entity {
	return l.target
}

func (l *lightImpl) Direction() mgl32.Vec3 {
	switch l.kind {
	case KindDirectional, KindSpot, KindRectArea:
		dir, _ := common.SafeNormalize(l.target.WorldPosition().Sub(l.WorldPosition()))
		return dir
	default:
		return mgl32.Vec3{}
	}
}

func (l *lightImpl) Enabled() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.enabled
}

func (l *lightImpl) SetEnabled(enabled bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.enabled = enabled
}

func (l *lightImpl) Contribution(p, n mgl32.Vec3) common.Color {
	if !l.Enabled() || !l.Visible() {
		return common.Color{}
	}
	pos := l.WorldPosition()
	dir := l.Direction()

	l.mu.Lock()
	defer l.mu.Unlock()
	radiance := l.color.Scale(l.intensity)

	switch l.kind {
	case KindAmbient:
		return radiance

	case KindHemisphere:
		up, ok := common.SafeNormalize(pos)
		if !ok {
			up = mgl32.Vec3{0, 1, 0}
		}
		w := 0.5*n.Dot(up) + 0.5
		sky := l.color.Scale(w)
		ground := l.groundColor.Scale(1 - w)
		return sky.Add(ground).Scale(l.intensity)

	case KindDirectional:
		return radiance.Scale(max(n.Dot(dir.Mul(-1)), 0))

	case KindPoint, KindSpot:
		toLight := pos.Sub(p)
		d := toLight.Len()
		if d < common.Epsilon {
			return common.Color{}
		}
		lv := toLight.Mul(1 / d)
		f := max(n.Dot(lv), 0) * l.attenuation(d)
		if l.kind == KindSpot {
			f *= l.coneFactor(lv.Mul(-1).Dot(dir))
		}
		return radiance.Scale(f)

	case KindRectArea:
		toLight := pos.Sub(p)
		d2 := toLight.Dot(toLight)
		lv, ok := common.SafeNormalize(toLight)
		if !ok {
			return common.Color{}
		}
		// point-source approximation of the emitting rectangle
		facing := max(lv.Mul(-1).Dot(dir), 0)
		f := max(n.Dot(lv), 0) * facing * l.width * l.height / (math32.Pi * max(d2, 0.01))
		return radiance.Scale(min(f, 1))
	}
	return common.Color{}
}

// attenuation is the windowed inverse-power falloff. Caller must hold the mutex.
func (l *lightImpl) attenuation(d float32) float32 {
	falloff := 1 / max(math32.Pow(d, l.decay), 0.01)
	if l.distance > 0 {
		w := common.Clamp(1-math32.Pow(d/l.distance, 4), 0, 1)
		falloff *= w * w
	}
	return falloff
}

// coneFactor fades from full intensity inside the penumbra to zero at the cone edge.
// Caller must hold the mutex.
func (l *lightImpl) coneFactor(cosTheta float32) float32 {
	cosOuter := math32.Cos(l.angle)
	cosInner := math32.Cos(l.angle * (1 - l.penumbra))
	if cosInner-cosOuter < common.Epsilon {
		if cosTheta >= cosOuter {
			return 1
		}
		return 0
	}
	t := common.Clamp((cosTheta-cosOuter)/(cosInner-cosOuter), 0, 1)
	return t * t * (3 - 2*t)
}
