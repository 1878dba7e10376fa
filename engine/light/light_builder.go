package light

import (
	"github.com/Carmen-Shannon/oxy-lessons/common"
	"github.com/chewxy/math32"
)

// LightBuilderOption is a function that configures a Light instance during construction.
type LightBuilderOption func(*lightImpl)

// WithPosition is an option builder that sets the local position of the light.
//
// Parameters:
//   - x: the x position component
//   - y: the y position component
//   - z: the z position component
//
// Returns:
//   - LightBuilderOption: a function that applies the position option to a lightImpl
func WithPosition(x, y, z float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.SetPosition(x, y, z)
	}
}

// WithTarget is an option builder that moves the light's target, the point directional,
// spot and rect-area lights shine toward.
//
// Parameters:
//   - x: the x target component
//   - y: the y target component
//   - z: the z target component
//
// Returns:
//   - LightBuilderOption: a function that applies the target option to a lightImpl
func WithTarget(x, y, z float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.target.SetPosition(x, y, z)
	}
}

// WithColor is an option builder that sets the linear color of the light.
//
// Parameters:
//   - c: the linear color
//
// Returns:
//   - LightBuilderOption: a function that applies the color option to a lightImpl
func WithColor(c common.Color) LightBuilderOption {
	return func(l *lightImpl) {
		l.color = c
	}
}

// WithColorHex is an option builder that sets the color of the light from an sRGB
// hex string. Invalid strings keep the default white.
//
// Parameters:
//   - hex: the sRGB hex string
//
// Returns:
//   - LightBuilderOption: a function that applies the color option to a lightImpl
func WithColorHex(hex string) LightBuilderOption {
	return func(l *lightImpl) {
		_ = l.color.SetHex(hex)
	}
}

// WithGroundColorHex is an option builder that sets the hemisphere ground color.
//
// Parameters:
//   - hex: the sRGB hex string
//
// Returns:
//   - LightBuilderOption: a function that applies the ground color option to a lightImpl
func WithGroundColorHex(hex string) LightBuilderOption {
	return func(l *lightImpl) {
		_ = l.groundColor.SetHex(hex)
	}
}

// WithIntensity is an option builder that sets the scalar intensity multiplier.
//
// Parameters:
//   - intensity: the intensity value
//
// Returns:
//   - LightBuilderOption: a function that applies the intensity option to a lightImpl
func WithIntensity(intensity float32) LightBuilderOption {
	return func(l *lightImpl) {
		if intensity >= 0 {
			l.intensity = intensity
		}
	}
}

// WithDistance is an option builder that sets the cutoff distance for point and spot
// lights. Zero disables the cutoff.
//
// Parameters:
//   - distance: the cutoff distance
//
// Returns:
//   - LightBuilderOption: a function that applies the distance option to a lightImpl
func WithDistance(distance float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.distance = max(distance, 0)
	}
}

// WithDecay is an option builder that sets the falloff exponent for point and spot lights.
//
// Parameters:
//   - decay: the exponent, 2 is physically correct
//
// Returns:
//   - LightBuilderOption: a function that applies the decay option to a lightImpl
func WithDecay(decay float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.decay = max(decay, 0)
	}
}

// WithAngle is an option builder that sets the spot cone half-angle in radians.
//
// Parameters:
//   - radians: the half-angle, clamped to [0, pi/2]
//
// Returns:
//   - LightBuilderOption: a function that applies the angle option to a lightImpl
func WithAngle(radians float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.angle = common.Clamp(radians, 0, math32.Pi/2)
	}
}

// WithPenumbra is an option builder that sets the softened fraction of the spot cone.
//
// Parameters:
//   - penumbra: fraction in [0, 1]
//
// Returns:
//   - LightBuilderOption: a function that applies the penumbra option to a lightImpl
func WithPenumbra(penumbra float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.penumbra = common.Clamp(penumbra, 0, 1)
	}
}

// WithSize is an option builder that sets the rect-area light dimensions.
//
// Parameters:
//   - width: the emitter width
//   - height: the emitter height
//
// Returns:
//   - LightBuilderOption: a function that applies the size option to a lightImpl
func WithSize(width, height float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.width, l.height = max(width, 0), max(height, 0)
	}
}

// WithEnabled is an option builder that sets whether the light contributes to shading.
//
// Parameters:
//   - enabled: true to enable the light
//
// Returns:
//   - LightBuilderOption: a function that applies the enabled option to a lightImpl
func WithEnabled(enabled bool) LightBuilderOption {
	return func(l *lightImpl) {
		l.enabled = enabled
	}
}
