package tween

import "github.com/chewxy/math32"

// Ease maps linear progress in [0, 1] to eased progress. Every ease returns 0 at 0 and 1 at 1.
type Ease func(t float32) float32

var (
	Linear Ease = func(t float32) float32 { return t }

	Power1In  Ease = func(t float32) float32 { return t * t }
	Power1Out Ease = func(t float32) float32 { return 1 - (1-t)*(1-t) }

	Power1InOut Ease = func(t float32) float32 {
		if t < 0.5 {
			return 2 * t * t
		}
		return 1 - 2*(1-t)*(1-t)
	}

	Power2Out Ease = func(t float32) float32 {
		u := 1 - t
		return 1 - u*u*u
	}

	SineInOut Ease = func(t float32) float32 {
		return -(math32.Cos(math32.Pi*t) - 1) / 2
	}
)
