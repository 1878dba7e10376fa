package tween

// TweenOption is a functional option for configuring a Tween.
type TweenOption func(*tween)

// WithDuration sets the tween length in seconds. Defaults to 0.5.
//
// Parameters:
//   - seconds: the duration; zero jumps straight to the destination
//
// Returns:
//   - TweenOption: option function to apply
func WithDuration(seconds float32) TweenOption {
	return func(t *tween) {
		t.duration = max(seconds, 0)
	}
}

// WithDelay postpones the start. The start value is read when the delay ends.
//
// Parameters:
//   - seconds: the delay
//
// Returns:
//   - TweenOption: option function to apply
func WithDelay(seconds float32) TweenOption {
	return func(t *tween) {
		t.delay = max(seconds, 0)
	}
}

// WithEase sets the easing curve. Defaults to Power1Out.
//
// Parameters:
//   - ease: the curve
//
// Returns:
//   - TweenOption: option function to apply
func WithEase(ease Ease) TweenOption {
	return func(t *tween) {
		if ease != nil {
			t.ease = ease
		}
	}
}

// OnStart registers a hook fired when the delay ends.
func OnStart(fn func()) TweenOption {
	return func(t *tween) {
		t.onStart = fn
	}
}

// OnComplete registers a hook fired once the destination is reached. Not fired on Kill.
func OnComplete(fn func()) TweenOption {
	return func(t *tween) {
		t.onComplete = fn
	}
}
