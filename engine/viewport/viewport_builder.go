package viewport

// ViewportBuilderOption is a functional option for configuring a Viewport.
type ViewportBuilderOption func(*viewportImpl)

// WithSize sets the initial logical dimensions. Non-positive values are ignored.
//
// Parameters:
//   - width: logical width in pixels
//   - height: logical height in pixels
//
// Returns:
//   - ViewportBuilderOption: option function to apply
func WithSize(width, height int) ViewportBuilderOption {
	return func(v *viewportImpl) {
		if width > 0 && height > 0 {
			v.width = width
			v.height = height
		}
	}
}

// WithDevicePixelRatio sets the initial device pixel density. Non-positive values are ignored.
//
// Parameters:
//   - ratio: device pixels per logical pixel
//
// Returns:
//   - ViewportBuilderOption: option function to apply
func WithDevicePixelRatio(ratio float32) ViewportBuilderOption {
	return func(v *viewportImpl) {
		if ratio > 0 {
			v.devicePixel = ratio
		}
	}
}

// WithMaxPixelRatio caps the effective pixel ratio. Pass 0 to disable the cap.
//
// Parameters:
//   - max: the largest effective pixel ratio
//
// Returns:
//   - ViewportBuilderOption: option function to apply
func WithMaxPixelRatio(max float32) ViewportBuilderOption {
	return func(v *viewportImpl) {
		if max >= 0 {
			v.maxPixelRatio = max
		}
	}
}
