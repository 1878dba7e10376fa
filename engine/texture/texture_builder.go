package texture

import "github.com/go-gl/mathgl/mgl32"

// TextureBuilderOption is a function that configures a Texture during construction.
type TextureBuilderOption func(*textureImpl)

// WithFilters sets the minification and magnification filters.
//
// Parameters:
//   - min: the minification filter
//   - mag: the magnification filter
//
// Returns:
//   - TextureBuilderOption: a function that applies the filter option
func WithFilters(min, mag Filter) TextureBuilderOption {
	return func(t *textureImpl) {
		t.minFilter, t.magFilter = min, mag
	}
}

// WithMipmaps enables or disables mip chain generation.
//
// Parameters:
//   - enabled: true to generate mipmaps
//
// Returns:
//   - TextureBuilderOption: a function that applies the mipmap option
func WithMipmaps(enabled bool) TextureBuilderOption {
	return func(t *textureImpl) {
		t.generateMipmaps = enabled
	}
}

// WithColorSpace sets how the stored bytes are interpreted.
//
// Parameters:
//   - cs: the color space
//
// Returns:
//   - TextureBuilderOption: a function that applies the color space option
func WithColorSpace(cs ColorSpace) TextureBuilderOption {
	return func(t *textureImpl) {
		t.colorSpace = cs
	}
}

// WithWrap sets the wrap modes for the S and T axes.
//
// Parameters:
//   - s: the horizontal wrap mode
//   - w: the vertical wrap mode
//
// Returns:
//   - TextureBuilderOption: a function that applies the wrap option
func WithWrap(s, w Wrap) TextureBuilderOption {
	return func(t *textureImpl) {
		t.wrapS, t.wrapT = s, w
	}
}

// WithRepeat sets the UV repeat factors.
//
// Parameters:
//   - x, y: repeat counts
//
// Returns:
//   - TextureBuilderOption: a function that applies the repeat option
func WithRepeat(x, y float32) TextureBuilderOption {
	return func(t *textureImpl) {
		t.repeat = mgl32.Vec2{x, y}
	}
}

// WithOffset sets the UV offset.
//
// Parameters:
//   - x, y: offset in UV units
//
// Returns:
//   - TextureBuilderOption: a function that applies the offset option
func WithOffset(x, y float32) TextureBuilderOption {
	return func(t *textureImpl) {
		t.offset = mgl32.Vec2{x, y}
	}
}

// WithRotation sets the UV rotation around the center point.
//
// Parameters:
//   - radians: the rotation angle
//   - cx, cy: the rotation center in UV units
//
// Returns:
//   - TextureBuilderOption: a function that applies the rotation option
func WithRotation(radians, cx, cy float32) TextureBuilderOption {
	return func(t *textureImpl) {
		t.rotation = radians
		t.center = mgl32.Vec2{cx, cy}
	}
}
