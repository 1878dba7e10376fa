package renderer

import (
	"errors"

	"github.com/Carmen-Shannon/oxy-lessons/common"
	"github.com/cogentcore/webgpu/wgpu"
	"go.uber.org/zap"
)

var errNoSurface = errors.New("no surface descriptor")

// config collects builder options before a backend is created.
type config struct {
	width, height int
	pixelRatio    float32
	lineWidth     float64
	clearAlpha    float32
	backfaceCull  bool
	logger        *zap.Logger

	surface              *wgpu.SurfaceDescriptor
	presentMode          PresentMode
	forceFallbackAdapter bool
}

// RendererBuilderOption is a functional option applied to a backend during construction.
type RendererBuilderOption func(*config)

func newConfig(options []RendererBuilderOption) *config {
	cfg := &config{
		width:        800,
		height:       600,
		pixelRatio:   1,
		lineWidth:    1,
		clearAlpha:   1,
		backfaceCull: true,
	}
	for _, option := range options {
		option(cfg)
	}
	cfg.logger = common.LoggerOrNop(cfg.logger)
	return cfg
}

// WithSize sets the initial output size in CSS pixels and the pixel ratio.
//
// Parameters:
//   - width: CSS-pixel width
//   - height: CSS-pixel height
//   - pixelRatio: device pixels per CSS pixel
//
// Returns:
//   - RendererBuilderOption: a function that applies the size option
func WithSize(width, height int, pixelRatio float32) RendererBuilderOption {
	return func(c *config) {
		if width > 0 && height > 0 {
			c.width, c.height = width, height
		}
		if pixelRatio > 0 {
			c.pixelRatio = pixelRatio
		}
	}
}

// WithLineWidth sets the stroke width of wireframe edges and line geometries in device pixels.
//
// Parameters:
//   - w: the line width
//
// Returns:
//   - RendererBuilderOption: a function that applies the line width option
func WithLineWidth(w float64) RendererBuilderOption {
	return func(c *config) {
		if w > 0 {
			c.lineWidth = w
		}
	}
}

// WithClearAlpha sets the alpha the buffer is cleared to each frame.
//
// Parameters:
//   - a: alpha in [0, 1]
//
// Returns:
//   - RendererBuilderOption: a function that applies the clear alpha option
func WithClearAlpha(a float32) RendererBuilderOption {
	return func(c *config) {
		c.clearAlpha = common.Clamp(a, 0, 1)
	}
}

// WithBackfaceCulling toggles culling of triangles facing away from the camera.
//
// Parameters:
//   - enabled: true to cull back faces (the default)
//
// Returns:
//   - RendererBuilderOption: a function that applies the culling option
func WithBackfaceCulling(enabled bool) RendererBuilderOption {
	return func(c *config) {
		c.backfaceCull = enabled
	}
}

// WithLogger sets the structured logger.
//
// Parameters:
//   - logger: the logger
//
// Returns:
//   - RendererBuilderOption: a function that applies the logger option
func WithLogger(logger *zap.Logger) RendererBuilderOption {
	return func(c *config) {
		if logger != nil {
			c.logger = logger.Named("renderer")
		}
	}
}

// WithSurface sets the window surface the WGPU backend presents to.
//
// Parameters:
//   - surface: the platform surface descriptor
//
// Returns:
//   - RendererBuilderOption: a function that applies the surface option
func WithSurface(surface *wgpu.SurfaceDescriptor) RendererBuilderOption {
	return func(c *config) {
		c.surface = surface
	}
}

// WithPresentMode sets how the WGPU backend delivers frames to the display.
//
// Parameters:
//   - mode: PresentModeVSync or PresentModeUncapped
//
// Returns:
//   - RendererBuilderOption: a function that applies the present mode option
func WithPresentMode(mode PresentMode) RendererBuilderOption {
	return func(c *config) {
		c.presentMode = mode
	}
}

// WithForceFallbackAdapter requests the software fallback adapter from WebGPU.
//
// Parameters:
//   - force: true to force the fallback adapter
//
// Returns:
//   - RendererBuilderOption: a function that applies the adapter option
func WithForceFallbackAdapter(force bool) RendererBuilderOption {
	return func(c *config) {
		c.forceFallbackAdapter = force
	}
}
