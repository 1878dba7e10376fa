package renderer

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// New creates the backend selected by backendType.
// The WGPU backend requires a surface descriptor supplied with WithSurface.
//
// Parameters:
//   - backendType: the backend to create
//   - options: a variadic list of RendererBuilderOption functions
//
// Returns:
//   - Backend: the backend
//   - error: error if the backend could not be created
func New(backendType BackendType, options ...RendererBuilderOption) (Backend, error) {
	cfg := newConfig(options)
	switch backendType {
	case BackendTypeSoftware:
		return newSoftwareBackend(cfg), nil
	case BackendTypeWGPU:
		if cfg.surface == nil {
			return nil, fmt.Errorf("wgpu backend: %w", errNoSurface)
		}
		return newPresentBackend(cfg)
	}
	return nil, fmt.Errorf("unsupported backend %v", backendType)
}

// NewSoftwareBackend creates a headless Backend rasterizing with gg.
//
// Parameters:
//   - options: a variadic list of RendererBuilderOption functions
//
// Returns:
//   - *SoftwareBackend: the backend
func NewSoftwareBackend(options ...RendererBuilderOption) *SoftwareBackend {
	return newSoftwareBackend(newConfig(options))
}

// NewPresentBackend creates a Backend presenting software-rasterized frames to a window surface.
//
// Parameters:
//   - surface: the platform surface descriptor of the window
//   - options: a variadic list of RendererBuilderOption functions
//
// Returns:
//   - Backend: the backend
//   - error: error if no adapter or device could be acquired
func NewPresentBackend(surface *wgpu.SurfaceDescriptor, options ...RendererBuilderOption) (Backend, error) {
	cfg := newConfig(options)
	cfg.surface = surface
	return newPresentBackend(cfg)
}
