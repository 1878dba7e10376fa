package engine

import (
	"io/fs"

	"github.com/Carmen-Shannon/oxy-lessons/engine/camera"
	"github.com/Carmen-Shannon/oxy-lessons/engine/driver"
	"github.com/Carmen-Shannon/oxy-lessons/engine/panel"
	"github.com/Carmen-Shannon/oxy-lessons/engine/renderer"
	"github.com/Carmen-Shannon/oxy-lessons/engine/scene"
	"github.com/Carmen-Shannon/oxy-lessons/engine/window"
	"go.uber.org/zap"
)

// EngineBuilderOption is a functional option for configuring an Engine via NewEngine.
type EngineBuilderOption func(*engine)

// WithLogger sets the session logger. Every component logs through a named child of it.
//
// Parameters:
//   - logger: the logger
//
// Returns:
//   - EngineBuilderOption: a function that applies the logger option to an engine
func WithLogger(logger *zap.Logger) EngineBuilderOption {
	return func(e *engine) {
		e.logger = logger
	}
}

// WithSize sets the initial logical viewport size. Ignored when a window is attached.
//
// Parameters:
//   - width, height: logical pixels
//
// Returns:
//   - EngineBuilderOption: a function that applies the size option to an engine
func WithSize(width, height int) EngineBuilderOption {
	return func(e *engine) {
		if width > 0 && height > 0 {
			e.width, e.height = width, height
		}
	}
}

// WithPixelRatio sets the device pixel ratio and the cap applied to it.
//
// Parameters:
//   - ratio: device pixels per logical pixel
//   - maxRatio: the largest ratio the backend renders at, 0 for the viewport default
//
// Returns:
//   - EngineBuilderOption: a function that applies the pixel ratio option to an engine
func WithPixelRatio(ratio, maxRatio float32) EngineBuilderOption {
	return func(e *engine) {
		if ratio > 0 {
			e.pixelRatio = ratio
		}
		e.maxPixelRatio = maxRatio
	}
}

// WithFPS sets the refresh rate of the default ticker source.
//
// Parameters:
//   - fps: refreshes per second
//
// Returns:
//   - EngineBuilderOption: a function that applies the rate option to an engine
func WithFPS(fps int) EngineBuilderOption {
	return func(e *engine) {
		if fps > 0 {
			e.fps = fps
		}
	}
}

// WithRefreshSource replaces the default ticker, e.g. with a driver.ManualSource for headless runs.
//
// Parameters:
//   - source: the refresh source
//
// Returns:
//   - EngineBuilderOption: a function that applies the source option to an engine
func WithRefreshSource(source driver.RefreshSource) EngineBuilderOption {
	return func(e *engine) {
		e.source = source
	}
}

// WithBackend supplies a render backend instead of the default one.
//
// Parameters:
//   - backend: the backend
//
// Returns:
//   - EngineBuilderOption: a function that applies the backend option to an engine
func WithBackend(backend renderer.Backend) EngineBuilderOption {
	return func(e *engine) {
		e.backend = backend
	}
}

// WithWindow attaches a window: its events drive the viewport and the controller and,
// unless WithBackend is given, frames are presented to it.
//
// Parameters:
//   - w: the window
//
// Returns:
//   - EngineBuilderOption: a function that applies the window option to an engine
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithCamera supplies the initial camera rig.
//
// Parameters:
//   - cam: the camera
//
// Returns:
//   - EngineBuilderOption: a function that applies the camera option to an engine
func WithCamera(cam camera.Camera) EngineBuilderOption {
	return func(e *engine) {
		e.cam = cam
	}
}

// WithScene supplies the scene registry.
//
// Parameters:
//   - s: the scene
//
// Returns:
//   - EngineBuilderOption: a function that applies the scene option to an engine
func WithScene(s scene.Scene) EngineBuilderOption {
	return func(e *engine) {
		e.scene = s
	}
}

// WithPanel supplies the parameter panel.
//
// Parameters:
//   - p: the panel
//
// Returns:
//   - EngineBuilderOption: a function that applies the panel option to an engine
func WithPanel(p panel.Panel) EngineBuilderOption {
	return func(e *engine) {
		e.panel = p
	}
}

// WithAssets sets the file system the texture loader reads from.
//
// Parameters:
//   - fsys: the asset file system
//
// Returns:
//   - EngineBuilderOption: a function that applies the assets option to an engine
func WithAssets(fsys fs.FS) EngineBuilderOption {
	return func(e *engine) {
		e.loaderFS = fsys
	}
}

// WithProfiling logs frame and memory stats every second.
//
// Parameters:
//   - enabled: true to profile
//
// Returns:
//   - EngineBuilderOption: a function that applies the profiling option to an engine
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profiling = enabled
	}
}
