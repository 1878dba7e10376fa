package renderer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/oxy-lessons/engine/camera"
	"github.com/Carmen-Shannon/oxy-lessons/engine/scene"
)

// BackendType identifies a Backend implementation.
type BackendType int

const (
	// BackendTypeSoftware rasterizes on the CPU into an offscreen pixmap.
	BackendTypeSoftware BackendType = iota

	// BackendTypeWGPU rasterizes on the CPU and presents each frame to a window surface through WebGPU.
	BackendTypeWGPU
)

func (t BackendType) String() string {
	if t == BackendTypeWGPU {
		return "wgpu"
	}
	return "software"
}

// ParseBackendType parses "software" or "wgpu".
//
// Parameters:
//   - s: the backend name, case-insensitive
//
// Returns:
//   - BackendType: the parsed type
//   - error: error if the name is unknown
func ParseBackendType(s string) (BackendType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "software", "headless":
		return BackendTypeSoftware, nil
	case "wgpu", "gpu", "window":
		return BackendTypeWGPU, nil
	}
	return 0, fmt.Errorf("unknown backend %q", s)
}

// PresentMode controls how presented frames reach the display.
type PresentMode int

const (
	// PresentModeVSync waits for the vertical blank. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents immediately. Lowest latency, may tear.
	PresentModeUncapped
)

var (
	// ErrInvalidSize is returned by Resize for non-positive dimensions or pixel ratios.
	ErrInvalidSize = errors.New("invalid output size")

	// ErrClosed is returned by a backend used after Close.
	ErrClosed = errors.New("backend closed")
)

// FrameStats describes the most recently rendered frame.
type FrameStats struct {
	Drawables int
	Culled    int
	Triangles int
	Lines     int
	Points    int
}

// Backend draws a scene snapshot through a camera into an output buffer.
// Backends are driven from the render loop only.
type Backend interface {
	// Render draws one frame.
	//
	// Parameters:
	//   - snap: the scene snapshot to draw
	//   - cam: the camera to draw through
	//
	// Returns:
	//   - error: error if the frame could not be produced
	Render(snap scene.Snapshot, cam camera.Camera) error

	// Resize adjusts the output buffer to width*pixelRatio by height*pixelRatio.
	// Invalid sizes are rejected and the buffer is left as it was.
	//
	// Parameters:
	//   - width: CSS-pixel width
	//   - height: CSS-pixel height
	//   - pixelRatio: device pixels per CSS pixel
	//
	// Returns:
	//   - error: ErrInvalidSize or a backend error
	Resize(width, height int, pixelRatio float32) error

	// Size returns the output buffer dimensions in device pixels.
	//
	// Returns:
	//   - w, h: the buffer size
	Size() (w, h int)

	// Stats returns counters for the last rendered frame.
	Stats() FrameStats

	// Close releases the backend's resources. Idempotent.
	//
	// Returns:
	//   - error: error if releasing failed
	Close() error
}
