package window

import (
	"fmt"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// Window is the windowed input surface. Events are delivered synchronously from PollEvents,
// so whoever calls PollEvents decides which goroutine handles input.
type Window interface {
	// SetEventHandler sets the function receiving every normalized event.
	//
	// Parameters:
	//   - handler: the event handler (or nil to discard events)
	SetEventHandler(handler func(Event))

	// PollEvents processes pending platform events without blocking.
	//
	// Returns:
	//   - bool: false once the window was asked to close
	PollEvents() bool

	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor suitable for creating a WebGPU surface.
	// The descriptor is platform-appropriate (Windows HWND, X11 Xlib, Wayland, macOS Metal, etc.)
	// and is created by the wgpuglfw bridge from the underlying GLFW window.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the platform-specific surface descriptor, or nil if window is not initialized
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// IsRunning returns true if the window is still active.
	//
	// Returns:
	//   - bool: true if window is running, false if closed
	IsRunning() bool

	// Close closes the window and releases platform resources.
	//
	// Returns:
	//   - error: error if close operation fails
	Close() error

	// Size returns the logical client area size.
	//
	// Returns:
	//   - width, height: logical pixels
	Size() (width, height int)

	// ContentScale returns the device pixel ratio of the monitor the window is on.
	//
	// Returns:
	//   - float32: device pixels per logical pixel
	ContentScale() float32
}

// engineWindow is the implementation of the Window interface.
type engineWindow struct {
	mu *sync.Mutex

	title string

	minWidth, minHeight int
	maxWidth, maxHeight int

	width  int
	height int
	scale  float32

	native *glfwWindow

	handler func(Event)
}

var _ Window = &engineWindow{}

// NewWindow creates and shows a window. Must be called from the main goroutine.
// Applies default values first, then each option in order.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the window
//   - error: error if the platform window could not be created
func NewWindow(options ...WindowBuilderOption) (Window, error) {
	w := &engineWindow{
		mu:        &sync.Mutex{},
		title:     "oxy-lessons",
		minWidth:  200,
		minHeight: 150,
		maxWidth:  3840,
		maxHeight: 2160,
		width:     800,
		height:    600,
		scale:     1,
	}
	for _, opt := range options {
		opt(w)
	}
	native, err := openGLFW(w)
	if err != nil {
		return nil, fmt.Errorf("failed to create platform window: %w", err)
	}
	w.native = native
	return w, nil
}

func (w *engineWindow) SetEventHandler(handler func(Event)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handler = handler
}

func (w *engineWindow) PollEvents() bool {
	if !w.native.alive() {
		return false
	}
	glfw.PollEvents()
	return w.native.alive()
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	if w.native == nil {
		return nil
	}
	return wgpuglfw.GetSurfaceDescriptor(w.native.window)
}

func (w *engineWindow) IsRunning() bool {
	return w.native.alive()
}

func (w *engineWindow) Close() error {
	if w.native == nil {
		return errNotOpen
	}
	w.native.destroy()
	return nil
}

func (w *engineWindow) Size() (width, height int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.width, w.height
}

func (w *engineWindow) ContentScale() float32 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.scale
}

// emit delivers ev to the handler outside the mutex.
func (w *engineWindow) emit(ev Event) {
	w.mu.Lock()
	handler := w.handler
	w.mu.Unlock()
	if handler != nil {
		handler(ev)
	}
}

// pointer normalizes a cursor position against the current logical size.
func (w *engineWindow) pointer(x, y float64) Pointer {
	width, height := w.Size()
	return NormalizePointer(float32(x), float32(y), width, height)
}

func (w *engineWindow) setSize(width, height int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.width, w.height = width, height
}

func (w *engineWindow) setScale(scale float32) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.scale = scale
}
