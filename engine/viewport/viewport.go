package viewport

import (
	"errors"
	"fmt"
	"math"
	"sync"
)

// ErrInvalidViewport is returned when a resize asks for a non-positive dimension or pixel ratio.
var ErrInvalidViewport = errors.New("viewport dimensions must be positive")

// ResizeFunc observes viewport changes. width and height are in logical pixels.
type ResizeFunc func(width, height int, pixelRatio float32)

type viewportImpl struct {
	mu *sync.Mutex

	width         int
	height        int
	devicePixel   float32
	maxPixelRatio float32

	observers []ResizeFunc
}

// Viewport tracks the output surface dimensions and pixel density.
// It is created once per session and updated in place on resize.
type Viewport interface {
	// Width returns the logical width in pixels.
	//
	// Returns:
	//   - int: logical width
	Width() int

	// Height returns the logical height in pixels.
	//
	// Returns:
	//   - int: logical height
	Height() int

	// Aspect returns width / height.
	//
	// Returns:
	//   - float32: the aspect ratio
	Aspect() float32

	// DevicePixelRatio returns the raw device pixel density reported by the host.
	//
	// Returns:
	//   - float32: device pixels per logical pixel
	DevicePixelRatio() float32

	// PixelRatio returns the effective pixel density used for output buffers:
	// the device ratio capped at the configured maximum.
	//
	// Returns:
	//   - float32: effective pixel ratio
	PixelRatio() float32

	// BufferSize returns the output buffer size in device pixels.
	//
	// Returns:
	//   - width, height: logical size multiplied by the effective pixel ratio
	BufferSize() (width, height int)

	// Resize updates the logical dimensions and notifies observers.
	// Non-positive dimensions are rejected and leave the viewport untouched.
	//
	// Parameters:
	//   - width: new logical width
	//   - height: new logical height
	//
	// Returns:
	//   - error: ErrInvalidViewport if either dimension is not positive
	Resize(width, height int) error

	// SetDevicePixelRatio updates the device pixel density and notifies observers.
	//
	// Parameters:
	//   - ratio: device pixels per logical pixel
	//
	// Returns:
	//   - error: ErrInvalidViewport if ratio is not a positive finite number
	SetDevicePixelRatio(ratio float32) error

	// OnResize registers an observer called after every accepted change.
	// Observers run in registration order on the caller's goroutine.
	//
	// Parameters:
	//   - fn: the observer
	OnResize(fn ResizeFunc)
}

var _ Viewport = &viewportImpl{}

// NewViewport creates a Viewport. Defaults to 800x600 at pixel ratio 1, capped at 2.
//
// Parameters:
//   - options: functional options to configure the viewport
//
// Returns:
//   - Viewport: the newly created viewport
func NewViewport(options ...ViewportBuilderOption) Viewport {
	v := &viewportImpl{
		mu:            &sync.Mutex{},
		width:         800,
		height:        600,
		devicePixel:   1,
		maxPixelRatio: 2,
	}
	for _, option := range options {
		option(v)
	}
	return v
}

func (v *viewportImpl) Width() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.width
}

func (v *viewportImpl) Height() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.height
}

func (v *viewportImpl) Aspect() float32 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return float32(v.width) / float32(v.height)
}

func (v *viewportImpl) DevicePixelRatio() float32 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.devicePixel
}

func (v *viewportImpl) PixelRatio() float32 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.effectiveRatio()
}

func (v *viewportImpl) BufferSize() (width, height int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	r := v.effectiveRatio()
	return scaled(v.width, r), scaled(v.height, r)
}

func (v *viewportImpl) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("resize to %dx%d: %w", width, height, ErrInvalidViewport)
	}
	v.mu.Lock()
	v.width = width
	v.height = height
	ratio := v.effectiveRatio()
	observers := append([]ResizeFunc(nil), v.observers...)
	v.mu.Unlock()

	for _, fn := range observers {
		fn(width, height, ratio)
	}
	return nil
}

func (v *viewportImpl) SetDevicePixelRatio(ratio float32) error {
	if !(ratio > 0) || math.IsInf(float64(ratio), 0) {
		return fmt.Errorf("pixel ratio %v: %w", ratio, ErrInvalidViewport)
	}
	v.mu.Lock()
	v.devicePixel = ratio
	width, height := v.width, v.height
	eff := v.effectiveRatio()
	observers := append([]ResizeFunc(nil), v.observers...)
	v.mu.Unlock()

	for _, fn := range observers {
		fn(width, height, eff)
	}
	return nil
}

func (v *viewportImpl) OnResize(fn ResizeFunc) {
	if fn == nil {
		return
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.observers = append(v.observers, fn)
}

// effectiveRatio caps the device ratio. Caller must hold the mutex.
func (v *viewportImpl) effectiveRatio() float32 {
	if v.maxPixelRatio > 0 && v.devicePixel > v.maxPixelRatio {
		return v.maxPixelRatio
	}
	return v.devicePixel
}

func scaled(n int, ratio float32) int {
	s := int(math.Round(float64(float32(n) * ratio)))
	if s < 1 {
		return 1
	}
	return s
}
