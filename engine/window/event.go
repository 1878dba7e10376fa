package window

// EventKind identifies the type of an input surface event.
type EventKind int

const (
	EventKeyDown EventKind = iota
	EventKeyUp
	EventPointerDown
	EventPointerUp
	EventPointerMove
	EventWheel
	EventResize
	EventContentScale
	EventClose
)

func (k EventKind) String() string {
	switch k {
	case EventKeyDown:
		return "key-down"
	case EventKeyUp:
		return "key-up"
	case EventPointerDown:
		return "pointer-down"
	case EventPointerUp:
		return "pointer-up"
	case EventPointerMove:
		return "pointer-move"
	case EventWheel:
		return "wheel"
	case EventResize:
		return "resize"
	case EventContentScale:
		return "content-scale"
	case EventClose:
		return "close"
	}
	return "unknown"
}

// Pointer is a pointer position in three coordinate systems.
type Pointer struct {
	// X, Y are logical window pixels from the top-left corner.
	X, Y float32

	// U, V are viewport-relative in [0, 1], V growing downwards.
	U, V float32

	// CX, CY are centered in [-0.5, 0.5], CY growing upwards.
	CX, CY float32
}

// Event is one normalized input surface event. Only the fields of its Kind are set.
type Event struct {
	Kind EventKind

	// Key is the virtual key code (see common key codes) for key events.
	Key uint32

	// Button is the pointer button for pointer down/up events.
	Button int

	// Pointer is set for every pointer event.
	Pointer Pointer

	// Delta is the wheel delta; positive scrolls up.
	Delta float32

	// Width, Height are the new logical size for resize events.
	Width, Height int

	// Scale is the new content scale (device pixel ratio).
	Scale float32
}

// NormalizePointer maps logical window pixels to viewport-relative coordinates.
// A non-positive surface size yields the center of the viewport.
//
// Parameters:
//   - x, y: logical pixel position
//   - width, height: logical surface size
//
// Returns:
//   - Pointer: the position in every coordinate system
func NormalizePointer(x, y float32, width, height int) Pointer {
	p := Pointer{X: x, Y: y, U: 0.5, V: 0.5}
	if width > 0 && height > 0 {
		p.U = x / float32(width)
		p.V = y / float32(height)
	}
	p.CX = p.U - 0.5
	p.CY = -(p.V - 0.5)
	return p
}
