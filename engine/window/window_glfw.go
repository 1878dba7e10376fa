package window

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// glfwWindow holds the GLFW-specific window state.
type glfwWindow struct {
	window  *glfw.Window
	running bool
}

// GLFW calls must come from the main thread.
func init() {
	runtime.LockOSThread()
}

// errNotOpen is returned when closing a window whose platform side never opened.
var errNotOpen = errors.New("window is not open")

// openGLFW creates the GLFW window and routes its callbacks into w as normalized events.
//
// GLFW reference: https://www.glfw.org/docs/latest/window_guide.html
func openGLFW(w *engineWindow) (*glfwWindow, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize GLFW: %w", err)
	}

	// WebGPU provides its own graphics API, so disable OpenGL context creation.
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.ScaleToMonitor, glfw.True)

	win, err := glfw.CreateWindow(w.width, w.height, w.title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to create GLFW window: %w", err)
	}
	win.SetSizeLimits(w.minWidth, w.minHeight, w.maxWidth, w.maxHeight)

	gw := &glfwWindow{window: win, running: true}

	win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if key == glfw.KeyEscape && action == glfw.Press {
			win.SetShouldClose(true)
			w.emit(Event{Kind: EventClose})
			return
		}
		switch action {
		case glfw.Press, glfw.Repeat:
			w.emit(Event{Kind: EventKeyDown, Key: uint32(key)})
		case glfw.Release:
			w.emit(Event{Kind: EventKeyUp, Key: uint32(key)})
		}
	})

	win.SetScrollCallback(func(_ *glfw.Window, xoff, yoff float64) {
		x, y := win.GetCursorPos()
		w.emit(Event{Kind: EventWheel, Delta: float32(yoff), Pointer: w.pointer(x, y)})
	})

	win.SetMouseButtonCallback(func(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		x, y := win.GetCursorPos()
		ev := Event{Button: int(button), Pointer: w.pointer(x, y)}
		switch action {
		case glfw.Press:
			ev.Kind = EventPointerDown
		case glfw.Release:
			ev.Kind = EventPointerUp
		default:
			return
		}
		w.emit(ev)
	})

	// cursor positions are in screen coordinates, which are the logical pixels
	win.SetCursorPosCallback(func(_ *glfw.Window, xpos, ypos float64) {
		w.emit(Event{Kind: EventPointerMove, Pointer: w.pointer(xpos, ypos)})
	})

	win.SetSizeCallback(func(_ *glfw.Window, width, height int) {
		w.setSize(width, height)
		w.emit(Event{Kind: EventResize, Width: width, Height: height})
	})

	win.SetContentScaleCallback(func(_ *glfw.Window, x, y float32) {
		w.setScale(x)
		w.emit(Event{Kind: EventContentScale, Scale: x})
	})

	win.SetCloseCallback(func(_ *glfw.Window) {
		w.emit(Event{Kind: EventClose})
	})

	width, height := win.GetSize()
	w.setSize(width, height)
	if sx, _ := win.GetContentScale(); sx > 0 {
		w.setScale(sx)
	}
	return gw, nil
}

// alive reports whether the window is open and no close was requested.
func (gw *glfwWindow) alive() bool {
	return gw != nil && gw.running && !gw.window.ShouldClose()
}

// destroy tears the window down and terminates GLFW. Repeated calls do nothing.
func (gw *glfwWindow) destroy() {
	if !gw.running {
		return
	}
	gw.running = false
	gw.window.Destroy()
	glfw.Terminate()
}
