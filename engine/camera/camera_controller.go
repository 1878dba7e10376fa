package camera

import "github.com/go-gl/mathgl/mgl32"

// CameraController maps pointer, wheel and keyboard input to orbit, pan and zoom of a Camera
// around a target point.
//
// Input always moves a goal pose expressed in spherical coordinates (radius, azimuth,
// elevation) around the target. With damping disabled the goal is written to the camera
// synchronously inside the input call. With damping enabled each Update moves the effective
// pose a fixed fraction of the remaining distance toward the goal, so Update must be called
// exactly once per frame after input is sampled and before the scene is rendered.
type CameraController interface {
	orbitCameraController
	planarCameraController
	pointerCameraController

	// Camera returns the controlled camera.
	//
	// Returns:
	//   - Camera: the camera whose pose this controller writes
	Camera() Camera

	// Target returns the goal look-at point.
	//
	// Returns:
	//   - mgl32.Vec3: world-space target position
	Target() mgl32.Vec3

	// SetTarget sets the goal look-at/pivot point, keeping the spherical offset.
	//
	// Parameters:
	//   - x, y, z: world-space coordinates
	SetTarget(x, y, z float32)

	// Zoom scales the goal orbit radius. Positive delta zooms in (closer to target).
	//
	// Parameters:
	//   - delta: zoom steps, scaled by ZoomSpeed
	Zoom(delta float32)

	// Damping reports whether input is smoothed over successive Update calls.
	//
	// Returns:
	//   - bool: true if damping is enabled
	Damping() bool

	// SetDamping enables or disables damping. Disabling snaps the effective pose to the goal.
	//
	// Parameters:
	//   - enabled: true to smooth input
	SetDamping(enabled bool)

	// DampingFactor returns the fraction of the remaining distance covered per Update, in (0, 1].
	//
	// Returns:
	//   - float32: the damping factor
	DampingFactor() float32

	// Update advances the effective pose toward the goal and writes it to the camera.
	//
	// Returns:
	//   - bool: true if the camera pose changed
	Update() bool

	// Remaining returns the distance between the effective and the goal pose,
	// measured over target position, radius and both angles.
	//
	// Returns:
	//   - float32: zero once the pose has settled
	Remaining() float32

	// Sync re-derives the goal and effective pose from the camera's current position and the target.
	Sync()

	// Enabled reports whether input is accepted.
	//
	// Returns:
	//   - bool: true if input is applied
	Enabled() bool

	// SetEnabled toggles input handling. Update keeps settling pending motion while disabled.
	//
	// Parameters:
	//   - enabled: false to ignore input
	SetEnabled(enabled bool)
}

// orbitCameraController defines orbit-specific control methods.
// Provides third-person orbit controls using spherical coordinates (radius, azimuth, elevation)
// relative to the target/pivot point.
type orbitCameraController interface {
	// OrbitLeft rotates the camera left around the target by one orbit speed step.
	OrbitLeft()

	// OrbitRight rotates the camera right around the target by one orbit speed step.
	OrbitRight()

	// OrbitUp tilts the camera upward by one orbit speed step, clamped to max elevation.
	OrbitUp()

	// OrbitDown tilts the camera downward by one orbit speed step, clamped to min elevation.
	OrbitDown()

	// Radius returns the goal orbit radius (distance from target).
	//
	// Returns:
	//   - float32: goal distance from target
	Radius() float32

	// SetRadius sets the goal orbit radius, clamped to min/max bounds.
	//
	// Parameters:
	//   - radius: new distance from target
	SetRadius(radius float32)

	// MinRadius returns the minimum allowed orbit radius.
	//
	// Returns:
	//   - float32: minimum zoom distance
	MinRadius() float32

	// MaxRadius returns the maximum allowed orbit radius.
	//
	// Returns:
	//   - float32: maximum zoom distance
	MaxRadius() float32

	// Azimuth returns the goal horizontal angle around the Y axis (0 = +Z).
	//
	// Returns:
	//   - float32: azimuth in radians
	Azimuth() float32

	// SetAzimuth sets the goal horizontal angle.
	//
	// Parameters:
	//   - azimuth: new horizontal angle in radians
	SetAzimuth(azimuth float32)

	// Elevation returns the goal vertical angle from the horizontal plane.
	//
	// Returns:
	//   - float32: elevation in radians
	Elevation() float32

	// SetElevation sets the goal vertical angle, clamped to min/max bounds.
	//
	// Parameters:
	//   - elevation: new vertical angle in radians
	SetElevation(elevation float32)

	// MinElevation returns the minimum allowed elevation angle.
	//
	// Returns:
	//   - float32: minimum elevation in radians
	MinElevation() float32

	// MaxElevation returns the maximum allowed elevation angle.
	//
	// Returns:
	//   - float32: maximum elevation in radians
	MaxElevation() float32

	// OrbitSpeed returns the keyboard orbit speed in radians per step.
	//
	// Returns:
	//   - float32: radians per orbit call
	OrbitSpeed() float32

	// RotateSpeed returns the pointer drag rotation multiplier.
	// A drag across the full viewport height at speed 1 rotates a full turn.
	//
	// Returns:
	//   - float32: multiplier for pointer rotation
	RotateSpeed() float32

	// ZoomSpeed returns the zoom speed multiplier.
	//
	// Returns:
	//   - float32: multiplier for zoom input
	ZoomSpeed() float32
}

// planarCameraController defines planar translation control methods.
// Panning shifts both the camera and the target by the same offset along the camera's
// local axes, preserving the orbit relationship.
type planarCameraController interface {
	// PanRight translates along the camera's local right axis.
	//
	// Parameters:
	//   - delta: world units, scaled by PanSpeed
	PanRight(delta float32)

	// PanUp translates along the camera's local up axis.
	//
	// Parameters:
	//   - delta: world units, scaled by PanSpeed
	PanUp(delta float32)

	// PanForward translates along the camera's local forward axis.
	//
	// Parameters:
	//   - delta: world units, scaled by PanSpeed
	PanForward(delta float32)

	// PanSpeed returns the pan speed multiplier.
	//
	// Returns:
	//   - float32: multiplier for pan input
	PanSpeed() float32
}

// pointerCameraController maps raw input surface events to orbit and pan gestures.
// Coordinates are in logical viewport pixels.
type pointerCameraController interface {
	// PointerDown starts a drag: left button orbits (pans while shift is held), right button pans.
	//
	// Parameters:
	//   - button: common.MouseButtonLeft, Right or Middle
	//   - x, y: pointer position
	PointerDown(button int, x, y float32)

	// PointerMove continues the active drag, if any.
	//
	// Parameters:
	//   - x, y: pointer position
	PointerMove(x, y float32)

	// PointerUp ends the drag started with button.
	//
	// Parameters:
	//   - button: the released button
	PointerUp(button int)

	// Wheel zooms. Positive delta (scroll up) zooms in.
	//
	// Parameters:
	//   - delta: wheel steps
	Wheel(delta float32)

	// KeyDown handles arrow-key panning and shift tracking.
	//
	// Parameters:
	//   - key: virtual key code from common
	KeyDown(key uint32)

	// KeyUp handles shift tracking.
	//
	// Parameters:
	//   - key: virtual key code from common
	KeyUp(key uint32)
}
