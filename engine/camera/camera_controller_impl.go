package camera

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-lessons/common"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Surface is the part of the viewport the controller needs to normalize pointer deltas.
type Surface interface {
	Height() int
}

// settleEpsilon is the per-component distance below which the effective pose snaps to the goal.
const settleEpsilon float32 = 1e-6

type dragMode int

const (
	dragNone dragMode = iota
	dragRotate
	dragPan
)

// orbitState is a pose in spherical coordinates around a target.
type orbitState struct {
	target    mgl32.Vec3
	radius    float32
	azimuth   float32
	elevation float32
}

// offset returns the camera position relative to the target.
func (s orbitState) offset() mgl32.Vec3 {
	cosElev, sinElev := math32.Cos(s.elevation), math32.Sin(s.elevation)
	cosAzim, sinAzim := math32.Cos(s.azimuth), math32.Sin(s.azimuth)
	return mgl32.Vec3{
		s.radius * cosElev * sinAzim,
		s.radius * sinElev,
		s.radius * cosElev * cosAzim,
	}
}

// cameraControllerImpl is the single implementation of CameraController.
// goal receives input; current is what the camera shows.
type cameraControllerImpl struct {
	mu *sync.Mutex

	cam     Camera
	surface Surface

	goal    orbitState
	current orbitState

	// Orbit constraints
	minRadius    float32
	maxRadius    float32
	minElevation float32
	maxElevation float32

	// Speed settings
	orbitSpeed  float32
	rotateSpeed float32
	zoomSpeed   float32
	panSpeed    float32
	keyPanSpeed float32 // pixels per arrow key press

	damping       bool
	dampingFactor float32
	enabled       bool

	drag         dragMode
	dragButton   int
	lastX, lastY float32
	shift        bool
}

var _ CameraController = &cameraControllerImpl{}

// NewCameraController creates a controller for cam. The initial goal pose is derived from the
// camera's current position relative to the target (the origin unless WithTarget is given).
// Panics if cam or surface is nil.
//
// Parameters:
//   - cam: the camera to control
//   - surface: the viewport the pointer input is measured against
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewCameraController(cam Camera, surface Surface, options ...CameraControllerOption) CameraController {
	if cam == nil || surface == nil {
		panic("camera controller requires a camera and a surface")
	}
	cc := &cameraControllerImpl{
		mu:      &sync.Mutex{},
		cam:     cam,
		surface: surface,

		minRadius:    0.01,
		maxRadius:    1e4,
		minElevation: -math32.Pi/2 + 0.01,
		maxElevation: math32.Pi/2 - 0.01,

		orbitSpeed:  0.03,
		rotateSpeed: 1,
		zoomSpeed:   1,
		panSpeed:    1,
		keyPanSpeed: 7,

		dampingFactor: 0.05,
		enabled:       true,
	}

	for _, option := range options {
		option(cc)
	}

	cc.sync()
	return cc
}

// NewOrbitController creates a damped controller, the common configuration for orbiting a subject.
//
// Parameters:
//   - cam: the camera to control
//   - surface: the viewport the pointer input is measured against
//   - options: functional options applied after enabling damping
//
// Returns:
//   - CameraController: the newly created controller
func NewOrbitController(cam Camera, surface Surface, options ...CameraControllerOption) CameraController {
	return NewCameraController(cam, surface, append([]CameraControllerOption{WithDamping(true)}, options...)...)
}

// --- internal helpers ---

// sync derives both poses from the camera position. Caller must hold the mutex or be the constructor.
func (cc *cameraControllerImpl) sync() {
	off := cc.cam.Position().Sub(cc.goal.target)
	r := off.Len()
	if r < common.Epsilon {
		// camera sits on the target, back away along +Z
		r = cc.minRadius
		off = mgl32.Vec3{0, 0, r}
	}
	cc.goal.radius = common.Clamp(r, cc.minRadius, cc.maxRadius)
	cc.goal.elevation = common.Clamp(math32.Asin(common.Clamp(off[1]/r, -1, 1)), cc.minElevation, cc.maxElevation)
	cc.goal.azimuth = math32.Atan2(off[0], off[2])
	cc.current = cc.goal
	cc.apply()
}

// apply writes the effective pose to the camera. Caller must hold the mutex.
func (cc *cameraControllerImpl) apply() {
	pos := cc.current.target.Add(cc.current.offset())
	cc.cam.SetPosition(pos[0], pos[1], pos[2])
	cc.cam.LookAt(cc.current.target)
}

// changed publishes a goal change: immediately when undamped, otherwise on the next Update.
// Caller must hold the mutex.
func (cc *cameraControllerImpl) changed() {
	if !cc.damping {
		cc.current = cc.goal
		cc.apply()
	}
}

func (cc *cameraControllerImpl) clampGoal() {
	cc.goal.radius = common.Clamp(cc.goal.radius, cc.minRadius, cc.maxRadius)
	cc.goal.elevation = common.Clamp(cc.goal.elevation, cc.minElevation, cc.maxElevation)
}

// localAxes computes right, up and forward for the goal pose, consistent with the camera basis.
// Caller must hold the mutex.
func (cc *cameraControllerImpl) localAxes() (right, up, forward mgl32.Vec3) {
	back, ok := common.SafeNormalize(cc.goal.offset())
	if !ok {
		return
	}
	// right = normalize(cross(worldUp, backward)) where worldUp = (0, 1, 0)
	right, ok = common.SafeNormalize(mgl32.Vec3{back[2], 0, -back[0]})
	if !ok {
		return
	}
	up = back.Cross(right)
	forward = back.Mul(-1)
	return
}

// pan moves the goal target along v. Caller must hold the mutex.
func (cc *cameraControllerImpl) pan(v mgl32.Vec3) {
	cc.goal.target = cc.goal.target.Add(v.Mul(cc.panSpeed))
	cc.changed()
}

// pixelScale converts a pointer delta in pixels to world units at the target distance.
// Caller must hold the mutex.
func (cc *cameraControllerImpl) pixelScale() float32 {
	h := cc.surface.Height()
	if h <= 0 {
		return 0
	}
	return cc.cam.VisibleHeight(cc.goal.radius) / float32(h)
}

// --- CameraController shared methods ---

func (cc *cameraControllerImpl) Camera() Camera {
	return cc.cam
}

func (cc *cameraControllerImpl) Target() mgl32.Vec3 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.goal.target
}

func (cc *cameraControllerImpl) SetTarget(x, y, z float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.goal.target = mgl32.Vec3{x, y, z}
	cc.changed()
}

func (cc *cameraControllerImpl) Zoom(delta float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.goal.radius *= math32.Pow(0.95, delta*cc.zoomSpeed)
	cc.clampGoal()
	cc.changed()
}

func (cc *cameraControllerImpl) Damping() bool {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.damping
}

func (cc *cameraControllerImpl) SetDamping(enabled bool) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.damping = enabled
	if !enabled {
		cc.current = cc.goal
		cc.apply()
	}
}

func (cc *cameraControllerImpl) DampingFactor() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.dampingFactor
}

func (cc *cameraControllerImpl) Update() bool {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	if cc.current == cc.goal {
		return false
	}
	if !cc.damping {
		cc.current = cc.goal
		cc.apply()
		return true
	}

	f := cc.dampingFactor
	step := func(cur, goal float32) float32 {
		next := cur + (goal-cur)*f
		if next == cur || math32.Abs(goal-next) < settleEpsilon {
			return goal
		}
		return next
	}
	for i := range 3 {
		cc.current.target[i] = step(cc.current.target[i], cc.goal.target[i])
	}
	cc.current.radius = step(cc.current.radius, cc.goal.radius)
	cc.current.azimuth = step(cc.current.azimuth, cc.goal.azimuth)
	cc.current.elevation = step(cc.current.elevation, cc.goal.elevation)
	cc.apply()
	return true
}

func (cc *cameraControllerImpl) Remaining() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	dt := cc.goal.target.Sub(cc.current.target)
	dr := cc.goal.radius - cc.current.radius
	da := cc.goal.azimuth - cc.current.azimuth
	de := cc.goal.elevation - cc.current.elevation
	return math32.Sqrt(dt.Dot(dt) + dr*dr + da*da + de*de)
}

func (cc *cameraControllerImpl) Sync() {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.sync()
}

func (cc *cameraControllerImpl) Enabled() bool {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.enabled
}

func (cc *cameraControllerImpl) SetEnabled(enabled bool) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.enabled = enabled
	if !enabled {
		cc.drag = dragNone
	}
}

// --- orbitCameraController implementation ---

func (cc *cameraControllerImpl) OrbitLeft() {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.goal.azimuth -= cc.orbitSpeed
	cc.changed()
}

func (cc *cameraControllerImpl) OrbitRight() {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.goal.azimuth += cc.orbitSpeed
	cc.changed()
}

func (cc *cameraControllerImpl) OrbitUp() {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.goal.elevation += cc.orbitSpeed
	cc.clampGoal()
	cc.changed()
}

func (cc *cameraControllerImpl) OrbitDown() {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.goal.elevation -= cc.orbitSpeed
	cc.clampGoal()
	cc.changed()
}

func (cc *cameraControllerImpl) Radius() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.goal.radius
}

func (cc *cameraControllerImpl) SetRadius(radius float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.goal.radius = radius
	cc.clampGoal()
	cc.changed()
}

func (cc *cameraControllerImpl) MinRadius() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.minRadius
}

func (cc *cameraControllerImpl) MaxRadius() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.maxRadius
}

func (cc *cameraControllerImpl) Azimuth() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.goal.azimuth
}

func (cc *cameraControllerImpl) SetAzimuth(azimuth float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.goal.azimuth = azimuth
	cc.changed()
}

func (cc *cameraControllerImpl) Elevation() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.goal.elevation
}

func (cc *cameraControllerImpl) SetElevation(elevation float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.goal.elevation = elevation
	cc.clampGoal()
	cc.changed()
}

func (cc *cameraControllerImpl) MinElevation() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.minElevation
}

func (cc *cameraControllerImpl) MaxElevation() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.maxElevation
}

func (cc *cameraControllerImpl) OrbitSpeed() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.orbitSpeed
}

func (cc *cameraControllerImpl) RotateSpeed() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.rotateSpeed
}

func (cc *cameraControllerImpl) ZoomSpeed() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.zoomSpeed
}

// --- planarCameraController implementation ---

func (cc *cameraControllerImpl) PanRight(delta float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	right, _, _ := cc.localAxes()
	cc.pan(right.Mul(delta))
}

func (cc *cameraControllerImpl) PanUp(delta float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	_, up, _ := cc.localAxes()
	cc.pan(up.Mul(delta))
}

func (cc *cameraControllerImpl) PanForward(delta float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	_, _, forward := cc.localAxes()
	cc.pan(forward.Mul(delta))
}

func (cc *cameraControllerImpl) PanSpeed() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.panSpeed
}

// --- pointerCameraController implementation ---

func (cc *cameraControllerImpl) PointerDown(button int, x, y float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	if !cc.enabled || cc.drag != dragNone {
		return
	}
	switch button {
	case common.MouseButtonLeft:
		cc.drag = dragRotate
		if cc.shift {
			cc.drag = dragPan
		}
	case common.MouseButtonRight:
		cc.drag = dragPan
	default:
		return
	}
	cc.dragButton = button
	cc.lastX, cc.lastY = x, y
}

func (cc *cameraControllerImpl) PointerMove(x, y float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	if !cc.enabled || cc.drag == dragNone {
		return
	}
	dx, dy := x-cc.lastX, y-cc.lastY
	cc.lastX, cc.lastY = x, y

	h := float32(cc.surface.Height())
	if h <= 0 {
		return
	}

	switch cc.drag {
	case dragRotate:
		cc.goal.azimuth -= 2 * math32.Pi * dx / h * cc.rotateSpeed
		cc.goal.elevation += 2 * math32.Pi * dy / h * cc.rotateSpeed
		cc.clampGoal()
		cc.changed()
	case dragPan:
		scale := cc.pixelScale()
		right, up, _ := cc.localAxes()
		// the scene follows the pointer, so the camera moves against it
		cc.pan(right.Mul(-dx * scale).Add(up.Mul(dy * scale)))
	}
}

func (cc *cameraControllerImpl) PointerUp(button int) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	if cc.drag != dragNone && button == cc.dragButton {
		cc.drag = dragNone
	}
}

func (cc *cameraControllerImpl) Wheel(delta float32) {
	cc.mu.Lock()
	enabled := cc.enabled
	cc.mu.Unlock()
	if enabled {
		cc.Zoom(delta)
	}
}

func (cc *cameraControllerImpl) KeyDown(key uint32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	switch key {
	case common.KeyLeftShift, common.KeyRightShift:
		cc.shift = true
		return
	}
	if !cc.enabled {
		return
	}

	step := cc.keyPanSpeed * cc.pixelScale()
	right, up, _ := cc.localAxes()
	switch key {
	case common.KeyUp:
		cc.pan(up.Mul(step))
	case common.KeyDown:
		cc.pan(up.Mul(-step))
	case common.KeyLeft:
		cc.pan(right.Mul(-step))
	case common.KeyRight:
		cc.pan(right.Mul(step))
	}
}

func (cc *cameraControllerImpl) KeyUp(key uint32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	switch key {
	case common.KeyLeftShift, common.KeyRightShift:
		cc.shift = false
	}
}
