package camera

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-lessons/common"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// Projection identifies the projection variant of a camera.
type Projection int

const (
	// ProjectionPerspective is a frustum defined by vertical field of view and aspect ratio.
	ProjectionPerspective Projection = iota

	// ProjectionOrthographic is a box defined by left/right/top/bottom extents.
	ProjectionOrthographic
)

func (p Projection) String() string {
	if p == ProjectionOrthographic {
		return "orthographic"
	}
	return "perspective"
}

// DepthRatioLimit is the far/near ratio above which depth precision becomes visibly unreliable.
// Cameras beyond the limit still work; they are reported, never clamped.
const DepthRatioLimit float32 = 1e6

var (
	// ErrInvalidAspect is returned when an aspect ratio is not a positive finite number.
	ErrInvalidAspect = errors.New("aspect ratio must be positive and finite")

	// ErrInvalidViewport is returned by Resize when a dimension is not positive.
	ErrInvalidViewport = errors.New("viewport dimensions must be positive")

	// ErrInvalidClipPlanes is returned when near/far planes are out of order or near is not positive for a perspective camera.
	ErrInvalidClipPlanes = errors.New("invalid clip planes")

	// ErrInvalidExtents is returned when orthographic extents have zero or negative size.
	ErrInvalidExtents = errors.New("invalid orthographic extents")
)

type cameraImpl struct {
	mu *sync.Mutex

	projection Projection

	position mgl32.Vec3
	forward  mgl32.Vec3
	up       mgl32.Vec3

	fov    float32 // degrees
	aspect float32

	left, right, top, bottom float32

	near float32
	far  float32

	viewMatrix           mgl32.Mat4
	projectionMatrix     mgl32.Mat4
	viewProjectionMatrix mgl32.Mat4

	logger *zap.Logger
}

// Camera is the rig used to render a scene: a projection plus a pose.
// The view matrix follows pose changes immediately. The projection matrix is only
// rebuilt by UpdateProjection (or Resize, which calls it), so every change to
// aspect, extents or clip planes must be followed by UpdateProjection.
type Camera interface {
	// Projection returns the projection variant.
	//
	// Returns:
	//   - Projection: perspective or orthographic
	Projection() Projection

	// Position returns the world-space position.
	//
	// Returns:
	//   - mgl32.Vec3: the camera position
	Position() mgl32.Vec3

	// SetPosition moves the camera without changing its orientation.
	//
	// Parameters:
	//   - x, y, z: world-space coordinates
	SetPosition(x, y, z float32)

	// Forward returns the unit viewing direction.
	//
	// Returns:
	//   - mgl32.Vec3: normalized forward axis
	Forward() mgl32.Vec3

	// Up returns the camera's reference up vector.
	//
	// Returns:
	//   - mgl32.Vec3: the up vector
	Up() mgl32.Vec3

	// SetUp sets the reference up vector used to build the view basis.
	//
	// Parameters:
	//   - x, y, z: up vector components
	SetUp(x, y, z float32)

	// LookAt orients the camera so its forward axis equals normalize(target - position).
	// Position is unchanged. A target equal to the position is ignored.
	//
	// Parameters:
	//   - target: world-space point to face
	LookAt(target mgl32.Vec3)

	// Fov returns the vertical field of view in degrees (perspective only).
	//
	// Returns:
	//   - float32: field of view in degrees
	Fov() float32

	// SetFov sets the vertical field of view in degrees. Takes effect on UpdateProjection.
	//
	// Parameters:
	//   - deg: field of view in degrees
	SetFov(deg float32)

	// Aspect returns the aspect ratio (width / height).
	//
	// Returns:
	//   - float32: the aspect ratio
	Aspect() float32

	// SetAspect stores a new aspect ratio. Takes effect on UpdateProjection.
	//
	// Parameters:
	//   - aspect: width / height
	//
	// Returns:
	//   - error: ErrInvalidAspect if aspect is not positive and finite
	SetAspect(aspect float32) error

	// Extents returns the orthographic box extents.
	//
	// Returns:
	//   - left, right, top, bottom: the extents
	Extents() (left, right, top, bottom float32)

	// SetExtents stores new orthographic extents. Takes effect on UpdateProjection.
	//
	// Parameters:
	//   - left, right, top, bottom: the extents
	//
	// Returns:
	//   - error: ErrInvalidExtents if right <= left or top <= bottom
	SetExtents(left, right, top, bottom float32) error

	// Near returns the near clipping plane distance.
	//
	// Returns:
	//   - float32: near plane distance
	Near() float32

	// Far returns the far clipping plane distance.
	//
	// Returns:
	//   - float32: far plane distance
	Far() float32

	// SetClipPlanes stores new clip planes. Takes effect on UpdateProjection.
	//
	// Parameters:
	//   - near: near plane distance
	//   - far: far plane distance
	//
	// Returns:
	//   - error: ErrInvalidClipPlanes if far <= near, or near <= 0 for a perspective camera
	SetClipPlanes(near, far float32) error

	// DepthRatio returns far / near, or +Inf when near is not positive.
	//
	// Returns:
	//   - float32: the depth ratio
	DepthRatio() float32

	// ExtremeDepthRatio reports whether the depth ratio exceeds DepthRatioLimit.
	//
	// Returns:
	//   - bool: true when depth ordering artifacts are likely
	ExtremeDepthRatio() bool

	// UpdateProjection rebuilds the projection matrix from the current parameters.
	// An extreme depth ratio is logged as a warning and otherwise accepted.
	UpdateProjection()

	// Resize adapts the projection to a new viewport: the aspect for a perspective camera,
	// the horizontal extents for an orthographic one. Then calls UpdateProjection.
	//
	// Parameters:
	//   - width, height: viewport size in pixels
	//
	// Returns:
	//   - error: ErrInvalidViewport for non-positive dimensions, leaving the projection untouched
	Resize(width, height int) error

	// VisibleHeight returns the world-space height visible at the given distance along the forward axis.
	//
	// Parameters:
	//   - distance: distance from the camera
	//
	// Returns:
	//   - float32: visible height in world units
	VisibleHeight(distance float32) float32

	// ViewMatrix returns the world-to-view matrix.
	//
	// Returns:
	//   - mgl32.Mat4: the view matrix
	ViewMatrix() mgl32.Mat4

	// ProjectionMatrix returns the view-to-clip matrix as of the last UpdateProjection.
	//
	// Returns:
	//   - mgl32.Mat4: the projection matrix
	ProjectionMatrix() mgl32.Mat4

	// ViewProjectionMatrix returns projection * view.
	//
	// Returns:
	//   - mgl32.Mat4: the combined matrix
	ViewProjectionMatrix() mgl32.Mat4

	// Project maps a world-space point to normalized device coordinates.
	//
	// Parameters:
	//   - p: world-space point
	//
	// Returns:
	//   - mgl32.Vec3: NDC coordinates, each visible axis in [-1, 1]
	//   - bool: false when the point is behind the camera
	Project(p mgl32.Vec3) (mgl32.Vec3, bool)
}

var _ Camera = &cameraImpl{}

// NewPerspective creates a perspective camera at the origin looking down -Z.
// Clip planes that SetClipPlanes would reject are replaced by the defaults with a warning.
//
// Parameters:
//   - fov: vertical field of view in degrees
//   - aspect: width / height
//   - near: near plane distance
//   - far: far plane distance
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewPerspective(fov, aspect, near, far float32, options ...CameraBuilderOption) Camera {
	c := newCamera(ProjectionPerspective)
	c.fov = fov
	c.aspect = aspect
	c.near = near
	c.far = far
	return c.finish(options)
}

// NewOrthographic creates an orthographic camera at the origin looking down -Z.
// Clip planes with far <= near are replaced by the defaults with a warning.
//
// Parameters:
//   - left, right, top, bottom: the box extents
//   - near: near plane distance
//   - far: far plane distance
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewOrthographic(left, right, top, bottom, near, far float32, options ...CameraBuilderOption) Camera {
	c := newCamera(ProjectionOrthographic)
	c.left, c.right, c.top, c.bottom = left, right, top, bottom
	c.aspect = (right - left) / (top - bottom)
	c.near = near
	c.far = far
	return c.finish(options)
}

const (
	defaultNear float32 = 0.1
	defaultFar  float32 = 2000
)

func newCamera(p Projection) *cameraImpl {
	return &cameraImpl{
		mu:         &sync.Mutex{},
		projection: p,
		forward:    mgl32.Vec3{0, 0, -1},
		up:         mgl32.Vec3{0, 1, 0},
		fov:        50,
		aspect:     1,
		left:       -1,
		right:      1,
		top:        1,
		bottom:     -1,
		near:       defaultNear,
		far:        defaultFar,
		logger:     zap.NewNop(),
	}
}

func (c *cameraImpl) finish(options []CameraBuilderOption) Camera {
	for _, option := range options {
		option(c)
	}
	if err := checkClipPlanes(c.projection, c.near, c.far); err != nil {
		c.logger.Warn("invalid clip planes, using defaults",
			zap.Error(err),
			zap.Float32("near", defaultNear),
			zap.Float32("far", defaultFar),
		)
		c.near, c.far = defaultNear, defaultFar
	}
	c.updateView()
	c.updateProjection()
	return c
}

func (c *cameraImpl) Projection() Projection {
	return c.projection
}

func (c *cameraImpl) Position() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position
}

func (c *cameraImpl) SetPosition(x, y, z float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.position = mgl32.Vec3{x, y, z}
	c.updateView()
}

func (c *cameraImpl) Forward() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.forward
}

func (c *cameraImpl) Up() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.up
}

func (c *cameraImpl) SetUp(x, y, z float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if up, ok := common.SafeNormalize(mgl32.Vec3{x, y, z}); ok {
		c.up = up
		c.updateView()
	}
}

func (c *cameraImpl) LookAt(target mgl32.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lookAt(target)
}

func (c *cameraImpl) Fov() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fov
}

func (c *cameraImpl) SetFov(deg float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fov = deg
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) SetAspect(aspect float32) error {
	if !(aspect > 0) || !common.Finite(aspect) {
		return fmt.Errorf("aspect %v: %w", aspect, ErrInvalidAspect)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aspect = aspect
	return nil
}

func (c *cameraImpl) Extents() (left, right, top, bottom float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.left, c.right, c.top, c.bottom
}

func (c *cameraImpl) SetExtents(left, right, top, bottom float32) error {
	if !(right > left) || !(top > bottom) {
		return fmt.Errorf("extents l=%v r=%v t=%v b=%v: %w", left, right, top, bottom, ErrInvalidExtents)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.left, c.right, c.top, c.bottom = left, right, top, bottom
	return nil
}

func (c *cameraImpl) Near() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.near
}

func (c *cameraImpl) Far() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.far
}

func (c *cameraImpl) SetClipPlanes(near, far float32) error {
	if err := checkClipPlanes(c.projection, near, far); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.near = near
	c.far = far
	return nil
}

func (c *cameraImpl) DepthRatio() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.depthRatio()
}

func (c *cameraImpl) ExtremeDepthRatio() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projection == ProjectionPerspective && c.depthRatio() > DepthRatioLimit
}

func (c *cameraImpl) UpdateProjection() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.updateProjection()
}

func (c *cameraImpl) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("resize to %dx%d: %w", width, height, ErrInvalidViewport)
	}
	aspect := float32(width) / float32(height)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.aspect = aspect
	if c.projection == ProjectionOrthographic {
		halfHeight := (c.top - c.bottom) / 2
		centerX := (c.left + c.right) / 2
		c.left = centerX - halfHeight*aspect
		c.right = centerX + halfHeight*aspect
	}
	c.updateProjection()
	return nil
}

func (c *cameraImpl) VisibleHeight(distance float32) float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.projection == ProjectionOrthographic {
		return c.top - c.bottom
	}
	return 2 * distance * math32.Tan(mgl32.DegToRad(c.fov)/2)
}

func (c *cameraImpl) ViewMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewMatrix
}

func (c *cameraImpl) ProjectionMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectionMatrix
}

func (c *cameraImpl) ViewProjectionMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewProjectionMatrix
}

func (c *cameraImpl) Project(p mgl32.Vec3) (mgl32.Vec3, bool) {
	c.mu.Lock()
	clip := c.viewProjectionMatrix.Mul4x1(p.Vec4(1))
	c.mu.Unlock()

	if clip[3] <= common.Epsilon {
		return mgl32.Vec3{}, false
	}
	return clip.Vec3().Mul(1 / clip[3]), true
}

// lookAt points the forward axis at target. Caller must hold the mutex.
func (c *cameraImpl) lookAt(target mgl32.Vec3) {
	dir, ok := common.SafeNormalize(target.Sub(c.position))
	if !ok {
		return
	}
	c.forward = dir
	c.updateView()
}

// updateView rebuilds the view and view-projection matrices from the pose.
// Caller must hold the mutex.
func (c *cameraImpl) updateView() {
	// LookRotation builds +Z along its argument, the camera looks down its local -Z
	rot := common.LookRotation(c.forward.Mul(-1), c.up)
	world := mgl32.Translate3D(c.position[0], c.position[1], c.position[2]).Mul4(rot)
	c.viewMatrix = world.Inv()
	c.viewProjectionMatrix = c.projectionMatrix.Mul4(c.viewMatrix)
}

// updateProjection rebuilds the projection and view-projection matrices.
// Caller must hold the mutex.
func (c *cameraImpl) updateProjection() {
	if c.projection == ProjectionOrthographic {
		c.projectionMatrix = mgl32.Ortho(c.left, c.right, c.bottom, c.top, c.near, c.far)
	} else {
		c.projectionMatrix = mgl32.Perspective(mgl32.DegToRad(c.fov), c.aspect, c.near, c.far)
		if ratio := c.depthRatio(); ratio > DepthRatioLimit {
			c.logger.Warn("extreme depth ratio, expect depth ordering artifacts",
				zap.Float32("near", c.near),
				zap.Float32("far", c.far),
				zap.Float32("ratio", ratio),
			)
		}
	}
	c.viewProjectionMatrix = c.projectionMatrix.Mul4(c.viewMatrix)
}

// checkClipPlanes requires far > near, and near > 0 for a perspective projection.
func checkClipPlanes(p Projection, near, far float32) error {
	if !(far > near) || (p == ProjectionPerspective && !(near > 0)) {
		return fmt.Errorf("near=%v far=%v: %w", near, far, ErrInvalidClipPlanes)
	}
	return nil
}

// depthRatio returns far / near. Caller must hold the mutex.
func (c *cameraImpl) depthRatio() float32 {
	if c.near <= 0 {
		return math32.Inf(1)
	}
	return c.far / c.near
}
