package camera

import (
	"github.com/Carmen-Shannon/oxy-lessons/common"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// CameraBuilderOption is a functional option for configuring a Camera.
type CameraBuilderOption func(*cameraImpl)

// WithPosition sets the initial world-space position.
//
// Parameters:
//   - x, y, z: world-space coordinates
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera position
func WithPosition(x, y, z float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.position = mgl32.Vec3{x, y, z}
	}
}

// WithLookAt orients the camera toward a target after the position is applied.
//
// Parameters:
//   - x, y, z: world-space target
//
// Returns:
//   - CameraBuilderOption: a function that orients the camera
func WithLookAt(x, y, z float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.lookAt(mgl32.Vec3{x, y, z})
	}
}

// WithUp sets the camera's up vector.
//
// Parameters:
//   - x, y, z: up vector components
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's up vector
func WithUp(x, y, z float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		if up, ok := common.SafeNormalize(mgl32.Vec3{x, y, z}); ok {
			c.up = up
		}
	}
}

// WithLogger routes camera warnings (extreme depth ratios) to l.
//
// Parameters:
//   - l: the logger
//
// Returns:
//   - CameraBuilderOption: a function that sets the logger
func WithLogger(l *zap.Logger) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.logger = common.LoggerOrNop(l).Named("camera")
	}
}
