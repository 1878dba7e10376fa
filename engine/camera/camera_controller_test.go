package camera

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-lessons/common"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedSurface int

func (s fixedSurface) Height() int { return int(s) }

func newTestRig(t *testing.T, options ...CameraControllerOption) (Camera, CameraController) {
	t.Helper()
	cam := NewPerspective(75, 800.0/600.0, 0.1, 100, WithPosition(0, 0, 3))
	return cam, NewCameraController(cam, fixedSurface(600), options...)
}

func TestControllerDerivesPoseFromCamera(t *testing.T) {
	cam, cc := newTestRig(t)
	assert.InDelta(t, 3, cc.Radius(), 1e-6)
	assert.InDelta(t, 0, cc.Azimuth(), 1e-6)
	assert.InDelta(t, 0, cc.Elevation(), 1e-6)
	assertVecNear(t, mgl32.Vec3{0, 0, -1}, cam.Forward(), 1e-6)
}

func TestUndampedInputAppliesSynchronously(t *testing.T) {
	cam, cc := newTestRig(t)

	cc.SetAzimuth(math32.Pi / 2)
	// no Update call: the camera already moved
	assertVecNear(t, mgl32.Vec3{3, 0, 0}, cam.Position(), 1e-5)
	assertVecNear(t, mgl32.Vec3{-1, 0, 0}, cam.Forward(), 1e-5)
	assert.Zero(t, cc.Remaining())
	assert.False(t, cc.Update())
}

func TestDampedOrbitConvergesMonotonicallyWithoutOvershoot(t *testing.T) {
	cam, cc := newTestRig(t, WithDamping(true), WithDampingFactor(0.1))
	start := cam.Position()

	cc.SetAzimuth(1.2)
	cc.SetElevation(0.4)
	cc.Zoom(3)

	// damped input does not move the camera until Update
	assert.Equal(t, start, cam.Position())

	goalRadius := cc.Radius()
	prev := cc.Remaining()
	require.Greater(t, prev, float32(0))

	prevAzimuth := float32(0)
	for i := 0; i < 1000 && prev > 0; i++ {
		require.True(t, cc.Update())
		rem := cc.Remaining()
		assert.Less(t, rem, prev, "update %d", i)
		prev = rem

		// the effective azimuth approaches 1.2 from below and never passes it
		az := currentAzimuth(cam, cc.Target())
		assert.GreaterOrEqual(t, az, prevAzimuth-1e-5)
		assert.LessOrEqual(t, az, float32(1.2)+1e-5)
		prevAzimuth = az
	}
	assert.Zero(t, prev)
	assert.False(t, cc.Update())
	assert.InDelta(t, goalRadius, cam.Position().Sub(cc.Target()).Len(), 1e-4)
}

// currentAzimuth reads the azimuth the camera actually shows.
func currentAzimuth(cam Camera, target mgl32.Vec3) float32 {
	off := cam.Position().Sub(target)
	return math32.Atan2(off[0], off[2])
}

func TestDisablingDampingSnapsToGoal(t *testing.T) {
	cam, cc := newTestRig(t, WithDamping(true))
	cc.SetAzimuth(math32.Pi / 2)
	cc.SetDamping(false)
	assertVecNear(t, mgl32.Vec3{3, 0, 0}, cam.Position(), 1e-5)
}

func TestPointerDragRotates(t *testing.T) {
	_, cc := newTestRig(t)

	cc.PointerDown(common.MouseButtonLeft, 100, 100)
	cc.PointerMove(100+150, 100) // a quarter of the viewport height
	cc.PointerUp(common.MouseButtonLeft)

	assert.InDelta(t, -math32.Pi/2, cc.Azimuth(), 1e-5)

	// moves after release are ignored
	cc.PointerMove(600, 600)
	assert.InDelta(t, -math32.Pi/2, cc.Azimuth(), 1e-5)
}

func TestPointerDragPansTarget(t *testing.T) {
	cam, cc := newTestRig(t)

	cc.PointerDown(common.MouseButtonRight, 0, 0)
	cc.PointerMove(60, 0)
	cc.PointerUp(common.MouseButtonRight)

	target := cc.Target()
	assert.Less(t, target[0], float32(0), "dragging right moves the camera left")
	assert.InDelta(t, 0, target[1], 1e-6)
	// radius is preserved by panning
	assert.InDelta(t, 3, cam.Position().Sub(target).Len(), 1e-5)
}

func TestShiftDragPans(t *testing.T) {
	_, cc := newTestRig(t)
	cc.KeyDown(common.KeyLeftShift)
	cc.PointerDown(common.MouseButtonLeft, 0, 0)
	cc.PointerMove(0, 30)
	cc.PointerUp(common.MouseButtonLeft)
	cc.KeyUp(common.KeyLeftShift)

	assert.Greater(t, cc.Target()[1], float32(0))
	assert.InDelta(t, 0, cc.Azimuth(), 1e-6)
}

func TestWheelZoomsWithinBounds(t *testing.T) {
	_, cc := newTestRig(t, WithRadiusBounds(1, 5))

	cc.Wheel(1)
	assert.InDelta(t, 3*0.95, cc.Radius(), 1e-5)

	cc.Wheel(1000)
	assert.Equal(t, float32(1), cc.Radius())

	cc.Wheel(-1000)
	assert.Equal(t, float32(5), cc.Radius())
}

func TestDisabledControllerIgnoresInput(t *testing.T) {
	_, cc := newTestRig(t)
	cc.SetEnabled(false)

	cc.Wheel(3)
	cc.PointerDown(common.MouseButtonLeft, 0, 0)
	cc.PointerMove(300, 0)
	cc.KeyDown(common.KeyLeft)

	assert.InDelta(t, 3, cc.Radius(), 1e-6)
	assert.InDelta(t, 0, cc.Azimuth(), 1e-6)
	assert.Equal(t, mgl32.Vec3{}, cc.Target())
}

func TestElevationIsClamped(t *testing.T) {
	_, cc := newTestRig(t, WithElevationBounds(-0.5, 0.5))
	cc.SetElevation(2)
	assert.Equal(t, float32(0.5), cc.Elevation())
	for range 100 {
		cc.OrbitDown()
	}
	assert.Equal(t, float32(-0.5), cc.Elevation())
}

func TestArrowKeysPan(t *testing.T) {
	_, cc := newTestRig(t)
	cc.KeyDown(common.KeyUp)
	assert.Greater(t, cc.Target()[1], float32(0))
}
