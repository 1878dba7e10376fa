package camera

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func assertVecNear(t *testing.T, want, got mgl32.Vec3, delta float64) {
	t.Helper()
	for i := range 3 {
		assert.InDelta(t, want[i], got[i], delta, "component %d", i)
	}
}

func TestLookAtForwardEqualsNormalizedDirection(t *testing.T) {
	cam := NewPerspective(75, 800.0/600.0, 0.1, 100, WithPosition(1, 2, 3))
	target := mgl32.Vec3{-4, 0.5, -2}

	cam.LookAt(target)

	want := target.Sub(mgl32.Vec3{1, 2, 3}).Normalize()
	assertVecNear(t, want, cam.Forward(), 1e-6)
	assertVecNear(t, mgl32.Vec3{1, 2, 3}, cam.Position(), 0)

	// the view matrix places the target straight ahead on -Z
	inView := cam.ViewMatrix().Mul4x1(target.Vec4(1)).Vec3()
	assert.InDelta(t, 0, inView[0], 1e-4)
	assert.InDelta(t, 0, inView[1], 1e-4)
	assert.Less(t, inView[2], float32(0))
}

func TestLookAtOwnPositionIsIgnored(t *testing.T) {
	cam := NewPerspective(75, 1, 0.1, 100, WithPosition(0, 0, 3), WithLookAt(0, 0, 0))
	before := cam.Forward()
	cam.LookAt(mgl32.Vec3{0, 0, 3})
	assert.Equal(t, before, cam.Forward())
}

func TestResizeUpdatesAspectAndProjection(t *testing.T) {
	cam := NewPerspective(75, 800.0/600.0, 0.1, 100)

	require.NoError(t, cam.Resize(1024, 768))
	assert.InDelta(t, 1024.0/768.0, cam.Aspect(), 1e-6)

	want := mgl32.Perspective(mgl32.DegToRad(75), 1024.0/768.0, 0.1, 100)
	assert.True(t, want.ApproxEqualThreshold(cam.ProjectionMatrix(), 1e-5))

	before := cam.ProjectionMatrix()
	require.NoError(t, cam.Resize(1024, 512))
	assert.InDelta(t, 2.0, cam.Aspect(), 1e-6)
	assert.NotEqual(t, before, cam.ProjectionMatrix())

	want = mgl32.Perspective(mgl32.DegToRad(75), 2, 0.1, 100)
	assert.True(t, want.ApproxEqualThreshold(cam.ProjectionMatrix(), 1e-5))
}

func TestResizeRejectsDegenerateViewport(t *testing.T) {
	cam := NewPerspective(75, 2, 0.1, 100)
	before := cam.ProjectionMatrix()

	assert.ErrorIs(t, cam.Resize(0, 600), ErrInvalidViewport)
	assert.ErrorIs(t, cam.Resize(800, -1), ErrInvalidViewport)
	assert.Equal(t, float32(2), cam.Aspect())
	assert.Equal(t, before, cam.ProjectionMatrix())
}

func TestProjectionIsStaleUntilUpdated(t *testing.T) {
	cam := NewPerspective(75, 1, 0.1, 100)
	before := cam.ProjectionMatrix()

	require.NoError(t, cam.SetAspect(2))
	assert.Equal(t, before, cam.ProjectionMatrix())

	cam.UpdateProjection()
	assert.NotEqual(t, before, cam.ProjectionMatrix())

	assert.ErrorIs(t, cam.SetAspect(0), ErrInvalidAspect)
	assert.Equal(t, float32(2), cam.Aspect())
}

func TestExtremeDepthRatioIsReportedNotClamped(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	cam := NewPerspective(75, 1, 1e-4, 1e4, WithLogger(zap.New(core)))

	assert.True(t, cam.ExtremeDepthRatio())
	assert.Equal(t, float32(1e-4), cam.Near())
	assert.Equal(t, float32(1e4), cam.Far())
	assert.Equal(t, 1, logs.FilterMessage("extreme depth ratio, expect depth ordering artifacts").Len())

	require.NoError(t, cam.SetClipPlanes(0.1, 100))
	cam.UpdateProjection()
	assert.False(t, cam.ExtremeDepthRatio())

	assert.ErrorIs(t, cam.SetClipPlanes(0, 100), ErrInvalidClipPlanes)
	assert.ErrorIs(t, cam.SetClipPlanes(10, 1), ErrInvalidClipPlanes)
}

func TestConstructorsReplaceInvalidClipPlanes(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	logger := zap.New(core)

	cases := []struct {
		name string
		cam  Camera
	}{
		{"perspective zero near", NewPerspective(75, 1, 0, 100, WithLogger(logger))},
		{"perspective negative near", NewPerspective(75, 1, -1, 100, WithLogger(logger))},
		{"perspective far before near", NewPerspective(75, 1, 10, 1, WithLogger(logger))},
		{"orthographic far equals near", NewOrthographic(-1, 1, 1, -1, 5, 5, WithLogger(logger))},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, defaultNear, tc.cam.Near())
			assert.Equal(t, defaultFar, tc.cam.Far())
			assert.False(t, tc.cam.ExtremeDepthRatio())
		})
	}
	assert.Equal(t, len(cases), logs.FilterMessage("invalid clip planes, using defaults").Len())

	valid := NewOrthographic(-1, 1, 1, -1, -10, 10, WithLogger(logger))
	assert.Equal(t, float32(-10), valid.Near())
	assert.Equal(t, len(cases), logs.FilterMessage("invalid clip planes, using defaults").Len())
}

func TestOrthographicResizeKeepsVerticalExtent(t *testing.T) {
	cam := NewOrthographic(-1, 1, 1, -1, 0.1, 100)
	assert.Equal(t, ProjectionOrthographic, cam.Projection())

	require.NoError(t, cam.Resize(800, 400))
	l, r, top, bottom := cam.Extents()
	assert.InDelta(t, -2, l, 1e-6)
	assert.InDelta(t, 2, r, 1e-6)
	assert.Equal(t, float32(1), top)
	assert.Equal(t, float32(-1), bottom)
	assert.Equal(t, float32(2), cam.VisibleHeight(50))

	assert.ErrorIs(t, cam.SetExtents(1, -1, 1, -1), ErrInvalidExtents)
}

func TestProjectBehindCamera(t *testing.T) {
	cam := NewPerspective(75, 1, 0.1, 100, WithPosition(0, 0, 3), WithLookAt(0, 0, 0))

	ndc, ok := cam.Project(mgl32.Vec3{})
	require.True(t, ok)
	assert.InDelta(t, 0, ndc[0], 1e-5)
	assert.InDelta(t, 0, ndc[1], 1e-5)

	_, ok = cam.Project(mgl32.Vec3{0, 0, 10})
	assert.False(t, ok)
}
