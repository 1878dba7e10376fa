package common

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposeTRSScalesThenRotatesThenTranslates(t *testing.T) {
	m := ComposeTRS(
		mgl32.Vec3{1, 2, 3},
		mgl32.Vec3{0, 0, math32.Pi / 2},
		mgl32.Vec3{2, 2, 2},
		OrderXYZ,
	)
	// (1,0,0) scaled to (2,0,0), rotated 90deg about Z to (0,2,0), translated by (1,2,3)
	p := TransformPoint(m, mgl32.Vec3{1, 0, 0})
	assert.InDelta(t, 1, p[0], 1e-5)
	assert.InDelta(t, 4, p[1], 1e-5)
	assert.InDelta(t, 3, p[2], 1e-5)
}

func TestRotationOrderChangesResult(t *testing.T) {
	rot := mgl32.Vec3{0.4, 0.9, 0}
	xyz := RotationMatrix(rot, OrderXYZ)
	yxz := RotationMatrix(rot, OrderYXZ)
	assert.False(t, xyz.ApproxEqualThreshold(yxz, 1e-4))

	unknown := RotationMatrix(rot, RotationOrder("nope"))
	assert.True(t, unknown.ApproxEqualThreshold(xyz, 1e-6))
}

func TestEulerRoundTripAllOrders(t *testing.T) {
	rot := mgl32.Vec3{0.3, -0.7, 1.1}
	for _, order := range []RotationOrder{OrderXYZ, OrderYXZ, OrderZXY, OrderZYX, OrderYZX, OrderXZY} {
		t.Run(string(order), func(t *testing.T) {
			require.True(t, order.Valid())
			m := RotationMatrix(rot, order)
			back := RotationMatrix(EulerFromMatrix(m, order), order)
			assert.True(t, m.ApproxEqualThreshold(back, 1e-4))
		})
	}
}

func TestLookRotationPointsZAlongDirection(t *testing.T) {
	dir := mgl32.Vec3{1, 1, -2}
	m := LookRotation(dir, mgl32.Vec3{0, 1, 0})
	want := dir.Normalize()
	got := m.Col(2).Vec3()
	assert.InDelta(t, want[0], got[0], 1e-5)
	assert.InDelta(t, want[1], got[1], 1e-5)
	assert.InDelta(t, want[2], got[2], 1e-5)

	straightUp := LookRotation(mgl32.Vec3{0, 5, 0}, mgl32.Vec3{0, 1, 0})
	assert.InDelta(t, 1, straightUp.Col(0).Vec3().Len(), 1e-5)
	assert.Equal(t, mgl32.Ident4(), LookRotation(mgl32.Vec3{}, mgl32.Vec3{0, 1, 0}))
}

func TestSafeNormalize(t *testing.T) {
	v, ok := SafeNormalize(mgl32.Vec3{3, 0, 4})
	require.True(t, ok)
	assert.InDelta(t, 1, v.Len(), 1e-6)

	_, ok = SafeNormalize(mgl32.Vec3{})
	assert.False(t, ok)
}

func TestFrustumCullsSpheresBehindCamera(t *testing.T) {
	proj := mgl32.Perspective(mgl32.DegToRad(75), 1, 0.1, 100)
	view := mgl32.LookAtV(mgl32.Vec3{0, 0, 3}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
	f := ExtractFrustum(proj.Mul4(view))

	assert.True(t, f.IntersectsSphere(mgl32.Vec3{}, 1))
	assert.False(t, f.IntersectsSphere(mgl32.Vec3{0, 0, 10}, 1))
	assert.False(t, f.IntersectsSphere(mgl32.Vec3{0, 0, -200}, 1))
}

func TestColorHexRoundTrip(t *testing.T) {
	c, err := ColorFromHex("#A778D8")
	require.NoError(t, err)
	// linear components are darker than the sRGB encoded ones
	assert.Less(t, c.R, float32(0xa7)/255)
	assert.Equal(t, "#a778d8", c.Hex())

	u := ColorFromUint(0xa778d8)
	assert.InDelta(t, c.R, u.R, 1e-6)
	assert.InDelta(t, c.G, u.G, 1e-6)
	assert.InDelta(t, c.B, u.B, 1e-6)

	before := c
	assert.Error(t, c.SetHex("not-a-color"))
	assert.Equal(t, before, c)
}

func TestPrecision15(t *testing.T) {
	assert.Equal(t, 0.3, Precision15(0.1+0.2))
	assert.Equal(t, 7.0, Precision15(7))
}

func TestNewLogger(t *testing.T) {
	l, err := NewLogger("debug", false)
	require.NoError(t, err)
	assert.NotNil(t, l)

	_, err = NewLogger("loud", false)
	assert.Error(t, err)

	assert.NotNil(t, LoggerOrNop(nil))
}
