package entity

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-lessons/common"
	"github.com/Carmen-Shannon/oxy-lessons/engine/geometry"
	"github.com/Carmen-Shannon/oxy-lessons/engine/material"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertVecNear(t *testing.T, want, got mgl32.Vec3, delta float64) {
	t.Helper()
	for i := range 3 {
		assert.InDelta(t, want[i], got[i], delta, "component %d", i)
	}
}

func TestMovingGroupMovesChildrenInWorldOnly(t *testing.T) {
	group := NewGroup(WithRotation(0, 0.7, 0), WithScale(2, 2, 2))
	children := []Entity{
		New(WithPosition(-1.5, 0, 0)),
		New(WithPosition(0, 0, 0)),
		New(WithPosition(1.5, 0.25, -3)),
	}
	require.NoError(t, group.Add(children...))

	locals := make([]mgl32.Vec3, len(children))
	worlds := make([]mgl32.Vec3, len(children))
	for i, c := range children {
		locals[i] = c.Position()
		worlds[i] = c.WorldPosition()
	}

	v := mgl32.Vec3{0.3, 1, -2}
	group.Translate(v[0], v[1], v[2])

	for i, c := range children {
		assert.Equal(t, locals[i], c.Position(), "child %d local position", i)
		assertVecNear(t, worlds[i].Add(v), c.WorldPosition(), 1e-5)
	}
}

func TestLocalMatrixIsScaleRotateTranslate(t *testing.T) {
	e := New(WithPosition(1, 2, 3), WithRotation(0, math32.Pi/2, 0), WithScale(2, 1, 1))
	// +X scaled to 2, rotated a quarter turn about Y onto -Z, then translated
	got := common.TransformPoint(e.LocalMatrix(), mgl32.Vec3{1, 0, 0})
	assertVecNear(t, mgl32.Vec3{1, 2, 1}, got, 1e-5)
}

func TestNestedGroupsCompose(t *testing.T) {
	outer := NewGroup(WithPosition(10, 0, 0))
	inner := NewGroup(WithPosition(0, 5, 0))
	leaf := New(WithPosition(0, 0, 1))
	require.NoError(t, outer.Add(inner))
	require.NoError(t, inner.Add(leaf))

	assertVecNear(t, mgl32.Vec3{10, 5, 1}, leaf.WorldPosition(), 1e-6)
	assert.InDelta(t, 1, leaf.DistanceTo(mgl32.Vec3{10, 5, 0}), 1e-6)
}

func TestAddRejectsCycles(t *testing.T) {
	a := NewGroup()
	b := NewGroup()
	require.NoError(t, a.Add(b))

	assert.ErrorIs(t, b.Add(a), ErrCycle)
	assert.ErrorIs(t, a.Add(a), ErrCycle)
	assert.ErrorIs(t, a.Add(nil), ErrNilEntity)
}

func TestReparentDetachesFromOldParent(t *testing.T) {
	a, b := NewGroup(), NewGroup()
	child := New()
	require.NoError(t, a.Add(child))
	require.NoError(t, b.Add(child))

	assert.Empty(t, a.Children())
	assert.Len(t, b.Children(), 1)
	assert.Equal(t, b.ID(), child.Parent().ID())

	b.Remove(child)
	assert.Nil(t, child.Parent())
	assert.Empty(t, b.Children())
}

func TestLookAtFacesTarget(t *testing.T) {
	e := New(WithPosition(1, 1, 1))
	target := mgl32.Vec3{-2, 3, 5}
	e.LookAt(target)

	forward := e.WorldMatrix().Mul4x1(mgl32.Vec4{0, 0, 1, 0}).Vec3()
	assertVecNear(t, target.Sub(e.Position()).Normalize(), forward, 1e-5)

	before := e.Rotation()
	e.LookAt(e.Position())
	assert.Equal(t, before, e.Rotation())
}

func TestLookAtInsideRotatedParent(t *testing.T) {
	parent := NewGroup(WithRotation(0, 1.1, 0.3))
	child := New(WithPosition(0, 0, 2))
	require.NoError(t, parent.Add(child))

	target := mgl32.Vec3{4, -1, 0}
	child.LookAt(target)

	forward := child.WorldMatrix().Mul4x1(mgl32.Vec4{0, 0, 1, 0}).Vec3()
	assertVecNear(t, target.Sub(child.WorldPosition()).Normalize(), forward, 1e-4)
}

func TestRotationOrderReorder(t *testing.T) {
	e := New(WithRotation(0.4, 0.9, 0))
	xyz := e.LocalMatrix()
	e.SetRotationOrder(common.OrderYXZ)
	assert.Equal(t, common.OrderYXZ, e.RotationOrder())
	assert.False(t, xyz.ApproxEqualThreshold(e.LocalMatrix(), 1e-4))

	e.SetRotationOrder("QQQ")
	assert.Equal(t, common.OrderYXZ, e.RotationOrder())
}

func TestReplaceGeometryDisposesPrevious(t *testing.T) {
	old := geometry.NewBox(1, 1, 1, 1, 1, 1)
	e := NewMesh(old, material.NewBasic())

	next := geometry.NewBox(1, 1, 1, 4, 4, 4)
	e.ReplaceGeometry(next)

	assert.True(t, old.Disposed())
	assert.False(t, next.Disposed())
	assert.Same(t, next, e.Geometry())

	// replacing with the same geometry keeps it alive
	e.ReplaceGeometry(next)
	assert.False(t, next.Disposed())
}

func TestTraverseSkipsPrunedSubtrees(t *testing.T) {
	root := NewGroup(WithName("root"))
	hidden := NewGroup(WithName("hidden"), WithVisible(false))
	shown := New(WithName("shown"))
	require.NoError(t, root.Add(hidden, shown))
	require.NoError(t, hidden.Add(New(WithName("under-hidden"))))

	var names []string
	root.Traverse(func(e Entity) bool {
		names = append(names, e.Name())
		return e.Visible()
	})
	assert.Equal(t, []string{"root", "hidden", "shown"}, names)
}

func TestIDsAreUnique(t *testing.T) {
	a, b := New(), New()
	assert.NotEqual(t, a.ID(), b.ID())
}
