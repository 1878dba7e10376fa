package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoxCounts(t *testing.T) {
	tests := []struct {
		name     string
		segments int
		vertices int
		indices  int
	}{
		{"single", 1, 24, 36},
		{"double", 2, 54, 144},
		{"clamped", 0, 24, 36},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewBox(1, 1, 1, tt.segments, tt.segments, tt.segments)
			assert.Equal(t, KindMesh, g.Kind())
			assert.Equal(t, tt.vertices, g.VertexCount())
			assert.Len(t, g.Indices(), tt.indices)
			assert.Equal(t, tt.vertices, g.Attribute(AttributeNormal).Count())
			assert.Equal(t, tt.vertices, g.Attribute(AttributeUV).Count())
		})
	}
}

func TestBoxWireframeEdgesAreUnique(t *testing.T) {
	g := NewBox(1, 1, 1, 1, 1, 1)
	// four sides and a diagonal per face, faces do not share vertices
	assert.Len(t, g.Edges(), 6*5*2)

	seen := map[[2]uint32]bool{}
	e := g.Edges()
	for i := 0; i < len(e); i += 2 {
		key := [2]uint32{e[i], e[i+1]}
		assert.False(t, seen[key])
		assert.Less(t, e[i], e[i+1])
		seen[key] = true
	}
}

func TestBoxVerticesLieOnSurface(t *testing.T) {
	g := NewBox(2, 4, 6, 3, 3, 3)
	p := g.Attribute(AttributePosition)
	for i := range p.Count() {
		x, y, z := p.At(i, 0), p.At(i, 1), p.At(i, 2)
		assert.LessOrEqual(t, x*x, float32(1.0001))
		assert.LessOrEqual(t, y*y, float32(4.0001))
		assert.LessOrEqual(t, z*z, float32(9.0001))
	}
	center, radius := g.BoundingSphere()
	assert.InDelta(t, 0, center.Len(), 1e-5)
	assert.InDelta(t, 3.741657, radius, 1e-4)
}

func TestSphereAndTorusBounds(t *testing.T) {
	s := NewSphere(0.5, 16, 16)
	_, r := s.BoundingSphere()
	assert.InDelta(t, 0.5, r, 1e-4)
	assert.Equal(t, 17*17, s.VertexCount())
	// the pole rows contribute one triangle per segment
	assert.Len(t, s.Indices(), (16*16*2-2*16)*3)

	tor := NewTorus(0.3, 0.2, 16, 32)
	_, r = tor.BoundingSphere()
	assert.InDelta(t, 0.5, r, 1e-4)
	assert.Len(t, tor.Indices(), 16*32*6)
}

func TestPlaneFacesPositiveZ(t *testing.T) {
	g := NewPlane(1, 1, 1, 1)
	n := g.Attribute(AttributeNormal)
	for i := range n.Count() {
		assert.Equal(t, float32(1), n.At(i, 2))
	}
	assert.Len(t, g.Indices(), 6)
}

func TestPointsHaveNoIndices(t *testing.T) {
	g := NewPoints([]float32{0, 0, 0, 1, 1, 1}, []float32{1, 0, 0, 0, 1, 0})
	assert.Equal(t, KindPoints, g.Kind())
	assert.Equal(t, 2, g.VertexCount())
	assert.Empty(t, g.Indices())
	assert.Empty(t, g.Edges())
	assert.Equal(t, []string{AttributeColor, AttributePosition}, g.AttributeNames())
}

func TestAxesAreSegmentPairs(t *testing.T) {
	g := NewAxes(2)
	assert.Equal(t, KindLines, g.Kind())
	assert.Equal(t, []uint32{0, 1, 2, 3, 4, 5}, g.Edges())
}

func TestAttributeVersionBumps(t *testing.T) {
	a := NewAttribute([]float32{1, 2, 3}, 3)
	assert.Zero(t, a.Version())
	a.Set(0, 1, 5)
	assert.Zero(t, a.Version())
	a.NeedsUpdate()
	assert.Equal(t, uint64(1), a.Version())
	assert.Equal(t, float32(5), a.At(0, 1))
}

func TestDisposeIsIdempotentAndBlocksWrites(t *testing.T) {
	g := NewBox(1, 1, 1, 1, 1, 1)
	g.Dispose()
	g.Dispose()

	assert.True(t, g.Disposed())
	assert.Zero(t, g.VertexCount())
	assert.Nil(t, g.Attribute(AttributePosition))
	require.ErrorIs(t, g.SetAttribute(AttributeColor, NewAttribute(nil, 3)), ErrDisposed)
}
