package geometry

import (
	"errors"
	"math"
	"slices"
	"sync"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Well-known attribute names.
const (
	AttributePosition = "position"
	AttributeNormal   = "normal"
	AttributeUV       = "uv"
	AttributeColor    = "color"
)

// Kind describes how a geometry's vertices are meant to be drawn.
type Kind int

const (
	// KindMesh is an indexed triangle mesh.
	KindMesh Kind = iota
	// KindPoints is an unindexed point cloud.
	KindPoints
	// KindLines is a list of line segments, one per vertex pair.
	KindLines
)

// ErrDisposed is returned when a disposed geometry is modified.
var ErrDisposed = errors.New("geometry disposed")

type geometryImpl struct {
	mu *sync.Mutex

	name     string
	kind     Kind
	attrs    map[string]*Attribute
	order    []string
	indices  []uint32
	edges    []uint32
	radius   float32
	center   mgl32.Vec3
	disposed bool
}

// Geometry is a shape description: named vertex attributes plus optional triangle indices.
// Entities reference a Geometry; replacing one must Dispose the previous geometry.
type Geometry interface {
	// Name returns the geometry's descriptive name, e.g. "box".
	Name() string

	// Kind returns the drawing primitive.
	Kind() Kind

	// Attribute returns the named attribute or nil.
	//
	// Parameters:
	//   - name: the attribute name
	//
	// Returns:
	//   - *Attribute: the attribute or nil if absent
	Attribute(name string) *Attribute

	// SetAttribute adds or replaces an attribute and recomputes the bounds when the position changes.
	//
	// Parameters:
	//   - name: the attribute name
	//   - attr: the attribute
	//
	// Returns:
	//   - error: ErrDisposed if the geometry was disposed
	SetAttribute(name string, attr *Attribute) error

	// AttributeNames returns the attribute names in insertion order.
	AttributeNames() []string

	// VertexCount returns the number of vertices in the position attribute.
	VertexCount() int

	// Indices returns the triangle index list, three per face. Empty for points and lines.
	Indices() []uint32

	// Edges returns unique line segments as index pairs, used for wireframe drawing.
	// For KindLines this is every consecutive vertex pair.
	Edges() []uint32

	// BoundingSphere returns the center and radius enclosing every position.
	//
	// Returns:
	//   - mgl32.Vec3: the center in local space
	//   - float32: the radius
	BoundingSphere() (mgl32.Vec3, float32)

	// ComputeBoundingSphere recomputes the bounds from the position attribute.
	// Call after moving vertices beyond the original extent.
	ComputeBoundingSphere()

	// Dispose releases the geometry. Backends skip disposed geometries. Idempotent.
	Dispose()

	// Disposed reports whether Dispose was called.
	Disposed() bool
}

var _ Geometry = &geometryImpl{}

func newGeometry(name string, kind Kind) *geometryImpl {
	return &geometryImpl{
		mu:    &sync.Mutex{},
		name:  name,
		kind:  kind,
		attrs: make(map[string]*Attribute),
	}
}

// NewBuffer creates a geometry from raw attributes, the way a particle system is built.
//
// Parameters:
//   - name: descriptive name
//   - kind: the drawing primitive
//   - attrs: attributes keyed by name; AttributePosition is required
//   - indices: optional triangle indices (ignored unless kind is KindMesh)
//
// Returns:
//   - Geometry: the geometry
func NewBuffer(name string, kind Kind, attrs map[string]*Attribute, indices []uint32) Geometry {
	g := newGeometry(name, kind)
	names := make([]string, 0, len(attrs))
	for n := range attrs {
		names = append(names, n)
	}
	slices.Sort(names)
	for _, n := range names {
		g.setAttribute(n, attrs[n])
	}
	if kind == KindMesh {
		g.setIndices(indices)
	}
	if kind == KindLines {
		g.edges = lineEdges(g.VertexCount())
	}
	return g
}

// NewPoints creates a point cloud from flat xyz positions and optional rgb colors.
//
// Parameters:
//   - positions: 3 values per point
//   - colors: 3 values per point, or nil
//
// Returns:
//   - Geometry: the point geometry
func NewPoints(positions, colors []float32) Geometry {
	attrs := map[string]*Attribute{AttributePosition: NewAttribute(positions, 3)}
	if colors != nil {
		attrs[AttributeColor] = NewAttribute(colors, 3)
	}
	return NewBuffer("points", KindPoints, attrs, nil)
}

// NewLines creates line segments from flat xyz positions (two vertices per segment)
// and optional rgb colors.
//
// Parameters:
//   - positions: 6 values per segment
//   - colors: 3 values per vertex, or nil
//
// Returns:
//   - Geometry: the line geometry
func NewLines(positions, colors []float32) Geometry {
	attrs := map[string]*Attribute{AttributePosition: NewAttribute(positions, 3)}
	if colors != nil {
		attrs[AttributeColor] = NewAttribute(colors, 3)
	}
	return NewBuffer("lines", KindLines, attrs, nil)
}

func (g *geometryImpl) Name() string { return g.name }

func (g *geometryImpl) Kind() Kind { return g.kind }

func (g *geometryImpl) Attribute(name string) *Attribute {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.attrs[name]
}

func (g *geometryImpl) SetAttribute(name string, attr *Attribute) error {
	g.mu.Lock()
	if g.disposed {
		g.mu.Unlock()
		return ErrDisposed
	}
	g.mu.Unlock()
	g.setAttribute(name, attr)
	return nil
}

func (g *geometryImpl) AttributeNames() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return slices.Clone(g.order)
}

func (g *geometryImpl) VertexCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	if p := g.attrs[AttributePosition]; p != nil {
		return p.Count()
	}
	return 0
}

func (g *geometryImpl) Indices() []uint32 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.indices
}

func (g *geometryImpl) Edges() []uint32 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.edges
}

func (g *geometryImpl) BoundingSphere() (mgl32.Vec3, float32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.center, g.radius
}

func (g *geometryImpl) ComputeBoundingSphere() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.computeBounds()
}

func (g *geometryImpl) Dispose() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.disposed {
		return
	}
	g.disposed = true
	g.attrs = make(map[string]*Attribute)
	g.order = nil
	g.indices = nil
	g.edges = nil
}

func (g *geometryImpl) Disposed() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.disposed
}

func (g *geometryImpl) setAttribute(name string, attr *Attribute) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.attrs[name]; !ok {
		g.order = append(g.order, name)
	}
	g.attrs[name] = attr
	if name == AttributePosition {
		g.computeBounds()
	}
}

func (g *geometryImpl) setIndices(indices []uint32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.indices = indices
	g.edges = triangleEdges(indices)
}

// computeBounds fits a sphere around the axis-aligned box of the positions. Caller must hold the mutex.
func (g *geometryImpl) computeBounds() {
	p := g.attrs[AttributePosition]
	if p == nil || p.Count() == 0 || p.ItemSize < 3 {
		g.center, g.radius = mgl32.Vec3{}, 0
		return
	}
	lo := mgl32.Vec3{math.MaxFloat32, math.MaxFloat32, math.MaxFloat32}
	hi := lo.Mul(-1)
	for i := range p.Count() {
		for c := range 3 {
			v := p.At(i, c)
			lo[c] = min(lo[c], v)
			hi[c] = max(hi[c], v)
		}
	}
	center := lo.Add(hi).Mul(0.5)
	var r2 float32
	for i := range p.Count() {
		d := mgl32.Vec3{p.At(i, 0), p.At(i, 1), p.At(i, 2)}.Sub(center)
		r2 = max(r2, d.Dot(d))
	}
	g.center, g.radius = center, math32.Sqrt(r2)
}

// triangleEdges lists each undirected triangle edge once.
func triangleEdges(indices []uint32) []uint32 {
	seen := make(map[uint64]struct{}, len(indices))
	edges := make([]uint32, 0, len(indices)*2)
	for f := 0; f+2 < len(indices); f += 3 {
		tri := [3]uint32{indices[f], indices[f+1], indices[f+2]}
		for k := range 3 {
			a, b := tri[k], tri[(k+1)%3]
			if a > b {
				a, b = b, a
			}
			key := uint64(a)<<32 | uint64(b)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			edges = append(edges, a, b)
		}
	}
	return edges
}

func lineEdges(vertices int) []uint32 {
	edges := make([]uint32, 0, vertices)
	for i := 0; i+1 < vertices; i += 2 {
		edges = append(edges, uint32(i), uint32(i+1))
	}
	return edges
}
