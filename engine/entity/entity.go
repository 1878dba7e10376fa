package entity

import (
	"errors"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-lessons/common"
	"github.com/Carmen-Shannon/oxy-lessons/engine/geometry"
	"github.com/Carmen-Shannon/oxy-lessons/engine/material"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	// ErrCycle is returned when adding an entity would make it its own ancestor.
	ErrCycle = errors.New("entity cannot be added to itself or its descendants")
	// ErrNilEntity is returned when a nil child is added.
	ErrNilEntity = errors.New("nil entity")
)

var nextID atomic.Uint64

type entity struct {
	mu *sync.Mutex

	id       uint64
	name     string
	position mgl32.Vec3
	rotation mgl32.Vec3
	order    common.RotationOrder
	scale    mgl32.Vec3
	visible  bool

	geom geometry.Geometry
	mat  material.Material

	parent   Entity
	children []Entity
}

// Entity is a positioned, oriented and scaled node of the scene graph. An entity with a
// geometry and material is drawable; one without is a group (or a light). Children inherit
// the parent's world transform: world = parent world * local, local = T * R * S.
type Entity interface {
	// ID returns the process-unique identifier assigned at construction.
	//
	// Returns:
	//   - uint64: the entity ID
	ID() uint64

	// Name returns the entity's descriptive name.
	Name() string

	// SetName sets the entity's descriptive name.
	SetName(name string)

	// Position returns the local position relative to the parent.
	//
	// Returns:
	//   - mgl32.Vec3: the local position
	Position() mgl32.Vec3

	// SetPosition sets the local position.
	//
	// Parameters:
	//   - x, y, z: position components
	SetPosition(x, y, z float32)

	// Translate moves the local position by a delta.
	//
	// Parameters:
	//   - dx, dy, dz: the offset
	Translate(dx, dy, dz float32)

	// Rotation returns the local Euler angles in radians.
	//
	// Returns:
	//   - mgl32.Vec3: rotation around x, y and z
	Rotation() mgl32.Vec3

	// SetRotation sets the local Euler angles in radians.
	//
	// Parameters:
	//   - rx, ry, rz: rotation around each axis
	SetRotation(rx, ry, rz float32)

	// Rotate adds to the local Euler angles.
	//
	// Parameters:
	//   - drx, dry, drz: angle deltas in radians
	Rotate(drx, dry, drz float32)

	// RotationOrder returns the order the Euler angles are applied in.
	RotationOrder() common.RotationOrder

	// SetRotationOrder changes how the Euler angles are applied. Invalid orders are ignored.
	//
	// Parameters:
	//   - order: the new order, e.g. common.OrderYXZ
	SetRotationOrder(order common.RotationOrder)

	// Scale returns the local scale.
	Scale() mgl32.Vec3

	// SetScale sets the local scale.
	//
	// Parameters:
	//   - sx, sy, sz: scale factors
	SetScale(sx, sy, sz float32)

	// Visible reports whether the entity and its subtree are drawn.
	Visible() bool

	// SetVisible shows or hides the entity and its subtree.
	SetVisible(visible bool)

	// Geometry returns the shape, or nil for groups and lights.
	Geometry() geometry.Geometry

	// SetGeometry assigns a shape without disposing the previous one.
	SetGeometry(g geometry.Geometry)

	// ReplaceGeometry disposes the current shape, then assigns g.
	//
	// Parameters:
	//   - g: the new shape
	ReplaceGeometry(g geometry.Geometry)

	// Material returns the surface, or nil.
	Material() material.Material

	// SetMaterial assigns the surface.
	SetMaterial(m material.Material)

	// Parent returns the parent, or nil for a root.
	Parent() Entity

	// Children returns a copy of the child list in insertion order.
	Children() []Entity

	// Add attaches children, detaching each from its previous parent first.
	//
	// Parameters:
	//   - children: the entities to attach
	//
	// Returns:
	//   - error: ErrCycle or ErrNilEntity; children before the failing one stay attached
	Add(children ...Entity) error

	// Remove detaches children. Entities that are not children are ignored.
	//
	// Parameters:
	//   - children: the entities to detach
	Remove(children ...Entity)

	// LocalMatrix returns T * R * S built from position, rotation (in RotationOrder) and scale.
	//
	// Returns:
	//   - mgl32.Mat4: the local transform
	LocalMatrix() mgl32.Mat4

	// WorldMatrix composes every ancestor's local matrix from the root down.
	//
	// Returns:
	//   - mgl32.Mat4: the world transform
	WorldMatrix() mgl32.Mat4

	// WorldPosition returns the entity origin in world space.
	WorldPosition() mgl32.Vec3

	// LookAt rotates the entity so its local +Z axis faces a world-space point.
	// Targets at the entity's own position are ignored.
	//
	// Parameters:
	//   - target: the world-space point
	LookAt(target mgl32.Vec3)

	// DistanceTo returns the world-space distance to a point.
	DistanceTo(p mgl32.Vec3) float32

	// Traverse calls fn for this entity and then every descendant, depth first in child order.
	// Returning false from fn skips that entity's subtree.
	//
	// Parameters:
	//   - fn: the visitor
	Traverse(fn func(e Entity) bool)

	setParent(p Entity)
}

var _ Entity = &entity{}

// New creates an entity configured with the given options. Without a geometry it acts as a group.
//
// Parameters:
//   - options: functional options to configure the entity
//
// Returns:
//   - Entity: the new entity
func New(options ...EntityBuilderOption) Entity {
	e := &entity{
		mu:      &sync.Mutex{},
		id:      nextID.Add(1),
		order:   common.OrderXYZ,
		scale:   mgl32.Vec3{1, 1, 1},
		visible: true,
	}
	for _, option := range options {
		option(e)
	}
	return e
}

// NewMesh creates a drawable entity.
//
// Parameters:
//   - g: the shape
//   - m: the surface
//   - options: functional options to configure the entity
//
// Returns:
//   - Entity: the new mesh entity
func NewMesh(g geometry.Geometry, m material.Material, options ...EntityBuilderOption) Entity {
	return New(append([]EntityBuilderOption{WithGeometry(g), WithMaterial(m)}, options...)...)
}

// NewGroup creates an entity with no shape whose transform applies to its children.
//
// Parameters:
//   - options: functional options to configure the group
//
// Returns:
//   - Entity: the new group
func NewGroup(options ...EntityBuilderOption) Entity {
	return New(append([]EntityBuilderOption{WithName("group")}, options...)...)
}

func (e *entity) ID() uint64 { return e.id }

func (e *entity) Name() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.name
}

func (e *entity) SetName(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.name = name
}

func (e *entity) Position() mgl32.Vec3 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.position
}

func (e *entity) SetPosition(x, y, z float32) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.position = mgl32.Vec3{x, y, z}
}

func (e *entity) Translate(dx, dy, dz float32) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.position = e.position.Add(mgl32.Vec3{dx, dy, dz})
}

func (e *entity) Rotation() mgl32.Vec3 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rotation
}

func (e *entity) SetRotation(rx, ry, rz float32) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rotation = mgl32.Vec3{rx, ry, rz}
}

func (e *entity) Rotate(drx, dry, drz float32) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rotation = e.rotation.Add(mgl32.Vec3{drx, dry, drz})
}

func (e *entity) RotationOrder() common.RotationOrder {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.order
}

func (e *entity) SetRotationOrder(order common.RotationOrder) {
	if !order.Valid() {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.order = order
}

func (e *entity) Scale() mgl32.Vec3 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.scale
}

func (e *entity) SetScale(sx, sy, sz float32) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.scale = mgl32.Vec3{sx, sy, sz}
}

func (e *entity) Visible() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.visible
}

func (e *entity) SetVisible(visible bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.visible = visible
}

func (e *entity) Geometry() geometry.Geometry {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.geom
}

func (e *entity) SetGeometry(g geometry.Geometry) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.geom = g
}

func (e *entity) ReplaceGeometry(g geometry.Geometry) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.geom != nil && e.geom != g {
		e.geom.Dispose()
	}
	e.geom = g
}

func (e *entity) Material() material.Material {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mat
}

func (e *entity) SetMaterial(m material.Material) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.mat = m
}

func (e *entity) Parent() Entity {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.parent
}

func (e *entity) Children() []Entity {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.children)
}

func (e *entity) Add(children ...Entity) error {
	for _, child := range children {
		if child == nil {
			return ErrNilEntity
		}
		for a := Entity(e); a != nil; a = a.Parent() {
			if a.ID() == child.ID() {
				return ErrCycle
			}
		}
		if old := child.Parent(); old != nil {
			old.Remove(child)
		}
		e.mu.Lock()
		e.children = append(e.children, child)
		e.mu.Unlock()
		child.setParent(e)
	}
	return nil
}

func (e *entity) Remove(children ...Entity) {
	for _, child := range children {
		if child == nil {
			continue
		}
		e.mu.Lock()
		idx := slices.IndexFunc(e.children, func(c Entity) bool { return c.ID() == child.ID() })
		if idx >= 0 {
			e.children = slices.Delete(e.children, idx, idx+1)
		}
		e.mu.Unlock()
		if idx >= 0 {
			child.setParent(nil)
		}
	}
}

func (e *entity) LocalMatrix() mgl32.Mat4 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return common.ComposeTRS(e.position, e.rotation, e.scale, e.order)
}

func (e *entity) WorldMatrix() mgl32.Mat4 {
	var chain []Entity
	for a := Entity(e); a != nil; a = a.Parent() {
		chain = append(chain, a)
	}
	world := mgl32.Ident4()
	for i := len(chain) - 1; i >= 0; i-- {
		world = world.Mul4(chain[i].LocalMatrix())
	}
	return world
}

func (e *entity) WorldPosition() mgl32.Vec3 {
	return e.WorldMatrix().Col(3).Vec3()
}

func (e *entity) LookAt(target mgl32.Vec3) {
	dir, ok := common.SafeNormalize(target.Sub(e.WorldPosition()))
	if !ok {
		return
	}
	rot := common.LookRotation(dir, mgl32.Vec3{0, 1, 0})
	if p := e.Parent(); p != nil {
		rot = parentRotation(p.WorldMatrix()).Transpose().Mul4(rot)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.rotation = common.EulerFromMatrix(rot, e.order)
}

func (e *entity) DistanceTo(p mgl32.Vec3) float32 {
	return e.WorldPosition().Sub(p).Len()
}

func (e *entity) Traverse(fn func(e Entity) bool) {
	stack := []Entity{e}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(cur) {
			continue
		}
		children := cur.Children()
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}
}

func (e *entity) setParent(p Entity) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.parent = p
}

// parentRotation strips scale and translation from a world matrix, leaving the pure rotation.
func parentRotation(m mgl32.Mat4) mgl32.Mat4 {
	r := mgl32.Ident4()
	for c := range 3 {
		axis, ok := common.SafeNormalize(m.Col(c).Vec3())
		if !ok {
			continue
		}
		r.SetCol(c, axis.Vec4(0))
	}
	return r
}
