package scene

import (
	"errors"
	"runtime"
	"slices"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-lessons/common"
	"github.com/Carmen-Shannon/oxy-lessons/engine/entity"
	"github.com/Carmen-Shannon/oxy-lessons/engine/geometry"
	"github.com/Carmen-Shannon/oxy-lessons/engine/light"
	"github.com/Carmen-Shannon/oxy-lessons/engine/material"
	"github.com/go-gl/mathgl/mgl32"
)

var (
	// ErrDuplicate is returned when an entity is already registered.
	ErrDuplicate = errors.New("entity already in scene")
	// ErrNilEntity is returned when a nil entity is added.
	ErrNilEntity = errors.New("nil entity")
)

// Drawable is one visible shape resolved to world space for a single frame.
type Drawable struct {
	Entity   entity.Entity
	World    mgl32.Mat4
	Geometry geometry.Geometry
	Material material.Material
}

// Snapshot is the read-only view of a scene a backend draws from. Opaque drawables come
// first in registry order, then transparent drawables in registry order.
type Snapshot struct {
	Background common.Color
	Drawables  []Drawable
	Lights     []light.Light
}

// Scene is the insertion-ordered registry of root entities and lights that make up one
// visual scene. Registered entities carry their children with them: a group added once
// draws its whole subtree. The scene also owns a bounded worker pool that per-frame update
// functions use to split large buffer updates.
type Scene interface {
	// Name returns the scene's identifier.
	Name() string

	// SetName sets the scene's identifier.
	SetName(name string)

	// Background returns the linear clear color.
	Background() common.Color

	// SetBackgroundHex sets the clear color from an sRGB hex string.
	//
	// Parameters:
	//   - hex: the sRGB hex string
	//
	// Returns:
	//   - error: error if hex is not a valid color
	SetBackgroundHex(hex string) error

	// Add registers entities at the end of the draw order.
	//
	// Parameters:
	//   - entities: the entities or lights to register
	//
	// Returns:
	//   - error: ErrNilEntity or ErrDuplicate; entities before the failing one stay registered
	Add(entities ...entity.Entity) error

	// Remove unregisters entities. Unknown entities are ignored.
	//
	// Parameters:
	//   - entities: the entities to remove
	Remove(entities ...entity.Entity)

	// Get retrieves a registered entity by ID, or nil.
	//
	// Parameters:
	//   - id: the entity ID
	//
	// Returns:
	//   - entity.Entity: the entity or nil
	Get(id uint64) entity.Entity

	// Contains reports whether the entity is registered.
	Contains(e entity.Entity) bool

	// Entities returns the registered entities in insertion order.
	Entities() []entity.Entity

	// Lights returns every light reachable from the registry, in traversal order.
	Lights() []light.Light

	// Len returns the number of registered entities.
	Len() int

	// Clear unregisters everything. Geometries are not disposed.
	Clear()

	// Snapshot resolves the visible drawables and enabled lights for one frame.
	// Hidden entities prune their subtree; disposed geometries are skipped.
	//
	// Returns:
	//   - Snapshot: the frame view
	Snapshot() Snapshot

	// ParallelFor splits [0, n) into chunks and runs fn on the compute pool, returning once every
	// chunk finished. Small ranges run inline on the caller.
	//
	// Parameters:
	//   - n: the number of items
	//   - fn: called with disjoint half-open ranges [start, end)
	ParallelFor(n int, fn func(start, end int))
}

type scene struct {
	mu *sync.RWMutex

	name       string
	background common.Color
	registry   []entity.Entity
	index      map[uint64]entity.Entity

	// computePool manages a bounded set of reusable goroutines for ParallelFor.
	// Workers persist across frames, avoiding per-frame goroutine spawn/teardown overhead.
	computePool    worker.DynamicWorkerPool
	computeWorkers int
	minChunk       int
}

// Ensure scene implements Scene interface.
var _ Scene = &scene{}

// NewScene creates an empty Scene.
//
// Parameters:
//   - name: the name of the scene
//   - options: functional options to further configure the scene
//
// Returns:
//   - Scene: the newly created scene
func NewScene(name string, options ...SceneBuilderOption) Scene {
	s := &scene{
		mu:             &sync.RWMutex{},
		name:           name,
		index:          make(map[uint64]entity.Entity),
		computeWorkers: max(runtime.NumCPU()-1, 1),
		minChunk:       4096,
	}

	for _, option := range options {
		option(s)
	}

	// Initialize the compute pool after options so WithComputeWorkers can override the default.
	s.computePool = worker.NewDynamicWorkerPool(s.computeWorkers, 256, 1*time.Second)
	return s
}

func (s *scene) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

func (s *scene) SetName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.name = name
}

func (s *scene) Background() common.Color {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.background
}

func (s *scene) SetBackgroundHex(hex string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.background.SetHex(hex)
}

func (s *scene) Add(entities ...entity.Entity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range entities {
		if e == nil {
			return ErrNilEntity
		}
		if _, ok := s.index[e.ID()]; ok {
			return ErrDuplicate
		}
		s.index[e.ID()] = e
		s.registry = append(s.registry, e)
	}
	return nil
}

func (s *scene) Remove(entities ...entity.Entity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range entities {
		if e == nil {
			continue
		}
		if _, ok := s.index[e.ID()]; !ok {
			continue
		}
		delete(s.index, e.ID())
		s.registry = slices.DeleteFunc(s.registry, func(r entity.Entity) bool { return r.ID() == e.ID() })
	}
}

func (s *scene) Get(id uint64) entity.Entity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index[id]
}

func (s *scene) Contains(e entity.Entity) bool {
	if e == nil {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.index[e.ID()]
	return ok
}

func (s *scene) Entities() []entity.Entity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.registry)
}

func (s *scene) Lights() []light.Light {
	var lights []light.Light
	for _, root := range s.Entities() {
		walk(root, func(e entity.Entity) bool {
			if l, ok := e.(light.Light); ok {
				lights = append(lights, l)
			}
			return true
		})
	}
	return lights
}

func (s *scene) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.registry)
}

func (s *scene) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.registry = nil
	s.index = make(map[uint64]entity.Entity)
}

func (s *scene) Snapshot() Snapshot {
	snap := Snapshot{Background: s.Background()}
	var transparent []Drawable

	for _, root := range s.Entities() {
		walkWorld(root, root.Parent(), func(e entity.Entity, world mgl32.Mat4) bool {
			if !e.Visible() {
				return false
			}
			if l, ok := e.(light.Light); ok {
				if l.Enabled() {
					snap.Lights = append(snap.Lights, l)
				}
				return true
			}
			g, m := e.Geometry(), e.Material()
			if g == nil || m == nil || g.Disposed() {
				return true
			}
			d := Drawable{Entity: e, World: world, Geometry: g, Material: m}
			if m.Transparent() {
				transparent = append(transparent, d)
			} else {
				snap.Drawables = append(snap.Drawables, d)
			}
			return true
		})
	}
	snap.Drawables = append(snap.Drawables, transparent...)
	return snap
}

func (s *scene) ParallelFor(n int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	chunks := min(s.computeWorkers, (n+s.minChunk-1)/s.minChunk)
	if chunks <= 1 {
		fn(0, n)
		return
	}

	// A WaitGroup provides the per-call barrier since pool.Wait() blocks until
	// workers idle-exit.
	size := (n + chunks - 1) / chunks
	var wg sync.WaitGroup
	for id, start := 0, 0; start < n; id, start = id+1, start+size {
		end := min(start+size, n)
		wg.Add(1)
		s.computePool.SubmitTask(worker.Task{
			ID: id,
			Do: func() (any, error) {
				defer wg.Done()
				fn(start, end)
				return nil, nil
			},
		})
	}
	wg.Wait()
}

// walk visits e and its descendants depth first. Returning false prunes the subtree.
// Unlike Entity.Traverse it hands fn the registered value, so lights keep their Light type.
func walk(e entity.Entity, fn func(e entity.Entity) bool) {
	if !fn(e) {
		return
	}
	for _, c := range e.Children() {
		walk(c, fn)
	}
}

// walkWorld is walk with each entity's world matrix accumulated from its parent's.
func walkWorld(e, parent entity.Entity, fn func(e entity.Entity, world mgl32.Mat4) bool) {
	world := e.LocalMatrix()
	if parent != nil {
		world = parent.WorldMatrix().Mul4(world)
	}
	var visit func(e entity.Entity, world mgl32.Mat4)
	visit = func(e entity.Entity, world mgl32.Mat4) {
		if !fn(e, world) {
			return
		}
		for _, c := range e.Children() {
			visit(c, world.Mul4(c.LocalMatrix()))
		}
	}
	visit(e, world)
}
