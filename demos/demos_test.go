package demos

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-lessons/common"
	"github.com/Carmen-Shannon/oxy-lessons/engine"
	"github.com/Carmen-Shannon/oxy-lessons/engine/camera"
	"github.com/Carmen-Shannon/oxy-lessons/engine/driver"
	"github.com/Carmen-Shannon/oxy-lessons/engine/entity"
	"github.com/Carmen-Shannon/oxy-lessons/engine/geometry"
	"github.com/Carmen-Shannon/oxy-lessons/engine/light"
	"github.com/Carmen-Shannon/oxy-lessons/engine/panel"
	"github.com/Carmen-Shannon/oxy-lessons/engine/scene"
	"github.com/Carmen-Shannon/oxy-lessons/engine/texture"
	"github.com/Carmen-Shannon/oxy-lessons/engine/window"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type session struct {
	engine.Engine
	src    *driver.ManualSource
	errors []*driver.FrameError
	frame  driver.FrameInfo
}

// tick advances n frames and fails the test if one was not delivered.
func (s *session) tick(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		require.True(t, s.src.Tick())
	}
}

// startLesson sets the lesson up on a headless 800x600 engine, then starts the loop.
func startLesson(t *testing.T, name string, options ...engine.EngineBuilderOption) *session {
	t.Helper()
	lesson, err := Find(name)
	require.NoError(t, err)

	s := &session{src: driver.NewManualSource(16 * time.Millisecond)}
	options = append([]engine.EngineBuilderOption{engine.WithRefreshSource(s.src), engine.WithSize(800, 600)}, options...)
	e, err := engine.NewEngine(append(options, lesson.EngineOptions()...)...)
	require.NoError(t, err)
	s.Engine = e
	t.Cleanup(func() { _ = e.Close() })

	e.OnError(func(fe *driver.FrameError) { s.errors = append(s.errors, fe) })
	require.NoError(t, lesson.Setup(e))
	e.AddUpdate("probe", func(f driver.FrameInfo) error {
		s.frame = f
		return nil
	})
	require.NoError(t, e.Start(context.Background()))
	return s
}

func byName(t *testing.T, s scene.Scene, name string) entity.Entity {
	t.Helper()
	var found entity.Entity
	for _, root := range s.Entities() {
		root.Traverse(func(e entity.Entity) bool {
			if found == nil && e.Name() == name {
				found = e
			}
			return found == nil
		})
	}
	require.NotNil(t, found, "entity %q", name)
	return found
}

func TestFind(t *testing.T) {
	l, err := Find("Debug-UI")
	require.NoError(t, err)
	assert.Equal(t, "debug-ui", l.Name)

	_, err = Find("shadows")
	assert.ErrorIs(t, err, ErrUnknownLesson)

	names := map[string]bool{}
	for _, l := range Lessons() {
		assert.False(t, names[l.Name], "duplicate lesson %q", l.Name)
		names[l.Name] = true
		assert.NotEmpty(t, l.Description)
		assert.NotNil(t, l.Setup)
	}
}

func TestEveryLessonRendersWithoutFrameErrors(t *testing.T) {
	for _, l := range Lessons() {
		t.Run(l.Name, func(t *testing.T) {
			s := startLesson(t, l.Name)
			s.tick(t, 5)

			assert.Empty(t, s.errors)
			assert.NotZero(t, s.Scene().Len())
			stats := s.Driver().Stats()
			assert.Equal(t, uint64(5), stats.Frames)
			assert.Zero(t, stats.Skipped)
		})
	}
}

func TestTransformGroupAndCamera(t *testing.T) {
	s := startLesson(t, "transform")
	s.tick(t, 1)

	cube2 := byName(t, s.Scene(), "cube2")
	assert.Equal(t, mgl32.Vec3{-2, 0, 0}, cube2.Position())
	assert.True(t, cube2.WorldPosition().ApproxEqualThreshold(mgl32.Vec3{-2, 1, 0}, 1e-6))

	mesh := byName(t, s.Scene(), "mesh")
	assert.Equal(t, common.OrderYXZ, mesh.RotationOrder())

	want := mgl32.Vec3{0, 1, -3}.Normalize()
	assert.True(t, s.Camera().Forward().ApproxEqualThreshold(want, 1e-5))
}

func TestAnimationTweensThereAndBack(t *testing.T) {
	s := startLesson(t, "animation")
	mesh := byName(t, s.Scene(), "mesh")

	var peak float32
	for s.frame.Elapsed < 3.2 {
		s.tick(t, 1)
		peak = max(peak, mesh.Position()[0])
	}
	assert.InDelta(t, 2, peak, 0.1)
	assert.InDelta(t, 0, mesh.Position()[0], 1e-6)

	el := float32(s.frame.Elapsed)
	want := mgl32.Vec3{math32.Cos(el), math32.Sin(el), 3}
	assert.True(t, s.Camera().Position().ApproxEqualThreshold(want, 1e-5))
	assert.Equal(t, 0, s.Tweens().Len())
}

func TestCursorDrivesCamera(t *testing.T) {
	s := startLesson(t, "camera")
	s.HandleEvent(window.Event{Kind: window.EventPointerMove, Pointer: window.NormalizePointer(600, 300, 800, 600)})
	s.tick(t, 1)

	assert.True(t, s.Camera().Position().ApproxEqualThreshold(mgl32.Vec3{3, 0, 0}, 1e-5))
	assert.True(t, s.Camera().Forward().ApproxEqualThreshold(mgl32.Vec3{-1, 0, 0}, 1e-5))
}

func TestControlsAreDamped(t *testing.T) {
	s := startLesson(t, "camera-controls")
	cc := s.Controller()
	require.NotNil(t, cc)
	assert.True(t, cc.Damping())

	cc.Zoom(2)
	s.tick(t, 1)
	assert.Greater(t, cc.Remaining(), float32(0))
	s.tick(t, 300)
	assert.InDelta(t, 0, cc.Remaining(), 1e-3)
}

func TestOrthographicCameraMatchesViewport(t *testing.T) {
	s := startLesson(t, "camera-ortho")
	s.tick(t, 1)
	cam := s.Camera()
	assert.Equal(t, camera.ProjectionOrthographic, cam.Projection())
	left, right, top, bottom := cam.Extents()
	assert.InDelta(t, -800.0/600.0, left, 1e-5)
	assert.InDelta(t, 800.0/600.0, right, 1e-5)
	assert.InDelta(t, 1, top, 1e-6)
	assert.InDelta(t, -1, bottom, 1e-6)
}

func TestDebugUIPanel(t *testing.T) {
	s := startLesson(t, "debug-ui")
	p := s.Panel()
	assert.True(t, p.Hidden())
	assert.Equal(t, "Debug UI", p.Title())

	s.HandleEvent(window.Event{Kind: window.EventKeyDown, Key: common.KeyH})
	assert.False(t, p.Hidden())
	s.HandleEvent(window.Event{Kind: window.EventKeyDown, Key: common.KeyH})
	assert.True(t, p.Hidden())

	folders := p.Folders()
	require.Len(t, folders, 1)
	cube := folders[0]
	assert.Equal(t, "Cube", cube.Title())
	mesh := byName(t, s.Scene(), "cube")

	elevation := cube.Find("elevation").(*panel.Number)
	require.NoError(t, elevation.Set(5))
	assert.Equal(t, float32(3), mesh.Position()[1])

	require.NoError(t, cube.Find("color").(*panel.Color).Set("#ff8800"))
	assert.Equal(t, "#ff8800", mesh.Material().ColorHex())

	cube.Find("wireframe").(*panel.Bool).Toggle()
	assert.False(t, mesh.Material().Wireframe())

	first := mesh.Geometry()
	subdivision := cube.Find("subdivision").(*panel.Number)
	require.NoError(t, subdivision.Set(4))
	assert.Same(t, first, mesh.Geometry())
	subdivision.Finish()
	assert.True(t, first.Disposed())
	assert.Equal(t, 6*5*5, mesh.Geometry().VertexCount())

	cube.Find("spin").(*panel.Action).Press()
	s.tick(t, 40)
	assert.InDelta(t, 2*math32.Pi, mesh.Rotation()[1], 1e-4)
	assert.Empty(t, s.errors)
}

func TestTexturesLoadThroughManager(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	s := startLesson(t, "textures", engine.WithLogger(zap.New(core)))

	require.Eventually(t, func() bool {
		s.src.Tick()
		return logs.FilterMessage("loading finished").Len() == 1
	}, 5*time.Second, time.Millisecond)

	assert.Equal(t, 1, logs.FilterMessage("loading started").Len())
	assert.Equal(t, 1+len(doorMaps), logs.FilterMessage("loading progress").Len())
	assert.Zero(t, logs.FilterMessage("loading failed").Len())

	color := byName(t, s.Scene(), "crate").Material().Map()
	require.NotNil(t, color)
	assert.Equal(t, texture.StateLoaded, color.State())
	assert.Equal(t, texture.ColorSpaceSRGB, color.ColorSpace())
	assert.Equal(t, texture.FilterNearest, color.MinFilter())
	assert.Equal(t, texture.FilterNearest, color.MagFilter())
	assert.False(t, color.GenerateMipmaps())
	w, h := color.Size()
	assert.Equal(t, []int{16, 16}, []int{w, h})
}

func TestLightsScene(t *testing.T) {
	s := startLesson(t, "lights")
	s.tick(t, 10)

	kinds := map[light.Kind]bool{}
	for _, l := range s.Scene().Lights() {
		kinds[l.Kind()] = true
	}
	assert.Len(t, kinds, 6)

	sphere := byName(t, s.Scene(), "sphere")
	assert.Equal(t, float32(0.4), sphere.Material().Roughness())
	assert.Same(t, sphere.Material(), byName(t, s.Scene(), "torus").Material())

	el := float32(s.frame.Elapsed)
	assert.True(t, sphere.Rotation().ApproxEqualThreshold(mgl32.Vec3{0.15 * el, 0.1 * el, 0}, 1e-6))
	assert.NotZero(t, s.Backend().Stats().Triangles)
}

func TestParticlesWaveInPlace(t *testing.T) {
	s := startLesson(t, "particles")
	particles := byName(t, s.Scene(), "particles")
	pos := particles.Geometry().Attribute(geometry.AttributePosition)
	require.Equal(t, particleCount, pos.Count())
	backing := &pos.Data[0]
	version := pos.Version()

	s.tick(t, 3)

	assert.Same(t, backing, &pos.Data[0])
	assert.Equal(t, version+3, pos.Version())
	el := float32(s.frame.Elapsed)
	for _, i := range []int{0, 1, particleCount / 2, particleCount - 1} {
		x := pos.At(i, 0)
		assert.InDelta(t, math32.Sin(el+x), pos.At(i, 1), 1e-6, "particle %d", i)
	}
	assert.InDelta(t, 0.2*el, particles.Rotation()[1], 1e-6)
	assert.False(t, particles.Material().DepthWrite())
}

func TestScatterStaysInRange(t *testing.T) {
	positions, colors := scatter(rand.New(rand.NewPCG(1, 2)), 1000, 10)
	require.Len(t, positions, 3000)
	require.Len(t, colors, 3000)
	for i := range positions {
		assert.True(t, positions[i] >= -5 && positions[i] < 5)
		assert.True(t, colors[i] >= 0 && colors[i] < 1)
	}
}

func TestWaveCoversEveryParticle(t *testing.T) {
	s := scene.NewScene("wave", scene.WithMinChunk(64))
	positions, _ := scatter(rand.New(rand.NewPCG(3, 4)), 5000, 10)
	pos := geometry.NewAttribute(positions, 3)

	wave(s, pos, 1.5)
	for i := 0; i < pos.Count(); i++ {
		require.InDelta(t, math32.Sin(1.5+pos.At(i, 0)), pos.At(i, 1), 1e-6)
	}
	assert.Equal(t, uint64(1), pos.Version())
}
