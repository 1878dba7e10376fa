package panel

import (
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-lessons/engine/entity"
	"github.com/Carmen-Shannon/oxy-lessons/engine/geometry"
	"github.com/Carmen-Shannon/oxy-lessons/engine/material"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumberClampsAndSnapsToStep(t *testing.T) {
	tests := []struct {
		name  string
		input float64
		want  float64
	}{
		{"rounds down", 7.3, 7},
		{"rounds up", 7.6, 8},
		{"below range", -4, 1},
		{"above range", 25, 20},
		{"on grid", 13, 13},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := NewPanel().AddNumber("n", Value(2.0)).Min(1).Max(20).Step(1)
			require.NoError(t, n.Set(tt.input))
			assert.Equal(t, tt.want, n.Value())
		})
	}
}

func TestNumberFineStepHasNoBinaryNoise(t *testing.T) {
	p := NewPanel()
	n := p.AddNumber("elevation", Value(0.0)).Min(-3).Max(3).Step(0.01)
	require.NoError(t, n.Set(1.237))
	assert.Equal(t, 1.24, n.Value())
	require.NoError(t, n.Set(-2.999))
	assert.Equal(t, -3.0, n.Value())
}

func TestNumberStepCannotExceedMax(t *testing.T) {
	p := NewPanel()
	n := p.AddNumber("odd", Value(0.0)).Min(0).Max(1).Step(0.3)
	require.NoError(t, n.Set(0.99))
	assert.Equal(t, 0.9, n.Value())
}

func TestNumberRejectsNonFinite(t *testing.T) {
	p := NewPanel()
	changes := 0
	n := p.AddNumber("x", Value(5.0)).Min(1).Max(20).Step(1).OnChange(func(float64) { changes++ })

	assert.ErrorIs(t, n.Set(math.NaN()), ErrInvalidValue)
	assert.ErrorIs(t, n.Set(math.Inf(1)), ErrInvalidValue)
	assert.Equal(t, 5.0, n.Value())
	assert.Zero(t, changes)
}

func TestOnChangeFiresOnlyWhenValueChanges(t *testing.T) {
	p := NewPanel()
	var seen []float64
	n := p.AddNumber("x", Value(5.0)).Min(1).Max(20).Step(1).OnChange(func(v float64) { seen = append(seen, v) })

	require.NoError(t, n.Set(5.2))
	require.NoError(t, n.Set(6))
	require.NoError(t, n.Set(6.4))
	assert.Equal(t, []float64{6}, seen)
}

func TestFinishRebuildsOnceAndDisposesPreviousShape(t *testing.T) {
	first := geometry.NewBox(1, 1, 1, 2, 2, 2)
	mesh := entity.NewMesh(first, material.NewBasic())

	p := NewPanel()
	rebuilds := 0
	sub := p.AddNumber("subdivision", Value(2.0)).Min(1).Max(20).Step(1)
	sub.OnFinishChange(func(v float64) {
		rebuilds++
		n := int(v)
		mesh.ReplaceGeometry(geometry.NewBox(1, 1, 1, n, n, n))
	})

	// dragging through intermediate values rebuilds nothing
	for _, v := range []float64{3, 4.2, 5.8, 7.3} {
		require.NoError(t, sub.Set(v))
	}
	assert.Zero(t, rebuilds)
	assert.Same(t, first, mesh.Geometry())

	sub.Finish()
	assert.Equal(t, 1, rebuilds)
	assert.True(t, first.Disposed())
	assert.Equal(t, 6*8*8, mesh.Geometry().VertexCount())

	// finishing again without a change is a no-op
	sub.Finish()
	assert.Equal(t, 1, rebuilds)
}

func TestBoolWritesThrough(t *testing.T) {
	m := material.NewBasic(material.WithWireframe(true))
	p := NewPanel()
	flips := 0
	b := p.AddBool("wireframe", Accessor[bool]{Get: m.Wireframe, Set: m.SetWireframe}).OnChange(func(bool) { flips++ })

	b.Toggle()
	assert.False(t, m.Wireframe())
	b.Set(false)
	assert.Equal(t, 1, flips)
}

func TestColorRoutesThroughColorSet(t *testing.T) {
	m := material.NewBasic(material.WithColorHex("#A778D8"))
	p := NewPanel()
	var got string
	c := p.AddColor("color", m).OnChange(func(hex string) { got = hex })

	assert.Equal(t, "#a778d8", c.Value())
	require.NoError(t, c.Set("#ff8800"))
	assert.Equal(t, "#ff8800", m.ColorHex())
	assert.Equal(t, "#ff8800", got)

	assert.ErrorIs(t, c.Set("orange-ish"), ErrInvalidValue)
	assert.Equal(t, "#ff8800", m.ColorHex())
}

func TestNumberBindsToEntityAttribute(t *testing.T) {
	mesh := entity.New()
	p := NewPanel()
	y := p.AddNumber("y", Float32(
		func() float32 { return mesh.Position()[1] },
		func(v float32) { pos := mesh.Position(); mesh.SetPosition(pos[0], v, pos[2]) },
	)).Min(-3).Max(3).Step(0.01).Name("elevation")

	require.NoError(t, y.Set(2.5))
	assert.Equal(t, float32(2.5), mesh.Position()[1])
	assert.Equal(t, "elevation", y.Label())
}

func TestVisibilityAndFolders(t *testing.T) {
	p := NewPanel(WithTitle("Debug UI"), WithWidth(300), WithHidden(true), WithCloseFolders(true))
	assert.Equal(t, "Debug UI", p.Title())
	assert.Equal(t, 300, p.Width())
	assert.True(t, p.Hidden())

	p.Toggle()
	assert.False(t, p.Hidden())
	p.Toggle()
	assert.True(t, p.Hidden())
	p.Show()
	assert.False(t, p.Hidden())

	cube := p.AddFolder("Cube")
	assert.True(t, cube.Closed())
	cube.Open()
	assert.False(t, cube.Closed())
	require.Len(t, p.Folders(), 1)
}

func TestSnapshotAndActions(t *testing.T) {
	p := NewPanel()
	cube := p.AddFolder("Cube")
	cube.AddNumber("subdivision", Value(2.0))
	cube.AddBool("visible", Value(true))
	spins := 0
	cube.AddAction("spin", func() { spins++ })
	p.AddNumber("speed", Value(0.5))

	assert.Equal(t, map[string]any{
		"Cube/subdivision": 2.0,
		"Cube/visible":     true,
		"speed":            0.5,
	}, p.Snapshot())

	cube.Find("spin").(*Action).Press()
	assert.Equal(t, 1, spins)
	assert.Nil(t, cube.Find("missing"))
}
