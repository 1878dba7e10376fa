package demos

import (
	"fmt"
	"math/rand/v2"

	"github.com/Carmen-Shannon/oxy-lessons/engine"
	"github.com/Carmen-Shannon/oxy-lessons/engine/camera"
	"github.com/Carmen-Shannon/oxy-lessons/engine/driver"
	"github.com/Carmen-Shannon/oxy-lessons/engine/entity"
	"github.com/Carmen-Shannon/oxy-lessons/engine/geometry"
	"github.com/Carmen-Shannon/oxy-lessons/engine/material"
	"github.com/Carmen-Shannon/oxy-lessons/engine/scene"
	"github.com/chewxy/math32"
)

const (
	particleCount  = 50000
	particleSpread = 10
)

// scatter fills positions with values in [-spread/2, spread/2) and colors with values in [0, 1).
func scatter(rng *rand.Rand, count int, spread float32) (positions, colors []float32) {
	positions = make([]float32, count*3)
	colors = make([]float32, count*3)
	for i := range positions {
		positions[i] = (rng.Float32() - 0.5) * spread
		colors[i] = rng.Float32()
	}
	return positions, colors
}

// wave sets every particle's y to sin(t + x). The buffer is rewritten in place, so
// readers holding pos.Data see the new values; NeedsUpdate bumps the version for backends.
func wave(s scene.Scene, pos *geometry.Attribute, t float32) {
	data := pos.Data
	s.ParallelFor(pos.Count(), func(start, end int) {
		for i := start; i < end; i++ {
			i3 := i * 3
			data[i3+1] = math32.Sin(t + data[i3])
		}
	})
	pos.NeedsUpdate()
}

func setupParticles(e engine.Engine) error {
	alpha := newAssetLoader(e, nil).Load("textures/particles/2.png")

	positions, colors := scatter(rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())), particleCount, particleSpread)
	points := geometry.NewPoints(positions, colors)
	particles := entity.NewMesh(points, material.NewPoints(
		material.WithSize(0.03),
		material.WithSizeAttenuation(true),
		material.WithTransparent(true),
		material.WithAlphaMap(alpha),
		material.WithDepthWrite(false),
		material.WithBlending(material.BlendingAdditive),
		material.WithVertexColors(true),
	), entity.WithName("particles"))
	if err := e.Scene().Add(particles); err != nil {
		return fmt.Errorf("particles: %w", err)
	}

	pos := points.Attribute(geometry.AttributePosition)
	e.AddUpdate("particles", func(f driver.FrameInfo) error {
		t := float32(f.Elapsed)
		particles.SetRotation(0, 0.2*t, 0)
		wave(e.Scene(), pos, t)
		return nil
	})

	cam := e.Camera()
	cam.SetPosition(0, 0, 3)
	e.EnableControls(camera.WithDamping(true))
	return nil
}
