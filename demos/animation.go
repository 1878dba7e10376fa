package demos

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-lessons/engine"
	"github.com/Carmen-Shannon/oxy-lessons/engine/driver"
	"github.com/Carmen-Shannon/oxy-lessons/engine/entity"
	"github.com/Carmen-Shannon/oxy-lessons/engine/tween"
	"github.com/chewxy/math32"
)

// spinRate is the cube's yaw speed in radians per second.
const spinRate = 2

func setupAnimation(e engine.Engine) error {
	mesh := redCube(1, 1, 1, entity.WithName("mesh"))
	if err := e.Scene().Add(mesh); err != nil {
		return fmt.Errorf("animation: %w", err)
	}

	getX := func() float32 { return mesh.Position()[0] }
	setX := func(x float32) {
		p := mesh.Position()
		mesh.SetPosition(x, p[1], p[2])
	}
	e.Tweens().To(getX, setX, 2, tween.WithDuration(1), tween.WithDelay(1))
	e.Tweens().To(getX, setX, 0, tween.WithDuration(1), tween.WithDelay(2))

	e.AddUpdate("animation", func(f driver.FrameInfo) error {
		mesh.Rotate(0, spinRate*float32(f.Delta), 0)

		t := float32(f.Elapsed)
		cam := e.Camera()
		cam.SetPosition(math32.Cos(t), math32.Sin(t), 3)
		cam.LookAt(mesh.Position())
		return nil
	})
	return nil
}
