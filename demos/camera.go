package demos

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-lessons/engine"
	"github.com/Carmen-Shannon/oxy-lessons/engine/camera"
	"github.com/Carmen-Shannon/oxy-lessons/engine/driver"
	"github.com/Carmen-Shannon/oxy-lessons/engine/entity"
	"github.com/chewxy/math32"
)

// cursorOrbit places the camera on a circle of radius 3 around the origin. A full
// sweep of the cursor across the viewport is one turn; the vertical cursor raises it.
func cursorOrbit(cx, cy float32) (x, y, z float32) {
	angle := cx * math32.Pi * 2
	return math32.Sin(angle) * 3, cy * 5, math32.Cos(angle) * 3
}

func setupCursorCamera(e engine.Engine) error {
	mesh := redCube(5, 5, 5, entity.WithName("mesh"))
	if err := e.Scene().Add(mesh); err != nil {
		return fmt.Errorf("camera: %w", err)
	}
	e.AddUpdate("cursor", func(driver.FrameInfo) error {
		p := e.Pointer()
		cam := e.Camera()
		cam.SetPosition(cursorOrbit(p.CX, p.CY))
		cam.LookAt(mesh.Position())
		return nil
	})
	return nil
}

func setupControlledCamera(e engine.Engine) error {
	mesh := redCube(5, 5, 5, entity.WithName("mesh"))
	if err := e.Scene().Add(mesh); err != nil {
		return fmt.Errorf("camera-controls: %w", err)
	}
	cam := e.Camera()
	cam.SetPosition(0, 0, 3)
	cam.LookAt(mesh.Position())
	e.EnableControls(camera.WithDamping(true))
	return nil
}

func setupOrthographicCamera(e engine.Engine) error {
	mesh := redCube(5, 5, 5, entity.WithName("mesh"))
	if err := e.Scene().Add(mesh); err != nil {
		return fmt.Errorf("camera-ortho: %w", err)
	}
	aspect := e.Viewport().Aspect()
	ortho := camera.NewOrthographic(-aspect, aspect, 1, -1, 0.1, 100, camera.WithPosition(2, 2, 2))
	if err := e.SetCamera(ortho); err != nil {
		return fmt.Errorf("camera-ortho: %w", err)
	}
	ortho.LookAt(mesh.Position())
	e.EnableControls(camera.WithDamping(true))
	return nil
}
