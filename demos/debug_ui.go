package demos

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-lessons/common"
	"github.com/Carmen-Shannon/oxy-lessons/engine"
	"github.com/Carmen-Shannon/oxy-lessons/engine/camera"
	"github.com/Carmen-Shannon/oxy-lessons/engine/entity"
	"github.com/Carmen-Shannon/oxy-lessons/engine/geometry"
	"github.com/Carmen-Shannon/oxy-lessons/engine/material"
	"github.com/Carmen-Shannon/oxy-lessons/engine/panel"
	"github.com/Carmen-Shannon/oxy-lessons/engine/window"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const debugColor = "#A778D8"

func debugUIOptions() []engine.EngineBuilderOption {
	return []engine.EngineBuilderOption{
		engine.WithPanel(panel.NewPanel(
			panel.WithTitle("Debug UI"),
			panel.WithWidth(300),
			panel.WithCloseFolders(true),
			panel.WithHidden(true),
		)),
	}
}

func setupDebugUI(e engine.Engine) error {
	p := e.Panel()
	p.Hide()
	e.OnEvent(func(ev window.Event) {
		if ev.Kind == window.EventKeyDown && ev.Key == common.KeyH {
			p.Toggle()
		}
	})

	mat := material.NewBasic(material.WithColorHex(debugColor), material.WithWireframe(true))
	mesh := entity.NewMesh(geometry.NewBox(1, 1, 1, 2, 2, 2), mat, entity.WithName("cube"))
	if err := e.Scene().Add(mesh); err != nil {
		return fmt.Errorf("debug-ui: %w", err)
	}

	cube := p.AddFolder("Cube")
	cube.AddNumber("y", panel.Float32(
		func() float32 { return mesh.Position()[1] },
		func(y float32) {
			pos := mesh.Position()
			mesh.SetPosition(pos[0], y, pos[2])
		},
	)).Min(-3).Max(3).Step(0.01).Name("elevation")
	cube.AddBool("visible", panel.Accessor[bool]{Get: mesh.Visible, Set: mesh.SetVisible})
	cube.AddBool("wireframe", panel.Accessor[bool]{Get: mat.Wireframe, Set: mat.SetWireframe})
	cube.AddColor("color", mat)
	cube.AddAction("spin", func() {
		e.Tweens().To(
			func() float32 { return mesh.Rotation()[1] },
			func(y float32) {
				r := mesh.Rotation()
				mesh.SetRotation(r[0], y, r[2])
			},
			mesh.Rotation()[1]+math32.Pi*2,
		)
	})
	cube.AddNumber("subdivision", panel.Value(2.0)).Min(1).Max(20).Step(1).
		OnFinishChange(func(v float64) {
			n := int(v)
			mesh.ReplaceGeometry(geometry.NewBox(1, 1, 1, n, n, n))
		})

	cam := e.Camera()
	cam.SetPosition(1, 1, 2)
	cam.LookAt(mgl32.Vec3{})
	e.EnableControls(camera.WithDamping(true))
	return nil
}
