package demos

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-lessons/engine"
	"github.com/Carmen-Shannon/oxy-lessons/engine/camera"
	"github.com/Carmen-Shannon/oxy-lessons/engine/driver"
	"github.com/Carmen-Shannon/oxy-lessons/engine/entity"
	"github.com/Carmen-Shannon/oxy-lessons/engine/geometry"
	"github.com/Carmen-Shannon/oxy-lessons/engine/light"
	"github.com/Carmen-Shannon/oxy-lessons/engine/material"
	"github.com/Carmen-Shannon/oxy-lessons/engine/panel"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

func setupLights(e engine.Engine) error {
	ambient := light.NewAmbient(light.WithColorHex("#ffffff"), light.WithIntensity(1))
	directional := light.NewDirectional(
		light.WithColorHex("#00fffc"),
		light.WithIntensity(0.9),
		light.WithPosition(1, 0.25, 1),
	)
	hemisphere := light.NewHemisphere(
		light.WithColorHex("#ff0000"),
		light.WithGroundColorHex("#0000ff"),
		light.WithIntensity(0.9),
	)
	point := light.NewPoint(
		light.WithColorHex("#ff9000"),
		light.WithIntensity(1.5),
		light.WithDistance(10),
		light.WithDecay(2),
		light.WithPosition(0, -0.5, 1),
	)
	rectArea := light.NewRectArea(
		light.WithColorHex("#4e00ff"),
		light.WithIntensity(6),
		light.WithSize(1, 1),
		light.WithPosition(-1.5, 0, 1.5),
		light.WithTarget(0, 0, 0),
	)
	spot := light.NewSpot(
		light.WithColorHex("#78ff00"),
		light.WithIntensity(4.5),
		light.WithDistance(10),
		light.WithAngle(math32.Pi*0.1),
		light.WithPenumbra(0.25),
		light.WithDecay(1),
		light.WithPosition(0, 2, 3),
		light.WithTarget(-1.75, 0, 0),
	)

	helpers := []struct {
		light light.Light
		shape geometry.Geometry
	}{
		{hemisphere, geometry.NewSphere(0.2, 4, 2)},
		{directional, geometry.NewPlane(0.2, 0.2, 1, 1)},
		{point, geometry.NewSphere(0.2, 4, 2)},
		{spot, geometry.NewSphere(0.1, 4, 2)},
		{rectArea, geometry.NewPlane(1, 1, 1, 1)},
	}
	for _, h := range helpers {
		helper := entity.NewMesh(h.shape, material.NewBasic(
			material.WithColor(h.light.Color()),
			material.WithWireframe(true),
		), entity.WithName(h.light.Kind().String()+" helper"))
		if err := h.light.Add(helper); err != nil {
			return fmt.Errorf("lights: %w", err)
		}
	}

	surface := material.NewStandard(material.WithRoughness(0.4))
	sphere := entity.NewMesh(geometry.NewSphere(0.5, 32, 32), surface, entity.WithName("sphere"), entity.WithPosition(-1.5, 0, 0))
	cube := entity.NewMesh(geometry.NewBox(0.75, 0.75, 0.75, 1, 1, 1), surface, entity.WithName("cube"))
	torus := entity.NewMesh(geometry.NewTorus(0.3, 0.2, 32, 64), surface, entity.WithName("torus"), entity.WithPosition(1.5, 0, 0))
	plane := entity.NewMesh(geometry.NewPlane(5, 5, 1, 1), surface,
		entity.WithName("plane"),
		entity.WithRotation(-math32.Pi*0.5, 0, 0),
		entity.WithPosition(0, -0.65, 0),
	)

	if err := e.Scene().Add(ambient, directional, hemisphere, point, rectArea, spot, sphere, cube, torus, plane); err != nil {
		return fmt.Errorf("lights: %w", err)
	}

	lights := e.Panel().AddFolder("Lights")
	lights.AddNumber("ambient", panel.Float32(ambient.Intensity, ambient.SetIntensity)).Min(0).Max(3).Step(0.001)
	lights.AddNumber("roughness", panel.Float32(surface.Roughness, surface.SetRoughness)).Min(0).Max(1).Step(0.001)
	lights.AddColor("spot color", spot)

	spinning := []entity.Entity{sphere, cube, torus}
	e.AddUpdate("lights", func(f driver.FrameInfo) error {
		t := float32(f.Elapsed)
		for _, m := range spinning {
			m.SetRotation(0.15*t, 0.1*t, 0)
		}
		return nil
	})

	cam := e.Camera()
	cam.SetPosition(1, 1, 2)
	cam.LookAt(mgl32.Vec3{})
	e.EnableControls(camera.WithDamping(true))
	return nil
}
