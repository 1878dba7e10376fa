package demos

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-lessons/common"
	"github.com/Carmen-Shannon/oxy-lessons/engine"
	"github.com/Carmen-Shannon/oxy-lessons/engine/entity"
	"github.com/Carmen-Shannon/oxy-lessons/engine/geometry"
	"github.com/Carmen-Shannon/oxy-lessons/engine/material"
	"github.com/chewxy/math32"
	"go.uber.org/zap"
)

func setupTransform(e engine.Engine) error {
	group := entity.NewGroup(entity.WithName("group"), entity.WithPosition(0, 1, 0))
	cubes := []struct {
		name  string
		color uint32
		x     float32
	}{
		{"cube1", 0xff0000, 0},
		{"cube2", 0x00ff00, -2},
		{"cube3", 0x0000ff, 2},
	}
	for _, c := range cubes {
		cube := entity.NewMesh(
			geometry.NewBox(1, 1, 1, 1, 1, 1),
			material.NewBasic(material.WithColor(common.ColorFromUint(c.color))),
			entity.WithName(c.name),
			entity.WithPosition(c.x, 0, 0),
		)
		if err := group.Add(cube); err != nil {
			return fmt.Errorf("transform: %w", err)
		}
	}

	mesh := redCube(1, 1, 1,
		entity.WithName("mesh"),
		entity.WithPosition(0.7, -0.6, 1),
		entity.WithScale(2, 0.5, 0.5),
		entity.WithRotationOrder(common.OrderYXZ),
		entity.WithRotation(math32.Pi*0.25, math32.Pi*0.25, 0),
	)
	axes := entity.NewMesh(
		geometry.NewAxes(1),
		material.NewBasic(material.WithVertexColors(true)),
		entity.WithName("axes"),
	)
	if err := e.Scene().Add(group, mesh, axes); err != nil {
		return fmt.Errorf("transform: %w", err)
	}

	cam := e.Camera()
	cam.SetPosition(0, 0, 3)
	cam.LookAt(group.Position())

	e.Logger().Debug("mesh placed",
		zap.Float32("length", mesh.Position().Len()),
		zap.Float32("distance_to_camera", mesh.DistanceTo(cam.Position())),
		zap.Any("direction", mesh.Position().Normalize()),
	)
	return nil
}
