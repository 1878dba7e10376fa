package demos

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-lessons/engine"
	"github.com/Carmen-Shannon/oxy-lessons/engine/camera"
	"github.com/Carmen-Shannon/oxy-lessons/engine/entity"
	"github.com/Carmen-Shannon/oxy-lessons/engine/geometry"
	"github.com/Carmen-Shannon/oxy-lessons/engine/loader"
	"github.com/Carmen-Shannon/oxy-lessons/engine/material"
	"github.com/Carmen-Shannon/oxy-lessons/engine/texture"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// doorMaps are the data textures of the door set. They are loaded but the basic
// material only samples the color map.
var doorMaps = []string{"alpha", "height", "normal", "ambientOcclusion", "metalness", "roughness"}

func setupTextures(e engine.Engine) error {
	log := e.Logger().Named("textures")
	manager := loader.NewManager(
		loader.WithOnStart(func(url string, loaded, total int) {
			log.Info("loading started", zap.String("url", url), zap.Int("loaded", loaded), zap.Int("total", total))
		}),
		loader.WithOnProgress(func(url string, loaded, total int) {
			log.Debug("loading progress", zap.String("url", url), zap.Int("loaded", loaded), zap.Int("total", total))
		}),
		loader.WithOnLoad(func() {
			log.Info("loading finished")
		}),
		loader.WithOnError(func(url string, err error) {
			log.Warn("loading failed", zap.String("url", url), zap.Error(err))
		}),
	)
	textures := newAssetLoader(e, manager)

	color := textures.Load("textures/minecraft.png", loader.WithTextureOptions(
		texture.WithColorSpace(texture.ColorSpaceSRGB),
		texture.WithRepeat(2, 3),
		texture.WithWrap(texture.WrapRepeat, texture.WrapRepeat),
		texture.WithOffset(0.5, 0.5),
		texture.WithRotation(math32.Pi/4, 0.5, 0.5),
		texture.WithMipmaps(false),
		texture.WithFilters(texture.FilterNearest, texture.FilterNearest),
	))
	for _, name := range doorMaps {
		textures.Load("textures/door/" + name + ".png")
	}

	mesh := entity.NewMesh(
		geometry.NewBox(1, 1, 1, 1, 1, 1),
		material.NewBasic(material.WithMap(color)),
		entity.WithName("crate"),
	)
	if err := e.Scene().Add(mesh); err != nil {
		return fmt.Errorf("textures: %w", err)
	}

	cam := e.Camera()
	cam.SetPosition(1, 1, 1)
	cam.LookAt(mgl32.Vec3{})
	e.EnableControls(camera.WithDamping(true))
	return nil
}
