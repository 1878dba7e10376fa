// Package demos holds the lesson scenes. Each lesson populates an engine session:
// it adds entities and lights to the scene, binds panel parameters and registers
// per-frame updates. Lessons never drive the loop themselves.
package demos

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"strings"

	"github.com/Carmen-Shannon/oxy-lessons/common"
	"github.com/Carmen-Shannon/oxy-lessons/engine"
	"github.com/Carmen-Shannon/oxy-lessons/engine/entity"
	"github.com/Carmen-Shannon/oxy-lessons/engine/geometry"
	"github.com/Carmen-Shannon/oxy-lessons/engine/loader"
	"github.com/Carmen-Shannon/oxy-lessons/engine/material"
)

//go:embed assets
var embedded embed.FS

// Assets is the texture tree the lessons load from, rooted at the assets directory.
var Assets fs.FS

func init() {
	sub, err := fs.Sub(embedded, "assets")
	if err != nil {
		panic(err)
	}
	Assets = sub
}

// ErrUnknownLesson is returned by Find when no lesson has the requested name.
var ErrUnknownLesson = errors.New("unknown lesson")

// Lesson is a named scene setup.
type Lesson struct {
	// Name is the identifier used on the command line.
	Name string

	// Description is a one-line summary for listings.
	Description string

	// Options returns engine options the lesson needs at construction time, or nil.
	Options func() []engine.EngineBuilderOption

	// Setup populates the session. It runs once, before the loop starts.
	Setup func(e engine.Engine) error
}

// EngineOptions returns the construction options of the lesson.
//
// Returns:
//   - []engine.EngineBuilderOption: the options, possibly empty
func (l Lesson) EngineOptions() []engine.EngineBuilderOption {
	if l.Options == nil {
		return nil
	}
	return l.Options()
}

var lessons = []Lesson{
	{Name: "transform", Description: "a group of three cubes, a reordered rotation and an axes helper", Setup: setupTransform},
	{Name: "animation", Description: "delta-time spin, tweened position and a circling camera", Setup: setupAnimation},
	{Name: "camera", Description: "cursor-driven orbit around a subdivided cube", Setup: setupCursorCamera},
	{Name: "camera-controls", Description: "orbit controls with damping", Setup: setupControlledCamera},
	{Name: "camera-ortho", Description: "orthographic camera sized to the viewport", Setup: setupOrthographicCamera},
	{Name: "debug-ui", Description: "panel-bound elevation, visibility, color, spin and subdivision", Options: debugUIOptions, Setup: setupDebugUI},
	{Name: "textures", Description: "seven texture loads through a loading manager", Setup: setupTextures},
	{Name: "lights", Description: "six light kinds over a shared standard material", Setup: setupLights},
	{Name: "particles", Description: "fifty thousand additive points riding a sine wave", Setup: setupParticles},
}

// Lessons returns every lesson in presentation order.
//
// Returns:
//   - []Lesson: a copy of the registry
func Lessons() []Lesson {
	return slices.Clone(lessons)
}

// Find looks a lesson up by name, ignoring case.
//
// Parameters:
//   - name: the lesson name
//
// Returns:
//   - Lesson: the lesson
//   - error: ErrUnknownLesson if no lesson matches
func Find(name string) (Lesson, error) {
	for _, l := range lessons {
		if strings.EqualFold(l.Name, name) {
			return l, nil
		}
	}
	return Lesson{}, fmt.Errorf("%q: %w", name, ErrUnknownLesson)
}

// newAssetLoader creates a loader over Assets whose completions run on the session loop.
func newAssetLoader(e engine.Engine, manager *loader.Manager) loader.Loader {
	options := []loader.LoaderBuilderOption{
		loader.WithFS(Assets),
		loader.WithLogger(e.Logger()),
	}
	if manager != nil {
		options = append(options, loader.WithManager(manager))
	}
	return loader.NewLoader(func(fn func()) { e.Post(fn) }, options...)
}

func redCube(widthSegments, heightSegments, depthSegments int, options ...entity.EntityBuilderOption) entity.Entity {
	return entity.NewMesh(
		geometry.NewBox(1, 1, 1, widthSegments, heightSegments, depthSegments),
		material.NewBasic(material.WithColor(common.ColorFromUint(0xff0000))),
		options...,
	)
}
