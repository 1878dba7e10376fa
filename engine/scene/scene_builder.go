package scene

import "github.com/Carmen-Shannon/oxy-lessons/engine/entity"

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithEntities registers initial entities in order. Nil and duplicate entries are skipped.
//
// Parameters:
//   - entities: the entities to add
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithEntities(entities ...entity.Entity) SceneBuilderOption {
	return func(s *scene) {
		for _, e := range entities {
			if e == nil {
				continue
			}
			if _, ok := s.index[e.ID()]; ok {
				continue
			}
			s.index[e.ID()] = e
			s.registry = append(s.registry, e)
		}
	}
}

// WithBackgroundHex sets the clear color from an sRGB hex string. Invalid strings keep black.
//
// Parameters:
//   - hex: the sRGB hex string
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithBackgroundHex(hex string) SceneBuilderOption {
	return func(s *scene) {
		_ = s.background.SetHex(hex)
	}
}

// WithComputeWorkers sets the number of worker goroutines ParallelFor fans out to.
// Defaults to runtime.NumCPU()-1.
//
// Parameters:
//   - n: the number of compute workers (minimum 1)
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithComputeWorkers(n int) SceneBuilderOption {
	return func(s *scene) {
		s.computeWorkers = max(n, 1)
	}
}

// WithMinChunk sets the smallest range ParallelFor hands to a single worker.
//
// Parameters:
//   - n: the minimum items per chunk (minimum 1)
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithMinChunk(n int) SceneBuilderOption {
	return func(s *scene) {
		s.minChunk = max(n, 1)
	}
}
