package loader

import (
	"io/fs"

	"github.com/Carmen-Shannon/oxy-lessons/engine/texture"
	"go.uber.org/zap"
)

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithFS is an option builder that sets the file system textures are read from.
//
// Parameters:
//   - fsys: the file system, e.g. os.DirFS("static") or an embed.FS
//
// Returns:
//   - LoaderBuilderOption: a function that applies the file system option to a loader
func WithFS(fsys fs.FS) LoaderBuilderOption {
	return func(l *loader) {
		if fsys != nil {
			l.fsys = fsys
		}
	}
}

// WithManager is an option builder that shares a progress Manager with the loader.
//
// Parameters:
//   - m: the manager
//
// Returns:
//   - LoaderBuilderOption: a function that applies the manager option to a loader
func WithManager(m *Manager) LoaderBuilderOption {
	return func(l *loader) {
		l.manager = m
	}
}

// WithParallelism is an option builder that bounds how many images decode at once.
//
// Parameters:
//   - n: the concurrent decode limit (minimum 1)
//
// Returns:
//   - LoaderBuilderOption: a function that applies the parallelism option to a loader
func WithParallelism(n int) LoaderBuilderOption {
	return func(l *loader) {
		l.parallelism = max(n, 1)
	}
}

// WithLogger is an option builder that sets the structured logger.
//
// Parameters:
//   - logger: the logger
//
// Returns:
//   - LoaderBuilderOption: a function that applies the logger option to a loader
func WithLogger(logger *zap.Logger) LoaderBuilderOption {
	return func(l *loader) {
		if logger != nil {
			l.logger = logger.Named("loader")
		}
	}
}

// loadConfig collects the per-load options.
type loadConfig struct {
	hooks          hooks
	textureOptions []texture.TextureBuilderOption
}

// LoadOption is a functional option for a single Load call.
type LoadOption func(*loadConfig)

// OnLoad registers a hook fired on the render loop once the texture is loaded.
func OnLoad(fn func(texture.Texture)) LoadOption {
	return func(c *loadConfig) {
		c.hooks.onLoad = fn
	}
}

// OnError registers a hook fired on the render loop if the load fails.
func OnError(fn func(error)) LoadOption {
	return func(c *loadConfig) {
		c.hooks.onError = fn
	}
}

// WithTextureOptions applies sampling options to a newly created handle. Ignored on a cache hit.
func WithTextureOptions(options ...texture.TextureBuilderOption) LoadOption {
	return func(c *loadConfig) {
		c.textureOptions = append(c.textureOptions, options...)
	}
}
