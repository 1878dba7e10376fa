package loader

import (
	"context"
	"fmt"
	"image"
	"io/fs"
	"os"
	"path"
	"strings"
	"sync"

	"github.com/Carmen-Shannon/oxy-lessons/common"
	"github.com/Carmen-Shannon/oxy-lessons/engine/texture"
	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// Dispatcher runs fn on the render loop. The driver's Post satisfies it.
type Dispatcher func(fn func())

// loader is the implementation of the Loader interface.
type loader struct {
	mu *sync.Mutex

	dispatch Dispatcher
	fsys     fs.FS
	backend  loaderBackend
	manager  *Manager
	logger   *zap.Logger

	decodeSlots *semaphore.Weighted
	parallelism int
	inflight    sync.WaitGroup

	cache map[uint64]*entry
}

// entry is one cached texture and the per-load hooks waiting on it.
type entry struct {
	tex     texture.Texture
	waiters []hooks
}

type hooks struct {
	onLoad  func(texture.Texture)
	onError func(error)
}

func (h hooks) empty() bool {
	return h.onLoad == nil && h.onError == nil
}

// Loader loads textures asynchronously. Load returns a handle immediately; the handle
// shows a placeholder until the decoded pixels are installed on the render loop.
type Loader interface {
	// Load starts loading path, or joins the load already cached for it.
	// Decoding runs in the background; completion (Resolve or Fail, then the per-load and
	// manager hooks) is dispatched onto the render loop. Must be called from the render loop.
	//
	// Parameters:
	//   - path: the slash-separated path inside the loader's file system
	//   - options: per-load hooks and texture sampling options
	//
	// Returns:
	//   - texture.Texture: the handle, valid immediately
	Load(path string, options ...LoadOption) texture.Texture

	// Preload decodes every path with bounded concurrency and returns once each decode finished
	// and its completion was dispatched. The first failure is returned; the other loads still complete.
	//
	// Parameters:
	//   - ctx: cancels waiting, not the decodes already started
	//   - paths: the files to load
	//
	// Returns:
	//   - []texture.Texture: handles in path order
	//   - error: the first load failure or ctx.Err()
	Preload(ctx context.Context, paths ...string) ([]texture.Texture, error)

	// Get returns the cached handle for path, or nil.
	//
	// Parameters:
	//   - path: the path passed to Load
	//
	// Returns:
	//   - texture.Texture: the cached handle or nil
	Get(path string) texture.Texture

	// Manager returns the progress manager shared by this loader.
	Manager() *Manager

	// Wait blocks until every started decode dispatched its completion.
	Wait()
}

var _ Loader = &loader{}

// NewLoader creates a texture Loader that marshals completions through dispatch.
// Panics if dispatch is nil.
//
// Parameters:
//   - dispatch: runs work on the render loop
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new Loader reading from the working directory unless WithFS is given
func NewLoader(dispatch Dispatcher, options ...LoaderBuilderOption) Loader {
	if dispatch == nil {
		panic("loader: NewLoader requires a non-nil Dispatcher")
	}
	l := &loader{
		mu:          &sync.Mutex{},
		dispatch:    dispatch,
		fsys:        os.DirFS("."),
		backend:     imageLoaderBackend{},
		parallelism: 4,
		cache:       make(map[uint64]*entry),
	}
	for _, option := range options {
		option(l)
	}
	if l.manager == nil {
		l.manager = NewManager()
	}
	l.logger = common.LoggerOrNop(l.logger)
	l.decodeSlots = semaphore.NewWeighted(int64(l.parallelism))
	return l
}

func (l *loader) Load(p string, options ...LoadOption) texture.Texture {
	cfg := loadConfig{}
	for _, option := range options {
		option(&cfg)
	}
	key := cacheKey(p)

	l.mu.Lock()
	if e, ok := l.cache[key]; ok {
		settled := l.joinLocked(e, cfg.hooks)
		l.mu.Unlock()
		if settled != nil {
			l.dispatch(settled)
		}
		return e.tex
	}
	e := &entry{tex: texture.New(p, cfg.textureOptions...)}
	if !cfg.hooks.empty() {
		e.waiters = append(e.waiters, cfg.hooks)
	}
	l.cache[key] = e
	l.inflight.Add(1)
	l.mu.Unlock()

	l.manager.itemStart(p)
	go l.decode(e, p)
	return e.tex
}

func (l *loader) Preload(ctx context.Context, paths ...string) ([]texture.Texture, error) {
	type result struct{ err error }
	results := make([]chan result, len(paths))
	texs := make([]texture.Texture, len(paths))
	for i, p := range paths {
		ch := make(chan result, 1)
		results[i] = ch
		texs[i] = l.Load(p,
			OnLoad(func(texture.Texture) { ch <- result{} }),
			OnError(func(err error) { ch <- result{err: err} }),
		)
	}

	// completions arrive on the render loop; Preload only waits for the decode side
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.parallelism)
	for i, p := range paths {
		tex := texs[i]
		g.Go(func() error {
			for tex.State() == texture.StatePending {
				select {
				case <-gctx.Done():
					return gctx.Err()
				case r := <-results[i]:
					if r.err != nil {
						return fmt.Errorf("preload %s: %w", p, r.err)
					}
					return nil
				}
			}
			if err := tex.Err(); err != nil {
				return fmt.Errorf("preload %s: %w", p, err)
			}
			return nil
		})
	}
	return texs, g.Wait()
}

func (l *loader) Get(p string) texture.Texture {
	l.mu.Lock()
	defer l.mu.Unlock()
	if e, ok := l.cache[cacheKey(p)]; ok {
		return e.tex
	}
	return nil
}

func (l *loader) Manager() *Manager {
	return l.manager
}

func (l *loader) Wait() {
	l.inflight.Wait()
}

// joinLocked attaches hooks to a cached entry. When the entry already settled it returns
// the hook call to dispatch once the mutex is released.
// Caller must hold the mutex.
func (l *loader) joinLocked(e *entry, h hooks) func() {
	if h.empty() {
		return nil
	}
	switch e.tex.State() {
	case texture.StateLoaded:
		if h.onLoad != nil {
			return func() { h.onLoad(e.tex) }
		}
	case texture.StateFailed:
		if h.onError != nil {
			err := e.tex.Err()
			return func() { h.onError(err) }
		}
	default:
		e.waiters = append(e.waiters, h)
	}
	return nil
}

// decode runs on a background goroutine. It never touches the texture; it only dispatches.
func (l *loader) decode(e *entry, p string) {
	defer l.inflight.Done()

	var img *image.RGBA
	err := l.decodeSlots.Acquire(context.Background(), 1)
	if err == nil {
		img, err = l.backend.Load(l.fsys, fsPath(p))
		l.decodeSlots.Release(1)
	}

	l.dispatch(func() {
		if err != nil {
			_ = e.tex.Fail(err)
			l.logger.Warn("texture load failed", zap.String("path", p), zap.Error(err))
		} else {
			_ = e.tex.Resolve(img)
			w, h := e.tex.Size()
			l.logger.Debug("texture loaded", zap.String("path", p), zap.Int("width", w), zap.Int("height", h))
		}

		l.mu.Lock()
		waiters := e.waiters
		e.waiters = nil
		l.mu.Unlock()

		for _, h := range waiters {
			if err != nil && h.onError != nil {
				h.onError(err)
			} else if err == nil && h.onLoad != nil {
				h.onLoad(e.tex)
			}
		}
		if err != nil {
			l.manager.itemError(p, err)
		}
		l.manager.itemEnd(p)
	})
}

func cacheKey(p string) uint64 {
	return xxhash.Sum64String(fsPath(p))
}

func fsPath(p string) string {
	return strings.TrimPrefix(path.Clean("/"+strings.ReplaceAll(p, "\\", "/")), "/")
}
