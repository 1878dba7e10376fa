package engine

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"sync"

	"github.com/Carmen-Shannon/oxy-lessons/common"
	"github.com/Carmen-Shannon/oxy-lessons/engine/camera"
	"github.com/Carmen-Shannon/oxy-lessons/engine/driver"
	"github.com/Carmen-Shannon/oxy-lessons/engine/loader"
	"github.com/Carmen-Shannon/oxy-lessons/engine/panel"
	"github.com/Carmen-Shannon/oxy-lessons/engine/profiler"
	"github.com/Carmen-Shannon/oxy-lessons/engine/renderer"
	"github.com/Carmen-Shannon/oxy-lessons/engine/scene"
	"github.com/Carmen-Shannon/oxy-lessons/engine/tween"
	"github.com/Carmen-Shannon/oxy-lessons/engine/viewport"
	"github.com/Carmen-Shannon/oxy-lessons/engine/window"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// engine implements the Engine interface.
// It owns every piece of session state; nothing is global.
type engine struct {
	mu *sync.Mutex

	id     uuid.UUID
	logger *zap.Logger

	viewport   viewport.Viewport
	cam        camera.Camera
	controller camera.CameraController
	scene      scene.Scene
	backend    renderer.Backend
	panel      panel.Panel
	loader     loader.Loader
	tweens     tween.Group
	driver     driver.Driver
	window     window.Window

	pointer   window.Pointer
	listeners []func(window.Event)
	onError   func(*driver.FrameError)

	// pre-creation config collected from builder options
	width, height int
	pixelRatio    float32
	maxPixelRatio float32
	source        driver.RefreshSource
	fps           int
	profiling     bool
	loaderFS      fs.FS
	closeOnce     sync.Once
}

// Engine is the session context of one lesson: it owns the scene registry, the camera rig,
// the viewport, the optional interaction controller, the render backend, the parameter panel,
// the texture loader, the tween group and the animation driver.
//
// Per frame the driver drains posted work, runs the tween group and then every registered
// update in order; the render step updates the controller and draws the scene through the camera.
type Engine interface {
	// ID returns the session id attached to every log line.
	ID() uuid.UUID

	// Logger returns the session logger.
	Logger() *zap.Logger

	// Scene returns the scene registry.
	Scene() scene.Scene

	// Camera returns the active camera rig.
	Camera() camera.Camera

	// SetCamera replaces the active camera rig and sizes it to the viewport.
	//
	// Parameters:
	//   - cam: the new camera
	//
	// Returns:
	//   - error: error if the camera rejects the viewport size
	SetCamera(cam camera.Camera) error

	// Viewport returns the viewport state.
	Viewport() viewport.Viewport

	// EnableControls attaches an orbit controller to the active camera, replacing any previous one.
	//
	// Parameters:
	//   - options: controller options such as camera.WithDamping(true)
	//
	// Returns:
	//   - camera.CameraController: the controller
	EnableControls(options ...camera.CameraControllerOption) camera.CameraController

	// Controller returns the interaction controller, or nil when controls are off.
	Controller() camera.CameraController

	// Backend returns the render backend.
	Backend() renderer.Backend

	// Panel returns the parameter panel.
	Panel() panel.Panel

	// Loader returns the texture loader. Its completions run on the loop.
	Loader() loader.Loader

	// Tweens returns the tween group advanced every frame.
	Tweens() tween.Group

	// Driver returns the animation driver.
	Driver() driver.Driver

	// AddUpdate registers a per-frame update function, run after previously registered ones.
	//
	// Parameters:
	//   - name: a label used in errors and logs
	//   - fn: the update function
	AddUpdate(name string, fn driver.UpdateFunc)

	// OnEvent registers an input listener, called after built-in handling (viewport, controller).
	//
	// Parameters:
	//   - fn: the listener
	OnEvent(fn func(window.Event))

	// OnError registers the frame error observer.
	//
	// Parameters:
	//   - fn: the observer
	OnError(fn func(*driver.FrameError))

	// HandleEvent applies one input event. Must run on the loop; use Post from other goroutines.
	//
	// Parameters:
	//   - ev: the event
	HandleEvent(ev window.Event)

	// Pointer returns the last known pointer position.
	Pointer() window.Pointer

	// Resize updates the viewport, which resizes the camera and the backend.
	//
	// Parameters:
	//   - width, height: logical pixels
	//
	// Returns:
	//   - error: viewport.ErrInvalidViewport for non-positive sizes
	Resize(width, height int) error

	// Post schedules fn on the loop.
	//
	// Parameters:
	//   - fn: the work
	//
	// Returns:
	//   - bool: false if the session already stopped
	Post(fn func()) bool

	// Run runs the loop on the calling goroutine until Stop, ctx cancellation or window close.
	//
	// Parameters:
	//   - ctx: the session context
	//
	// Returns:
	//   - error: error if the loop could not start
	Run(ctx context.Context) error

	// Start runs the loop on a new goroutine.
	//
	// Parameters:
	//   - ctx: the session context
	//
	// Returns:
	//   - error: error if the loop could not start
	Start(ctx context.Context) error

	// Stop ends the loop. Idempotent.
	Stop()

	// Close stops the loop, waits for pending loads and releases the backend and window.
	//
	// Returns:
	//   - error: the joined release errors
	Close() error
}

var _ Engine = &engine{}

// NewEngine creates a session with the given options.
// Without options it renders headless through the software backend at 800x600, 60 fps.
//
// Parameters:
//   - options: a variadic list of EngineBuilderOption functions
//
// Returns:
//   - Engine: the session, not yet running
//   - error: error if the backend could not be created or the initial size is invalid
func NewEngine(options ...EngineBuilderOption) (Engine, error) {
	e := &engine{
		mu:         &sync.Mutex{},
		id:         uuid.New(),
		width:      800,
		height:     600,
		pixelRatio: 1,
		fps:        60,
	}
	for _, option := range options {
		option(e)
	}
	e.logger = common.LoggerOrNop(e.logger).With(zap.String("session", e.id.String()))

	if e.window != nil {
		e.width, e.height = e.window.Size()
		e.pixelRatio = e.window.ContentScale()
	}
	vpOptions := []viewport.ViewportBuilderOption{
		viewport.WithSize(e.width, e.height),
		viewport.WithDevicePixelRatio(e.pixelRatio),
	}
	if e.maxPixelRatio > 0 {
		vpOptions = append(vpOptions, viewport.WithMaxPixelRatio(e.maxPixelRatio))
	}
	e.viewport = viewport.NewViewport(vpOptions...)

	if e.cam == nil {
		e.cam = camera.NewPerspective(75, e.viewport.Aspect(), 0.1, 100,
			camera.WithPosition(0, 0, 3),
			camera.WithLogger(e.logger),
		)
	} else if err := e.cam.Resize(e.viewport.Width(), e.viewport.Height()); err != nil {
		return nil, fmt.Errorf("size camera: %w", err)
	}

	if e.backend == nil {
		backend, err := e.newBackend()
		if err != nil {
			return nil, err
		}
		e.backend = backend
	} else if err := e.backend.Resize(e.viewport.Width(), e.viewport.Height(), e.viewport.PixelRatio()); err != nil {
		return nil, fmt.Errorf("size backend: %w", err)
	}

	if e.scene == nil {
		e.scene = scene.NewScene("main")
	}
	if e.panel == nil {
		e.panel = panel.NewPanel()
	}
	e.tweens = tween.NewGroup()

	if e.source == nil {
		e.source = driver.NewTickerSource(e.fps)
	}
	driverOptions := []driver.DriverBuilderOption{
		driver.WithLogger(e.logger),
		driver.WithErrorObserver(e.frameError),
		driver.WithRender(e.render),
	}
	if e.window != nil {
		driverOptions = append(driverOptions, driver.WithUpdate("input", e.pollWindow))
	}
	driverOptions = append(driverOptions, driver.WithUpdate("tweens", func(info driver.FrameInfo) error {
		e.tweens.Update(float32(info.Delta))
		return nil
	}))
	if e.profiling {
		driverOptions = append(driverOptions, driver.WithProfiler(profiler.NewProfiler(profiler.WithLogger(e.logger))))
	}
	e.driver = driver.NewDriver(e.source, driverOptions...)

	loaderOptions := []loader.LoaderBuilderOption{loader.WithLogger(e.logger)}
	if e.loaderFS != nil {
		loaderOptions = append(loaderOptions, loader.WithFS(e.loaderFS))
	}
	e.loader = loader.NewLoader(func(fn func()) { e.driver.Post(fn) }, loaderOptions...)

	e.viewport.OnResize(e.resized)
	if e.window != nil {
		e.window.SetEventHandler(e.HandleEvent)
	}

	bw, bh := e.backend.Size()
	e.logger.Info("session created",
		zap.Int("width", e.viewport.Width()),
		zap.Int("height", e.viewport.Height()),
		zap.Float32("pixel_ratio", e.viewport.PixelRatio()),
		zap.Int("buffer_width", bw),
		zap.Int("buffer_height", bh),
		zap.Bool("windowed", e.window != nil),
	)
	return e, nil
}

func (e *engine) ID() uuid.UUID {
	return e.id
}

func (e *engine) Logger() *zap.Logger {
	return e.logger
}

func (e *engine) Scene() scene.Scene {
	return e.scene
}

func (e *engine) Camera() camera.Camera {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cam
}

func (e *engine) SetCamera(cam camera.Camera) error {
	if cam == nil {
		return errors.New("nil camera")
	}
	if err := cam.Resize(e.viewport.Width(), e.viewport.Height()); err != nil {
		return fmt.Errorf("set camera: %w", err)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cam = cam
	e.controller = nil
	return nil
}

func (e *engine) Viewport() viewport.Viewport {
	return e.viewport
}

func (e *engine) EnableControls(options ...camera.CameraControllerOption) camera.CameraController {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.controller = camera.NewOrbitController(e.cam, e.viewport, options...)
	return e.controller
}

func (e *engine) Controller() camera.CameraController {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.controller
}

func (e *engine) Backend() renderer.Backend {
	return e.backend
}

func (e *engine) Panel() panel.Panel {
	return e.panel
}

func (e *engine) Loader() loader.Loader {
	return e.loader
}

func (e *engine) Tweens() tween.Group {
	return e.tweens
}

func (e *engine) Driver() driver.Driver {
	return e.driver
}

func (e *engine) AddUpdate(name string, fn driver.UpdateFunc) {
	e.driver.AddUpdate(name, fn)
}

func (e *engine) OnEvent(fn func(window.Event)) {
	if fn == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners = append(e.listeners, fn)
}

func (e *engine) OnError(fn func(*driver.FrameError)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onError = fn
}

func (e *engine) HandleEvent(ev window.Event) {
	e.mu.Lock()
	cc := e.controller
	if ev.Kind >= window.EventPointerDown && ev.Kind <= window.EventWheel {
		e.pointer = ev.Pointer
	}
	listeners := slices.Clone(e.listeners)
	e.mu.Unlock()

	switch ev.Kind {
	case window.EventResize:
		if err := e.Resize(ev.Width, ev.Height); err != nil {
			// minimized windows report 0x0
			e.logger.Debug("resize ignored", zap.Error(err))
		}
	case window.EventContentScale:
		if err := e.viewport.SetDevicePixelRatio(ev.Scale); err != nil {
			e.logger.Debug("content scale ignored", zap.Error(err))
		}
	case window.EventClose:
		e.Stop()
	}

	if cc != nil {
		switch ev.Kind {
		case window.EventPointerDown:
			cc.PointerDown(ev.Button, ev.Pointer.X, ev.Pointer.Y)
		case window.EventPointerMove:
			cc.PointerMove(ev.Pointer.X, ev.Pointer.Y)
		case window.EventPointerUp:
			cc.PointerUp(ev.Button)
		case window.EventWheel:
			cc.Wheel(ev.Delta)
		case window.EventKeyDown:
			cc.KeyDown(ev.Key)
		case window.EventKeyUp:
			cc.KeyUp(ev.Key)
		}
	}

	for _, fn := range listeners {
		fn(ev)
	}
}

func (e *engine) Pointer() window.Pointer {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pointer
}

func (e *engine) Resize(width, height int) error {
	return e.viewport.Resize(width, height)
}

func (e *engine) Post(fn func()) bool {
	return e.driver.Post(fn)
}

func (e *engine) Run(ctx context.Context) error {
	return e.driver.Run(ctx)
}

func (e *engine) Start(ctx context.Context) error {
	return e.driver.Start(ctx)
}

func (e *engine) Stop() {
	e.driver.Stop()
}

func (e *engine) Close() error {
	var err error
	e.closeOnce.Do(func() {
		e.driver.Stop()
		e.loader.Wait()
		err = e.backend.Close()
		if e.window != nil {
			err = errors.Join(err, e.window.Close())
		}
		s := e.driver.Stats()
		e.logger.Info("session closed",
			zap.Uint64("frames", s.Frames),
			zap.Uint64("skipped", s.Skipped),
			zap.Uint64("dropped", s.Dropped),
		)
	})
	return err
}

// newBackend creates the software backend, or the presenting backend when a window is attached.
func (e *engine) newBackend() (renderer.Backend, error) {
	options := []renderer.RendererBuilderOption{
		renderer.WithSize(e.viewport.Width(), e.viewport.Height(), e.viewport.PixelRatio()),
		renderer.WithLogger(e.logger),
	}
	if e.window == nil {
		return renderer.NewSoftwareBackend(options...), nil
	}
	backend, err := renderer.NewPresentBackend(e.window.SurfaceDescriptor(), options...)
	if err != nil {
		return nil, fmt.Errorf("create backend: %w", err)
	}
	return backend, nil
}

// resized keeps the camera projection and the backend buffer in step with the viewport.
func (e *engine) resized(width, height int, pixelRatio float32) {
	if err := e.Camera().Resize(width, height); err != nil {
		e.logger.Warn("camera resize rejected", zap.Error(err))
	}
	if err := e.backend.Resize(width, height, pixelRatio); err != nil {
		e.logger.Warn("backend resize rejected", zap.Error(err))
	}
}

// render updates the controller after all input and updates ran, then draws the frame.
func (e *engine) render(driver.FrameInfo) error {
	e.mu.Lock()
	cc := e.controller
	cam := e.cam
	e.mu.Unlock()

	if cc != nil {
		cc.Update()
	}
	return e.backend.Render(e.scene.Snapshot(), cam)
}

func (e *engine) pollWindow(driver.FrameInfo) error {
	if !e.window.PollEvents() {
		e.driver.Stop()
	}
	return nil
}

func (e *engine) frameError(fe *driver.FrameError) {
	e.mu.Lock()
	observer := e.onError
	e.mu.Unlock()
	if observer != nil {
		observer(fe)
	}
}
