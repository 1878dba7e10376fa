package driver

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-lessons/common"
	"github.com/Carmen-Shannon/oxy-lessons/engine/profiler"
	"go.uber.org/zap"
)

var (
	// ErrAlreadyStarted is returned by Start and Run when the driver loop already ran.
	ErrAlreadyStarted = errors.New("driver already started")

	// ErrPanic wraps a value recovered from a panicking frame step.
	ErrPanic = errors.New("panic in frame step")
)

// Stage names the step of a frame that failed.
type Stage string

const (
	StagePost   Stage = "post"
	StageUpdate Stage = "update"
	StageRender Stage = "render"
)

// FrameInfo is what every frame step receives.
type FrameInfo struct {
	// Frame is the frame number, starting at 1.
	Frame uint64

	// Elapsed is the seconds since Start. Strictly increasing across frames.
	Elapsed float64

	// Delta is the seconds since the previous frame.
	Delta float64
}

// UpdateFunc mutates scene state for one frame.
type UpdateFunc func(FrameInfo) error

// RenderFunc draws one frame.
type RenderFunc func(FrameInfo) error

// FrameError describes a failed frame step. The frame it belongs to was skipped.
type FrameError struct {
	Frame uint64
	Stage Stage
	Name  string
	Err   error
}

func (e *FrameError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("frame %d: %s %q: %v", e.Frame, e.Stage, e.Name, e.Err)
	}
	return fmt.Sprintf("frame %d: %s: %v", e.Frame, e.Stage, e.Err)
}

func (e *FrameError) Unwrap() error {
	return e.Err
}

// Stats counts what the loop did so far.
type Stats struct {
	Frames  uint64
	Skipped uint64
	Dropped uint64
	Errors  uint64
}

type namedUpdate struct {
	name string
	fn   UpdateFunc
}

// driver is the implementation of the Driver interface.
type driver struct {
	mu *sync.Mutex

	source   RefreshSource
	clock    *Clock
	logger   *zap.Logger
	profiler *profiler.Profiler

	updates []namedUpdate
	render  RenderFunc
	onError func(*FrameError)

	posted []func()
	wake   chan struct{}

	started  bool
	stopped  atomic.Bool
	stopOnce sync.Once
	stopCh   chan struct{}
	done     chan struct{}

	frames  atomic.Uint64
	skipped atomic.Uint64
	errs    atomic.Uint64
}

// Driver runs one frame per display refresh on a single loop goroutine.
// Posted work, update functions and the render step never run concurrently with each other.
type Driver interface {
	// Start runs the loop on a new goroutine.
	//
	// Parameters:
	//   - ctx: cancelling ctx stops the loop like Stop
	//
	// Returns:
	//   - error: ErrAlreadyStarted if the loop already ran
	Start(ctx context.Context) error

	// Run runs the loop on the calling goroutine until Stop or ctx cancellation.
	// Windowed sessions call it from the main goroutine.
	//
	// Parameters:
	//   - ctx: cancelling ctx stops the loop like Stop
	//
	// Returns:
	//   - error: ErrAlreadyStarted if the loop already ran, otherwise nil
	Run(ctx context.Context) error

	// Stop ends the loop. Idempotent and safe from any goroutine, including a frame step.
	// Once Stop returns no new frame begins; a frame already executing finishes.
	Stop()

	// Stopped reports whether Stop was called or the context ended.
	Stopped() bool

	// Done is closed when the loop goroutine has exited.
	//
	// Returns:
	//   - <-chan struct{}: the done channel
	Done() <-chan struct{}

	// Wait blocks until the loop has exited.
	Wait()

	// Post schedules fn on the loop. Posted work runs in order, before the next frame's updates.
	//
	// Parameters:
	//   - fn: the work to run
	//
	// Returns:
	//   - bool: false if the driver already stopped and fn was discarded
	Post(fn func()) bool

	// AddUpdate appends an update function. Updates run in registration order every frame.
	//
	// Parameters:
	//   - name: a label used in errors and logs
	//   - fn: the update function
	AddUpdate(name string, fn UpdateFunc)

	// RemoveUpdate removes the first update registered under name.
	//
	// Parameters:
	//   - name: the update label
	//
	// Returns:
	//   - bool: true if an update was removed
	RemoveUpdate(name string) bool

	// SetRender sets the render step run after the updates.
	//
	// Parameters:
	//   - fn: the render function, or nil for none
	SetRender(fn RenderFunc)

	// OnError registers the error observer. Frame errors are also logged.
	//
	// Parameters:
	//   - fn: the observer, called on the loop goroutine
	OnError(fn func(*FrameError))

	// Clock returns the animation clock.
	Clock() *Clock

	// Stats returns frame counters.
	Stats() Stats
}

var _ Driver = &driver{}

// NewDriver creates a Driver reading refreshes from source.
// Panics if source is nil.
//
// Parameters:
//   - source: the refresh signal
//   - options: a variadic list of DriverBuilderOption functions
//
// Returns:
//   - Driver: the driver, not yet started
func NewDriver(source RefreshSource, options ...DriverBuilderOption) Driver {
	if source == nil {
		panic("driver: NewDriver requires a non-nil RefreshSource")
	}
	d := &driver{
		mu:     &sync.Mutex{},
		source: source,
		clock:  newClock(),
		wake:   make(chan struct{}, 1),
		stopCh: make(chan struct{}),
		done:   make(chan struct{}),
	}
	for _, option := range options {
		option(d)
	}
	d.logger = common.LoggerOrNop(d.logger)
	return d
}

func (d *driver) Start(ctx context.Context) error {
	if err := d.claim(); err != nil {
		return err
	}
	go d.loop(ctx)
	return nil
}

func (d *driver) Run(ctx context.Context) error {
	if err := d.claim(); err != nil {
		return err
	}
	d.loop(ctx)
	return nil
}

func (d *driver) Stop() {
	d.stopOnce.Do(func() {
		d.stopped.Store(true)
		close(d.stopCh)
	})
}

func (d *driver) Stopped() bool {
	return d.stopped.Load()
}

func (d *driver) Done() <-chan struct{} {
	return d.done
}

func (d *driver) Wait() {
	<-d.done
}

func (d *driver) Post(fn func()) bool {
	if fn == nil {
		return true
	}
	if d.stopped.Load() {
		return false
	}
	d.mu.Lock()
	d.posted = append(d.posted, fn)
	d.mu.Unlock()
	select {
	case d.wake <- struct{}{}:
	default:
	}
	return true
}

func (d *driver) AddUpdate(name string, fn UpdateFunc) {
	if fn == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.updates = append(d.updates, namedUpdate{name: name, fn: fn})
}

func (d *driver) RemoveUpdate(name string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, u := range d.updates {
		if u.name == name {
			d.updates = append(d.updates[:i:i], d.updates[i+1:]...)
			return true
		}
	}
	return false
}

func (d *driver) SetRender(fn RenderFunc) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.render = fn
}

func (d *driver) OnError(fn func(*FrameError)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.onError = fn
}

func (d *driver) Clock() *Clock {
	return d.clock
}

func (d *driver) Stats() Stats {
	s := Stats{
		Frames:  d.frames.Load(),
		Skipped: d.skipped.Load(),
		Errors:  d.errs.Load(),
	}
	if dr, ok := d.source.(Dropper); ok {
		s.Dropped = dr.Dropped()
	}
	return s
}

func (d *driver) claim() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started {
		return ErrAlreadyStarted
	}
	d.started = true
	// zero point is fixed before Start returns
	d.clock.reset(d.source.Now())
	return nil
}

func (d *driver) loop(ctx context.Context) {
	defer close(d.done)
	defer d.source.Close()

	d.logger.Debug("loop started")

	refreshes := d.source.Refreshes()
	for {
		select {
		case <-ctx.Done():
			d.Stop()
		case <-d.stopCh:
		case <-d.wake:
			d.drainPosted(d.clock.Frame())
			continue
		case r := <-refreshes:
			ran := false
			if !d.stopped.Load() {
				ran = d.frame(r)
			}
			if r.ack != nil {
				r.ack <- ran
			}
			continue
		}
		break
	}

	s := d.Stats()
	d.logger.Debug("loop stopped",
		zap.Uint64("frames", s.Frames),
		zap.Uint64("skipped", s.Skipped),
		zap.Uint64("dropped", s.Dropped),
	)
}

// frame runs one refresh: posted work, updates in order, then render.
// The first failing step skips the rest of the frame.
func (d *driver) frame(r Refresh) bool {
	info := d.clock.advance(r.At)
	d.drainPosted(info.Frame)

	d.mu.Lock()
	updates := make([]namedUpdate, len(d.updates))
	copy(updates, d.updates)
	render := d.render
	d.mu.Unlock()

	for _, u := range updates {
		if err := d.safely(func() error { return u.fn(info) }); err != nil {
			d.fail(&FrameError{Frame: info.Frame, Stage: StageUpdate, Name: u.name, Err: err})
			d.skipped.Add(1)
			return true
		}
	}
	if render != nil {
		if err := d.safely(func() error { return render(info) }); err != nil {
			d.fail(&FrameError{Frame: info.Frame, Stage: StageRender, Err: err})
			d.skipped.Add(1)
			return true
		}
	}

	d.frames.Add(1)
	if d.profiler != nil {
		d.profiler.Tick()
	}
	return true
}

func (d *driver) drainPosted(frame uint64) {
	for {
		d.mu.Lock()
		posted := d.posted
		d.posted = nil
		d.mu.Unlock()
		if len(posted) == 0 {
			return
		}
		for _, fn := range posted {
			if err := d.safely(func() error { fn(); return nil }); err != nil {
				d.fail(&FrameError{Frame: frame, Stage: StagePost, Err: err})
			}
		}
	}
}

// safely runs fn, turning a panic into an error wrapping ErrPanic.
func (d *driver) safely(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrPanic, r)
		}
	}()
	return fn()
}

func (d *driver) fail(fe *FrameError) {
	d.errs.Add(1)
	d.logger.Error("frame step failed",
		zap.Uint64("frame", fe.Frame),
		zap.String("stage", string(fe.Stage)),
		zap.String("name", fe.Name),
		zap.Error(fe.Err),
	)
	d.mu.Lock()
	observer := d.onError
	d.mu.Unlock()
	if observer != nil {
		observer(fe)
	}
}
