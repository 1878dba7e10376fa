package tween

import (
	"slices"
	"sync"

	"github.com/Carmen-Shannon/oxy-lessons/common"
)

// Tween animates one float attribute toward a destination value over time.
type Tween interface {
	// Progress returns the eased-input progress in [0, 1]; 0 while delayed.
	Progress() float32

	// Done reports whether the tween completed or was killed.
	Done() bool

	// Kill stops the tween where it is without firing the completion hook.
	Kill()
}

type tween struct {
	mu *sync.Mutex

	get func() float32
	set func(float32)

	from, to float32
	started  bool
	elapsed  float32
	duration float32
	delay    float32
	ease     Ease
	done     bool

	onStart    func()
	onComplete func()
}

var _ Tween = &tween{}

func (t *tween) Progress() float32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.progress()
}

func (t *tween) Done() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.done
}

func (t *tween) Kill() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.done = true
}

// step advances the tween by dt seconds. It returns the hooks to fire after unlocking.
func (t *tween) step(dt float32) (started, completed func(), finished bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		return nil, nil, true
	}
	t.elapsed += max(dt, 0)
	if t.elapsed < t.delay {
		return nil, nil, false
	}
	if !t.started {
		t.started = true
		// the start value is read when the delay ends, like a timeline would
		t.from = t.get()
		started = t.onStart
	}
	p := t.progress()
	t.set(t.from + (t.to-t.from)*t.ease(p))
	if p >= 1 {
		t.set(t.to)
		t.done = true
		return started, t.onComplete, true
	}
	return started, nil, false
}

// progress is the linear progress. Caller must hold the mutex.
func (t *tween) progress() float32 {
	if !t.started {
		return 0
	}
	if t.duration <= 0 {
		return 1
	}
	return common.Clamp((t.elapsed-t.delay)/t.duration, 0, 1)
}

// Group owns running tweens and advances them from the render loop.
type Group interface {
	// To starts a tween from the attribute's value at start time to the destination.
	//
	// Parameters:
	//   - get: reads the attribute
	//   - set: writes the attribute
	//   - to: the destination value
	//   - options: duration, delay, ease and hooks
	//
	// Returns:
	//   - Tween: the running tween
	To(get func() float32, set func(float32), to float32, options ...TweenOption) Tween

	// Update advances every tween by dt seconds and drops finished ones.
	//
	// Parameters:
	//   - dt: seconds since the previous update
	Update(dt float32)

	// Len returns the number of running tweens.
	Len() int

	// Clear kills every running tween.
	Clear()
}

type group struct {
	mu     *sync.Mutex
	tweens []*tween
}

var _ Group = &group{}

// NewGroup creates an empty tween group.
//
// Returns:
//   - Group: the group
func NewGroup() Group {
	return &group{mu: &sync.Mutex{}}
}

func (g *group) To(get func() float32, set func(float32), to float32, options ...TweenOption) Tween {
	t := &tween{
		mu:       &sync.Mutex{},
		get:      get,
		set:      set,
		to:       to,
		duration: 0.5,
		ease:     Power1Out,
	}
	for _, option := range options {
		option(t)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.tweens = append(g.tweens, t)
	return t
}

func (g *group) Update(dt float32) {
	g.mu.Lock()
	running := slices.Clone(g.tweens)
	g.mu.Unlock()

	var finished []*tween
	for _, t := range running {
		started, completed, done := t.step(dt)
		if started != nil {
			started()
		}
		if completed != nil {
			completed()
		}
		if done {
			finished = append(finished, t)
		}
	}
	if len(finished) == 0 {
		return
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.tweens = slices.DeleteFunc(g.tweens, func(t *tween) bool { return slices.Contains(finished, t) })
}

func (g *group) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.tweens)
}

func (g *group) Clear() {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, t := range g.tweens {
		t.Kill()
	}
	g.tweens = nil
}
