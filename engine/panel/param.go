package panel

import (
	"errors"
	"math"

	"github.com/Carmen-Shannon/oxy-lessons/common"
)

// ErrInvalidValue is returned when a parameter receives NaN, an infinity or an unparsable color.
var ErrInvalidValue = errors.New("invalid parameter value")

// Kind identifies the control a parameter is shown as.
type Kind int

const (
	KindNumber Kind = iota
	KindBool
	KindColor
	KindAction
)

// Accessor reads and writes a live attribute of a target.
type Accessor[T any] struct {
	Get func() T
	Set func(T)
}

// Float32 adapts a float32 attribute to the float64 accessor numbers use.
//
// Parameters:
//   - get: reads the attribute
//   - set: writes the attribute
//
// Returns:
//   - Accessor[float64]: the adapted accessor
func Float32(get func() float32, set func(float32)) Accessor[float64] {
	return Accessor[float64]{
		Get: func() float64 { return float64(get()) },
		Set: func(v float64) { set(float32(v)) },
	}
}

// Value holds a plain value, for parameters that are not attributes of anything
// (the subdivision count of a shape that is rebuilt on finish).
//
// Parameters:
//   - initial: the starting value
//
// Returns:
//   - Accessor[T]: an accessor over a private variable
func Value[T any](initial T) Accessor[T] {
	v := initial
	return Accessor[T]{
		Get: func() T { return v },
		Set: func(n T) { v = n },
	}
}

// ColorTarget is anything with a color-set method that converts between sRGB hex and its internal space.
type ColorTarget interface {
	ColorHex() string
	SetColorHex(hex string) error
}

// Param is a bound parameter as seen by the panel view. Params are driven from the render loop.
type Param interface {
	// Label returns the display name.
	Label() string

	// Kind returns the control kind.
	Kind() Kind

	// Current returns the live value: float64, bool, hex string, or nil for actions.
	Current() any
}

// Number is a range-validated numeric parameter. Writes are clamped to [min, max] and
// snapped to the step grid starting at min.
type Number struct {
	label    string
	acc      Accessor[float64]
	min, max float64
	step     float64

	onChange       func(v float64)
	onFinishChange func(v float64)
	lastFinished   float64
}

var _ Param = &Number{}

func newNumber(label string, acc Accessor[float64]) *Number {
	return &Number{
		label:        label,
		acc:          acc,
		min:          math.Inf(-1),
		max:          math.Inf(1),
		lastFinished: acc.Get(),
	}
}

func (n *Number) Label() string { return n.label }

func (n *Number) Kind() Kind { return KindNumber }

func (n *Number) Current() any { return n.acc.Get() }

// Value returns the target's current value.
func (n *Number) Value() float64 { return n.acc.Get() }

// Name sets the display label.
func (n *Number) Name(label string) *Number {
	n.label = label
	return n
}

// Min sets the lower bound.
func (n *Number) Min(v float64) *Number {
	n.min = v
	return n
}

// Max sets the upper bound.
func (n *Number) Max(v float64) *Number {
	n.max = v
	return n
}

// Step sets the grid spacing. Zero or negative disables snapping.
func (n *Number) Step(v float64) *Number {
	n.step = v
	return n
}

// Range returns the bounds and step.
func (n *Number) Range() (lo, hi, step float64) {
	return n.min, n.max, n.step
}

// OnChange registers a hook fired after every write that changed the value.
func (n *Number) OnChange(fn func(v float64)) *Number {
	n.onChange = fn
	return n
}

// OnFinishChange registers a hook fired by Finish when the value changed since the previous finish.
func (n *Number) OnFinishChange(fn func(v float64)) *Number {
	n.onFinishChange = fn
	return n
}

// Normalize returns what Set would store for v, without writing it.
//
// Parameters:
//   - v: the raw input
//
// Returns:
//   - float64: the clamped and snapped value
//   - error: ErrInvalidValue for NaN or infinities
func (n *Number) Normalize(v float64) (float64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrInvalidValue
	}
	v = math.Max(n.min, math.Min(n.max, v))
	if n.step > 0 {
		base := n.min
		if math.IsInf(base, 0) {
			base = 0
		}
		v = common.Precision15(base + math.Round((v-base)/n.step)*n.step)
		// snapping may land one step past the upper bound
		v = math.Max(n.min, math.Min(n.max, v))
	}
	return v, nil
}

// Set validates v, writes it through to the target and fires OnChange if the value changed.
//
// Parameters:
//   - v: the raw input
//
// Returns:
//   - error: ErrInvalidValue for NaN or infinities; the target is untouched
func (n *Number) Set(v float64) error {
	next, err := n.Normalize(v)
	if err != nil {
		return err
	}
	prev := n.acc.Get()
	n.acc.Set(next)
	if next != prev && n.onChange != nil {
		n.onChange(next)
	}
	return nil
}

// Finish marks the edit as settled (slider released) and fires OnFinishChange once
// if the value differs from the value at the previous finish.
func (n *Number) Finish() {
	v := n.acc.Get()
	if v == n.lastFinished {
		return
	}
	n.lastFinished = v
	if n.onFinishChange != nil {
		n.onFinishChange(v)
	}
}

// Bool is a checkbox parameter.
type Bool struct {
	label    string
	acc      Accessor[bool]
	onChange func(v bool)
}

var _ Param = &Bool{}

func (b *Bool) Label() string { return b.label }

func (b *Bool) Kind() Kind { return KindBool }

func (b *Bool) Current() any { return b.acc.Get() }

// Value returns the target's current value.
func (b *Bool) Value() bool { return b.acc.Get() }

// Name sets the display label.
func (b *Bool) Name(label string) *Bool {
	b.label = label
	return b
}

// OnChange registers a hook fired when the value flips.
func (b *Bool) OnChange(fn func(v bool)) *Bool {
	b.onChange = fn
	return b
}

// Set writes v through and fires OnChange if it changed.
func (b *Bool) Set(v bool) {
	prev := b.acc.Get()
	b.acc.Set(v)
	if prev != v && b.onChange != nil {
		b.onChange(v)
	}
}

// Toggle flips the value.
func (b *Bool) Toggle() {
	b.Set(!b.acc.Get())
}

// Color is a color picker parameter. Writes go through the target's color-set method.
type Color struct {
	label    string
	target   ColorTarget
	onChange func(hex string)
}

var _ Param = &Color{}

func (c *Color) Label() string { return c.label }

func (c *Color) Kind() Kind { return KindColor }

func (c *Color) Current() any { return c.target.ColorHex() }

// Value returns the target's color as an sRGB hex string.
func (c *Color) Value() string { return c.target.ColorHex() }

// Name sets the display label.
func (c *Color) Name(label string) *Color {
	c.label = label
	return c
}

// OnChange registers a hook fired after the color changed.
func (c *Color) OnChange(fn func(hex string)) *Color {
	c.onChange = fn
	return c
}

// Set routes an sRGB hex string through the target's color-set method.
//
// Parameters:
//   - hex: the sRGB hex string
//
// Returns:
//   - error: ErrInvalidValue wrapping the parse failure; the target is untouched
func (c *Color) Set(hex string) error {
	prev := c.target.ColorHex()
	if err := c.target.SetColorHex(hex); err != nil {
		return errors.Join(ErrInvalidValue, err)
	}
	if next := c.target.ColorHex(); next != prev && c.onChange != nil {
		c.onChange(next)
	}
	return nil
}

// Action is a button parameter.
type Action struct {
	label string
	fn    func()
}

var _ Param = &Action{}

func (a *Action) Label() string { return a.label }

func (a *Action) Kind() Kind { return KindAction }

func (a *Action) Current() any { return nil }

// Name sets the display label.
func (a *Action) Name(label string) *Action {
	a.label = label
	return a
}

// Press invokes the action.
func (a *Action) Press() {
	if a.fn != nil {
		a.fn()
	}
}
