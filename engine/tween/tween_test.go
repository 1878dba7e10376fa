package tween

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEaseEndpoints(t *testing.T) {
	eases := map[string]Ease{
		"linear":        Linear,
		"power1.in":     Power1In,
		"power1.out":    Power1Out,
		"power1.in-out": Power1InOut,
		"power2.out":    Power2Out,
		"sine.in-out":   SineInOut,
	}
	for name, ease := range eases {
		t.Run(name, func(t *testing.T) {
			assert.InDelta(t, 0, ease(0), 1e-6)
			assert.InDelta(t, 1, ease(1), 1e-6)
			// monotonic on a coarse grid
			prev := ease(0)
			for i := 1; i <= 20; i++ {
				v := ease(float32(i) / 20)
				assert.GreaterOrEqual(t, v, prev-1e-6)
				prev = v
			}
		})
	}
}

func value(v float32) (func() float32, func(float32), *float32) {
	return func() float32 { return v }, func(n float32) { v = n }, &v
}

func TestTweenReachesDestination(t *testing.T) {
	g := NewGroup()
	get, set, v := value(0)
	completed := 0
	tw := g.To(get, set, 2, WithDuration(1), WithEase(Linear), OnComplete(func() { completed++ }))

	g.Update(0.25)
	assert.InDelta(t, 0.5, *v, 1e-6)
	assert.InDelta(t, 0.25, tw.Progress(), 1e-6)

	g.Update(1)
	assert.Equal(t, float32(2), *v)
	assert.True(t, tw.Done())
	assert.Equal(t, 1, completed)
	assert.Zero(t, g.Len())

	g.Update(1)
	assert.Equal(t, 1, completed)
}

func TestDelayReadsStartValueLate(t *testing.T) {
	g := NewGroup()
	get, set, v := value(0)
	started := false
	g.To(get, set, 10, WithDuration(1), WithDelay(1), WithEase(Linear), OnStart(func() { started = true }))

	g.Update(0.5)
	assert.Zero(t, *v)
	assert.False(t, started)

	*v = 6
	g.Update(0.5)
	assert.True(t, started)
	assert.Equal(t, float32(6), *v)

	g.Update(0.5)
	assert.InDelta(t, 8, *v, 1e-5)
}

func TestDefaultsAreHalfSecondPower1Out(t *testing.T) {
	g := NewGroup()
	get, set, v := value(0)
	g.To(get, set, 1)

	g.Update(0.25)
	assert.InDelta(t, 0.75, *v, 1e-6)
	g.Update(0.25)
	assert.Equal(t, float32(1), *v)
}

func TestZeroDurationJumps(t *testing.T) {
	g := NewGroup()
	get, set, v := value(3)
	tw := g.To(get, set, -1, WithDuration(0))
	g.Update(0)
	assert.Equal(t, float32(-1), *v)
	require.True(t, tw.Done())
}

func TestKillAndClearStopWithoutCompleting(t *testing.T) {
	g := NewGroup()
	get, set, v := value(0)
	completed := false
	tw := g.To(get, set, 1, WithEase(Linear), OnComplete(func() { completed = true }))
	g.Update(0.1)
	tw.Kill()
	g.Update(1)
	assert.InDelta(t, 0.2, *v, 1e-6)
	assert.False(t, completed)
	assert.Zero(t, g.Len())

	g.To(get, set, 5)
	g.Clear()
	g.Update(1)
	assert.InDelta(t, 0.2, *v, 1e-6)
}

func TestCompletionHookMayChainTweens(t *testing.T) {
	g := NewGroup()
	get, set, v := value(0)
	g.To(get, set, 1, WithDuration(0.1), OnComplete(func() {
		g.To(get, set, 0, WithDuration(0.1))
	}))

	g.Update(0.2)
	assert.Equal(t, float32(1), *v)
	assert.Equal(t, 1, g.Len())
	g.Update(0.2)
	assert.Equal(t, float32(0), *v)
}
