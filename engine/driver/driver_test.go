package driver

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startManual(t *testing.T, step time.Duration, options ...DriverBuilderOption) (Driver, *ManualSource) {
	t.Helper()
	src := NewManualSource(step)
	d := NewDriver(src, options...)
	require.NoError(t, d.Start(context.Background()))
	t.Cleanup(func() {
		d.Stop()
		d.Wait()
	})
	return d, src
}

func TestNewDriverPanicsWithoutSource(t *testing.T) {
	assert.Panics(t, func() { NewDriver(nil) })
}

func TestNTicksGiveNStrictlyIncreasingFrames(t *testing.T) {
	for name, step := range map[string]time.Duration{
		"virtual": 16 * time.Millisecond,
		"wall":    0,
	} {
		t.Run(name, func(t *testing.T) {
			var elapsed []float64
			d, src := startManual(t, step)
			d.SetRender(func(info FrameInfo) error {
				elapsed = append(elapsed, info.Elapsed)
				return nil
			})

			const n = 25
			for i := 0; i < n; i++ {
				require.True(t, src.Tick())
			}
			require.Len(t, elapsed, n)
			assert.Greater(t, elapsed[0], 0.0)
			for i := 1; i < n; i++ {
				assert.Greater(t, elapsed[i], elapsed[i-1])
			}
			assert.Equal(t, uint64(n), d.Stats().Frames)
			assert.Equal(t, uint64(n), d.Clock().Frame())
		})
	}
}

func TestVirtualClockElapsed(t *testing.T) {
	var infos []FrameInfo
	_, src := startManual(t, 250*time.Millisecond, WithUpdate("record", func(info FrameInfo) error {
		infos = append(infos, info)
		return nil
	}))
	for i := 0; i < 4; i++ {
		src.Tick()
	}
	require.Len(t, infos, 4)
	assert.InDelta(t, 1.0, infos[3].Elapsed, 1e-9)
	assert.InDelta(t, 0.25, infos[2].Delta, 1e-9)
	assert.Equal(t, uint64(3), infos[2].Frame)
}

func TestFirstTickRightAfterStartIsOneStep(t *testing.T) {
	d, src := startManual(t, 100*time.Millisecond)
	var first FrameInfo
	d.SetRender(func(info FrameInfo) error {
		if info.Frame == 1 {
			first = info
		}
		return nil
	})

	require.True(t, src.Tick())
	assert.InDelta(t, 0.1, first.Elapsed, 1e-9)
	assert.InDelta(t, 0.1, first.Delta, 1e-9)
}

func TestStopDuringFrameKPreventsFrameKPlusOne(t *testing.T) {
	var calls []uint64
	d, src := startManual(t, time.Millisecond)
	d.AddUpdate("stop-at-3", func(info FrameInfo) error {
		calls = append(calls, info.Frame)
		if info.Frame == 3 {
			d.Stop()
			d.Stop()
		}
		return nil
	})

	assert.True(t, src.Tick())
	assert.True(t, src.Tick())
	assert.True(t, src.Tick())
	assert.False(t, src.Tick())
	assert.False(t, src.Tick())

	d.Wait()
	assert.Equal(t, []uint64{1, 2, 3}, calls)
	assert.True(t, d.Stopped())
	assert.False(t, d.Post(func() {}))
}

func TestFrameErrorsAreForwardedAndLoopContinues(t *testing.T) {
	var observed []*FrameError
	var rendered []uint64
	boom := errors.New("backend lost")

	d, src := startManual(t, time.Millisecond, WithErrorObserver(func(fe *FrameError) {
		observed = append(observed, fe)
	}))
	d.AddUpdate("spin", func(info FrameInfo) error {
		if info.Frame == 4 {
			panic("bad frame")
		}
		return nil
	})
	d.SetRender(func(info FrameInfo) error {
		if info.Frame == 2 {
			return boom
		}
		rendered = append(rendered, info.Frame)
		return nil
	})

	for i := 0; i < 5; i++ {
		require.True(t, src.Tick())
	}

	assert.Equal(t, []uint64{1, 3, 5}, rendered)
	require.Len(t, observed, 2)

	assert.Equal(t, uint64(2), observed[0].Frame)
	assert.Equal(t, StageRender, observed[0].Stage)
	assert.ErrorIs(t, observed[0], boom)

	assert.Equal(t, uint64(4), observed[1].Frame)
	assert.Equal(t, StageUpdate, observed[1].Stage)
	assert.Equal(t, "spin", observed[1].Name)
	assert.ErrorIs(t, observed[1], ErrPanic)

	s := d.Stats()
	assert.Equal(t, uint64(3), s.Frames)
	assert.Equal(t, uint64(2), s.Skipped)
	assert.Equal(t, uint64(2), s.Errors)
}

func TestUpdatesRunInOrderAfterPostedWork(t *testing.T) {
	var trace []string
	d, src := startManual(t, time.Millisecond)
	d.AddUpdate("a", func(FrameInfo) error { trace = append(trace, "a"); return nil })
	d.AddUpdate("b", func(FrameInfo) error { trace = append(trace, "b"); return nil })
	d.AddUpdate("c", func(FrameInfo) error { trace = append(trace, "c"); return nil })
	d.SetRender(func(FrameInfo) error { trace = append(trace, "render"); return nil })
	assert.True(t, d.RemoveUpdate("b"))
	assert.False(t, d.RemoveUpdate("missing"))

	// posted from another goroutine, like a loader completion or an input event
	done := make(chan struct{})
	go func() {
		d.Post(func() { trace = append(trace, "input") })
		close(done)
	}()
	<-done
	src.Tick()

	// the posted work either drained on wake or at frame start; either way before the updates
	assert.Equal(t, []string{"input", "a", "c", "render"}, trace)
}

func TestPostedPanicIsReported(t *testing.T) {
	var observed []*FrameError
	d, src := startManual(t, time.Millisecond, WithErrorObserver(func(fe *FrameError) {
		observed = append(observed, fe)
	}))
	d.Post(func() { panic("loader hook") })
	assert.True(t, src.Tick())
	require.Len(t, observed, 1)
	assert.Equal(t, StagePost, observed[0].Stage)
	assert.Equal(t, uint64(1), d.Stats().Frames)
}

func TestTickerSourceDropsWhileBusy(t *testing.T) {
	src := NewTickerSource(500)
	var running, overlaps atomic.Int32
	d := NewDriver(src, WithRender(func(FrameInfo) error {
		if running.Add(1) > 1 {
			overlaps.Add(1)
		}
		time.Sleep(10 * time.Millisecond)
		running.Add(-1)
		return nil
	}))
	require.NoError(t, d.Start(context.Background()))

	time.Sleep(150 * time.Millisecond)
	d.Stop()
	d.Wait()

	s := d.Stats()
	assert.Positive(t, s.Frames)
	assert.Positive(t, s.Dropped)
	assert.Zero(t, overlaps.Load())
}

func TestContextCancellationStopsLoop(t *testing.T) {
	src := NewManualSource(time.Millisecond)
	d := NewDriver(src)
	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, d.Start(ctx))
	assert.ErrorIs(t, d.Start(ctx), ErrAlreadyStarted)
	assert.ErrorIs(t, d.Run(ctx), ErrAlreadyStarted)

	assert.True(t, src.Tick())
	cancel()
	select {
	case <-d.Done():
	case <-time.After(time.Second):
		t.Fatal("driver did not stop")
	}
	assert.True(t, d.Stopped())
	assert.False(t, src.Tick())
}

func TestClockStaysStrictlyIncreasing(t *testing.T) {
	c := newClock()
	at := time.Unix(100, 0)
	c.reset(at)
	first := c.advance(at)
	second := c.advance(at)
	third := c.advance(at.Add(-time.Second))
	assert.Greater(t, first.Elapsed, 0.0)
	assert.Greater(t, second.Elapsed, first.Elapsed)
	assert.Greater(t, third.Elapsed, second.Elapsed)
	assert.Equal(t, uint64(3), third.Frame)
}
