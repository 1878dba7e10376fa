package profiler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestTickReportsOncePerInterval(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	now := time.Unix(0, 0)
	p := NewProfiler(
		WithClock(func() time.Time { return now }),
		WithInterval(time.Second),
		WithLogger(zap.New(core)),
	)

	for i := 0; i < 49; i++ {
		now = now.Add(time.Second / 50)
		_, ok := p.Tick()
		assert.False(t, ok)
	}
	now = now.Add(time.Second / 50)
	s, ok := p.Tick()
	assert.True(t, ok)
	assert.Equal(t, 50, s.Frames)
	assert.InDelta(t, 50, s.FPS, 1e-6)

	entries := logs.FilterMessage("frame stats").All()
	if assert.Len(t, entries, 1) {
		assert.InDelta(t, 50.0, entries[0].ContextMap()["fps"], 1e-6)
	}

	// the window restarts after a report
	now = now.Add(time.Second / 2)
	_, ok = p.Tick()
	assert.False(t, ok)
}
