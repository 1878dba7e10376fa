package driver

import (
	"sync"
	"sync/atomic"
	"time"
)

// Refresh is one display refresh signal.
type Refresh struct {
	// At is the refresh timestamp on the source's clock.
	At time.Time

	ack chan bool
}

// RefreshSource delivers display refresh signals to the driver.
// A source must never queue refreshes: a refresh that cannot be delivered immediately is dropped.
type RefreshSource interface {
	// Refreshes returns the channel the driver reads refreshes from.
	//
	// Returns:
	//   - <-chan Refresh: the refresh channel
	Refreshes() <-chan Refresh

	// Now returns the current time on the source's clock.
	//
	// Returns:
	//   - time.Time: the current time
	Now() time.Time

	// Close stops the source. The driver calls it when its loop exits.
	Close()
}

// Dropper is implemented by sources that count refreshes dropped while a frame was executing.
type Dropper interface {
	Dropped() uint64
}

// tickerSource emits refreshes at a fixed rate.
type tickerSource struct {
	out     chan Refresh
	ticker  *time.Ticker
	dropped atomic.Uint64
	once    sync.Once
	done    chan struct{}
}

var _ RefreshSource = &tickerSource{}
var _ Dropper = &tickerSource{}

// NewTickerSource creates a RefreshSource firing fps times per second.
// A tick that finds the driver busy is dropped and counted.
//
// Parameters:
//   - fps: refreshes per second (minimum 1)
//
// Returns:
//   - RefreshSource: the ticker source
func NewTickerSource(fps int) RefreshSource {
	s := &tickerSource{
		out:    make(chan Refresh),
		ticker: time.NewTicker(time.Second / time.Duration(max(fps, 1))),
		done:   make(chan struct{}),
	}
	go s.run()
	return s
}

func (s *tickerSource) run() {
	for {
		select {
		case <-s.done:
			return
		case at := <-s.ticker.C:
			select {
			case s.out <- Refresh{At: at}:
			default:
				s.dropped.Add(1)
			}
		}
	}
}

func (s *tickerSource) Refreshes() <-chan Refresh {
	return s.out
}

func (s *tickerSource) Now() time.Time {
	return time.Now()
}

func (s *tickerSource) Close() {
	s.once.Do(func() {
		s.ticker.Stop()
		close(s.done)
	})
}

func (s *tickerSource) Dropped() uint64 {
	return s.dropped.Load()
}

// ManualSource is a RefreshSource driven by explicit Tick calls.
type ManualSource struct {
	mu   *sync.Mutex
	out  chan Refresh
	step time.Duration
	now  time.Time
	once sync.Once
	done chan struct{}
}

var _ RefreshSource = &ManualSource{}

// NewManualSource creates a ManualSource. With a positive step every Tick advances a virtual
// clock by step, making elapsed times deterministic; with step 0 the wall clock is used.
//
// Parameters:
//   - step: virtual time between ticks, or 0
//
// Returns:
//   - *ManualSource: the source
func NewManualSource(step time.Duration) *ManualSource {
	return &ManualSource{
		mu:   &sync.Mutex{},
		out:  make(chan Refresh),
		step: step,
		now:  time.Unix(0, 0),
		done: make(chan struct{}),
	}
}

func (s *ManualSource) Refreshes() <-chan Refresh {
	return s.out
}

func (s *ManualSource) Now() time.Time {
	if s.step <= 0 {
		return time.Now()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

func (s *ManualSource) Close() {
	s.once.Do(func() { close(s.done) })
}

// Tick delivers one refresh, waits for the driver to handle it and reports whether a frame ran.
// Returns false once the driver stopped.
//
// Returns:
//   - bool: true if the refresh produced a frame
func (s *ManualSource) Tick() bool {
	at := s.advance()
	r := Refresh{At: at, ack: make(chan bool, 1)}
	select {
	case <-s.done:
		return false
	case s.out <- r:
	}
	select {
	case ran := <-r.ack:
		return ran
	case <-s.done:
		// the driver acks before closing, so a pending ack still wins
		select {
		case ran := <-r.ack:
			return ran
		default:
			return false
		}
	}
}

func (s *ManualSource) advance() time.Time {
	if s.step <= 0 {
		return time.Now()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = s.now.Add(s.step)
	return s.now
}
