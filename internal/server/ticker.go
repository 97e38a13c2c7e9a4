package server

import (
	"sync"
	"sync/atomic"
	"time"
)

// TickerService is a Service that calls Fn once per Interval with the wall
// time elapsed since the previous call.
//
// Invariant: Fn is never invoked concurrently with itself.
type TickerService struct {
	interval time.Duration
	fn       func(elapsed time.Duration)
	now      func() time.Time

	started  atomic.Bool
	stopOnce sync.Once
	done     chan struct{}
	exited   chan struct{}
}

// NewTickerService returns a service ticking fn every interval.
//
// Precondition: interval must be > 0; fn must be non-nil.
func NewTickerService(interval time.Duration, fn func(elapsed time.Duration)) *TickerService {
	if interval <= 0 {
		panic("server.NewTickerService: interval must be > 0")
	}
	return &TickerService{
		interval: interval,
		fn:       fn,
		now:      time.Now,
		done:     make(chan struct{}),
		exited:   make(chan struct{}),
	}
}

// Start runs the tick loop until Stop is called.
//
// Precondition: Start is called at most once.
func (s *TickerService) Start() error {
	s.started.Store(true)
	defer close(s.exited)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	last := s.now()
	for {
		select {
		case <-s.done:
			return nil
		case <-ticker.C:
			now := s.now()
			s.fn(now.Sub(last))
			last = now
		}
	}
}

// Stop ends the tick loop and waits for an in-flight Fn call to return.
// Safe to call more than once.
func (s *TickerService) Stop() {
	s.stopOnce.Do(func() { close(s.done) })
	if s.started.Load() {
		<-s.exited
	}
}
