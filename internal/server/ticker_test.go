package server

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTickerService_TicksWithElapsed(t *testing.T) {
	var calls atomic.Int64
	var total atomic.Int64
	svc := NewTickerService(5*time.Millisecond, func(elapsed time.Duration) {
		calls.Add(1)
		total.Add(int64(elapsed))
	})
	done := make(chan error, 1)
	go func() { done <- svc.Start() }()

	require.Eventually(t, func() bool { return calls.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)
	svc.Stop()
	svc.Stop()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("ticker did not stop")
	}
	assert.Greater(t, total.Load(), int64(0))
}

func TestTickerService_FakeClockDelta(t *testing.T) {
	base := time.Unix(0, 0)
	var step atomic.Int64
	got := make(chan time.Duration, 1)
	svc := NewTickerService(time.Millisecond, func(elapsed time.Duration) {
		select {
		case got <- elapsed:
		default:
		}
	})
	svc.now = func() time.Time {
		return base.Add(time.Duration(step.Add(1)) * 250 * time.Millisecond)
	}
	go func() { _ = svc.Start() }()
	defer svc.Stop()

	select {
	case d := <-got:
		assert.Equal(t, 250*time.Millisecond, d)
	case <-time.After(2 * time.Second):
		t.Fatal("no tick")
	}
}

func TestNewTickerService_PanicsOnZeroInterval(t *testing.T) {
	assert.Panics(t, func() { NewTickerService(0, func(time.Duration) {}) })
}

func TestTickerService_StopWaitsForInFlightTick(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	var finished atomic.Bool
	var once atomic.Bool
	svc := NewTickerService(time.Millisecond, func(time.Duration) {
		if once.Swap(true) {
			return
		}
		close(entered)
		<-release
		finished.Store(true)
	})
	go func() { _ = svc.Start() }()
	<-entered

	stopped := make(chan struct{})
	go func() {
		svc.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
		t.Fatal("Stop returned while a tick was running")
	case <-time.After(20 * time.Millisecond):
	}
	close(release)
	<-stopped
	assert.True(t, finished.Load())
}
