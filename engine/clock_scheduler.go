package engine

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/turret/core"
	"github.com/lixenwraith/turret/status"
)

// TickFunc runs one frame; returning false ends the loop (the session left Running)
type TickFunc func() bool

// ClockScheduler drives TickFunc on a fixed cadence in a single goroutine
// One instance runs at most once: Start after Stop is a no-op, a restart builds a new scheduler
// Handles pause-aware scheduling without busy-wait
type ClockScheduler struct {
	pausableClock *PausableClock
	tick          TickFunc

	tickInterval     time.Duration
	nextTickDeadline time.Time // Next tick deadline for drift correction

	tickCount atomic.Uint64

	// Control
	started  atomic.Bool
	running  atomic.Bool
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	done     chan struct{}

	// Cached metric pointers
	statTicks *atomic.Int64
	statLoops *atomic.Int64
}

// NewClockScheduler creates a scheduler calling tick every tickInterval of game time
func NewClockScheduler(pausableClock *PausableClock, tickInterval time.Duration, reg *status.Registry, tick TickFunc) *ClockScheduler {
	return &ClockScheduler{
		pausableClock: pausableClock,
		tick:          tick,
		tickInterval:  tickInterval,
		stopChan:      make(chan struct{}),
		done:          make(chan struct{}),
		statTicks:     reg.Ints.Get(status.MetricTicks),
		statLoops:     reg.Ints.Get(status.MetricLoops),
	}
}

// Start begins the scheduler loop; repeated calls are no-ops
func (cs *ClockScheduler) Start() {
	if !cs.started.CompareAndSwap(false, true) {
		return
	}
	cs.running.Store(true)
	cs.statLoops.Add(1)
	cs.wg.Add(1)
	core.Go(cs.schedulerLoop)
}

// Stop halts the loop and waits for an in-flight tick to finish
// Idempotent; safe before Start and after the loop ended on its own
// Must not be called from inside TickFunc
func (cs *ClockScheduler) Stop() {
	cs.stopOnce.Do(func() {
		close(cs.stopChan)
		// Claiming started here makes a later Start a no-op
		if cs.started.CompareAndSwap(false, true) {
			close(cs.done)
			return
		}
		cs.wg.Wait()
	})
}

// Done is closed once the loop goroutine has exited
func (cs *ClockScheduler) Done() <-chan struct{} {
	return cs.done
}

// IsRunning reports whether the loop goroutine is alive
func (cs *ClockScheduler) IsRunning() bool {
	return cs.running.Load()
}

// TickCount returns ticks executed by this scheduler
func (cs *ClockScheduler) TickCount() uint64 {
	return cs.tickCount.Load()
}

// schedulerLoop runs the main scheduling loop with pause awareness
func (cs *ClockScheduler) schedulerLoop() {
	defer func() {
		cs.running.Store(false)
		cs.statLoops.Add(-1)
		close(cs.done)
		cs.wg.Done()
	}()

	cs.nextTickDeadline = cs.pausableClock.Now().Add(cs.tickInterval)

	timer := time.NewTimer(0)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-cs.stopChan:
			return
		default:
		}

		var sleepDuration time.Duration

		if cs.pausableClock.IsPaused() {
			// Increase sleep interval while paused to save CPU
			sleepDuration = cs.tickInterval * 2
		} else {
			gameNow := cs.pausableClock.Now()

			if !gameNow.Before(cs.nextTickDeadline) {
				if !cs.tick() {
					return
				}
				cs.tickCount.Add(1)
				cs.statTicks.Add(1)

				cs.nextTickDeadline = cs.nextTickDeadline.Add(cs.tickInterval)

				// Drop backlog instead of bursting after a stall
				maxBehind := cs.tickInterval * 2
				if gameNow.Sub(cs.nextTickDeadline) > maxBehind {
					cs.nextTickDeadline = gameNow.Add(cs.tickInterval)
				}
			}
			sleepDuration = cs.nextTickDeadline.Sub(cs.pausableClock.Now())
		}

		if sleepDuration > 0 {
			timer.Reset(sleepDuration)
			select {
			case <-timer.C:
			case <-cs.stopChan:
				return
			}
		}
	}
}
