package stopwatch

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tickdown/stopwatch/util/logging"
)

// DefaultMax is the default countdown ceiling, 5 minutes in seconds.
const DefaultMax = 300

// DefaultInterval is the wall-clock length of one time unit.
const DefaultInterval = time.Second

type State string

const (
	StateIdle    State = "idle"
	StateRunning State = "running"
	StatePaused  State = "paused"
)

func (s State) String() string {
	return string(s)
}

// Stopwatch counts whole time units up to a configured maximum and
// notifies listeners of its transitions. It holds at most one
// periodic-callback registration, present only while running; reaching
// the maximum stops the countdown as if Stop had been called.
type Stopwatch struct {
	*logging.Logging
	source   TickerSource
	handle   TickerHandle
	hub      *hub
	state    State
	elapsed  int
	max      int
	interval time.Duration
	gen      uint64
	sync.RWMutex
}

// NewStopwatch makes an idle Stopwatch on the given tick source; a nil
// source selects wall-clock ticks.
func NewStopwatch(source TickerSource) *Stopwatch {
	if source == nil {
		source = NewContextTickerSource("stopwatch")
	}

	return &Stopwatch{
		Logging: logging.NewLogging(func(c zerolog.Context) zerolog.Context {
			return c.Str("module", "stopwatch")
		}),
		source:   source,
		hub:      newHub(),
		state:    StateIdle,
		max:      DefaultMax,
		interval: DefaultInterval,
	}
}

// SetInterval sets the wall-clock length of one time unit for
// registrations made after the call.
func (sw *Stopwatch) SetInterval(d time.Duration) *Stopwatch {
	sw.Lock()
	defer sw.Unlock()

	if d > 0 {
		sw.interval = d
	}

	return sw
}

// Start begins or resumes the countdown. Starting while already
// running is a no-op and emits nothing.
func (sw *Stopwatch) Start() {
	sw.Lock()

	if sw.state == StateRunning {
		sw.Unlock()

		return
	}

	from := sw.state
	sw.state = StateRunning
	sw.arm()
	sw.Unlock()

	sw.Log().Debug().Stringer("from", from).Msg("started")

	sw.emit(EventStart)
	sw.emit(EventTick)
}

// Pause suspends the countdown, keeping the elapsed count. A no-op
// unless running.
func (sw *Stopwatch) Pause() {
	sw.Lock()

	if sw.state != StateRunning {
		sw.Unlock()

		return
	}

	sw.state = StatePaused
	handle := sw.disarm()
	sw.Unlock()

	if handle != nil {
		handle.Cancel()
	}

	sw.Log().Debug().Int("elapsed", sw.CurrentTime()).Msg("paused")

	sw.emit(EventPause)
}

// Stop ends the countdown and resets the elapsed count. A no-op while
// idle.
func (sw *Stopwatch) Stop() {
	sw.Lock()

	if sw.state == StateIdle {
		sw.Unlock()

		return
	}

	sw.state = StateIdle
	sw.elapsed = 0
	handle := sw.disarm()
	sw.Unlock()

	if handle != nil {
		handle.Cancel()
	}

	sw.Log().Debug().Msg("stopped")

	sw.emit(EventStop)
}

// Restart forces the countdown into running from any state with the
// elapsed count reset. It emits only the restart event, never start or
// stop.
func (sw *Stopwatch) Restart() {
	sw.Lock()

	sw.state = StateRunning
	sw.elapsed = 0
	handle := sw.disarm()
	sw.arm()
	sw.Unlock()

	if handle != nil {
		handle.Cancel()
	}

	sw.Log().Debug().Msg("restarted")

	sw.emit(EventRestart)
	sw.emit(EventTick)
}

// On registers callback for the named event. Listeners of one event
// fire in registration order, synchronously at emission.
func (sw *Stopwatch) On(id EventID, callback func()) {
	sw.hub.on(id, callback)
}

// CurrentTime returns the elapsed whole time units of the current run.
func (sw *Stopwatch) CurrentTime() int {
	sw.RLock()
	defer sw.RUnlock()

	return sw.elapsed
}

// SetCurrentTime sets the elapsed count directly, bypassing state
// checks; the maximum is still enforced only at tick time. Negative
// input counts as zero.
func (sw *Stopwatch) SetCurrentTime(v int) int {
	sw.Lock()
	defer sw.Unlock()

	if v < 0 {
		v = 0
	}

	sw.elapsed = v

	return v
}

// MaxTime returns the countdown ceiling in whole time units.
func (sw *Stopwatch) MaxTime() int {
	sw.RLock()
	defer sw.RUnlock()

	return sw.max
}

// SetMaxTime parses a `<number><s|m|h>` specification and sets the
// countdown ceiling to it.
func (sw *Stopwatch) SetMaxTime(spec string) (int, error) {
	n, err := ParseTimeSpec(spec)
	if err != nil {
		return 0, err
	}

	sw.Lock()
	defer sw.Unlock()

	sw.max = n

	return n, nil
}

// RemainingTime returns the whole time units left until the maximum.
func (sw *Stopwatch) RemainingTime() int {
	sw.RLock()
	defer sw.RUnlock()

	if sw.elapsed >= sw.max {
		return 0
	}

	return sw.max - sw.elapsed
}

func (sw *Stopwatch) IsRunning() bool {
	sw.RLock()
	defer sw.RUnlock()

	return sw.state == StateRunning
}

func (sw *Stopwatch) IsPaused() bool {
	sw.RLock()
	defer sw.RUnlock()

	return sw.state == StatePaused
}

// arm installs a new periodic registration; caller holds the lock.
func (sw *Stopwatch) arm() {
	sw.gen++
	sw.handle = sw.source.Repeat(sw.interval, sw.tickFunc(sw.gen))
}

// disarm releases the current registration; caller holds the lock and
// cancels the returned handle after unlocking.
func (sw *Stopwatch) disarm() TickerHandle {
	handle := sw.handle
	sw.handle = nil

	return handle
}

func (sw *Stopwatch) tickFunc(gen uint64) func(uint64) bool {
	return func(uint64) bool {
		sw.Lock()

		if sw.gen != gen || sw.state != StateRunning {
			sw.Unlock()

			return false
		}

		sw.elapsed++

		if sw.elapsed >= sw.max {
			sw.state = StateIdle
			sw.elapsed = 0
			sw.handle = nil
			sw.Unlock()

			sw.Log().Debug().Msg("max reached; stopped")

			sw.emit(EventStop)

			return false
		}

		sw.Unlock()

		sw.emit(EventTick)

		return true
	}
}

func (sw *Stopwatch) emit(id EventID) {
	sw.hub.emit(id)
}
