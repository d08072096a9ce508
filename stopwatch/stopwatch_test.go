package stopwatch

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/suite"

	"github.com/tickdown/stopwatch/util/logging"
)

type testStopwatch struct {
	suite.Suite
}

func (t *testStopwatch) watch() (*Stopwatch, *ManualTickerSource) {
	source := NewManualTickerSource(time.Second)

	sw := NewStopwatch(source)
	_ = sw.SetLogging(logging.TestNilLogging)

	return sw, source
}

func (t *testStopwatch) counter(sw *Stopwatch, id EventID) *int {
	c := new(int)
	sw.On(id, func() {
		*c++
	})

	return c
}

func (t *testStopwatch) TestNew() {
	sw, _ := t.watch()

	t.Equal(0, sw.CurrentTime())
	t.Equal(DefaultMax, sw.MaxTime())
	t.Equal(DefaultMax, sw.RemainingTime())
	t.False(sw.IsRunning())
	t.False(sw.IsPaused())
}

func (t *testStopwatch) TestStartIdempotent() {
	sw, _ := t.watch()
	started := t.counter(sw, EventStart)

	sw.Start()
	sw.Start()

	t.Equal(1, *started)
	t.True(sw.IsRunning())
}

func (t *testStopwatch) TestStartAfterPause() {
	sw, _ := t.watch()
	started := t.counter(sw, EventStart)
	paused := t.counter(sw, EventPause)

	sw.Start()
	sw.Pause()
	t.True(sw.IsPaused())

	sw.Start()

	t.Equal(2, *started)
	t.Equal(1, *paused)
	t.True(sw.IsRunning())
}

func (t *testStopwatch) TestRestartNeverEmitsStart() {
	sw, _ := t.watch()
	started := t.counter(sw, EventStart)
	stopped := t.counter(sw, EventStop)
	restarted := t.counter(sw, EventRestart)

	sw.Restart()
	sw.Restart()

	t.Equal(0, *started)
	t.Equal(0, *stopped)
	t.Equal(2, *restarted)
	t.True(sw.IsRunning())
}

func (t *testStopwatch) TestStopWithoutStart() {
	sw, _ := t.watch()
	stopped := t.counter(sw, EventStop)

	sw.Stop()

	t.Equal(0, *stopped)
}

func (t *testStopwatch) TestPauseWhenNotRunning() {
	sw, _ := t.watch()
	paused := t.counter(sw, EventPause)

	sw.Pause()
	t.Equal(0, *paused)

	sw.Start()
	sw.Stop()
	sw.Pause()

	t.Equal(0, *paused)
	t.False(sw.IsPaused())
}

func (t *testStopwatch) TestStopResetsElapsed() {
	sw, source := t.watch()

	sw.Start()
	source.Advance(1)
	t.Equal(1, sw.CurrentTime())

	sw.Stop()

	t.Equal(0, sw.CurrentTime())
	t.False(sw.IsRunning())
}

func (t *testStopwatch) TestPauseKeepsElapsed() {
	sw, source := t.watch()

	sw.Start()
	source.Advance(1)
	sw.Pause()

	t.Equal(1, sw.CurrentTime())
}

func (t *testStopwatch) TestNoTickWhilePaused() {
	sw, source := t.watch()
	ticked := t.counter(sw, EventTick)

	sw.Start()
	source.Advance(2)
	sw.Pause()

	before := *ticked
	source.Advance(3)

	t.Equal(before, *ticked)
	t.Equal(2, sw.CurrentTime())
}

func (t *testStopwatch) TestResumeContinuesCounting() {
	sw, source := t.watch()

	sw.Start()
	source.Advance(2)
	sw.Pause()
	source.Advance(3)
	sw.Start()
	source.Advance(1)

	t.Equal(3, sw.CurrentTime())
}

func (t *testStopwatch) TestRestartResetsElapsed() {
	sw, source := t.watch()

	sw.Start()
	source.Advance(1)
	t.Equal(1, sw.CurrentTime())

	sw.Restart()
	t.Equal(0, sw.CurrentTime())

	source.Advance(5)
	t.Equal(5, sw.CurrentTime())
}

func (t *testStopwatch) TestAutoStopAtMax() {
	sw, source := t.watch()
	stopped := t.counter(sw, EventStop)

	n, err := sw.SetMaxTime("5s")
	t.NoError(err)
	t.Equal(5, n)

	sw.Start()
	source.Advance(5)

	t.Equal(1, *stopped)
	t.Equal(0, sw.CurrentTime())
	t.False(sw.IsRunning())

	// the registration is released; nothing fires afterwards
	before := *stopped
	source.Advance(5)
	t.Equal(before, *stopped)
}

func (t *testStopwatch) TestTickCounts() {
	sw, source := t.watch()
	ticked := t.counter(sw, EventTick)

	_, err := sw.SetMaxTime("5s")
	t.NoError(err)

	t.Equal(0, *ticked)

	sw.Start()
	t.Equal(1, *ticked)

	source.Advance(1)
	t.Equal(2, *ticked)

	source.Advance(4)
	t.Equal(5, *ticked)
}

func (t *testStopwatch) TestSetCurrentTime() {
	sw, _ := t.watch()

	t.Equal(10, sw.SetCurrentTime(10))
	t.Equal(10, sw.CurrentTime())

	sw.Start()
	t.Equal(7, sw.SetCurrentTime(7))

	sw.Pause()
	t.Equal(3, sw.SetCurrentTime(3))

	t.Equal(0, sw.SetCurrentTime(-1))
}

func (t *testStopwatch) TestSetCurrentTimeBeyondMax() {
	sw, source := t.watch()
	stopped := t.counter(sw, EventStop)

	_, err := sw.SetMaxTime("5s")
	t.NoError(err)

	sw.Start()
	sw.SetCurrentTime(10)

	// the bound is checked only inside the tick path
	t.Equal(0, *stopped)
	t.True(sw.IsRunning())

	source.Advance(1)

	t.Equal(1, *stopped)
	t.Equal(0, sw.CurrentTime())
	t.False(sw.IsRunning())
}

func (t *testStopwatch) TestRemainingTime() {
	sw, source := t.watch()

	_, err := sw.SetMaxTime("2m")
	t.NoError(err)

	t.Equal(sw.MaxTime()-sw.CurrentTime(), sw.RemainingTime())

	sw.Start()
	source.Advance(30)

	t.Equal(30, sw.CurrentTime())
	t.Equal(sw.MaxTime()-sw.CurrentTime(), sw.RemainingTime())

	sw.SetCurrentTime(200)
	t.Equal(0, sw.RemainingTime())
}

func (t *testStopwatch) TestSetMaxTimeInvalid() {
	sw, _ := t.watch()

	_, err := sw.SetMaxTime("five seconds")
	t.Error(err)
	t.True(errors.Is(err, ErrInvalidTimeFormat))

	t.Equal(DefaultMax, sw.MaxTime())
}

func (t *testStopwatch) TestListenersFireInOrder() {
	sw, _ := t.watch()

	var fired []string
	sw.On(EventStart, func() {
		fired = append(fired, "a")
	})
	sw.On(EventStart, func() {
		fired = append(fired, "b")
	})
	sw.On(EventStart, func() {
		fired = append(fired, "c")
	})

	sw.Start()

	t.Equal([]string{"a", "b", "c"}, fired)
}

func (t *testStopwatch) TestRestartWhilePaused() {
	sw, source := t.watch()
	restarted := t.counter(sw, EventRestart)
	paused := t.counter(sw, EventPause)

	sw.Start()
	source.Advance(2)
	sw.Pause()

	sw.Restart()

	t.Equal(1, *restarted)
	t.Equal(1, *paused)
	t.Equal(0, sw.CurrentTime())
	t.True(sw.IsRunning())

	source.Advance(1)
	t.Equal(1, sw.CurrentTime())
}

func TestStopwatch(t *testing.T) {
	suite.Run(t, new(testStopwatch))
}
