package stopwatch

import (
	"context"
	"sync"
	"time"

	"github.com/tickdown/stopwatch/util"
)

// TickerHandle owns one periodic-callback registration. Cancel is
// idempotent; to cancel from inside the callback, return false instead.
type TickerHandle interface {
	Cancel()
}

// TickerSource schedules a callback once per interval. The callback
// receives how many times it fired before; returning false cancels the
// registration from inside.
type TickerSource interface {
	Repeat(interval time.Duration, callback func(count uint64) bool) TickerHandle
}

// ContextTickerSource schedules on wall-clock time; each registration
// runs a util.ContextTicker goroutine.
type ContextTickerSource struct {
	name string
}

func NewContextTickerSource(name string) *ContextTickerSource {
	return &ContextTickerSource{name: name}
}

func (ts *ContextTickerSource) Repeat(interval time.Duration, callback func(uint64) bool) TickerHandle {
	ct := util.NewContextTicker(ts.name, interval, callback)
	_ = ct.Start(context.Background())

	return &contextTickerHandle{ticker: ct}
}

type contextTickerHandle struct {
	ticker *util.ContextTicker
	once   sync.Once
}

func (h *contextTickerHandle) Cancel() {
	h.once.Do(func() {
		_ = h.ticker.Stop()
	})
}

// ManualTickerSource is a deterministic virtual clock. Nothing fires
// until Advance/AdvanceBy moves virtual time forward; due callbacks run
// synchronously on the caller's goroutine, in due order.
type ManualTickerSource struct {
	tickers []*manualTicker
	unit    time.Duration
	now     time.Duration
	sync.Mutex
}

// NewManualTickerSource makes a virtual clock whose Advance steps by
// unit; unit < 1 means one second.
func NewManualTickerSource(unit time.Duration) *ManualTickerSource {
	if unit < 1 {
		unit = time.Second
	}

	return &ManualTickerSource{unit: unit}
}

func (ts *ManualTickerSource) Repeat(interval time.Duration, callback func(uint64) bool) TickerHandle {
	ts.Lock()
	defer ts.Unlock()

	t := &manualTicker{
		source:   ts,
		interval: interval,
		callback: callback,
		next:     ts.now + interval,
	}

	if interval < time.Nanosecond { // would fire forever within one advance
		return t
	}

	ts.tickers = append(ts.tickers, t)

	return t
}

// Advance moves virtual time forward by units whole time units.
func (ts *ManualTickerSource) Advance(units int) {
	ts.AdvanceBy(time.Duration(units) * ts.unit)
}

func (ts *ManualTickerSource) AdvanceBy(d time.Duration) {
	ts.Lock()

	target := ts.now + d

	for {
		t := ts.nextDue(target)
		if t == nil {
			break
		}

		ts.now = t.next
		t.next += t.interval

		callback := t.callback
		count := t.count
		t.count++

		ts.Unlock()
		keep := callback(count)
		ts.Lock()

		if !keep {
			ts.remove(t)
		}
	}

	ts.now = target
	ts.Unlock()
}

// Now returns the current virtual time.
func (ts *ManualTickerSource) Now() time.Duration {
	ts.Lock()
	defer ts.Unlock()

	return ts.now
}

func (ts *ManualTickerSource) nextDue(target time.Duration) *manualTicker {
	var due *manualTicker

	for _, t := range ts.tickers {
		if t.next > target {
			continue
		}

		if due == nil || t.next < due.next {
			due = t
		}
	}

	return due
}

func (ts *ManualTickerSource) remove(t *manualTicker) {
	for i := range ts.tickers {
		if ts.tickers[i] == t {
			ts.tickers = append(ts.tickers[:i], ts.tickers[i+1:]...)

			return
		}
	}
}

type manualTicker struct {
	source   *ManualTickerSource
	callback func(uint64) bool
	interval time.Duration
	next     time.Duration
	count    uint64
}

func (t *manualTicker) Cancel() {
	t.source.Lock()
	defer t.source.Unlock()

	t.source.remove(t)
}
