package util

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// ContextTicker invokes callback once per interval on its own
// goroutine. The callback receives how many times it has been called
// before; returning false stops the ticker.
type ContextTicker struct {
	*ContextDaemon
	callback     func(uint64) bool
	intervalfunc func(uint64) time.Duration
	count        uint64
	sync.RWMutex
}

func NewContextTicker(name string, interval time.Duration, callback func(uint64) bool) *ContextTicker {
	ct := &ContextTicker{
		callback: callback,
		intervalfunc: func(uint64) time.Duration {
			return interval
		},
	}

	ct.ContextDaemon = NewContextDaemon("ticker-"+name, ct.run)

	return ct
}

// SetIntervalFunc replaces the fixed interval; it is consulted before
// every wait with the current call count.
func (ct *ContextTicker) SetIntervalFunc(f func(uint64) time.Duration) *ContextTicker {
	ct.Lock()
	defer ct.Unlock()

	ct.intervalfunc = f

	return ct
}

func (ct *ContextTicker) Count() uint64 {
	ct.RLock()
	defer ct.RUnlock()

	return ct.count
}

// Reset zeroes the call count.
func (ct *ContextTicker) Reset() {
	ct.Lock()
	defer ct.Unlock()

	ct.count = 0
}

func (ct *ContextTicker) run(ctx context.Context) error {
	for {
		ct.RLock()
		count := ct.count
		interval := ct.intervalfunc(count)
		ct.RUnlock()

		if interval < time.Nanosecond {
			return errors.Errorf("too narrow interval, %v", interval)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(interval):
		}

		if !ct.callback(count) {
			return nil
		}

		ct.Lock()
		if ct.count == count {
			ct.count++
		}
		ct.Unlock()
	}
}
