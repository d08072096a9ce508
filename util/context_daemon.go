package util

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/tickdown/stopwatch/util/logging"
)

// ContextDaemon runs one callback goroutine; Stop cancels the callback
// context and waits until the callback returns.
type ContextDaemon struct {
	*logging.Logging
	callback   func(context.Context) error
	cancelfunc func()
	waitfunc   func()
	ctxLock    sync.RWMutex
	sync.Mutex
}

func NewContextDaemon(name string, startfunc func(context.Context) error) *ContextDaemon {
	return &ContextDaemon{
		Logging: logging.NewLogging(func(c zerolog.Context) zerolog.Context {
			return c.Str("module", "context-daemon").Str("daemon", name)
		}),
		callback: startfunc,
	}
}

func (dm *ContextDaemon) IsStarted() bool {
	dm.ctxLock.RLock()
	defer dm.ctxLock.RUnlock()

	return dm.cancelfunc != nil
}

func (dm *ContextDaemon) Start(ctx context.Context) error {
	dm.Lock()
	defer dm.Unlock()

	if dm.IsStarted() {
		return ErrDaemonAlreadyStarted.Call()
	}

	cctx, cancel := context.WithCancel(ctx)
	donectx, finish := context.WithCancel(context.Background())

	dm.ctxLock.Lock()
	dm.cancelfunc = cancel
	dm.waitfunc = func() { <-donectx.Done() }
	dm.ctxLock.Unlock()

	go func() {
		err := dm.callback(cctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			dm.Log().Error().Err(err).Msg("daemon callback failed")
		}

		cancel()

		dm.ctxLock.Lock()
		dm.cancelfunc = nil
		dm.ctxLock.Unlock()

		finish()
	}()

	dm.Log().Debug().Msg("started")

	return nil
}

func (dm *ContextDaemon) Stop() error {
	dm.Lock()
	defer dm.Unlock()

	dm.ctxLock.RLock()
	cancel := dm.cancelfunc
	wait := dm.waitfunc
	dm.ctxLock.RUnlock()

	if wait == nil {
		return ErrDaemonAlreadyStopped.Call()
	}

	if cancel != nil {
		cancel()
	}

	wait()

	dm.ctxLock.Lock()
	dm.cancelfunc = nil
	dm.waitfunc = nil
	dm.ctxLock.Unlock()

	dm.Log().Debug().Msg("stopped")

	return nil
}
