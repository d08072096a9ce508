package logging

import (
	"io"
	"sync"

	"github.com/rs/zerolog"
)

var TestNilLogging = NewLogging(nil).SetLogger(zerolog.New(io.Discard))

type Logging struct {
	contextFunc func(zerolog.Context) zerolog.Context
	log         zerolog.Logger
	orig        zerolog.Logger
	sync.RWMutex
}

func NewLogging(f func(zerolog.Context) zerolog.Context) *Logging {
	return &Logging{
		log:         zerolog.Nop(),
		orig:        zerolog.Nop(),
		contextFunc: f,
	}
}

func (lg *Logging) Log() *zerolog.Logger {
	lg.RLock()
	defer lg.RUnlock()

	return &lg.log
}

func (lg *Logging) SetLogger(l zerolog.Logger) *Logging {
	lg.Lock()
	defer lg.Unlock()

	lg.orig = l
	lg.log = l

	if lg.contextFunc != nil {
		lg.log = lg.contextFunc(l.With()).Logger()
	}

	return lg
}

// SetLogging attaches the parent logger; the receiver keeps its own
// context fields.
func (lg *Logging) SetLogging(l *Logging) *Logging {
	l.RLock()
	orig := l.orig
	l.RUnlock()

	return lg.SetLogger(orig)
}

func (lg *Logging) IsTraceLog() bool {
	return lg.Log().GetLevel() == zerolog.TraceLevel
}
