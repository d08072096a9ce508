package stopwatch

import "sync"

type EventID string

func (e EventID) String() string {
	return string(e)
}

const (
	EventStart   EventID = "start"
	EventStop    EventID = "stop"
	EventPause   EventID = "pause"
	EventRestart EventID = "restart"
	EventTick    EventID = "tick"
)

// hub fans an event out to its listeners synchronously, in
// registration order.
type hub struct {
	listeners map[EventID][]func()
	sync.RWMutex
}

func newHub() *hub {
	return &hub{listeners: map[EventID][]func(){}}
}

func (h *hub) on(id EventID, callback func()) {
	h.Lock()
	defer h.Unlock()

	h.listeners[id] = append(h.listeners[id], callback)
}

func (h *hub) emit(id EventID) {
	h.RLock()
	callbacks := make([]func(), len(h.listeners[id]))
	copy(callbacks, h.listeners[id])
	h.RUnlock()

	for i := range callbacks {
		callbacks[i]()
	}
}
