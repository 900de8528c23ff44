package store

import (
	"sort"
	"sync"

	"saveandplay/internal/logger"
)

// Op is the kind of change an Event reports.
type Op string

const (
	Created Op = "created"
	Updated Op = "updated"
	Deleted Op = "deleted"
)

// Event describes one committed change.
type Event struct {
	Path Path
	Op   Op
}

// Listener receives events. It runs on the committing goroutine after the
// transaction is durable, so it may read the store but should return quickly.
type Listener func(Event)

type subscription struct {
	id       uint64
	path     Path
	listener Listener
}

type hub struct {
	mu     sync.RWMutex
	nextID uint64
	subs   map[uint64]subscription
}

func newHub() *hub {
	return &hub{subs: make(map[uint64]subscription)}
}

func (h *hub) subscribe(p Path, l Listener) func() {
	h.mu.Lock()
	h.nextID++
	id := h.nextID
	h.subs[id] = subscription{id: id, path: p, listener: l}
	h.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, id)
			h.mu.Unlock()
		})
	}
}

// snapshot returns the current subscribers in registration order.
func (h *hub) snapshot() []subscription {
	h.mu.RLock()
	out := make([]subscription, 0, len(h.subs))
	for _, s := range h.subs {
		out = append(out, s)
	}
	h.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

// publish delivers events outside the lock so listeners may subscribe,
// unsubscribe or commit.
func (h *hub) publish(events []Event) {
	if len(events) == 0 {
		return
	}
	subs := h.snapshot()
	for _, ev := range events {
		for _, s := range subs {
			if s.path.Covers(ev.Path) {
				deliver(s, ev)
			}
		}
	}
}

func deliver(s subscription, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			logger.Get().Errorw("store listener panicked", "subscription", s.path.String(), "event", ev.Path.String(), "op", ev.Op, "panic", r)
		}
	}()
	s.listener(ev)
}
