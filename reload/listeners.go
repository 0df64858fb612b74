package reload

import (
	"maps"
	"slices"
	"sync"

	"github.com/0xalexb/hjarta-config/tag"
)

// Event describes a completed reload.
type Event struct {
	// SourceID identifies the reloaded source.
	SourceID string
	// Source is the display name of the reloaded source.
	Source string
	// Tags are the tags the source is registered under.
	Tags tag.Tags
	// Version is the snapshot version published by the reload.
	Version uint64
}

// Listener is called after a reload.
type Listener func(event Event)

// Listeners is a registry of reload listeners. It is safe for concurrent use.
type Listeners struct {
	mu        sync.RWMutex
	nextID    uint64
	listeners map[uint64]Listener
}

// NewListeners creates an empty registry.
func NewListeners() *Listeners {
	return &Listeners{listeners: make(map[uint64]Listener)}
}

// Add registers listener until the returned Registration is released.
func (l *Listeners) Add(listener Listener) *Registration {
	l.mu.Lock()
	defer l.mu.Unlock()

	id := l.nextID
	l.nextID++
	l.listeners[id] = listener

	return &Registration{id: id, owner: l}
}

// Len returns the number of registered listeners.
func (l *Listeners) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return len(l.listeners)
}

// Notify calls every listener in registration order. Listeners run on the
// calling goroutine and may release registrations while being notified.
func (l *Listeners) Notify(event Event) {
	l.mu.RLock()

	ordered := make([]Listener, 0, len(l.listeners))
	for _, id := range slices.Sorted(maps.Keys(l.listeners)) {
		ordered = append(ordered, l.listeners[id])
	}

	l.mu.RUnlock()

	for _, listener := range ordered {
		listener(event)
	}
}

func (l *Listeners) remove(id uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.listeners, id)
}

// Registration is the handle of a registered listener.
type Registration struct {
	id    uint64
	owner *Listeners
	once  sync.Once
}

// Release removes the listener. It is safe to call more than once.
func (r *Registration) Release() {
	if r == nil || r.owner == nil {
		return
	}

	r.once.Do(func() {
		r.owner.remove(r.id)
	})
}
