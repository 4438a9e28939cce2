package messaging

import (
	"reflect"
	"sync"

	"github.com/google/uuid"
)

// listenerEntry is a single registration of a handler on a topic. The id
// identifies the registration, not the handler: the same handler may be
// registered multiple times and each entry is invoked once per publish.
type listenerEntry struct {
	id      string
	handler EventHandler
}

// ListenerRegistry maps each publish-subscribe topic to its ordered
// listeners. Duplicates are permitted (ordered multiset). Safe for
// concurrent use; Snapshot returns a copy so in-flight publishes never
// observe registry mutation.
type ListenerRegistry struct {
	mu        sync.RWMutex
	listeners map[string][]listenerEntry
}

// NewListenerRegistry creates an empty listener registry.
func NewListenerRegistry() *ListenerRegistry {
	return &ListenerRegistry{
		listeners: make(map[string][]listenerEntry),
	}
}

// Register appends the handler to the topic's listener sequence and
// returns the registration id used to unregister this specific entry.
func (r *ListenerRegistry) Register(topic string, handler EventHandler) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := uuid.New().String()
	r.listeners[topic] = append(r.listeners[topic], listenerEntry{id: id, handler: handler})
	return id
}

// Unregister removes the registration with the given id from the topic.
// Removing an unknown id is a no-op; the return value reports whether an
// entry was removed.
func (r *ListenerRegistry) Unregister(topic, id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries, ok := r.listeners[topic]
	if !ok {
		return false
	}

	for i, entry := range entries {
		if entry.id == id {
			r.listeners[topic] = append(entries[:i], entries[i+1:]...)
			if len(r.listeners[topic]) == 0 {
				delete(r.listeners, topic)
			}
			return true
		}
	}
	return false
}

// RemoveHandler removes the first entry whose handler is identical to the
// given one. No-op if no entry matches.
func (r *ListenerRegistry) RemoveHandler(topic string, handler EventHandler) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries, ok := r.listeners[topic]
	if !ok {
		return false
	}

	for i, entry := range entries {
		if sameHandler(entry.handler, handler) {
			r.listeners[topic] = append(entries[:i], entries[i+1:]...)
			if len(r.listeners[topic]) == 0 {
				delete(r.listeners, topic)
			}
			return true
		}
	}
	return false
}

// Snapshot returns a copy of the topic's listeners in registration order.
// The copy is safe to iterate while the registry mutates.
func (r *ListenerRegistry) Snapshot(topic string) []EventHandler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := r.listeners[topic]
	if len(entries) == 0 {
		return nil
	}

	handlers := make([]EventHandler, len(entries))
	for i, entry := range entries {
		handlers[i] = entry.handler
	}
	return handlers
}

// Count returns the number of listeners registered for a topic.
func (r *ListenerRegistry) Count(topic string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.listeners[topic])
}

// Topics returns all topics with at least one listener.
func (r *ListenerRegistry) Topics() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	topics := make([]string, 0, len(r.listeners))
	for topic := range r.listeners {
		topics = append(topics, topic)
	}
	return topics
}

// sameHandler compares handlers by identity. Func adapters are compared by
// code pointer since func values are not comparable with ==. Handlers with
// a non-comparable dynamic type (value structs holding maps or slices)
// never match; those registrations are removed via their handle instead.
func sameHandler(a, b EventHandler) bool {
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if !va.IsValid() || !vb.IsValid() {
		return false
	}
	if va.Kind() == reflect.Func || vb.Kind() == reflect.Func {
		return va.Kind() == vb.Kind() && va.Pointer() == vb.Pointer()
	}
	if va.Type() != vb.Type() || !va.Type().Comparable() {
		return false
	}
	return a == b
}
