package messaging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

type recordingListener struct {
	calls int
}

func (l *recordingListener) HandleEvent(ctx context.Context, body any) error {
	l.calls++
	return nil
}

// statsListener is a value-type handler with a non-comparable field
type statsListener struct {
	seen map[string]int
}

func (l statsListener) HandleEvent(ctx context.Context, body any) error {
	l.seen["events"]++
	return nil
}

func TestListenerRegistry(t *testing.T) {
	t.Run("Snapshot of unknown topic is empty", func(t *testing.T) {
		registry := NewListenerRegistry()
		assert.Empty(t, registry.Snapshot("user.created"))
		assert.Zero(t, registry.Count("user.created"))
	})

	t.Run("Register appends in order", func(t *testing.T) {
		registry := NewListenerRegistry()
		first := &recordingListener{}
		second := &recordingListener{}

		registry.Register("user.created", first)
		registry.Register("user.created", second)

		snapshot := registry.Snapshot("user.created")
		assert.Len(t, snapshot, 2)
		assert.Same(t, first, snapshot[0])
		assert.Same(t, second, snapshot[1])
	})

	t.Run("duplicate registrations are kept", func(t *testing.T) {
		registry := NewListenerRegistry()
		listener := &recordingListener{}

		id1 := registry.Register("user.created", listener)
		id2 := registry.Register("user.created", listener)

		assert.NotEqual(t, id1, id2)
		assert.Equal(t, 2, registry.Count("user.created"))
	})

	t.Run("Unregister removes exactly one registration by id", func(t *testing.T) {
		registry := NewListenerRegistry()
		listener := &recordingListener{}

		id1 := registry.Register("user.created", listener)
		registry.Register("user.created", listener)

		assert.True(t, registry.Unregister("user.created", id1))
		assert.Equal(t, 1, registry.Count("user.created"))
		assert.False(t, registry.Unregister("user.created", id1))
	})

	t.Run("RemoveHandler removes the first matching entry", func(t *testing.T) {
		registry := NewListenerRegistry()
		listener := &recordingListener{}
		other := &recordingListener{}

		registry.Register("user.created", listener)
		registry.Register("user.created", other)
		registry.Register("user.created", listener)

		assert.True(t, registry.RemoveHandler("user.created", listener))

		snapshot := registry.Snapshot("user.created")
		assert.Len(t, snapshot, 2)
		assert.Same(t, other, snapshot[0])
		assert.Same(t, listener, snapshot[1])
	})

	t.Run("RemoveHandler matches func adapters by code pointer", func(t *testing.T) {
		registry := NewListenerRegistry()
		fn := EventHandlerFunc(func(ctx context.Context, body any) error { return nil })

		registry.Register("user.created", fn)
		assert.True(t, registry.RemoveHandler("user.created", fn))
		assert.Zero(t, registry.Count("user.created"))
	})

	t.Run("RemoveHandler is a no-op for unknown handler", func(t *testing.T) {
		registry := NewListenerRegistry()
		registry.Register("user.created", &recordingListener{})

		assert.False(t, registry.RemoveHandler("user.created", &recordingListener{}))
		assert.False(t, registry.RemoveHandler("other.topic", &recordingListener{}))
		assert.Equal(t, 1, registry.Count("user.created"))
	})

	t.Run("RemoveHandler tolerates non-comparable handler types", func(t *testing.T) {
		registry := NewListenerRegistry()
		first := statsListener{seen: map[string]int{}}
		second := statsListener{seen: map[string]int{}}

		id := registry.Register("user.created", first)

		// Value structs holding maps have no identity; removal by handler
		// must report a miss instead of panicking
		assert.NotPanics(t, func() {
			assert.False(t, registry.RemoveHandler("user.created", second))
			assert.False(t, registry.RemoveHandler("user.created", first))
		})
		assert.Equal(t, 1, registry.Count("user.created"))

		// The registration id still removes the entry
		assert.True(t, registry.Unregister("user.created", id))
		assert.Zero(t, registry.Count("user.created"))
	})

	t.Run("Snapshot is isolated from later mutation", func(t *testing.T) {
		registry := NewListenerRegistry()
		listener := &recordingListener{}

		registry.Register("user.created", listener)
		snapshot := registry.Snapshot("user.created")

		registry.Register("user.created", &recordingListener{})
		assert.Len(t, snapshot, 1)
	})

	t.Run("empty topic is dropped after last removal", func(t *testing.T) {
		registry := NewListenerRegistry()
		listener := &recordingListener{}
		id := registry.Register("user.created", listener)

		registry.Unregister("user.created", id)
		assert.Empty(t, registry.Topics())
	})
}
