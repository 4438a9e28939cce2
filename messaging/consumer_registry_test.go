package messaging

import (
	"context"
	"testing"

	"github.com/glimte/tinybus-go/contracts"
	"github.com/stretchr/testify/assert"
)

func echoHandler(tag string) RequestHandler {
	return RequestHandlerFunc(func(ctx context.Context, msg *contracts.Message) (any, error) {
		return tag, nil
	})
}

func TestConsumerRegistry(t *testing.T) {
	t.Run("Lookup on empty registry misses", func(t *testing.T) {
		registry := NewConsumerRegistry()

		handler, ok := registry.Lookup("orders.create")
		assert.False(t, ok)
		assert.Nil(t, handler)
	})

	t.Run("Register then Lookup returns the handler", func(t *testing.T) {
		registry := NewConsumerRegistry()
		h := echoHandler("h")

		replaced := registry.Register("orders.create", h, nil)
		assert.False(t, replaced)

		got, ok := registry.Lookup("orders.create")
		assert.True(t, ok)

		resp, err := got.HandleRequest(context.Background(), nil)
		assert.NoError(t, err)
		assert.Equal(t, "h", resp)
	})

	t.Run("second Register replaces and reports it", func(t *testing.T) {
		registry := NewConsumerRegistry()
		registry.Register("orders.create", echoHandler("first"), nil)

		replaced := registry.Register("orders.create", echoHandler("second"), nil)
		assert.True(t, replaced)

		got, ok := registry.Lookup("orders.create")
		assert.True(t, ok)

		resp, err := got.HandleRequest(context.Background(), nil)
		assert.NoError(t, err)
		assert.Equal(t, "second", resp)
	})

	t.Run("Unregister removes and is a no-op when absent", func(t *testing.T) {
		registry := NewConsumerRegistry()
		registry.Register("orders.create", echoHandler("h"), nil)

		assert.True(t, registry.Unregister("orders.create"))
		assert.False(t, registry.Contains("orders.create"))
		assert.False(t, registry.Unregister("orders.create"))
	})

	t.Run("Addresses lists registered addresses", func(t *testing.T) {
		registry := NewConsumerRegistry()
		registry.Register("a", echoHandler("a"), nil)
		registry.Register("b", echoHandler("b"), nil)

		assert.ElementsMatch(t, []string{"a", "b"}, registry.Addresses())
	})

	t.Run("Contracts filters by pattern and version", func(t *testing.T) {
		registry := NewConsumerRegistry()
		registry.Register("order.validate", echoHandler("v"), &contracts.EndpointContract{
			Address: "order.validate",
			Version: "1.0.0",
		})
		registry.Register("order.create", echoHandler("c"), &contracts.EndpointContract{
			Address: "order.create",
			Version: "2.1.0",
		})
		registry.Register("payment.charge", echoHandler("p"), nil) // no contract

		all := registry.Contracts("", "")
		assert.Len(t, all, 2)

		orders := registry.Contracts("order.*", "")
		assert.Len(t, orders, 2)

		v1 := registry.Contracts("order.*", "^1.0")
		assert.Len(t, v1, 1)
		assert.Equal(t, "order.validate", v1[0].Address)

		none := registry.Contracts("payment.*", "")
		assert.Empty(t, none)
	})
}
