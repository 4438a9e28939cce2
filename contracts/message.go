package contracts

import (
	"time"

	"github.com/google/uuid"
)

// Message is the envelope delivered to consumers. It wraps the caller's
// body together with optional string headers, the destination address or
// topic, a generated ID, and the creation timestamp.
//
// A Message is created by the bus for a single invocation and must be
// treated as read-only by handlers. Headers are copied on construction so
// later mutation of the caller's map is never observed.
type Message struct {
	ID        string
	Address   string
	Timestamp time.Time
	Headers   map[string]string
	Body      any
}

// NewMessage creates an envelope with a generated ID and current UTC
// timestamp. A nil headers map is allowed and yields a Message with nil
// Headers.
func NewMessage(address string, body any, headers map[string]string) *Message {
	var copied map[string]string
	if len(headers) > 0 {
		copied = make(map[string]string, len(headers))
		for k, v := range headers {
			copied[k] = v
		}
	}

	return &Message{
		ID:        uuid.New().String(),
		Address:   address,
		Timestamp: time.Now().UTC(),
		Headers:   copied,
		Body:      body,
	}
}

// Header returns the value for a header key and whether it was present.
func (m *Message) Header(key string) (string, bool) {
	v, ok := m.Headers[key]
	return v, ok
}
