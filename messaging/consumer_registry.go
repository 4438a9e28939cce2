package messaging

import (
	"sync"

	"github.com/glimte/tinybus-go/contracts"
)

// consumerEntry is a registered consumer plus its optional contract.
type consumerEntry struct {
	handler  RequestHandler
	contract *contracts.EndpointContract
}

// ConsumerRegistry maps each request-response address to its single
// registered handler. Registration is last-writer-wins: a second Register
// for the same address replaces the prior handler. Safe for concurrent use.
type ConsumerRegistry struct {
	mu        sync.RWMutex
	consumers map[string]consumerEntry
}

// NewConsumerRegistry creates an empty consumer registry.
func NewConsumerRegistry() *ConsumerRegistry {
	return &ConsumerRegistry{
		consumers: make(map[string]consumerEntry),
	}
}

// Register stores the handler for an address, replacing any existing
// handler. It reports whether a prior handler was replaced so callers can
// surface the overwrite.
func (r *ConsumerRegistry) Register(address string, handler RequestHandler, contract *contracts.EndpointContract) (replaced bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, replaced = r.consumers[address]
	r.consumers[address] = consumerEntry{handler: handler, contract: contract}
	return replaced
}

// Unregister removes the handler for an address. Removing an absent
// address is a no-op; the return value reports whether a handler existed.
func (r *ConsumerRegistry) Unregister(address string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, existed := r.consumers[address]
	delete(r.consumers, address)
	return existed
}

// Lookup returns the handler for an address, if any.
func (r *ConsumerRegistry) Lookup(address string) (RequestHandler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.consumers[address]
	if !ok {
		return nil, false
	}
	return entry.handler, true
}

// Contains reports whether a handler is registered for the address.
func (r *ConsumerRegistry) Contains(address string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.consumers[address]
	return ok
}

// Addresses returns all registered consumer addresses.
func (r *ConsumerRegistry) Addresses() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	addresses := make([]string, 0, len(r.consumers))
	for address := range r.consumers {
		addresses = append(addresses, address)
	}
	return addresses
}

// Contracts returns the contracts of registered consumers matching the
// given address pattern and version constraint. Consumers registered
// without a contract are not discoverable.
func (r *ConsumerRegistry) Contracts(pattern, version string) []contracts.EndpointContract {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]contracts.EndpointContract, 0)
	for _, entry := range r.consumers {
		if entry.contract == nil {
			continue
		}
		if entry.contract.Matches(pattern, version) {
			matched = append(matched, *entry.contract)
		}
	}
	return matched
}
