// Package loadbalance picks which file server a client should connect to
// when several are registered. The pick happens once, at dial time: file
// handles are scoped to a connection, so every call of a session must stay
// on the server the session started with.
package loadbalance

import "remotefs/registry"

// Balancer selects one instance from the discovered list.
type Balancer interface {
	// Pick must be goroutine-safe; several dials may race through it.
	Pick(instances []registry.ServiceInstance) (*registry.ServiceInstance, error)

	// Name returns the strategy name for logging.
	Name() string
}
