// Package registry lets file servers announce themselves so clients can
// resolve a server address without hard-coding host:port. Registration is
// optional; a server started without a registry serves exactly the same.
package registry

// ServiceInstance describes one reachable file server.
type ServiceInstance struct {
	Addr    string
	Weight  int // relative capacity, used by the weighted balancer
	Version string
}

type Registry interface {
	Register(serviceName string, instance ServiceInstance, ttl int64) error
	Deregister(serviceName string, addr string) error
	Discover(serviceName string) ([]ServiceInstance, error)
	Watch(serviceName string) <-chan []ServiceInstance
}
