// etcd-backed implementation of the Registry interface.
//
//	Key:   /remotefs/{ServiceName}/{Addr}
//	Value: JSON-encoded ServiceInstance
//
// Entries are written under a TTL lease kept alive in the background; a
// crashed server stops renewing and its entry expires on its own, so stale
// addresses never accumulate.
package registry

import (
	"context"
	"encoding/json"
	"time"

	clientv3 "go.etcd.io/etcd/client/v3"
)

const keyPrefix = "/remotefs/"

// EtcdRegistry implements Registry on an etcd v3 cluster. All of its
// background work (lease renewal, watches) lives under one context that
// Close cancels.
type EtcdRegistry struct {
	client *clientv3.Client
	ctx    context.Context
	cancel context.CancelFunc
}

// NewEtcdRegistry connects to the given etcd endpoints.
func NewEtcdRegistry(endpoints []string) (*EtcdRegistry, error) {
	c, err := clientv3.New(clientv3.Config{
		Endpoints:   endpoints,
		DialTimeout: 5 * time.Second,
	})
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &EtcdRegistry{client: c, ctx: ctx, cancel: cancel}, nil
}

// Register writes the instance under a TTL lease and starts background
// renewal. The lease ID stays a local variable so concurrent registrations
// through one EtcdRegistry do not race on shared state.
func (r *EtcdRegistry) Register(serviceName string, instance ServiceInstance, ttl int64) error {
	ctx := r.ctx

	lease, err := r.client.Grant(ctx, ttl)
	if err != nil {
		return err
	}

	val, err := json.Marshal(instance)
	if err != nil {
		return err
	}

	_, err = r.client.Put(ctx, keyPrefix+serviceName+"/"+instance.Addr, string(val), clientv3.WithLease(lease.ID))
	if err != nil {
		return err
	}

	ch, err := r.client.KeepAlive(ctx, lease.ID)
	if err != nil {
		return err
	}

	// Drain renewal responses so the channel never fills up.
	go func() {
		for range ch {
		}
	}()
	return nil
}

// Deregister removes the instance entry. Called during graceful shutdown
// before the listener closes, so clients stop resolving to this server.
func (r *EtcdRegistry) Deregister(serviceName string, addr string) error {
	_, err := r.client.Delete(r.ctx, keyPrefix+serviceName+"/"+addr)
	return err
}

// Discover returns every currently registered instance of a service.
func (r *EtcdRegistry) Discover(serviceName string) ([]ServiceInstance, error) {
	resp, err := r.client.Get(r.ctx, keyPrefix+serviceName+"/", clientv3.WithPrefix())
	if err != nil {
		return nil, err
	}

	instances := make([]ServiceInstance, 0, len(resp.Kvs))
	for _, kv := range resp.Kvs {
		var instance ServiceInstance
		if err := json.Unmarshal(kv.Value, &instance); err != nil {
			continue // skip malformed entries
		}
		instances = append(instances, instance)
	}
	return instances, nil
}

// Watch emits a fresh instance list whenever the service's prefix changes
// (registration, deregistration, lease expiry). The returned channel closes
// when the registry is closed.
func (r *EtcdRegistry) Watch(serviceName string) <-chan []ServiceInstance {
	ch := make(chan []ServiceInstance, 1)

	go func() {
		defer close(ch)
		watchChan := r.client.Watch(r.ctx, keyPrefix+serviceName+"/", clientv3.WithPrefix())
		for range watchChan {
			// Re-fetch the full list rather than folding individual events.
			instances, err := r.Discover(serviceName)
			if err != nil {
				continue
			}
			ch <- instances
		}
	}()

	return ch
}

// Close stops lease renewal and watches and releases the etcd client.
func (r *EtcdRegistry) Close() error {
	r.cancel()
	return r.client.Close()
}
