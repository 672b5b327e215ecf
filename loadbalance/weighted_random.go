package loadbalance

import (
	"fmt"
	"math/rand"

	"remotefs/registry"
)

// WeightedRandomBalancer favors servers with higher registered weight.
// Useful when the fleet mixes boxes with different disk or network capacity.
type WeightedRandomBalancer struct{}

func (b *WeightedRandomBalancer) Pick(instances []registry.ServiceInstance) (*registry.ServiceInstance, error) {
	if len(instances) == 0 {
		return nil, fmt.Errorf("no instances available")
	}

	totalWeight := 0
	for _, v := range instances {
		totalWeight += v.Weight
	}
	if totalWeight <= 0 {
		return &instances[rand.Intn(len(instances))], nil
	}

	r := rand.Intn(totalWeight)
	for i := range instances {
		r -= instances[i].Weight
		if r < 0 {
			return &instances[i], nil
		}
	}

	return nil, fmt.Errorf("unexpected error in weighted random selection")
}

func (b *WeightedRandomBalancer) Name() string {
	return "WeightedRandom"
}
