package domain

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrPlanNotFound indicates a lookup for an unregistered pricing plan.
var ErrPlanNotFound = errors.New("pricing plan not found")

// InMemoryPlanRegistry stores pricing plans in memory. Plans are registered
// once at startup and only read afterwards.
type InMemoryPlanRegistry struct {
	mu    sync.RWMutex
	plans map[string]PricingPlan
}

// NewInMemoryPlanRegistry creates a new in-memory plan registry.
func NewInMemoryPlanRegistry() *InMemoryPlanRegistry {
	return &InMemoryPlanRegistry{
		mu:    sync.RWMutex{},
		plans: make(map[string]PricingPlan),
	}
}

// Register validates and adds a pricing plan, keyed by plan.Key.
// An invalid plan is rejected here so that it can never be queried.
func (r *InMemoryPlanRegistry) Register(_ context.Context, plan PricingPlan) error {
	if err := plan.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.plans[plan.Key] = plan
	return nil
}

// Get retrieves a pricing plan by key.
func (r *InMemoryPlanRegistry) Get(_ context.Context, key string) (PricingPlan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	plan, exists := r.plans[key]
	if !exists {
		return PricingPlan{}, fmt.Errorf("%w: %s", ErrPlanNotFound, key)
	}

	return plan, nil
}

// List returns all registered plans sorted by display label.
func (r *InMemoryPlanRegistry) List(_ context.Context) ([]PricingPlan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	plans := make([]PricingPlan, 0, len(r.plans))
	for _, plan := range r.plans {
		plans = append(plans, plan)
	}

	sort.Slice(plans, func(i, j int) bool {
		return plans[i].Label < plans[j].Label
	})

	return plans, nil
}
