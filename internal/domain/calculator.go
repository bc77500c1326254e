package domain

import (
	"context"
	"errors"
)

// ErrUnknownMode indicates a request for a mode outside the closed set.
var ErrUnknownMode = errors.New("unknown mode")

// Mode identifies one of the four document-QA strategies under comparison.
type Mode string

const (
	// ModeLongContext sends the whole knowledge base on every request.
	ModeLongContext Mode = "long_context"

	// ModeLongContextCache keeps the knowledge base in the provider's
	// prompt cache between requests.
	ModeLongContextCache Mode = "long_context_cache"

	// ModeGrep models an agent grepping through documents, retrying on the
	// wrong files before hitting the right one.
	ModeGrep Mode = "grep"

	// ModeRAG retrieves top-k chunks from a vector database and sends only
	// those.
	ModeRAG Mode = "rag"
)

// Modes returns the closed set of comparison modes in presentation order.
func Modes() []Mode {
	return []Mode{ModeLongContext, ModeLongContextCache, ModeGrep, ModeRAG}
}

// Valid reports whether the mode is one of the known four.
func (m Mode) Valid() bool {
	switch m {
	case ModeLongContext, ModeLongContextCache, ModeGrep, ModeRAG:
		return true
	default:
		return false
	}
}

// Evaluation is the outcome of running one calculator over a scenario:
// headline cost/latency figures plus enough breakdown to render a
// comparison table. Derived values only; nothing here is stored.
type Evaluation struct {
	ScenarioName   string             `json:"scenario_name"`
	Mode           Mode               `json:"mode"`
	MonthlyCost    float64            `json:"monthly_cost"`
	CostPerRequest float64            `json:"cost_per_request"`
	AvgTimeSeconds float64            `json:"avg_time_seconds"`
	InputTokens    int                `json:"input_tokens"`
	Latency        map[string]float64 `json:"latency"`
	CostBreakdown  map[string]float64 `json:"cost_breakdown"`
	Metrics        map[string]string  `json:"metrics,omitempty"`
}

// Calculator maps a scenario and a pricing plan to cost and latency
// estimates. Implementations are pure: same inputs, same outputs, no side
// effects and no retained state.
type Calculator interface {
	// Mode returns the strategy this calculator models.
	Mode() Mode

	// Evaluate computes the cost and latency estimate for the scenario.
	Evaluate(ctx context.Context, plan PricingPlan, scenario Scenario) (Evaluation, error)
}

// EventPublisher publishes events for observability.
type EventPublisher interface {
	// Publish publishes an event with the given type and data.
	Publish(ctx context.Context, eventType string, data map[string]interface{})
}

// PlanRegistry maintains the set of selectable pricing plans.
type PlanRegistry interface {
	// Register validates and adds a pricing plan.
	Register(ctx context.Context, plan PricingPlan) error

	// Get retrieves a pricing plan by key.
	Get(ctx context.Context, key string) (PricingPlan, error)

	// List returns all registered plans sorted by display label.
	List(ctx context.Context) ([]PricingPlan, error)
}
