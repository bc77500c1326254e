// Package catalog holds the read-only reference data the calculators run
// over: built-in pricing plans, the measured latency tables, and optional
// YAML overrides for both.
package catalog

import (
	"context"
	"fmt"

	"github.com/davidbz/ragcost/internal/domain"
)

// DefaultPlanKey is the pricing plan used when a scenario names none.
const DefaultPlanKey = "claude-3.5-sonnet-1m"

// BuiltinPlans returns the pricing plans shipped with the binary.
// Rates are USD per million tokens, current as of late 2025.
func BuiltinPlans() []domain.PricingPlan {
	return []domain.PricingPlan{
		{
			Key:           DefaultPlanKey,
			Label:         "Anthropic Claude Sonnet",
			Provider:      "Anthropic",
			ModelName:     "Claude Sonnet",
			ContextWindow: 1_000_000,
			Tiers: []domain.PricingTier{
				{
					UpToTokens:           200_000,
					InputPerMillion:      3.0,
					OutputPerMillion:     15.0,
					CacheWritePerMillion: 3.75,
					CacheReadPerMillion:  0.30,
				},
				{
					InputPerMillion:      6.0,
					OutputPerMillion:     22.5,
					CacheWritePerMillion: 7.5,
					CacheReadPerMillion:  0.60,
				},
			},
			Notes: "Claude Sonnet 1M context pricing; prompts past 200k tokens bill at the long-context tier.",
		},
		{
			Key:           "gemini-2.5-flash",
			Label:         "Google Gemini 2.5 Flash",
			Provider:      "Google",
			ModelName:     "Gemini 2.5 Flash",
			ContextWindow: 1_000_000,
			Tiers: []domain.PricingTier{
				{
					InputPerMillion:            0.30,
					OutputPerMillion:           2.5,
					CacheWritePerMillion:       0.30,
					CacheReadPerMillion:        0.03,
					CacheStoragePerMillionHour: 1.0,
				},
			},
			Notes: "Assumes cache creation bills at the regular input rate, cached reuse at $0.03/M, and storage at $1.00/M per hour.",
		},
		{
			Key:           "gemini-1.5-flash-1m",
			Label:         "Google Gemini 1.5 Flash",
			Provider:      "Google",
			ModelName:     "Gemini 1.5 Flash",
			ContextWindow: 1_000_000,
			Tiers: []domain.PricingTier{
				{
					InputPerMillion:      0.35,
					OutputPerMillion:     1.05,
					CacheWritePerMillion: 0.4375,
					CacheReadPerMillion:  0.0875,
				},
			},
			Notes: "Single flat tier across the full 1M window; cache rates follow the 1.25x write / 0.25x read convention.",
		},
	}
}

// RegisterBuiltins registers every built-in plan with the registry.
func RegisterBuiltins(ctx context.Context, registry domain.PlanRegistry) error {
	for _, plan := range BuiltinPlans() {
		if err := registry.Register(ctx, plan); err != nil {
			return fmt.Errorf("registering plan %s: %w", plan.Key, err)
		}
	}
	return nil
}
