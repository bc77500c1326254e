package domain

import (
	"errors"
	"fmt"
)

const tokensPerMillion = 1_000_000.0

// ErrInvalidPlan indicates a pricing plan that cannot be used.
var ErrInvalidPlan = errors.New("invalid pricing plan")

// PricingTier contains per-million-token rates for prompts whose length does
// not exceed UpToTokens. UpToTokens == 0 marks the unbounded tier that covers
// arbitrarily long prompts; it must be the last tier of a plan.
type PricingTier struct {
	UpToTokens                 int     `json:"up_to_tokens"                   yaml:"up_to_tokens"`
	InputPerMillion            float64 `json:"input_per_million"              yaml:"input_per_million"`
	OutputPerMillion           float64 `json:"output_per_million"             yaml:"output_per_million"`
	CacheWritePerMillion       float64 `json:"cache_write_per_million"        yaml:"cache_write_per_million"`
	CacheReadPerMillion        float64 `json:"cache_read_per_million"         yaml:"cache_read_per_million"`
	CacheStoragePerMillionHour float64 `json:"cache_storage_per_million_hour" yaml:"cache_storage_per_million_hour"`
}

// Unbounded reports whether the tier covers prompts of any length.
func (t PricingTier) Unbounded() bool {
	return t.UpToTokens == 0
}

// PricingPlan is an immutable set of ordered pricing tiers for one model.
type PricingPlan struct {
	Key           string        `json:"key"             yaml:"key"`
	Label         string        `json:"label"           yaml:"label"`
	Provider      string        `json:"provider"        yaml:"provider"`
	ModelName     string        `json:"model_name"      yaml:"model_name"`
	ContextWindow int           `json:"context_window"  yaml:"context_window"`
	Tiers         []PricingTier `json:"tiers"           yaml:"tiers"`
	Notes         string        `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// Validate checks the structural invariants of the plan. A plan with no
// tiers, tiers out of ascending breakpoint order, a bounded tier after the
// unbounded one, or negative rates is rejected.
func (p PricingPlan) Validate() error {
	if p.Key == "" {
		return fmt.Errorf("%w: plan key cannot be empty", ErrInvalidPlan)
	}

	if len(p.Tiers) == 0 {
		return fmt.Errorf("%w: plan %s has no tiers", ErrInvalidPlan, p.Key)
	}

	prevBound := 0
	for i, tier := range p.Tiers {
		if tier.Unbounded() {
			if i != len(p.Tiers)-1 {
				return fmt.Errorf("%w: plan %s has an unbounded tier before the last position", ErrInvalidPlan, p.Key)
			}
			continue
		}

		if tier.UpToTokens < 0 {
			return fmt.Errorf("%w: plan %s tier %d has a negative breakpoint", ErrInvalidPlan, p.Key, i)
		}

		if i > 0 && tier.UpToTokens <= prevBound {
			return fmt.Errorf("%w: plan %s tiers not sorted ascending at position %d", ErrInvalidPlan, p.Key, i)
		}
		prevBound = tier.UpToTokens
	}

	for i, tier := range p.Tiers {
		if tier.InputPerMillion < 0 || tier.OutputPerMillion < 0 ||
			tier.CacheWritePerMillion < 0 || tier.CacheReadPerMillion < 0 ||
			tier.CacheStoragePerMillionHour < 0 {
			return fmt.Errorf("%w: plan %s tier %d has a negative rate", ErrInvalidPlan, p.Key, i)
		}
	}

	return nil
}

// TierFor resolves the tier covering a prompt of the given length: the first
// tier whose breakpoint is >= tokens wins (a length exactly at a breakpoint
// selects that tier), falling back to the last tier for oversized prompts.
func (p PricingPlan) TierFor(tokens int) PricingTier {
	for _, tier := range p.Tiers {
		if tier.Unbounded() || tokens <= tier.UpToTokens {
			return tier
		}
	}
	return p.Tiers[len(p.Tiers)-1]
}

// InputPrice returns the per-million input rate at the given prompt length.
func (p PricingPlan) InputPrice(tokens int) float64 {
	return p.TierFor(tokens).InputPerMillion
}

// OutputPrice returns the per-million output rate at the given prompt length.
func (p PricingPlan) OutputPrice(tokens int) float64 {
	return p.TierFor(tokens).OutputPerMillion
}

// CacheWritePrice returns the per-million cache write rate at the given length.
func (p PricingPlan) CacheWritePrice(tokens int) float64 {
	return p.TierFor(tokens).CacheWritePerMillion
}

// CacheReadPrice returns the per-million cache read rate at the given length.
func (p PricingPlan) CacheReadPrice(tokens int) float64 {
	return p.TierFor(tokens).CacheReadPerMillion
}

// CacheStoragePricePerHour returns the per-million-per-hour cache storage
// rate at the given length. Zero for providers that do not bill storage.
func (p PricingPlan) CacheStoragePricePerHour(tokens int) float64 {
	return p.TierFor(tokens).CacheStoragePerMillionHour
}

// TokenCost converts a token count and a per-million rate into dollars.
// No rounding happens here; presentation rounds for display only.
func TokenCost(tokens int, ratePerMillion float64) float64 {
	return float64(tokens) / tokensPerMillion * ratePerMillion
}
