package domain_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/ragcost/internal/domain"
)

func twoTierPlan() domain.PricingPlan {
	return domain.PricingPlan{
		Key:           "test-plan",
		Label:         "Test Plan",
		Provider:      "Test",
		ModelName:     "test-model",
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
	}
}

func TestPricingPlan_TierFor(t *testing.T) {
	plan := twoTierPlan()

	tests := []struct {
		name          string
		tokens        int
		expectedInput float64
	}{
		{
			name:          "small prompt selects first tier",
			tokens:        1_000,
			expectedInput: 3.0,
		},
		{
			name:          "length exactly at the breakpoint selects that tier",
			tokens:        200_000,
			expectedInput: 3.0,
		},
		{
			name:          "one token past the breakpoint selects the next tier",
			tokens:        200_001,
			expectedInput: 6.0,
		},
		{
			name:          "unbounded tier covers arbitrarily large prompts",
			tokens:        5_000_000,
			expectedInput: 6.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tier := plan.TierFor(tt.tokens)
			require.InDelta(t, tt.expectedInput, tier.InputPerMillion, 1e-12)
			require.InDelta(t, tt.expectedInput, plan.InputPrice(tt.tokens), 1e-12)
		})
	}
}

func TestPricingPlan_TierFor_AllBoundedFallsBackToLast(t *testing.T) {
	plan := domain.PricingPlan{
		Key: "bounded",
		Tiers: []domain.PricingTier{
			{UpToTokens: 100, InputPerMillion: 1.0},
			{UpToTokens: 200, InputPerMillion: 2.0},
		},
	}

	// Past every breakpoint the last tier still applies.
	require.InDelta(t, 2.0, plan.InputPrice(5_000), 1e-12)
}

func TestPricingPlan_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(plan *domain.PricingPlan)
		wantErr bool
	}{
		{
			name:    "valid plan",
			mutate:  func(_ *domain.PricingPlan) {},
			wantErr: false,
		},
		{
			name: "empty key",
			mutate: func(plan *domain.PricingPlan) {
				plan.Key = ""
			},
			wantErr: true,
		},
		{
			name: "no tiers",
			mutate: func(plan *domain.PricingPlan) {
				plan.Tiers = nil
			},
			wantErr: true,
		},
		{
			name: "tiers not sorted ascending",
			mutate: func(plan *domain.PricingPlan) {
				plan.Tiers = []domain.PricingTier{
					{UpToTokens: 200_000, InputPerMillion: 3.0},
					{UpToTokens: 100_000, InputPerMillion: 6.0},
				}
			},
			wantErr: true,
		},
		{
			name: "unbounded tier before the last position",
			mutate: func(plan *domain.PricingPlan) {
				plan.Tiers = []domain.PricingTier{
					{InputPerMillion: 3.0},
					{UpToTokens: 100_000, InputPerMillion: 6.0},
				}
			},
			wantErr: true,
		},
		{
			name: "negative rate",
			mutate: func(plan *domain.PricingPlan) {
				plan.Tiers[0].CacheReadPerMillion = -0.1
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := twoTierPlan()
			tt.mutate(&plan)

			err := plan.Validate()
			if tt.wantErr {
				require.ErrorIs(t, err, domain.ErrInvalidPlan)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestTokenCost(t *testing.T) {
	require.InDelta(t, 0.105, domain.TokenCost(300_000, 0.35), 1e-12)
	require.InDelta(t, 0.0, domain.TokenCost(0, 15.0), 1e-12)
	require.InDelta(t, 15.0, domain.TokenCost(1_000_000, 15.0), 1e-12)
}
