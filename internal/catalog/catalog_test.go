package catalog_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/ragcost/internal/catalog"
	"github.com/davidbz/ragcost/internal/domain"
)

func TestBuiltinPlansAreValid(t *testing.T) {
	plans := catalog.BuiltinPlans()
	require.NotEmpty(t, plans)

	seen := make(map[string]bool, len(plans))
	for _, plan := range plans {
		require.NoError(t, plan.Validate(), "plan %s", plan.Key)
		require.False(t, seen[plan.Key], "duplicate plan key %s", plan.Key)
		seen[plan.Key] = true
	}
	require.True(t, seen[catalog.DefaultPlanKey])
}

func TestRegisterBuiltins(t *testing.T) {
	ctx := context.Background()
	registry := domain.NewInMemoryPlanRegistry()

	require.NoError(t, catalog.RegisterBuiltins(ctx, registry))

	plan, err := registry.Get(ctx, catalog.DefaultPlanKey)
	require.NoError(t, err)
	require.Equal(t, "Anthropic", plan.Provider)

	listed, err := registry.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, len(catalog.BuiltinPlans()))
}

func TestDefaultLatencyModelIsValid(t *testing.T) {
	require.NoError(t, catalog.DefaultLatencyModel().Validate())
}

func TestDefaultScenarioPassesValidation(t *testing.T) {
	scenario := catalog.DefaultScenario()
	require.NoError(t, scenario.ValidateCommon())
	require.NoError(t, scenario.ValidateRAG())
	require.NoError(t, scenario.ValidateGrep())
	require.Equal(t, catalog.DefaultPlanKey, scenario.PlanKey)
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadPlans(t *testing.T) {
	t.Run("valid file", func(t *testing.T) {
		path := writeFile(t, "plans.yaml", `
plans:
  - key: flat-test
    label: Flat Test Plan
    provider: Test
    model_name: Flat
    context_window: 128000
    tiers:
      - input_per_million: 1.0
        output_per_million: 2.0
        cache_write_per_million: 1.25
        cache_read_per_million: 0.25
`)

		plans, err := catalog.LoadPlans(path)
		require.NoError(t, err)
		require.Len(t, plans, 1)
		require.Equal(t, "flat-test", plans[0].Key)
		require.InDelta(t, 2.0, plans[0].Tiers[0].OutputPerMillion, 1e-12)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := catalog.LoadPlans(filepath.Join(t.TempDir(), "absent.yaml"))
		require.Error(t, err)
	})

	t.Run("empty plan list", func(t *testing.T) {
		path := writeFile(t, "plans.yaml", "plans: []\n")
		_, err := catalog.LoadPlans(path)
		require.ErrorIs(t, err, domain.ErrInvalidPlan)
	})

	t.Run("invalid plan rejected", func(t *testing.T) {
		path := writeFile(t, "plans.yaml", `
plans:
  - key: broken
    label: No Tiers
`)
		_, err := catalog.LoadPlans(path)
		require.ErrorIs(t, err, domain.ErrInvalidPlan)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := writeFile(t, "plans.yaml", "plans: [broken\n")
		_, err := catalog.LoadPlans(path)
		require.Error(t, err)
	})
}

func TestLoadLatencyModel(t *testing.T) {
	t.Run("valid file", func(t *testing.T) {
		path := writeFile(t, "latency.yaml", `
network_overhead: 0.2
ttft:
  - up_to_tokens: 1000
    value: 2.0
  - value: 4.0
throughput:
  - up_to_tokens: 1000
    value: 140.0
  - value: 70.0
cache_speedup_factor: 0.3
embedding_throughput: 1200
retrieval_base: 0.01
retrieval_per_100_docs: 0.002
rerank_samples:
  - docs: 24
    seconds: 0.15
  - docs: 96
    seconds: 0.28
`)

		model, err := catalog.LoadLatencyModel(path)
		require.NoError(t, err)
		require.InDelta(t, 0.2, model.NetworkOverhead, 1e-12)
		require.InDelta(t, 4.0, model.TTFTFor(5_000), 1e-12)
	})

	t.Run("invalid model rejected", func(t *testing.T) {
		path := writeFile(t, "latency.yaml", "network_overhead: 0.2\n")
		_, err := catalog.LoadLatencyModel(path)
		require.ErrorIs(t, err, domain.ErrInvalidLatencyModel)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := catalog.LoadLatencyModel(filepath.Join(t.TempDir(), "absent.yaml"))
		require.Error(t, err)
	})
}
