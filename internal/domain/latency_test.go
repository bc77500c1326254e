package domain_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/ragcost/internal/domain"
)

// testLatencyModel mirrors the shipped measurement tables.
func testLatencyModel() domain.LatencyModel {
	return domain.LatencyModel{
		NetworkOverhead: 0.15,
		TTFT: []domain.CurvePoint{
			{UpToTokens: 100, Value: 1.9},
			{UpToTokens: 1_000, Value: 2.4},
			{UpToTokens: 10_000, Value: 2.0},
			{Value: 4.3},
		},
		Throughput: []domain.CurvePoint{
			{UpToTokens: 1_000, Value: 150.0},
			{UpToTokens: 10_000, Value: 120.0},
			{UpToTokens: 50_000, Value: 90.0},
			{Value: 62.0},
		},
		CacheSpeedupFactor:  0.25,
		EmbeddingThroughput: 1500.0,
		RetrievalBase:       0.010,
		RetrievalPer100Docs: 0.002,
		RerankSamples: []domain.RerankSample{
			{Docs: 24, Seconds: 0.150},
			{Docs: 96, Seconds: 0.280},
		},
	}
}

func TestLatencyModel_CurveLookups(t *testing.T) {
	model := testLatencyModel()

	tests := []struct {
		name           string
		promptTokens   int
		wantTTFT       float64
		wantThroughput float64
	}{
		{
			name:           "tiny prompt",
			promptTokens:   100,
			wantTTFT:       1.9,
			wantThroughput: 150.0,
		},
		{
			name:           "just past the first TTFT bucket",
			promptTokens:   101,
			wantTTFT:       2.4,
			wantThroughput: 150.0,
		},
		{
			name:           "context exactly at 10k stays in the 10k bucket",
			promptTokens:   10_000,
			wantTTFT:       2.0,
			wantThroughput: 120.0,
		},
		{
			name:           "one past 10k falls into the open-ended TTFT bucket",
			promptTokens:   10_001,
			wantTTFT:       4.3,
			wantThroughput: 90.0,
		},
		{
			name:           "past 50k throughput degrades to the long-context floor",
			promptTokens:   50_001,
			wantTTFT:       4.3,
			wantThroughput: 62.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.InDelta(t, tt.wantTTFT, model.TTFTFor(tt.promptTokens), 1e-12)
			require.InDelta(t, tt.wantThroughput, model.ThroughputFor(tt.promptTokens), 1e-12)
		})
	}
}

func TestLatencyModel_Generation(t *testing.T) {
	model := testLatencyModel()

	t.Run("uncached adds overhead and full prefill", func(t *testing.T) {
		gen := model.Generation(300_000, 500, false)
		require.InDelta(t, 0.15+4.3, gen.TTFT, 1e-12)
		require.InDelta(t, 500.0/62.0, gen.Decode, 1e-12)
		require.InDelta(t, gen.TTFT+gen.Decode, gen.Total, 1e-12)
		require.InDelta(t, 62.0, gen.Throughput, 1e-12)
	})

	t.Run("cached scales only the prefill term", func(t *testing.T) {
		gen := model.Generation(300_000, 500, true)
		require.InDelta(t, 0.15+0.25*4.3, gen.TTFT, 1e-12)
		require.InDelta(t, 500.0/62.0, gen.Decode, 1e-12)
	})

	t.Run("zero output tokens means zero decode time", func(t *testing.T) {
		gen := model.Generation(5_000, 0, false)
		require.InDelta(t, 0.0, gen.Decode, 1e-12)
		require.InDelta(t, gen.TTFT, gen.Total, 1e-12)
	})
}

func TestLatencyModel_RerankTime(t *testing.T) {
	model := testLatencyModel()

	tests := []struct {
		name string
		docs int
		want float64
	}{
		{
			name: "below the first sample clamps to it",
			docs: 10,
			want: 0.150,
		},
		{
			name: "at the first sample",
			docs: 24,
			want: 0.150,
		},
		{
			name: "between samples interpolates linearly",
			docs: 60,
			want: 0.150 + 36.0*(0.280-0.150)/72.0,
		},
		{
			name: "at the last sample",
			docs: 96,
			want: 0.280,
		},
		{
			name: "past the last sample extrapolates along the same slope",
			docs: 120,
			want: 0.280 + 24.0*(0.280-0.150)/72.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.InDelta(t, tt.want, model.RerankTime(tt.docs), 1e-12)
		})
	}
}

func TestLatencyModel_RetrievalAndEmbedding(t *testing.T) {
	model := testLatencyModel()

	require.InDelta(t, 0.010+0.002*3.0/100.0, model.RetrievalTime(3), 1e-12)
	require.InDelta(t, 0.012, model.RetrievalTime(100), 1e-12)
	require.InDelta(t, 400.0, model.EmbeddingTime(600_000), 1e-12)
}

func TestLatencyModel_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(model *domain.LatencyModel)
	}{
		{
			name: "empty ttft curve",
			mutate: func(model *domain.LatencyModel) {
				model.TTFT = nil
			},
		},
		{
			name: "throughput curve not sorted",
			mutate: func(model *domain.LatencyModel) {
				model.Throughput = []domain.CurvePoint{
					{UpToTokens: 10_000, Value: 120},
					{UpToTokens: 1_000, Value: 150},
				}
			},
		},
		{
			name: "non-positive throughput",
			mutate: func(model *domain.LatencyModel) {
				model.Throughput[0].Value = 0
			},
		},
		{
			name: "cache speedup factor out of range",
			mutate: func(model *domain.LatencyModel) {
				model.CacheSpeedupFactor = 1.5
			},
		},
		{
			name: "no rerank samples",
			mutate: func(model *domain.LatencyModel) {
				model.RerankSamples = nil
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model := testLatencyModel()
			tt.mutate(&model)
			require.ErrorIs(t, model.Validate(), domain.ErrInvalidLatencyModel)
		})
	}

	t.Run("shipped tables are valid", func(t *testing.T) {
		require.NoError(t, testLatencyModel().Validate())
	})
}
