package catalog

import "github.com/davidbz/ragcost/internal/domain"

// DefaultLatencyModel returns the built-in latency tables: optimistic P50
// TTFT and throughput measurements for a frontier model (Dec 2025), a fixed
// network overhead, and reranker timings for a hosted cross-encoder.
func DefaultLatencyModel() domain.LatencyModel {
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
		// Providers report 2-10x prefill speedup from prompt caching;
		// 0.25 takes 4x as a conservative middle ground.
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
