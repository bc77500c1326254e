package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidLatencyModel indicates a latency table that cannot be used.
var ErrInvalidLatencyModel = errors.New("invalid latency model")

// CurvePoint is one sample of a bucketed lookup curve: the value applies to
// context lengths up to and including UpToTokens. UpToTokens == 0 marks the
// open-ended bucket and must come last.
type CurvePoint struct {
	UpToTokens int     `json:"up_to_tokens" yaml:"up_to_tokens"`
	Value      float64 `json:"value"        yaml:"value"`
}

// RerankSample is a measured (document count, seconds) reranking latency point.
type RerankSample struct {
	Docs    int     `json:"docs"    yaml:"docs"`
	Seconds float64 `json:"seconds" yaml:"seconds"`
}

// LatencyModel holds the measured curves and constants used to estimate
// end-to-end request latency. It is read-only after load.
type LatencyModel struct {
	// NetworkOverhead is the fixed network and provider jitter in seconds,
	// paid once per LLM call.
	NetworkOverhead float64 `json:"network_overhead" yaml:"network_overhead"`

	// TTFT samples time-to-first-token in seconds by prompt length.
	TTFT []CurvePoint `json:"ttft" yaml:"ttft"`

	// Throughput samples decode speed in tokens/second by prompt length.
	Throughput []CurvePoint `json:"throughput" yaml:"throughput"`

	// CacheSpeedupFactor scales TTFT when the prompt prefix is cached
	// (0.25 models a 4x prefill speedup).
	CacheSpeedupFactor float64 `json:"cache_speedup_factor" yaml:"cache_speedup_factor"`

	// EmbeddingThroughput is the corpus indexing speed in tokens/second.
	EmbeddingThroughput float64 `json:"embedding_throughput" yaml:"embedding_throughput"`

	// RetrievalBase and RetrievalPer100Docs define vector search latency in
	// seconds: base + per100 * topK/100.
	RetrievalBase       float64 `json:"retrieval_base"         yaml:"retrieval_base"`
	RetrievalPer100Docs float64 `json:"retrieval_per_100_docs" yaml:"retrieval_per_100_docs"`

	// RerankSamples are measured reranking latencies, sorted ascending by
	// document count. Lookups interpolate between samples and extrapolate
	// past the last one using the final segment's slope.
	RerankSamples []RerankSample `json:"rerank_samples" yaml:"rerank_samples"`
}

// Validate checks the structural invariants of the latency tables.
func (m LatencyModel) Validate() error {
	if err := validateCurve("ttft", m.TTFT); err != nil {
		return err
	}
	if err := validateCurve("throughput", m.Throughput); err != nil {
		return err
	}

	for _, point := range m.Throughput {
		if point.Value <= 0 {
			return fmt.Errorf("%w: throughput values must be positive", ErrInvalidLatencyModel)
		}
	}

	if m.NetworkOverhead < 0 {
		return fmt.Errorf("%w: negative network overhead", ErrInvalidLatencyModel)
	}

	if m.CacheSpeedupFactor <= 0 || m.CacheSpeedupFactor > 1 {
		return fmt.Errorf("%w: cache speedup factor must be in (0, 1]", ErrInvalidLatencyModel)
	}

	if m.EmbeddingThroughput <= 0 {
		return fmt.Errorf("%w: embedding throughput must be positive", ErrInvalidLatencyModel)
	}

	if len(m.RerankSamples) == 0 {
		return fmt.Errorf("%w: no rerank samples", ErrInvalidLatencyModel)
	}
	for i := 1; i < len(m.RerankSamples); i++ {
		if m.RerankSamples[i].Docs <= m.RerankSamples[i-1].Docs {
			return fmt.Errorf("%w: rerank samples not sorted ascending", ErrInvalidLatencyModel)
		}
	}

	return nil
}

func validateCurve(name string, points []CurvePoint) error {
	if len(points) == 0 {
		return fmt.Errorf("%w: %s curve has no points", ErrInvalidLatencyModel, name)
	}

	prevBound := 0
	for i, point := range points {
		if point.UpToTokens == 0 {
			if i != len(points)-1 {
				return fmt.Errorf("%w: %s curve has an open-ended bucket before the last position", ErrInvalidLatencyModel, name)
			}
			continue
		}
		if i > 0 && point.UpToTokens <= prevBound {
			return fmt.Errorf("%w: %s curve not sorted ascending", ErrInvalidLatencyModel, name)
		}
		prevBound = point.UpToTokens
	}

	return nil
}

// lookupCurve resolves the bucket covering the given context length: the
// first point whose breakpoint is >= tokens (inclusive at the boundary),
// falling back to the last point.
func lookupCurve(points []CurvePoint, tokens int) float64 {
	for _, point := range points {
		if point.UpToTokens == 0 || tokens <= point.UpToTokens {
			return point.Value
		}
	}
	return points[len(points)-1].Value
}

// TTFTFor returns the uncached time-to-first-token for a prompt length.
func (m LatencyModel) TTFTFor(promptTokens int) float64 {
	return lookupCurve(m.TTFT, promptTokens)
}

// ThroughputFor returns the decode throughput for a prompt length.
func (m LatencyModel) ThroughputFor(promptTokens int) float64 {
	return lookupCurve(m.Throughput, promptTokens)
}

// GenerationLatency breaks a single LLM call down into its components.
// TTFT includes the fixed network overhead.
type GenerationLatency struct {
	TTFT       float64 `json:"ttft"`
	Decode     float64 `json:"decode"`
	Total      float64 `json:"total"`
	Throughput float64 `json:"throughput"`
}

// Generation estimates one LLM call: network overhead plus prefill plus
// decode. When cached is true the prefill term is scaled by the cache
// speedup factor; overhead and decode are unchanged.
func (m LatencyModel) Generation(promptTokens, outputTokens int, cached bool) GenerationLatency {
	scale := 1.0
	if cached {
		scale = m.CacheSpeedupFactor
	}

	ttft := m.NetworkOverhead + scale*m.TTFTFor(promptTokens)
	throughput := m.ThroughputFor(promptTokens)

	decode := 0.0
	if outputTokens > 0 {
		decode = float64(outputTokens) / throughput
	}

	return GenerationLatency{
		TTFT:       ttft,
		Decode:     decode,
		Total:      ttft + decode,
		Throughput: throughput,
	}
}

// EmbeddingTime estimates the seconds needed to embed the whole corpus.
func (m LatencyModel) EmbeddingTime(corpusTokens int) float64 {
	return float64(corpusTokens) / m.EmbeddingThroughput
}

// RetrievalTime estimates vector search latency for a top-k retrieval.
func (m LatencyModel) RetrievalTime(topK int) float64 {
	return m.RetrievalBase + m.RetrievalPer100Docs*float64(topK)/100.0
}

// RerankTime estimates reranking latency for a document count. Counts below
// the first sample clamp to it; counts between samples interpolate linearly;
// counts past the last sample extrapolate along the final segment's slope.
func (m LatencyModel) RerankTime(docCount int) float64 {
	samples := m.RerankSamples
	first := samples[0]

	if docCount <= first.Docs || len(samples) == 1 {
		return first.Seconds
	}

	for i := 1; i < len(samples); i++ {
		lo, hi := samples[i-1], samples[i]
		if docCount <= hi.Docs {
			return interpolate(lo, hi, docCount)
		}
	}

	lo, hi := samples[len(samples)-2], samples[len(samples)-1]
	return interpolate(lo, hi, docCount)
}

func interpolate(lo, hi RerankSample, docCount int) float64 {
	slope := (hi.Seconds - lo.Seconds) / float64(hi.Docs-lo.Docs)
	return lo.Seconds + float64(docCount-lo.Docs)*slope
}
