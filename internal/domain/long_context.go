package domain

import (
	"context"
	"strconv"
)

// LongContextCalculator models stuffing the entire knowledge base into the
// prompt on every request, with no caching: the full corpus is re-billed and
// re-prefilled each time.
type LongContextCalculator struct {
	latency LatencyModel
}

// NewLongContextCalculator creates the uncached long-context calculator.
func NewLongContextCalculator(latency LatencyModel) *LongContextCalculator {
	return &LongContextCalculator{latency: latency}
}

// Mode returns ModeLongContext.
func (c *LongContextCalculator) Mode() Mode {
	return ModeLongContext
}

// Evaluate prices the whole corpus plus the query as input at the tier
// resolved for that total length, every request.
func (c *LongContextCalculator) Evaluate(_ context.Context, plan PricingPlan, s Scenario) (Evaluation, error) {
	if err := s.ValidateCommon(); err != nil {
		return Evaluation{}, err
	}

	kbTokens := s.KnowledgeBase.TotalTokens()
	promptTokens := kbTokens + s.Query.QueryTokens

	inputCost := TokenCost(promptTokens, plan.InputPrice(promptTokens))
	outputCost := TokenCost(s.Query.OutputTokens, plan.OutputPrice(promptTokens))
	costPerRequest := inputCost + outputCost
	monthlyCost := costPerRequest * float64(s.MonthlyRequests)

	gen := c.latency.Generation(promptTokens, s.Query.OutputTokens, false)

	return Evaluation{
		ScenarioName:   "Long Context (No Cache)",
		Mode:           ModeLongContext,
		MonthlyCost:    monthlyCost,
		CostPerRequest: costPerRequest,
		AvgTimeSeconds: gen.Total,
		InputTokens:    promptTokens,
		Latency: map[string]float64{
			"ttft":       gen.TTFT,
			"decode":     gen.Decode,
			"total":      gen.Total,
			"throughput": gen.Throughput,
		},
		CostBreakdown: map[string]float64{
			"input":  inputCost,
			"output": outputCost,
		},
		Metrics: map[string]string{
			"kb_size_pages":    strconv.Itoa(s.KnowledgeBase.Pages),
			"kb_size_tokens":   strconv.Itoa(kbTokens),
			"monthly_requests": strconv.Itoa(s.MonthlyRequests),
		},
	}, nil
}

// CachedLongContextCalculator models the same full-corpus prompt kept in the
// provider's prompt cache: the corpus is written once per refresh cycle and
// read at the cache-read rate afterwards, with prefill accelerated.
type CachedLongContextCalculator struct {
	latency LatencyModel
}

// NewCachedLongContextCalculator creates the cached long-context calculator.
func NewCachedLongContextCalculator(latency LatencyModel) *CachedLongContextCalculator {
	return &CachedLongContextCalculator{latency: latency}
}

// Mode returns ModeLongContextCache.
func (c *CachedLongContextCalculator) Mode() Mode {
	return ModeLongContextCache
}

// Evaluate amortizes the cache write (and storage, where the provider bills
// it) over the month's requests; each request then pays the cache-read rate
// for the corpus and the input rate for the fresh query tokens.
func (c *CachedLongContextCalculator) Evaluate(_ context.Context, plan PricingPlan, s Scenario) (Evaluation, error) {
	if err := s.ValidateCommon(); err != nil {
		return Evaluation{}, err
	}

	kbTokens := s.KnowledgeBase.TotalTokens()
	promptTokens := kbTokens + s.Query.QueryTokens
	requests := float64(s.MonthlyRequests)

	cacheWriteCost := TokenCost(kbTokens, plan.CacheWritePrice(kbTokens)) *
		float64(s.KnowledgeBase.UpdatesPerMonth)
	cacheStorageCost := TokenCost(kbTokens, plan.CacheStoragePricePerHour(kbTokens)) *
		float64(s.KnowledgeBase.CacheStorageHoursPerMonth)

	cacheReadCost := TokenCost(kbTokens, plan.CacheReadPrice(kbTokens))
	queryInputCost := TokenCost(s.Query.QueryTokens, plan.InputPrice(promptTokens))
	outputCost := TokenCost(s.Query.OutputTokens, plan.OutputPrice(promptTokens))

	costPerRequest := cacheReadCost + queryInputCost + outputCost +
		(cacheWriteCost+cacheStorageCost)/requests
	monthlyCost := costPerRequest * requests

	gen := c.latency.Generation(promptTokens, s.Query.OutputTokens, true)

	return Evaluation{
		ScenarioName:   "Long Context (Cache)",
		Mode:           ModeLongContextCache,
		MonthlyCost:    monthlyCost,
		CostPerRequest: costPerRequest,
		AvgTimeSeconds: gen.Total,
		InputTokens:    promptTokens,
		Latency: map[string]float64{
			"ttft":       gen.TTFT,
			"decode":     gen.Decode,
			"total":      gen.Total,
			"throughput": gen.Throughput,
		},
		CostBreakdown: map[string]float64{
			"cache_write":   cacheWriteCost,
			"cache_storage": cacheStorageCost,
			"cache_read":    cacheReadCost,
			"query_input":   queryInputCost,
			"output":        outputCost,
		},
		Metrics: map[string]string{
			"kb_size_pages":          strconv.Itoa(s.KnowledgeBase.Pages),
			"kb_size_tokens":         strconv.Itoa(kbTokens),
			"monthly_requests":       strconv.Itoa(s.MonthlyRequests),
			"cache_writes_per_month": strconv.Itoa(s.KnowledgeBase.UpdatesPerMonth),
			"cache_storage_hours":    strconv.Itoa(s.KnowledgeBase.CacheStorageHoursPerMonth),
		},
	}, nil
}
