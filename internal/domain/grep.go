package domain

import (
	"context"
	"strconv"
	"strings"
)

// GrepCalculator models an agent searching documents by keyword: each failed
// try pulls in another batch of wrong documents that stay in the
// conversation, so both cost and latency accumulate over every attempt, not
// just the final successful one.
type GrepCalculator struct {
	latency LatencyModel
}

// NewGrepCalculator creates the grep baseline calculator.
func NewGrepCalculator(latency LatencyModel) *GrepCalculator {
	return &GrepCalculator{latency: latency}
}

// Mode returns ModeGrep.
func (c *GrepCalculator) Mode() Mode {
	return ModeGrep
}

// Evaluate sums one full LLM call per attempt, each priced and latency-rated
// at that attempt's own (growing) prompt length.
func (c *GrepCalculator) Evaluate(_ context.Context, plan PricingPlan, s Scenario) (Evaluation, error) {
	if err := s.ValidateGrep(); err != nil {
		return Evaluation{}, err
	}

	attempts := s.Grep.Attempts()
	failedAttempts := attempts - 1

	falseTokens := s.Grep.FalseFileTokens(s.KnowledgeBase.TokensPerPage)
	trueTokens := s.Grep.TrueFileTokens(s.KnowledgeBase.TokensPerPage)

	promptPerAttempt := make([]int, 0, attempts)
	for i := 1; i <= failedAttempts; i++ {
		promptPerAttempt = append(promptPerAttempt, s.Query.QueryTokens+i*falseTokens)
	}
	finalPrompt := s.Query.QueryTokens + failedAttempts*falseTokens + trueTokens
	promptPerAttempt = append(promptPerAttempt, finalPrompt)

	var (
		totalInputTokens int
		inputCost        float64
		outputCost       float64
		totalTTFT        float64
		totalDecode      float64
		lastThroughput   float64
	)

	for _, promptTokens := range promptPerAttempt {
		totalInputTokens += promptTokens
		inputCost += TokenCost(promptTokens, plan.InputPrice(promptTokens))
		outputCost += TokenCost(s.Query.OutputTokens, plan.OutputPrice(promptTokens))

		gen := c.latency.Generation(promptTokens, s.Query.OutputTokens, false)
		totalTTFT += gen.TTFT
		totalDecode += gen.Decode
		lastThroughput = gen.Throughput
	}

	costPerRequest := inputCost + outputCost
	monthlyCost := costPerRequest * float64(s.MonthlyRequests)
	totalSeconds := totalTTFT + totalDecode

	tokensPerCall := make([]string, len(promptPerAttempt))
	for i, promptTokens := range promptPerAttempt {
		tokensPerCall[i] = strconv.Itoa(promptTokens)
	}

	return Evaluation{
		ScenarioName:   "Just Grep",
		Mode:           ModeGrep,
		MonthlyCost:    monthlyCost,
		CostPerRequest: costPerRequest,
		AvgTimeSeconds: totalSeconds,
		InputTokens:    totalInputTokens,
		Latency: map[string]float64{
			"ttft":       totalTTFT,
			"decode":     totalDecode,
			"total":      totalSeconds,
			"throughput": lastThroughput,
		},
		CostBreakdown: map[string]float64{
			"input":  inputCost,
			"output": outputCost,
		},
		Metrics: map[string]string{
			"monthly_requests": strconv.Itoa(s.MonthlyRequests),
			"llm_calls":        strconv.Itoa(attempts),
			"failed_attempts":  strconv.Itoa(failedAttempts),
			"tokens_per_call":  strings.Join(tokensPerCall, "|"),
		},
	}, nil
}
