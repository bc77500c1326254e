package domain

import (
	"context"
	"fmt"
	"strconv"
)

// rerankContextWindow is the reranker's context budget in tokens. When the
// documents to rerank exceed it (minus the query), the work splits into
// multiple reranker calls, each billed at the flat per-query rate.
const rerankContextWindow = 4096

// RAGCalculator models retrieval-augmented generation over a vector
// database: the corpus is embedded and indexed, each query retrieves top-k
// chunks, reranks them, and generates over a short prompt.
type RAGCalculator struct {
	latency LatencyModel
}

// NewRAGCalculator creates the RAG calculator.
func NewRAGCalculator(latency LatencyModel) *RAGCalculator {
	return &RAGCalculator{latency: latency}
}

// Mode returns ModeRAG.
func (c *RAGCalculator) Mode() Mode {
	return ModeRAG
}

// RerankCalls returns how many reranker invocations one query needs:
// ceil(rerankTopK * tokensPerChunk / (window - queryTokens)), minimum 1.
// A batch exactly at the budget stays a single call.
func RerankCalls(rerankTopK, tokensPerChunk, queryTokens int) int {
	budget := rerankContextWindow - queryTokens
	if budget < 1 {
		budget = 1
	}

	totalTokens := rerankTopK * tokensPerChunk
	calls := (totalTokens + budget - 1) / budget
	if calls < 1 {
		calls = 1
	}
	return calls
}

// Evaluate sums generation cost over the retrieved chunks, amortized
// embedding/indexing cost, reranking cost, and the vector database's fixed
// monthly fee.
func (c *RAGCalculator) Evaluate(_ context.Context, plan PricingPlan, s Scenario) (Evaluation, error) {
	if err := s.ValidateRAG(); err != nil {
		return Evaluation{}, err
	}

	retrievedTokens := s.RAG.TopK * s.RAG.TokensPerChunk
	promptTokens := retrievedTokens + s.Query.QueryTokens
	retrievedPages := float64(retrievedTokens) / float64(s.KnowledgeBase.TokensPerPage)
	corpusTokens := s.KnowledgeBase.TotalTokens()
	requests := float64(s.MonthlyRequests)

	// Generation over the (typically short) chunk prompt.
	inputCost := TokenCost(promptTokens, plan.InputPrice(promptTokens))
	outputCost := TokenCost(s.Query.OutputTokens, plan.OutputPrice(promptTokens))
	llmCostPerRequest := inputCost + outputCost

	// Indexing: the whole corpus re-embedded once per knowledge base update.
	embeddingMonthly := TokenCost(corpusTokens, s.RAG.EmbeddingPricePerMillion) *
		float64(s.KnowledgeBase.UpdatesPerMonth)

	// Reranking: flat rate per call, split when the batch overflows the
	// reranker's context window.
	rerankCalls := RerankCalls(s.RAG.RerankTopK, s.RAG.TokensPerChunk, s.Query.QueryTokens)
	rerankMonthly := s.RAG.RerankPricePerQuery * float64(rerankCalls) * requests

	vectorDBMonthly := s.RAG.VectorDBBaseCost + embeddingMonthly + rerankMonthly

	costPerRequest := llmCostPerRequest + vectorDBMonthly/requests
	monthlyCost := llmCostPerRequest*requests + vectorDBMonthly

	// Latency: amortized indexing, vector search, rerank, generation.
	indexingPerUpdate := c.latency.EmbeddingTime(corpusTokens)
	indexingMonthly := indexingPerUpdate * float64(s.KnowledgeBase.UpdatesPerMonth)
	indexingAmortized := indexingMonthly / requests

	retrievalTime := c.latency.RetrievalTime(s.RAG.TopK)
	rerankTime := c.latency.RerankTime(s.RAG.RerankTopK)
	gen := c.latency.Generation(promptTokens, s.Query.OutputTokens, false)

	e2eWithoutIndexing := retrievalTime + rerankTime + gen.Total
	totalSeconds := indexingAmortized + e2eWithoutIndexing

	return Evaluation{
		ScenarioName:   "RAG w/ Vector DB",
		Mode:           ModeRAG,
		MonthlyCost:    monthlyCost,
		CostPerRequest: costPerRequest,
		AvgTimeSeconds: totalSeconds,
		InputTokens:    promptTokens,
		Latency: map[string]float64{
			"indexing_per_update":  indexingPerUpdate,
			"indexing_monthly":     indexingMonthly,
			"indexing_amortized":   indexingAmortized,
			"retrieval":            retrievalTime,
			"reranking":            rerankTime,
			"llm_ttft":             gen.TTFT,
			"llm_decode":           gen.Decode,
			"llm_total":            gen.Total,
			"e2e_without_indexing": e2eWithoutIndexing,
			"total":                totalSeconds,
			"throughput":           gen.Throughput,
		},
		CostBreakdown: map[string]float64{
			"llm_input":             inputCost,
			"llm_output":            outputCost,
			"vector_db_base":        s.RAG.VectorDBBaseCost,
			"embedding":             embeddingMonthly,
			"rerank":                rerankMonthly,
			"vector_db_per_request": vectorDBMonthly / requests,
		},
		Metrics: map[string]string{
			"monthly_requests": strconv.Itoa(s.MonthlyRequests),
			"chunks_used":      strconv.Itoa(s.RAG.TopK),
			"tokens_per_chunk": strconv.Itoa(s.RAG.TokensPerChunk),
			"retrieved_pages":  fmt.Sprintf("%.1f", retrievedPages),
			"rerank_calls":     strconv.Itoa(rerankCalls),
		},
	}, nil
}
