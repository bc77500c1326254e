package catalog

import "github.com/davidbz/ragcost/internal/domain"

// DefaultScenario returns the scenario a fresh UI session starts from:
// a 1,000-page typical-density corpus refreshed four times a month and
// queried a thousand times a day.
func DefaultScenario() domain.Scenario {
	return domain.Scenario{
		KnowledgeBase: domain.KnowledgeBaseParams{
			Pages:                     1_000,
			TokensPerPage:             600,
			UpdatesPerMonth:           4,
			CacheStorageHoursPerMonth: 24 * 30,
		},
		Query: domain.QueryParams{
			QueryTokens:  50,
			OutputTokens: 1_000,
		},
		RAG: domain.RAGParams{
			TopK:                     3,
			TokensPerChunk:           800,
			EmbeddingPricePerMillion: 0.12,
			RerankPricePerQuery:      0.002,
			RerankTopK:               20,
			VectorDBBaseCost:         26.0,
		},
		Grep: domain.GrepParams{
			AvgTries:            4,
			AvgDocsRetrieved:    1,
			AvgPagesPerDocument: 8,
		},
		PlanKey:         DefaultPlanKey,
		MonthlyRequests: 30_000,
	}
}
