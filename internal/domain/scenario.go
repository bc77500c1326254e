package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidInput indicates scenario parameters that fail validation.
// Validation rejects rather than clamps; the one exception is the grep
// average-tries count, which is floored to 1.
var ErrInvalidInput = errors.New("invalid input")

// Document density presets in tokens per page: sparse text, typical text,
// dense text, and image-heavy pages.
var allowedDensities = []int{400, 600, 800, 1100}

// KnowledgeBaseParams describes the document corpus under comparison.
type KnowledgeBaseParams struct {
	Pages                     int `json:"pages"`
	TokensPerPage             int `json:"tokens_per_page"`
	UpdatesPerMonth           int `json:"updates_per_month"`
	CacheStorageHoursPerMonth int `json:"cache_storage_hours_per_month"`
}

// TotalTokens returns the corpus size in tokens.
func (k KnowledgeBaseParams) TotalTokens() int {
	return k.Pages * k.TokensPerPage
}

// QueryParams describes a single question sent against the corpus.
type QueryParams struct {
	QueryTokens  int `json:"query_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// RAGParams configures the retrieval-augmented variant.
type RAGParams struct {
	TopK                     int     `json:"top_k"`
	TokensPerChunk           int     `json:"tokens_per_chunk"`
	EmbeddingPricePerMillion float64 `json:"embedding_price_per_million"`
	RerankPricePerQuery      float64 `json:"rerank_price_per_query"`
	RerankTopK               int     `json:"rerank_top_k"`
	VectorDBBaseCost         float64 `json:"vector_db_base_cost"`
}

// GrepParams configures the repeated-search baseline.
type GrepParams struct {
	AvgTries            float64 `json:"avg_tries"`
	AvgDocsRetrieved    int     `json:"avg_docs_retrieved"`
	AvgPagesPerDocument int     `json:"avg_pages_per_document"`
}

// Attempts floors the average tries to a whole attempt count, minimum 1.
func (g GrepParams) Attempts() int {
	attempts := int(g.AvgTries)
	if attempts < 1 {
		return 1
	}
	return attempts
}

// FalseFileTokens is the token load added by one failed search: the
// retrieved-but-wrong documents at the corpus density.
func (g GrepParams) FalseFileTokens(tokensPerPage int) int {
	return g.AvgDocsRetrieved * g.AvgPagesPerDocument * tokensPerPage
}

// TrueFileTokens is the token size of the one correct document.
func (g GrepParams) TrueFileTokens(tokensPerPage int) int {
	return g.AvgPagesPerDocument * tokensPerPage
}

// Scenario is the full input to every calculator. It carries no state: a
// scenario is built per evaluation, computed over, and discarded.
type Scenario struct {
	KnowledgeBase   KnowledgeBaseParams `json:"knowledge_base"`
	Query           QueryParams         `json:"query"`
	RAG             RAGParams           `json:"rag"`
	Grep            GrepParams          `json:"grep"`
	PlanKey         string              `json:"plan_key,omitempty"`
	MonthlyRequests int                 `json:"monthly_requests"`
}

// ValidateCommon checks the inputs every calculator shares. Failures here
// block all four modes.
func (s Scenario) ValidateCommon() error {
	if s.KnowledgeBase.Pages <= 0 {
		return fmt.Errorf("%w: pages must be positive", ErrInvalidInput)
	}

	if !densityAllowed(s.KnowledgeBase.TokensPerPage) {
		return fmt.Errorf("%w: tokens per page must be one of %v", ErrInvalidInput, allowedDensities)
	}

	if s.KnowledgeBase.UpdatesPerMonth < 0 {
		return fmt.Errorf("%w: updates per month cannot be negative", ErrInvalidInput)
	}

	if s.KnowledgeBase.CacheStorageHoursPerMonth < 0 {
		return fmt.Errorf("%w: cache storage hours cannot be negative", ErrInvalidInput)
	}

	if s.Query.QueryTokens < 0 {
		return fmt.Errorf("%w: query tokens cannot be negative", ErrInvalidInput)
	}

	if s.Query.OutputTokens < 0 {
		return fmt.Errorf("%w: output tokens cannot be negative", ErrInvalidInput)
	}

	// Monthly components are amortized per request, so zero requests is
	// rejected rather than guarded with a division check downstream.
	if s.MonthlyRequests <= 0 {
		return fmt.Errorf("%w: monthly requests must be positive", ErrInvalidInput)
	}

	return nil
}

// ValidateRAG checks the retrieval-specific inputs on top of the shared ones.
// Failures here block only the RAG mode.
func (s Scenario) ValidateRAG() error {
	if err := s.ValidateCommon(); err != nil {
		return err
	}

	if s.RAG.TopK <= 0 {
		return fmt.Errorf("%w: top_k must be positive", ErrInvalidInput)
	}

	if s.RAG.RerankTopK <= 0 {
		return fmt.Errorf("%w: rerank_top_k must be positive", ErrInvalidInput)
	}

	if s.RAG.TokensPerChunk <= 0 {
		return fmt.Errorf("%w: tokens per chunk must be positive", ErrInvalidInput)
	}

	if s.RAG.EmbeddingPricePerMillion < 0 {
		return fmt.Errorf("%w: embedding price cannot be negative", ErrInvalidInput)
	}

	if s.RAG.RerankPricePerQuery < 0 {
		return fmt.Errorf("%w: rerank price cannot be negative", ErrInvalidInput)
	}

	if s.RAG.VectorDBBaseCost < 0 {
		return fmt.Errorf("%w: vector DB base cost cannot be negative", ErrInvalidInput)
	}

	return nil
}

// ValidateGrep checks the grep-specific inputs on top of the shared ones.
// Failures here block only the grep mode. AvgTries is never an error: it is
// floored to 1 by Attempts.
func (s Scenario) ValidateGrep() error {
	if err := s.ValidateCommon(); err != nil {
		return err
	}

	if s.Grep.AvgDocsRetrieved <= 0 {
		return fmt.Errorf("%w: documents retrieved per grep call must be positive", ErrInvalidInput)
	}

	if s.Grep.AvgPagesPerDocument <= 0 {
		return fmt.Errorf("%w: pages per document must be positive", ErrInvalidInput)
	}

	return nil
}

func densityAllowed(tokensPerPage int) bool {
	for _, density := range allowedDensities {
		if tokensPerPage == density {
			return true
		}
	}
	return false
}
