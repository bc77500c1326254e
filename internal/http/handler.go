package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/davidbz/ragcost/internal/catalog"
	"github.com/davidbz/ragcost/internal/domain"
	"github.com/davidbz/ragcost/internal/observability"
)

// Handler handles HTTP requests.
type Handler struct {
	comparisons *domain.ComparisonService
}

// NewHandler creates a new HTTP handler (DI constructor).
func NewHandler(comparisons *domain.ComparisonService) *Handler {
	return &Handler{
		comparisons: comparisons,
	}
}

// HandleCompare evaluates all four strategies for a scenario.
func (h *Handler) HandleCompare(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var scenario domain.Scenario
	if err := json.NewDecoder(r.Body).Decode(&scenario); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	logger := observability.FromContext(ctx)
	logger.Info("comparison request received",
		observability.String("plan", scenario.PlanKey),
		observability.Int("pages", scenario.KnowledgeBase.Pages),
		observability.Int("monthly_requests", scenario.MonthlyRequests),
	)

	comparison, err := h.comparisons.Compare(ctx, scenario)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}

	h.writeJSON(ctx, w, comparison)
}

type evaluateRequest struct {
	Mode     domain.Mode     `json:"mode"`
	Scenario domain.Scenario `json:"scenario"`
}

// HandleEvaluate evaluates a single strategy for a scenario.
func (h *Handler) HandleEvaluate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req evaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	if !req.Mode.Valid() {
		http.Error(w, fmt.Sprintf("unknown mode: %s", req.Mode), http.StatusBadRequest)
		return
	}

	evaluation, err := h.comparisons.Evaluate(ctx, req.Mode, req.Scenario)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}

	h.writeJSON(ctx, w, evaluation)
}

// HandlePlans lists the selectable pricing plans.
func (h *Handler) HandlePlans(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	plans, err := h.comparisons.Plans(ctx)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}

	h.writeJSON(ctx, w, map[string]interface{}{
		"default_plan": h.comparisons.DefaultPlanKey(),
		"plans":        plans,
	})
}

// HandleDefaults returns the scenario presets a client can start from.
func (h *Handler) HandleDefaults(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(r.Context(), w, catalog.DefaultScenario())
}

// HandleHealth handles health check requests.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]string{
		"status": "healthy",
	}); err != nil {
		// Already written status, can't change it, just log.
		return
	}
}

func (h *Handler) writeError(ctx context.Context, w http.ResponseWriter, err error) {
	logger := observability.FromContext(ctx)

	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		logger.Warn("request rejected", observability.Error(err))
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, domain.ErrPlanNotFound):
		logger.Warn("unknown pricing plan", observability.Error(err))
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		logger.Error("request failed", observability.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) writeJSON(ctx context.Context, w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		observability.FromContext(ctx).Error("failed to encode response", observability.Error(err))
		http.Error(w, fmt.Sprintf("failed to encode response: %v", err), http.StatusInternalServerError)
		return
	}
}
