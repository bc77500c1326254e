package domain

import (
	"context"
	"errors"
	"fmt"

	"github.com/davidbz/ragcost/internal/observability"
)

// ComparisonService runs the four strategy calculators over a scenario and
// collects their results side by side.
type ComparisonService struct {
	plans       PlanRegistry
	calculators map[Mode]Calculator
	events      EventPublisher
	defaultPlan string
}

// NewComparisonService creates a comparison service wired with the closed
// set of calculators (DI constructor).
func NewComparisonService(
	plans PlanRegistry,
	latency LatencyModel,
	events EventPublisher,
	defaultPlan string,
) *ComparisonService {
	calculators := map[Mode]Calculator{
		ModeLongContext:      NewLongContextCalculator(latency),
		ModeLongContextCache: NewCachedLongContextCalculator(latency),
		ModeGrep:             NewGrepCalculator(latency),
		ModeRAG:              NewRAGCalculator(latency),
	}

	return &ComparisonService{
		plans:       plans,
		calculators: calculators,
		events:      events,
		defaultPlan: defaultPlan,
	}
}

// ModeResult holds either a successful evaluation or the validation error
// that blocked it. An invalid input for one mode never hides the others.
type ModeResult struct {
	Evaluation *Evaluation `json:"evaluation,omitempty"`
	Error      string      `json:"error,omitempty"`
}

// Summary names the cheapest and fastest of the successfully evaluated modes.
type Summary struct {
	CheapestMode    Mode    `json:"cheapest_mode"`
	CheapestMonthly float64 `json:"cheapest_monthly_cost"`
	FastestMode     Mode    `json:"fastest_mode"`
	FastestSeconds  float64 `json:"fastest_seconds"`
}

// Comparison is the full side-by-side result for one scenario.
type Comparison struct {
	PlanKey string              `json:"plan_key"`
	Results map[Mode]ModeResult `json:"results"`
	Summary *Summary            `json:"summary,omitempty"`
}

// Plans lists the selectable pricing plans.
func (s *ComparisonService) Plans(ctx context.Context) ([]PricingPlan, error) {
	return s.plans.List(ctx)
}

// DefaultPlanKey returns the plan used when a scenario names none.
func (s *ComparisonService) DefaultPlanKey() string {
	return s.defaultPlan
}

func (s *ComparisonService) resolvePlan(ctx context.Context, scenario Scenario) (PricingPlan, error) {
	key := scenario.PlanKey
	if key == "" {
		key = s.defaultPlan
	}

	plan, err := s.plans.Get(ctx, key)
	if err != nil {
		return PricingPlan{}, fmt.Errorf("resolving pricing plan: %w", err)
	}
	return plan, nil
}

// Evaluate runs a single mode over the scenario.
func (s *ComparisonService) Evaluate(ctx context.Context, mode Mode, scenario Scenario) (Evaluation, error) {
	calculator, ok := s.calculators[mode]
	if !ok {
		return Evaluation{}, fmt.Errorf("%w: %s", ErrUnknownMode, mode)
	}

	plan, err := s.resolvePlan(ctx, scenario)
	if err != nil {
		return Evaluation{}, err
	}

	ctx = observability.WithPlan(ctx, plan.Key)
	ctx = observability.WithMode(ctx, string(mode))

	evaluation, err := calculator.Evaluate(ctx, plan, scenario)
	if err != nil {
		return Evaluation{}, err
	}

	return evaluation, nil
}

// Compare evaluates all four modes independently. A failed plan lookup is an
// error for the whole comparison; a per-mode validation failure is recorded
// against that mode only.
func (s *ComparisonService) Compare(ctx context.Context, scenario Scenario) (Comparison, error) {
	plan, err := s.resolvePlan(ctx, scenario)
	if err != nil {
		return Comparison{}, err
	}

	ctx = observability.WithPlan(ctx, plan.Key)
	logger := observability.FromContext(ctx)

	results := make(map[Mode]ModeResult, len(s.calculators))
	evaluations := make([]Evaluation, 0, len(s.calculators))

	for _, mode := range Modes() {
		calculator := s.calculators[mode]
		modeCtx := observability.WithMode(ctx, string(mode))

		evaluation, evalErr := calculator.Evaluate(modeCtx, plan, scenario)
		if evalErr != nil {
			if !errors.Is(evalErr, ErrInvalidInput) {
				return Comparison{}, fmt.Errorf("evaluating mode %s: %w", mode, evalErr)
			}

			logger.Warn("mode blocked by invalid input",
				observability.String("mode", string(mode)),
				observability.Error(evalErr))
			results[mode] = ModeResult{Error: evalErr.Error()}
			continue
		}

		results[mode] = ModeResult{Evaluation: &evaluation}
		evaluations = append(evaluations, evaluation)
	}

	comparison := Comparison{
		PlanKey: plan.Key,
		Results: results,
		Summary: summarize(evaluations),
	}

	if s.events != nil {
		s.events.Publish(ctx, "comparison.completed", eventData(plan.Key, evaluations))
	}

	return comparison, nil
}

func summarize(evaluations []Evaluation) *Summary {
	if len(evaluations) == 0 {
		return nil
	}

	summary := &Summary{
		CheapestMode:    evaluations[0].Mode,
		CheapestMonthly: evaluations[0].MonthlyCost,
		FastestMode:     evaluations[0].Mode,
		FastestSeconds:  evaluations[0].AvgTimeSeconds,
	}

	for _, evaluation := range evaluations[1:] {
		if evaluation.MonthlyCost < summary.CheapestMonthly {
			summary.CheapestMode = evaluation.Mode
			summary.CheapestMonthly = evaluation.MonthlyCost
		}
		if evaluation.AvgTimeSeconds < summary.FastestSeconds {
			summary.FastestMode = evaluation.Mode
			summary.FastestSeconds = evaluation.AvgTimeSeconds
		}
	}

	return summary
}

func eventData(planKey string, evaluations []Evaluation) map[string]interface{} {
	data := map[string]interface{}{
		"plan": planKey,
	}
	for _, evaluation := range evaluations {
		data[string(evaluation.Mode)+"_monthly_cost"] = evaluation.MonthlyCost
		data[string(evaluation.Mode)+"_seconds"] = evaluation.AvgTimeSeconds
	}
	return data
}
