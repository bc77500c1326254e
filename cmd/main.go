package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"

	"go.uber.org/dig"

	"github.com/davidbz/ragcost/internal/catalog"
	"github.com/davidbz/ragcost/internal/config"
	"github.com/davidbz/ragcost/internal/domain"
	"github.com/davidbz/ragcost/internal/http"
	"github.com/davidbz/ragcost/internal/http/middleware"
	"github.com/davidbz/ragcost/internal/observability"
)

func main() {
	container := buildContainer()

	err := container.Invoke(func(server *http.Server) {
		if err := server.Start(); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	})
	if err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}
}

func buildContainer() *dig.Container {
	container := dig.New()

	// Configuration
	if err := container.Provide(config.Load); err != nil {
		log.Fatalf("Failed to provide config: %v", err)
	}
	if err := container.Provide(config.ParseDependenciesConfig); err != nil {
		log.Fatalf("Failed to provide config dependencies: %v", err)
	}

	// Observability
	if err := container.Provide(observability.InitLogger); err != nil {
		log.Fatalf("Failed to provide logger: %v", err)
	}
	if err := container.Provide(func() domain.EventPublisher {
		return observability.NewEventBus(slog.Default())
	}); err != nil {
		log.Fatalf("Failed to provide event bus: %v", err)
	}

	// Static reference data: pricing plans and latency tables. A malformed
	// table aborts startup here, never at query time.
	if err := container.Provide(buildPlanRegistry); err != nil {
		log.Fatalf("Failed to provide plan registry: %v", err)
	}
	if err := container.Provide(buildLatencyModel); err != nil {
		log.Fatalf("Failed to provide latency model: %v", err)
	}

	// Domain Services
	if err := container.Provide(func(
		cfg *config.CatalogConfig,
		registry domain.PlanRegistry,
		latency domain.LatencyModel,
		events domain.EventPublisher,
	) (*domain.ComparisonService, error) {
		// The default plan must resolve before the first request.
		if _, err := registry.Get(context.Background(), cfg.DefaultPlan); err != nil {
			return nil, fmt.Errorf("default pricing plan: %w", err)
		}

		return domain.NewComparisonService(registry, latency, events, cfg.DefaultPlan), nil
	}); err != nil {
		log.Fatalf("Failed to provide comparison service: %v", err)
	}

	// HTTP Layer
	if err := container.Provide(middleware.BuildMiddlewareChain); err != nil {
		log.Fatalf("Failed to provide middleware chain: %v", err)
	}
	if err := container.Provide(http.NewHandler); err != nil {
		log.Fatalf("Failed to provide HTTP handler: %v", err)
	}
	if err := container.Provide(http.NewServer); err != nil {
		log.Fatalf("Failed to provide HTTP server: %v", err)
	}

	return container
}

func buildPlanRegistry(cfg *config.CatalogConfig) (domain.PlanRegistry, error) {
	ctx := context.Background()
	registry := domain.NewInMemoryPlanRegistry()

	if err := catalog.RegisterBuiltins(ctx, registry); err != nil {
		return nil, err
	}

	if cfg.PlansFile != "" {
		plans, err := catalog.LoadPlans(cfg.PlansFile)
		if err != nil {
			return nil, err
		}
		for _, plan := range plans {
			if err := registry.Register(ctx, plan); err != nil {
				return nil, fmt.Errorf("registering plan %s: %w", plan.Key, err)
			}
		}
	}

	return registry, nil
}

func buildLatencyModel(cfg *config.CatalogConfig) (domain.LatencyModel, error) {
	if cfg.LatencyFile == "" {
		return catalog.DefaultLatencyModel(), nil
	}
	return catalog.LoadLatencyModel(cfg.LatencyFile)
}
