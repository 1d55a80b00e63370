package app

import (
	"github.com/adamistheanswer/pokebay/config"
	"github.com/adamistheanswer/pokebay/internal/cache"
	"github.com/adamistheanswer/pokebay/internal/circuitbreaker"
	"github.com/adamistheanswer/pokebay/internal/export"
	"github.com/adamistheanswer/pokebay/internal/provider/catalog"
	"github.com/adamistheanswer/pokebay/internal/provider/market"
	"github.com/adamistheanswer/pokebay/internal/service"
	"github.com/adamistheanswer/pokebay/internal/solver"
)

// ServiceComponents holds the planning service and its supporting parts.
type ServiceComponents struct {
	Planner       service.PlanService
	OfferCache    *cache.OfferCache
	MarketBreaker *circuitbreaker.CircuitBreaker
}

// InitializeServices wires the catalog and market providers, the offer cache,
// the circuit breaker, the engine, and the exporter into a Planner.
func InitializeServices(cfg config.Config, runs service.RunRecorder) *ServiceComponents {
	catalogClient := catalog.NewClient(cfg.Catalog.BaseURL, cfg.Catalog.APIKey, cfg.Catalog.Timeout)
	marketClient := market.NewClient(
		cfg.Market.BaseURL,
		cfg.Market.APIKey,
		cfg.Market.Marketplace,
		cfg.Market.ResultLimit,
		cfg.Market.Timeout,
	)

	breaker := circuitbreaker.New(circuitbreaker.Config{
		FailureThreshold: cfg.Market.CircuitBreakerFailureThreshold,
		SuccessThreshold: cfg.Market.CircuitBreakerSuccessThreshold,
		Timeout:          cfg.Market.CircuitBreakerTimeout,
		Name:             "market",
	})

	var offerCache *cache.OfferCache
	if cfg.Cache.Size > 0 {
		offerCache = cache.New(cfg.Cache.Size, cfg.Cache.TTL)
	}

	offers := market.NewCachedProvider(marketClient, offerCache, breaker)
	exporter := export.NewCSVExporter(cfg.Export.Dir, cfg.Export.Prefix)
	planner := service.NewPlanner(catalogClient, offers, solver.New(), exporter, runs, cfg.Planner)

	return &ServiceComponents{
		Planner:       planner,
		OfferCache:    offerCache,
		MarketBreaker: breaker,
	}
}
