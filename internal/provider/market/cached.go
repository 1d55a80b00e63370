package market

import (
	"context"

	"github.com/adamistheanswer/pokebay/internal/cache"
	"github.com/adamistheanswer/pokebay/internal/circuitbreaker"
	"github.com/adamistheanswer/pokebay/internal/domain/model"
)

// CachedProvider decorates an OfferProvider with the query-result cache
// and a circuit breaker. Cache hits bypass the breaker entirely;
// misses coalesce into one upstream call per search signature.
type CachedProvider struct {
	inner   OfferProvider
	cache   *cache.OfferCache
	breaker *circuitbreaker.CircuitBreaker
}

// NewCachedProvider wraps inner with the given cache and breaker.
// Either decoration may be nil to disable it.
func NewCachedProvider(inner OfferProvider, c *cache.OfferCache, cb *circuitbreaker.CircuitBreaker) *CachedProvider {
	return &CachedProvider{inner: inner, cache: c, breaker: cb}
}

// Offers implements OfferProvider.
func (p *CachedProvider) Offers(ctx context.Context, item model.Item) ([]model.Offer, error) {
	if p.cache == nil {
		return p.fetch(ctx, item)
	}
	return p.cache.GetOrFetch(ctx, SearchQuery(item), func(ctx context.Context) ([]model.Offer, error) {
		return p.fetch(ctx, item)
	})
}

func (p *CachedProvider) fetch(ctx context.Context, item model.Item) ([]model.Offer, error) {
	if p.breaker == nil {
		return p.inner.Offers(ctx, item)
	}
	var offers []model.Offer
	err := p.breaker.Execute(ctx, func() error {
		var err error
		offers, err = p.inner.Offers(ctx, item)
		return err
	})
	if err != nil {
		return nil, err
	}
	return offers, nil
}
