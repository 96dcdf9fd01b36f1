package geo

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/j-veylop/growth-dashboard-tui/internal/db"
	"github.com/j-veylop/growth-dashboard-tui/internal/logger"
	"github.com/j-veylop/growth-dashboard-tui/internal/models"
)

// Cache stores boundary documents between runs. *db.DB implements it.
type Cache interface {
	LoadBoundaries(ctx context.Context, source string) (*db.CachedBoundaries, error)
	SaveBoundaries(ctx context.Context, source string, body []byte, fetchedAt time.Time, boundaries []models.Boundary) error
}

// Provider resolves the boundary reference for one source, preferring a
// fresh cached copy, then the network, then a stale cached copy.
type Provider struct {
	fetcher *Fetcher
	cache   Cache
	source  string
	ttl     time.Duration
	now     func() time.Time

	mu      sync.Mutex
	current *models.BoundaryReference
}

// NewProvider creates a provider. cache may be nil.
func NewProvider(fetcher *Fetcher, cache Cache, source string, ttl time.Duration) *Provider {
	return &Provider{
		fetcher: fetcher,
		cache:   cache,
		source:  source,
		ttl:     ttl,
		now:     time.Now,
	}
}

// Source returns the configured boundary source.
func (p *Provider) Source() string {
	return p.source
}

// Reference returns the boundary reference, fetching only when no copy
// younger than the TTL is held in memory or in the cache.
func (p *Provider) Reference(ctx context.Context) (*models.BoundaryReference, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.fresh(p.current) {
		return p.current, nil
	}

	cached := p.loadCached(ctx)
	if cached != nil && p.now().Sub(cached.FetchedAt) < p.ttl {
		p.current = cached.Reference(false)
		return p.current, nil
	}

	return p.fetchLocked(ctx, cached)
}

// Refresh fetches the source regardless of cache age. On failure the last
// known copy is returned, marked stale.
func (p *Provider) Refresh(ctx context.Context) (*models.BoundaryReference, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.fetchLocked(ctx, p.loadCached(ctx))
}

func (p *Provider) fetchLocked(ctx context.Context, cached *db.CachedBoundaries) (*models.BoundaryReference, error) {
	ref, err := p.fetch(ctx)
	if err == nil {
		p.current = ref
		return ref, nil
	}

	if cached != nil {
		logger.Warn("Using stale boundary cache", "source", p.source, "age", p.now().Sub(cached.FetchedAt).Round(time.Second), "error", err)
		p.current = cached.Reference(true)
		return p.current, nil
	}
	if p.current != nil {
		logger.Warn("Using stale in-memory boundaries", "source", p.source, "error", err)
		stale := *p.current
		stale.Stale = true
		p.current = &stale
		return p.current, nil
	}

	return nil, err
}

func (p *Provider) fetch(ctx context.Context) (*models.BoundaryReference, error) {
	body, err := p.fetcher.Fetch(ctx, p.source)
	if err != nil {
		return nil, err
	}

	boundaries, err := Parse(body)
	if err != nil {
		return nil, fmt.Errorf("invalid boundary document from %s: %w", p.source, err)
	}

	fetchedAt := p.now()
	if p.cache != nil {
		if err := p.cache.SaveBoundaries(ctx, p.source, body, fetchedAt, boundaries); err != nil {
			logger.Warn("Failed to cache boundaries", "source", p.source, "error", err)
		}
	}

	ref := models.NewBoundaryReference(p.source, fetchedAt, boundaries)
	ref.Raw = body
	logger.Info("Loaded boundaries", "source", p.source, "counties", ref.Len())
	return ref, nil
}

func (p *Provider) loadCached(ctx context.Context) *db.CachedBoundaries {
	if p.cache == nil {
		return nil
	}
	cached, err := p.cache.LoadBoundaries(ctx, p.source)
	if err != nil {
		if !errors.Is(err, db.ErrNotCached) {
			logger.Warn("Failed to read boundary cache", "source", p.source, "error", err)
		}
		return nil
	}
	return cached
}

func (p *Provider) fresh(ref *models.BoundaryReference) bool {
	return ref != nil && !ref.Stale && p.now().Sub(ref.FetchedAt) < p.ttl
}
