package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"chainrpc/internal/app/port"
	"chainrpc/internal/domain/entity"
	"chainrpc/internal/pkg/metrics"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const catalogCacheKey = "catalog"

// CatalogService owns the persisted chainID → entry mapping: refresh on
// staleness, lookup, and narrowing after a successful health check.
//
// Every mutation is a whole-document read-modify-write cycle, so mutations
// are serialized behind the service mutex. That makes concurrent session
// creation safe without external locking.
type CatalogService struct {
	store  port.CatalogStore
	source port.ChainSource
	cache  *gocache.Cache
	mu     sync.Mutex
	logger *zap.Logger
}

// NewCatalogService creates a catalog service. cacheTTL bounds how long a
// loaded catalog document is memoized before the store is consulted again.
func NewCatalogService(store port.CatalogStore, source port.ChainSource, cacheTTL time.Duration, logger *zap.Logger) *CatalogService {
	return &CatalogService{
		store:  store,
		source: source,
		cache:  gocache.New(cacheTTL, 2*cacheTTL),
		logger: logger.Named("CatalogService"),
	}
}

// RefreshIfStale performs a full fetch from the chain list source when no
// catalog exists or the stored one is older than maxAge, and is a no-op
// otherwise.
func (s *CatalogService) RefreshIfStale(ctx context.Context, maxAge time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	catalog, err := s.load()
	if err == nil && !catalog.Stale(maxAge, time.Now()) {
		s.logger.Debug("Catalog is fresh, skipping refresh",
			zap.Time("fetchedAt", catalog.Date),
			zap.Duration("maxAge", maxAge))
		return nil
	}
	if err != nil && !errors.Is(err, entity.ErrCatalogNotFound) {
		return err
	}
	return s.refresh(ctx)
}

// Get returns the entry for chainID, or entity.ErrUnknownNetwork.
func (s *CatalogService) Get(chainID int64) (entity.Chain, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	catalog, err := s.load()
	if err != nil {
		if errors.Is(err, entity.ErrCatalogNotFound) {
			return entity.Chain{}, fmt.Errorf("%w: chain %d", entity.ErrUnknownNetwork, chainID)
		}
		return entity.Chain{}, err
	}
	chain, ok := catalog.Entries[chainID]
	if !ok {
		return entity.Chain{}, fmt.Errorf("%w: chain %d", entity.ErrUnknownNetwork, chainID)
	}
	return chain, nil
}

// RecordValidated replaces the entry's endpoint list with exactly workingURLs
// (health-check order) and marks it validated. The narrowed list is persisted
// immediately so future sessions skip re-validation until the next full
// refresh.
func (s *CatalogService) RecordValidated(chainID int64, workingURLs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	catalog, err := s.load()
	if err != nil {
		return err
	}
	chain, ok := catalog.Entries[chainID]
	if !ok {
		return fmt.Errorf("%w: chain %d", entity.ErrUnknownNetwork, chainID)
	}

	chain.RPC = append([]string(nil), workingURLs...)
	chain.Validated = true
	catalog.Entries[chainID] = chain

	if err := s.save(catalog); err != nil {
		return err
	}
	s.logger.Info("Recorded validated endpoints",
		zap.Int64("chainID", chainID),
		zap.Int("endpointCount", len(workingURLs)))
	return nil
}

// Entries returns a snapshot of all catalog entries.
func (s *CatalogService) Entries() (map[int64]entity.Chain, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	catalog, err := s.load()
	if err != nil {
		return nil, err
	}
	entries := make(map[int64]entity.Chain, len(catalog.Entries))
	for id, chain := range catalog.Entries {
		entries[id] = chain
	}
	return entries, nil
}

func (s *CatalogService) refresh(ctx context.Context) error {
	s.logger.Info("Refreshing catalog from chain list source")
	chains, err := s.source.FetchChains(ctx)
	if err != nil {
		metrics.CatalogRefreshesTotal.WithLabelValues("failed").Inc()
		return err
	}

	catalog := &entity.Catalog{
		Entries: make(map[int64]entity.Chain, len(chains)),
		Date:    time.Now(),
	}
	for _, chain := range chains {
		// Full refresh rebuilds every entry, dropping any previous
		// validation narrowing.
		chain.Validated = false
		catalog.Entries[chain.ChainID] = chain
	}

	if err := s.save(catalog); err != nil {
		metrics.CatalogRefreshesTotal.WithLabelValues("failed").Inc()
		return err
	}
	metrics.CatalogRefreshesTotal.WithLabelValues("success").Inc()
	s.logger.Info("Catalog refreshed", zap.Int("chainCount", len(catalog.Entries)))
	return nil
}

// load and save assume the service mutex is held.
func (s *CatalogService) load() (*entity.Catalog, error) {
	if cached, ok := s.cache.Get(catalogCacheKey); ok {
		return cached.(*entity.Catalog), nil
	}
	catalog, err := s.store.Load()
	if err != nil {
		return nil, err
	}
	s.cache.Set(catalogCacheKey, catalog, gocache.DefaultExpiration)
	return catalog, nil
}

func (s *CatalogService) save(catalog *entity.Catalog) error {
	if err := s.store.Save(catalog); err != nil {
		return err
	}
	s.cache.Set(catalogCacheKey, catalog, gocache.DefaultExpiration)
	return nil
}
