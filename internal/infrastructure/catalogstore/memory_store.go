package catalogstore

import (
	"sync"

	"chainrpc/internal/domain/entity"
)

// MemoryStore keeps the catalog in memory. Useful for tests and for callers
// that do not want cross-process persistence.
type MemoryStore struct {
	mu      sync.Mutex
	catalog *entity.Catalog
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load returns a deep copy of the stored catalog, or
// entity.ErrCatalogNotFound when nothing has been saved.
func (s *MemoryStore) Load() (*entity.Catalog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.catalog == nil {
		return nil, entity.ErrCatalogNotFound
	}
	return copyCatalog(s.catalog), nil
}

// Save replaces the stored catalog.
func (s *MemoryStore) Save(catalog *entity.Catalog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.catalog = copyCatalog(catalog)
	return nil
}

func copyCatalog(in *entity.Catalog) *entity.Catalog {
	out := &entity.Catalog{
		Entries: make(map[int64]entity.Chain, len(in.Entries)),
		Date:    in.Date,
	}
	for id, chain := range in.Entries {
		rpc := make([]string, len(chain.RPC))
		copy(rpc, chain.RPC)
		chain.RPC = rpc
		out.Entries[id] = chain
	}
	return out
}
