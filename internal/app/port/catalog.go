package port

import "chainrpc/internal/domain/entity"

// CatalogStore persists the chain catalog as one document. Save must replace
// the stored document atomically from the caller's perspective.
type CatalogStore interface {
	// Load returns the persisted catalog, or entity.ErrCatalogNotFound when
	// nothing has been saved yet.
	Load() (*entity.Catalog, error)
	Save(catalog *entity.Catalog) error
}
