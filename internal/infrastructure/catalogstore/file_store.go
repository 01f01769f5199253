package catalogstore

import (
	"fmt"
	"os"
	"path/filepath"

	"chainrpc/internal/domain/entity"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// FileStore persists the catalog as a single JSON document on disk.
// Save writes a temp file and renames it over the target, so readers never
// observe a half-written document.
type FileStore struct {
	path string
}

// NewFileStore creates a store backed by the given file path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the persisted catalog. A missing file maps to
// entity.ErrCatalogNotFound; anything unparseable is an error.
func (s *FileStore) Load() (*entity.Catalog, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, entity.ErrCatalogNotFound
		}
		return nil, fmt.Errorf("failed to read catalog file %s: %w", s.path, err)
	}

	var catalog entity.Catalog
	if err := json.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to unmarshal catalog file %s: %w", s.path, err)
	}
	if catalog.Entries == nil {
		catalog.Entries = make(map[int64]entity.Chain)
	}
	return &catalog, nil
}

// Save rewrites the catalog document wholesale.
func (s *FileStore) Save(catalog *entity.Catalog) error {
	data, err := json.MarshalIndent(catalog, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal catalog: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create catalog directory %s: %w", dir, err)
		}
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write catalog temp file %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace catalog file %s: %w", s.path, err)
	}
	return nil
}
