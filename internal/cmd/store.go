package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/dotcommander/scout/internal/storage"
	"github.com/dotcommander/scout/internal/storage/cache"
)

// runStore bundles the run index and the report cache. Most cmd functions
// need both; this avoids repeating the open-and-check boilerplate at every
// call site.
type runStore struct {
	DB      *storage.DB
	Reports *cache.Reports
}

// openRunStore opens both the metadata DB and the report cache.
func openRunStore(cachePath string) (*runStore, error) {
	reports, err := cache.NewReports(cachePath)
	if err != nil {
		return nil, fmt.Errorf("open report cache: %w", err)
	}
	db, err := storage.Open(filepath.Join(cachePath, "runs"))
	if err != nil {
		return nil, fmt.Errorf("open run index: %w", err)
	}
	return &runStore{DB: db, Reports: reports}, nil
}

// Close releases the underlying DB resources.
func (s *runStore) Close() error {
	return s.DB.Close()
}
