// Package data provides the process-wide substance catalog. The catalog is
// loaded on first access, kept for the lifetime of the process and shared
// read-only by every request.
package data

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/giygas/inventario-farmacia/interfaces"
	"github.com/giygas/inventario-farmacia/inventoryparser/entities"
	"github.com/giygas/inventario-farmacia/logging"
)

// Compile-time check to ensure CatalogContainer implements CatalogStore
var _ interfaces.CatalogStore = (*CatalogContainer)(nil)

// LoaderFunc reads a catalog from path
type LoaderFunc func(path string) (*entities.Catalog, error)

// CatalogContainer memoizes the first catalog load
type CatalogContainer struct {
	path            string
	loader          LoaderFunc
	once            sync.Once
	catalog         atomic.Pointer[entities.Catalog]
	loadErr         atomic.Value // error
	serverStartTime atomic.Value // time.Time
}

// NewCatalogContainer creates a container that will read path with loader on first use
func NewCatalogContainer(path string, loader LoaderFunc) *CatalogContainer {
	cc := &CatalogContainer{
		path:   path,
		loader: loader,
	}
	cc.serverStartTime.Store(time.Time{})
	return cc
}

// Get returns the catalog, loading it on the first call. When loading fails
// an empty catalog is kept so joins still run and every substance shows the
// placeholder.
func (cc *CatalogContainer) Get() *entities.Catalog {
	cc.once.Do(cc.load)
	return cc.catalog.Load()
}

func (cc *CatalogContainer) load() {
	catalog, err := cc.loader(cc.path)
	if err != nil {
		logging.Error("Failed to load substance catalog, continuing with an empty one",
			"path", cc.path,
			"error", err)
		cc.loadErr.Store(err)
		catalog = entities.EmptyCatalog(cc.path)
	}
	cc.catalog.Store(catalog)
}

// LoadError returns the error of the catalog load, if any. It triggers the
// load when it has not happened yet.
func (cc *CatalogContainer) LoadError() error {
	cc.once.Do(cc.load)
	if v := cc.loadErr.Load(); v != nil {
		if err, ok := v.(error); ok {
			return err
		}
	}
	return nil
}

// SetServerStartTime sets the server start time
func (cc *CatalogContainer) SetServerStartTime(startTime time.Time) {
	cc.serverStartTime.Store(startTime)
}

// GetServerStartTime returns the server start time
func (cc *CatalogContainer) GetServerStartTime() time.Time {
	if v := cc.serverStartTime.Load(); v != nil {
		if startTime, ok := v.(time.Time); ok {
			return startTime
		}
	}

	logging.Warn("Could not get the server start time value")
	return time.Time{}
}
