// Package health provides health checking functionality for the inventory service.
package health

import (
	"math"
	"net/http"
	"time"

	"github.com/giygas/inventario-farmacia/interfaces"
)

// HealthCheckerImpl implements the interfaces.HealthChecker interface
type HealthCheckerImpl struct {
	catalogStore interfaces.CatalogStore
	sessionStore interfaces.SessionStore
}

// NewHealthChecker creates a new health checker with injected dependencies
func NewHealthChecker(catalogStore interfaces.CatalogStore, sessionStore interfaces.SessionStore) interfaces.HealthChecker {
	return &HealthCheckerImpl{
		catalogStore: catalogStore,
		sessionStore: sessionStore,
	}
}

// HealthCheck reports the catalog state. Uploads and searches keep working
// without a catalog, every substance then shows the placeholder, so a missing
// catalog is degraded rather than unhealthy.
func (h *HealthCheckerImpl) HealthCheck() (status string, data map[string]any, httpStatus int) {
	catalog := h.catalogStore.Get()
	loadErr := h.catalogStore.LoadError()

	switch {
	case loadErr != nil:
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	case catalog.Len() == 0:
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	default:
		status = "healthy"
		httpStatus = http.StatusOK
	}

	data = map[string]any{
		"catalog_entries": catalog.Len(),
		"sessions":        h.sessionStore.Len(),
	}

	if catalog != nil && !catalog.LoadedAt.IsZero() {
		data["catalog_loaded_at"] = catalog.LoadedAt.Format(time.RFC3339)
	}

	if start := h.catalogStore.GetServerStartTime(); !start.IsZero() {
		data["uptime_hours"] = math.Round(time.Since(start).Hours()*10) / 10
	}

	if loadErr != nil {
		data["catalog_error"] = loadErr.Error()
	}

	return status, data, httpStatus
}
