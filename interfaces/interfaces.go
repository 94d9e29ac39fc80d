// Package interfaces defines core abstractions for the inventory search service
// to improve testability, maintainability, and separation of concerns.
package interfaces

import (
	"net/http"
	"time"

	"github.com/giygas/inventario-farmacia/inventoryparser/entities"
)

// CatalogStore gives process-wide read-only access to the substance catalog.
// The catalog is loaded lazily on first access and never reloaded.
type CatalogStore interface {
	Get() *entities.Catalog
	LoadError() error
	GetServerStartTime() time.Time
}

// Parser defines the contract for reading the catalog and inventory uploads.
type Parser interface {
	// LoadCatalog reads the reference substance list from path
	LoadCatalog(path string) (*entities.Catalog, error)

	// Ingest parses one uploaded file and joins it with the catalog
	Ingest(fileName string, content []byte, catalog *entities.Catalog) (*entities.Table, error)
}

// Session is the state of one clerk: the table from the last successful upload.
type Session interface {
	ID() string
	Table() *entities.Table
	Replace(table *entities.Table)
	Clear()
	LastSeen() time.Time
}

// SessionStore creates, finds and expires sessions.
type SessionStore interface {
	Get(id string) (Session, bool)
	Create() Session
	Sweep(ttl time.Duration) int
	Len() int
}

// Scheduler defines the contract for background jobs.
type Scheduler interface {
	// Lifecycle management
	Start() error
	Stop()
}

// HTTPHandler defines the contract for HTTP request handlers.
type HTTPHandler interface {
	UploadInventory(w http.ResponseWriter, r *http.Request)
	GetInventory(w http.ResponseWriter, r *http.Request)
	ClearInventory(w http.ResponseWriter, r *http.Request)
	SearchInventory(w http.ResponseWriter, r *http.Request)
	GetCatalog(w http.ResponseWriter, r *http.Request)
	FindSubstanceByCode(w http.ResponseWriter, r *http.Request)
	HealthCheck(w http.ResponseWriter, r *http.Request)
}

// HealthChecker defines the contract for health check functionality.
type HealthChecker interface {
	// HealthCheck returns the status, data details and HTTP status code
	HealthCheck() (status string, details map[string]any, httpStatus int)
}

// DataValidator defines the contract for validating user input.
type DataValidator interface {
	// ValidateQuery checks a free-text search query
	ValidateQuery(query string) error

	// ValidateFileName checks the name of an uploaded file
	ValidateFileName(name string) error

	// ValidateCode checks a product code used for catalog lookups
	ValidateCode(code string) error
}
