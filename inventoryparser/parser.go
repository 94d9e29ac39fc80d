package inventoryparser

import (
	"github.com/giygas/inventario-farmacia/interfaces"
	"github.com/giygas/inventario-farmacia/inventoryparser/entities"
)

// Compile-time check to ensure InventoryParser implements Parser interface
var _ interfaces.Parser = (*InventoryParser)(nil)

// InventoryParser implements the Parser interface
type InventoryParser struct{}

// NewInventoryParser creates a new InventoryParser instance
func NewInventoryParser() *InventoryParser {
	return &InventoryParser{}
}

// LoadCatalog implements the Parser interface
func (p *InventoryParser) LoadCatalog(path string) (*entities.Catalog, error) {
	return LoadCatalog(path)
}

// Ingest implements the Parser interface
func (p *InventoryParser) Ingest(fileName string, content []byte, catalog *entities.Catalog) (*entities.Table, error) {
	return Ingest(fileName, content, catalog)
}
