package inventoryparser

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/giygas/inventario-farmacia/inventoryparser/entities"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
)

const inventoryBanner = "INVENTARIO DIARIO SUCURSAL CENTRO,,,,,,"
const inventoryHeader = "CODIGO,DESCRIPCION,LABORATORIO,LINEA,UBICACION,CORTA_CAD,EXISTENCIA"

// latin1 encodes s the way the legacy export tool writes it
func latin1(t *testing.T, s string) []byte {
	t.Helper()
	out, err := charmap.ISO8859_1.NewEncoder().String(s)
	if err != nil {
		t.Fatalf("Failed to encode test data as latin-1: %v", err)
	}
	return []byte(out)
}

// inventoryCSV builds an export with the banner and header rows above lines
func inventoryCSV(lines ...string) string {
	return strings.Join(append([]string{inventoryBanner, inventoryHeader}, lines...), "\n") + "\n"
}

// writeCatalogFile writes content to a catalog file in a temp dir
func writeCatalogFile(t *testing.T, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "LISTASUSTANCIAS.csv")
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("Failed to write catalog file: %v", err)
	}
	return path
}

// testCatalog is the small catalog used by the ingestion tests
func testCatalog() *entities.Catalog {
	return entities.NewCatalog([]entities.SubstanceEntry{
		{Code: "V0102", SubstanceName: "PARACETAMOL"},
		{Code: "A0200", SubstanceName: "IBUPROFENO"},
		{Code: "B0300", SubstanceName: "AMOXICILINA"},
	}, "test")
}

// spreadsheet builds an xlsx workbook from rows of cells
func spreadsheet(t *testing.T, rows [][]any) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			t.Errorf("Failed to close workbook: %v", err)
		}
	}()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("Invalid coordinates: %v", err)
		}
		if err := f.SetSheetRow(sheet, cellRef, &row); err != nil {
			t.Fatalf("Failed to write row %d: %v", i, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("Failed to write workbook: %v", err)
	}
	return buf.Bytes()
}
