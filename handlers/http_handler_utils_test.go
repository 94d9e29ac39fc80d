package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/giygas/inventario-farmacia/interfaces"
	"github.com/giygas/inventario-farmacia/inventoryparser"
	"github.com/giygas/inventario-farmacia/inventoryparser/entities"
	"github.com/giygas/inventario-farmacia/search"
	"github.com/giygas/inventario-farmacia/session"
)

// ============================================================================
// TEST DATA FACTORY
// ============================================================================

// TestDataFactory creates consistent test data across all tests
type TestDataFactory struct{}

func NewTestDataFactory() *TestDataFactory {
	return &TestDataFactory{}
}

// CreateCatalog creates the reference catalog used by the handler tests
func (f *TestDataFactory) CreateCatalog() *entities.Catalog {
	return entities.NewCatalog([]entities.SubstanceEntry{
		{Code: "V0102", SubstanceName: "PARACETAMOL"},
		{Code: "A0200", SubstanceName: "IBUPROFENO"},
		{Code: "B0300", SubstanceName: "AMOXICILINA"},
	}, "LISTASUSTANCIAS.csv")
}

// CreateInventoryCSV creates a daily export with banner and header rows
func (f *TestDataFactory) CreateInventoryCSV(lines ...string) []byte {
	all := append([]string{
		"INVENTARIO DIARIO,,,,,,",
		"CODIGO,DESCRIPCION,LABORATORIO,LINEA,UBICACION,CORTA_CAD,EXISTENCIA",
	}, lines...)
	return []byte(strings.Join(all, "\n") + "\n")
}

// CreateDefaultInventory creates a small export mixing matched and unmatched codes
func (f *TestDataFactory) CreateDefaultInventory() []byte {
	return f.CreateInventoryCSV(
		"V0102,TYLENOL 500MG,JANSSEN,OTC,A1,NO,12",
		"X9999,GASAS ESTERILES,LE ROY,CURACION,B2,SI,3",
		"A0200,ADVIL 400MG,PFIZER,OTC,A3,NO,0",
	)
}

// ============================================================================
// MOCK BUILDERS
// ============================================================================

// MockCatalogStore implements interfaces.CatalogStore
type MockCatalogStore struct {
	catalog   *entities.Catalog
	loadErr   error
	startTime time.Time
}

func (m *MockCatalogStore) Get() *entities.Catalog {
	return m.catalog
}

func (m *MockCatalogStore) LoadError() error {
	return m.loadErr
}

func (m *MockCatalogStore) GetServerStartTime() time.Time {
	return m.startTime
}

// MockCatalogStoreBuilder provides fluent interface for building mock catalog stores
type MockCatalogStoreBuilder struct {
	mock *MockCatalogStore
}

func NewMockCatalogStoreBuilder() *MockCatalogStoreBuilder {
	return &MockCatalogStoreBuilder{
		mock: &MockCatalogStore{
			catalog:   NewTestDataFactory().CreateCatalog(),
			startTime: time.Now(),
		},
	}
}

func (b *MockCatalogStoreBuilder) WithCatalog(catalog *entities.Catalog) *MockCatalogStoreBuilder {
	b.mock.catalog = catalog
	return b
}

func (b *MockCatalogStoreBuilder) WithLoadError(err error) *MockCatalogStoreBuilder {
	b.mock.loadErr = err
	return b
}

func (b *MockCatalogStoreBuilder) Build() *MockCatalogStore {
	return b.mock
}

// MockDataValidator implements interfaces.DataValidator
type MockDataValidator struct {
	queryError    error
	fileNameError error
	codeError     error
}

func (m *MockDataValidator) ValidateQuery(query string) error {
	return m.queryError
}

func (m *MockDataValidator) ValidateFileName(name string) error {
	return m.fileNameError
}

func (m *MockDataValidator) ValidateCode(code string) error {
	return m.codeError
}

// MockDataValidatorBuilder provides fluent interface for building mock validators
type MockDataValidatorBuilder struct {
	mock *MockDataValidator
}

func NewMockDataValidatorBuilder() *MockDataValidatorBuilder {
	return &MockDataValidatorBuilder{mock: &MockDataValidator{}}
}

func (b *MockDataValidatorBuilder) WithQueryError(err error) *MockDataValidatorBuilder {
	b.mock.queryError = err
	return b
}

func (b *MockDataValidatorBuilder) WithFileNameError(err error) *MockDataValidatorBuilder {
	b.mock.fileNameError = err
	return b
}

func (b *MockDataValidatorBuilder) WithCodeError(err error) *MockDataValidatorBuilder {
	b.mock.codeError = err
	return b
}

func (b *MockDataValidatorBuilder) Build() *MockDataValidator {
	return b.mock
}

// MockHealthChecker implements interfaces.HealthChecker
type MockHealthChecker struct {
	status     string
	data       map[string]any
	httpStatus int
}

func (m *MockHealthChecker) HealthCheck() (string, map[string]any, int) {
	return m.status, m.data, m.httpStatus
}

// MockHealthCheckerBuilder provides fluent interface for building mock health checkers
type MockHealthCheckerBuilder struct {
	mock *MockHealthChecker
}

func NewMockHealthCheckerBuilder() *MockHealthCheckerBuilder {
	return &MockHealthCheckerBuilder{
		mock: &MockHealthChecker{
			status:     "healthy",
			data:       map[string]any{"catalog_entries": 3, "sessions": 0},
			httpStatus: http.StatusOK,
		},
	}
}

func (b *MockHealthCheckerBuilder) WithStatus(status string, httpStatus int) *MockHealthCheckerBuilder {
	b.mock.status = status
	b.mock.httpStatus = httpStatus
	return b
}

func (b *MockHealthCheckerBuilder) Build() *MockHealthChecker {
	return b.mock
}

// ============================================================================
// HTTP TEST UTILITIES
// ============================================================================

// handlerDeps groups the collaborators of a handler under test
type handlerDeps struct {
	catalogStore  interfaces.CatalogStore
	sessionStore  *session.Store
	validator     interfaces.DataValidator
	healthChecker interfaces.HealthChecker
	options       Options
}

func defaultDeps() *handlerDeps {
	return &handlerDeps{
		catalogStore:  NewMockCatalogStoreBuilder().Build(),
		sessionStore:  session.NewStore(),
		validator:     NewMockDataValidatorBuilder().Build(),
		healthChecker: NewMockHealthCheckerBuilder().Build(),
		options:       Options{SessionTTL: time.Hour, Matcher: search.IndexMatcher{}},
	}
}

func (d *handlerDeps) build() *HTTPHandlerImpl {
	return NewHTTPHandler(d.catalogStore, d.sessionStore, inventoryparser.NewInventoryParser(),
		d.validator, d.healthChecker, d.options)
}

// newUploadRequest builds a multipart upload carrying content as fileName
func newUploadRequest(t *testing.T, fileName string, content []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile(uploadFormField, fileName)
	if err != nil {
		t.Fatalf("Failed to create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("Failed to write form file: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("Failed to close multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/inventory", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

// withSession attaches the session cookie to req
func withSession(req *http.Request, id string) *http.Request {
	if id != "" {
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: id})
	}
	return req
}

// upload runs an upload and returns the recorder and the decoded response
func upload(t *testing.T, h *HTTPHandlerImpl, sessionID, fileName string, content []byte) (*httptest.ResponseRecorder, UploadResponse) {
	t.Helper()

	rr := httptest.NewRecorder()
	h.UploadInventory(rr, withSession(newUploadRequest(t, fileName, content), sessionID))

	var resp UploadResponse
	if rr.Code == http.StatusOK || rr.Code == http.StatusCreated {
		decodeJSON(t, rr, &resp)
	}
	return rr, resp
}

// decodeJSON asserts the body is JSON and decodes it into target
func decodeJSON(t *testing.T, rr *httptest.ResponseRecorder, target any) {
	t.Helper()

	if ct := rr.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Errorf("Expected JSON content type, got %q", ct)
	}
	if err := json.Unmarshal(rr.Body.Bytes(), target); err != nil {
		t.Fatalf("Response should be valid JSON, got error: %v (%s)", err, rr.Body.String())
	}
}

// errorBody is the shape of RespondWithError payloads
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}
