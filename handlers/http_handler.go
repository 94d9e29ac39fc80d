// Package handlers provides HTTP request handlers for the inventory search API.
// This file implements the HTTPHandler interface with dependency injection.
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/giygas/inventario-farmacia/interfaces"
	"github.com/giygas/inventario-farmacia/inventoryparser"
	"github.com/giygas/inventario-farmacia/inventoryparser/entities"
	"github.com/giygas/inventario-farmacia/logging"
	"github.com/giygas/inventario-farmacia/metrics"
	"github.com/giygas/inventario-farmacia/search"
	"github.com/go-chi/chi/v5"
)

// Compile-time check to ensure HTTPHandlerImpl implements HTTPHandler
var _ interfaces.HTTPHandler = (*HTTPHandlerImpl)(nil)

const (
	SessionCookieName = "inventario_session"
	SessionHeader     = "X-Session-ID"

	uploadFormField = "file"
)

// Options tunes the handler
type Options struct {
	MaxUploadSize int64
	SessionTTL    time.Duration
	Matcher       search.Matcher
}

// HTTPHandlerImpl implements the interfaces.HTTPHandler interface
type HTTPHandlerImpl struct {
	catalogStore  interfaces.CatalogStore
	sessionStore  interfaces.SessionStore
	parser        interfaces.Parser
	validator     interfaces.DataValidator
	healthChecker interfaces.HealthChecker
	options       Options
}

// NewHTTPHandler creates a new HTTP handler with injected dependencies
func NewHTTPHandler(catalogStore interfaces.CatalogStore, sessionStore interfaces.SessionStore,
	parser interfaces.Parser, validator interfaces.DataValidator,
	healthChecker interfaces.HealthChecker, options Options) *HTTPHandlerImpl {

	if options.Matcher == nil {
		options.Matcher = search.IndexMatcher{}
	}
	if options.MaxUploadSize <= 0 {
		options.MaxUploadSize = 10 * 1024 * 1024
	}

	return &HTTPHandlerImpl{
		catalogStore:  catalogStore,
		sessionStore:  sessionStore,
		parser:        parser,
		validator:     validator,
		healthChecker: healthChecker,
		options:       options,
	}
}

// TableSummary describes the table held by a session
type TableSummary struct {
	FileName    string                   `json:"file_name"`
	Fingerprint string                   `json:"fingerprint"`
	Rows        int                      `json:"rows"`
	IngestedAt  string                   `json:"ingested_at"`
	Report      entities.IngestionReport `json:"report"`
}

// UploadResponse is returned after an upload
type UploadResponse struct {
	SessionID string        `json:"session_id"`
	Reused    bool          `json:"reused"`
	Table     TableSummary  `json:"table"`
	Preview   search.Result `json:"preview"`
}

// CatalogResponse describes the loaded substance catalog
type CatalogResponse struct {
	Entries        int    `json:"entries"`
	DuplicateCodes int    `json:"duplicate_codes"`
	Source         string `json:"source"`
	LoadedAt       string `json:"loaded_at,omitempty"`
	Error          string `json:"error,omitempty"`
}

func summarize(table *entities.Table) TableSummary {
	return TableSummary{
		FileName:    table.FileName,
		Fingerprint: table.Fingerprint,
		Rows:        table.Len(),
		IngestedAt:  table.IngestedAt.Format(time.RFC3339),
		Report:      table.Report,
	}
}

// RespondWithJSON writes a JSON response
func (h *HTTPHandlerImpl) RespondWithJSON(w http.ResponseWriter, code int, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		logging.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(code)
	if _, err := w.Write(data); err != nil {
		logging.Warn("Failed to write response", "error", err)
	}
}

// RespondWithError writes a JSON error response
func (h *HTTPHandlerImpl) RespondWithError(w http.ResponseWriter, code int, message string) {
	errorResponse := map[string]any{
		"error":   http.StatusText(code),
		"message": message,
		"code":    code,
	}
	h.RespondWithJSON(w, code, errorResponse)
}

// sessionID reads the session id from the cookie, falling back to the header
func sessionID(r *http.Request) string {
	if c, err := r.Cookie(SessionCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	return r.Header.Get(SessionHeader)
}

// currentSession returns the caller's session if it still exists
func (h *HTTPHandlerImpl) currentSession(r *http.Request) (interfaces.Session, bool) {
	return h.sessionStore.Get(sessionID(r))
}

// sessionForUpload returns the caller's session, creating one and setting the
// cookie when there is none.
func (h *HTTPHandlerImpl) sessionForUpload(w http.ResponseWriter, r *http.Request) interfaces.Session {
	if sess, ok := h.currentSession(r); ok {
		return sess
	}

	sess := h.sessionStore.Create()
	metrics.SessionsActive.Set(float64(h.sessionStore.Len()))

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    sess.ID(),
		Path:     "/",
		MaxAge:   int(h.options.SessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	w.Header().Set(SessionHeader, sess.ID())

	return sess
}

// currentTable returns the caller's table or writes a 404
func (h *HTTPHandlerImpl) currentTable(w http.ResponseWriter, r *http.Request) (*entities.Table, bool) {
	sess, ok := h.currentSession(r)
	if !ok || sess.Table() == nil {
		h.RespondWithError(w, http.StatusNotFound, "No inventory uploaded for this session")
		return nil, false
	}
	return sess.Table(), true
}

// UploadInventory ingests a multipart upload and makes it the session table.
// A failed upload leaves the previous table in place.
func (h *HTTPHandlerImpl) UploadInventory(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength > h.options.MaxUploadSize {
		h.RespondWithError(w, http.StatusRequestEntityTooLarge, "Uploaded file is too large")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.options.MaxUploadSize)

	file, header, err := r.FormFile(uploadFormField)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.RespondWithError(w, http.StatusRequestEntityTooLarge, "Uploaded file is too large")
			return
		}
		h.RespondWithError(w, http.StatusBadRequest, "Missing file field in multipart form")
		return
	}
	defer func() {
		if err := file.Close(); err != nil {
			logging.Warn("Failed to close uploaded file", "error", err)
		}
	}()

	if err := h.validator.ValidateFileName(header.Filename); err != nil {
		logging.Warn("Unusual user input", "file_name", header.Filename, "error", err)
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	content, err := io.ReadAll(file)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.RespondWithError(w, http.StatusRequestEntityTooLarge, "Uploaded file is too large")
			return
		}
		h.RespondWithError(w, http.StatusBadRequest, "Could not read uploaded file")
		return
	}

	sess := h.sessionForUpload(w, r)

	// Same file again: keep the table already built for it
	if current := sess.Table(); current != nil &&
		current.FileName == header.Filename &&
		current.Fingerprint == inventoryparser.Fingerprint(content) {
		h.RespondWithJSON(w, http.StatusOK, UploadResponse{
			SessionID: sess.ID(),
			Reused:    true,
			Table:     summarize(current),
			Preview:   search.Filter(current, "", h.options.Matcher),
		})
		return
	}

	table, err := h.parser.Ingest(header.Filename, content, h.catalogStore.Get())
	if err != nil {
		format, _ := inventoryparser.DetectFormat(header.Filename)
		metrics.IngestionsTotal.WithLabelValues(formatLabel(format), "error").Inc()
		logging.Warn("Inventory upload rejected", "file_name", header.Filename, "error", err)
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	sess.Replace(table)

	metrics.IngestionsTotal.WithLabelValues(formatLabel(table.Report.Format), "success").Inc()
	metrics.RowsIngested.Observe(float64(table.Len()))
	logging.Info("Inventory uploaded",
		"session_id", sess.ID(),
		"file_name", table.FileName,
		"rows", table.Len(),
		"encoding", table.Report.Encoding)

	h.RespondWithJSON(w, http.StatusCreated, UploadResponse{
		SessionID: sess.ID(),
		Table:     summarize(table),
		Preview:   search.Filter(table, "", h.options.Matcher),
	})
}

func formatLabel(format string) string {
	if format == "" {
		return "unknown"
	}
	return format
}

// GetInventory describes the session table
func (h *HTTPHandlerImpl) GetInventory(w http.ResponseWriter, r *http.Request) {
	table, ok := h.currentTable(w, r)
	if !ok {
		return
	}
	h.RespondWithJSON(w, http.StatusOK, summarize(table))
}

// ClearInventory drops the session table
func (h *HTTPHandlerImpl) ClearInventory(w http.ResponseWriter, r *http.Request) {
	if sess, ok := h.currentSession(r); ok {
		sess.Clear()
	}
	w.WriteHeader(http.StatusNoContent)
}

// SearchInventory filters the session table with the q parameter. An empty q
// returns a short preview.
func (h *HTTPHandlerImpl) SearchInventory(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	if err := h.validator.ValidateQuery(query); err != nil {
		logging.Warn("Unusual user input", "query", query, "error", err)
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	table, ok := h.currentTable(w, r)
	if !ok {
		return
	}

	result := search.Filter(table, query, h.options.Matcher)

	kind := "query"
	if result.Preview {
		kind = "preview"
	}
	metrics.SearchesTotal.WithLabelValues(kind).Inc()

	h.RespondWithJSON(w, http.StatusOK, result)
}

// GetCatalog describes the substance catalog
func (h *HTTPHandlerImpl) GetCatalog(w http.ResponseWriter, r *http.Request) {
	catalog := h.catalogStore.Get()

	response := CatalogResponse{
		Entries:        catalog.Len(),
		DuplicateCodes: catalog.DuplicateCodes,
		Source:         catalog.Source,
	}
	if !catalog.LoadedAt.IsZero() {
		response.LoadedAt = catalog.LoadedAt.Format(time.RFC3339)
	}
	if err := h.catalogStore.LoadError(); err != nil {
		response.Error = err.Error()
	}

	h.RespondWithJSON(w, http.StatusOK, response)
}

// FindSubstanceByCode looks a single code up in the catalog
func (h *HTTPHandlerImpl) FindSubstanceByCode(w http.ResponseWriter, r *http.Request) {
	// chi matches on RawPath when the request carries one, and the segment is
	// still escaped in that case only.
	code := chi.URLParam(r, "code")
	if r.URL.RawPath != "" {
		unescaped, err := url.PathUnescape(code)
		if err != nil {
			h.RespondWithError(w, http.StatusBadRequest, "Invalid code")
			return
		}
		code = unescaped
	}

	if err := h.validator.ValidateCode(code); err != nil {
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	name, ok := h.catalogStore.Get().Lookup(code)
	if !ok {
		h.RespondWithError(w, http.StatusNotFound, "Code not found in catalog")
		return
	}

	h.RespondWithJSON(w, http.StatusOK, entities.SubstanceEntry{
		Code:          entities.NormalizeCode(code),
		SubstanceName: name,
	})
}

// HealthCheck returns the service health
func (h *HTTPHandlerImpl) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status, data, httpStatus := h.healthChecker.HealthCheck()

	h.RespondWithJSON(w, httpStatus, map[string]any{
		"status": status,
		"data":   data,
	})
}
