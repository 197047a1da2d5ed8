package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/mlg-/factory-girl-book-club/monitoring"
	"github.com/mlg-/factory-girl-book-club/v1/models"
	"github.com/mlg-/factory-girl-book-club/v1/services"
	"github.com/mlg-/factory-girl-book-club/v1/views"
)

// DirectoryHandler serves the read-only directory pages
type DirectoryHandler struct {
	service  *services.DirectoryService
	renderer *views.Renderer
}

// NewDirectoryHandler creates a new directory handler
func NewDirectoryHandler(service *services.DirectoryService, renderer *views.Renderer) *DirectoryHandler {
	return &DirectoryHandler{service: service, renderer: renderer}
}

// ListMembers handles GET /members
func (h *DirectoryHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.MembersDirectory(r.Context())
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	h.render(w, r, views.PageMembers, page)
}

// ShowBookClubLegacy handles GET /book_club/{id}
func (h *DirectoryHandler) ShowBookClubLegacy(w http.ResponseWriter, r *http.Request) {
	id, ok := h.clubID(w, r)
	if !ok {
		return
	}

	page, err := h.service.BookClubDetail(r.Context(), id)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	h.render(w, r, views.PageBookClub, page)
}

// ShowBookClub handles GET /book_clubs/{id}
func (h *DirectoryHandler) ShowBookClub(w http.ResponseWriter, r *http.Request) {
	id, ok := h.clubID(w, r)
	if !ok {
		return
	}

	page, err := h.service.BookClub(r.Context(), id)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	h.render(w, r, views.PageBookClubShow, page)
}

// ListPokemasters handles GET /pokemasters
func (h *DirectoryHandler) ListPokemasters(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.PokemastersDirectory(r.Context())
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	h.render(w, r, views.PagePokemasters, page)
}

// HealthStatus is the body of GET /health
type HealthStatus struct {
	Status   string `json:"status"`
	Service  string `json:"service"`
	Database string `json:"database"`
	Error    string `json:"error,omitempty"`
}

// Health handles GET /health. An unreachable database answers 503.
func (h *DirectoryHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := HealthStatus{Status: "healthy", Service: "book-club-directory", Database: "healthy"}
	code := http.StatusOK
	if err := h.service.Ping(ctx); err != nil {
		status.Status = "unhealthy"
		status.Database = "unhealthy"
		status.Error = err.Error()
		code = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(status); err != nil {
		slog.Error("Failed to encode JSON response", "error", err, "statusCode", code)
	}
}

// NotFound renders the 404 page for unmatched routes
func (h *DirectoryHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.renderStatus(w, r, http.StatusNotFound, fmt.Sprintf("No page at %s", r.URL.Path))
}

// clubID parses the {id} URL parameter. An id that is not a positive
// integer cannot name a club, so it is answered with 404.
func (h *DirectoryHandler) clubID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		h.renderStatus(w, r, http.StatusNotFound, fmt.Sprintf("No book club with id %q", raw))
		return 0, false
	}
	return uint(id), true
}

func (h *DirectoryHandler) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	if err := h.renderer.Render(w, http.StatusOK, name, data); err != nil {
		h.renderError(w, r, err)
	}
}

func (h *DirectoryHandler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	if models.IsNotFound(err) {
		h.renderStatus(w, r, http.StatusNotFound, "The requested book club does not exist")
		return
	}

	slog.ErrorContext(r.Context(), "Failed to serve directory page",
		"path", r.URL.Path,
		"trace_id", monitoring.GetTraceIDFromContext(r.Context()),
		"error", err)
	h.renderStatus(w, r, http.StatusInternalServerError, "The directory is unavailable right now")
}

func (h *DirectoryHandler) renderStatus(w http.ResponseWriter, r *http.Request, status int, message string) {
	labels := h.service.Labels()
	title := labels.ServerError
	if status == http.StatusNotFound {
		title = labels.NotFound
	}

	page := &models.ErrorPage{Status: status, Title: title, Message: message}
	if err := h.renderer.Render(w, status, views.PageError, page); err != nil {
		slog.ErrorContext(r.Context(), "Failed to render error page", "error", err)
		http.Error(w, http.StatusText(status), status)
	}
}
