package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/catalog/internal/usecase"
	"github.com/utafrali/catalog/pkg/httputil"
	"github.com/utafrali/catalog/pkg/validator"
)

// GenreHandler handles HTTP requests for genre endpoints.
type GenreHandler struct {
	genres *usecase.Genres
	logger *slog.Logger
}

// NewGenreHandler creates a new genre HTTP handler.
func NewGenreHandler(genres *usecase.Genres, logger *slog.Logger) *GenreHandler {
	return &GenreHandler{
		genres: genres,
		logger: logger,
	}
}

// --- Request DTOs ---

// GenreRequest is the JSON request body for creating or updating a genre.
// categories_id keeps its order and may repeat an ID.
type GenreRequest struct {
	Name       *string  `json:"name"`
	IsActive   *bool    `json:"is_active"`
	Categories []string `json:"categories_id" validate:"max=1000,dive,required,max=36"`
}

// --- Handlers ---

// CreateGenre handles POST /genres
func (h *GenreHandler) CreateGenre(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req GenreRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, r, err)
		return
	}

	out, err := h.genres.Create.Execute(r.Context(), usecase.CreateGenreCommand{
		Name:       req.Name,
		Active:     isActive(req.IsActive),
		Categories: req.Categories,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.Header().Set("Location", "/genres/"+out.ID)
	httputil.WriteJSON(w, http.StatusCreated, out)
}

// ListGenres handles GET /genres?search=&page=&perPage=&sort=&dir=
func (h *GenreHandler) ListGenres(w http.ResponseWriter, r *http.Request) {
	q, err := parseSearchQuery(r)
	if err != nil {
		httputil.WriteValidationError(w, r, err)
		return
	}

	page, err := h.genres.List.Execute(r.Context(), q)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, page)
}

// GetGenre handles GET /genres/{id}
func (h *GenreHandler) GetGenre(w http.ResponseWriter, r *http.Request) {
	out, err := h.genres.Get.Execute(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, out)
}

// UpdateGenre handles PUT /genres/{id}
func (h *GenreHandler) UpdateGenre(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req GenreRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, r, err)
		return
	}

	out, err := h.genres.Update.Execute(r.Context(), usecase.UpdateGenreCommand{
		ID:         chi.URLParam(r, "id"),
		Name:       req.Name,
		Active:     isActive(req.IsActive),
		Categories: req.Categories,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, out)
}

// DeleteGenre handles DELETE /genres/{id}
func (h *GenreHandler) DeleteGenre(w http.ResponseWriter, r *http.Request) {
	if err := h.genres.Delete.Execute(r.Context(), chi.URLParam(r, "id")); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteNoContent(w)
}
