package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/catalog/internal/usecase"
	"github.com/utafrali/catalog/pkg/httputil"
	"github.com/utafrali/catalog/pkg/validator"
)

// CategoryHandler handles HTTP requests for category endpoints.
type CategoryHandler struct {
	categories *usecase.Categories
	logger     *slog.Logger
}

// NewCategoryHandler creates a new category HTTP handler.
func NewCategoryHandler(categories *usecase.Categories, logger *slog.Logger) *CategoryHandler {
	return &CategoryHandler{
		categories: categories,
		logger:     logger,
	}
}

// --- Request DTOs ---

// CategoryRequest is the JSON request body for creating or updating a
// category. Name rules are enforced by the domain, so an invalid name
// yields 422 rather than 400.
type CategoryRequest struct {
	Name        *string `json:"name"`
	Description string  `json:"description" validate:"max=4000"`
	IsActive    *bool   `json:"is_active"`
}

// --- Handlers ---

// CreateCategory handles POST /categories
func (h *CategoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req CategoryRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, r, err)
		return
	}

	out, err := h.categories.Create.Execute(r.Context(), usecase.CreateCategoryCommand{
		Name:        req.Name,
		Description: req.Description,
		Active:      isActive(req.IsActive),
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	w.Header().Set("Location", "/categories/"+out.ID)
	httputil.WriteJSON(w, http.StatusCreated, out)
}

// ListCategories handles GET /categories?search=&page=&perPage=&sort=&dir=
func (h *CategoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	q, err := parseSearchQuery(r)
	if err != nil {
		httputil.WriteValidationError(w, r, err)
		return
	}

	page, err := h.categories.List.Execute(r.Context(), q)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, page)
}

// GetCategory handles GET /categories/{id}
func (h *CategoryHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	out, err := h.categories.Get.Execute(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, out)
}

// UpdateCategory handles PUT /categories/{id}
func (h *CategoryHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req CategoryRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, r, err)
		return
	}

	out, err := h.categories.Update.Execute(r.Context(), usecase.UpdateCategoryCommand{
		ID:          chi.URLParam(r, "id"),
		Name:        req.Name,
		Description: req.Description,
		Active:      isActive(req.IsActive),
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, out)
}

// DeleteCategory handles DELETE /categories/{id}
func (h *CategoryHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.categories.Delete.Execute(r.Context(), chi.URLParam(r, "id")); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteNoContent(w)
}
