package adaptor

import (
	"net/http"

	"catalog-api/internal/dto/request"
	"catalog-api/internal/dto/response"
	"catalog-api/internal/usecase"
	"catalog-api/pkg/utils"

	"go.uber.org/zap"
)

type CategoryHandler struct {
	service usecase.CategoryService
	debug   bool
	log     *zap.Logger
}

func NewCategoryHandler(service usecase.CategoryService, config *utils.Config, log *zap.Logger) *CategoryHandler {
	return &CategoryHandler{
		service: service,
		debug:   config.App.Debug,
		log:     log.With(zap.String("handler", "category")),
	}
}

// List handles GET /api/categories
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.List(r.Context())
	if err != nil {
		writeError(w, h.log, err, "list categories", h.debug)
		return
	}

	utils.ResponseSuccess(w, "Categories retrieved successfully", categories)
}

// Create handles POST /api/categories
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CategoryRequest
	if !decodeJSON(r, &req) {
		invalidBody(w)
		return
	}

	category, err := h.service.Create(r.Context(), &req)
	if err != nil {
		writeError(w, h.log, err, "create category", h.debug)
		return
	}

	utils.ResponseCreated(w, "Category created successfully", response.CategoryDataResponse{Category: *category})
}

// Get handles GET /api/categories/{id}
func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "category")
	if !ok {
		return
	}

	category, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeError(w, h.log, err, "get category", h.debug)
		return
	}

	utils.ResponseSuccess(w, "Category retrieved successfully", response.CategoryDataResponse{Category: *category})
}

// Update handles PUT /api/categories/{id}
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "category")
	if !ok {
		return
	}

	var req request.CategoryUpdateRequest
	if !decodeJSON(r, &req) {
		invalidBody(w)
		return
	}

	category, err := h.service.Update(r.Context(), id, &req)
	if err != nil {
		writeError(w, h.log, err, "update category", h.debug)
		return
	}

	utils.ResponseSuccess(w, "Category updated successfully", response.CategoryDataResponse{Category: *category})
}

// Delete handles DELETE /api/categories/{id}
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "category")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeError(w, h.log, err, "delete category", h.debug)
		return
	}

	utils.ResponseSuccess(w, "Category deleted successfully", nil)
}
