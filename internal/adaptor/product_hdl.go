package adaptor

import (
	"errors"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"catalog-api/internal/dto/request"
	"catalog-api/internal/dto/response"
	"catalog-api/internal/usecase"
	"catalog-api/pkg/utils"

	"go.uber.org/zap"
)

// formOverhead is the room left for non-file multipart fields.
const formOverhead = 1 << 20

type ProductHandler struct {
	service  usecase.ProductService
	maxBytes int64
	debug    bool
	log      *zap.Logger
}

func NewProductHandler(service usecase.ProductService, config *utils.Config, log *zap.Logger) *ProductHandler {
	return &ProductHandler{
		service:  service,
		maxBytes: config.Storage.MaxThumbnailBytes,
		debug:    config.App.Debug,
		log:      log.With(zap.String("handler", "product")),
	}
}

// List handles GET /api/products?category_id=
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	var categoryID *int64
	if raw, present := r.URL.Query()["category_id"]; present {
		id, ok := utils.ParsePositiveID(raw[0])
		if !ok {
			utils.ResponseBadRequest(w, "Invalid category ID", "The provided category ID is invalid.")
			return
		}
		categoryID = &id
	}

	products, err := h.service.List(r.Context(), categoryID)
	if err != nil {
		writeError(w, h.log, err, "list products", h.debug)
		return
	}

	utils.ResponseSuccess(w, "Products retrieved successfully", products)
}

// Get handles GET /api/products/{id}
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "product")
	if !ok {
		return
	}

	product, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeError(w, h.log, err, "get product", h.debug)
		return
	}

	utils.ResponseSuccess(w, "Product retrieved successfully", response.ProductDataResponse{Product: *product})
}

// Create handles POST /api/products as multipart/form-data or JSON
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.ProductRequest

	if isMultipart(r) {
		form, cleanup, err := h.parseForm(w, r)
		if err != nil {
			writeError(w, h.log, err, "create product", h.debug)
			return
		}
		defer cleanup()

		req.Name = form.value("name")
		req.Description = form.optional("description")
		if id := form.optional("category_id"); id != nil && *id != "" {
			parsed, err := parseFormInt(*id)
			if err != nil {
				writeError(w, h.log, err, "create product", h.debug)
				return
			}
			req.CategoryID = parsed
		}
		req.Thumbnail = form.thumbnail
	} else if !decodeJSON(r, &req) {
		invalidBody(w)
		return
	}

	product, err := h.service.Create(r.Context(), &req)
	if err != nil {
		writeError(w, h.log, err, "create product", h.debug)
		return
	}

	utils.ResponseCreated(w, "Product created successfully", response.ProductDataResponse{Product: *product})
}

// Update handles POST /api/products/{id}. Only the supplied fields change.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "product")
	if !ok {
		return
	}

	var req request.ProductUpdateRequest

	if isMultipart(r) {
		form, cleanup, err := h.parseForm(w, r)
		if err != nil {
			writeError(w, h.log, err, "update product", h.debug)
			return
		}
		defer cleanup()

		req.Name = form.optional("name")
		req.Description = form.optional("description")
		if raw := form.optional("category_id"); raw != nil {
			parsed, err := parseFormInt(*raw)
			if err != nil {
				writeError(w, h.log, err, "update product", h.debug)
				return
			}
			req.CategoryID = &parsed
		}
		req.Thumbnail = form.thumbnail
	} else if !decodeJSON(r, &req) {
		invalidBody(w)
		return
	}

	product, err := h.service.Update(r.Context(), id, &req)
	if err != nil {
		writeError(w, h.log, err, "update product", h.debug)
		return
	}

	utils.ResponseSuccess(w, "Product updated successfully", response.ProductDataResponse{Product: *product})
}

// Delete handles DELETE /api/products/{id}
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "product")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeError(w, h.log, err, "delete product", h.debug)
		return
	}

	utils.ResponseSuccess(w, "Product deleted successfully", nil)
}

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}

type productForm struct {
	values    map[string][]string
	thumbnail *request.FileUpload
}

func (f *productForm) value(key string) string {
	if v := f.optional(key); v != nil {
		return *v
	}
	return ""
}

// optional returns nil when key was not sent at all.
func (f *productForm) optional(key string) *string {
	vs, ok := f.values[key]
	if !ok || len(vs) == 0 {
		return nil
	}
	v := strings.TrimSpace(vs[0])
	return &v
}

// parseForm reads the multipart body. The returned cleanup closes the
// uploaded file and removes temp files.
func (h *ProductHandler) parseForm(w http.ResponseWriter, r *http.Request) (*productForm, func(), error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+formOverhead)

	if err := r.ParseMultipartForm(h.maxBytes + formOverhead); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
			return nil, nil, usecase.ThumbnailTooLarge(h.maxBytes)
		}
		return nil, nil, utils.NewBadRequest("Invalid request body", "The multipart form could not be parsed.")
	}

	form := &productForm{values: r.MultipartForm.Value}
	cleanups := []func(){func() { _ = r.MultipartForm.RemoveAll() }}

	file, header, err := r.FormFile("thumbnail")
	switch {
	case errors.Is(err, http.ErrMissingFile):
	case err != nil:
		_ = r.MultipartForm.RemoveAll()
		return nil, nil, utils.NewInternal("File upload failed", "An error occurred while uploading the thumbnail. Please try again.", err)
	default:
		cleanups = append(cleanups, func() { _ = file.Close() })
		form.thumbnail = &request.FileUpload{
			Filename: header.Filename,
			Size:     header.Size,
			File:     file,
		}
	}

	cleanup := func() {
		for _, fn := range cleanups {
			fn()
		}
	}
	return form, cleanup, nil
}

func parseFormInt(value string) (int64, error) {
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, utils.NewValidation(map[string]string{
			"category_id": "The category id field must be an integer.",
		})
	}
	return n, nil
}
