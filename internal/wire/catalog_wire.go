package wire

import (
	"catalog-api/internal/adaptor"
	"net/http"

	"github.com/go-chi/chi/v5"
)

func wireCategory(r chi.Router, categoryHandler *adaptor.CategoryHandler, authenticate func(http.Handler) http.Handler) {
	r.Route("/categories", func(r chi.Router) {
		// ==================== PUBLIC ROUTES ====================
		r.Get("/", categoryHandler.List)
		r.Get("/{id}", categoryHandler.Get)

		// ==================== PROTECTED ROUTES ====================
		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Post("/", categoryHandler.Create)
			r.Put("/{id}", categoryHandler.Update)
			r.Delete("/{id}", categoryHandler.Delete)
		})
	})
}

func wireProduct(r chi.Router, productHandler *adaptor.ProductHandler, authenticate func(http.Handler) http.Handler) {
	r.Route("/products", func(r chi.Router) {
		// ==================== PUBLIC ROUTES ====================
		r.Get("/", productHandler.List)
		r.Get("/{id}", productHandler.Get)

		// ==================== PROTECTED ROUTES ====================
		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Post("/", productHandler.Create)
			r.Post("/{id}", productHandler.Update)
			r.Delete("/{id}", productHandler.Delete)
		})
	})
}
