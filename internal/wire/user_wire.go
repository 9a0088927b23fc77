package wire

import (
	"catalog-api/internal/adaptor"
	"catalog-api/internal/data/entity"
	"catalog-api/pkg/middleware"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// wireUser configures self-service routes of the authenticated user
func wireUser(r chi.Router, userHandler *adaptor.UserHandler, authenticate func(http.Handler) http.Handler) {
	r.With(authenticate).Route("/user", func(r chi.Router) {
		r.Get("/", userHandler.Me)              // GET /api/user
		r.Put("/update", userHandler.Update)    // PUT /api/user/update
		r.Delete("/delete", userHandler.Delete) // DELETE /api/user/delete
	})
}

// wireAdmin configures admin routes; both authentication AND admin role are required
func wireAdmin(r chi.Router, adminHandler *adaptor.AdminHandler, authenticate func(http.Handler) http.Handler, log *zap.Logger) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(authenticate)
		r.Use(middleware.RequireRole(entity.RoleAdmin, log.With(zap.String("middleware", "role"))))

		r.Get("/dashboard", adminHandler.Dashboard)

		r.Get("/users", adminHandler.ListUsers)
		r.Post("/users", adminHandler.CreateUser)
		r.Get("/users/{id}", adminHandler.GetUser)
		r.Put("/users/{id}", adminHandler.UpdateUser)
		r.Delete("/users/{id}", adminHandler.DeleteUser)
	})
}
