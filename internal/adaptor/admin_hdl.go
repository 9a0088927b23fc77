package adaptor

import (
	"net/http"

	"catalog-api/internal/dto/request"
	"catalog-api/internal/dto/response"
	"catalog-api/internal/usecase"
	"catalog-api/pkg/utils"

	"go.uber.org/zap"
)

// AdminHandler serves /api/admin; every route requires the admin role.
type AdminHandler struct {
	service usecase.UserService
	debug   bool
	log     *zap.Logger
}

func NewAdminHandler(service usecase.UserService, config *utils.Config, log *zap.Logger) *AdminHandler {
	return &AdminHandler{
		service: service,
		debug:   config.App.Debug,
		log:     log.With(zap.String("handler", "admin")),
	}
}

// Dashboard handles GET /api/admin/dashboard
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Dashboard(r.Context())
	if err != nil {
		writeError(w, h.log, err, "get dashboard stats", h.debug)
		return
	}

	utils.ResponseSuccess(w, "Dashboard stats retrieved successfully", stats)
}

// ListUsers handles GET /api/admin/users
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		writeError(w, h.log, err, "list users", h.debug)
		return
	}

	utils.ResponseSuccess(w, "Users retrieved successfully", users)
}

// GetUser handles GET /api/admin/users/{id}
func (h *AdminHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "user")
	if !ok {
		return
	}

	user, err := h.service.GetUser(r.Context(), id)
	if err != nil {
		writeError(w, h.log, err, "get user", h.debug)
		return
	}

	utils.ResponseSuccess(w, "User retrieved successfully", response.UserDataResponse{User: *user})
}

// CreateUser handles POST /api/admin/users
func (h *AdminHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req request.CreateUserRequest
	if !decodeJSON(r, &req) {
		invalidBody(w)
		return
	}

	user, err := h.service.CreateUser(r.Context(), &req)
	if err != nil {
		writeError(w, h.log, err, "create user", h.debug)
		return
	}

	utils.ResponseCreated(w, "User created successfully", response.UserDataResponse{User: *user})
}

// UpdateUser handles PUT /api/admin/users/{id}
func (h *AdminHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "user")
	if !ok {
		return
	}

	var req request.AdminUpdateUserRequest
	if !decodeJSON(r, &req) {
		invalidBody(w)
		return
	}

	user, err := h.service.UpdateUser(r.Context(), id, &req)
	if err != nil {
		writeError(w, h.log, err, "update user", h.debug)
		return
	}

	utils.ResponseSuccess(w, "User updated successfully", response.UserDataResponse{User: *user})
}

// DeleteUser handles DELETE /api/admin/users/{id}
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	identity, ok := currentIdentity(w, r)
	if !ok {
		return
	}

	id, ok := pathID(w, r, "user")
	if !ok {
		return
	}

	if err := h.service.DeleteUser(r.Context(), identity, id); err != nil {
		writeError(w, h.log, err, "delete user", h.debug)
		return
	}

	utils.ResponseSuccess(w, "User deleted successfully", nil)
}
