package adaptor

import (
	"net/http"

	"catalog-api/internal/dto/request"
	"catalog-api/internal/dto/response"
	"catalog-api/internal/usecase"
	"catalog-api/pkg/utils"

	"go.uber.org/zap"
)

type UserHandler struct {
	service usecase.UserService
	debug   bool
	log     *zap.Logger
}

func NewUserHandler(service usecase.UserService, config *utils.Config, log *zap.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		debug:   config.App.Debug,
		log:     log.With(zap.String("handler", "user")),
	}
}

// Me handles GET /api/user
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := currentIdentity(w, r)
	if !ok {
		return
	}

	user, err := h.service.GetSelf(r.Context(), identity)
	if err != nil {
		writeError(w, h.log, err, "get current user", h.debug)
		return
	}

	utils.ResponseSuccess(w, "User retrieved successfully", response.UserDataResponse{User: *user})
}

// Update handles PUT /api/user/update
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity, ok := currentIdentity(w, r)
	if !ok {
		return
	}

	var req request.UpdateUserRequest
	if !decodeJSON(r, &req) {
		invalidBody(w)
		return
	}

	user, err := h.service.UpdateSelf(r.Context(), identity, &req)
	if err != nil {
		writeError(w, h.log, err, "update current user", h.debug)
		return
	}

	utils.ResponseSuccess(w, "User updated successfully", response.UserDataResponse{User: *user})
}

// Delete handles DELETE /api/user/delete
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := currentIdentity(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteSelf(r.Context(), identity); err != nil {
		writeError(w, h.log, err, "delete current user", h.debug)
		return
	}

	utils.ResponseSuccess(w, "User deleted successfully", nil)
}
