package adaptor

import (
	"catalog-api/internal/usecase"
	"catalog-api/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Auth     *AuthHandler
	User     *UserHandler
	Admin    *AdminHandler
	Category *CategoryHandler
	Product  *ProductHandler
}

func NewHandler(service *usecase.Service, config *utils.Config, log *zap.Logger) *Handler {
	return &Handler{
		Auth:     NewAuthHandler(service.Auth, config, log),
		User:     NewUserHandler(service.User, config, log),
		Admin:    NewAdminHandler(service.User, config, log),
		Category: NewCategoryHandler(service.Category, config, log),
		Product:  NewProductHandler(service.Product, config, log),
	}
}
