package usecase

import (
	"errors"

	"catalog-api/internal/data/repository"
	"catalog-api/pkg/storage"
	"catalog-api/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Token    TokenService
	Auth     AuthService
	User     UserService
	Category CategoryService
	Product  ProductService
}

func NewService(repo *repository.Repository, blobs storage.BlobStore, config *utils.Config, log *zap.Logger) *Service {
	tokens := NewTokenService(repo, log)
	return &Service{
		Token:    tokens,
		Auth:     NewAuthService(repo, tokens, config, log),
		User:     NewUserService(repo, tokens, config, log),
		Category: NewCategoryService(repo, log),
		Product:  NewProductService(repo, blobs, config, log),
	}
}

// asServiceError passes typed errors through unchanged and turns anything
// else into an internal error carrying the given envelope text.
func asServiceError(log *zap.Logger, err error, message, detail string) error {
	var appErr *utils.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	log.Error(message, zap.Error(err))
	return utils.NewInternal(message, detail, err)
}
