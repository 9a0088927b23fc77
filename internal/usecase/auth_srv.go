package usecase

import (
	"context"
	"errors"
	"fmt"

	"catalog-api/internal/data/entity"
	"catalog-api/internal/data/repository"
	"catalog-api/internal/dto/request"
	"catalog-api/internal/dto/response"
	"catalog-api/pkg/utils"

	"go.uber.org/zap"
)

type AuthService interface {
	Register(ctx context.Context, req *request.RegisterRequest) (*response.AuthResponse, error)
	Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error)
	Logout(ctx context.Context, identity *utils.Identity) error
}

type authService struct {
	repo   *repository.Repository
	tokens TokenService
	config *utils.Config
	log    *zap.Logger
}

func NewAuthService(
	repo *repository.Repository,
	tokens TokenService,
	config *utils.Config,
	log *zap.Logger,
) AuthService {
	return &authService{
		repo:   repo,
		tokens: tokens,
		config: config,
		log:    log.With(zap.String("service", "auth")),
	}
}

var errInvalidCredentials = utils.NewUnauthenticated("Invalid credentials", "The provided credentials are incorrect.")

func (s *authService) Register(ctx context.Context, req *request.RegisterRequest) (*response.AuthResponse, error) {
	// 1. Validasi input
	if errs := utils.ValidateStruct(req); errs != nil {
		s.log.Warn("Register validation failed", zap.Any("errors", errs))
		return nil, utils.NewValidation(errs)
	}

	// 2. Cek email sudah terdaftar
	exists, err := s.repo.User.ExistsByEmail(ctx, req.Email, 0)
	if err != nil {
		return nil, registrationFailed(err)
	}
	if exists {
		return nil, errUserExists()
	}

	// 3. Hash password
	hashedPassword, err := utils.HashPassword(req.Password, s.config.Security.BcryptCost)
	if err != nil {
		return nil, registrationFailed(fmt.Errorf("hash password: %w", err))
	}

	user := &entity.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hashedPassword,
		Role:         entity.RoleUser,
	}

	// 4. User dan token dibuat dalam satu transaksi
	var plain string
	err = s.repo.Tx.WithinTx(ctx, func(tx *repository.Repository) error {
		if err := tx.User.Create(ctx, user); err != nil {
			return err
		}
		token, err := s.tokens.Issue(ctx, tx.Token, user.ID)
		if err != nil {
			return err
		}
		plain = token
		return nil
	})
	if repository.IsUniqueViolation(err) {
		return nil, errUserExists()
	}
	if err != nil {
		s.log.Error("Failed to register user", zap.Error(err), zap.String("email", req.Email))
		return nil, registrationFailed(err)
	}

	s.log.Info("User registered",
		zap.Int64("user_id", user.ID),
		zap.String("email", user.Email))

	resp := response.AuthToResponse(user, plain)
	return &resp, nil
}

func (s *authService) Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error) {
	if errs := utils.ValidateStruct(req); errs != nil {
		return nil, utils.NewValidation(errs)
	}

	user, err := s.repo.User.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, loginFailed(err)
	}

	// Unknown email and wrong password must be indistinguishable
	if user == nil {
		s.log.Warn("Login with unknown email", zap.String("email", req.Email))
		return nil, errInvalidCredentials
	}
	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		s.log.Warn("Invalid password", zap.Int64("user_id", user.ID))
		return nil, errInvalidCredentials
	}

	plain, err := s.tokens.Issue(ctx, s.repo.Token, user.ID)
	if err != nil {
		s.log.Error("Failed to issue token", zap.Error(err), zap.Int64("user_id", user.ID))
		return nil, loginFailed(err)
	}

	s.log.Info("User logged in", zap.Int64("user_id", user.ID))

	resp := response.AuthToResponse(user, plain)
	return &resp, nil
}

// Logout revokes only the token presented on the current request.
func (s *authService) Logout(ctx context.Context, identity *utils.Identity) error {
	err := s.tokens.Revoke(ctx, identity.TokenID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		s.log.Error("Failed to revoke token", zap.Error(err), zap.Int64("token_id", identity.TokenID))
		return utils.NewInternal("Logout failed", "An error occurred while logging out. Please try again later.", err)
	}

	s.log.Info("User logged out", zap.Int64("user_id", identity.UserID()))
	return nil
}

func errUserExists() error {
	return utils.NewConflict("User already exists", "A user with this email address already exists.")
}

func registrationFailed(err error) error {
	return utils.NewInternal("Registration failed", "An error occurred while registering. Please try again later.", err)
}

func loginFailed(err error) error {
	return utils.NewInternal("Login failed", "An error occurred while logging in. Please try again later.", err)
}
