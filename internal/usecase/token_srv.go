package usecase

import (
	"context"
	"fmt"

	"catalog-api/internal/data/entity"
	"catalog-api/internal/data/repository"
	"catalog-api/pkg/utils"

	"go.uber.org/zap"
)

const defaultTokenName = "auth_token"

// TokenService issues and resolves personal access tokens. Issue and
// RevokeAll take the token repository explicitly so callers can run them
// inside their own transaction.
type TokenService interface {
	Issue(ctx context.Context, tokens repository.TokenRepository, userID int64) (string, error)
	Validate(ctx context.Context, plaintext string) (*utils.Identity, error)
	Revoke(ctx context.Context, tokenID int64) error
	RevokeAll(ctx context.Context, tokens repository.TokenRepository, userID int64) (int64, error)
}

type tokenService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewTokenService(repo *repository.Repository, log *zap.Logger) TokenService {
	return &tokenService{
		repo: repo,
		log:  log.With(zap.String("service", "token")),
	}
}

// Issue creates a new token for the user and returns its plaintext, which is
// never stored.
func (s *tokenService) Issue(ctx context.Context, tokens repository.TokenRepository, userID int64) (string, error) {
	plain, err := utils.GenerateToken()
	if err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}

	token := &entity.Token{
		UserID:    userID,
		Name:      defaultTokenName,
		TokenHash: utils.HashToken(plain),
	}
	if err := tokens.Create(ctx, token); err != nil {
		return "", fmt.Errorf("store token: %w", err)
	}

	s.log.Debug("Token issued", zap.Int64("user_id", userID), zap.Int64("token_id", token.ID))
	return plain, nil
}

// Validate resolves plaintext to its owner. It returns nil without error
// when the token is malformed, unknown or orphaned.
func (s *tokenService) Validate(ctx context.Context, plaintext string) (*utils.Identity, error) {
	if !utils.IsWellFormedToken(plaintext) {
		return nil, nil
	}

	token, err := s.repo.Token.FindByHash(ctx, utils.HashToken(plaintext))
	if err != nil {
		return nil, fmt.Errorf("find token: %w", err)
	}
	if token == nil {
		return nil, nil
	}

	user, err := s.repo.User.FindByID(ctx, token.UserID)
	if err != nil {
		return nil, fmt.Errorf("find token owner: %w", err)
	}
	if user == nil {
		return nil, nil
	}

	if err := s.repo.Token.TouchLastUsed(ctx, token.ID); err != nil {
		s.log.Warn("Failed to record token usage", zap.Error(err), zap.Int64("token_id", token.ID))
	}

	return &utils.Identity{User: user, TokenID: token.ID}, nil
}

func (s *tokenService) Revoke(ctx context.Context, tokenID int64) error {
	if err := s.repo.Token.Delete(ctx, tokenID); err != nil {
		return fmt.Errorf("revoke token %d: %w", tokenID, err)
	}
	return nil
}

func (s *tokenService) RevokeAll(ctx context.Context, tokens repository.TokenRepository, userID int64) (int64, error) {
	n, err := tokens.DeleteByUserID(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("revoke tokens of user %d: %w", userID, err)
	}
	return n, nil
}
