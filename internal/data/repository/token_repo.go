package repository

import (
	"context"
	"errors"
	"fmt"

	"catalog-api/internal/data/entity"
	"catalog-api/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type TokenRepository interface {
	Create(ctx context.Context, token *entity.Token) error
	FindByHash(ctx context.Context, hash string) (*entity.Token, error)
	TouchLastUsed(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
	DeleteByUserID(ctx context.Context, userID int64) (int64, error)
}

type tokenRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewTokenRepository(db database.Querier, log *zap.Logger) TokenRepository {
	return &tokenRepository{
		db:  db,
		log: log.With(zap.String("repository", "token")),
	}
}

func (r *tokenRepository) Create(ctx context.Context, token *entity.Token) error {
	query := `
		INSERT INTO personal_access_tokens (user_id, name, token_hash)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		token.UserID,
		token.Name,
		token.TokenHash,
	).Scan(&token.ID, &token.CreatedAt)

	if err != nil {
		r.log.Error("Failed to create token",
			zap.Error(err),
			zap.Int64("user_id", token.UserID),
		)
		return fmt.Errorf("failed to create token: %w", err)
	}

	return nil
}

func (r *tokenRepository) FindByHash(ctx context.Context, hash string) (*entity.Token, error) {
	query := `
		SELECT id, user_id, name, token_hash, last_used_at, created_at
		FROM personal_access_tokens
		WHERE token_hash = $1
	`

	var token entity.Token
	err := r.db.QueryRow(ctx, query, hash).Scan(
		&token.ID,
		&token.UserID,
		&token.Name,
		&token.TokenHash,
		&token.LastUsedAt,
		&token.CreatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find token", zap.Error(err))
		return nil, fmt.Errorf("failed to find token: %w", err)
	}

	return &token, nil
}

func (r *tokenRepository) TouchLastUsed(ctx context.Context, id int64) error {
	query := `UPDATE personal_access_tokens SET last_used_at = NOW() WHERE id = $1`

	if _, err := r.db.Exec(ctx, query, id); err != nil {
		r.log.Error("Failed to touch token",
			zap.Error(err),
			zap.Int64("token_id", id),
		)
		return fmt.Errorf("failed to touch token: %w", err)
	}

	return nil
}

func (r *tokenRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM personal_access_tokens WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to revoke token",
			zap.Error(err),
			zap.Int64("token_id", id),
		)
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// DeleteByUserID revokes every token of the user and returns how many were removed
func (r *tokenRepository) DeleteByUserID(ctx context.Context, userID int64) (int64, error) {
	query := `DELETE FROM personal_access_tokens WHERE user_id = $1`

	result, err := r.db.Exec(ctx, query, userID)
	if err != nil {
		r.log.Error("Failed to revoke all user tokens",
			zap.Error(err),
			zap.Int64("user_id", userID),
		)
		return 0, fmt.Errorf("failed to revoke tokens: %w", err)
	}

	return result.RowsAffected(), nil
}
