package repository

import (
	"catalog-api/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	User     UserRepository
	Token    TokenRepository
	Category CategoryRepository
	Product  ProductRepository
	Tx       Transactor
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	repo := newRepository(db, log)
	repo.Tx = &pgTransactor{db: db, log: log.With(zap.String("repository", "tx"))}
	return repo
}

// newRepository binds every repository to q, which is either the pool or an
// open transaction.
func newRepository(q database.Querier, log *zap.Logger) *Repository {
	return &Repository{
		User:     NewUserRepository(q, log),
		Token:    NewTokenRepository(q, log),
		Category: NewCategoryRepository(q, log),
		Product:  NewProductRepository(q, log),
	}
}
