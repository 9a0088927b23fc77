// Package testutil provides in-memory implementations of the repository
// interfaces for service and HTTP tests.
package testutil

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"catalog-api/internal/data/entity"
	"catalog-api/internal/data/repository"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	errUnique     = &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"}
	errForeignKey = &pgconn.PgError{Code: "23503", Message: "violates foreign key constraint"}
)

// Store is a map backed datastore. Transactions snapshot every table and
// restore the snapshot when the callback fails.
type Store struct {
	mu sync.Mutex

	users      map[int64]entity.User
	tokens     map[int64]entity.Token
	categories map[int64]entity.Category
	products   map[int64]entity.Product
	nextID     int64

	// FailTokenCreate makes the next token inserts fail with this error.
	FailTokenCreate error
	// FailProductCreate makes product inserts fail with this error.
	FailProductCreate error
	// Commits counts transactions that committed.
	Commits int
}

func NewStore() *Store {
	return &Store{
		users:      make(map[int64]entity.User),
		tokens:     make(map[int64]entity.Token),
		categories: make(map[int64]entity.Category),
		products:   make(map[int64]entity.Product),
	}
}

// Repository returns repositories bound to the store.
func (s *Store) Repository() *repository.Repository {
	return &repository.Repository{
		User:     userRepo{s},
		Token:    tokenRepo{s},
		Category: categoryRepo{s},
		Product:  productRepo{s},
		Tx:       transactor{s},
	}
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

// Counts reports the number of rows per table.
func (s *Store) Counts() (users, tokens, categories, products int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users), len(s.tokens), len(s.categories), len(s.products)
}

// TokensOf returns the token rows owned by userID.
func (s *Store) TokensOf(userID int64) []entity.Token {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entity.Token
	for _, t := range s.tokens {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out
}

type snapshot struct {
	users      map[int64]entity.User
	tokens     map[int64]entity.Token
	categories map[int64]entity.Category
	products   map[int64]entity.Product
	nextID     int64
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *Store) snapshot() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshot{
		users:      copyMap(s.users),
		tokens:     copyMap(s.tokens),
		categories: copyMap(s.categories),
		products:   copyMap(s.products),
		nextID:     s.nextID,
	}
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = snap.users
	s.tokens = snap.tokens
	s.categories = snap.categories
	s.products = snap.products
	s.nextID = snap.nextID
}

type transactor struct{ s *Store }

func (t transactor) WithinTx(_ context.Context, fn func(tx *repository.Repository) error) (err error) {
	snap := t.s.snapshot()
	defer func() {
		if p := recover(); p != nil {
			t.s.restore(snap)
			panic(p)
		}
	}()

	if err := fn(t.s.Repository()); err != nil {
		t.s.restore(snap)
		return err
	}

	t.s.mu.Lock()
	t.s.Commits++
	t.s.mu.Unlock()
	return nil
}

func sortedKeys[V any](m map[int64]V) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// ==================== USERS ====================

type userRepo struct{ s *Store }

func (r userRepo) Create(_ context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == user.Email {
			return errUnique
		}
	}
	now := time.Now()
	user.ID = r.s.id()
	user.CreatedAt, user.UpdatedAt = now, now
	r.s.users[user.ID] = *user
	return nil
}

func (r userRepo) FindByID(_ context.Context, id int64) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r userRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

func (r userRepo) ExistsByEmail(_ context.Context, email string, excludeID int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r userRepo) FindAll(_ context.Context) ([]*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	users := make([]*entity.User, 0, len(r.s.users))
	for _, id := range sortedKeys(r.s.users) {
		u := r.s.users[id]
		users = append(users, &u)
	}
	return users, nil
}

func (r userRepo) CountAll(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.users)), nil
}

func (r userRepo) CountByRole(_ context.Context, role entity.UserRole) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, u := range r.s.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

func (r userRepo) Update(_ context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[user.ID]; !ok {
		return repository.ErrNotFound
	}
	for _, u := range r.s.users {
		if u.Email == user.Email && u.ID != user.ID {
			return errUnique
		}
	}
	user.UpdatedAt = time.Now()
	r.s.users[user.ID] = *user
	return nil
}

func (r userRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.users, id)
	// ON DELETE CASCADE
	for tid, t := range r.s.tokens {
		if t.UserID == id {
			delete(r.s.tokens, tid)
		}
	}
	return nil
}

// ==================== TOKENS ====================

type tokenRepo struct{ s *Store }

func (r tokenRepo) Create(_ context.Context, token *entity.Token) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.FailTokenCreate != nil {
		return r.s.FailTokenCreate
	}
	if _, ok := r.s.users[token.UserID]; !ok {
		return errForeignKey
	}
	for _, t := range r.s.tokens {
		if t.TokenHash == token.TokenHash {
			return errUnique
		}
	}
	token.ID = r.s.id()
	token.CreatedAt = time.Now()
	r.s.tokens[token.ID] = *token
	return nil
}

func (r tokenRepo) FindByHash(_ context.Context, hash string) (*entity.Token, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, t := range r.s.tokens {
		if t.TokenHash == hash {
			return &t, nil
		}
	}
	return nil, nil
}

func (r tokenRepo) TouchLastUsed(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.tokens[id]
	if !ok {
		return nil
	}
	now := time.Now()
	t.LastUsedAt = &now
	r.s.tokens[id] = t
	return nil
}

func (r tokenRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.tokens[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.tokens, id)
	return nil
}

func (r tokenRepo) DeleteByUserID(_ context.Context, userID int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, t := range r.s.tokens {
		if t.UserID == userID {
			delete(r.s.tokens, id)
			n++
		}
	}
	return n, nil
}

// ==================== CATEGORIES ====================

type categoryRepo struct{ s *Store }

func (r categoryRepo) Create(_ context.Context, category *entity.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.categories {
		if c.Name == category.Name {
			return errUnique
		}
	}
	now := time.Now()
	category.ID = r.s.id()
	category.CreatedAt, category.UpdatedAt = now, now
	r.s.categories[category.ID] = *category
	return nil
}

func (r categoryRepo) FindByID(_ context.Context, id int64) (*entity.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.categories[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r categoryRepo) ExistsByName(_ context.Context, name string, excludeID int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.categories {
		if c.Name == name && c.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r categoryRepo) FindAll(_ context.Context) ([]*entity.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.Category, 0, len(r.s.categories))
	for _, id := range sortedKeys(r.s.categories) {
		c := r.s.categories[id]
		out = append(out, &c)
	}
	return out, nil
}

func (r categoryRepo) Update(_ context.Context, category *entity.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.categories[category.ID]; !ok {
		return repository.ErrNotFound
	}
	for _, c := range r.s.categories {
		if c.Name == category.Name && c.ID != category.ID {
			return errUnique
		}
	}
	category.UpdatedAt = time.Now()
	r.s.categories[category.ID] = *category
	return nil
}

func (r categoryRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.categories[id]; !ok {
		return repository.ErrNotFound
	}
	// ON DELETE RESTRICT
	for _, p := range r.s.products {
		if p.CategoryID == id {
			return errForeignKey
		}
	}
	delete(r.s.categories, id)
	return nil
}

// ==================== PRODUCTS ====================

type productRepo struct{ s *Store }

// withCategory mimics the join done by the SQL repository. Caller holds mu.
func (r productRepo) withCategory(p entity.Product) *entity.Product {
	if c, ok := r.s.categories[p.CategoryID]; ok {
		p.Category = &c
	}
	return &p
}

func (r productRepo) Create(_ context.Context, product *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.FailProductCreate != nil {
		return r.s.FailProductCreate
	}
	if _, ok := r.s.categories[product.CategoryID]; !ok {
		return errForeignKey
	}
	now := time.Now()
	product.ID = r.s.id()
	product.CreatedAt, product.UpdatedAt = now, now
	row := *product
	row.Category = nil
	r.s.products[product.ID] = row
	return nil
}

func (r productRepo) FindByID(_ context.Context, id int64) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	return r.withCategory(p), nil
}

func (r productRepo) FindAll(_ context.Context, categoryID *int64) ([]*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.Product, 0, len(r.s.products))
	for _, id := range sortedKeys(r.s.products) {
		p := r.s.products[id]
		if categoryID != nil && p.CategoryID != *categoryID {
			continue
		}
		out = append(out, r.withCategory(p))
	}
	return out, nil
}

func (r productRepo) Update(_ context.Context, product *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[product.ID]; !ok {
		return repository.ErrNotFound
	}
	if _, ok := r.s.categories[product.CategoryID]; !ok {
		return errForeignKey
	}
	product.UpdatedAt = time.Now()
	row := *product
	row.Category = nil
	r.s.products[product.ID] = row
	return nil
}

func (r productRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.products, id)
	return nil
}

func (r productRepo) CountByCategoryID(_ context.Context, categoryID int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, p := range r.s.products {
		if p.CategoryID == categoryID {
			n++
		}
	}
	return n, nil
}

// ErrInjected is a generic failure for fault injection in tests.
var ErrInjected = errors.New("injected failure")
