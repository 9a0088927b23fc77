package testutil

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"

	"catalog-api/internal/data/entity"
	"catalog-api/pkg/utils"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	AssetURL = "http://cdn.test/storage"
	Password = "password1"
)

// Config returns a configuration suitable for tests, with blobs under dir.
func Config(dir string) *utils.Config {
	return &utils.Config{
		App: utils.AppConfig{
			Name:     "catalog-api-test",
			URL:      "http://localhost:8080",
			AssetURL: AssetURL,
		},
		Storage: utils.StorageConfig{
			Path:              dir,
			MaxThumbnailBytes: 2048 * 1024,
		},
		Security: utils.SecurityConfig{
			BcryptCost: bcrypt.MinCost,
		},
	}
}

// SeedUser inserts a user whose password is Password.
func SeedUser(t *testing.T, store *Store, email string, role entity.UserRole) *entity.User {
	t.Helper()
	hash, err := utils.HashPassword(Password, bcrypt.MinCost)
	require.NoError(t, err)

	user := &entity.User{Name: "Test " + string(role), Email: email, PasswordHash: hash, Role: role}
	require.NoError(t, store.Repository().User.Create(context.Background(), user))
	return user
}

func SeedCategory(t *testing.T, store *Store, name string) *entity.Category {
	t.Helper()
	category := &entity.Category{Name: name, Status: entity.CategoryStatusActive}
	require.NoError(t, store.Repository().Category.Create(context.Background(), category))
	return category
}

func SeedProduct(t *testing.T, store *Store, name string, categoryID int64, thumbnail *string) *entity.Product {
	t.Helper()
	product := &entity.Product{Name: name, CategoryID: categoryID, Thumbnail: thumbnail}
	require.NoError(t, store.Repository().Product.Create(context.Background(), product))
	return product
}

// PNG returns a small valid PNG image.
func PNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	img.Set(1, 1, color.RGBA{G: 200, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}
