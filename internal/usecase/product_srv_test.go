package usecase

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"catalog-api/internal/dto/request"
	"catalog-api/internal/testutil"
	"catalog-api/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func upload(data []byte) *request.FileUpload {
	return &request.FileUpload{Filename: "thumb.png", Size: int64(len(data)), File: bytes.NewReader(data)}
}

// blobPath strips the public prefix from a thumbnail URL.
func blobPath(t *testing.T, url *string) string {
	t.Helper()
	require.NotNil(t, url)
	require.True(t, strings.HasPrefix(*url, testutil.AssetURL+"/"), "unexpected url %q", *url)
	return strings.TrimPrefix(*url, testutil.AssetURL+"/")
}

func (f *fixture) storedThumbnails(t *testing.T) []os.DirEntry {
	t.Helper()
	entries, err := os.ReadDir(filepath.Join(f.dir, ThumbnailDir))
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(t, err)
	return entries
}

func TestProductCreate_UnknownCategory(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Product.Create(ctx, &request.ProductRequest{
		Name:       "Cola",
		CategoryID: 42,
		Thumbnail:  upload(testutil.PNG(t)),
	})
	appErr := assertKind(t, err, utils.KindValidation)
	assert.Equal(t, "The selected category id is invalid.", appErr.Fields["category_id"])

	_, _, _, products := f.store.Counts()
	assert.Zero(t, products)
	assert.Empty(t, f.storedThumbnails(t), "no upload before the category is known")
}

func TestProductCreate_WithThumbnail(t *testing.T) {
	f := newFixture(t)
	category := testutil.SeedCategory(t, f.store, "Drinks")

	resp, err := f.service.Product.Create(ctx, &request.ProductRequest{
		Name:        "Cola",
		Description: ptr("Fizzy"),
		CategoryID:  category.ID,
		Thumbnail:   upload(testutil.PNG(t)),
	})
	require.NoError(t, err)

	require.NotNil(t, resp.Category)
	assert.Equal(t, "Drinks", resp.Category.Name)

	path := blobPath(t, resp.Thumbnail)
	assert.True(t, strings.HasPrefix(path, ThumbnailDir+"/"))
	assert.True(t, strings.HasSuffix(path, ".png"))

	exists, err := f.blobs.Exists(ctx, path)
	require.NoError(t, err)
	assert.True(t, exists)

	got, err := f.service.Product.Get(ctx, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, *resp.Thumbnail, *got.Thumbnail)
}

func TestProductCreate_WithoutThumbnail(t *testing.T) {
	f := newFixture(t)
	category := testutil.SeedCategory(t, f.store, "Drinks")

	resp, err := f.service.Product.Create(ctx, &request.ProductRequest{Name: "Cola", CategoryID: category.ID})
	require.NoError(t, err)
	assert.Nil(t, resp.Thumbnail)
	assert.Nil(t, resp.Description)
}

func TestProductCreate_ThumbnailRejected(t *testing.T) {
	png := testutil.PNG(t)
	oversized := append(append([]byte{}, png...), make([]byte, 2048*1024)...)
	corrupt := append(append([]byte{}, png[:16]...), []byte("definitely not image data")...)

	tests := []struct {
		name   string
		data   []byte
		kind   utils.ErrorKind
		status int
	}{
		{"too large", oversized, utils.KindPayloadTooLarge, 413},
		{"not an image", []byte("plain text, not a picture"), utils.KindValidation, 422},
		{"corrupt image", corrupt, utils.KindValidation, 422},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			category := testutil.SeedCategory(t, f.store, "Drinks")

			_, err := f.service.Product.Create(ctx, &request.ProductRequest{
				Name:       "Cola",
				CategoryID: category.ID,
				Thumbnail:  upload(tt.data),
			})
			appErr := assertKind(t, err, tt.kind)
			assert.Equal(t, tt.status, appErr.Kind.Status())
			if tt.kind == utils.KindValidation {
				assert.Contains(t, appErr.Fields, "thumbnail")
			}

			_, _, _, products := f.store.Counts()
			assert.Zero(t, products)
			assert.Empty(t, f.storedThumbnails(t))
		})
	}
}

func TestProductCreate_FailedInsertReleasesBlob(t *testing.T) {
	f := newFixture(t)
	category := testutil.SeedCategory(t, f.store, "Drinks")
	f.store.FailProductCreate = testutil.ErrInjected

	_, err := f.service.Product.Create(ctx, &request.ProductRequest{
		Name:       "Cola",
		CategoryID: category.ID,
		Thumbnail:  upload(testutil.PNG(t)),
	})
	assertKind(t, err, utils.KindInternal)
	assert.ErrorIs(t, err, testutil.ErrInjected)

	assert.Empty(t, f.storedThumbnails(t))
}

func TestProductUpdate_ReplacesThumbnail(t *testing.T) {
	f := newFixture(t)
	category := testutil.SeedCategory(t, f.store, "Drinks")

	created, err := f.service.Product.Create(ctx, &request.ProductRequest{
		Name:       "Cola",
		CategoryID: category.ID,
		Thumbnail:  upload(testutil.PNG(t)),
	})
	require.NoError(t, err)
	oldPath := blobPath(t, created.Thumbnail)

	updated, err := f.service.Product.Update(ctx, created.ID, &request.ProductUpdateRequest{
		Thumbnail: upload(testutil.PNG(t)),
	})
	require.NoError(t, err)
	newPath := blobPath(t, updated.Thumbnail)
	assert.NotEqual(t, oldPath, newPath)
	assert.Equal(t, "Cola", updated.Name)

	exists, err := f.blobs.Exists(ctx, oldPath)
	require.NoError(t, err)
	assert.False(t, exists, "replaced blob is removed")

	exists, err = f.blobs.Exists(ctx, newPath)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestProductUpdate(t *testing.T) {
	f := newFixture(t)
	drinks := testutil.SeedCategory(t, f.store, "Drinks")
	snacks := testutil.SeedCategory(t, f.store, "Snacks")
	product := testutil.SeedProduct(t, f.store, "Cola", drinks.ID, nil)

	_, err := f.service.Product.Update(ctx, product.ID, &request.ProductUpdateRequest{})
	assertKind(t, err, utils.KindBadRequest)

	_, err = f.service.Product.Update(ctx, 999, &request.ProductUpdateRequest{Name: ptr("Tea")})
	assertKind(t, err, utils.KindNotFound)

	_, err = f.service.Product.Update(ctx, product.ID, &request.ProductUpdateRequest{CategoryID: ptr(int64(999))})
	appErr := assertKind(t, err, utils.KindValidation)
	assert.Contains(t, appErr.Fields, "category_id")

	resp, err := f.service.Product.Update(ctx, product.ID, &request.ProductUpdateRequest{CategoryID: &snacks.ID})
	require.NoError(t, err)
	assert.Equal(t, snacks.ID, resp.CategoryID)
	require.NotNil(t, resp.Category)
	assert.Equal(t, "Snacks", resp.Category.Name)
}

func TestProduct_AbsoluteThumbnailPassesThrough(t *testing.T) {
	f := newFixture(t)
	category := testutil.SeedCategory(t, f.store, "Drinks")
	external := "https://images.example.com/cola.png"
	product := testutil.SeedProduct(t, f.store, "Cola", category.ID, &external)

	resp, err := f.service.Product.Get(ctx, product.ID)
	require.NoError(t, err)
	require.NotNil(t, resp.Thumbnail)
	assert.Equal(t, external, *resp.Thumbnail)

	require.NoError(t, f.service.Product.Delete(ctx, product.ID))
}

func TestProductDelete_RemovesBlob(t *testing.T) {
	f := newFixture(t)
	category := testutil.SeedCategory(t, f.store, "Drinks")

	created, err := f.service.Product.Create(ctx, &request.ProductRequest{
		Name:       "Cola",
		CategoryID: category.ID,
		Thumbnail:  upload(testutil.PNG(t)),
	})
	require.NoError(t, err)
	path := blobPath(t, created.Thumbnail)

	require.NoError(t, f.service.Product.Delete(ctx, created.ID))

	exists, err := f.blobs.Exists(ctx, path)
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = f.service.Product.Get(ctx, created.ID)
	assertKind(t, err, utils.KindNotFound)
	assertKind(t, f.service.Product.Delete(ctx, created.ID), utils.KindNotFound)
}

func TestProductList_FiltersByCategory(t *testing.T) {
	f := newFixture(t)
	drinks := testutil.SeedCategory(t, f.store, "Drinks")
	snacks := testutil.SeedCategory(t, f.store, "Snacks")
	testutil.SeedProduct(t, f.store, "Cola", drinks.ID, nil)
	testutil.SeedProduct(t, f.store, "Tea", drinks.ID, nil)
	testutil.SeedProduct(t, f.store, "Chips", snacks.ID, nil)

	all, err := f.service.Product.List(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, all.Total)

	filtered, err := f.service.Product.List(ctx, &drinks.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, filtered.Total)
	for _, p := range filtered.Products {
		assert.Equal(t, drinks.ID, p.CategoryID)
	}
}

func TestProductCreate_TooLargeMessageFollowsLimit(t *testing.T) {
	f := newFixture(t)
	f.config.Storage.MaxThumbnailBytes = 16
	category := testutil.SeedCategory(t, f.store, "Drinks")

	_, err := f.service.Product.Create(ctx, &request.ProductRequest{
		Name:       "Cola",
		CategoryID: category.ID,
		Thumbnail:  upload(testutil.PNG(t)),
	})
	appErr := assertKind(t, err, utils.KindPayloadTooLarge)
	assert.Equal(t, "The thumbnail file size must not exceed 16 bytes.", appErr.Detail)
}

func TestProductCreate_FailedUploadWritesNoRow(t *testing.T) {
	f := newFixture(t)
	category := testutil.SeedCategory(t, f.store, "Drinks")
	f.faults.PutErr = testutil.ErrInjected

	_, err := f.service.Product.Create(ctx, &request.ProductRequest{
		Name:       "Cola",
		CategoryID: category.ID,
		Thumbnail:  upload(testutil.PNG(t)),
	})
	appErr := assertKind(t, err, utils.KindInternal)
	assert.Equal(t, "File upload failed", appErr.Message)

	_, _, _, products := f.store.Counts()
	assert.Zero(t, products)
	assert.Zero(t, f.store.Commits)
}

func TestProductUpdate_FailedUploadLeavesRowUntouched(t *testing.T) {
	f := newFixture(t)
	category := testutil.SeedCategory(t, f.store, "Drinks")
	product := testutil.SeedProduct(t, f.store, "Cola", category.ID, nil)
	f.faults.PutErr = testutil.ErrInjected

	_, err := f.service.Product.Update(ctx, product.ID, &request.ProductUpdateRequest{
		Name:      ptr("Tea"),
		Thumbnail: upload(testutil.PNG(t)),
	})
	assertKind(t, err, utils.KindInternal)

	stored, err := f.store.Repository().Product.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cola", stored.Name)
	assert.Nil(t, stored.Thumbnail)
	assert.Zero(t, f.store.Commits)
}

func TestProductUpdate_ReplacedBlobDeleteFailureIsNotFatal(t *testing.T) {
	f := newFixture(t)
	category := testutil.SeedCategory(t, f.store, "Drinks")

	created, err := f.service.Product.Create(ctx, &request.ProductRequest{
		Name:       "Cola",
		CategoryID: category.ID,
		Thumbnail:  upload(testutil.PNG(t)),
	})
	require.NoError(t, err)
	oldPath := blobPath(t, created.Thumbnail)

	f.faults.DeleteErr = testutil.ErrInjected
	updated, err := f.service.Product.Update(ctx, created.ID, &request.ProductUpdateRequest{
		Thumbnail: upload(testutil.PNG(t)),
	})
	require.NoError(t, err)
	newPath := blobPath(t, updated.Thumbnail)

	stored, err := f.store.Repository().Product.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.Thumbnail)
	assert.Equal(t, newPath, *stored.Thumbnail, "new path is committed")
	assert.Equal(t, []string{oldPath}, f.faults.Deletes)
}

func TestProductDelete_BlobDeleteFailureIsNotFatal(t *testing.T) {
	f := newFixture(t)
	category := testutil.SeedCategory(t, f.store, "Drinks")

	created, err := f.service.Product.Create(ctx, &request.ProductRequest{
		Name:       "Cola",
		CategoryID: category.ID,
		Thumbnail:  upload(testutil.PNG(t)),
	})
	require.NoError(t, err)
	path := blobPath(t, created.Thumbnail)

	f.faults.DeleteErr = testutil.ErrInjected
	require.NoError(t, f.service.Product.Delete(ctx, created.ID))

	_, _, _, products := f.store.Counts()
	assert.Zero(t, products)
	assert.Equal(t, []string{path}, f.faults.Deletes)

	exists, err := f.blobs.Exists(ctx, path)
	require.NoError(t, err)
	assert.True(t, exists, "blob is left behind")
}
