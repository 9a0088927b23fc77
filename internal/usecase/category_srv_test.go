package usecase

import (
	"testing"

	"catalog-api/internal/data/entity"
	"catalog-api/internal/dto/request"
	"catalog-api/internal/testutil"
	"catalog-api/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryCreate(t *testing.T) {
	f := newFixture(t)

	resp, err := f.service.Category.Create(ctx, &request.CategoryRequest{Name: "Drinks"})
	require.NoError(t, err)
	assert.Equal(t, entity.CategoryStatusActive, resp.Status, "status defaults to active")

	_, err = f.service.Category.Create(ctx, &request.CategoryRequest{Name: "Drinks", Status: ptr("inactive")})
	assertKind(t, err, utils.KindConflict)

	_, err = f.service.Category.Create(ctx, &request.CategoryRequest{Name: "Snacks", Status: ptr("archived")})
	appErr := assertKind(t, err, utils.KindValidation)
	assert.Contains(t, appErr.Fields, "status")

	_, _, categories, _ := f.store.Counts()
	assert.Equal(t, 1, categories)
}

func TestCategoryUpdate(t *testing.T) {
	f := newFixture(t)
	drinks := testutil.SeedCategory(t, f.store, "Drinks")
	testutil.SeedCategory(t, f.store, "Snacks")

	_, err := f.service.Category.Update(ctx, drinks.ID, &request.CategoryUpdateRequest{})
	assertKind(t, err, utils.KindBadRequest)

	_, err = f.service.Category.Update(ctx, drinks.ID, &request.CategoryUpdateRequest{Name: ptr("Snacks")})
	assertKind(t, err, utils.KindConflict)

	resp, err := f.service.Category.Update(ctx, drinks.ID, &request.CategoryUpdateRequest{Status: ptr("inactive")})
	require.NoError(t, err)
	assert.Equal(t, "Drinks", resp.Name)
	assert.Equal(t, entity.CategoryStatusInactive, resp.Status)

	_, err = f.service.Category.Update(ctx, 999, &request.CategoryUpdateRequest{Name: ptr("Other")})
	assertKind(t, err, utils.KindNotFound)
}

func TestCategoryDelete_RefusedWhileProductsReferenceIt(t *testing.T) {
	f := newFixture(t)
	category := testutil.SeedCategory(t, f.store, "Drinks")
	testutil.SeedProduct(t, f.store, "Cola", category.ID, nil)

	err := f.service.Category.Delete(ctx, category.ID)
	appErr := assertKind(t, err, utils.KindConflict)
	assert.Equal(t, "Category in use", appErr.Message)

	_, err = f.service.Category.Get(ctx, category.ID)
	assert.NoError(t, err)
}

func TestCategoryDelete(t *testing.T) {
	f := newFixture(t)
	category := testutil.SeedCategory(t, f.store, "Drinks")

	require.NoError(t, f.service.Category.Delete(ctx, category.ID))

	_, err := f.service.Category.Get(ctx, category.ID)
	assertKind(t, err, utils.KindNotFound)
	assertKind(t, f.service.Category.Delete(ctx, category.ID), utils.KindNotFound)
}
