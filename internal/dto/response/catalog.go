package response

import (
	"catalog-api/internal/data/entity"
	"catalog-api/pkg/storage"
	"time"
)

type CategoryResponse struct {
	ID        int64                 `json:"id"`
	Name      string                `json:"name"`
	Status    entity.CategoryStatus `json:"status"`
	CreatedAt time.Time             `json:"created_at"`
	UpdatedAt time.Time             `json:"updated_at"`
}

type CategoryDataResponse struct {
	Category CategoryResponse `json:"category"`
}

type CategoryListResponse struct {
	Categories []CategoryResponse `json:"categories"`
	Total      int                `json:"total"`
}

type ProductResponse struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Description *string           `json:"description"`
	Thumbnail   *string           `json:"thumbnail"`
	CategoryID  int64             `json:"category_id"`
	Category    *CategoryResponse `json:"category,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

type ProductDataResponse struct {
	Product ProductResponse `json:"product"`
}

type ProductListResponse struct {
	Products []ProductResponse `json:"products"`
	Total    int               `json:"total"`
}

func CategoryToResponse(category *entity.Category) CategoryResponse {
	return CategoryResponse{
		ID:        category.ID,
		Name:      category.Name,
		Status:    category.Status,
		CreatedAt: category.CreatedAt,
		UpdatedAt: category.UpdatedAt,
	}
}

func CategoriesToResponse(categories []*entity.Category) CategoryListResponse {
	out := make([]CategoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, CategoryToResponse(c))
	}
	return CategoryListResponse{Categories: out, Total: len(out)}
}

// ProductToResponse resolves the stored thumbnail against assetBase.
func ProductToResponse(product *entity.Product, assetBase string) ProductResponse {
	resp := ProductResponse{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		CategoryID:  product.CategoryID,
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}

	if product.Thumbnail != nil && *product.Thumbnail != "" {
		url := storage.PublicURL(assetBase, *product.Thumbnail)
		resp.Thumbnail = &url
	}

	if product.Category != nil {
		category := CategoryToResponse(product.Category)
		resp.Category = &category
	}

	return resp
}

func ProductsToResponse(products []*entity.Product, assetBase string) ProductListResponse {
	out := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, ProductToResponse(p, assetBase))
	}
	return ProductListResponse{Products: out, Total: len(out)}
}
