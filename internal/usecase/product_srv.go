package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"

	"catalog-api/internal/data/entity"
	"catalog-api/internal/data/repository"
	"catalog-api/internal/dto/request"
	"catalog-api/internal/dto/response"
	"catalog-api/pkg/storage"
	"catalog-api/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ThumbnailDir is the blob directory for product thumbnails.
const ThumbnailDir = "thumbnails"

type ProductService interface {
	List(ctx context.Context, categoryID *int64) (*response.ProductListResponse, error)
	Create(ctx context.Context, req *request.ProductRequest) (*response.ProductResponse, error)
	Get(ctx context.Context, id int64) (*response.ProductResponse, error)
	Update(ctx context.Context, id int64, req *request.ProductUpdateRequest) (*response.ProductResponse, error)
	Delete(ctx context.Context, id int64) error
}

type productService struct {
	repo   *repository.Repository
	blobs  storage.BlobStore
	config *utils.Config
	log    *zap.Logger
}

func NewProductService(repo *repository.Repository, blobs storage.BlobStore, config *utils.Config, log *zap.Logger) ProductService {
	return &productService{
		repo:   repo,
		blobs:  blobs,
		config: config,
		log:    log.With(zap.String("service", "product")),
	}
}

func errProductNotFound() error {
	return utils.NewNotFound("Product not found", "The requested product does not exist.")
}

// ThumbnailTooLarge is the 413 returned when an upload exceeds maxBytes.
func ThumbnailTooLarge(maxBytes int64) error {
	return utils.NewPayloadTooLarge("File too large",
		fmt.Sprintf("The thumbnail file size must not exceed %s.", utils.FormatSize(maxBytes)))
}

func errUnknownCategory() error {
	return utils.NewValidation(map[string]string{
		"category_id": "The selected category id is invalid.",
	})
}

func (s *productService) List(ctx context.Context, categoryID *int64) (*response.ProductListResponse, error) {
	products, err := s.repo.Product.FindAll(ctx, categoryID)
	if err != nil {
		return nil, asServiceError(s.log, err, "Failed to retrieve products",
			"An error occurred while fetching products. Please try again later.")
	}

	resp := response.ProductsToResponse(products, s.config.AssetBase())
	return &resp, nil
}

func (s *productService) Get(ctx context.Context, id int64) (*response.ProductResponse, error) {
	product, err := s.repo.Product.FindByID(ctx, id)
	if err != nil {
		return nil, asServiceError(s.log, err, "Failed to retrieve product",
			"An error occurred while fetching the product. Please try again later.")
	}
	if product == nil {
		return nil, errProductNotFound()
	}

	resp := response.ProductToResponse(product, s.config.AssetBase())
	return &resp, nil
}

func (s *productService) Create(ctx context.Context, req *request.ProductRequest) (*response.ProductResponse, error) {
	const failMsg, failDetail = "Failed to create product", "An error occurred while creating the product. Please try again later."

	// 1. Validasi input
	if errs := utils.ValidateStruct(req); errs != nil {
		return nil, utils.NewValidation(errs)
	}

	// 2. Category harus ada sebelum file diupload
	if err := s.ensureCategory(ctx, req.CategoryID); err != nil {
		return nil, asServiceError(s.log, err, failMsg, failDetail)
	}

	// 3. Upload thumbnail di luar transaksi
	var thumbnail string
	if req.Thumbnail != nil {
		stored, err := s.storeThumbnail(ctx, req.Thumbnail)
		if err != nil {
			return nil, err
		}
		thumbnail = stored
	}

	product := &entity.Product{
		Name:        req.Name,
		Description: req.Description,
		CategoryID:  req.CategoryID,
	}
	if thumbnail != "" {
		product.Thumbnail = &thumbnail
	}

	// 4. Simpan product
	err := s.repo.Tx.WithinTx(ctx, func(tx *repository.Repository) error {
		category, err := tx.Category.FindByID(ctx, req.CategoryID)
		if err != nil {
			return err
		}
		if category == nil {
			return errUnknownCategory()
		}
		product.Category = category

		if err := tx.Product.Create(ctx, product); err != nil {
			if repository.IsForeignKeyViolation(err) {
				return errUnknownCategory()
			}
			return err
		}
		return nil
	})
	if err != nil {
		s.releaseBlob(ctx, thumbnail)
		return nil, asServiceError(s.log, err, failMsg, failDetail)
	}

	s.log.Info("Product created",
		zap.Int64("product_id", product.ID),
		zap.Int64("category_id", product.CategoryID))

	resp := response.ProductToResponse(product, s.config.AssetBase())
	return &resp, nil
}

func (s *productService) Update(ctx context.Context, id int64, req *request.ProductUpdateRequest) (*response.ProductResponse, error) {
	const failMsg, failDetail = "Failed to update product", "An error occurred while updating the product. Please try again later."

	if errs := utils.ValidateStruct(req); errs != nil {
		return nil, utils.NewValidation(errs)
	}
	if req.IsEmpty() {
		return nil, errNoDataToUpdate()
	}

	existing, err := s.repo.Product.FindByID(ctx, id)
	if err != nil {
		return nil, asServiceError(s.log, err, failMsg, failDetail)
	}
	if existing == nil {
		return nil, errProductNotFound()
	}
	if req.CategoryID != nil {
		if err := s.ensureCategory(ctx, *req.CategoryID); err != nil {
			return nil, asServiceError(s.log, err, failMsg, failDetail)
		}
	}

	var thumbnail string
	if req.Thumbnail != nil {
		stored, err := s.storeThumbnail(ctx, req.Thumbnail)
		if err != nil {
			return nil, err
		}
		thumbnail = stored
	}

	var product *entity.Product
	var previous string
	err = s.repo.Tx.WithinTx(ctx, func(tx *repository.Repository) error {
		found, err := tx.Product.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if found == nil {
			return errProductNotFound()
		}

		if req.CategoryID != nil && *req.CategoryID != found.CategoryID {
			category, err := tx.Category.FindByID(ctx, *req.CategoryID)
			if err != nil {
				return err
			}
			if category == nil {
				return errUnknownCategory()
			}
			found.CategoryID = category.ID
			found.Category = category
		}
		if req.Name != nil {
			found.Name = *req.Name
		}
		if req.Description != nil {
			found.Description = req.Description
		}
		if thumbnail != "" {
			if found.Thumbnail != nil {
				previous = *found.Thumbnail
			}
			found.Thumbnail = &thumbnail
		}

		if err := tx.Product.Update(ctx, found); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return errProductNotFound()
			}
			if repository.IsForeignKeyViolation(err) {
				return errUnknownCategory()
			}
			return err
		}

		product = found
		return nil
	})
	if err != nil {
		s.releaseBlob(ctx, thumbnail)
		return nil, asServiceError(s.log, err, failMsg, failDetail)
	}

	// The replaced blob goes only once the new path is committed
	s.releaseBlob(ctx, previous)

	s.log.Info("Product updated", zap.Int64("product_id", product.ID))

	resp := response.ProductToResponse(product, s.config.AssetBase())
	return &resp, nil
}

// Delete removes the product row and then releases its thumbnail.
func (s *productService) Delete(ctx context.Context, id int64) error {
	var thumbnail string
	err := s.repo.Tx.WithinTx(ctx, func(tx *repository.Repository) error {
		found, err := tx.Product.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if found == nil {
			return errProductNotFound()
		}
		if found.Thumbnail != nil {
			thumbnail = *found.Thumbnail
		}

		if err := tx.Product.Delete(ctx, id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return errProductNotFound()
			}
			return err
		}
		return nil
	})
	if err != nil {
		return asServiceError(s.log, err, "Failed to delete product",
			"An error occurred while deleting the product. Please try again later.")
	}

	s.releaseBlob(ctx, thumbnail)

	s.log.Info("Product deleted", zap.Int64("product_id", id))
	return nil
}

func (s *productService) ensureCategory(ctx context.Context, categoryID int64) error {
	category, err := s.repo.Category.FindByID(ctx, categoryID)
	if err != nil {
		return err
	}
	if category == nil {
		return errUnknownCategory()
	}
	return nil
}

// storeThumbnail checks the upload and writes it to the blob store under a
// fresh name, returning the relative blob path.
func (s *productService) storeThumbnail(ctx context.Context, upload *request.FileUpload) (string, error) {
	uploadFailed := func(err error) error {
		s.log.Error("Failed to upload thumbnail", zap.Error(err), zap.String("filename", upload.Filename))
		return utils.NewInternal("File upload failed", "An error occurred while uploading the thumbnail. Please try again.", err)
	}

	img, err := storage.InspectImage(upload.File, s.config.Storage.MaxThumbnailBytes)
	switch {
	case errors.Is(err, storage.ErrUnsupportedImage):
		return "", utils.NewValidation(map[string]string{
			"thumbnail": "The thumbnail field must be a file of type: jpeg, png, jpg, gif.",
		})
	case errors.Is(err, storage.ErrFileTooLarge):
		s.log.Warn("Thumbnail too large", zap.String("filename", upload.Filename), zap.Int64("size", upload.Size))
		return "", ThumbnailTooLarge(s.config.Storage.MaxThumbnailBytes)
	case errors.Is(err, storage.ErrCorruptImage):
		return "", utils.NewValidation(map[string]string{
			"thumbnail": "The thumbnail field must be an image.",
		})
	case err != nil:
		return "", uploadFailed(err)
	}

	blobPath := path.Join(ThumbnailDir, uuid.NewString()+img.Extension)
	if err := s.blobs.Put(ctx, blobPath, bytes.NewReader(img.Data)); err != nil {
		return "", uploadFailed(err)
	}

	s.log.Info("Thumbnail stored",
		zap.String("path", blobPath),
		zap.String("mime", img.MIME),
		zap.Int("width", img.Width),
		zap.Int("height", img.Height))
	return blobPath, nil
}

// releaseBlob deletes a stored thumbnail on a best-effort basis. External
// URLs are not ours to delete.
func (s *productService) releaseBlob(ctx context.Context, blobPath string) {
	if blobPath == "" || storage.IsAbsoluteURL(blobPath) {
		return
	}
	if err := s.blobs.Delete(ctx, blobPath); err != nil {
		s.log.Warn("Failed to delete thumbnail", zap.Error(err), zap.String("path", blobPath))
	}
}
