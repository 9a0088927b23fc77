package usecase

import (
	"context"
	"errors"

	"catalog-api/internal/data/entity"
	"catalog-api/internal/data/repository"
	"catalog-api/internal/dto/request"
	"catalog-api/internal/dto/response"
	"catalog-api/pkg/utils"

	"go.uber.org/zap"
)

type CategoryService interface {
	List(ctx context.Context) (*response.CategoryListResponse, error)
	Create(ctx context.Context, req *request.CategoryRequest) (*response.CategoryResponse, error)
	Get(ctx context.Context, id int64) (*response.CategoryResponse, error)
	Update(ctx context.Context, id int64, req *request.CategoryUpdateRequest) (*response.CategoryResponse, error)
	Delete(ctx context.Context, id int64) error
}

type categoryService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewCategoryService(repo *repository.Repository, log *zap.Logger) CategoryService {
	return &categoryService{
		repo: repo,
		log:  log.With(zap.String("service", "category")),
	}
}

func errCategoryNotFound() error {
	return utils.NewNotFound("Category not found", "The requested category does not exist.")
}

func errCategoryExists() error {
	return utils.NewConflict("Category already exists", "A category with this name already exists.")
}

func (s *categoryService) List(ctx context.Context) (*response.CategoryListResponse, error) {
	categories, err := s.repo.Category.FindAll(ctx)
	if err != nil {
		return nil, asServiceError(s.log, err, "Failed to retrieve categories",
			"An error occurred while fetching categories. Please try again later.")
	}

	resp := response.CategoriesToResponse(categories)
	return &resp, nil
}

func (s *categoryService) Create(ctx context.Context, req *request.CategoryRequest) (*response.CategoryResponse, error) {
	if errs := utils.ValidateStruct(req); errs != nil {
		return nil, utils.NewValidation(errs)
	}

	category := &entity.Category{
		Name:   req.Name,
		Status: entity.CategoryStatusActive,
	}
	if req.Status != nil {
		category.Status = entity.CategoryStatus(*req.Status)
	}

	err := s.repo.Tx.WithinTx(ctx, func(tx *repository.Repository) error {
		exists, err := tx.Category.ExistsByName(ctx, category.Name, 0)
		if err != nil {
			return err
		}
		if exists {
			return errCategoryExists()
		}
		return tx.Category.Create(ctx, category)
	})
	if repository.IsUniqueViolation(err) {
		return nil, errCategoryExists()
	}
	if err != nil {
		return nil, asServiceError(s.log, err, "Failed to create category",
			"An error occurred while creating the category. Please try again later.")
	}

	s.log.Info("Category created", zap.Int64("category_id", category.ID), zap.String("name", category.Name))

	resp := response.CategoryToResponse(category)
	return &resp, nil
}

func (s *categoryService) Get(ctx context.Context, id int64) (*response.CategoryResponse, error) {
	category, err := s.repo.Category.FindByID(ctx, id)
	if err != nil {
		return nil, asServiceError(s.log, err, "Failed to retrieve category",
			"An error occurred while fetching the category. Please try again later.")
	}
	if category == nil {
		return nil, errCategoryNotFound()
	}

	resp := response.CategoryToResponse(category)
	return &resp, nil
}

func (s *categoryService) Update(ctx context.Context, id int64, req *request.CategoryUpdateRequest) (*response.CategoryResponse, error) {
	if errs := utils.ValidateStruct(req); errs != nil {
		return nil, utils.NewValidation(errs)
	}
	if req.IsEmpty() {
		return nil, errNoDataToUpdate()
	}

	var category *entity.Category
	err := s.repo.Tx.WithinTx(ctx, func(tx *repository.Repository) error {
		found, err := tx.Category.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if found == nil {
			return errCategoryNotFound()
		}

		if req.Name != nil && *req.Name != found.Name {
			exists, err := tx.Category.ExistsByName(ctx, *req.Name, id)
			if err != nil {
				return err
			}
			if exists {
				return errCategoryExists()
			}
			found.Name = *req.Name
		}
		if req.Status != nil {
			found.Status = entity.CategoryStatus(*req.Status)
		}

		if err := tx.Category.Update(ctx, found); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return errCategoryNotFound()
			}
			return err
		}

		category = found
		return nil
	})
	if repository.IsUniqueViolation(err) {
		return nil, errCategoryExists()
	}
	if err != nil {
		return nil, asServiceError(s.log, err, "Failed to update category",
			"An error occurred while updating the category. Please try again later.")
	}

	s.log.Info("Category updated", zap.Int64("category_id", category.ID))

	resp := response.CategoryToResponse(category)
	return &resp, nil
}

// Delete removes the category unless products still reference it.
func (s *categoryService) Delete(ctx context.Context, id int64) error {
	inUse := utils.NewConflict("Category in use",
		"The category cannot be deleted because products are assigned to it.")

	err := s.repo.Tx.WithinTx(ctx, func(tx *repository.Repository) error {
		found, err := tx.Category.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if found == nil {
			return errCategoryNotFound()
		}

		count, err := tx.Product.CountByCategoryID(ctx, id)
		if err != nil {
			return err
		}
		if count > 0 {
			s.log.Warn("Refused to delete category with products",
				zap.Int64("category_id", id),
				zap.Int64("products", count))
			return inUse
		}

		if err := tx.Category.Delete(ctx, id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return errCategoryNotFound()
			}
			return err
		}
		return nil
	})
	if repository.IsForeignKeyViolation(err) {
		return inUse
	}
	if err != nil {
		return asServiceError(s.log, err, "Failed to delete category",
			"An error occurred while deleting the category. Please try again later.")
	}

	s.log.Info("Category deleted", zap.Int64("category_id", id))
	return nil
}
