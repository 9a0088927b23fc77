package usecase

import (
	"context"
	"errors"
	"fmt"

	"catalog-api/internal/data/entity"
	"catalog-api/internal/data/repository"
	"catalog-api/internal/dto/request"
	"catalog-api/internal/dto/response"
	"catalog-api/pkg/utils"

	"go.uber.org/zap"
)

type UserService interface {
	// Self service
	GetSelf(ctx context.Context, identity *utils.Identity) (*response.UserResponse, error)
	UpdateSelf(ctx context.Context, identity *utils.Identity, req *request.UpdateUserRequest) (*response.UserResponse, error)
	DeleteSelf(ctx context.Context, identity *utils.Identity) error

	// Admin
	ListUsers(ctx context.Context) (*response.UserListResponse, error)
	GetUser(ctx context.Context, id int64) (*response.UserResponse, error)
	CreateUser(ctx context.Context, req *request.CreateUserRequest) (*response.UserResponse, error)
	UpdateUser(ctx context.Context, id int64, req *request.AdminUpdateUserRequest) (*response.UserResponse, error)
	DeleteUser(ctx context.Context, identity *utils.Identity, id int64) error
	Dashboard(ctx context.Context) (*response.DashboardResponse, error)
}

type userService struct {
	repo   *repository.Repository
	tokens TokenService
	config *utils.Config
	log    *zap.Logger
}

func NewUserService(repo *repository.Repository, tokens TokenService, config *utils.Config, log *zap.Logger) UserService {
	return &userService{
		repo:   repo,
		tokens: tokens,
		config: config,
		log:    log.With(zap.String("service", "user")),
	}
}

func errUserNotFound() error {
	return utils.NewNotFound("User not found", "The requested user does not exist.")
}

func errNoDataToUpdate() error {
	return utils.NewBadRequest("No data to update", "Please provide at least one field to update.")
}

func (us *userService) GetSelf(ctx context.Context, identity *utils.Identity) (*response.UserResponse, error) {
	user, err := us.repo.User.FindByID(ctx, identity.UserID())
	if err != nil {
		return nil, utils.NewInternal("Failed to retrieve user",
			"An error occurred while fetching user information. Please try again later.", err)
	}
	if user == nil {
		return nil, errUserNotFound()
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (us *userService) UpdateSelf(ctx context.Context, identity *utils.Identity, req *request.UpdateUserRequest) (*response.UserResponse, error) {
	if errs := utils.ValidateStruct(req); errs != nil {
		return nil, utils.NewValidation(errs)
	}
	if req.IsEmpty() {
		return nil, errNoDataToUpdate()
	}

	user, err := us.update(ctx, identity.UserID(), req, nil)
	if err != nil {
		return nil, us.updateFailed(err, "An error occurred while updating user information. Please try again later.")
	}

	us.log.Info("User updated own profile", zap.Int64("user_id", user.ID))

	resp := response.UserToResponse(user)
	return &resp, nil
}

// DeleteSelf revokes every token of the caller and removes the account.
func (us *userService) DeleteSelf(ctx context.Context, identity *utils.Identity) error {
	if err := us.delete(ctx, identity.UserID()); err != nil {
		return us.deleteFailed(err)
	}

	us.log.Info("User deleted own account", zap.Int64("user_id", identity.UserID()))
	return nil
}

func (us *userService) ListUsers(ctx context.Context) (*response.UserListResponse, error) {
	users, err := us.repo.User.FindAll(ctx)
	if err != nil {
		return nil, utils.NewInternal("Failed to retrieve users",
			"An error occurred while fetching users. Please try again later.", err)
	}

	resp := response.UsersToResponse(users)
	return &resp, nil
}

func (us *userService) GetUser(ctx context.Context, id int64) (*response.UserResponse, error) {
	user, err := us.repo.User.FindByID(ctx, id)
	if err != nil {
		return nil, utils.NewInternal("Failed to retrieve user",
			"An error occurred while fetching the user. Please try again later.", err)
	}
	if user == nil {
		return nil, errUserNotFound()
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (us *userService) CreateUser(ctx context.Context, req *request.CreateUserRequest) (*response.UserResponse, error) {
	if errs := utils.ValidateStruct(req); errs != nil {
		return nil, utils.NewValidation(errs)
	}

	exists, err := us.repo.User.ExistsByEmail(ctx, req.Email, 0)
	if err != nil {
		return nil, createUserFailed(err)
	}
	if exists {
		return nil, errUserExists()
	}

	hashedPassword, err := utils.HashPassword(req.Password, us.config.Security.BcryptCost)
	if err != nil {
		return nil, createUserFailed(fmt.Errorf("hash password: %w", err))
	}

	user := &entity.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hashedPassword,
		Role:         entity.UserRole(req.Role),
	}

	err = us.repo.User.Create(ctx, user)
	if repository.IsUniqueViolation(err) {
		return nil, errUserExists()
	}
	if err != nil {
		return nil, createUserFailed(err)
	}

	us.log.Info("User created by admin",
		zap.Int64("user_id", user.ID),
		zap.String("role", string(user.Role)))

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (us *userService) UpdateUser(ctx context.Context, id int64, req *request.AdminUpdateUserRequest) (*response.UserResponse, error) {
	if errs := utils.ValidateStruct(req); errs != nil {
		return nil, utils.NewValidation(errs)
	}
	if req.IsEmpty() {
		return nil, errNoDataToUpdate()
	}

	var role *entity.UserRole
	if req.Role != nil {
		r := entity.UserRole(*req.Role)
		role = &r
	}

	user, err := us.update(ctx, id, &req.UpdateUserRequest, role)
	if err != nil {
		return nil, us.updateFailed(err, "An error occurred while updating the user. Please try again later.")
	}

	us.log.Info("User updated by admin", zap.Int64("user_id", user.ID))

	resp := response.UserToResponse(user)
	return &resp, nil
}

// DeleteUser removes another user's account. Admins cannot delete themselves
// through this path.
func (us *userService) DeleteUser(ctx context.Context, identity *utils.Identity, id int64) error {
	user, err := us.repo.User.FindByID(ctx, id)
	if err != nil {
		return us.deleteFailed(err)
	}
	if user == nil {
		return errUserNotFound()
	}

	if user.ID == identity.UserID() {
		us.log.Warn("Admin tried to delete own account", zap.Int64("user_id", user.ID))
		return utils.NewForbidden("Cannot delete own account", "You cannot delete your own account.")
	}

	if err := us.delete(ctx, id); err != nil {
		return us.deleteFailed(err)
	}

	us.log.Info("User deleted by admin",
		zap.Int64("user_id", id),
		zap.Int64("admin_id", identity.UserID()))
	return nil
}

func (us *userService) Dashboard(ctx context.Context) (*response.DashboardResponse, error) {
	failed := func(err error) error {
		return utils.NewInternal("Failed to retrieve dashboard stats",
			"An error occurred while fetching dashboard statistics. Please try again later.", err)
	}

	total, err := us.repo.User.CountAll(ctx)
	if err != nil {
		return nil, failed(err)
	}
	admins, err := us.repo.User.CountByRole(ctx, entity.RoleAdmin)
	if err != nil {
		return nil, failed(err)
	}
	regular, err := us.repo.User.CountByRole(ctx, entity.RoleUser)
	if err != nil {
		return nil, failed(err)
	}

	return &response.DashboardResponse{
		Stats: response.DashboardStats{
			TotalUsers:        total,
			TotalAdmins:       admins,
			TotalRegularUsers: regular,
		},
	}, nil
}

// update applies the present fields of req (and role, when set) to user id
// in one transaction.
func (us *userService) update(ctx context.Context, id int64, req *request.UpdateUserRequest, role *entity.UserRole) (*entity.User, error) {
	var hashedPassword string
	if req.Password != nil {
		h, err := utils.HashPassword(*req.Password, us.config.Security.BcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		hashedPassword = h
	}

	var user *entity.User
	err := us.repo.Tx.WithinTx(ctx, func(tx *repository.Repository) error {
		found, err := tx.User.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if found == nil {
			return errUserNotFound()
		}

		if req.Email != nil && *req.Email != found.Email {
			exists, err := tx.User.ExistsByEmail(ctx, *req.Email, id)
			if err != nil {
				return err
			}
			if exists {
				return errUserExists()
			}
			found.Email = *req.Email
		}
		if req.Name != nil {
			found.Name = *req.Name
		}
		if req.Password != nil {
			found.PasswordHash = hashedPassword
		}
		if role != nil {
			found.Role = *role
		}

		if err := tx.User.Update(ctx, found); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return errUserNotFound()
			}
			return err
		}

		user = found
		return nil
	})
	if repository.IsUniqueViolation(err) {
		return nil, errUserExists()
	}
	if err != nil {
		return nil, err
	}

	return user, nil
}

// delete revokes all tokens of the user and removes the row atomically.
func (us *userService) delete(ctx context.Context, id int64) error {
	return us.repo.Tx.WithinTx(ctx, func(tx *repository.Repository) error {
		revoked, err := us.tokens.RevokeAll(ctx, tx.Token, id)
		if err != nil {
			return err
		}

		if err := tx.User.Delete(ctx, id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return errUserNotFound()
			}
			return err
		}

		us.log.Debug("Revoked tokens of deleted user", zap.Int64("user_id", id), zap.Int64("tokens", revoked))
		return nil
	})
}

func (us *userService) updateFailed(err error, detail string) error {
	return asServiceError(us.log, err, "Failed to update user", detail)
}

func (us *userService) deleteFailed(err error) error {
	return asServiceError(us.log, err, "Failed to delete user",
		"An error occurred while deleting the user. Please try again later.")
}

func createUserFailed(err error) error {
	return utils.NewInternal("Failed to create user", "An error occurred while creating the user. Please try again later.", err)
}
