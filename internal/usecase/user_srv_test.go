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

func identityOf(user *entity.User) *utils.Identity {
	return &utils.Identity{User: user}
}

func TestUpdateSelf_EmptyRequestLeavesRowUntouched(t *testing.T) {
	f := newFixture(t)
	user := testutil.SeedUser(t, f.store, "a@x.com", entity.RoleUser)

	_, err := f.service.User.UpdateSelf(ctx, identityOf(user), &request.UpdateUserRequest{})
	appErr := assertKind(t, err, utils.KindBadRequest)
	assert.Equal(t, "No data to update", appErr.Message)

	stored, err := f.store.Repository().User.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Name, stored.Name)
	assert.Equal(t, user.UpdatedAt, stored.UpdatedAt)
}

func TestUpdateSelf_BlankNameIsValidationError(t *testing.T) {
	f := newFixture(t)
	user := testutil.SeedUser(t, f.store, "a@x.com", entity.RoleUser)

	_, err := f.service.User.UpdateSelf(ctx, identityOf(user), &request.UpdateUserRequest{Name: ptr("  ")})
	appErr := assertKind(t, err, utils.KindValidation)
	assert.Equal(t, "The name field must have a value.", appErr.Fields["name"])
}

func TestUpdateSelf_EmailUniquenessExcludesOwnRow(t *testing.T) {
	f := newFixture(t)
	user := testutil.SeedUser(t, f.store, "a@x.com", entity.RoleUser)
	testutil.SeedUser(t, f.store, "b@x.com", entity.RoleUser)

	resp, err := f.service.User.UpdateSelf(ctx, identityOf(user), &request.UpdateUserRequest{
		Name:  ptr("Renamed"),
		Email: ptr("a@x.com"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", resp.Name)
	assert.Equal(t, "a@x.com", resp.Email)

	_, err = f.service.User.UpdateSelf(ctx, identityOf(user), &request.UpdateUserRequest{Email: ptr("b@x.com")})
	assertKind(t, err, utils.KindConflict)
}

func TestUpdateSelf_PasswordChangeTakesEffect(t *testing.T) {
	f := newFixture(t)
	user := testutil.SeedUser(t, f.store, "a@x.com", entity.RoleUser)

	_, err := f.service.User.UpdateSelf(ctx, identityOf(user), &request.UpdateUserRequest{
		Password:             ptr("new-password"),
		PasswordConfirmation: ptr("new-password"),
	})
	require.NoError(t, err)

	_, err = f.service.Auth.Login(ctx, &request.LoginRequest{Email: "a@x.com", Password: testutil.Password})
	assertKind(t, err, utils.KindUnauthenticated)
	_, err = f.service.Auth.Login(ctx, &request.LoginRequest{Email: "a@x.com", Password: "new-password"})
	assert.NoError(t, err)
}

func TestDeleteSelf_RevokesAllTokens(t *testing.T) {
	f := newFixture(t)
	resp, err := f.service.Auth.Register(ctx, registerReq("a@x.com"))
	require.NoError(t, err)

	identity, err := f.service.Token.Validate(ctx, resp.AccessToken)
	require.NoError(t, err)
	require.NoError(t, f.service.User.DeleteSelf(ctx, identity))

	users, tokens, _, _ := f.store.Counts()
	assert.Zero(t, users)
	assert.Zero(t, tokens)

	gone, err := f.service.Token.Validate(ctx, resp.AccessToken)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestDeleteUser(t *testing.T) {
	t.Run("admin cannot delete self", func(t *testing.T) {
		f := newFixture(t)
		admin := testutil.SeedUser(t, f.store, "admin@x.com", entity.RoleAdmin)

		err := f.service.User.DeleteUser(ctx, identityOf(admin), admin.ID)
		assertKind(t, err, utils.KindForbidden)

		stored, err := f.store.Repository().User.FindByID(ctx, admin.ID)
		require.NoError(t, err)
		assert.NotNil(t, stored)
	})

	t.Run("missing user", func(t *testing.T) {
		f := newFixture(t)
		admin := testutil.SeedUser(t, f.store, "admin@x.com", entity.RoleAdmin)

		err := f.service.User.DeleteUser(ctx, identityOf(admin), 999)
		assertKind(t, err, utils.KindNotFound)
	})

	t.Run("other user", func(t *testing.T) {
		f := newFixture(t)
		admin := testutil.SeedUser(t, f.store, "admin@x.com", entity.RoleAdmin)
		user := testutil.SeedUser(t, f.store, "a@x.com", entity.RoleUser)

		require.NoError(t, f.service.User.DeleteUser(ctx, identityOf(admin), user.ID))

		_, err := f.service.User.GetUser(ctx, user.ID)
		assertKind(t, err, utils.KindNotFound)
	})
}

func TestCreateUser_AdminChoosesRole(t *testing.T) {
	f := newFixture(t)

	resp, err := f.service.User.CreateUser(ctx, &request.CreateUserRequest{
		Name:                 "Ops",
		Email:                "ops@x.com",
		Password:             "password1",
		PasswordConfirmation: "password1",
		Role:                 "admin",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, resp.Role)

	_, err = f.service.User.CreateUser(ctx, &request.CreateUserRequest{
		Name:                 "Ops",
		Email:                "ops@x.com",
		Password:             "password1",
		PasswordConfirmation: "password1",
		Role:                 "user",
	})
	assertKind(t, err, utils.KindConflict)
}

func TestUpdateUser_ChangesRole(t *testing.T) {
	f := newFixture(t)
	user := testutil.SeedUser(t, f.store, "a@x.com", entity.RoleUser)

	resp, err := f.service.User.UpdateUser(ctx, user.ID, &request.AdminUpdateUserRequest{Role: ptr("admin")})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, resp.Role)

	_, err = f.service.User.UpdateUser(ctx, user.ID, &request.AdminUpdateUserRequest{Role: ptr("root")})
	assertKind(t, err, utils.KindValidation)
}

func TestDashboard_CountsByRole(t *testing.T) {
	f := newFixture(t)
	testutil.SeedUser(t, f.store, "admin@x.com", entity.RoleAdmin)
	testutil.SeedUser(t, f.store, "a@x.com", entity.RoleUser)
	testutil.SeedUser(t, f.store, "b@x.com", entity.RoleUser)

	resp, err := f.service.User.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), resp.Stats.TotalUsers)
	assert.Equal(t, int64(1), resp.Stats.TotalAdmins)
	assert.Equal(t, int64(2), resp.Stats.TotalRegularUsers)
}
