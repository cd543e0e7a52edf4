package service

import (
	"context"
	"testing"

	"go-tailor-inventory/internal/apperror"
	"go-tailor-inventory/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memPrivilegeRepo struct{ all []model.Privilege }

func (r memPrivilegeRepo) FindByCodes(_ context.Context, codes []string) ([]model.Privilege, error) {
	out := []model.Privilege{}
	for _, p := range r.all {
		for _, c := range codes {
			if p.Code == c {
				out = append(out, p)
			}
		}
	}
	return out, nil
}

func (r memPrivilegeRepo) FindAll(context.Context) ([]model.Privilege, error) { return r.all, nil }

func (memPrivilegeRepo) SeedDefaults(context.Context) error { return nil }

func newUserFixture(t *testing.T) (UserService, *memUserRepo, Actor, uuid.UUID) {
	t.Helper()
	users := newMemUserRepo(adminRole, staffRole)
	ctx := context.Background()

	admin := &model.User{Username: "admin", RoleID: &adminRole.ID, IsActive: true, Privileges: adminRole.Privileges}
	require.NoError(t, users.Create(ctx, admin))
	staff := &model.User{Username: "siti", RoleID: &staffRole.ID, IsActive: true, Privileges: staffRole.Privileges}
	require.NoError(t, users.Create(ctx, staff))

	svc := NewUserService(users, memPrivilegeRepo{all: []model.Privilege{privTransferCreate, privUserView}},
		memRoleRepo{roles: []*model.Role{adminRole, staffRole}})
	return svc, users, Actor{ID: admin.ID, Username: admin.Username}, staff.ID
}

func TestUpdateUser_RoleResetsPrivileges(t *testing.T) {
	svc, _, admin, staffID := newUserFixture(t)
	ctx := context.Background()

	got, err := svc.UpdateUser(ctx, admin, staffID, &UpdateUserRequest{RoleID: adminRole.ID})
	require.NoError(t, err)
	assert.Equal(t, model.RoleMasterAdmin, got.Role.Code)
	assert.Len(t, got.Privileges, 2)

	inactive := false
	got, err = svc.UpdateUser(ctx, admin, staffID, &UpdateUserRequest{RoleID: staffRole.ID, IsActive: &inactive})
	require.NoError(t, err)
	assert.False(t, got.IsActive)
	assert.Len(t, got.Privileges, 1)

	_, err = svc.UpdateUser(ctx, admin, staffID, &UpdateUserRequest{RoleID: 99})
	requireKind(t, err, apperror.KindNotFound)
	_, err = svc.UpdateUser(ctx, admin, uuid.New(), &UpdateUserRequest{RoleID: staffRole.ID})
	requireKind(t, err, apperror.KindNotFound)
}

func TestUpdateUser_CannotDemoteSelf(t *testing.T) {
	svc, _, admin, _ := newUserFixture(t)
	ctx := context.Background()

	_, err := svc.UpdateUser(ctx, admin, admin.ID, &UpdateUserRequest{RoleID: staffRole.ID})
	requireKind(t, err, apperror.KindValidation)

	inactive := false
	_, err = svc.UpdateUser(ctx, admin, admin.ID, &UpdateUserRequest{RoleID: adminRole.ID, IsActive: &inactive})
	requireKind(t, err, apperror.KindValidation)
}

func TestUpdateUserPrivileges(t *testing.T) {
	svc, users, admin, staffID := newUserFixture(t)
	ctx := context.Background()

	got, err := svc.UpdateUserPrivileges(ctx, admin, staffID, &UpdatePrivilegesRequest{Privileges: []string{model.PrivUserView}})
	require.NoError(t, err)
	require.Len(t, got.Privileges, 1)
	assert.Equal(t, model.PrivUserView, got.Privileges[0].Code)
	assert.Equal(t, "admin", users.users[staffID].UpdatedBy)

	_, err = svc.UpdateUserPrivileges(ctx, admin, staffID, &UpdatePrivilegesRequest{Privileges: []string{"ledger:rewrite"}})
	appErr := requireKind(t, err, apperror.KindValidation)
	assert.Equal(t, "Unknown privilege code.", appErr.Message)

	_, err = svc.UpdateUserPrivileges(ctx, admin, staffID, &UpdatePrivilegesRequest{Privileges: []string{model.PrivUserView, model.PrivUserView}})
	requireKind(t, err, apperror.KindValidation)

	got, err = svc.UpdateUserPrivileges(ctx, admin, staffID, &UpdatePrivilegesRequest{Privileges: []string{}})
	require.NoError(t, err)
	assert.Empty(t, got.Privileges)
}

func TestGetUsers(t *testing.T) {
	svc, _, _, staffID := newUserFixture(t)

	all, err := svc.GetAllUsers(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 2)

	one, err := svc.GetUserByID(context.Background(), staffID)
	require.NoError(t, err)
	assert.Equal(t, "siti", one.Username)

	_, err = svc.GetUserByID(context.Background(), uuid.New())
	appErr := requireKind(t, err, apperror.KindNotFound)
	assert.Equal(t, "User not found.", appErr.Message)
}
