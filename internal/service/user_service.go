package service

import (
	"context"

	"go-tailor-inventory/internal/apperror"
	"go-tailor-inventory/internal/model"
	"go-tailor-inventory/internal/repository"

	"github.com/google/uuid"
)

type UserService interface {
	GetAllUsers(ctx context.Context) ([]model.UserResponse, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*model.UserResponse, error)
	UpdateUser(ctx context.Context, actor Actor, id uuid.UUID, req *UpdateUserRequest) (*model.UserResponse, error)
	UpdateUserPrivileges(ctx context.Context, actor Actor, id uuid.UUID, req *UpdatePrivilegesRequest) (*model.UserResponse, error)
}

// UpdateUserRequest changes a user's role (with its default privileges) and active flag.
type UpdateUserRequest struct {
	RoleID   uint  `json:"role_id" validate:"required"`
	IsActive *bool `json:"is_active"`
}

type UpdatePrivilegesRequest struct {
	Privileges []string `json:"privileges" validate:"unique,dive,required"`
}

type userService struct {
	userRepo      repository.UserRepository
	privilegeRepo repository.PrivilegeRepository
	roleRepo      repository.RoleRepository
}

func NewUserService(userRepo repository.UserRepository, privilegeRepo repository.PrivilegeRepository, roleRepo repository.RoleRepository) UserService {
	return &userService{
		userRepo:      userRepo,
		privilegeRepo: privilegeRepo,
		roleRepo:      roleRepo,
	}
}

func (s *userService) GetAllUsers(ctx context.Context) ([]model.UserResponse, error) {
	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	responses := make([]model.UserResponse, len(users))
	for i, user := range users {
		responses[i] = user.ToResponse()
	}
	return responses, nil
}

func (s *userService) GetUserByID(ctx context.Context, id uuid.UUID) (*model.UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "User not found.")
	}
	response := user.ToResponse()
	return &response, nil
}

func (s *userService) UpdateUser(ctx context.Context, actor Actor, id uuid.UUID, req *UpdateUserRequest) (*model.UserResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	// 1. Find existing user and role
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "User not found.")
	}
	role, err := s.roleRepo.FindByID(ctx, req.RoleID)
	if err != nil {
		return nil, storeError(err, "Role not found.")
	}

	// 2. Nobody deactivates or demotes themselves
	if actor.ID == id && (role.Code != model.RoleMasterAdmin || (req.IsActive != nil && !*req.IsActive)) {
		return nil, apperror.Validation("You cannot demote or deactivate your own account.")
	}

	user.RoleID = &role.ID
	user.Role = role
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	user.UpdatedBy = actor.Username
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, storeError(err, "User not found.")
	}

	// 3. Role change resets privileges to the role defaults
	if err := s.userRepo.UpdatePrivileges(ctx, id, role.Privileges, actor.Username); err != nil {
		return nil, storeError(err, "User not found.")
	}

	return s.GetUserByID(ctx, id)
}

func (s *userService) UpdateUserPrivileges(ctx context.Context, actor Actor, id uuid.UUID, req *UpdatePrivilegesRequest) (*model.UserResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	// 1. Find user
	if _, err := s.userRepo.FindByID(ctx, id); err != nil {
		return nil, storeError(err, "User not found.")
	}

	// 2. Every code must be known
	privileges, err := s.privilegeRepo.FindByCodes(ctx, req.Privileges)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if len(privileges) != len(req.Privileges) {
		return nil, apperror.Validation("Unknown privilege code.")
	}

	// 3. Update privileges
	if err := s.userRepo.UpdatePrivileges(ctx, id, privileges, actor.Username); err != nil {
		return nil, storeError(err, "User not found.")
	}

	// 4. Reload user with updated privileges
	return s.GetUserByID(ctx, id)
}
