package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go-tailor-inventory/internal/apperror"
	"go-tailor-inventory/internal/model"
	"go-tailor-inventory/internal/repository"
	"go-tailor-inventory/pkg/jwt"

	"github.com/google/uuid"
)

const (
	MsgWrongCredentials = "Wrong username or password"
	MsgSessionReplaced  = "Session expired (logged in on another device)"
)

type AuthService interface {
	Register(ctx context.Context, req *RegisterRequest) (*model.UserResponse, error)
	Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error)
	ChangePassword(ctx context.Context, actor Actor, req *ChangePasswordRequest) error
	// Authenticate resolves a token to its user, rejecting tokens of a replaced session.
	Authenticate(ctx context.Context, token string) (*model.User, *jwt.Claims, error)
	Logout(ctx context.Context, actor Actor) error
	Heartbeat(ctx context.Context, actor Actor) error
}

type RegisterRequest struct {
	Username string `json:"username" validate:"trimmed_required,max=20"`
	Password string `json:"password" validate:"required,min=6,max_bytes=72"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"trimmed_required,max=20"`
	Password string `json:"password" validate:"required,max=200"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6,max_bytes=72"`
}

type LoginResponse struct {
	Token      string             `json:"token"`
	ExpiresAt  time.Time          `json:"expires_at"`
	User       model.UserResponse `json:"user"`
	Role       *model.Role        `json:"role"`
	Privileges []string           `json:"privileges"` // Flat privileges array for easy checking
}

type authService struct {
	userRepo repository.UserRepository
	roleRepo repository.RoleRepository
	tokens   *jwt.Manager
	ttl      time.Duration
	events   EventPublisher
}

func NewAuthService(userRepo repository.UserRepository, roleRepo repository.RoleRepository, tokens *jwt.Manager, ttl time.Duration, events EventPublisher) AuthService {
	return &authService{
		userRepo: userRepo,
		roleRepo: roleRepo,
		tokens:   tokens,
		ttl:      ttl,
		events:   events,
	}
}

func (s *authService) Register(ctx context.Context, req *RegisterRequest) (*model.UserResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	username := strings.TrimSpace(req.Username)

	exists, err := s.userRepo.ExistsByUsername(ctx, username)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if exists {
		return nil, apperror.Validation(apperror.MsgRecordExists)
	}

	// New accounts start as STAFF with the role's privileges
	role, err := s.roleRepo.FindByCode(ctx, model.RoleStaff)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	user := &model.User{
		Username:   username,
		RoleID:     &role.ID,
		IsActive:   true,
		Privileges: role.Privileges,
	}
	user.CreatedBy = username
	user.UpdatedBy = username
	if err := user.SetPassword(req.Password); err != nil {
		return nil, apperror.Internal(err)
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, storeError(err, "")
	}
	user.Role = role

	resp := user.ToResponse()
	return &resp, nil
}

func (s *authService) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	// 1. Find user by username
	user, err := s.userRepo.FindByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperror.Unauthorized(MsgWrongCredentials)
		}
		return nil, apperror.Internal(err)
	}

	// 2. Check active flag and password
	if !user.IsActive {
		return nil, apperror.Unauthorized("User account is inactive")
	}
	if !user.CheckPassword(req.Password) {
		return nil, apperror.Unauthorized(MsgWrongCredentials)
	}

	// 3. Single session: a fresh version invalidates every older token
	version := uuid.NewString()
	if err := s.userRepo.StartSession(ctx, user.ID, version); err != nil {
		return nil, apperror.Internal(err)
	}

	roleCode := ""
	if user.Role != nil {
		roleCode = user.Role.Code
	}
	token, err := s.tokens.GenerateToken(user.ID, user.Username, roleCode, user.GetPrivilegeCodes(), version)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	return &LoginResponse{
		Token:      token,
		ExpiresAt:  time.Now().Add(s.ttl),
		User:       user.ToResponse(),
		Role:       user.Role,
		Privileges: user.GetPrivilegeCodes(),
	}, nil
}

func (s *authService) ChangePassword(ctx context.Context, actor Actor, req *ChangePasswordRequest) error {
	if err := validateRequest(req); err != nil {
		return err
	}

	user, err := s.userRepo.FindByID(ctx, actor.ID)
	if err != nil {
		return storeError(err, "User not found.")
	}
	if !user.CheckPassword(req.OldPassword) {
		return apperror.Validation("Current password is incorrect")
	}
	if err := user.SetPassword(req.NewPassword); err != nil {
		return apperror.Internal(err)
	}
	return storeError(s.userRepo.UpdatePassword(ctx, user.ID, user.Password), "User not found.")
}

func (s *authService) Authenticate(ctx context.Context, token string) (*model.User, *jwt.Claims, error) {
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		if errors.Is(err, jwt.ErrMissingToken) {
			return nil, nil, apperror.Unauthorized(apperror.MsgUnauthorized)
		}
		return nil, nil, apperror.Unauthorized(apperror.MsgInvalidToken)
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, nil, apperror.Unauthorized(apperror.MsgInvalidToken)
		}
		return nil, nil, apperror.Internal(err)
	}
	if !user.IsActive {
		return nil, nil, apperror.Unauthorized("User account is inactive")
	}
	if user.TokenVersion != claims.TokenVersion {
		return nil, nil, apperror.Unauthorized(MsgSessionReplaced)
	}
	return user, claims, nil
}

func (s *authService) Logout(ctx context.Context, actor Actor) error {
	// Rotating the version without handing out a token ends the session
	if err := s.userRepo.StartSession(ctx, actor.ID, uuid.NewString()); err != nil {
		return apperror.Internal(err)
	}
	return nil
}

func (s *authService) Heartbeat(ctx context.Context, actor Actor) error {
	if err := s.userRepo.UpdateLastSeen(ctx, actor.ID); err != nil {
		return apperror.Internal(err)
	}

	s.events.Publish(EventUserOnline, map[string]interface{}{
		"user_id":      actor.ID.String(),
		"username":     actor.Username,
		"status":       "online",
		"last_seen_at": time.Now(),
	}, actor.Username, "")
	return nil
}
