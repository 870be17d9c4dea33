package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"courseboard/internal/app/authz"
	"courseboard/internal/common"
	"courseboard/internal/common/security"
	"courseboard/internal/domain/model"
	"courseboard/internal/domain/repository"

	"github.com/google/uuid"
)

type AuthService struct {
	userRepo repository.UserRepository
}

func NewAuthService(userRepo repository.UserRepository) *AuthService {
	return &AuthService{userRepo: userRepo}
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	LoginField string `json:"login_field"` // Can be username or email
	Password   string `json:"password"`
}

type AuthResponse struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

// Register creates a principal with its role fixed at creation.
// Registration only hands out teacher or student; admin is reachable
// solely through AssignRole.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return nil, common.ErrBadRequest
	}
	role, err := model.ParseRole(req.Role)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, common.ErrBadRequest)
	}
	if role == model.RoleAdmin {
		return nil, fmt.Errorf("admin role cannot be self-assigned: %w", common.ErrForbidden)
	}

	hashedPassword, err := security.HashPassword(req.Password)
	if err != nil {
		if errors.Is(err, common.ErrWeakCredential) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:             uuid.NewString(),
		Username:       req.Username,
		Email:          req.Email,
		HashedPassword: hashedPassword,
		Role:           role,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// Repo returns common.ErrConflict on a duplicate identity.
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := security.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	user.HashedPassword = "" // Clear password before returning
	return &AuthResponse{User: user, Token: token}, nil
}

// Login authenticates by username or email. Store state is untouched.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if req.LoginField == "" || req.Password == "" {
		return nil, common.ErrBadRequest
	}

	user, err := s.userRepo.FindByEmail(ctx, req.LoginField)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			user, err = s.userRepo.FindByUsername(ctx, req.LoginField)
		}
	}
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthorized // Generic message for security
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !security.CheckPasswordHash(req.Password, user.HashedPassword) {
		return nil, common.ErrUnauthorized
	}

	token, err := security.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	user.HashedPassword = ""
	return &AuthResponse{User: user, Token: token}, nil
}

// AssignRole changes a principal's role. Only admins may call it; the
// guard is checked before any store write.
func (s *AuthService) AssignRole(ctx context.Context, actor authz.Actor, targetID string, newRole model.Role) (*model.User, error) {
	if err := authz.RequireRole(actor, model.RoleAdmin); err != nil {
		return nil, err
	}
	if !newRole.Valid() {
		return nil, fmt.Errorf("unknown role %q: %w", newRole, common.ErrBadRequest)
	}

	target, err := s.userRepo.FindByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.UpdateRole(ctx, target.ID, newRole); err != nil {
		return nil, err
	}
	target.Role = newRole
	target.HashedPassword = ""
	return target, nil
}

// BootstrapAdmin promotes the configured account at startup so the
// first AssignRole call has an admin allowed to make it.
func (s *AuthService) BootstrapAdmin(ctx context.Context, email string) {
	if email == "" {
		return
	}
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		log.Printf("WARN: Admin bootstrap: account %s not found", email)
		return
	}
	if user.Role == model.RoleAdmin {
		return
	}
	if err := s.userRepo.UpdateRole(ctx, user.ID, model.RoleAdmin); err != nil {
		log.Printf("ERROR: Admin bootstrap failed for %s: %v", email, err)
		return
	}
	log.Printf("INFO: Promoted %s to admin", email)
}
