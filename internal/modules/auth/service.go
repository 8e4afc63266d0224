package auth

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/kasonde-dev/stockpilot-backend/internal/apperr"
	"github.com/kasonde-dev/stockpilot-backend/internal/modules/user"
)

// RegisterRequest is the payload for creating a new account.
type RegisterRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Role       string `json:"role,omitempty"`
	Department string `json:"department,omitempty"`
}

// Service defines the authentication business logic.
type Service interface {
	// Register creates an account and issues a token for it.
	Register(ctx context.Context, req RegisterRequest) (*user.User, string, error)

	// Login verifies credentials and issues a token.
	Login(ctx context.Context, email, password string) (*user.User, string, error)
}

type service struct {
	users  user.Repository
	tokens *TokenService
}

// NewService creates a new auth service.
func NewService(users user.Repository, tokens *TokenService) Service {
	return &service{users: users, tokens: tokens}
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*user.User, string, error) {
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return nil, "", apperr.New(apperr.KindValidation, "Name, email, and password are required")
	}
	if len(req.Password) < 6 {
		return nil, "", apperr.New(apperr.KindValidation, "Password must be at least 6 characters long")
	}

	role := user.Role(req.Role)
	if req.Role == "" {
		role = user.RoleStaff
	}
	if !user.ValidRole(role) {
		return nil, "", apperr.New(apperr.KindValidation, "Invalid role")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	u := &user.User{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: string(hashed),
		Role:         role,
		Department:   strings.TrimSpace(req.Department),
		IsActive:     true,
	}

	if err := s.users.Create(ctx, u); err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Issue(Identity{UserID: u.ID.String(), Email: u.Email, Role: u.Role})
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (s *service) Login(ctx context.Context, email, password string) (*user.User, string, error) {
	if email == "" || password == "" {
		return nil, "", apperr.New(apperr.KindValidation, "Email and password are required")
	}

	u, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		// Unknown email and bad password report identically.
		return nil, "", apperr.New(apperr.KindUnauthorized, "Invalid credentials")
	}

	if !u.IsActive {
		return nil, "", apperr.New(apperr.KindForbidden, "Account is deactivated. Contact administrator.")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, "", apperr.New(apperr.KindUnauthorized, "Invalid credentials")
	}

	token, err := s.tokens.Issue(Identity{UserID: u.ID.String(), Email: u.Email, Role: u.Role})
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}
