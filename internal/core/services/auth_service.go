package services

import (
	"context"
	"errors"
	"strings"

	"nirman-fieldworks/internal/adapters/persistence/models"
	"nirman-fieldworks/internal/adapters/persistence/repositories"
	"nirman-fieldworks/internal/config"
	"nirman-fieldworks/internal/pkg/jwt"
	"nirman-fieldworks/internal/pkg/password"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// Auth errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrUserInactive       = errors.New("user account is inactive")
)

var validate = validator.New()

// AuthService handles authentication business logic
type AuthService struct {
	userRepo repositories.UserRepository
	cfg      *config.Config
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo repositories.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		cfg:      cfg,
	}
}

// RegisterInput represents registration input
type RegisterInput struct {
	Name       string `json:"name" validate:"required,min=2,max=100"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=8"`
	Role       string `json:"role" validate:"omitempty,oneof=FIELD_ENGINEER SUPERVISOR ADMIN"`
	Department string `json:"department" validate:"omitempty,max=100"`
}

// LoginInput represents login input
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse represents authentication response.
// The client reads data.token and data.user off the envelope.
type AuthResponse struct {
	User  *models.UserResponse `json:"user"`
	Token string               `json:"token"`
}

// Register registers a new field user
func (s *AuthService) Register(ctx context.Context, input *RegisterInput) (*AuthResponse, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	if err := validate.Struct(input); err != nil {
		return nil, err
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUserAlreadyExists
	}

	hashedPassword, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	role := input.Role
	if role == "" {
		role = "FIELD_ENGINEER"
	}

	user := &models.User{
		Name:       input.Name,
		Email:      input.Email,
		Password:   hashedPassword,
		Role:       role,
		Department: input.Department,
		IsActive:   true,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{User: user.ToResponse(), Token: token}, nil
}

// Login authenticates a user and issues an access token
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*AuthResponse, error) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	if err := validate.Struct(input); err != nil {
		return nil, ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Same error as a wrong password so the response does not
			// reveal which accounts exist.
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, ErrUserInactive
	}

	if !password.Verify(input.Password, user.Password) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{User: user.ToResponse(), Token: token}, nil
}

func (s *AuthService) generateToken(user *models.User) (string, error) {
	return jwt.GenerateAccessToken(
		user.ID,
		user.Email,
		user.Name,
		user.Role,
		s.cfg.JWT.Secret,
		s.cfg.JWT.ExpiryDays,
	)
}
