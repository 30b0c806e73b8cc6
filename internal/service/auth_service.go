package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/noah-isme/sira-go-api/internal/auth"
	"github.com/noah-isme/sira-go-api/internal/dto"
	"github.com/noah-isme/sira-go-api/internal/models"
	"github.com/noah-isme/sira-go-api/internal/repository"
)

// Authentication failures surfaced by the auth service.
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountDeactivated = errors.New("account is deactivated")
	ErrAccountLocked      = errors.New("account is locked")
)

// Actor identifies the authenticated account acting on a request.
type Actor struct {
	ID    uint
	Email string
	Role  string
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

// AuthService handles login and account bootstrap.
type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (dto.LoginResponse, error)
	Verify(ctx context.Context, userID uint) (dto.UserResponse, error)
	EnsureAdmin(ctx context.Context, email, password string) error
}

type authService struct {
	users     repository.UserRepository
	validator *validator.Validate
	secret    string
	expiry    time.Duration
	logger    zerolog.Logger
}

// NewAuthService constructs the auth service.
func NewAuthService(users repository.UserRepository, validate *validator.Validate, secret string, expiry time.Duration, logger zerolog.Logger) AuthService {
	return &authService{
		users:     users,
		validator: validate,
		secret:    secret,
		expiry:    expiry,
		logger:    logger.With().Str("component", "auth_service").Logger(),
	}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (dto.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.LoginResponse{}, err
	}

	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return dto.LoginResponse{}, ErrInvalidCredentials
		}
		return dto.LoginResponse{}, err
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		return dto.LoginResponse{}, ErrInvalidCredentials
	}

	if !user.IsActive {
		return dto.LoginResponse{}, ErrAccountDeactivated
	}

	if user.Locked(time.Now()) {
		return dto.LoginResponse{}, ErrAccountLocked
	}

	token, err := auth.IssueToken(s.secret, user.ID, user.Email, user.Role, s.expiry)
	if err != nil {
		return dto.LoginResponse{}, err
	}

	return dto.LoginResponse{
		Token:     token,
		ExpiresAt: time.Now().Add(s.expiry),
		User:      dto.NewUserResponse(user),
	}, nil
}

func (s *authService) Verify(ctx context.Context, userID uint) (dto.UserResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return dto.UserResponse{}, err
	}

	return dto.NewUserResponse(user), nil
}

// EnsureAdmin seeds the bootstrap admin account when no users exist yet.
// Both credentials must come from configuration; there is no baked-in
// default password.
func (s *authService) EnsureAdmin(ctx context.Context, email, password string) error {
	count, err := s.users.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		s.logger.Warn().Msg("no users exist and no admin credentials configured, skipping bootstrap")
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	admin := models.User{
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, &admin); err != nil {
		return err
	}

	s.logger.Info().Str("email", email).Msg("bootstrap admin account created")
	return nil
}
