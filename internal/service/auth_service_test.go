package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sira-go-api/internal/auth"
	"github.com/noah-isme/sira-go-api/internal/dto"
	"github.com/noah-isme/sira-go-api/internal/models"
)

func newAuthFixture(t *testing.T, user models.User) (*userRepoStub, AuthService) {
	t.Helper()
	repo := &userRepoStub{
		users:   map[uint]models.User{},
		byEmail: map[string]models.User{},
	}
	if user.ID != 0 {
		repo.users[user.ID] = user
		repo.byEmail[user.Email] = user
	}
	return repo, NewAuthService(repo, validator.New(), "test-secret", time.Hour, testLogger())
}

func TestAuthServiceLogin(t *testing.T) {
	hash, err := auth.HashPassword("correct-horse")
	require.NoError(t, err)

	_, svc := newAuthFixture(t, models.User{
		ID:           1,
		Email:        "admin@example.com",
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		IsActive:     true,
	})

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Email: "admin@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
	require.Equal(t, "admin@example.com", resp.User.Email)
	require.Equal(t, models.RoleAdmin, resp.User.Role)

	claims, err := auth.VerifyToken("test-secret", resp.Token)
	require.NoError(t, err)
	require.Equal(t, uint(1), claims.UserID)
}

func TestAuthServiceLoginWrongPassword(t *testing.T) {
	hash, err := auth.HashPassword("correct-horse")
	require.NoError(t, err)

	_, svc := newAuthFixture(t, models.User{
		ID:           1,
		Email:        "admin@example.com",
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		IsActive:     true,
	})

	_, err = svc.Login(context.Background(), dto.LoginRequest{Email: "admin@example.com", Password: "wrong-password"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthServiceLoginUnknownEmail(t *testing.T) {
	_, svc := newAuthFixture(t, models.User{})

	_, err := svc.Login(context.Background(), dto.LoginRequest{Email: "ghost@example.com", Password: "irrelevant"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthServiceLoginDeactivated(t *testing.T) {
	hash, err := auth.HashPassword("correct-horse")
	require.NoError(t, err)

	_, svc := newAuthFixture(t, models.User{
		ID:           1,
		Email:        "old@example.com",
		PasswordHash: hash,
		Role:         models.RoleStudent,
		IsActive:     false,
	})

	_, err = svc.Login(context.Background(), dto.LoginRequest{Email: "old@example.com", Password: "correct-horse"})
	require.ErrorIs(t, err, ErrAccountDeactivated)
}

func TestAuthServiceLoginLocked(t *testing.T) {
	hash, err := auth.HashPassword("correct-horse")
	require.NoError(t, err)

	until := time.Now().Add(time.Hour)
	_, svc := newAuthFixture(t, models.User{
		ID:           1,
		Email:        "locked@example.com",
		PasswordHash: hash,
		Role:         models.RoleStudent,
		IsActive:     true,
		LockedUntil:  &until,
	})

	_, err = svc.Login(context.Background(), dto.LoginRequest{Email: "locked@example.com", Password: "correct-horse"})
	require.ErrorIs(t, err, ErrAccountLocked)
}

func TestAuthServiceLoginExpiredLock(t *testing.T) {
	hash, err := auth.HashPassword("correct-horse")
	require.NoError(t, err)

	until := time.Now().Add(-time.Hour)
	_, svc := newAuthFixture(t, models.User{
		ID:           1,
		Email:        "unlocked@example.com",
		PasswordHash: hash,
		Role:         models.RoleStudent,
		IsActive:     true,
		LockedUntil:  &until,
	})

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Email: "unlocked@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
}

func TestAuthServiceEnsureAdminSeedsEmptyDatabase(t *testing.T) {
	repo, svc := newAuthFixture(t, models.User{})

	require.NoError(t, svc.EnsureAdmin(context.Background(), "admin@example.com", "bootstrap-password"))
	require.Len(t, repo.created, 1)
	require.Equal(t, models.RoleAdmin, repo.created[0].Role)
	require.True(t, auth.CheckPassword(repo.created[0].PasswordHash, "bootstrap-password"))
}

func TestAuthServiceEnsureAdminSkipsWhenUsersExist(t *testing.T) {
	repo, svc := newAuthFixture(t, models.User{ID: 1, Email: "existing@example.com", Role: models.RoleAdmin, IsActive: true})

	require.NoError(t, svc.EnsureAdmin(context.Background(), "admin@example.com", "bootstrap-password"))
	require.Empty(t, repo.created)
}

func TestAuthServiceEnsureAdminSkipsWithoutCredentials(t *testing.T) {
	repo, svc := newAuthFixture(t, models.User{})

	require.NoError(t, svc.EnsureAdmin(context.Background(), "", ""))
	require.Empty(t, repo.created)
}
