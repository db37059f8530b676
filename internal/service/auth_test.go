package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/bazarkampus/bazar-api/internal/domain"
)

func TestAuthService_Signup(t *testing.T) {
	t.Run("creates a user with a hashed password", func(t *testing.T) {
		repo := newFakeUserRepo()
		svc := NewAuthService(repo)

		created, err := svc.Signup(context.Background(), domain.User{
			Name:     "Mahasiswa",
			Email:    "mhs@kampus.ac.id",
			Password: "rahasia123",
			Role:     domain.RoleUser,
		})

		require.NoError(t, err)
		assert.NotZero(t, created.ID)

		stored := repo.users[created.ID]
		assert.NotEqual(t, "rahasia123", stored.Password)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("rahasia123")))
	})

	t.Run("accepts the lecturer role", func(t *testing.T) {
		svc := NewAuthService(newFakeUserRepo())

		created, err := svc.Signup(context.Background(), domain.User{
			Name:     "Dosen",
			Email:    "dosen@kampus.ac.id",
			Password: "rahasia123",
			Role:     domain.RoleLecturer,
		})

		require.NoError(t, err)
		assert.Equal(t, domain.RoleLecturer, created.Role)
	})

	t.Run("rejects the admin role", func(t *testing.T) {
		svc := NewAuthService(newFakeUserRepo())

		_, err := svc.Signup(context.Background(), domain.User{
			Name:     "Penyusup",
			Email:    "admin@kampus.ac.id",
			Password: "rahasia123",
			Role:     domain.RoleAdmin,
		})

		assert.ErrorIs(t, err, ErrInvalidRole)
	})

	t.Run("rejects a duplicate email", func(t *testing.T) {
		repo := newFakeUserRepo()
		repo.add("Mahasiswa", "mhs@kampus.ac.id", domain.RoleUser)
		svc := NewAuthService(repo)

		_, err := svc.Signup(context.Background(), domain.User{
			Name:     "Kembar",
			Email:    "mhs@kampus.ac.id",
			Password: "rahasia123",
			Role:     domain.RoleUser,
		})

		assert.ErrorIs(t, err, ErrUserEmailExists)
	})
}

func TestAuthService_Login(t *testing.T) {
	setup := func(t *testing.T) *AuthService {
		t.Helper()

		repo := newFakeUserRepo()
		svc := NewAuthService(repo)
		_, err := svc.Signup(context.Background(), domain.User{
			Name:     "Mahasiswa",
			Email:    "mhs@kampus.ac.id",
			Password: "rahasia123",
			Role:     domain.RoleUser,
		})
		require.NoError(t, err)
		return svc
	}

	t.Run("returns the user on the right password", func(t *testing.T) {
		svc := setup(t)

		user, err := svc.Login(context.Background(), "mhs@kampus.ac.id", "rahasia123")

		require.NoError(t, err)
		assert.Equal(t, "mhs@kampus.ac.id", user.Email)
	})

	t.Run("rejects a wrong password", func(t *testing.T) {
		svc := setup(t)

		_, err := svc.Login(context.Background(), "mhs@kampus.ac.id", "salah")
		assert.ErrorIs(t, err, ErrWrongPassword)
	})

	t.Run("rejects an unknown email", func(t *testing.T) {
		svc := setup(t)

		_, err := svc.Login(context.Background(), "hilang@kampus.ac.id", "rahasia123")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}
