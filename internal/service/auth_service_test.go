package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"candidate-registry/internal/model"
	"candidate-registry/internal/repository"
	"candidate-registry/pkg/apierror"
)

func newTestAuthService(t *testing.T, users *repository.MockUserRepository, allowRegistration bool) (*AuthService, *TokenService) {
	t.Helper()

	tokens, err := NewTokenService("test-secret", time.Hour)
	require.NoError(t, err)

	svc := NewAuthService(users, tokens, discardAudit(), allowRegistration)
	svc.bcryptCost = bcrypt.MinCost
	return svc, tokens
}

func TestAuthService_Login(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.MinCost)
	require.NoError(t, err)
	stored := model.User{ID: 1, Name: "Admin", Email: "admin@example.com", PasswordHash: string(hash)}

	t.Run("valid credentials issue a token", func(t *testing.T) {
		users := new(repository.MockUserRepository)
		svc, tokens := newTestAuthService(t, users, true)
		users.On("FindByEmail", mock.Anything, "admin@example.com").Return(stored, nil)

		resp, err := svc.Login(context.Background(), " Admin@Example.com ", "admin123")
		require.NoError(t, err)
		assert.Equal(t, model.AuthUser{ID: 1, Name: "Admin", Email: "admin@example.com"}, resp.User)

		claim, err := tokens.Verify(resp.Token)
		require.NoError(t, err)
		assert.Equal(t, model.IdentityClaim{UserID: 1, Email: "admin@example.com"}, claim)
	})

	t.Run("wrong password", func(t *testing.T) {
		users := new(repository.MockUserRepository)
		svc, _ := newTestAuthService(t, users, true)
		users.On("FindByEmail", mock.Anything, "admin@example.com").Return(stored, nil)

		_, err := svc.Login(context.Background(), "admin@example.com", "nope")
		assert.ErrorIs(t, err, model.ErrInvalidCredentials)
	})

	t.Run("unknown user", func(t *testing.T) {
		users := new(repository.MockUserRepository)
		svc, _ := newTestAuthService(t, users, true)
		users.On("FindByEmail", mock.Anything, "ghost@example.com").Return(model.User{}, model.ErrUserNotFound)

		_, err := svc.Login(context.Background(), "ghost@example.com", "whatever")
		assert.ErrorIs(t, err, model.ErrInvalidCredentials)
	})

	t.Run("missing fields", func(t *testing.T) {
		users := new(repository.MockUserRepository)
		svc, _ := newTestAuthService(t, users, true)

		_, err := svc.Login(context.Background(), "", "x")
		assert.ErrorIs(t, err, model.ErrInvalidInput)
		users.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything)
	})

	t.Run("store failure is not masked", func(t *testing.T) {
		users := new(repository.MockUserRepository)
		svc, _ := newTestAuthService(t, users, true)
		users.On("FindByEmail", mock.Anything, "admin@example.com").Return(model.User{}, model.ErrUnavailable)

		_, err := svc.Login(context.Background(), "admin@example.com", "admin123")
		assert.ErrorIs(t, err, model.ErrUnavailable)
	})
}

func TestAuthService_Register(t *testing.T) {
	t.Run("creates user with hashed password", func(t *testing.T) {
		users := new(repository.MockUserRepository)
		svc, _ := newTestAuthService(t, users, true)

		users.On("Create", mock.Anything, mock.MatchedBy(func(u model.User) bool {
			return u.Name == "Grace" && u.Email == "grace@example.com" &&
				bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("secret1")) == nil
		})).Return(model.User{ID: 2, Name: "Grace", Email: "grace@example.com"}, nil)

		resp, err := svc.Register(context.Background(), "Grace", "Grace@Example.com", "secret1")
		require.NoError(t, err)
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, int64(2), resp.User.ID)
		users.AssertExpectations(t)
	})

	t.Run("duplicate email", func(t *testing.T) {
		users := new(repository.MockUserRepository)
		svc, _ := newTestAuthService(t, users, true)
		users.On("Create", mock.Anything, mock.Anything).Return(model.User{}, model.ErrUserAlreadyExists)

		_, err := svc.Register(context.Background(), "Grace", "grace@example.com", "secret1")
		assert.ErrorIs(t, err, model.ErrUserAlreadyExists)
	})

	t.Run("short password", func(t *testing.T) {
		users := new(repository.MockUserRepository)
		svc, _ := newTestAuthService(t, users, true)

		_, err := svc.Register(context.Background(), "Grace", "grace@example.com", "123")
		assert.ErrorIs(t, err, model.ErrInvalidInput)
	})

	t.Run("password longer than bcrypt input", func(t *testing.T) {
		users := new(repository.MockUserRepository)
		svc, _ := newTestAuthService(t, users, true)

		_, err := svc.Register(context.Background(), "Grace", "grace@example.com", strings.Repeat("p", 73))
		require.ErrorIs(t, err, model.ErrInvalidInput)
		var apiErr *apierror.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "Password must be at most 72 bytes", apiErr.Message)
		users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("multibyte password at the limit", func(t *testing.T) {
		users := new(repository.MockUserRepository)
		svc, _ := newTestAuthService(t, users, true)
		users.On("Create", mock.Anything, mock.Anything).Return(model.User{ID: 3, Name: "Grace", Email: "grace@example.com"}, nil)

		// 36 two-byte runes fill exactly 72 bytes; one more rune does not fit.
		_, err := svc.Register(context.Background(), "Grace", "grace@example.com", strings.Repeat("é", 36))
		require.NoError(t, err)

		_, err = svc.Register(context.Background(), "Grace", "grace@example.com", strings.Repeat("é", 37))
		assert.ErrorIs(t, err, model.ErrInvalidInput)
	})

	t.Run("registration disabled", func(t *testing.T) {
		users := new(repository.MockUserRepository)
		svc, _ := newTestAuthService(t, users, false)

		_, err := svc.Register(context.Background(), "Grace", "grace@example.com", "secret1")
		assert.ErrorIs(t, err, model.ErrRegistrationClosed)
		users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestAuthService_EnsureDefaultUser(t *testing.T) {
	t.Run("seeds empty store", func(t *testing.T) {
		users := new(repository.MockUserRepository)
		svc, _ := newTestAuthService(t, users, true)
		users.On("Count", mock.Anything).Return(0, nil)
		users.On("Create", mock.Anything, mock.Anything).Return(model.User{ID: 1, Email: "admin@example.com"}, nil)

		created, err := svc.EnsureDefaultUser(context.Background(), "Admin", "admin@example.com", "admin123")
		require.NoError(t, err)
		assert.True(t, created)
	})

	t.Run("skips populated store", func(t *testing.T) {
		users := new(repository.MockUserRepository)
		svc, _ := newTestAuthService(t, users, true)
		users.On("Count", mock.Anything).Return(3, nil)

		created, err := svc.EnsureDefaultUser(context.Background(), "Admin", "admin@example.com", "admin123")
		require.NoError(t, err)
		assert.False(t, created)
		users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("skips without credentials", func(t *testing.T) {
		users := new(repository.MockUserRepository)
		svc, _ := newTestAuthService(t, users, true)

		created, err := svc.EnsureDefaultUser(context.Background(), "Admin", "", "")
		require.NoError(t, err)
		assert.False(t, created)
	})

	t.Run("count failure", func(t *testing.T) {
		users := new(repository.MockUserRepository)
		svc, _ := newTestAuthService(t, users, true)
		users.On("Count", mock.Anything).Return(0, errors.New("boom"))

		_, err := svc.EnsureDefaultUser(context.Background(), "Admin", "admin@example.com", "admin123")
		assert.Error(t, err)
	})
}
