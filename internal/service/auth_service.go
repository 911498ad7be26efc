package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"candidate-registry/internal/model"
	"candidate-registry/pkg/apierror"
)

const (
	minPasswordLength = 6
	// bcrypt only hashes the first 72 bytes and rejects longer input.
	maxPasswordBytes = 72
)

type UserStore interface {
	FindByEmail(ctx context.Context, email string) (model.User, error)
	Create(ctx context.Context, u model.User) (model.User, error)
	Count(ctx context.Context) (int, error)
}

type AuthService struct {
	users             UserStore
	tokens            *TokenService
	audit             *AuditService
	allowRegistration bool
	bcryptCost        int
	now               func() time.Time
}

func NewAuthService(users UserStore, tokens *TokenService, audit *AuditService, allowRegistration bool) *AuthService {
	return &AuthService{
		users:             users,
		tokens:            tokens,
		audit:             audit,
		allowRegistration: allowRegistration,
		bcryptCost:        12,
		now:               time.Now,
	}
}

func (s *AuthService) Login(ctx context.Context, email string, password string) (model.AuthResponse, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return model.AuthResponse{}, apierror.BadRequest(model.ErrInvalidInput, "Email and password are required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, model.ErrUserNotFound) {
		return model.AuthResponse{}, model.ErrInvalidCredentials
	}
	if err != nil {
		return model.AuthResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return model.AuthResponse{}, model.ErrInvalidCredentials
	}

	return s.respond(user)
}

func (s *AuthService) Register(ctx context.Context, name string, email string, password string) (model.AuthResponse, error) {
	if !s.allowRegistration {
		return model.AuthResponse{}, model.ErrRegistrationClosed
	}

	user, err := s.createUser(ctx, name, email, password)
	s.audit.Log(ctx, AuditActionUserRegister, model.AuditActor{UserID: user.ID, Email: user.Email}, "user:"+normalizeEmail(email), err)
	if err != nil {
		return model.AuthResponse{}, err
	}

	return s.respond(user)
}

// CreateUser provisions a login user without issuing a token.
func (s *AuthService) CreateUser(ctx context.Context, name string, email string, password string) (model.AuthUser, error) {
	user, err := s.createUser(ctx, name, email, password)
	if err != nil {
		return model.AuthUser{}, err
	}
	return user.Public(), nil
}

// EnsureDefaultUser seeds a login user when none exist yet. It reports whether a user was created.
func (s *AuthService) EnsureDefaultUser(ctx context.Context, name string, email string, password string) (bool, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return false, nil
	}

	count, err := s.users.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	user, err := s.createUser(ctx, name, email, password)
	if err != nil {
		return false, fmt.Errorf("seed default user: %w", err)
	}

	slog.Info("seeded default user", "user_id", user.ID, "email", user.Email)
	return true, nil
}

func (s *AuthService) createUser(ctx context.Context, name string, email string, password string) (model.User, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)

	if name == "" || email == "" || password == "" {
		return model.User{}, apierror.BadRequest(model.ErrInvalidInput, "Name, email and password are required")
	}
	if len(password) < minPasswordLength {
		return model.User{}, apierror.BadRequest(model.ErrInvalidInput,
			fmt.Sprintf("Password must be at least %d characters", minPasswordLength))
	}
	if len(password) > maxPasswordBytes {
		return model.User{}, apierror.BadRequest(model.ErrInvalidInput,
			fmt.Sprintf("Password must be at most %d bytes", maxPasswordBytes))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return model.User{}, fmt.Errorf("hash password: %w", err)
	}

	return s.users.Create(ctx, model.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    s.now().UTC(),
	})
}

func (s *AuthService) respond(user model.User) (model.AuthResponse, error) {
	token, err := s.tokens.Issue(model.IdentityClaim{UserID: user.ID, Email: user.Email})
	if err != nil {
		return model.AuthResponse{}, err
	}

	return model.AuthResponse{Token: token, User: user.Public()}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
