package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/polkiloo/bazaar/internal/config"
	domainErrors "github.com/polkiloo/bazaar/internal/domain/errors"
	"github.com/polkiloo/bazaar/internal/domain/model"
	"github.com/polkiloo/bazaar/internal/domain/repository"
	pkgAuth "github.com/polkiloo/bazaar/internal/pkg/auth"
)

var emailValidator = validator.New()

// AuthUseCase handles user registration, sign in and token management.
type AuthUseCase struct {
	users      repository.UserRepository
	hasher     pkgAuth.PasswordHasher
	tokens     pkgAuth.Strategy
	adminEmail string
}

// NewAuthUseCase constructs AuthUseCase.
func NewAuthUseCase(users repository.UserRepository, hasher pkgAuth.PasswordHasher, strategy pkgAuth.Strategy, cfg *config.Config) *AuthUseCase {
	return &AuthUseCase{users: users, hasher: hasher, tokens: strategy, adminEmail: cfg.AdminEmail}
}

// Register creates a customer account and returns auth token.
// Registration with the configured admin email is granted the admin role.
func (u *AuthUseCase) Register(ctx context.Context, email, name, password string) (*model.User, string, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, "", domainErrors.ErrInvalidCredentials
	}
	if err := emailValidator.Var(email, "required,email"); err != nil {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = email[:strings.IndexByte(email, '@')]
	}

	hash, err := u.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, pkgAuth.ErrPasswordTooLong) {
			return nil, "", domainErrors.ErrInvalidCredentials
		}
		return nil, "", err
	}

	role := model.RoleCustomer
	if u.adminEmail != "" && email == u.adminEmail {
		role = model.RoleAdmin
	}

	usr, err := u.users.Create(ctx, email, name, hash, role)
	if err != nil {
		if errors.Is(err, domainErrors.ErrAlreadyExists) {
			return nil, "", domainErrors.ErrAlreadyExists
		}
		return nil, "", err
	}

	token, err := u.tokens.IssueToken(usr.ID)
	if err != nil {
		return nil, "", err
	}

	return usr, token, nil
}

// Authenticate validates credentials and returns auth token.
func (u *AuthUseCase) Authenticate(ctx context.Context, email, password string) (*model.User, string, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	usr, err := u.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, "", domainErrors.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := u.hasher.Compare(usr.PasswordHash, password); err != nil {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	token, err := u.tokens.IssueToken(usr.ID)
	if err != nil {
		return nil, "", err
	}

	return usr, token, nil
}

// ParseToken extracts user ID from provided token.
func (u *AuthUseCase) ParseToken(token string) (int64, error) {
	if token == "" {
		return 0, pkgAuth.ErrInvalidToken
	}
	return u.tokens.ParseToken(token)
}

// GetByID fetches user by identifier.
func (u *AuthUseCase) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return u.users.GetByID(ctx, id)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
