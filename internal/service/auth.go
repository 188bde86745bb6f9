package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bookhavenapp/bookhaven-server/internal/auth"
	"github.com/bookhavenapp/bookhaven-server/internal/domain"
	domainerrors "github.com/bookhavenapp/bookhaven-server/internal/errors"
	"github.com/bookhavenapp/bookhaven-server/internal/store"
)

// AuthService handles registration and login.
type AuthService struct {
	store  store.Store
	tokens *auth.TokenService
	logger *slog.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(store store.Store, tokens *auth.TokenService, logger *slog.Logger) *AuthService {
	return &AuthService{
		store:  store,
		tokens: tokens,
		logger: logger,
	}
}

// RegisterParams are the inputs for Register.
type RegisterParams struct {
	Username   string
	Password   string
	Name       string
	Surname    string
	NationalID string
	Email      string
}

// Register creates a new user with an argon2id password hash.
func (s *AuthService) Register(ctx context.Context, params RegisterParams) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(params.Password)
	if err != nil {
		return nil, domainerrors.Validation(err.Error())
	}

	user := &domain.User{
		CreatedAt:    time.Now().UTC(),
		Username:     params.Username,
		PasswordHash: hash,
		Name:         params.Name,
		Surname:      params.Surname,
		NationalID:   params.NationalID,
		Email:        params.Email,
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, translate(err)
	}

	s.logger.Info("user registered",
		"username", user.Username,
	)

	return user, nil
}

// Login verifies credentials and issues a PASETO access token.
// A missing user and a wrong password produce the same error.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	if err := ctx.Err(); err != nil {
		return "", nil, err
	}

	user, err := s.store.GetUser(ctx, username)
	if err != nil {
		if store.IsNotFound(err) {
			return "", nil, domainerrors.InvalidCredentials("invalid username or password")
		}
		return "", nil, err
	}

	ok, err := auth.VerifyPassword(user.PasswordHash, password)
	if err != nil {
		return "", nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return "", nil, domainerrors.InvalidCredentials("invalid username or password")
	}

	token, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		return "", nil, fmt.Errorf("generate access token: %w", err)
	}

	s.logger.Info("user logged in",
		"username", username,
	)

	return token, user, nil
}

// GetUser retrieves a user by username.
func (s *AuthService) GetUser(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.store.GetUser(ctx, username)
	if err != nil {
		return nil, translate(err)
	}
	return user, nil
}
