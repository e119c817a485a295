package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/clientauth/clientauth/internal/apperr"
	"github.com/clientauth/clientauth/internal/auth"
	"github.com/clientauth/clientauth/internal/metrics"
	"github.com/clientauth/clientauth/internal/model"
	"github.com/clientauth/clientauth/internal/repository"
)

var (
	errUnknownEmail  = errors.New("no client with this email")
	errWrongPassword = errors.New("password mismatch")
)

// dummyHash is compared against when the email is unknown, so both failure
// paths pay one bcrypt comparison.
var dummyHash = sync.OnceValue(func() string {
	hash, _ := auth.HashPassword("unused-dummy-password")
	return hash
})

// TokenSigner issues bearer tokens for a client.
type TokenSigner interface {
	Issue(client *model.SafeClient) (string, error)
}

// AuthService handles password login.
type AuthService struct {
	store   ClientStore
	tokens  TokenSigner
	logger  *slog.Logger
	metrics metrics.Recorder
}

// NewAuthService creates a new AuthService.
func NewAuthService(store ClientStore, tokens TokenSigner, logger *slog.Logger, recorder metrics.Recorder) *AuthService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		store:   store,
		tokens:  tokens,
		logger:  logger,
		metrics: recorder,
	}
}

// Login verifies the credentials and returns a signed token.
// An unknown email and a wrong password fail identically.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	if err := ValidateLogin(email, password); err != nil {
		s.metrics.IncLogin(metrics.LoginFailure)
		return "", err
	}

	client, err := s.store.GetClientByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrClientNotFound) {
			auth.VerifyPassword(password, dummyHash())
			s.metrics.IncLogin(metrics.LoginFailure)
			return "", apperr.Unauthorized(errUnknownEmail)
		}
		s.metrics.IncLogin(metrics.LoginError)
		return "", fmt.Errorf("login lookup: %w", err)
	}

	if !auth.VerifyPassword(password, client.Password) {
		s.metrics.IncLogin(metrics.LoginFailure)
		return "", apperr.Unauthorized(errWrongPassword)
	}

	token, err := s.tokens.Issue(client.Safe())
	if err != nil {
		s.metrics.IncLogin(metrics.LoginError)
		if errors.Is(err, auth.ErrMissingSecret) {
			s.logger.ErrorContext(ctx, "token secret not configured",
				slog.String("client_id", client.ID),
			)
			return "", apperr.Config(err)
		}
		return "", fmt.Errorf("issue token: %w", err)
	}

	s.metrics.IncLogin(metrics.LoginSuccess)
	s.logger.InfoContext(ctx, "login_succeeded", slog.String("client_id", client.ID))
	return token, nil
}
