package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/clientauth/clientauth/internal/apperr"
	"github.com/clientauth/clientauth/internal/auth"
	"github.com/clientauth/clientauth/internal/model"
)

// TokenVerifier checks a bearer token and returns the client it carries.
// *auth.TokenIssuer implements it.
type TokenVerifier interface {
	Verify(token string) (*model.SafeClient, error)
}

// AuthConfig holds configuration for the auth middleware.
type AuthConfig struct {
	Logger   *slog.Logger
	Verifier TokenVerifier
}

// Auth returns a middleware that requires a valid bearer token.
// The Authorization header may carry "Bearer <token>" or the bare token.
// On success the token's client is stored in the request context.
// Every failure, including a missing signing secret, is answered with 401.
func Auth(cfg AuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := auth.ExtractToken(r.Header.Get("Authorization"))

			client, err := cfg.Verifier.Verify(token)
			if err != nil {
				logAuthFailure(cfg.Logger, r, err)
				writeMessage(w, http.StatusUnauthorized, apperr.MsgUnauthorized)
				return
			}

			ctx := auth.ContextWithClient(r.Context(), client)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func logAuthFailure(logger *slog.Logger, r *http.Request, err error) {
	attrs := []any{
		slog.String("ip", r.RemoteAddr),
		slog.String("endpoint", r.Method+" "+r.URL.Path),
		slog.String("request_id", GetRequestID(r.Context())),
	}

	switch {
	case errors.Is(err, auth.ErrMissingSecret):
		logger.ErrorContext(r.Context(), "token secret not configured", attrs...)
	case errors.Is(err, auth.ErrMissingToken):
		logger.WarnContext(r.Context(), "authentication failed",
			append(attrs, slog.String("reason", "missing_token"))...)
	default:
		logger.WarnContext(r.Context(), "authentication failed",
			append(attrs, slog.String("reason", "invalid_token"))...)
	}
}
