package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/clientauth/clientauth/internal/handler/dto"
)

// Authenticator exchanges credentials for a token. *service.AuthService implements it.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (string, error)
}

// AuthHandler handles HTTP requests for token issuance.
type AuthHandler struct {
	svc    Authenticator
	logger *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc Authenticator, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		svc:    svc,
		logger: logger,
	}
}

// Login handles POST /api/v1/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	token, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TokenResponse{Token: token})
}
