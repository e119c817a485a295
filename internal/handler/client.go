package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/clientauth/clientauth/internal/apperr"
	"github.com/clientauth/clientauth/internal/auth"
	"github.com/clientauth/clientauth/internal/model"
)

// ClientManager is the client profile service. *service.ClientService implements it.
type ClientManager interface {
	GetByID(ctx context.Context, id string) (*model.SafeClient, error)
	Create(ctx context.Context, in model.NewClientInput) (*model.SafeClient, error)
	UpdateByID(ctx context.Context, id string, in model.UpdateClientInput) (*model.SafeClient, error)
}

// ClientHandler handles HTTP requests for client accounts.
type ClientHandler struct {
	svc    ClientManager
	logger *slog.Logger
}

// NewClientHandler creates a new ClientHandler.
func NewClientHandler(svc ClientManager, logger *slog.Logger) *ClientHandler {
	return &ClientHandler{
		svc:    svc,
		logger: logger,
	}
}

// Create handles POST /api/v1/clients.
func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in model.NewClientInput
	if err := decodeJSON(r, &in); err != nil {
		writeMessage(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	client, err := h.svc.Create(r.Context(), in)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	h.logger.InfoContext(r.Context(), "client_created", "client_id", client.ID)
	writeJSON(w, http.StatusCreated, client)
}

// GetMe handles GET /api/v1/clients/me.
// A valid token whose client no longer exists is answered with 401.
func (h *ClientHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	id := auth.ClientIDFromContext(r.Context())
	if id == "" {
		writeMessage(w, http.StatusUnauthorized, apperr.MsgUnauthorized)
		return
	}

	client, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	if client == nil {
		h.logger.WarnContext(r.Context(), "token for unknown client", "client_id", id)
		writeMessage(w, http.StatusUnauthorized, apperr.MsgUnauthorized)
		return
	}

	writeJSON(w, http.StatusOK, client)
}

// UpdateMe handles PUT /api/v1/clients/me.
// A password in the body is ignored.
func (h *ClientHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	id := auth.ClientIDFromContext(r.Context())
	if id == "" {
		writeMessage(w, http.StatusUnauthorized, apperr.MsgUnauthorized)
		return
	}

	var in model.UpdateClientInput
	if err := decodeJSON(r, &in); err != nil {
		writeMessage(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	client, err := h.svc.UpdateByID(r.Context(), id, in)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	h.logger.InfoContext(r.Context(), "client_updated", "client_id", client.ID)
	writeJSON(w, http.StatusOK, client)
}
