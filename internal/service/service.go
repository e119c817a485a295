// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/clientauth/clientauth/internal/apperr"
	"github.com/clientauth/clientauth/internal/model"
	"github.com/clientauth/clientauth/internal/repository"
)

// ClientStore is the persistence contract the services depend on.
// *repository.Repository implements it.
type ClientStore interface {
	CreateClient(ctx context.Context, in repository.NewClient) (*model.Client, error)
	GetClientByID(ctx context.Context, id string) (*model.Client, error)
	GetClientByEmail(ctx context.Context, email string) (*model.Client, error)
	UpdateClient(ctx context.Context, id string, upd repository.ClientUpdate) (*model.Client, error)
}

// classifyStoreError converts repository failures into classified errors.
func classifyStoreError(op string, err error) error {
	var ce *repository.ConstraintError
	switch {
	case errors.Is(err, repository.ErrEmailExists):
		return apperr.Duplicate(err)
	case errors.As(err, &ce):
		return apperr.InvalidData(ce.Message, err)
	case errors.Is(err, repository.ErrClientNotFound):
		return apperr.NotFound(fmt.Errorf("%s: %w", op, err))
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
