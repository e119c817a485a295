package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/oklog/ulid/v2"

	"github.com/clientauth/clientauth/internal/model"
)

const clientColumns = `id, email, password, first_name, last_name, created_at, updated_at`

// NewClient holds the fields of a client row to insert.
// Password must already be hashed.
type NewClient struct {
	Email     string
	Password  string
	FirstName *string
	LastName  *string
}

// ClientUpdate holds the fields to change. Nil fields are left untouched.
type ClientUpdate struct {
	Email     *string
	FirstName *string
	LastName  *string
}

// CreateClient inserts a new client and returns the stored row.
// Returns ErrEmailExists if the email is already registered.
func (r *Repository) CreateClient(ctx context.Context, in NewClient) (*model.Client, error) {
	query := `
		INSERT INTO clients (id, email, password, first_name, last_name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		RETURNING ` + clientColumns

	now := time.Now().UTC()
	row := r.pool.QueryRow(ctx, query,
		ulid.Make().String(),
		in.Email,
		in.Password,
		in.FirstName,
		in.LastName,
		now,
	)

	client, err := scanClient(row)
	if err != nil {
		return nil, translateError("failed to create client", err)
	}

	return client, nil
}

// GetClientByID retrieves a client by ID.
func (r *Repository) GetClientByID(ctx context.Context, id string) (*model.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE id = $1`

	client, err := scanClient(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrClientNotFound
		}
		return nil, translateError("failed to get client by ID", err)
	}

	return client, nil
}

// GetClientByEmail retrieves a client by email address.
func (r *Repository) GetClientByEmail(ctx context.Context, email string) (*model.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE email = $1`

	client, err := scanClient(r.pool.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrClientNotFound
		}
		return nil, translateError("failed to get client by email", err)
	}

	return client, nil
}

// UpdateClient applies the non-nil fields of upd and returns the updated row.
// The password column is never touched.
func (r *Repository) UpdateClient(ctx context.Context, id string, upd ClientUpdate) (*model.Client, error) {
	query := `
		UPDATE clients
		SET email = COALESCE($2, email),
			first_name = COALESCE($3, first_name),
			last_name = COALESCE($4, last_name),
			updated_at = $5
		WHERE id = $1
		RETURNING ` + clientColumns

	row := r.pool.QueryRow(ctx, query,
		id,
		upd.Email,
		upd.FirstName,
		upd.LastName,
		time.Now().UTC(),
	)

	client, err := scanClient(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrClientNotFound
		}
		return nil, translateError("failed to update client", err)
	}

	return client, nil
}

// scanClient scans a single client row.
func scanClient(row pgx.Row) (*model.Client, error) {
	var c model.Client
	err := row.Scan(
		&c.ID,
		&c.Email,
		&c.Password,
		&c.FirstName,
		&c.LastName,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
