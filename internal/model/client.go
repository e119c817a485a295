// Package model defines domain entities for the application.
package model

import "time"

// Client is a persisted client account.
// Password holds the bcrypt hash and is never serialized.
type Client struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	FirstName *string   `json:"firstName,omitempty"`
	LastName  *string   `json:"lastName,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SafeClient is the only client representation returned to callers or embedded in tokens.
type SafeClient struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName *string   `json:"firstName,omitempty"`
	LastName  *string   `json:"lastName,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Safe projects the client without its password.
// A nil client projects to nil.
func (c *Client) Safe() *SafeClient {
	if c == nil {
		return nil
	}
	return &SafeClient{
		ID:        c.ID,
		Email:     c.Email,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// NewClientInput is the allow-listed payload for creating a client.
// Decoding a request body into it drops any other field.
type NewClientInput struct {
	Email     string  `json:"email"`
	Password  string  `json:"password"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
}

// UpdateClientInput is the allow-listed payload for updating a client.
// It has no password field, so a supplied password is discarded.
type UpdateClientInput struct {
	Email     *string `json:"email"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
}

// IsEmpty reports whether the update carries no field.
func (in UpdateClientInput) IsEmpty() bool {
	return in.Email == nil && in.FirstName == nil && in.LastName == nil
}
