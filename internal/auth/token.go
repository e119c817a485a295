package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/clientauth/clientauth/internal/model"
)

var (
	// ErrMissingSecret indicates no signing secret is configured.
	ErrMissingSecret = errors.New("token secret not configured")
	// ErrMissingToken indicates the request carried no token.
	ErrMissingToken = errors.New("missing token")
	// ErrInvalidToken indicates a malformed, tampered or expired token.
	ErrInvalidToken = errors.New("invalid token")
)

// Claims is the signed token payload. Only the password-free projection is embedded.
type Claims struct {
	jwt.RegisteredClaims
	Client model.SafeClient `json:"client"`
}

// TokenIssuer signs and verifies HS256 bearer tokens with a process-wide secret.
type TokenIssuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer creates a TokenIssuer. An empty secret is accepted;
// Issue and Verify then fail with ErrMissingSecret.
// A zero ttl issues tokens without an expiry claim.
func NewTokenIssuer(secret, issuer string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue signs a token carrying the given client.
func (t *TokenIssuer) Issue(client *model.SafeClient) (string, error) {
	if len(t.secret) == 0 {
		return "", ErrMissingSecret
	}
	if client == nil {
		return "", errors.New("issue token: nil client")
	}

	now := t.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   t.issuer,
			Subject:  client.ID,
			IssuedAt: jwt.NewNumericDate(now),
		},
		Client: *client,
	}
	if t.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(t.ttl))
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses a token and returns the embedded client.
func (t *TokenIssuer) Verify(token string) (*model.SafeClient, error) {
	if token == "" {
		return nil, ErrMissingToken
	}
	if len(t.secret) == 0 {
		return nil, ErrMissingSecret
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(t.now),
	}
	if t.issuer != "" {
		opts = append(opts, jwt.WithIssuer(t.issuer))
	}

	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid || claims.Client.ID == "" || claims.Subject != claims.Client.ID {
		return nil, ErrInvalidToken
	}

	return &claims.Client, nil
}

// ExtractToken returns the token from an Authorization header value.
// Both "Bearer <token>" and a bare token are accepted.
func ExtractToken(header string) string {
	header = strings.TrimSpace(header)
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return header
}
