// Package token encodes session identities as signed JWTs carried in the
// session cookie.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/99minutos/staff-portal/internal/core/domain"
)

const defaultTTL = 8 * time.Hour

var ErrInvalidToken = errors.New("invalid session token")

// Claims is the JWT payload of a session token.
type Claims struct {
	Role     string `json:"role"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Identity decodes the session identity carried by the claims.
func (c *Claims) Identity() (domain.SessionIdentity, error) {
	role, err := domain.ParseRole(c.Role)
	if err != nil {
		return domain.Anonymous, err
	}
	identity := domain.SessionIdentity{Role: role, Username: c.Username}
	if err := identity.Validate(); err != nil {
		return domain.Anonymous, err
	}
	return identity, nil
}

// Issued is a freshly signed token.
type Issued struct {
	Value     string
	ID        string
	ExpiresAt time.Time
}

// Issuer signs and parses session tokens with HS256.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewIssuer(secret string, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// TTL is the lifetime of issued tokens.
func (i *Issuer) TTL() time.Duration {
	return i.ttl
}

func (i *Issuer) Issue(identity domain.SessionIdentity) (Issued, error) {
	if !identity.Authenticated() {
		return Issued{}, fmt.Errorf("issue token: %w", domain.ErrInvalidIdentity)
	}

	now := i.now()
	claims := Claims{
		Role:     string(identity.Role),
		Username: identity.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   identity.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return Issued{}, fmt.Errorf("sign token: %w", err)
	}
	return Issued{Value: signed, ID: claims.ID, ExpiresAt: claims.ExpiresAt.Time}, nil
}

func (i *Issuer) Parse(signed string) (*Claims, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(signed, claims, func(token *jwt.Token) (any, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return i.secret, nil
	}, jwt.WithTimeFunc(i.now))
	if err != nil || !tkn.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return claims, nil
}
