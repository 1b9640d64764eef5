package ports

import (
	"context"
	"time"
)

// RevocationStore remembers session tokens that were signed out before they
// expired.
type RevocationStore interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
