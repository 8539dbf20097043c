package auth

import (
	"context"
	"time"

	"pawhaven/internal/cache"
)

const resetUsedKeyPrefix = "reset_token:used:"

// ResetTokenStore records which reset-token jtis have already been spent,
// closing the replay window a purely stateless reset token leaves open.
type ResetTokenStore interface {
	MarkUsed(ctx context.Context, jti string, ttl time.Duration) error
	IsUsed(ctx context.Context, jti string) (bool, error)
}

// resetTokenStore keeps markers in Redis for the token's remaining TTL.
// Because the cache client fails safe, an unreachable Redis degrades to
// expiry being the only bound on a reset token's lifetime.
type resetTokenStore struct {
	cache *cache.Client
}

var _ ResetTokenStore = (*resetTokenStore)(nil)

// NewResetTokenStore creates a Redis-backed reset token store.
func NewResetTokenStore(cache *cache.Client) ResetTokenStore {
	return &resetTokenStore{cache: cache}
}

// MarkUsed flags a jti as consumed until the token would have expired anyway.
func (s *resetTokenStore) MarkUsed(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return s.cache.Set(ctx, resetUsedKeyPrefix+jti, []byte("1"), ttl)
}

// IsUsed reports whether a jti has been consumed.
func (s *resetTokenStore) IsUsed(ctx context.Context, jti string) (bool, error) {
	data, err := s.cache.Get(ctx, resetUsedKeyPrefix+jti)
	if err != nil {
		return false, nil
	}
	return data != nil, nil
}
