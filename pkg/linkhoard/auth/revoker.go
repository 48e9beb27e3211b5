package auth

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Revoker keeps a denylist of revoked token IDs in Redis so that logout
// actually invalidates the session server-side. Entries expire with the
// token itself, so the set never needs sweeping.
type Revoker struct {
	rdb *redis.Client
}

// NewRevoker connects to Redis and verifies the connection.
func NewRevoker(addr, password string, db int) (*Revoker, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Revoker{rdb: rdb}, nil
}

func revokeKey(jti string) string {
	return "linkhoard:revoked:" + jti
}

// Revoke marks a token ID as revoked until its natural expiry.
func (r *Revoker) Revoke(ctx context.Context, jti string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil // already expired, nothing to deny
	}
	return r.rdb.Set(ctx, revokeKey(jti), "1", ttl).Err()
}

// IsRevoked reports whether a token ID is on the denylist. Redis errors are
// treated as not-revoked so a Redis outage does not lock everyone out.
func (r *Revoker) IsRevoked(ctx context.Context, jti string) bool {
	n, err := r.rdb.Exists(ctx, revokeKey(jti)).Result()
	if err != nil {
		return false
	}
	return n > 0
}

// Close releases the Redis connection.
func (r *Revoker) Close() error {
	return r.rdb.Close()
}

var activeRevoker *Revoker

// SetRevoker installs the process-wide revoker. Nil disables server-side
// logout, matching the behavior when Redis is not configured.
func SetRevoker(r *Revoker) {
	activeRevoker = r
}

// GetRevoker returns the installed revoker, or nil.
func GetRevoker() *Revoker {
	return activeRevoker
}
