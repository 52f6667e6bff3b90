package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const resetCodeKeyPrefix = "REDEFINE_CODE"

// PasswordResetRepository stores redefine-password codes with a TTL.
type PasswordResetRepository struct {
	client *redis.Client
}

// NewPasswordResetRepository constructs a password reset repository.
func NewPasswordResetRepository(client *redis.Client) *PasswordResetRepository {
	return &PasswordResetRepository{client: client}
}

// Save stores the code pointing at the user it was issued for.
func (r *PasswordResetRepository) Save(ctx context.Context, code, userID string, ttl time.Duration) error {
	if err := r.client.Set(ctx, resetCodeKey(code), userID, ttl).Err(); err != nil {
		return storeUnavailable(err, "save reset code")
	}
	return nil
}

// FindUserID returns the user the code belongs to, or empty when the code is
// unknown or expired.
func (r *PasswordResetRepository) FindUserID(ctx context.Context, code string) (string, error) {
	userID, err := r.client.Get(ctx, resetCodeKey(code)).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil
		}
		return "", storeUnavailable(err, "find reset code")
	}
	return userID, nil
}

// Delete consumes a code; absent codes are a no-op.
func (r *PasswordResetRepository) Delete(ctx context.Context, code string) error {
	if err := r.client.Del(ctx, resetCodeKey(code)).Err(); err != nil {
		return storeUnavailable(err, "delete reset code")
	}
	return nil
}

func resetCodeKey(code string) string {
	return fmt.Sprintf("%s:%s", resetCodeKeyPrefix, code)
}
