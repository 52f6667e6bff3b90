package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/kaiqkt/auth-registry-api/internal/models"
	appErrors "github.com/kaiqkt/auth-registry-api/pkg/errors"
)

const sessionKeyPrefix = "USER_SESSION"

// SessionRepository is the session store: expiring records keyed by
// (userId, sessionId). It never interprets session semantics, it only
// persists and retrieves them. Any transport failure surfaces as
// STORE_UNAVAILABLE, never as a raw client error.
type SessionRepository struct {
	client *redis.Client
	logger *zap.Logger
}

// NewSessionRepository constructs a session repository.
func NewSessionRepository(client *redis.Client, logger *zap.Logger) *SessionRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionRepository{client: client, logger: logger}
}

// Save upserts a session under its composite key and refreshes the TTL.
func (r *SessionRepository) Save(ctx context.Context, session *models.Session, ttl time.Duration) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "marshal session")
	}

	key := sessionKey(session.UserID, session.ID)
	if err := r.client.Set(ctx, key, payload, ttl).Err(); err != nil {
		return storeUnavailable(err, "save session")
	}
	return nil
}

// Find returns the session or nil when absent or expired. Absence is not an
// error; callers decide what it means.
func (r *SessionRepository) Find(ctx context.Context, sessionID, userID string) (*models.Session, error) {
	raw, err := r.client.Get(ctx, sessionKey(userID, sessionID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, storeUnavailable(err, "find session")
	}

	var session models.Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "unmarshal session")
	}
	return &session, nil
}

// FindAllByUser scans the user's namespace and returns every live session.
// Sessions carry no secondary index, so this walks the key pattern.
func (r *SessionRepository) FindAllByUser(ctx context.Context, userID string) ([]models.Session, error) {
	var sessions []models.Session

	iter := r.client.Scan(ctx, 0, userPattern(userID), 0).Iterator()
	for iter.Next(ctx) {
		raw, err := r.client.Get(ctx, iter.Val()).Bytes()
		if err != nil {
			if err == redis.Nil {
				continue
			}
			return nil, storeUnavailable(err, "find sessions")
		}

		var session models.Session
		if err := json.Unmarshal(raw, &session); err != nil {
			r.logger.Warn("skipping undecodable session record", zap.String("key", iter.Val()), zap.Error(err))
			continue
		}
		sessions = append(sessions, session)
	}
	if err := iter.Err(); err != nil {
		return nil, storeUnavailable(err, "scan sessions")
	}

	return sessions, nil
}

// Delete removes a single session key. Deleting an absent key is a no-op.
func (r *SessionRepository) Delete(ctx context.Context, sessionID, userID string) error {
	if err := r.client.Del(ctx, sessionKey(userID, sessionID)).Err(); err != nil {
		return storeUnavailable(err, "delete session")
	}
	return nil
}

// DeleteAllByUser removes every session key in the user's namespace.
func (r *SessionRepository) DeleteAllByUser(ctx context.Context, userID string) error {
	return r.deleteByPattern(ctx, userID, "")
}

// DeleteAllByUserExceptCurrent removes every session key in the user's
// namespace except the one matching sessionID.
func (r *SessionRepository) DeleteAllByUserExceptCurrent(ctx context.Context, sessionID, userID string) error {
	return r.deleteByPattern(ctx, userID, sessionKey(userID, sessionID))
}

func (r *SessionRepository) deleteByPattern(ctx context.Context, userID, keep string) error {
	iter := r.client.Scan(ctx, 0, userPattern(userID), 0).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		if key == keep {
			continue
		}
		if err := r.client.Del(ctx, key).Err(); err != nil {
			return storeUnavailable(err, "delete sessions")
		}
	}
	if err := iter.Err(); err != nil {
		return storeUnavailable(err, "scan sessions")
	}
	return nil
}

func sessionKey(userID, sessionID string) string {
	return fmt.Sprintf("%s:%s:%s", sessionKeyPrefix, userID, sessionID)
}

func userPattern(userID string) string {
	return fmt.Sprintf("%s:%s:*", sessionKeyPrefix, userID)
}

func storeUnavailable(err error, msg string) error {
	return appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, msg)
}
