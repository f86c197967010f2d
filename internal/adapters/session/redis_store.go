package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"

	"github.com/egov-portal/portal-service/internal/config"
	"github.com/egov-portal/portal-service/internal/core/domain"
	"github.com/egov-portal/portal-service/internal/core/ports"
)

const (
	keyPrefix       = "session:"
	userIndexPrefix = "user_sessions:"
)

func userIndexKey(userID int64) string {
	return userIndexPrefix + strconv.FormatInt(userID, 10)
}

// RedisClient is the subset of *redis.Client the store needs.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	SAdd(ctx context.Context, key string, members ...interface{}) *redis.IntCmd
	SMembers(ctx context.Context, key string) *redis.StringSliceCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

// RedisStore keeps sessions in Redis with a TTL equal to the session's
// remaining lifetime. Sessions are never refreshed. Each user also has a set
// of their session ids so all of them can be revoked at once.
type RedisStore struct {
	client RedisClient
	cb     *gobreaker.CircuitBreaker
	now    func() time.Time
}

var _ ports.SessionStore = (*RedisStore)(nil)

func NewRedisStore(client RedisClient) *RedisStore {
	return &RedisStore{
		client: client,
		cb:     config.NewCircuitBreaker(config.BreakerRedisSessions),
		now:    time.Now,
	}
}

func (s *RedisStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	if id == "" {
		return nil, domain.ErrSessionExpired
	}

	raw, err := s.cb.Execute(func() (interface{}, error) {
		val, err := s.client.Get(ctx, keyPrefix+id).Result()
		if errors.Is(err, redis.Nil) {
			// a missing key is an answer, not a Redis failure
			return "", nil
		}
		return val, err
	})
	if err != nil {
		return nil, fmt.Errorf("%w: load session: %v", domain.ErrStorage, err)
	}

	payload := raw.(string)
	if payload == "" {
		return nil, domain.ErrSessionExpired
	}

	var sess domain.Session
	if err := json.Unmarshal([]byte(payload), &sess); err != nil {
		// unreadable state is treated like no session at all
		return nil, domain.ErrSessionExpired
	}
	if sess.Expired(s.now()) {
		return nil, domain.ErrSessionExpired
	}
	return &sess, nil
}

func (s *RedisStore) Set(ctx context.Context, sess domain.Session) error {
	ttl := sess.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return fmt.Errorf("%w: session already expired", domain.ErrValidation)
	}

	payload, err := json.Marshal(sess)
	if err != nil {
		return err
	}

	index := userIndexKey(sess.UserID)
	_, err = s.cb.Execute(func() (interface{}, error) {
		if err := s.client.Set(ctx, keyPrefix+sess.ID, string(payload), ttl).Err(); err != nil {
			return nil, err
		}
		if err := s.client.SAdd(ctx, index, sess.ID).Err(); err != nil {
			return nil, err
		}
		// every session has the same lifetime, so the newest one bounds the index
		return nil, s.client.Expire(ctx, index, ttl).Err()
	})
	if err != nil {
		return fmt.Errorf("%w: save session: %v", domain.ErrStorage, err)
	}
	return nil
}

func (s *RedisStore) Destroy(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	_, err := s.cb.Execute(func() (interface{}, error) {
		return nil, s.client.Del(ctx, keyPrefix+id).Err()
	})
	if err != nil {
		return fmt.Errorf("%w: destroy session: %v", domain.ErrStorage, err)
	}
	return nil
}

// DestroyUser revokes every session of userID. Ids of sessions that already
// expired are deleted harmlessly.
func (s *RedisStore) DestroyUser(ctx context.Context, userID int64) error {
	index := userIndexKey(userID)
	_, err := s.cb.Execute(func() (interface{}, error) {
		ids, err := s.client.SMembers(ctx, index).Result()
		if err != nil {
			return nil, err
		}
		keys := make([]string, 0, len(ids)+1)
		for _, id := range ids {
			keys = append(keys, keyPrefix+id)
		}
		keys = append(keys, index)
		return nil, s.client.Del(ctx, keys...).Err()
	})
	if err != nil {
		return fmt.Errorf("%w: revoke sessions: %v", domain.ErrStorage, err)
	}
	return nil
}
