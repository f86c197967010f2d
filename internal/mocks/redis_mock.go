package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// MockRedisClient is an in-memory stand-in for the few Redis commands the
// session store and health check issue. Expiry follows the Now clock so tests
// can move time forward without sleeping.
type MockRedisClient struct {
	mu   sync.RWMutex
	data map[string]mockRedisValue
	sets map[string]map[string]struct{}

	Now func() time.Time

	// Call tracking
	SetCalls    []SetCall
	DelCalls    []string
	ExpireCalls []SetCall

	// Error injection
	SetError  error
	GetError  error
	DelError  error
	PingError error
}

// SetCall records one SET issued against the mock.
type SetCall struct {
	Key string
	TTL time.Duration
}

type mockRedisValue struct {
	value     string
	expiresAt time.Time
}

func NewMockRedisClient() *MockRedisClient {
	return &MockRedisClient{
		data: make(map[string]mockRedisValue),
		sets: make(map[string]map[string]struct{}),
		Now:  time.Now,
	}
}

func (m *MockRedisClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	m.mu.Lock()
	defer m.mu.Unlock()

	cmd := redis.NewStatusCmd(ctx)
	m.SetCalls = append(m.SetCalls, SetCall{Key: key, TTL: expiration})

	if m.SetError != nil {
		cmd.SetErr(m.SetError)
		return cmd
	}

	var expiresAt time.Time
	if expiration > 0 {
		expiresAt = m.Now().Add(expiration)
	}
	m.data[key] = mockRedisValue{value: value.(string), expiresAt: expiresAt}

	cmd.SetVal("OK")
	return cmd
}

func (m *MockRedisClient) Get(ctx context.Context, key string) *redis.StringCmd {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cmd := redis.NewStringCmd(ctx)
	if m.GetError != nil {
		cmd.SetErr(m.GetError)
		return cmd
	}

	val, ok := m.data[key]
	if !ok || m.expired(val) {
		cmd.SetErr(redis.Nil)
		return cmd
	}

	cmd.SetVal(val.value)
	return cmd
}

func (m *MockRedisClient) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	m.mu.Lock()
	defer m.mu.Unlock()

	cmd := redis.NewIntCmd(ctx)
	m.DelCalls = append(m.DelCalls, keys...)

	if m.DelError != nil {
		cmd.SetErr(m.DelError)
		return cmd
	}

	var deleted int64
	for _, key := range keys {
		if _, ok := m.data[key]; ok {
			delete(m.data, key)
			deleted++
		}
		if _, ok := m.sets[key]; ok {
			delete(m.sets, key)
			deleted++
		}
	}

	cmd.SetVal(deleted)
	return cmd
}

func (m *MockRedisClient) SAdd(ctx context.Context, key string, members ...interface{}) *redis.IntCmd {
	m.mu.Lock()
	defer m.mu.Unlock()

	cmd := redis.NewIntCmd(ctx)
	if m.SetError != nil {
		cmd.SetErr(m.SetError)
		return cmd
	}

	set, ok := m.sets[key]
	if !ok {
		set = make(map[string]struct{})
		m.sets[key] = set
	}
	var added int64
	for _, member := range members {
		s := member.(string)
		if _, ok := set[s]; !ok {
			set[s] = struct{}{}
			added++
		}
	}
	cmd.SetVal(added)
	return cmd
}

func (m *MockRedisClient) SMembers(ctx context.Context, key string) *redis.StringSliceCmd {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cmd := redis.NewStringSliceCmd(ctx)
	if m.GetError != nil {
		cmd.SetErr(m.GetError)
		return cmd
	}

	members := []string{}
	for s := range m.sets[key] {
		members = append(members, s)
	}
	cmd.SetVal(members)
	return cmd
}

// Expire is tracked only; set keys do not expire in the mock.
func (m *MockRedisClient) Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	m.mu.Lock()
	defer m.mu.Unlock()

	cmd := redis.NewBoolCmd(ctx)
	m.ExpireCalls = append(m.ExpireCalls, SetCall{Key: key, TTL: expiration})
	if m.SetError != nil {
		cmd.SetErr(m.SetError)
		return cmd
	}
	_, ok := m.sets[key]
	cmd.SetVal(ok)
	return cmd
}

func (m *MockRedisClient) Ping(ctx context.Context) *redis.StatusCmd {
	cmd := redis.NewStatusCmd(ctx)
	if m.PingError != nil {
		cmd.SetErr(m.PingError)
		return cmd
	}
	cmd.SetVal("PONG")
	return cmd
}

// SetKey writes a raw value, bypassing call tracking.
func (m *MockRedisClient) SetKey(key, value string, expiration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var expiresAt time.Time
	if expiration > 0 {
		expiresAt = m.Now().Add(expiration)
	}
	m.data[key] = mockRedisValue{value: value, expiresAt: expiresAt}
}

// HasKey reports whether key holds a live value.
func (m *MockRedisClient) HasKey(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	val, ok := m.data[key]
	return ok && !m.expired(val)
}

func (m *MockRedisClient) expired(v mockRedisValue) bool {
	return !v.expiresAt.IsZero() && !m.Now().Before(v.expiresAt)
}
