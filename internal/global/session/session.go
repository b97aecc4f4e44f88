// Package session 记录已签发的登录会话，退出登录后 token 立即失效
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

type Store interface {
	// Create 新建会话并返回会话 ID
	Create(ctx context.Context, userID string, ttl time.Duration) (string, error)
	// Active 会话存在且属于该用户
	Active(ctx context.Context, sessionID, userID string) (bool, error)
	Revoke(ctx context.Context, sessionID string) error
}

const keyPrefix = "session:"

type RedisStore struct {
	client *goredis.Client
}

func NewRedisStore(client *goredis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Create(ctx context.Context, userID string, ttl time.Duration) (string, error) {
	id := uuid.NewString()
	if err := s.client.Set(ctx, keyPrefix+id, userID, ttl).Err(); err != nil {
		return "", err
	}
	return id, nil
}

func (s *RedisStore) Active(ctx context.Context, sessionID, userID string) (bool, error) {
	owner, err := s.client.Get(ctx, keyPrefix+sessionID).Result()
	if err == goredis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return owner == userID, nil
}

func (s *RedisStore) Revoke(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, keyPrefix+sessionID).Err()
}

type memoryEntry struct {
	userID    string
	expiresAt time.Time
}

// MemoryStore 单实例部署或测试时使用
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]memoryEntry
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]memoryEntry), now: time.Now}
}

func (s *MemoryStore) Create(_ context.Context, userID string, ttl time.Duration) (string, error) {
	id := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = memoryEntry{userID: userID, expiresAt: s.now().Add(ttl)}
	return id, nil
}

func (s *MemoryStore) Active(_ context.Context, sessionID, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[sessionID]
	if !ok {
		return false, nil
	}
	if s.now().After(e.expiresAt) {
		delete(s.sessions, sessionID)
		return false, nil
	}
	return e.userID == userID, nil
}

func (s *MemoryStore) Revoke(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}

var (
	defaultStore Store = NewMemoryStore()
	storeMu      sync.RWMutex
)

// Init 有 Redis 时使用 Redis，否则使用内存
func Init(client *goredis.Client) {
	if client != nil {
		SetDefault(NewRedisStore(client))
	}
}

func SetDefault(s Store) {
	storeMu.Lock()
	defer storeMu.Unlock()
	defaultStore = s
}

func Default() Store {
	storeMu.RLock()
	defer storeMu.RUnlock()
	return defaultStore
}
