package auth

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const codeKeyPrefix = "verify:"

// RedisCodeStore keeps verification digests in redis under verify:<email>
// with a TTL.
type RedisCodeStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCodeStore(client *redis.Client, ttl time.Duration) *RedisCodeStore {
	return &RedisCodeStore{client: client, ttl: ttl}
}

func codeKey(email string) string {
	return codeKeyPrefix + strings.ToLower(strings.TrimSpace(email))
}

func (s *RedisCodeStore) Save(ctx context.Context, email, digest string) error {
	return s.client.Set(ctx, codeKey(email), digest, s.ttl).Err()
}

func (s *RedisCodeStore) Get(ctx context.Context, email string) (string, error) {
	val, err := s.client.Get(ctx, codeKey(email)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCodeExpired
	}
	return val, err
}

func (s *RedisCodeStore) Delete(ctx context.Context, email string) error {
	return s.client.Del(ctx, codeKey(email)).Err()
}

// MemoryCodeStore is used when no redis address is configured.
type MemoryCodeStore struct {
	mu    sync.Mutex
	ttl   time.Duration
	now   func() time.Time
	codes map[string]memoryCode
}

type memoryCode struct {
	digest    string
	expiresAt time.Time
}

func NewMemoryCodeStore(ttl time.Duration) *MemoryCodeStore {
	return &MemoryCodeStore{
		ttl:   ttl,
		now:   time.Now,
		codes: make(map[string]memoryCode),
	}
}

func (s *MemoryCodeStore) Save(_ context.Context, email, digest string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[codeKey(email)] = memoryCode{digest: digest, expiresAt: s.now().Add(s.ttl)}
	return nil
}

func (s *MemoryCodeStore) Get(_ context.Context, email string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := codeKey(email)
	c, ok := s.codes[key]
	if !ok {
		return "", ErrCodeExpired
	}
	if !s.now().Before(c.expiresAt) {
		delete(s.codes, key)
		return "", ErrCodeExpired
	}
	return c.digest, nil
}

func (s *MemoryCodeStore) Delete(_ context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.codes, codeKey(email))
	return nil
}
