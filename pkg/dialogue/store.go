package dialogue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	jsoniter "github.com/json-iterator/go"

	"github.com/ohmatt160/library-AI-chatbot/internal/entity"
	"github.com/ohmatt160/library-AI-chatbot/pkg/redis"
)

var ErrContextNotFound = errors.New("dialogue: conversation context not found")

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ContextStore is a key-value store with sliding expiry: every Set restarts
// the key's TTL.
type ContextStore interface {
	Get(ctx context.Context, key string) (*entity.ConversationContext, error)
	Set(ctx context.Context, key string, conv *entity.ConversationContext, ttl time.Duration) error
}

type RedisStore struct {
	client redis.IRedis
}

func NewRedisStore(client redis.IRedis) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, key string) (*entity.ConversationContext, error) {
	raw, err := s.client.Get(ctx, key)
	if errors.Is(err, redis.ErrNotFound) {
		return nil, ErrContextNotFound
	}
	if err != nil {
		return nil, err
	}
	return decode(raw)
}

func (s *RedisStore) Set(ctx context.Context, key string, conv *entity.ConversationContext, ttl time.Duration) error {
	raw, err := json.Marshal(conv)
	if err != nil {
		return fmt.Errorf("encode context: %w", err)
	}
	return s.client.Set(ctx, key, raw, ttl)
}

// MemoryStore keeps contexts in a size-bounded LRU. The TTL is fixed when
// the store is built; the ttl passed to Set is ignored.
type MemoryStore struct {
	cache *expirable.LRU[string, []byte]
}

func NewMemoryStore(size int, ttl time.Duration) *MemoryStore {
	if size <= 0 {
		size = 10000
	}
	return &MemoryStore{cache: expirable.NewLRU[string, []byte](size, nil, ttl)}
}

func (s *MemoryStore) Get(_ context.Context, key string) (*entity.ConversationContext, error) {
	raw, ok := s.cache.Get(key)
	if !ok {
		return nil, ErrContextNotFound
	}
	return decode(raw)
}

func (s *MemoryStore) Set(_ context.Context, key string, conv *entity.ConversationContext, _ time.Duration) error {
	raw, err := json.Marshal(conv)
	if err != nil {
		return fmt.Errorf("encode context: %w", err)
	}
	s.cache.Add(key, raw)
	return nil
}

func decode(raw []byte) (*entity.ConversationContext, error) {
	var conv entity.ConversationContext
	if err := json.Unmarshal(raw, &conv); err != nil {
		return nil, fmt.Errorf("decode context: %w", err)
	}
	return &conv, nil
}
