package match

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/suxessedu/suxess-web/internal/api"

	"github.com/redis/go-redis/v9"
)

var ErrPanelNotFound = errors.New("matching panel not open")

// Store keeps open panels between page loads.
type Store interface {
	Load(ctx context.Context, key string) (*Workflow, error)
	Save(ctx context.Context, key string, w *Workflow) error
	Delete(ctx context.Context, key string) error
}

// Key scopes a panel to one browser session and one request.
func Key(sessionID string, requestID api.ID) string {
	return "match:" + sessionID + ":" + requestID.String()
}

type memoryEntry struct {
	data    []byte
	expires time.Time
}

// MemoryStore keeps panels in process. Expired entries are evicted when
// they are next touched.
type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:     ttl,
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (s *MemoryStore) Load(ctx context.Context, key string) (*Workflow, error) {
	s.mu.Lock()
	entry, ok := s.entries[key]
	if ok && s.now().After(entry.expires) {
		delete(s.entries, key)
		ok = false
	}
	s.mu.Unlock()

	if !ok {
		return nil, ErrPanelNotFound
	}
	return decode(entry.data)
}

func (s *MemoryStore) Save(ctx context.Context, key string, w *Workflow) error {
	data, err := json.Marshal(w)
	if err != nil {
		return fmt.Errorf("encode panel: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = memoryEntry{data: data, expires: s.now().Add(s.ttl)}
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

// Sweep drops every expired panel and reports how many were dropped.
func (s *MemoryStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	var dropped int
	for key, entry := range s.entries {
		if now.After(entry.expires) {
			delete(s.entries, key)
			dropped++
		}
	}
	return dropped
}

// RedisStore shares panels between console replicas.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Load(ctx context.Context, key string) (*Workflow, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrPanelNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load panel: %w", err)
	}
	return decode(data)
}

func (s *RedisStore) Save(ctx context.Context, key string, w *Workflow) error {
	data, err := json.Marshal(w)
	if err != nil {
		return fmt.Errorf("encode panel: %w", err)
	}
	if err := s.client.Set(ctx, key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save panel: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("delete panel: %w", err)
	}
	return nil
}

func decode(data []byte) (*Workflow, error) {
	var w Workflow
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("decode panel: %w", err)
	}
	return &w, nil
}
