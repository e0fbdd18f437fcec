// Package idempotency replays the stored response of a POST request that is
// retried with the same Idempotency-Key. Stores are pluggable: an in-process
// map for single-instance deployments and Redis when several instances serve
// the same clients.
package idempotency

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned by Store.Get when nothing is stored for a key.
var ErrNotFound = errors.New("idempotency: record not found")

// Record is a captured response. A pending record marks a key whose first
// request is still being served.
type Record struct {
	Pending     bool      `json:"pending,omitempty"`
	Status      int       `json:"status,omitempty"`
	ContentType string    `json:"content_type,omitempty"`
	Body        []byte    `json:"body,omitempty"`
	StoredAt    time.Time `json:"stored_at"`
}

// Store persists captured responses for a limited time.
type Store interface {
	Get(ctx context.Context, key string) (*Record, error)
	// Reserve stores a pending record unless any record exists for key. It
	// reports whether the caller now owns the key.
	Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error)
	// Complete replaces the record for key with rec.
	Complete(ctx context.Context, key string, rec *Record, ttl time.Duration) error
	// Release drops the record for key so the request can be retried.
	Release(ctx context.Context, key string) error
}

// MemoryStore keeps records in process memory.
type MemoryStore struct {
	mu      sync.Mutex
	now     func() time.Time
	records map[string]memoryEntry
}

type memoryEntry struct {
	rec       Record
	expiresAt time.Time
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now, records: make(map[string]memoryEntry)}
}

func (s *MemoryStore) Get(_ context.Context, key string) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.records[key]
	if !ok {
		return nil, ErrNotFound
	}
	if !s.now().Before(entry.expiresAt) {
		delete(s.records, key)
		return nil, ErrNotFound
	}
	rec := entry.rec
	rec.Body = append([]byte(nil), entry.rec.Body...)
	return &rec, nil
}

func (s *MemoryStore) Reserve(_ context.Context, key string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if entry, ok := s.records[key]; ok && now.Before(entry.expiresAt) {
		return false, nil
	}
	s.records[key] = memoryEntry{
		rec:       Record{Pending: true, StoredAt: now.UTC()},
		expiresAt: now.Add(ttl),
	}
	return true, nil
}

func (s *MemoryStore) Complete(_ context.Context, key string, rec *Record, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *rec
	stored.Pending = false
	stored.Body = append([]byte(nil), rec.Body...)
	s.records[key] = memoryEntry{rec: stored, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *MemoryStore) Release(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.records, key)
	return nil
}

// Purge removes expired records and returns how many were dropped.
func (s *MemoryStore) Purge() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now, n := s.now(), 0
	for key, entry := range s.records {
		if !now.Before(entry.expiresAt) {
			delete(s.records, key)
			n++
		}
	}
	return n
}

// RedisStore keeps records in Redis as JSON under a key prefix.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore creates a Redis-backed store. Keys are written as
// prefix + key.
func NewRedisStore(client redis.UniversalClient, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) Get(ctx context.Context, key string) (*Record, error) {
	data, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get idempotency record: %w", err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode idempotency record: %w", err)
	}
	return &rec, nil
}

func (s *RedisStore) Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	data, err := json.Marshal(Record{Pending: true, StoredAt: time.Now().UTC()})
	if err != nil {
		return false, fmt.Errorf("encode idempotency reservation: %w", err)
	}

	ok, err := s.client.SetNX(ctx, s.prefix+key, data, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("reserve idempotency key: %w", err)
	}
	return ok, nil
}

func (s *RedisStore) Complete(ctx context.Context, key string, rec *Record, ttl time.Duration) error {
	stored := *rec
	stored.Pending = false
	data, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("encode idempotency record: %w", err)
	}

	if err := s.client.Set(ctx, s.prefix+key, data, ttl).Err(); err != nil {
		return fmt.Errorf("save idempotency record: %w", err)
	}
	return nil
}

func (s *RedisStore) Release(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("release idempotency key: %w", err)
	}
	return nil
}
