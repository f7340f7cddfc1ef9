package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// redisKeySession returns the Redis key for a session.
func redisKeySession(sessionID uuid.UUID) string { return "session:" + sessionID.String() }

// redisKeyFailures returns the Redis key for the login failure counter.
func redisKeyFailures(username string) string {
	return "login:failures:" + strings.ToLower(username)
}

// Session is what the store keeps for a signed-in staff member.
type Session struct {
	UserID    uuid.UUID `json:"user_id"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// Store keeps sessions and login failure counters.
type Store interface {
	SaveSession(ctx context.Context, id uuid.UUID, s Session, ttl time.Duration) error
	// GetSession returns ErrSessionNotFound when the session expired or never existed.
	GetSession(ctx context.Context, id uuid.UUID) (Session, error)
	TouchSession(ctx context.Context, id uuid.UUID, ttl time.Duration) error
	DeleteSession(ctx context.Context, id uuid.UUID) (bool, error)

	Failures(ctx context.Context, username string) (int64, error)
	RecordFailure(ctx context.Context, username string, window time.Duration) (int64, error)
	ClearFailures(ctx context.Context, username string) error
}

// ---------------------------------------------------------------------------
// Redis
// ---------------------------------------------------------------------------

type RedisStore struct {
	rdb redis.Cmdable
}

func NewRedisStore(rdb redis.Cmdable) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (s *RedisStore) SaveSession(ctx context.Context, id uuid.UUID, sess Session, ttl time.Duration) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.rdb.Set(ctx, redisKeySession(id), raw, ttl).Err(); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

func (s *RedisStore) GetSession(ctx context.Context, id uuid.UUID) (Session, error) {
	raw, err := s.rdb.Get(ctx, redisKeySession(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Session{}, ErrSessionNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("redis get session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return Session{}, fmt.Errorf("decode session: %w", err)
	}
	return sess, nil
}

func (s *RedisStore) TouchSession(ctx context.Context, id uuid.UUID, ttl time.Duration) error {
	ok, err := s.rdb.Expire(ctx, redisKeySession(id), ttl).Result()
	if err != nil {
		return fmt.Errorf("extend session: %w", err)
	}
	if !ok {
		return ErrSessionNotFound
	}
	return nil
}

func (s *RedisStore) DeleteSession(ctx context.Context, id uuid.UUID) (bool, error) {
	n, err := s.rdb.Del(ctx, redisKeySession(id)).Result()
	if err != nil {
		return false, fmt.Errorf("delete session: %w", err)
	}
	return n > 0, nil
}

func (s *RedisStore) Failures(ctx context.Context, username string) (int64, error) {
	n, err := s.rdb.Get(ctx, redisKeyFailures(username)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis get failures: %w", err)
	}
	return n, nil
}

func (s *RedisStore) RecordFailure(ctx context.Context, username string, window time.Duration) (int64, error) {
	key := redisKeyFailures(username)
	n, err := s.rdb.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("redis incr failures: %w", err)
	}
	// the window starts at the first failure
	if n == 1 {
		if err := s.rdb.Expire(ctx, key, window).Err(); err != nil {
			return n, fmt.Errorf("redis expire failures: %w", err)
		}
	}
	return n, nil
}

func (s *RedisStore) ClearFailures(ctx context.Context, username string) error {
	if err := s.rdb.Del(ctx, redisKeyFailures(username)).Err(); err != nil {
		return fmt.Errorf("redis clear failures: %w", err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Memory
// ---------------------------------------------------------------------------

type memoryEntry struct {
	session   Session
	failures  int64
	expiresAt time.Time
}

// MemoryStore is used when Redis is disabled. Sessions do not survive a restart.
type MemoryStore struct {
	mu       sync.Mutex
	now      func() time.Time
	sessions map[uuid.UUID]memoryEntry
	failures map[string]memoryEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		now:      time.Now,
		sessions: make(map[uuid.UUID]memoryEntry),
		failures: make(map[string]memoryEntry),
	}
}

func (s *MemoryStore) live(e memoryEntry) bool {
	return e.expiresAt.IsZero() || s.now().Before(e.expiresAt)
}

func (s *MemoryStore) deadline(ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return s.now().Add(ttl)
}

func (s *MemoryStore) SaveSession(_ context.Context, id uuid.UUID, sess Session, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = memoryEntry{session: sess, expiresAt: s.deadline(ttl)}
	return nil
}

func (s *MemoryStore) GetSession(_ context.Context, id uuid.UUID) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[id]
	if !ok || !s.live(e) {
		delete(s.sessions, id)
		return Session{}, ErrSessionNotFound
	}
	return e.session, nil
}

func (s *MemoryStore) TouchSession(_ context.Context, id uuid.UUID, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[id]
	if !ok || !s.live(e) {
		delete(s.sessions, id)
		return ErrSessionNotFound
	}
	e.expiresAt = s.deadline(ttl)
	s.sessions[id] = e
	return nil
}

func (s *MemoryStore) DeleteSession(_ context.Context, id uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[id]
	delete(s.sessions, id)
	return ok && s.live(e), nil
}

func (s *MemoryStore) Failures(_ context.Context, username string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.failures[strings.ToLower(username)]
	if !ok || !s.live(e) {
		return 0, nil
	}
	return e.failures, nil
}

func (s *MemoryStore) RecordFailure(_ context.Context, username string, window time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(username)
	e, ok := s.failures[key]
	if !ok || !s.live(e) {
		e = memoryEntry{expiresAt: s.deadline(window)}
	}
	e.failures++
	s.failures[key] = e
	return e.failures, nil
}

func (s *MemoryStore) ClearFailures(_ context.Context, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.failures, strings.ToLower(username))
	return nil
}
