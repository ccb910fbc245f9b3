package dialogue

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kapu/media-rating-bot-go/internal/constants"
)

// Store keeps at most one session per conversation.
type Store interface {
	// Get returns nil without error when the conversation has no live session.
	Get(ctx context.Context, conversationID string) (*Session, error)
	Save(ctx context.Context, session *Session) error
	Delete(ctx context.Context, conversationID string) error
}

type memoryEntry struct {
	session   Session
	expiresAt time.Time
}

// MemoryStore is a process-local Store. Sessions expire after ttl of inactivity.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]memoryEntry
	ttl      time.Duration
	now      func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = constants.SessionConfig.TTL
	}
	return &MemoryStore{
		sessions: make(map[string]memoryEntry),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (s *MemoryStore) Get(_ context.Context, conversationID string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[conversationID]
	if !ok {
		return nil, nil
	}
	if !s.now().Before(entry.expiresAt) {
		delete(s.sessions, conversationID)
		return nil, nil
	}

	session := entry.session
	session.Candidates = append(session.Candidates[:0:0], entry.session.Candidates...)
	return &session, nil
}

func (s *MemoryStore) Save(_ context.Context, session *Session) error {
	if session == nil || session.ConversationID == "" {
		return fmt.Errorf("session without conversation id")
	}

	stored := *session
	stored.Candidates = append(session.Candidates[:0:0], session.Candidates...)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ConversationID] = memoryEntry{
		session:   stored,
		expiresAt: s.now().Add(s.ttl),
	}
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, conversationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, conversationID)
	return nil
}

// Len reports the number of stored sessions, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// JSONCache is the subset of the Redis cache service used for sessions.
type JSONCache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// RedisStore keeps sessions in Redis so they survive restarts.
type RedisStore struct {
	cache JSONCache
	ttl   time.Duration
}

func NewRedisStore(cache JSONCache, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = constants.SessionConfig.TTL
	}
	return &RedisStore{cache: cache, ttl: ttl}
}

func (s *RedisStore) Get(ctx context.Context, conversationID string) (*Session, error) {
	var session Session
	found, err := s.cache.Get(ctx, sessionKey(conversationID), &session)
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", conversationID, err)
	}
	if !found {
		return nil, nil
	}
	return &session, nil
}

func (s *RedisStore) Save(ctx context.Context, session *Session) error {
	if session == nil || session.ConversationID == "" {
		return fmt.Errorf("session without conversation id")
	}
	if err := s.cache.Set(ctx, sessionKey(session.ConversationID), session, s.ttl); err != nil {
		return fmt.Errorf("save session %s: %w", session.ConversationID, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, conversationID string) error {
	if err := s.cache.Del(ctx, sessionKey(conversationID)); err != nil {
		return fmt.Errorf("delete session %s: %w", conversationID, err)
	}
	return nil
}

func sessionKey(conversationID string) string {
	return constants.SessionConfig.KeyPrefix + conversationID
}
