// Package session keeps one calculator engine per client session.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"go-chi-calculator/internal/engine"
)

// ErrNotFound is returned for unknown or evicted session ids.
var ErrNotFound = errors.New("session not found")

// Session pairs an engine with the lock that serialises its input events.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu       sync.Mutex
	engine   *engine.Engine
	lastUsed time.Time
}

// Do runs fn against the session's engine while holding the session lock and
// returns the resulting state. The state is returned even when fn fails.
func (s *Session) Do(fn func(*engine.Engine) error) (engine.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := fn(s.engine)
	s.lastUsed = time.Now()
	return s.engine.Snapshot(), err
}

// View runs fn without counting it as activity.
func (s *Session) View(fn func(*engine.Engine)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.engine)
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed
}

// Store is an in-memory session registry safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	idleTimeout time.Duration
	logger      *zap.Logger
	now         func() time.Time
}

// NewStore returns an empty store. Sessions idle for longer than idleTimeout
// are removed by EvictIdle; a zero timeout disables eviction.
func NewStore(idleTimeout time.Duration, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		sessions:    make(map[string]*Session),
		idleTimeout: idleTimeout,
		logger:      logger,
		now:         time.Now,
	}
}

// Create registers a new session with a cleared engine.
func (st *Store) Create() *Session {
	now := st.now()
	s := &Session{
		ID:        uuid.New().String(),
		CreatedAt: now,
		engine:    engine.New(),
		lastUsed:  now,
	}

	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()

	return s
}

// Get looks up a session by id.
func (st *Store) Get(id string) (*Session, error) {
	st.mu.RLock()
	s, ok := st.sessions[id]
	st.mu.RUnlock()

	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

// Delete removes a session.
func (st *Store) Delete(id string) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	if _, ok := st.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(st.sessions, id)
	return nil
}

// Len reports the number of live sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// EvictIdle removes sessions whose last activity is older than the idle
// timeout and returns their ids.
func (st *Store) EvictIdle() []string {
	if st.idleTimeout <= 0 {
		return nil
	}
	cutoff := st.now().Add(-st.idleTimeout)

	st.mu.Lock()
	defer st.mu.Unlock()

	var evicted []string
	for id, s := range st.sessions {
		if s.idleSince().Before(cutoff) {
			delete(st.sessions, id)
			evicted = append(evicted, id)
		}
	}
	return evicted
}

// Run evicts idle sessions every interval until ctx is cancelled.
func (st *Store) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if evicted := st.EvictIdle(); len(evicted) > 0 {
				st.logger.Info("evicted idle sessions",
					zap.Int("count", len(evicted)),
					zap.Int("remaining", st.Len()),
				)
			}
		}
	}
}
