package bot

import (
	"sync"
	"time"

	"museumbot/internal/utils"
)

// SessionStore keeps one Session per conversation id. Sessions idle
// for longer than the TTL are evicted by a janitor goroutine so the
// map stays bounded; abandoned conversations simply start over.
type SessionStore struct {
	mu         sync.Mutex
	sessions   map[string]*Session
	lastActive map[string]time.Time
	ttl        time.Duration
	stop       chan struct{}
	stopOnce   sync.Once
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	s := &SessionStore{
		sessions:   make(map[string]*Session),
		lastActive: make(map[string]time.Time),
		ttl:        ttl,
		stop:       make(chan struct{}),
	}
	go s.janitor()
	return s
}

// Get returns the session for a conversation, creating it in the Init
// state when absent, and refreshes its activity timestamp. Activity is
// tracked in the store's own map, guarded by its mutex, so the engine
// can rewrite a Session wholesale without touching eviction state.
func (s *SessionStore) Get(convID string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[convID]
	if !ok {
		sess = &Session{ConvID: convID, State: StateInit}
		s.sessions[convID] = sess
	}
	s.lastActive[convID] = time.Now()
	return sess
}

func (s *SessionStore) Delete(convID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, convID)
	delete(s.lastActive, convID)
}

func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *SessionStore) Close() {
	s.stopOnce.Do(func() { close(s.stop) })
}

func (s *SessionStore) janitor() {
	interval := s.ttl / 4
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.evict(time.Now())
		case <-s.stop:
			return
		}
	}
}

func (s *SessionStore) evict(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id := range s.sessions {
		if now.Sub(s.lastActive[id]) > s.ttl {
			delete(s.sessions, id)
			delete(s.lastActive, id)
			utils.LogEvent(id, "session", "evict", "idle past ttl")
		}
	}
}
