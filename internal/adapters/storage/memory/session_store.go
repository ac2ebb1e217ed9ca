package memory

import (
	"sync"
	"time"

	"github.com/PabloGalante/reviewsense-agent/internal/domain"
)

// SessionStore is the in-memory domain.SessionStore used in local mode and
// in tests. It is safe for concurrent use across manager identities;
// serializing transitions for a single manager is the approval service's
// per-key guard, not the store.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[domain.ManagerID]*domain.Session
	// lastSeen outlives the sessions map: clearing a session keeps the
	// manager's activity history for the idle-reminder policy.
	lastSeen map[domain.ManagerID]time.Time
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[domain.ManagerID]*domain.Session),
		lastSeen: make(map[domain.ManagerID]time.Time),
	}
}

func (s *SessionStore) GetSession(managerID domain.ManagerID) (*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[managerID]
	if !ok {
		return nil, domain.ErrNoSession
	}
	return sess, nil
}

func (s *SessionStore) PutSession(session *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[session.ManagerID] = session
	if !session.LastActivity.IsZero() {
		s.lastSeen[session.ManagerID] = session.LastActivity
	}
	return nil
}

// ClearSession drops the queue, cursor and lifecycle. Activity tracking is
// preserved on purpose.
func (s *SessionStore) ClearSession(managerID domain.ManagerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, managerID)
	return nil
}

func (s *SessionStore) Touch(managerID domain.ManagerID, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if at.After(s.lastSeen[managerID]) {
		s.lastSeen[managerID] = at
	}
}

func (s *SessionStore) LastActivity(managerID domain.ManagerID) (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	at, ok := s.lastSeen[managerID]
	return at, ok
}
