package memory

import (
	"sync"

	"github.com/PabloGalante/reviewsense-agent/internal/domain"
)

// ConversationStore keeps the per-manager conversation log in memory. The
// log survives session resets; it only disappears with the process.
type ConversationStore struct {
	mu        sync.RWMutex
	exchanges map[domain.ManagerID][]domain.Exchange
}

func NewConversationStore() *ConversationStore {
	return &ConversationStore{
		exchanges: make(map[domain.ManagerID][]domain.Exchange),
	}
}

func (s *ConversationStore) AppendExchange(managerID domain.ManagerID, ex domain.Exchange) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.exchanges[managerID] = append(s.exchanges[managerID], ex)
	return nil
}

func (s *ConversationStore) RecentExchanges(managerID domain.ManagerID, limit int) ([]domain.Exchange, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	exs := s.exchanges[managerID]
	if limit > 0 && len(exs) > limit {
		exs = exs[len(exs)-limit:]
	}
	out := make([]domain.Exchange, len(exs))
	copy(out, exs)
	return out, nil
}
