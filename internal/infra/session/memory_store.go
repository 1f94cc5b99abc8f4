package session

import "sync"

// MemoryStore guarda as respostas pendentes de confirmação por lead.
// Vive só enquanto o processo estiver no ar: nada é persistido.
type MemoryStore struct {
	mu      sync.RWMutex
	pending map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{pending: make(map[string]string)}
}

func (s *MemoryStore) Get(leadID string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	reply, ok := s.pending[leadID]
	return reply, ok
}

func (s *MemoryStore) Set(leadID, reply string) {
	s.mu.Lock()
	s.pending[leadID] = reply
	s.mu.Unlock()
}

func (s *MemoryStore) Delete(leadID string) {
	s.mu.Lock()
	delete(s.pending, leadID)
	s.mu.Unlock()
}

func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.pending)
}
