package inmem

import (
	"context"
	"sync"

	replicationv1 "github.com/muhammadchandra19/venue-ledger/internal/domain/replication/v1"
	"github.com/muhammadchandra19/venue-ledger/pkg/errors"
)

// Sessions maps connected sessions to the principals that opened them.
type Sessions struct {
	mu         sync.RWMutex
	principals map[string]string
}

var _ replicationv1.Identity = (*Sessions)(nil)

func NewSessions() *Sessions {
	return &Sessions{principals: make(map[string]string)}
}

// Bind associates session with principal, replacing any previous binding.
func (s *Sessions) Bind(session, principal string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.principals[session] = principal
}

// Forget drops session.
func (s *Sessions) Forget(session string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.principals, session)
}

// Principal resolves session. Unknown sessions fail validation.
func (s *Sessions) Principal(_ context.Context, session string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	principal, ok := s.principals[session]
	if !ok {
		return "", errors.NewValidationError(errors.UnknownSession, "session is not known", "session")
	}
	return principal, nil
}
