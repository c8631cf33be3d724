package memory

import (
	"context"
	"sync"

	"trivia-rounds/internal/domain"
	"trivia-rounds/internal/game"
)

// StateStore is an in-memory implementation of app.StateRepository. It keeps the
// encoded record so loads never alias the live state.
type StateStore struct {
	mu     sync.RWMutex
	record []byte
}

func NewStateStore() *StateStore {
	return &StateStore{}
}

func (s *StateStore) Load(_ context.Context) (*game.State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.record == nil {
		return nil, domain.ErrStateNotFound
	}
	return game.Decode(s.record)
}

func (s *StateStore) Save(_ context.Context, state *game.State) error {
	data, err := game.Encode(state)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.record = data
	s.mu.Unlock()
	return nil
}

func (s *StateStore) Delete(_ context.Context) error {
	s.mu.Lock()
	s.record = nil
	s.mu.Unlock()
	return nil
}
