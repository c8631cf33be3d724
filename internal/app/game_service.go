package app

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"trivia-rounds/internal/domain"
	"trivia-rounds/internal/game"
	"trivia-rounds/internal/logging"
)

// StateRepository persists the whole game as one record (in-memory, Redis, Postgres).
type StateRepository interface {
	Load(ctx context.Context) (*game.State, error)
	Save(ctx context.Context, state *game.State) error
	Delete(ctx context.Context) error
}

// GameService owns the live game. Every accepted mutation is written through to
// the repository before it becomes visible; a failed write leaves the previous
// state in place.
type GameService struct {
	repo           StateRepository
	totalQuestions int

	mu          sync.RWMutex
	state       *game.State
	subscribers map[chan game.Board]struct{}
}

func NewGameService(repo StateRepository, totalQuestions int) *GameService {
	return NewGameServiceWithState(repo, game.New(totalQuestions))
}

// NewGameServiceWithState starts from a prepared state; tests use it for predictable ids.
func NewGameServiceWithState(repo StateRepository, state *game.State) *GameService {
	return &GameService{
		repo:           repo,
		totalQuestions: state.TotalQuestions,
		state:          state,
		subscribers:    make(map[chan game.Board]struct{}),
	}
}

// Restore loads the persisted game. A missing record keeps the fresh state. The
// stored question count wins over the configured one until ResetGame.
func (s *GameService) Restore(ctx context.Context) error {
	loaded, err := s.repo.Load(ctx)
	if errors.Is(err, domain.ErrStateNotFound) {
		logging.Log.Info("no stored game, starting fresh")
		return nil
	}
	if err != nil {
		return &domain.PersistenceError{Op: "load", Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = loaded
	if loaded.TotalQuestions != s.totalQuestions {
		logging.Log.WithFields(logrus.Fields{
			"stored":     loaded.TotalQuestions,
			"configured": s.totalQuestions,
		}).Warn("stored question count differs from config, keeping stored value until the game is reset")
	}
	logging.Log.WithFields(logrus.Fields{
		"round":   loaded.CurrentRound,
		"players": len(loaded.Players),
	}).Info("restored game state")
	s.broadcastLocked()
	return nil
}

func (s *GameService) AddPlayer(ctx context.Context, name, profileImage, affiliation string) (string, error) {
	var id string
	err := s.mutate(ctx, "add player", func(st *game.State) error {
		id = st.AddPlayer(name, profileImage, affiliation)
		return nil
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *GameService) RemovePlayer(ctx context.Context, playerID string) error {
	return s.mutate(ctx, "remove player", func(st *game.State) error {
		if !st.RemovePlayer(playerID) {
			return domain.ErrPlayerNotFound
		}
		return nil
	})
}

// SetCurrentPlayer selects the acting player; an empty id clears it.
func (s *GameService) SetCurrentPlayer(ctx context.Context, playerID string) error {
	return s.mutate(ctx, "set current player", func(st *game.State) error {
		st.SetCurrentPlayer(playerID)
		return nil
	})
}

func (s *GameService) SetActiveQuestionType(ctx context.Context, t domain.QuestionType) error {
	return s.mutate(ctx, "set question type", func(st *game.State) error {
		return st.SetActiveQuestionType(t)
	})
}

func (s *GameService) MarkQuestionCompleted(ctx context.Context, question, answerIndex int, correct bool) error {
	return s.mutate(ctx, "complete question", func(st *game.State) error {
		return st.MarkQuestionCompleted(question, answerIndex, correct)
	})
}

func (s *GameService) RevertQuestion(ctx context.Context, playerID string, question int) error {
	return s.mutate(ctx, "revert question", func(st *game.State) error {
		return st.RevertQuestion(playerID, question)
	})
}

func (s *GameService) StartRound(ctx context.Context, round domain.Round, playerIDs []string) error {
	return s.mutate(ctx, "start round", func(st *game.State) error {
		return st.StartRound(round, playerIDs)
	})
}

func (s *GameService) SwitchToRound(ctx context.Context, round domain.Round) error {
	return s.mutate(ctx, "switch round", func(st *game.State) error {
		return st.SwitchToRound(round)
	})
}

func (s *GameService) ResetRound(ctx context.Context, round domain.Round) error {
	return s.mutate(ctx, "reset round", func(st *game.State) error {
		return st.ResetRound(round)
	})
}

func (s *GameService) AddToSelection(ctx context.Context, round domain.Round, playerID string) error {
	return s.mutate(ctx, "select player", func(st *game.State) error {
		return st.AddToSelection(round, playerID)
	})
}

func (s *GameService) RemoveFromSelection(ctx context.Context, round domain.Round, playerID string) error {
	return s.mutate(ctx, "deselect player", func(st *game.State) error {
		return st.RemoveFromSelection(round, playerID)
	})
}

// ResetGame clears every round and player, keeping the configured question count.
func (s *GameService) ResetGame(ctx context.Context) error {
	return s.mutate(ctx, "reset game", func(st *game.State) error {
		st.TotalQuestions = s.totalQuestions
		st.Reset()
		return nil
	})
}

func (s *GameService) Board() game.Board {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Board()
}

func (s *GameService) CurrentPlayer() (domain.Player, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.CurrentPlayer()
}

func (s *GameService) Player(playerID string) (domain.Player, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Player(playerID)
}

// PlayerStatus is a player together with their quota position, read from one state.
type PlayerStatus struct {
	Player              domain.Player `json:"player"`
	MaxQuestions        int           `json:"maxQuestions"`
	ReachedMaxQuestions bool          `json:"reachedMaxQuestions"`
}

func (s *GameService) PlayerStatus(playerID string) (PlayerStatus, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.state.Player(playerID)
	if !ok {
		return PlayerStatus{}, false
	}
	return PlayerStatus{
		Player:              p,
		MaxQuestions:        s.state.MaxQuestionsPerPlayer(),
		ReachedMaxQuestions: s.state.HasPlayerReachedMaxQuestions(playerID),
	}, true
}

func (s *GameService) PlayerRankings() []domain.Player {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.PlayerRankings()
}

func (s *GameService) IsQuestionCompleted(question int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.IsQuestionCompleted(question)
}

func (s *GameService) IsQuestionCompletedByPlayer(playerID string, question int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.IsQuestionCompletedByPlayer(playerID, question)
}

func (s *GameService) CorrectAnswerIndex(question int) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.CorrectAnswerIndex(question)
}

func (s *GameService) IsTieBreakerQuestion(question int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.IsTieBreakerQuestion(question)
}

func (s *GameService) AvailableQuestionsForCurrentPlayer() []int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.AvailableQuestionsForCurrentPlayer()
}

func (s *GameService) AllCompletedNumbers() []int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.AllCompletedNumbers()
}

func (s *GameService) CurrentRoundCompletedNumbers() []int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.CurrentRoundCompletedNumbers()
}

func (s *GameService) MaxQuestionsPerPlayer() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.MaxQuestionsPerPlayer()
}

func (s *GameService) HasPlayerReachedMaxQuestions(playerID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.HasPlayerReachedMaxQuestions(playerID)
}

func (s *GameService) SelectionCandidates(round domain.Round) []domain.Player {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.SelectionCandidates(round)
}

func (s *GameService) RoundPlayers(round domain.Round) []domain.Player {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.RoundPlayers(round)
}

// Subscribe returns a channel that receives the board after every accepted change.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *GameService) Subscribe() (<-chan game.Board, func()) {
	ch := make(chan game.Board, 8)

	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	ch <- s.state.Board()
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

// mutate applies fn to a copy of the state and commits it only after it was persisted.
func (s *GameService) mutate(ctx context.Context, op string, fn func(*game.State) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.Clone()
	if err := fn(next); err != nil {
		return err
	}
	if err := s.repo.Save(ctx, next); err != nil {
		logging.Log.WithError(err).WithField("op", op).Error("failed to persist game state")
		return &domain.PersistenceError{Op: op, Err: err}
	}
	s.state = next
	s.broadcastLocked()
	return nil
}

func (s *GameService) broadcastLocked() {
	if len(s.subscribers) == 0 {
		return
	}
	board := s.state.Board()
	for ch := range s.subscribers {
		select {
		case ch <- board:
		default:
			// drop the stale board so slow clients never block a mutation
			select {
			case <-ch:
			default:
			}
			ch <- board
		}
	}
}
