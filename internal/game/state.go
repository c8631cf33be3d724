package game

import (
	"sort"

	"github.com/google/uuid"

	"trivia-rounds/internal/domain"
)

// State is the single container for a game: the live round plus frozen snapshots of
// every other round that has been played. It performs no I/O and is not safe for
// concurrent use; callers serialize access.
type State struct {
	TotalQuestions     int                                   `json:"totalQuestions"`
	CurrentRound       domain.Round                          `json:"currentRound"`
	Players            []domain.Player                       `json:"players"`
	CurrentPlayerID    string                                `json:"currentPlayerId,omitempty"`
	CompletedNumbers   []int                                 `json:"completedNumbers"`
	QuestionAnswers    map[int]int                           `json:"questionAnswers"`
	ActiveQuestionType domain.QuestionType                   `json:"activeQuestionType"`
	Snapshots          map[domain.Round]domain.RoundSnapshot `json:"snapshots"`
	Selections         map[domain.Round][]string             `json:"selections"`

	newID func() string
}

// New returns an empty game over questions 1..totalQuestions.
func New(totalQuestions int) *State {
	return NewWithIDSource(totalQuestions, func() string { return uuid.New().String() })
}

// NewWithIDSource is used by tests that need predictable player ids.
func NewWithIDSource(totalQuestions int, newID func() string) *State {
	s := &State{TotalQuestions: totalQuestions, newID: newID}
	s.Reset()
	return s
}

// Reset clears everything except the question count.
func (s *State) Reset() {
	s.CurrentRound = domain.RoundOne
	s.Players = nil
	s.CurrentPlayerID = ""
	s.CompletedNumbers = nil
	s.QuestionAnswers = make(map[int]int)
	s.ActiveQuestionType = domain.QuestionTypeChoice
	s.Snapshots = make(map[domain.Round]domain.RoundSnapshot)
	s.Selections = make(map[domain.Round][]string)
}

// Clone returns a deep copy.
func (s *State) Clone() *State {
	cp := &State{
		TotalQuestions:     s.TotalQuestions,
		CurrentRound:       s.CurrentRound,
		Players:            domain.ClonePlayers(s.Players),
		CurrentPlayerID:    s.CurrentPlayerID,
		CompletedNumbers:   append([]int(nil), s.CompletedNumbers...),
		QuestionAnswers:    make(map[int]int, len(s.QuestionAnswers)),
		ActiveQuestionType: s.ActiveQuestionType,
		Snapshots:          make(map[domain.Round]domain.RoundSnapshot, len(s.Snapshots)),
		Selections:         make(map[domain.Round][]string, len(s.Selections)),
		newID:              s.newID,
	}
	for q, idx := range s.QuestionAnswers {
		cp.QuestionAnswers[q] = idx
	}
	for r, snap := range s.Snapshots {
		cp.Snapshots[r] = snap.Clone()
	}
	for r, ids := range s.Selections {
		cp.Selections[r] = append([]string(nil), ids...)
	}
	return cp
}

// AddPlayer appends a zeroed player and returns its id.
func (s *State) AddPlayer(name, profileImage, affiliation string) string {
	id := s.newID()
	s.Players = append(s.Players, domain.Player{
		ID:           id,
		Name:         name,
		ProfileImage: profileImage,
		Affiliation:  affiliation,
	})
	return id
}

// RemovePlayer deletes the player and clears the current player if it was them.
func (s *State) RemovePlayer(id string) bool {
	idx := s.playerIndex(id)
	if idx < 0 {
		return false
	}
	s.Players = append(s.Players[:idx:idx], s.Players[idx+1:]...)
	if s.CurrentPlayerID == id {
		s.CurrentPlayerID = ""
	}
	return true
}

// SetCurrentPlayer selects the acting player. An empty id clears the selection;
// unknown ids are accepted and simply resolve to no current player.
func (s *State) SetCurrentPlayer(id string) {
	s.CurrentPlayerID = id
}

func (s *State) CurrentPlayer() (domain.Player, bool) {
	if s.CurrentPlayerID == "" {
		return domain.Player{}, false
	}
	return s.Player(s.CurrentPlayerID)
}

func (s *State) Player(id string) (domain.Player, bool) {
	idx := s.playerIndex(id)
	if idx < 0 {
		return domain.Player{}, false
	}
	return s.Players[idx].Clone(), true
}

// PlayerRankings orders players by score, keeping insertion order among ties.
func (s *State) PlayerRankings() []domain.Player {
	ranked := domain.ClonePlayers(s.Players)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

func (s *State) SetActiveQuestionType(t domain.QuestionType) error {
	if !t.Valid() {
		return domain.ErrInvalidQuestionType
	}
	s.ActiveQuestionType = t
	return nil
}

// MaxQuestionsPerPlayer is the regular quota for the live round.
func (s *State) MaxQuestionsPerPlayer() int {
	return Quota(s.TotalQuestions, len(s.Players))
}

// QuestionsPerPlayer rounds the share up, counting tie-breakers.
func (s *State) QuestionsPerPlayer() int {
	n := len(s.Players)
	if n == 0 {
		return 0
	}
	return (s.TotalQuestions + n - 1) / n
}

// TieBreakers is always derived from the live player count.
func (s *State) TieBreakers() []int {
	return TieBreakerSet(s.TotalQuestions, len(s.Players))
}

func (s *State) IsTieBreakerQuestion(q int) bool {
	return isTieBreaker(s.TotalQuestions, len(s.Players), q)
}

// HasPlayerReachedMaxQuestions counts only non-tie-breaker answers against the quota.
func (s *State) HasPlayerReachedMaxQuestions(playerID string) bool {
	idx := s.playerIndex(playerID)
	if idx < 0 {
		return false
	}
	regular := 0
	for _, a := range s.Players[idx].Answers {
		if !s.IsTieBreakerQuestion(a.Question) {
			regular++
		}
	}
	return regular >= s.MaxQuestionsPerPlayer()
}

// MarkQuestionCompleted spends q in the live round, records the answer index and,
// if a current player is set and has not answered q yet, scores it for them.
// Questions spent in another round are rejected.
func (s *State) MarkQuestionCompleted(q, answerIndex int, correct bool) error {
	if q < 1 || q > s.TotalQuestions {
		return domain.ErrQuestionOutOfRange
	}
	if !containsInt(s.CompletedNumbers, q) {
		if s.spentInOtherRound(q) {
			return domain.ErrQuestionSpent
		}
		s.CompletedNumbers = append(s.CompletedNumbers, q)
	}
	s.QuestionAnswers[q] = answerIndex

	if idx := s.playerIndex(s.CurrentPlayerID); idx >= 0 {
		s.Players[idx].RecordAnswer(q, correct)
	}
	return nil
}

// RevertQuestion removes q from the player's history and undoes its score.
// The question stays spent for everyone.
func (s *State) RevertQuestion(playerID string, q int) error {
	idx := s.playerIndex(playerID)
	if idx < 0 {
		return domain.ErrPlayerNotFound
	}
	if !s.Players[idx].RevertAnswer(q) {
		return domain.ErrNotAnswered
	}
	return nil
}

// IsQuestionCompleted reports whether q was spent in the live round.
func (s *State) IsQuestionCompleted(q int) bool {
	return containsInt(s.CompletedNumbers, q)
}

func (s *State) IsQuestionCompletedByPlayer(playerID string, q int) bool {
	idx := s.playerIndex(playerID)
	return idx >= 0 && s.Players[idx].HasAnswered(q)
}

func (s *State) CorrectAnswerIndex(q int) (int, bool) {
	idx, ok := s.QuestionAnswers[q]
	return idx, ok
}

// CurrentRoundCompletedNumbers returns the live round's spent questions in completion order.
func (s *State) CurrentRoundCompletedNumbers() []int {
	return append([]int{}, s.CompletedNumbers...)
}

// AllCompletedNumbers merges the live round with every other round's snapshot.
func (s *State) AllCompletedNumbers() []int {
	seen := make(map[int]struct{}, len(s.CompletedNumbers))
	for _, q := range s.CompletedNumbers {
		seen[q] = struct{}{}
	}
	for r, snap := range s.Snapshots {
		if r == s.CurrentRound {
			continue
		}
		for _, q := range snap.CompletedNumbers {
			seen[q] = struct{}{}
		}
	}
	out := make([]int, 0, len(seen))
	for q := range seen {
		out = append(out, q)
	}
	sort.Ints(out)
	return out
}

func (s *State) spentInOtherRound(q int) bool {
	for r, snap := range s.Snapshots {
		if r != s.CurrentRound && containsInt(snap.CompletedNumbers, q) {
			return true
		}
	}
	return false
}

// AvailableQuestionsForCurrentPlayer lists the questions the acting player may pick.
// Once the quota is reached only unspent tie-breakers remain.
func (s *State) AvailableQuestionsForCurrentPlayer() []int {
	current, ok := s.CurrentPlayer()
	if !ok {
		return []int{}
	}
	spent := make(map[int]struct{})
	for _, q := range s.AllCompletedNumbers() {
		spent[q] = struct{}{}
	}
	onlyTieBreakers := s.HasPlayerReachedMaxQuestions(current.ID)

	out := []int{}
	for q := 1; q <= s.TotalQuestions; q++ {
		if _, done := spent[q]; done {
			continue
		}
		if onlyTieBreakers && !s.IsTieBreakerQuestion(q) {
			continue
		}
		out = append(out, q)
	}
	return out
}

func (s *State) playerIndex(id string) int {
	if id == "" {
		return -1
	}
	for i := range s.Players {
		if s.Players[i].ID == id {
			return i
		}
	}
	return -1
}

func containsInt(values []int, v int) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
