package game

import "trivia-rounds/internal/domain"

// Board is the read model pushed to presentation clients after each change.
type Board struct {
	Round                 domain.Round              `json:"round"`
	TotalQuestions        int                       `json:"totalQuestions"`
	QuestionType          domain.QuestionType       `json:"questionType"`
	CurrentPlayer         *domain.Player            `json:"currentPlayer"`
	Rankings              []domain.Player           `json:"rankings"`
	Available             []int                     `json:"available"`
	Completed             []int                     `json:"completed"`
	CurrentRoundCompleted []int                     `json:"currentRoundCompleted"`
	TieBreakers           []int                     `json:"tieBreakers"`
	MaxQuestionsPerPlayer int                       `json:"maxQuestionsPerPlayer"`
	QuestionsPerPlayer    int                       `json:"questionsPerPlayer"`
	Selections            map[domain.Round][]string `json:"selections"`
	PlayedRounds          []domain.Round            `json:"playedRounds"`
}

func (s *State) Board() Board {
	b := Board{
		Round:                 s.CurrentRound,
		TotalQuestions:        s.TotalQuestions,
		QuestionType:          s.ActiveQuestionType,
		Rankings:              s.PlayerRankings(),
		Available:             s.AvailableQuestionsForCurrentPlayer(),
		Completed:             s.AllCompletedNumbers(),
		CurrentRoundCompleted: s.CurrentRoundCompletedNumbers(),
		TieBreakers:           s.TieBreakers(),
		MaxQuestionsPerPlayer: s.MaxQuestionsPerPlayer(),
		QuestionsPerPlayer:    s.QuestionsPerPlayer(),
		Selections:            make(map[domain.Round][]string, len(s.Selections)),
	}
	if p, ok := s.CurrentPlayer(); ok {
		b.CurrentPlayer = &p
	}
	for r, ids := range s.Selections {
		b.Selections[r] = append([]string{}, ids...)
	}
	for r := domain.RoundOne; r <= domain.MaxRound; r++ {
		if s.reachable(r) {
			b.PlayedRounds = append(b.PlayedRounds, r)
		}
	}
	return b
}
