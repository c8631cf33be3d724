package domain

// PointsPerCorrect is the score increment for a correct answer.
const PointsPerCorrect = 10

// DefaultTotalQuestions matches the size of the bundled question bank.
const DefaultTotalQuestions = 127

// Round identifies a competition phase, starting at RoundOne.
type Round int

const (
	RoundOne   Round = 1
	RoundTwo   Round = 2
	RoundThree Round = 3

	// MaxRound is the last round a game can advance to.
	MaxRound = RoundThree
)

// Valid reports whether r is a playable round.
func (r Round) Valid() bool {
	return r >= RoundOne && r <= MaxRound
}

// QuestionType selects which question bank the board is showing.
type QuestionType string

const (
	QuestionTypeChoice      QuestionType = "choice"
	QuestionTypeExplanation QuestionType = "explanation"
)

func (t QuestionType) Valid() bool {
	return t == QuestionTypeChoice || t == QuestionTypeExplanation
}

// Answer is one entry of a player's history.
type Answer struct {
	Question int  `json:"question"`
	Correct  bool `json:"correct"`
}

// Player is a contestant and their round-local record.
type Player struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	ProfileImage     string   `json:"profileImage"` // base64 data or URL
	Affiliation      string   `json:"affiliation"`
	Answers          []Answer `json:"answers"`
	CorrectAnswers   int      `json:"correctAnswers"`
	IncorrectAnswers int      `json:"incorrectAnswers"`
	Score            int      `json:"score"`
}

// QuestionsAnswered returns the answered question numbers in answer order.
func (p Player) QuestionsAnswered() []int {
	out := make([]int, len(p.Answers))
	for i, a := range p.Answers {
		out[i] = a.Question
	}
	return out
}

// HasAnswered reports whether q is in the player's history.
func (p Player) HasAnswered(q int) bool {
	return p.answerIndex(q) >= 0
}

func (p Player) answerIndex(q int) int {
	for i, a := range p.Answers {
		if a.Question == q {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy so snapshots never share history slices.
func (p Player) Clone() Player {
	cp := p
	cp.Answers = append([]Answer(nil), p.Answers...)
	return cp
}

// RecordAnswer appends q to the history and applies its scoring effect.
// It reports false when q was already answered.
func (p *Player) RecordAnswer(q int, correct bool) bool {
	if p.HasAnswered(q) {
		return false
	}
	p.Answers = append(p.Answers, Answer{Question: q, Correct: correct})
	if correct {
		p.CorrectAnswers++
		p.Score += PointsPerCorrect
	} else {
		p.IncorrectAnswers++
	}
	return true
}

// RevertAnswer removes q from the history and undoes its scoring effect.
func (p *Player) RevertAnswer(q int) bool {
	idx := p.answerIndex(q)
	if idx < 0 {
		return false
	}
	removed := p.Answers[idx]
	p.Answers = append(p.Answers[:idx:idx], p.Answers[idx+1:]...)
	if removed.Correct {
		p.CorrectAnswers--
		p.Score -= PointsPerCorrect
	} else {
		p.IncorrectAnswers--
	}
	return true
}

// ClonePlayers deep-copies a player list. The result is never nil.
func ClonePlayers(players []Player) []Player {
	out := make([]Player, len(players))
	for i, p := range players {
		out[i] = p.Clone()
	}
	return out
}

// RoundSnapshot is the frozen state of a round that is not currently live.
type RoundSnapshot struct {
	Players          []Player    `json:"players"`
	CompletedNumbers []int       `json:"completedNumbers"`
	QuestionAnswers  map[int]int `json:"questionAnswers"`
	TieBreakers      []int       `json:"tieBreakers"`
}

// Clone returns a value copy of the snapshot.
func (s RoundSnapshot) Clone() RoundSnapshot {
	answers := make(map[int]int, len(s.QuestionAnswers))
	for k, v := range s.QuestionAnswers {
		answers[k] = v
	}
	return RoundSnapshot{
		Players:          ClonePlayers(s.Players),
		CompletedNumbers: append([]int(nil), s.CompletedNumbers...),
		QuestionAnswers:  answers,
		TieBreakers:      append([]int(nil), s.TieBreakers...),
	}
}
