package game

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"trivia-rounds/internal/domain"
)

// SchemaVersion tags every persisted record.
const SchemaVersion = 1

type envelope struct {
	Version int    `json:"version"`
	State   *State `json:"state"`
}

// Encode serializes the whole state into one versioned record.
func Encode(s *State) ([]byte, error) {
	data, err := json.Marshal(envelope{Version: SchemaVersion, State: s})
	if err != nil {
		return nil, fmt.Errorf("encode game state: %w", err)
	}
	return data, nil
}

// Decode restores a record written by Encode.
func Decode(data []byte) (*State, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode game state: %w", err)
	}
	if env.Version != SchemaVersion {
		return nil, fmt.Errorf("%w: %d", domain.ErrSchemaVersion, env.Version)
	}
	if env.State == nil {
		return nil, fmt.Errorf("decode game state: empty record")
	}
	s := env.State
	s.newID = func() string { return uuid.New().String() }
	if !s.CurrentRound.Valid() {
		s.CurrentRound = domain.RoundOne
	}
	if s.QuestionAnswers == nil {
		s.QuestionAnswers = make(map[int]int)
	}
	if s.Snapshots == nil {
		s.Snapshots = make(map[domain.Round]domain.RoundSnapshot)
	}
	if s.Selections == nil {
		s.Selections = make(map[domain.Round][]string)
	}
	if !s.ActiveQuestionType.Valid() {
		s.ActiveQuestionType = domain.QuestionTypeChoice
	}
	return s, nil
}
