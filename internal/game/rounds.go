package game

import "trivia-rounds/internal/domain"

// StartRound begins round n with the selected players of round n-1. The live
// round is saved into its snapshot first. Starting a round that already exists
// restarts it and discards every later round.
func (s *State) StartRound(n domain.Round, selected []string) error {
	if !n.Valid() || n == domain.RoundOne {
		return domain.ErrInvalidRound
	}
	prev := n - 1
	if !s.reachable(prev) {
		return domain.ErrRoundLocked
	}

	s.saveLive()
	base := s.Snapshots[prev]
	s.discardFrom(n)
	s.Selections[n] = uniqueIDs(selected)
	s.load(n, domain.RoundSnapshot{Players: filterPlayers(base.Players, selected)})
	return nil
}

// SwitchToRound saves the live round and loads round n. A round that has a
// selection but was never started opens with the selected players and no
// completed questions.
func (s *State) SwitchToRound(n domain.Round) error {
	if !n.Valid() {
		return domain.ErrInvalidRound
	}
	if !s.reachable(n) && !s.reachable(n-1) {
		return domain.ErrRoundLocked
	}

	s.saveLive()
	if snap, ok := s.Snapshots[n]; ok {
		s.load(n, snap.Clone())
		return nil
	}
	var base []domain.Player
	if n > domain.RoundOne {
		base = s.Snapshots[n-1].Players
	}
	s.load(n, domain.RoundSnapshot{Players: filterPlayers(base, s.Selections[n])})
	return nil
}

// ResetRound discards round n and everything after it. If one of those rounds is
// live, the live state returns to round n-1.
func (s *State) ResetRound(n domain.Round) error {
	if !n.Valid() || n == domain.RoundOne {
		return domain.ErrInvalidRound
	}
	prev, hasPrev := s.Snapshots[n-1]
	wasLive := s.CurrentRound >= n
	s.discardFrom(n)
	delete(s.Selections, n)
	if !wasLive {
		return nil
	}
	if hasPrev {
		s.load(n-1, prev.Clone())
	} else {
		s.load(n-1, domain.RoundSnapshot{})
	}
	return nil
}

// AddToSelection marks a player of round n-1 as advancing to round n.
func (s *State) AddToSelection(n domain.Round, playerID string) error {
	if !n.Valid() || n == domain.RoundOne {
		return domain.ErrInvalidRound
	}
	for _, id := range s.Selections[n] {
		if id == playerID {
			return nil
		}
	}
	s.Selections[n] = append(s.Selections[n], playerID)
	return nil
}

func (s *State) RemoveFromSelection(n domain.Round, playerID string) error {
	if !n.Valid() || n == domain.RoundOne {
		return domain.ErrInvalidRound
	}
	ids := s.Selections[n]
	for i, id := range ids {
		if id == playerID {
			s.Selections[n] = append(ids[:i:i], ids[i+1:]...)
			break
		}
	}
	return nil
}

func (s *State) Selection(n domain.Round) []string {
	return append([]string{}, s.Selections[n]...)
}

// SelectionCandidates returns round n-1's players that are selected for round n.
func (s *State) SelectionCandidates(n domain.Round) []domain.Player {
	if !n.Valid() || n == domain.RoundOne {
		return []domain.Player{}
	}
	return filterPlayers(s.RoundPlayers(n-1), s.Selections[n])
}

// RoundPlayers returns the players of round n, live or from its snapshot.
func (s *State) RoundPlayers(n domain.Round) []domain.Player {
	if n == s.CurrentRound {
		return domain.ClonePlayers(s.Players)
	}
	snap, ok := s.Snapshots[n]
	if !ok {
		return []domain.Player{}
	}
	return domain.ClonePlayers(snap.Players)
}

// reachable reports whether round r holds data: it is live or has a snapshot.
func (s *State) reachable(r domain.Round) bool {
	if r == s.CurrentRound {
		return true
	}
	_, ok := s.Snapshots[r]
	return ok
}

func (s *State) saveLive() {
	s.Snapshots[s.CurrentRound] = domain.RoundSnapshot{
		Players:          domain.ClonePlayers(s.Players),
		CompletedNumbers: append([]int{}, s.CompletedNumbers...),
		QuestionAnswers:  copyAnswers(s.QuestionAnswers),
		TieBreakers:      s.TieBreakers(),
	}
}

func (s *State) load(n domain.Round, snap domain.RoundSnapshot) {
	s.CurrentRound = n
	s.CurrentPlayerID = ""
	s.Players = snap.Players
	s.CompletedNumbers = snap.CompletedNumbers
	s.QuestionAnswers = snap.QuestionAnswers
	if s.QuestionAnswers == nil {
		s.QuestionAnswers = make(map[int]int)
	}
}

func (s *State) discardFrom(n domain.Round) {
	for r := n; r <= domain.MaxRound; r++ {
		delete(s.Snapshots, r)
		if r > n {
			delete(s.Selections, r)
		}
	}
}

func filterPlayers(players []domain.Player, ids []string) []domain.Player {
	keep := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		keep[id] = struct{}{}
	}
	out := []domain.Player{}
	for _, p := range players {
		if _, ok := keep[p.ID]; ok {
			out = append(out, p.Clone())
		}
	}
	return out
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func copyAnswers(in map[int]int) map[int]int {
	out := make(map[int]int, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
